package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/bstindex/pkg/bst"
)

const (
	validateCmdUse   = "validate"
	validateCmdShort = "Check the ordering and parent links of the whole index"

	flagNoColor      = "no-color"
	flagNoColorUsage = "disable coloured output"
)

// ErrIndexCorrupt is returned by validate when the structural check fails.
var ErrIndexCorrupt = errors.New("index failed validation")

func newValidateCommand(opts *rootOptions) *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:   validateCmdUse,
		Short: validateCmdShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if noColor {
				color.NoColor = true //nolint:reassign // intentional override of library global
			}

			return withSession(cmd, opts, func(ctx context.Context, sess *session) error {
				return reportValidation(cmd, sess.index.Validate(ctx), sess)
			})
		},
	}

	cmd.Flags().BoolVar(&noColor, flagNoColor, false, flagNoColorUsage)

	return cmd
}

func reportValidation(cmd *cobra.Command, validateErr error, sess *session) error {
	out := cmd.OutOrStdout()

	if validateErr == nil {
		color.New(color.FgGreen).Fprintf(out, "index is valid: %s keys, height %d\n",
			humanize.Comma(int64(sess.index.Count())), sess.index.Height())

		return nil
	}

	color.New(color.FgRed).Fprintf(out, "index is corrupt\n")

	var verr *bst.ValidationError
	if errors.As(validateErr, &verr) {
		color.New(color.FgYellow).Fprintf(out, "  %v at key %s\n", verr.Kind, formatKey(verr.Key))
	}

	return fmt.Errorf("%w: %w", ErrIndexCorrupt, validateErr)
}
