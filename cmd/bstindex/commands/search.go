package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/bstindex/internal/dataset"
	"github.com/Sumatoshi-tech/bstindex/pkg/bst"
)

const (
	searchCmdUse   = "search <key>"
	searchCmdShort = "Print the values stored under a key"
	searchArgCount = 1

	queryCmdUse   = "query"
	queryCmdShort = "Print the values of every key inside a bound range, in key order"
	queryCmdLong  = `Print the values of every key satisfying all given bounds, in ascending key
order. Without bounds every value is printed. Redundant bounds are tightened:
--gt 3 --gte 5 behaves as --gte 5.`

	flagGT  = "gt"
	flagGTE = "gte"
	flagLT  = "lt"
	flagLTE = "lte"
	flagNE  = "ne"
)

func newSearchCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   searchCmdUse,
		Short: searchCmdShort,
		Args:  cobra.ExactArgs(searchArgCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(ctx context.Context, sess *session) error {
				key, err := dataset.ParseKey(sess.keyType, args[0])
				if err != nil {
					return fmt.Errorf("parse key: %w", err)
				}

				return printValues(cmd.OutOrStdout(), sess.index.Search(ctx, key))
			})
		},
	}
}

// boundFlags holds the raw text of the query bound flags.
type boundFlags struct {
	gt, gte, lt, lte, ne string
}

func newQueryCommand(opts *rootOptions) *cobra.Command {
	var bounds boundFlags

	cmd := &cobra.Command{
		Use:   queryCmdUse,
		Short: queryCmdShort,
		Long:  queryCmdLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, opts, func(ctx context.Context, sess *session) error {
				constraints, err := bounds.constraints(cmd, sess.keyType)
				if err != nil {
					return err
				}

				return printValues(cmd.OutOrStdout(), sess.index.Query(ctx, constraints))
			})
		},
	}

	cmd.Flags().StringVar(&bounds.gt, flagGT, "", "keys strictly greater than")
	cmd.Flags().StringVar(&bounds.gte, flagGTE, "", "keys greater than or equal to")
	cmd.Flags().StringVar(&bounds.lt, flagLT, "", "keys strictly less than")
	cmd.Flags().StringVar(&bounds.lte, flagLTE, "", "keys less than or equal to")
	cmd.Flags().StringVar(&bounds.ne, flagNE, "", "keys different from")

	return cmd
}

// constraints parses every flag the user set into a bound.
func (b boundFlags) constraints(cmd *cobra.Command, kt dataset.KeyType) (bst.Constraints[any], error) {
	var c bst.Constraints[any]

	builders := []struct {
		flag  string
		raw   string
		apply func(bst.Constraints[any], any) bst.Constraints[any]
	}{
		{flagGT, b.gt, bst.Constraints[any].GT},
		{flagGTE, b.gte, bst.Constraints[any].GTE},
		{flagLT, b.lt, bst.Constraints[any].LT},
		{flagLTE, b.lte, bst.Constraints[any].LTE},
		{flagNE, b.ne, bst.Constraints[any].NE},
	}

	for _, builder := range builders {
		if !cmd.Flags().Changed(builder.flag) {
			continue
		}

		key, err := dataset.ParseKey(kt, builder.raw)
		if err != nil {
			return c, fmt.Errorf("--%s: %w", builder.flag, err)
		}

		c = builder.apply(c, key)
	}

	return c, nil
}

func printValues(w io.Writer, values []any) error {
	for _, value := range values {
		_, err := fmt.Fprintln(w, formatValue(value))
		if err != nil {
			return fmt.Errorf("write result: %w", err)
		}
	}

	return nil
}
