package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

const (
	dumpCmdUse   = "dump"
	dumpCmdShort = "Print every key with its values in ascending key order"

	valueSeparator = ", "
)

func newDumpCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   dumpCmdUse,
		Short: dumpCmdShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, opts, func(_ context.Context, sess *session) error {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), renderDump(sess))
				if err != nil {
					return fmt.Errorf("write dump: %w", err)
				}

				return nil
			})
		},
	}
}

func renderDump(sess *session) string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Options.SeparateColumns = false

	tbl.AppendHeader(table.Row{"#", "key", "values"})

	values := 0
	position := 0

	sess.index.Walk(func(key any, vals []any) {
		position++
		values += len(vals)

		rendered := make([]string, 0, len(vals))
		for _, v := range vals {
			rendered = append(rendered, formatValue(v))
		}

		tbl.AppendRow(table.Row{position, formatKey(key), strings.Join(rendered, valueSeparator)})
	})

	tbl.AppendFooter(table.Row{"", "Total", fmt.Sprintf("%s keys, %s values",
		humanize.Comma(int64(position)), humanize.Comma(int64(values)))})

	return tbl.Render()
}
