package commands

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/bstindex/internal/observability"
)

const (
	statsCmdUse   = "stats"
	statsCmdShort = "Print the shape of the index and, optionally, its operation metrics"

	flagPrometheus      = "prometheus"
	flagPrometheusUsage = "append the operation metrics in Prometheus text exposition format"

	noKey = "-"
)

func newStatsCommand(opts *rootOptions) *cobra.Command {
	var prometheus bool

	cmd := &cobra.Command{
		Use:   statsCmdUse,
		Short: statsCmdShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, opts, func(_ context.Context, sess *session) error {
				out := cmd.OutOrStdout()

				_, err := fmt.Fprintln(out, renderStats(sess))
				if err != nil {
					return fmt.Errorf("write stats: %w", err)
				}

				if !prometheus {
					return nil
				}

				return observability.WriteMetrics(out, sess.providers.Registry)
			})
		},
	}

	cmd.Flags().BoolVar(&prometheus, flagPrometheus, false, flagPrometheusUsage)

	return cmd
}

func renderStats(sess *session) string {
	minKey, maxKey := noKey, noKey

	if key, ok := sess.index.Min(); ok {
		minKey = formatKey(key)
	}

	if key, ok := sess.index.Max(); ok {
		maxKey = formatKey(key)
	}

	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Options.SeparateColumns = false

	tbl.AppendRows([]table.Row{
		{"records", humanize.Comma(int64(sess.records))},
		{"keys", humanize.Comma(int64(sess.index.Count()))},
		{"nodes", humanize.Comma(int64(sess.index.Nodes()))},
		{"height", sess.index.Height()},
		{"min key", minKey},
		{"max key", maxKey},
		{"key type", string(sess.keyType)},
		{"unique", sess.cfg.Index.Unique},
	})

	return tbl.Render()
}
