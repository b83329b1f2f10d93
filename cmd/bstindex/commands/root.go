// Package commands implements the bstindex subcommands. Every data command
// loads the configured dataset into a fresh in-memory index before running.
package commands

import (
	"github.com/spf13/cobra"
)

const (
	rootCmdUse   = "bstindex"
	rootCmdShort = "Build and query an in-memory ordered index over a dataset"
	rootCmdLong  = `bstindex loads key/value records from a YAML or JSON dataset into an
ordered binary search tree index and answers lookups and range queries.

Commands:
  search    Values stored under one key
  query     Values of every key inside a bound range
  validate  Structural check of the index
  dump      In-order table of keys and values
  stats     Index shape and operation metrics
  version   Build information`

	flagConfig      = "config"
	flagConfigShort = "c"
	flagConfigUsage = "config file (default: ./.bstindex.yaml or $HOME/.bstindex.yaml)"

	flagData      = "data"
	flagDataShort = "d"
	flagDataUsage = "dataset file (YAML or JSON)"

	flagVerbose      = "verbose"
	flagVerboseShort = "v"
	flagVerboseUsage = "debug logging"
)

// rootOptions carries the persistent flags into the subcommands.
type rootOptions struct {
	configPath string
	dataPath   string
	verbose    bool
}

// NewRootCommand creates the bstindex command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           rootCmdUse,
		Short:         rootCmdShort,
		Long:          rootCmdLong,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, flagConfig, flagConfigShort, "", flagConfigUsage)
	flags.StringVarP(&opts.dataPath, flagData, flagDataShort, "", flagDataUsage)
	flags.BoolVarP(&opts.verbose, flagVerbose, flagVerboseShort, false, flagVerboseUsage)

	rootCmd.AddCommand(
		newSearchCommand(opts),
		newQueryCommand(opts),
		newValidateCommand(opts),
		newDumpCommand(opts),
		newStatsCommand(opts),
		newVersionCommand(),
	)

	return rootCmd
}
