// mbneck searches recorded neck traces for the input sequences that stand the
// character up, easiest first.
//
// Usage:
//
//	mbneck search --trace=<path> [--config=<yaml>] [--png=<out.png>] [--db=<runs.db>]
//	mbneck validate --trace=<path> | --fixture=<json>
//	mbneck sweep --trace=<path> [--max-len=N]
//	mbneck runs [--db=<runs.db>] [<run-id>]
//	mbneck fixture <run-id> --out=<fixture.json> [--top=N]
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

type rootFlags struct {
	config    string
	logLevel  string
	logFormat string
}

func newRootCmd() *cobra.Command {
	var flags rootFlags
	root := &cobra.Command{
		Use:   "mbneck",
		Short: "Find the easiest input sequences for the neck stand-up",
		Long: "mbneck replays a recorded neck trace, builds the graph of every reachable\n" +
			"joint state, and ranks the input sequences that end stood up by how hard\n" +
			"they are to perform.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.config, "config", "", "YAML config file")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&flags.logFormat, "log-format", "", "Log format: text or json")

	root.AddCommand(newSearchCmd(&flags))
	root.AddCommand(newValidateCmd(&flags))
	root.AddCommand(newSweepCmd(&flags))
	root.AddCommand(newRunsCmd(&flags))
	root.AddCommand(newFixtureCmd(&flags))
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
