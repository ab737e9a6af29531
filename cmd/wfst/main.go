// Command wfst is the stack-based command-line front end to the WFST
// toolkit: tokens are read left to right, building up a stack
// of machines via constructors, unary/binary operators, and grouping, then
// an application operator (--save, --train, --align, ...) reports a JSON
// result on stdout.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wfstgo/wfst/cmd/wfst/internal/stack"
	"github.com/wfstgo/wfst/wfstlog"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var verbose bool
	var logLevel string
	rest := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--verbose":
			verbose = true
		case "--log-level":
			if i+1 < len(args) {
				logLevel = args[i+1]
				i++
			}
		default:
			rest = append(rest, args[i])
		}
	}
	_ = logLevel // reserved for a future zap level mapping; not load-bearing today

	root := &cobra.Command{
		Use:           "wfst",
		Short:         "Build, compose, train, and decode weighted finite-state transducers",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := wfstlog.New(verbose)
			if err != nil {
				return err
			}
			defer logger.Sync()

			reporter := wfstlog.NewReporter(logger, nil)
			engine := stack.NewEngine(reporter)

			out, err := engine.Run(rest)
			if err != nil {
				return err
			}

			pretty, err := prettyJSON(out)
			if err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, pretty)

			return nil
		},
	}
	root.DisableFlagParsing = true

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		return 1
	}

	return 0
}

func prettyJSON(raw json.RawMessage) (string, error) {
	buf, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return "", err
	}

	return string(buf), nil
}
