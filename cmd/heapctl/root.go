package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/heapkit/arena"
)

// globalOptions holds the persistent flags shared by every subcommand.
type globalOptions struct {
	verbose bool
	quiet   bool
	jsonOut bool
	noColor bool
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "heapctl",
		Short: "Exercise and inspect the implicit boundary-tag allocator",
		Long: `heapctl drives an implicit boundary-tag heap: it measures fragmentation
under a randomized workload for each search strategy, prints the reference
block layouts, and renders block maps of a heap after a run.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			setupLogging(cmd.ErrOrStderr(), opts)
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose output (allocation trace)")
	cmd.PersistentFlags().
		BoolVarP(&opts.quiet, "quiet", "q", false, "Suppress all output except errors")
	cmd.PersistentFlags().BoolVar(&opts.jsonOut, "json", false, "Output in JSON format")
	cmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	cmd.AddCommand(
		newBenchCmd(opts),
		newDemoCmd(opts),
		newLayoutCmd(opts),
		newVersionCmd(opts),
	)
	return cmd
}

func execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// setupLogging installs a tint handler as the default slog logger. Verbose
// mode also routes the arena's allocation trace through it.
func setupLogging(w io.Writer, opts *globalOptions) {
	level := slog.LevelInfo
	switch {
	case opts.quiet:
		level = slog.LevelError
	case opts.verbose:
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(w, &tint.Options{
		Level:   level,
		NoColor: opts.noColor,
	}))
	slog.SetDefault(logger)

	if opts.verbose {
		arena.SetDefaultLogger(logger.With("component", "arena"))
	} else {
		arena.SetDefaultLogger(nil)
	}
}

// Helper functions for output

// newPrinter returns a printer that groups digits the English way.
func newPrinter() *message.Printer {
	return message.NewPrinter(language.English)
}

// printInfo prints an info message unless quiet mode is on.
func printInfo(w io.Writer, opts *globalOptions, format string, args ...any) {
	if !opts.quiet {
		newPrinter().Fprintf(w, format, args...)
	}
}

// printJSON outputs data as indented JSON.
func printJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// parseStrategies resolves strategy names; an empty list selects all.
func parseStrategies(names []string) ([]arena.Strategy, error) {
	if len(names) == 0 {
		return arena.Strategies(), nil
	}
	out := make([]arena.Strategy, 0, len(names))
	for _, n := range names {
		s, err := arena.ParseStrategy(n)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
