package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"csorder/internal/version"
)

// errFindings сигнализирует ненулевой код выхода без сообщения:
// диагностики уже напечатаны.
var errFindings = errors.New("findings reported")

var rootCmd = &cobra.Command{
	Use:   "csorder",
	Short: "C# declaration ordering and using placement checker",
	Long: `csorder checks the order of C# declarations and the placement of using
directives against a configurable ordering policy (SA1200-SA1217) and
rewrites files so that the order is restored without losing comments,
blank lines or preprocessor regions.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupRun,
	PersistentPostRun: func(cmd *cobra.Command, args []string) { teardownRun(cmd, nil) },
}

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(diagCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	flags := rootCmd.PersistentFlags()
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Bool("quiet", false, "suppress non-essential output")
	flags.Bool("verbose", false, "log progress details to stderr")
	flags.Bool("timings", false, "show timing information")
	flags.Int("max-diagnostics", 100, "maximum number of diagnostics per file (0 = unlimited)")
	flags.String("config", "", "ordering policy file (default: discovered csorder.toml / .csorder.yaml)")
	flags.Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	flags.String("ui", "auto", "progress view for directory runs (auto|on|off)")
	flags.String("trace", "", "trace output file (\"-\" for stderr)")
	flags.String("trace-level", "off", "trace level (off|error|phase|detail)")
	flags.String("trace-mode", "stream", "trace storage mode (stream|ring|both)")
	flags.String("trace-format", "auto", "trace stream format (auto|text|ndjson); auto picks ndjson for .ndjson/.json files")
	flags.Int("trace-ring-size", 4096, "ring buffer size for ring trace mode")
	flags.Duration("trace-heartbeat", 0, "emit trace heartbeat at this interval (0 = off)")
	flags.String("cpu-profile", "", "write a CPU profile to file")
	flags.String("mem-profile", "", "write a heap profile to file")
	flags.String("runtime-trace", "", "write a Go runtime trace to file")
}

func main() {
	err := rootCmd.Execute()
	// PersistentPostRun не вызывается, если команда вернула ошибку
	teardownRun(rootCmd, err)
	if err == nil {
		return
	}
	if !errors.Is(err, errFindings) {
		fmt.Fprintf(os.Stderr, "csorder: %v\n", err)
	}
	os.Exit(1)
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// useColor resolves --color for the given stream.
func useColor(cmd *cobra.Command, f *os.File) (bool, error) {
	value, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch value {
	case "on", "always":
		return true, nil
	case "off", "never":
		return false, nil
	case "auto", "":
		return isTerminal(f), nil
	}
	return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
}
