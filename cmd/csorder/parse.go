package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"csorder/internal/diagfmt"
	"csorder/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] file.cs",
	Short: "Print the declaration tree of a C# source file",
	Long: `Parse a C# source file and print its declaration tree: usings, namespaces,
types and members with their modifiers and spans.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runParse(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	pol, err := loadPolicy(cmd, filePath)
	if err != nil {
		return err
	}

	result, err := driver.Parse(cmd.Context(), filePath, pol, maxDiagnostics)
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}

	if result.Bag.Len() > 0 {
		colored, err := useColor(cmd, os.Stderr)
		if err != nil {
			return err
		}
		diagfmt.Pretty(os.Stderr, result.Bag, result.FileSet, diagfmt.PrettyOpts{Color: colored, Context: 2})
	}

	out := cmd.OutOrStdout()
	switch format {
	case "pretty":
		return diagfmt.FormatDeclsPretty(out, result.Tree, result.FileSet)
	case "json":
		return diagfmt.FormatDeclsJSON(out, result.Tree)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
