package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"csorder/internal/diag"
	"csorder/internal/driver"
	"csorder/internal/fix"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] <file.cs|directory>",
	Short: "Rewrite files so that declarations and usings are in order",
	Long: `Run diagnostics, apply the available fixes and re-analyse until the file is
stable or --max-passes is reached. Comments, blank lines and preprocessor
regions travel with the declarations they belong to.`,
	Args: cobra.ExactArgs(1),
	RunE: runFix,
}

func init() {
	fixCmd.Flags().Bool("all", false, "apply all safe fixes in each pass")
	fixCmd.Flags().Bool("once", false, "apply the first available fix in each pass (default)")
	fixCmd.Flags().String("id", "", "apply the fix with a specific identifier (single pass)")
	fixCmd.Flags().Int("max-passes", fix.DefaultMaxPasses, "maximum analyse-and-fix passes per file")
	fixCmd.Flags().Bool("dry-run", false, "print a unified diff instead of writing files")
	addRuleFlags(fixCmd)
}

func runFix(cmd *cobra.Command, args []string) error {
	targetPath := args[0]

	applyAll, err := cmd.Flags().GetBool("all")
	if err != nil {
		return err
	}
	applyOnceFlag, err := cmd.Flags().GetBool("once")
	if err != nil {
		return err
	}
	targetID, err := cmd.Flags().GetString("id")
	if err != nil {
		return err
	}
	maxPasses, err := cmd.Flags().GetInt("max-passes")
	if err != nil {
		return err
	}
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return err
	}

	if targetID != "" && (applyAll || applyOnceFlag) {
		return fmt.Errorf("--id cannot be combined with --all or --once")
	}
	if applyAll && applyOnceFlag {
		return fmt.Errorf("--all and --once are mutually exclusive")
	}

	mode := fix.ApplyModeOnce
	if targetID != "" {
		mode = fix.ApplyModeID
	} else if applyAll {
		mode = fix.ApplyModeAll
	}

	info, err := os.Stat(targetPath)
	if err != nil {
		return fmt.Errorf("fix: %w", err)
	}
	// id уникален только в пределах одного файла
	if info.IsDir() && targetID != "" {
		return fmt.Errorf("fix: id can only be used with a single file")
	}

	pol, err := loadPolicy(cmd, targetPath)
	if err != nil {
		return err
	}
	diagOpts, err := baseDiagnoseOptions(cmd, pol)
	if err != nil {
		return err
	}
	opts := driver.FixOptions{
		Diagnose:  diagOpts,
		Apply:     fix.ApplyOptions{Mode: mode, TargetID: targetID},
		MaxPasses: maxPasses,
		DryRun:    dryRun,
	}

	var results []*driver.FixFileResult
	if !info.IsDir() {
		res, err := driver.FixFile(cmd.Context(), targetPath, opts)
		if err != nil {
			return err
		}
		results = []*driver.FixFileResult{res}
	} else {
		jobs, err := jobsFlag(cmd)
		if err != nil {
			return err
		}
		useUI, err := wantsUI(cmd)
		if err != nil {
			return err
		}
		results, err = runDirectory(cmd.Context(), "fix "+targetPath, targetPath, useUI && !dryRun,
			func(ctx context.Context, sink driver.ProgressSink) ([]*driver.FixFileResult, error) {
				return driver.FixDir(ctx, targetPath, opts, jobs, sink)
			})
		if err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	failed := false
	for _, res := range results {
		if res == nil {
			continue
		}
		if dryRun {
			if err := printDiff(out, res); err != nil {
				return err
			}
		} else {
			printFixReport(out, res)
		}
		for _, d := range res.Iterate.Remaining {
			if d.Severity == diag.SevError {
				failed = true
			}
		}
	}
	if failed {
		return errFindings
	}
	return nil
}

// printDiff печатает unified diff исходной и исправленной версии.
func printDiff(out io.Writer, res *driver.FixFileResult) error {
	if !res.Changed() {
		return nil
	}
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(res.Before.Content)),
		B:        difflib.SplitLines(string(res.After.Content)),
		FromFile: res.Path,
		ToFile:   res.Path + " (fixed)",
		Context:  3,
	})
	if err != nil {
		return fmt.Errorf("diff %s: %w", res.Path, err)
	}
	_, err = io.WriteString(out, text)
	return err
}

func printFixReport(out io.Writer, res *driver.FixFileResult) {
	it := res.Iterate
	if len(it.Applied) == 0 && len(it.Skipped) == 0 && len(it.Remaining) == 0 {
		return
	}
	fmt.Fprintf(out, "== %s ==\n", res.Path)
	if len(it.Applied) > 0 {
		fmt.Fprintf(out, "Applied %d fix(es) in %d pass(es):\n", len(it.Applied), it.Passes)
		for _, item := range it.Applied {
			fmt.Fprintf(out, "  %s [%s] (%d edits, %s)\n", item.Title, item.ID, item.EditCount, item.Applicability.String())
		}
	}
	if len(it.Skipped) > 0 {
		fmt.Fprintln(out, "Skipped fixes:")
		for _, skip := range it.Skipped {
			id := skip.ID
			if id == "" {
				id = "(unnamed)"
			}
			fmt.Fprintf(out, "  %s [%s]: %s\n", skip.Title, id, skip.Reason)
		}
	}
	if !it.Converged {
		fmt.Fprintf(out, "Stopped after %d pass(es); fixes are still applicable.\n", it.Passes)
	}
	if n := len(it.Remaining); n > 0 {
		fmt.Fprintf(out, "%d diagnostic(s) remain.\n", n)
	}
	if res.Written {
		fmt.Fprintln(out, "File updated.")
	} else if len(it.Applied) == 0 {
		fmt.Fprintln(out, "No fixes applied.")
	}
}
