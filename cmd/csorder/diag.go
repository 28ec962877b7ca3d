package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/spf13/cobra"

	"csorder/internal/diag"
	"csorder/internal/diagfmt"
	"csorder/internal/driver"
	"csorder/internal/observ"
	"csorder/internal/source"
	"csorder/internal/version"
)

var diagCmd = &cobra.Command{
	Use:   "diag [flags] <file.cs|directory>",
	Short: "Report ordering and placement violations",
	Long: `Run diagnostics on a C# source file or on every *.cs file of a directory
(bin/ and obj/ are skipped). Exits with status 1 when any error is reported.`,
	Args: cobra.ExactArgs(1),
	RunE: runDiagnose,
}

func init() {
	diagCmd.Flags().String("format", "pretty", "output format (pretty|json|sarif|short)")
	diagCmd.Flags().String("stage", "all", "diagnostic stage to run (tokenize|syntax|all)")
	diagCmd.Flags().Bool("no-warnings", false, "ignore warnings in diagnostics")
	diagCmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
	diagCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	diagCmd.Flags().Bool("suggest", false, "include fix suggestions in output")
	diagCmd.Flags().Bool("preview", false, "show fix previews (implies --suggest)")
	diagCmd.Flags().String("path-mode", "auto", "how to print file paths (auto|absolute|relative|basename)")
	diagCmd.Flags().Int8("context", 2, "source lines of context around each diagnostic")
	diagCmd.Flags().Bool("cache", false, "skip files recorded as clean in the disk cache")
	diagCmd.Flags().Bool("clear-cache", false, "drop the disk cache before running")
	addRuleFlags(diagCmd)
}

// renderOptions are the resolved output flags of diag.
type renderOptions struct {
	format    string
	withNotes bool
	showFixes bool
	preview   bool
	pathMode  diagfmt.PathMode
	context   int8
	color     bool
	timings   bool
}

func readRenderOptions(cmd *cobra.Command) (renderOptions, error) {
	var ro renderOptions
	var err error
	if ro.format, err = cmd.Flags().GetString("format"); err != nil {
		return ro, fmt.Errorf("failed to get format flag: %w", err)
	}
	switch ro.format {
	case "pretty", "json", "sarif", "short":
	default:
		return ro, fmt.Errorf("unknown format: %s", ro.format)
	}
	if ro.withNotes, err = cmd.Flags().GetBool("with-notes"); err != nil {
		return ro, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	suggest, err := cmd.Flags().GetBool("suggest")
	if err != nil {
		return ro, fmt.Errorf("failed to get suggest flag: %w", err)
	}
	if ro.preview, err = cmd.Flags().GetBool("preview"); err != nil {
		return ro, fmt.Errorf("failed to get preview flag: %w", err)
	}
	ro.showFixes = suggest || ro.preview
	pathMode, err := cmd.Flags().GetString("path-mode")
	if err != nil {
		return ro, fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	if ro.pathMode, err = diagfmt.ParsePathMode(pathMode); err != nil {
		return ro, err
	}
	if ro.context, err = cmd.Flags().GetInt8("context"); err != nil {
		return ro, fmt.Errorf("failed to get context flag: %w", err)
	}
	if ro.color, err = useColor(cmd, os.Stdout); err != nil {
		return ro, err
	}
	if ro.timings, err = cmd.Root().PersistentFlags().GetBool("timings"); err != nil {
		return ro, fmt.Errorf("failed to get timings flag: %w", err)
	}
	return ro, nil
}

func (ro renderOptions) pretty() diagfmt.PrettyOpts {
	return diagfmt.PrettyOpts{
		Color:       ro.color,
		Context:     ro.context,
		PathMode:    ro.pathMode,
		ShowNotes:   ro.withNotes,
		ShowFixes:   ro.showFixes,
		ShowPreview: ro.preview,
	}
}

func (ro renderOptions) json() diagfmt.JSONOpts {
	return diagfmt.JSONOpts{
		IncludePositions: true,
		PathMode:         ro.pathMode,
		IncludeNotes:     ro.withNotes,
		IncludeFixes:     ro.showFixes,
		IncludePreviews:  ro.preview,
	}
}

// runDiagnose executes the "diag" command for a file or a directory and
// returns errFindings when an error-level diagnostic was reported.
func runDiagnose(cmd *cobra.Command, args []string) error {
	target := args[0]

	ro, err := readRenderOptions(cmd)
	if err != nil {
		return err
	}
	stageStr, err := cmd.Flags().GetString("stage")
	if err != nil {
		return fmt.Errorf("failed to get stage flag: %w", err)
	}
	stage, err := driver.ParseStage(stageStr)
	if err != nil {
		return err
	}
	noWarnings, err := cmd.Flags().GetBool("no-warnings")
	if err != nil {
		return fmt.Errorf("failed to get no-warnings flag: %w", err)
	}
	warningsAsErrors, err := cmd.Flags().GetBool("warnings-as-errors")
	if err != nil {
		return fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}
	if noWarnings && warningsAsErrors {
		return fmt.Errorf("no-warnings and warnings-as-errors flags cannot be used together")
	}

	st, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}
	pol, err := loadPolicy(cmd, target)
	if err != nil {
		return err
	}
	opts, err := baseDiagnoseOptions(cmd, pol)
	if err != nil {
		return err
	}
	opts.Stage = stage
	opts.IgnoreWarnings = noWarnings
	opts.WarningsAsErrors = warningsAsErrors
	if opts.Cache, err = openCache(cmd); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	meta := diagfmt.SarifRunMeta{ToolName: "csorder", ToolVersion: version.Version, InvocationArgs: os.Args[1:]}

	var failed bool
	if !st.IsDir() {
		res, err := driver.DiagnoseFile(cmd.Context(), target, opts)
		if err != nil {
			return fmt.Errorf("diagnosis failed: %w", err)
		}
		failed = res.Bag.HasErrors()
		if err := renderFile(out, res, ro, meta); err != nil {
			return err
		}
	} else {
		jobs, err := jobsFlag(cmd)
		if err != nil {
			return err
		}
		useUI, err := wantsUI(cmd)
		if err != nil {
			return err
		}
		type dirRun struct {
			fs      *source.FileSet
			results []driver.DiagnoseDirResult
		}
		run, err := runDirectory(cmd.Context(), "diag "+target, target, useUI && ro.format == "pretty",
			func(ctx context.Context, sink driver.ProgressSink) (dirRun, error) {
				fs, results, err := driver.DiagnoseDir(ctx, target, opts, jobs, sink)
				return dirRun{fs: fs, results: results}, err
			})
		if err != nil {
			return fmt.Errorf("diagnosis failed: %w", err)
		}
		for _, r := range run.results {
			if r.Result != nil && r.Result.Bag.HasErrors() {
				failed = true
			}
		}
		if err := renderDir(out, run.fs, run.results, ro, meta); err != nil {
			return err
		}
	}

	if failed {
		return errFindings
	}
	return nil
}

// openCache honours --cache / --clear-cache. A cache that cannot be opened
// is logged and skipped.
func openCache(cmd *cobra.Command) (*driver.DiskCache, error) {
	enabled, err := cmd.Flags().GetBool("cache")
	if err != nil {
		return nil, fmt.Errorf("failed to get cache flag: %w", err)
	}
	clearCache, err := cmd.Flags().GetBool("clear-cache")
	if err != nil {
		return nil, fmt.Errorf("failed to get clear-cache flag: %w", err)
	}
	if !enabled && !clearCache {
		return nil, nil
	}
	cache, err := driver.OpenDiskCache("csorder")
	if err != nil {
		logger.Warn().Err(err).Msg("disk cache disabled")
		return nil, nil
	}
	if clearCache {
		if err := cache.DropAll(); err != nil {
			logger.Warn().Err(err).Str("dir", cache.Dir()).Msg("failed to clear disk cache")
		} else {
			logger.Info().Str("dir", cache.Dir()).Msg("disk cache cleared")
		}
	}
	if !enabled {
		return nil, nil
	}
	return cache, nil
}

func renderFile(out io.Writer, res *driver.DiagnoseResult, ro renderOptions, meta diagfmt.SarifRunMeta) error {
	switch ro.format {
	case "pretty":
		diagfmt.Pretty(out, res.Bag, res.FileSet, ro.pretty())
		if ro.timings && res.Timing != nil {
			fmt.Fprint(os.Stderr, res.Timing.Summary())
		}
	case "short":
		if s := diag.FormatShort(res.Bag.Items(), res.FileSet, ro.withNotes); s != "" {
			fmt.Fprintln(out, s)
		}
	case "json":
		output := diagfmt.BuildDiagnosticsOutput(res.Bag, res.FileSet, ro.json())
		if ro.timings {
			output.Timings = res.Timing
		}
		if err := diagfmt.WriteJSON(out, output); err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	case "sarif":
		if err := diagfmt.Sarif(out, res.Bag, res.FileSet, meta); err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	}
	return nil
}

// dirJSON is the JSON document of a directory run.
type dirJSON struct {
	Files   map[string]diagfmt.DiagnosticsOutput `json:"files"`
	Timings *observ.Report                       `json:"timings,omitempty"`
}

func renderDir(out io.Writer, fs *source.FileSet, results []driver.DiagnoseDirResult, ro renderOptions, meta diagfmt.SarifRunMeta) error {
	// общий bag для short и sarif
	merged := diag.NewBag(math.MaxUint16)
	for _, r := range results {
		if r.Result != nil {
			merged.Merge(r.Result.Bag)
		}
	}
	merged.Sort()

	switch ro.format {
	case "pretty":
		printed := 0
		for _, r := range results {
			if r.Result == nil || r.Result.Bag.Len() == 0 {
				continue
			}
			if printed > 0 {
				fmt.Fprintln(out)
			}
			printed++
			fmt.Fprintf(out, "== %s ==\n", displayPath(fs, r, ro.pathMode))
			diagfmt.Pretty(out, r.Result.Bag, fs, ro.pretty())
		}
		fmt.Fprintf(out, "%d file(s) checked, %d with diagnostics\n", len(results), printed)
		if ro.timings {
			fmt.Fprint(os.Stderr, driver.MergeTimings(results).Summary())
		}
	case "short":
		if s := diag.FormatShort(merged.Items(), fs, ro.withNotes); s != "" {
			fmt.Fprintln(out, s)
		}
	case "json":
		doc := dirJSON{Files: make(map[string]diagfmt.DiagnosticsOutput, len(results))}
		for _, r := range results {
			if r.Result == nil {
				continue
			}
			doc.Files[displayPath(fs, r, ro.pathMode)] = diagfmt.BuildDiagnosticsOutput(r.Result.Bag, fs, ro.json())
		}
		if ro.timings {
			timing := driver.MergeTimings(results)
			doc.Timings = &timing
		}
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode diagnostics output: %w", err)
		}
	case "sarif":
		if err := diagfmt.Sarif(out, merged, fs, meta); err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	}
	return nil
}

func displayPath(fs *source.FileSet, r driver.DiagnoseDirResult, mode diagfmt.PathMode) string {
	if r.Result == nil || r.Result.File == nil {
		return r.Path
	}
	switch mode {
	case diagfmt.PathModeAbsolute:
		return r.Result.File.FormatPath("absolute", "")
	case diagfmt.PathModeBasename:
		return r.Result.File.FormatPath("basename", "")
	default:
		return r.Result.File.FormatPath("relative", fs.BaseDir())
	}
}
