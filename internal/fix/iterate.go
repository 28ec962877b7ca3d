package fix

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"csorder/internal/diag"
	"csorder/internal/source"
)

// DefaultMaxPasses caps Iterate when IterateOptions.MaxPasses is zero.
const DefaultMaxPasses = 16

// Analyzer re-checks one version of a file and returns its diagnostics.
type Analyzer func(ctx context.Context, fs *source.FileSet, file source.FileID) ([]diag.Diagnostic, error)

// IterateOptions configures Iterate.
type IterateOptions struct {
	Apply     ApplyOptions
	MaxPasses int
}

// IterateResult describes a finished fix loop.
type IterateResult struct {
	// Original is the version Iterate started from, File the latest one.
	Original source.FileID
	File     source.FileID
	Passes   int
	Applied  []AppliedFix
	// Skipped holds the skips of the last pass only: earlier conflicts are
	// retried by later passes.
	Skipped []SkippedFix
	// Converged is false when MaxPasses ran out with fixes still applicable.
	Converged bool
	Remaining []diag.Diagnostic
}

// Changed reports whether at least one pass rewrote the file.
func (r *IterateResult) Changed() bool { return r.File != r.Original }

// Iterate applies fixes to one file in memory until no fix applies or the
// pass cap is reached. Each pass re-analyzes the latest version, so a fix
// plan never sees stale offsets. Nothing is written to disk.
func Iterate(ctx context.Context, fs *source.FileSet, file source.FileID, analyze Analyzer, opts IterateOptions) (*IterateResult, error) {
	maxPasses := opts.MaxPasses
	if maxPasses <= 0 {
		maxPasses = DefaultMaxPasses
	}
	if opts.Apply.Mode == ApplyModeID {
		// ID привязан к смещениям текущей версии
		maxPasses = 1
	}
	res := &IterateResult{Original: file, File: file}
	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		diags, err := analyze(ctx, fs, res.File)
		if err != nil {
			return res, fmt.Errorf("fix: analyze pass %d: %w", res.Passes+1, err)
		}
		res.Remaining = diags
		if res.Passes >= maxPasses {
			res.Converged = !hasFixes(diags)
			return res, nil
		}

		plan, err := Plan(fs, diags, opts.Apply)
		if plan != nil {
			res.Skipped = plan.Skipped
		}
		if errors.Is(err, ErrNoFixes) {
			res.Converged = true
			return res, nil
		}
		if err != nil {
			return res, err
		}
		res.Passes++
		res.Applied = append(res.Applied, plan.Applied...)

		content, ok := plan.Contents[res.File]
		if !ok || bytes.Equal(content, fs.Get(res.File).Content) {
			res.Converged = true
			return res, nil
		}
		res.File = fs.Revise(res.File, content)
	}
}

func hasFixes(diags []diag.Diagnostic) bool {
	for _, d := range diags {
		if len(d.Fixes) > 0 {
			return true
		}
	}
	return false
}
