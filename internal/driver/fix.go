package driver

import (
	"context"
	"fmt"
	"strconv"

	"csorder/internal/fix"
	"csorder/internal/source"
	"csorder/internal/trace"
)

// FixOptions configures FixFile and FixDir.
type FixOptions struct {
	Diagnose DiagnoseOptions
	Apply    fix.ApplyOptions
	// MaxPasses caps the fix loop; zero means fix.DefaultMaxPasses.
	MaxPasses int
	// DryRun computes the fixed text without writing it back.
	DryRun bool
}

// FixFileResult describes the fix run of one file.
type FixFileResult struct {
	Path    string
	FileSet *source.FileSet
	// Before and After are the first and the last version of the file.
	Before  *source.File
	After   *source.File
	Iterate *fix.IterateResult
	Written bool
}

// Changed reports whether the fixed text differs from the loaded one.
func (r *FixFileResult) Changed() bool {
	return r != nil && r.Iterate != nil && r.Iterate.Changed()
}

// FixFile runs the fix loop on path and writes the result back unless
// opts.DryRun is set.
func FixFile(ctx context.Context, path string, opts FixOptions) (*FixFileResult, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return FixLoaded(ctx, fs, id, opts)
}

// FixLoaded is FixFile for a file already in fs. Virtual files are never
// written.
func FixLoaded(ctx context.Context, fs *source.FileSet, id source.FileID, opts FixOptions) (*FixFileResult, error) {
	file := fs.Get(id)
	if file == nil {
		return nil, fmt.Errorf("driver: unknown file id %d", id)
	}
	ctx, span := trace.StartSpan(ctx, trace.ScopeFile, "fix:"+file.Path)
	res := &FixFileResult{Path: file.Path, FileSet: fs, Before: file, After: file}
	defer func() {
		if res.Iterate != nil {
			span.WithExtra("passes", strconv.Itoa(res.Iterate.Passes))
			span.WithExtra("applied", strconv.Itoa(len(res.Iterate.Applied)))
		}
		span.End(strconv.FormatBool(res.Written))
	}()

	it, err := fix.Iterate(ctx, fs, id, Analyzer(opts.Diagnose), fix.IterateOptions{
		Apply:     opts.Apply,
		MaxPasses: opts.MaxPasses,
	})
	res.Iterate = it
	if it != nil {
		res.After = fs.Get(it.File)
		for _, sk := range it.Skipped {
			span.Point("skip:"+sk.ID, sk.Reason)
		}
	}
	if err != nil {
		return res, fmt.Errorf("fix %s: %w", file.Path, err)
	}

	if !it.Changed() || opts.DryRun || file.Flags&source.FileVirtual != 0 {
		return res, nil
	}
	if err := fix.WriteFile(res.After, res.After.Content); err != nil {
		return res, err
	}
	res.Written = true
	return res, nil
}
