package fix

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"csorder/internal/diag"
	"csorder/internal/source"
)

// ErrNoFixes means nothing was applied; the result still lists skips.
var ErrNoFixes = errors.New("no applicable fixes found")

// ApplyMode picks which fixes of a pass are taken.
type ApplyMode uint8

const (
	// ApplyModeOnce takes the first always-safe fix, else the first fix.
	ApplyModeOnce ApplyMode = iota
	// ApplyModeAll takes every always-safe fix that does not conflict.
	ApplyModeAll
	// ApplyModeID takes the fix whose ID is ApplyOptions.TargetID.
	ApplyModeID
)

func (m ApplyMode) String() string {
	switch m {
	case ApplyModeAll:
		return "all"
	case ApplyModeID:
		return "id"
	}
	return "once"
}

type ApplyOptions struct {
	Mode     ApplyMode
	TargetID string
}

// AppliedFix is a fix whose edits all landed.
type AppliedFix struct {
	ID            string
	Title         string
	Code          diag.Code
	Message       string
	Applicability diag.FixApplicability
	PrimaryPath   string
	EditCount     int
}

// SkippedFix is a fix left out of a pass, with the reason.
type SkippedFix struct {
	ID     string
	Title  string
	Reason string
}

// FileChange counts the edits that landed in one file.
type FileChange struct {
	File      source.FileID
	Path      string
	EditCount int
}

// ApplyResult is the outcome of one pass over a set of diagnostics.
type ApplyResult struct {
	Applied     []AppliedFix
	Skipped     []SkippedFix
	FileChanges []FileChange
	// Contents is the new text of every changed file.
	Contents map[source.FileID][]byte
}

// Plan computes what Apply would write, without writing. Virtual files
// are accepted.
func Plan(fs *source.FileSet, diagnostics []diag.Diagnostic, opts ApplyOptions) (*ApplyResult, error) {
	return run(fs, diagnostics, opts, true)
}

// Apply is Plan followed by writing every changed file back to disk.
func Apply(fs *source.FileSet, diagnostics []diag.Diagnostic, opts ApplyOptions) (*ApplyResult, error) {
	res, err := run(fs, diagnostics, opts, false)
	if err != nil {
		return res, err
	}
	for _, ch := range res.FileChanges {
		if err := WriteFile(fs.Get(ch.File), res.Contents[ch.File]); err != nil {
			return res, err
		}
	}
	return res, nil
}

func run(fs *source.FileSet, diagnostics []diag.Diagnostic, opts ApplyOptions, allowVirtual bool) (*ApplyResult, error) {
	res := &ApplyResult{Contents: map[source.FileID][]byte{}}
	if fs == nil {
		return res, errors.New("fix: nil FileSet")
	}

	cands, skips := gatherCandidates(diag.FixBuildContext{FileSet: fs}, diagnostics)
	res.Skipped = append(res.Skipped, skips...)
	sortCandidates(cands)
	picked, skips := selectCandidates(cands, opts)
	res.Skipped = append(res.Skipped, skips...)

	ed := newEditor(fs, allowVirtual)
	for _, c := range picked {
		n, reason := ed.take(c.fix.Edits)
		if reason != "" {
			res.Skipped = append(res.Skipped, SkippedFix{ID: c.fix.ID, Title: c.fix.Title, Reason: reason})
			continue
		}
		res.Applied = append(res.Applied, AppliedFix{
			ID:            c.fix.ID,
			Title:         c.fix.Title,
			Code:          c.diag.Code,
			Message:       c.diag.Message,
			Applicability: c.fix.Applicability,
			PrimaryPath:   displayPath(fs, c.diag.Primary.File, "auto"),
			EditCount:     n,
		})
	}
	if len(res.Applied) == 0 {
		return res, ErrNoFixes
	}

	for id, edits := range ed.accepted {
		res.Contents[id] = splice(fs.Get(id).Content, edits)
		res.FileChanges = append(res.FileChanges, FileChange{
			File:      id,
			Path:      displayPath(fs, id, "relative"),
			EditCount: len(edits),
		})
	}
	slices.SortFunc(res.FileChanges, func(a, b FileChange) int {
		return cmp.Or(cmp.Compare(a.Path, b.Path), cmp.Compare(a.File, b.File))
	})
	return res, nil
}

func displayPath(fs *source.FileSet, id source.FileID, mode string) string {
	f := fs.Get(id)
	if f == nil {
		return ""
	}
	return f.FormatPath(mode, fs.BaseDir())
}

func skipFix(f diag.Fix, reason string) SkippedFix {
	return SkippedFix{ID: f.ID, Title: f.Title, Reason: reason}
}

func errReason(err error) string { return fmt.Sprintf("failed to build fixes: %v", err) }
