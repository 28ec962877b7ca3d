package driver

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"csorder/internal/ast"
	"csorder/internal/diag"
	"csorder/internal/fix"
	"csorder/internal/lexer"
	"csorder/internal/observ"
	"csorder/internal/parser"
	"csorder/internal/policy"
	"csorder/internal/rules"
	"csorder/internal/source"
	"csorder/internal/trace"
)

// DiagnoseStage определяет уровень диагностики
type DiagnoseStage string

const (
	DiagnoseStageTokenize DiagnoseStage = "tokenize"
	DiagnoseStageSyntax   DiagnoseStage = "syntax"
	DiagnoseStageAll      DiagnoseStage = "all"
)

// ParseStage maps a --stage value to a DiagnoseStage.
func ParseStage(s string) (DiagnoseStage, error) {
	switch DiagnoseStage(strings.ToLower(strings.TrimSpace(s))) {
	case "", DiagnoseStageAll:
		return DiagnoseStageAll, nil
	case DiagnoseStageTokenize:
		return DiagnoseStageTokenize, nil
	case DiagnoseStageSyntax:
		return DiagnoseStageSyntax, nil
	}
	return DiagnoseStageAll, fmt.Errorf("unknown stage %q (expected tokenize|syntax|all)", s)
}

// DiagnoseOptions содержит опции для диагностики
type DiagnoseOptions struct {
	Stage DiagnoseStage
	// Policy defaults to policy.Default().
	Policy *policy.Policy
	Rules  rules.Options
	// MaxDiagnostics <= 0 means no limit.
	MaxDiagnostics   int
	IgnoreWarnings   bool
	WarningsAsErrors bool
	EnableTimings    bool
	// Cache, when set, skips files already known to be clean.
	Cache         *DiskCache
	PhaseObserver PhaseObserver
}

func (o *DiagnoseOptions) policy() *policy.Policy {
	if o.Policy == nil {
		return policy.Default()
	}
	return o.Policy
}

func (o *DiagnoseOptions) stage() DiagnoseStage {
	if o.Stage == "" {
		return DiagnoseStageAll
	}
	return o.Stage
}

// DiagnoseResult is the outcome of analysing one file.
type DiagnoseResult struct {
	FileSet *source.FileSet
	File    *source.File
	// Tree is nil for the tokenize stage and for cache hits.
	Tree   *ast.File
	Bag    *diag.Bag
	Timing *observ.Report
	// Cached is set when the file was skipped thanks to a clean verdict.
	Cached bool
}

// DiagnoseFile loads path and analyses it.
func DiagnoseFile(ctx context.Context, path string, opts DiagnoseOptions) (*DiagnoseResult, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return Analyze(ctx, fs, id, opts)
}

// Analyze runs lex → parse → rules on one file of fs up to opts.Stage.
// Source problems become diagnostics; only cancellation and bad options
// are returned as errors.
func Analyze(ctx context.Context, fs *source.FileSet, id source.FileID, opts DiagnoseOptions) (*DiagnoseResult, error) {
	file := fs.Get(id)
	if file == nil {
		return nil, fmt.Errorf("driver: unknown file id %d", id)
	}
	limit := bagLimit(opts.MaxDiagnostics)
	maxErrors, err := safecast.Conv[uint](limit)
	if err != nil {
		return nil, fmt.Errorf("driver: max diagnostics: %w", err)
	}
	pol := opts.policy()
	stage := opts.stage()

	ctx, span := trace.StartSpan(ctx, trace.ScopeFile, "file:"+file.Path)

	clock := newPhaseClock(opts.EnableTimings, opts.PhaseObserver)
	begin, end := clock.begin, clock.end

	res := &DiagnoseResult{
		FileSet: fs,
		File:    file,
		Bag:     diag.NewBag(limit),
	}
	finish := func() {
		res.Timing = clock.report()
		span.WithExtra("diags", strconv.Itoa(res.Bag.Len()))
		span.WithExtra("violations", strconv.Itoa(res.Bag.Violations()))
		if res.Cached {
			span.WithExtra("cached", "true")
		}
		span.End("")
	}
	defer finish()

	var key Digest
	if opts.Cache != nil && stage == DiagnoseStageAll {
		key = VerdictKey(file, pol, stage, disabledKey(opts.Rules.Disabled))
		idx := begin("cache")
		var v Verdict
		hit, cacheErr := opts.Cache.Get(key, &v)
		// битая запись кэша - просто промах
		res.Cached = cacheErr == nil && hit && v.Clean
		end("cache", idx, strconv.FormatBool(res.Cached))
		if res.Cached {
			return res, nil
		}
	}

	rep := diag.NewDedupReporter(diag.BagReporter{Bag: res.Bag})
	lx := lexer.New(file, lexer.Options{Reporter: rep, Defines: pol.Defines()})

	if stage == DiagnoseStageTokenize {
		idx := begin("tokenize")
		toks := lx.All()
		end("tokenize", idx, fmt.Sprintf("tokens=%d", len(toks)))
	} else {
		idx := begin("parse")
		pr := parser.ParseFile(ctx, lx, file.ID, ast.NewBuilder(ast.Hints{}), parser.Options{
			Reporter:  rep,
			MaxErrors: maxErrors,
		})
		res.Tree = pr.File
		end("parse", idx, fmt.Sprintf("tokens=%d decls=%d", len(pr.File.Tokens), pr.File.Decls.Arena.Len()))
		if err := ctx.Err(); err != nil {
			return res, err
		}
	}

	if stage == DiagnoseStageAll {
		idx := begin("rules")
		checked := rules.Check(res.Tree, file, pol, rep, opts.Rules)
		end("rules", idx, fmt.Sprintf("violations=%d", checked.Reported))
	}

	clean := res.Bag.Len() == 0 && res.Bag.Dropped() == 0

	// Применяем фильтрацию и трансформацию диагностик
	if opts.IgnoreWarnings {
		res.Bag.Filter(func(d diag.Diagnostic) bool {
			return d.Severity != diag.SevWarning && d.Severity != diag.SevInfo
		})
	}
	if opts.WarningsAsErrors {
		res.Bag.Transform(func(d *diag.Diagnostic) {
			if d.Severity == diag.SevWarning {
				d.Severity = diag.SevError
			}
		})
		// Пересортировываем после изменения severity
		res.Bag.Sort()
	}

	if clean && opts.Cache != nil && stage == DiagnoseStageAll {
		// кэш - оптимизация, ошибка записи не роняет прогон
		_ = opts.Cache.Put(key, &Verdict{Path: file.Path, Stage: string(stage), Clean: true})
	}
	return res, nil
}

// Analyzer adapts Analyze to the fix loop: always the full stage, no cache,
// original severities. Each call is traced as one pass.
func Analyzer(opts DiagnoseOptions) fix.Analyzer {
	opts.Stage = DiagnoseStageAll
	opts.Cache = nil
	opts.IgnoreWarnings = false
	opts.WarningsAsErrors = false
	opts.EnableTimings = false
	opts.PhaseObserver = nil
	return func(ctx context.Context, fs *source.FileSet, id source.FileID) ([]diag.Diagnostic, error) {
		ctx, span := trace.StartSpan(ctx, trace.ScopePass, "pass")
		res, err := Analyze(ctx, fs, id, opts)
		if err != nil {
			span.End(err.Error())
			return nil, err
		}
		span.End(fmt.Sprintf("diags=%d", res.Bag.Len()))
		return res.Bag.Items(), nil
	}
}

func bagLimit(n int) int {
	if n <= 0 {
		return math.MaxUint16
	}
	return n
}

func disabledKey(codes []diag.Code) string {
	ids := make([]string, len(codes))
	for i, c := range codes {
		ids[i] = c.ID()
	}
	slices.Sort(ids)
	return strings.Join(ids, ",")
}
