package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"csorder/internal/diag"
	"csorder/internal/observ"
	"csorder/internal/source"
	"csorder/internal/trace"
)

// skipDirs are build outputs and tool folders never scanned for sources.
var skipDirs = []string{"bin", "obj", ".git", ".vs", ".idea", "node_modules"}

// ListSources возвращает отсортированный список всех *.cs файлов в директории.
func ListSources(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && slices.Contains(skipDirs, d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".cs") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Сортируем для детерминированного порядка
	slices.Sort(files)
	return files, nil
}

// DiagnoseDirResult is the outcome for one file of a directory run.
type DiagnoseDirResult struct {
	Path   string
	Result *DiagnoseResult
}

// DiagnoseDir analyses every source under dir in parallel. Files that fail
// to load are reported as IO diagnostics on an empty placeholder file.
func DiagnoseDir(ctx context.Context, dir string, opts DiagnoseOptions, jobs int, sink ProgressSink) (*source.FileSet, []DiagnoseDirResult, error) {
	files, err := ListSources(dir)
	if err != nil {
		return nil, nil, err
	}
	fileSet := source.NewFileSetWithBase(dir)
	if len(files) == 0 {
		return fileSet, nil, nil
	}

	ctx, span := trace.StartSpan(ctx, trace.ScopeDriver, "diagnose-dir")
	defer span.End(dir)

	// Загрузка последовательная: FileSet не потокобезопасен на запись,
	// дальше горутины только читают.
	fileIDs := make([]source.FileID, len(files))
	loadErrors := make(map[int]error)
	for i, path := range files {
		emit(sink, Event{File: path, Stage: StageQueued, Status: StatusQueued})
		id, loadErr := fileSet.Load(path)
		if loadErr != nil {
			loadErrors[i] = loadErr
			id = fileSet.AddVirtual(path, nil)
		}
		fileIDs[i] = id
	}

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	results := make([]DiagnoseDirResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobLimit(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			// Проверка отмены
			if err := gctx.Err(); err != nil {
				return err
			}
			started := time.Now()
			if loadErr, failed := loadErrors[i]; failed {
				bag := diag.NewBag(bagLimit(opts.MaxDiagnostics))
				diag.ReportError(diag.BagReporter{Bag: bag}, diag.IOLoadFileError,
					source.Span{File: fileIDs[i]}, "failed to load file: "+loadErr.Error()).Emit()
				results[i] = DiagnoseDirResult{Path: path, Result: &DiagnoseResult{
					FileSet: fileSet,
					File:    fileSet.Get(fileIDs[i]),
					Bag:     bag,
				}}
				emit(sink, Event{File: path, Stage: StageParse, Status: StatusError, Err: loadErr, Elapsed: time.Since(started)})
				return nil
			}

			emit(sink, Event{File: path, Stage: StageCheck, Status: StatusWorking})
			res, err := Analyze(gctx, fileSet, fileIDs[i], opts)
			if err != nil {
				emit(sink, Event{File: path, Stage: StageCheck, Status: StatusError, Err: err, Elapsed: time.Since(started)})
				return err
			}
			results[i] = DiagnoseDirResult{Path: path, Result: res}
			status := StatusDone
			if res.Bag.Len() > 0 {
				status = StatusDirty
			}
			emit(sink, Event{File: path, Stage: StageCheck, Status: status, Elapsed: time.Since(started)})
			return nil
		})
	}

	// Ждём завершения всех горутин
	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}

// MergeTimings sums the per-file timing reports of a directory run.
func MergeTimings(results []DiagnoseDirResult) observ.Report {
	reports := make([]observ.Report, 0, len(results))
	for _, r := range results {
		if r.Result != nil && r.Result.Timing != nil {
			reports = append(reports, *r.Result.Timing)
		}
	}
	return observ.Merge(reports...)
}

// FixDir fixes every source under dir in parallel. Each file gets its own
// FileSet: the fix loop adds revisions.
func FixDir(ctx context.Context, dir string, opts FixOptions, jobs int, sink ProgressSink) ([]*FixFileResult, error) {
	files, err := ListSources(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, nil
	}

	ctx, span := trace.StartSpan(ctx, trace.ScopeDriver, "fix-dir")
	defer span.End(dir)

	for _, path := range files {
		emit(sink, Event{File: path, Stage: StageQueued, Status: StatusQueued})
	}

	results := make([]*FixFileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobLimit(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			started := time.Now()
			emit(sink, Event{File: path, Stage: StageFix, Status: StatusWorking})
			res, err := FixFile(gctx, path, opts)
			results[i] = res
			if err != nil {
				emit(sink, Event{File: path, Stage: StageFix, Status: StatusError, Err: err, Elapsed: time.Since(started)})
				return err
			}
			status := StatusDone
			if len(res.Iterate.Remaining) > 0 {
				status = StatusDirty
			}
			emit(sink, Event{File: path, Stage: StageFix, Status: status, Elapsed: time.Since(started)})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// Настраиваем параллелизм
func jobLimit(jobs, files int) int {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	return max(1, min(jobs, files))
}
