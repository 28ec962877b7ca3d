package driver

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"

	"csorder/internal/diag"
	"csorder/internal/fix"
	"csorder/internal/policy"
	"csorder/internal/source"
	"csorder/internal/trace"
)

const (
	dirtySrc = "class C\n{\n    void M() { }\n    int x;\n}\n"
	cleanSrc = "class C\n{\n    int x;\n    void M() { }\n}\n"
)

func writeSource(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}

func TestDiagnoseFileReportsOrdering(t *testing.T) {
	path := writeSource(t, t.TempDir(), "a.cs", dirtySrc)
	res, err := DiagnoseFile(context.Background(), path, DiagnoseOptions{})
	if err != nil {
		t.Fatalf("DiagnoseFile error: %v", err)
	}
	items := res.Bag.Items()
	if len(items) != 1 || items[0].Code != diag.OrdElementKind || items[0].Severity != diag.SevWarning {
		t.Fatalf("diagnostics: %+v", items)
	}
	if res.Tree == nil || res.Timing != nil || res.Cached {
		t.Fatalf("result: %+v", res)
	}
}

func TestSeverityOptions(t *testing.T) {
	path := writeSource(t, t.TempDir(), "a.cs", dirtySrc)

	res, err := DiagnoseFile(context.Background(), path, DiagnoseOptions{WarningsAsErrors: true})
	if err != nil {
		t.Fatalf("DiagnoseFile error: %v", err)
	}
	if !res.Bag.HasErrors() {
		t.Fatalf("warnings were not promoted: %+v", res.Bag.Items())
	}

	res, err = DiagnoseFile(context.Background(), path, DiagnoseOptions{IgnoreWarnings: true})
	if err != nil {
		t.Fatalf("DiagnoseFile error: %v", err)
	}
	if res.Bag.Len() != 0 {
		t.Fatalf("warnings were not dropped: %+v", res.Bag.Items())
	}
}

func TestStagesStopEarly(t *testing.T) {
	path := writeSource(t, t.TempDir(), "a.cs", dirtySrc)
	for _, stage := range []DiagnoseStage{DiagnoseStageTokenize, DiagnoseStageSyntax} {
		res, err := DiagnoseFile(context.Background(), path, DiagnoseOptions{Stage: stage})
		if err != nil {
			t.Fatalf("%s: %v", stage, err)
		}
		if res.Bag.Len() != 0 {
			t.Fatalf("%s ran the rules: %+v", stage, res.Bag.Items())
		}
		if (stage == DiagnoseStageTokenize) != (res.Tree == nil) {
			t.Fatalf("%s tree: %v", stage, res.Tree)
		}
	}
}

func TestTimingsAndPhaseObserver(t *testing.T) {
	path := writeSource(t, t.TempDir(), "a.cs", dirtySrc)
	var events []PhaseEvent
	res, err := DiagnoseFile(context.Background(), path, DiagnoseOptions{
		EnableTimings: true,
		PhaseObserver: func(ev PhaseEvent) { events = append(events, ev) },
	})
	if err != nil {
		t.Fatalf("DiagnoseFile error: %v", err)
	}
	if res.Timing == nil || len(res.Timing.Phases) != 2 {
		t.Fatalf("timing: %+v", res.Timing)
	}
	if res.Timing.Phases[0].Name != "parse" || res.Timing.Phases[1].Note != "violations=1" {
		t.Fatalf("phases: %+v", res.Timing.Phases)
	}
	want := []PhaseEvent{
		{Name: "parse", Status: PhaseStart},
		{Name: "parse", Status: PhaseEnd},
		{Name: "rules", Status: PhaseStart},
		{Name: "rules", Status: PhaseEnd},
	}
	if len(events) != len(want) {
		t.Fatalf("events: %+v", events)
	}
	for i := range want {
		if events[i].Name != want[i].Name || events[i].Status != want[i].Status {
			t.Fatalf("event %d: %+v", i, events[i])
		}
	}
}

func TestCacheSkipsCleanFilesOnly(t *testing.T) {
	cache, err := NewDiskCache(t.TempDir())
	if err != nil {
		t.Fatalf("cache: %v", err)
	}
	dir := t.TempDir()
	clean := writeSource(t, dir, "clean.cs", cleanSrc)
	dirty := writeSource(t, dir, "dirty.cs", dirtySrc)
	opts := DiagnoseOptions{Cache: cache}

	for run, wantCached := range []bool{false, true} {
		res, err := DiagnoseFile(context.Background(), clean, opts)
		if err != nil {
			t.Fatalf("run %d: %v", run, err)
		}
		if res.Cached != wantCached || res.Bag.Len() != 0 {
			t.Fatalf("run %d: cached=%v diags=%d", run, res.Cached, res.Bag.Len())
		}
	}
	for run := range 2 {
		res, err := DiagnoseFile(context.Background(), dirty, opts)
		if err != nil {
			t.Fatalf("run %d: %v", run, err)
		}
		if res.Cached || res.Bag.Len() != 1 {
			t.Fatalf("dirty run %d: cached=%v diags=%d", run, res.Cached, res.Bag.Len())
		}
	}

	// другой набор правил - другой ключ
	opts.Rules.Disabled = []diag.Code{diag.OrdElementKind}
	res, err := DiagnoseFile(context.Background(), clean, opts)
	if err != nil {
		t.Fatalf("disabled run: %v", err)
	}
	if res.Cached {
		t.Fatalf("verdict reused across rule sets")
	}
}

func TestVerdictKey(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("a.cs", []byte(cleanSrc)))
	pol := policy.Default()

	base := VerdictKey(file, pol, DiagnoseStageAll, "")
	if base != VerdictKey(file, pol, DiagnoseStageAll, "") {
		t.Fatalf("key is not deterministic")
	}
	if base == VerdictKey(file, pol, DiagnoseStageSyntax, "") {
		t.Fatalf("stage ignored")
	}
	a := disabledKey([]diag.Code{diag.OrdStaticFirst, diag.OrdElementKind})
	b := disabledKey([]diag.Code{diag.OrdElementKind, diag.OrdStaticFirst})
	if a != b || a != "SA1201,SA1204" {
		t.Fatalf("disabled keys %q %q", a, b)
	}
	if combineDigest(file.Hash, "ab", "c") == combineDigest(file.Hash, "a", "bc") {
		t.Fatalf("parts are not separated")
	}
}

func TestDiskCacheRoundTrip(t *testing.T) {
	cache, err := NewDiskCache(filepath.Join(t.TempDir(), "c"))
	if err != nil {
		t.Fatalf("cache: %v", err)
	}
	var key Digest
	key[0] = 0xab

	var got Verdict
	if ok, err := cache.Get(key, &got); ok || err != nil {
		t.Fatalf("empty cache hit: %v %v", ok, err)
	}
	if err := cache.Put(key, &Verdict{Path: "a.cs", Stage: "all", Clean: true}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if ok, err := cache.Get(key, &got); !ok || err != nil {
		t.Fatalf("get: %v %v", ok, err)
	}
	if got.Path != "a.cs" || !got.Clean || got.Schema != diskCacheSchemaVersion || got.CheckedAt == 0 {
		t.Fatalf("verdict: %+v", got)
	}

	if err := cache.DropAll(); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if ok, _ := cache.Get(key, &got); ok {
		t.Fatalf("entry survived DropAll")
	}
	if err := cache.Put(key, &Verdict{Clean: true}); err != nil {
		t.Fatalf("put after drop: %v", err)
	}
}

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) OnEvent(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func (s *recordingSink) final(path string) Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	var last Status
	for _, ev := range s.events {
		if ev.File == path {
			last = ev.Status
		}
	}
	return last
}

func TestDiagnoseDir(t *testing.T) {
	dir := t.TempDir()
	a := writeSource(t, dir, "a.cs", dirtySrc)
	b := writeSource(t, dir, filepath.Join("sub", "B.CS"), cleanSrc)
	writeSource(t, dir, filepath.Join("obj", "gen.cs"), dirtySrc)
	writeSource(t, dir, "notes.txt", "not c#")
	broken := filepath.Join(dir, "broken.cs")
	if err := os.Symlink(filepath.Join(dir, "missing.cs"), broken); err != nil {
		t.Skipf("symlink: %v", err)
	}

	sink := &recordingSink{}
	fs, results, err := DiagnoseDir(context.Background(), dir, DiagnoseOptions{}, 2, sink)
	if err != nil {
		t.Fatalf("DiagnoseDir error: %v", err)
	}
	var paths []string
	for _, r := range results {
		paths = append(paths, r.Path)
	}
	if !slices.Equal(paths, []string{a, broken, b}) {
		t.Fatalf("paths: %v", paths)
	}
	if results[0].Result.Bag.Len() != 1 || results[2].Result.Bag.Len() != 0 {
		t.Fatalf("diagnostics: %+v / %+v", results[0].Result.Bag.Items(), results[2].Result.Bag.Items())
	}
	load := results[1].Result.Bag.Items()
	if len(load) != 1 || load[0].Code != diag.IOLoadFileError || fs.Get(load[0].Primary.File) == nil {
		t.Fatalf("load diagnostics: %+v", load)
	}
	if sink.final(a) != StatusDirty || sink.final(b) != StatusDone || sink.final(broken) != StatusError {
		t.Fatalf("events: %+v", sink.events)
	}
}

func TestFixFileRestoresLineEndings(t *testing.T) {
	src := "class C\r\n{\r\n    void M() { }\r\n    int x;\r\n}\r\n"
	path := writeSource(t, t.TempDir(), "a.cs", src)

	res, err := FixFile(context.Background(), path, FixOptions{Apply: fix.ApplyOptions{Mode: fix.ApplyModeAll}})
	if err != nil {
		t.Fatalf("FixFile error: %v", err)
	}
	if !res.Written || !res.Changed() || !res.Iterate.Converged || len(res.Iterate.Remaining) != 0 {
		t.Fatalf("result: %+v", res.Iterate)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != "class C\r\n{\r\n    int x;\r\n    void M() { }\r\n}\r\n" {
		t.Fatalf("written %q", got)
	}
}

func TestFixFileDryRun(t *testing.T) {
	path := writeSource(t, t.TempDir(), "a.cs", dirtySrc)
	res, err := FixFile(context.Background(), path, FixOptions{Apply: fix.ApplyOptions{Mode: fix.ApplyModeAll}, DryRun: true})
	if err != nil {
		t.Fatalf("FixFile error: %v", err)
	}
	if res.Written || string(res.After.Content) != cleanSrc || string(res.Before.Content) != dirtySrc {
		t.Fatalf("dry run: written=%v after=%q", res.Written, res.After.Content)
	}
	got, _ := os.ReadFile(path)
	if string(got) != dirtySrc {
		t.Fatalf("dry run touched the file: %q", got)
	}
}

func TestFixDir(t *testing.T) {
	dir := t.TempDir()
	a := writeSource(t, dir, "a.cs", dirtySrc)
	b := writeSource(t, dir, "b.cs", "partial class P { }\n")

	sink := &recordingSink{}
	results, err := FixDir(context.Background(), dir, FixOptions{Apply: fix.ApplyOptions{Mode: fix.ApplyModeAll}}, 0, sink)
	if err != nil {
		t.Fatalf("FixDir error: %v", err)
	}
	if len(results) != 2 || !results[0].Written || results[1].Written {
		t.Fatalf("results: %+v", results)
	}
	// SA1205 не чинится в режиме all: остаётся нарушение
	if sink.final(a) != StatusDone || sink.final(b) != StatusDirty {
		t.Fatalf("events: %+v", sink.events)
	}
}

func TestParseStage(t *testing.T) {
	if s, err := ParseStage("Syntax"); err != nil || s != DiagnoseStageSyntax {
		t.Fatalf("syntax: %v %v", s, err)
	}
	if s, err := ParseStage(""); err != nil || s != DiagnoseStageAll {
		t.Fatalf("default: %v %v", s, err)
	}
	if _, err := ParseStage("sema"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestAnalyzeEmitsFileSpan(t *testing.T) {
	ring := trace.NewRingTracer(64, trace.LevelDetail)
	ctx := trace.WithTracer(context.Background(), ring)
	path := writeSource(t, t.TempDir(), "a.cs", dirtySrc)
	if _, err := DiagnoseFile(ctx, path, DiagnoseOptions{}); err != nil {
		t.Fatalf("DiagnoseFile error: %v", err)
	}
	for _, ev := range ring.Snapshot() {
		if ev.Kind == trace.KindSpanEnd && ev.Name == "file:"+filepath.ToSlash(path) {
			if ev.Extra["violations"] != "1" {
				t.Fatalf("extra: %v", ev.Extra)
			}
			return
		}
	}
	t.Fatalf("no file span in %+v", ring.Snapshot())
}
