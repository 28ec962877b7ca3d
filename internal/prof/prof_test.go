package prof

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSessionWritesHeapProfile(t *testing.T) {
	dir := t.TempDir()
	heap := filepath.Join(dir, "heap.pprof")
	s, err := Start(Config{Heap: heap})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("second Stop: %v", err)
	}
	info, err := os.Stat(heap)
	if err != nil || info.Size() == 0 {
		t.Fatalf("heap profile missing: %v", err)
	}
}

func TestStartFailsOnBadPath(t *testing.T) {
	if _, err := Start(Config{CPU: filepath.Join(t.TempDir(), "missing", "cpu.pprof")}); err == nil {
		t.Fatalf("expected error for unwritable path")
	}
}

func TestNilSessionStop(t *testing.T) {
	var s *Session
	if err := s.Stop(); err != nil {
		t.Fatalf("nil Stop: %v", err)
	}
}
