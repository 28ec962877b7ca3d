package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNormalizeAndRestore(t *testing.T) {
	raw := []byte("\xEF\xBB\xBFusing System;\r\nclass A {}\r\n")

	content, hadBOM := removeBOM(raw)
	content, hadCRLF := normalizeCRLF(content)
	if !hadBOM || !hadCRLF {
		t.Fatalf("expected BOM and CRLF to be detected, got bom=%v crlf=%v", hadBOM, hadCRLF)
	}
	if string(content) != "using System;\nclass A {}\n" {
		t.Fatalf("unexpected normalized content %q", content)
	}

	back := Restore(content, FileHadBOM|FileNormalizedCRLF)
	if string(back) != string(raw) {
		t.Fatalf("Restore = %q, want %q", back, raw)
	}
}

func TestNormalizeCRLFKeepsLoneCR(t *testing.T) {
	out, changed := normalizeCRLF([]byte("a\rb"))
	if changed || string(out) != "a\rb" {
		t.Fatalf("lone CR must be preserved, got %q changed=%v", out, changed)
	}
}

func TestRelativePathOutsideBaseFallsBackToAbsolute(t *testing.T) {
	tmp := t.TempDir()

	baseDir := filepath.Join(tmp, "base")
	otherDir := filepath.Join(tmp, "other")

	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		t.Fatalf("failed to create base dir: %v", err)
	}
	if err := os.MkdirAll(otherDir, 0o755); err != nil {
		t.Fatalf("failed to create other dir: %v", err)
	}

	target := filepath.Join(otherDir, "File.cs")

	got, err := RelativePath(target, baseDir)
	if err != nil {
		t.Fatalf("RelativePath returned error: %v", err)
	}
	if want := normalizePath(target); got != want {
		t.Fatalf("RelativePath = %q, want %q", got, want)
	}

	inside := filepath.Join(baseDir, "src", "File.cs")
	got, err = RelativePath(inside, baseDir)
	if err != nil {
		t.Fatalf("RelativePath returned error: %v", err)
	}
	if got != "src/File.cs" {
		t.Fatalf("RelativePath = %q, want src/File.cs", got)
	}
}
