package source

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"fortio.org/safecast"
)

// FileID indexes a version of a file inside its FileSet.
type FileID uint32

// FileFlags records how a file was loaded.
type FileFlags uint8

const (
	FileVirtual        FileFlags = 1 << iota // не с диска: тесты, stdin
	FileHadBOM                               // UTF-8 BOM снят при загрузке
	FileNormalizedCRLF                       // CRLF свёрнуты в LF при загрузке
)

// File is one immutable version of a source file. Content is always
// LF-normalized and BOM-free; Flags tell Restore how to undo that.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	// LineIdx holds the offset of every '\n'.
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol is a 1-based position; Col counts bytes.
type LineCol struct {
	Line uint32
	Col  uint32
}

// Size is len(Content) as an offset.
func (f *File) Size() uint32 {
	n, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("source: %s too large: %w", f.Path, err))
	}
	return n
}

// Position maps a byte offset to line and column. A '\n' belongs to the
// line it ends.
func (f *File) Position(off uint32) LineCol {
	line, _ := slices.BinarySearch(f.LineIdx, off)
	var lineStart uint32
	if line > 0 {
		lineStart = f.LineIdx[line-1] + 1
	}
	return LineCol{Line: uint32(line) + 1, Col: off - lineStart + 1}
}

// Text returns the bytes under span, clamped to the file.
func (f *File) Text(span Span) string {
	end := min(span.End, f.Size())
	return string(f.Content[min(span.Start, end):end])
}

// GetLine returns line n (1-based) without its '\n'; "" when out of range.
func (f *File) GetLine(n uint32) string {
	if n == 0 || int(n) > len(f.LineIdx)+1 {
		return ""
	}
	var start uint32
	if n > 1 {
		start = f.LineIdx[n-2] + 1
	}
	end := f.Size()
	if int(n) <= len(f.LineIdx) {
		end = f.LineIdx[n-1]
	}
	return string(f.Content[start:end])
}

// FormatPath renders Path for output. mode is absolute, relative,
// basename or auto; anything else prints Path unchanged.
func (f *File) FormatPath(mode, baseDir string) string {
	switch mode {
	case "absolute":
		if abs, err := AbsolutePath(f.Path); err == nil {
			return abs
		}
	case "relative":
		if baseDir == "" {
			baseDir, _ = os.Getwd()
		}
		if rel, err := RelativePath(f.Path, baseDir); err == nil {
			return rel
		}
	case "basename":
		return BaseName(f.Path)
	case "auto":
		// длинные абсолютные пути сокращаем до имени файла
		if filepath.IsAbs(f.Path) && len(f.Path) >= 40 {
			return BaseName(f.Path)
		}
	}
	return f.Path
}
