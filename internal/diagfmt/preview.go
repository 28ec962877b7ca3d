package diagfmt

import (
	"fmt"
	"strings"

	"csorder/internal/diag"
	"csorder/internal/source"
)

type fixEditPreview struct {
	before []string
	after  []string
}

// buildFixEditPreview returns the whole lines touched by edit, before and
// after applying it.
func buildFixEditPreview(fs *source.FileSet, edit diag.TextEdit) (fixEditPreview, error) {
	if fs == nil {
		return fixEditPreview{}, fmt.Errorf("nil FileSet")
	}
	file := fs.Get(edit.Span.File)
	if file == nil {
		return fixEditPreview{}, fmt.Errorf("file %d not found in FileSet", edit.Span.File)
	}
	size := file.Size()
	if edit.Span.Start > edit.Span.End || edit.Span.End > size {
		return fixEditPreview{}, fmt.Errorf("edit span %s out of range", edit.Span)
	}

	blockStart := lineStart(file, edit.Span.Start)
	blockEnd := edit.Span.End
	// непустая правка, кончающаяся на \n, не захватывает следующую строку
	if edit.Span.Empty() || file.Content[blockEnd-1] != '\n' {
		blockEnd = lineEnd(file, blockEnd)
	}
	original := string(file.Content[blockStart:blockEnd])
	relStart := edit.Span.Start - blockStart
	relEnd := edit.Span.End - blockStart
	after := original[:relStart] + edit.NewText + original[relEnd:]

	return fixEditPreview{
		before: splitPreviewLines(original),
		after:  splitPreviewLines(after),
	}, nil
}

func splitPreviewLines(text string) []string {
	if text == "" {
		return nil
	}
	// завершающий \n не даёт лишней пустой строки
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

// lineStart returns the offset of the first byte of the line holding off.
func lineStart(f *source.File, off uint32) uint32 {
	for off > 0 && f.Content[off-1] != '\n' {
		off--
	}
	return off
}

// lineEnd returns the offset just past the '\n' ending the line holding
// off, or the file size.
func lineEnd(f *source.File, off uint32) uint32 {
	size := f.Size()
	for off < size && f.Content[off] != '\n' {
		off++
	}
	if off < size {
		off++
	}
	return off
}
