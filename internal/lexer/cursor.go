package lexer

import (
	"bytes"
	"fmt"

	"fortio.org/safecast"

	"csorder/internal/source"
)

// Cursor walks the bytes of one file.
type Cursor struct {
	File *source.File
	Off  uint32
	end  uint32
}

// NewCursor places a cursor at the start of f.
func NewCursor(f *source.File) Cursor {
	end, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("lexer: file %s too large: %w", f.Path, err))
	}
	return Cursor{File: f, end: end}
}

func (c *Cursor) EOF() bool { return c.Off >= c.end }

// Remaining is the number of unread bytes.
func (c *Cursor) Remaining() uint32 {
	if c.EOF() {
		return 0
	}
	return c.end - c.Off
}

// rest - непрочитанный хвост файла.
func (c *Cursor) rest() []byte { return c.File.Content[min(c.Off, c.end):c.end] }

// Peek returns the current byte or 0 at EOF.
func (c *Cursor) Peek() byte { return c.PeekAt(0) }

// PeekAt looks n bytes ahead; 0 past the end.
func (c *Cursor) PeekAt(n uint32) byte {
	if n >= c.Remaining() {
		return 0
	}
	return c.File.Content[c.Off+n]
}

// HasPrefix reports whether the unread text starts with s.
func (c *Cursor) HasPrefix(s string) bool {
	return bytes.HasPrefix(c.rest(), []byte(s))
}

// Bump consumes one byte and returns it; 0 at EOF.
func (c *Cursor) Bump() byte {
	b := c.Peek()
	if !c.EOF() {
		c.Off++
	}
	return b
}

// Eat consumes b if it is next.
func (c *Cursor) Eat(b byte) bool {
	if c.EOF() || c.Peek() != b {
		return false
	}
	c.Off++
	return true
}

// EatString consumes s if the unread text starts with it.
func (c *Cursor) EatString(s string) bool {
	if !c.HasPrefix(s) {
		return false
	}
	c.Off += uint32(len(s))
	return true
}

// Mark is a saved offset.
type Mark uint32

func (c *Cursor) Mark() Mark   { return Mark(c.Off) }
func (c *Cursor) Reset(m Mark) { c.Off = uint32(m) }
func (c *Cursor) SkipToEnd()   { c.Off = c.end }

// SpanFrom covers the bytes read since m.
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{File: c.File.ID, Start: uint32(m), End: c.Off}
}

// AtLineStart: перед Off на этой строке только пробелы и табы.
func (c *Cursor) AtLineStart() bool {
	line := c.File.Content[:c.Off]
	if nl := bytes.LastIndexByte(line, '\n'); nl >= 0 {
		line = line[nl+1:]
	}
	return len(bytes.Trim(line, " \t")) == 0
}

// SkipToLineEnd stops on the next '\n' or at EOF.
func (c *Cursor) SkipToLineEnd() {
	if nl := bytes.IndexByte(c.rest(), '\n'); nl >= 0 {
		c.Off += uint32(nl)
		return
	}
	c.SkipToEnd()
}
