package trace

import (
	"io"
	"maps"
	"slices"

	"github.com/rs/zerolog"
)

// StreamTracer writes every event through a zerolog logger.
type StreamTracer struct {
	w      io.Writer
	log    zerolog.Logger
	level  Level
	format Format
}

// NewStreamTracer creates a StreamTracer. FormatText goes through
// zerolog's console writer, FormatNDJSON writes zerolog JSON lines.
func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	out := zerolog.SyncWriter(w)
	if format != FormatNDJSON {
		out = zerolog.ConsoleWriter{
			Out:        out,
			NoColor:    true,
			TimeFormat: "15:04:05.000",
			PartsOrder: []string{zerolog.TimestampFieldName, "scope", "kind", zerolog.MessageFieldName},
			FieldsExclude: []string{
				"scope", "kind",
			},
		}
	}
	return &StreamTracer{
		w:      w,
		log:    zerolog.New(out),
		level:  level,
		format: format,
	}
}

// Emit writes an event to the output.
func (t *StreamTracer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Scope) && ev.Kind != KindHeartbeat {
		return
	}
	e := t.log.Log().
		Time(zerolog.TimestampFieldName, ev.Time).
		Uint64("seq", NextSeq()).
		Str("kind", ev.Kind.String()).
		Str("scope", ev.Scope.String()).
		Uint64("span", ev.SpanID)
	if ev.ParentID != 0 {
		e = e.Uint64("parent", ev.ParentID)
	}
	if ev.GID != 0 {
		e = e.Uint64("gid", ev.GID)
	}
	if ev.Detail != "" {
		e = e.Str("detail", ev.Detail)
	}
	for _, k := range slices.Sorted(maps.Keys(ev.Extra)) {
		e = e.Str(k, ev.Extra[k])
	}
	e.Msg(ev.Name)
}

// Flush flushes the writer when it supports it.
func (t *StreamTracer) Flush() error {
	if flusher, ok := t.w.(interface{ Flush() error }); ok {
		return flusher.Flush()
	}
	return nil
}

// Close flushes and closes the writer if it implements io.Closer.
func (t *StreamTracer) Close() error {
	if err := t.Flush(); err != nil {
		return err
	}
	if closer, ok := t.w.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// Level returns the current tracing level.
func (t *StreamTracer) Level() Level {
	return t.level
}

// Enabled returns true if tracing is active.
func (t *StreamTracer) Enabled() bool {
	return t.level > LevelOff
}
