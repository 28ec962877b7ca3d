package trace

import (
	"fmt"
	"slices"
	"strings"
)

// Level controls how many spans reach the stream.
type Level uint8

const (
	LevelOff    Level = iota // nothing
	LevelError               // ring only, dumped when the command fails
	LevelPhase               // commands and passes
	LevelDetail              // plus one span per file
)

// Scope is the granularity of a span; smaller is coarser.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // one CLI command
	ScopePass                    // one analysis or fix pass
	ScopeFile                    // one source file
)

// Kind tells span boundaries from instant events.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
	KindHeartbeat
)

// StorageMode selects where events go.
type StorageMode uint8

const (
	ModeStream StorageMode = iota + 1
	ModeRing
	ModeBoth
)

var (
	levelNames = []string{LevelOff: "off", LevelError: "error", LevelPhase: "phase", LevelDetail: "detail"}
	scopeNames = []string{ScopeDriver: "driver", ScopePass: "pass", ScopeFile: "file"}
	kindNames  = []string{KindSpanBegin: "begin", KindSpanEnd: "end", KindPoint: "point", KindHeartbeat: "heartbeat"}
	modeNames  = []string{ModeStream: "stream", ModeRing: "ring", ModeBoth: "both"}
)

func nameOf(names []string, i uint8) string {
	if int(i) < len(names) && names[i] != "" {
		return names[i]
	}
	return "unknown"
}

// indexOf ищет имя без учёта регистра; пустые слоты таблицы не совпадают.
func indexOf(names []string, s string) (uint8, bool) {
	i := slices.Index(names, strings.ToLower(strings.TrimSpace(s)))
	if i < 0 || names[i] == "" {
		return 0, false
	}
	return uint8(i), true
}

func (l Level) String() string       { return nameOf(levelNames, uint8(l)) }
func (s Scope) String() string       { return nameOf(scopeNames, uint8(s)) }
func (k Kind) String() string        { return nameOf(kindNames, uint8(k)) }
func (m StorageMode) String() string { return nameOf(modeNames, uint8(m)) }

// ParseLevel reads a --trace-level value.
func ParseLevel(s string) (Level, error) {
	if i, ok := indexOf(levelNames, s); ok {
		return Level(i), nil
	}
	return LevelOff, fmt.Errorf("invalid trace level %q (expected %s)", s, strings.Join(levelNames, "|"))
}

// ParseMode reads a --trace-mode value.
func ParseMode(s string) (StorageMode, error) {
	if i, ok := indexOf(modeNames, s); ok {
		return StorageMode(i), nil
	}
	return ModeRing, fmt.Errorf("invalid trace mode %q (expected stream|ring|both)", s)
}

// ShouldEmit reports whether a stream at level l writes spans of scope.
// LevelError never streams: its events live in the ring.
func (l Level) ShouldEmit(scope Scope) bool {
	switch l {
	case LevelPhase:
		return scope <= ScopePass
	case LevelDetail:
		return scope <= ScopeFile
	}
	return false
}
