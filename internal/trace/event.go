package trace

import (
	"bytes"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"
)

// Event is one record of a trace.
type Event struct {
	Time     time.Time
	Seq      uint64
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for top-level spans
	GID      uint64
	Name     string // "diagnose-dir", "file:src/Foo.cs", "pass"
	Detail   string
	Extra    map[string]string
}

var seqCounter, spanCounter atomic.Uint64

// NextSeq numbers events across all tracers of the process.
func NextSeq() uint64 { return seqCounter.Add(1) }

func nextSpanID() uint64 { return spanCounter.Add(1) }

var goroutinePrefix = []byte("goroutine ")

// goid parses the header of runtime.Stack: "goroutine 17 [running]:".
// Returns 0 if the format ever changes.
func goid() uint64 {
	var buf [64]byte
	head := buf[:runtime.Stack(buf[:], false)]
	head, ok := bytes.CutPrefix(head, goroutinePrefix)
	if !ok {
		return 0
	}
	num, _, _ := bytes.Cut(head, []byte{' '})
	id, err := strconv.ParseUint(string(num), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
