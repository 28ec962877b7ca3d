package driver

import "time"

// Stage describes what the directory runner is doing with a file.
type Stage string

const (
	StageQueued Stage = "queued"
	StageParse  Stage = "parse"
	StageCheck  Stage = "check"
	StageFix    Stage = "fix"
	StageWrite  Stage = "write"
)

// Status captures progress state within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	// StatusDone: файл обработан, нарушений не осталось
	StatusDone Status = "done"
	// StatusDirty: файл обработан, но нарушения остались
	StatusDirty Status = "dirty"
	StatusError Status = "error"
)

// Event reports progress for a file (or for the whole run when File is empty).
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Implementations must be safe for
// concurrent use: directory runs emit from several goroutines.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

func emit(sink ProgressSink, ev Event) {
	if sink != nil {
		sink.OnEvent(ev)
	}
}
