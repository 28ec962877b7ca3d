package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"csorder/internal/driver"
)

func TestProgressModelTracksStatuses(t *testing.T) {
	events := make(chan driver.Event)
	m := NewProgressModel("check", []string{"a.cs", "b.cs", "c.cs"}, events).(*progressModel)

	m.Update(eventMsg{File: "a.cs", Stage: driver.StageCheck, Status: driver.StatusWorking})
	if got := itemLabel(m.items[0]); got != "checking" {
		t.Fatalf("label = %q, want checking", got)
	}
	m.Update(eventMsg{File: "a.cs", Stage: driver.StageCheck, Status: driver.StatusDone})
	m.Update(eventMsg{File: "b.cs", Stage: driver.StageCheck, Status: driver.StatusDirty})
	m.Update(eventMsg{File: "c.cs", Stage: driver.StageParse, Status: driver.StatusError})
	// повторное финальное событие не учитывается дважды
	m.Update(eventMsg{File: "c.cs", Stage: driver.StageParse, Status: driver.StatusError})
	m.Update(eventMsg{File: "unknown.cs", Status: driver.StatusDone})

	if m.clean != 1 || m.dirty != 1 || m.failed != 1 {
		t.Fatalf("counters = %d/%d/%d", m.clean, m.dirty, m.failed)
	}
	if p := m.percent(); p != 1.0 {
		t.Fatalf("percent = %v, want 1", p)
	}

	_, cmd := m.Update(doneMsg{})
	if cmd == nil || !m.done {
		t.Fatalf("done message must quit")
	}
	view := m.View()
	for _, want := range []string{"done: check (1 clean, 1 dirty, 1 failed)", "dirty b.cs", "error c.cs"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestProgressModelWindowSize(t *testing.T) {
	m := NewProgressModel("fix", []string{"a.cs"}, nil).(*progressModel)
	m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	if m.width != 40 || m.prog.Width != 36 {
		t.Fatalf("width = %d, prog = %d", m.width, m.prog.Width)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("src/Very/Long/Path.cs", 10); got != "src/Ver..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("short.cs", 20); got != "short.cs" {
		t.Fatalf("truncate = %q", got)
	}
}
