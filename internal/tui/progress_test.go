package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"flustudio/internal/project"
	"flustudio/internal/store"
)

func TestRowUpdateByColumnHeader(t *testing.T) {
	m := NewProgressModel("", RefreshColumns())
	m.AddRow("/p/alpha", RefreshRow(store.Project{Name: "alpha", Path: "/p/alpha"}))
	m.AddRow("/p/bravo", RefreshRow(store.Project{Name: "bravo", Path: "/p/bravo"}))

	next, _ := m.Update(RowUpdateMsg{Key: "/p/bravo", Fields: map[string]string{"STATUS": "refreshing"}})
	m = next.(ProgressModel)

	view := m.View()
	if !strings.Contains(view, "refreshing") {
		t.Fatalf("view missing updated status:\n%s", view)
	}
	if !strings.Contains(view, "pending") {
		t.Fatalf("untouched row lost its status:\n%s", view)
	}
}

func TestRowUpdateUnknownKeyIgnored(t *testing.T) {
	m := NewProgressModel("", RefreshColumns())
	m.AddRow("/p/alpha", RefreshRow(store.Project{Name: "alpha"}))

	next, _ := m.Update(RowUpdateMsg{Key: "/p/ghost", Fields: map[string]string{"STATUS": "failed"}})
	m = next.(ProgressModel)
	if strings.Contains(m.View(), "failed") {
		t.Fatal("update for unknown key changed the table")
	}
}

func TestWorkDoneQuits(t *testing.T) {
	m := NewProgressModel("", RefreshColumns())
	next, cmd := m.Update(WorkDoneMsg{})
	m = next.(ProgressModel)
	if !m.Done() {
		t.Fatal("model not done after WorkDoneMsg")
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
}

func TestErrorMsgSurfacesError(t *testing.T) {
	m := NewProgressModel("", RefreshColumns())
	next, _ := m.Update(ErrorMsg{Err: errors.New("catalog unavailable")})
	m = next.(ProgressModel)
	if m.Err() == nil {
		t.Fatal("error not recorded")
	}
	if !strings.Contains(m.View(), "catalog unavailable") {
		t.Fatalf("error view: %q", m.View())
	}
}

func TestProgressCounts(t *testing.T) {
	m := NewProgressModel("", RefreshColumns())
	m.AddRow("a", []string{"a", "-", "pending"})
	m.AddRow("b", []string{"b", "-", "refreshed"})
	m.AddRow("c", []string{"c", "-", "failed"})

	processed, total := m.progressCounts()
	if processed != 2 || total != 3 {
		t.Fatalf("progressCounts = %d/%d, want 2/3", processed, total)
	}
}

func TestRefreshReporterMapsResults(t *testing.T) {
	var sent []RowUpdateMsg
	r := RefreshReporter{Send: func(msg tea.Msg) {
		if m, ok := msg.(RowUpdateMsg); ok {
			sent = append(sent, m)
		}
	}}

	r.Start(store.Project{Path: "/p/alpha", Name: "alpha"})
	r.Complete(project.RefreshResult{
		Path:    "/p/alpha",
		Updated: true,
		Project: store.Project{Name: "alpha", SDKVersionLabel: "Flutter 3.24.0"},
	})
	r.Complete(project.RefreshResult{Path: "/p/bravo", Error: "stat project: gone"})

	if len(sent) != 3 {
		t.Fatalf("got %d messages", len(sent))
	}
	if sent[0].Fields["STATUS"] != "refreshing" {
		t.Fatalf("start message: %+v", sent[0])
	}
	if sent[1].Fields["STATUS"] != "refreshed" || sent[1].Fields["VERSION"] != "Flutter 3.24.0" {
		t.Fatalf("success message: %+v", sent[1])
	}
	if sent[2].Fields["STATUS"] != "failed" {
		t.Fatalf("failure message: %+v", sent[2])
	}
}

func TestTruncateWithEllipsis(t *testing.T) {
	if got := TruncateWithEllipsis("short", 10); got != "short" {
		t.Fatalf("got %q", got)
	}
	if got := TruncateWithEllipsis("a very long project name", 10); got != "a very ..." {
		t.Fatalf("got %q", got)
	}
	if got := TruncateWithEllipsis("abc", 2); got != "ab" {
		t.Fatalf("got %q", got)
	}
}
