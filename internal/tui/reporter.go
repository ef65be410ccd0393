package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"flustudio/internal/project"
	"flustudio/internal/store"
)

// RefreshColumns is the table layout used by the refresh command.
func RefreshColumns() []Column {
	return []Column{
		{Header: "PROJECT", Width: 24},
		{Header: "VERSION", Width: 18},
		{Header: "STATUS", Width: 12},
	}
}

// RefreshRow builds the initial table row for a project.
func RefreshRow(p store.Project) []string {
	return []string{p.Name, NonEmptyOrDash(p.SDKVersionLabel), "pending"}
}

// RefreshReporter forwards refresh pool progress into the progress table.
// Rows are keyed by project path.
type RefreshReporter struct {
	Send func(tea.Msg)
}

// Start implements project.RefreshReporter.
func (r RefreshReporter) Start(p store.Project) {
	r.Send(RowUpdateMsg{
		Key:    p.Path,
		Fields: map[string]string{"STATUS": "refreshing"},
	})
}

// Complete implements project.RefreshReporter.
func (r RefreshReporter) Complete(res project.RefreshResult) {
	fields := map[string]string{"STATUS": "refreshed"}
	if res.Error != "" {
		fields["STATUS"] = "failed"
	} else {
		fields["PROJECT"] = res.Project.Name
		fields["VERSION"] = NonEmptyOrDash(res.Project.SDKVersionLabel)
	}
	r.Send(RowUpdateMsg{Key: res.Path, Fields: fields})
}
