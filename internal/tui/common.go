package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/workpulse/internal/model"
	"github.com/sadopc/workpulse/internal/tracker"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewProjects
	viewKanban
	viewActivity
	viewMetrics
	viewReports
	viewSettings
)

var viewNames = []string{"Dashboard", "Projects", "Kanban", "Activity", "Metrics", "Reports", "Settings"}

// viewFromKey maps a settings defaultView value to its view.
func viewFromKey(k string) viewState {
	for i, v := range tracker.Views {
		if v == k {
			return viewState(i)
		}
	}
	return viewDashboard
}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func errStatus(err error) statusMsg {
	return statusMsg{text: "Error: " + err.Error(), isError: true}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 1 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func colorDot(color string) string {
	if color == "" {
		color = tracker.DefaultColor
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("●")
}

// row renders one list line with the selection cursor.
func row(selected bool, text string) string {
	if selected {
		return selectedItemStyle.Render("> " + text)
	}
	return normalItemStyle.Render("  " + text)
}

func statusTitle(s model.TaskStatus) string {
	switch s {
	case model.TaskBacklog:
		return "Backlog"
	case model.TaskThisWeek:
		return "This Week"
	case model.TaskInProgress:
		return "In Progress"
	case model.TaskBlocked:
		return "Blocked"
	case model.TaskDone:
		return "Done"
	}
	return string(s)
}

func urgencyStyle(u model.Urgency) lipgloss.Style {
	switch u {
	case model.UrgencyOverdue:
		return errorStyle
	case model.UrgencyToday:
		return warningStyle
	case model.UrgencyThisWeek:
		return highlightStyle
	}
	return mutedStyle
}

func dueLabel(due, today string) string {
	if due == "" {
		return ""
	}
	u := model.DueUrgency(due, today)
	text := "due " + due
	switch u {
	case model.UrgencyOverdue:
		text = "overdue " + due
	case model.UrgencyToday:
		text = "due today"
	}
	return urgencyStyle(u).Render(text)
}

func clampCursor(cursor, n int) int {
	return max(0, min(cursor, n-1))
}

// visibleRange picks the window of a list of n rows that keeps cursor on
// screen when only size rows fit.
func visibleRange(cursor, n, size int) (start, end int) {
	if size <= 0 || n <= size {
		return 0, n
	}
	start = max(0, cursor-size+1)
	return start, min(n, start+size)
}

// --- Forms ---

func newForm(groups ...*huh.Group) *huh.Form {
	return huh.NewForm(groups...).WithShowHelp(true).WithShowErrors(true)
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func optionalDate(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if _, err := model.ParseDate(strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("use YYYY-MM-DD")
	}
	return nil
}

func projectOptions(projects []model.Project, allowNone bool) []huh.Option[string] {
	var opts []huh.Option[string]
	if allowNone {
		opts = append(opts, huh.NewOption("(none)", ""))
	}
	for _, p := range projects {
		opts = append(opts, huh.NewOption(p.Name, p.ID))
	}
	return opts
}

func priorityOptions() []huh.Option[int] {
	labels := []string{"1 - highest", "2 - high", "3 - normal", "4 - low", "5 - lowest"}
	opts := make([]huh.Option[int], len(labels))
	for i, l := range labels {
		opts[i] = huh.NewOption(l, i+1)
	}
	return opts
}

// formView wraps an active form in a titled panel.
func formView(title string, f *huh.Form, width int) string {
	content := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), "", f.View())
	return panelStyle.Width(width - 4).Render(content)
}

// stepForm feeds msg to an active form. Esc cancels. done reports that the
// form needs no more input and submitted that it ended by completion.
func stepForm(f *huh.Form, msg tea.Msg) (next *huh.Form, cmd tea.Cmd, done, submitted bool) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		return f, nil, true, false
	}
	m, cmd := f.Update(msg)
	if updated, ok := m.(*huh.Form); ok {
		f = updated
	}
	switch f.State {
	case huh.StateCompleted:
		return f, cmd, true, true
	case huh.StateAborted:
		return f, cmd, true, false
	}
	return f, cmd, false, false
}

func statusCmd(msg statusMsg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// result turns a tracker error into a status line update. A nil error
// yields no command; the tracker's own notices cover success.
func result(err error) tea.Cmd {
	if err == nil {
		return nil
	}
	if errors.Is(err, tracker.ErrSave) {
		return nil
	}
	return statusCmd(errStatus(err))
}
