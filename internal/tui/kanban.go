package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/workpulse/internal/model"
	"github.com/sadopc/workpulse/internal/tracker"
)

type kanbanModel struct {
	ctx     context.Context
	tracker *tracker.Tracker
	width   int
	height  int

	columns [][]model.Task // indexed like model.TaskStatuses
	col     int
	rows    []int // cursor per column

	formActive bool
	form       *huh.Form
	formType   string // "task", "edit_task", "delete_task", "block"
	editingID  string

	taskForm    taskFields
	blockerNote *string
	confirm     *bool
}

func newKanbanModel(ctx context.Context, t *tracker.Tracker) kanbanModel {
	note, ok := "", false
	k := kanbanModel{
		ctx:         ctx,
		tracker:     t,
		rows:        make([]int, len(model.TaskStatuses)),
		taskForm:    newTaskFields(),
		blockerNote: &note,
		confirm:     &ok,
	}
	k.refresh()
	return k
}

func (k *kanbanModel) setSize(w, h int) {
	k.width = w
	k.height = h
}

func (k *kanbanModel) refresh() {
	cols := make([][]model.Task, len(model.TaskStatuses))
	rows := make([]int, len(model.TaskStatuses))
	for i, s := range model.TaskStatuses {
		cols[i] = k.tracker.Column(s)
		rows[i] = clampCursor(k.rows[i], len(cols[i]))
	}
	k.columns = cols
	k.rows = rows
}

func (k kanbanModel) selected() *model.Task {
	col := k.columns[k.col]
	if len(col) == 0 {
		return nil
	}
	return &col[k.rows[k.col]]
}

// focus moves the cursor onto task id wherever it now sits.
func (k *kanbanModel) focus(id string) {
	for c, col := range k.columns {
		for r, t := range col {
			if t.ID == id {
				k.col = c
				k.rows[c] = r
				return
			}
		}
	}
}

func (k kanbanModel) update(msg tea.Msg) (kanbanModel, tea.Cmd) {
	if k.formActive && k.form != nil {
		return k.updateForm(msg)
	}
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return k, nil
	}

	switch {
	case key.Matches(km, keys.Left):
		if k.col > 0 {
			k.col--
		}
	case key.Matches(km, keys.Right):
		if k.col < len(k.columns)-1 {
			k.col++
		}
	case key.Matches(km, keys.Up):
		if k.rows[k.col] > 0 {
			k.rows[k.col]--
		}
	case key.Matches(km, keys.Down):
		if k.rows[k.col] < len(k.columns[k.col])-1 {
			k.rows[k.col]++
		}
	case key.Matches(km, keys.MoveLeft):
		return k.shift(-1)
	case key.Matches(km, keys.MoveRight):
		return k.shift(1)
	case key.Matches(km, keys.MoveUp):
		return k.reorder(-1)
	case key.Matches(km, keys.MoveDown):
		return k.reorder(1)
	case key.Matches(km, keys.Block):
		if t := k.selected(); t != nil && t.Status != model.TaskBlocked {
			return k.openBlockForm(t)
		}
	case key.Matches(km, keys.New):
		projects := k.tracker.Data().Projects
		if len(projects) == 0 {
			return k, statusCmd(statusMsg{text: "Create a project first (press 2).", isError: true})
		}
		k.taskForm.load(nil, projects[0].ID, model.TaskStatuses[k.col])
		return k.openForm("task", "", k.taskForm.form(projects, true))
	case key.Matches(km, keys.Edit):
		if t := k.selected(); t != nil {
			k.taskForm.load(t, "", "")
			return k.openForm("edit_task", t.ID, k.taskForm.form(k.tracker.Data().Projects, false))
		}
	case key.Matches(km, keys.Delete):
		if t := k.selected(); t != nil {
			return k.openForm("delete_task", t.ID, newConfirmForm(fmt.Sprintf("Delete task %q?", t.Name), k.confirm))
		}
	}
	return k, nil
}

// shift moves the selected task into the neighbouring column. Entering
// Blocked asks for a note first.
func (k kanbanModel) shift(dir int) (kanbanModel, tea.Cmd) {
	t := k.selected()
	target := k.col + dir
	if t == nil || target < 0 || target >= len(model.TaskStatuses) {
		return k, nil
	}
	status := model.TaskStatuses[target]
	if status == model.TaskBlocked {
		return k.openBlockForm(t)
	}
	id := t.ID
	_, err := k.tracker.TransitionTask(k.ctx, id, status, "")
	k.refresh()
	k.focus(id)
	return k, result(err)
}

func (k kanbanModel) reorder(dir int) (kanbanModel, tea.Cmd) {
	t := k.selected()
	if t == nil {
		return k, nil
	}
	index := k.rows[k.col] + dir
	if index < 0 || index >= len(k.columns[k.col]) {
		return k, nil
	}
	id := t.ID
	_, err := k.tracker.MoveTask(k.ctx, id, t.Status, index)
	k.refresh()
	k.focus(id)
	return k, result(err)
}

func (k kanbanModel) openBlockForm(t *model.Task) (kanbanModel, tea.Cmd) {
	*k.blockerNote = t.BlockerNote
	f := newForm(huh.NewGroup(
		huh.NewInput().Title(fmt.Sprintf("What is blocking %q?", t.Name)).Value(k.blockerNote),
	))
	return k.openForm("block", t.ID, f)
}

func (k kanbanModel) openForm(kind, id string, f *huh.Form) (kanbanModel, tea.Cmd) {
	k.formType = kind
	k.editingID = id
	k.form = f
	k.formActive = true
	return k, k.form.Init()
}

func (k kanbanModel) updateForm(msg tea.Msg) (kanbanModel, tea.Cmd) {
	form, cmd, done, submitted := stepForm(k.form, msg)
	k.form = form
	if !done {
		return k, cmd
	}
	k.formActive = false
	k.form = nil
	if !submitted {
		return k, nil
	}

	var err error
	focus := k.editingID
	switch k.formType {
	case "task":
		var t model.Task
		t, err = k.tracker.CreateTask(k.ctx, k.taskForm.input())
		focus = t.ID
	case "edit_task":
		_, err = k.tracker.UpdateTask(k.ctx, k.editingID, k.taskForm.input())
	case "delete_task":
		if *k.confirm {
			err = k.tracker.DeleteTask(k.ctx, k.editingID)
		}
	case "block":
		_, err = k.tracker.TransitionTask(k.ctx, k.editingID, model.TaskBlocked, strings.TrimSpace(*k.blockerNote))
	}
	k.refresh()
	k.focus(focus)
	return k, result(err)
}

func (k kanbanModel) view() string {
	if k.formActive && k.form != nil {
		titles := map[string]string{
			"task":        "New Task",
			"edit_task":   "Edit Task",
			"delete_task": "Delete Task",
			"block":       "Block Task",
		}
		return formView(titles[k.formType], k.form, k.width)
	}

	n := len(model.TaskStatuses)
	colWidth := max((k.width-2)/n-2, 14)
	today := model.DateOf(k.tracker.Now())
	data := k.tracker.Data()

	cols := make([]string, n)
	for c, status := range model.TaskStatuses {
		tasks := k.columns[c]
		heading := fmt.Sprintf("%s (%d)", statusTitle(status), len(tasks))
		lines := []string{titleStyle.Render(heading), ""}
		if len(tasks) == 0 {
			lines = append(lines, mutedStyle.Render("empty"))
		}
		for r, t := range tasks {
			color := ""
			if p := data.Project(t.ProjectID); p != nil {
				color = p.Color
			}
			text := colorDot(color) + " " + truncate(t.Name, colWidth-6)
			if c == k.col && r == k.rows[c] {
				text = selectedItemStyle.Render("> ") + text
			} else {
				text = "  " + text
			}
			lines = append(lines, text)
			if t.BlockerNote != "" {
				lines = append(lines, "    "+warningStyle.Render(truncate(t.BlockerNote, colWidth-8)))
			}
			if due := dueLabel(t.DueDate, today); due != "" && status != model.TaskDone {
				lines = append(lines, "    "+due)
			}
		}
		style := panelStyle
		if c == k.col {
			style = activePanelStyle
		}
		cols[c] = style.Width(colWidth).Padding(0, 1).Render(strings.Join(lines, "\n"))
	}

	board := lipgloss.JoinHorizontal(lipgloss.Top, cols...)
	hint := mutedStyle.Render("  ←/→: column  [/]: move  K/J: reorder  b: block  n: new  e: edit  d: delete")
	return lipgloss.JoinVertical(lipgloss.Left, board, "", hint)
}
