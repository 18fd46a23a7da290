package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/sadopc/workpulse/internal/model"
	"github.com/sadopc/workpulse/internal/tracker"
)

type activityModel struct {
	ctx     context.Context
	tracker *tracker.Tracker
	width   int
	height  int

	feed     []model.Activity
	cursor   int
	category int // 0 = all, else index+1 into model.Categories

	searching bool
	search    textinput.Model

	formActive bool
	form       *huh.Form
	formType   string // "activity", "edit_activity", "delete_activity"
	editingID  string

	fields  activityFields
	confirm *bool
}

func newActivityModel(ctx context.Context, t *tracker.Tracker) activityModel {
	ti := textinput.New()
	ti.Placeholder = "search entries and tags"
	ti.Prompt = "/ "
	ti.CharLimit = 80
	ok := false
	a := activityModel{
		ctx:     ctx,
		tracker: t,
		search:  ti,
		fields:  newActivityFields(),
		confirm: &ok,
	}
	a.refresh()
	return a
}

func (a *activityModel) setSize(w, h int) {
	a.width = w
	a.height = h
	a.search.Width = max(w-12, 10)
}

func (a activityModel) filter() tracker.FeedFilter {
	f := tracker.FeedFilter{Search: a.search.Value()}
	if a.category > 0 {
		f.Category = model.Categories[a.category-1]
	}
	return f
}

func (a *activityModel) refresh() {
	a.feed = a.tracker.Feed(a.filter())
	a.cursor = clampCursor(a.cursor, len(a.feed))
}

func (a activityModel) selected() *model.Activity {
	if len(a.feed) == 0 {
		return nil
	}
	return &a.feed[a.cursor]
}

func (a activityModel) update(msg tea.Msg) (activityModel, tea.Cmd) {
	if a.formActive && a.form != nil {
		return a.updateForm(msg)
	}
	if a.searching {
		return a.updateSearch(msg)
	}
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil
	}

	switch {
	case key.Matches(km, keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}
	case key.Matches(km, keys.Down):
		if a.cursor < len(a.feed)-1 {
			a.cursor++
		}
	case key.Matches(km, keys.Filter):
		a.category = (a.category + 1) % (len(model.Categories) + 1)
		a.cursor = 0
		a.refresh()
	case key.Matches(km, keys.Search):
		a.searching = true
		return a, a.search.Focus()
	case key.Matches(km, keys.Back):
		if a.search.Value() != "" || a.category != 0 {
			a.search.SetValue("")
			a.category = 0
			a.refresh()
		}
	case key.Matches(km, keys.New):
		a.fields.load(nil, a.tracker.LastUsedProject(), model.DateOf(a.tracker.Now()))
		return a.openForm("activity", "", a.fields.form(a.tracker.Data().Projects))
	case key.Matches(km, keys.Edit):
		if act := a.selected(); act != nil {
			a.fields.load(act, "", "")
			return a.openForm("edit_activity", act.ID, a.fields.form(a.tracker.Data().Projects))
		}
	case key.Matches(km, keys.Delete):
		if act := a.selected(); act != nil {
			title := fmt.Sprintf("Delete %q?", truncate(act.Entry, 40))
			return a.openForm("delete_activity", act.ID, newConfirmForm(title, a.confirm))
		}
	}
	return a, nil
}

// updateSearch filters the feed live while the search box has focus.
func (a activityModel) updateSearch(msg tea.Msg) (activityModel, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "enter", "esc":
			a.searching = false
			a.search.Blur()
			return a, nil
		}
	}
	var cmd tea.Cmd
	a.search, cmd = a.search.Update(msg)
	a.cursor = 0
	a.refresh()
	return a, cmd
}

func (a activityModel) openForm(kind, id string, f *huh.Form) (activityModel, tea.Cmd) {
	a.formType = kind
	a.editingID = id
	a.form = f
	a.formActive = true
	return a, a.form.Init()
}

func (a activityModel) updateForm(msg tea.Msg) (activityModel, tea.Cmd) {
	form, cmd, done, submitted := stepForm(a.form, msg)
	a.form = form
	if !done {
		return a, cmd
	}
	a.formActive = false
	a.form = nil
	if !submitted {
		return a, nil
	}

	var err error
	switch a.formType {
	case "activity":
		_, err = a.tracker.LogActivity(a.ctx, a.fields.input())
	case "edit_activity":
		in := a.fields.input()
		if act := a.tracker.Data().Activity(a.editingID); act != nil {
			in.TaskID = act.TaskID
			if in.ProjectID != act.ProjectID {
				in.TaskID = ""
			}
		}
		_, err = a.tracker.UpdateActivity(a.ctx, a.editingID, in)
	case "delete_activity":
		if *a.confirm {
			err = a.tracker.DeleteActivity(a.ctx, a.editingID)
		}
	}
	a.refresh()
	return a, result(err)
}

// capturing reports whether keys belong to the view rather than the app.
func (a activityModel) capturing() bool {
	return a.formActive || a.searching
}

func (a activityModel) view() string {
	if a.formActive && a.form != nil {
		titles := map[string]string{
			"activity":        "Log Activity",
			"edit_activity":   "Edit Activity",
			"delete_activity": "Delete Activity",
		}
		return formView(titles[a.formType], a.form, a.width)
	}

	w := a.width - 4
	header := titleStyle.Render("Activity")
	cat := "all"
	if a.category > 0 {
		cat = string(model.Categories[a.category-1])
	}
	header += mutedStyle.Render(fmt.Sprintf("  category: %s  (%d)", cat, len(a.feed)))

	rows := []string{header}
	if a.searching || a.search.Value() != "" {
		rows = append(rows, a.search.View())
	}
	rows = append(rows, "")

	if len(a.feed) == 0 {
		rows = append(rows, mutedStyle.Render("Nothing logged yet. Press n to log what you did."))
		return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
	}

	today := model.DateOf(a.tracker.Now())
	data := a.tracker.Data()
	group := ""
	start, end := visibleRange(a.cursor, len(a.feed), max(a.height-12, 5))
	for i := start; i < end; i++ {
		act := a.feed[i]
		if g := model.DateGroup(act.Date, today); g != group {
			if group != "" {
				rows = append(rows, "")
			}
			group = g
			rows = append(rows, highlightStyle.Render(g))
		}
		project := ""
		if act.ProjectID != "" {
			p := data.Project(act.ProjectID)
			color := ""
			if p != nil {
				color = p.Color
			}
			project = colorDot(color) + " " + mutedStyle.Render(data.ProjectName(act.ProjectID))
		}
		line := fmt.Sprintf("%-9s %s", "["+string(act.Category)+"]", truncate(act.Entry, w-50))
		meta := mutedStyle.Render(humanize.Time(act.Timestamp))
		if len(act.Tags) > 0 {
			meta = mutedStyle.Render("#"+strings.Join(act.Tags, " #")) + "  " + meta
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row(i == a.cursor, line), "  ", project, "  ", meta))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: log  e: edit  d: delete  c: category  /: search  esc: clear"))
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
