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

type projectsModel struct {
	ctx     context.Context
	tracker *tracker.Tracker
	width   int
	height  int

	projects     []model.Project
	tasks        []model.Task
	cursor       int
	taskCursor   int
	showArchived bool
	viewingTasks bool // true = viewing tasks of selected project

	formActive bool
	form       *huh.Form
	formType   string // "project", "edit_project", "delete_project", "task", "edit_task", "delete_task"
	editingID  string

	projectForm projectFields
	taskForm    taskFields
	confirm     *bool
}

func newProjectsModel(ctx context.Context, t *tracker.Tracker) projectsModel {
	ok := false
	p := projectsModel{
		ctx:         ctx,
		tracker:     t,
		projectForm: newProjectFields(),
		taskForm:    newTaskFields(),
		confirm:     &ok,
	}
	p.refresh()
	return p
}

func (p *projectsModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

func (p *projectsModel) refresh() {
	var projects []model.Project
	for _, proj := range p.tracker.Data().Projects {
		if proj.Status == model.ProjectArchived && !p.showArchived {
			continue
		}
		projects = append(projects, proj)
	}
	p.projects = projects
	p.cursor = clampCursor(p.cursor, len(p.projects))
	p.tasks = nil
	if p.viewingTasks && len(p.projects) > 0 {
		p.tasks = p.tracker.ProjectTasks(p.projects[p.cursor].ID)
	}
	if len(p.projects) == 0 {
		p.viewingTasks = false
	}
	p.taskCursor = clampCursor(p.taskCursor, len(p.tasks))
}

func (p projectsModel) selected() *model.Project {
	if len(p.projects) == 0 {
		return nil
	}
	return &p.projects[p.cursor]
}

func (p projectsModel) selectedTask() *model.Task {
	if len(p.tasks) == 0 {
		return nil
	}
	return &p.tasks[p.taskCursor]
}

func (p projectsModel) update(msg tea.Msg) (projectsModel, tea.Cmd) {
	if p.formActive && p.form != nil {
		return p.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		if p.viewingTasks {
			return p.updateTaskView(msg)
		}
		return p.updateProjectList(msg)
	}
	return p, nil
}

func (p projectsModel) updateProjectList(msg tea.KeyMsg) (projectsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if p.cursor > 0 {
			p.cursor--
		}
	case key.Matches(msg, keys.Down):
		if p.cursor < len(p.projects)-1 {
			p.cursor++
		}
	case key.Matches(msg, keys.Enter):
		if len(p.projects) > 0 {
			p.viewingTasks = true
			p.taskCursor = 0
			p.refresh()
		}
	case key.Matches(msg, keys.Archived):
		p.showArchived = !p.showArchived
		p.refresh()
	case key.Matches(msg, keys.New):
		p.projectForm.load(nil)
		return p.openForm("project", "", p.projectForm.form())
	case key.Matches(msg, keys.Edit):
		if proj := p.selected(); proj != nil {
			p.projectForm.load(proj)
			return p.openForm("edit_project", proj.ID, p.projectForm.form())
		}
	case key.Matches(msg, keys.Delete):
		if proj := p.selected(); proj != nil {
			title := fmt.Sprintf("Delete %q with all its tasks, activities and metrics?", proj.Name)
			return p.openForm("delete_project", proj.ID, newConfirmForm(title, p.confirm))
		}
	}
	return p, nil
}

func (p projectsModel) updateTaskView(msg tea.KeyMsg) (projectsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Back):
		p.viewingTasks = false
		p.refresh()
	case key.Matches(msg, keys.Up):
		if p.taskCursor > 0 {
			p.taskCursor--
		}
	case key.Matches(msg, keys.Down):
		if p.taskCursor < len(p.tasks)-1 {
			p.taskCursor++
		}
	case key.Matches(msg, keys.New):
		p.taskForm.load(nil, p.projects[p.cursor].ID, model.TaskBacklog)
		return p.openForm("task", "", p.taskForm.form(p.tracker.Data().Projects, true))
	case key.Matches(msg, keys.Edit):
		if t := p.selectedTask(); t != nil {
			p.taskForm.load(t, "", "")
			return p.openForm("edit_task", t.ID, p.taskForm.form(p.tracker.Data().Projects, false))
		}
	case key.Matches(msg, keys.Delete):
		if t := p.selectedTask(); t != nil {
			return p.openForm("delete_task", t.ID, newConfirmForm(fmt.Sprintf("Delete task %q?", t.Name), p.confirm))
		}
	}
	return p, nil
}

func (p projectsModel) openForm(kind, id string, f *huh.Form) (projectsModel, tea.Cmd) {
	p.formType = kind
	p.editingID = id
	p.form = f
	p.formActive = true
	return p, p.form.Init()
}

func (p projectsModel) updateForm(msg tea.Msg) (projectsModel, tea.Cmd) {
	form, cmd, done, submitted := stepForm(p.form, msg)
	p.form = form
	if !done {
		return p, cmd
	}
	p.formActive = false
	p.form = nil
	if !submitted {
		return p, nil
	}

	var err error
	switch p.formType {
	case "project":
		_, err = p.tracker.CreateProject(p.ctx, p.projectForm.input())
	case "edit_project":
		_, err = p.tracker.UpdateProject(p.ctx, p.editingID, p.projectForm.input())
	case "delete_project":
		if *p.confirm {
			err = p.tracker.DeleteProject(p.ctx, p.editingID)
		}
	case "task":
		_, err = p.tracker.CreateTask(p.ctx, p.taskForm.input())
	case "edit_task":
		_, err = p.tracker.UpdateTask(p.ctx, p.editingID, p.taskForm.input())
	case "delete_task":
		if *p.confirm {
			err = p.tracker.DeleteTask(p.ctx, p.editingID)
		}
	}
	p.refresh()
	return p, result(err)
}

func (p projectsModel) view() string {
	if p.formActive && p.form != nil {
		titles := map[string]string{
			"project":        "New Project",
			"edit_project":   "Edit Project",
			"delete_project": "Delete Project",
			"task":           "New Task",
			"edit_task":      "Edit Task",
			"delete_task":    "Delete Task",
		}
		return formView(titles[p.formType], p.form, p.width)
	}

	if p.viewingTasks {
		return p.renderTaskView()
	}
	return p.renderProjectList()
}

func progressBar(done, total, width int) string {
	if total == 0 {
		return mutedStyle.Render(strings.Repeat("░", width))
	}
	filled := done * width / total
	return successStyle.Render(strings.Repeat("█", filled)) + mutedStyle.Render(strings.Repeat("░", width-filled))
}

func (p projectsModel) renderProjectList() string {
	w := p.width - 4
	title := titleStyle.Render("Projects")
	if p.showArchived {
		title += mutedStyle.Render("  (including archived)")
	}

	if len(p.projects) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No projects yet. Press n to create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	// Table header
	header := mutedStyle.Render(fmt.Sprintf("    %-26s %-10s %-3s %-12s %s", "Name", "Status", "P", "Progress", "Tags"))
	rows = append(rows, header)

	for i, proj := range p.projects {
		done, total := p.tracker.ProjectProgress(proj.ID)
		line := fmt.Sprintf("%s %-26s %-10s %-3d %s %-5s %s",
			colorDot(proj.Color),
			truncate(proj.Name, 26),
			proj.Status,
			proj.Priority,
			progressBar(done, total, 8),
			fmt.Sprintf("%d/%d", done, total),
			mutedStyle.Render(strings.Join(proj.Tags, ", ")),
		)
		rows = append(rows, row(i == p.cursor, line))
	}

	if proj := p.selected(); proj != nil && proj.Description != "" {
		rows = append(rows, "", mutedStyle.Render("  "+truncate(proj.Description, w-6)))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  e: edit  d: delete  a: archived  enter: tasks"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (p projectsModel) renderTaskView() string {
	w := p.width - 4
	proj := p.projects[p.cursor]
	title := titleStyle.Render(fmt.Sprintf("%s %s: Tasks", colorDot(proj.Color), proj.Name))

	if len(p.tasks) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No tasks. Press n to add one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	today := model.DateOf(p.tracker.Now())
	for i, task := range p.tasks {
		tags := ""
		if len(task.Tags) > 0 {
			tags = mutedStyle.Render(" [" + strings.Join(task.Tags, ", ") + "]")
		}
		line := fmt.Sprintf("%-12s %s", statusTitle(task.Status), truncate(task.Name, w-40))
		rows = append(rows, row(i == p.taskCursor, line)+tags+" "+dueLabel(task.DueDate, today))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new task  e: edit  d: delete  esc: back"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
