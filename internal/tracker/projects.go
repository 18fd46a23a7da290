package tracker

import (
	"context"
	"slices"
	"strings"

	"github.com/sadopc/workpulse/internal/model"
)

const DefaultColor = "#6C63FF"

// ProjectInput carries the editable project fields. A zero Status or
// Priority leaves the current value alone.
type ProjectInput struct {
	Name        string
	Description string
	Status      model.ProjectStatus
	Priority    int
	Tags        []string
	Color       string
}

func (in ProjectInput) apply(p *model.Project) {
	p.Name = strings.TrimSpace(in.Name)
	p.Description = strings.TrimSpace(in.Description)
	if in.Status != "" {
		p.Status = in.Status
	}
	if in.Priority != 0 {
		p.Priority = in.Priority
	}
	p.Tags = model.NormalizeTags(in.Tags)
	if in.Color != "" {
		p.Color = in.Color
	}
}

func (t *Tracker) CreateProject(ctx context.Context, in ProjectInput) (model.Project, error) {
	now := t.now()
	p := model.Project{
		ID:        model.NewID(),
		Status:    model.ProjectActive,
		Priority:  model.DefaultPriority,
		Color:     DefaultColor,
		CreatedAt: now,
		UpdatedAt: now,
	}
	in.apply(&p)
	if err := model.ValidateProject(p); err != nil {
		return model.Project{}, err
	}
	if p.Status == model.ProjectCompleted {
		p.CompletedAt = &now
	}
	t.data.Projects = append(t.data.Projects, p)
	return p, t.commit(ctx)
}

// UpdateProject edits a project. completedAt is stamped the first time the
// project becomes completed and is never cleared.
func (t *Tracker) UpdateProject(ctx context.Context, id string, in ProjectInput) (model.Project, error) {
	p := t.data.Project(id)
	if p == nil {
		return model.Project{}, notFound("project", id)
	}
	next := *p
	in.apply(&next)
	if err := model.ValidateProject(next); err != nil {
		return model.Project{}, err
	}
	now := t.now()
	if next.Status == model.ProjectCompleted && next.CompletedAt == nil {
		next.CompletedAt = &now
	}
	next.UpdatedAt = now
	*p = next
	return next, t.commit(ctx)
}

// DeleteProject removes the project with its tasks, activities and metric.
// Weekly snapshots keep whatever task ids they captured.
func (t *Tracker) DeleteProject(ctx context.Context, id string) error {
	if t.data.Project(id) == nil {
		return notFound("project", id)
	}
	d := t.data
	d.Projects = slices.DeleteFunc(d.Projects, func(p model.Project) bool { return p.ID == id })
	gone := make(map[string]bool)
	d.Tasks = slices.DeleteFunc(d.Tasks, func(x model.Task) bool {
		if x.ProjectID == id {
			gone[x.ID] = true
			return true
		}
		return false
	})
	d.Activities = slices.DeleteFunc(d.Activities, func(a model.Activity) bool { return a.ProjectID == id })
	for i := range d.Activities {
		if gone[d.Activities[i].TaskID] {
			d.Activities[i].TaskID = ""
		}
	}
	d.Metrics = slices.DeleteFunc(d.Metrics, func(m model.Metric) bool { return m.ProjectID == id })
	return t.commit(ctx)
}

// ProjectProgress counts a project's done and total tasks.
func (t *Tracker) ProjectProgress(id string) (done, total int) {
	for _, x := range t.data.Tasks {
		if x.ProjectID != id {
			continue
		}
		total++
		if x.Status == model.TaskDone {
			done++
		}
	}
	return done, total
}
