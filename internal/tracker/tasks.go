package tracker

import (
	"context"
	"slices"
	"sort"
	"strings"

	"github.com/sadopc/workpulse/internal/gamify"
	"github.com/sadopc/workpulse/internal/model"
)

// TaskInput carries the editable task fields. Status is only read on
// create; later changes go through TransitionTask or MoveTask.
type TaskInput struct {
	Name        string
	Description string
	ProjectID   string
	Status      model.TaskStatus
	Priority    int
	DueDate     string
	Tags        []string
}

func (in TaskInput) apply(x *model.Task) {
	x.Name = strings.TrimSpace(in.Name)
	x.Description = strings.TrimSpace(in.Description)
	x.ProjectID = in.ProjectID
	if in.Priority != 0 {
		x.Priority = in.Priority
	}
	x.DueDate = strings.TrimSpace(in.DueDate)
	x.Tags = model.NormalizeTags(in.Tags)
}

func (t *Tracker) validateTask(x model.Task) error {
	if err := model.ValidateTask(x); err != nil {
		return err
	}
	if t.data.Project(x.ProjectID) == nil {
		return missingRef("projectId", "project")
	}
	return nil
}

func (t *Tracker) CreateTask(ctx context.Context, in TaskInput) (model.Task, error) {
	now := t.now()
	x := model.Task{
		ID:        model.NewID(),
		Status:    model.TaskBacklog,
		Priority:  model.DefaultPriority,
		CreatedAt: now,
		UpdatedAt: now,
	}
	in.apply(&x)
	if in.Status != "" {
		x.Status = in.Status
	}
	if err := t.validateTask(x); err != nil {
		return model.Task{}, err
	}
	x.SortOrder = t.endOfColumn(x.Status, "")

	var events []gamify.Event
	if x.Status == model.TaskDone {
		x.CompletedAt = &now
		events = gamify.OnTaskCompleted(&t.data.Settings, x, now)
	}
	t.data.Tasks = append(t.data.Tasks, x)
	return x, t.commit(ctx, events...)
}

// UpdateTask edits everything but status.
func (t *Tracker) UpdateTask(ctx context.Context, id string, in TaskInput) (model.Task, error) {
	x := t.data.Task(id)
	if x == nil {
		return model.Task{}, notFound("task", id)
	}
	next := *x
	in.apply(&next)
	if err := t.validateTask(next); err != nil {
		return model.Task{}, err
	}
	next.UpdatedAt = t.now()
	*x = next
	return next, t.commit(ctx)
}

// TransitionTask moves a task to status, appending it to the end of the
// target column. blockerNote is kept only when the new status is blocked.
func (t *Tracker) TransitionTask(ctx context.Context, id string, status model.TaskStatus, blockerNote string) (model.Task, error) {
	if !status.Valid() {
		return model.Task{}, &model.ValidationError{Field: "status", Reason: "is not a task status"}
	}
	x := t.data.Task(id)
	if x == nil {
		return model.Task{}, notFound("task", id)
	}
	if x.Status != status {
		x.SortOrder = t.endOfColumn(status, id)
	}
	events := t.transition(x, status, blockerNote)
	return *x, t.commit(ctx, events...)
}

// transition is the single place task status changes. It keeps completedAt
// set exactly while the task is done and fires gamification on entering done.
func (t *Tracker) transition(x *model.Task, status model.TaskStatus, blockerNote string) []gamify.Event {
	now := t.now()
	prev := x.Status
	x.Status = status
	x.UpdatedAt = now

	if status == model.TaskBlocked {
		x.BlockerNote = strings.TrimSpace(blockerNote)
	} else {
		x.BlockerNote = ""
	}

	if status != model.TaskDone {
		x.CompletedAt = nil
		return nil
	}
	if prev == model.TaskDone {
		return nil
	}
	x.CompletedAt = &now
	return gamify.OnTaskCompleted(&t.data.Settings, *x, now)
}

// MoveTask places a task at index within the status column, as a kanban drag
// does. The new sortOrder is the midpoint of its neighbours so no other task
// is renumbered.
func (t *Tracker) MoveTask(ctx context.Context, id string, status model.TaskStatus, index int) (model.Task, error) {
	if !status.Valid() {
		return model.Task{}, &model.ValidationError{Field: "status", Reason: "is not a task status"}
	}
	x := t.data.Task(id)
	if x == nil {
		return model.Task{}, notFound("task", id)
	}

	col := slices.DeleteFunc(t.Column(status), func(o model.Task) bool { return o.ID == id })
	index = max(0, min(index, len(col)))
	var order float64
	switch {
	case len(col) == 0:
		order = 0
	case index == 0:
		order = col[0].SortOrder - 1
	case index == len(col):
		order = col[len(col)-1].SortOrder + 1
	default:
		order = (col[index-1].SortOrder + col[index].SortOrder) / 2
	}

	var events []gamify.Event
	if x.Status != status {
		events = t.transition(x, status, x.BlockerNote)
	} else {
		x.UpdatedAt = t.now()
	}
	x.SortOrder = order
	return *x, t.commit(ctx, events...)
}

// DeleteTask removes a task and unlinks activities that pointed at it.
func (t *Tracker) DeleteTask(ctx context.Context, id string) error {
	if t.data.Task(id) == nil {
		return notFound("task", id)
	}
	t.data.Tasks = slices.DeleteFunc(t.data.Tasks, func(x model.Task) bool { return x.ID == id })
	for i := range t.data.Activities {
		if t.data.Activities[i].TaskID == id {
			t.data.Activities[i].TaskID = ""
		}
	}
	return t.commit(ctx)
}

// Column lists the tasks in status ordered by sortOrder, ties by insertion.
func (t *Tracker) Column(status model.TaskStatus) []model.Task {
	var col []model.Task
	for _, x := range t.data.Tasks {
		if x.Status == status {
			col = append(col, x)
		}
	}
	sort.SliceStable(col, func(i, j int) bool { return col[i].SortOrder < col[j].SortOrder })
	return col
}

// ProjectTasks lists a project's tasks in insertion order.
func (t *Tracker) ProjectTasks(projectID string) []model.Task {
	var out []model.Task
	for _, x := range t.data.Tasks {
		if x.ProjectID == projectID {
			out = append(out, x)
		}
	}
	return out
}

func (t *Tracker) endOfColumn(status model.TaskStatus, exclude string) float64 {
	next, found := 0.0, false
	for _, x := range t.data.Tasks {
		if x.Status != status || x.ID == exclude {
			continue
		}
		if !found || x.SortOrder+1 > next {
			next = x.SortOrder + 1
			found = true
		}
	}
	return next
}
