package tracker

import (
	"context"
	"slices"
	"sort"
	"strings"

	"github.com/sadopc/workpulse/internal/gamify"
	"github.com/sadopc/workpulse/internal/model"
)

type ActivityInput struct {
	Entry     string
	ProjectID string
	TaskID    string
	Category  model.Category
	Date      string // defaults to today
	Tags      []string
}

func (in ActivityInput) apply(a *model.Activity) {
	a.Entry = strings.TrimSpace(in.Entry)
	a.ProjectID = in.ProjectID
	a.TaskID = in.TaskID
	if in.Category != "" {
		a.Category = in.Category
	}
	if d := strings.TrimSpace(in.Date); d != "" {
		a.Date = d
	}
	a.Tags = model.NormalizeTags(in.Tags)
}

func (t *Tracker) validateActivity(a model.Activity) error {
	if err := model.ValidateActivity(a); err != nil {
		return err
	}
	if a.ProjectID != "" && t.data.Project(a.ProjectID) == nil {
		return missingRef("projectId", "project")
	}
	if a.TaskID != "" {
		x := t.data.Task(a.TaskID)
		if x == nil {
			return missingRef("taskId", "task")
		}
		if x.ProjectID != a.ProjectID {
			return &model.ValidationError{Field: "taskId", Reason: "belongs to a different project"}
		}
	}
	return nil
}

func (t *Tracker) LogActivity(ctx context.Context, in ActivityInput) (model.Activity, error) {
	now := t.now()
	a := model.Activity{
		ID:        model.NewID(),
		Category:  model.CategoryOther,
		Date:      model.DateOf(now),
		Timestamp: now,
		CreatedAt: now,
	}
	in.apply(&a)
	if err := t.validateActivity(a); err != nil {
		return model.Activity{}, err
	}
	t.data.Activities = append(t.data.Activities, a)
	events := gamify.OnActivityLogged(&t.data.Settings, now)
	return a, t.commit(ctx, events...)
}

func (t *Tracker) UpdateActivity(ctx context.Context, id string, in ActivityInput) (model.Activity, error) {
	a := t.data.Activity(id)
	if a == nil {
		return model.Activity{}, notFound("activity", id)
	}
	next := *a
	in.apply(&next)
	if err := t.validateActivity(next); err != nil {
		return model.Activity{}, err
	}
	now := t.now()
	next.UpdatedAt = &now
	*a = next
	return next, t.commit(ctx)
}

func (t *Tracker) DeleteActivity(ctx context.Context, id string) error {
	if t.data.Activity(id) == nil {
		return notFound("activity", id)
	}
	t.data.Activities = slices.DeleteFunc(t.data.Activities, func(a model.Activity) bool { return a.ID == id })
	return t.commit(ctx)
}

// LastUsedProject returns the project of the most recently logged activity
// that still has one, or "".
func (t *Tracker) LastUsedProject() string {
	var best *model.Activity
	for i := range t.data.Activities {
		a := &t.data.Activities[i]
		if a.ProjectID == "" || t.data.Project(a.ProjectID) == nil {
			continue
		}
		if best == nil || a.Timestamp.After(best.Timestamp) {
			best = a
		}
	}
	if best == nil {
		return ""
	}
	return best.ProjectID
}

type FeedFilter struct {
	ProjectID string
	Category  model.Category
	Search    string // case-insensitive, matched against entry and tags
}

func (f FeedFilter) match(a model.Activity) bool {
	if f.ProjectID != "" && a.ProjectID != f.ProjectID {
		return false
	}
	if f.Category != "" && a.Category != f.Category {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Search))
	if q == "" || strings.Contains(strings.ToLower(a.Entry), q) {
		return true
	}
	for _, tag := range a.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// Feed lists matching activities newest first by timestamp.
func (t *Tracker) Feed(f FeedFilter) []model.Activity {
	var out []model.Activity
	for _, a := range t.data.Activities {
		if f.match(a) {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out
}
