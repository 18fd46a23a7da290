// Package snapshot maintains one point-in-time rollup of task movement per
// calendar week (Monday to Sunday, local time).
package snapshot

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sadopc/workpulse/internal/model"
)

// StaleAfter is how old a snapshot may get before start-up recomputes it.
const StaleAfter = 24 * time.Hour

const NoActivity = "No activity recorded this week."

type Outcome int

const (
	Fresh Outcome = iota
	Created
	Refreshed
)

func (o Outcome) String() string {
	switch o {
	case Created:
		return "created"
	case Refreshed:
		return "refreshed"
	}
	return "fresh"
}

// WeekBounds returns Monday 00:00 and Sunday 23:59:59.999999999 of the week
// containing t.
func WeekBounds(t time.Time) (start, end time.Time) {
	day := model.StartOfDay(t)
	offset := int(day.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset = 6 // Sunday
	}
	start = day.AddDate(0, 0, -offset)
	end = start.AddDate(0, 0, 7).Add(-time.Nanosecond)
	return start, end
}

// Lists are the four task-id buckets of a snapshot.
type Lists struct {
	Completed  []string
	InProgress []string
	NewTasks   []string
	Stuck      []string
}

// Compute buckets tasks for the week [start, end]. Completed and new tasks are
// windowed by time; in-progress and stuck reflect current status only.
func Compute(tasks []model.Task, start, end time.Time) Lists {
	l := Lists{
		Completed:  []string{},
		InProgress: []string{},
		NewTasks:   []string{},
		Stuck:      []string{},
	}
	within := func(t time.Time) bool {
		return !t.Before(start) && !t.After(end)
	}
	for _, t := range tasks {
		switch t.Status {
		case model.TaskDone:
			if t.CompletedAt != nil && within(*t.CompletedAt) {
				l.Completed = append(l.Completed, t.ID)
			}
		case model.TaskInProgress, model.TaskThisWeek:
			l.InProgress = append(l.InProgress, t.ID)
		case model.TaskBlocked:
			l.Stuck = append(l.Stuck, t.ID)
		}
		if within(t.CreatedAt) {
			l.NewTasks = append(l.NewTasks, t.ID)
		}
	}
	return l
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// Summary renders the lists as one sentence.
func Summary(l Lists) string {
	var clauses []string
	if n := len(l.Completed); n > 0 {
		clauses = append(clauses, fmt.Sprintf("Completed %d %s", n, plural(n, "task", "tasks")))
	}
	if n := len(l.InProgress); n > 0 {
		clauses = append(clauses, fmt.Sprintf("%d in progress", n))
	}
	if n := len(l.NewTasks); n > 0 {
		clauses = append(clauses, fmt.Sprintf("%d new %s added", n, plural(n, "task", "tasks")))
	}
	if n := len(l.Stuck); n > 0 {
		clauses = append(clauses, fmt.Sprintf("%d blocked", n))
	}
	if len(clauses) == 0 {
		return NoActivity
	}
	return strings.Join(clauses, ". ") + "."
}

func (l Lists) apply(s *model.WeeklySnapshot) {
	s.Completed = l.Completed
	s.InProgress = l.InProgress
	s.NewTasks = l.NewTasks
	s.Stuck = l.Stuck
	s.Summary = Summary(l)
}

// EnsureCurrent makes sure the week containing now has a snapshot: it
// creates a missing one, recomputes a stale one in place (keeping its id and
// createdAt) and leaves a fresh one alone. It is meant to run once per
// application start. The returned snapshot is a copy.
func EnsureCurrent(d *model.Data, now time.Time) (model.WeeklySnapshot, Outcome) {
	start, end := WeekBounds(now)
	weekStart := start.Format(model.DateLayout)

	if s := d.Snapshot(weekStart); s != nil {
		if now.Sub(s.UpdatedAt) < StaleAfter {
			return *s, Fresh
		}
		Compute(d.Tasks, start, end).apply(s)
		s.UpdatedAt = now
		return *s, Refreshed
	}

	s := model.WeeklySnapshot{
		ID:        model.NewID(),
		WeekStart: weekStart,
		WeekEnd:   end.Format(model.DateLayout),
		CreatedAt: now,
		UpdatedAt: now,
	}
	Compute(d.Tasks, start, end).apply(&s)
	d.WeeklySnapshots = append(d.WeeklySnapshots, s)
	return s, Created
}

// History returns snapshots newest week first.
func History(d *model.Data) []model.WeeklySnapshot {
	out := make([]model.WeeklySnapshot, len(d.WeeklySnapshots))
	copy(out, d.WeeklySnapshots)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].WeekStart > out[j].WeekStart
	})
	return out
}
