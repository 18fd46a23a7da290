package tracker

import (
	"sort"

	"github.com/sadopc/workpulse/internal/model"
	"github.com/sadopc/workpulse/internal/snapshot"
)

type DashboardStats struct {
	ActiveProjects int
	DoneThisWeek   int
	InProgress     int
	Overdue        int
	Blocked        int
	Streak         int
	LongestStreak  int
	Karma          int
	KarmaLevel     string
	NextLevel      string
	NextThreshold  int // 0 at the top tier
}

func (t *Tracker) DashboardStats() DashboardStats {
	now := t.now()
	today := model.DateOf(now)
	start, end := snapshot.WeekBounds(now)
	s := t.data.Settings

	st := DashboardStats{
		Streak:        s.Streak,
		LongestStreak: s.LongestStreak,
		Karma:         s.Karma,
		KarmaLevel:    model.KarmaLevel(s.Karma),
	}
	if label, threshold, ok := model.NextKarmaLevel(s.Karma); ok {
		st.NextLevel, st.NextThreshold = label, threshold
	}
	for _, p := range t.data.Projects {
		if p.Status == model.ProjectActive {
			st.ActiveProjects++
		}
	}
	for _, x := range t.data.Tasks {
		switch x.Status {
		case model.TaskDone:
			if x.CompletedAt != nil && !x.CompletedAt.Before(start) && !x.CompletedAt.After(end) {
				st.DoneThisWeek++
			}
			continue
		case model.TaskInProgress, model.TaskThisWeek:
			st.InProgress++
		case model.TaskBlocked:
			st.Blocked++
		}
		if model.DueUrgency(x.DueDate, today) == model.UrgencyOverdue {
			st.Overdue++
		}
	}
	return st
}

// DueSoon lists open tasks due within the next week, soonest first,
// including overdue ones.
func (t *Tracker) DueSoon(limit int) []model.Task {
	today := model.DateOf(t.now())
	var out []model.Task
	for _, x := range t.data.Tasks {
		if x.Status == model.TaskDone || x.DueDate == "" {
			continue
		}
		if model.DueUrgency(x.DueDate, today) == model.UrgencyFuture {
			continue
		}
		out = append(out, x)
	}
	sortByDue(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func sortByDue(tasks []model.Task) {
	sort.SliceStable(tasks, func(i, j int) bool { return tasks[i].DueDate < tasks[j].DueDate })
}
