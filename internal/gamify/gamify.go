// Package gamify keeps the streak and karma counters stored in Settings.
package gamify

import (
	"fmt"
	"time"

	"github.com/sadopc/workpulse/internal/model"
)

const (
	ActivityPoints   = 1
	CompletionPoints = 3
	OnTimeBonus      = 5
)

// Milestones are the only streak lengths that are celebrated.
var Milestones = []int{7, 30, 100}

type EventKind int

const (
	StreakMilestone EventKind = iota
	LevelUp
)

// Event is something worth telling the user about.
type Event struct {
	Kind    EventKind
	Streak  int
	Level   string
	Message string
}

// TouchStreak records activity on now's calendar date. It returns a
// milestone event when the new streak lands exactly on one.
func TouchStreak(s *model.Settings, now time.Time) (Event, bool) {
	today := model.DateOf(now)
	if s.LastActiveDate == today {
		return Event{}, false
	}
	if s.LastActiveDate != "" && s.LastActiveDate == model.AddDays(today, -1) {
		s.Streak++
	} else {
		s.Streak = 1
	}
	s.LastActiveDate = today
	s.LongestStreak = max(s.LongestStreak, s.Streak)

	for _, m := range Milestones {
		if s.Streak == m {
			return Event{
				Kind:    StreakMilestone,
				Streak:  m,
				Message: fmt.Sprintf("%d-day streak! Keep it going.", m),
			}, true
		}
	}
	return Event{}, false
}

// Award adds points and recomputes the level, reporting a tier change.
func Award(s *model.Settings, points int) (Event, bool) {
	before := model.KarmaLevel(s.Karma)
	s.Karma += points
	s.KarmaLevel = model.KarmaLevel(s.Karma)
	if s.KarmaLevel != before {
		return Event{
			Kind:    LevelUp,
			Level:   s.KarmaLevel,
			Message: fmt.Sprintf("Level up! You are now a %s.", s.KarmaLevel),
		}, true
	}
	return Event{}, false
}

// CompletionPointsFor returns the karma earned by completing t on now's
// date: the base award, plus the bonus when it is done on or before its
// due date.
func CompletionPointsFor(t model.Task, now time.Time) int {
	points := CompletionPoints
	if t.DueDate != "" && model.DateOf(now) <= t.DueDate {
		points += OnTimeBonus
	}
	return points
}

// OnTaskCompleted applies streak and karma for a task entering done.
func OnTaskCompleted(s *model.Settings, t model.Task, now time.Time) []Event {
	return apply(s, CompletionPointsFor(t, now), now)
}

// OnActivityLogged applies streak and karma for a new activity entry.
func OnActivityLogged(s *model.Settings, now time.Time) []Event {
	return apply(s, ActivityPoints, now)
}

func apply(s *model.Settings, points int, now time.Time) []Event {
	var events []Event
	if ev, ok := TouchStreak(s, now); ok {
		events = append(events, ev)
	}
	if ev, ok := Award(s, points); ok {
		events = append(events, ev)
	}
	return events
}
