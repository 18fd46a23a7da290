// Package report assembles date-ranged status reports from the record store.
package report

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sadopc/workpulse/internal/model"
	"github.com/sadopc/workpulse/internal/roi"
)

const (
	NoProject     = "No Project"
	MaxUpcoming   = 10
	MaxHighlights = 15
)

var ErrInvalidRange = errors.New("invalid report range")

// Sections toggles each part of the report independently.
type Sections struct {
	Completed  bool
	InProgress bool
	Upcoming   bool
	Blockers   bool
	Activities bool
	Value      bool
}

func AllSections() Sections {
	return Sections{true, true, true, true, true, true}
}

// Section keys as used on the command line.
const (
	KeyCompleted  = "completed"
	KeyInProgress = "in-progress"
	KeyUpcoming   = "upcoming"
	KeyBlockers   = "blockers"
	KeyActivities = "activities"
	KeyValue      = "value"
)

var SectionKeys = []string{KeyCompleted, KeyInProgress, KeyUpcoming, KeyBlockers, KeyActivities, KeyValue}

var ErrUnknownSection = errors.New("unknown report section")

func (s *Sections) toggle(key string) *bool {
	switch key {
	case KeyCompleted:
		return &s.Completed
	case KeyInProgress:
		return &s.InProgress
	case KeyUpcoming:
		return &s.Upcoming
	case KeyBlockers:
		return &s.Blockers
	case KeyActivities:
		return &s.Activities
	case KeyValue:
		return &s.Value
	}
	return nil
}

// ParseSections enables exactly the named sections.
func ParseSections(keys []string) (Sections, error) {
	var s Sections
	for _, k := range keys {
		on := s.toggle(strings.ToLower(strings.TrimSpace(k)))
		if on == nil {
			return Sections{}, fmt.Errorf("%w: %q", ErrUnknownSection, k)
		}
		*on = true
	}
	return s, nil
}

// Keys lists the enabled sections in rendering order.
func (s Sections) Keys() []string {
	var out []string
	for _, k := range SectionKeys {
		if *s.toggle(k) {
			out = append(out, k)
		}
	}
	return out
}

type Options struct {
	From     string // YYYY-MM-DD, inclusive
	To       string // YYYY-MM-DD, inclusive
	Sections Sections
}

func (o Options) validate() error {
	if _, err := model.ParseDate(o.From); err != nil {
		return fmt.Errorf("%w: from %q", ErrInvalidRange, o.From)
	}
	if _, err := model.ParseDate(o.To); err != nil {
		return fmt.Errorf("%w: to %q", ErrInvalidRange, o.To)
	}
	if o.From > o.To {
		return fmt.Errorf("%w: %s is after %s", ErrInvalidRange, o.From, o.To)
	}
	return nil
}

type ProjectGroup struct {
	Project string
	Tasks   []model.Task
}

type ValueLine struct {
	Project string
	Figures roi.Figures
}

type Author struct {
	Name  string
	Title string
	Boss  string
}

// Report holds every section's data, filtered and ordered once. Both
// renderings read from it.
type Report struct {
	Options     Options
	Author      Author
	GeneratedAt time.Time

	Completed  []ProjectGroup
	InProgress []model.Task
	Upcoming   []model.Task
	Blockers   []model.Task
	Activities []model.Activity
	Value      []ValueLine
	Rollup     roi.Rollup

	projectNames map[string]string
}

// Build computes the report for opts. Sections that are toggled off are left
// empty.
func Build(d *model.Data, opts Options, now time.Time) (*Report, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	r := &Report{
		Options: opts,
		Author: Author{
			Name:  d.Settings.UserName,
			Title: d.Settings.JobTitle,
			Boss:  d.Settings.BossName,
		},
		GeneratedAt:  now,
		projectNames: make(map[string]string, len(d.Projects)),
	}
	for _, p := range d.Projects {
		r.projectNames[p.ID] = p.Name
	}

	s := opts.Sections
	if s.Completed {
		r.Completed = completedByProject(d.Tasks, opts.From, opts.To, r.projectName)
	}
	if s.InProgress {
		r.InProgress = filterTasks(d.Tasks, func(t model.Task) bool {
			return t.Status == model.TaskInProgress || t.Status == model.TaskThisWeek
		})
	}
	if s.Upcoming {
		r.Upcoming = upcoming(d.Tasks)
	}
	if s.Blockers {
		r.Blockers = filterTasks(d.Tasks, func(t model.Task) bool {
			return t.Status == model.TaskBlocked
		})
	}
	if s.Activities {
		r.Activities = highlights(d.Activities, opts.From, opts.To)
	}
	if s.Value {
		for _, m := range d.Metrics {
			if roi.HoursSavedPerWeek(m) <= 0 {
				continue
			}
			r.Value = append(r.Value, ValueLine{Project: r.projectName(m.ProjectID), Figures: roi.Summarize(m)})
		}
		r.Rollup = roi.Cumulative(d.Metrics)
	}
	return r, nil
}

func (r *Report) projectName(id string) string {
	if name, ok := r.projectNames[id]; ok {
		return name
	}
	return NoProject
}

func filterTasks(tasks []model.Task, keep func(model.Task) bool) []model.Task {
	var out []model.Task
	for _, t := range tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

func completedByProject(tasks []model.Task, from, to string, name func(string) string) []ProjectGroup {
	var groups []ProjectGroup
	index := make(map[string]int)
	for _, t := range tasks {
		if t.Status != model.TaskDone || t.CompletedAt == nil {
			continue
		}
		if !model.InRange(model.DateOf(*t.CompletedAt), from, to) {
			continue
		}
		// Keyed by id so projects sharing a name stay apart. Tasks whose
		// project is gone all fall under NoProject.
		project := name(t.ProjectID)
		key := t.ProjectID
		if project == NoProject {
			key = ""
		}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, ProjectGroup{Project: project})
		}
		groups[i].Tasks = append(groups[i].Tasks, t)
	}
	return groups
}

func upcoming(tasks []model.Task) []model.Task {
	out := filterTasks(tasks, func(t model.Task) bool {
		return t.Status == model.TaskBacklog && t.DueDate != ""
	})
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DueDate < out[j].DueDate
	})
	if len(out) > MaxUpcoming {
		out = out[:MaxUpcoming]
	}
	return out
}

func highlights(activities []model.Activity, from, to string) []model.Activity {
	var out []model.Activity
	for _, a := range activities {
		if model.InRange(a.Date, from, to) {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if len(out) > MaxHighlights {
		out = out[:MaxHighlights]
	}
	return out
}
