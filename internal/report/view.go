package report

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/sadopc/workpulse/internal/model"
)

// Section titles, in rendering order.
const (
	TitleCompleted  = "Completed"
	TitleInProgress = "In Progress"
	TitleUpcoming   = "Coming Up"
	TitleBlockers   = "Blockers"
	TitleActivities = "Activity Highlights"
	TitleValue      = "Value Delivered"
)

type Item struct {
	Text   string
	Detail string
}

// Group is a run of items under an optional heading.
type Group struct {
	Heading string
	Items   []Item
}

type Section struct {
	Title  string
	Groups []Group
}

func (s Section) Empty() bool {
	for _, g := range s.Groups {
		if len(g.Items) > 0 {
			return false
		}
	}
	return true
}

// ItemCount totals the items across groups.
func (s Section) ItemCount() int {
	n := 0
	for _, g := range s.Groups {
		n += len(g.Items)
	}
	return n
}

// Hours formats an hour figure with one decimal and thousands separators.
func Hours(v float64) string {
	return humanize.FormatFloat("#,###.#", v) + "h"
}

// Ratio formats an ROI multiple.
func Ratio(v float64) string {
	return humanize.FormatFloat("#,###.#", v) + "x"
}

// View is the structured rendering of the report: one Section per enabled
// toggle, in a fixed order.
func (r *Report) View() []Section {
	var out []Section
	s := r.Options.Sections
	if s.Completed {
		sec := Section{Title: TitleCompleted}
		for _, g := range r.Completed {
			grp := Group{Heading: g.Project}
			for _, t := range g.Tasks {
				grp.Items = append(grp.Items, Item{Text: t.Name, Detail: completedDetail(t)})
			}
			sec.Groups = append(sec.Groups, grp)
		}
		out = append(out, sec)
	}
	if s.InProgress {
		out = append(out, r.taskSection(TitleInProgress, r.InProgress, func(t model.Task) string {
			return joinDetail(r.projectName(t.ProjectID), statusLabel(t.Status))
		}))
	}
	if s.Upcoming {
		out = append(out, r.taskSection(TitleUpcoming, r.Upcoming, func(t model.Task) string {
			return joinDetail(r.projectName(t.ProjectID), "due "+t.DueDate)
		}))
	}
	if s.Blockers {
		out = append(out, r.taskSection(TitleBlockers, r.Blockers, func(t model.Task) string {
			return joinDetail(r.projectName(t.ProjectID), t.BlockerNote)
		}))
	}
	if s.Activities {
		grp := Group{}
		for _, a := range r.Activities {
			project := ""
			if a.ProjectID != "" {
				project = r.projectName(a.ProjectID)
			}
			grp.Items = append(grp.Items, Item{
				Text:   a.Entry,
				Detail: joinDetail(a.Date, string(a.Category), project),
			})
		}
		out = append(out, Section{Title: TitleActivities, Groups: []Group{grp}})
	}
	if s.Value {
		grp := Group{}
		for _, v := range r.Value {
			f := v.Figures
			grp.Items = append(grp.Items, Item{
				Text: v.Project,
				Detail: joinDetail(
					Hours(f.WeeklyHours)+"/week saved",
					Hours(f.YearlyHours)+"/year",
					"ROI "+Ratio(f.ROI),
					fmt.Sprintf("%d people", f.PeopleImpacted),
				),
			})
		}
		sec := Section{Title: TitleValue, Groups: []Group{grp}}
		if len(r.Value) > 0 {
			ru := r.Rollup
			sec.Groups = append(sec.Groups, Group{
				Heading: "Total",
				Items: []Item{
					{Text: "Hours saved", Detail: joinDetail(Hours(ru.WeeklyHours)+"/week", Hours(ru.MonthlyHours)+"/month", Hours(ru.YearlyHours)+"/year")},
					{Text: "Investment", Detail: Hours(ru.BuildHours) + " to build, average ROI " + Ratio(ru.AverageROI)},
					{Text: "People impacted", Detail: fmt.Sprintf("%d", ru.PeopleImpacted)},
				},
			})
		}
		out = append(out, sec)
	}
	return out
}

func (r *Report) taskSection(title string, tasks []model.Task, detail func(model.Task) string) Section {
	grp := Group{}
	for _, t := range tasks {
		grp.Items = append(grp.Items, Item{Text: t.Name, Detail: detail(t)})
	}
	return Section{Title: title, Groups: []Group{grp}}
}

func completedDetail(t model.Task) string {
	if t.CompletedAt == nil {
		return ""
	}
	return "done " + model.DateOf(*t.CompletedAt)
}

func statusLabel(s model.TaskStatus) string {
	switch s {
	case model.TaskThisWeek:
		return "this week"
	case model.TaskInProgress:
		return "in progress"
	}
	return string(s)
}

func joinDetail(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " · ")
}
