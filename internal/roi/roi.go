// Package roi derives time-saved and return-on-investment figures from
// automation metrics.
package roi

import "github.com/sadopc/workpulse/internal/model"

const (
	WeeksPerMonth = 4.33
	WeeksPerYear  = 52
)

// HoursSavedPerWeek is manual time minus automated time across the week's
// runs, clamped at zero.
func HoursSavedPerWeek(m model.Metric) float64 {
	manual := m.HoursToRun * m.RunsPerWeek
	automated := (m.RunDurationMinutes / 60) * m.RunsPerWeek
	return max(0, manual-automated)
}

func HoursSavedPerMonth(m model.Metric) float64 {
	return HoursSavedPerWeek(m) * WeeksPerMonth
}

func HoursSavedPerYear(m model.Metric) float64 {
	return HoursSavedPerWeek(m) * WeeksPerYear
}

// ROI is yearly hours saved per build hour. It is 0 when the build cost is
// unknown or zero.
func ROI(m model.Metric) float64 {
	if m.HoursToBuild <= 0 {
		return 0
	}
	return HoursSavedPerYear(m) / m.HoursToBuild
}

// Breakeven returns the weeks needed to recover the build investment.
// ok is false when nothing is saved per week, since payback never happens.
func Breakeven(m model.Metric) (weeks float64, ok bool) {
	perWeek := HoursSavedPerWeek(m)
	if perWeek <= 0 {
		return 0, false
	}
	return m.HoursToBuild / perWeek, true
}

// Figures bundles every derived value for one metric.
type Figures struct {
	ProjectID      string
	WeeklyHours    float64
	MonthlyHours   float64
	YearlyHours    float64
	ROI            float64
	BreakevenWeeks float64
	HasBreakeven   bool
	BuildHours     float64
	PeopleImpacted int
}

func Summarize(m model.Metric) Figures {
	weeks, ok := Breakeven(m)
	return Figures{
		ProjectID:      m.ProjectID,
		WeeklyHours:    HoursSavedPerWeek(m),
		MonthlyHours:   HoursSavedPerMonth(m),
		YearlyHours:    HoursSavedPerYear(m),
		ROI:            ROI(m),
		BreakevenWeeks: weeks,
		HasBreakeven:   ok,
		BuildHours:     m.HoursToBuild,
		PeopleImpacted: m.PeopleImpacted,
	}
}

// Rollup aggregates savings across every metric.
type Rollup struct {
	Count          int
	WeeklyHours    float64
	MonthlyHours   float64
	YearlyHours    float64
	BuildHours     float64
	PeopleImpacted int
	// AverageROI is total yearly hours over total build hours, so larger
	// investments weigh more than small ones.
	AverageROI float64
}

func Cumulative(metrics []model.Metric) Rollup {
	var r Rollup
	for _, m := range metrics {
		r.Count++
		r.WeeklyHours += HoursSavedPerWeek(m)
		r.YearlyHours += HoursSavedPerYear(m)
		r.BuildHours += m.HoursToBuild
		r.PeopleImpacted += m.PeopleImpacted
	}
	r.MonthlyHours = r.WeeklyHours * WeeksPerMonth
	if r.BuildHours > 0 {
		r.AverageROI = r.YearlyHours / r.BuildHours
	}
	return r
}
