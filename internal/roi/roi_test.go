package roi

import (
	"math"
	"testing"

	"github.com/sadopc/workpulse/internal/model"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestScenarioMetric(t *testing.T) {
	m := model.Metric{HoursToRun: 2, RunsPerWeek: 3, RunDurationMinutes: 30, HoursToBuild: 10, PeopleImpacted: 4}

	if got := HoursSavedPerWeek(m); !approx(got, 4.5) {
		t.Fatalf("weekly = %v, want 4.5", got)
	}
	if got := HoursSavedPerYear(m); !approx(got, 234) {
		t.Fatalf("yearly = %v, want 234", got)
	}
	if got := HoursSavedPerMonth(m); !approx(got, 4.5*4.33) {
		t.Fatalf("monthly = %v", got)
	}
	if got := ROI(m); !approx(got, 23.4) {
		t.Fatalf("roi = %v, want 23.4", got)
	}
	weeks, ok := Breakeven(m)
	if !ok || !approx(weeks, 10/4.5) {
		t.Fatalf("breakeven = %v %v", weeks, ok)
	}
}

func TestHoursSavedNeverNegative(t *testing.T) {
	tests := []model.Metric{
		{HoursToRun: 0.5, RunsPerWeek: 10, RunDurationMinutes: 45},
		{HoursToRun: 0, RunsPerWeek: 1, RunDurationMinutes: 1},
		{},
	}
	for _, m := range tests {
		if got := HoursSavedPerWeek(m); got < 0 {
			t.Errorf("HoursSavedPerWeek(%+v) = %v, want >= 0", m, got)
		}
	}
}

func TestBreakevenNotApplicable(t *testing.T) {
	tests := []struct {
		m  model.Metric
		ok bool
	}{
		{model.Metric{HoursToRun: 1, RunsPerWeek: 1, HoursToBuild: 5}, true},
		{model.Metric{HoursToRun: 1, RunsPerWeek: 1, HoursToBuild: 0}, true},
		{model.Metric{HoursToRun: 1, RunsPerWeek: 0, HoursToBuild: 5}, false},
		{model.Metric{HoursToRun: 0.25, RunsPerWeek: 4, RunDurationMinutes: 30, HoursToBuild: 5}, false},
	}
	for _, tt := range tests {
		_, ok := Breakeven(tt.m)
		if ok != tt.ok {
			t.Errorf("Breakeven(%+v) ok = %v, want %v", tt.m, ok, tt.ok)
		}
		if ok == (HoursSavedPerWeek(tt.m) <= 0) {
			t.Errorf("Breakeven(%+v) applicability disagrees with weekly savings", tt.m)
		}
	}
}

func TestROIZeroWithoutBuildCost(t *testing.T) {
	m := model.Metric{HoursToRun: 8, RunsPerWeek: 5}
	if got := ROI(m); got != 0 {
		t.Fatalf("ROI = %v, want 0", got)
	}
}

func TestCumulativeWeightsByInvestment(t *testing.T) {
	metrics := []model.Metric{
		{HoursToRun: 2, RunsPerWeek: 3, RunDurationMinutes: 30, HoursToBuild: 10, PeopleImpacted: 4}, // 4.5/wk
		{HoursToRun: 1, RunsPerWeek: 1, HoursToBuild: 90, PeopleImpacted: 1},                         // 1/wk
		{HoursToRun: 0.1, RunsPerWeek: 1, RunDurationMinutes: 60},                                    // 0/wk
	}
	r := Cumulative(metrics)
	if r.Count != 3 {
		t.Fatalf("count = %d", r.Count)
	}
	if !approx(r.WeeklyHours, 5.5) {
		t.Fatalf("weekly = %v", r.WeeklyHours)
	}
	if !approx(r.YearlyHours, 5.5*52) {
		t.Fatalf("yearly = %v", r.YearlyHours)
	}
	if r.BuildHours != 100 || r.PeopleImpacted != 5 {
		t.Fatalf("build = %v people = %d", r.BuildHours, r.PeopleImpacted)
	}
	// 286 / 100, not the mean of 23.4 and 0.578
	if !approx(r.AverageROI, 2.86) {
		t.Fatalf("average ROI = %v, want 2.86", r.AverageROI)
	}
}

func TestCumulativeEmpty(t *testing.T) {
	r := Cumulative(nil)
	if r.Count != 0 || r.AverageROI != 0 || r.WeeklyHours != 0 {
		t.Fatalf("unexpected rollup: %+v", r)
	}
}

func TestSummarize(t *testing.T) {
	f := Summarize(model.Metric{ProjectID: "p", HoursToRun: 1, RunsPerWeek: 2, HoursToBuild: 4, PeopleImpacted: 3})
	if f.ProjectID != "p" || !approx(f.WeeklyHours, 2) || !f.HasBreakeven || !approx(f.BreakevenWeeks, 2) {
		t.Fatalf("unexpected figures: %+v", f)
	}
}
