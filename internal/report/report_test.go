package report

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/workpulse/internal/model"
)

func at(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.Local)
}

func ptr(t time.Time) *time.Time { return &t }

func scenario() *model.Data {
	d := model.NewData()
	d.Settings.UserName = "Sam"
	d.Settings.JobTitle = "Platform Engineer"
	d.Settings.BossName = "Alex"
	d.Projects = []model.Project{
		{ID: "p", Name: "P", Status: model.ProjectActive, Priority: 3},
		{ID: "q", Name: "Q", Status: model.ProjectActive, Priority: 3},
	}
	d.Tasks = []model.Task{
		{ID: "t1", Name: "T1", ProjectID: "p", Status: model.TaskDone, CompletedAt: ptr(at(2024, 3, 5, 14)), DueDate: "2024-03-06"},
		{ID: "t2", Name: "T2", ProjectID: "q", Status: model.TaskDone, CompletedAt: ptr(at(2024, 3, 2, 9))},
		{ID: "t3", Name: "T3", ProjectID: "p", Status: model.TaskDone, CompletedAt: ptr(at(2024, 3, 7, 23))},
		{ID: "t4", Name: "T4", ProjectID: "p", Status: model.TaskDone, CompletedAt: ptr(at(2024, 2, 29, 9))},
		{ID: "t5", Name: "T5", ProjectID: "gone", Status: model.TaskDone, CompletedAt: ptr(at(2024, 3, 3, 9))},
		{ID: "t6", Name: "T6", ProjectID: "p", Status: model.TaskInProgress},
		{ID: "t7", Name: "T7", ProjectID: "q", Status: model.TaskThisWeek},
		{ID: "t8", Name: "T8", ProjectID: "q", Status: model.TaskBlocked, BlockerNote: "waiting on access"},
		{ID: "t9", Name: "T9", ProjectID: "p", Status: model.TaskBacklog, DueDate: "2024-04-01"},
		{ID: "t10", Name: "T10", ProjectID: "p", Status: model.TaskBacklog, DueDate: "2024-03-20"},
		{ID: "t11", Name: "T11", ProjectID: "p", Status: model.TaskBacklog},
	}
	d.Activities = []model.Activity{
		{ID: "a1", Entry: "Kickoff", Category: model.CategoryMeeting, Date: "2024-03-01", Timestamp: at(2024, 3, 1, 9)},
		{ID: "a2", Entry: "Deployed v2", ProjectID: "p", Category: model.CategoryDeploy, Date: "2024-03-06", Timestamp: at(2024, 3, 6, 9)},
		{ID: "a3", Entry: "Old", Category: model.CategoryOther, Date: "2024-02-01", Timestamp: at(2024, 2, 1, 9)},
	}
	d.Metrics = []model.Metric{
		{ID: "m", ProjectID: "p", HoursToRun: 2, RunsPerWeek: 3, RunDurationMinutes: 30, HoursToBuild: 10, PeopleImpacted: 4},
		{ID: "m0", ProjectID: "q", HoursToRun: 0.5, RunsPerWeek: 1, RunDurationMinutes: 45, HoursToBuild: 2},
	}
	return d
}

func opts(s Sections) Options {
	return Options{From: "2024-03-01", To: "2024-03-07", Sections: s}
}

func TestCompletedGroupedByProject(t *testing.T) {
	r, err := Build(scenario(), opts(Sections{Completed: true}), at(2024, 3, 7, 18))
	if err != nil {
		t.Fatal(err)
	}
	if len(r.Completed) != 3 {
		t.Fatalf("expected 3 groups, got %+v", r.Completed)
	}
	p := r.Completed[0]
	if p.Project != "P" || len(p.Tasks) != 2 || p.Tasks[0].ID != "t1" || p.Tasks[1].ID != "t3" {
		t.Fatalf("group P = %+v", p)
	}
	if r.Completed[1].Project != "Q" || r.Completed[2].Project != NoProject {
		t.Fatalf("group order = %s, %s", r.Completed[1].Project, r.Completed[2].Project)
	}
	if r.InProgress != nil || r.Value != nil {
		t.Fatal("disabled sections should stay empty")
	}
}

func TestCompletedKeepsSameNamedProjectsApart(t *testing.T) {
	d := model.NewData()
	d.Projects = []model.Project{
		{ID: "ops1", Name: "Ops", Status: model.ProjectActive, Priority: 3},
		{ID: "ops2", Name: "Ops", Status: model.ProjectActive, Priority: 3},
	}
	d.Tasks = []model.Task{
		{ID: "a", Name: "A", ProjectID: "ops1", Status: model.TaskDone, CompletedAt: ptr(at(2024, 3, 5, 9))},
		{ID: "b", Name: "B", ProjectID: "ops2", Status: model.TaskDone, CompletedAt: ptr(at(2024, 3, 5, 10))},
		{ID: "c", Name: "C", ProjectID: "gone1", Status: model.TaskDone, CompletedAt: ptr(at(2024, 3, 5, 11))},
		{ID: "e", Name: "E", ProjectID: "gone2", Status: model.TaskDone, CompletedAt: ptr(at(2024, 3, 5, 12))},
	}
	r, err := Build(d, opts(Sections{Completed: true}), at(2024, 3, 7, 18))
	if err != nil {
		t.Fatal(err)
	}
	if len(r.Completed) != 3 {
		t.Fatalf("expected 3 groups, got %+v", r.Completed)
	}
	for i, want := range []string{"Ops", "Ops", NoProject} {
		if r.Completed[i].Project != want {
			t.Fatalf("group %d = %q, want %q", i, r.Completed[i].Project, want)
		}
	}
	if len(r.Completed[0].Tasks) != 1 || len(r.Completed[1].Tasks) != 1 || len(r.Completed[2].Tasks) != 2 {
		t.Fatalf("groups = %+v", r.Completed)
	}
}

func TestCurrentStateSectionsIgnoreRange(t *testing.T) {
	r, err := Build(scenario(), Options{From: "2030-01-01", To: "2030-01-02", Sections: AllSections()}, at(2024, 3, 7, 18))
	if err != nil {
		t.Fatal(err)
	}
	if len(r.InProgress) != 2 || r.InProgress[0].ID != "t6" || r.InProgress[1].ID != "t7" {
		t.Fatalf("in progress = %+v", r.InProgress)
	}
	if len(r.Blockers) != 1 || r.Blockers[0].ID != "t8" {
		t.Fatalf("blockers = %+v", r.Blockers)
	}
	if len(r.Upcoming) != 2 || r.Upcoming[0].ID != "t10" || r.Upcoming[1].ID != "t9" {
		t.Fatalf("upcoming = %+v", r.Upcoming)
	}
	if len(r.Completed) != 0 || len(r.Activities) != 0 {
		t.Fatal("ranged sections should be empty outside the window")
	}
}

func TestUpcomingCappedAtTen(t *testing.T) {
	d := model.NewData()
	for i := 20; i > 0; i-- {
		d.Tasks = append(d.Tasks, model.Task{
			ID:      fmt.Sprintf("t%d", i),
			Status:  model.TaskBacklog,
			DueDate: fmt.Sprintf("2024-04-%02d", i),
		})
	}
	r, _ := Build(d, opts(Sections{Upcoming: true}), at(2024, 3, 7, 18))
	if len(r.Upcoming) != MaxUpcoming {
		t.Fatalf("upcoming = %d, want %d", len(r.Upcoming), MaxUpcoming)
	}
	if r.Upcoming[0].DueDate != "2024-04-01" || r.Upcoming[9].DueDate != "2024-04-10" {
		t.Fatalf("upcoming order: first %s last %s", r.Upcoming[0].DueDate, r.Upcoming[9].DueDate)
	}
}

func TestActivityHighlights(t *testing.T) {
	d := scenario()
	for i := 0; i < 20; i++ {
		d.Activities = append(d.Activities, model.Activity{
			ID:        fmt.Sprintf("x%d", i),
			Entry:     fmt.Sprintf("entry %d", i),
			Category:  model.CategoryBuild,
			Date:      "2024-03-04",
			Timestamp: at(2024, 3, 4, 0).Add(time.Duration(i) * time.Minute),
		})
	}
	r, _ := Build(d, opts(Sections{Activities: true}), at(2024, 3, 7, 18))
	if len(r.Activities) != MaxHighlights {
		t.Fatalf("highlights = %d", len(r.Activities))
	}
	if r.Activities[0].ID != "a2" {
		t.Fatalf("newest first expected a2, got %s", r.Activities[0].ID)
	}
	for i := 1; i < len(r.Activities); i++ {
		if r.Activities[i].Timestamp.After(r.Activities[i-1].Timestamp) {
			t.Fatal("highlights not sorted newest first")
		}
	}
}

func TestValueSuppressesZeroSavings(t *testing.T) {
	r, _ := Build(scenario(), opts(Sections{Value: true}), at(2024, 3, 7, 18))
	if len(r.Value) != 1 || r.Value[0].Project != "P" {
		t.Fatalf("value lines = %+v", r.Value)
	}
	if r.Value[0].Figures.ROI < 23.39 || r.Value[0].Figures.ROI > 23.41 {
		t.Fatalf("roi = %v", r.Value[0].Figures.ROI)
	}
	if r.Rollup.Count != 2 || r.Rollup.BuildHours != 12 {
		t.Fatalf("rollup should cover every metric: %+v", r.Rollup)
	}
}

func TestInvalidRange(t *testing.T) {
	_, err := Build(scenario(), Options{From: "2024-03-07", To: "2024-03-01"}, time.Now())
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
	_, err = Build(scenario(), Options{From: "yesterday", To: "2024-03-01"}, time.Now())
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}

func TestScenarioMarkdown(t *testing.T) {
	r, err := Build(scenario(), opts(Sections{Completed: true}), at(2024, 3, 7, 18))
	if err != nil {
		t.Fatal(err)
	}
	md := r.Markdown()
	if !strings.Contains(md, "### P\n\n- T1 (done 2024-03-05)\n") {
		t.Fatalf("T1 not listed under P:\n%s", md)
	}
	if !strings.Contains(md, "**Sam**, Platform Engineer") || !strings.Contains(md, "Prepared for Alex") {
		t.Fatalf("byline missing:\n%s", md)
	}
	if !strings.Contains(md, "Period: Mar 1, 2024 to Mar 7, 2024") {
		t.Fatalf("period missing:\n%s", md)
	}
	if strings.Contains(md, "## In Progress") {
		t.Fatal("disabled section rendered")
	}
}

func TestEmptySectionMarkdown(t *testing.T) {
	r, _ := Build(model.NewData(), opts(Sections{Blockers: true}), at(2024, 3, 7, 18))
	md := r.Markdown()
	if !strings.Contains(md, "## Blockers\n\n"+emptySection) {
		t.Fatalf("empty section not marked:\n%s", md)
	}
}

// Every item in the view appears in the export, in the same order.
func TestRenderingsAgree(t *testing.T) {
	r, err := Build(scenario(), opts(AllSections()), at(2024, 3, 7, 18))
	if err != nil {
		t.Fatal(err)
	}
	md := r.Markdown()
	pos := 0
	for _, sec := range r.View() {
		idx := strings.Index(md[pos:], "## "+sec.Title)
		if idx < 0 {
			t.Fatalf("section %q missing or out of order", sec.Title)
		}
		pos += idx
		for _, g := range sec.Groups {
			for _, it := range g.Items {
				line := itemLine(it)
				idx := strings.Index(md[pos:], line)
				if idx < 0 {
					t.Fatalf("item %q missing or out of order", line)
				}
				pos += idx + len(line)
			}
		}
	}
}

func TestBuildDeterministic(t *testing.T) {
	now := at(2024, 3, 7, 18)
	a, _ := Build(scenario(), opts(AllSections()), now)
	b, _ := Build(scenario(), opts(AllSections()), now)
	if a.Markdown() != b.Markdown() {
		t.Fatal("identical input produced different reports")
	}
}

func TestPresets(t *testing.T) {
	now := at(2024, 3, 6, 10) // Wednesday

	standup, err := Preset(PresetStandup, now)
	if err != nil {
		t.Fatal(err)
	}
	if standup.From != "2024-03-05" || standup.To != "2024-03-06" {
		t.Fatalf("standup range = %s..%s", standup.From, standup.To)
	}
	want := Sections{Completed: true, InProgress: true, Blockers: true}
	if standup.Sections != want {
		t.Fatalf("standup sections = %+v", standup.Sections)
	}

	weekly, _ := Preset(PresetWeekly, now)
	if weekly.From != "2024-03-04" || weekly.To != "2024-03-06" || weekly.Sections != AllSections() {
		t.Fatalf("weekly = %+v", weekly)
	}

	monthly, _ := Preset(PresetMonthly, now)
	if monthly.From != "2024-03-01" || monthly.To != "2024-03-06" {
		t.Fatalf("monthly = %+v", monthly)
	}

	if _, err := Preset("quarterly", now); !errors.Is(err, ErrUnknownPreset) {
		t.Fatalf("expected ErrUnknownPreset, got %v", err)
	}
}

func TestFilename(t *testing.T) {
	got := Filename(Options{From: "2024-03-01", To: "2024-03-07"})
	if got != "workpulse-report-2024-03-01-to-2024-03-07.md" {
		t.Fatalf("Filename = %q", got)
	}
}

func TestParseSections(t *testing.T) {
	s, err := ParseSections([]string{"completed", " Value "})
	if err != nil {
		t.Fatalf("ParseSections: %v", err)
	}
	if !s.Completed || !s.Value || s.Blockers {
		t.Fatalf("sections = %+v", s)
	}
	keys := s.Keys()
	if len(keys) != 2 || keys[0] != KeyCompleted || keys[1] != KeyValue {
		t.Fatalf("keys = %v", keys)
	}
	if len(AllSections().Keys()) != len(SectionKeys) {
		t.Fatal("all sections should list every key")
	}
	if _, err := ParseSections([]string{"gossip"}); !errors.Is(err, ErrUnknownSection) {
		t.Fatalf("err = %v, want ErrUnknownSection", err)
	}
}
