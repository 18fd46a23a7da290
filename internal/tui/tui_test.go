package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/workpulse/internal/cloud"
	"github.com/sadopc/workpulse/internal/model"
	"github.com/sadopc/workpulse/internal/tracker"
)

// Wednesday, so the week started two days earlier.
var testNow = time.Date(2024, 3, 6, 10, 0, 0, 0, time.Local)

func newTestTracker(t *testing.T) *tracker.Tracker {
	t.Helper()
	d := model.NewData()
	d.Settings.OnboardingComplete = true
	return tracker.New(d, nil, tracker.WithClock(func() time.Time { return testNow }))
}

func newTestApp(t *testing.T, tr *tracker.Tracker) App {
	t.Helper()
	dir := t.TempDir()
	app := NewApp(context.Background(), tr, Options{ExportDir: dir, ReportDir: dir, DataDir: dir})
	m, _ := app.Update(tea.WindowSizeMsg{Width: 140, Height: 48})
	return m.(App)
}

func mustProject(t *testing.T, tr *tracker.Tracker, name string) model.Project {
	t.Helper()
	p, err := tr.CreateProject(context.Background(), tracker.ProjectInput{Name: name})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	return p
}

func mustTask(t *testing.T, tr *tracker.Tracker, in tracker.TaskInput) model.Task {
	t.Helper()
	x, err := tr.CreateTask(context.Background(), in)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	return x
}

func press(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var escKey = tea.KeyMsg{Type: tea.KeyEsc}

func send(t *testing.T, app App, msgs ...tea.Msg) App {
	t.Helper()
	for _, msg := range msgs {
		m, _ := app.Update(msg)
		app = m.(App)
	}
	return app
}

type fakeSync struct{ status cloud.Status }

func (f fakeSync) Status() cloud.Status { return f.status }

// ============================================================
// Helper functions
// ============================================================

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"a longer line", 6, "a lon…"},
		{"héllo wörld", 5, "héll…"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestVisibleRange(t *testing.T) {
	tests := []struct {
		cursor, n, size int
		start, end      int
	}{
		{0, 3, 10, 0, 3},
		{0, 20, 5, 0, 5},
		{4, 20, 5, 0, 5},
		{5, 20, 5, 1, 6},
		{19, 20, 5, 15, 20},
	}
	for _, tt := range tests {
		s, e := visibleRange(tt.cursor, tt.n, tt.size)
		if s != tt.start || e != tt.end {
			t.Errorf("visibleRange(%d, %d, %d) = %d, %d, want %d, %d", tt.cursor, tt.n, tt.size, s, e, tt.start, tt.end)
		}
	}
}

func TestClampCursor(t *testing.T) {
	if clampCursor(5, 3) != 2 || clampCursor(-1, 3) != 0 || clampCursor(2, 0) != 0 {
		t.Fatal("clampCursor out of range")
	}
}

func TestDueLabel(t *testing.T) {
	if got := dueLabel("", "2024-03-06"); got != "" {
		t.Fatalf("empty due date rendered %q", got)
	}
	if got := dueLabel("2024-03-01", "2024-03-06"); !strings.Contains(got, "overdue") {
		t.Fatalf("overdue label = %q", got)
	}
	if got := dueLabel("2024-03-06", "2024-03-06"); !strings.Contains(got, "due today") {
		t.Fatalf("today label = %q", got)
	}
}

func TestGreeting(t *testing.T) {
	at := func(h int) time.Time { return time.Date(2024, 3, 6, h, 0, 0, 0, time.Local) }
	if got := greeting("", at(9)); got != "Good morning" {
		t.Fatalf("greeting = %q", got)
	}
	if got := greeting("Sam", at(14)); got != "Good afternoon, Sam" {
		t.Fatalf("greeting = %q", got)
	}
	if got := greeting("Sam", at(21)); got != "Good evening, Sam" {
		t.Fatalf("greeting = %q", got)
	}
}

func TestWeeklyCompletions(t *testing.T) {
	done := func(at time.Time) model.Task {
		return model.Task{Status: model.TaskDone, CompletedAt: &at}
	}
	tasks := []model.Task{
		done(testNow.Add(-time.Hour)),
		done(testNow.AddDate(0, 0, -7)),
		done(testNow.AddDate(0, 0, -8)),
		done(testNow.AddDate(0, 0, -120)), // outside the window
		{Status: model.TaskInProgress},
	}
	labels, counts := weeklyCompletions(tasks, testNow, 4)
	if len(labels) != 4 || len(counts) != 4 {
		t.Fatalf("got %d labels, %d counts", len(labels), len(counts))
	}
	if labels[3] != "Mar 04" {
		t.Fatalf("current week label = %q", labels[3])
	}
	want := []int{0, 0, 2, 1}
	for i := range want {
		if counts[i] != want[i] {
			t.Fatalf("counts = %v, want %v", counts, want)
		}
	}
}

func TestViewFromKey(t *testing.T) {
	if len(viewNames) != len(tracker.Views) {
		t.Fatalf("%d view names for %d views", len(viewNames), len(tracker.Views))
	}
	if viewFromKey("kanban") != viewKanban {
		t.Fatal("kanban key should map to the kanban view")
	}
	if viewFromKey("nope") != viewDashboard {
		t.Fatal("unknown key should fall back to dashboard")
	}
}

// ============================================================
// Form fields
// ============================================================

func TestMetricFieldsInput(t *testing.T) {
	f := newMetricFields()
	f.load(nil, "p1")
	*f.hoursToRun = "2"
	*f.runsPerWeek = " 5 "
	*f.runMinutes = "10"
	*f.hoursToBuild = "40.5"
	*f.peopleImpacted = "3"

	in := f.input()
	if in.ProjectID != "p1" || in.HoursToRun != 2 || in.RunsPerWeek != 5 || in.HoursToBuild != 40.5 || in.PeopleImpacted != 3 {
		t.Fatalf("input = %+v", in)
	}
	if nonNegative("-1") == nil || nonNegative("x") == nil || nonNegative("0") != nil {
		t.Fatal("nonNegative validation wrong")
	}
	if wholeNumber("1.5") == nil || wholeNumber("2") != nil {
		t.Fatal("wholeNumber validation wrong")
	}
}

func TestTaskFieldsLoadExisting(t *testing.T) {
	f := newTaskFields()
	f.load(&model.Task{Name: "Ship", ProjectID: "p", Status: model.TaskBlocked, Priority: 1, Tags: []string{"a", "b"}}, "", "")
	in := f.input()
	if in.Name != "Ship" || in.Priority != 1 || len(in.Tags) != 2 {
		t.Fatalf("input = %+v", in)
	}
}

func TestOptionalDate(t *testing.T) {
	if optionalDate("") != nil || optionalDate("2024-03-06") != nil {
		t.Fatal("valid dates rejected")
	}
	if optionalDate("03/06/2024") == nil {
		t.Fatal("bad date accepted")
	}
}

func TestStepFormEscCancels(t *testing.T) {
	ok := false
	f := newConfirmForm("Sure?", &ok)
	f.Init()
	_, _, done, submitted := stepForm(f, escKey)
	if !done || submitted {
		t.Fatalf("esc: done=%v submitted=%v", done, submitted)
	}
}

// ============================================================
// App model
// ============================================================

func TestNewApp(t *testing.T) {
	app := newTestApp(t, newTestTracker(t))

	if app.activeView != viewDashboard {
		t.Fatal("default view should be dashboard")
	}
	if app.showHelp || app.exportPicking {
		t.Fatal("overlays should be hidden by default")
	}
	if app.isFormActive() {
		t.Fatal("no forms should be active initially")
	}
}

func TestNewAppOpensDefaultView(t *testing.T) {
	tr := newTestTracker(t)
	tr.Data().Settings.DefaultView = "activity"
	app := newTestApp(t, tr)
	if app.activeView != viewActivity {
		t.Fatalf("active view = %d, want activity", app.activeView)
	}
}

func TestNewAppStartsOnboarding(t *testing.T) {
	tr := tracker.New(nil, nil, tracker.WithClock(func() time.Time { return testNow }))
	app := newTestApp(t, tr)
	if app.activeView != viewSettings || !app.settings.formActive || !app.settings.onboarding {
		t.Fatal("first run should open the onboarding form")
	}
	app = send(t, app, escKey)
	if !app.settings.formActive {
		t.Fatal("onboarding form should not be dismissable")
	}
}

func TestAppLoadingState(t *testing.T) {
	app := NewApp(context.Background(), newTestTracker(t), Options{})
	if got := app.View(); got != "Loading..." {
		t.Fatalf("expected 'Loading...', got %q", got)
	}
}

func TestAppTabSwitching(t *testing.T) {
	app := newTestApp(t, newTestTracker(t))

	for i := range viewNames {
		app = send(t, app, press(string(rune('1'+i))))
		if app.activeView != viewState(i) {
			t.Fatalf("key %d opened view %d", i+1, app.activeView)
		}
	}
	app = send(t, app, tea.KeyMsg{Type: tea.KeyTab})
	if app.activeView != viewDashboard {
		t.Fatal("tab should wrap to dashboard")
	}
}

func TestAppViewStates(t *testing.T) {
	tr := newTestTracker(t)
	p := mustProject(t, tr, "Ops")
	mustTask(t, tr, tracker.TaskInput{Name: "Rotate keys", ProjectID: p.ID, DueDate: "2024-03-07"})
	if _, err := tr.LogActivity(context.Background(), tracker.ActivityInput{Entry: "Paired on deploy", ProjectID: p.ID}); err != nil {
		t.Fatal(err)
	}
	if _, err := tr.SetMetric(context.Background(), tracker.MetricInput{ProjectID: p.ID, HoursToRun: 1, RunsPerWeek: 5, HoursToBuild: 10, PeopleImpacted: 2}); err != nil {
		t.Fatal(err)
	}
	app := newTestApp(t, tr)

	for i := range viewNames {
		app = send(t, app, press(string(rune('1'+i))))
		if out := app.View(); out == "" {
			t.Fatalf("view %d rendered empty", i)
		}
	}
}

func TestAppRenderHeaderContainsAllTabs(t *testing.T) {
	app := newTestApp(t, newTestTracker(t))
	header := app.renderHeader()
	for _, name := range viewNames {
		if !strings.Contains(header, name) {
			t.Fatalf("header missing tab %q", name)
		}
	}
}

func TestAppStatusMessage(t *testing.T) {
	app := newTestApp(t, newTestTracker(t))
	app = send(t, app, statusMsg{text: "test status"})
	if !strings.Contains(app.renderFooter(), "test status") {
		t.Fatal("footer should contain status message")
	}
}

func TestAppShowsTrackerNotices(t *testing.T) {
	tr := newTestTracker(t)
	app := newTestApp(t, tr)
	tr.Notify(tracker.NoticeInfo, "first")
	tr.Notify(tracker.NoticeError, "second")

	app = send(t, app, tickMsg(testNow))
	if app.status != "second" || !app.isError {
		t.Fatalf("status = %q (error %v)", app.status, app.isError)
	}
	if len(tr.Notices()) != 0 {
		t.Fatal("notices should be drained")
	}
}

func TestAppSyncIndicator(t *testing.T) {
	dir := t.TempDir()
	app := NewApp(context.Background(), newTestTracker(t), Options{Sync: fakeSync{cloud.StatusSynced}, ExportDir: dir})
	app = send(t, app, tea.WindowSizeMsg{Width: 140, Height: 48}, tickMsg(testNow))
	if app.syncText != "Synced" {
		t.Fatalf("sync text = %q", app.syncText)
	}
	if !strings.Contains(app.settings.syncLabel(), "Synced") {
		t.Fatal("settings should show sync status")
	}
}

func TestAppToggleTheme(t *testing.T) {
	tr := newTestTracker(t)
	app := newTestApp(t, tr)
	app = send(t, app, press("t"))
	if tr.Settings().Theme != "light" || currentTheme != "light" {
		t.Fatalf("theme = %q, styles = %q", tr.Settings().Theme, currentTheme)
	}
	send(t, app, press("t"))
	if currentTheme != "dark" {
		t.Fatal("second toggle should restore dark")
	}
}

func TestAppExport(t *testing.T) {
	tr := newTestTracker(t)
	mustProject(t, tr, "Ops")
	app := newTestApp(t, tr)

	app = send(t, app, press("x"))
	if !app.exportPicking {
		t.Fatal("x should open the export picker")
	}
	for i, name := range []string{"workpulse-export-2024-03-06.json", "workpulse-tasks-2024-03-06.csv", "workpulse-activities-2024-03-06.csv"} {
		msg := app.doExport(i)()
		done, ok := msg.(exportDoneMsg)
		if !ok {
			t.Fatalf("export %d returned %#v", i, msg)
		}
		if filepath.Base(done.path) != name {
			t.Fatalf("export %d wrote %s", i, done.path)
		}
		if _, err := os.Stat(done.path); err != nil {
			t.Fatalf("export %d: %v", i, err)
		}
	}
}

// ============================================================
// Projects
// ============================================================

func TestProjectsFormOpenAndCancel(t *testing.T) {
	tr := newTestTracker(t)
	app := newTestApp(t, tr)
	app = send(t, app, press("2"), press("n"))
	if !app.isFormActive() || app.projects.formType != "project" {
		t.Fatal("n should open the new project form")
	}
	// Keys go to the form, not the tab bar.
	app = send(t, app, press("3"))
	if app.activeView != viewProjects {
		t.Fatal("typing in a form switched views")
	}
	app = send(t, app, escKey)
	if app.isFormActive() {
		t.Fatal("esc should close the form")
	}
}

func TestProjectsArchivedHidden(t *testing.T) {
	tr := newTestTracker(t)
	p := mustProject(t, tr, "Old")
	mustProject(t, tr, "New")
	if _, err := tr.UpdateProject(context.Background(), p.ID, tracker.ProjectInput{Name: "Old", Status: model.ProjectArchived}); err != nil {
		t.Fatal(err)
	}

	m := newProjectsModel(context.Background(), tr)
	if len(m.projects) != 1 || m.projects[0].Name != "New" {
		t.Fatalf("projects = %+v", m.projects)
	}
	m, _ = m.update(press("a"))
	if len(m.projects) != 2 {
		t.Fatal("a should show archived projects")
	}
}

func TestProjectsTaskView(t *testing.T) {
	tr := newTestTracker(t)
	p := mustProject(t, tr, "Ops")
	mustTask(t, tr, tracker.TaskInput{Name: "One", ProjectID: p.ID})
	mustTask(t, tr, tracker.TaskInput{Name: "Two", ProjectID: p.ID})

	m := newProjectsModel(context.Background(), tr)
	m.setSize(120, 40)
	m, _ = m.update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.viewingTasks || len(m.tasks) != 2 {
		t.Fatalf("viewing=%v tasks=%d", m.viewingTasks, len(m.tasks))
	}
	if !strings.Contains(m.view(), "Two") {
		t.Fatal("task list should render task names")
	}
	m, _ = m.update(escKey)
	if m.viewingTasks {
		t.Fatal("esc should return to the project list")
	}
}

func TestProgressBar(t *testing.T) {
	if got := progressBar(1, 2, 8); !strings.Contains(got, "████") {
		t.Fatalf("bar = %q", got)
	}
	if got := progressBar(0, 0, 4); !strings.Contains(got, "░░░░") {
		t.Fatalf("empty bar = %q", got)
	}
}

// ============================================================
// Kanban
// ============================================================

func TestKanbanShiftMovesTask(t *testing.T) {
	tr := newTestTracker(t)
	p := mustProject(t, tr, "Ops")
	x := mustTask(t, tr, tracker.TaskInput{Name: "Ship", ProjectID: p.ID})

	k := newKanbanModel(context.Background(), tr)
	k, _ = k.update(press("]"))
	if got := tr.Data().Task(x.ID).Status; got != model.TaskThisWeek {
		t.Fatalf("status = %s, want this-week", got)
	}
	if k.col != 1 || k.selected() == nil || k.selected().ID != x.ID {
		t.Fatal("cursor should follow the moved task")
	}
	k, _ = k.update(press("["))
	if got := tr.Data().Task(x.ID).Status; got != model.TaskBacklog {
		t.Fatalf("status = %s, want backlog", got)
	}
}

func TestKanbanShiftIntoBlockedAsksForNote(t *testing.T) {
	tr := newTestTracker(t)
	p := mustProject(t, tr, "Ops")
	x := mustTask(t, tr, tracker.TaskInput{Name: "Ship", ProjectID: p.ID, Status: model.TaskInProgress})

	k := newKanbanModel(context.Background(), tr)
	k.col = 2
	k, _ = k.update(press("]"))
	if !k.formActive || k.formType != "block" || k.editingID != x.ID {
		t.Fatal("moving into blocked should open the blocker form")
	}
	if tr.Data().Task(x.ID).Status != model.TaskInProgress {
		t.Fatal("task should not move until the note is given")
	}
}

func TestKanbanReorder(t *testing.T) {
	tr := newTestTracker(t)
	p := mustProject(t, tr, "Ops")
	a := mustTask(t, tr, tracker.TaskInput{Name: "A", ProjectID: p.ID})
	b := mustTask(t, tr, tracker.TaskInput{Name: "B", ProjectID: p.ID})

	k := newKanbanModel(context.Background(), tr)
	k, _ = k.update(press("J"))
	col := tr.Column(model.TaskBacklog)
	if col[0].ID != b.ID || col[1].ID != a.ID {
		t.Fatal("J should move the task down")
	}
	if k.rows[0] != 1 {
		t.Fatalf("cursor row = %d, want 1", k.rows[0])
	}
	k, _ = k.update(press("K"))
	if tr.Column(model.TaskBacklog)[0].ID != a.ID {
		t.Fatal("K should move the task back up")
	}
	// Already at the top.
	k.update(press("K"))
	if tr.Column(model.TaskBacklog)[0].ID != a.ID {
		t.Fatal("K at the top should do nothing")
	}
}

func TestKanbanNewNeedsProject(t *testing.T) {
	k := newKanbanModel(context.Background(), newTestTracker(t))
	k, cmd := k.update(press("n"))
	if k.formActive || cmd == nil {
		t.Fatal("new task without projects should report an error")
	}
	if msg, ok := cmd().(statusMsg); !ok || !msg.isError {
		t.Fatalf("msg = %#v", msg)
	}
}

// ============================================================
// Activity
// ============================================================

func TestActivityFilterAndSearch(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()
	for _, in := range []tracker.ActivityInput{
		{Entry: "Built the importer", Category: model.CategoryBuild},
		{Entry: "Standup", Category: model.CategoryMeeting, Tags: []string{"team"}},
		{Entry: "Answered tickets", Category: model.CategorySupport},
	} {
		if _, err := tr.LogActivity(ctx, in); err != nil {
			t.Fatal(err)
		}
	}

	a := newActivityModel(ctx, tr)
	if len(a.feed) != 3 {
		t.Fatalf("feed = %d, want 3", len(a.feed))
	}
	a, _ = a.update(press("c"))
	if len(a.feed) != 1 || a.feed[0].Category != model.CategoryBuild {
		t.Fatalf("category filter gave %+v", a.feed)
	}
	a, _ = a.update(escKey)
	if len(a.feed) != 3 {
		t.Fatal("esc should clear filters")
	}

	a, _ = a.update(press("/"))
	if !a.capturing() {
		t.Fatal("/ should focus the search box")
	}
	a, _ = a.update(press("t"))
	a, _ = a.update(press("e"))
	a, _ = a.update(press("a"))
	a, _ = a.update(press("m"))
	if len(a.feed) != 1 || a.feed[0].Entry != "Standup" {
		t.Fatalf("search should match tags, got %+v", a.feed)
	}
	a, _ = a.update(tea.KeyMsg{Type: tea.KeyEnter})
	if a.capturing() {
		t.Fatal("enter should leave the search box")
	}
}

func TestActivityNewDefaultsToLastProject(t *testing.T) {
	tr := newTestTracker(t)
	p := mustProject(t, tr, "Ops")
	if _, err := tr.LogActivity(context.Background(), tracker.ActivityInput{Entry: "x", ProjectID: p.ID}); err != nil {
		t.Fatal(err)
	}

	a := newActivityModel(context.Background(), tr)
	a, _ = a.update(press("n"))
	if !a.formActive {
		t.Fatal("n should open the log form")
	}
	if *a.fields.projectID != p.ID || *a.fields.date != "2024-03-06" {
		t.Fatalf("defaults: project %q date %q", *a.fields.projectID, *a.fields.date)
	}
}

// ============================================================
// Metrics and reports
// ============================================================

func TestMetricsRollup(t *testing.T) {
	tr := newTestTracker(t)
	p := mustProject(t, tr, "Ops")
	if _, err := tr.SetMetric(context.Background(), tracker.MetricInput{ProjectID: p.ID, HoursToRun: 2, RunsPerWeek: 5, HoursToBuild: 10, PeopleImpacted: 1}); err != nil {
		t.Fatal(err)
	}
	m := newMetricsModel(context.Background(), tr)
	m.setSize(140, 40)
	if len(m.figures) != 1 || m.rollup.Count != 1 {
		t.Fatalf("figures = %d, rollup = %+v", len(m.figures), m.rollup)
	}
	if m.figures[0].WeeklyHours != 10 {
		t.Fatalf("weekly hours = %v", m.figures[0].WeeklyHours)
	}
	if !strings.Contains(m.view(), "Ops") {
		t.Fatal("metrics table should name the project")
	}
}

func TestReportsPresetSwitchAndSave(t *testing.T) {
	tr := newTestTracker(t)
	dir := t.TempDir()
	r := newReportsModel(tr, dir)
	r.setSize(120, 40)

	if r.opts.From != "2024-03-05" || r.opts.To != "2024-03-06" {
		t.Fatalf("standup range = %s..%s", r.opts.From, r.opts.To)
	}
	r, _ = r.update(press("l"))
	if r.opts.From != "2024-03-04" || !r.opts.Sections.Value {
		t.Fatalf("weekly opts = %+v", r.opts)
	}

	_, cmd := r.update(press("s"))
	if cmd == nil {
		t.Fatal("save should return a command")
	}
	done, ok := cmd().(exportDoneMsg)
	if !ok {
		t.Fatal("save should report the written path")
	}
	if filepath.Base(done.path) != "workpulse-report-2024-03-04-to-2024-03-06.md" {
		t.Fatalf("path = %s", done.path)
	}
	if _, err := os.Stat(done.path); err != nil {
		t.Fatal(err)
	}
}

// ============================================================
// Styles
// ============================================================

func TestApplyTheme(t *testing.T) {
	t.Cleanup(func() { applyTheme("dark") })

	applyTheme("light")
	if currentTheme != "light" || colorPrimary != palettes["light"].primary {
		t.Fatal("light palette not applied")
	}
	applyTheme("neon")
	if currentTheme != "dark" || colorPrimary != palettes["dark"].primary {
		t.Fatal("unknown theme should fall back to dark")
	}
}

func TestKeyMapHelp(t *testing.T) {
	if len(keys.ShortHelp()) == 0 {
		t.Fatal("short help should have bindings")
	}
	for i, g := range keys.FullHelp() {
		if len(g) == 0 {
			t.Fatalf("full help group %d is empty", i)
		}
	}
}
