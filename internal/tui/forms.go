package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/sadopc/workpulse/internal/model"
	"github.com/sadopc/workpulse/internal/tracker"
)

var projectColors = []string{"#6C63FF", "#2EC4B6", "#FF6B6B", "#F39C12", "#2ECC71", "#E74C3C", "#9B59B6", "#3498DB"}

// Form field values live behind pointers so they survive the value copies
// bubbletea makes of every model.

type projectFields struct {
	name        *string
	description *string
	status      *model.ProjectStatus
	priority    *int
	tags        *string
	color       *string
}

func newProjectFields() projectFields {
	var (
		name, desc, tags string
		status           = model.ProjectActive
		priority         = model.DefaultPriority
		color            = projectColors[0]
	)
	return projectFields{&name, &desc, &status, &priority, &tags, &color}
}

func (f projectFields) load(p *model.Project) {
	if p == nil {
		*f.name, *f.description, *f.tags = "", "", ""
		*f.status, *f.priority, *f.color = model.ProjectActive, model.DefaultPriority, projectColors[0]
		return
	}
	*f.name, *f.description = p.Name, p.Description
	*f.status, *f.priority = p.Status, p.Priority
	*f.tags = strings.Join(p.Tags, ", ")
	*f.color = p.Color
}

func (f projectFields) form() *huh.Form {
	statuses := make([]huh.Option[model.ProjectStatus], len(model.ProjectStatuses))
	for i, s := range model.ProjectStatuses {
		statuses[i] = huh.NewOption(string(s), s)
	}
	colors := make([]huh.Option[string], len(projectColors))
	for i, c := range projectColors {
		colors[i] = huh.NewOption(colorDot(c)+" "+c, c)
	}
	return newForm(
		huh.NewGroup(
			huh.NewInput().Title("Project Name").Value(f.name).Validate(required("name")),
			huh.NewText().Title("Description").Lines(3).Value(f.description),
			huh.NewSelect[model.ProjectStatus]().Title("Status").Options(statuses...).Value(f.status),
			huh.NewSelect[int]().Title("Priority").Options(priorityOptions()...).Value(f.priority),
			huh.NewInput().Title("Tags (comma-separated)").Value(f.tags),
			huh.NewSelect[string]().Title("Color").Options(colors...).Value(f.color),
		),
	)
}

func (f projectFields) input() tracker.ProjectInput {
	return tracker.ProjectInput{
		Name:        *f.name,
		Description: *f.description,
		Status:      *f.status,
		Priority:    *f.priority,
		Tags:        model.SplitTags(*f.tags),
		Color:       *f.color,
	}
}

type taskFields struct {
	name        *string
	description *string
	projectID   *string
	status      *model.TaskStatus
	priority    *int
	dueDate     *string
	tags        *string
}

func newTaskFields() taskFields {
	var (
		name, desc, project, due, tags string
		status                         = model.TaskBacklog
		priority                       = model.DefaultPriority
	)
	return taskFields{&name, &desc, &project, &status, &priority, &due, &tags}
}

func (f taskFields) load(t *model.Task, projectID string, status model.TaskStatus) {
	if t == nil {
		*f.name, *f.description, *f.dueDate, *f.tags = "", "", "", ""
		*f.projectID, *f.status, *f.priority = projectID, status, model.DefaultPriority
		return
	}
	*f.name, *f.description = t.Name, t.Description
	*f.projectID, *f.status, *f.priority = t.ProjectID, t.Status, t.Priority
	*f.dueDate = t.DueDate
	*f.tags = strings.Join(t.Tags, ", ")
}

// form builds the task form. The status field only appears on create.
func (f taskFields) form(projects []model.Project, creating bool) *huh.Form {
	fields := []huh.Field{
		huh.NewInput().Title("Task Name").Value(f.name).Validate(required("name")),
		huh.NewText().Title("Description").Lines(3).Value(f.description),
		huh.NewSelect[string]().Title("Project").Options(projectOptions(projects, false)...).Value(f.projectID),
	}
	if creating {
		statuses := make([]huh.Option[model.TaskStatus], len(model.TaskStatuses))
		for i, s := range model.TaskStatuses {
			statuses[i] = huh.NewOption(statusTitle(s), s)
		}
		fields = append(fields, huh.NewSelect[model.TaskStatus]().Title("Status").Options(statuses...).Value(f.status))
	}
	fields = append(fields,
		huh.NewSelect[int]().Title("Priority").Options(priorityOptions()...).Value(f.priority),
		huh.NewInput().Title("Due Date (YYYY-MM-DD)").Value(f.dueDate).Validate(optionalDate),
		huh.NewInput().Title("Tags (comma-separated)").Value(f.tags),
	)
	return newForm(huh.NewGroup(fields...))
}

func (f taskFields) input() tracker.TaskInput {
	return tracker.TaskInput{
		Name:        *f.name,
		Description: *f.description,
		ProjectID:   *f.projectID,
		Status:      *f.status,
		Priority:    *f.priority,
		DueDate:     strings.TrimSpace(*f.dueDate),
		Tags:        model.SplitTags(*f.tags),
	}
}

type activityFields struct {
	entry     *string
	projectID *string
	category  *model.Category
	date      *string
	tags      *string
}

func newActivityFields() activityFields {
	var (
		entry, project, date, tags string
		category                   = model.CategoryOther
	)
	return activityFields{&entry, &project, &category, &date, &tags}
}

func (f activityFields) load(a *model.Activity, projectID, today string) {
	if a == nil {
		*f.entry, *f.tags = "", ""
		*f.projectID, *f.category, *f.date = projectID, model.CategoryOther, today
		return
	}
	*f.entry, *f.projectID = a.Entry, a.ProjectID
	*f.category, *f.date = a.Category, a.Date
	*f.tags = strings.Join(a.Tags, ", ")
}

func (f activityFields) form(projects []model.Project) *huh.Form {
	cats := make([]huh.Option[model.Category], len(model.Categories))
	for i, c := range model.Categories {
		cats[i] = huh.NewOption(string(c), c)
	}
	return newForm(
		huh.NewGroup(
			huh.NewText().Title("What did you do?").Lines(3).Value(f.entry).Validate(required("entry")),
			huh.NewSelect[string]().Title("Project").Options(projectOptions(projects, true)...).Value(f.projectID),
			huh.NewSelect[model.Category]().Title("Category").Options(cats...).Value(f.category),
			huh.NewInput().Title("Date (YYYY-MM-DD)").Value(f.date).Validate(optionalDate),
			huh.NewInput().Title("Tags (comma-separated)").Value(f.tags),
		),
	)
}

func (f activityFields) input() tracker.ActivityInput {
	return tracker.ActivityInput{
		Entry:     *f.entry,
		ProjectID: *f.projectID,
		Category:  *f.category,
		Date:      strings.TrimSpace(*f.date),
		Tags:      model.SplitTags(*f.tags),
	}
}

// metricFields keeps numbers as text so the inputs can validate them.
type metricFields struct {
	projectID      *string
	hoursToRun     *string
	runsPerWeek    *string
	runMinutes     *string
	hoursToBuild   *string
	peopleImpacted *string
}

func newMetricFields() metricFields {
	var a, b, c, d, e, f string
	return metricFields{&a, &b, &c, &d, &e, &f}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (f metricFields) load(m *model.Metric, projectID string) {
	if m == nil {
		*f.projectID = projectID
		*f.hoursToRun, *f.runsPerWeek, *f.runMinutes, *f.hoursToBuild = "0", "0", "0", "0"
		*f.peopleImpacted = "1"
		return
	}
	*f.projectID = m.ProjectID
	*f.hoursToRun = formatNumber(m.HoursToRun)
	*f.runsPerWeek = formatNumber(m.RunsPerWeek)
	*f.runMinutes = formatNumber(m.RunDurationMinutes)
	*f.hoursToBuild = formatNumber(m.HoursToBuild)
	*f.peopleImpacted = strconv.Itoa(m.PeopleImpacted)
}

func nonNegative(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("enter a number")
	}
	if v < 0 {
		return fmt.Errorf("must not be negative")
	}
	return nil
}

func wholeNumber(s string) error {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("enter a whole number")
	}
	if v < 0 {
		return fmt.Errorf("must not be negative")
	}
	return nil
}

func (f metricFields) form(projects []model.Project) *huh.Form {
	return newForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Project").Options(projectOptions(projects, false)...).Value(f.projectID),
			huh.NewInput().Title("Manual hours per run").Value(f.hoursToRun).Validate(nonNegative),
			huh.NewInput().Title("Runs per week").Value(f.runsPerWeek).Validate(nonNegative),
			huh.NewInput().Title("Automated minutes per run").Value(f.runMinutes).Validate(nonNegative),
			huh.NewInput().Title("Hours to build").Value(f.hoursToBuild).Validate(nonNegative),
			huh.NewInput().Title("People impacted").Value(f.peopleImpacted).Validate(wholeNumber),
		),
	)
}

func (f metricFields) input() tracker.MetricInput {
	num := func(s *string) float64 {
		v, _ := strconv.ParseFloat(strings.TrimSpace(*s), 64)
		return v
	}
	people, _ := strconv.Atoi(strings.TrimSpace(*f.peopleImpacted))
	return tracker.MetricInput{
		ProjectID:          *f.projectID,
		HoursToRun:         num(f.hoursToRun),
		RunsPerWeek:        num(f.runsPerWeek),
		RunDurationMinutes: num(f.runMinutes),
		HoursToBuild:       num(f.hoursToBuild),
		PeopleImpacted:     people,
	}
}

type profileFields struct {
	userName    *string
	jobTitle    *string
	bossName    *string
	defaultView *string
}

func newProfileFields() profileFields {
	var name, job, boss string
	view := tracker.Views[0]
	return profileFields{&name, &job, &boss, &view}
}

func (f profileFields) load(s model.Settings) {
	*f.userName, *f.jobTitle, *f.bossName = s.UserName, s.JobTitle, s.BossName
	*f.defaultView = s.DefaultView
	if *f.defaultView == "" {
		*f.defaultView = tracker.Views[0]
	}
}

func (f profileFields) form(title string) *huh.Form {
	views := make([]huh.Option[string], len(tracker.Views))
	for i, v := range tracker.Views {
		views[i] = huh.NewOption(viewNames[i], v)
	}
	return newForm(
		huh.NewGroup(
			huh.NewInput().Title("Your Name").Value(f.userName),
			huh.NewInput().Title("Job Title").Value(f.jobTitle),
			huh.NewInput().Title("Reports To").Value(f.bossName),
			huh.NewSelect[string]().Title("Start On").Options(views...).Value(f.defaultView),
		).Title(title),
	)
}

func (f profileFields) profile() tracker.Profile {
	return tracker.Profile{
		UserName:    *f.userName,
		JobTitle:    *f.jobTitle,
		BossName:    *f.bossName,
		DefaultView: *f.defaultView,
	}
}

func newConfirmForm(title string, ok *bool) *huh.Form {
	*ok = false
	return newForm(huh.NewGroup(
		huh.NewConfirm().Title(title).Affirmative("Delete").Negative("Cancel").Value(ok),
	))
}
