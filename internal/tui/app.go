package tui

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/workpulse/internal/export"
	"github.com/sadopc/workpulse/internal/tracker"
)

// Options wires the app to its surroundings. Zero values are usable.
type Options struct {
	Sync      SyncStatus // nil when cloud sync is off
	ExportDir string     // where data exports go
	ReportDir string     // where markdown reports go
	DataDir   string     // shown on the settings screen
}

var exportFormats = []string{"JSON backup", "Tasks CSV", "Activities CSV"}

// App is the root Bubble Tea model.
type App struct {
	ctx     context.Context
	tracker *tracker.Tracker
	opts    Options
	width   int
	height  int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	dashboard dashboardModel
	projects  projectsModel
	kanban    kanbanModel
	activity  activityModel
	metrics   metricsModel
	reports   reportsModel
	settings  settingsModel

	help     help.Model
	status   string
	isError  bool
	initCmd  tea.Cmd
	syncText string
}

func NewApp(ctx context.Context, t *tracker.Tracker, opts Options) App {
	h := help.New()
	h.ShowAll = false

	s := t.Settings()
	applyTheme(s.Theme)

	a := App{
		ctx:        ctx,
		tracker:    t,
		opts:       opts,
		activeView: viewFromKey(s.DefaultView),
		dashboard:  newDashboardModel(t),
		projects:   newProjectsModel(ctx, t),
		kanban:     newKanbanModel(ctx, t),
		activity:   newActivityModel(ctx, t),
		metrics:    newMetricsModel(ctx, t),
		reports:    newReportsModel(t, opts.ReportDir),
		settings:   newSettingsModel(ctx, t, opts.Sync, opts.DataDir),
		help:       h,
	}
	if !s.OnboardingComplete {
		a.activeView = viewSettings
		a.settings, a.initCmd = a.settings.showForm(true)
	}
	a.pullNotices()
	return a
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.initCmd, tickCmd())
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := a.update(msg)
	m.pullNotices()
	return m, cmd
}

func (a App) update(msg tea.Msg) (App, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.dashboard.setSize(a.width, contentHeight)
		a.projects.setSize(a.width, contentHeight)
		a.kanban.setSize(a.width, contentHeight)
		a.activity.setSize(a.width, contentHeight)
		a.metrics.setSize(a.width, contentHeight)
		a.reports.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		// Export picker
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Theme):
			err := a.tracker.ToggleTheme(a.ctx)
			applyTheme(a.tracker.Settings().Theme)
			a.refreshCurrentView()
			return a, result(err)
		case key.Matches(msg, keys.Tab1):
			return a.switchTo(viewDashboard), nil
		case key.Matches(msg, keys.Tab2):
			return a.switchTo(viewProjects), nil
		case key.Matches(msg, keys.Tab3):
			return a.switchTo(viewKanban), nil
		case key.Matches(msg, keys.Tab4):
			return a.switchTo(viewActivity), nil
		case key.Matches(msg, keys.Tab5):
			return a.switchTo(viewMetrics), nil
		case key.Matches(msg, keys.Tab6):
			return a.switchTo(viewReports), nil
		case key.Matches(msg, keys.Tab7):
			return a.switchTo(viewSettings), nil
		case key.Matches(msg, keys.Tab):
			return a.switchTo((a.activeView + 1) % viewState(len(viewNames))), nil
		}

	case tickMsg:
		if a.opts.Sync != nil {
			a.syncText = a.opts.Sync.Status().String()
		}
		return a, tickCmd()

	case statusMsg:
		a.status = msg.text
		a.isError = msg.isError
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.isError = false
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) switchTo(v viewState) App {
	a.activeView = v
	a.refreshCurrentView()
	return a
}

// pullNotices moves the newest tracker notice into the status line.
func (a *App) pullNotices() {
	notices := a.tracker.Notices()
	if len(notices) == 0 {
		return
	}
	n := notices[len(notices)-1]
	a.status = n.Message
	a.isError = n.Level == tracker.NoticeError
}

func (a App) updateActiveView(msg tea.Msg) (App, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewDashboard:
		// read-only
	case viewProjects:
		a.projects, cmd = a.projects.update(msg)
	case viewKanban:
		a.kanban, cmd = a.kanban.update(msg)
	case viewActivity:
		a.activity, cmd = a.activity.update(msg)
	case viewMetrics:
		a.metrics, cmd = a.metrics.update(msg)
	case viewReports:
		a.reports, cmd = a.reports.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewProjects:
		return a.projects.formActive
	case viewKanban:
		return a.kanban.formActive
	case viewActivity:
		return a.activity.capturing()
	case viewMetrics:
		return a.metrics.formActive
	case viewReports:
		return a.reports.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a *App) refreshCurrentView() {
	switch a.activeView {
	case viewDashboard:
		a.dashboard.refresh()
	case viewProjects:
		a.projects.refresh()
	case viewKanban:
		a.kanban.refresh()
	case viewActivity:
		a.activity.refresh()
	case viewMetrics:
		a.metrics.refresh()
	case viewReports:
		a.reports.refresh()
	case viewSettings:
		a.settings.refresh()
	}
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewDashboard:
		content = a.dashboard.view()
	case viewProjects:
		content = a.projects.view()
	case viewKanban:
		content = a.kanban.view()
	case viewActivity:
		content = a.activity.view()
	case viewMetrics:
		content = a.metrics.view()
	case viewReports:
		content = a.reports.view()
	case viewSettings:
		content = a.settings.view()
	}

	// Calculate available height for content
	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(a.height-headerHeight-footerHeight, 1)

	// Show export picker overlay
	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		MaxHeight(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("workpulse")
	gap := max(a.width-lipgloss.Width(title)-lipgloss.Width(tabRow)-4, 1)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		style := mutedStyle
		if a.isError {
			style = errorStyle
		}
		status = style.Render(" " + a.status)
	}

	syncInfo := ""
	if a.syncText != "" {
		syncInfo = highlightStyle.Render(" ☁ " + a.syncText)
	}

	left := footerStyle.Render(helpView)
	right := syncInfo + status

	gap := max(a.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export")
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range exportFormats {
		rows = append(rows, row(i == a.exportCursor, f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  to "+a.opts.ExportDir))
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (App, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

// doExport writes the chosen export from inside Update so the store is
// never read off the event loop.
func (a App) doExport(format int) tea.Cmd {
	d := a.tracker.Data()
	now := a.tracker.Now()

	var path string
	var err error
	switch format {
	case 0:
		path = filepath.Join(a.opts.ExportDir, export.DataFilename(now))
		err = export.WriteData(d, path)
	case 1:
		path = filepath.Join(a.opts.ExportDir, export.CSVFilename("tasks", now))
		err = export.TasksCSV(d, path)
	default:
		path = filepath.Join(a.opts.ExportDir, export.CSVFilename("activities", now))
		err = export.ActivitiesCSV(d, path)
	}
	if err != nil {
		return statusCmd(errStatus(err))
	}
	return func() tea.Msg { return exportDoneMsg{path: path} }
}
