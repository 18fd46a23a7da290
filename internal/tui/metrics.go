package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/sadopc/workpulse/internal/model"
	"github.com/sadopc/workpulse/internal/report"
	"github.com/sadopc/workpulse/internal/roi"
	"github.com/sadopc/workpulse/internal/tracker"
)

type metricsModel struct {
	ctx     context.Context
	tracker *tracker.Tracker
	width   int
	height  int

	metrics []model.Metric
	figures []roi.Figures
	rollup  roi.Rollup
	cursor  int
	chart   barchart.Model

	formActive bool
	form       *huh.Form
	formType   string // "metric", "delete_metric"
	editingID  string

	fields  metricFields
	confirm *bool
}

func newMetricsModel(ctx context.Context, t *tracker.Tracker) metricsModel {
	ok := false
	m := metricsModel{
		ctx:     ctx,
		tracker: t,
		chart:   barchart.New(60, 10),
		fields:  newMetricFields(),
		confirm: &ok,
	}
	m.refresh()
	return m
}

func (m *metricsModel) setSize(w, h int) {
	m.width = w
	m.height = h
	m.buildChart()
}

func (m *metricsModel) refresh() {
	m.metrics = append([]model.Metric(nil), m.tracker.Data().Metrics...)
	m.figures = make([]roi.Figures, len(m.metrics))
	for i, mt := range m.metrics {
		m.figures[i] = roi.Summarize(mt)
	}
	m.rollup = roi.Cumulative(m.metrics)
	m.cursor = clampCursor(m.cursor, len(m.metrics))
	m.buildChart()
}

func (m *metricsModel) buildChart() {
	chartWidth := max(m.width-8, 20)
	m.chart = barchart.New(chartWidth, 10)

	data := m.tracker.Data()
	var bars []barchart.BarData
	for _, f := range m.figures {
		color := lipgloss.Color(tracker.DefaultColor)
		if p := data.Project(f.ProjectID); p != nil && p.Color != "" {
			color = lipgloss.Color(p.Color)
		}
		bars = append(bars, barchart.BarData{
			Label: truncate(data.ProjectName(f.ProjectID), 10),
			Values: []barchart.BarValue{{
				Name:  "hours/month",
				Value: f.MonthlyHours,
				Style: lipgloss.NewStyle().Foreground(color),
			}},
		})
	}
	if len(bars) == 0 {
		bars = []barchart.BarData{{Values: []barchart.BarValue{{Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}}}}
	}
	m.chart.PushAll(bars)
	m.chart.Draw()
}

func (m metricsModel) update(msg tea.Msg) (metricsModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(km, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(km, keys.Down):
		if m.cursor < len(m.metrics)-1 {
			m.cursor++
		}
	case key.Matches(km, keys.New):
		projects := m.tracker.Data().Projects
		if len(projects) == 0 {
			return m, statusCmd(statusMsg{text: "Create a project first (press 2).", isError: true})
		}
		// Default to the first project without figures.
		pid := projects[0].ID
		for _, p := range projects {
			if m.tracker.Data().Metric(p.ID) == nil {
				pid = p.ID
				break
			}
		}
		m.fields.load(m.tracker.Data().Metric(pid), pid)
		return m.openForm("metric", "", m.fields.form(projects))
	case key.Matches(km, keys.Edit), key.Matches(km, keys.Enter):
		if len(m.metrics) > 0 {
			mt := m.metrics[m.cursor]
			m.fields.load(&mt, "")
			return m.openForm("metric", mt.ID, m.fields.form(m.tracker.Data().Projects))
		}
	case key.Matches(km, keys.Delete):
		if len(m.metrics) > 0 {
			mt := m.metrics[m.cursor]
			title := fmt.Sprintf("Delete time-saved figures for %q?", m.tracker.Data().ProjectName(mt.ProjectID))
			return m.openForm("delete_metric", mt.ID, newConfirmForm(title, m.confirm))
		}
	}
	return m, nil
}

func (m metricsModel) openForm(kind, id string, f *huh.Form) (metricsModel, tea.Cmd) {
	m.formType = kind
	m.editingID = id
	m.form = f
	m.formActive = true
	return m, m.form.Init()
}

func (m metricsModel) updateForm(msg tea.Msg) (metricsModel, tea.Cmd) {
	form, cmd, done, submitted := stepForm(m.form, msg)
	m.form = form
	if !done {
		return m, cmd
	}
	m.formActive = false
	m.form = nil
	if !submitted {
		return m, nil
	}

	var err error
	switch m.formType {
	case "metric":
		_, err = m.tracker.SetMetric(m.ctx, m.fields.input())
	case "delete_metric":
		if *m.confirm {
			err = m.tracker.DeleteMetric(m.ctx, m.editingID)
		}
	}
	m.refresh()
	return m, result(err)
}

func breakevenLabel(f roi.Figures) string {
	if !f.HasBreakeven {
		return "n/a"
	}
	return fmt.Sprintf("%.1f wk", f.BreakevenWeeks)
}

func (m metricsModel) view() string {
	if m.formActive && m.form != nil {
		title := "Time Saved"
		if m.formType == "delete_metric" {
			title = "Delete Figures"
		}
		return formView(title, m.form, m.width)
	}

	w := m.width - 4
	r := m.rollup

	summary := lipgloss.JoinHorizontal(lipgloss.Top,
		metricCard("Saved / Week", report.Hours(r.WeeklyHours)),
		metricCard("Saved / Month", report.Hours(r.MonthlyHours)),
		metricCard("Saved / Year", report.Hours(r.YearlyHours)),
		metricCard("Average ROI", report.Ratio(r.AverageROI)),
		metricCard("People Helped", humanize.Comma(int64(r.PeopleImpacted))),
	)

	rows := []string{titleStyle.Render("Automations"), ""}
	if len(m.metrics) == 0 {
		rows = append(rows, mutedStyle.Render("No figures yet. Press n to record time saved for a project."))
	} else {
		rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-24s %10s %10s %10s %8s %10s %6s",
			"Project", "Week", "Month", "Year", "ROI", "Breakeven", "Users")))
		data := m.tracker.Data()
		for i, f := range m.figures {
			line := fmt.Sprintf("%-24s %10s %10s %10s %8s %10s %6d",
				truncate(data.ProjectName(f.ProjectID), 24),
				report.Hours(f.WeeklyHours),
				report.Hours(f.MonthlyHours),
				report.Hours(f.YearlyHours),
				report.Ratio(f.ROI),
				breakevenLabel(f),
				f.PeopleImpacted,
			)
			rows = append(rows, row(i == m.cursor, line))
		}
	}
	rows = append(rows, "", mutedStyle.Render("  n: add  e: edit  d: delete"))
	table := panelStyle.Width(w).Render(strings.Join(rows, "\n"))

	chart := panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Hours Saved per Month"),
		"",
		m.chart.View(),
	))

	return lipgloss.JoinVertical(lipgloss.Left, summary, table, chart)
}

func metricCard(label, value string) string {
	return panelStyle.Width(18).Render(lipgloss.JoinVertical(lipgloss.Left,
		bigNumberStyle.Render(value),
		subtitleStyle.Render(label),
	))
}
