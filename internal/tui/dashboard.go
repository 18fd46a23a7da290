package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/sadopc/workpulse/internal/model"
	"github.com/sadopc/workpulse/internal/snapshot"
	"github.com/sadopc/workpulse/internal/tracker"
)

// chartWeeks is how many weeks of completions the dashboard chart shows.
const chartWeeks = 8

type dashboardModel struct {
	tracker *tracker.Tracker
	width   int
	height  int

	stats   tracker.DashboardStats
	dueSoon []model.Task
	recent  []model.Activity
	week    *model.WeeklySnapshot
	chart   barchart.Model
}

func newDashboardModel(t *tracker.Tracker) dashboardModel {
	d := dashboardModel{tracker: t, chart: barchart.New(60, 10)}
	d.refresh()
	return d
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
	d.buildChart()
}

func (d *dashboardModel) refresh() {
	d.stats = d.tracker.DashboardStats()
	d.dueSoon = d.tracker.DueSoon(5)
	d.recent = d.tracker.Feed(tracker.FeedFilter{})
	if len(d.recent) > 5 {
		d.recent = d.recent[:5]
	}
	start, _ := snapshot.WeekBounds(d.tracker.Now())
	d.week = d.tracker.Data().Snapshot(model.DateOf(start))
	d.buildChart()
}

// weeklyCompletions counts done tasks per week, oldest week first.
func weeklyCompletions(tasks []model.Task, now time.Time, weeks int) ([]string, []int) {
	labels := make([]string, weeks)
	counts := make([]int, weeks)
	starts := make([]time.Time, weeks)
	ends := make([]time.Time, weeks)
	for i := range weeks {
		s, e := snapshot.WeekBounds(now.AddDate(0, 0, -7*(weeks-1-i)))
		starts[i], ends[i] = s, e
		labels[i] = s.Format("Jan 02")
	}
	for _, t := range tasks {
		if t.Status != model.TaskDone || t.CompletedAt == nil {
			continue
		}
		for i := range weeks {
			if !t.CompletedAt.Before(starts[i]) && !t.CompletedAt.After(ends[i]) {
				counts[i]++
				break
			}
		}
	}
	return labels, counts
}

func (d *dashboardModel) buildChart() {
	chartWidth := max(d.width-8, 20)
	chartHeight := 8
	if d.height > 36 {
		chartHeight = 12
	}
	d.chart = barchart.New(chartWidth, chartHeight)

	labels, counts := weeklyCompletions(d.tracker.Data().Tasks, d.tracker.Now(), chartWeeks)
	bars := make([]barchart.BarData, len(labels))
	for i, label := range labels {
		bars[i] = barchart.BarData{
			Label: label,
			Values: []barchart.BarValue{{
				Name:  "done",
				Value: float64(counts[i]),
				Style: lipgloss.NewStyle().Foreground(colorPrimary),
			}},
		}
	}
	d.chart.PushAll(bars)
	d.chart.Draw()
}

func (d dashboardModel) view() string {
	w := d.width - 4
	s := d.stats

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		statCard("Active Projects", s.ActiveProjects, colorPrimary),
		statCard("Done This Week", s.DoneThisWeek, colorSuccess),
		statCard("In Progress", s.InProgress, colorHighlight),
		statCard("Blocked", s.Blocked, colorWarning),
		statCard("Overdue", s.Overdue, colorError),
	)

	progress := fmt.Sprintf("%s karma  %s", humanize.Comma(int64(s.Karma)), accentStyle.Render(s.KarmaLevel))
	if s.NextThreshold > 0 {
		progress += mutedStyle.Render(fmt.Sprintf("  (%d to %s)", s.NextThreshold-s.Karma, s.NextLevel))
	}
	streak := fmt.Sprintf("🔥 %d day streak", s.Streak)
	if s.LongestStreak > s.Streak {
		streak += mutedStyle.Render(fmt.Sprintf("  best %d", s.LongestStreak))
	}
	gamePanel := panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(greeting(d.tracker.Settings().UserName, d.tracker.Now())),
		"",
		streak,
		progress,
	))

	chartPanel := panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Completed per Week"),
		"",
		d.chart.View(),
	))

	half := max(w/2-1, 20)
	lists := lipgloss.JoinHorizontal(lipgloss.Top,
		panelStyle.Width(half).Render(d.renderDueSoon(half-6)),
		panelStyle.Width(half).Render(d.renderRecent(half-6)),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		gamePanel,
		cards,
		d.renderWeek(w),
		lists,
		chartPanel,
	)
}

func greeting(name string, now time.Time) string {
	part := "evening"
	switch h := now.Hour(); {
	case h < 12:
		part = "morning"
	case h < 18:
		part = "afternoon"
	}
	if name == "" {
		return "Good " + part
	}
	return fmt.Sprintf("Good %s, %s", part, name)
}

func statCard(label string, n int, color lipgloss.Color) string {
	return panelStyle.Width(18).Render(lipgloss.JoinVertical(lipgloss.Left,
		bigNumberStyle.Foreground(color).Render(fmt.Sprintf("%d", n)),
		subtitleStyle.Render(label),
	))
}

func (d dashboardModel) renderWeek(w int) string {
	title := titleStyle.Render("This Week")
	if d.week == nil {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, "", mutedStyle.Render(snapshot.NoActivity)))
	}
	updated := mutedStyle.Render("updated " + humanize.Time(d.week.UpdatedAt))
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
		title+"  "+updated,
		"",
		d.week.Summary,
	))
}

func (d dashboardModel) renderDueSoon(w int) string {
	rows := []string{titleStyle.Render("Due Soon"), ""}
	if len(d.dueSoon) == 0 {
		rows = append(rows, mutedStyle.Render("Nothing due this week."))
		return strings.Join(rows, "\n")
	}
	today := model.DateOf(d.tracker.Now())
	data := d.tracker.Data()
	for _, t := range d.dueSoon {
		p := data.Project(t.ProjectID)
		color := ""
		if p != nil {
			color = p.Color
		}
		rows = append(rows, fmt.Sprintf("%s %s  %s", colorDot(color), truncate(t.Name, w-20), dueLabel(t.DueDate, today)))
	}
	return strings.Join(rows, "\n")
}

func (d dashboardModel) renderRecent(w int) string {
	rows := []string{titleStyle.Render("Recent Activity"), ""}
	if len(d.recent) == 0 {
		rows = append(rows, mutedStyle.Render("No activity yet. Press 4 to log some."))
		return strings.Join(rows, "\n")
	}
	for _, a := range d.recent {
		rows = append(rows, fmt.Sprintf("%s  %s",
			truncate(a.Entry, w-16),
			mutedStyle.Render(humanize.Time(a.Timestamp))))
	}
	return strings.Join(rows, "\n")
}
