package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/workpulse/internal/export"
	"github.com/sadopc/workpulse/internal/model"
	"github.com/sadopc/workpulse/internal/report"
	"github.com/sadopc/workpulse/internal/tracker"
)

type reportsModel struct {
	tracker   *tracker.Tracker
	outputDir string
	width     int
	height    int

	preset int // index into report.PresetNames, -1 for a custom range
	opts   report.Options
	report *report.Report
	err    error

	viewport viewport.Model

	formActive bool
	form       *huh.Form
	from       *string
	to         *string
	sections   *[]string
}

func newReportsModel(t *tracker.Tracker, outputDir string) reportsModel {
	var from, to string
	var sections []string
	r := reportsModel{
		tracker:   t,
		outputDir: outputDir,
		viewport:  viewport.New(60, 20),
		from:      &from,
		to:        &to,
		sections:  &sections,
	}
	r.opts, _ = report.Preset(report.PresetNames[0], t.Now())
	r.refresh()
	return r
}

func (r *reportsModel) setSize(w, h int) {
	r.width = w
	r.height = h
	r.viewport.Width = max(w-8, 20)
	r.viewport.Height = max(h-8, 5)
	r.render()
}

// refresh rebuilds the report. Presets are recomputed so their range follows
// the clock.
func (r *reportsModel) refresh() {
	if r.preset >= 0 {
		if o, err := report.Preset(report.PresetNames[r.preset], r.tracker.Now()); err == nil {
			r.opts = o
		}
	}
	r.report, r.err = report.Build(r.tracker.Data(), r.opts, r.tracker.Now())
	r.render()
}

func (r *reportsModel) render() {
	if r.err != nil {
		r.viewport.SetContent(errorStyle.Render(r.err.Error()))
		return
	}
	if r.report == nil {
		return
	}
	r.viewport.SetContent(renderSections(r.report.View(), r.viewport.Width))
}

func renderSections(sections []report.Section, width int) string {
	var b strings.Builder
	for i, s := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s %s\n", titleStyle.Render(s.Title), mutedStyle.Render(fmt.Sprintf("(%d)", s.ItemCount())))
		if s.Empty() {
			b.WriteString(mutedStyle.Render("  Nothing to report.") + "\n")
			continue
		}
		for _, g := range s.Groups {
			if g.Heading != "" {
				b.WriteString("  " + highlightStyle.Render(g.Heading) + "\n")
			}
			for _, it := range g.Items {
				line := "  • " + truncate(it.Text, width-8)
				if it.Detail != "" {
					line += "  " + mutedStyle.Render(it.Detail)
				}
				b.WriteString(line + "\n")
			}
		}
	}
	return b.String()
}

func (r reportsModel) update(msg tea.Msg) (reportsModel, tea.Cmd) {
	if r.formActive && r.form != nil {
		return r.updateForm(msg)
	}
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return r, nil
	}

	switch {
	case key.Matches(km, keys.Left):
		r.preset = (max(r.preset, 0) + len(report.PresetNames) - 1) % len(report.PresetNames)
		r.refresh()
	case key.Matches(km, keys.Right):
		r.preset = (r.preset + 1) % len(report.PresetNames)
		r.refresh()
	case key.Matches(km, keys.Edit):
		return r.openRangeForm()
	case key.Matches(km, keys.Save):
		return r, r.save()
	default:
		var cmd tea.Cmd
		r.viewport, cmd = r.viewport.Update(msg)
		return r, cmd
	}
	return r, nil
}

func (r reportsModel) openRangeForm() (reportsModel, tea.Cmd) {
	*r.from, *r.to = r.opts.From, r.opts.To
	*r.sections = r.opts.Sections.Keys()
	r.form = newForm(huh.NewGroup(
		huh.NewInput().Title("From (YYYY-MM-DD)").Value(r.from).Validate(validDate),
		huh.NewInput().Title("To (YYYY-MM-DD)").Value(r.to).Validate(validDate),
		huh.NewMultiSelect[string]().Title("Sections").Options(
			huh.NewOption(report.TitleCompleted, report.KeyCompleted),
			huh.NewOption(report.TitleInProgress, report.KeyInProgress),
			huh.NewOption(report.TitleUpcoming, report.KeyUpcoming),
			huh.NewOption(report.TitleBlockers, report.KeyBlockers),
			huh.NewOption(report.TitleActivities, report.KeyActivities),
			huh.NewOption(report.TitleValue, report.KeyValue),
		).Value(r.sections),
	))
	r.formActive = true
	return r, r.form.Init()
}

func validDate(s string) error {
	if _, err := model.ParseDate(strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("use YYYY-MM-DD")
	}
	return nil
}

func (r reportsModel) updateForm(msg tea.Msg) (reportsModel, tea.Cmd) {
	form, cmd, done, submitted := stepForm(r.form, msg)
	r.form = form
	if !done {
		return r, cmd
	}
	r.formActive = false
	r.form = nil
	if !submitted {
		return r, nil
	}
	sections, err := report.ParseSections(*r.sections)
	if err != nil {
		return r, statusCmd(errStatus(err))
	}
	r.preset = -1
	r.opts = report.Options{
		From:     strings.TrimSpace(*r.from),
		To:       strings.TrimSpace(*r.to),
		Sections: sections,
	}
	r.refresh()
	if r.err != nil {
		return r, statusCmd(errStatus(r.err))
	}
	return r, nil
}

// save writes the report as markdown. It runs synchronously since it only
// reads the already built report.
func (r reportsModel) save() tea.Cmd {
	if r.report == nil {
		return nil
	}
	path := filepath.Join(r.outputDir, report.Filename(r.opts))
	if err := export.WriteReport(r.report, path); err != nil {
		return statusCmd(errStatus(err))
	}
	return func() tea.Msg { return exportDoneMsg{path: path} }
}

func (r reportsModel) view() string {
	if r.formActive && r.form != nil {
		return formView("Custom Report", r.form, r.width)
	}
	w := r.width - 4

	var tabs []string
	for i, name := range report.PresetNames {
		label := strings.ToUpper(name[:1]) + name[1:]
		if i == r.preset {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}
	if r.preset < 0 {
		tabs = append(tabs, activeTabStyle.Render("Custom"))
	}
	modeTabs := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s to %s", r.opts.From, r.opts.To))

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Reports"), "  ", modeTabs, "  ", dateLabel,
	)
	nav := mutedStyle.Render("  ←/→: preset  e: custom range  s: save markdown  ↑/↓: scroll")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, header, "", r.viewport.View(), "", nav),
	)
}
