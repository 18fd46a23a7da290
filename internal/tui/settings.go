package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/sadopc/workpulse/internal/cloud"
	"github.com/sadopc/workpulse/internal/model"
	"github.com/sadopc/workpulse/internal/snapshot"
	"github.com/sadopc/workpulse/internal/tracker"
)

// SyncStatus reports the cloud sync state. A nil source means sync is off.
type SyncStatus interface {
	Status() cloud.Status
}

type settingsModel struct {
	ctx     context.Context
	tracker *tracker.Tracker
	sync    SyncStatus
	dataDir string
	width   int
	height  int

	settings model.Settings
	history  []model.WeeklySnapshot

	formActive bool
	form       *huh.Form
	onboarding bool
	profile    profileFields
}

func newSettingsModel(ctx context.Context, t *tracker.Tracker, sync SyncStatus, dataDir string) settingsModel {
	s := settingsModel{
		ctx:     ctx,
		tracker: t,
		sync:    sync,
		dataDir: dataDir,
		profile: newProfileFields(),
	}
	s.refresh()
	return s
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s *settingsModel) refresh() {
	s.settings = s.tracker.Settings()
	s.history = snapshot.History(s.tracker.Data())
}

func (s settingsModel) syncLabel() string {
	if s.sync == nil {
		return mutedStyle.Render("Local only")
	}
	st := s.sync.Status()
	switch st {
	case cloud.StatusSynced:
		return successStyle.Render(st.String())
	case cloud.StatusSyncing:
		return highlightStyle.Render(st.String())
	case cloud.StatusError:
		return errorStyle.Render(st.String())
	}
	return mutedStyle.Render(st.String())
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, keys.Enter), key.Matches(km, keys.Edit):
			return s.showForm(false)
		}
	}
	return s, nil
}

// showForm opens the profile form. During onboarding it cannot be skipped.
func (s settingsModel) showForm(onboarding bool) (settingsModel, tea.Cmd) {
	s.profile.load(s.tracker.Settings())
	title := "Profile"
	if onboarding {
		title = "Welcome to workpulse! Tell us about yourself."
	}
	s.form = s.profile.form(title)
	s.onboarding = onboarding
	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "esc" && s.onboarding {
		return s, nil
	}
	form, cmd, done, submitted := stepForm(s.form, msg)
	s.form = form
	if !done {
		return s, cmd
	}
	s.formActive = false
	s.form = nil
	if !submitted {
		return s, nil
	}

	var err error
	if s.onboarding {
		err = s.tracker.CompleteOnboarding(s.ctx, s.profile.profile())
	} else {
		err = s.tracker.UpdateProfile(s.ctx, s.profile.profile())
	}
	s.onboarding = false
	s.refresh()
	return s, result(err)
}

func (s settingsModel) view() string {
	if s.formActive && s.form != nil {
		title := "Edit Profile"
		if s.onboarding {
			title = "Getting Started"
		}
		return formView(title, s.form, s.width)
	}

	w := s.width - 4
	st := s.settings
	field := func(label, value string) string {
		if value == "" {
			value = mutedStyle.Render("not set")
		}
		return fmt.Sprintf("  %-16s %s", mutedStyle.Render(label), value)
	}

	rows := []string{
		titleStyle.Render("Profile"),
		"",
		field("Name", st.UserName),
		field("Job title", st.JobTitle),
		field("Reports to", st.BossName),
		field("Start view", st.DefaultView),
		field("Theme", st.Theme),
		"",
		titleStyle.Render("Progress"),
		"",
		field("Karma", fmt.Sprintf("%s (%s)", humanize.Comma(int64(st.Karma)), model.KarmaLevel(st.Karma))),
		field("Streak", fmt.Sprintf("%d days, best %d", st.Streak, st.LongestStreak)),
		field("Last active", st.LastActiveDate),
		"",
		titleStyle.Render("Storage"),
		"",
		field("Data", s.dataDir),
		field("Sync", s.syncLabel()),
	}

	rows = append(rows, "", titleStyle.Render("Weekly History"), "")
	if len(s.history) == 0 {
		rows = append(rows, mutedStyle.Render("  "+snapshot.NoActivity))
	}
	for i, h := range s.history {
		if i == 5 {
			rows = append(rows, mutedStyle.Render(fmt.Sprintf("  …and %d earlier weeks", len(s.history)-i)))
			break
		}
		rows = append(rows, fmt.Sprintf("  %s  %s", highlightStyle.Render(h.WeekStart), truncate(h.Summary, w-20)))
	}

	rows = append(rows, "", mutedStyle.Render("  e: edit profile  t: toggle theme"))
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, strings.Join(rows, "\n")))
}
