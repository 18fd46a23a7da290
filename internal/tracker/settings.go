package tracker

import (
	"context"
	"slices"
	"strings"

	"github.com/sadopc/workpulse/internal/model"
)

var Themes = []string{"dark", "light"}

// Views are the screens a user may open on start.
var Views = []string{"dashboard", "projects", "kanban", "activity", "metrics", "reports", "settings"}

type Profile struct {
	UserName    string
	JobTitle    string
	BossName    string
	DefaultView string
}

func (t *Tracker) UpdateProfile(ctx context.Context, p Profile) error {
	view := p.DefaultView
	if view == "" {
		view = t.data.Settings.DefaultView
	}
	if !slices.Contains(Views, view) {
		return &model.ValidationError{Field: "defaultView", Reason: "is not a view"}
	}
	s := &t.data.Settings
	s.UserName = strings.TrimSpace(p.UserName)
	s.JobTitle = strings.TrimSpace(p.JobTitle)
	s.BossName = strings.TrimSpace(p.BossName)
	s.DefaultView = view
	if err := t.commit(ctx); err != nil {
		return err
	}
	t.Notify(NoticeSuccess, "Settings saved")
	return nil
}

func (t *Tracker) SetTheme(ctx context.Context, theme string) error {
	if !slices.Contains(Themes, theme) {
		return &model.ValidationError{Field: "theme", Reason: "must be dark or light"}
	}
	t.data.Settings.Theme = theme
	return t.commit(ctx)
}

// ToggleTheme flips between dark and light.
func (t *Tracker) ToggleTheme(ctx context.Context) error {
	next := "dark"
	if t.data.Settings.Theme == "dark" {
		next = "light"
	}
	return t.SetTheme(ctx, next)
}

func (t *Tracker) CompleteOnboarding(ctx context.Context, p Profile) error {
	t.data.Settings.OnboardingComplete = true
	return t.UpdateProfile(ctx, p)
}
