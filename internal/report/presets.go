package report

import (
	"errors"
	"fmt"
	"time"

	"github.com/sadopc/workpulse/internal/model"
	"github.com/sadopc/workpulse/internal/snapshot"
)

const (
	PresetStandup = "standup"
	PresetWeekly  = "weekly"
	PresetMonthly = "monthly"
)

var PresetNames = []string{PresetStandup, PresetWeekly, PresetMonthly}

var ErrUnknownPreset = errors.New("unknown report preset")

// Preset returns the canned range and section toggles for name, relative to now.
func Preset(name string, now time.Time) (Options, error) {
	today := model.DateOf(now)
	switch name {
	case PresetStandup:
		return Options{
			From: model.AddDays(today, -1),
			To:   today,
			Sections: Sections{
				Completed:  true,
				InProgress: true,
				Blockers:   true,
			},
		}, nil
	case PresetWeekly:
		start, _ := snapshot.WeekBounds(now)
		return Options{From: model.DateOf(start), To: today, Sections: AllSections()}, nil
	case PresetMonthly:
		day := model.StartOfDay(now)
		first := day.AddDate(0, 0, 1-day.Day())
		return Options{From: model.DateOf(first), To: today, Sections: AllSections()}, nil
	}
	return Options{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
}

// Filename names the exported report after its range.
func Filename(o Options) string {
	return fmt.Sprintf("workpulse-report-%s-to-%s.md", o.From, o.To)
}
