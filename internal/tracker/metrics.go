package tracker

import (
	"context"
	"slices"

	"github.com/sadopc/workpulse/internal/model"
)

type MetricInput struct {
	ProjectID          string
	HoursToRun         float64
	RunsPerWeek        float64
	RunDurationMinutes float64
	HoursToBuild       float64
	PeopleImpacted     int
}

// SetMetric creates the project's metric or replaces the one it already has,
// keeping the existing id and createdAt.
func (t *Tracker) SetMetric(ctx context.Context, in MetricInput) (model.Metric, error) {
	now := t.now()
	m := model.Metric{
		ID:                 model.NewID(),
		ProjectID:          in.ProjectID,
		HoursToRun:         in.HoursToRun,
		RunsPerWeek:        in.RunsPerWeek,
		RunDurationMinutes: in.RunDurationMinutes,
		HoursToBuild:       in.HoursToBuild,
		PeopleImpacted:     in.PeopleImpacted,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := model.ValidateMetric(m); err != nil {
		return model.Metric{}, err
	}
	if t.data.Project(m.ProjectID) == nil {
		return model.Metric{}, missingRef("projectId", "project")
	}

	if existing := t.data.Metric(m.ProjectID); existing != nil {
		m.ID = existing.ID
		m.CreatedAt = existing.CreatedAt
		*existing = m
	} else {
		t.data.Metrics = append(t.data.Metrics, m)
	}
	return m, t.commit(ctx)
}

func (t *Tracker) DeleteMetric(ctx context.Context, id string) error {
	n := len(t.data.Metrics)
	t.data.Metrics = slices.DeleteFunc(t.data.Metrics, func(m model.Metric) bool { return m.ID == id })
	if len(t.data.Metrics) == n {
		return notFound("metric", id)
	}
	return t.commit(ctx)
}
