package model

import (
	"encoding/json"

	"github.com/google/uuid"
)

// NewID returns an opaque unique record id.
func NewID() string {
	return uuid.NewString()
}

func DefaultSettings() Settings {
	return Settings{
		Theme:       "dark",
		DefaultView: "dashboard",
		KarmaLevel:  KarmaLevel(0),
	}
}

// NewData returns an empty store with default settings.
func NewData() *Data {
	return &Data{
		Projects:        []Project{},
		Tasks:           []Task{},
		Activities:      []Activity{},
		Metrics:         []Metric{},
		WeeklySnapshots: []WeeklySnapshot{},
		Settings:        DefaultSettings(),
	}
}

// Decode parses a persisted document. Collections missing from the document
// come back empty and settings fields it lacks keep their defaults.
func Decode(raw []byte) (*Data, error) {
	d := NewData()
	if err := json.Unmarshal(raw, d); err != nil {
		return nil, err
	}
	d.Normalize()
	return d, nil
}

// Normalize replaces nil collections with empty ones so the document always
// serializes with every top-level key present.
func (d *Data) Normalize() {
	if d.Projects == nil {
		d.Projects = []Project{}
	}
	if d.Tasks == nil {
		d.Tasks = []Task{}
	}
	if d.Activities == nil {
		d.Activities = []Activity{}
	}
	if d.Metrics == nil {
		d.Metrics = []Metric{}
	}
	if d.WeeklySnapshots == nil {
		d.WeeklySnapshots = []WeeklySnapshot{}
	}
	if d.Settings.KarmaLevel == "" {
		d.Settings.KarmaLevel = KarmaLevel(d.Settings.Karma)
	}
}

// Clone returns a deep copy via the JSON encoding.
func (d *Data) Clone() *Data {
	raw, err := json.Marshal(d)
	if err != nil {
		return NewData()
	}
	out, err := Decode(raw)
	if err != nil {
		return NewData()
	}
	return out
}

func (d *Data) Project(id string) *Project {
	for i := range d.Projects {
		if d.Projects[i].ID == id {
			return &d.Projects[i]
		}
	}
	return nil
}

func (d *Data) Task(id string) *Task {
	for i := range d.Tasks {
		if d.Tasks[i].ID == id {
			return &d.Tasks[i]
		}
	}
	return nil
}

func (d *Data) Activity(id string) *Activity {
	for i := range d.Activities {
		if d.Activities[i].ID == id {
			return &d.Activities[i]
		}
	}
	return nil
}

// Metric returns the metric attached to projectID, if any.
func (d *Data) Metric(projectID string) *Metric {
	for i := range d.Metrics {
		if d.Metrics[i].ProjectID == projectID {
			return &d.Metrics[i]
		}
	}
	return nil
}

func (d *Data) Snapshot(weekStart string) *WeeklySnapshot {
	for i := range d.WeeklySnapshots {
		if d.WeeklySnapshots[i].WeekStart == weekStart {
			return &d.WeeklySnapshots[i]
		}
	}
	return nil
}

// ProjectName resolves a project id to its name, or "" when it is gone.
func (d *Data) ProjectName(id string) string {
	if p := d.Project(id); p != nil {
		return p.Name
	}
	return ""
}
