package model

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	MaxProjectName  = 100
	MaxTaskName     = 200
	MaxEntry        = 1000
	DefaultPriority = 3
)

// ErrValidation matches every *ValidationError via errors.Is.
var ErrValidation = errors.New("validation failed")

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func required(field, value string, limit int) error {
	if strings.TrimSpace(value) == "" {
		return invalid(field, "is required")
	}
	if n := utf8.RuneCountInString(value); n > limit {
		return invalid(field, "must be at most %d characters (got %d)", limit, n)
	}
	return nil
}

func validPriority(p int) error {
	if p < 1 || p > 5 {
		return invalid("priority", "must be between 1 and 5")
	}
	return nil
}

func validDate(field, s string) error {
	if s == "" {
		return nil
	}
	if _, err := ParseDate(s); err != nil {
		return invalid(field, "must be a YYYY-MM-DD date")
	}
	return nil
}

func (s ProjectStatus) Valid() bool {
	for _, v := range ProjectStatuses {
		if v == s {
			return true
		}
	}
	return false
}

func (s TaskStatus) Valid() bool {
	for _, v := range TaskStatuses {
		if v == s {
			return true
		}
	}
	return false
}

func (c Category) Valid() bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

func ValidateProject(p Project) error {
	if err := required("name", p.Name, MaxProjectName); err != nil {
		return err
	}
	if !p.Status.Valid() {
		return invalid("status", "%q is not a project status", p.Status)
	}
	return validPriority(p.Priority)
}

// ValidateTask checks the task's own fields. Whether projectId references a
// live project is the caller's concern.
func ValidateTask(t Task) error {
	if err := required("name", t.Name, MaxTaskName); err != nil {
		return err
	}
	if strings.TrimSpace(t.ProjectID) == "" {
		return invalid("projectId", "is required")
	}
	if !t.Status.Valid() {
		return invalid("status", "%q is not a task status", t.Status)
	}
	if err := validPriority(t.Priority); err != nil {
		return err
	}
	return validDate("dueDate", t.DueDate)
}

func ValidateActivity(a Activity) error {
	if err := required("entry", a.Entry, MaxEntry); err != nil {
		return err
	}
	if !a.Category.Valid() {
		return invalid("category", "%q is not an activity category", a.Category)
	}
	if a.TaskID != "" && a.ProjectID == "" {
		return invalid("taskId", "requires a project")
	}
	return validDate("date", a.Date)
}

func ValidateMetric(m Metric) error {
	if strings.TrimSpace(m.ProjectID) == "" {
		return invalid("projectId", "is required")
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"hoursToRun", m.HoursToRun},
		{"runsPerWeek", m.RunsPerWeek},
		{"runDurationMinutes", m.RunDurationMinutes},
		{"hoursToBuild", m.HoursToBuild},
	} {
		if f.v < 0 {
			return invalid(f.name, "must not be negative")
		}
	}
	if m.PeopleImpacted < 0 {
		return invalid("peopleImpacted", "must not be negative")
	}
	return nil
}

// NormalizeTags trims, drops empties and de-duplicates while keeping order.
func NormalizeTags(tags []string) []string {
	out := []string{}
	seen := make(map[string]bool)
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// SplitTags parses a comma-separated tag field.
func SplitTags(s string) []string {
	return NormalizeTags(strings.Split(s, ","))
}
