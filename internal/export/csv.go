package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sadopc/workpulse/internal/model"
)

func createCSV(path string) (*os.File, *csv.Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create csv file: %w", err)
	}
	return f, csv.NewWriter(f), nil
}

// CSVFilename names a CSV export of kind ("tasks" or "activities") taken on
// now's date.
func CSVFilename(kind string, now time.Time) string {
	return "workpulse-" + kind + "-" + model.DateOf(now) + ".csv"
}

// TasksCSV writes one row per task.
func TasksCSV(d *model.Data, path string) error {
	f, w, err := createCSV(path)
	if err != nil {
		return err
	}
	defer f.Close()
	defer w.Flush()

	if err := w.Write([]string{"ID", "Task", "Project", "Status", "Priority", "Due Date", "Completed At", "Blocker", "Tags"}); err != nil {
		return err
	}
	for _, t := range d.Tasks {
		completed := ""
		if t.CompletedAt != nil {
			completed = t.CompletedAt.Local().Format(time.RFC3339)
		}
		row := []string{
			t.ID,
			t.Name,
			projectName(d, t.ProjectID),
			string(t.Status),
			strconv.Itoa(t.Priority),
			t.DueDate,
			completed,
			t.BlockerNote,
			strings.Join(t.Tags, ";"),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// ActivitiesCSV writes the activity log oldest first, as it was recorded.
func ActivitiesCSV(d *model.Data, path string) error {
	f, w, err := createCSV(path)
	if err != nil {
		return err
	}
	defer f.Close()
	defer w.Flush()

	if err := w.Write([]string{"ID", "Date", "Timestamp", "Project", "Category", "Entry", "Tags"}); err != nil {
		return err
	}
	for _, a := range d.Activities {
		row := []string{
			a.ID,
			a.Date,
			a.Timestamp.Local().Format(time.RFC3339),
			projectName(d, a.ProjectID),
			string(a.Category),
			a.Entry,
			strings.Join(a.Tags, ";"),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func projectName(d *model.Data, id string) string {
	if id == "" {
		return ""
	}
	if name := d.ProjectName(id); name != "" {
		return name
	}
	return "Unknown"
}
