package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sadopc/workpulse/internal/model"
)

// ErrInvalidImport is returned for files that are not a workpulse export.
var ErrInvalidImport = errors.New("invalid data file")

// DataFilename names a full export taken on now's date.
func DataFilename(now time.Time) string {
	return "workpulse-export-" + model.DateOf(now) + ".json"
}

// WriteData writes the whole store as indented JSON.
func WriteData(d *model.Data, path string) error {
	d.Normalize()
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	if err := writeFile(path, data); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}

// Import is a parsed export file waiting to be applied.
type Import struct {
	present map[string]bool
	file    model.Data
}

// requiredKeys are the keys of which an import must carry at least one.
var requiredKeys = []string{"projects", "tasks", "activities"}

// ReadImport parses an export file without touching any live state.
func ReadImport(path string) (*Import, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read import file: %w", err)
	}
	return ParseImport(raw)
}

func ParseImport(raw []byte) (*Import, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return nil, fmt.Errorf("%w: failed to parse file: %v", ErrInvalidImport, err)
	}
	im := &Import{present: make(map[string]bool)}
	for k, v := range keys {
		if string(v) != "null" {
			im.present[k] = true
		}
	}
	if !im.present["projects"] && !im.present["tasks"] && !im.present["activities"] {
		return nil, fmt.Errorf("%w: expected one of %v", ErrInvalidImport, requiredKeys)
	}
	im.file.Settings = model.DefaultSettings()
	if err := json.Unmarshal(raw, &im.file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	return im, nil
}

// Counts summarizes what the file carries, for the confirmation prompt.
func (im *Import) Counts() (projects, tasks, activities int) {
	return len(im.file.Projects), len(im.file.Tasks), len(im.file.Activities)
}

// Apply returns current with every collection present in the file replaced.
// Settings always come from the file laid over the defaults.
func (im *Import) Apply(current *model.Data) *model.Data {
	out := current.Clone()
	f := im.file
	if im.present["projects"] {
		out.Projects = f.Projects
	}
	if im.present["tasks"] {
		out.Tasks = f.Tasks
	}
	if im.present["activities"] {
		out.Activities = f.Activities
	}
	if im.present["metrics"] {
		out.Metrics = f.Metrics
	}
	if im.present["weeklySnapshots"] {
		out.WeeklySnapshots = f.WeeklySnapshots
	}
	out.Settings = f.Settings
	out.Settings.KarmaLevel = model.KarmaLevel(out.Settings.Karma)
	out.Normalize()
	return out
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
