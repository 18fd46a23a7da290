package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/workpulse/internal/model"
	"github.com/sadopc/workpulse/internal/report"
)

func sampleData() *model.Data {
	now := time.Date(2024, 3, 5, 10, 0, 0, 0, time.Local)
	d := model.NewData()
	d.Projects = []model.Project{
		{ID: "p1", Name: "Project Alpha", Status: model.ProjectActive, Priority: 3, CreatedAt: now, UpdatedAt: now},
		{ID: "p2", Name: "Project Beta", Status: model.ProjectOnHold, Priority: 2, CreatedAt: now, UpdatedAt: now},
	}
	d.Tasks = []model.Task{
		{ID: "t1", Name: "Ship it", ProjectID: "p1", Status: model.TaskDone, Priority: 3, DueDate: "2024-03-06", CompletedAt: &now, Tags: []string{"release", "q1"}},
		{ID: "t2", Name: "Wait, on vendor", ProjectID: "p2", Status: model.TaskBlocked, BlockerNote: "no reply", Priority: 1},
	}
	d.Activities = []model.Activity{
		{ID: "a1", Entry: "deployed", ProjectID: "p1", Category: model.CategoryDeploy, Date: "2024-03-05", Timestamp: now},
		{ID: "a2", Entry: "inbox zero", Category: model.CategoryOther, Date: "2024-03-05", Timestamp: now},
	}
	d.Settings.UserName = "Sam"
	d.Settings.Karma = 60
	d.Settings.KarmaLevel = model.KarmaLevel(60)
	return d
}

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "import.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// ============================================================
// JSON export
// ============================================================

func TestDataFilename(t *testing.T) {
	got := DataFilename(time.Date(2024, 3, 5, 10, 0, 0, 0, time.Local))
	if got != "workpulse-export-2024-03-05.json" {
		t.Fatalf("filename = %q", got)
	}
	got = CSVFilename("tasks", time.Date(2024, 3, 5, 10, 0, 0, 0, time.Local))
	if got != "workpulse-tasks-2024-03-05.csv" {
		t.Fatalf("csv filename = %q", got)
	}
}

func TestWriteData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "export.json")
	if err := WriteData(sampleData(), path); err != nil {
		t.Fatal(err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), "\n  \"projects\": [") {
		t.Fatal("export is not pretty-printed")
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"projects", "tasks", "activities", "metrics", "weeklySnapshots", "settings"} {
		if _, ok := keys[k]; !ok {
			t.Errorf("missing top-level key %q", k)
		}
	}
}

func TestExportThenImportRestores(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.json")
	src := sampleData()
	if err := WriteData(src, path); err != nil {
		t.Fatal(err)
	}
	im, err := ReadImport(path)
	if err != nil {
		t.Fatal(err)
	}
	got := im.Apply(model.NewData())
	if len(got.Projects) != 2 || len(got.Tasks) != 2 || got.Settings.UserName != "Sam" || got.Settings.KarmaLevel != "Contributor" {
		t.Fatalf("restored = %+v", got)
	}
}

// ============================================================
// Import
// ============================================================

func TestImportShallowMerge(t *testing.T) {
	path := writeTemp(t, `{"projects":[{"id":"x","name":"Imported","status":"active","priority":3}],"settings":{"userName":"Ana"}}`)
	im, err := ReadImport(path)
	if err != nil {
		t.Fatal(err)
	}
	current := sampleData()
	got := im.Apply(current)

	if len(got.Projects) != 1 || got.Projects[0].Name != "Imported" {
		t.Fatalf("projects not replaced: %+v", got.Projects)
	}
	if len(got.Tasks) != 2 || len(got.Activities) != 2 {
		t.Fatal("keys absent from the file must keep the current collections")
	}
	if got.Settings.UserName != "Ana" || got.Settings.Theme != "dark" || got.Settings.Karma != 0 {
		t.Fatalf("settings = %+v", got.Settings)
	}
	if len(current.Projects) != 2 {
		t.Fatal("Apply mutated the current store")
	}
}

func TestImportRejectsMissingKeys(t *testing.T) {
	for _, content := range []string{`{"settings":{}}`, `{"projects":null}`, `[]`} {
		_, err := ReadImport(writeTemp(t, content))
		if !errors.Is(err, ErrInvalidImport) {
			t.Errorf("%s: expected ErrInvalidImport, got %v", content, err)
		}
	}
}

func TestImportRejectsUnparseable(t *testing.T) {
	if _, err := ReadImport(writeTemp(t, "{oops")); !errors.Is(err, ErrInvalidImport) {
		t.Fatalf("expected ErrInvalidImport, got %v", err)
	}
	if _, err := ReadImport(writeTemp(t, `{"tasks":"nope"}`)); !errors.Is(err, ErrInvalidImport) {
		t.Fatalf("expected ErrInvalidImport for wrong shape, got %v", err)
	}
}

func TestImportMissingFile(t *testing.T) {
	if _, err := ReadImport(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error")
	}
}

func TestImportCounts(t *testing.T) {
	im, err := ParseImport([]byte(`{"tasks":[{"id":"a"},{"id":"b"}]}`))
	if err != nil {
		t.Fatal(err)
	}
	p, tk, a := im.Counts()
	if p != 0 || tk != 2 || a != 0 {
		t.Fatalf("counts = %d %d %d", p, tk, a)
	}
}

// ============================================================
// CSV
// ============================================================

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return records
}

func TestTasksCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.csv")
	if err := TasksCSV(sampleData(), path); err != nil {
		t.Fatal(err)
	}
	records := readCSV(t, path)
	if len(records) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(records))
	}
	if records[0][1] != "Task" || records[1][2] != "Project Alpha" || records[1][8] != "release;q1" {
		t.Fatalf("rows = %v", records)
	}
	if records[2][1] != "Wait, on vendor" || records[2][7] != "no reply" || records[2][6] != "" {
		t.Fatalf("row 2 = %v", records[2])
	}
}

func TestActivitiesCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activities.csv")
	if err := ActivitiesCSV(sampleData(), path); err != nil {
		t.Fatal(err)
	}
	records := readCSV(t, path)
	if len(records) != 3 || records[1][3] != "Project Alpha" || records[2][3] != "" {
		t.Fatalf("rows = %v", records)
	}
}

// ============================================================
// Report
// ============================================================

func TestWriteReport(t *testing.T) {
	d := sampleData()
	opts := report.Options{From: "2024-03-01", To: "2024-03-07", Sections: report.AllSections()}
	r, err := report.Build(d, opts, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), report.Filename(opts))
	if err := WriteReport(r, path); err != nil {
		t.Fatal(err)
	}
	raw, _ := os.ReadFile(path)
	if string(raw) != r.Markdown() {
		t.Fatal("written report differs from the rendering")
	}
	if !strings.HasSuffix(path, "workpulse-report-2024-03-01-to-2024-03-07.md") {
		t.Fatalf("path = %s", path)
	}
}
