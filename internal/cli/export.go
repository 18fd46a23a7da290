package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/huh"

	"github.com/sadopc/workpulse/internal/export"
	"github.com/sadopc/workpulse/internal/logger"
)

type ExportCmd struct {
	Out string `help:"Directory to write into. Defaults to reports_output." type:"path"`
	CSV bool   `name:"csv" help:"Write tasks and activities as CSV instead of a JSON backup."`
}

func (c *ExportCmd) Run(app *Context) error {
	ctx := context.Background()
	sess, err := app.open(ctx)
	if err != nil {
		return err
	}
	defer sess.close(ctx)

	dir := c.Out
	if dir == "" {
		dir = app.Config.ReportsOutput
	}
	d := sess.tracker.Data()
	now := sess.tracker.Now()

	var paths []string
	if c.CSV {
		tasks := filepath.Join(dir, export.CSVFilename("tasks", now))
		if err := export.TasksCSV(d, tasks); err != nil {
			return err
		}
		activities := filepath.Join(dir, export.CSVFilename("activities", now))
		if err := export.ActivitiesCSV(d, activities); err != nil {
			return err
		}
		paths = append(paths, tasks, activities)
	} else {
		path := filepath.Join(dir, export.DataFilename(now))
		if err := export.WriteData(d, path); err != nil {
			return err
		}
		paths = append(paths, path)
	}

	for _, p := range paths {
		app.printf("%s %s\n", okStyle.Render("✓ Exported:"), p)
	}
	return nil
}

type ImportCmd struct {
	File string `arg:"" help:"JSON backup to restore." type:"existingfile"`
	Yes  bool   `short:"y" help:"Replace data without asking."`
}

var errImportCancelled = errors.New("import cancelled")

func (c *ImportCmd) Run(app *Context) error {
	im, err := export.ReadImport(c.File)
	if err != nil {
		return err
	}
	projects, tasks, activities := im.Counts()

	if !c.Yes {
		ok := false
		prompt := huh.NewConfirm().
			Title("Replace your data?").
			Description(fmt.Sprintf("%s has %d projects, %d tasks and %d activities. Collections in the file replace yours.",
				filepath.Base(c.File), projects, tasks, activities)).
			Affirmative("Replace").
			Negative("Cancel").
			Value(&ok)
		if err := prompt.Run(); err != nil {
			return err
		}
		if !ok {
			return errImportCancelled
		}
	}

	ctx := context.Background()
	sess, err := app.open(ctx)
	if err != nil {
		return err
	}
	defer sess.close(ctx)

	if err := sess.tracker.Restore(ctx, im.Apply(sess.tracker.Data())); err != nil {
		return err
	}
	logger.Info("imported data", "file", c.File, "projects", projects, "tasks", tasks, "activities", activities)
	app.printf("%s %d projects, %d tasks, %d activities\n", okStyle.Render("✓ Imported"), projects, tasks, activities)
	return nil
}
