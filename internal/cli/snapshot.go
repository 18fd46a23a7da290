package cli

import (
	"context"
	"fmt"

	"github.com/sadopc/workpulse/internal/model"
)

type SnapshotCmd struct{}

func (c *SnapshotCmd) Run(app *Context) error {
	ctx := context.Background()
	sess, err := app.open(ctx)
	if err != nil {
		return err
	}
	defer sess.close(ctx)

	snap, err := sess.tracker.Startup(ctx)
	if err != nil {
		return err
	}
	d := sess.tracker.Data()

	app.printf("%s\n", titleStyle.Render(fmt.Sprintf("Week of %s to %s", snap.WeekStart, snap.WeekEnd)))
	app.printf("%s\n", snap.Summary)
	app.printList(d, "Completed", snap.Completed)
	app.printList(d, "In progress", snap.InProgress)
	app.printList(d, "New", snap.NewTasks)
	app.printList(d, "Stuck", snap.Stuck)
	return nil
}

// printList names the tasks behind ids. Tasks deleted since the snapshot was
// taken are still counted.
func (c *Context) printList(d *model.Data, title string, ids []string) {
	if len(ids) == 0 {
		return
	}
	c.printf("\n%s\n", dimStyle.Render(title))
	for _, id := range ids {
		name := "(deleted task)"
		if t := d.Task(id); t != nil {
			name = t.Name
		}
		c.printf("  • %s\n", name)
	}
}
