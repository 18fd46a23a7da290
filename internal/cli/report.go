package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/sadopc/workpulse/internal/export"
	"github.com/sadopc/workpulse/internal/model"
	"github.com/sadopc/workpulse/internal/report"
)

type ReportCmd struct {
	Preset   string   `help:"Report preset (${enum})." enum:"standup,weekly,monthly" default:"weekly"`
	From     string   `help:"First day (YYYY-MM-DD). Overrides the preset range."`
	To       string   `help:"Last day (YYYY-MM-DD). Defaults to today when --from is given."`
	Sections []string `help:"Sections to include: completed, in-progress, upcoming, blockers, activities, value." sep:","`
	Out      string   `help:"Write the markdown into this directory instead of printing it." type:"path"`
}

// options resolves the preset and any overrides against today.
func (c *ReportCmd) options(today string, preset report.Options) (report.Options, error) {
	opts := preset
	if c.From != "" {
		opts.From = c.From
		opts.To = today
	}
	if c.To != "" {
		opts.To = c.To
	}
	if len(c.Sections) > 0 {
		s, err := report.ParseSections(c.Sections)
		if err != nil {
			return report.Options{}, err
		}
		opts.Sections = s
	}
	return opts, nil
}

func (c *ReportCmd) Run(app *Context) error {
	ctx := context.Background()
	sess, err := app.open(ctx)
	if err != nil {
		return err
	}
	defer sess.close(ctx)

	now := sess.tracker.Now()
	preset, err := report.Preset(c.Preset, now)
	if err != nil {
		return err
	}
	opts, err := c.options(model.DateOf(now), preset)
	if err != nil {
		return err
	}
	r, err := report.Build(sess.tracker.Data(), opts, now)
	if err != nil {
		return err
	}

	if c.Out == "" {
		fmt.Fprint(app.out(), r.Markdown())
		return nil
	}
	path := filepath.Join(c.Out, report.Filename(opts))
	if err := export.WriteReport(r, path); err != nil {
		return err
	}
	app.printf("%s %s\n", okStyle.Render("✓ Report written:"), path)
	return nil
}
