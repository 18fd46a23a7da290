package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/workpulse/internal/logger"
	"github.com/sadopc/workpulse/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(app *Context) error {
	ctx := context.Background()
	sess, err := app.open(ctx)
	if err != nil {
		return err
	}
	defer sess.close(ctx)

	if _, err := sess.tracker.Startup(ctx); err != nil {
		logger.Warn("weekly snapshot", "err", err)
	}

	opts := tui.Options{
		ExportDir: app.Config.ReportsOutput,
		ReportDir: app.Config.ReportsOutput,
		DataDir:   app.Config.DataDir(),
	}
	if sess.syncer != nil {
		opts.Sync = sess.syncer
	}

	p := tea.NewProgram(tui.NewApp(ctx, sess.tracker, opts), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
