package cli

import (
	"context"
	"errors"

	"github.com/sadopc/workpulse/internal/cloud"
	"github.com/sadopc/workpulse/internal/keyring"
)

var errSyncDisabled = errors.New("sync is disabled; set [sync] enabled and user_id in the config file")

type SyncCmd struct{}

func (c *SyncCmd) Run(app *Context) error {
	if !app.Config.Sync.Enabled {
		return errSyncDisabled
	}
	ctx := context.Background()
	sess, err := app.open(ctx)
	if err != nil {
		return err
	}
	defer sess.close(ctx)

	app.printNotices(sess.tracker)
	if sess.syncer == nil {
		return errors.New("could not reach the remote")
	}
	if err := sess.syncer.Flush(ctx); err != nil {
		return err
	}
	if sess.syncer.Status() == cloud.StatusError {
		return errors.New("sync failed; see the log for details")
	}
	app.printf("%s\n", okStyle.Render("✓ "+sess.syncer.Status().String()))
	return nil
}

type RemoteSetCmd struct {
	DSN string `arg:"" name:"dsn" help:"PostgreSQL connection string."`
}

func (c *RemoteSetCmd) Run(app *Context) error {
	if err := keyring.SetRemoteDSN(c.DSN); err != nil {
		return err
	}
	app.printf("%s\n", okStyle.Render("✓ Remote connection saved to the system keyring"))
	return nil
}

type RemoteClearCmd struct{}

func (c *RemoteClearCmd) Run(app *Context) error {
	err := keyring.DeleteRemoteDSN()
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return err
	}
	app.printf("%s\n", okStyle.Render("✓ Remote connection removed"))
	return nil
}
