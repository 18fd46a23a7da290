// Package cli holds the workpulse subcommands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/workpulse/internal/cloud"
	"github.com/sadopc/workpulse/internal/config"
	"github.com/sadopc/workpulse/internal/logger"
	"github.com/sadopc/workpulse/internal/store"
	"github.com/sadopc/workpulse/internal/tracker"
)

var (
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#2ECC71"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F39C12"))
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#6C63FF"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)

// Context is shared by every command.
type Context struct {
	Config *config.Config
	Out    io.Writer

	// Remote replaces the PostgreSQL remote when set.
	Remote cloud.Remote
	// Now replaces time.Now when set.
	Now func() time.Time
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) printf(format string, args ...any) {
	fmt.Fprintf(c.out(), format, args...)
}

// session is an open database plus the tracker over it, and the syncer when
// cloud sync is on.
type session struct {
	store   *store.Store
	tracker *tracker.Tracker
	syncer  *cloud.Syncer
	closer  io.Closer
}

// open loads the local store and, when sync is enabled, settles it against
// the remote copy. Sync problems are reported as notices and never stop the
// command.
func (c *Context) open(ctx context.Context) (*session, error) {
	s, err := store.New(c.Config.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	d, err := s.LoadData(ctx)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("load data: %w", err)
	}

	sess := &session{store: s}
	var opts []tracker.Option
	if c.Now != nil {
		opts = append(opts, tracker.WithClock(c.Now))
	}

	remote, closer, syncErr := c.remote()
	if remote == nil {
		sess.tracker = tracker.New(d, s, opts...)
		if syncErr != nil {
			logger.Warn("cloud sync unavailable", "err", syncErr)
			sess.tracker.Notify(tracker.NoticeWarning, "Cloud sync unavailable: "+syncErr.Error())
		}
		return sess, nil
	}

	sess.closer = closer
	syncOpts := []cloud.Option{cloud.WithDebounce(c.Config.DebounceInterval())}
	if c.Now != nil {
		syncOpts = append(syncOpts, cloud.WithClock(c.Now))
	}
	sess.syncer = cloud.NewSyncer(remote, s, syncOpts...)
	sess.tracker = tracker.New(d, sess.syncer.Mirror(s), opts...)

	res, err := sess.syncer.Connect(ctx, c.Config.Sync.UserID, sess.tracker.Data())
	switch {
	case err != nil:
		sess.tracker.Notify(tracker.NoticeError, "Cloud sync failed")
	case res.Winner == cloud.RemoteWins:
		sess.tracker.Replace(res.Data)
		sess.tracker.Notify(tracker.NoticeSuccess, "Data synced from cloud")
	}
	return sess, nil
}

// remote picks the sync backend. A nil remote with a nil error means sync is
// off.
func (c *Context) remote() (cloud.Remote, io.Closer, error) {
	if !c.Config.Sync.Enabled {
		return nil, nil, nil
	}
	if c.Config.Sync.UserID == "" {
		return nil, nil, errors.New("sync.user_id is not set")
	}
	if c.Remote != nil {
		return c.Remote, nil, nil
	}
	dsn, err := config.RemoteDSN()
	if err != nil {
		return nil, nil, err
	}
	pg, err := cloud.OpenPostgres(dsn)
	if err != nil {
		return nil, nil, err
	}
	return pg, pg, nil
}

// close flushes any debounced push before releasing the database.
func (s *session) close(ctx context.Context) {
	if s.syncer != nil {
		if err := s.syncer.Flush(ctx); err != nil && !errors.Is(err, cloud.ErrNotConnected) {
			logger.Warn("final sync push failed", "err", err)
		}
		s.syncer.Close()
	}
	if s.closer != nil {
		s.closer.Close()
	}
	if err := s.store.Close(); err != nil {
		logger.Warn("close database", "err", err)
	}
}

// printNotices writes the tracker's pending notices, one per line.
func (c *Context) printNotices(t *tracker.Tracker) {
	for _, n := range t.Notices() {
		style := dimStyle
		switch n.Level {
		case tracker.NoticeSuccess:
			style = okStyle
		case tracker.NoticeWarning, tracker.NoticeError:
			style = warnStyle
		}
		c.printf("%s\n", style.Render(n.Message))
	}
}
