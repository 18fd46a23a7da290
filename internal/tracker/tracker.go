// Package tracker owns the in-memory record store and is the only place it
// is mutated. Each operation validates its input, applies the change with any
// gamification side effects, then hands the whole store to a Persister.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sadopc/workpulse/internal/gamify"
	"github.com/sadopc/workpulse/internal/logger"
	"github.com/sadopc/workpulse/internal/model"
	"github.com/sadopc/workpulse/internal/snapshot"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrSave wraps persistence failures. The in-memory change has already
	// been applied when it is returned.
	ErrSave = errors.New("save failed")
)

// Persister stores the whole record store.
type Persister interface {
	Save(ctx context.Context, d *model.Data) error
}

type PersisterFunc func(ctx context.Context, d *model.Data) error

func (f PersisterFunc) Save(ctx context.Context, d *model.Data) error { return f(ctx, d) }

type NoticeLevel int

const (
	NoticeInfo NoticeLevel = iota
	NoticeSuccess
	NoticeWarning
	NoticeError
)

func (l NoticeLevel) String() string {
	switch l {
	case NoticeSuccess:
		return "success"
	case NoticeWarning:
		return "warning"
	case NoticeError:
		return "error"
	}
	return "info"
}

// Notice is a transient user-facing message.
type Notice struct {
	Level   NoticeLevel
	Message string
}

type Tracker struct {
	data    *model.Data
	persist Persister
	now     func() time.Time
	notices []Notice
}

type Option func(*Tracker)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// New wraps d. A nil d starts an empty store; a nil p discards saves.
func New(d *model.Data, p Persister, opts ...Option) *Tracker {
	if d == nil {
		d = model.NewData()
	}
	d.Normalize()
	if p == nil {
		p = PersisterFunc(func(context.Context, *model.Data) error { return nil })
	}
	t := &Tracker{data: d, persist: p, now: time.Now}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Data exposes the live store for rendering. Callers must not modify it.
func (t *Tracker) Data() *model.Data {
	return t.data
}

// Now reads the tracker's clock.
func (t *Tracker) Now() time.Time {
	return t.now()
}

func (t *Tracker) Settings() model.Settings {
	return t.data.Settings
}

// Startup runs the once-per-launch snapshot pass for the current week.
func (t *Tracker) Startup(ctx context.Context) (model.WeeklySnapshot, error) {
	snap, outcome := snapshot.EnsureCurrent(t.data, t.now())
	logger.Debug("weekly snapshot", "week", snap.WeekStart, "outcome", outcome)
	if outcome == snapshot.Fresh {
		return snap, nil
	}
	return snap, t.commit(ctx)
}

// Replace swaps in a whole new store, as after a remote pull or an import.
// It is not saved; the caller decides where the new store goes.
func (t *Tracker) Replace(d *model.Data) {
	d.Normalize()
	t.data = d
}

// Restore swaps in d and persists it, as after an import.
func (t *Tracker) Restore(ctx context.Context, d *model.Data) error {
	t.Replace(d)
	return t.commit(ctx)
}

// Notify queues a notice from outside the tracker, such as sync status.
func (t *Tracker) Notify(level NoticeLevel, msg string) {
	t.notices = append(t.notices, Notice{Level: level, Message: msg})
}

// Notices drains the pending notices.
func (t *Tracker) Notices() []Notice {
	n := t.notices
	t.notices = nil
	return n
}

func (t *Tracker) commit(ctx context.Context, events ...gamify.Event) error {
	for _, ev := range events {
		t.Notify(NoticeSuccess, ev.Message)
	}
	if err := t.persist.Save(ctx, t.data); err != nil {
		logger.Error("failed to save data", "err", err)
		t.Notify(NoticeError, "Failed to save data")
		return fmt.Errorf("%w: %v", ErrSave, err)
	}
	return nil
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}

func missingRef(field, kind string) error {
	return &model.ValidationError{Field: field, Reason: "does not reference an existing " + kind}
}
