package cloud

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sadopc/workpulse/internal/logger"
	"github.com/sadopc/workpulse/internal/model"
)

const DefaultDebounce = 2 * time.Second

type Status int

const (
	StatusOffline Status = iota
	StatusSyncing
	StatusSynced
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusSyncing:
		return "Syncing..."
	case StatusSynced:
		return "Synced"
	case StatusError:
		return "Sync error"
	}
	return "Offline"
}

// LocalStore is the local side the syncer reads markers from and writes
// pulled documents to.
type LocalStore interface {
	Save(ctx context.Context, d *model.Data) error
	LastSync(ctx context.Context) (string, error)
	SetLastSync(ctx context.Context, marker string) error
}

// Syncer pushes the store to a Remote after a quiet period. Local state is
// always authoritative; a failed push is retried only by the next save.
type Syncer struct {
	remote   Remote
	local    LocalStore
	debounce time.Duration
	now      func() time.Time
	onError  func(error)

	push sync.Mutex

	mu      sync.Mutex
	userID  string
	status  Status
	pending *model.Data
	timer   *time.Timer
	closed  bool
}

type Option func(*Syncer)

func WithDebounce(d time.Duration) Option {
	return func(s *Syncer) {
		if d > 0 {
			s.debounce = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Syncer) { s.now = now }
}

// WithErrorHandler is called, possibly from a timer goroutine, after every
// failed push.
func WithErrorHandler(fn func(error)) Option {
	return func(s *Syncer) { s.onError = fn }
}

func NewSyncer(remote Remote, local LocalStore, opts ...Option) *Syncer {
	s := &Syncer{
		remote:   remote,
		local:    local,
		debounce: DefaultDebounce,
		now:      time.Now,
		onError:  func(error) {},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Syncer) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Syncer) setStatus(st Status) {
	s.mu.Lock()
	s.status = st
	s.mu.Unlock()
}

func (s *Syncer) connected() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID, s.userID != "" && !s.closed
}

// Connect pulls the user's remote document and settles it against current.
// When the remote copy wins it is saved locally, not pushed back, and
// returned for the caller to adopt. Otherwise current is pushed.
func (s *Syncer) Connect(ctx context.Context, userID string, current *model.Data) (Resolution, error) {
	if userID == "" {
		return Resolution{}, errors.New("user id is required")
	}
	s.mu.Lock()
	s.userID = userID
	s.status = StatusSyncing
	s.mu.Unlock()

	doc, err := s.remote.Fetch(ctx, userID)
	if errors.Is(err, ErrNoDocument) {
		return Resolution{Winner: LocalWins, Data: current}, s.pushNow(ctx, current)
	}
	if err != nil {
		s.fail(err)
		return Resolution{}, fmt.Errorf("pull: %w", err)
	}

	localMark, err := s.local.LastSync(ctx)
	if err != nil {
		logger.Warn("read local sync marker", "err", err)
	}
	res := Merge(current, doc.Data, localMark, doc.LastSync)
	logger.Info("sync resolved", "user", userID, "winner", res.Winner, "local", localMark, "remote", doc.LastSync)

	if res.Winner == LocalWins {
		return res, s.pushNow(ctx, current)
	}
	if err := s.local.Save(ctx, res.Data); err != nil {
		s.fail(err)
		return res, fmt.Errorf("save pulled data: %w", err)
	}
	if err := s.local.SetLastSync(ctx, doc.LastSync); err != nil {
		logger.Warn("write local sync marker", "err", err)
	}
	s.setStatus(StatusSynced)
	return res, nil
}

// Schedule queues a copy of d and restarts the quiet-period timer, so a burst
// of saves results in one push. It does nothing until Connect.
func (s *Syncer) Schedule(d *model.Data) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.userID == "" || s.closed {
		return
	}
	s.pending = d.Clone()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, func() {
		if err := s.Flush(context.Background()); err != nil && !errors.Is(err, ErrNotConnected) {
			logger.Debug("debounced push failed", "err", err)
		}
	})
}

// Flush pushes any pending copy immediately.
func (s *Syncer) Flush(ctx context.Context) error {
	if _, ok := s.connected(); !ok {
		return ErrNotConnected
	}
	s.mu.Lock()
	d := s.pending
	s.pending = nil
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()
	if d == nil {
		return nil
	}
	return s.pushNow(ctx, d)
}

func (s *Syncer) pushNow(ctx context.Context, d *model.Data) error {
	userID, ok := s.connected()
	if !ok {
		return ErrNotConnected
	}
	s.push.Lock()
	defer s.push.Unlock()

	s.setStatus(StatusSyncing)
	now := s.now()
	mark := Marker(now)
	if err := s.remote.Store(ctx, userID, &Document{Data: d, LastSync: mark, UpdatedAt: now}); err != nil {
		s.fail(err)
		return fmt.Errorf("push: %w", err)
	}
	if err := s.local.SetLastSync(ctx, mark); err != nil {
		logger.Warn("write local sync marker", "err", err)
	}
	s.setStatus(StatusSynced)
	logger.Debug("pushed to remote", "user", userID, "marker", mark)
	return nil
}

func (s *Syncer) fail(err error) {
	s.setStatus(StatusError)
	logger.Error("cloud sync failed", "err", err)
	s.onError(err)
}

// Close stops the pending timer. Unflushed changes stay local.
func (s *Syncer) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// Saver is anything that persists the whole store.
type Saver interface {
	Save(ctx context.Context, d *model.Data) error
}

type mirrored struct {
	next Saver
	s    *Syncer
}

// Mirror returns a Saver that writes through next and then schedules a push.
func (s *Syncer) Mirror(next Saver) Saver {
	return &mirrored{next: next, s: s}
}

func (m *mirrored) Save(ctx context.Context, d *model.Data) error {
	if err := m.next.Save(ctx, d); err != nil {
		return err
	}
	m.s.Schedule(d)
	return nil
}
