// Package cloud mirrors the record store to a remote document keyed by user
// id. Conflicts are settled last-write-wins on the sync markers; there is no
// field-level merge.
package cloud

import (
	"context"
	"errors"
	"time"

	"github.com/sadopc/workpulse/internal/model"
)

var (
	ErrNoDocument   = errors.New("no remote document")
	ErrNotConnected = errors.New("sync is not connected")
)

// MarkerLayout is fixed width so markers order lexically.
const MarkerLayout = "2006-01-02T15:04:05.000Z"

func Marker(t time.Time) string {
	return t.UTC().Format(MarkerLayout)
}

// Document is the remote copy of one user's store.
type Document struct {
	Data      *model.Data
	LastSync  string
	UpdatedAt time.Time
}

type Remote interface {
	// Fetch returns ErrNoDocument when the user has never synced.
	Fetch(ctx context.Context, userID string) (*Document, error)
	Store(ctx context.Context, userID string, doc *Document) error
}

type Winner int

const (
	LocalWins Winner = iota
	RemoteWins
)

func (w Winner) String() string {
	if w == RemoteWins {
		return "remote"
	}
	return "local"
}

type Resolution struct {
	Winner Winner
	Data   *model.Data
	Marker string
}

// Merge picks the copy to keep. The remote copy wins wholesale only when its
// marker is strictly greater than the local one; a missing marker counts as
// "0". Edits on the losing side are discarded.
func Merge(local, remote *model.Data, localMark, remoteMark string) Resolution {
	if localMark == "" {
		localMark = "0"
	}
	if remoteMark == "" {
		remoteMark = "0"
	}
	if remote != nil && remoteMark > localMark {
		return Resolution{Winner: RemoteWins, Data: remote, Marker: remoteMark}
	}
	return Resolution{Winner: LocalWins, Data: local, Marker: localMark}
}
