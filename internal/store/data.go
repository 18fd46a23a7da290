package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sadopc/workpulse/internal/logger"
	"github.com/sadopc/workpulse/internal/model"
)

const (
	DataSlot     = "workpulse-data"
	LastSyncSlot = "workpulse-lastSync"
)

// LoadData reads the record store. A missing slot yields an empty store; a
// corrupt document is logged and also yields an empty store.
func (s *Store) LoadData(ctx context.Context) (*model.Data, error) {
	raw, err := s.GetSlot(ctx, DataSlot)
	if errors.Is(err, ErrNoSlot) {
		return model.NewData(), nil
	}
	if err != nil {
		return nil, err
	}
	d, err := model.Decode([]byte(raw))
	if err != nil {
		logger.Error("stored data is corrupt, starting empty", "slot", DataSlot, "err", err)
		return model.NewData(), nil
	}
	return d, nil
}

// Save overwrites the whole record store document.
func (s *Store) Save(ctx context.Context, d *model.Data) error {
	d.Normalize()
	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode data: %w", err)
	}
	return s.SetSlot(ctx, DataSlot, string(raw))
}

// LastSync returns the marker of the last successful remote sync, or "" when
// the store has never synced.
func (s *Store) LastSync(ctx context.Context) (string, error) {
	v, err := s.GetSlot(ctx, LastSyncSlot)
	if errors.Is(err, ErrNoSlot) {
		return "", nil
	}
	return v, err
}

func (s *Store) SetLastSync(ctx context.Context, marker string) error {
	return s.SetSlot(ctx, LastSyncSlot, marker)
}
