package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNoSlot is returned when a slot has never been written.
var ErrNoSlot = errors.New("slot not found")

type Slot struct {
	Key       string
	Size      int
	UpdatedAt time.Time
}

func (s *Store) GetSlot(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM slots WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNoSlot
	}
	if err != nil {
		return "", fmt.Errorf("get slot %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) SetSlot(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO slots (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("set slot %q: %w", key, err)
	}
	return nil
}

func (s *Store) DeleteSlot(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM slots WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete slot %q: %w", key, err)
	}
	return nil
}

// ListSlots reports every slot with its payload size, ordered by key.
func (s *Store) ListSlots(ctx context.Context) ([]Slot, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, length(value), updated_at FROM slots ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	defer rows.Close()

	var slots []Slot
	for rows.Next() {
		var sl Slot
		var updated string
		if err := rows.Scan(&sl.Key, &sl.Size, &updated); err != nil {
			return nil, err
		}
		sl.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
		slots = append(slots, sl)
	}
	return slots, rows.Err()
}
