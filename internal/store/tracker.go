package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/3mero/edarh-server/internal/domain"
)

const keyCurrentMode = "mode:current"

func listKey(mode domain.Mode) []byte {
	return []byte("list:" + string(mode))
}

// GetList retrieves the item list for a mode. Returns nil with no error when
// no list has been saved yet; callers fall back to a default list.
func (s *Store) GetList(ctx context.Context, mode domain.Mode) ([]domain.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !mode.Valid() {
		return nil, ErrInvalidInput.WithMessage(fmt.Sprintf("unknown mode: %s", mode))
	}

	var items []domain.Item
	err := s.get(listKey(mode), &items)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s list: %w", mode, err)
	}
	return items, nil
}

// SaveList atomically replaces the entire item list for a mode. Lists are
// small (at most 60 items) so whole-list replacement is the unit of write.
func (s *Store) SaveList(ctx context.Context, mode domain.Mode, items []domain.Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !mode.Valid() {
		return ErrInvalidInput.WithMessage(fmt.Sprintf("unknown mode: %s", mode))
	}

	if items == nil {
		items = []domain.Item{}
	}
	if err := s.set(listKey(mode), items); err != nil {
		return fmt.Errorf("save %s list: %w", mode, err)
	}
	return nil
}

// GetMode retrieves the active tracking mode, defaulting to hizb.
func (s *Store) GetMode(ctx context.Context) (domain.Mode, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var mode domain.Mode
	err := s.get([]byte(keyCurrentMode), &mode)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.ModeHizb, nil
	}
	if err != nil {
		return "", fmt.Errorf("get current mode: %w", err)
	}
	if !mode.Valid() {
		return domain.ModeHizb, nil
	}
	return mode, nil
}

// SetMode switches the active tracking mode.
func (s *Store) SetMode(ctx context.Context, mode domain.Mode) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !mode.Valid() {
		return ErrInvalidInput.WithMessage(fmt.Sprintf("unknown mode: %s", mode))
	}

	if err := s.set([]byte(keyCurrentMode), mode); err != nil {
		return fmt.Errorf("set current mode: %w", err)
	}
	return nil
}
