// Package service provides the business logic layer for progress tracking,
// media management, and sharing.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/3mero/edarh-server/internal/domain"
	"github.com/3mero/edarh-server/internal/errors"
	"github.com/3mero/edarh-server/internal/store"
)

// TrackerService orchestrates list generation, batch completion, and item
// updates for both tracking modes.
type TrackerService struct {
	store  *store.Store
	media  *MediaService
	logger *slog.Logger

	// now is injected for deterministic batch IDs and timestamps in tests.
	now func() time.Time
}

// NewTrackerService creates a new tracker service.
func NewTrackerService(store *store.Store, media *MediaService, logger *slog.Logger) *TrackerService {
	return &TrackerService{
		store:  store,
		media:  media,
		logger: logger,
		now:    time.Now,
	}
}

// Snapshot is the full tracker state for one mode.
type Snapshot struct {
	Mode  domain.Mode   `json:"mode"`
	Items []domain.Item `json:"items"`
	Stats domain.Stats  `json:"stats"`
}

// Snapshot returns the active mode's list and statistics, creating the
// default list on first access.
func (s *TrackerService) Snapshot(ctx context.Context) (*Snapshot, error) {
	mode, err := s.store.GetMode(ctx)
	if err != nil {
		return nil, fmt.Errorf("get mode: %w", err)
	}
	return s.snapshotFor(ctx, mode)
}

func (s *TrackerService) snapshotFor(ctx context.Context, mode domain.Mode) (*Snapshot, error) {
	items, err := s.loadList(ctx, mode)
	if err != nil {
		return nil, err
	}

	// Items carry transient media refs in responses; the stored list never
	// holds them.
	if s.media != nil {
		for i := range items {
			images, audio, err := s.media.Refs(ctx, mode.OwnerKey(items[i].Number))
			if err != nil {
				return nil, fmt.Errorf("media refs for item %d: %w", items[i].Number, err)
			}
			items[i].Images = images
			items[i].AudioNotes = audio
		}
	}

	return &Snapshot{
		Mode:  mode,
		Items: items,
		Stats: domain.ComputeStats(items),
	}, nil
}

// loadList fetches a mode's list, generating and persisting the default
// sequence the first time the mode is used.
func (s *TrackerService) loadList(ctx context.Context, mode domain.Mode) ([]domain.Item, error) {
	items, err := s.store.GetList(ctx, mode)
	if err != nil {
		return nil, fmt.Errorf("get list: %w", err)
	}
	if items != nil {
		return items, nil
	}

	items = domain.Generate(1, mode.Size(), domain.Days[0])
	if err := s.store.SaveList(ctx, mode, items); err != nil {
		return nil, fmt.Errorf("save default list: %w", err)
	}
	s.logger.Info("created default list", "mode", mode, "items", len(items))
	return items, nil
}

// SetMode switches the active tracking mode and returns its snapshot.
func (s *TrackerService) SetMode(ctx context.Context, mode domain.Mode) (*Snapshot, error) {
	if !mode.Valid() {
		return nil, errors.Validationf("unknown mode: %s", mode)
	}
	if err := s.store.SetMode(ctx, mode); err != nil {
		return nil, fmt.Errorf("set mode: %w", err)
	}
	s.logger.Info("switched mode", "mode", mode)
	return s.snapshotFor(ctx, mode)
}

// Generate replaces the active mode's list with a fresh sequence. Media
// attached to the replaced items is cascade-deleted so no records dangle
// behind numbers that may never come back.
func (s *TrackerService) Generate(ctx context.Context, from, to int, firstDay string) (*Snapshot, error) {
	if from < 1 {
		return nil, errors.Validation("from must be at least 1")
	}
	if to < from {
		return nil, errors.Validation("to must not be less than from")
	}
	if domain.DayIndex(firstDay) < 0 {
		return nil, errors.Validationf("unknown day: %s", firstDay)
	}

	mode, err := s.store.GetMode(ctx)
	if err != nil {
		return nil, fmt.Errorf("get mode: %w", err)
	}

	if err := s.dropMediaForList(ctx, mode); err != nil {
		return nil, err
	}

	items := domain.Generate(from, to, firstDay)
	if err := s.store.SaveList(ctx, mode, items); err != nil {
		return nil, fmt.Errorf("save list: %w", err)
	}

	s.logger.Info("generated list",
		"mode", mode,
		"from", from,
		"to", to,
		"first_day", firstDay,
	)
	return s.snapshotFor(ctx, mode)
}

// CompleteBatch marks count consecutive items as completed starting at
// startNumber. All members share a fresh batch ID and color and collapse
// onto the start item's day; the pending tail is rescheduled.
func (s *TrackerService) CompleteBatch(ctx context.Context, startNumber, count int) (*Snapshot, error) {
	if count < 1 {
		return nil, errors.Validation("count must be at least 1")
	}

	mode, err := s.store.GetMode(ctx)
	if err != nil {
		return nil, fmt.Errorf("get mode: %w", err)
	}
	items, err := s.loadList(ctx, mode)
	if err != nil {
		return nil, err
	}

	// A missing start item is a data-consistency edge, not user error; the
	// state is simply returned unchanged.
	if !hasNumber(items, startNumber) {
		s.logger.Warn("complete batch target missing", "mode", mode, "start", startNumber)
		return s.snapshotFor(ctx, mode)
	}
	if remaining := domain.RemainingFrom(items, startNumber); count > remaining {
		return nil, errors.Validationf("only %d items remain from %d", remaining, startNumber)
	}

	now := s.now()
	batchID := domain.NewBatchID(now)
	batchColor := domain.RandomBatchColor()

	items = domain.CompleteBatch(items, startNumber, count, batchID, batchColor, now.Format(time.RFC3339))
	if err := s.store.SaveList(ctx, mode, items); err != nil {
		return nil, fmt.Errorf("save list: %w", err)
	}

	s.logger.Info("completed batch",
		"mode", mode,
		"start", startNumber,
		"count", count,
		"batch_id", batchID,
	)
	return s.snapshotFor(ctx, mode)
}

// UndoBatch reverts the given item numbers to pending and reschedules the
// tail. Unknown numbers are ignored.
func (s *TrackerService) UndoBatch(ctx context.Context, numbers []int) (*Snapshot, error) {
	if len(numbers) == 0 {
		return nil, errors.Validation("numbers must not be empty")
	}

	mode, err := s.store.GetMode(ctx)
	if err != nil {
		return nil, fmt.Errorf("get mode: %w", err)
	}
	items, err := s.loadList(ctx, mode)
	if err != nil {
		return nil, err
	}

	items = domain.UndoBatch(items, numbers)
	if err := s.store.SaveList(ctx, mode, items); err != nil {
		return nil, fmt.Errorf("save list: %w", err)
	}

	s.logger.Info("undid batch", "mode", mode, "numbers", len(numbers))
	return s.snapshotFor(ctx, mode)
}

// UpdateItem replaces one item's editable fields (note, color, hidden, day).
// Completion state changes must go through CompleteBatch/UndoBatch, so the
// stored completion fields are preserved.
func (s *TrackerService) UpdateItem(ctx context.Context, updated domain.Item) (*Snapshot, error) {
	mode, err := s.store.GetMode(ctx)
	if err != nil {
		return nil, fmt.Errorf("get mode: %w", err)
	}
	items, err := s.loadList(ctx, mode)
	if err != nil {
		return nil, err
	}

	current, ok := findNumber(items, updated.Number)
	if !ok {
		return nil, errors.NotFoundf("item %d", updated.Number)
	}

	// Empty day or color means "keep the current value".
	if updated.Day == "" {
		updated.Day = current.Day
	} else if domain.DayIndex(updated.Day) < 0 {
		return nil, errors.Validationf("unknown day: %s", updated.Day)
	}
	if updated.Color == "" {
		updated.Color = current.Color
	}

	// Carry over engine-owned fields.
	updated.Completed = current.Completed
	updated.CompletedTime = current.CompletedTime
	updated.CompletionBatchID = current.CompletionBatchID
	updated.BatchColor = current.BatchColor

	items, _ = domain.UpdateItem(items, updated)
	if err := s.store.SaveList(ctx, mode, items); err != nil {
		return nil, fmt.Errorf("save list: %w", err)
	}

	s.logger.Info("updated item", "mode", mode, "number", updated.Number)
	return s.snapshotFor(ctx, mode)
}

// Stats returns the active mode's completion statistics.
func (s *TrackerService) Stats(ctx context.Context) (domain.Stats, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return domain.Stats{}, err
	}
	return snap.Stats, nil
}

// Reset restores both modes to their default lists, switches back to hizb,
// and deletes all stored media. This is the full app reset.
func (s *TrackerService) Reset(ctx context.Context) (*Snapshot, error) {
	for _, mode := range []domain.Mode{domain.ModeHizb, domain.ModeJuz} {
		items := domain.Generate(1, mode.Size(), domain.Days[0])
		if err := s.store.SaveList(ctx, mode, items); err != nil {
			return nil, fmt.Errorf("save default list for %s: %w", mode, err)
		}
	}
	if err := s.store.SetMode(ctx, domain.ModeHizb); err != nil {
		return nil, fmt.Errorf("set mode: %w", err)
	}

	if s.media != nil {
		if err := s.media.ClearAll(ctx); err != nil {
			return nil, fmt.Errorf("clear media: %w", err)
		}
	}

	s.logger.Info("reset tracker")
	return s.snapshotFor(ctx, domain.ModeHizb)
}

// dropMediaForList cascade-deletes the media owned by a mode's current items.
func (s *TrackerService) dropMediaForList(ctx context.Context, mode domain.Mode) error {
	if s.media == nil {
		return nil
	}

	items, err := s.store.GetList(ctx, mode)
	if err != nil {
		return fmt.Errorf("get list: %w", err)
	}
	for _, it := range items {
		if err := s.media.DeleteByOwner(ctx, mode.OwnerKey(it.Number)); err != nil {
			return fmt.Errorf("delete media for item %d: %w", it.Number, err)
		}
	}
	return nil
}

func hasNumber(items []domain.Item, number int) bool {
	_, ok := findNumber(items, number)
	return ok
}

func findNumber(items []domain.Item, number int) (domain.Item, bool) {
	for _, it := range items {
		if it.Number == number {
			return it, true
		}
	}
	return domain.Item{}, false
}
