package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"anime-catalog-service/internal/auth"
	"anime-catalog-service/internal/metrics"
	"anime-catalog-service/internal/models"
	"anime-catalog-service/internal/repository"
)

// HistoryService records and lists per-user watch history.
type HistoryService struct {
	store HistoryStore
	now   func() time.Time
}

// NewHistoryService creates a new HistoryService.
func NewHistoryService(store HistoryStore) *HistoryService {
	return &HistoryService{store: store, now: time.Now}
}

// RecordWatch upserts the (user, episode) row with the current time.
func (s *HistoryService) RecordWatch(ctx context.Context, id *auth.Identity, episodeID int) (*models.WatchHistory, error) {
	if id == nil {
		return nil, ErrUnauthenticated
	}
	if episodeID <= 0 {
		return nil, ErrInvalidInput
	}

	watchedAt := s.now().UTC().Format(models.WatchedAtLayout)
	h, err := s.store.UpsertWatch(ctx, id.UserID, episodeID, watchedAt)
	if err != nil {
		if errors.Is(err, repository.ErrUnknownUser) {
			return nil, ErrUnauthenticated
		}
		if errors.Is(err, repository.ErrForeignKey) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to record watch: %w", err)
	}

	metrics.WatchEvents.Inc()
	return h, nil
}

// GetHistory returns the caller's history, most recent first.
// Anonymous callers get an empty list.
func (s *HistoryService) GetHistory(ctx context.Context, id *auth.Identity) ([]models.HistoryEntry, error) {
	if id == nil {
		return []models.HistoryEntry{}, nil
	}

	entries, err := s.store.ListByUser(ctx, id.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	if entries == nil {
		entries = []models.HistoryEntry{}
	}
	return entries, nil
}
