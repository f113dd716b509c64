package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"anime-catalog-service/internal/models"
)

// Default name Postgres gives the watch_history.user_id foreign key.
const historyUserFK = "watch_history_user_id_fkey"

// HistoryRepository handles watch history rows.
type HistoryRepository struct {
	db *sql.DB
}

// NewHistoryRepository creates a new HistoryRepository.
func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// UpsertWatch inserts a row for (userID, episodeID) or moves its watched_at forward.
func (r *HistoryRepository) UpsertWatch(ctx context.Context, userID, episodeID int, watchedAt string) (*models.WatchHistory, error) {
	var h models.WatchHistory
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO watch_history (user_id, episode_id, watched_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, episode_id) DO UPDATE SET
			watched_at = EXCLUDED.watched_at
		RETURNING id, user_id, episode_id, watched_at
	`, userID, episodeID, watchedAt).Scan(&h.ID, &h.UserID, &h.EpisodeID, &h.WatchedAt)
	if err != nil {
		if violates(err, historyUserFK) {
			return nil, ErrUnknownUser
		}
		return nil, fmt.Errorf("failed to upsert watch history: %w", translate(err))
	}
	return &h, nil
}

// ListByUser returns the user's history joined with episodes and titles, newest first.
// Rows whose episode is gone are excluded by the inner joins.
func (r *HistoryRepository) ListByUser(ctx context.Context, userID int) ([]models.HistoryEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT h.id, h.user_id, h.episode_id, h.watched_at,
			`+episodeColumns+`,
			`+animeColumns+`
		FROM watch_history h
		INNER JOIN episodes e ON e.id = h.episode_id
		INNER JOIN animes a ON a.id = e.anime_id
		WHERE h.user_id = $1
		ORDER BY h.watched_at DESC, h.id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query watch history: %w", err)
	}
	defer rows.Close()

	entries := make([]models.HistoryEntry, 0)
	for rows.Next() {
		var (
			e      models.HistoryEntry
			thumb  sql.NullString
			malID  sql.NullInt64
			genres []string
		)
		ep := &e.Episode.Episode
		a := &e.Episode.Anime
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.EpisodeID, &e.WatchedAt,
			&ep.ID, &ep.AnimeID, &ep.Number, &ep.Title, &ep.VideoURL, &thumb,
			&a.ID, &malID, &a.Title, &a.Description, &a.CoverURL, &a.Rating, pq.Array(&genres),
		); err != nil {
			return nil, fmt.Errorf("failed to scan watch history row: %w", err)
		}
		if thumb.Valid {
			ep.ThumbnailURL = &thumb.String
		}
		if malID.Valid {
			v := int(malID.Int64)
			a.MALId = &v
		}
		if genres == nil {
			genres = []string{}
		}
		a.Genres = genres
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
