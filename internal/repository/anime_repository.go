package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"anime-catalog-service/internal/models"
)

const animeColumns = `a.id, a.mal_id, a.title, a.description, a.cover_url,
	COALESCE(a.rating, '0.0'), a.genres`

const episodeColumns = `e.id, e.anime_id, e.number, e.title, e.video_url, e.thumbnail_url`

// AnimeRepository handles database operations for titles and their episodes.
type AnimeRepository struct {
	db *sql.DB
}

// NewAnimeRepository creates a new AnimeRepository.
func NewAnimeRepository(db *sql.DB) *AnimeRepository {
	return &AnimeRepository{db: db}
}

// ListAnimes returns every title ordered by id.
func (r *AnimeRepository) ListAnimes(ctx context.Context) ([]models.Anime, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+animeColumns+` FROM animes a ORDER BY a.id`)
	if err != nil {
		return nil, fmt.Errorf("list query failed: %w", err)
	}
	defer rows.Close()

	animes := make([]models.Anime, 0)
	for rows.Next() {
		a, err := scanAnime(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan anime row: %w", err)
		}
		animes = append(animes, *a)
	}
	return animes, rows.Err()
}

// CountAnimes returns the number of stored titles.
func (r *AnimeRepository) CountAnimes(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM animes`).Scan(&n)
	return n, err
}

// GetAnime returns a title with its episodes ordered by number.
func (r *AnimeRepository) GetAnime(ctx context.Context, id int) (*models.AnimeDetail, error) {
	a, err := scanAnime(r.db.QueryRowContext(ctx,
		`SELECT `+animeColumns+` FROM animes a WHERE a.id = $1`, id))
	if err != nil {
		return nil, translate(err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+episodeColumns+`
		FROM episodes e
		WHERE e.anime_id = $1
		ORDER BY e.number, e.id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query episodes: %w", err)
	}
	defer rows.Close()

	detail := &models.AnimeDetail{Anime: *a, Episodes: make([]models.Episode, 0)}
	for rows.Next() {
		ep, err := scanEpisode(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan episode row: %w", err)
		}
		detail.Episodes = append(detail.Episodes, *ep)
	}
	return detail, rows.Err()
}

// GetAnimeByMALId returns the title imported from the given MAL id.
func (r *AnimeRepository) GetAnimeByMALId(ctx context.Context, malID int) (*models.Anime, error) {
	a, err := scanAnime(r.db.QueryRowContext(ctx,
		`SELECT `+animeColumns+` FROM animes a WHERE a.mal_id = $1`, malID))
	if err != nil {
		return nil, translate(err)
	}
	return a, nil
}

// GetEpisode returns a single episode.
func (r *AnimeRepository) GetEpisode(ctx context.Context, id int) (*models.Episode, error) {
	ep, err := scanEpisode(r.db.QueryRowContext(ctx,
		`SELECT `+episodeColumns+` FROM episodes e WHERE e.id = $1`, id))
	if err != nil {
		return nil, translate(err)
	}
	return ep, nil
}

// CreateAnimeWithEpisode inserts a title and its first episode in one transaction.
func (r *AnimeRepository) CreateAnimeWithEpisode(ctx context.Context, in models.AnimeInput, ep models.EpisodeInput) (*models.Anime, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	genres := in.Genres
	if genres == nil {
		genres = []string{}
	}

	a, err := scanAnime(tx.QueryRowContext(ctx, `
		INSERT INTO animes AS a (mal_id, title, description, cover_url, rating, genres)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+animeColumns,
		in.MALId, in.Title, in.Description, in.CoverURL, in.Rating, pq.Array(genres)))
	if err != nil {
		return nil, fmt.Errorf("failed to insert anime: %w", translate(err))
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO episodes (anime_id, number, title, video_url, thumbnail_url)
		VALUES ($1, $2, $3, $4, $5)
	`, a.ID, ep.Number, ep.Title, ep.VideoURL, ep.ThumbnailURL); err != nil {
		return nil, fmt.Errorf("failed to insert episode: %w", translate(err))
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}
	return a, nil
}

// DeleteAnime removes a title and all of its episodes in one transaction.
func (r *AnimeRepository) DeleteAnime(ctx context.Context, id int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM episodes WHERE anime_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete episodes: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM animes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete anime: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

func scanAnime(row rowScanner) (*models.Anime, error) {
	var (
		a      models.Anime
		malID  sql.NullInt64
		genres []string
	)
	if err := row.Scan(&a.ID, &malID, &a.Title, &a.Description, &a.CoverURL,
		&a.Rating, pq.Array(&genres)); err != nil {
		return nil, err
	}
	if malID.Valid {
		v := int(malID.Int64)
		a.MALId = &v
	}
	if genres == nil {
		genres = []string{}
	}
	a.Genres = genres
	return &a, nil
}

func scanEpisode(row rowScanner) (*models.Episode, error) {
	var (
		ep    models.Episode
		thumb sql.NullString
	)
	if err := row.Scan(&ep.ID, &ep.AnimeID, &ep.Number, &ep.Title, &ep.VideoURL, &thumb); err != nil {
		return nil, err
	}
	if thumb.Valid {
		ep.ThumbnailURL = &thumb.String
	}
	return &ep, nil
}
