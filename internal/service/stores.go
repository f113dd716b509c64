package service

import (
	"context"

	"anime-catalog-service/internal/models"
)

// AnimeStore persists titles and episodes.
type AnimeStore interface {
	ListAnimes(ctx context.Context) ([]models.Anime, error)
	CountAnimes(ctx context.Context) (int, error)
	GetAnime(ctx context.Context, id int) (*models.AnimeDetail, error)
	GetAnimeByMALId(ctx context.Context, malID int) (*models.Anime, error)
	GetEpisode(ctx context.Context, id int) (*models.Episode, error)
	CreateAnimeWithEpisode(ctx context.Context, in models.AnimeInput, ep models.EpisodeInput) (*models.Anime, error)
	DeleteAnime(ctx context.Context, id int) error
}

// MetadataImporter resolves an external catalog id into a title payload.
type MetadataImporter interface {
	FetchAnime(ctx context.Context, malID int) (*models.AnimeInput, error)
}

// HistoryStore persists watch history rows.
type HistoryStore interface {
	UpsertWatch(ctx context.Context, userID, episodeID int, watchedAt string) (*models.WatchHistory, error)
	ListByUser(ctx context.Context, userID int) ([]models.HistoryEntry, error)
}

// UserStore persists user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, username, password string) (*models.User, error)
	GetUser(ctx context.Context, id int) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}
