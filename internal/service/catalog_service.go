package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"anime-catalog-service/internal/auth"
	"anime-catalog-service/internal/metrics"
	"anime-catalog-service/internal/models"
	"anime-catalog-service/internal/repository"
	"anime-catalog-service/internal/validation"
)

var validate = validation.New()

// CatalogService handles business logic for titles and episodes.
type CatalogService struct {
	store    AnimeStore
	importer MetadataImporter
	authz    auth.Authorizer
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(store AnimeStore, importer MetadataImporter, authz auth.Authorizer) *CatalogService {
	return &CatalogService{
		store:    store,
		importer: importer,
		authz:    authz,
	}
}

// ListAnimes returns every title.
func (s *CatalogService) ListAnimes(ctx context.Context) ([]models.Anime, error) {
	animes, err := s.store.ListAnimes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list animes: %w", err)
	}
	return animes, nil
}

// GetAnime returns a title with its episodes.
func (s *CatalogService) GetAnime(ctx context.Context, id int) (*models.AnimeDetail, error) {
	detail, err := s.store.GetAnime(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get anime: %w", err)
	}
	return detail, nil
}

// GetEpisode returns a single episode.
func (s *CatalogService) GetEpisode(ctx context.Context, id int) (*models.Episode, error) {
	ep, err := s.store.GetEpisode(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get episode: %w", err)
	}
	return ep, nil
}

// CreateFromExternal imports a title by MAL id and creates its seed episode.
func (s *CatalogService) CreateFromExternal(ctx context.Context, malID int, credential string) (*models.Anime, error) {
	if !s.authz.Authorize(credential) {
		return nil, ErrUnauthorized
	}
	return s.importTitle(ctx, malID, "admin")
}

// CreateManual creates a hand-authored title and its seed episode.
func (s *CatalogService) CreateManual(ctx context.Context, req models.ManualAnimeRequest) (*models.Anime, error) {
	if !s.authz.Authorize(req.Password) {
		return nil, ErrUnauthorized
	}
	if err := validate.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	rating := strings.TrimSpace(req.Rating)
	if rating == "" {
		rating = models.DefaultRating
	}

	anime, err := s.store.CreateAnimeWithEpisode(ctx,
		models.AnimeInput{
			MALId:       nil,
			Title:       req.Title,
			Description: req.Description,
			CoverURL:    req.CoverURL,
			Rating:      rating,
			Genres:      []string{},
		},
		models.EpisodeInput{
			Number:       models.SeedEpisodeNumber,
			Title:        models.SeedEpisodeTitle,
			VideoURL:     req.VideoURL,
			ThumbnailURL: nil,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create anime: %w", err)
	}

	slog.Info("created manual anime", "id", anime.ID, "title", anime.Title)
	return anime, nil
}

// DeleteAnime removes a title together with its episodes.
func (s *CatalogService) DeleteAnime(ctx context.Context, id int, credential string) error {
	if !s.authz.Authorize(credential) {
		return ErrUnauthorized
	}
	if id <= 0 {
		return ErrNotFound
	}

	if err := s.store.DeleteAnime(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete anime: %w", err)
	}

	slog.Info("deleted anime", "id", id)
	return nil
}

// importTitle fetches metadata for malID and stores it with a placeholder episode.
// source labels the import in metrics and logs.
func (s *CatalogService) importTitle(ctx context.Context, malID int, source string) (*models.Anime, error) {
	if malID <= 0 {
		metrics.Imports.WithLabelValues(source, "unavailable").Inc()
		return nil, ErrInvalidExternalID
	}

	if _, err := s.store.GetAnimeByMALId(ctx, malID); err == nil {
		metrics.Imports.WithLabelValues(source, "duplicate").Inc()
		return nil, ErrDuplicateExternalID
	} else if !errors.Is(err, repository.ErrNotFound) {
		metrics.Imports.WithLabelValues(source, "error").Inc()
		return nil, fmt.Errorf("failed to look up mal id %d: %w", malID, err)
	}

	input, err := s.importer.FetchAnime(ctx, malID)
	if err != nil {
		slog.Warn("metadata import failed", "mal_id", malID, "source", source, "error", err)
		metrics.Imports.WithLabelValues(source, "unavailable").Inc()
		return nil, ErrInvalidExternalID
	}

	anime, err := s.store.CreateAnimeWithEpisode(ctx, *input, models.EpisodeInput{
		Number:   models.SeedEpisodeNumber,
		Title:    models.SeedEpisodeTitle,
		VideoURL: models.PlaceholderVideoURL,
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			metrics.Imports.WithLabelValues(source, "duplicate").Inc()
			return nil, ErrDuplicateExternalID
		}
		metrics.Imports.WithLabelValues(source, "error").Inc()
		return nil, fmt.Errorf("failed to store imported anime: %w", err)
	}

	metrics.Imports.WithLabelValues(source, "created").Inc()
	slog.Info("imported anime", "id", anime.ID, "mal_id", malID, "title", anime.Title, "source", source)
	return anime, nil
}
