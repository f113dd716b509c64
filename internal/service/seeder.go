package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

// SeedReport summarises a seeding run.
type SeedReport struct {
	Imported int
	Skipped  int
}

// Seeder imports a fixed list of MAL ids into an empty catalog, one at a time.
type Seeder struct {
	catalog *CatalogService
	malIDs  []int
	limiter *rate.Limiter
}

// NewSeeder creates a Seeder that makes at most one import call per interval.
func NewSeeder(catalog *CatalogService, malIDs []int, interval time.Duration) *Seeder {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Seeder{
		catalog: catalog,
		malIDs:  malIDs,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Run seeds the catalog if it holds no titles. Individual failures are logged
// and skipped. It returns early with ctx's error when ctx is cancelled.
func (s *Seeder) Run(ctx context.Context) (SeedReport, error) {
	var report SeedReport

	n, err := s.catalog.store.CountAnimes(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to count animes: %w", err)
	}
	if n > 0 {
		slog.Info("catalog already populated, skipping seed", "animes", n)
		return report, nil
	}

	slog.Info("seeding catalog", "mal_ids", len(s.malIDs))
	for _, malID := range s.malIDs {
		if err := s.limiter.Wait(ctx); err != nil {
			return report, err
		}

		anime, err := s.catalog.importTitle(ctx, malID, "seed")
		if err != nil {
			if ctx.Err() != nil {
				return report, ctx.Err()
			}
			slog.Error("failed to seed anime", "mal_id", malID, "error", err)
			report.Skipped++
			continue
		}
		slog.Debug("seeded anime", "mal_id", malID, "id", anime.ID)
		report.Imported++
	}

	slog.Info("catalog seed completed", "imported", report.Imported, "skipped", report.Skipped)
	return report, nil
}
