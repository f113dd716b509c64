package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anime-catalog-service/internal/models"
)

func TestSeeder_ImportsSequentiallyAndSkipsFailures(t *testing.T) {
	svc, store, importer := setupCatalog(t, 30, 38000, 40748)
	seeder := NewSeeder(svc, []int{30, 50059, 38000, 40748}, 0)

	report, err := seeder.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, SeedReport{Imported: 3, Skipped: 1}, report)
	assert.Equal(t, []int{30, 50059, 38000, 40748}, importer.calls)

	animes, err := svc.ListAnimes(context.Background())
	require.NoError(t, err)
	require.Len(t, animes, 3)
	for _, a := range animes {
		assert.Equal(t, 1, store.episodeCount(a.ID))
	}
}

func TestSeeder_SkipsPopulatedCatalog(t *testing.T) {
	svc, _, importer := setupCatalog(t, 30)
	_, err := svc.CreateManual(context.Background(), models.ManualAnimeRequest{
		Title: "T", VideoURL: "http://x/v.mp4", Password: adminPassword,
	})
	require.NoError(t, err)

	report, err := NewSeeder(svc, []int{30}, 0).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, SeedReport{}, report)
	assert.Equal(t, 0, importer.callCount())
}

func TestSeeder_SkipsDuplicateIDs(t *testing.T) {
	svc, _, importer := setupCatalog(t, 30)

	report, err := NewSeeder(svc, []int{30, 30}, 0).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, SeedReport{Imported: 1, Skipped: 1}, report)
	assert.Equal(t, 1, importer.callCount())
}

func TestSeeder_PacesCalls(t *testing.T) {
	svc, _, _ := setupCatalog(t, 1, 2, 3)
	interval := 40 * time.Millisecond

	start := time.Now()
	report, err := NewSeeder(svc, []int{1, 2, 3}, interval).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, report.Imported)
	// first call is immediate, the next two each wait one interval
	assert.GreaterOrEqual(t, time.Since(start), 2*interval-5*time.Millisecond)
}

func TestSeeder_StopsOnCancel(t *testing.T) {
	svc, _, importer := setupCatalog(t, 1, 2, 3)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSeeder(svc, []int{1, 2, 3}, time.Hour).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, importer.callCount())
}

func TestSeeder_CountFailure(t *testing.T) {
	svc, store, _ := setupCatalog(t, 1)
	store.failWith = errStoreDown

	_, err := NewSeeder(svc, []int{1}, 0).Run(context.Background())
	assert.ErrorIs(t, err, errStoreDown)
}
