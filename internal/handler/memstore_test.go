package handler

import (
	"context"
	"sort"
	"sync"

	"anime-catalog-service/internal/jikan"
	"anime-catalog-service/internal/models"
	"anime-catalog-service/internal/repository"
)

// memDB backs the anime, history and user stores with cascading deletes.
type memDB struct {
	mu       sync.Mutex
	animes   map[int]models.Anime
	episodes map[int]models.Episode
	history  map[[2]int]*models.WatchHistory
	users    map[int]models.User
	seq      int
	writes   int
}

func newMemDB() *memDB {
	return &memDB{
		animes:   map[int]models.Anime{},
		episodes: map[int]models.Episode{},
		history:  map[[2]int]*models.WatchHistory{},
		users:    map[int]models.User{},
	}
}

func (m *memDB) next() int {
	m.seq++
	return m.seq
}

func (m *memDB) ListAnimes(ctx context.Context) ([]models.Anime, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Anime, 0, len(m.animes))
	for _, a := range m.animes {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memDB) CountAnimes(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.animes), nil
}

func (m *memDB) GetAnime(ctx context.Context, id int) (*models.AnimeDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.animes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	d := &models.AnimeDetail{Anime: a, Episodes: []models.Episode{}}
	for _, ep := range m.episodes {
		if ep.AnimeID == id {
			d.Episodes = append(d.Episodes, ep)
		}
	}
	return d, nil
}

func (m *memDB) GetAnimeByMALId(ctx context.Context, malID int) (*models.Anime, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.animes {
		if a.MALId != nil && *a.MALId == malID {
			return &a, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memDB) GetEpisode(ctx context.Context, id int) (*models.Episode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ep, ok := m.episodes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &ep, nil
}

func (m *memDB) CreateAnimeWithEpisode(ctx context.Context, in models.AnimeInput, ep models.EpisodeInput) (*models.Anime, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	genres := in.Genres
	if genres == nil {
		genres = []string{}
	}
	a := models.Anime{
		ID: m.next(), MALId: in.MALId, Title: in.Title, Description: in.Description,
		CoverURL: in.CoverURL, Rating: in.Rating, Genres: genres,
	}
	m.animes[a.ID] = a
	epID := m.next()
	m.episodes[epID] = models.Episode{
		ID: epID, AnimeID: a.ID, Number: ep.Number, Title: ep.Title,
		VideoURL: ep.VideoURL, ThumbnailURL: ep.ThumbnailURL,
	}
	return &a, nil
}

func (m *memDB) DeleteAnime(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.animes[id]; !ok {
		return repository.ErrNotFound
	}
	m.writes++
	for epID, ep := range m.episodes {
		if ep.AnimeID != id {
			continue
		}
		for key := range m.history {
			if key[1] == epID {
				delete(m.history, key)
			}
		}
		delete(m.episodes, epID)
	}
	delete(m.animes, id)
	return nil
}

func (m *memDB) UpsertWatch(ctx context.Context, userID, episodeID int, watchedAt string) (*models.WatchHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[userID]; !ok {
		return nil, repository.ErrUnknownUser
	}
	if _, ok := m.episodes[episodeID]; !ok {
		return nil, repository.ErrForeignKey
	}
	key := [2]int{userID, episodeID}
	row, ok := m.history[key]
	if !ok {
		row = &models.WatchHistory{ID: m.next(), UserID: userID, EpisodeID: episodeID}
		m.history[key] = row
	}
	row.WatchedAt = watchedAt
	out := *row
	return &out, nil
}

func (m *memDB) ListByUser(ctx context.Context, userID int) ([]models.HistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.HistoryEntry{}
	for key, row := range m.history {
		if key[0] != userID {
			continue
		}
		ep := m.episodes[row.EpisodeID]
		out = append(out, models.HistoryEntry{
			WatchHistory: *row,
			Episode:      models.EpisodeWithAnime{Episode: ep, Anime: m.animes[ep.AnimeID]},
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WatchedAt > out[j].WatchedAt })
	return out, nil
}

func (m *memDB) CreateUser(ctx context.Context, username, password string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			return nil, repository.ErrConflict
		}
	}
	u := models.User{ID: m.next(), Username: username, Password: password}
	m.users[u.ID] = u
	return &u, nil
}

func (m *memDB) GetUser(ctx context.Context, id int) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (m *memDB) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memDB) writeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// stubImporter knows a fixed set of MAL ids.
type stubImporter map[int]string

func (s stubImporter) FetchAnime(ctx context.Context, malID int) (*models.AnimeInput, error) {
	title, ok := s[malID]
	if !ok {
		return nil, jikan.ErrUnavailable
	}
	id := malID
	return &models.AnimeInput{
		MALId:       &id,
		Title:       title,
		Description: "Synopsis",
		CoverURL:    "http://img/cover.jpg",
		Rating:      "8.35",
		Genres:      []string{"Action", "Drama"},
	}, nil
}
