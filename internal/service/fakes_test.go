package service

import (
	"context"
	"errors"
	"sort"
	"sync"

	"anime-catalog-service/internal/jikan"
	"anime-catalog-service/internal/models"
	"anime-catalog-service/internal/repository"
)

// memAnimeStore is an in-memory AnimeStore with the same constraint behaviour as Postgres.
type memAnimeStore struct {
	mu        sync.Mutex
	animes    map[int]models.Anime
	episodes  map[int]models.Episode
	nextAnime int
	nextEp    int
	writes    int
	failWith  error
}

func newMemAnimeStore() *memAnimeStore {
	return &memAnimeStore{
		animes:   map[int]models.Anime{},
		episodes: map[int]models.Episode{},
	}
}

func (m *memAnimeStore) ListAnimes(ctx context.Context) ([]models.Anime, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	out := make([]models.Anime, 0, len(m.animes))
	for _, a := range m.animes {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memAnimeStore) CountAnimes(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return 0, m.failWith
	}
	return len(m.animes), nil
}

func (m *memAnimeStore) GetAnime(ctx context.Context, id int) (*models.AnimeDetail, error) {
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
	sort.Slice(d.Episodes, func(i, j int) bool { return d.Episodes[i].Number < d.Episodes[j].Number })
	return d, nil
}

func (m *memAnimeStore) GetAnimeByMALId(ctx context.Context, malID int) (*models.Anime, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	for _, a := range m.animes {
		if a.MALId != nil && *a.MALId == malID {
			return &a, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memAnimeStore) GetEpisode(ctx context.Context, id int) (*models.Episode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ep, ok := m.episodes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &ep, nil
}

func (m *memAnimeStore) CreateAnimeWithEpisode(ctx context.Context, in models.AnimeInput, ep models.EpisodeInput) (*models.Anime, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	if in.MALId != nil {
		for _, a := range m.animes {
			if a.MALId != nil && *a.MALId == *in.MALId {
				return nil, repository.ErrConflict
			}
		}
	}
	m.nextAnime++
	m.nextEp++
	m.writes++
	genres := in.Genres
	if genres == nil {
		genres = []string{}
	}
	a := models.Anime{
		ID:          m.nextAnime,
		MALId:       in.MALId,
		Title:       in.Title,
		Description: in.Description,
		CoverURL:    in.CoverURL,
		Rating:      in.Rating,
		Genres:      genres,
	}
	m.animes[a.ID] = a
	m.episodes[m.nextEp] = models.Episode{
		ID:           m.nextEp,
		AnimeID:      a.ID,
		Number:       ep.Number,
		Title:        ep.Title,
		VideoURL:     ep.VideoURL,
		ThumbnailURL: ep.ThumbnailURL,
	}
	return &a, nil
}

func (m *memAnimeStore) DeleteAnime(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	if _, ok := m.animes[id]; !ok {
		return repository.ErrNotFound
	}
	m.writes++
	for epID, ep := range m.episodes {
		if ep.AnimeID == id {
			delete(m.episodes, epID)
		}
	}
	delete(m.animes, id)
	return nil
}

func (m *memAnimeStore) episodeCount(animeID int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, ep := range m.episodes {
		if ep.AnimeID == animeID {
			n++
		}
	}
	return n
}

// fakeImporter resolves ids from a fixed table and records every call.
type fakeImporter struct {
	mu     sync.Mutex
	titles map[int]models.AnimeInput
	calls  []int
}

func newFakeImporter(ids ...int) *fakeImporter {
	f := &fakeImporter{titles: map[int]models.AnimeInput{}}
	for _, id := range ids {
		f.titles[id] = models.AnimeInput{
			MALId:       &id,
			Title:       "Title",
			Description: "Synopsis",
			CoverURL:    "http://img/cover.jpg",
			Rating:      "8.5",
			Genres:      []string{"Action"},
		}
	}
	return f
}

func (f *fakeImporter) FetchAnime(ctx context.Context, malID int) (*models.AnimeInput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, malID)
	in, ok := f.titles[malID]
	if !ok {
		return nil, jikan.ErrUnavailable
	}
	return &in, nil
}

func (f *fakeImporter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// memHistoryStore is an in-memory HistoryStore keyed by (user, episode).
type memHistoryStore struct {
	mu       sync.Mutex
	rows     map[[2]int]*models.WatchHistory
	episodes map[int]models.EpisodeWithAnime
	users    map[int]bool // nil accepts every user id
	nextID   int
}

func newMemHistoryStore(episodes ...models.EpisodeWithAnime) *memHistoryStore {
	s := &memHistoryStore{
		rows:     map[[2]int]*models.WatchHistory{},
		episodes: map[int]models.EpisodeWithAnime{},
	}
	for _, ep := range episodes {
		s.episodes[ep.ID] = ep
	}
	return s
}

func (s *memHistoryStore) UpsertWatch(ctx context.Context, userID, episodeID int, watchedAt string) (*models.WatchHistory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.users != nil && !s.users[userID] {
		return nil, repository.ErrUnknownUser
	}
	if _, ok := s.episodes[episodeID]; !ok {
		return nil, repository.ErrForeignKey
	}
	key := [2]int{userID, episodeID}
	if row, ok := s.rows[key]; ok {
		row.WatchedAt = watchedAt
		out := *row
		return &out, nil
	}
	s.nextID++
	row := &models.WatchHistory{ID: s.nextID, UserID: userID, EpisodeID: episodeID, WatchedAt: watchedAt}
	s.rows[key] = row
	out := *row
	return &out, nil
}

func (s *memHistoryStore) ListByUser(ctx context.Context, userID int) ([]models.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.HistoryEntry
	for key, row := range s.rows {
		if key[0] != userID {
			continue
		}
		out = append(out, models.HistoryEntry{WatchHistory: *row, Episode: s.episodes[row.EpisodeID]})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].WatchedAt != out[j].WatchedAt {
			return out[i].WatchedAt > out[j].WatchedAt
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *memHistoryStore) rowsFor(userID, episodeID int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for key := range s.rows {
		if key == [2]int{userID, episodeID} {
			n++
		}
	}
	return n
}

// memUserStore is an in-memory UserStore.
type memUserStore struct {
	mu     sync.Mutex
	users  map[int]models.User
	nextID int
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: map[int]models.User{}}
}

func (s *memUserStore) CreateUser(ctx context.Context, username, password string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			return nil, repository.ErrConflict
		}
	}
	s.nextID++
	u := models.User{ID: s.nextID, Username: username, Password: password}
	s.users[u.ID] = u
	return &u, nil
}

func (s *memUserStore) GetUser(ctx context.Context, id int) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (s *memUserStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

var errStoreDown = errors.New("store unavailable")
