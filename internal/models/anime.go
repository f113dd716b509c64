package models

// Anime represents a catalog title stored in our database.
type Anime struct {
	ID          int      `json:"id"`
	MALId       *int     `json:"malId"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	CoverURL    string   `json:"coverUrl"`
	Rating      string   `json:"rating"`
	Genres      []string `json:"genres"`
}

// Episode is one playable unit of an Anime.
type Episode struct {
	ID           int     `json:"id"`
	AnimeID      int     `json:"animeId"`
	Number       int     `json:"number"`
	Title        string  `json:"title"`
	VideoURL     string  `json:"videoUrl"`
	ThumbnailURL *string `json:"thumbnailUrl"`
}

// AnimeDetail is the response shape for a title with its episodes.
type AnimeDetail struct {
	Anime
	Episodes []Episode `json:"episodes"`
}

// AnimeInput carries the fields needed to create an Anime row.
type AnimeInput struct {
	MALId       *int
	Title       string
	Description string
	CoverURL    string
	Rating      string
	Genres      []string
}

// EpisodeInput carries the fields needed to create an Episode row.
type EpisodeInput struct {
	Number       int
	Title        string
	VideoURL     string
	ThumbnailURL *string
}

// AddAnimeRequest is the request body for importing a title by MAL id.
type AddAnimeRequest struct {
	MALId    int    `json:"malId"`
	Password string `json:"password"`
}

// ManualAnimeRequest is the request body for a hand-authored title.
type ManualAnimeRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	CoverURL    string `json:"coverUrl"`
	Rating      string `json:"rating"`
	VideoURL    string `json:"videoUrl" validate:"required"`
	Password    string `json:"password"`
}

// DeleteAnimeRequest is the request body for removing a title.
type DeleteAnimeRequest struct {
	Password string `json:"password"`
}

const (
	DefaultRating          = "0.0"
	SeedEpisodeNumber      = 1
	SeedEpisodeTitle       = "1. Rész"
	PlaceholderVideoURL    = "https://www.w3schools.com/html/mov_bbb.mp4"
	MissingDescriptionText = "Nincs leírás magyar nyelven."
)
