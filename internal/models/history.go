package models

// User represents an account that can record watch history.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Password string `json:"-"`
}

// WatchHistory records the last time a user started an episode.
type WatchHistory struct {
	ID        int    `json:"id"`
	UserID    int    `json:"userId"`
	EpisodeID int    `json:"episodeId"`
	WatchedAt string `json:"watchedAt"`
}

// EpisodeWithAnime is an episode joined with its owning title.
type EpisodeWithAnime struct {
	Episode
	Anime Anime `json:"anime"`
}

// HistoryEntry is a watch history row joined with its episode and title.
type HistoryEntry struct {
	WatchHistory
	Episode EpisodeWithAnime `json:"episode"`
}

// RecordWatchRequest is the request body for recording playback.
type RecordWatchRequest struct {
	EpisodeID int `json:"episodeId" validate:"required,gt=0"`
}

// LoginRequest is the request body for obtaining a user token.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
	User      User   `json:"user"`
}

// UploadURLRequest is the request body for reserving an upload slot.
// Name, Size and ContentType are what the admin web client sends; Filename
// wins over Name when both are present.
type UploadURLRequest struct {
	Filename    string `json:"filename"`
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType"`
	Password    string `json:"password"`
}

// ObjectName is the client-side file name used to pick the object extension.
func (r UploadURLRequest) ObjectName() string {
	if r.Filename != "" {
		return r.Filename
	}
	return r.Name
}

// UploadURLResponse tells the client where to PUT the file and how it will be served.
type UploadURLResponse struct {
	UploadURL string `json:"uploadURL"`
	PublicURL string `json:"publicUrl"`
}

// WatchedAtLayout is the ISO-8601 form stored in watch_history.watched_at.
const WatchedAtLayout = "2006-01-02T15:04:05.000Z"
