// Package jikan imports title metadata from the Jikan (MyAnimeList) REST API.
package jikan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"anime-catalog-service/internal/models"
)

// ErrUnavailable means the title could not be resolved: unknown id, non-2xx
// response, transport failure, or a malformed payload. Callers cannot tell these apart.
var ErrUnavailable = errors.New("jikan: anime unavailable")

// Client is the Jikan API client.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a new Jikan API client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// ---- Jikan Response Types ----

type animeResponse struct {
	Data *animeData `json:"data"`
}

type animeData struct {
	MALID        int      `json:"mal_id"`
	Title        string   `json:"title"`
	TitleEnglish *string  `json:"title_english"`
	Synopsis     *string  `json:"synopsis"`
	Score        *float64 `json:"score"`
	Images       images   `json:"images"`
	Genres       []genre  `json:"genres"`
}

type images struct {
	JPG struct {
		ImageURL      string `json:"image_url"`
		LargeImageURL string `json:"large_image_url"`
	} `json:"jpg"`
}

type genre struct {
	MALID int    `json:"mal_id"`
	Name  string `json:"name"`
}

// FetchAnime fetches a title by MAL id and maps it onto the local title shape.
func (c *Client) FetchAnime(ctx context.Context, malID int) (*models.AnimeInput, error) {
	if malID <= 0 {
		return nil, fmt.Errorf("%w: invalid id %d", ErrUnavailable, malID)
	}

	url := fmt.Sprintf("%s/anime/%d", c.baseURL, malID)
	slog.Debug("fetching Jikan anime", "mal_id", malID)

	resp, err := c.doGet(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result animeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: failed to decode anime response: %v", ErrUnavailable, err)
	}
	if result.Data == nil {
		return nil, fmt.Errorf("%w: empty payload for id %d", ErrUnavailable, malID)
	}

	return toAnimeInput(malID, result.Data), nil
}

func toAnimeInput(malID int, d *animeData) *models.AnimeInput {
	in := &models.AnimeInput{
		MALId:       &malID,
		Title:       d.Title,
		Description: models.MissingDescriptionText,
		CoverURL:    d.Images.JPG.LargeImageURL,
		Rating:      models.DefaultRating,
		Genres:      make([]string, 0, len(d.Genres)),
	}
	if d.TitleEnglish != nil && *d.TitleEnglish != "" {
		in.Title = *d.TitleEnglish
	}
	if d.Synopsis != nil && *d.Synopsis != "" {
		in.Description = *d.Synopsis
	}
	if d.Score != nil {
		in.Rating = strconv.FormatFloat(*d.Score, 'f', -1, 64)
	}
	for _, g := range d.Genres {
		in.Genres = append(in.Genres, g.Name)
	}
	return in
}

func (c *Client) doGet(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: HTTP request failed: %v", ErrUnavailable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return nil, fmt.Errorf("%w: Jikan API returned status %d: %s", ErrUnavailable, resp.StatusCode, string(body))
	}
	return resp, nil
}
