package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v3"

	"anime-catalog-service/internal/models"
	"anime-catalog-service/internal/service"
)

// AnimeHandler handles HTTP requests for the catalog.
type AnimeHandler struct {
	svc *service.CatalogService
}

// NewAnimeHandler creates a new AnimeHandler.
func NewAnimeHandler(svc *service.CatalogService) *AnimeHandler {
	return &AnimeHandler{svc: svc}
}

// ListAnimes handles GET /api/animes
func (h *AnimeHandler) ListAnimes(c fiber.Ctx) error {
	animes, err := h.svc.ListAnimes(c.Context())
	if err != nil {
		return serviceError(c, err, "")
	}
	return c.JSON(animes)
}

// GetAnime handles GET /api/animes/:id
func (h *AnimeHandler) GetAnime(c fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "Invalid anime ID")
	}

	detail, err := h.svc.GetAnime(c.Context(), id)
	if err != nil {
		return serviceError(c, err, "Anime not found")
	}
	return c.JSON(detail)
}

// GetEpisode handles GET /api/episodes/:id
func (h *AnimeHandler) GetEpisode(c fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "Invalid episode ID")
	}

	ep, err := h.svc.GetEpisode(c.Context(), id)
	if err != nil {
		return serviceError(c, err, "Episode not found")
	}
	return c.JSON(ep)
}

// AddAnime handles POST /api/admin/anime
func (h *AnimeHandler) AddAnime(c fiber.Ctx) error {
	var req models.AddAnimeRequest
	if err := bindJSON(c, &req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	anime, err := h.svc.CreateFromExternal(c.Context(), req.MALId, req.Password)
	if err != nil {
		return serviceError(c, err, "")
	}
	return c.Status(fiber.StatusCreated).JSON(anime)
}

// AddManualAnime handles POST /api/admin/anime/manual
func (h *AnimeHandler) AddManualAnime(c fiber.Ctx) error {
	var req models.ManualAnimeRequest
	if err := bindJSON(c, &req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	anime, err := h.svc.CreateManual(c.Context(), req)
	if err != nil {
		return serviceError(c, err, "")
	}
	return c.Status(fiber.StatusCreated).JSON(anime)
}

// DeleteAnime handles DELETE /api/admin/anime/:id
func (h *AnimeHandler) DeleteAnime(c fiber.Ctx) error {
	var req models.DeleteAnimeRequest
	if err := bindJSON(c, &req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	// Credential first: a wrong password must not reveal whether the id exists.
	id, idErr := pathID(c)

	err := h.svc.DeleteAnime(c.Context(), id, req.Password)
	switch {
	case err == nil:
		return c.JSON(fiber.Map{"success": true})
	case idErr != nil && !isUnauthorized(err):
		return writeError(c, fiber.StatusBadRequest, "Invalid anime ID")
	default:
		return serviceError(c, err, "Anime not found")
	}
}

// Health handles GET /health
func Health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "anime-catalog-service",
	})
}

func pathID(c fiber.Ctx) (int, error) {
	return strconv.Atoi(c.Params("id"))
}
