package handler

import (
	"github.com/gofiber/fiber/v3"

	"anime-catalog-service/internal/middleware"
	"anime-catalog-service/internal/models"
	"anime-catalog-service/internal/service"
	"anime-catalog-service/internal/validation"
)

var validate = validation.New()

// HistoryHandler handles watch history requests.
type HistoryHandler struct {
	svc *service.HistoryService
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(svc *service.HistoryService) *HistoryHandler {
	return &HistoryHandler{svc: svc}
}

// RecordWatch handles POST /api/history
// Anonymous callers get an empty list and nothing is stored.
func (h *HistoryHandler) RecordWatch(c fiber.Ctx) error {
	id := middleware.IdentityFrom(c)
	if id == nil {
		return c.JSON([]models.WatchHistory{})
	}

	var req models.RecordWatchRequest
	if err := bindJSON(c, &req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Validate(req); err != nil {
		return writeError(c, fiber.StatusBadRequest, err.Error())
	}

	entry, err := h.svc.RecordWatch(c.Context(), id, req.EpisodeID)
	if err != nil {
		return serviceError(c, err, "Episode not found")
	}
	return c.JSON(entry)
}

// GetHistory handles GET /api/history
func (h *HistoryHandler) GetHistory(c fiber.Ctx) error {
	entries, err := h.svc.GetHistory(c.Context(), middleware.IdentityFrom(c))
	if err != nil {
		return serviceError(c, err, "")
	}
	return c.JSON(entries)
}
