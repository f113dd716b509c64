package handler

import (
	"bytes"
	"errors"
	"io"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"anime-catalog-service/internal/auth"
	"anime-catalog-service/internal/models"
	"anime-catalog-service/internal/storage"
)

// UploadHandler issues signed upload URLs and accepts the uploads.
type UploadHandler struct {
	store *storage.LocalStore
	authz auth.Authorizer
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(store *storage.LocalStore, authz auth.Authorizer) *UploadHandler {
	return &UploadHandler{store: store, authz: authz}
}

// RequestURL handles POST /api/uploads/request-url
func (h *UploadHandler) RequestURL(c fiber.Ctx) error {
	var req models.UploadURLRequest
	if err := bindJSON(c, &req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if !h.authz.Authorize(req.Password) {
		return writeError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	if limit := h.store.MaxBytes(); limit > 0 && req.Size > limit {
		return writeError(c, fiber.StatusRequestEntityTooLarge, "File too large")
	}

	return c.JSON(h.store.RequestUpload(req.ObjectName()))
}

// Upload handles PUT /api/uploads/:key
func (h *UploadHandler) Upload(c fiber.Ctx) error {
	key := c.Params("key")
	if err := h.store.Verify(key, c.Query("expires"), c.Query("sig")); err != nil {
		if errors.Is(err, storage.ErrInvalidKey) {
			return writeError(c, fiber.StatusBadRequest, "Invalid upload key")
		}
		return writeError(c, fiber.StatusForbidden, "Upload URL is invalid or expired")
	}

	req := c.Request()
	if limit := h.store.MaxBytes(); limit > 0 && int64(req.Header.ContentLength()) > limit {
		return writeError(c, fiber.StatusRequestEntityTooLarge, "File too large")
	}

	var body io.Reader
	if req.IsBodyStream() {
		body = req.BodyStream()
	} else {
		body = bytes.NewReader(req.Body())
	}

	n, err := h.store.Put(key, body)
	if err != nil {
		if errors.Is(err, storage.ErrTooLarge) {
			return writeError(c, fiber.StatusRequestEntityTooLarge, "File too large")
		}
		slog.Error("failed to store upload", "key", key, "error", err)
		return writeError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	slog.Info("stored upload", "key", key, "bytes", n)
	return c.JSON(fiber.Map{"publicUrl": h.store.PublicURL(key)})
}
