package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"anime-catalog-service/internal/service"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Message string `json:"message"`
}

func writeError(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(ErrorResponse{Message: message})
}

// serviceError maps service sentinels onto status codes. notFound is the
// message used for 404s; anything unrecognised is logged and becomes a 500.
func serviceError(c fiber.Ctx, err error, notFound string) error {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		return writeError(c, fiber.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, notFound)
	case errors.Is(err, service.ErrInvalidExternalID):
		return writeError(c, fiber.StatusBadRequest, "Invalid MAL ID")
	case errors.Is(err, service.ErrDuplicateExternalID):
		return writeError(c, fiber.StatusConflict, "Anime already exists")
	case errors.Is(err, service.ErrInvalidInput):
		return writeError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		return writeError(c, fiber.StatusUnauthorized, "Invalid username or password")
	case errors.Is(err, service.ErrUnauthenticated):
		return writeError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	slog.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
	return writeError(c, fiber.StatusInternalServerError, "Internal Server Error")
}

func isUnauthorized(err error) bool {
	return errors.Is(err, service.ErrUnauthorized)
}

// bindJSON decodes the request body into out. An empty body leaves out untouched.
func bindJSON(c fiber.Ctx, out any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	return c.Bind().JSON(out)
}

// ErrorHandler answers errors that escaped a handler.
func ErrorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}
	if code >= fiber.StatusInternalServerError {
		slog.Error("unhandled error", "error", err, "status", code)
	}
	return c.Status(code).JSON(ErrorResponse{Message: message})
}
