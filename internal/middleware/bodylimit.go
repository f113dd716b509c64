package middleware

import (
	"github.com/gofiber/fiber/v3"
)

// BodyLimit rejects request bodies larger than maxBytes with 413.
//
// The app runs with StreamRequestBody, so fasthttp hands oversized bodies to
// handlers as a stream instead of refusing them. Routes selected by skip
// (uploads) read that stream themselves; every other route is cut off here.
func BodyLimit(maxBytes int, skip func(c fiber.Ctx) bool) fiber.Handler {
	return func(c fiber.Ctx) error {
		if skip != nil && skip(c) {
			return c.Next()
		}

		req := c.Request()
		if req.IsBodyStream() || req.Header.ContentLength() > maxBytes {
			return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
				"message": "Request body too large",
			})
		}
		return c.Next()
	}
}
