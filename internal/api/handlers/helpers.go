package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/instaflow/internal/graph"
	"github.com/maheshrc27/instaflow/internal/service"
)

// handleServiceError classifies pipeline failures into client responses.
// Full upstream detail stays in the server log; clients get a minimal
// message instead of the raw provider body.
func handleServiceError(c *fiber.Ctx, err error) error {
	slog.Error("request failed", "path", c.Path(), "error", err)

	var upstreamErr *graph.UpstreamError
	if errors.As(err, &upstreamErr) {
		slog.Error("upstream response", "status", upstreamErr.Status, "fbtrace_id", upstreamErr.FbtraceID, "body", string(upstreamErr.Body))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"success": false,
			"error":   upstreamMessage(upstreamErr),
		})
	}

	switch {
	case errors.Is(err, service.ErrNotReadyTimeout):
		return c.Status(fiber.StatusGatewayTimeout).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	case errors.Is(err, service.ErrNoConversations),
		errors.Is(err, service.ErrNoRecipient),
		errors.Is(err, service.ErrNoPages),
		errors.Is(err, service.ErrNoLinkedAccount),
		errors.Is(err, service.ErrNoPostsAvailable):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	case errors.Is(err, service.ErrManyRecipients):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	case errors.Is(err, service.ErrUnknownFlow),
		errors.Is(err, service.ErrEmptyCode):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"error":   "something went wrong",
	})
}

func upstreamMessage(err *graph.UpstreamError) string {
	if err.Message != "" {
		return err.Message
	}
	return "provider rejected the request"
}

func validationError(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": message,
	})
}
