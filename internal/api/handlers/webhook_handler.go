package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	config "github.com/maheshrc27/instaflow/configs"
	"github.com/maheshrc27/instaflow/internal/queue"
	"github.com/maheshrc27/instaflow/internal/transfer"
)

type WebhookHandler struct {
	cfg      config.Config
	enqueuer queue.Enqueuer
}

func NewWebhookHandler(cfg config.Config, enqueuer queue.Enqueuer) *WebhookHandler {
	return &WebhookHandler{
		cfg:      cfg,
		enqueuer: enqueuer,
	}
}

// Verify answers the GET handshake Meta performs when the webhook is
// registered. A request without mode or token gets a 400 instead of being
// left unanswered.
func (h *WebhookHandler) Verify(c *fiber.Ctx) error {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "" || token == "" {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	if mode == "subscribe" && token == h.cfg.VerifyToken {
		slog.Info("webhook verified")
		return c.Status(fiber.StatusOK).SendString(challenge)
	}

	return c.SendStatus(fiber.StatusForbidden)
}

// Receive acknowledges event deliveries. Payloads for the wrong platform
// are rejected; everything else is acknowledged immediately and processed
// off the request path.
func (h *WebhookHandler) Receive(c *fiber.Ctx) error {
	var payload transfer.WebhookPayload
	if err := c.BodyParser(&payload); err != nil {
		slog.Info(err.Error())
		return c.SendStatus(fiber.StatusBadRequest)
	}

	if payload.Object != "instagram" {
		return c.SendStatus(fiber.StatusNotFound)
	}

	if err := h.enqueuer.EnqueueWebhookEvent(payload); err != nil {
		// Delivery is acknowledged regardless; Meta retries on non-2xx and
		// the event is already logged here.
		slog.Error("failed to queue webhook event", "error", err)
	}

	return c.SendStatus(fiber.StatusOK)
}
