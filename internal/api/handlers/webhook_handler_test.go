package handlers

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	config "github.com/maheshrc27/instaflow/configs"
	"github.com/maheshrc27/instaflow/internal/transfer"
)

var errQueueDown = errors.New("queue down")

type fakeEnqueuer struct {
	events []transfer.WebhookPayload
	err    error
}

func (f *fakeEnqueuer) EnqueueWebhookEvent(payload transfer.WebhookPayload) error {
	f.events = append(f.events, payload)
	return f.err
}

func newWebhookApp(enqueuer *fakeEnqueuer) *fiber.App {
	cfg := config.Config{VerifyToken: "verify-secret"}
	h := NewWebhookHandler(cfg, enqueuer)

	app := fiber.New()
	app.Get("/webhook", h.Verify)
	app.Post("/webhook", h.Receive)
	return app
}

func TestWebhookVerifySuccess(t *testing.T) {
	app := newWebhookApp(&fakeEnqueuer{})

	req := httptest.NewRequest("GET", "/webhook?hub.mode=subscribe&hub.verify_token=verify-secret&hub.challenge=abc123", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	if string(body) != "abc123" {
		t.Errorf("body = %q, want abc123", body)
	}
}

func TestWebhookVerifyWrongToken(t *testing.T) {
	app := newWebhookApp(&fakeEnqueuer{})

	req := httptest.NewRequest("GET", "/webhook?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=abc123", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusForbidden {
		t.Errorf("status = %d, want 403", resp.StatusCode)
	}
}

func TestWebhookVerifyMissingParams(t *testing.T) {
	app := newWebhookApp(&fakeEnqueuer{})

	req := httptest.NewRequest("GET", "/webhook", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestWebhookVerifyWrongMode(t *testing.T) {
	app := newWebhookApp(&fakeEnqueuer{})

	req := httptest.NewRequest("GET", "/webhook?hub.mode=unsubscribe&hub.verify_token=verify-secret", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusForbidden {
		t.Errorf("status = %d, want 403", resp.StatusCode)
	}
}

func TestWebhookReceiveWrongObject(t *testing.T) {
	enqueuer := &fakeEnqueuer{}
	app := newWebhookApp(enqueuer)

	req := httptest.NewRequest("POST", "/webhook", strings.NewReader(`{"object":"facebook","entry":[]}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
	if len(enqueuer.events) != 0 {
		t.Errorf("events queued = %d, want 0", len(enqueuer.events))
	}
}

func TestWebhookReceiveAcknowledges(t *testing.T) {
	enqueuer := &fakeEnqueuer{}
	app := newWebhookApp(enqueuer)

	req := httptest.NewRequest("POST", "/webhook", strings.NewReader(`{"object":"instagram","entry":[]}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if len(enqueuer.events) != 1 {
		t.Fatalf("events queued = %d, want 1", len(enqueuer.events))
	}
	if enqueuer.events[0].Object != "instagram" {
		t.Errorf("queued object = %q", enqueuer.events[0].Object)
	}
}

func TestWebhookReceiveAcknowledgesEvenWhenQueueFails(t *testing.T) {
	enqueuer := &fakeEnqueuer{err: errQueueDown}
	app := newWebhookApp(enqueuer)

	req := httptest.NewRequest("POST", "/webhook", strings.NewReader(`{"object":"instagram","entry":[{"id":"e1"}]}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}
