package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

type fakeMediaService struct {
	url string
	err error
}

func (f *fakeMediaService) Upload(ctx context.Context, file *multipart.FileHeader) (string, error) {
	return f.url, f.err
}

func newMediaApp(svc *fakeMediaService) *fiber.App {
	app := fiber.New()
	app.Post("/media/upload", NewMediaHandler(svc).Upload)
	return app
}

func TestMediaUploadMissingFile(t *testing.T) {
	app := newMediaApp(&fakeMediaService{})

	req := httptest.NewRequest("POST", "/media/upload", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestMediaUploadSuccess(t *testing.T) {
	app := newMediaApp(&fakeMediaService{url: "https://cdn.example.com/abc123"})

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "photo.jpg")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	part.Write([]byte{0xFF, 0xD8, 0xFF})
	writer.Close()

	req := httptest.NewRequest("POST", "/media/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var out struct {
		Success bool   `json:"success"`
		URL     string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !out.Success || out.URL != "https://cdn.example.com/abc123" {
		t.Errorf("out = %+v", out)
	}
}
