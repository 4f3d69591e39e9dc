package handlers

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/instaflow/internal/models"
	"github.com/maheshrc27/instaflow/internal/service"
	"github.com/maheshrc27/instaflow/internal/transfer"
)

var imageURLPattern = regexp.MustCompile(`(?i)^https?://.+\.(jpg|jpeg|png)(\?.*)?$`)

// PublishHandler serves the direct POST endpoints that take caller-supplied
// page credentials and skip the browser OAuth step.
type PublishHandler struct {
	ig  service.InstagramService
	msg service.MessageService
}

func NewPublishHandler(ig service.InstagramService, msg service.MessageService) *PublishHandler {
	return &PublishHandler{
		ig:  ig,
		msg: msg,
	}
}

func pageAccount(pageID, pageToken string) *models.Account {
	return &models.Account{
		Variant: models.VariantPage,
		AssetID: pageID,
		Credential: models.Credential{
			Token:     pageToken,
			Kind:      models.TokenKindShortLived,
			SubjectID: pageID,
		},
	}
}

func validImageURL(imageURL string) bool {
	if imageURLPattern.MatchString(imageURL) {
		return true
	}
	return strings.Contains(imageURL, "unsplash.com") || strings.Contains(imageURL, "imgur.com")
}

func (h *PublishHandler) FeedPost(c *fiber.Ctx) error {
	var req transfer.FeedPostRequest
	if err := c.BodyParser(&req); err != nil {
		slog.Info(err.Error())
		return validationError(c, "Unable to parse request body")
	}

	if req.PageID == "" || req.PageToken == "" || req.ImageURL == "" {
		return validationError(c, "Missing required fields: pageId, pageToken, imageUrl")
	}

	if !validImageURL(req.ImageURL) {
		return validationError(c, "Image URL should end with .jpg, .jpeg, or .png, or use a trusted image service")
	}

	mediaID, err := h.ig.PostToFeed(c.Context(), pageAccount(req.PageID, req.PageToken), req.ImageURL, req.Caption)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"mediaId": mediaID,
		"message": "Successfully posted to Instagram feed!",
	})
}

func (h *PublishHandler) StoryPost(c *fiber.Ctx) error {
	var req transfer.StoryPostRequest
	if err := c.BodyParser(&req); err != nil {
		slog.Info(err.Error())
		return validationError(c, "Unable to parse request body")
	}

	if req.PageID == "" || req.PageToken == "" || req.ImageURL == "" {
		return validationError(c, "Missing required fields: pageId, pageToken, imageUrl")
	}

	storyID, err := h.ig.PostStory(c.Context(), pageAccount(req.PageID, req.PageToken), req.ImageURL)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"storyId": storyID,
		"message": "Successfully posted to Instagram Story!",
	})
}

func (h *PublishHandler) SendMessage(c *fiber.Ctx) error {
	var req transfer.SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		slog.Info(err.Error())
		return validationError(c, "Unable to parse request body")
	}

	if req.PageID == "" || req.PageToken == "" || req.RecipientID == "" || req.Text == "" {
		return validationError(c, "Missing required fields: pageId, pageToken, recipientId, text")
	}

	sent, err := h.msg.SendMessage(c.Context(), pageAccount(req.PageID, req.PageToken), req.RecipientID, req.Text)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    sent,
	})
}
