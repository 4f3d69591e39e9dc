package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	config "github.com/maheshrc27/instaflow/configs"
	"github.com/maheshrc27/instaflow/internal/models"
	"github.com/maheshrc27/instaflow/internal/service"
	"github.com/maheshrc27/instaflow/pkg/utils"
)

const (
	defaultFeedImageURL  = "https://images.unsplash.com/photo-1579546929518-9e396f3cc809?w=1080&h=1080&fit=crop"
	defaultStoryImageURL = "https://images.unsplash.com/photo-1579546929518-9e396f3cc809?w=1080&h=1920&fit=crop"
	defaultFeedCaption   = "Posted automatically via Instagram integration"
	defaultMessageText   = "Hello! This is an automated message from Instagram integration."
	defaultCommentText   = "Great post! 🔥"

	stateTokenDuration = 10 * time.Minute
)

// FlowHandler serves the per-flow OAuth login and callback endpoints. The
// callback runs the authorization pipeline and feeds its result straight
// into the flow's action within the same request.
type FlowHandler struct {
	cfg   config.Config
	oauth service.OAuthService
	ig    service.InstagramService
	msg   service.MessageService
	sub   service.SubscribeService
}

func NewFlowHandler(
	cfg config.Config,
	oauth service.OAuthService,
	ig service.InstagramService,
	msg service.MessageService,
	sub service.SubscribeService) *FlowHandler {
	return &FlowHandler{
		cfg:   cfg,
		oauth: oauth,
		ig:    ig,
		msg:   msg,
		sub:   sub,
	}
}

func (h *FlowHandler) Login(c *fiber.Ctx) error {
	flow := c.Params("flow")

	state, err := utils.GenerateStateToken(h.cfg.SecretKey, flow, stateTokenDuration)
	if err != nil {
		return handleServiceError(c, err)
	}

	authURL, err := h.oauth.LoginURL(flow, state)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Redirect(authURL)
}

func (h *FlowHandler) Callback(c *fiber.Ctx) error {
	flow := c.Params("flow")
	code := c.Query("code")
	state := c.Query("state")

	claims, err := utils.ValidateStateToken(h.cfg.SecretKey, state)
	if err != nil || claims.Flow != flow {
		return validationError(c, "Unable to validate state")
	}

	account, err := h.oauth.Authorize(c.Context(), code, flow)
	if err != nil {
		return handleServiceError(c, err)
	}

	switch flow {
	case service.FlowFeed:
		return h.feedCallback(c, account)
	case service.FlowStory:
		return h.storyCallback(c, account)
	case service.FlowMessage:
		return h.messageCallback(c, account)
	case service.FlowInsight:
		return h.insightCallback(c, account)
	case service.FlowSubscribe:
		return h.subscribeCallback(c, account)
	}

	return validationError(c, "Unknown flow")
}

func (h *FlowHandler) feedCallback(c *fiber.Ctx, account *models.Account) error {
	mediaID, err := h.ig.PostToFeed(c.Context(), account, defaultFeedImageURL, defaultFeedCaption)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":  true,
		"account":  account,
		"mediaId":  mediaID,
		"imageUrl": defaultFeedImageURL,
		"caption":  defaultFeedCaption,
		"message":  "Successfully posted to Instagram feed!",
	})
}

func (h *FlowHandler) storyCallback(c *fiber.Ctx, account *models.Account) error {
	storyID, err := h.ig.PostStory(c.Context(), account, defaultStoryImageURL)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":  true,
		"account":  account,
		"storyId":  storyID,
		"imageUrl": defaultStoryImageURL,
		"message":  "Successfully posted to Instagram Story!",
	})
}

func (h *FlowHandler) messageCallback(c *fiber.Ctx, account *models.Account) error {
	recipientID, err := h.msg.ResolveRecipient(c.Context(), account)
	if err != nil {
		return handleServiceError(c, err)
	}

	sent, err := h.msg.SendMessage(c.Context(), account, recipientID, defaultMessageText)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":     true,
		"account":     account,
		"recipientId": recipientID,
		"messageText": defaultMessageText,
		"data":        sent,
		"message":     "Message sent successfully!",
	})
}

func (h *FlowHandler) insightCallback(c *fiber.Ctx, account *models.Account) error {
	posts, err := h.ig.ListPosts(c.Context(), account)
	if err != nil {
		return handleServiceError(c, err)
	}

	firstPost := posts[0]
	commentID, err := h.ig.Comment(c.Context(), account, firstPost.ID, defaultCommentText)
	if err != nil {
		return handleServiceError(c, err)
	}

	if len(posts) > 5 {
		posts = posts[:5]
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":       true,
		"account":       account,
		"retrievedPost": firstPost,
		"comment": fiber.Map{
			"id":   commentID,
			"text": defaultCommentText,
		},
		"posts":   posts,
		"message": "Successfully retrieved Instagram posts and commented on the first post!",
	})
}

func (h *FlowHandler) subscribeCallback(c *fiber.Ctx, account *models.Account) error {
	err := h.sub.SubscribePage(c.Context(), account.AssetID, account.Credential.Token)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"account": account,
		"message": "Login success. Page subscribed.",
	})
}
