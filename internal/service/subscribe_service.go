package service

import (
	"context"
	"log/slog"
	"net/url"

	config "github.com/maheshrc27/instaflow/configs"
	"github.com/maheshrc27/instaflow/internal/graph"
	"github.com/maheshrc27/instaflow/internal/transfer"
)

const subscribedFields = "messages,messaging_postbacks,messaging_optins,message_deliveries"

type SubscribeService interface {
	SubscribePage(ctx context.Context, pageID, pageToken string) error
}

type subscribeService struct {
	cfg config.Config
	fb  *graph.Client
}

func NewSubscribeService(cfg config.Config, fb *graph.Client) SubscribeService {
	return &subscribeService{
		cfg: cfg,
		fb:  fb,
	}
}

// SubscribePage subscribes the app to the page's webhook events so message
// deliveries start flowing to the webhook listener.
func (s *subscribeService) SubscribePage(ctx context.Context, pageID, pageToken string) error {
	params := url.Values{}
	params.Set("subscribed_fields", subscribedFields)
	params.Set("access_token", pageToken)

	var resp transfer.SubscribeResponse
	if err := s.fb.Post(ctx, pageID+"/subscribed_apps", params, nil, &resp); err != nil {
		return err
	}

	slog.Info("page subscribed", "page_id", pageID, "success", resp.Success)
	return nil
}
