package service

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"time"

	config "github.com/maheshrc27/instaflow/configs"
	"github.com/maheshrc27/instaflow/internal/graph"
	"github.com/maheshrc27/instaflow/internal/models"
	"github.com/maheshrc27/instaflow/internal/transfer"
)

const (
	containerStatusFinished   = "FINISHED"
	containerStatusInProgress = "IN_PROGRESS"
	containerStatusError      = "ERROR"
	containerStatusExpired    = "EXPIRED"
)

type InstagramService interface {
	PostToFeed(ctx context.Context, account *models.Account, imageURL, caption string) (string, error)
	PostStory(ctx context.Context, account *models.Account, imageURL string) (string, error)
	ListPosts(ctx context.Context, account *models.Account) ([]transfer.MediaItem, error)
	Comment(ctx context.Context, account *models.Account, mediaID, text string) (string, error)
	ResolveBusinessAccount(ctx context.Context, pageID, pageToken string) (string, error)
}

type instagramService struct {
	cfg config.Config
	fb  *graph.Client
	ig  *graph.Client

	pollMaxAttempts  int
	pollInitialDelay time.Duration
}

func NewInstagramService(cfg config.Config, fb, ig *graph.Client) InstagramService {
	return &instagramService{
		cfg:              cfg,
		fb:               fb,
		ig:               ig,
		pollMaxAttempts:  5,
		pollInitialDelay: time.Second,
	}
}

// client picks the Graph host matching how the account was authorized.
func (s *instagramService) client(account *models.Account) *graph.Client {
	if account.Variant == models.VariantDirect {
		return s.ig
	}
	return s.fb
}

func (s *instagramService) PostToFeed(ctx context.Context, account *models.Account, imageURL, caption string) (string, error) {
	return s.publish(ctx, account, url.Values{
		"image_url": {imageURL},
		"caption":   {caption},
	})
}

func (s *instagramService) PostStory(ctx context.Context, account *models.Account, imageURL string) (string, error) {
	return s.publish(ctx, account, url.Values{
		"image_url":  {imageURL},
		"media_type": {"STORIES"},
	})
}

// publish runs the container pipeline: create the container, poll its status
// until the remote side finished fetching the media, then issue the publish
// call with the container id.
func (s *instagramService) publish(ctx context.Context, account *models.Account, containerParams url.Values) (string, error) {
	igAccountID, err := s.publishTarget(ctx, account)
	if err != nil {
		return "", &PublishError{Stage: "resolve_account", Err: err}
	}

	client := s.client(account)

	containerParams.Set("access_token", account.Credential.Token)

	var container transfer.CreatedResource
	if err := client.Post(ctx, igAccountID+"/media", containerParams, nil, &container); err != nil {
		return "", &PublishError{Stage: "container", Err: err}
	}
	if container.ID == "" {
		return "", &PublishError{Stage: "container", Err: ErrNoMediaReturned}
	}
	slog.Info("media container created", "container_id", container.ID)

	if err := s.waitForContainer(ctx, client, container.ID, account.Credential.Token); err != nil {
		return "", err
	}

	publishParams := url.Values{}
	publishParams.Set("creation_id", container.ID)
	publishParams.Set("access_token", account.Credential.Token)

	var published transfer.CreatedResource
	if err := client.Post(ctx, igAccountID+"/media_publish", publishParams, nil, &published); err != nil {
		return "", &PublishError{Stage: "publish", Err: err}
	}
	if published.ID == "" {
		return "", &PublishError{Stage: "publish", Err: ErrNoMediaReturned}
	}

	slog.Info("media published", "media_id", published.ID)
	return published.ID, nil
}

// waitForContainer polls the container status with exponential backoff
// instead of a blind fixed sleep. Attempts are bounded; exhaustion surfaces
// ErrNotReadyTimeout.
func (s *instagramService) waitForContainer(ctx context.Context, client *graph.Client, containerID, token string) error {
	params := url.Values{}
	params.Set("fields", "status_code")
	params.Set("access_token", token)

	delay := s.pollInitialDelay
	for attempt := 0; attempt < s.pollMaxAttempts; attempt++ {
		var status transfer.ContainerStatusResponse
		if err := client.Get(ctx, containerID, params, &status); err != nil {
			// A transient upstream failure consumes an attempt instead of
			// aborting the poll.
			var upstreamErr *graph.UpstreamError
			if !errors.As(err, &upstreamErr) || !upstreamErr.IsTransient() {
				return &PublishError{Stage: "status", Err: err}
			}
			slog.Info("transient status check failure", "container_id", containerID, "status", upstreamErr.Status)
		} else {
			switch status.StatusCode {
			case containerStatusFinished:
				return nil
			case containerStatusError, containerStatusExpired:
				slog.Info("container processing failed", "container_id", containerID, "status", status.StatusCode)
				return &PublishError{Stage: "status", Err: ErrContainerFailed}
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}

	return &PublishError{Stage: "status", Err: ErrNotReadyTimeout}
}

func (s *instagramService) ListPosts(ctx context.Context, account *models.Account) ([]transfer.MediaItem, error) {
	igAccountID, err := s.publishTarget(ctx, account)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("fields", "id,caption,media_type,media_url,timestamp,permalink,like_count,comments_count")
	params.Set("access_token", account.Credential.Token)

	var media transfer.MediaListResponse
	if err := s.client(account).Get(ctx, igAccountID+"/media", params, &media); err != nil {
		return nil, err
	}
	if len(media.Data) == 0 {
		return nil, ErrNoPostsAvailable
	}

	slog.Info("retrieved instagram posts", "count", len(media.Data))
	return media.Data, nil
}

func (s *instagramService) Comment(ctx context.Context, account *models.Account, mediaID, text string) (string, error) {
	params := url.Values{}
	params.Set("message", text)
	params.Set("access_token", account.Credential.Token)

	var created transfer.CreatedResource
	if err := s.client(account).Post(ctx, mediaID+"/comments", params, nil, &created); err != nil {
		return "", err
	}

	slog.Info("comment posted", "comment_id", created.ID, "media_id", mediaID)
	return created.ID, nil
}

// ResolveBusinessAccount looks up the Instagram business account linked to
// a Facebook page.
func (s *instagramService) ResolveBusinessAccount(ctx context.Context, pageID, pageToken string) (string, error) {
	params := url.Values{}
	params.Set("fields", "instagram_business_account")
	params.Set("access_token", pageToken)

	var resp transfer.BusinessAccountResponse
	if err := s.fb.Get(ctx, pageID, params, &resp); err != nil {
		return "", err
	}
	if resp.InstagramBusinessAccount.ID == "" {
		return "", ErrNoLinkedAccount
	}

	return resp.InstagramBusinessAccount.ID, nil
}

// publishTarget returns the id media calls are issued against, resolving the
// linked business account when a page credential arrives without one (the
// direct POST endpoints supply only the page id and token).
func (s *instagramService) publishTarget(ctx context.Context, account *models.Account) (string, error) {
	if account.Variant == models.VariantDirect || account.BusinessID != "" {
		return account.PublishTarget(), nil
	}

	return s.ResolveBusinessAccount(ctx, account.AssetID, account.Credential.Token)
}
