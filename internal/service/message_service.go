package service

import (
	"context"
	"log/slog"
	"net/url"

	config "github.com/maheshrc27/instaflow/configs"
	"github.com/maheshrc27/instaflow/internal/graph"
	"github.com/maheshrc27/instaflow/internal/models"
	"github.com/maheshrc27/instaflow/internal/transfer"
)

type MessageService interface {
	ResolveRecipient(ctx context.Context, account *models.Account) (string, error)
	SendMessage(ctx context.Context, account *models.Account, recipientID, text string) (*transfer.SendMessageResponse, error)
}

type messageService struct {
	cfg config.Config
	fb  *graph.Client
	ig  *graph.Client
}

func NewMessageService(cfg config.Config, fb, ig *graph.Client) MessageService {
	return &messageService{
		cfg: cfg,
		fb:  fb,
		ig:  ig,
	}
}

func (s *messageService) client(account *models.Account) *graph.Client {
	if account.Variant == models.VariantDirect {
		return s.ig
	}
	return s.fb
}

// ResolveRecipient reads the most recent conversation thread and returns the
// participant that is not the authorized account. The upstream API does not
// guarantee participant ordering, so candidates are filtered by id and
// username rather than picked by position; anything other than exactly one
// candidate is an error.
func (s *messageService) ResolveRecipient(ctx context.Context, account *models.Account) (string, error) {
	client := s.client(account)

	convParams := url.Values{}
	convParams.Set("platform", "instagram")
	convParams.Set("access_token", account.Credential.Token)

	var conversations transfer.ConversationsResponse
	if err := client.Get(ctx, account.AssetID+"/conversations", convParams, &conversations); err != nil {
		return "", err
	}
	if len(conversations.Data) == 0 {
		return "", ErrNoConversations
	}

	threadID := conversations.Data[0].ID
	slog.Info("resolved conversation thread", "thread_id", threadID)

	partParams := url.Values{}
	partParams.Set("fields", "participants")
	partParams.Set("access_token", account.Credential.Token)

	var thread transfer.ParticipantsResponse
	if err := client.Get(ctx, threadID, partParams, &thread); err != nil {
		return "", err
	}

	var candidates []transfer.Participant
	for _, p := range thread.Participants.Data {
		if p.ID == account.AssetID || p.ID == account.BusinessID {
			continue
		}
		if account.Username != "" && p.Username == account.Username {
			continue
		}
		candidates = append(candidates, p)
	}

	if len(candidates) == 0 {
		return "", ErrNoRecipient
	}
	if len(candidates) > 1 {
		slog.Info("ambiguous recipient", "thread_id", threadID, "candidates", len(candidates))
		return "", ErrManyRecipients
	}

	slog.Info("resolved recipient", "recipient_id", candidates[0].ID)
	return candidates[0].ID, nil
}

func (s *messageService) SendMessage(ctx context.Context, account *models.Account, recipientID, text string) (*transfer.SendMessageResponse, error) {
	params := url.Values{}
	params.Set("access_token", account.Credential.Token)

	payload := map[string]interface{}{
		"recipient": map[string]string{"id": recipientID},
		"message":   map[string]string{"text": text},
	}

	var sent transfer.SendMessageResponse
	if err := s.client(account).Post(ctx, account.AssetID+"/messages", params, payload, &sent); err != nil {
		return nil, err
	}

	slog.Info("message sent", "recipient_id", recipientID, "message_id", sent.MessageID)
	return &sent, nil
}
