package queue

import (
	"encoding/json"
	"log"

	"github.com/hibiken/asynq"
	"github.com/maheshrc27/instaflow/internal/transfer"
)

type Client struct {
	asynqClient *asynq.Client
}

func NewClient(asynqClient *asynq.Client) *Client {
	return &Client{asynqClient: asynqClient}
}

func (c *Client) EnqueueWebhookEvent(payload transfer.WebhookPayload) error {
	taskPayload, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskTypeWebhookEvent, taskPayload)

	_, err = c.asynqClient.Enqueue(task)
	if err != nil {
		return err
	}

	log.Printf("Webhook event queued: object=%s entries=%d", payload.Object, len(payload.Entry))
	return nil
}
