package queue

import (
	"github.com/maheshrc27/instaflow/internal/transfer"
)

const TaskTypeWebhookEvent = "webhook:event"

// Enqueuer is what the webhook handler needs from the queue; the asynq
// client satisfies it through Client.
type Enqueuer interface {
	EnqueueWebhookEvent(payload transfer.WebhookPayload) error
}

// Queue processes webhook deliveries off the request path.
type Queue struct{}

func NewQueue() *Queue {
	return &Queue{}
}
