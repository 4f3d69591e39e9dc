package queue

import (
	"context"
	"encoding/json"
	"log"

	"github.com/hibiken/asynq"
	"github.com/maheshrc27/instaflow/internal/transfer"
)

func (j *Queue) HandleWebhookEventTask(ctx context.Context, task *asynq.Task) error {
	var payload transfer.WebhookPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	j.ProcessEvent(&payload)

	return nil
}

// ProcessEvent walks both delivery shapes Meta uses for messaging events:
// entry[].messaging[] and entry[].changes[] with field "messages".
func (j *Queue) ProcessEvent(payload *transfer.WebhookPayload) {
	for _, entry := range payload.Entry {
		for _, event := range entry.Messaging {
			if event.Message.Text == "" {
				continue
			}
			log.Printf("Incoming message: sender=%s text=%q", event.Sender.ID, event.Message.Text)
		}

		for _, change := range entry.Changes {
			if change.Field != "messages" {
				continue
			}
			for _, msg := range change.Value.Messages {
				log.Printf("Incoming message: sender=%s text=%q", msg.From, msg.TextBody())
			}
		}
	}
}
