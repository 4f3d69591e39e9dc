package transfer

import "encoding/json"

// WebhookPayload is the event envelope Meta delivers to POST /webhook.
// Messaging events arrive either as entry[].messaging[] or, on some app
// configurations, as entry[].changes[] with field "messages".
type WebhookPayload struct {
	Object string         `json:"object"`
	Entry  []WebhookEntry `json:"entry"`
}

type WebhookEntry struct {
	ID        string           `json:"id"`
	Time      int64            `json:"time"`
	Messaging []MessagingEvent `json:"messaging,omitempty"`
	Changes   []ChangeEvent    `json:"changes,omitempty"`
}

type MessagingEvent struct {
	Sender struct {
		ID string `json:"id"`
	} `json:"sender"`
	Recipient struct {
		ID string `json:"id"`
	} `json:"recipient"`
	Timestamp int64 `json:"timestamp"`
	Message   struct {
		MID  string `json:"mid"`
		Text string `json:"text"`
	} `json:"message"`
}

type ChangeEvent struct {
	Field string `json:"field"`
	Value struct {
		Messages []ChangeMessage `json:"messages"`
	} `json:"value"`
}

// ChangeMessage keeps Text raw because Meta sends it either as a plain
// string or as an object with a body field.
type ChangeMessage struct {
	From string          `json:"from"`
	Text json.RawMessage `json:"text"`
}

func (m ChangeMessage) TextBody() string {
	var wrapped struct {
		Body string `json:"body"`
	}
	if err := json.Unmarshal(m.Text, &wrapped); err == nil && wrapped.Body != "" {
		return wrapped.Body
	}

	var plain string
	if err := json.Unmarshal(m.Text, &plain); err == nil {
		return plain
	}
	return ""
}
