package transfer

import (
	"encoding/json"
	"testing"
)

func TestChangeMessageTextBody(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"object with body", `{"from": "user-1", "text": {"body": "hi there"}}`, "hi there"},
		{"plain string", `{"from": "user-1", "text": "hi there"}`, "hi there"},
		{"missing text", `{"from": "user-1"}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var msg ChangeMessage
			if err := json.Unmarshal([]byte(tt.raw), &msg); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got := msg.TextBody(); got != tt.want {
				t.Errorf("TextBody() = %q, want %q", got, tt.want)
			}
		})
	}
}
