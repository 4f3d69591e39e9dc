package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/maheshrc27/instaflow/internal/graph"
	"github.com/maheshrc27/instaflow/internal/models"
)

func newTestMessageService(srv *httptest.Server) *messageService {
	client := graph.NewClient(srv.URL)
	return &messageService{
		cfg: testConfig(string(models.VariantPage)),
		fb:  client,
		ig:  client,
	}
}

func conversationsFixture(participants []map[string]string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/page-1/conversations":
			writeJSON(w, map[string]interface{}{
				"data": []map[string]string{{"id": "thread-1"}},
			})
		case "/thread-1":
			writeJSON(w, map[string]interface{}{
				"id": "thread-1",
				"participants": map[string]interface{}{
					"data": participants,
				},
			})
		}
	}
}

func TestResolveRecipientFiltersOutPage(t *testing.T) {
	srv := httptest.NewServer(conversationsFixture([]map[string]string{
		{"id": "page-1", "username": "demo_page"},
		{"id": "human-1", "username": "some_human"},
	}))
	defer srv.Close()

	svc := newTestMessageService(srv)

	recipientID, err := svc.ResolveRecipient(context.Background(), testPageAccount())
	if err != nil {
		t.Fatalf("ResolveRecipient: %v", err)
	}
	if recipientID != "human-1" {
		t.Errorf("recipientID = %q, want human-1", recipientID)
	}
}

func TestResolveRecipientFiltersRegardlessOfOrder(t *testing.T) {
	// The upstream API does not guarantee participant ordering; the page
	// coming second must not change the result.
	srv := httptest.NewServer(conversationsFixture([]map[string]string{
		{"id": "human-1", "username": "some_human"},
		{"id": "page-1", "username": "demo_page"},
	}))
	defer srv.Close()

	svc := newTestMessageService(srv)

	recipientID, err := svc.ResolveRecipient(context.Background(), testPageAccount())
	if err != nil {
		t.Fatalf("ResolveRecipient: %v", err)
	}
	if recipientID != "human-1" {
		t.Errorf("recipientID = %q, want human-1", recipientID)
	}
}

func TestResolveRecipientFiltersBusinessAccount(t *testing.T) {
	srv := httptest.NewServer(conversationsFixture([]map[string]string{
		{"id": "ig-biz-1", "username": "demo_page"},
		{"id": "human-1", "username": "some_human"},
	}))
	defer srv.Close()

	svc := newTestMessageService(srv)

	recipientID, err := svc.ResolveRecipient(context.Background(), testPageAccount())
	if err != nil {
		t.Fatalf("ResolveRecipient: %v", err)
	}
	if recipientID != "human-1" {
		t.Errorf("recipientID = %q", recipientID)
	}
}

func TestResolveRecipientNoConversations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]interface{}{"data": []map[string]string{}})
	}))
	defer srv.Close()

	svc := newTestMessageService(srv)

	_, err := svc.ResolveRecipient(context.Background(), testPageAccount())
	if !errors.Is(err, ErrNoConversations) {
		t.Fatalf("err = %v, want ErrNoConversations", err)
	}
}

func TestResolveRecipientNoCandidate(t *testing.T) {
	srv := httptest.NewServer(conversationsFixture([]map[string]string{
		{"id": "page-1", "username": "demo_page"},
	}))
	defer srv.Close()

	svc := newTestMessageService(srv)

	_, err := svc.ResolveRecipient(context.Background(), testPageAccount())
	if !errors.Is(err, ErrNoRecipient) {
		t.Fatalf("err = %v, want ErrNoRecipient", err)
	}
}

func TestResolveRecipientAmbiguous(t *testing.T) {
	srv := httptest.NewServer(conversationsFixture([]map[string]string{
		{"id": "page-1", "username": "demo_page"},
		{"id": "human-1", "username": "first_human"},
		{"id": "human-2", "username": "second_human"},
	}))
	defer srv.Close()

	svc := newTestMessageService(srv)

	_, err := svc.ResolveRecipient(context.Background(), testPageAccount())
	if !errors.Is(err, ErrManyRecipients) {
		t.Fatalf("err = %v, want ErrManyRecipients", err)
	}
}

func TestResolveRecipientDirectVariantFiltersByUsername(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ig-user-1/conversations":
			writeJSON(w, map[string]interface{}{
				"data": []map[string]string{{"id": "thread-1"}},
			})
		case "/thread-1":
			writeJSON(w, map[string]interface{}{
				"participants": map[string]interface{}{
					"data": []map[string]string{
						{"id": "scoped-id-1", "username": "demo_account"},
						{"id": "human-1", "username": "some_human"},
					},
				},
			})
		}
	}))
	defer srv.Close()

	svc := newTestMessageService(srv)

	account := directAccount()
	account.Username = "demo_account"

	recipientID, err := svc.ResolveRecipient(context.Background(), account)
	if err != nil {
		t.Fatalf("ResolveRecipient: %v", err)
	}
	if recipientID != "human-1" {
		t.Errorf("recipientID = %q", recipientID)
	}
}

func TestSendMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/page-1/messages" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("access_token"); got != "page-token" {
			t.Errorf("access_token = %q", got)
		}

		var body struct {
			Recipient struct {
				ID string `json:"id"`
			} `json:"recipient"`
			Message struct {
				Text string `json:"text"`
			} `json:"message"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body.Recipient.ID != "human-1" || body.Message.Text != "hello there" {
			t.Errorf("body = %+v", body)
		}

		writeJSON(w, map[string]string{"recipient_id": "human-1", "message_id": "m-1"})
	}))
	defer srv.Close()

	svc := newTestMessageService(srv)

	sent, err := svc.SendMessage(context.Background(), testPageAccount(), "human-1", "hello there")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if sent.MessageID != "m-1" {
		t.Errorf("MessageID = %q", sent.MessageID)
	}
}
