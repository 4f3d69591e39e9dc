package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

const (
	DefaultBaseURL          = "https://graph.facebook.com/v24.0"
	DefaultInstagramBaseURL = "https://graph.instagram.com"
)

// Client is a thin wrapper around the Graph API. The base URL is injectable
// so tests can point it at a local server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get performs a GET on path with params and decodes the JSON response
// into out.
func (c *Client) Get(ctx context.Context, path string, params url.Values, out interface{}) error {
	reqURL := fmt.Sprintf("%s/%s", c.baseURL, strings.TrimLeft(path, "/"))
	if len(params) > 0 {
		reqURL = fmt.Sprintf("%s?%s", reqURL, params.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}

	return c.do(req, out)
}

// Post performs a POST on path. Params go on the query string, the way the
// Graph API accepts them. A non-nil body is sent as JSON.
func (c *Client) Post(ctx context.Context, path string, params url.Values, body, out interface{}) error {
	reqURL := fmt.Sprintf("%s/%s", c.baseURL, strings.TrimLeft(path, "/"))
	if len(params) > 0 {
		reqURL = fmt.Sprintf("%s?%s", reqURL, params.Encode())
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("error marshalling payload: %w", err)
		}
		reader = bytes.NewBuffer(payload)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, reader)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request error: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return classify(resp.StatusCode, respBody)
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("error parsing response: %w", err)
	}
	return nil
}

func classify(status int, body []byte) error {
	upstreamErr := &UpstreamError{
		Status: status,
		Body:   body,
	}

	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil {
		upstreamErr.Message = envelope.Error.Message
		upstreamErr.Type = envelope.Error.Type
		upstreamErr.Code = envelope.Error.Code
		upstreamErr.Subcode = envelope.Error.ErrorSubcode
		upstreamErr.FbtraceID = envelope.Error.FbtraceID
		upstreamErr.Transient = envelope.Error.IsTransient
	}

	slog.Info(upstreamErr.Error())
	return upstreamErr
}
