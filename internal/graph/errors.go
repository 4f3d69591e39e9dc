package graph

import "fmt"

// UpstreamError is any non-2xx response from the Graph API. Body keeps the
// upstream payload intact; the parsed fields come from the standard Graph
// error envelope when present.
type UpstreamError struct {
	Status    int
	Message   string
	Type      string
	Code      int
	Subcode   int
	FbtraceID string
	Transient bool
	Body      []byte
}

func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("graph api error (status %d, code %d): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("graph api error (status %d): %s", e.Status, string(e.Body))
}

// IsTransient reports whether the upstream flagged the failure as retryable,
// either through the envelope's is_transient flag or by error class.
func (e *UpstreamError) IsTransient() bool {
	return e.Transient || e.Status >= 500 || e.Code == 2
}

type errorEnvelope struct {
	Error struct {
		Message      string `json:"message"`
		Type         string `json:"type"`
		Code         int    `json:"code"`
		ErrorSubcode int    `json:"error_subcode"`
		IsTransient  bool   `json:"is_transient"`
		FbtraceID    string `json:"fbtrace_id"`
	} `json:"error"`
}
