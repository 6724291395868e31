package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"crm-webhook-api/internal/store"
)

const logTable = "webhook_logs"

// Entry is one inbound webhook attempt, written before any processing so the
// table records the request even when validation or the insert later fails.
type Entry struct {
	Endpoint  string            `json:"endpoint"`
	Method    string            `json:"method"`
	Headers   map[string]string `json:"headers"`
	Body      json.RawMessage   `json:"body,omitempty"`
	IPAddress string            `json:"ip_address,omitempty"`
	UserAgent string            `json:"user_agent,omitempty"`
}

// Recorder appends webhook log rows and patches each exactly once with the
// response outcome. Callers treat every method as best-effort: an audit
// failure must never block the write path.
type Recorder struct {
	Store *store.Client
}

// Record inserts the log row and returns its server-assigned id. The id is
// how the outcome is attached later; matching by timestamp would collide for
// concurrent requests within the same second.
func (r *Recorder) Record(ctx context.Context, e Entry) (int64, error) {
	row, err := r.Store.Insert(ctx, logTable, e)
	if err != nil {
		return 0, err
	}

	var created struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(row, &created); err != nil || created.ID == 0 {
		return 0, fmt.Errorf("audit: log row id missing from insert response")
	}
	return created.ID, nil
}

// AttachResponse patches the row with the final status and response body.
func (r *Recorder) AttachResponse(ctx context.Context, id int64, status int, body any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("audit: marshal response body: %w", err)
	}
	patch := struct {
		ResponseStatus int             `json:"response_status"`
		ResponseBody   json.RawMessage `json:"response_body"`
	}{
		ResponseStatus: status,
		ResponseBody:   raw,
	}
	return r.Store.UpdateByID(ctx, logTable, id, patch)
}

// Recent returns the newest log rows for the operational listing endpoint.
func (r *Recorder) Recent(ctx context.Context, limit int) (json.RawMessage, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return r.Store.Select(ctx, logTable, fmt.Sprintf("order=created_at.desc&limit=%d", limit))
}
