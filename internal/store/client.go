package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"crm-webhook-api/internal/metrics"

	"github.com/rs/zerolog/log"
)

// Client talks to the hosted data platform's REST interface. All persistence
// (entity tables and the webhook audit table) lives behind it; this service
// never owns a database of its own.
type Client struct {
	BaseURL    string
	ServiceKey string
	HTTPClient *http.Client
}

// Error is the provider's structured error body, surfaced verbatim so webhook
// callers and operators see the real rejection reason.
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("store: %s (code %s, status %d)", e.Message, e.Code, e.Status)
	}
	return fmt.Sprintf("store: %s (status %d)", e.Message, e.Status)
}

// New builds a client with the service-role key. The key bypasses row-level
// security, so it must never reach response bodies or logs.
func New(baseURL, serviceKey string, timeout time.Duration) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		ServiceKey: serviceKey,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// Insert creates a single row and returns the created representation,
// including server-assigned id and timestamps. Inserts are not idempotent, so
// there is deliberately no retry here.
func (c *Client) Insert(ctx context.Context, table string, record any) (json.RawMessage, error) {
	body, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("store: marshal %s record: %w", table, err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/rest/v1/"+table, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Prefer", "return=representation")
	// Ask for a bare object instead of a one-element array.
	req.Header.Set("Accept", "application/vnd.pgrst.object+json")

	return c.do(req, table, "insert")
}

// UpdateByID patches the row with the given id. Used only by the audit
// recorder to attach the response outcome to an existing log row.
func (c *Client) UpdateByID(ctx context.Context, table string, id int64, patch any) error {
	body, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("store: marshal %s patch: %w", table, err)
	}

	req, err := c.newRequest(ctx, http.MethodPatch, "/rest/v1/"+table+"?id=eq."+strconv.FormatInt(id, 10), body)
	if err != nil {
		return err
	}

	_, err = c.do(req, table, "update")
	return err
}

// Select runs a read with a raw query string (filters, order, limit) and
// returns the rows as JSON.
func (c *Client) Select(ctx context.Context, table, rawQuery string) (json.RawMessage, error) {
	path := "/rest/v1/" + table
	if rawQuery != "" {
		path += "?" + rawQuery
	}
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req, table, "select")
}

func (c *Client) newRequest(ctx context.Context, method, path string, body []byte) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("store: build request: %w", err)
	}
	req.Header.Set("apikey", c.ServiceKey)
	req.Header.Set("Authorization", "Bearer "+c.ServiceKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) do(req *http.Request, table, op string) (json.RawMessage, error) {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		metrics.StoreRequestsTotal.WithLabelValues(table, op, "transport_error").Inc()
		return nil, fmt.Errorf("store: %s %s: %w", op, table, err)
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		metrics.StoreRequestsTotal.WithLabelValues(table, op, "read_error").Inc()
		return nil, fmt.Errorf("store: read %s response: %w", table, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.StoreRequestsTotal.WithLabelValues(table, op, "rejected").Inc()
		return nil, parseError(resp.StatusCode, payload)
	}

	metrics.StoreRequestsTotal.WithLabelValues(table, op, "ok").Inc()
	return payload, nil
}

func parseError(status int, payload []byte) *Error {
	e := &Error{Status: status}
	if err := json.Unmarshal(payload, e); err != nil || e.Message == "" {
		e.Message = strings.TrimSpace(string(payload))
		if e.Message == "" {
			e.Message = http.StatusText(status)
		}
	}
	log.Debug().
		Int("status", status).
		Str("code", e.Code).
		Str("message", e.Message).
		Msg("Store request rejected")
	return e
}
