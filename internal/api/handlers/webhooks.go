package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"

	"crm-webhook-api/internal/audit"
	"crm-webhook-api/internal/crm"
	"crm-webhook-api/internal/metrics"
	"crm-webhook-api/internal/store"
	"crm-webhook-api/internal/util"

	"github.com/rs/zerolog/log"
)

// maxWebhookBody bounds inbound payloads; CRM records are small.
const maxWebhookBody = 1 << 20

// AuditLog records webhook attempts. Best-effort at every call site.
type AuditLog interface {
	Record(ctx context.Context, e audit.Entry) (int64, error)
	AttachResponse(ctx context.Context, id int64, status int, body any) error
}

// EntityRepo inserts one normalized record into the hosted store.
type EntityRepo interface {
	Insert(ctx context.Context, kind crm.Kind, record any) (json.RawMessage, error)
}

// WebhookHandler ingests third-party callbacks for one entity kind per
// endpoint. Every non-preflight request leaves exactly one audit row and gets
// exactly one response; the audit row's response_status matches the HTTP
// status returned.
type WebhookHandler struct {
	Audit AuditLog
	Repo  EntityRepo
}

// Lead godoc
// @Summary      Ingest lead webhook
// @Description  Create a lead from an inbound webhook payload
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]any  "Created lead"
// @Failure      400  {object}  map[string]any  "Missing required fields (name, email)"
// @Failure      405  {object}  map[string]any  "Method not allowed"
// @Failure      500  {object}  map[string]any  "Store rejected the insert"
// @Router       /webhooks/lead [post]
func (h *WebhookHandler) Lead(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, crm.KindLead)
}

// Client godoc
// @Summary      Ingest client webhook
// @Description  Create a client from an inbound webhook payload
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]any  "Created client"
// @Failure      400  {object}  map[string]any  "Missing required fields (name, email, cpf_cnpj)"
// @Failure      405  {object}  map[string]any  "Method not allowed"
// @Failure      500  {object}  map[string]any  "Store rejected the insert"
// @Router       /webhooks/client [post]
func (h *WebhookHandler) Client(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, crm.KindClient)
}

// Property godoc
// @Summary      Ingest property webhook
// @Description  Create a property from an inbound webhook payload
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Success      201  {object}  map[string]any  "Created property"
// @Failure      400  {object}  map[string]any  "Missing required fields (title, address, city, state)"
// @Failure      405  {object}  map[string]any  "Method not allowed"
// @Failure      500  {object}  map[string]any  "Store rejected the insert"
// @Router       /webhooks/property [post]
func (h *WebhookHandler) Property(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, crm.KindProperty)
}

// serve runs one request through the fixed sequence: log the attempt, decide
// the outcome, attach the outcome to the log, respond. The audit calls wrap
// the pipeline and never affect its control flow.
func (h *WebhookHandler) serve(w http.ResponseWriter, r *http.Request, kind crm.Kind) {
	// Preflight is negotiated before anything else and leaves no audit row.
	// Normally the CORS middleware already answered it.
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	ctx := r.Context()
	raw, readErr := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))

	logID := h.recordAttempt(ctx, r, raw)

	status, payload := h.process(ctx, r.Method, kind, raw, readErr)

	if logID != 0 {
		if err := h.Audit.AttachResponse(ctx, logID, status, payload); err != nil {
			log.Warn().
				Err(err).
				Int64("log_id", logID).
				Str("entity", string(kind)).
				Msg("Failed to attach response to webhook log")
		}
	}

	metrics.WebhookIngestionsTotal.WithLabelValues(string(kind), outcomeLabel(status)).Inc()
	util.WriteJSONStatus(w, status, payload)
}

// recordAttempt writes the audit row before processing so even rejected
// requests are recorded. Failures are reported and swallowed: observability
// must not become a point of failure for the write path.
func (h *WebhookHandler) recordAttempt(ctx context.Context, r *http.Request, raw []byte) int64 {
	var body json.RawMessage
	if len(raw) > 0 && json.Valid(raw) {
		body = raw
	}

	logID, err := h.Audit.Record(ctx, audit.Entry{
		Endpoint:  r.URL.Path,
		Method:    r.Method,
		Headers:   flattenHeaders(r.Header),
		Body:      body,
		IPAddress: clientIP(r),
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		log.Warn().
			Err(err).
			Str("endpoint", r.URL.Path).
			Msg("Failed to record webhook log entry")
		return 0
	}
	return logID
}

// process is the pure pipeline from request to (status, body). It performs no
// audit writes and no direct response writing.
func (h *WebhookHandler) process(ctx context.Context, method string, kind crm.Kind, raw []byte, readErr error) (int, map[string]any) {
	if method != http.MethodPost {
		return http.StatusMethodNotAllowed, map[string]any{
			"success":         false,
			"error":           "Método não permitido. Use POST.",
			"allowed_methods": []string{"POST", "OPTIONS"},
		}
	}

	if readErr != nil {
		return http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "Erro ao ler o corpo da requisição",
			"details": readErr.Error(),
		}
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "Corpo da requisição está vazio",
		}
	}

	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "JSON inválido no corpo da requisição",
			"details": err.Error(),
		}
	}

	record, verr := crm.Normalize(kind, body)
	if verr != nil {
		metrics.ValidationFailuresTotal.WithLabelValues(string(kind)).Inc()
		return http.StatusBadRequest, map[string]any{
			"success":         false,
			"error":           "Campos obrigatórios ausentes: " + strings.Join(verr.Missing, ", "),
			"required_fields": verr.Required,
		}
	}

	row, err := h.Repo.Insert(ctx, kind, record)
	if err != nil {
		log.Error().
			Err(err).
			Str("entity", string(kind)).
			Msg("Store insert failed")
		return http.StatusInternalServerError, insertFailureBody(kind, err)
	}

	status := http.StatusOK
	if kind == crm.KindProperty {
		status = http.StatusCreated
	}
	return status, map[string]any{
		"success":    true,
		"message":    successMessage(kind),
		string(kind): row,
	}
}

// insertFailureBody surfaces the provider's message/code/hint for operator
// diagnosis. These are operational endpoints, not a public API, so the detail
// is passed through unfiltered.
func insertFailureBody(kind crm.Kind, err error) map[string]any {
	body := map[string]any{
		"success": false,
		"error":   failureMessage(kind),
	}
	var serr *store.Error
	if errors.As(err, &serr) {
		body["details"] = serr.Message
		if serr.Code != "" {
			body["code"] = serr.Code
		}
		if serr.Hint != "" {
			body["hint"] = serr.Hint
		}
	} else {
		body["details"] = err.Error()
	}
	return body
}

func successMessage(kind crm.Kind) string {
	switch kind {
	case crm.KindLead:
		return "Lead criado com sucesso"
	case crm.KindClient:
		return "Cliente criado com sucesso"
	case crm.KindProperty:
		return "Imóvel criado com sucesso"
	}
	return "Registro criado com sucesso"
}

func failureMessage(kind crm.Kind) string {
	switch kind {
	case crm.KindLead:
		return "Erro ao criar lead"
	case crm.KindClient:
		return "Erro ao criar cliente"
	case crm.KindProperty:
		return "Erro ao criar imóvel no banco de dados"
	}
	return "Erro ao criar registro"
}

func outcomeLabel(status int) string {
	switch {
	case status == http.StatusMethodNotAllowed:
		return "method_not_allowed"
	case status >= 500:
		return "store_error"
	case status >= 400:
		return "rejected"
	default:
		return "created"
	}
}

// flattenHeaders keeps the first value per header, lower-cased names, for the
// audit row's headers column.
func flattenHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			out[strings.ToLower(k)] = v[0]
		}
	}
	return out
}

// clientIP prefers the proxy-forwarded address, falling back to the socket
// peer.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	if real := r.Header.Get("X-Real-Ip"); real != "" {
		return real
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
