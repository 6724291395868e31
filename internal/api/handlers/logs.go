package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"crm-webhook-api/internal/auth"
	"crm-webhook-api/internal/util"
)

// LogReader lists recent webhook audit rows.
type LogReader interface {
	Recent(ctx context.Context, limit int) (json.RawMessage, error)
}

// LogsHandler exposes the webhook audit trail to operators; the dashboard's
// webhook-inspection pages read from here.
type LogsHandler struct {
	Auth  auth.Auth
	Audit LogReader
}

// List godoc
// @Summary      List webhook logs
// @Description  Return the most recent webhook audit rows, newest first
// @Tags         logs
// @Produce      json
// @Param        limit  query     int  false  "Max rows (default 50, cap 200)"
// @Success      200    {array}   map[string]any
// @Failure      401    {string}  string  "Unauthorized"
// @Failure      500    {object}  map[string]any  "Store read failed"
// @Security     ApiKeyAuth
// @Security     BearerAuth
// @Router       /webhook-logs [get]
func (h *LogsHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.Auth.RequireAdmin(func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		rows, err := h.Audit.Recent(r.Context(), limit)
		if err != nil {
			util.WriteJSONStatus(w, http.StatusInternalServerError, map[string]any{
				"error":   "Erro ao consultar logs de webhook",
				"details": err.Error(),
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(rows)
	})(w, r)
}
