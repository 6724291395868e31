package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"crm-webhook-api/internal/report"
	"crm-webhook-api/internal/util"

	"github.com/rs/zerolog/log"
)

// ReportsHandler proxies report generation to the completion API.
type ReportsHandler struct {
	Service *report.Service
}

// Generate godoc
// @Summary      Generate AI report
// @Description  Build a prompt from CRM data (full-report) or free-form input (proposal) and return the generated text
// @Tags         reports
// @Accept       json
// @Produce      json
// @Param        request  body      report.Request  true  "Report request"
// @Success      200      {object}  map[string]string  "Generated content"
// @Failure      400      {object}  map[string]any     "Invalid request (unknown type, empty proposal text)"
// @Failure      405      {object}  map[string]any     "Method not allowed"
// @Failure      500      {object}  map[string]any     "Completion API failure"
// @Router       /reports [post]
func (h *ReportsHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		util.WriteJSONStatus(w, http.StatusMethodNotAllowed, map[string]any{
			"error": "Método não permitido. Use POST.",
		})
		return
	}

	var req report.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.WriteJSONStatus(w, http.StatusBadRequest, map[string]any{
			"error":   "JSON inválido no corpo da requisição",
			"details": err.Error(),
		})
		return
	}

	content, err := h.Service.Generate(r.Context(), req)
	if err != nil {
		var reqErr *report.RequestError
		if errors.As(err, &reqErr) {
			util.WriteJSONStatus(w, http.StatusBadRequest, map[string]any{
				"error":   "Requisição de relatório inválida",
				"details": reqErr.Reason,
			})
			return
		}

		log.Error().Err(err).Str("kind", req.Type).Msg("Report endpoint failure")
		util.WriteJSONStatus(w, http.StatusInternalServerError, map[string]any{
			"error":   "Erro ao gerar relatório",
			"details": err.Error(),
		})
		return
	}

	util.WriteJSON(w, map[string]string{"content": content})
}
