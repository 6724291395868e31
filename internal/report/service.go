package report

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"crm-webhook-api/internal/metrics"

	"github.com/rs/zerolog/log"
)

// Report kinds accepted by the endpoint.
const (
	KindFullReport = "full-report"
	KindProposal   = "proposal"
)

// systemInstruction is fixed for every generation.
const systemInstruction = "Você é um especialista em vendas e relatórios comerciais. " +
	"Gere conteúdo profissional, detalhado e baseado em dados reais. Use português brasileiro."

// Request is the report-generation request body.
type Request struct {
	Type       string      `json:"type"`
	Data       *ReportData `json:"data"`
	CustomData *CustomData `json:"customData"`
}

// ReportData aggregates the CRM numbers for the full report. Leads stay raw:
// the prompt embeds whatever columns the dashboard sent.
type ReportData struct {
	Leads      []RawLead      `json:"leads"`
	Stats      map[string]int `json:"stats"`
	TotalValue float64        `json:"totalValue"`
}

// RawLead is an opaque lead row.
type RawLead = json.RawMessage

// CustomData carries the free-form proposal input.
type CustomData struct {
	ProposalInfo string `json:"proposalInfo"`
}

// RequestError is a local validation failure: the request never reaches the
// completion provider.
type RequestError struct {
	Reason string
}

func (e *RequestError) Error() string { return e.Reason }

// Completer is the slice of the completion client the service needs.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Service assembles prompts from CRM data and delegates generation.
type Service struct {
	Client Completer
}

// Generate validates the request, builds the prompt, and returns the
// generated content. Invalid requests fail fast before any provider call.
func (s *Service) Generate(ctx context.Context, req Request) (string, error) {
	var prompt string
	switch req.Type {
	case KindFullReport:
		var (
			leads      []RawLead
			stats      map[string]int
			totalValue float64
		)
		if req.Data != nil {
			leads = req.Data.Leads
			stats = req.Data.Stats
			totalValue = req.Data.TotalValue
		}
		prompt = BuildFullReportPrompt(leads, stats, totalValue)
	case KindProposal:
		if req.CustomData == nil || strings.TrimSpace(req.CustomData.ProposalInfo) == "" {
			metrics.ReportGenerationsTotal.WithLabelValues(KindProposal, "invalid").Inc()
			return "", &RequestError{Reason: "proposalInfo é obrigatório para propostas"}
		}
		prompt = BuildProposalPrompt(req.CustomData.ProposalInfo)
	default:
		metrics.ReportGenerationsTotal.WithLabelValues("unknown", "invalid").Inc()
		return "", &RequestError{Reason: fmt.Sprintf("tipo de relatório desconhecido: %q", req.Type)}
	}

	start := time.Now()
	content, err := s.Client.Complete(ctx, systemInstruction, prompt)
	metrics.ReportGenerationDuration.WithLabelValues(req.Type).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ReportGenerationsTotal.WithLabelValues(req.Type, "error").Inc()
		log.Error().
			Err(err).
			Str("kind", req.Type).
			Msg("Report generation failed")
		return "", err
	}

	metrics.ReportGenerationsTotal.WithLabelValues(req.Type, "ok").Inc()
	log.Info().
		Str("kind", req.Type).
		Int("prompt_chars", len(prompt)).
		Int("content_chars", len(content)).
		Msg("Report generated")
	return content, nil
}
