package report

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

func TestBuildFullReportPromptTruncatesLeads(t *testing.T) {
	var leads []json.RawMessage
	for i := 0; i < 25; i++ {
		leads = append(leads, json.RawMessage(fmt.Sprintf(`{"name":"lead-%d"}`, i)))
	}

	prompt := BuildFullReportPrompt(leads, map[string]int{"new": 25}, 1000)

	if !strings.Contains(prompt, "lead-9") {
		t.Fatalf("prompt should contain the tenth lead")
	}
	if strings.Contains(prompt, "lead-10") {
		t.Fatalf("prompt should not contain leads past the tenth")
	}
}

func TestBuildFullReportPromptContents(t *testing.T) {
	leads := []json.RawMessage{json.RawMessage(`{"name":"Ana","value":1500}`)}
	prompt := BuildFullReportPrompt(leads, map[string]int{"new": 1}, 1500)

	for _, want := range []string{
		`{"name":"Ana","value":1500}`,
		`{"new":1}`,
		"Valor Total: 1500",
		"Resumo executivo",
		"Recomendações estratégicas",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestBuildFullReportPromptDeterministic(t *testing.T) {
	leads := []json.RawMessage{json.RawMessage(`{"name":"Ana"}`)}
	stats := map[string]int{"new": 1}
	if BuildFullReportPrompt(leads, stats, 10) != BuildFullReportPrompt(leads, stats, 10) {
		t.Fatalf("prompt assembly must be deterministic")
	}
}

func TestBuildFullReportPromptEmptyInputs(t *testing.T) {
	prompt := BuildFullReportPrompt(nil, nil, 0)
	if !strings.Contains(prompt, "Dados dos Leads: []") {
		t.Fatalf("nil leads should render as []:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Estatísticas: {}") {
		t.Fatalf("nil stats should render as {}:\n%s", prompt)
	}
}

func TestBuildProposalPrompt(t *testing.T) {
	prompt := BuildProposalPrompt("  Cliente precisa de um site institucional.  ")
	if !strings.Contains(prompt, "Cliente precisa de um site institucional.") {
		t.Fatalf("prompt missing proposal text:\n%s", prompt)
	}
	if strings.Contains(prompt, "  Cliente") {
		t.Fatalf("proposal text should be trimmed")
	}
	if !strings.Contains(prompt, "Próximos passos") {
		t.Fatalf("prompt missing section list")
	}
}
