package report

import (
	"encoding/json"
	"fmt"
	"strings"
)

// maxLeadSample bounds the prompt size; only the first records are embedded.
const maxLeadSample = 10

// BuildFullReportPrompt assembles the sales-report prompt from aggregated CRM
// data. Pure and deterministic; truncates the lead list to the first
// maxLeadSample records.
func BuildFullReportPrompt(leads []json.RawMessage, stats map[string]int, totalValue float64) string {
	if len(leads) > maxLeadSample {
		leads = leads[:maxLeadSample]
	}

	leadsJSON, _ := json.Marshal(leads)
	statsJSON, _ := json.Marshal(stats)
	if leads == nil {
		leadsJSON = []byte("[]")
	}
	if stats == nil {
		statsJSON = []byte("{}")
	}

	var b strings.Builder
	b.WriteString("Gere um relatório completo e profissional de vendas baseado nos seguintes dados do CRM:\n\n")
	fmt.Fprintf(&b, "Dados dos Leads: %s\n", leadsJSON)
	fmt.Fprintf(&b, "Estatísticas: %s\n", statsJSON)
	fmt.Fprintf(&b, "Valor Total: %v\n\n", totalValue)
	b.WriteString("O relatório deve incluir:\n")
	b.WriteString("1. Resumo executivo\n")
	b.WriteString("2. Análise de performance de vendas\n")
	b.WriteString("3. Análise do pipeline\n")
	b.WriteString("4. Tendências e insights\n")
	b.WriteString("5. Recomendações estratégicas\n\n")
	b.WriteString("Formate em markdown com seções bem organizadas e use dados específicos dos leads fornecidos.")
	return b.String()
}

// BuildProposalPrompt assembles the commercial-proposal prompt from free-form
// input. The caller validates that the text is non-empty before invoking.
func BuildProposalPrompt(proposalInfo string) string {
	var b strings.Builder
	b.WriteString("Crie uma proposta comercial profissional baseada nas seguintes informações:\n\n")
	b.WriteString(strings.TrimSpace(proposalInfo))
	b.WriteString("\n\nA proposta deve incluir:\n")
	b.WriteString("1. Apresentação da empresa\n")
	b.WriteString("2. Entendimento da necessidade do cliente\n")
	b.WriteString("3. Solução proposta detalhada\n")
	b.WriteString("4. Investimento (se mencionado)\n")
	b.WriteString("5. Cronograma (se mencionado)\n")
	b.WriteString("6. Próximos passos\n")
	b.WriteString("7. Termos e condições básicos\n\n")
	b.WriteString("Use um tom profissional e persuasivo, formatando em markdown com seções bem estruturadas. ")
	b.WriteString("Extraia todas as informações relevantes do texto fornecido e organize de forma clara e atrativa.")
	return b.String()
}
