// File: internal/services/assistant/prompt.go
package assistant

import (
	"encoding/json"
	"fmt"

	"github.com/multisolucioneslv/erp-assistant/internal/domain"
	"github.com/multisolucioneslv/erp-assistant/internal/services/ai"
	"github.com/multisolucioneslv/erp-assistant/internal/services/query"
)

const personaTemplate = "You are a helpful assistant for an ERP system. " +
	"You help users understand their business data: sales, products, inventory, " +
	"users, companies, suppliers and categories. Respond in %s. Be concise. " +
	"If the available data is insufficient to answer, ask a clarifying question " +
	"instead of guessing."

// PromptBuilder assembles the ordered message list for the answer call.
type PromptBuilder struct {
	config *Config
}

func NewPromptBuilder(config *Config) *PromptBuilder {
	return &PromptBuilder{config: config}
}

// Build produces the persona system message, the last HistoryLimit prior
// messages oldest-first, then the new user message. When grounding data
// exists, one system message carrying it as structured text is appended.
func (b *PromptBuilder) Build(tenant *domain.Tenant, history []domain.Message, userMessage string, grounding *query.Result) []ai.ChatMessage {
	if len(history) > b.config.HistoryLimit {
		history = history[len(history)-b.config.HistoryLimit:]
	}

	messages := make([]ai.ChatMessage, 0, len(history)+3)
	messages = append(messages, ai.ChatMessage{
		Role:    domain.RoleSystem,
		Content: fmt.Sprintf(personaTemplate, languageName(tenant.Language)),
	})
	for _, m := range history {
		messages = append(messages, ai.ChatMessage{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, ai.ChatMessage{Role: domain.RoleUser, Content: userMessage})

	if grounding != nil {
		messages = append(messages, ai.ChatMessage{
			Role:    domain.RoleSystem,
			Content: serializeGrounding(grounding),
		})
	}
	return messages
}

func serializeGrounding(result *query.Result) string {
	data, err := json.MarshalIndent(result.Data, "", "  ")
	if err != nil {
		data = []byte("[]")
	}
	return fmt.Sprintf("Current data from the %s query in the company database:\n%s\n"+
		"Base your answer on this data.", result.Type, data)
}

func languageName(code string) string {
	switch code {
	case "es", "":
		return "Spanish"
	case "en":
		return "English"
	case "pt":
		return "Portuguese"
	case "fr":
		return "French"
	default:
		return code
	}
}
