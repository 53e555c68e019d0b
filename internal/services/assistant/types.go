// File: internal/services/assistant/types.go
package assistant

import (
	"context"

	"github.com/multisolucioneslv/erp-assistant/internal/domain"
	"github.com/multisolucioneslv/erp-assistant/internal/services/ai"
	"github.com/multisolucioneslv/erp-assistant/internal/services/query"
)

// Logger defines the logging interface used across the assistant services.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// Gateway is the subset of the LLM gateway the dispatcher and orchestrator
// need. ai.OpenAIGateway satisfies it; tests stub it.
type Gateway interface {
	Complete(ctx context.Context, opts ai.CallOptions, messages []ai.ChatMessage) (*ai.Completion, error)
	CompleteWithTools(ctx context.Context, opts ai.CallOptions, messages []ai.ChatMessage, tools []ai.ToolDefinition) (*ai.ToolCompletion, error)
	ClassifyIntent(ctx context.Context, opts ai.CallOptions, text string, labels []string) (string, error)
}

// DataResolver resolves one catalog entry into grounding data, scoped to a
// tenant. query.Resolver satisfies it.
type DataResolver interface {
	Resolve(ctx context.Context, tenantID uint, name string, params query.Params) (*query.Result, error)
}

// IntentStrategy decides whether a turn needs database grounding and, if so,
// resolves it. A nil result with a nil error means "no grounding"; strategy
// errors are reserved for failures the orchestrator should not swallow.
type IntentStrategy interface {
	Mode() domain.DetectionMode
	Resolve(ctx context.Context, tenant *domain.Tenant, message string) (*query.Result, error)
}

// CallOptionsFor assembles per-call gateway options from a tenant's
// overrides. The returned value travels with the call; shared gateway state
// is never mutated.
func CallOptionsFor(tenant *domain.Tenant) ai.CallOptions {
	opts := ai.CallOptions{
		APIKey:    tenant.AIAPIKey,
		BaseURL:   tenant.AIBaseURL,
		Model:     tenant.AIModel,
		MaxTokens: tenant.AIMaxTokens,
	}
	if tenant.AITemperature > 0 {
		opts.Temperature = float32(tenant.AITemperature)
		opts.HasTemp = true
	}
	return opts
}
