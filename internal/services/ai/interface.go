// File: internal/services/ai/interface.go
package ai

import "context"

// ChatMessage is one entry of an ordered prompt.
type ChatMessage struct {
	Role    string
	Content string
}

// Usage reports token consumption as returned by the provider.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Completion is the result of a plain chat completion.
type Completion struct {
	Content string
	Model   string
	Usage   Usage
}

// ToolCall names a tool the model chose to invoke, with its raw JSON
// arguments. Arguments may be malformed; callers decide how tolerant to be.
type ToolCall struct {
	Name      string
	Arguments string
}

// ToolCompletion is the result of a tool-calling completion: either plain
// content or a tool call.
type ToolCompletion struct {
	Content  string
	Model    string
	Usage    Usage
	ToolCall *ToolCall
}

// ToolDefinition declares one callable tool with a JSON-schema-shaped
// parameter spec.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  map[string]interface{}
}

// CallOptions carries per-call overrides (tenant-owned credentials, model,
// limits). Zero values fall back to the gateway defaults. Passing options
// explicitly keeps tenant credentials off shared state.
type CallOptions struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float32
	HasTemp     bool
}

// Gateway is the one true external boundary of the assistant: three
// operation shapes over the LLM provider, each with bounded timeouts and
// typed errors.
type Gateway interface {
	Complete(ctx context.Context, opts CallOptions, messages []ChatMessage) (*Completion, error)
	CompleteWithTools(ctx context.Context, opts CallOptions, messages []ChatMessage, tools []ToolDefinition) (*ToolCompletion, error)
	ClassifyIntent(ctx context.Context, opts CallOptions, text string, labels []string) (string, error)
}
