// File: internal/services/ai/openai_gateway.go
package ai

import (
	"context"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIGateway implements Gateway over an OpenAI-compatible endpoint.
type OpenAIGateway struct {
	config *Config
	client *openai.Client
}

func NewOpenAIGateway(config *Config) (*OpenAIGateway, error) {
	if err := config.Validate(); err != nil {
		return nil, NewConfigError(err.Error())
	}
	return &OpenAIGateway{
		config: config,
		client: newClient(config.APIKey, config.BaseURL),
	}, nil
}

func newClient(apiKey, baseURL string) *openai.Client {
	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(clientConfig)
}

// clientFor returns the default client, or a per-call client when the
// options carry tenant-owned credentials. The default client is never
// mutated.
func (g *OpenAIGateway) clientFor(opts CallOptions) *openai.Client {
	if opts.APIKey == "" {
		return g.client
	}
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = g.config.BaseURL
	}
	return newClient(opts.APIKey, baseURL)
}

func (g *OpenAIGateway) requestFor(opts CallOptions, messages []ChatMessage) openai.ChatCompletionRequest {
	model := opts.Model
	if model == "" {
		model = g.config.Model
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = g.config.MaxTokens
	}
	temperature := g.config.Temperature
	if opts.HasTemp {
		temperature = opts.Temperature
	}

	req := openai.ChatCompletionRequest{
		Model:       model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		Messages:    make([]openai.ChatCompletionMessage, 0, len(messages)),
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}
	return req
}

func (g *OpenAIGateway) Complete(ctx context.Context, opts CallOptions, messages []ChatMessage) (*Completion, error) {
	if len(messages) == 0 {
		return nil, &AIError{Type: ErrTypeConfig, Operation: "completion", Message: "empty message list"}
	}

	ctx, cancel := context.WithTimeout(ctx, g.config.Timeout)
	defer cancel()

	resp, err := g.clientFor(opts).CreateChatCompletion(ctx, g.requestFor(opts, messages))
	if err != nil {
		return nil, wrapProviderError("completion", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, &AIError{Type: ErrTypeProvider, Operation: "completion", Message: "empty completion response"}
	}

	return &Completion{
		Content: resp.Choices[0].Message.Content,
		Model:   resp.Model,
		Usage: Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

func (g *OpenAIGateway) CompleteWithTools(ctx context.Context, opts CallOptions, messages []ChatMessage, tools []ToolDefinition) (*ToolCompletion, error) {
	req := g.requestFor(opts, messages)
	for _, t := range tools {
		req.Tools = append(req.Tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}

	client := g.clientFor(opts)
	retryCfg := RetryConfig{MaxAttempts: g.config.MaxRetries, Delay: g.config.RetryDelay}

	var resp openai.ChatCompletionResponse
	err := RetryWithBackoff(ctx, retryCfg, func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, g.config.Timeout)
		defer cancel()
		var callErr error
		resp, callErr = client.CreateChatCompletion(callCtx, req)
		if callErr != nil {
			return wrapProviderError("tool_completion", callErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, &AIError{Type: ErrTypeProvider, Operation: "tool_completion", Message: "empty tool completion response"}
	}

	out := &ToolCompletion{
		Content: resp.Choices[0].Message.Content,
		Model:   resp.Model,
		Usage: Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}
	if calls := resp.Choices[0].Message.ToolCalls; len(calls) > 0 {
		out.ToolCall = &ToolCall{
			Name:      calls[0].Function.Name,
			Arguments: calls[0].Function.Arguments,
		}
	}
	return out, nil
}

// ClassifyIntent runs the small first pass of the two-pass strategy: one
// short completion whose only job is to name an intent label.
func (g *OpenAIGateway) ClassifyIntent(ctx context.Context, opts CallOptions, text string, labels []string) (string, error) {
	model := opts.Model
	if model == "" {
		model = g.config.IntentModel
	}

	instruction := "You classify ERP user messages. Reply with exactly one of these labels and nothing else: " +
		strings.Join(labels, ", ") + ", none."
	req := openai.ChatCompletionRequest{
		Model:       model,
		MaxTokens:   10,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: instruction},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	}

	client := g.clientFor(opts)
	retryCfg := RetryConfig{MaxAttempts: g.config.MaxRetries, Delay: g.config.RetryDelay}

	var resp openai.ChatCompletionResponse
	err := RetryWithBackoff(ctx, retryCfg, func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, g.config.Timeout)
		defer cancel()
		var callErr error
		resp, callErr = client.CreateChatCompletion(callCtx, req)
		if callErr != nil {
			return wrapProviderError("intent_classification", callErr)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", &AIError{Type: ErrTypeProvider, Operation: "intent_classification", Message: "empty classification response"}
	}

	label := strings.ToLower(strings.TrimSpace(resp.Choices[0].Message.Content))
	label = strings.Trim(label, `"'.`)
	return label, nil
}
