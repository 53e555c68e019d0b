// File: internal/services/assistant/toolcall.go
package assistant

import (
	"context"
	"encoding/json"

	"github.com/multisolucioneslv/erp-assistant/internal/domain"
	"github.com/multisolucioneslv/erp-assistant/internal/services/ai"
	"github.com/multisolucioneslv/erp-assistant/internal/services/query"
)

// ToolCallStrategy lets the model pick the grounding query itself: one
// gateway call with the six-tool menu. Any gateway failure degrades to "no
// grounding" so the turn can still complete from history alone.
type ToolCallStrategy struct {
	gateway  Gateway
	resolver DataResolver
	logger   Logger
}

func NewToolCallStrategy(gateway Gateway, resolver DataResolver, logger Logger) *ToolCallStrategy {
	return &ToolCallStrategy{gateway: gateway, resolver: resolver, logger: logger}
}

func (s *ToolCallStrategy) Mode() domain.DetectionMode {
	return domain.DetectionModeToolCall
}

func (s *ToolCallStrategy) Resolve(ctx context.Context, tenant *domain.Tenant, message string) (*query.Result, error) {
	completion, err := s.gateway.CompleteWithTools(ctx, CallOptionsFor(tenant),
		[]ai.ChatMessage{{Role: domain.RoleUser, Content: message}}, toolMenu())
	if err != nil {
		s.logger.Warn("tool-call detection failed, continuing without grounding",
			"tenant_id", tenant.ID, "error", err)
		return nil, nil
	}
	if completion.ToolCall == nil {
		return nil, nil
	}

	name := completion.ToolCall.Name
	if !query.Known(name) {
		s.logger.Warn("model named an unknown tool", "tenant_id", tenant.ID, "tool", name)
		return nil, nil
	}

	return s.resolver.Resolve(ctx, tenant.ID, name, parseToolParams(name, completion.ToolCall.Arguments))
}

// parseToolParams decodes tool-call arguments. Malformed or missing JSON is
// tolerated as an empty parameter set rather than failing the turn.
func parseToolParams(name, rawArgs string) query.Params {
	params := query.Params{}
	if name != query.CatalogSales || rawArgs == "" {
		return params
	}
	var args struct {
		Limit int `json:"limit"`
	}
	if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
		return query.Params{}
	}
	params.Limit = query.ClampSalesLimit(args.Limit)
	return params
}

// toolMenu declares the six catalog entries as callable tools. Only sales
// takes a parameter.
func toolMenu() []ai.ToolDefinition {
	noParams := map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
	return []ai.ToolDefinition{
		{
			Name:        query.CatalogSales,
			Description: "Top-selling products by units sold, with revenue and average unit price.",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"limit": map[string]interface{}{
						"type":        "integer",
						"description": "How many products to return (max 50).",
						"default":     query.DefaultSalesLimit,
					},
				},
			},
		},
		{
			Name:        query.CatalogProducts,
			Description: "Active products with inventory record counts.",
			Parameters:  noParams,
		},
		{
			Name:        query.CatalogUsers,
			Description: "Registered users of the company, newest first.",
			Parameters:  noParams,
		},
		{
			Name:        query.CatalogCompanies,
			Description: "Directory of active companies.",
			Parameters:  noParams,
		},
		{
			Name:        query.CatalogSuppliers,
			Description: "The company's suppliers.",
			Parameters:  noParams,
		},
		{
			Name:        query.CatalogCategories,
			Description: "Product categories with product counts.",
			Parameters:  noParams,
		},
	}
}
