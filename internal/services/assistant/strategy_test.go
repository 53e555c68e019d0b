// File: internal/services/assistant/strategy_test.go
package assistant

import (
	"context"
	"errors"
	"testing"

	"github.com/multisolucioneslv/erp-assistant/internal/domain"
	"github.com/multisolucioneslv/erp-assistant/internal/services/ai"
	"github.com/multisolucioneslv/erp-assistant/internal/services/query"
)

type stubGateway struct {
	completion *ai.Completion
	toolResp   *ai.ToolCompletion
	label      string
	err        error
}

func (g *stubGateway) Complete(ctx context.Context, opts ai.CallOptions, messages []ai.ChatMessage) (*ai.Completion, error) {
	return g.completion, g.err
}

func (g *stubGateway) CompleteWithTools(ctx context.Context, opts ai.CallOptions, messages []ai.ChatMessage, tools []ai.ToolDefinition) (*ai.ToolCompletion, error) {
	return g.toolResp, g.err
}

func (g *stubGateway) ClassifyIntent(ctx context.Context, opts ai.CallOptions, text string, labels []string) (string, error) {
	return g.label, g.err
}

type stubResolver struct {
	calls  int
	name   string
	params query.Params
	result *query.Result
	err    error
}

func (r *stubResolver) Resolve(ctx context.Context, tenantID uint, name string, params query.Params) (*query.Result, error) {
	r.calls++
	r.name = name
	r.params = params
	if r.result == nil && r.err == nil {
		return &query.Result{Type: name, Data: []query.SalesRow{}}, nil
	}
	return r.result, r.err
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{})  {}

func TestToolCallStrategyGatewayFailureIsNotFatal(t *testing.T) {
	resolver := &stubResolver{}
	s := NewToolCallStrategy(&stubGateway{err: errors.New("boom")}, resolver, nopLogger{})

	result, err := s.Resolve(context.Background(), testTenant("es"), "top ventas")
	if err != nil {
		t.Fatalf("gateway failure should not fail the turn, got %v", err)
	}
	if result != nil {
		t.Errorf("expected no grounding, got %+v", result)
	}
	if resolver.calls != 0 {
		t.Errorf("resolver should not be called, got %d calls", resolver.calls)
	}
}

func TestToolCallStrategyNoToolChosen(t *testing.T) {
	gw := &stubGateway{toolResp: &ai.ToolCompletion{Content: "just chatting"}}
	resolver := &stubResolver{}
	s := NewToolCallStrategy(gw, resolver, nopLogger{})

	result, err := s.Resolve(context.Background(), testTenant("es"), "hola")
	if err != nil || result != nil {
		t.Errorf("got (%+v, %v), want (nil, nil)", result, err)
	}
}

func TestToolCallStrategyUnknownToolIgnored(t *testing.T) {
	gw := &stubGateway{toolResp: &ai.ToolCompletion{ToolCall: &ai.ToolCall{Name: "drop_tables"}}}
	resolver := &stubResolver{}
	s := NewToolCallStrategy(gw, resolver, nopLogger{})

	result, err := s.Resolve(context.Background(), testTenant("es"), "???")
	if err != nil || result != nil {
		t.Errorf("got (%+v, %v), want (nil, nil)", result, err)
	}
	if resolver.calls != 0 {
		t.Errorf("resolver should not run for unknown tools")
	}
}

func TestToolCallStrategyMalformedArgumentsTolerated(t *testing.T) {
	gw := &stubGateway{toolResp: &ai.ToolCompletion{
		ToolCall: &ai.ToolCall{Name: query.CatalogSales, Arguments: `{"limit": no-json`},
	}}
	resolver := &stubResolver{}
	s := NewToolCallStrategy(gw, resolver, nopLogger{})

	result, err := s.Resolve(context.Background(), testTenant("es"), "top ventas")
	if err != nil {
		t.Fatalf("malformed arguments should not fail the turn, got %v", err)
	}
	if result == nil {
		t.Fatal("expected grounding despite malformed arguments")
	}
	if resolver.calls != 1 || resolver.name != query.CatalogSales {
		t.Errorf("resolver calls = %d name = %q, want one sales call", resolver.calls, resolver.name)
	}
	if resolver.params.Limit != 0 {
		t.Errorf("malformed args should yield empty params, got limit %d", resolver.params.Limit)
	}
}

func TestToolCallStrategyValidLimitClamped(t *testing.T) {
	gw := &stubGateway{toolResp: &ai.ToolCompletion{
		ToolCall: &ai.ToolCall{Name: query.CatalogSales, Arguments: `{"limit": 500}`},
	}}
	resolver := &stubResolver{}
	s := NewToolCallStrategy(gw, resolver, nopLogger{})

	if _, err := s.Resolve(context.Background(), testTenant("es"), "top 500"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolver.params.Limit != query.MaxSalesLimit {
		t.Errorf("limit = %d, want clamped to %d", resolver.params.Limit, query.MaxSalesLimit)
	}
}

func TestTwoPassStrategyFailsClosed(t *testing.T) {
	cases := []struct {
		name  string
		label string
		err   error
	}{
		{"none label", "none", nil},
		{"empty label", "", nil},
		{"hallucinated label", "revenue_forecast", nil},
		{"gateway error", "", errors.New("timeout")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resolver := &stubResolver{}
			s := NewTwoPassStrategy(&stubGateway{label: tc.label, err: tc.err}, resolver, nopLogger{})

			result, err := s.Resolve(context.Background(), testTenant("es"), "algo")
			if err != nil || result != nil {
				t.Errorf("got (%+v, %v), want (nil, nil)", result, err)
			}
			if resolver.calls != 0 {
				t.Errorf("resolver should not be called")
			}
		})
	}
}

func TestTwoPassStrategyNormalizesLabel(t *testing.T) {
	resolver := &stubResolver{}
	s := NewTwoPassStrategy(&stubGateway{label: "  Products \n"}, resolver, nopLogger{})

	result, err := s.Resolve(context.Background(), testTenant("es"), "qué productos hay")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil {
		t.Fatal("expected grounding for recognized label")
	}
	if resolver.name != query.CatalogProducts {
		t.Errorf("resolved %q, want products", resolver.name)
	}
}

func TestStrategySetFallsBackToPattern(t *testing.T) {
	set := NewStrategySet(&stubGateway{}, &stubResolver{}, nopLogger{})

	cases := []domain.DetectionMode{"", "unknown_mode", domain.DetectionModePattern}
	for _, mode := range cases {
		if got := set.ForMode(mode).Mode(); got != domain.DetectionModePattern {
			t.Errorf("ForMode(%q).Mode() = %q, want pattern fallback", mode, got)
		}
	}
	if got := set.ForMode(domain.DetectionModeToolCall).Mode(); got != domain.DetectionModeToolCall {
		t.Errorf("ForMode(tool_calling) = %q", got)
	}
	if got := set.ForMode(domain.DetectionModeTwoPass).Mode(); got != domain.DetectionModeTwoPass {
		t.Errorf("ForMode(two_pass) = %q", got)
	}
}
