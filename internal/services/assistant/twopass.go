// File: internal/services/assistant/twopass.go
package assistant

import (
	"context"
	"strings"

	"github.com/multisolucioneslv/erp-assistant/internal/domain"
	"github.com/multisolucioneslv/erp-assistant/internal/services/query"
)

// TwoPassStrategy spends one extra, small LLM call purely on intent
// classification before the answer call. Anything the first pass returns
// that is not a recognized catalog name fails closed: no grounding.
type TwoPassStrategy struct {
	gateway  Gateway
	resolver DataResolver
	logger   Logger
}

func NewTwoPassStrategy(gateway Gateway, resolver DataResolver, logger Logger) *TwoPassStrategy {
	return &TwoPassStrategy{gateway: gateway, resolver: resolver, logger: logger}
}

func (s *TwoPassStrategy) Mode() domain.DetectionMode {
	return domain.DetectionModeTwoPass
}

func (s *TwoPassStrategy) Resolve(ctx context.Context, tenant *domain.Tenant, message string) (*query.Result, error) {
	label, err := s.gateway.ClassifyIntent(ctx, CallOptionsFor(tenant), message, query.CatalogNames())
	if err != nil {
		s.logger.Warn("intent classification failed, continuing without grounding",
			"tenant_id", tenant.ID, "error", err)
		return nil, nil
	}

	label = strings.ToLower(strings.TrimSpace(label))
	if label == "" || label == "none" || !query.Known(label) {
		return nil, nil
	}

	return s.resolver.Resolve(ctx, tenant.ID, label, query.Params{})
}
