// File: internal/services/assistant/pattern.go
package assistant

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/multisolucioneslv/erp-assistant/internal/domain"
	"github.com/multisolucioneslv/erp-assistant/internal/services/query"
)

// patternRule maps one catalog entry to its trigger vocabulary.
type patternRule struct {
	catalog  string
	keywords []string
}

// patternRules is order-sensitive: the first matching rule wins and the
// categories overlap textually ("top 5 productos" is a sales question, not a
// product listing), so the ordering must stay exactly as it is.
var patternRules = []patternRule{
	{query.CatalogSales, []string{
		"venta", "vendido", "vendida", "mas vendid", "más vendid",
		"top", "best sell", "best-sell", "sales", "sold", "facturado",
	}},
	{query.CatalogProducts, []string{
		"producto", "product", "inventario", "inventory", "stock",
		"articulo", "artículo",
	}},
	{query.CatalogUsers, []string{
		"usuarios registrados", "usuarios activos", "registered users",
		"active users", "usuarios", "users",
	}},
	{query.CatalogCompanies, []string{
		"empresa", "compañia", "compañía", "company", "companies",
	}},
	{query.CatalogSuppliers, []string{
		"proveedor", "supplier",
	}},
	{query.CatalogCategories, []string{
		"categoria", "categoría", "category", "categories",
	}},
}

var leadingNumber = regexp.MustCompile(`\d+`)

// PatternStrategy is the default dispatcher: a fixed keyword scan with zero
// extra LLM calls.
type PatternStrategy struct {
	resolver DataResolver
	logger   Logger
}

func NewPatternStrategy(resolver DataResolver, logger Logger) *PatternStrategy {
	return &PatternStrategy{resolver: resolver, logger: logger}
}

func (s *PatternStrategy) Mode() domain.DetectionMode {
	return domain.DetectionModePattern
}

func (s *PatternStrategy) Resolve(ctx context.Context, tenant *domain.Tenant, message string) (*query.Result, error) {
	catalog, params := MatchIntent(message)
	if catalog == "" {
		return nil, nil
	}
	s.logger.Debug("pattern intent matched", "tenant_id", tenant.ID, "catalog", catalog, "limit", params.Limit)
	return s.resolver.Resolve(ctx, tenant.ID, catalog, params)
}

// MatchIntent scans the message against the rule list and returns the first
// matching catalog name, or "" when nothing matched. For sales it also
// extracts the first integer in the message as the limit, clamped to the
// catalog bounds.
func MatchIntent(message string) (string, query.Params) {
	normalized := strings.ToLower(message)
	for _, rule := range patternRules {
		for _, kw := range rule.keywords {
			if strings.Contains(normalized, kw) {
				params := query.Params{}
				if rule.catalog == query.CatalogSales {
					params.Limit = extractLimit(normalized)
				}
				return rule.catalog, params
			}
		}
	}
	return "", query.Params{}
}

func extractLimit(message string) int {
	raw := leadingNumber.FindString(message)
	if raw == "" {
		return query.DefaultSalesLimit
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return query.DefaultSalesLimit
	}
	return query.ClampSalesLimit(n)
}
