// File: internal/services/query/types.go
package query

import "time"

// Catalog names. The dispatcher only ever resolves one of these; anything
// else means no grounding.
const (
	CatalogSales      = "sales"
	CatalogProducts   = "products"
	CatalogUsers      = "users"
	CatalogCompanies  = "companies"
	CatalogSuppliers  = "suppliers"
	CatalogCategories = "categories"
)

// Limits for the sales catalog entry.
const (
	DefaultSalesLimit = 10
	MaxSalesLimit     = 50
)

// MaxRows bounds every other catalog query.
const MaxRows = 50

// CatalogNames lists the catalog in its canonical order.
func CatalogNames() []string {
	return []string{
		CatalogSales, CatalogProducts, CatalogUsers,
		CatalogCompanies, CatalogSuppliers, CatalogCategories,
	}
}

// Known reports whether name is a catalog entry.
func Known(name string) bool {
	switch name {
	case CatalogSales, CatalogProducts, CatalogUsers,
		CatalogCompanies, CatalogSuppliers, CatalogCategories:
		return true
	}
	return false
}

// Params carries catalog arguments; only sales uses Limit.
type Params struct {
	Limit int
}

// Result is one resolved catalog query, ready to be serialized into the
// prompt as grounding data.
type Result struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// ClampSalesLimit applies the catalog bounds to a requested limit.
func ClampSalesLimit(limit int) int {
	if limit <= 0 {
		return DefaultSalesLimit
	}
	if limit > MaxSalesLimit {
		return MaxSalesLimit
	}
	return limit
}

// Row shapes returned by the catalog queries.

type SalesRow struct {
	ProductID    uint    `json:"product_id"`
	ProductName  string  `json:"product_name"`
	TotalSold    int64   `json:"total_sold"`
	TotalRevenue float64 `json:"total_revenue"`
	AvgUnitPrice float64 `json:"avg_unit_price"`
}

type ProductRow struct {
	ID             uint    `json:"id"`
	Name           string  `json:"name"`
	Price          float64 `json:"price"`
	InventoryCount int64   `json:"inventory_count"`
}

type UserRow struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type CompanyRow struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type SupplierRow struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type CategoryRow struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	ProductCount int64  `json:"product_count"`
}
