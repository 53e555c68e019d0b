// File: internal/services/query/resolver.go
package query

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/multisolucioneslv/erp-assistant/internal/domain"
)

// Logger matches the services logging interface without importing it.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// Resolver runs the closed catalog of read-only aggregate queries. Every
// query except companies is scoped to the caller's tenant; returning rows
// from another tenant is a correctness violation, not a cosmetic bug.
type Resolver struct {
	db     *gorm.DB
	logger Logger
}

func NewResolver(db *gorm.DB, logger Logger) (*Resolver, error) {
	if db == nil {
		return nil, errors.New("query resolver requires a database handle")
	}
	return &Resolver{db: db, logger: logger}, nil
}

// Resolve dispatches a catalog name to its query. Unknown names yield an
// error; the dispatcher checks Known before calling.
func (r *Resolver) Resolve(ctx context.Context, tenantID uint, name string, params Params) (*Result, error) {
	if tenantID == 0 {
		return nil, errors.New("invalid tenant ID")
	}
	switch name {
	case CatalogSales:
		return r.TopSales(ctx, tenantID, params.Limit)
	case CatalogProducts:
		return r.Products(ctx, tenantID)
	case CatalogUsers:
		return r.Users(ctx, tenantID)
	case CatalogCompanies:
		return r.Companies(ctx)
	case CatalogSuppliers:
		return r.Suppliers(ctx, tenantID)
	case CatalogCategories:
		return r.Categories(ctx, tenantID)
	}
	return nil, fmt.Errorf("unknown catalog entry %q", name)
}

// TopSales returns the best-selling products by units sold across completed,
// non-deleted sales, joined through order lines and inventory.
func (r *Resolver) TopSales(ctx context.Context, tenantID uint, limit int) (*Result, error) {
	limit = ClampSalesLimit(limit)

	var rows []SalesRow
	err := r.db.WithContext(ctx).
		Table("sale_items").
		Select("products.id AS product_id, products.name AS product_name, "+
			"SUM(sale_items.quantity) AS total_sold, "+
			"SUM(sale_items.quantity * sale_items.unit_price) AS total_revenue, "+
			"AVG(sale_items.unit_price) AS avg_unit_price").
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Joins("JOIN inventories ON inventories.id = sale_items.inventory_id").
		Joins("JOIN products ON products.id = inventories.product_id").
		Where("sales.tenant_id = ? AND sales.status = ?", tenantID, domain.SaleStatusCompleted).
		Where("sales.deleted_at IS NULL AND products.deleted_at IS NULL").
		Group("products.id, products.name").
		Order("total_sold DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return &Result{Type: CatalogSales, Data: rows}, nil
}

// Products returns active products alphabetically with their inventory
// record counts.
func (r *Resolver) Products(ctx context.Context, tenantID uint) (*Result, error) {
	var rows []ProductRow
	err := r.db.WithContext(ctx).
		Table("products").
		Select("products.id, products.name, products.price, COUNT(inventories.id) AS inventory_count").
		Joins("LEFT JOIN inventories ON inventories.product_id = products.id AND inventories.deleted_at IS NULL").
		Where("products.tenant_id = ? AND products.status = ? AND products.deleted_at IS NULL",
			tenantID, domain.StatusActive).
		Group("products.id, products.name, products.price").
		Order("products.name ASC").
		Limit(MaxRows).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return &Result{Type: CatalogProducts, Data: rows}, nil
}

// Users returns the tenant's users, newest first.
func (r *Resolver) Users(ctx context.Context, tenantID uint) (*Result, error) {
	var rows []UserRow
	err := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Select("id, username, role, created_at").
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Limit(MaxRows).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return &Result{Type: CatalogUsers, Data: rows}, nil
}

// Companies is the one cross-tenant entry: the shared company directory.
func (r *Resolver) Companies(ctx context.Context) (*Result, error) {
	var rows []CompanyRow
	err := r.db.WithContext(ctx).
		Model(&domain.Company{}).
		Select("id, name").
		Where("status = ?", domain.StatusActive).
		Order("name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return &Result{Type: CatalogCompanies, Data: rows}, nil
}

func (r *Resolver) Suppliers(ctx context.Context, tenantID uint) (*Result, error) {
	var rows []SupplierRow
	err := r.db.WithContext(ctx).
		Model(&domain.Supplier{}).
		Select("id, name").
		Where("tenant_id = ?", tenantID).
		Order("name ASC").
		Limit(MaxRows).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return &Result{Type: CatalogSuppliers, Data: rows}, nil
}

// Categories returns the tenant's categories with per-category product
// counts.
func (r *Resolver) Categories(ctx context.Context, tenantID uint) (*Result, error) {
	var rows []CategoryRow
	err := r.db.WithContext(ctx).
		Table("categories").
		Select("categories.id, categories.name, COUNT(products.id) AS product_count").
		Joins("LEFT JOIN products ON products.category_id = categories.id AND products.deleted_at IS NULL").
		Where("categories.tenant_id = ? AND categories.deleted_at IS NULL", tenantID).
		Group("categories.id, categories.name").
		Order("categories.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return &Result{Type: CatalogCategories, Data: rows}, nil
}
