// File: internal/services/query/resolver_test.go
package query

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/multisolucioneslv/erp-assistant/internal/domain"
)

type testLogger struct{}

func (testLogger) Info(string, ...interface{})  {}
func (testLogger) Error(string, ...interface{}) {}
func (testLogger) Debug(string, ...interface{}) {}
func (testLogger) Warn(string, ...interface{})  {}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&domain.Tenant{}, &domain.User{},
		&domain.Product{}, &domain.Inventory{}, &domain.Sale{}, &domain.SaleItem{},
		&domain.Company{}, &domain.Supplier{}, &domain.Category{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestResolver(t *testing.T, db *gorm.DB) *Resolver {
	t.Helper()
	r, err := NewResolver(db, testLogger{})
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}
	return r
}

// seedSales sets up two tenants with products, inventory and completed
// sales. Tenant 1 sells widgets and gadgets; tenant 2 sells gizmos.
func seedSales(t *testing.T, db *gorm.DB) {
	t.Helper()

	widget := domain.Product{TenantID: 1, Name: "Widget", Status: domain.StatusActive, Price: 10}
	gadget := domain.Product{TenantID: 1, Name: "Gadget", Status: domain.StatusActive, Price: 25}
	gizmo := domain.Product{TenantID: 2, Name: "Gizmo", Status: domain.StatusActive, Price: 5}
	for _, p := range []*domain.Product{&widget, &gadget, &gizmo} {
		if err := db.Create(p).Error; err != nil {
			t.Fatalf("seed product: %v", err)
		}
	}

	invWidget := domain.Inventory{TenantID: 1, ProductID: widget.ID, Quantity: 100}
	invGadget := domain.Inventory{TenantID: 1, ProductID: gadget.ID, Quantity: 100}
	invGizmo := domain.Inventory{TenantID: 2, ProductID: gizmo.ID, Quantity: 100}
	for _, inv := range []*domain.Inventory{&invWidget, &invGadget, &invGizmo} {
		if err := db.Create(inv).Error; err != nil {
			t.Fatalf("seed inventory: %v", err)
		}
	}

	completed := domain.Sale{TenantID: 1, Status: domain.SaleStatusCompleted}
	pending := domain.Sale{TenantID: 1, Status: domain.SaleStatusPending}
	other := domain.Sale{TenantID: 2, Status: domain.SaleStatusCompleted}
	for _, s := range []*domain.Sale{&completed, &pending, &other} {
		if err := db.Create(s).Error; err != nil {
			t.Fatalf("seed sale: %v", err)
		}
	}

	items := []domain.SaleItem{
		{SaleID: completed.ID, InventoryID: invWidget.ID, Quantity: 3, UnitPrice: 10},
		{SaleID: completed.ID, InventoryID: invGadget.ID, Quantity: 7, UnitPrice: 25},
		// Pending sales must not count toward the top sellers.
		{SaleID: pending.ID, InventoryID: invWidget.ID, Quantity: 99, UnitPrice: 10},
		{SaleID: other.ID, InventoryID: invGizmo.ID, Quantity: 50, UnitPrice: 5},
	}
	for i := range items {
		if err := db.Create(&items[i]).Error; err != nil {
			t.Fatalf("seed sale item: %v", err)
		}
	}
}

func TestTopSalesAggregation(t *testing.T) {
	db := openTestDB(t)
	seedSales(t, db)
	r := newTestResolver(t, db)

	result, err := r.TopSales(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("TopSales: %v", err)
	}
	rows, ok := result.Data.([]SalesRow)
	if !ok {
		t.Fatalf("unexpected data type %T", result.Data)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].ProductName != "Gadget" || rows[0].TotalSold != 7 {
		t.Errorf("top seller = %+v, want Gadget with 7 units", rows[0])
	}
	if rows[0].TotalRevenue != 175 {
		t.Errorf("Gadget revenue = %v, want 175", rows[0].TotalRevenue)
	}
	if rows[1].ProductName != "Widget" || rows[1].TotalSold != 3 {
		t.Errorf("second seller = %+v, want Widget with 3 units", rows[1])
	}
}

func TestTopSalesTenantIsolation(t *testing.T) {
	db := openTestDB(t)
	seedSales(t, db)
	r := newTestResolver(t, db)

	result, err := r.TopSales(context.Background(), 2, 10)
	if err != nil {
		t.Fatalf("TopSales: %v", err)
	}
	rows := result.Data.([]SalesRow)
	if len(rows) != 1 || rows[0].ProductName != "Gizmo" {
		t.Fatalf("tenant 2 rows = %+v, want only Gizmo", rows)
	}
}

func TestTopSalesLimitClamped(t *testing.T) {
	db := openTestDB(t)
	seedSales(t, db)
	r := newTestResolver(t, db)

	// Zero limit falls back to the default rather than returning nothing.
	result, err := r.TopSales(context.Background(), 1, 0)
	if err != nil {
		t.Fatalf("TopSales: %v", err)
	}
	if len(result.Data.([]SalesRow)) != 2 {
		t.Errorf("zero limit should use the default")
	}
}

func TestProductsExcludesInactiveAndOtherTenants(t *testing.T) {
	db := openTestDB(t)
	r := newTestResolver(t, db)

	seed := []domain.Product{
		{TenantID: 1, Name: "Bravo", Status: domain.StatusActive, Price: 2},
		{TenantID: 1, Name: "Alpha", Status: domain.StatusActive, Price: 1},
		{TenantID: 1, Name: "Retired", Status: domain.StatusInactive, Price: 3},
		{TenantID: 2, Name: "Foreign", Status: domain.StatusActive, Price: 4},
	}
	for i := range seed {
		if err := db.Create(&seed[i]).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	result, err := r.Products(context.Background(), 1)
	if err != nil {
		t.Fatalf("Products: %v", err)
	}
	rows := result.Data.([]ProductRow)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].Name != "Alpha" || rows[1].Name != "Bravo" {
		t.Errorf("rows not alphabetical: %+v", rows)
	}
}

func TestUsersScopedAndNewestFirst(t *testing.T) {
	db := openTestDB(t)
	r := newTestResolver(t, db)

	users := []domain.User{
		{TenantID: 1, Username: "ana", Password: "x", Role: domain.RoleMember},
		{TenantID: 1, Username: "beto", Password: "x", Role: domain.RoleTenantAdmin},
		{TenantID: 2, Username: "carla", Password: "x", Role: domain.RoleMember},
	}
	for i := range users {
		if err := db.Create(&users[i]).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	result, err := r.Users(context.Background(), 1)
	if err != nil {
		t.Fatalf("Users: %v", err)
	}
	rows := result.Data.([]UserRow)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	for _, row := range rows {
		if row.Username == "carla" {
			t.Errorf("tenant 2 user leaked into tenant 1 results")
		}
	}
}

func TestCompaniesAreCrossTenant(t *testing.T) {
	db := openTestDB(t)
	r := newTestResolver(t, db)

	companies := []domain.Company{
		{Name: "Zeta Corp", Status: domain.StatusActive},
		{Name: "Acme", Status: domain.StatusActive},
		{Name: "Ghost", Status: domain.StatusInactive},
	}
	for i := range companies {
		if err := db.Create(&companies[i]).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	result, err := r.Companies(context.Background())
	if err != nil {
		t.Fatalf("Companies: %v", err)
	}
	rows := result.Data.([]CompanyRow)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2 active companies", len(rows))
	}
	if rows[0].Name != "Acme" {
		t.Errorf("rows not alphabetical: %+v", rows)
	}
}

func TestCategoriesCountProducts(t *testing.T) {
	db := openTestDB(t)
	r := newTestResolver(t, db)

	hardware := domain.Category{TenantID: 1, Name: "Hardware"}
	empty := domain.Category{TenantID: 1, Name: "Empty"}
	foreign := domain.Category{TenantID: 2, Name: "Foreign"}
	for _, c := range []*domain.Category{&hardware, &empty, &foreign} {
		if err := db.Create(c).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	products := []domain.Product{
		{TenantID: 1, CategoryID: hardware.ID, Name: "Drill", Status: domain.StatusActive},
		{TenantID: 1, CategoryID: hardware.ID, Name: "Hammer", Status: domain.StatusActive},
	}
	for i := range products {
		if err := db.Create(&products[i]).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	result, err := r.Categories(context.Background(), 1)
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}
	rows := result.Data.([]CategoryRow)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	byName := map[string]int64{}
	for _, row := range rows {
		byName[row.Name] = row.ProductCount
	}
	if byName["Hardware"] != 2 {
		t.Errorf("Hardware count = %d, want 2", byName["Hardware"])
	}
	if byName["Empty"] != 0 {
		t.Errorf("Empty count = %d, want 0", byName["Empty"])
	}
}

func TestResolveRejectsUnknownCatalog(t *testing.T) {
	db := openTestDB(t)
	r := newTestResolver(t, db)

	if _, err := r.Resolve(context.Background(), 1, "secrets", Params{}); err == nil {
		t.Error("expected error for unknown catalog entry")
	}
	if _, err := r.Resolve(context.Background(), 0, CatalogProducts, Params{}); err == nil {
		t.Error("expected error for zero tenant ID")
	}
}
