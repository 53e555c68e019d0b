// File: internal/domain/business.go
package domain

import (
	"time"

	"gorm.io/gorm"
)

// Business records the query resolver reads. The assistant never writes to
// these tables; the generic ERP resource layer owns their lifecycle.

// Sale statuses.
const (
	SaleStatusPending   = "pending"
	SaleStatusCompleted = "completed"
	SaleStatusCancelled = "cancelled"
)

// Entity statuses shared by products and companies.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

type Product struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	TenantID   uint           `gorm:"not null;index" json:"tenant_id"`
	CategoryID uint           `gorm:"index" json:"category_id"`
	Name       string         `gorm:"not null;size:200" json:"name"`
	Status     string         `gorm:"size:20;default:active" json:"status"`
	Price      float64        `json:"price"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// Inventory ties a product to stock on hand; sale items reference inventory
// records rather than products directly.
type Inventory struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	TenantID  uint           `gorm:"not null;index" json:"tenant_id"`
	ProductID uint           `gorm:"not null;index" json:"product_id"`
	Quantity  int            `json:"quantity"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

type Sale struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	TenantID  uint           `gorm:"not null;index" json:"tenant_id"`
	Status    string         `gorm:"size:20;default:pending" json:"status"`
	Total     float64        `json:"total"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// SaleItem is one order line of a sale.
type SaleItem struct {
	ID          uint    `gorm:"primarykey" json:"id"`
	SaleID      uint    `gorm:"not null;index" json:"sale_id"`
	InventoryID uint    `gorm:"not null;index" json:"inventory_id"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

// Company is a directory entry; companies are cross-tenant by design and used
// for directory-style lookups.
type Company struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Name      string         `gorm:"not null;size:200" json:"name"`
	Status    string         `gorm:"size:20;default:active" json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

type Supplier struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	TenantID  uint           `gorm:"not null;index" json:"tenant_id"`
	Name      string         `gorm:"not null;size:200" json:"name"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

type Category struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	TenantID  uint           `gorm:"not null;index" json:"tenant_id"`
	Name      string         `gorm:"not null;size:200" json:"name"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
