package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductCategory classifies products for reporting and invoices.
type ProductCategory string

const (
	CategorySparePart   ProductCategory = "SPARE_PART"
	CategoryAccessories ProductCategory = "ACCESSORIES"
	CategoryOthers      ProductCategory = "OTHERS"
)

// Product represents the product master data. StockQuantity is mutated
// only through the inventory ledger and direct administrative edits.
type Product struct {
	ID            uint            `json:"id" gorm:"primarykey"`
	SKU           string          `json:"sku" gorm:"type:varchar(50);uniqueIndex;not null"`
	Name          string          `json:"name" gorm:"type:varchar(255);not null"`
	Description   string          `json:"description" gorm:"type:text"`
	StockQuantity int             `json:"stock_quantity" gorm:"not null;default:0;check:stock_quantity >= 0"`
	CostPrice     decimal.Decimal `json:"cost_price" gorm:"type:decimal(10,2);not null"`
	SellingPrice  decimal.Decimal `json:"selling_price" gorm:"type:decimal(10,2);not null"`
	Category      ProductCategory `json:"category" gorm:"type:varchar(50);not null;default:'OTHERS'"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	// LockedStock is the quantity currently reserved by orders in
	// PENDING_APPROVAL or APPROVED. Derived at query time, never stored.
	LockedStock int `json:"locked_stock" gorm:"->;-:migration"`
}
