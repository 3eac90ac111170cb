package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order aggregates a customer's line items, lifecycle status and total.
// The status is the sole authority on whether line quantities are
// currently deducted from product stock.
type Order struct {
	ID                 uint            `json:"id" gorm:"primarykey"`
	CustomerID         *uint           `json:"customer" gorm:"index"`
	Customer           *Customer       `json:"-" gorm:"foreignKey:CustomerID"`
	Status             OrderStatus     `json:"status" gorm:"type:varchar(30);not null;default:'DRAFT';index"`
	TotalAmount        decimal.Decimal `json:"total_amount" gorm:"type:decimal(12,2);not null;default:0"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage" gorm:"type:decimal(5,2);not null;default:0"`
	CreatedByID        uint            `json:"created_by" gorm:"index;not null"`
	CreatedBy          *User           `json:"-" gorm:"foreignKey:CreatedByID"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	Items              []OrderItem     `json:"items" gorm:"foreignKey:OrderID"`
}

// OrderItem is one order line. Lines are replaced wholesale on update,
// never patched individually.
type OrderItem struct {
	ID        uint     `json:"id" gorm:"primarykey"`
	OrderID   uint     `json:"-" gorm:"index;not null"`
	ProductID uint     `json:"product" gorm:"index;not null"`
	Product   *Product `json:"-" gorm:"foreignKey:ProductID"`
	Quantity  int      `json:"quantity" gorm:"not null;check:quantity > 0"`
}

// Subtotal sums selling_price x quantity over the given items. Prices are
// read from the attached products, so callers must preload them.
func Subtotal(items []OrderItem) decimal.Decimal {
	subtotal := decimal.Zero
	for _, it := range items {
		if it.Product == nil {
			continue
		}
		line := it.Product.SellingPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
		subtotal = subtotal.Add(line)
	}
	return subtotal
}

// ComputeTotal applies the global order discount to the items' subtotal
// and rounds to 2 decimal places.
func ComputeTotal(items []OrderItem, discountPercentage decimal.Decimal) decimal.Decimal {
	multiplier := decimal.NewFromInt(1).Sub(discountPercentage.Div(decimal.NewFromInt(100)))
	return Subtotal(items).Mul(multiplier).Round(2)
}
