package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer is referenced by orders and immutable from the core's perspective.
type Customer struct {
	ID          uint      `json:"id" gorm:"primarykey"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null"`
	City        string    `json:"city" gorm:"type:varchar(50)"`
	Address     string    `json:"address" gorm:"type:text"`
	PhoneNumber string    `json:"phone_number" gorm:"type:varchar(20)"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// TotalPurchases is the summed total_amount of this customer's
	// DELIVERED and SETTLED orders. Derived at query time.
	TotalPurchases decimal.Decimal `json:"total_purchases" gorm:"->;-:migration"`
}
