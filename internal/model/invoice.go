package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Invoice is an immutable point-in-time snapshot of an approved order.
// InvoiceData is an opaque document, never re-derived after creation.
type Invoice struct {
	ID            uint            `json:"id" gorm:"primarykey"`
	OrderID       uint            `json:"order" gorm:"index;not null"`
	InvoiceNumber string          `json:"invoice_number" gorm:"type:varchar(50);not null"`
	CreatedAt     time.Time       `json:"created_at"`
	InvoiceData   json.RawMessage `json:"invoice_data" gorm:"type:jsonb;not null"`
}

// FormatInvoiceNumber formats the sequential invoice number for an order.
func FormatInvoiceNumber(orderID uint, sequence int) string {
	return fmt.Sprintf("INV-%d-%02d", orderID, sequence)
}

// InvoiceSnapshot is the document persisted as InvoiceData. Monetary
// values are serialized as strings to keep the snapshot stable.
type InvoiceSnapshot struct {
	OrderID            uint                  `json:"order_id"`
	CustomerName       string                `json:"customer_name"`
	CustomerPhone      string                `json:"customer_phone"`
	CustomerAddress    string                `json:"customer_address"`
	SalesRep           string                `json:"sales_rep"`
	IssuedAt           string                `json:"issued_at"`
	Items              []InvoiceSnapshotItem `json:"items"`
	Subtotal           string                `json:"subtotal"`
	DiscountPercentage string                `json:"discount_percentage"`
	DiscountAmount     string                `json:"discount_amount"`
	Total              string                `json:"total"`
	Currency           string                `json:"currency"`
}

// InvoiceSnapshotItem is one frozen order line inside a snapshot.
type InvoiceSnapshotItem struct {
	SKU       string `json:"sku"`
	Category  string `json:"category"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Total     string `json:"total"`
}
