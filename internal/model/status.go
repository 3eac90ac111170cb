package model

import "fmt"

// OrderStatus is one of the fixed order lifecycle states.
type OrderStatus string

const (
	StatusDraft           OrderStatus = "DRAFT"
	StatusPendingApproval OrderStatus = "PENDING_APPROVAL"
	StatusApproved        OrderStatus = "APPROVED"
	StatusPacked          OrderStatus = "PACKED"
	StatusOutForDelivery  OrderStatus = "OUT_FOR_DELIVERY"
	StatusDelivered       OrderStatus = "DELIVERED"
	StatusRejected        OrderStatus = "REJECTED"
	StatusSettled         OrderStatus = "SETTLED"
)

// AllStatuses lists every recognized status.
var AllStatuses = []OrderStatus{
	StatusDraft,
	StatusPendingApproval,
	StatusApproved,
	StatusPacked,
	StatusOutForDelivery,
	StatusDelivered,
	StatusRejected,
	StatusSettled,
}

// holdingStates are statuses whose orders have their line quantities
// deducted from product stock. Every other valid status is free.
var holdingStates = map[OrderStatus]bool{
	StatusPendingApproval: true,
	StatusApproved:        true,
	StatusPacked:          true,
	StatusOutForDelivery:  true,
	StatusDelivered:       true,
	StatusSettled:         true,
}

// ParseStatus validates a raw status name.
func ParseStatus(raw string) (OrderStatus, error) {
	s := OrderStatus(raw)
	if !s.Valid() {
		return "", &ValidationError{Field: "status", Reason: fmt.Sprintf("invalid status: %s", raw)}
	}
	return s, nil
}

// Valid reports whether the status is a recognized lifecycle state.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPendingApproval, StatusApproved, StatusPacked,
		StatusOutForDelivery, StatusDelivered, StatusRejected, StatusSettled:
		return true
	}
	return false
}

// Holding reports whether orders in this status hold reserved stock.
func (s OrderStatus) Holding() bool {
	return holdingStates[s]
}
