// Package invoice produces immutable point-in-time invoice records for
// approved orders. A snapshot is never re-derived once persisted.
package invoice

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"oms-backend/internal/model"
)

// Snapshotter generates and lists invoices for orders.
type Snapshotter struct {
	store    model.Store
	currency string
	log      *zap.Logger
	now      func() time.Time
}

// NewSnapshotter builds a snapshotter. currency is stamped into every
// snapshot document.
func NewSnapshotter(store model.Store, currency string, log *zap.Logger) *Snapshotter {
	return &Snapshotter{store: store, currency: currency, log: log, now: time.Now}
}

// Generate creates the next invoice for an APPROVED order. When the order
// has not changed since its latest invoice, that invoice is returned
// unchanged instead of minting a new number; created reports which case
// applied.
func (s *Snapshotter) Generate(orderID uint) (inv *model.Invoice, created bool, err error) {
	var result *model.Invoice
	minted := false
	err = s.store.Transaction(func(tx model.Store) error {
		order, err := tx.OrderForUpdate(orderID)
		if err != nil {
			return err
		}
		if order.Status != model.StatusApproved {
			return model.ErrOrderNotApproved
		}

		last, err := tx.LatestInvoice(order.ID)
		if err == nil && !order.UpdatedAt.After(last.CreatedAt) {
			result = last
			return nil
		}
		if err != nil && !errors.Is(err, model.ErrInvoiceNotFound) {
			return err
		}

		data, err := json.Marshal(s.buildSnapshot(order))
		if err != nil {
			return err
		}
		count, err := tx.CountInvoices(order.ID)
		if err != nil {
			return err
		}

		fresh := &model.Invoice{
			OrderID:       order.ID,
			InvoiceNumber: model.FormatInvoiceNumber(order.ID, int(count)+1),
			InvoiceData:   data,
		}
		if err := tx.CreateInvoice(fresh); err != nil {
			return err
		}

		s.log.Info("Invoice generated",
			zap.Uint("order_id", order.ID),
			zap.String("invoice_number", fresh.InvoiceNumber))
		result = fresh
		minted = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return result, minted, nil
}

// List returns an order's invoices, newest first.
func (s *Snapshotter) List(orderID uint) ([]model.Invoice, error) {
	if _, err := s.store.OrderByID(orderID); err != nil {
		return nil, err
	}
	return s.store.InvoicesByOrder(orderID)
}

func (s *Snapshotter) buildSnapshot(order *model.Order) model.InvoiceSnapshot {
	subtotal := model.Subtotal(order.Items)
	discountAmount := subtotal.Mul(order.DiscountPercentage).Div(decimal.NewFromInt(100)).Round(2)
	total := subtotal.Sub(discountAmount)

	snap := model.InvoiceSnapshot{
		OrderID:            order.ID,
		CustomerName:       "Guest",
		IssuedAt:           s.now().UTC().Format(time.RFC3339),
		Subtotal:           subtotal.StringFixed(2),
		DiscountPercentage: order.DiscountPercentage.String(),
		DiscountAmount:     discountAmount.StringFixed(2),
		Total:              total.StringFixed(2),
		Currency:           s.currency,
	}
	if order.Customer != nil {
		snap.CustomerName = order.Customer.Name
		snap.CustomerPhone = order.Customer.PhoneNumber
		snap.CustomerAddress = order.Customer.Address
	}
	if order.CreatedBy != nil {
		snap.SalesRep = order.CreatedBy.DisplayName()
	}

	for _, it := range order.Items {
		if it.Product == nil {
			continue
		}
		lineTotal := it.Product.SellingPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
		snap.Items = append(snap.Items, model.InvoiceSnapshotItem{
			SKU:       it.Product.SKU,
			Category:  string(it.Product.Category),
			Quantity:  it.Quantity,
			UnitPrice: it.Product.SellingPrice.StringFixed(2),
			Total:     lineTotal.StringFixed(2),
		})
	}
	return snap
}
