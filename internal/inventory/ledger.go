// Package inventory owns product stock counters. Reserve and Release are
// the only code paths that move stock on behalf of orders; both read the
// product under a row lock so concurrent reservations on the same product
// serialize instead of racing a stale count.
package inventory

import "oms-backend/internal/model"

// Reserve deducts quantity from the product's stock. It fails with
// *model.InsufficientStockError, mutating nothing, when stock does not
// cover the request. Call inside a Store transaction.
func Reserve(store model.Store, productID uint, quantity int) error {
	p, err := store.ProductForUpdate(productID)
	if err != nil {
		return err
	}
	if p.StockQuantity < quantity {
		return &model.InsufficientStockError{
			ProductID:   p.ID,
			ProductName: p.Name,
			Requested:   quantity,
			Available:   p.StockQuantity,
		}
	}
	p.StockQuantity -= quantity
	return store.SaveProduct(p)
}

// Release restores quantity to the product's stock. The caller must
// release at most once per successful reserve.
func Release(store model.Store, productID uint, quantity int) error {
	p, err := store.ProductForUpdate(productID)
	if err != nil {
		return err
	}
	p.StockQuantity += quantity
	return store.SaveProduct(p)
}

// ReserveItems reserves stock for every order line. The first shortage
// aborts with the offending product; the surrounding transaction is
// expected to roll back any lines already deducted.
func ReserveItems(store model.Store, items []model.OrderItem) error {
	for _, it := range items {
		if err := Reserve(store, it.ProductID, it.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// ReleaseItems restores stock for every order line.
func ReleaseItems(store model.Store, items []model.OrderItem) error {
	for _, it := range items {
		if err := Release(store, it.ProductID, it.Quantity); err != nil {
			return err
		}
	}
	return nil
}
