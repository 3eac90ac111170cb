package model

// Store is the persistence port the core operates against. The postgres
// implementation backs it with gorm; the memory implementation backs
// tests. Transaction runs fn against a transactional view of the store
// and rolls every change back if fn returns an error.
//
// ForUpdate variants read with the row locked for the remainder of the
// surrounding transaction, so concurrent operations on the same order or
// product serialize instead of racing a stale read.
type Store interface {
	Transaction(fn func(tx Store) error) error

	ProductByID(id uint) (*Product, error)
	ProductForUpdate(id uint) (*Product, error)
	SaveProduct(p *Product) error

	CustomerByID(id uint) (*Customer, error)
	UserByID(id uint) (*User, error)

	// OrderByID and OrderForUpdate return the order with its items,
	// item products, customer and creator attached.
	OrderByID(id uint) (*Order, error)
	OrderForUpdate(id uint) (*Order, error)
	CreateOrder(o *Order) error
	SaveOrder(o *Order) error
	// ReplaceOrderItems deletes the order's current lines and inserts
	// the given ones.
	ReplaceOrderItems(orderID uint, items []OrderItem) error

	// InvoicesByOrder returns invoices newest first.
	InvoicesByOrder(orderID uint) ([]Invoice, error)
	LatestInvoice(orderID uint) (*Invoice, error)
	CountInvoices(orderID uint) (int64, error)
	CreateInvoice(inv *Invoice) error
}
