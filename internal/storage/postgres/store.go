package postgres

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"oms-backend/internal/model"
)

// Store implements model.Store on top of gorm. Transactions map to
// database transactions and ForUpdate reads take row-level locks, which
// is what serializes concurrent stock reservations on the same product.
type Store struct {
	db *gorm.DB
}

// New wraps a gorm handle in a Store.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Transaction runs fn inside a database transaction. fn receives a Store
// bound to the transaction handle.
func (s *Store) Transaction(fn func(tx model.Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func (s *Store) ProductByID(id uint) (*model.Product, error) {
	var p model.Product
	if err := s.db.First(&p, id).Error; err != nil {
		return nil, notFound(err, model.ErrProductNotFound)
	}
	return &p, nil
}

// ProductForUpdate reads a product with SELECT ... FOR UPDATE. Must run
// inside a Transaction.
func (s *Store) ProductForUpdate(id uint) (*model.Product, error) {
	var p model.Product
	err := s.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, id).Error
	if err != nil {
		return nil, notFound(err, model.ErrProductNotFound)
	}
	return &p, nil
}

func (s *Store) SaveProduct(p *model.Product) error {
	return s.db.Save(p).Error
}

func (s *Store) CustomerByID(id uint) (*model.Customer, error) {
	var c model.Customer
	if err := s.db.First(&c, id).Error; err != nil {
		return nil, notFound(err, model.ErrCustomerNotFound)
	}
	return &c, nil
}

func (s *Store) UserByID(id uint) (*model.User, error) {
	var u model.User
	if err := s.db.First(&u, id).Error; err != nil {
		return nil, notFound(err, model.ErrUserNotFound)
	}
	return &u, nil
}

func (s *Store) OrderByID(id uint) (*model.Order, error) {
	return s.loadOrder(s.db, id)
}

// OrderForUpdate locks the order row for the transaction. Items and
// related rows are loaded without locks; products are locked individually
// by the inventory ledger when stock moves.
func (s *Store) OrderForUpdate(id uint) (*model.Order, error) {
	return s.loadOrder(s.db.Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (s *Store) loadOrder(db *gorm.DB, id uint) (*model.Order, error) {
	var o model.Order
	err := db.
		Preload("Items.Product").
		Preload("Customer").
		Preload("CreatedBy").
		First(&o, id).Error
	if err != nil {
		return nil, notFound(err, model.ErrOrderNotFound)
	}
	return &o, nil
}

// CreateOrder inserts the order and its items. Attached products,
// customer and creator are reference data and never written here.
func (s *Store) CreateOrder(o *model.Order) error {
	return s.db.Omit("Customer", "CreatedBy", "Items.Product").Create(o).Error
}

// SaveOrder persists the order's own columns. Items are managed through
// ReplaceOrderItems, so gorm association saves are skipped.
func (s *Store) SaveOrder(o *model.Order) error {
	return s.db.Omit(clause.Associations).Save(o).Error
}

func (s *Store) ReplaceOrderItems(orderID uint, items []model.OrderItem) error {
	if err := s.db.Where("order_id = ?", orderID).Delete(&model.OrderItem{}).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].ID = 0
		items[i].OrderID = orderID
	}
	if len(items) == 0 {
		return nil
	}
	return s.db.Omit("Product").Create(&items).Error
}

func (s *Store) InvoicesByOrder(orderID uint) ([]model.Invoice, error) {
	var invoices []model.Invoice
	err := s.db.
		Where("order_id = ?", orderID).
		Order("created_at DESC, id DESC").
		Find(&invoices).Error
	return invoices, err
}

func (s *Store) LatestInvoice(orderID uint) (*model.Invoice, error) {
	var inv model.Invoice
	err := s.db.
		Where("order_id = ?", orderID).
		Order("created_at DESC, id DESC").
		First(&inv).Error
	if err != nil {
		return nil, notFound(err, model.ErrInvoiceNotFound)
	}
	return &inv, nil
}

func (s *Store) CountInvoices(orderID uint) (int64, error) {
	var count int64
	err := s.db.Model(&model.Invoice{}).Where("order_id = ?", orderID).Count(&count).Error
	return count, err
}

func (s *Store) CreateInvoice(inv *model.Invoice) error {
	return s.db.Create(inv).Error
}

func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
