package memory

import (
	"sync"

	"oms-backend/internal/model"
)

// Store is an in-memory model.Store for local development and tests.
// A single mutex serializes transactions; Transaction snapshots the whole
// state and restores it when the callback fails, mirroring the rollback
// behavior of the postgres store.
type Store struct {
	mu sync.Mutex
	st *state
}

type state struct {
	products  map[uint]model.Product
	customers map[uint]model.Customer
	users     map[uint]model.User
	orders    map[uint]model.Order
	invoices  []model.Invoice

	nextProduct  uint
	nextCustomer uint
	nextUser     uint
	nextOrder    uint
	nextItem     uint
	nextInvoice  uint
}

// NewStore returns an empty in-memory store.
func NewStore() *Store {
	return &Store{st: &state{
		products:  make(map[uint]model.Product),
		customers: make(map[uint]model.Customer),
		users:     make(map[uint]model.User),
		orders:    make(map[uint]model.Order),
	}}
}

// Transaction serializes on the store mutex and rolls the state back if
// fn fails.
func (s *Store) Transaction(fn func(tx model.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.st.clone()
	if err := fn(&txStore{st: s.st}); err != nil {
		s.st = snap
		return err
	}
	return nil
}

// AddUser seeds a user and returns it with an assigned ID.
func (s *Store) AddUser(u model.User) model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.nextUser++
	u.ID = s.st.nextUser
	s.st.users[u.ID] = u
	return u
}

// AddCustomer seeds a customer and returns it with an assigned ID.
func (s *Store) AddCustomer(c model.Customer) model.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.nextCustomer++
	c.ID = s.st.nextCustomer
	s.st.customers[c.ID] = c
	return c
}

func (s *Store) ProductByID(id uint) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.productByID(id)
}

func (s *Store) ProductForUpdate(id uint) (*model.Product, error) {
	return s.ProductByID(id)
}

func (s *Store) SaveProduct(p *model.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.saveProduct(p)
}

func (s *Store) CustomerByID(id uint) (*model.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.customerByID(id)
}

func (s *Store) UserByID(id uint) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.userByID(id)
}

func (s *Store) OrderByID(id uint) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.orderByID(id)
}

func (s *Store) OrderForUpdate(id uint) (*model.Order, error) {
	return s.OrderByID(id)
}

func (s *Store) CreateOrder(o *model.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.createOrder(o)
}

func (s *Store) SaveOrder(o *model.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.saveOrder(o)
}

func (s *Store) ReplaceOrderItems(orderID uint, items []model.OrderItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.replaceOrderItems(orderID, items)
}

func (s *Store) InvoicesByOrder(orderID uint) ([]model.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.invoicesByOrder(orderID), nil
}

func (s *Store) LatestInvoice(orderID uint) (*model.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.latestInvoice(orderID)
}

func (s *Store) CountInvoices(orderID uint) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.countInvoices(orderID), nil
}

func (s *Store) CreateInvoice(inv *model.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.createInvoice(inv)
}

// txStore is the view handed to Transaction callbacks. The outer mutex is
// already held, so it delegates without locking.
type txStore struct {
	st *state
}

// Transaction on an open transaction just runs fn in place.
func (t *txStore) Transaction(fn func(tx model.Store) error) error { return fn(t) }

func (t *txStore) ProductByID(id uint) (*model.Product, error)      { return t.st.productByID(id) }
func (t *txStore) ProductForUpdate(id uint) (*model.Product, error) { return t.st.productByID(id) }
func (t *txStore) SaveProduct(p *model.Product) error               { return t.st.saveProduct(p) }
func (t *txStore) CustomerByID(id uint) (*model.Customer, error)    { return t.st.customerByID(id) }
func (t *txStore) UserByID(id uint) (*model.User, error)            { return t.st.userByID(id) }
func (t *txStore) OrderByID(id uint) (*model.Order, error)          { return t.st.orderByID(id) }
func (t *txStore) OrderForUpdate(id uint) (*model.Order, error)     { return t.st.orderByID(id) }
func (t *txStore) CreateOrder(o *model.Order) error                 { return t.st.createOrder(o) }
func (t *txStore) SaveOrder(o *model.Order) error                   { return t.st.saveOrder(o) }
func (t *txStore) ReplaceOrderItems(orderID uint, items []model.OrderItem) error {
	return t.st.replaceOrderItems(orderID, items)
}
func (t *txStore) InvoicesByOrder(orderID uint) ([]model.Invoice, error) {
	return t.st.invoicesByOrder(orderID), nil
}
func (t *txStore) LatestInvoice(orderID uint) (*model.Invoice, error) { return t.st.latestInvoice(orderID) }
func (t *txStore) CountInvoices(orderID uint) (int64, error)          { return t.st.countInvoices(orderID), nil }
func (t *txStore) CreateInvoice(inv *model.Invoice) error             { return t.st.createInvoice(inv) }
