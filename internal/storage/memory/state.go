package memory

import (
	"sort"
	"time"

	"oms-backend/internal/model"
)

func (st *state) clone() *state {
	cp := &state{
		products:     make(map[uint]model.Product, len(st.products)),
		customers:    make(map[uint]model.Customer, len(st.customers)),
		users:        make(map[uint]model.User, len(st.users)),
		orders:       make(map[uint]model.Order, len(st.orders)),
		invoices:     make([]model.Invoice, len(st.invoices)),
		nextProduct:  st.nextProduct,
		nextCustomer: st.nextCustomer,
		nextUser:     st.nextUser,
		nextOrder:    st.nextOrder,
		nextItem:     st.nextItem,
		nextInvoice:  st.nextInvoice,
	}
	for id, p := range st.products {
		cp.products[id] = p
	}
	for id, c := range st.customers {
		cp.customers[id] = c
	}
	for id, u := range st.users {
		cp.users[id] = u
	}
	for id, o := range st.orders {
		cp.orders[id] = cloneOrder(o)
	}
	copy(cp.invoices, st.invoices)
	return cp
}

// Orders are stored bare (no attached relations) and resolved on read so
// callers never alias stored state.
func cloneOrder(o model.Order) model.Order {
	items := make([]model.OrderItem, len(o.Items))
	copy(items, o.Items)
	for i := range items {
		items[i].Product = nil
	}
	o.Items = items
	o.Customer = nil
	o.CreatedBy = nil
	return o
}

func (st *state) productByID(id uint) (*model.Product, error) {
	p, ok := st.products[id]
	if !ok {
		return nil, model.ErrProductNotFound
	}
	return &p, nil
}

func (st *state) saveProduct(p *model.Product) error {
	now := time.Now()
	if p.ID == 0 {
		st.nextProduct++
		p.ID = st.nextProduct
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	st.products[p.ID] = *p
	return nil
}

func (st *state) customerByID(id uint) (*model.Customer, error) {
	c, ok := st.customers[id]
	if !ok {
		return nil, model.ErrCustomerNotFound
	}
	return &c, nil
}

func (st *state) userByID(id uint) (*model.User, error) {
	u, ok := st.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return &u, nil
}

func (st *state) orderByID(id uint) (*model.Order, error) {
	o, ok := st.orders[id]
	if !ok {
		return nil, model.ErrOrderNotFound
	}
	out := cloneOrder(o)
	for i := range out.Items {
		if p, ok := st.products[out.Items[i].ProductID]; ok {
			prod := p
			out.Items[i].Product = &prod
		}
	}
	if out.CustomerID != nil {
		if c, ok := st.customers[*out.CustomerID]; ok {
			cust := c
			out.Customer = &cust
		}
	}
	if u, ok := st.users[out.CreatedByID]; ok {
		creator := u
		out.CreatedBy = &creator
	}
	return &out, nil
}

func (st *state) createOrder(o *model.Order) error {
	now := time.Now()
	st.nextOrder++
	o.ID = st.nextOrder
	o.CreatedAt = now
	o.UpdatedAt = now
	for i := range o.Items {
		st.nextItem++
		o.Items[i].ID = st.nextItem
		o.Items[i].OrderID = o.ID
	}
	st.orders[o.ID] = cloneOrder(*o)
	return nil
}

func (st *state) saveOrder(o *model.Order) error {
	stored, ok := st.orders[o.ID]
	if !ok {
		return model.ErrOrderNotFound
	}
	o.UpdatedAt = time.Now()
	updated := cloneOrder(*o)
	// Items are replaced through replaceOrderItems only.
	updated.Items = stored.Items
	st.orders[o.ID] = updated
	return nil
}

func (st *state) replaceOrderItems(orderID uint, items []model.OrderItem) error {
	o, ok := st.orders[orderID]
	if !ok {
		return model.ErrOrderNotFound
	}
	fresh := make([]model.OrderItem, len(items))
	copy(fresh, items)
	for i := range fresh {
		st.nextItem++
		fresh[i].ID = st.nextItem
		fresh[i].OrderID = orderID
		fresh[i].Product = nil
	}
	o.Items = fresh
	st.orders[orderID] = o
	return nil
}

func (st *state) invoicesByOrder(orderID uint) []model.Invoice {
	var out []model.Invoice
	for _, inv := range st.invoices {
		if inv.OrderID == orderID {
			out = append(out, inv)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (st *state) latestInvoice(orderID uint) (*model.Invoice, error) {
	invoices := st.invoicesByOrder(orderID)
	if len(invoices) == 0 {
		return nil, model.ErrInvoiceNotFound
	}
	return &invoices[0], nil
}

func (st *state) countInvoices(orderID uint) int64 {
	var n int64
	for _, inv := range st.invoices {
		if inv.OrderID == orderID {
			n++
		}
	}
	return n
}

func (st *state) createInvoice(inv *model.Invoice) error {
	st.nextInvoice++
	inv.ID = st.nextInvoice
	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = time.Now()
	}
	st.invoices = append(st.invoices, *inv)
	return nil
}
