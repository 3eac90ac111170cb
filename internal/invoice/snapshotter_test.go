package invoice

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"oms-backend/internal/model"
	"oms-backend/internal/storage/memory"
)

type fixture struct {
	store  *memory.Store
	snap   *Snapshotter
	rep    model.User
	skuSeq int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	rep := store.AddUser(model.User{
		Username:  "rep",
		FirstName: "Mona",
		LastName:  "Hassan",
		Role:      model.RoleSalesRep,
	})
	return &fixture{
		store: store,
		snap:  NewSnapshotter(store, "EGP", zap.NewNop()),
		rep:   rep,
	}
}

type line struct {
	price string
	qty   int
}

func (f *fixture) addOrder(t *testing.T, status model.OrderStatus, discount string, customerID *uint, lines ...line) *model.Order {
	t.Helper()
	var items []model.OrderItem
	for _, ln := range lines {
		f.skuSeq++
		p := &model.Product{
			SKU:          fmt.Sprintf("SNAP-%d", f.skuSeq),
			Name:         "product",
			Category:     model.CategorySparePart,
			SellingPrice: decimal.RequireFromString(ln.price),
		}
		require.NoError(t, f.store.SaveProduct(p))
		items = append(items, model.OrderItem{ProductID: p.ID, Product: p, Quantity: ln.qty})
	}
	d := decimal.RequireFromString(discount)
	order := &model.Order{
		CustomerID:         customerID,
		Status:             status,
		DiscountPercentage: d,
		TotalAmount:        model.ComputeTotal(items, d),
		CreatedByID:        f.rep.ID,
		Items:              items,
	}
	require.NoError(t, f.store.CreateOrder(order))
	full, err := f.store.OrderByID(order.ID)
	require.NoError(t, err)
	return full
}

func TestGenerateRequiresApprovedOrder(t *testing.T) {
	f := newFixture(t)
	for _, status := range []model.OrderStatus{
		model.StatusDraft,
		model.StatusPendingApproval,
		model.StatusPacked,
		model.StatusDelivered,
		model.StatusSettled,
		model.StatusRejected,
	} {
		order := f.addOrder(t, status, "0", nil, line{"10.00", 1})
		_, _, err := f.snap.Generate(order.ID)
		assert.ErrorIs(t, err, model.ErrOrderNotApproved, "status %s", status)
	}
}

func TestGenerateUnknownOrder(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.snap.Generate(404)
	assert.ErrorIs(t, err, model.ErrOrderNotFound)
}

func TestGenerateSnapshotContents(t *testing.T) {
	f := newFixture(t)
	customer := f.store.AddCustomer(model.Customer{
		Name:        "ACME",
		PhoneNumber: "0100000000",
		Address:     "12 Nile St",
	})
	order := f.addOrder(t, model.StatusApproved, "10", &customer.ID, line{"100.00", 2})

	inv, created, err := f.snap.Generate(order.ID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, fmt.Sprintf("INV-%d-01", order.ID), inv.InvoiceNumber)

	var snap model.InvoiceSnapshot
	require.NoError(t, json.Unmarshal(inv.InvoiceData, &snap))
	assert.Equal(t, order.ID, snap.OrderID)
	assert.Equal(t, "ACME", snap.CustomerName)
	assert.Equal(t, "0100000000", snap.CustomerPhone)
	assert.Equal(t, "Mona Hassan", snap.SalesRep)
	assert.Equal(t, "200.00", snap.Subtotal)
	assert.Equal(t, "10", snap.DiscountPercentage)
	assert.Equal(t, "20.00", snap.DiscountAmount)
	assert.Equal(t, "180.00", snap.Total)
	assert.Equal(t, "EGP", snap.Currency)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, 2, snap.Items[0].Quantity)
	assert.Equal(t, "100.00", snap.Items[0].UnitPrice)
	assert.Equal(t, "200.00", snap.Items[0].Total)
}

func TestGenerateGuestFallback(t *testing.T) {
	f := newFixture(t)
	order := f.addOrder(t, model.StatusApproved, "0", nil, line{"10.00", 1})

	inv, _, err := f.snap.Generate(order.ID)
	require.NoError(t, err)

	var snap model.InvoiceSnapshot
	require.NoError(t, json.Unmarshal(inv.InvoiceData, &snap))
	assert.Equal(t, "Guest", snap.CustomerName)
	assert.Empty(t, snap.CustomerPhone)
}

func TestGenerateIsIdempotentForUnchangedOrder(t *testing.T) {
	f := newFixture(t)
	order := f.addOrder(t, model.StatusApproved, "0", nil, line{"50.00", 3})

	first, created, err := f.snap.Generate(order.ID)
	require.NoError(t, err)
	require.True(t, created)

	second, created, err := f.snap.Generate(order.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.InvoiceNumber, second.InvoiceNumber)

	count, err := f.store.CountInvoices(order.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestGenerateMintsNewNumberAfterOrderChange(t *testing.T) {
	f := newFixture(t)
	order := f.addOrder(t, model.StatusApproved, "0", nil, line{"50.00", 3})

	first, _, err := f.snap.Generate(order.ID)
	require.NoError(t, err)

	// Touch the order so its UpdatedAt moves past the invoice.
	time.Sleep(time.Millisecond)
	current, err := f.store.OrderByID(order.ID)
	require.NoError(t, err)
	current.DiscountPercentage = decimal.RequireFromString("5")
	require.NoError(t, f.store.SaveOrder(current))

	second, created, err := f.snap.Generate(order.ID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, model.FormatInvoiceNumber(order.ID, 2), second.InvoiceNumber)
}

func TestListNewestFirst(t *testing.T) {
	f := newFixture(t)
	order := f.addOrder(t, model.StatusApproved, "0", nil, line{"50.00", 1})

	first, _, err := f.snap.Generate(order.ID)
	require.NoError(t, err)

	time.Sleep(time.Millisecond)
	current, err := f.store.OrderByID(order.ID)
	require.NoError(t, err)
	require.NoError(t, f.store.SaveOrder(current))

	second, _, err := f.snap.Generate(order.ID)
	require.NoError(t, err)

	invoices, err := f.snap.List(order.ID)
	require.NoError(t, err)
	require.Len(t, invoices, 2)
	assert.Equal(t, second.ID, invoices[0].ID)
	assert.Equal(t, first.ID, invoices[1].ID)
}

func TestListUnknownOrder(t *testing.T) {
	f := newFixture(t)
	_, err := f.snap.List(404)
	assert.ErrorIs(t, err, model.ErrOrderNotFound)
}
