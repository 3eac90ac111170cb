package orders

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"oms-backend/internal/model"
	"oms-backend/internal/storage/memory"
)

type fixture struct {
	store    *memory.Store
	svc      *Service
	admin    model.Actor
	rep      model.Actor
	otherRep model.Actor
	customer model.Customer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	admin := store.AddUser(model.User{Username: "boss", Role: model.RoleAdmin})
	rep := store.AddUser(model.User{Username: "rep", Role: model.RoleSalesRep})
	other := store.AddUser(model.User{Username: "rep2", Role: model.RoleSalesRep})
	customer := store.AddCustomer(model.Customer{Name: "ACME", City: "Cairo"})
	return &fixture{
		store:    store,
		svc:      NewService(store, zap.NewNop()),
		admin:    model.Actor{UserID: admin.ID, Username: admin.Username, Role: admin.Role},
		rep:      model.Actor{UserID: rep.ID, Username: rep.Username, Role: rep.Role},
		otherRep: model.Actor{UserID: other.ID, Username: other.Username, Role: other.Role},
		customer: customer,
	}
}

func (f *fixture) addProduct(t *testing.T, sku string, stock int, price string) *model.Product {
	t.Helper()
	p := &model.Product{
		SKU:           sku,
		Name:          "product " + sku,
		StockQuantity: stock,
		SellingPrice:  decimal.RequireFromString(price),
	}
	require.NoError(t, f.store.SaveProduct(p))
	return p
}

func (f *fixture) stock(t *testing.T, productID uint) int {
	t.Helper()
	p, err := f.store.ProductByID(productID)
	require.NoError(t, err)
	return p.StockQuantity
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCreateDraftOrder(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "W-1", 10, "100.00")

	order, err := f.svc.Create(CreateInput{
		CustomerID:         &f.customer.ID,
		DiscountPercentage: dec("0"),
		Items:              []LineInput{{ProductID: p.ID, Quantity: 2}},
		Status:             "DRAFT",
	}, f.rep)
	require.NoError(t, err)

	assert.Equal(t, model.StatusDraft, order.Status)
	assert.True(t, order.TotalAmount.Equal(dec("200")), "total %s", order.TotalAmount)
	assert.Equal(t, f.rep.UserID, order.CreatedByID)
	// Draft orders reserve nothing.
	assert.Equal(t, 10, f.stock(t, p.ID))
}

func TestCreateDefaultsToPendingApprovalAndReserves(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "W-2", 10, "50.00")

	order, err := f.svc.Create(CreateInput{
		DiscountPercentage: dec("0"),
		Items:              []LineInput{{ProductID: p.ID, Quantity: 3}},
	}, f.rep)
	require.NoError(t, err)

	assert.Equal(t, model.StatusPendingApproval, order.Status)
	assert.Equal(t, 7, f.stock(t, p.ID))
}

func TestCreateWithDiscount(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "W-3", 10, "100.00")

	order, err := f.svc.Create(CreateInput{
		DiscountPercentage: dec("10"),
		Items:              []LineInput{{ProductID: p.ID, Quantity: 2}},
		Status:             "DRAFT",
	}, f.rep)
	require.NoError(t, err)
	assert.True(t, order.TotalAmount.Equal(dec("180")), "total %s", order.TotalAmount)
}

func TestCreateInsufficientStockRollsBack(t *testing.T) {
	f := newFixture(t)
	plenty := f.addProduct(t, "W-4", 100, "10.00")
	scarce := f.addProduct(t, "W-5", 1, "10.00")

	_, err := f.svc.Create(CreateInput{
		DiscountPercentage: dec("0"),
		Items: []LineInput{
			{ProductID: plenty.ID, Quantity: 5},
			{ProductID: scarce.ID, Quantity: 2},
		},
	}, f.rep)
	require.Error(t, err)
	assert.True(t, model.IsInsufficientStock(err))

	assert.Equal(t, 100, f.stock(t, plenty.ID))
	assert.Equal(t, 1, f.stock(t, scarce.ID))
}

func TestCreateDraftRejectsQuantityBeyondStock(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "W-11", 3, "10.00")

	// Drafts reserve nothing, but a line no stock could ever cover is
	// still rejected up front.
	_, err := f.svc.Create(CreateInput{
		DiscountPercentage: dec("0"),
		Items:              []LineInput{{ProductID: p.ID, Quantity: 4}},
		Status:             "DRAFT",
	}, f.rep)
	require.Error(t, err)
	assert.True(t, model.IsInsufficientStock(err))
	assert.Equal(t, 3, f.stock(t, p.ID))

	_, err = f.store.OrderByID(1)
	assert.ErrorIs(t, err, model.ErrOrderNotFound)
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "W-6", 10, "10.00")

	tests := []struct {
		name string
		in   CreateInput
	}{
		{"no items", CreateInput{DiscountPercentage: dec("0")}},
		{"zero quantity", CreateInput{Items: []LineInput{{ProductID: p.ID, Quantity: 0}}}},
		{"negative discount", CreateInput{DiscountPercentage: dec("-1"), Items: []LineInput{{ProductID: p.ID, Quantity: 1}}}},
		{"discount above 100", CreateInput{DiscountPercentage: dec("101"), Items: []LineInput{{ProductID: p.ID, Quantity: 1}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(tt.in, f.rep)
			var verr *model.ValidationError
			require.ErrorAs(t, err, &verr)
		})
	}
}

func TestCreateOwnerRules(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "W-7", 10, "10.00")
	line := []LineInput{{ProductID: p.ID, Quantity: 1}}

	// Admin can assign ownership to another user.
	order, err := f.svc.Create(CreateInput{Items: line, Status: "DRAFT", CreatedBy: f.rep.UserID}, f.admin)
	require.NoError(t, err)
	assert.Equal(t, f.rep.UserID, order.CreatedByID)

	// A sales rep cannot.
	_, err = f.svc.Create(CreateInput{Items: line, Status: "DRAFT", CreatedBy: f.otherRep.UserID}, f.rep)
	var authErr *model.AuthorizationError
	require.ErrorAs(t, err, &authErr)
}

func TestCreateUnknownCustomer(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "W-8", 10, "10.00")
	missing := uint(99)

	_, err := f.svc.Create(CreateInput{
		CustomerID: &missing,
		Items:      []LineInput{{ProductID: p.ID, Quantity: 1}},
	}, f.rep)
	assert.ErrorIs(t, err, model.ErrCustomerNotFound)
}

func TestUpdateRecomputesTotalOnDiscountChange(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "W-9", 10, "100.00")

	order, err := f.svc.Create(CreateInput{
		Items:  []LineInput{{ProductID: p.ID, Quantity: 2}},
		Status: "DRAFT",
	}, f.rep)
	require.NoError(t, err)
	require.True(t, order.TotalAmount.Equal(dec("200")))

	discount := dec("25")
	updated, err := f.svc.Update(order.ID, UpdateInput{DiscountPercentage: &discount}, f.rep)
	require.NoError(t, err)
	assert.True(t, updated.TotalAmount.Equal(dec("150")), "total %s", updated.TotalAmount)
}

func TestUpdateReplacesLinesOnHoldingOrder(t *testing.T) {
	f := newFixture(t)
	old := f.addProduct(t, "OLD", 10, "10.00")
	new_ := f.addProduct(t, "NEW", 10, "20.00")

	order, err := f.svc.Create(CreateInput{
		Items: []LineInput{{ProductID: old.ID, Quantity: 4}},
	}, f.admin)
	require.NoError(t, err)
	require.Equal(t, 6, f.stock(t, old.ID))

	items := []LineInput{{ProductID: new_.ID, Quantity: 2}}
	updated, err := f.svc.Update(order.ID, UpdateInput{Items: &items}, f.admin)
	require.NoError(t, err)

	// Old reservation released, new one taken, total recomputed.
	assert.Equal(t, 10, f.stock(t, old.ID))
	assert.Equal(t, 8, f.stock(t, new_.ID))
	assert.True(t, updated.TotalAmount.Equal(dec("40")), "total %s", updated.TotalAmount)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, new_.ID, updated.Items[0].ProductID)
}

func TestUpdateReplacementShortageRollsBackEverything(t *testing.T) {
	f := newFixture(t)
	old := f.addProduct(t, "OLD-2", 10, "10.00")
	scarce := f.addProduct(t, "SCARCE-2", 1, "10.00")

	order, err := f.svc.Create(CreateInput{
		Items: []LineInput{{ProductID: old.ID, Quantity: 4}},
	}, f.admin)
	require.NoError(t, err)
	require.Equal(t, 6, f.stock(t, old.ID))

	items := []LineInput{{ProductID: scarce.ID, Quantity: 5}}
	_, err = f.svc.Update(order.ID, UpdateInput{Items: &items}, f.admin)
	require.Error(t, err)
	assert.True(t, model.IsInsufficientStock(err))

	// The ledger looks as if the replacement never happened: the old
	// line's stock is still held, the scarce product untouched.
	assert.Equal(t, 6, f.stock(t, old.ID))
	assert.Equal(t, 1, f.stock(t, scarce.ID))

	current, err := f.store.OrderByID(order.ID)
	require.NoError(t, err)
	require.Len(t, current.Items, 1)
	assert.Equal(t, old.ID, current.Items[0].ProductID)
}

func TestUpdateSalesRepRestrictions(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "W-10", 10, "10.00")

	// Own draft order: allowed.
	draft, err := f.svc.Create(CreateInput{
		Items:  []LineInput{{ProductID: p.ID, Quantity: 1}},
		Status: "DRAFT",
	}, f.rep)
	require.NoError(t, err)
	discount := dec("5")
	_, err = f.svc.Update(draft.ID, UpdateInput{DiscountPercentage: &discount}, f.rep)
	require.NoError(t, err)

	// Another rep's order: hidden behind an authorization error.
	_, err = f.svc.Update(draft.ID, UpdateInput{DiscountPercentage: &discount}, f.otherRep)
	var authErr *model.AuthorizationError
	require.ErrorAs(t, err, &authErr)

	// Own order past DRAFT: no longer editable by a sales rep.
	pending, err := f.svc.Create(CreateInput{
		Items: []LineInput{{ProductID: p.ID, Quantity: 1}},
	}, f.rep)
	require.NoError(t, err)
	_, err = f.svc.Update(pending.ID, UpdateInput{DiscountPercentage: &discount}, f.rep)
	require.ErrorAs(t, err, &authErr)

	// Admin may edit it regardless.
	_, err = f.svc.Update(pending.ID, UpdateInput{DiscountPercentage: &discount}, f.admin)
	require.NoError(t, err)
}

func TestUpdateUnknownOrder(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Update(404, UpdateInput{}, f.admin)
	assert.ErrorIs(t, err, model.ErrOrderNotFound)
}
