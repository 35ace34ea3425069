package restock

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tauheed2233/Grocery-Inventory-Management-System/internal/alerts"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/internal/ledger"
	product "github.com/tauheed2233/Grocery-Inventory-Management-System/internal/products"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/internal/suppliers"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/db"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/db/dbtest"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/db/models"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/enums"
	pkgerrors "github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/errors"
)

var fixedNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

type fixture struct {
	client    *db.Client
	svc       Service
	suppliers suppliers.Service
	products  product.Service
	ledger    ledger.Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	client := dbtest.New(t)

	supplierSvc, err := suppliers.NewService(client, nil, 3)
	require.NoError(t, err)
	productSvc, err := product.NewService(client, nil)
	require.NoError(t, err)
	ledgerSvc, err := ledger.NewService(ledger.ServiceParams{DB: client})
	require.NoError(t, err)
	evaluator, err := alerts.NewEvaluator(client, 0.5)
	require.NoError(t, err)

	svc, err := NewService(ServiceParams{
		Repo:        NewRepository(client.DB()),
		Tx:          client,
		Inventory:   ledgerSvc,
		Products:    product.NewRepository(client.DB()),
		Suppliers:   suppliers.NewRepository(client.DB()),
		Suggester:   evaluator,
		Operator:    "tester",
		DefaultLead: 3,
		Now:         func() time.Time { return fixedNow },
	})
	require.NoError(t, err)
	return fixture{client: client, svc: svc, suppliers: supplierSvc, products: productSvc, ledger: ledgerSvc}
}

func (f fixture) supplier(t *testing.T, name string, lead int) *models.Supplier {
	t.Helper()
	s, err := f.suppliers.Create(context.Background(), suppliers.CreateSupplierInput{Name: name, LeadTimeDays: &lead})
	require.NoError(t, err)
	return s
}

func (f fixture) product(t *testing.T, supplierID uuid.UUID, sku string, qty, threshold int, costCents int64) *models.Product {
	t.Helper()
	p, err := f.products.Create(context.Background(), product.CreateProductInput{
		SKU:              sku,
		Name:             "Item " + sku,
		SupplierID:       supplierID,
		PriceCents:       costCents * 2,
		CostCents:        costCents,
		Quantity:         qty,
		ReorderThreshold: threshold,
	})
	require.NoError(t, err)
	return p
}

func (f fixture) quantity(t *testing.T, id uuid.UUID) int {
	t.Helper()
	p, err := f.products.Get(context.Background(), id)
	require.NoError(t, err)
	return p.Quantity
}

func itemsByProduct(order *models.RestockOrder) map[uuid.UUID]models.RestockOrderItem {
	out := map[uuid.UUID]models.RestockOrderItem{}
	for _, item := range order.Items {
		out[item.ProductID] = item
	}
	return out
}

func TestCreateDraftSnapshotsCostAndTotals(t *testing.T) {
	f := newFixture(t)
	s := f.supplier(t, "Fresh Farms", 5)
	milk := f.product(t, s.ID, "MILK", 2, 5, 120)
	eggs := f.product(t, s.ID, "EGGS", 0, 4, 250)

	order, err := f.svc.CreateDraft(context.Background(), CreateDraftInput{
		SupplierID: s.ID,
		Items:      map[uuid.UUID]int{milk.ID: 10, eggs.ID: 4},
		Notes:      "weekly",
	})
	require.NoError(t, err)

	assert.Equal(t, enums.RestockOrderStatusDraft, order.Status)
	assert.Regexp(t, regexp.MustCompile(`^PO-20260301-[0-9A-F]{6}$`), order.OrderNumber)
	assert.Equal(t, int64(10*120+4*250), order.TotalCostCents)
	require.Len(t, order.Items, 2)
	items := itemsByProduct(order)
	assert.Equal(t, 10, items[milk.ID].QuantityOrdered)
	assert.Equal(t, int64(250), items[eggs.ID].UnitCostCents)
	require.NotNil(t, order.CreatedBy)
	assert.Equal(t, "tester", *order.CreatedBy)
	assert.Nil(t, order.SubmittedAt)
}

func TestCreateDraftValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.supplier(t, "Fresh Farms", 3)
	other := f.supplier(t, "Other Foods", 3)
	sleepy := f.supplier(t, "Sleepy Supplies", 3)
	p := f.product(t, s.ID, "MILK", 1, 5, 100)
	foreign := f.product(t, other.ID, "BREAD", 1, 5, 100)
	retired := f.product(t, s.ID, "OLD", 1, 5, 100)
	_, err := f.products.Deactivate(ctx, retired.ID)
	require.NoError(t, err)
	_, err = f.suppliers.Deactivate(ctx, sleepy.ID)
	require.NoError(t, err)

	cases := []struct {
		name  string
		input CreateDraftInput
		code  pkgerrors.Code
	}{
		{"unknown supplier", CreateDraftInput{SupplierID: uuid.New(), Items: map[uuid.UUID]int{p.ID: 1}}, pkgerrors.CodeNotFound},
		{"inactive supplier", CreateDraftInput{SupplierID: sleepy.ID, Items: map[uuid.UUID]int{p.ID: 1}}, pkgerrors.CodeValidation},
		{"no items", CreateDraftInput{SupplierID: s.ID}, pkgerrors.CodeValidation},
		{"zero quantity", CreateDraftInput{SupplierID: s.ID, Items: map[uuid.UUID]int{p.ID: 0}}, pkgerrors.CodeValidation},
		{"unknown product", CreateDraftInput{SupplierID: s.ID, Items: map[uuid.UUID]int{uuid.New(): 1}}, pkgerrors.CodeNotFound},
		{"other supplier's product", CreateDraftInput{SupplierID: s.ID, Items: map[uuid.UUID]int{foreign.ID: 1}}, pkgerrors.CodeValidation},
		{"inactive product", CreateDraftInput{SupplierID: s.ID, Items: map[uuid.UUID]int{retired.ID: 1}}, pkgerrors.CodeValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.CreateDraft(ctx, tc.input)
			require.Error(t, err)
			assert.Equal(t, tc.code, pkgerrors.CodeOf(err), "got %v", err)
		})
	}

	orders, err := f.svc.List(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestSubmitSetsExpectedDelivery(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.supplier(t, "Fresh Farms", 5)
	p := f.product(t, s.ID, "MILK", 1, 5, 100)

	draft, err := f.svc.CreateDraft(ctx, CreateDraftInput{SupplierID: s.ID, Items: map[uuid.UUID]int{p.ID: 3}})
	require.NoError(t, err)

	submitted, err := f.svc.Submit(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.RestockOrderStatusSubmitted, submitted.Status)
	require.NotNil(t, submitted.SubmittedAt)
	require.NotNil(t, submitted.ExpectedDelivery)
	assert.True(t, submitted.SubmittedAt.Equal(fixedNow))
	assert.True(t, submitted.ExpectedDelivery.Equal(fixedNow.AddDate(0, 0, 5)))
	assert.Nil(t, submitted.FulfilledAt)
}

func TestTransitionMatrix(t *testing.T) {
	actions := map[string]func(f fixture, id uuid.UUID) error{
		"submit": func(f fixture, id uuid.UUID) error {
			_, err := f.svc.Submit(context.Background(), id)
			return err
		},
		"fulfill": func(f fixture, id uuid.UUID) error {
			_, err := f.svc.Fulfill(context.Background(), id, nil)
			return err
		},
		"cancel": func(f fixture, id uuid.UUID) error {
			_, err := f.svc.Cancel(context.Background(), id, "changed plans")
			return err
		},
	}
	setup := map[enums.RestockOrderStatus][]string{
		enums.RestockOrderStatusDraft:     nil,
		enums.RestockOrderStatusSubmitted: {"submit"},
		enums.RestockOrderStatusFulfilled: {"submit", "fulfill"},
		enums.RestockOrderStatusCancelled: {"cancel"},
	}
	allowed := map[enums.RestockOrderStatus]map[string]bool{
		enums.RestockOrderStatusDraft:     {"submit": true, "cancel": true},
		enums.RestockOrderStatusSubmitted: {"fulfill": true, "cancel": true},
		enums.RestockOrderStatusFulfilled: {},
		enums.RestockOrderStatusCancelled: {},
	}

	for status, steps := range setup {
		for action, run := range actions {
			t.Run(string(status)+"/"+action, func(t *testing.T) {
				f := newFixture(t)
				s := f.supplier(t, "Fresh Farms", 3)
				p := f.product(t, s.ID, "MILK", 1, 5, 100)
				order, err := f.svc.CreateDraft(context.Background(), CreateDraftInput{SupplierID: s.ID, Items: map[uuid.UUID]int{p.ID: 2}})
				require.NoError(t, err)
				for _, step := range steps {
					require.NoError(t, actions[step](f, order.ID))
				}

				err = run(f, order.ID)
				if allowed[status][action] {
					require.NoError(t, err)
					return
				}
				require.Error(t, err)
				assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict), "got %v", err)

				reloaded, err := f.svc.Get(context.Background(), order.ID)
				require.NoError(t, err)
				assert.Equal(t, status, reloaded.Status)
			})
		}
	}
}

func TestFulfillRecordsOneReceiptPerLine(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.supplier(t, "Fresh Farms", 3)
	milk := f.product(t, s.ID, "MILK", 1, 5, 100)
	eggs := f.product(t, s.ID, "EGGS", 0, 5, 200)

	order, err := f.svc.CreateDraft(ctx, CreateDraftInput{SupplierID: s.ID, Items: map[uuid.UUID]int{milk.ID: 6, eggs.ID: 12}})
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, order.ID)
	require.NoError(t, err)

	fulfilled, err := f.svc.Fulfill(ctx, order.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, enums.RestockOrderStatusFulfilled, fulfilled.Status)
	require.NotNil(t, fulfilled.FulfilledAt)
	items := itemsByProduct(fulfilled)
	assert.Equal(t, 6, items[milk.ID].QuantityReceived)
	assert.Equal(t, 12, items[eggs.ID].QuantityReceived)

	assert.Equal(t, 7, f.quantity(t, milk.ID))
	assert.Equal(t, 12, f.quantity(t, eggs.ID))

	receipt := enums.MovementKindReceipt
	txns, err := f.ledger.History(ctx, ledger.HistoryFilter{Kind: &receipt})
	require.NoError(t, err)
	require.Len(t, txns, 2)
	for _, txn := range txns {
		require.NotNil(t, txn.Reference)
		assert.Equal(t, order.OrderNumber, *txn.Reference)
		assert.Equal(t, "tester", *txn.PerformedBy)
	}
}

func TestFulfillPartialReceipt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.supplier(t, "Fresh Farms", 3)
	a := f.product(t, s.ID, "A", 0, 5, 100)
	b := f.product(t, s.ID, "B", 0, 5, 100)
	c := f.product(t, s.ID, "C", 0, 5, 100)

	order, err := f.svc.CreateDraft(ctx, CreateDraftInput{SupplierID: s.ID, Items: map[uuid.UUID]int{a.ID: 5, b.ID: 5, c.ID: 5}})
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, order.ID)
	require.NoError(t, err)

	fulfilled, err := f.svc.Fulfill(ctx, order.ID, map[uuid.UUID]int{a.ID: 2, c.ID: 0})
	require.NoError(t, err)
	assert.Equal(t, enums.RestockOrderStatusFulfilled, fulfilled.Status)

	items := itemsByProduct(fulfilled)
	assert.Equal(t, 2, items[a.ID].QuantityReceived)
	assert.Equal(t, 5, items[b.ID].QuantityReceived)
	assert.Equal(t, 0, items[c.ID].QuantityReceived)
	assert.Equal(t, 2, f.quantity(t, a.ID))
	assert.Equal(t, 5, f.quantity(t, b.ID))
	assert.Equal(t, 0, f.quantity(t, c.ID))

	txns, err := f.ledger.History(ctx, ledger.HistoryFilter{})
	require.NoError(t, err)
	assert.Len(t, txns, 2)
}

func TestFulfillRejectsBadReceiptsAtomically(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.supplier(t, "Fresh Farms", 3)
	a := f.product(t, s.ID, "A", 1, 5, 100)
	b := f.product(t, s.ID, "B", 1, 5, 100)

	order, err := f.svc.CreateDraft(ctx, CreateDraftInput{SupplierID: s.ID, Items: map[uuid.UUID]int{a.ID: 4}})
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, order.ID)
	require.NoError(t, err)

	bad := map[string]map[uuid.UUID]int{
		"over receipt": {a.ID: 5},
		"negative":     {a.ID: -1},
		"not on order": {b.ID: 1},
	}
	for name, received := range bad {
		t.Run(name, func(t *testing.T) {
			_, err := f.svc.Fulfill(ctx, order.ID, received)
			assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "got %v", err)
		})
	}

	reloaded, err := f.svc.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.RestockOrderStatusSubmitted, reloaded.Status)
	assert.Equal(t, 1, f.quantity(t, a.ID))
}

func TestCancelRecordsReason(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.supplier(t, "Fresh Farms", 3)
	p := f.product(t, s.ID, "MILK", 1, 5, 100)

	order, err := f.svc.CreateDraft(ctx, CreateDraftInput{SupplierID: s.ID, Items: map[uuid.UUID]int{p.ID: 2}})
	require.NoError(t, err)
	cancelled, err := f.svc.Cancel(ctx, order.ID, "supplier closed")
	require.NoError(t, err)
	assert.Equal(t, enums.RestockOrderStatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelReason)
	assert.Equal(t, "supplier closed", *cancelled.CancelReason)
	require.NotNil(t, cancelled.CancelledAt)

	_, err = f.svc.Cancel(ctx, uuid.New(), "")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestResolveAndList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.supplier(t, "A Foods", 3)
	b := f.supplier(t, "B Foods", 3)
	pa := f.product(t, a.ID, "PA", 1, 5, 100)
	pb := f.product(t, b.ID, "PB", 1, 5, 100)

	first, err := f.svc.CreateDraft(ctx, CreateDraftInput{SupplierID: a.ID, Items: map[uuid.UUID]int{pa.ID: 1}})
	require.NoError(t, err)
	_, err = f.svc.CreateDraft(ctx, CreateDraftInput{SupplierID: b.ID, Items: map[uuid.UUID]int{pb.ID: 1}})
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, first.ID)
	require.NoError(t, err)

	byNumber, err := f.svc.Resolve(ctx, first.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, first.ID, byNumber.ID)

	submitted := enums.RestockOrderStatusSubmitted
	orders, err := f.svc.List(ctx, ListFilter{Status: &submitted})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, first.ID, orders[0].ID)

	bOrders, err := f.svc.List(ctx, ListFilter{SupplierID: &b.ID})
	require.NoError(t, err)
	require.Len(t, bOrders, 1)
	require.Len(t, bOrders[0].Items, 1)

	_, err = f.svc.Resolve(ctx, "PO-19990101-ABCDEF")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestAutoDraftGroupsBySupplierAndSkipsOpenOrders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.supplier(t, "A Foods", 3)
	b := f.supplier(t, "B Foods", 3)
	closed := f.supplier(t, "Closed Co", 3)

	a1 := f.product(t, a.ID, "A1", 0, 5, 100)
	a2 := f.product(t, a.ID, "A2", 2, 5, 100)
	f.product(t, a.ID, "A3", 9, 5, 100)
	b1 := f.product(t, b.ID, "B1", 1, 4, 100)
	c1 := f.product(t, closed.ID, "C1", 0, 4, 100)
	_, err := f.suppliers.Deactivate(ctx, closed.ID)
	require.NoError(t, err)

	_, err = f.svc.CreateDraft(ctx, CreateDraftInput{SupplierID: b.ID, Items: map[uuid.UUID]int{b1.ID: 3}})
	require.NoError(t, err)

	result, err := f.svc.AutoDraft(ctx)
	require.NoError(t, err)
	require.Len(t, result.Orders, 1)
	draft := result.Orders[0]
	assert.Equal(t, a.ID, draft.SupplierID)
	items := itemsByProduct(&draft)
	assert.Equal(t, 10, items[a1.ID].QuantityOrdered)
	assert.Equal(t, 8, items[a2.ID].QuantityOrdered)
	assert.Len(t, items, 2)
	assert.Equal(t, "already on an open order", result.Skipped[b1.ID])
	assert.Equal(t, "supplier inactive", result.Skipped[c1.ID])

	again, err := f.svc.AutoDraft(ctx)
	require.NoError(t, err)
	assert.Empty(t, again.Orders)
}
