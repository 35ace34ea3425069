package alerts

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tauheed2233/Grocery-Inventory-Management-System/internal/ledger"
	product "github.com/tauheed2233/Grocery-Inventory-Management-System/internal/products"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/internal/suppliers"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/db"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/db/dbtest"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/db/models"
)

type fakeNotifier struct {
	mu   sync.Mutex
	sent []Notification
	err  error
}

func (f *fakeNotifier) Name() string { return "fake" }

func (f *fakeNotifier) Notify(_ context.Context, n Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, n)
	return f.err
}

type fixture struct {
	client    *db.Client
	products  product.Service
	evaluator *Evaluator
	supplier  *models.Supplier
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	client := dbtest.New(t)

	supplierSvc, err := suppliers.NewService(client, nil, 3)
	require.NoError(t, err)
	supplier, err := supplierSvc.Create(context.Background(), suppliers.CreateSupplierInput{Name: "Fresh Farms"})
	require.NoError(t, err)

	productSvc, err := product.NewService(client, nil)
	require.NoError(t, err)
	evaluator, err := NewEvaluator(client, 0.5)
	require.NoError(t, err)

	return fixture{client: client, products: productSvc, evaluator: evaluator, supplier: supplier}
}

func (f fixture) product(t *testing.T, sku string, qty, threshold int) *models.Product {
	t.Helper()
	p, err := f.products.Create(context.Background(), product.CreateProductInput{
		SKU:              sku,
		Name:             "Item " + sku,
		SupplierID:       f.supplier.ID,
		PriceCents:       100,
		CostCents:        60,
		Quantity:         qty,
		ReorderThreshold: threshold,
	})
	require.NoError(t, err)
	return p
}

func (f fixture) tracker(t *testing.T, notifier Notifier) *Tracker {
	t.Helper()
	tracker, err := NewTracker(TrackerParams{DB: f.client, Evaluator: f.evaluator, Notifier: notifier})
	require.NoError(t, err)
	return tracker
}

func (f fixture) ledger(t *testing.T, hook ledger.Hook) ledger.Service {
	t.Helper()
	svc, err := ledger.NewService(ledger.ServiceParams{DB: f.client, Hook: hook})
	require.NoError(t, err)
	return svc
}

func productInput(f fixture, sku string, qty, threshold, reorder int) product.CreateProductInput {
	return product.CreateProductInput{
		SKU:              sku,
		Name:             "Item " + sku,
		SupplierID:       f.supplier.ID,
		PriceCents:       100,
		CostCents:        60,
		Quantity:         qty,
		ReorderThreshold: threshold,
		ReorderQuantity:  reorder,
	}
}
