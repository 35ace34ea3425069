package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tauheed2233/Grocery-Inventory-Management-System/internal/ledger"
	product "github.com/tauheed2233/Grocery-Inventory-Management-System/internal/products"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/internal/restock"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/internal/suppliers"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/config"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/db/dbtest"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/db/models"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/enums"
)

type harness struct {
	app     *App
	console *bytes.Buffer
}

type result struct {
	stdout string
	stderr string
	code   int
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	console := &bytes.Buffer{}
	cfg := &config.Config{
		App: config.AppConfig{Env: config.AppEnvDev, Operator: "tester"},
		Alerts: config.AlertsConfig{
			Cooldown:      30 * time.Minute,
			CriticalRatio: 0.5,
			Notifiers:     []string{config.NotifierConsole},
		},
		Restock: config.RestockConfig{DefaultLeadTimeDays: 3, OrderPrefix: "PO"},
	}
	app, err := Build(Deps{Config: cfg, DB: dbtest.New(t), Console: console})
	require.NoError(t, err)
	return &harness{app: app, console: console}
}

func (h *harness) run(args ...string) result {
	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), Options{App: h.app}, args, &stdout, &stderr)
	return result{stdout: stdout.String(), stderr: stderr.String(), code: code}
}

func (h *harness) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	res := h.run(args...)
	require.Equalf(t, 0, res.code, "%v failed: %s", args, res.stderr)
	return res.stdout
}

func (h *harness) seed(t *testing.T) {
	t.Helper()
	out := h.mustRun(t, "seed")
	require.Contains(t, out, "Suppliers: 5 created")
}

func (h *harness) product(t *testing.T, sku string) *models.Product {
	t.Helper()
	p, err := h.app.Products.GetBySKU(context.Background(), sku)
	require.NoError(t, err)
	return p
}

func TestVersionDoesNotBootstrap(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), Options{Version: "1.2.3", Commit: "abc123"}, []string{"version"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Equal(t, "grocer 1.2.3 (abc123)\n", stdout.String())
}

func TestSeedIsIdempotentAndListsProducts(t *testing.T) {
	h := newHarness(t)
	h.seed(t)

	again := h.mustRun(t, "seed")
	assert.Contains(t, again, "Suppliers: 0 created, 5 skipped")

	out := h.mustRun(t, "products:list", "--supplier", "Dairy Direct")
	assert.Contains(t, out, "DRY-001")
	assert.NotContains(t, out, "PRD-001")

	out = h.mustRun(t, "products:show", "prd-001")
	assert.Contains(t, out, "Organic Bananas")
	assert.Contains(t, out, "Fresh Farms Produce")
	assert.Contains(t, out, "$0.99")
}

func TestSuppliersAddRejectsDuplicateName(t *testing.T) {
	h := newHarness(t)
	out := h.mustRun(t, "suppliers:add", "--name", "Acme Foods", "--lead-time", "5", "--email", "ops@acme.test")
	assert.Contains(t, out, "Acme Foods")

	res := h.run("suppliers:add", "--name", "acme foods")
	assert.Equal(t, 2, res.code)
	assert.Contains(t, res.stderr, "VALIDATION_ERROR")

	out = h.mustRun(t, "suppliers:show", "Acme Foods")
	assert.Contains(t, out, "ops@acme.test")
}

func TestSellRecordsMovementAndNotifies(t *testing.T) {
	h := newHarness(t)
	h.seed(t)

	out := h.mustRun(t, "stock:sell", "PRD-001", "25", "--ref", "receipt-9")
	assert.Contains(t, out, "PRD-001 SALE -25: 50 → 25")
	assert.Equal(t, 25, h.product(t, "PRD-001").Quantity)
	assert.Contains(t, h.console.String(), "PRD-001")

	history := h.mustRun(t, "stock:history", "--product", "PRD-001")
	assert.Contains(t, history, "receipt-9")
	assert.Contains(t, history, "tester")
}

func TestOperatorFlagOverridesPerformer(t *testing.T) {
	h := newHarness(t)
	h.seed(t)
	h.mustRun(t, "stock:receive", "BEV-001", "5", "--operator", "dana")

	id := h.product(t, "BEV-001").ID
	txns, err := h.app.Ledger.History(context.Background(), ledger.HistoryFilter{ProductID: &id})
	require.NoError(t, err)
	require.Len(t, txns, 1)
	require.NotNil(t, txns[0].PerformedBy)
	assert.Equal(t, "dana", *txns[0].PerformedBy)
}

func TestOversizedSaleExitsWithInsufficientStock(t *testing.T) {
	h := newHarness(t)
	h.seed(t)

	res := h.run("stock:sell", "PRD-003", "26")
	assert.Equal(t, 5, res.code)
	assert.Contains(t, res.stderr, "INSUFFICIENT_STOCK")
	assert.Equal(t, 25, h.product(t, "PRD-003").Quantity)
}

func TestUnknownProductExitsNotFound(t *testing.T) {
	h := newHarness(t)
	res := h.run("products:show", "NOPE-1")
	assert.Equal(t, 3, res.code)
	assert.Contains(t, res.stderr, "NOT_FOUND")
}

func TestBadQuantityArgument(t *testing.T) {
	h := newHarness(t)
	h.seed(t)
	res := h.run("stock:sell", "PRD-001", "two")
	assert.Equal(t, 2, res.code)
	assert.Contains(t, res.stderr, "quantity: two")
}

func TestAdjustAndAudit(t *testing.T) {
	h := newHarness(t)
	h.seed(t)

	out := h.mustRun(t, "stock:adjust", "MET-001", "--delta=-3", "--reason", "spoiled")
	assert.Contains(t, out, "ADJUSTMENT -3: 30 → 27")

	audit := h.mustRun(t, "stock:audit", "--all")
	assert.Contains(t, audit, "MET-001")
	assert.NotContains(t, audit, "failed")

	res := h.run("stock:audit")
	assert.Equal(t, 2, res.code)
}

func TestProductsUpdateWithAssignments(t *testing.T) {
	h := newHarness(t)
	h.seed(t)

	h.mustRun(t, "products:update", "PRD-001",
		"--set", "price=1.09",
		"--set", "reorder-threshold=35",
		"--set", "supplier=Dairy Direct",
	)
	p := h.product(t, "PRD-001")
	assert.Equal(t, int64(109), p.PriceCents)
	assert.Equal(t, 35, p.ReorderThreshold)

	dairy, err := h.app.Suppliers.Resolve(context.Background(), "Dairy Direct")
	require.NoError(t, err)
	assert.Equal(t, dairy.ID, p.SupplierID)

	res := h.run("products:update", "PRD-001", "--set", "quantity=99")
	assert.Equal(t, 2, res.code)
	assert.Equal(t, 50, h.product(t, "PRD-001").Quantity)

	res = h.run("products:update", "PRD-001", "--set", "price=abc")
	assert.Equal(t, 2, res.code)
}

func TestAlertsScanAcknowledgeAndSuggest(t *testing.T) {
	h := newHarness(t)
	h.seed(t)
	h.mustRun(t, "stock:sell", "PRD-003", "20")

	out := h.mustRun(t, "alerts:scan")
	assert.Contains(t, out, "PRD-003")
	assert.Contains(t, out, string(enums.AlertLevelCriticalLow))

	status := enums.AlertStatusActive
	open, err := h.app.Tracker.List(context.Background(), &status)
	require.NoError(t, err)
	require.Len(t, open, 1)

	out = h.mustRun(t, "alerts:ack", open[0].ID.String())
	assert.Contains(t, out, "ACKNOWLEDGED")

	res := h.run("alerts:ack", open[0].ID.String())
	assert.Equal(t, 6, res.code)

	res = h.run("alerts:resolve", "not-a-uuid")
	assert.Equal(t, 2, res.code)

	out = h.mustRun(t, "alerts:suggest")
	assert.Contains(t, out, "PRD-003")
	assert.Contains(t, out, "Fresh Farms Produce")
	assert.Contains(t, out, "Estimated total")
}

func TestOrderLifecycle(t *testing.T) {
	h := newHarness(t)
	h.seed(t)

	out := h.mustRun(t, "orders:create", "--supplier", "Dairy Direct", "--item", "DRY-001=10", "--notes", "weekly")
	assert.Contains(t, out, "Drafted PO-")

	orders, err := h.app.Restock.List(context.Background(), restock.ListFilter{})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	number := orders[0].OrderNumber

	out = h.mustRun(t, "orders:submit", number)
	assert.Contains(t, out, "Submitted "+number)

	out = h.mustRun(t, "orders:fulfill", number, "--received", "DRY-001=6")
	assert.Contains(t, out, "6 unit(s) received")
	assert.Equal(t, 36, h.product(t, "DRY-001").Quantity)

	out = h.mustRun(t, "orders:show", number)
	assert.Contains(t, out, "FULFILLED")
	assert.Contains(t, out, "weekly")

	res := h.run("orders:cancel", number, "--reason", "too late")
	assert.Equal(t, 6, res.code)
	assert.Contains(t, res.stderr, "STATE_CONFLICT")

	out = h.mustRun(t, "reports:orders")
	assert.Contains(t, out, "FULFILLED")
}

func TestOrderCreateRejectsProductFromOtherSupplier(t *testing.T) {
	h := newHarness(t)
	h.seed(t)
	res := h.run("orders:create", "--supplier", "Dairy Direct", "--item", "PRD-001=10")
	assert.Equal(t, 2, res.code)

	res = h.run("orders:create", "--supplier", "Dairy Direct", "--item", "DRY-001")
	assert.Equal(t, 2, res.code)
}

func TestReportsValue(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	s, err := h.app.Suppliers.Create(ctx, suppliers.CreateSupplierInput{Name: "Corner Wholesale"})
	require.NoError(t, err)
	for _, in := range []product.CreateProductInput{
		{SKU: "A-1", Name: "Oats", SupplierID: s.ID, PriceCents: 200, Quantity: 3},
		{SKU: "A-2", Name: "Rice", SupplierID: s.ID, PriceCents: 150, Quantity: 5},
		{SKU: "A-3", Name: "Flour", SupplierID: s.ID, PriceCents: 100, Quantity: 100},
	} {
		_, err := h.app.Products.Create(ctx, in)
		require.NoError(t, err)
	}
	h.mustRun(t, "products:deactivate", "A-3")

	out := h.mustRun(t, "reports:value")
	assert.Contains(t, out, "$13.50")

	out = h.mustRun(t, "reports:suppliers")
	assert.Contains(t, out, "Corner Wholesale")
	assert.Contains(t, out, "$13.50")

	out = h.mustRun(t, "reports:summary")
	assert.Contains(t, out, "Inventory summary")
}
