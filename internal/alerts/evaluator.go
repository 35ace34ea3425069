package alerts

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	product "github.com/tauheed2233/Grocery-Inventory-Management-System/internal/products"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/db"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/db/models"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/enums"
	pkgerrors "github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/errors"
)

// DefaultCriticalRatio is the share of the threshold at or below which stock is critical.
const DefaultCriticalRatio = 0.5

// Alert describes one active product at or below its reorder threshold.
type Alert struct {
	Product models.Product
	Level   enums.AlertLevel
	// Ratio is quantity / threshold; zero for threshold-0 products.
	Ratio float64
}

// Message renders the operator-facing alert text.
func (a Alert) Message() string {
	p := a.Product
	switch a.Level {
	case enums.AlertLevelOutOfStock:
		return fmt.Sprintf("%s (%s) is out of stock", p.Name, p.SKU)
	case enums.AlertLevelCriticalLow:
		return fmt.Sprintf("%s (%s) is critically low: %d left, threshold %d", p.Name, p.SKU, p.Quantity, p.ReorderThreshold)
	}
	return fmt.Sprintf("%s (%s) is running low: %d left, threshold %d", p.Name, p.SKU, p.Quantity, p.ReorderThreshold)
}

// Evaluator derives alerts from current product state. It never writes.
type Evaluator struct {
	products      *product.Repository
	criticalRatio float64
}

// NewEvaluator builds an evaluator; a ratio outside (0,1) falls back to DefaultCriticalRatio.
func NewEvaluator(dbClient *db.Client, criticalRatio float64) (*Evaluator, error) {
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if criticalRatio <= 0 || criticalRatio >= 1 {
		criticalRatio = DefaultCriticalRatio
	}
	return &Evaluator{
		products:      product.NewRepository(dbClient.DB()),
		criticalRatio: criticalRatio,
	}, nil
}

// Evaluate yields alerting products ordered by ascending quantity/threshold
// ratio, then quantity, then SKU. Each range re-reads current state; a
// failed read yields a single error.
func (e *Evaluator) Evaluate(ctx context.Context) iter.Seq2[Alert, error] {
	return func(yield func(Alert, error) bool) {
		found, err := e.collect(ctx)
		if err != nil {
			yield(Alert{}, err)
			return
		}
		for _, alert := range found {
			if !yield(alert, nil) {
				return
			}
		}
	}
}

// All drains Evaluate into a slice.
func (e *Evaluator) All(ctx context.Context) ([]Alert, error) {
	return e.collect(ctx)
}

// EvaluateOne returns the alert for a single product, or nil when it is not alerting.
func (e *Evaluator) EvaluateOne(ctx context.Context, productID uuid.UUID) (*Alert, error) {
	p, err := e.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	alert, ok := e.check(*p)
	if !ok {
		return nil, nil
	}
	return &alert, nil
}

func (e *Evaluator) collect(ctx context.Context) ([]Alert, error) {
	rows, err := e.products.List(ctx, product.ListFilter{LowStockOnly: true})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list low stock products")
	}
	found := make([]Alert, 0, len(rows))
	for _, row := range rows {
		if alert, ok := e.check(row); ok {
			found = append(found, alert)
		}
	}
	slices.SortStableFunc(found, compareAlerts)
	return found, nil
}

func (e *Evaluator) check(p models.Product) (Alert, bool) {
	if !IsAlerting(p) {
		return Alert{}, false
	}
	return Alert{Product: p, Level: e.level(p), Ratio: ratio(p)}, true
}

func (e *Evaluator) level(p models.Product) enums.AlertLevel {
	switch {
	case p.Quantity == 0:
		return enums.AlertLevelOutOfStock
	case float64(p.Quantity) <= e.criticalRatio*float64(p.ReorderThreshold):
		return enums.AlertLevelCriticalLow
	}
	return enums.AlertLevelLowStock
}

// IsAlerting is the low-stock predicate: active and quantity at or below the
// threshold. A zero threshold alerts only when the product is out of stock.
func IsAlerting(p models.Product) bool {
	if !p.IsActive {
		return false
	}
	if p.ReorderThreshold == 0 {
		return p.Quantity == 0
	}
	return p.Quantity <= p.ReorderThreshold
}

func ratio(p models.Product) float64 {
	if p.ReorderThreshold == 0 {
		return 0
	}
	return float64(p.Quantity) / float64(p.ReorderThreshold)
}

func compareAlerts(a, b Alert) int {
	switch {
	case a.Ratio < b.Ratio:
		return -1
	case a.Ratio > b.Ratio:
		return 1
	}
	if a.Product.Quantity != b.Product.Quantity {
		return a.Product.Quantity - b.Product.Quantity
	}
	return strings.Compare(a.Product.SKU, b.Product.SKU)
}
