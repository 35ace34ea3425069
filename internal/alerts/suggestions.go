package alerts

import (
	"context"
	"slices"

	"github.com/google/uuid"

	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/enums"
)

// Suggestion proposes a restock quantity for one alerting product.
type Suggestion struct {
	Alert
	SupplierID         uuid.UUID
	Shortage           int
	SuggestedQuantity  int
	EstimatedCostCents int64
	Urgency            enums.RestockUrgency
}

// Suggestions returns one suggestion per alerting product, most urgent first.
func (e *Evaluator) Suggestions(ctx context.Context) ([]Suggestion, error) {
	found, err := e.collect(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Suggestion, 0, len(found))
	for _, alert := range found {
		out = append(out, SuggestFor(alert))
	}
	slices.SortStableFunc(out, func(a, b Suggestion) int {
		if d := a.Urgency.Rank() - b.Urgency.Rank(); d != 0 {
			return d
		}
		return compareAlerts(a.Alert, b.Alert)
	})
	return out, nil
}

// SuggestFor sizes a restock: the configured reorder quantity, or enough to
// reach twice the threshold, capped by a nonzero max stock level.
func SuggestFor(alert Alert) Suggestion {
	p := alert.Product
	qty := p.ReorderQuantity
	if qty <= 0 {
		qty = 2*p.ReorderThreshold - p.Quantity
	}
	if p.MaxStockLevel > 0 && p.Quantity+qty > p.MaxStockLevel {
		qty = p.MaxStockLevel - p.Quantity
	}
	if qty < 1 {
		qty = 1
	}
	return Suggestion{
		Alert:              alert,
		SupplierID:         p.SupplierID,
		Shortage:           max(p.ReorderThreshold-p.Quantity, 0),
		SuggestedQuantity:  qty,
		EstimatedCostCents: int64(qty) * p.CostCents,
		Urgency:            urgency(p.Quantity, p.ReorderThreshold),
	}
}

func urgency(quantity, threshold int) enums.RestockUrgency {
	switch {
	case quantity == 0:
		return enums.RestockUrgencyCritical
	case 2*quantity < threshold:
		return enums.RestockUrgencyHigh
	}
	return enums.RestockUrgencyMedium
}
