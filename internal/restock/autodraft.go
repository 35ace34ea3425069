package restock

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/tauheed2233/Grocery-Inventory-Management-System/internal/alerts"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/db/models"
	pkgerrors "github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/errors"
)

// Suggester supplies restock suggestions for alerting products.
type Suggester interface {
	Suggestions(ctx context.Context) ([]alerts.Suggestion, error)
}

// AutoDraftResult lists the drafts created and the products left out.
type AutoDraftResult struct {
	Orders  []models.RestockOrder
	Skipped map[uuid.UUID]string
}

// AutoDraft creates one draft per active supplier covering its alerting
// products that are not already on an open order. Per-supplier failures are
// collected and returned together.
func (s *service) AutoDraft(ctx context.Context) (*AutoDraftResult, error) {
	if s.suggester == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "auto draft requires a suggestion source")
	}
	suggestions, err := s.suggester.Suggestions(ctx)
	if err != nil {
		return nil, err
	}

	result := &AutoDraftResult{Skipped: map[uuid.UUID]string{}}
	bySupplier := map[uuid.UUID][]alerts.Suggestion{}
	var order []uuid.UUID
	for _, sg := range suggestions {
		if _, seen := bySupplier[sg.SupplierID]; !seen {
			order = append(order, sg.SupplierID)
		}
		bySupplier[sg.SupplierID] = append(bySupplier[sg.SupplierID], sg)
	}

	found, err := s.suppliers.FindByIDs(ctx, order)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load suppliers")
	}

	var errs error
	for _, supplierID := range order {
		group := bySupplier[supplierID]
		supplier, ok := found[supplierID]
		if !ok || !supplier.IsActive {
			for _, sg := range group {
				result.Skipped[sg.Product.ID] = "supplier inactive"
			}
			continue
		}

		pending, err := s.repo.OpenOrderProductIDs(ctx, supplierID)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("supplier %s: %w", supplier.Name, err))
			continue
		}
		items := map[uuid.UUID]int{}
		for _, sg := range group {
			if _, onOrder := pending[sg.Product.ID]; onOrder {
				result.Skipped[sg.Product.ID] = "already on an open order"
				continue
			}
			items[sg.Product.ID] = sg.SuggestedQuantity
		}
		if len(items) == 0 {
			continue
		}

		draft, err := s.CreateDraft(ctx, CreateDraftInput{
			SupplierID: supplierID,
			Items:      items,
			Notes:      "auto-generated from low stock alerts",
		})
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("supplier %s: %w", supplier.Name, err))
			continue
		}
		result.Orders = append(result.Orders, *draft)
	}
	return result, errs
}
