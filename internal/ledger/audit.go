package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/errors"
)

// AuditReport compares a product's quantity against its transaction history.
type AuditReport struct {
	ProductID        uuid.UUID
	SKU              string
	InitialQuantity  int
	CurrentQuantity  int
	NetDelta         int
	TransactionCount int
	Issues           []string
}

// ExpectedQuantity is the initial quantity plus every recorded delta.
func (r AuditReport) ExpectedQuantity() int {
	return r.InitialQuantity + r.NetDelta
}

// Consistent reports whether the audit found no discrepancy.
func (r AuditReport) Consistent() bool {
	return len(r.Issues) == 0
}

// Audit verifies that quantity == initial + sum(deltas) and that each
// transaction's snapshot continues from the one before it.
func (s *service) Audit(ctx context.Context, productID uuid.UUID) (*AuditReport, error) {
	current, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	txns, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list stock transactions")
	}

	report := &AuditReport{
		ProductID:        current.ID,
		SKU:              current.SKU,
		InitialQuantity:  current.InitialQuantity,
		CurrentQuantity:  current.Quantity,
		TransactionCount: len(txns),
	}

	running := current.InitialQuantity
	for i, txn := range txns {
		report.NetDelta += txn.Delta
		if txn.ResultingQty != txn.PreviousQuantity+txn.Delta {
			report.Issues = append(report.Issues, fmt.Sprintf(
				"transaction %s: %d %+d recorded as %d", txn.ID, txn.PreviousQuantity, txn.Delta, txn.ResultingQty))
		}
		if txn.PreviousQuantity != running {
			report.Issues = append(report.Issues, fmt.Sprintf(
				"transaction %d (%s) starts at %d, expected %d", i+1, txn.ID, txn.PreviousQuantity, running))
		}
		running = txn.ResultingQty
	}
	if report.ExpectedQuantity() != current.Quantity {
		report.Issues = append(report.Issues, fmt.Sprintf(
			"quantity %d does not match initial %d plus net delta %+d",
			current.Quantity, current.InitialQuantity, report.NetDelta))
	}

	if !report.Consistent() {
		ctx = s.logg.WithFields(s.logg.WithProductID(ctx, productID.String()), map[string]any{"issues": len(report.Issues)})
		s.logg.Warn(ctx, "stock audit found discrepancies")
	}
	return report, nil
}
