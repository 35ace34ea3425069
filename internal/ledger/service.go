package ledger

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	product "github.com/tauheed2233/Grocery-Inventory-Management-System/internal/products"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/db"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/db/models"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/enums"
	pkgerrors "github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/errors"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/logger"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/metrics"
)

// MaxQuantity bounds on-hand stock and the size of a single movement; the
// quantity column is a 32-bit INTEGER on postgres.
const MaxQuantity = math.MaxInt32

// Service applies stock movements and reads the transaction history.
type Service interface {
	ApplyMovement(ctx context.Context, input MovementInput) (*models.StockTransaction, error)
	ApplyInTx(ctx context.Context, tx *gorm.DB, input MovementInput) (*models.StockTransaction, error)
	AfterCommit(ctx context.Context, txns ...models.StockTransaction)
	Sell(ctx context.Context, productID uuid.UUID, quantity int, opts MovementOptions) (*models.StockTransaction, error)
	Receive(ctx context.Context, productID uuid.UUID, quantity int, opts MovementOptions) (*models.StockTransaction, error)
	Adjust(ctx context.Context, productID uuid.UUID, delta int, opts MovementOptions) (*models.StockTransaction, error)
	History(ctx context.Context, filter HistoryFilter) ([]models.StockTransaction, error)
	Audit(ctx context.Context, productID uuid.UUID) (*AuditReport, error)
}

// Hook observes committed movements. The alert tracker implements it.
type Hook interface {
	AfterMovement(ctx context.Context, txn models.StockTransaction) error
}

// MovementInput captures one signed change to a product's quantity.
type MovementInput struct {
	ProductID   uuid.UUID
	Kind        enums.MovementKind
	Delta       int
	Reference   string
	Reason      string
	PerformedBy string
}

// MovementOptions carries the descriptive fields of the convenience operations.
type MovementOptions struct {
	Reference   string
	Reason      string
	PerformedBy string
}

// ServiceParams wires the ledger's collaborators. Hook and Metrics are optional.
type ServiceParams struct {
	DB      *db.Client
	Logger  *logger.Logger
	Metrics *metrics.InventoryMetrics
	Hook    Hook
}

type service struct {
	repo        Repository
	productRepo *product.Repository
	dbClient    *db.Client
	logg        *logger.Logger
	metrics     *metrics.InventoryMetrics
	hook        Hook
}

// NewService wires a ledger service.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("db client required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		repo:        NewRepository(params.DB.DB()),
		productRepo: product.NewRepository(params.DB.DB()),
		dbClient:    params.DB,
		logg:        logg,
		metrics:     params.Metrics,
		hook:        params.Hook,
	}, nil
}

// ApplyMovement changes the quantity and appends the transaction atomically,
// then runs the post-update hook.
func (s *service) ApplyMovement(ctx context.Context, input MovementInput) (*models.StockTransaction, error) {
	var txn *models.StockTransaction
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		txn, err = s.ApplyInTx(ctx, tx, input)
		return err
	})
	if err != nil {
		s.metrics.IncRejected(string(pkgerrors.CodeOf(err)))
		return nil, err
	}

	s.AfterCommit(ctx, *txn)
	return txn, nil
}

// ApplyInTx performs the movement inside the caller's transaction. The caller
// must invoke AfterCommit once the transaction commits.
func (s *service) ApplyInTx(ctx context.Context, tx *gorm.DB, input MovementInput) (*models.StockTransaction, error) {
	if err := validateMovement(input); err != nil {
		return nil, err
	}

	productRepo := s.productRepo.WithTx(tx)
	current, err := productRepo.FindByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
				WithDetails(map[string]string{"product_id": input.ProductID.String()})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	if input.Kind == enums.MovementKindSale && !current.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot sell an inactive product").
			WithDetails(map[string]string{"product_id": current.ID.String()})
	}
	if current.Quantity+input.Delta < 0 {
		return nil, insufficientStock(current, input.Delta)
	}
	if input.Delta > 0 && current.Quantity > MaxQuantity-input.Delta {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid stock movement").
			WithDetails(map[string]any{
				"product_id": current.ID.String(),
				"quantity":   current.Quantity,
				"delta":      fmt.Sprintf("would exceed the maximum of %d units", MaxQuantity),
			})
	}

	ok, err := productRepo.AdjustQuantity(ctx, current.ID, input.Delta)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update quantity")
	}
	if !ok {
		return nil, insufficientStock(current, input.Delta)
	}

	txn := &models.StockTransaction{
		ID:               uuid.New(),
		ProductID:        current.ID,
		Kind:             input.Kind,
		Delta:            input.Delta,
		PreviousQuantity: current.Quantity,
		ResultingQty:     current.Quantity + input.Delta,
		UnitPriceCents:   unitPriceFor(current, input.Kind),
		Reference:        optional(input.Reference),
		Reason:           optional(input.Reason),
		PerformedBy:      optional(input.PerformedBy),
	}
	if err := s.repo.WithTx(tx).Create(ctx, txn); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert stock transaction")
	}
	return txn, nil
}

// AfterCommit records metrics and runs the hook for committed movements. Hook
// failures are logged; the movement has already been persisted.
func (s *service) AfterCommit(ctx context.Context, txns ...models.StockTransaction) {
	for _, txn := range txns {
		s.metrics.ObserveMovement(string(txn.Kind), txn.Delta)

		txnCtx := s.logg.WithFields(s.logg.WithProductID(ctx, txn.ProductID.String()), map[string]any{
			"kind":     txn.Kind,
			"delta":    txn.Delta,
			"quantity": txn.ResultingQty,
		})
		s.logg.Info(txnCtx, "stock movement applied")

		if s.hook == nil {
			continue
		}
		if err := s.hook.AfterMovement(ctx, txn); err != nil {
			s.logg.Error(txnCtx, "post-movement hook failed", err)
		}
	}
}

func (s *service) Sell(ctx context.Context, productID uuid.UUID, quantity int, opts MovementOptions) (*models.StockTransaction, error) {
	if quantity <= 0 {
		return nil, quantityError(quantity)
	}
	return s.ApplyMovement(ctx, opts.input(productID, enums.MovementKindSale, -quantity))
}

func (s *service) Receive(ctx context.Context, productID uuid.UUID, quantity int, opts MovementOptions) (*models.StockTransaction, error) {
	if quantity <= 0 {
		return nil, quantityError(quantity)
	}
	return s.ApplyMovement(ctx, opts.input(productID, enums.MovementKindReceipt, quantity))
}

func (s *service) Adjust(ctx context.Context, productID uuid.UUID, delta int, opts MovementOptions) (*models.StockTransaction, error) {
	return s.ApplyMovement(ctx, opts.input(productID, enums.MovementKindAdjustment, delta))
}

func (s *service) History(ctx context.Context, filter HistoryFilter) ([]models.StockTransaction, error) {
	if filter.Kind != nil && !filter.Kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid movement kind")
	}
	if filter.Since != nil && filter.Until != nil && filter.Until.Before(*filter.Since) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "until must not be before since")
	}
	txns, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list stock transactions")
	}
	return txns, nil
}

func (o MovementOptions) input(productID uuid.UUID, kind enums.MovementKind, delta int) MovementInput {
	return MovementInput{
		ProductID:   productID,
		Kind:        kind,
		Delta:       delta,
		Reference:   o.Reference,
		Reason:      o.Reason,
		PerformedBy: o.PerformedBy,
	}
}

func validateMovement(input MovementInput) error {
	details := map[string]string{}
	if input.ProductID == uuid.Nil {
		details["product_id"] = "is required"
	}
	switch {
	case !input.Kind.IsValid():
		details["kind"] = "must be one of SALE, RECEIPT, ADJUSTMENT"
	case input.Delta == 0:
		details["delta"] = "must be nonzero"
	case input.Delta > MaxQuantity || input.Delta < -MaxQuantity:
		details["delta"] = fmt.Sprintf("magnitude must be at most %d", MaxQuantity)
	case !input.Kind.AcceptsDelta(input.Delta):
		if input.Kind == enums.MovementKindSale {
			details["delta"] = "must be negative for a sale"
		} else {
			details["delta"] = "must be positive for a receipt"
		}
	}
	if len(details) == 0 {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "invalid stock movement").WithDetails(details)
}

func insufficientStock(p *models.Product, delta int) error {
	return pkgerrors.New(
		pkgerrors.CodeInsufficientStock,
		fmt.Sprintf("insufficient stock for %s: have %d, change %d", p.SKU, p.Quantity, delta),
	).WithDetails(map[string]any{
		"product_id": p.ID.String(),
		"quantity":   p.Quantity,
		"delta":      delta,
	})
}

func quantityError(quantity int) error {
	return pkgerrors.New(pkgerrors.CodeValidation, "invalid stock movement").
		WithDetails(map[string]string{"quantity": fmt.Sprintf("must be positive, got %d", quantity)})
}

// unitPriceFor snapshots retail price for sales and unit cost for everything else.
func unitPriceFor(p *models.Product, kind enums.MovementKind) int64 {
	if kind == enums.MovementKindSale {
		return p.PriceCents
	}
	return p.CostCents
}

func optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
