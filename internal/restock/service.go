package restock

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tauheed2233/Grocery-Inventory-Management-System/internal/ledger"
	product "github.com/tauheed2233/Grocery-Inventory-Management-System/internal/products"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/internal/suppliers"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/db/models"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/enums"
	pkgerrors "github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/errors"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/logger"
)

const defaultOrderPrefix = "PO"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// InventoryReceiver books received quantities into the ledger inside the
// order's transaction and runs post-commit work afterwards.
type InventoryReceiver interface {
	ApplyInTx(ctx context.Context, tx *gorm.DB, input ledger.MovementInput) (*models.StockTransaction, error)
	AfterCommit(ctx context.Context, txns ...models.StockTransaction)
}

// Service drives the restock order lifecycle:
// DRAFT -> SUBMITTED -> FULFILLED, and DRAFT/SUBMITTED -> CANCELLED.
type Service interface {
	CreateDraft(ctx context.Context, input CreateDraftInput) (*models.RestockOrder, error)
	Submit(ctx context.Context, orderID uuid.UUID) (*models.RestockOrder, error)
	Fulfill(ctx context.Context, orderID uuid.UUID, received map[uuid.UUID]int) (*models.RestockOrder, error)
	Cancel(ctx context.Context, orderID uuid.UUID, reason string) (*models.RestockOrder, error)
	Get(ctx context.Context, orderID uuid.UUID) (*models.RestockOrder, error)
	Resolve(ctx context.Context, ref string) (*models.RestockOrder, error)
	List(ctx context.Context, filter ListFilter) ([]models.RestockOrder, error)
	AutoDraft(ctx context.Context) (*AutoDraftResult, error)
}

// CreateDraftInput names the supplier and the product -> quantity mapping to order.
type CreateDraftInput struct {
	SupplierID uuid.UUID
	Items      map[uuid.UUID]int
	Notes      string
	CreatedBy  string
}

// ServiceParams wires the restock service. Suggester is only needed by AutoDraft.
type ServiceParams struct {
	Repo        Repository
	Tx          txRunner
	Inventory   InventoryReceiver
	Products    *product.Repository
	Suppliers   *suppliers.Repository
	Suggester   Suggester
	Logger      *logger.Logger
	OrderPrefix string
	Operator    string
	DefaultLead int
	Now         func() time.Time
}

type service struct {
	repo        Repository
	tx          txRunner
	inventory   InventoryReceiver
	products    *product.Repository
	suppliers   *suppliers.Repository
	suggester   Suggester
	logg        *logger.Logger
	orderPrefix string
	operator    string
	defaultLead int
	now         func() time.Time
}

// NewService builds a restock service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("restock repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Inventory == nil {
		return nil, fmt.Errorf("inventory receiver required")
	}
	if params.Products == nil || params.Suppliers == nil {
		return nil, fmt.Errorf("product and supplier repositories required")
	}
	svc := &service{
		repo:        params.Repo,
		tx:          params.Tx,
		inventory:   params.Inventory,
		products:    params.Products,
		suppliers:   params.Suppliers,
		suggester:   params.Suggester,
		logg:        params.Logger,
		orderPrefix: strings.TrimSpace(params.OrderPrefix),
		operator:    params.Operator,
		defaultLead: params.DefaultLead,
		now:         params.Now,
	}
	if svc.logg == nil {
		svc.logg = logger.Nop()
	}
	if svc.orderPrefix == "" {
		svc.orderPrefix = defaultOrderPrefix
	}
	if svc.now == nil {
		svc.now = func() time.Time { return time.Now().UTC() }
	}
	return svc, nil
}

func (s *service) CreateDraft(ctx context.Context, input CreateDraftInput) (*models.RestockOrder, error) {
	if input.SupplierID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier id required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "restock order needs at least one line item")
	}
	for productID, qty := range input.Items {
		if qty <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "ordered quantity must be positive").
				WithDetails(map[string]any{"product_id": productID.String(), "quantity": qty})
		}
	}

	var created *models.RestockOrder
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		supplier, err := s.suppliers.WithTx(tx).FindByID(ctx, input.SupplierID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load supplier")
		}
		if !supplier.IsActive {
			return pkgerrors.New(pkgerrors.CodeValidation, "supplier is inactive")
		}

		ids := make([]uuid.UUID, 0, len(input.Items))
		for id := range input.Items {
			ids = append(ids, id)
		}
		found, err := s.products.WithTx(tx).FindByIDs(ctx, ids)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load products")
		}

		lines := make([]models.Product, 0, len(ids))
		for _, id := range ids {
			p, ok := found[id]
			if !ok {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
					WithDetails(map[string]string{"product_id": id.String()})
			}
			if p.SupplierID != supplier.ID {
				return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("product %s is not supplied by %s", p.SKU, supplier.Name))
			}
			if !p.IsActive {
				return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("product %s is inactive", p.SKU))
			}
			lines = append(lines, p)
		}
		slices.SortFunc(lines, func(a, b models.Product) int { return strings.Compare(a.SKU, b.SKU) })

		order := &models.RestockOrder{
			ID:          uuid.New(),
			OrderNumber: s.orderNumber(),
			SupplierID:  supplier.ID,
			Status:      enums.RestockOrderStatusDraft,
			Notes:       optional(input.Notes),
			CreatedBy:   optional(s.actor(input.CreatedBy)),
		}
		items := make([]models.RestockOrderItem, 0, len(lines))
		for _, p := range lines {
			item := models.RestockOrderItem{
				ID:              uuid.New(),
				OrderID:         order.ID,
				ProductID:       p.ID,
				QuantityOrdered: input.Items[p.ID],
				UnitCostCents:   p.CostCents,
			}
			order.TotalCostCents += item.LineCostCents()
			items = append(items, item)
		}

		repo := s.repo.WithTx(tx)
		if err := repo.CreateOrder(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert restock order")
		}
		if err := repo.CreateItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert restock order items")
		}
		created, err = repo.FindOrder(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reload restock order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ctx = s.logg.WithFields(s.logg.WithOrderID(ctx, created.ID.String()), map[string]any{
		"order_number": created.OrderNumber,
		"items":        len(created.Items),
		"total_cents":  created.TotalCostCents,
	})
	s.logg.Info(ctx, "restock order drafted")
	return created, nil
}

func (s *service) Submit(ctx context.Context, orderID uuid.UUID) (*models.RestockOrder, error) {
	return s.transition(ctx, orderID, "submit", enums.RestockOrderStatusDraft, func(tx *gorm.DB, order *models.RestockOrder) (map[string]any, error) {
		lead := s.defaultLead
		supplier, err := s.suppliers.WithTx(tx).FindByID(ctx, order.SupplierID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load supplier")
		}
		if supplier != nil {
			lead = supplier.LeadTimeDays
		}
		now := s.now()
		return map[string]any{
			"status":            enums.RestockOrderStatusSubmitted,
			"submitted_at":      now,
			"expected_delivery": now.AddDate(0, 0, lead),
		}, nil
	})
}

// Fulfill receives a SUBMITTED order. Products missing from received default
// to their ordered quantity; a zero receipt records no movement.
func (s *service) Fulfill(ctx context.Context, orderID uuid.UUID, received map[uuid.UUID]int) (*models.RestockOrder, error) {
	var txns []models.StockTransaction
	order, err := s.transition(ctx, orderID, "fulfill", enums.RestockOrderStatusSubmitted, func(tx *gorm.DB, order *models.RestockOrder) (map[string]any, error) {
		quantities, err := receivedQuantities(order, received)
		if err != nil {
			return nil, err
		}
		repo := s.repo.WithTx(tx)
		for _, item := range order.Items {
			qty := quantities[item.ProductID]
			if qty > 0 {
				txn, err := s.inventory.ApplyInTx(ctx, tx, ledger.MovementInput{
					ProductID:   item.ProductID,
					Kind:        enums.MovementKindReceipt,
					Delta:       qty,
					Reference:   order.OrderNumber,
					Reason:      "received on restock order " + order.OrderNumber,
					PerformedBy: s.operator,
				})
				if err != nil {
					return nil, err
				}
				txns = append(txns, *txn)
			}
			if err := repo.UpdateItemReceived(ctx, item.ID, qty); err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update received quantity")
			}
		}
		return map[string]any{
			"status":       enums.RestockOrderStatusFulfilled,
			"fulfilled_at": s.now(),
		}, nil
	})
	if err != nil {
		return nil, err
	}

	s.inventory.AfterCommit(ctx, txns...)
	return order, nil
}

func (s *service) Cancel(ctx context.Context, orderID uuid.UUID, reason string) (*models.RestockOrder, error) {
	apply := func(_ *gorm.DB, _ *models.RestockOrder) (map[string]any, error) {
		updates := map[string]any{
			"status":       enums.RestockOrderStatusCancelled,
			"cancelled_at": s.now(),
		}
		if r := optional(reason); r != nil {
			updates["cancel_reason"] = *r
		}
		return updates, nil
	}

	order, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Status.IsOpen() {
		return nil, stateError(order, "cancel")
	}
	return s.transition(ctx, orderID, "cancel", order.Status, apply)
}

func (s *service) Get(ctx context.Context, orderID uuid.UUID) (*models.RestockOrder, error) {
	order, err := s.repo.FindOrder(ctx, orderID)
	if err != nil {
		return nil, mapReadError(err)
	}
	return order, nil
}

// Resolve accepts an order id or an order number.
func (s *service) Resolve(ctx context.Context, ref string) (*models.RestockOrder, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order reference is required")
	}
	if id, err := uuid.Parse(ref); err == nil {
		return s.Get(ctx, id)
	}
	order, err := s.repo.FindOrderByNumber(ctx, strings.ToUpper(ref))
	if err != nil {
		return nil, mapReadError(err)
	}
	return order, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]models.RestockOrder, error) {
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	orders, err := s.repo.ListOrders(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list restock orders")
	}
	return orders, nil
}

type transitionFunc func(tx *gorm.DB, order *models.RestockOrder) (map[string]any, error)

// transition loads the order, checks it is in status from, applies the
// updates under a status guard and returns the reloaded order.
func (s *service) transition(ctx context.Context, orderID uuid.UUID, action string, from enums.RestockOrderStatus, fn transitionFunc) (*models.RestockOrder, error) {
	var updated *models.RestockOrder
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindOrder(ctx, orderID)
		if err != nil {
			return mapReadError(err)
		}
		if order.Status != from {
			return stateError(order, action)
		}
		updates, err := fn(tx, order)
		if err != nil {
			return err
		}
		ok, err := repo.UpdateStatus(ctx, order.ID, from, updates)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update restock order")
		}
		if !ok {
			return stateError(order, action)
		}
		updated, err = repo.FindOrder(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reload restock order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ctx = s.logg.WithFields(s.logg.WithOrderID(ctx, updated.ID.String()), map[string]any{
		"order_number": updated.OrderNumber,
		"status":       string(updated.Status),
	})
	s.logg.Info(ctx, "restock order "+action)
	return updated, nil
}

func receivedQuantities(order *models.RestockOrder, received map[uuid.UUID]int) (map[uuid.UUID]int, error) {
	out := make(map[uuid.UUID]int, len(order.Items))
	ordered := make(map[uuid.UUID]int, len(order.Items))
	for _, item := range order.Items {
		ordered[item.ProductID] = item.QuantityOrdered
		out[item.ProductID] = item.QuantityOrdered
	}
	for productID, qty := range received {
		want, ok := ordered[productID]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "received product is not on the order").
				WithDetails(map[string]string{"product_id": productID.String()})
		}
		if qty < 0 || qty > want {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("received quantity must be between 0 and %d", want)).
				WithDetails(map[string]any{"product_id": productID.String(), "received": qty, "ordered": want})
		}
		out[productID] = qty
	}
	return out, nil
}

func (s *service) orderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("%s-%s-%s", s.orderPrefix, s.now().Format("20060102"), suffix)
}

func (s *service) actor(createdBy string) string {
	if strings.TrimSpace(createdBy) != "" {
		return createdBy
	}
	return s.operator
}

func stateError(order *models.RestockOrder, action string) error {
	return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("cannot %s a %s order", action, order.Status)).
		WithDetails(map[string]string{
			"order_id": order.ID.String(),
			"status":   string(order.Status),
			"action":   action,
		})
}

func mapReadError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "restock order not found")
	}
	if pkgerrors.As(err) != nil {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load restock order")
}

func optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
