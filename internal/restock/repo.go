package restock

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/db/models"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/enums"
)

// Repository defines persistence operations for restock orders and their items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.RestockOrder) error
	CreateItems(ctx context.Context, items []models.RestockOrderItem) error
	FindOrder(ctx context.Context, id uuid.UUID) (*models.RestockOrder, error)
	FindOrderByNumber(ctx context.Context, number string) (*models.RestockOrder, error)
	ListOrders(ctx context.Context, filter ListFilter) ([]models.RestockOrder, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from enums.RestockOrderStatus, updates map[string]any) (bool, error)
	UpdateItemReceived(ctx context.Context, itemID uuid.UUID, received int) error
	OpenOrderProductIDs(ctx context.Context, supplierID uuid.UUID) (map[uuid.UUID]struct{}, error)
}

// ListFilter narrows order listings. Nil fields mean "any".
type ListFilter struct {
	Status     *enums.RestockOrderStatus
	SupplierID *uuid.UUID
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a restock repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateOrder(ctx context.Context, order *models.RestockOrder) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(order).Error
}

func (r *repository) CreateItems(ctx context.Context, items []models.RestockOrderItem) error {
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) FindOrder(ctx context.Context, id uuid.UUID) (*models.RestockOrder, error) {
	var order models.RestockOrder
	if err := r.withItems(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindOrderByNumber(ctx context.Context, number string) (*models.RestockOrder, error) {
	var order models.RestockOrder
	if err := r.withItems(ctx).First(&order, "order_number = ?", number).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders returns orders newest first with their items.
func (r *repository) ListOrders(ctx context.Context, filter ListFilter) ([]models.RestockOrder, error) {
	query := r.withItems(ctx)
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.SupplierID != nil {
		query = query.Where("supplier_id = ?", *filter.SupplierID)
	}
	var orders []models.RestockOrder
	if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateStatus applies updates only while the order is still in status from.
// It reports false when the guard did not match.
func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, from enums.RestockOrderStatus, updates map[string]any) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.RestockOrder{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) UpdateItemReceived(ctx context.Context, itemID uuid.UUID, received int) error {
	return r.db.WithContext(ctx).
		Model(&models.RestockOrderItem{}).
		Where("id = ?", itemID).
		Update("quantity_received", received).Error
}

// OpenOrderProductIDs returns products already on a DRAFT or SUBMITTED order for the supplier.
func (r *repository) OpenOrderProductIDs(ctx context.Context, supplierID uuid.UUID) (map[uuid.UUID]struct{}, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.RestockOrderItem{}).
		Joins("JOIN restock_orders ON restock_orders.id = restock_order_items.order_id").
		Where("restock_orders.supplier_id = ? AND restock_orders.status IN ?", supplierID,
			[]enums.RestockOrderStatus{enums.RestockOrderStatusDraft, enums.RestockOrderStatusSubmitted}).
		Pluck("restock_order_items.product_id", &ids).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out, nil
}

func (r *repository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	})
}
