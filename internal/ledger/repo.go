package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/db/models"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/enums"
)

// Repository manages persistence for stock transactions. Transactions are
// append-only, so it exposes no update or delete.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, txn *models.StockTransaction) error
	List(ctx context.Context, filter HistoryFilter) ([]models.StockTransaction, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.StockTransaction, error)
}

// HistoryFilter narrows transaction history. Zero values mean "any".
type HistoryFilter struct {
	ProductID *uuid.UUID
	Kind      *enums.MovementKind
	Since     *time.Time
	Until     *time.Time
	Limit     int
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, txn *models.StockTransaction) error {
	if txn.ID == uuid.Nil {
		txn.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(txn).Error
}

// List returns matching transactions newest first.
func (r *repository) List(ctx context.Context, filter HistoryFilter) ([]models.StockTransaction, error) {
	query := r.db.WithContext(ctx).Model(&models.StockTransaction{})
	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	if filter.Kind != nil {
		query = query.Where("kind = ?", *filter.Kind)
	}
	if filter.Since != nil {
		query = query.Where("created_at >= ?", filter.Since.UTC())
	}
	if filter.Until != nil {
		query = query.Where("created_at < ?", filter.Until.UTC())
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	var txns []models.StockTransaction
	if err := query.Order("created_at DESC").Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}

// ListByProduct returns a product's transactions oldest first.
func (r *repository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.StockTransaction, error) {
	var txns []models.StockTransaction
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at ASC").
		Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}
