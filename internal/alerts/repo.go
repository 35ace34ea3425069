package alerts

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/db/models"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/enums"
)

// Repository persists stock alerts.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) Create(ctx context.Context, alert *models.StockAlert) error {
	if alert.ID == uuid.Nil {
		alert.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(alert).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.StockAlert, error) {
	var alert models.StockAlert
	if err := r.db.WithContext(ctx).First(&alert, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &alert, nil
}

// ListOpenByProduct returns ACTIVE and ACKNOWLEDGED alerts for a product, newest first.
func (r *Repository) ListOpenByProduct(ctx context.Context, productID uuid.UUID) ([]models.StockAlert, error) {
	var rows []models.StockAlert
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND status IN ?", productID, enums.OpenAlertStatuses).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

// ListOpen returns every ACTIVE or ACKNOWLEDGED alert.
func (r *Repository) ListOpen(ctx context.Context) ([]models.StockAlert, error) {
	var rows []models.StockAlert
	err := r.db.WithContext(ctx).
		Where("status IN ?", enums.OpenAlertStatuses).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

// List returns alerts newest first, optionally restricted to one status.
func (r *Repository) List(ctx context.Context, status *enums.AlertStatus) ([]models.StockAlert, error) {
	query := r.db.WithContext(ctx).Model(&models.StockAlert{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	var rows []models.StockAlert
	err := query.Order("created_at DESC").Find(&rows).Error
	return rows, err
}

func (r *Repository) Save(ctx context.Context, alert *models.StockAlert) error {
	return r.db.WithContext(ctx).Save(alert).Error
}

// ResolveOpen marks the given open alerts RESOLVED and returns how many changed.
func (r *Repository) ResolveOpen(ctx context.Context, ids []uuid.UUID, at time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Model(&models.StockAlert{}).
		Where("id IN ? AND status IN ?", ids, enums.OpenAlertStatuses).
		Updates(map[string]any{
			"status":      enums.AlertStatusResolved,
			"resolved_at": at,
		})
	return res.RowsAffected, res.Error
}
