package suppliers

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/db/models"
)

// Repository persists suppliers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) Create(ctx context.Context, supplier *models.Supplier) (*models.Supplier, error) {
	if supplier.ID == uuid.Nil {
		supplier.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(supplier).Error; err != nil {
		return nil, err
	}
	return supplier, nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	var supplier models.Supplier
	if err := r.db.WithContext(ctx).First(&supplier, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

// FindByName matches names case-insensitively.
func (r *Repository) FindByName(ctx context.Context, name string) (*models.Supplier, error) {
	var supplier models.Supplier
	if err := r.db.WithContext(ctx).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).
		First(&supplier).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

// FindByIDs loads suppliers keyed by id.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Supplier, error) {
	out := make(map[uuid.UUID]models.Supplier, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.Supplier
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = row
	}
	return out, nil
}

func (r *Repository) List(ctx context.Context, filter ListFilter) ([]models.Supplier, error) {
	query := r.db.WithContext(ctx).Model(&models.Supplier{})
	if !filter.IncludeInactive {
		query = query.Where("is_active = ?", true)
	}
	if term := strings.TrimSpace(filter.Search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(COALESCE(contact_person, '')) LIKE ?", like, like)
	}
	var rows []models.Supplier
	if err := query.Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	if filter.Match == nil {
		return rows, nil
	}
	matched := rows[:0]
	for _, row := range rows {
		if filter.Match(row) {
			matched = append(matched, row)
		}
	}
	return matched, nil
}

// Save persists every column of an existing supplier.
func (r *Repository) Save(ctx context.Context, supplier *models.Supplier) error {
	return r.db.WithContext(ctx).Save(supplier).Error
}

// SetActive flips the active flag and reports whether a row matched.
func (r *Repository) SetActive(ctx context.Context, id uuid.UUID, active bool) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Supplier{}).
		Where("id = ?", id).
		Update("is_active", active)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
