package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tauheed2233/Grocery-Inventory-Management-System/internal/suppliers"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/db"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/db/models"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/enums"
	pkgerrors "github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/errors"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/logger"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/validators"
)

// Service exposes product record operations. Quantity is owned by the ledger.
type Service interface {
	Create(ctx context.Context, input CreateProductInput) (*models.Product, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetBySKU(ctx context.Context, sku string) (*models.Product, error)
	Resolve(ctx context.Context, ref string) (*models.Product, error)
	List(ctx context.Context, filter ListFilter) ([]models.Product, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*models.Product, error)
	Deactivate(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Activate(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type service struct {
	repo         *Repository
	supplierRepo *suppliers.Repository
	dbClient     *db.Client
	logg         *logger.Logger
}

// NewService builds a product service backed by the provided client.
func NewService(dbClient *db.Client, logg *logger.Logger) (Service, error) {
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		repo:         NewRepository(dbClient.DB()),
		supplierRepo: suppliers.NewRepository(dbClient.DB()),
		dbClient:     dbClient,
		logg:         logg,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	input.SKU = NormalizeSKU(input.SKU)
	input.Name = strings.TrimSpace(input.Name)
	if err := validators.ValidateStruct(input); err != nil {
		return nil, err
	}
	if input.SupplierID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"supplier_id": "is required"})
	}
	category, err := parseCategory(input.Category)
	if err != nil {
		return nil, err
	}
	unit := strings.TrimSpace(input.Unit)
	if unit == "" {
		unit = defaultUnit
	}

	product := &models.Product{
		ID:               uuid.New(),
		SKU:              input.SKU,
		Name:             input.Name,
		Description:      trimmed(input.Description),
		Category:         category,
		Unit:             unit,
		SupplierID:       input.SupplierID,
		PriceCents:       input.PriceCents,
		CostCents:        input.CostCents,
		Quantity:         input.Quantity,
		InitialQuantity:  input.Quantity,
		ReorderThreshold: input.ReorderThreshold,
		MaxStockLevel:    input.MaxStockLevel,
		ReorderQuantity:  input.ReorderQuantity,
		Barcode:          trimmed(input.Barcode),
		Brand:            trimmed(input.Brand),
		Location:         trimmed(input.Location),
		IsPerishable:     input.IsPerishable,
		IsActive:         true,
	}

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := s.ensureSupplierUsable(ctx, tx, product.SupplierID); err != nil {
			return err
		}
		if err := ensureSKUAvailable(ctx, txRepo, product.SKU, uuid.Nil); err != nil {
			return err
		}
		if _, err := txRepo.Create(ctx, product); err != nil {
			return mapWriteError(err, "db: insert product")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ctx = s.logg.WithProductID(ctx, product.ID.String())
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{"sku": product.SKU, "quantity": product.Quantity}), "product created")
	return product, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapReadError(err)
	}
	return product, nil
}

func (s *service) GetBySKU(ctx context.Context, sku string) (*models.Product, error) {
	product, err := s.repo.FindBySKU(ctx, sku)
	if err != nil {
		return nil, mapReadError(err)
	}
	return product, nil
}

// Resolve accepts either a product id or a SKU.
func (s *service) Resolve(ctx context.Context, ref string) (*models.Product, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product reference is required")
	}
	if id, err := uuid.Parse(ref); err == nil {
		return s.Get(ctx, id)
	}
	return s.GetBySKU(ctx, ref)
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]models.Product, error) {
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}
	return rows, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*models.Product, error) {
	if input.SKU != nil {
		sku := NormalizeSKU(*input.SKU)
		input.SKU = &sku
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		input.Name = &name
	}
	if err := validators.ValidateStruct(input); err != nil {
		return nil, err
	}
	var category *enums.ProductCategory
	if input.Category != nil {
		parsed, err := parseCategory(*input.Category)
		if err != nil {
			return nil, err
		}
		category = &parsed
	}

	var updated *models.Product
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		product, err := txRepo.FindByID(ctx, id)
		if err != nil {
			return mapReadError(err)
		}
		if input.SKU != nil && *input.SKU != product.SKU {
			if err := ensureSKUAvailable(ctx, txRepo, *input.SKU, product.ID); err != nil {
				return err
			}
		}
		if input.SupplierID != nil && *input.SupplierID != product.SupplierID {
			if err := s.ensureSupplierUsable(ctx, tx, *input.SupplierID); err != nil {
				return err
			}
		}
		applyUpdateToProduct(product, input, category)
		if err := txRepo.Save(ctx, product); err != nil {
			return mapWriteError(err, "db: update product")
		}
		updated = product
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithProductID(ctx, id.String()), "product updated")
	return updated, nil
}

func (s *service) Deactivate(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return s.setActive(ctx, id, false)
}

func (s *service) Activate(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return s.setActive(ctx, id, true)
}

func (s *service) setActive(ctx context.Context, id uuid.UUID, active bool) (*models.Product, error) {
	var product *models.Product
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		ok, err := txRepo.SetActive(ctx, id, active)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product status")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		product, err = txRepo.FindByID(ctx, id)
		if err != nil {
			return mapReadError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ctx = s.logg.WithField(s.logg.WithProductID(ctx, id.String()), "active", active)
	s.logg.Info(ctx, "product status changed")
	return product, nil
}

func (s *service) ensureSupplierUsable(ctx context.Context, tx *gorm.DB, supplierID uuid.UUID) error {
	supplier, err := s.supplierRepo.WithTx(tx).FindByID(ctx, supplierID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found").
				WithDetails(map[string]string{"supplier_id": supplierID.String()})
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load supplier")
	}
	if !supplier.IsActive {
		return pkgerrors.New(pkgerrors.CodeValidation, "supplier is inactive").
			WithDetails(map[string]string{"supplier_id": "must reference an active supplier"})
	}
	return nil
}

func ensureSKUAvailable(ctx context.Context, repo *Repository, sku string, self uuid.UUID) error {
	existing, err := repo.FindBySKU(ctx, sku)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil
	case err != nil:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lookup sku")
	case existing.ID == self:
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "sku already exists").
		WithDetails(map[string]string{"sku": "must be unique"})
}

func parseCategory(raw string) (enums.ProductCategory, error) {
	if strings.TrimSpace(raw) == "" {
		return enums.ProductCategoryOther, nil
	}
	category, err := enums.ParseProductCategory(raw)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category").
			WithDetails(map[string]string{"category": err.Error()})
	}
	return category, nil
}

func applyUpdateToProduct(product *models.Product, input UpdateProductInput, category *enums.ProductCategory) {
	if input.SKU != nil {
		product.SKU = *input.SKU
	}
	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = trimmed(input.Description)
	}
	if category != nil {
		product.Category = *category
	}
	if input.Unit != nil && strings.TrimSpace(*input.Unit) != "" {
		product.Unit = strings.TrimSpace(*input.Unit)
	}
	if input.SupplierID != nil {
		product.SupplierID = *input.SupplierID
	}
	if input.PriceCents != nil {
		product.PriceCents = *input.PriceCents
	}
	if input.CostCents != nil {
		product.CostCents = *input.CostCents
	}
	if input.ReorderThreshold != nil {
		product.ReorderThreshold = *input.ReorderThreshold
	}
	if input.MaxStockLevel != nil {
		product.MaxStockLevel = *input.MaxStockLevel
	}
	if input.ReorderQuantity != nil {
		product.ReorderQuantity = *input.ReorderQuantity
	}
	if input.Barcode != nil {
		product.Barcode = trimmed(input.Barcode)
	}
	if input.Brand != nil {
		product.Brand = trimmed(input.Brand)
	}
	if input.Location != nil {
		product.Location = trimmed(input.Location)
	}
	if input.IsPerishable != nil {
		product.IsPerishable = *input.IsPerishable
	}
}

func mapReadError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if pkgerrors.As(err) != nil {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
}

func mapWriteError(err error, msg string) error {
	if db.IsUniqueViolation(err, "") {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "sku already exists")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, msg)
}

func trimmed(value *string) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	if v == "" {
		return nil
	}
	return &v
}
