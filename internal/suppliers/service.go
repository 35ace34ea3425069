package suppliers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/db"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/db/models"
	pkgerrors "github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/errors"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/logger"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/validators"
)

const defaultCountry = "US"

// Service exposes supplier record operations.
type Service interface {
	Create(ctx context.Context, input CreateSupplierInput) (*models.Supplier, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Supplier, error)
	Resolve(ctx context.Context, ref string) (*models.Supplier, error)
	List(ctx context.Context, filter ListFilter) ([]models.Supplier, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateSupplierInput) (*models.Supplier, error)
	Deactivate(ctx context.Context, id uuid.UUID) (*models.Supplier, error)
	Activate(ctx context.Context, id uuid.UUID) (*models.Supplier, error)
}

type service struct {
	repo            *Repository
	dbClient        *db.Client
	logg            *logger.Logger
	defaultLeadTime int
}

// NewService builds a supplier service backed by the provided client.
func NewService(dbClient *db.Client, logg *logger.Logger, defaultLeadTime int) (Service, error) {
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	if defaultLeadTime < 0 {
		return nil, fmt.Errorf("default lead time must be non-negative")
	}
	return &service{
		repo:            NewRepository(dbClient.DB()),
		dbClient:        dbClient,
		logg:            logg,
		defaultLeadTime: defaultLeadTime,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateSupplierInput) (*models.Supplier, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validators.ValidateStruct(input); err != nil {
		return nil, err
	}

	leadTime := s.defaultLeadTime
	if input.LeadTimeDays != nil {
		leadTime = *input.LeadTimeDays
	}
	country := strings.TrimSpace(input.Country)
	if country == "" {
		country = defaultCountry
	}

	supplier := &models.Supplier{
		ID:            uuid.New(),
		Name:          input.Name,
		ContactPerson: trimmed(input.ContactPerson),
		Email:         trimmed(input.Email),
		Phone:         trimmed(input.Phone),
		Address:       trimmed(input.Address),
		City:          trimmed(input.City),
		State:         trimmed(input.State),
		PostalCode:    trimmed(input.PostalCode),
		Country:       country,
		LeadTimeDays:  leadTime,
		IsActive:      true,
	}

	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := ensureNameAvailable(ctx, txRepo, supplier.Name, uuid.Nil); err != nil {
			return err
		}
		if _, err := txRepo.Create(ctx, supplier); err != nil {
			return mapWriteError(err, "db: insert supplier")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ctx = s.logg.WithSupplierID(ctx, supplier.ID.String())
	s.logg.Info(s.logg.WithField(ctx, "name", supplier.Name), "supplier created")
	return supplier, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	supplier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapReadError(err)
	}
	return supplier, nil
}

// Resolve accepts either a supplier id or an exact (case-insensitive) name.
func (s *service) Resolve(ctx context.Context, ref string) (*models.Supplier, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier reference is required")
	}
	if id, err := uuid.Parse(ref); err == nil {
		return s.Get(ctx, id)
	}
	supplier, err := s.repo.FindByName(ctx, ref)
	if err != nil {
		return nil, mapReadError(err)
	}
	return supplier, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]models.Supplier, error) {
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list suppliers")
	}
	return rows, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateSupplierInput) (*models.Supplier, error) {
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		input.Name = &name
	}
	if err := validators.ValidateStruct(input); err != nil {
		return nil, err
	}

	var updated *models.Supplier
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		supplier, err := txRepo.FindByID(ctx, id)
		if err != nil {
			return mapReadError(err)
		}
		if input.Name != nil && !strings.EqualFold(*input.Name, supplier.Name) {
			if err := ensureNameAvailable(ctx, txRepo, *input.Name, supplier.ID); err != nil {
				return err
			}
		}
		applyUpdateToSupplier(supplier, input)
		if err := txRepo.Save(ctx, supplier); err != nil {
			return mapWriteError(err, "db: update supplier")
		}
		updated = supplier
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithSupplierID(ctx, id.String()), "supplier updated")
	return updated, nil
}

func (s *service) Deactivate(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	return s.setActive(ctx, id, false)
}

func (s *service) Activate(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	return s.setActive(ctx, id, true)
}

func (s *service) setActive(ctx context.Context, id uuid.UUID, active bool) (*models.Supplier, error) {
	var supplier *models.Supplier
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		ok, err := txRepo.SetActive(ctx, id, active)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update supplier status")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
		}
		supplier, err = txRepo.FindByID(ctx, id)
		if err != nil {
			return mapReadError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ctx = s.logg.WithField(s.logg.WithSupplierID(ctx, id.String()), "active", active)
	s.logg.Info(ctx, "supplier status changed")
	return supplier, nil
}

func ensureNameAvailable(ctx context.Context, repo *Repository, name string, self uuid.UUID) error {
	existing, err := repo.FindByName(ctx, name)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil
	case err != nil:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lookup supplier name")
	case existing.ID == self:
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "supplier name already exists").
		WithDetails(map[string]string{"name": "must be unique"})
}

func applyUpdateToSupplier(supplier *models.Supplier, input UpdateSupplierInput) {
	if input.Name != nil {
		supplier.Name = *input.Name
	}
	if input.ContactPerson != nil {
		supplier.ContactPerson = trimmed(input.ContactPerson)
	}
	if input.Email != nil {
		supplier.Email = trimmed(input.Email)
	}
	if input.Phone != nil {
		supplier.Phone = trimmed(input.Phone)
	}
	if input.Address != nil {
		supplier.Address = trimmed(input.Address)
	}
	if input.City != nil {
		supplier.City = trimmed(input.City)
	}
	if input.State != nil {
		supplier.State = trimmed(input.State)
	}
	if input.PostalCode != nil {
		supplier.PostalCode = trimmed(input.PostalCode)
	}
	if input.Country != nil && strings.TrimSpace(*input.Country) != "" {
		supplier.Country = strings.TrimSpace(*input.Country)
	}
	if input.LeadTimeDays != nil {
		supplier.LeadTimeDays = *input.LeadTimeDays
	}
}

func mapReadError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
	}
	if pkgerrors.As(err) != nil {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load supplier")
}

func mapWriteError(err error, msg string) error {
	if db.IsUniqueViolation(err, "") {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "supplier name already exists")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, msg)
}

// trimmed drops blank optional strings so they persist as NULL.
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
