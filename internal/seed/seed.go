// Package seed loads suppliers and products from YAML files.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"os"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	product "github.com/tauheed2233/Grocery-Inventory-Management-System/internal/products"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/internal/suppliers"
	pkgerrors "github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/errors"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/logger"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/money"
)

//go:embed sample.yaml
var sampleYAML []byte

// File is the decoded seed document. Products name their supplier by name or id.
type File struct {
	Suppliers []suppliers.CreateSupplierInput `yaml:"suppliers"`
	Products  []ProductEntry                  `yaml:"products"`
}

// ProductEntry adds the human-friendly fields a seed file uses for a product.
type ProductEntry struct {
	product.CreateProductInput `yaml:",inline"`
	Supplier                   string `yaml:"supplier"`
	Price                      string `yaml:"price"`
	Cost                       string `yaml:"cost"`
}

// Result counts what Apply created and what already existed.
type Result struct {
	SuppliersCreated int
	SuppliersSkipped int
	ProductsCreated  int
	ProductsSkipped  int
}

// Parse decodes a seed document.
func Parse(data []byte) (*File, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("seed: document is empty")
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("seed: decode: %w", err)
	}
	return &f, nil
}

// LoadFile reads and decodes a seed document from disk.
func LoadFile(path string) (*File, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("seed: read %s: %w", path, err)
	}
	f, err := Parse(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Sample returns the bundled sample data set.
func Sample() (*File, error) {
	return Parse(sampleYAML)
}

// Loader writes seed documents through the supplier and product services.
type Loader struct {
	suppliers suppliers.Service
	products  product.Service
	logg      *logger.Logger
}

func NewLoader(supplierSvc suppliers.Service, productSvc product.Service, logg *logger.Logger) (*Loader, error) {
	if supplierSvc == nil || productSvc == nil {
		return nil, fmt.Errorf("supplier and product services required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Loader{suppliers: supplierSvc, products: productSvc, logg: logg}, nil
}

// Apply creates the suppliers and products that do not exist yet. Existing
// supplier names and SKUs are skipped, so applying the same file twice is a
// no-op. Failures are collected and the remaining entries still load.
func (l *Loader) Apply(ctx context.Context, f *File) (Result, error) {
	var (
		result Result
		errs   error
	)
	for _, input := range f.Suppliers {
		existing, err := l.suppliers.Resolve(ctx, input.Name)
		switch {
		case err == nil && existing != nil:
			result.SuppliersSkipped++
			continue
		case err != nil && !pkgerrors.IsCode(err, pkgerrors.CodeNotFound):
			errs = multierr.Append(errs, fmt.Errorf("supplier %q: %w", input.Name, err))
			continue
		}
		if _, err := l.suppliers.Create(ctx, input); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("supplier %q: %w", input.Name, err))
			continue
		}
		result.SuppliersCreated++
	}

	for _, entry := range f.Products {
		created, err := l.applyProduct(ctx, entry)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("product %q: %w", entry.SKU, err))
			continue
		}
		if created {
			result.ProductsCreated++
		} else {
			result.ProductsSkipped++
		}
	}

	l.logg.Info(l.logg.WithFields(ctx, map[string]any{
		"suppliers_created": result.SuppliersCreated,
		"products_created":  result.ProductsCreated,
	}), "seed applied")
	return result, errs
}

func (l *Loader) applyProduct(ctx context.Context, entry ProductEntry) (bool, error) {
	if _, err := l.products.GetBySKU(ctx, entry.SKU); err == nil {
		return false, nil
	} else if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		return false, err
	}

	supplier, err := l.suppliers.Resolve(ctx, entry.Supplier)
	if err != nil {
		return false, err
	}
	input := entry.CreateProductInput
	input.SupplierID = supplier.ID
	if input.PriceCents, err = parseAmount("price", entry.Price); err != nil {
		return false, err
	}
	if input.CostCents, err = parseAmount("cost", entry.Cost); err != nil {
		return false, err
	}
	if _, err := l.products.Create(ctx, input); err != nil {
		return false, err
	}
	return true, nil
}

func parseAmount(field, raw string) (int64, error) {
	if raw == "" {
		return 0, nil
	}
	cents, err := money.ParseCents(raw)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+field).
			WithDetails(map[string]string{field: err.Error()})
	}
	return cents, nil
}
