package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/errors"
)

type sample struct {
	SKU      string  `json:"sku" validate:"required,sku"`
	Name     string  `json:"name" validate:"required,max=10"`
	Quantity int     `json:"quantity" validate:"gte=0"`
	Email    *string `json:"email" validate:"omitempty,email"`
}

func TestValidateStructPasses(t *testing.T) {
	email := "ops@example.com"
	require.NoError(t, ValidateStruct(&sample{SKU: "MILK-1L", Name: "Milk", Email: &email}))
}

func TestValidateStructMapsDetailsByJSONName(t *testing.T) {
	bad := "not-an-email"
	err := ValidateStruct(&sample{SKU: "bad sku!", Name: "", Quantity: -1, Email: &bad})
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	details, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "is required", details["name"])
	assert.Equal(t, "must be at least 0", details["quantity"])
	assert.Equal(t, "must be a valid email", details["email"])
	assert.Contains(t, details["sku"], "letters")
}
