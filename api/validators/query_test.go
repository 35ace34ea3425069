package validators

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/enums"
	pkgerrors "github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/errors"
)

func TestParseQueryInt(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/v1/alerts", nil)
	v, err := ParseQueryInt(r, "limit", 100, 1, 500)
	require.NoError(t, err)
	assert.Equal(t, 100, v)

	r = httptest.NewRequest("GET", "/api/v1/alerts?limit=25", nil)
	v, err = ParseQueryInt(r, "limit", 100, 1, 500)
	require.NoError(t, err)
	assert.Equal(t, 25, v)

	for _, q := range []string{"abc", "0", "501"} {
		r = httptest.NewRequest("GET", "/api/v1/alerts?limit="+q, nil)
		_, err = ParseQueryInt(r, "limit", 100, 1, 500)
		require.Error(t, err, q)
		assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
	}
}

func TestParseAlertStatus(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/v1/alerts", nil)
	status, err := ParseAlertStatus(r, "status")
	require.NoError(t, err)
	assert.Nil(t, status)

	r = httptest.NewRequest("GET", "/api/v1/alerts?status=active", nil)
	status, err = ParseAlertStatus(r, "status")
	require.NoError(t, err)
	require.NotNil(t, status)
	assert.Equal(t, enums.AlertStatusActive, *status)

	r = httptest.NewRequest("GET", "/api/v1/alerts?status=bogus", nil)
	_, err = ParseAlertStatus(r, "status")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
}
