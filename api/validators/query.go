package validators

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/enums"
	pkgerrors "github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/errors"
)

func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").WithDetails(map[string]any{"field": key})
	}
	if value < min || value > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter out of range").WithDetails(map[string]any{"field": key, "min": min, "max": max})
	}
	return value, nil
}

// ParseAlertStatus returns nil when the parameter is absent.
func ParseAlertStatus(r *http.Request, key string) (*enums.AlertStatus, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	status, err := enums.ParseAlertStatus(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid alert status").
			WithDetails(map[string]any{"field": key, "value": raw})
	}
	return &status, nil
}
