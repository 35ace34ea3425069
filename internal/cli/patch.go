package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"

	pkgerrors "github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/errors"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/money"
)

// parseAssignments turns repeated key=value flags into a map. Keys are
// lower-cased and dashes become underscores, so "reorder-threshold" and
// "reorder_threshold" name the same field.
func parseAssignments(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), "-", "_")
		if !ok || key == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("expected key=value, got %q", pair))
		}
		out[key] = strings.TrimSpace(value)
	}
	return out, nil
}

// moneyFields rewrites dollar amounts ("price=2.50") into their cents field.
func moneyFields(values map[string]string, fields ...string) (map[string]any, error) {
	out := make(map[string]any, len(values))
	for k, v := range values {
		out[k] = v
	}
	for _, name := range fields {
		raw, ok := values[name]
		if !ok {
			continue
		}
		cents, err := money.ParseCents(raw)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+name).
				WithDetails(map[string]string{name: err.Error()})
		}
		delete(out, name)
		out[name+"_cents"] = cents
	}
	return out, nil
}

// decodePatch fills a pointer-field patch struct from string values. Unknown
// keys are rejected so a typo never turns into a silent no-op.
func decodePatch(values map[string]any, target any) error {
	if len(values) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "nothing to update; pass --set key=value")
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		ZeroFields:       false,
		Result:           target,
		TagName:          "mapstructure",
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build patch decoder")
	}
	if err := decoder.Decode(values); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid update").
			WithDetails(map[string]string{"set": err.Error()})
	}
	return nil
}

// parseQuantities reads repeated ref=qty flags keyed by product reference.
func parseQuantities(pairs []string) (map[string]int, error) {
	out := make(map[string]int, len(pairs))
	for _, pair := range pairs {
		ref, raw, ok := strings.Cut(pair, "=")
		ref = strings.TrimSpace(ref)
		if !ok || ref == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("expected PRODUCT=QTY, got %q", pair))
		}
		qty, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("quantity for %s must be an integer", ref))
		}
		out[ref] = qty
	}
	return out, nil
}

// optionalFlag returns the string flag's value only when it was set.
func optionalFlag(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		return nil
	}
	return &value
}
