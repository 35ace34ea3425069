package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"go.uber.org/multierr"

	pkgerrors "github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/errors"
)

// exitCode maps typed errors to their configured process exit status.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	if te := pkgerrors.As(err); te != nil {
		return pkgerrors.MetadataFor(te.Code()).ExitCode
	}
	return 1
}

// renderError prints one "error: CODE: message" line per error, followed by
// any details the code allows.
func renderError(w io.Writer, err error) {
	for _, single := range multierr.Errors(err) {
		fmt.Fprintln(w, dangerStyle.Render("error:"), single.Error())
		te := pkgerrors.As(single)
		if te == nil || !pkgerrors.MetadataFor(te.Code()).DetailsAllowed {
			continue
		}
		renderDetails(w, te.Details())
	}
}

func renderDetails(w io.Writer, details any) {
	switch d := details.(type) {
	case nil:
	case map[string]string:
		for _, k := range sortedKeys(d) {
			fmt.Fprintf(w, "  %s: %s\n", k, d[k])
		}
	case map[string]any:
		for _, k := range sortedKeys(d) {
			fmt.Fprintf(w, "  %s: %v\n", k, d[k])
		}
	default:
		if raw, err := json.Marshal(d); err == nil {
			fmt.Fprintf(w, "  %s\n", raw)
		}
	}
}
