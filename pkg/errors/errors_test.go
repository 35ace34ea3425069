package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		exitCode  int
		status    int
		publicMsg string
		retryable bool
		detailsOK bool
	}{
		{code: CodeValidation, exitCode: 2, status: http.StatusBadRequest, publicMsg: "validation failed", detailsOK: true},
		{code: CodeNotFound, exitCode: 3, status: http.StatusNotFound, publicMsg: "resource not found", detailsOK: true},
		{code: CodeConflict, exitCode: 4, status: http.StatusConflict, publicMsg: "conflict detected"},
		{code: CodeInsufficientStock, exitCode: 5, status: http.StatusConflict, publicMsg: "insufficient stock", detailsOK: true},
		{code: CodeStateConflict, exitCode: 6, status: http.StatusConflict, publicMsg: "state transition disallowed", detailsOK: true},
		{code: CodeInternal, exitCode: 1, status: http.StatusInternalServerError, publicMsg: "internal error", retryable: true},
		{code: CodeDependency, exitCode: 7, status: http.StatusServiceUnavailable, publicMsg: "dependency unavailable", retryable: true, detailsOK: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.ExitCode != tt.exitCode {
			t.Fatalf("code %s expected exit code %d got %d", tt.code, tt.exitCode, meta.ExitCode)
		}
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected http status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.ExitCode != 1 {
		t.Fatalf("expected internal exit code, got %d", meta.ExitCode)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "missing sku")
	if base.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", base.Code())
	}
	if base.Message() != "missing sku" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}

	base.WithDetails(map[string]any{"field": "sku"})
	if base.Details() == nil {
		t.Fatalf("details should be preserved")
	}

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeDependency, cause, "loading product")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	if wrapped.Error() != "DEPENDENCY_ERROR: loading product" {
		t.Fatalf("unexpected error string %q", wrapped.Error())
	}
}

func TestAsAndIsCodeFollowWrapping(t *testing.T) {
	err := fmt.Errorf("sell: %w", New(CodeInsufficientStock, "not enough"))
	if got := As(err); got == nil || got.Code() != CodeInsufficientStock {
		t.Fatalf("As failed to return typed error")
	}
	if !IsCode(err, CodeInsufficientStock) {
		t.Fatalf("expected IsCode to match")
	}
	if IsCode(err, CodeNotFound) {
		t.Fatalf("IsCode matched the wrong code")
	}
	if CodeOf(stdErrors.New("plain")) != CodeInternal {
		t.Fatalf("untyped errors should map to internal")
	}
	if As(nil) != nil {
		t.Fatalf("As(nil) should return nil")
	}
}

func TestDumpCollectsChain(t *testing.T) {
	cause := stdErrors.New("disk full")
	err := fmt.Errorf("apply movement: %w", Wrap(CodeDependency, cause, "insert transaction"))

	d := Dump(err)
	if d.Code != CodeDependency {
		t.Fatalf("expected dependency code, got %s", d.Code)
	}
	if len(d.Chain) != 3 {
		t.Fatalf("expected 3 chain entries, got %d: %v", len(d.Chain), d.Chain)
	}
	if d.PGCode != "" || d.SQLiteCode != 0 {
		t.Fatalf("unexpected driver fields in dump: %+v", d)
	}
}

func TestConstraintCodeRecognisesDrivers(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
		ok   bool
	}{
		{name: "pgx unique", err: fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "uq_products_sku"}), code: CodeConflict, ok: true},
		{name: "pgx check", err: &pgconn.PgError{Code: "23514"}, code: CodeValidation, ok: true},
		{name: "pq foreign key", err: &pq.Error{Code: "23503"}, code: CodeValidation, ok: true},
		{name: "sqlite unique", err: sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}, code: CodeConflict, ok: true},
		{name: "sqlite check", err: sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintCheck}, code: CodeValidation, ok: true},
		{name: "pgx other", err: &pgconn.PgError{Code: "40001"}},
		{name: "plain", err: stdErrors.New("boom")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, ok := ConstraintCode(tt.err)
			if ok != tt.ok || code != tt.code {
				t.Fatalf("ConstraintCode() = %q, %v; want %q, %v", code, ok, tt.code, tt.ok)
			}
		})
	}

	d := Dump(&pgconn.PgError{Code: "23505", ConstraintName: "uq_suppliers_name"})
	if d.PGConstraint != "uq_suppliers_name" {
		t.Fatalf("expected constraint in dump, got %+v", d)
	}
}
