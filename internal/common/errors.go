package common

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrMissingCredential: no bearer token was presented at all.
	ErrMissingCredential = errors.New("authorization token required")
	// ErrInvalidCredential deliberately covers bad tokens and bad name/PIN
	// combos alike so callers cannot distinguish which check failed.
	ErrInvalidCredential = errors.New("invalid credentials")
	// ErrAccountLocked carries no remaining-time detail.
	ErrAccountLocked = errors.New("account locked: too many failed attempts, try again later")
	// ErrIssuanceExhausted: registration could not allocate a unique PIN.
	ErrIssuanceExhausted = errors.New("could not generate unique PIN")

	ErrNotFound       = errors.New("requested resource not found")
	ErrForbidden      = errors.New("forbidden access")
	ErrBadRequest     = errors.New("bad request")
	ErrConflict       = errors.New("resource conflict")
	ErrInternalServer = errors.New("internal server error")
)

// HTTPStatusFromError maps domain errors to HTTP status codes.
func HTTPStatusFromError(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if errors.Is(err, ErrMissingCredential) || errors.Is(err, ErrInvalidCredential) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrAccountLocked) {
		return http.StatusTooManyRequests
	}
	if errors.Is(err, ErrForbidden) {
		return http.StatusForbidden
	}
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrBadRequest) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrConflict) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrIssuanceExhausted) {
		return http.StatusInternalServerError
	}

	// pgx unique violations that escaped the repository layer.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return http.StatusConflict
	}

	return http.StatusInternalServerError
}

// Errorf creates a new error with formatting, useful for wrapping.
func Errorf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}
