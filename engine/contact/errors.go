package contact

import (
	"errors"
	"fmt"
)

// CategoryDatabase is the fixed category carried by every backend failure
// surfaced across the store boundary. Callers branch on Category or Code;
// they never see a driver-specific error type.
const CategoryDatabase = "database error"

// Machine-readable store error codes.
const (
	CodeDatabaseError  = "DB_ERROR"
	CodeNotImplemented = "NOT_IMPLEMENTED"
)

// StoreError is the single error kind adapters re-signal backend failures
// as. Detail preserves the original backend error's message as opaque
// diagnostic text.
type StoreError struct {
	Code     string
	Category string
	Message  string
	Detail   string
	Err      error
}

func (e *StoreError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Category, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Category, e.Message)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewDatabaseError wraps a raw backend failure into the uniform store error
// shape.
func NewDatabaseError(message string, err error) *StoreError {
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	return &StoreError{
		Code:     CodeDatabaseError,
		Category: CategoryDatabase,
		Message:  message,
		Detail:   detail,
		Err:      err,
	}
}

// NewNotImplementedError signals a store operation a backend failed to
// provide. This is a programming error, distinct from a runtime database
// failure.
func NewNotImplementedError(operation string) *StoreError {
	return &StoreError{
		Code:    CodeNotImplemented,
		Message: fmt.Sprintf("store operation %s is not implemented", operation),
	}
}

// AsStoreError unwraps err into a *StoreError when one is present in its
// chain.
func AsStoreError(err error) (*StoreError, bool) {
	var serr *StoreError
	if errors.As(err, &serr) {
		return serr, true
	}
	return nil, false
}

// IsDatabaseError reports whether err carries the database failure category.
func IsDatabaseError(err error) bool {
	serr, ok := AsStoreError(err)
	return ok && serr.Category == CategoryDatabase
}
