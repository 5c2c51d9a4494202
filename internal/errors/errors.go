// internal/errors/errors.go
package appErrors

import (
	"fmt"
	"strings"
)

// MissingConfigError reports required environment variables that were
// absent at startup. It is fatal: the process exits before any work.
type MissingConfigError struct {
	Vars []string
}

func (e *MissingConfigError) Error() string {
	return fmt.Sprintf("missing required environment variables: %s", strings.Join(e.Vars, ", "))
}

// Helper constructor
func NewMissingConfig(vars []string) error {
	return &MissingConfigError{Vars: vars}
}

// StoreError wraps a Google Sheets read/write failure. Store failures
// propagate and terminate the run; the sheet is the source of truth.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("sheets %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Helper constructor
func NewStoreError(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}
