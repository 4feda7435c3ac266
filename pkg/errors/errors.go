// Package errors defines the error kinds owned by the operator core.
//
// Only one error kind belongs to this layer's taxonomy: MissingVariableError,
// raised when a canonical-named environment variable is expected but absent.
// Store lookup failures and launcher failures propagate unmodified from their
// origin.
package errors

import (
	"errors"
	"fmt"
)

// MissingVariableError indicates that a canonical-named environment variable
// was expected in the process environment but not found. It is always fatal
// to the calling accessor and never defaulted.
type MissingVariableError struct {
	Name string
}

func (e *MissingVariableError) Error() string {
	return fmt.Sprintf("no environment variable %s found", e.Name)
}

// NewMissingVariableError creates a MissingVariableError for the given
// canonical environment variable name.
func NewMissingVariableError(name string) *MissingVariableError {
	return &MissingVariableError{Name: name}
}

// IsMissingVariable checks if an error is a MissingVariableError.
func IsMissingVariable(err error) bool {
	var mv *MissingVariableError
	return errors.As(err, &mv)
}

// ErrContextNotBound is returned when run-context values are requested before
// a run context has been bound, i.e. before the task has started executing.
var ErrContextNotBound = errors.New("run context not bound: only available during active execution")

// ErrNotBuilt is returned when the execute phase is entered before the build
// phase has completed.
var ErrNotBuilt = errors.New("launch spec not built: Build must complete before Execute")
