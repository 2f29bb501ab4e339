package store

import "fmt"

// StorageError represents a failed database operation.
type StorageError struct {
	Driver    string // "sqlite" or "sqlite3"
	Operation string // Operation that failed ("open", "count", "query", ...)
	Cause     error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error [driver=%s, operation=%s]: %v", e.Driver, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError creates a new StorageError.
func NewStorageError(driver, operation string, cause error) *StorageError {
	return &StorageError{
		Driver:    driver,
		Operation: operation,
		Cause:     cause,
	}
}

// IdentifierError is returned for table or column names that are not plain
// SQL identifiers.
type IdentifierError struct {
	Kind string // "table" or "column"
	Name string
}

// Error implements the error interface.
func (e *IdentifierError) Error() string {
	return fmt.Sprintf("invalid %s name %q", e.Kind, e.Name)
}
