package export

import "fmt"

// NothingToExportError is returned when an export is requested for a grid
// without records or without columns. The message is safe to show to users.
type NothingToExportError struct {
	Records int
	Columns int
}

// Error implements the error interface.
func (e *NothingToExportError) Error() string {
	return "Nothing to export"
}

// NewNothingToExportError creates a new NothingToExportError.
func NewNothingToExportError(records, columns int) *NothingToExportError {
	return &NothingToExportError{
		Records: records,
		Columns: columns,
	}
}

// UnsupportedFormatError is returned when a format tag, configured or derived
// from the file name, has no writer backend.
type UnsupportedFormatError struct {
	Format   string // Resolved tag
	FileName string // File name the tag was derived from, if any
}

// Error implements the error interface.
func (e *UnsupportedFormatError) Error() string {
	if e.FileName != "" {
		return fmt.Sprintf("unsupported export format %q (file %q)", e.Format, e.FileName)
	}
	return fmt.Sprintf("unsupported export format %q", e.Format)
}

// NewUnsupportedFormatError creates a new UnsupportedFormatError.
func NewUnsupportedFormatError(format, fileName string) *UnsupportedFormatError {
	return &UnsupportedFormatError{
		Format:   format,
		FileName: fileName,
	}
}

// TempFileCreationError is returned when the transient file that holds the
// serialized document cannot be created.
type TempFileCreationError struct {
	Dir   string
	Cause error
}

// Error implements the error interface.
func (e *TempFileCreationError) Error() string {
	return fmt.Sprintf("temporary file could not be created [dir=%s]: %v", e.Dir, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *TempFileCreationError) Unwrap() error {
	return e.Cause
}

// NewTempFileCreationError creates a new TempFileCreationError.
func NewTempFileCreationError(dir string, cause error) *TempFileCreationError {
	return &TempFileCreationError{
		Dir:   dir,
		Cause: cause,
	}
}
