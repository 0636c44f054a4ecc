// Package evalsheet merges trainee rosters with score tables and writes evaluation results
// into spreadsheet templates.
package evalsheet

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by all evalsheet packages.
var (
	// ErrMissingKeyColumn indicates a table taking part in a join lacks the key column.
	ErrMissingKeyColumn = errors.New("missing key column")

	// ErrSheetNotFound indicates no sheet matched the requested selector.
	ErrSheetNotFound = errors.New("sheet not found")

	// ErrMalformedTable indicates a table whose shape or values cannot be processed.
	ErrMalformedTable = errors.New("malformed table")

	// ErrEmptyPrimaryTable indicates the roster has no rows. The merge result is still usable.
	ErrEmptyPrimaryTable = errors.New("empty primary table")

	// ErrProcessingFailure wraps any other failure raised while handling a file.
	ErrProcessingFailure = errors.New("processing failure")

	// ErrMacroPayloadChanged indicates a saved template no longer carries its original macro project.
	ErrMacroPayloadChanged = errors.New("macro payload changed")
)

// KeyColumnError reports a key column missing from a table.
type KeyColumnError struct {
	Table  string
	Column string
}

func (e *KeyColumnError) Error() string {
	return fmt.Sprintf("table %q has no key column %q", e.Table, e.Column)
}

func (e *KeyColumnError) Unwrap() error {
	return ErrMissingKeyColumn
}

// NewKeyColumnError creates a new KeyColumnError.
func NewKeyColumnError(table, column string) *KeyColumnError {
	return &KeyColumnError{Table: table, Column: column}
}

// MalformedTableError reports why a table was rejected.
type MalformedTableError struct {
	Table  string
	Reason string
}

func (e *MalformedTableError) Error() string {
	return fmt.Sprintf("malformed table %q: %s", e.Table, e.Reason)
}

func (e *MalformedTableError) Unwrap() error {
	return ErrMalformedTable
}

// NewMalformedTableError creates a new MalformedTableError.
func NewMalformedTableError(table, reason string) *MalformedTableError {
	return &MalformedTableError{Table: table, Reason: reason}
}

// SheetError reports a sheet selector that matched nothing.
type SheetError struct {
	Book     string
	Selector string
}

func (e *SheetError) Error() string {
	if e.Selector == "" {
		return fmt.Sprintf("workbook %q has no sheets", e.Book)
	}
	return fmt.Sprintf("workbook %q has no sheet matching %q", e.Book, e.Selector)
}

func (e *SheetError) Unwrap() error {
	return ErrSheetNotFound
}

// NewSheetError creates a new SheetError.
func NewSheetError(book, selector string) *SheetError {
	return &SheetError{Book: book, Selector: selector}
}

// ProcessingError ties a failure to the file that triggered it.
type ProcessingError struct {
	File string
	Err  error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("processing %q: %v", e.File, e.Err)
}

func (e *ProcessingError) Unwrap() []error {
	return []error{ErrProcessingFailure, e.Err}
}

// NewProcessingError creates a new ProcessingError. A nil err yields nil.
func NewProcessingError(file string, err error) error {
	if err == nil {
		return nil
	}
	return &ProcessingError{File: file, Err: err}
}

// UserMessage converts an operation error into text suitable for the person who triggered it.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var (
		keyErr   *KeyColumnError
		tableErr *MalformedTableError
		sheetErr *SheetError
		procErr  *ProcessingError
	)
	switch {
	case errors.As(err, &keyErr):
		return fmt.Sprintf("File %q has no column %q. Make sure the column %q exists in all files.",
			keyErr.Table, keyErr.Column, keyErr.Column)
	case errors.As(err, &sheetErr):
		return fmt.Sprintf("File %q: no sheet matching %q.", sheetErr.Book, sheetErr.Selector)
	case errors.As(err, &tableErr):
		return fmt.Sprintf("File %q could not be read as a table: %s.", tableErr.Table, tableErr.Reason)
	case errors.Is(err, ErrEmptyPrimaryTable):
		return "The main file has no rows; the result is empty."
	case errors.As(err, &procErr):
		return fmt.Sprintf("File %q could not be processed: %v.", procErr.File, procErr.Err)
	default:
		return fmt.Sprintf("Processing failed: %v.", err)
	}
}
