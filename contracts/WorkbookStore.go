package contracts

import (
	"context"
	"errors"
)

// WorkbookStore is the capability set every workbook backend satisfies.
// Callers never branch on which backend is behind it.
type WorkbookStore interface {
	ReadCell(ctx context.Context, workbookID, sheet string, address CellAddress) (CellValue, error)

	// ReadFormula returns the formula text of a cell without the leading "=",
	// or "" when the cell holds a literal.
	ReadFormula(ctx context.Context, workbookID, sheet string, address CellAddress) (string, error)

	// WriteCell stores a literal value. Writing over a formula cell fails
	// with ImmutableCellError.
	WriteCell(ctx context.Context, workbookID, sheet string, address CellAddress, value CellValue) error

	ReadRange(ctx context.Context, workbookID, sheet string, cellRange CellRange) ([][]CellValue, error)

	// Flush makes previous writes durable. A no-op for backends that are
	// durable per write.
	Flush(ctx context.Context, workbookID string) error
}

var WorkbookNotFoundError = errors.New("workbook not found")

// ImmutableCellError guards formula cells: only declared input cells hold
// caller-written literals, derived cells are never written directly.
var ImmutableCellError = errors.New("cell holds a formula and cannot be written")

var BackendUnavailableError = errors.New("workbook backend unavailable")
