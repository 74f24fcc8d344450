package contracts

import (
	"errors"
	"fmt"
)

// CellSnapshot resolves a referenced cell to its already-computed value.
// The second return is false when the snapshot holds nothing for the address.
type CellSnapshot func(address CellAddress) (CellValue, bool)

type FormulaEvaluator interface {
	// Evaluate computes a formula (without the leading "=") against a
	// snapshot of cell values. Pure: no side effects, no access outside
	// the snapshot.
	Evaluate(formula string, snapshot CellSnapshot) (CellValue, error)

	// ExtractReferences parses the same grammar but returns only the cells
	// and ranges the formula reads, without requiring values to be present.
	ExtractReferences(formula string) ([]CellAddress, []CellRange, error)
}

var FormulaError = errors.New("formula error")

var UnsupportedFormulaError = fmt.Errorf("%w: unsupported construct", FormulaError)

var DivisionByZeroError = fmt.Errorf("%w: division by zero", FormulaError)
