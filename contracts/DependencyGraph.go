package contracts

import (
	"context"
	"errors"
	"strings"
)

// EvaluationPlan is the output of the graph builder: formula cells reachable
// from the declared outputs, ordered so every cell comes after everything it
// references.
type EvaluationPlan struct {
	// Order lists formula cells in evaluation order.
	Order []CellAddress

	// Formulas holds the formula text (without "=") per cell, keyed by the
	// canonical address string.
	Formulas map[string]string
}

type DependencyGraphBuilder interface {
	Build(ctx context.Context, workbookID, sheet string, outputs []CellAddress) (*EvaluationPlan, error)
}

var CyclicFormulaError = errors.New("circular reference detected")

// CircularReferenceError names the cells forming the cycle.
type CircularReferenceError struct {
	Cells []CellAddress
}

func (e *CircularReferenceError) Error() string {
	names := make([]string, len(e.Cells))
	for i, cell := range e.Cells {
		names[i] = cell.String()
	}
	return CyclicFormulaError.Error() + ": " + strings.Join(names, " -> ")
}

func (e *CircularReferenceError) Unwrap() error {
	return CyclicFormulaError
}
