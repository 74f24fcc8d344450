package main

import (
	"calcSheets/contracts"
	"context"
	"fmt"
)

// DependencyGraphBuilder walks formulas depth-first from a calculator's
// declared output cells and produces a topological evaluation order. Cells
// not reachable from any output are never visited, so the work is bounded by
// what the outputs need, not by workbook size.
type DependencyGraphBuilder struct {
	store     contracts.WorkbookStore
	evaluator contracts.FormulaEvaluator
}

func NewDependencyGraphBuilder(store contracts.WorkbookStore, evaluator contracts.FormulaEvaluator) *DependencyGraphBuilder {
	return &DependencyGraphBuilder{store: store, evaluator: evaluator}
}

type graphWalk struct {
	builder    *DependencyGraphBuilder
	ctx        context.Context
	workbookID string
	sheet      string

	plan    *contracts.EvaluationPlan
	visited map[string]bool
	onPath  map[string]bool
	path    []contracts.CellAddress
}

func (b *DependencyGraphBuilder) Build(ctx context.Context, workbookID, sheet string, outputs []contracts.CellAddress) (*contracts.EvaluationPlan, error) {
	walk := &graphWalk{
		builder:    b,
		ctx:        ctx,
		workbookID: workbookID,
		sheet:      sheet,
		plan: &contracts.EvaluationPlan{
			Order:    make([]contracts.CellAddress, 0),
			Formulas: make(map[string]string),
		},
		visited: make(map[string]bool),
		onPath:  make(map[string]bool),
	}

	for _, output := range outputs {
		if err := walk.visit(output); err != nil {
			return nil, err
		}
	}

	return walk.plan, nil
}

func (w *graphWalk) visit(address contracts.CellAddress) error {
	key := address.String()

	if w.onPath[key] {
		return &contracts.CircularReferenceError{Cells: w.cycleFrom(address)}
	}
	if w.visited[key] {
		return nil
	}

	formula, err := w.builder.store.ReadFormula(w.ctx, w.workbookID, w.sheet, address)
	if err != nil {
		return err
	}

	if formula == "" {
		w.visited[key] = true
		return nil
	}

	references, ranges, err := w.builder.evaluator.ExtractReferences(formula)
	if err != nil {
		return fmt.Errorf("cell %s: %w", key, err)
	}
	for _, cellRange := range ranges {
		for row := cellRange.TopLeft.Row; row <= cellRange.BottomRight.Row; row++ {
			for column := cellRange.TopLeft.Column; column <= cellRange.BottomRight.Column; column++ {
				references = append(references, contracts.CellAddress{Column: column, Row: row})
			}
		}
	}

	w.onPath[key] = true
	w.path = append(w.path, address)

	for _, reference := range references {
		if err = w.visit(reference); err != nil {
			return err
		}
	}

	w.onPath[key] = false
	w.path = w.path[:len(w.path)-1]
	w.visited[key] = true

	// postorder: every referenced cell is already in the order
	w.plan.Formulas[key] = formula
	w.plan.Order = append(w.plan.Order, address)

	return nil
}

// cycleFrom slices the current traversal path starting at the revisited cell,
// so the error names exactly the cells forming the cycle.
func (w *graphWalk) cycleFrom(address contracts.CellAddress) []contracts.CellAddress {
	for index, cell := range w.path {
		if cell == address {
			cycle := make([]contracts.CellAddress, len(w.path)-index)
			copy(cycle, w.path[index:])
			return cycle
		}
	}
	return []contracts.CellAddress{address}
}
