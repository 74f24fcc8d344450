package main

import (
	"calcSheets/contracts"
	"context"
	"fmt"
	"sync"
)

type memoryCell struct {
	value   contracts.CellValue
	formula string
}

// MemoryWorkbookStore keeps workbooks in process memory. Used in tests and
// for seeding demo calculators without a real backend.
type MemoryWorkbookStore struct {
	mu        sync.RWMutex
	workbooks map[string]map[string]map[string]memoryCell
}

func NewMemoryWorkbookStore() *MemoryWorkbookStore {
	return &MemoryWorkbookStore{
		workbooks: make(map[string]map[string]map[string]memoryCell),
	}
}

func (s *MemoryWorkbookStore) cell(workbookID, sheet string, address contracts.CellAddress) (memoryCell, bool) {
	sheets, ok := s.workbooks[workbookID]
	if !ok {
		return memoryCell{}, false
	}
	cells, ok := sheets[sheet]
	if !ok {
		return memoryCell{}, false
	}
	cell, ok := cells[address.String()]
	return cell, ok
}

func (s *MemoryWorkbookStore) upsert(workbookID, sheet string, address contracts.CellAddress, cell memoryCell) {
	if _, ok := s.workbooks[workbookID]; !ok {
		s.workbooks[workbookID] = make(map[string]map[string]memoryCell)
	}
	if _, ok := s.workbooks[workbookID][sheet]; !ok {
		s.workbooks[workbookID][sheet] = make(map[string]memoryCell)
	}
	s.workbooks[workbookID][sheet][address.String()] = cell
}

func (s *MemoryWorkbookStore) ReadCell(_ context.Context, workbookID, sheet string, address contracts.CellAddress) (contracts.CellValue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cell, ok := s.cell(workbookID, sheet, address)
	if !ok {
		return contracts.EmptyValue(), nil
	}
	return cell.value, nil
}

func (s *MemoryWorkbookStore) ReadFormula(_ context.Context, workbookID, sheet string, address contracts.CellAddress) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cell, _ := s.cell(workbookID, sheet, address)
	return cell.formula, nil
}

func (s *MemoryWorkbookStore) WriteCell(_ context.Context, workbookID, sheet string, address contracts.CellAddress, value contracts.CellValue) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cell, ok := s.cell(workbookID, sheet, address); ok && cell.formula != "" {
		return fmt.Errorf("%s: %w", address.String(), contracts.ImmutableCellError)
	}

	s.upsert(workbookID, sheet, address, memoryCell{value: value})
	return nil
}

// SetFormula seeds a formula cell. Not part of the WorkbookStore capability
// set: formula cells are authored by engineers, never by callers.
func (s *MemoryWorkbookStore) SetFormula(workbookID, sheet string, address contracts.CellAddress, formula string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.upsert(workbookID, sheet, address, memoryCell{formula: formula})
}

func (s *MemoryWorkbookStore) ReadRange(ctx context.Context, workbookID, sheet string, cellRange contracts.CellRange) ([][]contracts.CellValue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matrix := make([][]contracts.CellValue, 0, cellRange.BottomRight.Row-cellRange.TopLeft.Row+1)
	for row := cellRange.TopLeft.Row; row <= cellRange.BottomRight.Row; row++ {
		line := make([]contracts.CellValue, 0, cellRange.BottomRight.Column-cellRange.TopLeft.Column+1)
		for column := cellRange.TopLeft.Column; column <= cellRange.BottomRight.Column; column++ {
			cell, _ := s.cell(workbookID, sheet, contracts.CellAddress{Column: column, Row: row})
			line = append(line, cell.value)
		}
		matrix = append(matrix, line)
	}
	return matrix, nil
}

func (s *MemoryWorkbookStore) Flush(context.Context, string) error {
	return nil
}
