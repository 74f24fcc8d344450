package main

import (
	"calcSheets/contracts"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"
)

// ExcelWorkbookStore serves workbooks from xlsx files in one directory, the
// workbook id being the file name. Writes live in memory until Flush saves
// the file.
type ExcelWorkbookStore struct {
	workbooksDir string

	mu    sync.Mutex
	files map[string]*excelize.File
}

func NewExcelWorkbookStore(workbooksDir string) *ExcelWorkbookStore {
	return &ExcelWorkbookStore{
		workbooksDir: workbooksDir,
		files:        make(map[string]*excelize.File),
	}
}

func (s *ExcelWorkbookStore) file(workbookID string) (*excelize.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if file, ok := s.files[workbookID]; ok {
		return file, nil
	}

	path := filepath.Join(s.workbooksDir, workbookID)
	file, err := excelize.OpenFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", workbookID, contracts.WorkbookNotFoundError)
		}
		return nil, fmt.Errorf("%w: %s", contracts.BackendUnavailableError, err)
	}

	s.files[workbookID] = file
	return file, nil
}

func (s *ExcelWorkbookStore) ReadCell(_ context.Context, workbookID, sheet string, address contracts.CellAddress) (contracts.CellValue, error) {
	file, err := s.file(workbookID)
	if err != nil {
		return contracts.CellValue{}, err
	}

	raw, err := file.GetCellValue(sheet, address.String())
	if err != nil {
		return contracts.CellValue{}, fmt.Errorf("%w: %s", contracts.BackendUnavailableError, err)
	}

	return parseCellText(raw), nil
}

func (s *ExcelWorkbookStore) ReadFormula(_ context.Context, workbookID, sheet string, address contracts.CellAddress) (string, error) {
	file, err := s.file(workbookID)
	if err != nil {
		return "", err
	}

	formula, err := file.GetCellFormula(sheet, address.String())
	if err != nil {
		return "", fmt.Errorf("%w: %s", contracts.BackendUnavailableError, err)
	}

	return strings.TrimPrefix(formula, FormulaPrefix), nil
}

func (s *ExcelWorkbookStore) WriteCell(ctx context.Context, workbookID, sheet string, address contracts.CellAddress, value contracts.CellValue) error {
	formula, err := s.ReadFormula(ctx, workbookID, sheet, address)
	if err != nil {
		return err
	}
	if formula != "" {
		return fmt.Errorf("%s: %w", address.String(), contracts.ImmutableCellError)
	}

	file, err := s.file(workbookID)
	if err != nil {
		return err
	}

	if err = file.SetCellValue(sheet, address.String(), value.Native()); err != nil {
		return fmt.Errorf("%w: %s", contracts.BackendUnavailableError, err)
	}
	return nil
}

func (s *ExcelWorkbookStore) ReadRange(ctx context.Context, workbookID, sheet string, cellRange contracts.CellRange) ([][]contracts.CellValue, error) {
	matrix := make([][]contracts.CellValue, 0, cellRange.BottomRight.Row-cellRange.TopLeft.Row+1)

	for row := cellRange.TopLeft.Row; row <= cellRange.BottomRight.Row; row++ {
		line := make([]contracts.CellValue, 0, cellRange.BottomRight.Column-cellRange.TopLeft.Column+1)
		for column := cellRange.TopLeft.Column; column <= cellRange.BottomRight.Column; column++ {
			value, err := s.ReadCell(ctx, workbookID, sheet, contracts.CellAddress{Column: column, Row: row})
			if err != nil {
				return nil, err
			}
			line = append(line, value)
		}
		matrix = append(matrix, line)
	}

	return matrix, nil
}

func (s *ExcelWorkbookStore) Flush(_ context.Context, workbookID string) error {
	file, err := s.file(workbookID)
	if err != nil {
		return err
	}

	if err = file.Save(); err != nil {
		return fmt.Errorf("%w: %s", contracts.BackendUnavailableError, err)
	}
	return nil
}

func (s *ExcelWorkbookStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var firstErr error
	for _, file := range s.files {
		if err := file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.files = make(map[string]*excelize.File)
	return firstErr
}

// parseCellText maps the display text a backend returns into the tagged
// value variant.
func parseCellText(raw string) contracts.CellValue {
	if raw == "" {
		return contracts.EmptyValue()
	}
	if strings.HasPrefix(raw, "#") {
		return contracts.ErrorValue(raw)
	}
	if strings.EqualFold(raw, "TRUE") {
		return contracts.BoolValue(true)
	}
	if strings.EqualFold(raw, "FALSE") {
		return contracts.BoolValue(false)
	}
	if number, err := strconv.ParseFloat(raw, 64); err == nil {
		return contracts.NumberValue(number)
	}
	return contracts.TextValue(raw)
}
