package main

import (
	"calcSheets/contracts"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsWorkbookStore serves workbooks through the Google Sheets API, the
// workbook id being the spreadsheet id. Every write is durable on the remote
// side, so Flush is a no-op. Transport failures are retried here and only
// here, a bounded number of times with backoff.
type SheetsWorkbookStore struct {
	service *sheets.Service

	maxAttempts int
	backoff     time.Duration
}

const (
	sheetsMaxAttempts    = 3
	sheetsInitialBackoff = 200 * time.Millisecond
)

func NewSheetsWorkbookStore(ctx context.Context, credentialsFile string) (*SheetsWorkbookStore, error) {
	service, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", contracts.BackendUnavailableError, err)
	}

	return &SheetsWorkbookStore{
		service:     service,
		maxAttempts: sheetsMaxAttempts,
		backoff:     sheetsInitialBackoff,
	}, nil
}

func (s *SheetsWorkbookStore) ReadCell(ctx context.Context, workbookID, sheet string, address contracts.CellAddress) (contracts.CellValue, error) {
	matrix, err := s.readValues(ctx, workbookID, sheet+"!"+address.String(), "FORMATTED_VALUE")
	if err != nil {
		return contracts.CellValue{}, err
	}

	if len(matrix) == 0 || len(matrix[0]) == 0 {
		return contracts.EmptyValue(), nil
	}
	return convertSheetValue(matrix[0][0]), nil
}

func (s *SheetsWorkbookStore) ReadFormula(ctx context.Context, workbookID, sheet string, address contracts.CellAddress) (string, error) {
	matrix, err := s.readValues(ctx, workbookID, sheet+"!"+address.String(), "FORMULA")
	if err != nil {
		return "", err
	}

	if len(matrix) == 0 || len(matrix[0]) == 0 {
		return "", nil
	}

	if text, ok := matrix[0][0].(string); ok && len(text) > 0 && text[:1] == FormulaPrefix {
		return text[1:], nil
	}
	return "", nil
}

func (s *SheetsWorkbookStore) WriteCell(ctx context.Context, workbookID, sheet string, address contracts.CellAddress, value contracts.CellValue) error {
	formula, err := s.ReadFormula(ctx, workbookID, sheet, address)
	if err != nil {
		return err
	}
	if formula != "" {
		return fmt.Errorf("%s: %w", address.String(), contracts.ImmutableCellError)
	}

	valueRange := &sheets.ValueRange{
		Values: [][]any{{value.Native()}},
	}

	return s.withRetry(ctx, "write "+address.String(), func() error {
		_, err := s.service.Spreadsheets.Values.
			Update(workbookID, sheet+"!"+address.String(), valueRange).
			ValueInputOption("USER_ENTERED").
			Context(ctx).
			Do()
		return err
	})
}

func (s *SheetsWorkbookStore) ReadRange(ctx context.Context, workbookID, sheet string, cellRange contracts.CellRange) ([][]contracts.CellValue, error) {
	matrix, err := s.readValues(ctx, workbookID, sheet+"!"+cellRange.String(), "FORMATTED_VALUE")
	if err != nil {
		return nil, err
	}

	converted := make([][]contracts.CellValue, len(matrix))
	for rowIndex, row := range matrix {
		converted[rowIndex] = make([]contracts.CellValue, len(row))
		for columnIndex, raw := range row {
			converted[rowIndex][columnIndex] = convertSheetValue(raw)
		}
	}
	return converted, nil
}

func (s *SheetsWorkbookStore) Flush(context.Context, string) error {
	return nil
}

func (s *SheetsWorkbookStore) readValues(ctx context.Context, workbookID, readRange, renderOption string) ([][]any, error) {
	var matrix [][]any

	err := s.withRetry(ctx, "read "+readRange, func() error {
		response, err := s.service.Spreadsheets.Values.
			Get(workbookID, readRange).
			ValueRenderOption(renderOption).
			Context(ctx).
			Do()
		if err != nil {
			return err
		}
		matrix = response.Values
		return nil
	})

	return matrix, err
}

// withRetry retries transient transport failures. Non-transient API answers
// (bad request, missing spreadsheet, permission) fail immediately.
func (s *SheetsWorkbookStore) withRetry(ctx context.Context, operation string, call func() error) error {
	delay := s.backoff

	var err error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		err = call()
		if err == nil {
			return nil
		}

		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			if apiErr.Code == http.StatusNotFound {
				return fmt.Errorf("%s: %w", operation, contracts.WorkbookNotFoundError)
			}
			if !retryableStatus(apiErr.Code) {
				return fmt.Errorf("%w: %s: %s", contracts.BackendUnavailableError, operation, err)
			}
		}

		if attempt == s.maxAttempts {
			break
		}

		slog.Warn("sheets backend retry", "operation", operation, "attempt", attempt, "error", err)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		delay *= 2
	}

	return fmt.Errorf("%w: %s: %s", contracts.BackendUnavailableError, operation, err)
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func convertSheetValue(raw any) contracts.CellValue {
	switch value := raw.(type) {
	case nil:
		return contracts.EmptyValue()
	case bool:
		return contracts.BoolValue(value)
	case float64:
		return contracts.NumberValue(value)
	case string:
		return parseCellText(value)
	default:
		return contracts.TextValue(fmt.Sprint(value))
	}
}
