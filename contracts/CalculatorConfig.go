package contracts

import "errors"

// Workbook backend names selectable in a calculator config.
const (
	BackendExcel        = "excel"
	BackendGoogleSheets = "google_sheets"
)

// CalculatorStatus distinguishes drafted calculators from executable ones.
type CalculatorStatus string

const (
	StatusExecutable   CalculatorStatus = "executable"
	StatusTemplateOnly CalculatorStatus = "template_only"
)

// ParamSpec maps one logical input/output name onto a workbook cell.
type ParamSpec struct {
	Cell        CellAddress `json:"cell"`
	Description string      `json:"description,omitempty"`
	Unit        string      `json:"unit,omitempty"`
}

// WorkbookRef identifies the backing workbook of a calculator: which backend
// serves it, the backend-scoped workbook id (file name or remote sheet id)
// and the sheet/tab inside it.
type WorkbookRef struct {
	Backend    string `json:"backend"`
	WorkbookID string `json:"workbook_id"`
	Sheet      string `json:"sheet"`
}

// CalculatorConfig is one named calculator definition. Immutable after load.
type CalculatorConfig struct {
	Name        string               `json:"name"`
	Title       string               `json:"title"`
	Standard    string               `json:"standard,omitempty"`
	Description string               `json:"description,omitempty"`
	Workbook    *WorkbookRef         `json:"workbook,omitempty"`
	Inputs      map[string]ParamSpec `json:"inputs"`
	Outputs     map[string]ParamSpec `json:"outputs"`
	Status      CalculatorStatus     `json:"status"`
}

type CalculatorRegistry interface {
	Get(name string) (*CalculatorConfig, error)
	List() []*CalculatorConfig
}

var ConfigError = errors.New("invalid calculator config")

var CalculatorNotFoundError = errors.New("calculator not found")

// NotExecutableError rejects execution of template_only calculators, the ones
// registered before an engineer wired them to a live workbook.
var NotExecutableError = errors.New("calculator is not wired to a workbook")
