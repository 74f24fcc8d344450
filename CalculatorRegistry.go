package main

import (
	"calcSheets/contracts"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	json "github.com/bytedance/sonic"
)

// CalculatorRegistry holds every calculator definition loaded at startup.
// Immutable afterwards: evaluation never writes back into it.
type CalculatorRegistry struct {
	calculators map[string]*contracts.CalculatorConfig
}

// calculatorFile is the on-disk JSON shape, one file per calculator, the
// calculator name being the file stem.
type calculatorFile struct {
	Title       string                   `json:"title"`
	Standard    string                   `json:"standard"`
	Description string                   `json:"description"`
	Workbook    *contracts.WorkbookRef   `json:"workbook"`
	Inputs      map[string]paramFileSpec `json:"inputs"`
	Outputs     map[string]paramFileSpec `json:"outputs"`
}

type paramFileSpec struct {
	Cell        string `json:"cell"`
	Description string `json:"description"`
	Unit        string `json:"unit"`
}

// LoadCalculatorRegistry reads every *.json file under configsDir. A file
// that fails validation loses only that one calculator: the rest of the
// registry stays usable.
func LoadCalculatorRegistry(configsDir string) (*CalculatorRegistry, error) {
	entries, err := os.ReadDir(configsDir)
	if err != nil {
		return nil, fmt.Errorf("calculator configs dir: %w", err)
	}

	registry := &CalculatorRegistry{
		calculators: make(map[string]*contracts.CalculatorConfig),
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), ".json")
		config, loadErr := loadCalculatorFile(filepath.Join(configsDir, entry.Name()), name)
		if loadErr == nil && registry.calculators[name] != nil {
			loadErr = fmt.Errorf("%w: duplicate calculator name `%s`", contracts.ConfigError, name)
		}

		if loadErr != nil {
			slog.Warn("skipping calculator config", "file", entry.Name(), "error", loadErr)
			continue
		}

		registry.calculators[name] = config
	}

	return registry, nil
}

func loadCalculatorFile(path string, name string) (*contracts.CalculatorConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file calculatorFile
	if err = json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %s", contracts.ConfigError, err)
	}

	config := &contracts.CalculatorConfig{
		Name:        name,
		Title:       file.Title,
		Standard:    file.Standard,
		Description: file.Description,
		Workbook:    file.Workbook,
		Inputs:      make(map[string]contracts.ParamSpec, len(file.Inputs)),
		Outputs:     make(map[string]contracts.ParamSpec, len(file.Outputs)),
		Status:      contracts.StatusExecutable,
	}

	if len(file.Outputs) == 0 {
		return nil, fmt.Errorf("%w: calculator `%s` declares no outputs", contracts.ConfigError, name)
	}

	if err = convertParams(file.Inputs, config.Inputs, name, "input"); err != nil {
		return nil, err
	}
	if err = convertParams(file.Outputs, config.Outputs, name, "output"); err != nil {
		return nil, err
	}

	outputCells := make(map[string]string, len(config.Outputs))
	for paramName, spec := range config.Outputs {
		cell := spec.Cell.String()
		if other, taken := outputCells[cell]; taken {
			return nil, fmt.Errorf("%w: outputs `%s` and `%s` both map to %s", contracts.ConfigError, other, paramName, cell)
		}
		outputCells[cell] = paramName
	}

	if file.Workbook == nil {
		// drafted calculator, registered before it is wired to a workbook
		config.Status = contracts.StatusTemplateOnly
		return config, nil
	}

	if file.Workbook.Backend != contracts.BackendExcel && file.Workbook.Backend != contracts.BackendGoogleSheets {
		return nil, fmt.Errorf("%w: unknown backend `%s`", contracts.ConfigError, file.Workbook.Backend)
	}
	if file.Workbook.WorkbookID == "" || file.Workbook.Sheet == "" {
		return nil, fmt.Errorf("%w: workbook ref of `%s` misses id or sheet", contracts.ConfigError, name)
	}

	return config, nil
}

func convertParams(from map[string]paramFileSpec, into map[string]contracts.ParamSpec, calculator, kind string) error {
	for paramName, spec := range from {
		address, err := ParseCellAddress(spec.Cell)
		if err != nil {
			return fmt.Errorf("%w: %s `%s` of `%s`: %s", contracts.ConfigError, kind, paramName, calculator, err)
		}
		into[paramName] = contracts.ParamSpec{
			Cell:        address,
			Description: spec.Description,
			Unit:        spec.Unit,
		}
	}
	return nil
}

func (r *CalculatorRegistry) Get(name string) (*contracts.CalculatorConfig, error) {
	config, ok := r.calculators[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, contracts.CalculatorNotFoundError)
	}
	return config, nil
}

func (r *CalculatorRegistry) List() []*contracts.CalculatorConfig {
	list := make([]*contracts.CalculatorConfig, 0, len(r.calculators))
	for _, config := range r.calculators {
		list = append(list, config)
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].Name < list[j].Name
	})

	return list
}
