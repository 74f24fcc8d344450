package main

import (
	"calcSheets/contracts"
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	json "github.com/bytedance/sonic"
	"github.com/google/uuid"
)

// CalculationOrchestrator runs the execute-calculation operation: resolve
// config, write inputs, evaluate the formula graph, read outputs back. One
// write+evaluate cycle at a time per workbook.
type CalculationOrchestrator struct {
	registry  contracts.CalculatorRegistry
	stores    map[string]contracts.WorkbookStore
	evaluator contracts.FormulaEvaluator
	cache     contracts.ResultCache
	locks     contracts.WorkbookLocker
	webhooks  contracts.WebhookDispatcher

	defaultLockTimeout time.Duration
}

// canonicalJson sorts map keys so identical inputs always produce the same
// cache key.
var canonicalJson = json.Config{SortMapKeys: true}.Froze()

func NewCalculationOrchestrator(
	registry contracts.CalculatorRegistry,
	stores map[string]contracts.WorkbookStore,
	evaluator contracts.FormulaEvaluator,
	cache contracts.ResultCache,
	locks contracts.WorkbookLocker,
	webhooks contracts.WebhookDispatcher,
	defaultLockTimeout time.Duration,
) *CalculationOrchestrator {
	return &CalculationOrchestrator{
		registry:           registry,
		stores:             stores,
		evaluator:          evaluator,
		cache:              cache,
		locks:              locks,
		webhooks:           webhooks,
		defaultLockTimeout: defaultLockTimeout,
	}
}

func (o *CalculationOrchestrator) Execute(ctx context.Context, calculatorName string, inputs map[string]any, opts contracts.ExecuteOptions) (*contracts.CalculationResult, error) {
	config, err := o.registry.Get(calculatorName)
	if err != nil {
		return nil, err
	}

	if config.Status != contracts.StatusExecutable {
		return nil, fmt.Errorf("%s: %w", calculatorName, contracts.NotExecutableError)
	}

	if err = validateInputs(config, inputs); err != nil {
		return nil, err
	}

	cellInputs, err := convertInputs(config, inputs)
	if err != nil {
		return nil, err
	}

	workbookID := config.Workbook.WorkbookID
	cacheKey, err := buildCacheKey(calculatorName, inputs)
	if err != nil {
		return nil, err
	}

	if cached, ok := o.cache.Get(workbookID, cacheKey); ok {
		return cached, nil
	}

	store, ok := o.stores[config.Workbook.Backend]
	if !ok {
		return nil, fmt.Errorf("%s: backend `%s` not configured: %w", calculatorName, config.Workbook.Backend, contracts.NotExecutableError)
	}

	lockTimeout := opts.LockTimeout
	if lockTimeout == 0 {
		lockTimeout = o.defaultLockTimeout
	}
	if err = o.locks.Acquire(ctx, workbookID, lockTimeout); err != nil {
		return nil, err
	}
	defer o.locks.Release(workbookID)

	// once inputs start landing in the workbook the cycle runs to completion,
	// cancellation must not leave it half-written
	runCtx := context.WithoutCancel(ctx)

	result, err := o.runCalculation(runCtx, config, store, cellInputs, inputs)
	if err != nil {
		return nil, err
	}

	if result.Status == contracts.StatusSuccess {
		if cacheErr := o.cache.Put(workbookID, cacheKey, result); cacheErr != nil {
			slog.Warn("result cache write failed", "calculator", calculatorName, "error", cacheErr)
		}
	}

	if o.webhooks != nil && result.Status != contracts.StatusFailure {
		o.webhooks.Notify(result)
	}

	return result, nil
}

func (o *CalculationOrchestrator) runCalculation(
	ctx context.Context,
	config *contracts.CalculatorConfig,
	store contracts.WorkbookStore,
	cellInputs map[string]contracts.CellValue,
	rawInputs map[string]any,
) (*contracts.CalculationResult, error) {
	workbookID := config.Workbook.WorkbookID
	sheet := config.Workbook.Sheet

	for _, name := range sortedKeys(cellInputs) {
		address := config.Inputs[name].Cell
		if err := store.WriteCell(ctx, workbookID, sheet, address, cellInputs[name]); err != nil {
			return nil, fmt.Errorf("input `%s`: %w", name, err)
		}
	}

	outputNames := make([]string, 0, len(config.Outputs))
	for name := range config.Outputs {
		outputNames = append(outputNames, name)
	}
	sort.Strings(outputNames)

	outputCells := make([]contracts.CellAddress, 0, len(outputNames))
	for _, name := range outputNames {
		outputCells = append(outputCells, config.Outputs[name].Cell)
	}

	builder := NewDependencyGraphBuilder(store, o.evaluator)
	plan, err := builder.Build(ctx, workbookID, sheet, outputCells)
	if err != nil {
		return nil, err
	}

	snapshot, err := o.prefetchLiterals(ctx, store, workbookID, sheet, plan)
	if err != nil {
		return nil, err
	}

	result := &contracts.CalculationResult{
		ExecutionID: uuid.NewString(),
		Calculator:  config.Name,
		Inputs:      rawInputs,
		Outputs:     make(map[string]any, len(outputNames)),
		Diagnostics: make([]contracts.Diagnostic, 0),
	}

	o.evaluatePlan(plan, snapshot, result)

	if err = store.Flush(ctx, workbookID); err != nil {
		return nil, err
	}

	succeeded := 0
	for _, name := range outputNames {
		address := config.Outputs[name].Cell
		key := address.String()

		value, present := snapshot[key]
		if !present {
			// literal output, never part of the formula plan
			if value, err = store.ReadCell(ctx, workbookID, sheet, address); err != nil {
				return nil, err
			}
		}

		result.Outputs[name] = value.Native()
		if !value.IsError() {
			succeeded++
		}
	}

	switch {
	case succeeded == len(outputNames):
		result.Status = contracts.StatusSuccess
	case succeeded > 0:
		result.Status = contracts.StatusPartial
	default:
		result.Status = contracts.StatusFailure
	}

	return result, nil
}

// evaluatePlan computes every formula cell in dependency order, recording
// formula problems as diagnostics instead of aborting sibling cells. A cell
// that fails to evaluate ends up holding an error marker, so downstream
// cells and declared outputs see the failure as a propagated marker.
func (o *CalculationOrchestrator) evaluatePlan(
	plan *contracts.EvaluationPlan,
	snapshot map[string]contracts.CellValue,
	result *contracts.CalculationResult,
) {
	getter := func(address contracts.CellAddress) (contracts.CellValue, bool) {
		value, ok := snapshot[address.String()]
		return value, ok
	}

	for _, address := range plan.Order {
		key := address.String()

		value, err := o.evaluator.Evaluate(plan.Formulas[key], getter)
		if err != nil {
			value = contracts.ErrorValue(contracts.ValueErrorMarker)
			result.Diagnostics = append(result.Diagnostics, contracts.Diagnostic{
				Cell:    key,
				Message: err.Error(),
			})
		} else if value.IsError() {
			result.Diagnostics = append(result.Diagnostics, contracts.Diagnostic{
				Cell:    key,
				Message: diagnosticMessage(value),
			})
		}

		snapshot[key] = value
	}
}

// diagnosticMessage names the failure behind an error-marker cell.
func diagnosticMessage(value contracts.CellValue) string {
	if value.Marker == contracts.DivisionByZeroMarker {
		return contracts.DivisionByZeroError.Error()
	}
	return value.Marker
}

// prefetchLiterals reads every referenced non-formula cell up front, so the
// evaluation pass itself is pure over a complete snapshot.
func (o *CalculationOrchestrator) prefetchLiterals(
	ctx context.Context,
	store contracts.WorkbookStore,
	workbookID, sheet string,
	plan *contracts.EvaluationPlan,
) (map[string]contracts.CellValue, error) {
	snapshot := make(map[string]contracts.CellValue)

	for _, formula := range plan.Formulas {
		references, ranges, err := o.evaluator.ExtractReferences(formula)
		if err != nil {
			return nil, err
		}
		for _, cellRange := range ranges {
			for row := cellRange.TopLeft.Row; row <= cellRange.BottomRight.Row; row++ {
				for column := cellRange.TopLeft.Column; column <= cellRange.BottomRight.Column; column++ {
					references = append(references, contracts.CellAddress{Column: column, Row: row})
				}
			}
		}

		for _, reference := range references {
			key := reference.String()
			if _, isFormula := plan.Formulas[key]; isFormula {
				continue
			}
			if _, done := snapshot[key]; done {
				continue
			}

			value, err := store.ReadCell(ctx, workbookID, sheet, reference)
			if err != nil {
				return nil, err
			}
			snapshot[key] = value
		}
	}

	return snapshot, nil
}

func validateInputs(config *contracts.CalculatorConfig, inputs map[string]any) error {
	violation := &contracts.InputValidationError{}

	for name := range inputs {
		if _, declared := config.Inputs[name]; !declared {
			violation.Unknown = append(violation.Unknown, name)
		}
	}
	for name := range config.Inputs {
		if _, supplied := inputs[name]; !supplied {
			violation.Missing = append(violation.Missing, name)
		}
	}

	if len(violation.Unknown) == 0 && len(violation.Missing) == 0 {
		return nil
	}

	sort.Strings(violation.Unknown)
	sort.Strings(violation.Missing)
	return violation
}

func convertInputs(config *contracts.CalculatorConfig, inputs map[string]any) (map[string]contracts.CellValue, error) {
	converted := make(map[string]contracts.CellValue, len(inputs))

	for name, raw := range inputs {
		switch value := raw.(type) {
		case float64:
			converted[name] = contracts.NumberValue(value)
		case float32:
			converted[name] = contracts.NumberValue(float64(value))
		case int:
			converted[name] = contracts.NumberValue(float64(value))
		case int64:
			converted[name] = contracts.NumberValue(float64(value))
		case bool:
			converted[name] = contracts.BoolValue(value)
		case string:
			converted[name] = contracts.TextValue(value)
		default:
			return nil, fmt.Errorf("input `%s` of `%s`: unsupported value type %T", name, config.Name, raw)
		}
	}

	return converted, nil
}

func buildCacheKey(calculatorName string, inputs map[string]any) (string, error) {
	canonical, err := canonicalJson.Marshal(inputs)
	if err != nil {
		return "", err
	}
	return calculatorName + "|" + string(canonical), nil
}

func sortedKeys(values map[string]contracts.CellValue) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
