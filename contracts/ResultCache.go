package contracts

// ResultCache stores successful calculation results keyed by
// (calculator, canonicalized inputs) with a time-to-live, bucketed per
// backing workbook so staleness can be handled conservatively.
type ResultCache interface {
	Get(workbookID, key string) (*CalculationResult, bool)

	Put(workbookID, key string, result *CalculationResult) error

	// InvalidateWorkbook drops every cached result backed by the workbook.
	// Called on any write that bypasses the orchestrator's own bookkeeping.
	InvalidateWorkbook(workbookID string) error
}
