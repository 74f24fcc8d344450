package contracts

import (
	"context"
	"time"
)

// ExecuteOptions tunes one Execute call. The zero value uses the
// orchestrator's defaults.
type ExecuteOptions struct {
	// LockTimeout bounds the wait for the workbook's calculation lock.
	// Zero means wait as long as the context allows.
	LockTimeout time.Duration
}

type CalculationOrchestrator interface {
	Execute(ctx context.Context, calculatorName string, inputs map[string]any, opts ExecuteOptions) (*CalculationResult, error)
}
