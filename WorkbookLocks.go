package main

import (
	"calcSheets/contracts"
	"context"
	"fmt"
	"sync"
	"time"
)

// WorkbookLockManager grants at most one in-flight write+evaluate cycle per
// workbook id. Locks on different workbooks never contend.
type WorkbookLockManager struct {
	mu    sync.Mutex
	gates map[string]chan struct{}
}

func NewWorkbookLockManager() *WorkbookLockManager {
	return &WorkbookLockManager{
		gates: make(map[string]chan struct{}),
	}
}

func (m *WorkbookLockManager) gate(workbookID string) chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()

	gate, ok := m.gates[workbookID]
	if !ok {
		gate = make(chan struct{}, 1)
		m.gates[workbookID] = gate
	}
	return gate
}

func (m *WorkbookLockManager) Acquire(ctx context.Context, workbookID string, timeout time.Duration) error {
	gate := m.gate(workbookID)

	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case gate <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-expired:
		return fmt.Errorf("workbook %s: %w", workbookID, contracts.LockTimeoutError)
	}
}

func (m *WorkbookLockManager) Release(workbookID string) {
	select {
	case <-m.gate(workbookID):
	default:
		panic("release of a workbook lock that is not held: " + workbookID)
	}
}
