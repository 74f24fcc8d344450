package contracts

import (
	"context"
	"time"
)

// WorkbookLocker serializes write+evaluate cycles per workbook id. Locks on
// distinct workbooks are independent.
type WorkbookLocker interface {
	// Acquire blocks until the workbook lock is held, the timeout elapses
	// (LockTimeoutError) or the context is cancelled. timeout == 0 means no
	// timeout beyond the context.
	Acquire(ctx context.Context, workbookID string, timeout time.Duration) error

	Release(workbookID string)
}
