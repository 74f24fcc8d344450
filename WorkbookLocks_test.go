package main

import (
	"calcSheets/contracts"
	"context"
	"github.com/stretchr/testify/assert"
	"sync"
	"testing"
	"time"
)

func TestWorkbookLockManager(t *testing.T) {
	ctx := context.Background()

	t.Run("same_workbook_serializes", func(t *testing.T) {
		manager := NewWorkbookLockManager()
		assert.NoError(t, manager.Acquire(ctx, "wb", 0))

		inCriticalSection := 0
		maxInCriticalSection := 0
		var mu sync.Mutex
		var wg sync.WaitGroup

		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, manager.Acquire(ctx, "wb", 0))
				mu.Lock()
				inCriticalSection++
				if inCriticalSection > maxInCriticalSection {
					maxInCriticalSection = inCriticalSection
				}
				mu.Unlock()

				time.Sleep(5 * time.Millisecond)

				mu.Lock()
				inCriticalSection--
				mu.Unlock()
				manager.Release("wb")
			}()
		}

		manager.Release("wb")
		wg.Wait()

		assert.Equal(t, 1, maxInCriticalSection)
	})

	t.Run("distinct_workbooks_do_not_contend", func(t *testing.T) {
		manager := NewWorkbookLockManager()
		assert.NoError(t, manager.Acquire(ctx, "first", 0))

		done := make(chan struct{})
		go func() {
			assert.NoError(t, manager.Acquire(ctx, "second", 50*time.Millisecond))
			manager.Release("second")
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("lock on a different workbook blocked")
		}
		manager.Release("first")
	})

	t.Run("timeout", func(t *testing.T) {
		manager := NewWorkbookLockManager()
		assert.NoError(t, manager.Acquire(ctx, "wb", 0))
		defer manager.Release("wb")

		err := manager.Acquire(ctx, "wb", 10*time.Millisecond)
		assert.ErrorIs(t, err, contracts.LockTimeoutError)
	})

	t.Run("cancellation_before_acquisition", func(t *testing.T) {
		manager := NewWorkbookLockManager()
		assert.NoError(t, manager.Acquire(ctx, "wb", 0))
		defer manager.Release("wb")

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		err := manager.Acquire(cancelled, "wb", 0)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
