package main

import (
	"calcSheets/contracts"
	"log/slog"
	"time"

	json "github.com/bytedance/sonic"
	"go.etcd.io/bbolt"
)

// BoltResultCache persists successful calculation results in bbolt, one
// bucket per backing workbook. Entries expire after the configured TTL;
// invalidating a workbook drops its whole bucket.
type BoltResultCache struct {
	db  *bbolt.DB
	ttl time.Duration
	now func() time.Time
}

type cacheEntry struct {
	Result    *contracts.CalculationResult `json:"result"`
	ExpiresAt int64                        `json:"expires_at"`
}

func NewBoltResultCache(db *bbolt.DB, ttl time.Duration) *BoltResultCache {
	return &BoltResultCache{db: db, ttl: ttl, now: time.Now}
}

func (c *BoltResultCache) Get(workbookID, key string) (*contracts.CalculationResult, bool) {
	var entry cacheEntry
	found := false

	err := c.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(workbookID))
		if bucket == nil {
			return nil
		}

		data := bucket.Get([]byte(key))
		if data == nil {
			return nil
		}

		if err := json.Unmarshal(data, &entry); err != nil {
			return err
		}
		found = true
		return nil
	})

	if err != nil {
		slog.Warn("result cache read failed", "workbook_id", workbookID, "error", err)
		return nil, false
	}

	if !found || c.now().UnixNano() >= entry.ExpiresAt {
		return nil, false
	}

	entry.Result.FromCache = true
	return entry.Result, true
}

func (c *BoltResultCache) Put(workbookID, key string, result *contracts.CalculationResult) error {
	data, err := json.Marshal(cacheEntry{
		Result:    result,
		ExpiresAt: c.now().Add(c.ttl).UnixNano(),
	})
	if err != nil {
		return err
	}

	return c.db.Batch(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(workbookID))
		if err != nil {
			return err
		}
		return bucket.Put([]byte(key), data)
	})
}

func (c *BoltResultCache) InvalidateWorkbook(workbookID string) error {
	return c.db.Batch(func(tx *bbolt.Tx) error {
		if tx.Bucket([]byte(workbookID)) == nil {
			return nil
		}
		return tx.DeleteBucket([]byte(workbookID))
	})
}
