/*
Package ratelimit implements the sliding-window counter the rest of
the core calls before accepting a sensitive attempt (kiosk PIN entry).
There is no in-process state and no timer: every
check is a COUNT query against an append-only table, so it behaves
identically across restarts and across however many instances of the
service are running.

This avoids an in-memory token-bucket counter (a
map[string]*rateLimitEntry guarded by a mutex and evicted by a
time.Ticker goroutine), which would only be correct for a single
process and would lose its state on restart.
*/
package ratelimit

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Counter counts attempts against an append-only source table.
type Counter struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Counter {
	return &Counter{db: db}
}

// CheckAndCount reports whether a new attempt at key is allowed given
// limit attempts per windowSeconds, by counting existing rows in
// tableName whose keyColumn = key and timeColumn falls within the
// window ending at now. It does not insert a new row itself - the
// caller inserts its own attempt record (success or failure) after
// deciding what to do with the verdict, inside the same transaction.
func (c *Counter) CheckAndCount(ctx context.Context, tableName, keyColumn, timeColumn string, key interface{}, now time.Time, windowSeconds, limit int) (allowed bool, remaining int, err error) {
	var count int64
	cutoff := now.Add(-time.Duration(windowSeconds) * time.Second)
	err = c.db.WithContext(ctx).
		Table(tableName).
		Where(keyColumn+" = ? AND "+timeColumn+" > ?", key, cutoff).
		Count(&count).Error
	if err != nil {
		return false, 0, err
	}
	if int(count) >= limit {
		return false, 0, nil
	}
	return true, limit - int(count) - 1, nil
}

// CheckAndCountWhere is CheckAndCount with an extra caller-supplied
// predicate (e.g. "success = ?", false) ANDed into the window query -
// used where successful attempts should never count against the
// limit, only failed ones.
func (c *Counter) CheckAndCountWhere(ctx context.Context, tableName, keyColumn, timeColumn string, key interface{}, now time.Time, windowSeconds, limit int, extraWhere string, extraArgs ...interface{}) (allowed bool, remaining int, err error) {
	var count int64
	cutoff := now.Add(-time.Duration(windowSeconds) * time.Second)
	q := c.db.WithContext(ctx).
		Table(tableName).
		Where(keyColumn+" = ? AND "+timeColumn+" > ?", key, cutoff)
	if extraWhere != "" {
		q = q.Where(extraWhere, extraArgs...)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, 0, err
	}
	if int(count) >= limit {
		return false, 0, nil
	}
	return true, limit - int(count) - 1, nil
}
