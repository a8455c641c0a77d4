/*
Package store wraps the raw *gorm.DB and exposes the one operation
every domain package actually needs: an explicit transaction boundary.
Most service packages hold a Store rather than a bare *gorm.DB, so
their multi-row mutations are visibly one transaction; geofence and
ratelimit take a *gorm.DB directly.
*/
package store

import (
	"context"

	"gorm.io/gorm"
)

// Store is the persistence handle most domain packages hold.
type Store struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{DB: db}
}

// WithTransaction runs fn inside one DB transaction, scoped to ctx.
// Any error returned by fn rolls the transaction back; a nil error
// commits it. Each call begins its transaction on the store's root
// handle; it does not join a transaction already open in the caller, so
// code inside fn passes tx on (see the *Tx variants in timeclock).
func (s *Store) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return s.DB.WithContext(ctx).Transaction(fn)
}

// Tx returns the store's DB handle scoped to ctx, for read-only calls
// that don't need a transaction.
func (s *Store) Tx(ctx context.Context) *gorm.DB {
	return s.DB.WithContext(ctx)
}
