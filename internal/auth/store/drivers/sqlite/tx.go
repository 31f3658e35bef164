package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/carecube/internal/auth/store"
	"github.com/aussiebroadwan/carecube/internal/auth/store/drivers/sqlite/gen"
)

// txStore scopes the identity and code repositories to a single *sql.Tx.
// With one pooled connection, nothing inside the transaction may touch the
// parent Store.
type txStore struct {
	tx *sql.Tx
	q  *gen.Queries
}

func newTx(tx *sql.Tx) *txStore {
	return &txStore{tx: tx, q: gen.New(tx)}
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

// Close leaves the transaction to Commit/Rollback.
func (t *txStore) Close() error { return nil }

func (t *txStore) Ping(ctx context.Context) error { return nil }

// Tx and WithTx fail: sqlite has no nested transactions here.
func (t *txStore) Tx(ctx context.Context) (store.Tx, error) { return nil, sql.ErrTxDone }

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

func (t *txStore) Identities() store.Identities { return &identitiesRepo{q: t.q} }
func (t *txStore) Codes() store.Codes           { return &codesRepo{q: t.q} }

func (t *txStore) ApplyMigrations() error { return nil }
