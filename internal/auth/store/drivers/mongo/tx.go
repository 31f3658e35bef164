package mongo

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/carecube/internal/auth/store"
	"go.mongodb.org/mongo-driver/mongo"
)

var errNestedTx = errors.New("mongo: nested transactions are not supported")

// txStore binds the repositories to sess. sess is nil when the server has
// no transaction support.
type txStore struct {
	store *Store
	sess  mongo.Session
	ctx   context.Context
	done  bool
}

func (t *txStore) Commit() error {
	if t.done {
		return nil
	}
	t.done = true
	if t.sess == nil {
		return nil
	}
	defer t.sess.EndSession(t.ctx)
	return t.sess.CommitTransaction(t.ctx)
}

func (t *txStore) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	if t.sess == nil {
		return nil
	}
	defer t.sess.EndSession(t.ctx)
	return t.sess.AbortTransaction(t.ctx)
}

func (t *txStore) Close() error                   { return nil }
func (t *txStore) Ping(ctx context.Context) error { return nil }

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	return nil, errNestedTx
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return errNestedTx
}

func (t *txStore) Identities() store.Identities {
	return &identitiesRepo{coll: t.store.db.Collection(identitiesCollection), sess: t.sess}
}

func (t *txStore) Codes() store.Codes {
	return &codesRepo{coll: t.store.db.Collection(codesCollection), sess: t.sess}
}

func (t *txStore) ApplyMigrations() error { return nil }
