package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/carecube/internal/auth/domain"
	"github.com/aussiebroadwan/carecube/internal/auth/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	identitiesCollection = "identities"
	codesCollection      = "verification_codes"

	writeConflictCode     = 112
	transientTxErrorLabel = "TransientTransactionError"
)

// Store keeps identities and verification codes in MongoDB. Transactions are
// used when the server is a replica set member or a mongos router. A
// standalone server runs WithTx bodies without one; every write the
// repositories make is a single-document operation.
type Store struct {
	client       *mongo.Client
	db           *mongo.Database
	transactions bool
}

// NewStore connects to uri and uses the named database.
func NewStore(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	db := client.Database(database)
	transactions, err := supportsTransactions(ctx, db)
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return &Store{
		client:       client,
		db:           db,
		transactions: transactions,
	}, nil
}

// supportsTransactions asks the server whether it belongs to a replica set or
// is a mongos router.
func supportsTransactions(ctx context.Context, db *mongo.Database) (bool, error) {
	var hello struct {
		SetName string `bson:"setName"`
		Msg     string `bson:"msg"`
	}
	if err := db.RunCommand(ctx, bson.D{{Key: "hello", Value: 1}}).Decode(&hello); err != nil {
		return false, err
	}
	return hello.SetName != "" || hello.Msg == "isdbgrid", nil
}

// Transactional reports whether WithTx runs inside a server transaction.
func (s *Store) Transactional() bool { return s.transactions }

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// Ping verifies the primary is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Tx starts a session with an open transaction and returns a Tx-scoped Store.
// Without transaction support the returned Tx writes straight through and
// Commit/Rollback do nothing.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	if !s.transactions {
		return &txStore{store: s, ctx: ctx}, nil
	}

	sess, err := s.client.StartSession()
	if err != nil {
		return nil, err
	}
	if err := sess.StartTransaction(); err != nil {
		sess.EndSession(ctx)
		return nil, err
	}
	return &txStore{store: s, sess: sess, ctx: ctx}, nil
}

// WithTx executes fn within a transaction, automatically handling commit/rollback.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback() // safe to call even after commit
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) Identities() store.Identities {
	return &identitiesRepo{coll: s.db.Collection(identitiesCollection)}
}

func (s *Store) Codes() store.Codes {
	return &codesRepo{coll: s.db.Collection(codesCollection)}
}

func mapNotFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.ErrNotFound
	}
	return err
}

// mapRedeemErr treats losing a write conflict to a concurrent redeemer the
// same as finding no code: the other transaction owns the document.
func mapRedeemErr(err error) error {
	var se mongo.ServerError
	if errors.As(err, &se) && (se.HasErrorCode(writeConflictCode) || se.HasErrorLabel(transientTxErrorLabel)) {
		return store.ErrNotFound
	}
	return mapNotFound(err)
}

func mapConflict(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return store.ErrAlreadyExists
	}
	return err
}

// withSession binds ctx to sess so operations join its transaction.
func withSession(ctx context.Context, sess mongo.Session) context.Context {
	if sess == nil {
		return ctx
	}
	return mongo.NewSessionContext(ctx, sess)
}

type identityDoc struct {
	ID            string    `bson:"_id"`
	Name          string    `bson:"name"`
	Email         string    `bson:"email"`
	PasswordHash  string    `bson:"password_hash"`
	Photo         string    `bson:"photo"`
	Role          string    `bson:"role"`
	EmailVerified bool      `bson:"email_verified"`
	RefreshToken  string    `bson:"refresh_token"`
	CreatedAt     time.Time `bson:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at"`
}

func (d identityDoc) toDomain() domain.Identity {
	return domain.Identity{
		ID:            d.ID,
		Name:          d.Name,
		Email:         d.Email,
		PasswordHash:  d.PasswordHash,
		Photo:         d.Photo,
		Role:          domain.ParseRole(d.Role),
		EmailVerified: d.EmailVerified,
		RefreshToken:  d.RefreshToken,
		CreatedAt:     d.CreatedAt.UTC(),
		UpdatedAt:     d.UpdatedAt.UTC(),
	}
}

// codeDoc is keyed by email, which is what keeps one code per address.
type codeDoc struct {
	Email     string    `bson:"_id"`
	Code      int       `bson:"code"`
	ExpiresAt time.Time `bson:"expires_at"`
	CreatedAt time.Time `bson:"created_at"`
}

func (d codeDoc) toDomain() domain.VerificationCode {
	return domain.VerificationCode{
		Email:     d.Email,
		Code:      d.Code,
		ExpiresAt: d.ExpiresAt.UTC(),
		CreatedAt: d.CreatedAt.UTC(),
	}
}
