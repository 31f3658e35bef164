package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/carecube/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite, postgres,
// mongo) implement this. It exposes sub-repositories to keep concerns tidy and
// testable, and so a transaction can never be opened from inside another one.
type Store interface {
	Identities() Identities
	Codes() Codes

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// Use it for multi-step operations that must be atomic (e.g., code redemption).
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Identities interface {
	// GetIdentityByID returns an identity by id.
	GetIdentityByID(ctx context.Context, id string) (domain.Identity, error)

	// GetIdentityByEmail is used during sign-in and code requests.
	GetIdentityByEmail(ctx context.Context, email string) (domain.Identity, error)

	// CreateIdentity inserts a new identity (id is provided by app via ULID).
	// Returns ErrAlreadyExists when the email is taken.
	CreateIdentity(ctx context.Context, i domain.Identity) error

	// UpdateRefreshToken replaces the stored refresh token and bumps
	// updated_at. An empty token clears it. Last write wins.
	UpdateRefreshToken(ctx context.Context, id string, token string) error

	// MarkEmailVerified sets email_verified for the identity with this email.
	// It only ever moves false to true and is a no-op otherwise.
	MarkEmailVerified(ctx context.Context, email string) error
}

type Codes interface {
	// PutCode stores a verification code, replacing any outstanding code for
	// the same email.
	PutCode(ctx context.Context, c domain.VerificationCode) error

	// RedeemCode atomically deletes and returns the code matching email and
	// code that has not expired at now. Returns ErrNotFound when nothing
	// matches. Of several concurrent callers at most one gets the code.
	RedeemCode(ctx context.Context, email string, code int, now time.Time) (domain.VerificationCode, error)

	// DeleteExpiredCodes removes codes whose expiry is at or before now and
	// reports how many were removed.
	DeleteExpiredCodes(ctx context.Context, now time.Time) (int64, error)
}
