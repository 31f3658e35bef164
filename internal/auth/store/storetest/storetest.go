// Package storetest is a conformance suite every store driver runs from its
// own tests. Data is keyed by fresh ULIDs so the suite can share a database
// with other runs.
package storetest

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aussiebroadwan/carecube/internal/auth/domain"
	"github.com/aussiebroadwan/carecube/internal/auth/store"
	"github.com/aussiebroadwan/carecube/pkg/idx"
	"github.com/stretchr/testify/require"
)

// Run executes the suite against the store returned by newStore. newStore
// must return a migrated store; Run closes nothing, cleanup is the caller's.
func Run(t *testing.T, newStore func(t *testing.T) store.Store) {
	t.Run("Identities", func(t *testing.T) { testIdentities(t, newStore(t)) })
	t.Run("Codes", func(t *testing.T) { testCodes(t, newStore(t)) })
	t.Run("Transactions", func(t *testing.T) { testTransactions(t, newStore(t)) })
	t.Run("ConcurrentRedeem", func(t *testing.T) { testConcurrentRedeem(t, newStore(t)) })
	t.Run("ConcurrentRedeemInTx", func(t *testing.T) { testConcurrentRedeemInTx(t, newStore(t)) })
}

// NewIdentity returns an unverified identity with a unique id and email.
func NewIdentity() domain.Identity {
	id := idx.New().String()
	return domain.Identity{
		ID:           id,
		Name:         "Test User",
		Email:        strings.ToLower(id) + "@example.com",
		PasswordHash: "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		Role:         domain.RoleUser,
	}
}

func testIdentities(t *testing.T, st store.Store) {
	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		ident := NewIdentity()
		ident.RefreshToken = "refresh-1"
		require.NoError(t, st.Identities().CreateIdentity(ctx, ident))

		byID, err := st.Identities().GetIdentityByID(ctx, ident.ID)
		require.NoError(t, err)
		require.Equal(t, ident.Email, byID.Email)
		require.Equal(t, ident.Name, byID.Name)
		require.Equal(t, domain.RoleUser, byID.Role)
		require.Equal(t, "refresh-1", byID.RefreshToken)
		require.False(t, byID.EmailVerified)
		require.False(t, byID.CreatedAt.IsZero())

		byEmail, err := st.Identities().GetIdentityByEmail(ctx, ident.Email)
		require.NoError(t, err)
		require.Equal(t, ident.ID, byEmail.ID)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := st.Identities().GetIdentityByID(ctx, idx.New().String())
		require.ErrorIs(t, err, store.ErrNotFound)

		_, err = st.Identities().GetIdentityByEmail(ctx, "nobody-"+idx.New().String()+"@example.com")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("duplicate email", func(t *testing.T) {
		ident := NewIdentity()
		require.NoError(t, st.Identities().CreateIdentity(ctx, ident))

		dup := NewIdentity()
		dup.Email = ident.Email
		require.ErrorIs(t, st.Identities().CreateIdentity(ctx, dup), store.ErrAlreadyExists)
	})

	t.Run("refresh token last write wins", func(t *testing.T) {
		ident := NewIdentity()
		require.NoError(t, st.Identities().CreateIdentity(ctx, ident))

		require.NoError(t, st.Identities().UpdateRefreshToken(ctx, ident.ID, "first"))
		require.NoError(t, st.Identities().UpdateRefreshToken(ctx, ident.ID, "second"))

		got, err := st.Identities().GetIdentityByID(ctx, ident.ID)
		require.NoError(t, err)
		require.Equal(t, "second", got.RefreshToken)

		require.NoError(t, st.Identities().UpdateRefreshToken(ctx, ident.ID, ""))
		got, err = st.Identities().GetIdentityByID(ctx, ident.ID)
		require.NoError(t, err)
		require.Empty(t, got.RefreshToken)

		err = st.Identities().UpdateRefreshToken(ctx, idx.New().String(), "x")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("mark email verified", func(t *testing.T) {
		ident := NewIdentity()
		require.NoError(t, st.Identities().CreateIdentity(ctx, ident))

		require.NoError(t, st.Identities().MarkEmailVerified(ctx, ident.Email))
		got, err := st.Identities().GetIdentityByID(ctx, ident.ID)
		require.NoError(t, err)
		require.True(t, got.EmailVerified)

		// Already verified and unknown emails are no-ops.
		require.NoError(t, st.Identities().MarkEmailVerified(ctx, ident.Email))
		require.NoError(t, st.Identities().MarkEmailVerified(ctx, "nobody-"+idx.New().String()+"@example.com"))
	})
}

func testCodes(t *testing.T, st store.Store) {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	t.Run("redeem once", func(t *testing.T) {
		email := NewIdentity().Email
		require.NoError(t, st.Codes().PutCode(ctx, domain.VerificationCode{
			Email:     email,
			Code:      4821,
			ExpiresAt: now.Add(15 * time.Minute),
			CreatedAt: now,
		}))

		got, err := st.Codes().RedeemCode(ctx, email, 4821, now)
		require.NoError(t, err)
		require.Equal(t, email, got.Email)
		require.Equal(t, 4821, got.Code)
		require.WithinDuration(t, now.Add(15*time.Minute), got.ExpiresAt, time.Millisecond)

		_, err = st.Codes().RedeemCode(ctx, email, 4821, now)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("wrong code or email", func(t *testing.T) {
		email := NewIdentity().Email
		require.NoError(t, st.Codes().PutCode(ctx, domain.VerificationCode{
			Email:     email,
			Code:      17,
			ExpiresAt: now.Add(time.Minute),
		}))

		_, err := st.Codes().RedeemCode(ctx, email, 18, now)
		require.ErrorIs(t, err, store.ErrNotFound)

		_, err = st.Codes().RedeemCode(ctx, NewIdentity().Email, 17, now)
		require.ErrorIs(t, err, store.ErrNotFound)

		// A failed attempt does not consume the code.
		_, err = st.Codes().RedeemCode(ctx, email, 17, now)
		require.NoError(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		email := NewIdentity().Email
		require.NoError(t, st.Codes().PutCode(ctx, domain.VerificationCode{
			Email:     email,
			Code:      99,
			ExpiresAt: now.Add(time.Minute),
		}))

		_, err := st.Codes().RedeemCode(ctx, email, 99, now.Add(time.Minute))
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("put replaces outstanding code", func(t *testing.T) {
		email := NewIdentity().Email
		require.NoError(t, st.Codes().PutCode(ctx, domain.VerificationCode{
			Email: email, Code: 1, ExpiresAt: now.Add(time.Minute),
		}))
		require.NoError(t, st.Codes().PutCode(ctx, domain.VerificationCode{
			Email: email, Code: 2, ExpiresAt: now.Add(time.Minute),
		}))

		_, err := st.Codes().RedeemCode(ctx, email, 1, now)
		require.ErrorIs(t, err, store.ErrNotFound)

		_, err = st.Codes().RedeemCode(ctx, email, 2, now)
		require.NoError(t, err)
	})

	t.Run("delete expired", func(t *testing.T) {
		expired := NewIdentity().Email
		live := NewIdentity().Email
		require.NoError(t, st.Codes().PutCode(ctx, domain.VerificationCode{
			Email: expired, Code: 5, ExpiresAt: now.Add(-time.Minute),
		}))
		require.NoError(t, st.Codes().PutCode(ctx, domain.VerificationCode{
			Email: live, Code: 6, ExpiresAt: now.Add(time.Hour),
		}))

		n, err := st.Codes().DeleteExpiredCodes(ctx, now)
		require.NoError(t, err)
		require.GreaterOrEqual(t, n, int64(0))

		// Even with the clock rewound, the purged code is gone.
		_, err = st.Codes().RedeemCode(ctx, expired, 5, now.Add(-time.Hour))
		require.ErrorIs(t, err, store.ErrNotFound)

		_, err = st.Codes().RedeemCode(ctx, live, 6, now)
		require.NoError(t, err)
	})
}

func testTransactions(t *testing.T, st store.Store) {
	ctx := context.Background()
	errBoom := errors.New("boom")

	t.Run("rollback on error", func(t *testing.T) {
		if tr, ok := st.(interface{ Transactional() bool }); ok && !tr.Transactional() {
			t.Skip("store runs WithTx without a transaction")
		}

		ident := NewIdentity()
		err := st.WithTx(ctx, func(tx store.Tx) error {
			if err := tx.Identities().CreateIdentity(ctx, ident); err != nil {
				return err
			}
			return errBoom
		})
		require.ErrorIs(t, err, errBoom)

		_, err = st.Identities().GetIdentityByID(ctx, ident.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("commit redeem and verify", func(t *testing.T) {
		ident := NewIdentity()
		require.NoError(t, st.Identities().CreateIdentity(ctx, ident))
		require.NoError(t, st.Codes().PutCode(ctx, domain.VerificationCode{
			Email: ident.Email, Code: 321, ExpiresAt: time.Now().Add(time.Minute),
		}))

		err := st.WithTx(ctx, func(tx store.Tx) error {
			if _, err := tx.Codes().RedeemCode(ctx, ident.Email, 321, time.Now()); err != nil {
				return err
			}
			return tx.Identities().MarkEmailVerified(ctx, ident.Email)
		})
		require.NoError(t, err)

		got, err := st.Identities().GetIdentityByID(ctx, ident.ID)
		require.NoError(t, err)
		require.True(t, got.EmailVerified)
	})

	t.Run("nested transactions are refused", func(t *testing.T) {
		tx, err := st.Tx(ctx)
		require.NoError(t, err)
		defer func() { _ = tx.Rollback() }()

		require.Error(t, tx.WithTx(ctx, func(store.Tx) error { return nil }))
	})
}

func testConcurrentRedeem(t *testing.T, st store.Store) {
	ctx := context.Background()
	email := NewIdentity().Email
	require.NoError(t, st.Codes().PutCode(ctx, domain.VerificationCode{
		Email: email, Code: 777, ExpiresAt: time.Now().Add(time.Minute),
	}))

	const workers = 16
	var (
		wg      sync.WaitGroup
		winners atomic.Int32
		start   = make(chan struct{})
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := st.Codes().RedeemCode(ctx, email, 777, time.Now())
			if err == nil {
				winners.Add(1)
				return
			}
			if !errors.Is(err, store.ErrNotFound) {
				t.Errorf("unexpected redeem error: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	require.Equal(t, int32(1), winners.Load())
}

// testConcurrentRedeemInTx races redeem-and-verify transactions the way the
// verification service runs them. Losers must see store.ErrNotFound from the
// redeem, never a driver error.
func testConcurrentRedeemInTx(t *testing.T, st store.Store) {
	ctx := context.Background()
	ident := NewIdentity()
	require.NoError(t, st.Identities().CreateIdentity(ctx, ident))
	require.NoError(t, st.Codes().PutCode(ctx, domain.VerificationCode{
		Email: ident.Email, Code: 4242, ExpiresAt: time.Now().Add(time.Minute),
	}))

	const workers = 8
	var (
		wg      sync.WaitGroup
		winners atomic.Int32
		losers  atomic.Int32
		start   = make(chan struct{})
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			err := st.WithTx(ctx, func(tx store.Tx) error {
				if _, err := tx.Codes().RedeemCode(ctx, ident.Email, 4242, time.Now()); err != nil {
					return err
				}
				return tx.Identities().MarkEmailVerified(ctx, ident.Email)
			})
			switch {
			case err == nil:
				winners.Add(1)
			case errors.Is(err, store.ErrNotFound):
				losers.Add(1)
			default:
				t.Errorf("unexpected redeem error: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	require.Equal(t, int32(1), winners.Load())
	require.Equal(t, int32(workers-1), losers.Load())

	got, err := st.Identities().GetIdentityByID(ctx, ident.ID)
	require.NoError(t, err)
	require.True(t, got.EmailVerified)
}
