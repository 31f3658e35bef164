package service

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/carecube/internal/auth/domain"
	"github.com/aussiebroadwan/carecube/internal/auth/mail"
	"github.com/aussiebroadwan/carecube/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/carecube/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

var (
	accessSecret  = []byte("access-secret-for-tests-0123456789ab")
	refreshSecret = []byte("refresh-secret-for-tests-0123456789a")
)

const testIssuer = "carecube-auth"

// clock is a settable time source shared by every service in a test env.
type clock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock() *clock {
	return &clock{t: time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type testEnv struct {
	store        *sqlite.Store
	clock        *clock
	mailer       *mail.Recorder
	tokens       *TokenService
	identities   *IdentityService
	verification *VerificationService
	credentials  *CredentialService
	resolver     *SessionResolver
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	clk := newClock()
	rec := &mail.Recorder{}

	tokens, err := NewTokenService(accessSecret, refreshSecret, testIssuer, time.Hour, 24*time.Hour)
	require.NoError(t, err)
	tokens.Now = clk.Now

	identities := &IdentityService{Store: st}
	verification := &VerificationService{
		Store:      st,
		Identities: identities,
		Mailer:     rec,
		CodeTTL:    15 * time.Minute,
		Now:        clk.Now,
	}

	return &testEnv{
		store:        st,
		clock:        clk,
		mailer:       rec,
		tokens:       tokens,
		identities:   identities,
		verification: verification,
		credentials: &CredentialService{
			Store:        st,
			Identities:   identities,
			Tokens:       tokens,
			Hasher:       cryptox.NewPasswordHasher("test-pepper"),
			Verification: verification,
		},
		resolver: &SessionResolver{Tokens: tokens, Identities: identities},
	}
}

// signUp registers a fresh identity and returns it with its credentials.
func (e *testEnv) signUp(t *testing.T, email string) (domain.Identity, domain.Credentials) {
	t.Helper()

	ident, creds, err := e.credentials.SignUp(context.Background(), SignUpInput{
		Name:     "Ada Lovelace",
		Email:    email,
		Password: "correct horse battery staple",
	})
	require.NoError(t, err)
	return ident, creds
}

var codePattern = regexp.MustCompile(`verification code is: (\d+)`)

// lastCode returns the code in the most recent verification email to email.
func (e *testEnv) lastCode(t *testing.T, email string) int {
	t.Helper()

	code := 0
	for _, msg := range e.mailer.Messages() {
		if msg.To != email {
			continue
		}
		m := codePattern.FindStringSubmatch(msg.Body)
		require.Len(t, m, 2)
		n, err := strconv.Atoi(m[1])
		require.NoError(t, err)
		code = n
	}
	require.NotZero(t, code, "no verification email for %s", email)
	return code
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
