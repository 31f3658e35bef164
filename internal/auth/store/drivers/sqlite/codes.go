package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/carecube/internal/auth/domain"
	"github.com/aussiebroadwan/carecube/internal/auth/store/drivers/sqlite/gen"
)

type codesRepo struct {
	q *gen.Queries
}

func (r *codesRepo) PutCode(ctx context.Context, c domain.VerificationCode) error {
	createdAt := c.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	return r.q.UpsertVerificationCode(ctx, gen.UpsertVerificationCodeParams{
		Email:     c.Email,
		Code:      int64(c.Code),
		ExpiresAt: toMillis(c.ExpiresAt),
		CreatedAt: toMillis(createdAt),
	})
}

func (r *codesRepo) RedeemCode(ctx context.Context, email string, code int, now time.Time) (domain.VerificationCode, error) {
	row, err := r.q.RedeemVerificationCode(ctx, gen.RedeemVerificationCodeParams{
		Email: email,
		Code:  int64(code),
		Now:   toMillis(now),
	})
	if err != nil {
		return domain.VerificationCode{}, mapNotFound(err)
	}
	return mapVerificationCode(row), nil
}

func (r *codesRepo) DeleteExpiredCodes(ctx context.Context, now time.Time) (int64, error) {
	return r.q.DeleteExpiredVerificationCodes(ctx, toMillis(now))
}
