package postgres

import (
	"context"
	"time"

	"github.com/aussiebroadwan/carecube/internal/auth/domain"
	"github.com/jmoiron/sqlx"
)

type codesRepo struct {
	db sqlx.ExtContext
}

func (r *codesRepo) PutCode(ctx context.Context, c domain.VerificationCode) error {
	createdAt := c.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	const query = `
		INSERT INTO verification_codes (email, code, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE SET
			code = EXCLUDED.code,
			expires_at = EXCLUDED.expires_at,
			created_at = EXCLUDED.created_at
	`
	_, err := r.db.ExecContext(ctx, query, c.Email, c.Code, c.ExpiresAt.UTC(), createdAt.UTC())
	return err
}

func (r *codesRepo) RedeemCode(ctx context.Context, email string, code int, now time.Time) (domain.VerificationCode, error) {
	const query = `
		DELETE FROM verification_codes
		WHERE email = $1 AND code = $2 AND expires_at > $3
		RETURNING email, code, expires_at, created_at
	`
	var row codeRow
	if err := sqlx.GetContext(ctx, r.db, &row, query, email, code, now.UTC()); err != nil {
		return domain.VerificationCode{}, mapNotFound(err)
	}
	return row.toDomain(), nil
}

func (r *codesRepo) DeleteExpiredCodes(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM verification_codes WHERE expires_at <= $1`, now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
