package gen

import "context"

const upsertVerificationCode = `
INSERT INTO verification_codes (email, code, expires_at, created_at)
VALUES (?, ?, ?, ?)
ON CONFLICT (email) DO UPDATE SET
    code = excluded.code,
    expires_at = excluded.expires_at,
    created_at = excluded.created_at`

type UpsertVerificationCodeParams struct {
	Email     string
	Code      int64
	ExpiresAt int64
	CreatedAt int64
}

func (q *Queries) UpsertVerificationCode(ctx context.Context, arg UpsertVerificationCodeParams) error {
	_, err := q.db.ExecContext(ctx, upsertVerificationCode, arg.Email, arg.Code, arg.ExpiresAt, arg.CreatedAt)
	return err
}

const redeemVerificationCode = `
DELETE FROM verification_codes
WHERE email = ? AND code = ? AND expires_at > ?
RETURNING email, code, expires_at, created_at`

type RedeemVerificationCodeParams struct {
	Email string
	Code  int64
	Now   int64
}

func (q *Queries) RedeemVerificationCode(ctx context.Context, arg RedeemVerificationCodeParams) (VerificationCode, error) {
	row := q.db.QueryRowContext(ctx, redeemVerificationCode, arg.Email, arg.Code, arg.Now)
	var c VerificationCode
	err := row.Scan(&c.Email, &c.Code, &c.ExpiresAt, &c.CreatedAt)
	return c, err
}

const deleteExpiredVerificationCodes = `DELETE FROM verification_codes WHERE expires_at <= ?`

func (q *Queries) DeleteExpiredVerificationCodes(ctx context.Context, now int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteExpiredVerificationCodes, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
