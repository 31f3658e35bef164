package gen

import "context"

const identityColumns = `id, name, email, password_hash, photo, role, email_verified, refresh_token, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIdentity(row rowScanner) (Identity, error) {
	var i Identity
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Email,
		&i.PasswordHash,
		&i.Photo,
		&i.Role,
		&i.EmailVerified,
		&i.RefreshToken,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getIdentityByID = `SELECT ` + identityColumns + ` FROM identities WHERE id = ?`

func (q *Queries) GetIdentityByID(ctx context.Context, id string) (Identity, error) {
	return scanIdentity(q.db.QueryRowContext(ctx, getIdentityByID, id))
}

const getIdentityByEmail = `SELECT ` + identityColumns + ` FROM identities WHERE email = ?`

func (q *Queries) GetIdentityByEmail(ctx context.Context, email string) (Identity, error) {
	return scanIdentity(q.db.QueryRowContext(ctx, getIdentityByEmail, email))
}

const createIdentity = `
INSERT INTO identities (id, name, email, password_hash, photo, role, email_verified, refresh_token, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

type CreateIdentityParams struct {
	ID            string
	Name          string
	Email         string
	PasswordHash  string
	Photo         string
	Role          string
	EmailVerified bool
	RefreshToken  string
	CreatedAt     int64
	UpdatedAt     int64
}

func (q *Queries) CreateIdentity(ctx context.Context, arg CreateIdentityParams) error {
	_, err := q.db.ExecContext(ctx, createIdentity,
		arg.ID,
		arg.Name,
		arg.Email,
		arg.PasswordHash,
		arg.Photo,
		arg.Role,
		arg.EmailVerified,
		arg.RefreshToken,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const updateIdentityRefreshToken = `UPDATE identities SET refresh_token = ?, updated_at = ? WHERE id = ?`

type UpdateIdentityRefreshTokenParams struct {
	RefreshToken string
	UpdatedAt    int64
	ID           string
}

func (q *Queries) UpdateIdentityRefreshToken(ctx context.Context, arg UpdateIdentityRefreshTokenParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateIdentityRefreshToken, arg.RefreshToken, arg.UpdatedAt, arg.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const markIdentityEmailVerified = `UPDATE identities SET email_verified = 1, updated_at = ? WHERE email = ? AND email_verified = 0`

type MarkIdentityEmailVerifiedParams struct {
	UpdatedAt int64
	Email     string
}

func (q *Queries) MarkIdentityEmailVerified(ctx context.Context, arg MarkIdentityEmailVerifiedParams) error {
	_, err := q.db.ExecContext(ctx, markIdentityEmailVerified, arg.UpdatedAt, arg.Email)
	return err
}
