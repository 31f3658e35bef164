package postgres

import (
	"context"
	"time"

	"github.com/aussiebroadwan/carecube/internal/auth/domain"
	"github.com/aussiebroadwan/carecube/internal/auth/store"
	"github.com/jmoiron/sqlx"
)

type identitiesRepo struct {
	db sqlx.ExtContext
}

const identityColumns = `id, name, email, password_hash, photo, role, email_verified, refresh_token, created_at, updated_at`

func (r *identitiesRepo) GetIdentityByID(ctx context.Context, id string) (domain.Identity, error) {
	var row identityRow
	err := sqlx.GetContext(ctx, r.db, &row, `SELECT `+identityColumns+` FROM identities WHERE id = $1`, id)
	if err != nil {
		return domain.Identity{}, mapNotFound(err)
	}
	return row.toDomain(), nil
}

func (r *identitiesRepo) GetIdentityByEmail(ctx context.Context, email string) (domain.Identity, error) {
	var row identityRow
	err := sqlx.GetContext(ctx, r.db, &row, `SELECT `+identityColumns+` FROM identities WHERE email = $1`, email)
	if err != nil {
		return domain.Identity{}, mapNotFound(err)
	}
	return row.toDomain(), nil
}

func (r *identitiesRepo) CreateIdentity(ctx context.Context, i domain.Identity) error {
	now := time.Now().UTC()
	row := identityRow{
		ID:            i.ID,
		Name:          i.Name,
		Email:         i.Email,
		PasswordHash:  i.PasswordHash,
		Photo:         i.Photo,
		Role:          i.Role.String(),
		EmailVerified: i.EmailVerified,
		RefreshToken:  i.RefreshToken,
		CreatedAt:     i.CreatedAt,
		UpdatedAt:     i.UpdatedAt,
	}
	if row.Role == "" {
		row.Role = domain.RoleUser.String()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}

	const query = `
		INSERT INTO identities (` + identityColumns + `)
		VALUES (:id, :name, :email, :password_hash, :photo, :role, :email_verified, :refresh_token, :created_at, :updated_at)`
	_, err := sqlx.NamedExecContext(ctx, r.db, query, row)
	return mapConflict(err)
}

func (r *identitiesRepo) UpdateRefreshToken(ctx context.Context, id string, token string) error {
	const query = `UPDATE identities SET refresh_token = $1, updated_at = $2 WHERE id = $3`
	res, err := r.db.ExecContext(ctx, query, token, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *identitiesRepo) MarkEmailVerified(ctx context.Context, email string) error {
	const query = `UPDATE identities SET email_verified = TRUE, updated_at = $1 WHERE email = $2 AND email_verified = FALSE`
	_, err := r.db.ExecContext(ctx, query, time.Now().UTC(), email)
	return err
}
