package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/carecube/internal/auth/domain"
	"github.com/aussiebroadwan/carecube/internal/auth/store"
	"github.com/aussiebroadwan/carecube/internal/auth/store/drivers/sqlite/gen"
)

type identitiesRepo struct {
	q *gen.Queries
}

func (r *identitiesRepo) GetIdentityByID(ctx context.Context, id string) (domain.Identity, error) {
	row, err := r.q.GetIdentityByID(ctx, id)
	if err != nil {
		return domain.Identity{}, mapNotFound(err)
	}
	return mapIdentity(row), nil
}

func (r *identitiesRepo) GetIdentityByEmail(ctx context.Context, email string) (domain.Identity, error) {
	row, err := r.q.GetIdentityByEmail(ctx, email)
	if err != nil {
		return domain.Identity{}, mapNotFound(err)
	}
	return mapIdentity(row), nil
}

func (r *identitiesRepo) CreateIdentity(ctx context.Context, i domain.Identity) error {
	now := time.Now()
	createdAt, updatedAt := i.CreatedAt, i.UpdatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	role := i.Role
	if role == "" {
		role = domain.RoleUser
	}

	err := r.q.CreateIdentity(ctx, gen.CreateIdentityParams{
		ID:            i.ID,
		Name:          i.Name,
		Email:         i.Email,
		PasswordHash:  i.PasswordHash,
		Photo:         i.Photo,
		Role:          role.String(),
		EmailVerified: i.EmailVerified,
		RefreshToken:  i.RefreshToken,
		CreatedAt:     toMillis(createdAt),
		UpdatedAt:     toMillis(updatedAt),
	})
	return mapConflict(err)
}

func (r *identitiesRepo) UpdateRefreshToken(ctx context.Context, id string, token string) error {
	n, err := r.q.UpdateIdentityRefreshToken(ctx, gen.UpdateIdentityRefreshTokenParams{
		RefreshToken: token,
		UpdatedAt:    toMillis(time.Now()),
		ID:           id,
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *identitiesRepo) MarkEmailVerified(ctx context.Context, email string) error {
	return r.q.MarkIdentityEmailVerified(ctx, gen.MarkIdentityEmailVerifiedParams{
		UpdatedAt: toMillis(time.Now()),
		Email:     email,
	})
}
