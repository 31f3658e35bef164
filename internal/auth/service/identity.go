package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/carecube/internal/auth/domain"
	"github.com/aussiebroadwan/carecube/internal/auth/store"
)

type IdentityService struct {
	Store store.Store
}

// GetByID fetches an identity by id. Returns ErrIdentityNotFound or an
// ErrInternal-wrapped store failure.
func (s *IdentityService) GetByID(ctx context.Context, id string) (domain.Identity, error) {
	ident, err := s.Store.Identities().GetIdentityByID(ctx, id)
	return ident, mapIdentityErr(err, "get identity by id")
}

// GetByEmail fetches an identity by email.
func (s *IdentityService) GetByEmail(ctx context.Context, email string) (domain.Identity, error) {
	ident, err := s.Store.Identities().GetIdentityByEmail(ctx, email)
	return ident, mapIdentityErr(err, "get identity by email")
}

func mapIdentityErr(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return ErrIdentityNotFound
	default:
		return fmt.Errorf("%w: %s: %w", ErrInternal, op, err)
	}
}
