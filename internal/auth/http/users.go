package http

import (
	"github.com/aussiebroadwan/carecube/internal/auth/domain"
	"github.com/aussiebroadwan/carecube/pkg/authsdk"
)

func userResponse(ident domain.Identity) *authsdk.UserResponse {
	return &authsdk.UserResponse{
		ID:            ident.ID,
		Name:          ident.Name,
		Email:         ident.Email,
		Photo:         ident.Photo,
		Role:          ident.Role.String(),
		EmailVerified: ident.EmailVerified,
		CreatedAt:     ident.CreatedAt,
		UpdatedAt:     ident.UpdatedAt,
	}
}
