package usecase

import (
	"shop-inventory/internal/domain/user"
	"shop-inventory/internal/pkg/jwt"

	"github.com/google/uuid"
)

// TokenValidator is what the auth middleware needs from the JWT layer: a
// token in, the back-office identity and role out.
type TokenValidator interface {
	ValidateToken(tokenString string) (uuid.UUID, user.Role, error)
}

type tokenValidatorImpl struct {
	jwtService *jwt.Service
}

func NewTokenValidator(jwtService *jwt.Service) TokenValidator {
	return &tokenValidatorImpl{jwtService: jwtService}
}

func (t *tokenValidatorImpl) ValidateToken(tokenString string) (uuid.UUID, user.Role, error) {
	claims, err := t.jwtService.ValidateToken(tokenString)
	if err != nil {
		return uuid.Nil, "", err
	}

	// The role claim is re-validated on every request so a token minted
	// before a role rename cannot smuggle in an unknown role string.
	role, err := user.NewRole(claims.Role)
	if err != nil {
		return uuid.Nil, "", err
	}

	return claims.UserID, role, nil
}
