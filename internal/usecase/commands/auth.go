package commands

import (
	"context"

	"shop-inventory/internal/domain/user"
	"shop-inventory/internal/infra"
	"shop-inventory/internal/pkg/errs"
	"shop-inventory/internal/pkg/jwt"
	"shop-inventory/internal/pkg/password"
	"shop-inventory/internal/usecase/queries"
	"shop-inventory/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrInvalidCredentials = errs.New("invalid credentials")

type LoginResult struct {
	Token  string
	UserID uuid.UUID
	Role   user.Role
}

type AuthCommands interface {
	Login(ctx context.Context, email, plainPassword string) (*LoginResult, error)
}

type authCommandsImpl struct {
	uow        shared.UnitOfWork
	userStore  queries.UserReadStore
	jwtService *jwt.Service
}

func NewAuthCommands(uow shared.UnitOfWork, userStore queries.UserReadStore, jwtService *jwt.Service) AuthCommands {
	return &authCommandsImpl{
		uow:        uow,
		userStore:  userStore,
		jwtService: jwtService,
	}
}

func (c *authCommandsImpl) Login(ctx context.Context, email, plainPassword string) (*LoginResult, error) {
	record, err := c.userStore.FindCredentialsByEmail(ctx, email)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			// Same failure as a wrong password so probing emails learns nothing
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !record.IsActive {
		return nil, ErrInvalidCredentials
	}
	if err := password.Compare(record.PasswordHash, plainPassword); err != nil {
		return nil, ErrInvalidCredentials
	}

	role, err := user.NewRole(record.Role)
	if err != nil {
		return nil, errs.Wrap(err, "user row has invalid role")
	}

	token, err := c.jwtService.GenerateToken(record.ID, role)
	if err != nil {
		return nil, errs.Wrap(err, "failed to generate token")
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Users().UpdateLastLogin(ctx, record.ID)
	})
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, UserID: record.ID, Role: role}, nil
}
