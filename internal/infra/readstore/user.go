package readstore

import (
	"context"

	"shop-inventory/internal/infra"
	"shop-inventory/internal/infra/db"
	"shop-inventory/internal/pkg/pgconv"
	"shop-inventory/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type UserReadStore struct {
	db db.DBTX
}

func NewUserReadStore(dbtx db.DBTX) *UserReadStore {
	return &UserReadStore{db: dbtx}
}

const findUserCredentialsSQL = `
SELECT id, email, password_hash, role, is_active
FROM users
WHERE email = $1`

func (r *UserReadStore) FindCredentialsByEmail(ctx context.Context, email string) (*queries.UserCredentialRecord, error) {
	var record queries.UserCredentialRecord

	row := r.db.QueryRow(ctx, findUserCredentialsSQL, email)
	err := row.Scan(&record.ID, &record.Email, &record.PasswordHash, &record.Role, &record.IsActive)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user by email", err)
	}

	return &record, nil
}

const findUserByIDSQL = `
SELECT id, email, role, is_active, last_login
FROM users
WHERE id = $1`

func (r *UserReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.AuthorizedUserView, error) {
	var (
		view      queries.AuthorizedUserView
		lastLogin pgtype.Timestamptz
	)

	row := r.db.QueryRow(ctx, findUserByIDSQL, id)
	err := row.Scan(&view.ID, &view.Email, &view.Role, &view.IsActive, &lastLogin)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user by ID", err)
	}

	view.LastLogin = pgconv.TimePtrFromPgtype(lastLogin)
	return &view, nil
}
