package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/ums/internal/common"
	"github.com/dmitrijs2005/ums/internal/dbx"
	"github.com/dmitrijs2005/ums/internal/server/auth"
	"github.com/dmitrijs2005/ums/internal/server/models"
	"github.com/dmitrijs2005/ums/internal/server/repositories/repomanager"
)

// UserService provides directory CRUD:
// - List/Get: reads through the user_view projection
// - Create: hash password, resolve role names, atomic two-table insert
// - Update/Delete: single-statement writes
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewUserService constructs a UserService over the given repositories.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager) *UserService {
	return &UserService{db: db, repomanager: m}
}

// List returns every account, newest-created first.
func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	repo := s.repomanager.Users(s.db)
	users, err := repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	return users, nil
}

// Get returns the account with the given id or common.ErrorNotFound.
func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error fetching user: %w", err)
	}
	return user, nil
}

// ListRoles returns the role directory.
func (s *UserService) ListRoles(ctx context.Context) ([]*models.Role, error) {
	repo := s.repomanager.Roles(s.db)
	roles, err := repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing roles: %w", err)
	}
	return roles, nil
}

// Create hashes the password, resolves role names to ids (unknown names are
// dropped) and inserts the account row plus its role links in a single
// transaction. On any failure both inserts roll back. The committed account
// is re-read through the view so the result carries resolved role names.
func (s *UserService) Create(ctx context.Context, user *models.User, password string, roleNames []string) (*models.User, error) {
	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	var roleIDs []int64
	if len(roleNames) > 0 {
		roleIDs, err = s.repomanager.Roles(s.db).IDsByName(ctx, roleNames)
		if err != nil {
			return nil, fmt.Errorf("error resolving roles: %w", err)
		}
	}

	var id int64
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repoTx := s.repomanager.Users(tx)

		var insErr error
		id, insErr = repoTx.Insert(ctx, user, passwordHash)
		if insErr != nil {
			return insErr
		}

		if len(roleIDs) > 0 {
			return repoTx.AssignRoles(ctx, id, roleIDs)
		}
		return nil
	}); err != nil {
		if errors.Is(err, common.ErrorConstraintViolation) {
			return nil, common.ErrorConstraintViolation
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return s.Get(ctx, id)
}

// Update patches email, full name and status. Returns common.ErrorNotFound
// when the id matches no row; never creates one.
func (s *UserService) Update(ctx context.Context, id int64, user *models.User) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	if err := repo.Update(ctx, id, user); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error updating user: %w", err)
	}

	return s.Get(ctx, id)
}

// Delete removes the account; role links cascade at the schema level.
// Returns common.ErrorNotFound when no row was removed.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	repo := s.repomanager.Users(s.db)

	removed, err := repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("error deleting user: %w", err)
	}
	if !removed {
		return common.ErrorNotFound
	}

	return nil
}
