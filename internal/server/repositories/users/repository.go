// Package users contains the user directory repository: reads against the
// users base table and the user_view join projection, plus the write path.
package users

import (
	"context"

	"github.com/dmitrijs2005/ums/internal/server/models"
)

type Repository interface {
	// GetByUsername reads the base table row, including the password hash.
	// The result is only ever used for credential checks.
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// GetByID and List read through user_view and carry the denormalized
	// status name, roles and permissions strings.
	GetByID(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)

	// Insert adds the account row and returns the generated id. AssignRoles
	// links role ids to an account. The two run together inside one
	// transaction on the create path.
	Insert(ctx context.Context, user *models.User, passwordHash string) (int64, error)
	AssignRoles(ctx context.Context, userID int64, roleIDs []int64) error

	// Update rewrites email, full name and status and refreshes updated_at.
	// Username, password and role links are untouched.
	Update(ctx context.Context, id int64, user *models.User) error

	// Delete removes the row; associations cascade at the schema level.
	Delete(ctx context.Context, id int64) (bool, error)
}
