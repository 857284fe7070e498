// Package roles contains the role directory repository.
package roles

import (
	"context"

	"github.com/dmitrijs2005/ums/internal/server/models"
)

type Repository interface {
	// IDsByName resolves role names to ids in a single set-membership
	// query. Unknown names are silently dropped, so the result may be
	// shorter than the input.
	IDsByName(ctx context.Context, names []string) ([]int64, error)

	List(ctx context.Context) ([]*models.Role, error)
}
