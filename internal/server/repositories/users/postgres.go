package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/ums/internal/common"
	"github.com/dmitrijs2005/ums/internal/dbx"
	"github.com/dmitrijs2005/ums/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// wrapDBError translates unique/foreign-key violations into
// common.ErrorConstraintViolation and wraps everything else.
func wrapDBError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23505 unique_violation, 23503 foreign_key_violation
		if pgErr.Code == "23505" || pgErr.Code == "23503" {
			return fmt.Errorf("%w: %s", common.ErrorConstraintViolation, pgErr.ConstraintName)
		}
	}
	return fmt.Errorf("db error: %w", err)
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query :=
		`SELECT id, username, password_hash, email, full_name, status_id FROM users
		 WHERE username = $1
		 `

	user := &models.User{}
	var fullName sql.NullString
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&user.ID, &user.Username, &user.PasswordHash, &user.Email, &fullName, &user.StatusID)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, wrapDBError(err)
	}

	user.FullName = fullName.String
	return user, nil
}

const viewColumns = `id, username, email, full_name, status_id, status_name, roles, permissions, created_at, updated_at`

func scanViewRow(row interface{ Scan(...any) error }) (*models.User, error) {
	user := &models.User{}
	var fullName, statusName, roleNames, permissions sql.NullString
	err := row.Scan(&user.ID, &user.Username, &user.Email, &fullName, &user.StatusID,
		&statusName, &roleNames, &permissions, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	user.FullName = fullName.String
	user.StatusName = statusName.String
	user.Roles = roleNames.String
	user.Permissions = permissions.String
	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + viewColumns + ` FROM user_view WHERE id = $1`

	user, err := scanViewRow(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, wrapDBError(err)
	}

	return user, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.User, error) {
	query := `SELECT ` + viewColumns + ` FROM user_view ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		user, err := scanViewRow(rows)
		if err != nil {
			return nil, wrapDBError(err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBError(err)
	}

	return users, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, user *models.User, passwordHash string) (int64, error) {
	query :=
		`INSERT INTO users (username, password_hash, email, full_name, status_id)
         VALUES ($1, $2, $3, $4, $5)
		 RETURNING id
		 `

	var fullName sql.NullString
	if user.FullName != "" {
		fullName = sql.NullString{String: user.FullName, Valid: true}
	}

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		user.Username, passwordHash, user.Email, fullName, user.StatusID).Scan(&id)

	if err != nil {
		return 0, wrapDBError(err)
	}

	return id, nil
}

func (r *PostgresRepository) AssignRoles(ctx context.Context, userID int64, roleIDs []int64) error {
	query := `INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)`

	for _, roleID := range roleIDs {
		if _, err := r.db.ExecContext(ctx, query, userID, roleID); err != nil {
			return wrapDBError(err)
		}
	}

	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, id int64, user *models.User) error {
	query :=
		`UPDATE users SET email = $1, full_name = $2, status_id = $3, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $4
		 `

	var fullName sql.NullString
	if user.FullName != "" {
		fullName = sql.NullString{String: user.FullName, Valid: true}
	}

	res, err := r.db.ExecContext(ctx, query, user.Email, fullName, user.StatusID, id)
	if err != nil {
		return wrapDBError(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return wrapDBError(err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) (bool, error) {
	query := `DELETE FROM users WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, wrapDBError(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, wrapDBError(err)
	}

	return affected > 0, nil
}
