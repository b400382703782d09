package users

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/armada-fleet/armada/internal/platform/db"
	"github.com/armada-fleet/armada/internal/shared"
)

// Repository defines persistence operations for user management.
type Repository interface {
	List(ctx context.Context, opts shared.ListOptions) ([]User, int, error)
	GetByPublicID(ctx context.Context, publicID string) (User, error)
	GetByID(ctx context.Context, id shared.ID) (User, error)
	ExistsByUsername(ctx context.Context, username string, excludeID *shared.ID) (bool, error)
	ExistsByEmail(ctx context.Context, email string, excludeID *shared.ID) (bool, error)
	FindRoleIDByPublicID(ctx context.Context, roleUUID string) (shared.ID, error)
	Create(ctx context.Context, user User) (User, error)
	Update(ctx context.Context, user User) (User, error)
	SoftDelete(ctx context.Context, id shared.ID, deletedBy *shared.ID, at time.Time) error
}

// PGRepository provides PostgreSQL backed persistence with the active-only
// predicate baked into every read.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const userColumns = `id, user_uuid, username, email, password, status, role_id, created_by, updated_by, created_at, updated_at`

const activeUsers = `FROM users WHERE deleted_at IS NULL`

// List returns one page of non-deleted users plus the consistent total.
func (r *PGRepository) List(ctx context.Context, opts shared.ListOptions) ([]User, int, error) {
	where := activeUsers
	args := []any{}
	if opts.Search != "" {
		args = append(args, "%"+opts.Search+"%")
		n := strconv.Itoa(len(args))
		where += ` AND (username ILIKE $` + n + ` OR email ILIKE $` + n + `)`
	}

	query := `SELECT ` + userColumns + ` ` + where +
		` ORDER BY ` + sortClause(opts.SortBy, opts.SortOrder) +
		` LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	countQuery := `SELECT COUNT(*) ` + where

	var (
		items []User
		total int
	)
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
			return err
		}
		rows, err := tx.Query(ctx, query, append(args, opts.PerPage, opts.Offset())...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			user, err := scanUser(rows)
			if err != nil {
				return err
			}
			items = append(items, user)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// GetByPublicID fetches a non-deleted user by its opaque identifier.
func (r *PGRepository) GetByPublicID(ctx context.Context, publicID string) (User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` `+activeUsers+` AND user_uuid = $1`, publicID)
	return scanUserNotFound(row)
}

// GetByID fetches a non-deleted user by internal id.
func (r *PGRepository) GetByID(ctx context.Context, id shared.ID) (User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` `+activeUsers+` AND id = $1`, id.Int64())
	return scanUserNotFound(row)
}

// ExistsByUsername checks username uniqueness across all rows.
func (r *PGRepository) ExistsByUsername(ctx context.Context, username string, excludeID *shared.ID) (bool, error) {
	return r.exists(ctx, "username", username, excludeID)
}

// ExistsByEmail checks email uniqueness across all rows.
func (r *PGRepository) ExistsByEmail(ctx context.Context, email string, excludeID *shared.ID) (bool, error) {
	return r.exists(ctx, "email", email, excludeID)
}

func (r *PGRepository) exists(ctx context.Context, column, value string, excludeID *shared.ID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE ` + column + ` = $1`
	args := []any{value}
	if excludeID != nil {
		query += ` AND id <> $2`
		args = append(args, excludeID.Int64())
	}
	query += `)`
	var exists bool
	err := r.pool.QueryRow(ctx, query, args...).Scan(&exists)
	return exists, err
}

// FindRoleIDByPublicID resolves a role public identifier to its internal
// id, requiring the role to be non-deleted.
func (r *PGRepository) FindRoleIDByPublicID(ctx context.Context, roleUUID string) (shared.ID, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`SELECT id FROM roles WHERE role_uuid = $1 AND deleted_at IS NULL`, roleUUID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, shared.ErrNotFound
		}
		return 0, err
	}
	return shared.ID(id), nil
}

// Create inserts a new user account.
func (r *PGRepository) Create(ctx context.Context, user User) (User, error) {
	row := r.pool.QueryRow(ctx, `
INSERT INTO users (user_uuid, username, email, password, status, role_id, created_by)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING `+userColumns,
		user.PublicID, user.Username, user.Email, user.PasswordHash, user.Status,
		idArg(user.RoleID), idArg(user.CreatedBy))
	created, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return User{}, fmt.Errorf("username or email already taken: %w", shared.ErrConflict)
		}
		return User{}, err
	}
	return created, nil
}

// Update persists the full field set of a non-deleted user.
func (r *PGRepository) Update(ctx context.Context, user User) (User, error) {
	row := r.pool.QueryRow(ctx, `
UPDATE users
SET username = $2, email = $3, password = $4, status = $5, role_id = $6, updated_by = $7, updated_at = NOW()
WHERE id = $1 AND deleted_at IS NULL
RETURNING `+userColumns,
		user.ID.Int64(), user.Username, user.Email, user.PasswordHash, user.Status,
		idArg(user.RoleID), idArg(user.UpdatedBy))
	updated, err := scanUserNotFound(row)
	if err != nil {
		if isUniqueViolation(err) {
			return User{}, fmt.Errorf("username or email already taken: %w", shared.ErrConflict)
		}
		return User{}, err
	}
	return updated, nil
}

// SoftDelete stamps the deletion marker on a non-deleted user.
func (r *PGRepository) SoftDelete(ctx context.Context, id shared.ID, deletedBy *shared.ID, at time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET deleted_at = $2, deleted_by = $3 WHERE id = $1 AND deleted_at IS NULL`,
		id.Int64(), at, idArg(deletedBy))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (User, error) {
	var (
		user      User
		roleID    *int64
		createdBy *int64
		updatedBy *int64
	)
	err := row.Scan(&user.ID, &user.PublicID, &user.Username, &user.Email, &user.PasswordHash,
		&user.Status, &roleID, &createdBy, &updatedBy, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return User{}, err
	}
	user.RoleID = toID(roleID)
	user.CreatedBy = toID(createdBy)
	user.UpdatedBy = toID(updatedBy)
	return user, nil
}

func scanUserNotFound(row pgx.Row) (User, error) {
	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, shared.ErrNotFound
	}
	return user, err
}

func sortClause(sortBy, sortOrder string) string {
	dir := "DESC"
	if sortOrder == "asc" {
		dir = "ASC"
	}
	switch sortBy {
	case "username":
		return "username " + dir
	case "email":
		return "email " + dir
	case "status":
		return "status " + dir
	case "updated_at":
		return "updated_at " + dir
	default:
		return "created_at " + dir
	}
}

func toID(v *int64) *shared.ID {
	if v == nil {
		return nil
	}
	id := shared.ID(*v)
	return &id
}

func idArg(id *shared.ID) any {
	if id == nil {
		return nil
	}
	return id.Int64()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ Repository = (*PGRepository)(nil)
