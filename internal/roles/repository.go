package roles

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

// Repository defines persistence operations for roles.
type Repository interface {
	List(ctx context.Context, opts shared.ListOptions) ([]Role, int, error)
	GetByPublicID(ctx context.Context, publicID string) (Role, error)
	GetByID(ctx context.Context, id shared.ID) (Role, error)
	ExistsByName(ctx context.Context, name string, excludeID *shared.ID) (bool, error)
	Create(ctx context.Context, role Role) (Role, error)
	Update(ctx context.Context, role Role) (Role, error)
	SoftDelete(ctx context.Context, id shared.ID, deletedBy *shared.ID, at time.Time) error
}

// PGRepository provides PostgreSQL backed persistence. Every read query is
// built from an active-only base predicate so soft-deleted rows can never
// leak; the only exception is ExistsByName, which is deliberately global.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const roleColumns = `id, role_uuid, name, description, status, created_by, updated_by, created_at, updated_at`

const activeRoles = `FROM roles WHERE deleted_at IS NULL`

// List returns one page of non-deleted roles plus the total count. Page
// fetch and count run inside one RepeatableRead transaction so the total
// is consistent with the returned page.
func (r *PGRepository) List(ctx context.Context, opts shared.ListOptions) ([]Role, int, error) {
	where := activeRoles
	args := []any{}
	if opts.Search != "" {
		args = append(args, "%"+opts.Search+"%")
		n := strconv.Itoa(len(args))
		where += ` AND (name ILIKE $` + n + ` OR description ILIKE $` + n + `)`
	}

	query := `SELECT ` + roleColumns + ` ` + where +
		` ORDER BY ` + sortClause(opts.SortBy, opts.SortOrder) +
		` LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	countQuery := `SELECT COUNT(*) ` + where

	var (
		items []Role
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
			role, err := scanRole(rows)
			if err != nil {
				return err
			}
			items = append(items, role)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// GetByPublicID fetches a non-deleted role by its opaque identifier.
func (r *PGRepository) GetByPublicID(ctx context.Context, publicID string) (Role, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+roleColumns+` `+activeRoles+` AND role_uuid = $1`, publicID)
	return scanRoleNotFound(row)
}

// GetByID fetches a non-deleted role by internal id.
func (r *PGRepository) GetByID(ctx context.Context, id shared.ID) (Role, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+roleColumns+` `+activeRoles+` AND id = $1`, id.Int64())
	return scanRoleNotFound(row)
}

// ExistsByName checks name uniqueness across ALL rows, including
// soft-deleted ones, optionally excluding one record.
func (r *PGRepository) ExistsByName(ctx context.Context, name string, excludeID *shared.ID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM roles WHERE name = $1`
	args := []any{name}
	if excludeID != nil {
		query += ` AND id <> $2`
		args = append(args, excludeID.Int64())
	}
	query += `)`
	var exists bool
	err := r.pool.QueryRow(ctx, query, args...).Scan(&exists)
	return exists, err
}

// Create inserts a new role.
func (r *PGRepository) Create(ctx context.Context, role Role) (Role, error) {
	row := r.pool.QueryRow(ctx, `
INSERT INTO roles (role_uuid, name, description, status, created_by)
VALUES ($1, $2, $3, $4, $5)
RETURNING `+roleColumns,
		role.PublicID, role.Name, role.Description, role.Status, idArg(role.CreatedBy))
	created, err := scanRole(row)
	if err != nil {
		if isUniqueViolation(err) {
			return Role{}, fmt.Errorf("role with name %q already exists: %w", role.Name, shared.ErrConflict)
		}
		return Role{}, err
	}
	return created, nil
}

// Update persists the full field set of a non-deleted role.
func (r *PGRepository) Update(ctx context.Context, role Role) (Role, error) {
	row := r.pool.QueryRow(ctx, `
UPDATE roles
SET name = $2, description = $3, status = $4, updated_by = $5, updated_at = NOW()
WHERE id = $1 AND deleted_at IS NULL
RETURNING `+roleColumns,
		role.ID.Int64(), role.Name, role.Description, role.Status, idArg(role.UpdatedBy))
	updated, err := scanRoleNotFound(row)
	if err != nil {
		if isUniqueViolation(err) {
			return Role{}, fmt.Errorf("role with name %q already exists: %w", role.Name, shared.ErrConflict)
		}
		return Role{}, err
	}
	return updated, nil
}

// SoftDelete stamps the deletion marker. Re-deleting an already deleted
// row affects nothing and reports not found.
func (r *PGRepository) SoftDelete(ctx context.Context, id shared.ID, deletedBy *shared.ID, at time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE roles SET deleted_at = $2, deleted_by = $3 WHERE id = $1 AND deleted_at IS NULL`,
		id.Int64(), at, idArg(deletedBy))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanRole(row pgx.Row) (Role, error) {
	var (
		role      Role
		createdBy *int64
		updatedBy *int64
	)
	err := row.Scan(&role.ID, &role.PublicID, &role.Name, &role.Description, &role.Status,
		&createdBy, &updatedBy, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		return Role{}, err
	}
	role.CreatedBy = toID(createdBy)
	role.UpdatedBy = toID(updatedBy)
	return role, nil
}

func scanRoleNotFound(row pgx.Row) (Role, error) {
	role, err := scanRole(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Role{}, shared.ErrNotFound
	}
	return role, err
}

func sortClause(sortBy, sortOrder string) string {
	dir := "DESC"
	if sortOrder == "asc" {
		dir = "ASC"
	}
	switch sortBy {
	case "name":
		return "name " + dir
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
