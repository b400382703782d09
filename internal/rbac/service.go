package rbac

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/armada-fleet/armada/internal/shared"
)

// Checker answers whether a role holds a permission. Checks are performed
// fresh on every guarded request; results are never cached.
type Checker interface {
	HasPermission(ctx context.Context, roleID shared.ID, req Requirement) (bool, error)
}

// Service orchestrates authorization lookups against PostgreSQL.
type Service struct {
	pool *pgxpool.Pool
}

// NewService constructs a Service backed by the provided pool.
func NewService(pool *pgxpool.Pool) *Service {
	return &Service{pool: pool}
}

// HasPermission performs the single flat lookup: one query over the
// role_permissions/permissions join, requiring both rows to be live.
func (s *Service) HasPermission(ctx context.Context, roleID shared.ID, req Requirement) (bool, error) {
	const query = `
SELECT EXISTS (
    SELECT 1
    FROM role_permissions rp
    JOIN permissions p ON p.id = rp.permission_id
    WHERE rp.role_id = $1
      AND rp.deleted_at IS NULL
      AND p.deleted_at IS NULL
      AND p.resource = $2
      AND p.action = $3
)`
	var granted bool
	if err := s.pool.QueryRow(ctx, query, roleID.Int64(), req.Resource, req.Action).Scan(&granted); err != nil {
		return false, err
	}
	return granted, nil
}

// ListPermissions returns all live permissions ordered by resource then action.
func (s *Service) ListPermissions(ctx context.Context) ([]Permission, error) {
	rows, err := s.pool.Query(ctx, `
SELECT id, resource, action, description, created_at, updated_at
FROM permissions
WHERE deleted_at IS NULL
ORDER BY resource, action`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var perms []Permission
	for rows.Next() {
		var p Permission
		if err := rows.Scan(&p.ID, &p.Resource, &p.Action, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		perms = append(perms, p)
	}
	return perms, rows.Err()
}

var _ Checker = (*Service)(nil)
