package rbac

import (
	"time"

	"github.com/armada-fleet/armada/internal/shared"
)

// Permission represents an atomic capability, identified by the unique
// (resource, action) pair.
type Permission struct {
	ID          shared.ID `json:"id"`
	Resource    string    `json:"resource"`
	Action      string    `json:"action"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RolePermission links a role to a permission. The link carries its own
// soft-delete marker so grants can be withdrawn without losing history.
type RolePermission struct {
	RoleID       shared.ID  `json:"role_id"`
	PermissionID shared.ID  `json:"permission_id"`
	CreatedAt    time.Time  `json:"created_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

// Requirement is the declared (resource, action) pair an operation needs.
type Requirement struct {
	Resource string
	Action   string
}

// String renders the requirement as resource:action.
func (r Requirement) String() string {
	return r.Resource + ":" + r.Action
}
