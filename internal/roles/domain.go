package roles

import (
	"time"

	"github.com/armada-fleet/armada/internal/shared"
)

// Role represents a named permission group. Roles are soft-deleted, never
// physically removed; deleted roles are excluded from every lookup and
// permission check.
type Role struct {
	ID          shared.ID  `json:"id"`
	PublicID    string     `json:"role_uuid"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	CreatedBy   *shared.ID `json:"created_by,omitempty"`
	UpdatedBy   *shared.ID `json:"updated_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
