package users

import (
	"time"

	"github.com/armada-fleet/armada/internal/shared"
)

// User represents a user account for management. The password hash is
// never serialized.
type User struct {
	ID           shared.ID  `json:"id"`
	PublicID     string     `json:"user_uuid"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Status       string     `json:"status"`
	RoleID       *shared.ID `json:"role_id"`
	CreatedBy    *shared.ID `json:"created_by,omitempty"`
	UpdatedBy    *shared.ID `json:"updated_by,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
