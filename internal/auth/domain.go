package auth

import (
	"time"

	"github.com/armada-fleet/armada/internal/shared"
)

// User represents a credential-store record. PasswordHash never leaves
// this package.
type User struct {
	ID           shared.ID
	PublicID     string
	Username     string
	Email        string
	PasswordHash string
	Status       string
	RoleID       *shared.ID
	Role         *shared.RoleSummary
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity strips the credential fields into the per-request view.
func (u *User) Identity() *shared.Identity {
	return &shared.Identity{
		ID:        u.ID,
		PublicID:  u.PublicID,
		Username:  u.Username,
		Email:     u.Email,
		Status:    u.Status,
		RoleID:    u.RoleID,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
