package shared

import "time"

// RoleSummary is the nested role view exposed on an authenticated identity.
type RoleSummary struct {
	ID       ID     `json:"id"`
	PublicID string `json:"role_uuid"`
	Name     string `json:"name"`
	Status   string `json:"status"`
}

// Identity is the per-request view of the authenticated user. It is
// resolved fresh from the store on every request and never carries the
// password hash.
type Identity struct {
	ID        ID           `json:"id"`
	PublicID  string       `json:"user_uuid"`
	Username  string       `json:"username"`
	Email     string       `json:"email"`
	Status    string       `json:"status"`
	RoleID    *ID          `json:"role_id"`
	Role      *RoleSummary `json:"role"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// HasRole reports whether a role is assigned.
func (i *Identity) HasRole() bool {
	return i != nil && i.RoleID != nil
}
