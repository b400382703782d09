package roles

// CreateRoleRequest is the payload for creating a role.
type CreateRoleRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"omitempty,max=255"`
	Status      string `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE"`
}

// UpdateRoleRequest is the partial-update payload. Omitted fields are left
// untouched; an explicitly empty description is applied.
type UpdateRoleRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=255"`
	Status      *string `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE"`
}
