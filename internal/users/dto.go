package users

// CreateUserRequest is the payload for creating a user account.
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	RoleUUID string `json:"role_uuid" validate:"omitempty,uuid4"`
	Status   string `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE"`
}

// UpdateUserRequest is the partial-update payload.
type UpdateUserRequest struct {
	Username *string `json:"username" validate:"omitempty,min=1,max=50"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=6"`
	RoleUUID *string `json:"role_uuid" validate:"omitempty,uuid4"`
	Status   *string `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE"`
}
