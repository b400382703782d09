package drivers

// CreateDriverRequest is the payload for registering a driver. The
// vehicle assignment is optional and given by the vehicle's public
// identifier.
type CreateDriverRequest struct {
	Name             string `json:"name" validate:"required,max=100"`
	PhoneNumber      string `json:"phone_number" validate:"required,max=20"`
	EmergencyContact string `json:"emergency_contact" validate:"omitempty,max=20"`
	Address          string `json:"address" validate:"omitempty,max=255"`
	Type             string `json:"driver_type" validate:"required,oneof=MAIN ASSISTANT"`
	VehicleUUID      string `json:"vehicle_uuid" validate:"omitempty,uuid4"`
	Status           string `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE"`
}

// UpdateDriverRequest is the partial-update payload. An explicitly empty
// vehicle_uuid clears the assignment.
type UpdateDriverRequest struct {
	Name             *string `json:"name" validate:"omitempty,min=1,max=100"`
	PhoneNumber      *string `json:"phone_number" validate:"omitempty,min=1,max=20"`
	EmergencyContact *string `json:"emergency_contact" validate:"omitempty,max=20"`
	Address          *string `json:"address" validate:"omitempty,max=255"`
	Type             *string `json:"driver_type" validate:"omitempty,oneof=MAIN ASSISTANT"`
	VehicleUUID      *string `json:"vehicle_uuid" validate:"omitempty,uuid4"`
	Status           *string `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE"`
}
