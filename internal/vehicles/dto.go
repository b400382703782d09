package vehicles

// CreateVehicleRequest is the payload for registering a vehicle.
type CreateVehicleRequest struct {
	PlateNumber string `json:"plate_number" validate:"required,max=20"`
	HullNumber  string `json:"hull_number" validate:"omitempty,max=50"`
	Type        string `json:"vehicle_type" validate:"required,oneof=HIACE MEDIUM_BUS BIG_BUS"`
	Brand       string `json:"brand" validate:"omitempty,max=50"`
	Model       string `json:"model" validate:"omitempty,max=50"`
	Status      string `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE"`
}

// UpdateVehicleRequest is the partial-update payload.
type UpdateVehicleRequest struct {
	PlateNumber *string `json:"plate_number" validate:"omitempty,min=1,max=20"`
	HullNumber  *string `json:"hull_number" validate:"omitempty,max=50"`
	Type        *string `json:"vehicle_type" validate:"omitempty,oneof=HIACE MEDIUM_BUS BIG_BUS"`
	Brand       *string `json:"brand" validate:"omitempty,max=50"`
	Model       *string `json:"model" validate:"omitempty,max=50"`
	Status      *string `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE"`
}
