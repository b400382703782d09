package drivers

import (
	"time"

	"github.com/armada-fleet/armada/internal/shared"
)

// Driver roles within a crew.
const (
	TypeMain      = "MAIN"
	TypeAssistant = "ASSISTANT"
)

// Driver is a crew member, optionally assigned to a vehicle. The vehicle
// reference is exposed through the vehicle's opaque identifier; the
// internal foreign key never leaves the repository layer.
type Driver struct {
	ID               shared.ID  `json:"id"`
	PublicID         string     `json:"driver_uuid"`
	Name             string     `json:"name"`
	PhoneNumber      string     `json:"phone_number"`
	EmergencyContact string     `json:"emergency_contact"`
	Address          string     `json:"address"`
	Type             string     `json:"driver_type"`
	Status           string     `json:"status"`
	VehicleID        *shared.ID `json:"-"`
	VehicleUUID      *string    `json:"vehicle_uuid,omitempty"`
	CreatedBy        *shared.ID `json:"created_by,omitempty"`
	UpdatedBy        *shared.ID `json:"updated_by,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
