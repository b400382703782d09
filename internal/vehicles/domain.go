package vehicles

import (
	"time"

	"github.com/armada-fleet/armada/internal/shared"
)

// Vehicle type classes carried by the fleet.
const (
	TypeHiace     = "HIACE"
	TypeMediumBus = "MEDIUM_BUS"
	TypeBigBus    = "BIG_BUS"
)

// Vehicle is a fleet unit. The plate number is unique across the whole
// table, soft-deleted rows included.
type Vehicle struct {
	ID          shared.ID  `json:"id"`
	PublicID    string     `json:"vehicle_uuid"`
	PlateNumber string     `json:"plate_number"`
	HullNumber  string     `json:"hull_number"`
	Type        string     `json:"vehicle_type"`
	Brand       string     `json:"brand"`
	Model       string     `json:"model"`
	Status      string     `json:"status"`
	CreatedBy   *shared.ID `json:"created_by,omitempty"`
	UpdatedBy   *shared.ID `json:"updated_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
