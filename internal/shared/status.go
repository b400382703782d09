package shared

// Record statuses shared by all resource entities.
const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
)
