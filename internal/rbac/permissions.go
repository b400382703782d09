package rbac

// Resources guarded by the authorization layer.
const (
	ResourceUsers    = "users"
	ResourceRoles    = "roles"
	ResourceVehicles = "vehicles"
	ResourceDrivers  = "drivers"
)

// Actions applicable to every guarded resource.
const (
	ActionCreate = "create"
	ActionRead   = "read"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Catalog lists every (resource, action) pair the API declares. Seeding
// and the permissions listing endpoint are driven from this table rather
// than from reflection over route metadata.
func Catalog() []Requirement {
	resources := []string{ResourceUsers, ResourceRoles, ResourceVehicles, ResourceDrivers}
	actions := []string{ActionCreate, ActionRead, ActionUpdate, ActionDelete}
	catalog := make([]Requirement, 0, len(resources)*len(actions))
	for _, resource := range resources {
		for _, action := range actions {
			catalog = append(catalog, Requirement{Resource: resource, Action: action})
		}
	}
	return catalog
}
