package domain

// Rol enumerates application roles. The set is closed: new roles require a code
// change, there are no per-user capability overrides.
type Rol string

const (
	RolAdmin        Rol = "admin"
	RolCoordinadora Rol = "coordinadora"
	RolLaboratorio  Rol = "laboratorio"
	RolCedis        Rol = "cedis"
	// RolConsulta is a deprecated view-only role. Existing profiles may still
	// carry it, but the approval workflow no longer assigns it.
	RolConsulta Rol = "consulta"
	// RolPendiente is the sign-up state. It is not an operating role: a pendiente
	// account can do nothing until an admin approves or rejects it.
	RolPendiente Rol = "pendiente"
)

// CapabilitySet is the full permission surface derived from a role.
type CapabilitySet struct {
	CanCreate            bool
	CanEdit              bool
	CanDelete            bool
	CanAccessAdmin       bool
	CanViewOnly          bool
	CanEditConfirmedDate bool
	CanManageUsers       bool
}

// CanView reports whether the role may read requisiciones at all.
func (c CapabilitySet) CanView() bool {
	return c.CanViewOnly || c.CanCreate || c.CanEdit || c.CanAccessAdmin
}

// Capabilities maps a role to its capability set. Total function: an unknown or
// empty role gets the all-false set, same as pendiente.
func (r Rol) Capabilities() CapabilitySet {
	switch r {
	case RolAdmin:
		return CapabilitySet{
			CanCreate:            true,
			CanEdit:              true,
			CanDelete:            true,
			CanAccessAdmin:       true,
			CanEditConfirmedDate: true,
			CanManageUsers:       true,
		}
	case RolCoordinadora:
		return CapabilitySet{
			CanCreate:            true,
			CanEdit:              true,
			CanAccessAdmin:       true,
			CanEditConfirmedDate: true,
			CanManageUsers:       true,
		}
	case RolLaboratorio, RolCedis, RolConsulta:
		return CapabilitySet{CanViewOnly: true}
	case RolPendiente:
		return CapabilitySet{}
	default:
		return CapabilitySet{}
	}
}

// AssignableRoles lists the roles the approval workflow may grant. pendiente is
// reachable only at sign-up and consulta is no longer assigned.
func AssignableRoles() []Rol {
	return []Rol{RolAdmin, RolCoordinadora, RolLaboratorio, RolCedis}
}

// IsAssignable reports whether the approval workflow may grant this role.
func (r Rol) IsAssignable() bool {
	for _, candidate := range AssignableRoles() {
		if r == candidate {
			return true
		}
	}
	return false
}

// Label returns the display name for a role.
func (r Rol) Label() string {
	switch r {
	case RolAdmin:
		return "Administrador"
	case RolCoordinadora:
		return "Coordinadora"
	case RolLaboratorio:
		return "Laboratorio"
	case RolCedis:
		return "CEDIS"
	case RolConsulta:
		return "Consulta"
	case RolPendiente:
		return "Pendiente"
	default:
		return string(r)
	}
}
