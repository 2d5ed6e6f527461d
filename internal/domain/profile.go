package domain

import "time"

// Profile is an application account. Identity (email, credential) and the
// assigned role live on the same row; a rejected pendiente account is hard
// deleted, identity included.
type Profile struct {
	ID             string
	NombreCompleto string
	Email          string
	PasswordHash   string
	Rol            Rol
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsPendiente reports whether the account is still awaiting approval.
func (p *Profile) IsPendiente() bool {
	return p != nil && p.Rol == RolPendiente
}

// Capabilities returns the capability set for the profile's role. A nil
// profile maps to the all-false set.
func (p *Profile) Capabilities() CapabilitySet {
	if p == nil {
		return CapabilitySet{}
	}
	return p.Rol.Capabilities()
}
