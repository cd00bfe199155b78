// Package models holds the account records shared by the storefront
// repositories, services and CLI.
package models

// Role is the account role.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

// Status is the account activation status. An empty Status is read as
// StatusActive.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// User is one account record keyed by Email.
//
// The JSON shape is the persisted shape: the whole collection is stored as a
// JSON array of User, and the active session as a single User object.
type User struct {
	FullName    string `json:"fullName"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	BirthDate   string `json:"birthDate"`
	Address     string `json:"address"`
	Password    string `json:"password"`
	Role        Role   `json:"role"`
	Status      Status `json:"status,omitempty"`
}

// EffectiveStatus returns the status with the active default applied.
func (u User) EffectiveStatus() Status {
	if u.Status == "" {
		return StatusActive
	}
	return u.Status
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u User) IsActive() bool {
	return u.EffectiveStatus() == StatusActive
}

// Opposite flips active <-> inactive.
func (s Status) Opposite() Status {
	if s == StatusActive || s == "" {
		return StatusInactive
	}
	return StatusActive
}
