package models

// AdminRow is the reduced projection of a User shown on the management
// screen. It carries no password, address or personal details.
type AdminRow struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Role        Role   `json:"role"`
	Status      Status `json:"status"`
}

// AdminFilter holds optional, AND-combined criteria. Empty fields match
// everything. Email is a case-insensitive substring, Role and Status are
// exact.
type AdminFilter struct {
	Email  string `json:"email,omitempty"`
	Role   Role   `json:"role,omitempty"`
	Status Status `json:"status,omitempty"`
}

// ToAdminRow projects u for the management screen.
func ToAdminRow(u User) AdminRow {
	return AdminRow{
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        u.Role,
		Status:      u.EffectiveStatus(),
	}
}
