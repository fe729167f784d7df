package models

import "time"

// User is a staff/parent profile row. Provisioned on first OAuth login;
// the role stays NULL until onboarding assigns one.
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	FirstName   *string   `json:"first_name"`
	LastName    *string   `json:"last_name"`
	Role        *UserRole `json:"role"`
	SchoolID    *string   `json:"school_id"`
	SSSPosition *string   `json:"sss_position"`
	GoogleID    *string   `json:"google_id"`
	Department  *string   `json:"department"`
	Phone       *string   `json:"phone"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DisplayName returns "First Last" trimmed, falling back to the email
// when both name fields are blank.
func (u *User) DisplayName() string {
	name := ""
	if u.FirstName != nil {
		name = *u.FirstName
	}
	if u.LastName != nil {
		if name != "" {
			name += " "
		}
		name += *u.LastName
	}
	if name == "" {
		return u.Email
	}
	return name
}
