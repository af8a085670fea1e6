package domain

import "time"

const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
)

// ValidRole reports whether role is one of the recognized account roles.
func ValidRole(role string) bool {
	return role == RoleBuyer || role == RoleSeller
}

// User models an authenticated actor in the system.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
