package domain

import "time"

// UserRole distinguishes buyers from sellers. The role is chosen at signup
// and immutable afterwards.
type UserRole string

const (
	RoleBuyer  UserRole = "Buyer"
	RoleSeller UserRole = "Seller"
)

// Valid reports whether the role is one of the known values.
func (r UserRole) Valid() bool {
	return r == RoleBuyer || r == RoleSeller
}

// User is the domain model for marketplace participants. Email is globally
// unique. Location is optional and used as the user's home point.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         UserRole
	Phone        string
	Location     *GeoPoint
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
