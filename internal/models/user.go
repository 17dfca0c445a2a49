package models

import "time"

// UserRole represents the available roles for the RBAC system. Farmer
// sub-roles share identical capabilities; MANAGER and ADMIN are privileged.
type UserRole string

const (
	RoleCropFarmer       UserRole = "CROP_FARMER"
	RoleVegetableFarmer  UserRole = "VEGETABLE_FARMER"
	RoleFruitFarmer      UserRole = "FRUIT_FARMER"
	RolePlantationFarmer UserRole = "PLANTATION_FARMER"
	RoleManager          UserRole = "MANAGER"
	RoleAdmin            UserRole = "ADMIN"
)

// Valid reports whether the role belongs to the closed set.
func (r UserRole) Valid() bool {
	switch r {
	case RoleCropFarmer, RoleVegetableFarmer, RoleFruitFarmer, RolePlantationFarmer, RoleManager, RoleAdmin:
		return true
	default:
		return false
	}
}

// IsFarmer reports whether the role is one of the farmer sub-roles.
func (r UserRole) IsFarmer() bool {
	switch r {
	case RoleCropFarmer, RoleVegetableFarmer, RoleFruitFarmer, RolePlantationFarmer:
		return true
	default:
		return false
	}
}

// User represents an application user stored in the users table.
type User struct {
	ID           string    `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	Role         UserRole  `db:"role" json:"role"`
	Phone        *string   `db:"phone" json:"phone,omitempty"`
	Location     *string   `db:"location" json:"location,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	Role     *UserRole
	Search   string
	Page     int
	PageSize int
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
