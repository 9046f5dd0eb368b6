package domain

import "fmt"

// Role names a permission level a user can hold
type Role string

const (
	RoleDiner      Role = "diner"      // Default role; places and views own orders
	RoleFranchisee Role = "franchisee" // Scoped to one franchise through ObjectID
	RoleAdmin      Role = "admin"      // Unscoped; satisfies every requirement
)

// User Model
type User struct {
	ID       uint             `gorm:"primaryKey" json:"id"`                                       // Primary key
	Name     string           `gorm:"size:255;not null;index" json:"name"`                        // Display name
	Email    string           `gorm:"size:191;uniqueIndex;not null" json:"email"`                 // Unique, case-sensitive as stored
	Password string           `gorm:"not null" json:"-"`                                          // Hashed password, never serialized
	Nonce    string           `gorm:"size:36;not null;default:''" json:"-"`                       // Fixed at creation; tokens carry it
	Roles    []RoleAssignment `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"roles"` // At least one
}

// RoleAssignment Model. ObjectID is only meaningful for RoleFranchisee, where
// it holds the franchise id; use the constructors below to build one.
type RoleAssignment struct {
	ID       uint `gorm:"primaryKey" json:"-"`
	UserID   uint `gorm:"index;not null" json:"-"`
	Role     Role `gorm:"size:32;not null" json:"role"`
	ObjectID uint `gorm:"index" json:"objectId,omitempty"`
}

// TableName keeps role rows in user_roles
func (RoleAssignment) TableName() string { return "user_roles" }

// Diner returns the default unscoped role
func Diner() RoleAssignment { return RoleAssignment{Role: RoleDiner} }

// Admin returns the unscoped administrator role
func Admin() RoleAssignment { return RoleAssignment{Role: RoleAdmin} }

// FranchiseeOf returns a franchisee role scoped to one franchise
func FranchiseeOf(franchiseID uint) RoleAssignment {
	return RoleAssignment{Role: RoleFranchisee, ObjectID: franchiseID}
}

// Validate enforces the shape of each role variant
func (r RoleAssignment) Validate() error {
	switch r.Role {
	case RoleDiner, RoleAdmin:
		if r.ObjectID != 0 {
			return fmt.Errorf("%w: %s role cannot be scoped", ErrInvalidRole, r.Role)
		}
	case RoleFranchisee:
		if r.ObjectID == 0 {
			return fmt.Errorf("%w: franchisee role requires a franchise", ErrInvalidRole)
		}
	default:
		return fmt.Errorf("%w: unknown role %q", ErrInvalidRole, r.Role)
	}
	return nil
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	for _, r := range u.Roles {
		if r.Role == RoleAdmin {
			return true
		}
	}
	return false
}

// IsFranchiseeOf reports whether the user administers the given franchise
func (u *User) IsFranchiseeOf(franchiseID uint) bool {
	for _, r := range u.Roles {
		if r.Role == RoleFranchisee && r.ObjectID == franchiseID {
			return true
		}
	}
	return false
}

// Clone copies the user so callers can mutate roles without aliasing
func (u User) Clone() User {
	u.Roles = append([]RoleAssignment(nil), u.Roles...)
	return u
}
