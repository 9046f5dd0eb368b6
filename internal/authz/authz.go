// Package authz decides whether an authenticated user may perform an action.
// Admin satisfies every requirement.
package authz

import (
	"fmt" // Error wrapping

	"jwt_pizza_service/internal/domain" // Domain models
)

// Requirement is one access rule applied to an endpoint
type Requirement interface {
	allows(user *domain.User) bool
	String() string
}

type adminOnly struct{}

func (adminOnly) allows(*domain.User) bool { return false }
func (adminOnly) String() string          { return "admin" }

// AdminOnly requires the admin role
func AdminOnly() Requirement { return adminOnly{} }

type selfOrAdmin struct{ userID uint }

func (r selfOrAdmin) allows(u *domain.User) bool { return u.ID == r.userID }
func (r selfOrAdmin) String() string             { return fmt.Sprintf("self(%d) or admin", r.userID) }

// SelfOrAdmin requires the caller to be the target user, compared by id
func SelfOrAdmin(userID uint) Requirement { return selfOrAdmin{userID: userID} }

type franchiseAdmin struct{ franchiseID uint }

func (r franchiseAdmin) allows(u *domain.User) bool { return u.IsFranchiseeOf(r.franchiseID) }
func (r franchiseAdmin) String() string {
	return fmt.Sprintf("franchisee(%d) or admin", r.franchiseID)
}

// FranchiseAdminOrAdmin requires a franchisee role scoped to the franchise
func FranchiseAdminOrAdmin(franchiseID uint) Requirement {
	return franchiseAdmin{franchiseID: franchiseID}
}

type authenticated struct{}

func (authenticated) allows(*domain.User) bool { return true }
func (authenticated) String() string          { return "authenticated" }

// Authenticated admits any identity
func Authenticated() Requirement { return authenticated{} }

// Authorize returns domain.ErrUnauthorized when there is no identity and
// domain.ErrForbidden when the identity does not meet the requirement
func Authorize(user *domain.User, req Requirement) error {
	if user == nil {
		return domain.ErrUnauthorized
	}
	if user.IsAdmin() || req.allows(user) {
		return nil
	}
	return fmt.Errorf("%w: requires %s", domain.ErrForbidden, req)
}

// Allowed is Authorize as a boolean, for handlers that filter rather than deny
func Allowed(user *domain.User, req Requirement) bool {
	return Authorize(user, req) == nil
}
