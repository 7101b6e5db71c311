package models

import "gorm.io/gorm"

const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// RoleAssignmentResult reports the outcome of assigning a role to a user.
// Role assignment is an explicit post-creation step rather than a silent
// side effect of user creation.
type RoleAssignmentResult struct {
	Succeeded bool
	Errors    []string
}

func validRole(role string) bool {
	return role == RoleMember || role == RoleAdmin
}

// AssignRole sets the user's role and persists it.
func AssignRole(db *gorm.DB, user *User, role string) RoleAssignmentResult {
	if !validRole(role) {
		return RoleAssignmentResult{Errors: []string{"unknown role: " + role}}
	}

	if err := db.Model(user).Update("role", role).Error; err != nil {
		return RoleAssignmentResult{Errors: []string{"failed to persist role assignment"}}
	}

	user.Role = role
	return RoleAssignmentResult{Succeeded: true}
}
