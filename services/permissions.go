package services

// Role is the access level assigned to a user account.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
)

// Action is a capability checked at the orchestrator boundary.
type Action string

const (
	ActionDelete       Action = "delete"
	ActionArchive      Action = "archive"
	ActionRestore      Action = "restore"
	ActionManageUsers  Action = "manage_users"
	ActionEditSettings Action = "edit_settings"
)

// Can reports whether a role may perform an action. Destructive and
// administrative capabilities are admin-only; everything not listed here
// (reading, drafting, sending quotes) is open to every authenticated role.
func Can(role Role, action Action) bool {
	switch action {
	case ActionDelete, ActionArchive, ActionRestore, ActionManageUsers, ActionEditSettings:
		return role == RoleAdmin
	default:
		return true
	}
}

// ParseRole maps a stored role value onto the Role enum, defaulting
// unknown values to the least privileged role.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin
	case RoleManager:
		return RoleManager
	default:
		return RoleUser
	}
}
