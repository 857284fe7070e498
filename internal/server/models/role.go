package models

// Role is a named permission group. Accounts hold zero or more roles
// through the user_roles association table.
type Role struct {
	ID          int64  `json:"id"`
	RoleName    string `json:"roleName"`
	Description string `json:"description,omitempty"`
}
