package models

// Admin "inherits" from User via embedding. The distinguishing field is Role.
// By convention, Role is "admin" for administrators and defaults to "user" otherwise.
type Admin struct {
	User
}

// NewAdmin creates an admin model with Role preset to "admin" and the
// column defaults the schema would assign.
func NewAdmin(email, name, passwordHash string) *Admin {
	return &Admin{User: User{
		Email:                email,
		Name:                 name,
		Password:             passwordHash,
		Role:                 RoleAdmin,
		NotificationsEnabled: true,
		Theme:                ThemeLight,
	}}
}
