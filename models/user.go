package models

import (
	"errors"
	"fmt"
	"strings"
)

// User is an operator account.
// It maps to the `users` table in SQLite. Password holds a bcrypt hash, never plaintext.
type User struct {
	ID                   int64   `db:"id" json:"id"`
	Email                string  `db:"email" json:"email"`
	Password             string  `db:"password" json:"-"`
	Name                 string  `db:"name" json:"name"`
	Role                 string  `db:"role" json:"role"`
	AvatarURL            *string `db:"avatar_url" json:"avatar_url,omitempty"`
	NotificationsEnabled bool    `db:"notifications_enabled" json:"notifications_enabled"`
	Theme                string  `db:"theme" json:"theme"`
	CreatedAt            string  `db:"created_at" json:"created_at"`
	UpdatedAt            string  `db:"updated_at" json:"updated_at"`
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	ThemeLight = "light"
	ThemeDark  = "dark"
)

// UserSummary is what a successful login hands back to the caller.
type UserSummary struct {
	ID    int64  `db:"id" json:"id"`
	Email string `db:"email" json:"email"`
	Name  string `db:"name" json:"name"`
	Role  string `db:"role" json:"role"`
}

// Summary projects the login-facing fields of a user.
func (u *User) Summary() *UserSummary {
	return &UserSummary{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}

// UserSettings is the settings page view of a user.
type UserSettings struct {
	Name                 string  `db:"name" json:"name"`
	Email                string  `db:"email" json:"email"`
	Role                 string  `db:"role" json:"role"`
	AvatarURL            *string `db:"avatar_url" json:"avatar_url,omitempty"`
	NotificationsEnabled bool    `db:"notifications_enabled" json:"notifications_enabled"`
	Theme                string  `db:"theme" json:"theme"`
	CreatedAt            string  `db:"created_at" json:"created_at"`
	UpdatedAt            string  `db:"updated_at" json:"updated_at"`
}

// ProfileUpdate is a partial profile mutation. Nil fields are left untouched.
type ProfileUpdate struct {
	Name                 *string `json:"name,omitempty" yaml:"name,omitempty"`
	Email                *string `json:"email,omitempty" yaml:"email,omitempty"`
	AvatarURL            *string `json:"avatar_url,omitempty" yaml:"avatar_url,omitempty"`
	NotificationsEnabled *bool   `json:"notifications_enabled,omitempty" yaml:"notifications_enabled,omitempty"`
	Theme                *string `json:"theme,omitempty" yaml:"theme,omitempty"`
}

// Empty reports whether the update carries no fields.
func (p ProfileUpdate) Empty() bool {
	return p.Name == nil && p.Email == nil && p.AvatarURL == nil && p.NotificationsEnabled == nil && p.Theme == nil
}

// Validate rejects a present but blank name or email and an unknown theme.
func (p ProfileUpdate) Validate() error {
	var errs []error
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if p.Email != nil && strings.TrimSpace(*p.Email) == "" {
		errs = append(errs, errors.New("email must not be empty"))
	}
	if p.Theme != nil && *p.Theme != ThemeLight && *p.Theme != ThemeDark {
		errs = append(errs, fmt.Errorf("theme must be %q or %q", ThemeLight, ThemeDark))
	}
	return errors.Join(errs...)
}
