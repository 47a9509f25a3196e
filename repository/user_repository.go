package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"sedcoRecords/models"
)

const userColumns = `id, email, password, name, role, avatar_url, notifications_enabled, theme, created_at, updated_at`

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user. Password must already be hashed.
// Role and theme fall back to the column defaults when empty.
func (r *UserRepository) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if u == nil {
		return nil, errors.New("user is nil")
	}
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	if u.Theme == "" {
		u.Theme = models.ThemeLight
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.NamedExecContext(ctx, `INSERT INTO users (email, password, name, role, avatar_url, notifications_enabled, theme)
VALUES (:email, :password, :name, :role, :avatar_url, :notifications_enabled, :theme)`, u)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

// GetByEmail looks a user up by exact, case-sensitive email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = ? LIMIT 1`, email)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var u models.User
	if err := r.db.GetContext(ctx, &u, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// GetSettings returns the settings view of a user, or nil if absent.
func (r *UserRepository) GetSettings(ctx context.Context, id int64) (*models.UserSettings, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var s models.UserSettings
	err := r.db.GetContext(ctx, &s, `SELECT name, email, role, avatar_url, notifications_enabled, theme, created_at, updated_at FROM users WHERE id = ? LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var out []models.User
	if err := r.db.SelectContext(ctx, &out, `SELECT `+userColumns+` FROM users ORDER BY id LIMIT ? OFFSET ?`, limit, offset); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateProfile applies only the fields present in p and refreshes updated_at.
// An empty update touches nothing.
func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, p models.ProfileUpdate) error {
	if p.Empty() {
		return nil
	}
	set := map[string]any{}
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.Email != nil {
		set["email"] = *p.Email
	}
	if p.AvatarURL != nil {
		set["avatar_url"] = *p.AvatarURL
	}
	if p.NotificationsEnabled != nil {
		set["notifications_enabled"] = *p.NotificationsEnabled
	}
	if p.Theme != nil {
		set["theme"] = *p.Theme
	}
	query, args, err := sq.Update("users").
		SetMap(set).
		Set("updated_at", sq.Expr(nowExpr)).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}

// UpdatePassword stores a new password hash and refreshes updated_at.
func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `UPDATE users SET password = ?, updated_at = `+nowExpr+` WHERE id = ?`, hash, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateRoleByEmail sets the role for the given email.
// Intended for administrative flows and tests.
func (r *UserRepository) UpdateRoleByEmail(ctx context.Context, email, role string) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_, err := r.db.ExecContext(ctx, `UPDATE users SET role = ?, updated_at = `+nowExpr+` WHERE email = ?`, role, email)
	return err
}
