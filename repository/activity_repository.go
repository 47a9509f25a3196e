package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
)

// RecentActivity is an activity row joined with the author's display name.
// UserName is NULL when the referenced user does not exist.
type RecentActivity struct {
	ID          int64          `db:"id"`
	Description string         `db:"description"`
	CreatedAt   string         `db:"created_at"`
	UserName    sql.NullString `db:"user_name"`
}

type ActivityRepository struct {
	db *sqlx.DB
}

func NewActivityRepository(db *sqlx.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Create appends one activity entry. userID may be nil for system actions.
func (r *ActivityRepository) Create(ctx context.Context, userID *int64, action, description string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `INSERT INTO activities (user_id, action, description) VALUES (?,?,?)`, userID, action, description)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Recent returns the newest activities first, at most limit of them.
func (r *ActivityRepository) Recent(ctx context.Context, limit int) ([]RecentActivity, error) {
	if limit <= 0 {
		limit = 10
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	out := []RecentActivity{}
	err := r.db.SelectContext(ctx, &out, `
SELECT a.id, a.description, a.created_at, u.name AS user_name
FROM activities a
LEFT JOIN users u ON u.id = a.user_id
ORDER BY a.created_at DESC, a.id DESC
LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	return out, nil
}
