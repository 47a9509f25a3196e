package models

// Activity is one audit log line. UserID is a weak reference: it is only
// used to look up a display name and may point at a user that no longer exists.
type Activity struct {
	ID          int64  `db:"id" json:"id"`
	UserID      *int64 `db:"user_id" json:"user_id,omitempty"`
	Action      string `db:"action" json:"action"`
	Description string `db:"description" json:"description"`
	CreatedAt   string `db:"created_at" json:"created_at"`
}

// ActivityView is an activity joined with its user's display name.
type ActivityView struct {
	Description string `json:"description"`
	Time        string `json:"time"`
	User        string `json:"user"`
}
