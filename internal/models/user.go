package models

import (
	"database/sql"
	"time"
)

// User is a member of the app as seen by the notification layer. GroupID and
// Role are empty for users that have not joined a group.
type User struct {
	ID          string         `db:"id" json:"id"`
	GroupID     string         `db:"group_id" json:"group_id,omitempty"`
	Role        string         `db:"role" json:"role,omitempty"`
	LegacyToken sql.NullString `db:"legacy_token" json:"-"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
}

// UserToken is one row of the device-token registry. The token column is the
// primary key, so a token can belong to at most one user at a time.
type UserToken struct {
	Token     string    `db:"token" json:"-"`
	UserID    string    `db:"user_id" json:"user_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
