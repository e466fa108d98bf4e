package models

import "time"

// Group is a coordination group with a shareable join code.
type Group struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	JoinCode  string    `db:"join_code" json:"join_code"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`

	// Members is loaded from group_members alongside the group row.
	Members []string `db:"-" json:"members"`
}

// GroupStorageStats tracks a group's byte usage against its quota.
type GroupStorageStats struct {
	GroupID           string    `db:"group_id" json:"group_id"`
	StorageUsedBytes  int64     `db:"storage_used_bytes" json:"storage_used_bytes"`
	StorageQuotaBytes int64     `db:"storage_quota_bytes" json:"storage_quota_bytes"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}
