package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"notification-service/internal/apperr"
	"notification-service/internal/models"
)

// StatsRepository owns the per-group storage counters.
type StatsRepository interface {
	// ApplyUsageDelta adds delta (negative for deletes) to the group's used
	// bytes inside a serializable transaction, flooring the result at zero.
	// A missing stats row is created with defaultQuota; an existing quota is
	// never overwritten.
	ApplyUsageDelta(ctx context.Context, groupID string, delta int64, defaultQuota int64) error

	// EnsureStats seeds the stats row (used=0, quota=defaultQuota) if absent.
	EnsureStats(ctx context.Context, groupID string, defaultQuota int64) error

	GetStats(ctx context.Context, groupID string) (models.GroupStorageStats, error)

	// DefaultQuota reads the process-wide default from app_config, returning
	// fallback when the record or field is absent.
	DefaultQuota(ctx context.Context, fallback int64) int64
}

// ErrStatsNotFound marks a stats lookup for a group with no counter yet.
var ErrStatsNotFound = apperr.NotFound("storage stats not found")

// StatsRepo is a sqlx implementation of StatsRepository.
type StatsRepo struct {
	db *sqlx.DB
}

// NewStatsRepo constructs a StatsRepo.
func NewStatsRepo(db *sqlx.DB) *StatsRepo {
	return &StatsRepo{db: db}
}

// ApplyUsageDelta performs the read-modify-write under serializable isolation
// so racing finalize/delete events for the same group never lose an update.
func (r *StatsRepo) ApplyUsageDelta(ctx context.Context, groupID string, delta int64, defaultQuota int64) error {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return apperr.Transient("begin usage update", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var used int64
	err = tx.GetContext(ctx, &used, `SELECT storage_used_bytes FROM group_storage_stats WHERE group_id = $1 FOR UPDATE`, groupID)
	if errors.Is(err, sql.ErrNoRows) {
		used = 0
		err = nil
	} else if err != nil {
		return apperr.Transient("read usage", err)
	}

	newUsed := used + delta
	if newUsed < 0 {
		newUsed = 0
	}

	// Merge-style upsert: quota stays untouched when the row already exists.
	if _, err = tx.ExecContext(ctx, `INSERT INTO group_storage_stats (group_id, storage_used_bytes, storage_quota_bytes)
        VALUES ($1, $2, $3)
        ON CONFLICT (group_id) DO UPDATE SET storage_used_bytes = $2, updated_at = NOW()`,
		groupID, newUsed, defaultQuota); err != nil {
		return apperr.Transient("write usage", err)
	}

	if err = tx.Commit(); err != nil {
		return apperr.Transient("commit usage update", err)
	}
	return nil
}

// EnsureStats seeds the counter for a newly observed group without clobbering
// a row already created by a racing upload event.
func (r *StatsRepo) EnsureStats(ctx context.Context, groupID string, defaultQuota int64) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO group_storage_stats (group_id, storage_used_bytes, storage_quota_bytes)
        VALUES ($1, 0, $2)
        ON CONFLICT (group_id) DO NOTHING`, groupID, defaultQuota)
	if err != nil {
		return apperr.Transient("seed stats", err)
	}
	return nil
}

// GetStats fetches the group's counter.
func (r *StatsRepo) GetStats(ctx context.Context, groupID string) (models.GroupStorageStats, error) {
	var stats models.GroupStorageStats
	err := r.db.GetContext(ctx, &stats, `SELECT group_id, storage_used_bytes, storage_quota_bytes, created_at, updated_at
        FROM group_storage_stats WHERE group_id = $1`, groupID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.GroupStorageStats{}, ErrStatsNotFound
	}
	if err != nil {
		return models.GroupStorageStats{}, apperr.Transient("load stats", err)
	}
	return stats, nil
}

// DefaultQuota is a best-effort, non-transactional read of the configured
// default; callers fall back to the literal when the record is missing.
func (r *StatsRepo) DefaultQuota(ctx context.Context, fallback int64) int64 {
	var quota sql.NullInt64
	err := r.db.GetContext(ctx, &quota, `SELECT int_value FROM app_config WHERE name = 'storage_bytes_quota_default'`)
	if err != nil || !quota.Valid || quota.Int64 <= 0 {
		return fallback
	}
	return quota.Int64
}
