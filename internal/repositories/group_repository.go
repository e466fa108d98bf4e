package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"notification-service/internal/apperr"
	"notification-service/internal/models"
)

// ErrGroupNotFound marks a lookup of a group or join code that does not exist.
var ErrGroupNotFound = apperr.NotFound("group not found")

// GroupRepository abstracts group persistence.
type GroupRepository interface {
	GetGroup(ctx context.Context, groupID string) (models.Group, error)
	FindByJoinCode(ctx context.Context, code string) (models.Group, error)
	AddMember(ctx context.Context, groupID, userID string) error
}

// GroupRepo is a sqlx implementation of GroupRepository.
type GroupRepo struct {
	db *sqlx.DB
}

// NewGroupRepo constructs a GroupRepo.
func NewGroupRepo(db *sqlx.DB) *GroupRepo {
	return &GroupRepo{db: db}
}

// GetGroup fetches a group and its member ids.
func (r *GroupRepo) GetGroup(ctx context.Context, groupID string) (models.Group, error) {
	var group models.Group
	err := r.db.GetContext(ctx, &group, `SELECT id, name, join_code, created_at FROM groups WHERE id = $1`, groupID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Group{}, ErrGroupNotFound
	}
	if err != nil {
		return models.Group{}, apperr.Transient("load group", err)
	}

	if err := r.db.SelectContext(ctx, &group.Members, `SELECT user_id FROM group_members WHERE group_id = $1 ORDER BY user_id`, groupID); err != nil {
		return models.Group{}, apperr.Transient("load group members", err)
	}
	return group, nil
}

// FindByJoinCode resolves a join code to its group. A unique index keeps codes
// unique at write time; the ordering makes the result deterministic regardless.
func (r *GroupRepo) FindByJoinCode(ctx context.Context, code string) (models.Group, error) {
	var group models.Group
	err := r.db.GetContext(ctx, &group, `SELECT id, name, join_code, created_at FROM groups WHERE join_code = $1 ORDER BY created_at, id LIMIT 1`, code)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Group{}, ErrGroupNotFound
	}
	if err != nil {
		return models.Group{}, apperr.Transient("find group by code", err)
	}
	return group, nil
}

// AddMember adds the user to the group with set-union semantics; repeated
// calls are no-ops.
func (r *GroupRepo) AddMember(ctx context.Context, groupID, userID string) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO group_members (group_id, user_id) VALUES ($1, $2)
        ON CONFLICT (group_id, user_id) DO NOTHING`, groupID, userID)
	if err != nil {
		return apperr.Transient("add group member", err)
	}
	return nil
}
