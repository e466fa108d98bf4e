package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"

	"notification-service/internal/apperr"
	"notification-service/internal/batch"
	"notification-service/internal/models"
)

// UserRepository abstracts user-profile lookups.
type UserRepository interface {
	UsersByIDs(ctx context.Context, userIDs []string) ([]models.User, error)
}

// UserRepo is a sqlx implementation of UserRepository.
type UserRepo struct {
	db         *sqlx.DB
	batchLimit int
}

// NewUserRepo constructs a UserRepo. batchLimit bounds id-list queries.
func NewUserRepo(db *sqlx.DB, batchLimit int) *UserRepo {
	return &UserRepo{db: db, batchLimit: batchLimit}
}

// UsersByIDs loads user profiles in bounded id-list batches. Unknown ids are
// simply absent from the result.
func (r *UserRepo) UsersByIDs(ctx context.Context, userIDs []string) ([]models.User, error) {
	var users []models.User
	for _, chunk := range batch.Chunks(userIDs, r.batchLimit) {
		query, args, err := sqlx.In(`SELECT id, group_id, role, legacy_token, created_at FROM users WHERE id IN (?)`, chunk)
		if err != nil {
			return nil, apperr.Transient("build user query", err)
		}
		var rows []models.User
		if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
			return nil, apperr.Transient("load users", err)
		}
		users = append(users, rows...)
	}
	return users, nil
}
