package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"notification-service/internal/apperr"
	"notification-service/internal/batch"
)

// TokenRepository is the device-token registry. A token belongs to at most one
// user at any time; Attach enforces that by stealing the token from any prior
// owner in the same transaction.
type TokenRepository interface {
	Attach(ctx context.Context, userID, token string) error
	Detach(ctx context.Context, userID, token string) error
	InvalidateMany(ctx context.Context, tokens []string) error
	TokensForUsers(ctx context.Context, userIDs []string) ([]string, error)
}

// TokenRepo is a sqlx implementation of TokenRepository.
type TokenRepo struct {
	db         *sqlx.DB
	batchLimit int
}

// NewTokenRepo constructs a TokenRepo. batchLimit bounds id-list queries.
func NewTokenRepo(db *sqlx.DB, batchLimit int) *TokenRepo {
	return &TokenRepo{db: db, batchLimit: batchLimit}
}

// Attach assigns the token to userID, removing it from every other owner and
// clearing the deprecated legacy_token field wherever it matches. All effects
// commit in one transaction.
func (r *TokenRepo) Attach(ctx context.Context, userID, token string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperr.Transient("begin attach", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	// token is the primary key, so the upsert reassigns ownership atomically.
	if _, err = tx.ExecContext(ctx, `INSERT INTO user_tokens (token, user_id) VALUES ($1, $2)
        ON CONFLICT (token) DO UPDATE SET user_id = EXCLUDED.user_id, created_at = NOW()`, token, userID); err != nil {
		return apperr.Transient("attach token", err)
	}

	if _, err = tx.ExecContext(ctx, `UPDATE users SET legacy_token = NULL WHERE legacy_token = $1`, token); err != nil {
		return apperr.Transient("clear legacy token", err)
	}

	if err = tx.Commit(); err != nil {
		return apperr.Transient("commit attach", err)
	}
	return nil
}

// Detach removes the token from userID only. Detaching an absent token is a
// no-op, not an error.
func (r *TokenRepo) Detach(ctx context.Context, userID, token string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperr.Transient("begin detach", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM user_tokens WHERE user_id = $1 AND token = $2`, userID, token); err != nil {
		return apperr.Transient("detach token", err)
	}

	if _, err = tx.ExecContext(ctx, `UPDATE users SET legacy_token = NULL WHERE id = $1 AND legacy_token = $2`, userID, token); err != nil {
		return apperr.Transient("clear legacy token", err)
	}

	if err = tx.Commit(); err != nil {
		return apperr.Transient("commit detach", err)
	}
	return nil
}

// InvalidateMany removes every listed token from whichever users hold them, as
// a single statement.
func (r *TokenRepo) InvalidateMany(ctx context.Context, tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM user_tokens WHERE token = ANY($1)`, pq.Array(tokens)); err != nil {
		return apperr.Transient("invalidate tokens", err)
	}
	return nil
}

// TokensForUsers returns the deduplicated union of the users' active tokens,
// querying in bounded id-list batches.
func (r *TokenRepo) TokensForUsers(ctx context.Context, userIDs []string) ([]string, error) {
	seen := map[string]struct{}{}
	var tokens []string
	for _, chunk := range batch.Chunks(userIDs, r.batchLimit) {
		query, args, err := sqlx.In(`SELECT token FROM user_tokens WHERE user_id IN (?)`, chunk)
		if err != nil {
			return nil, apperr.Transient("build token query", err)
		}
		var rows []string
		if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
			return nil, apperr.Transient("load tokens", err)
		}
		for _, t := range rows {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			tokens = append(tokens, t)
		}
	}
	return tokens, nil
}
