package repositories

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// memTokens is an in-memory TokenRepository with the same contract as the SQL
// implementation: the token is the key, so attaching an already-owned token
// reassigns it, and detach only releases the caller's own binding. The legacy
// map mirrors the deprecated per-user token field the store still carries.
type memTokens struct {
	mu     sync.Mutex
	owner  map[string]string // token -> user
	legacy map[string]string // user -> legacy token
}

func newMemTokens() *memTokens {
	return &memTokens{owner: map[string]string{}, legacy: map[string]string{}}
}

func (s *memTokens) Attach(_ context.Context, userID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.owner[token] = userID
	for user, legacy := range s.legacy {
		if legacy == token {
			delete(s.legacy, user)
		}
	}
	return nil
}

func (s *memTokens) Detach(_ context.Context, userID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.owner[token] == userID {
		delete(s.owner, token)
	}
	if s.legacy[userID] == token {
		delete(s.legacy, userID)
	}
	return nil
}

func (s *memTokens) InvalidateMany(_ context.Context, tokens []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, token := range tokens {
		delete(s.owner, token)
	}
	return nil
}

func (s *memTokens) TokensForUsers(_ context.Context, userIDs []string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	members := map[string]struct{}{}
	for _, id := range userIDs {
		members[id] = struct{}{}
	}
	var tokens []string
	for token, user := range s.owner {
		if _, ok := members[user]; ok {
			tokens = append(tokens, token)
		}
	}
	return tokens, nil
}

var _ TokenRepository = (*memTokens)(nil)

func TestTokenRegistryAttachStealsFromPriorOwner(t *testing.T) {
	registry := newMemTokens()
	ctx := context.Background()

	require.NoError(t, registry.Attach(ctx, "u1", "tok"))
	require.NoError(t, registry.Attach(ctx, "u2", "tok"))

	got, err := registry.TokensForUsers(ctx, []string{"u1"})
	require.NoError(t, err)
	require.Empty(t, got)

	got, err = registry.TokensForUsers(ctx, []string{"u2"})
	require.NoError(t, err)
	require.Equal(t, []string{"tok"}, got)
}

func TestTokenRegistryAttachClearsMatchingLegacyTokens(t *testing.T) {
	registry := newMemTokens()
	registry.legacy["u1"] = "tok"
	registry.legacy["u2"] = "other"
	ctx := context.Background()

	require.NoError(t, registry.Attach(ctx, "u3", "tok"))

	require.NotContains(t, registry.legacy, "u1")
	require.Equal(t, "other", registry.legacy["u2"])
}

func TestTokenRegistryDetachIsIdempotent(t *testing.T) {
	registry := newMemTokens()
	ctx := context.Background()

	require.NoError(t, registry.Attach(ctx, "u1", "tok"))
	require.NoError(t, registry.Detach(ctx, "u1", "tok"))
	require.NoError(t, registry.Detach(ctx, "u1", "tok"))
	require.NoError(t, registry.Detach(ctx, "u1", "never-attached"))

	got, err := registry.TokensForUsers(ctx, []string{"u1"})
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestTokenRegistryDetachOnlyReleasesOwnBinding(t *testing.T) {
	registry := newMemTokens()
	ctx := context.Background()

	require.NoError(t, registry.Attach(ctx, "u1", "tok"))
	require.NoError(t, registry.Detach(ctx, "u2", "tok"))

	got, err := registry.TokensForUsers(ctx, []string{"u1"})
	require.NoError(t, err)
	require.Equal(t, []string{"tok"}, got)
}

func TestTokenRegistryInvalidateManyRemovesAcrossOwners(t *testing.T) {
	registry := newMemTokens()
	ctx := context.Background()

	require.NoError(t, registry.Attach(ctx, "u1", "t1"))
	require.NoError(t, registry.Attach(ctx, "u2", "t2"))
	require.NoError(t, registry.Attach(ctx, "u2", "t3"))

	require.NoError(t, registry.InvalidateMany(ctx, []string{"t1", "t3", "unknown"}))

	got, err := registry.TokensForUsers(ctx, []string{"u1", "u2"})
	require.NoError(t, err)
	require.Equal(t, []string{"t2"}, got)
}
