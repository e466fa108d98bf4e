package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"notification-service/internal/models"
	"notification-service/internal/push"
	"notification-service/internal/repositories"
)

type TokenRepositoryMock struct {
	mock.Mock
}

func (m *TokenRepositoryMock) Attach(ctx context.Context, userID, token string) error {
	args := m.Called(ctx, userID, token)
	return args.Error(0)
}

func (m *TokenRepositoryMock) Detach(ctx context.Context, userID, token string) error {
	args := m.Called(ctx, userID, token)
	return args.Error(0)
}

func (m *TokenRepositoryMock) InvalidateMany(ctx context.Context, tokens []string) error {
	args := m.Called(ctx, tokens)
	return args.Error(0)
}

func (m *TokenRepositoryMock) TokensForUsers(ctx context.Context, userIDs []string) ([]string, error) {
	args := m.Called(ctx, userIDs)
	var tokens []string
	if val := args.Get(0); val != nil {
		tokens = val.([]string)
	}
	return tokens, args.Error(1)
}

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) UsersByIDs(ctx context.Context, userIDs []string) ([]models.User, error) {
	args := m.Called(ctx, userIDs)
	var users []models.User
	if val := args.Get(0); val != nil {
		users = val.([]models.User)
	}
	return users, args.Error(1)
}

type GroupRepositoryMock struct {
	mock.Mock
}

func (m *GroupRepositoryMock) GetGroup(ctx context.Context, groupID string) (models.Group, error) {
	args := m.Called(ctx, groupID)
	var group models.Group
	if val := args.Get(0); val != nil {
		group = val.(models.Group)
	}
	return group, args.Error(1)
}

func (m *GroupRepositoryMock) FindByJoinCode(ctx context.Context, code string) (models.Group, error) {
	args := m.Called(ctx, code)
	var group models.Group
	if val := args.Get(0); val != nil {
		group = val.(models.Group)
	}
	return group, args.Error(1)
}

func (m *GroupRepositoryMock) AddMember(ctx context.Context, groupID, userID string) error {
	args := m.Called(ctx, groupID, userID)
	return args.Error(0)
}

type StatsRepositoryMock struct {
	mock.Mock
}

func (m *StatsRepositoryMock) ApplyUsageDelta(ctx context.Context, groupID string, delta int64, defaultQuota int64) error {
	args := m.Called(ctx, groupID, delta, defaultQuota)
	return args.Error(0)
}

func (m *StatsRepositoryMock) EnsureStats(ctx context.Context, groupID string, defaultQuota int64) error {
	args := m.Called(ctx, groupID, defaultQuota)
	return args.Error(0)
}

func (m *StatsRepositoryMock) GetStats(ctx context.Context, groupID string) (models.GroupStorageStats, error) {
	args := m.Called(ctx, groupID)
	var stats models.GroupStorageStats
	if val := args.Get(0); val != nil {
		stats = val.(models.GroupStorageStats)
	}
	return stats, args.Error(1)
}

func (m *StatsRepositoryMock) DefaultQuota(ctx context.Context, fallback int64) int64 {
	args := m.Called(ctx, fallback)
	return args.Get(0).(int64)
}

type TransportMock struct {
	mock.Mock
}

func (m *TransportMock) SendMulticast(ctx context.Context, tokens []string, msg push.Message) (push.MulticastResult, error) {
	args := m.Called(ctx, tokens, msg)
	var result push.MulticastResult
	if val := args.Get(0); val != nil {
		result = val.(push.MulticastResult)
	}
	return result, args.Error(1)
}

var _ repositories.TokenRepository = (*TokenRepositoryMock)(nil)
var _ repositories.UserRepository = (*UserRepositoryMock)(nil)
var _ repositories.GroupRepository = (*GroupRepositoryMock)(nil)
var _ repositories.StatsRepository = (*StatsRepositoryMock)(nil)
var _ push.Transport = (*TransportMock)(nil)
