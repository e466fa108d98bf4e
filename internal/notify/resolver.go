package notify

import (
	"context"
	"errors"
	"strings"

	"notification-service/internal/models"
	"notification-service/internal/repositories"
)

// Resolver computes which device tokens should receive a notification for a
// group event.
type Resolver struct {
	groups       repositories.GroupRepository
	users        repositories.UserRepository
	tokens       repositories.TokenRepository
	excludedRole string
}

// NewResolver constructs a Resolver. excludedRole names the group role whose
// holders never receive chat notifications from their own group.
func NewResolver(groups repositories.GroupRepository, users repositories.UserRepository, tokens repositories.TokenRepository, excludedRole string) *Resolver {
	return &Resolver{
		groups:       groups,
		users:        users,
		tokens:       tokens,
		excludedRole: excludedRole,
	}
}

// Resolve returns the tokens for a chat message in groupID sent by senderID.
// An unknown group yields an empty set and no error: a vanished group simply
// means there is nobody to notify.
func (r *Resolver) Resolve(ctx context.Context, groupID, senderID string) ([]string, error) {
	group, err := r.groups.GetGroup(ctx, groupID)
	if errors.Is(err, repositories.ErrGroupNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	candidates := make([]string, 0, len(group.Members))
	for _, member := range group.Members {
		if member != senderID {
			candidates = append(candidates, member)
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	users, err := r.users.UsersByIDs(ctx, candidates)
	if err != nil {
		return nil, err
	}

	recipients := make([]string, 0, len(users))
	for _, user := range users {
		if r.excludedFromChat(user, groupID) {
			continue
		}
		recipients = append(recipients, user.ID)
	}
	if len(recipients) == 0 {
		return nil, nil
	}

	return r.tokens.TokensForUsers(ctx, recipients)
}

// ResolveAlertTargets returns the tokens of the group's honorees: members
// holding the excluded role in this very group. They are the audience of
// group-alert notifications.
func (r *Resolver) ResolveAlertTargets(ctx context.Context, groupID string) ([]string, error) {
	group, err := r.groups.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	users, err := r.users.UsersByIDs(ctx, group.Members)
	if err != nil {
		return nil, err
	}

	targets := make([]string, 0, 1)
	for _, user := range users {
		if r.excludedFromChat(user, groupID) {
			targets = append(targets, user.ID)
		}
	}
	if len(targets) == 0 {
		return nil, nil
	}

	return r.tokens.TokensForUsers(ctx, targets)
}

// excludedFromChat is scoped to the originating group: holding the role in a
// different group must not suppress the notification here.
func (r *Resolver) excludedFromChat(user models.User, groupID string) bool {
	return user.GroupID == groupID && strings.EqualFold(user.Role, r.excludedRole)
}
