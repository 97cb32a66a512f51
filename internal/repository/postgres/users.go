package postgres

import (
	"context"
	"strings"

	"acc-notifications/internal/models"

	"github.com/lib/pq"
)

func (s *Store) NotificationTypeID(ctx context.Context, identifier string) (int, error) {
	var id int
	err := s.one(ctx, "notification_type", `
		SELECT id
		FROM notification_type
		WHERE identifier = $1`, []interface{}{identifier}, &id)
	return id, err
}

func (s *Store) User(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	err := s.one(ctx, "user", `
		SELECT users.id, user_account_cache.username, users.user_group_id, user_group.identifier
		FROM users
		JOIN user_account_cache ON (user_account_cache.id = users.id)
		JOIN user_group ON (user_group.id = users.user_group_id)
		WHERE users.id = $1`, []interface{}{id},
		&u.ID, &u.Username, &u.GroupID, &u.GroupIdentifier)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) UserIDsByUsernames(ctx context.Context, usernames []string) ([]int64, error) {
	if len(usernames) == 0 {
		return nil, nil
	}
	lowered := make([]string, len(usernames))
	for i, name := range usernames {
		lowered[i] = strings.ToLower(name)
	}
	return s.ids(ctx, "user_by_username", `
		SELECT id
		FROM user_account_cache
		WHERE LOWER(username) = ANY($1)`, pq.Array(lowered))
}

func (s *Store) GroupMembers(ctx context.Context, groups ...string) ([]int64, error) {
	if len(groups) == 0 {
		return nil, nil
	}
	return s.ids(ctx, "group_members", `
		SELECT users.id
		FROM users
		JOIN user_group ON (user_group.id = users.user_group_id)
		WHERE user_group.identifier = ANY($1)`, pq.Array(groups))
}

// HasPermission lets a user-level grant or denial override the user's groups.
func (s *Store) HasPermission(ctx context.Context, userID int64, permission string, groupIDs []int) (bool, error) {
	var granted bool
	err := s.one(ctx, "has_permission", `
		SELECT COALESCE(
			(
				SELECT user_permission.granted
				FROM user_permission
				JOIN permission ON (permission.id = user_permission.permission_id)
				WHERE user_permission.user_id = $1 AND permission.identifier = $2
				LIMIT 1
			),
			(
				SELECT bool_or(user_group_permission.granted)
				FROM user_group_permission
				JOIN permission ON (permission.id = user_group_permission.permission_id)
				WHERE user_group_permission.user_group_id = ANY($3) AND permission.identifier = $2
			),
			false
		)`, []interface{}{userID, permission, pq.Array(int64s(groupIDs))}, &granted)
	return granted, err
}
