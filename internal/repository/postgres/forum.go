package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	apperrors "acc-notifications/internal/common/errors"
	"acc-notifications/internal/models"

	"github.com/lib/pq"
)

// Node returns the node with its latest revision's title and content.
func (s *Store) Node(ctx context.Context, id int64) (*models.Node, error) {
	var n models.Node
	err := s.one(ctx, "node", `
		SELECT
			node.id,
			COALESCE(node.parent_node_id, 0),
			node.type,
			COALESCE(node.user_id, 0),
			COALESCE(latest.title, ''),
			COALESCE(latest.content_text, ''),
			node.creation_time
		FROM node
		LEFT JOIN LATERAL (
			SELECT node_revision.title, node_revision.content_text
			FROM node_revision
			WHERE node_revision.node_id = node.id
			ORDER BY node_revision.time DESC
			LIMIT 1
		) latest ON true
		WHERE node.id = $1`, []interface{}{id},
		&n.ID, &n.ParentID, &n.Type, &n.UserID, &n.Title, &n.Content, &n.Created)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (s *Store) NodeReaders(ctx context.Context, nodeID int64) ([]int64, error) {
	return s.ids(ctx, "node_readers", `
		SELECT DISTINCT user_node_permission.user_id
		FROM user_node_permission
		JOIN node_permission ON (node_permission.id = user_node_permission.node_permission_id)
		WHERE user_node_permission.node_id = $1
			AND node_permission.identifier = 'read'
			AND user_node_permission.granted = true`, nodeID)
}

func (s *Store) NodeFollowers(ctx context.Context, nodeIDs ...int64) ([]int64, error) {
	if len(nodeIDs) == 0 {
		return nil, nil
	}
	return s.ids(ctx, "node_followers", `
		SELECT DISTINCT user_id
		FROM followed_node
		WHERE node_id = ANY($1)`, pq.Array(nodeIDs))
}

func (s *Store) NodeChildren(ctx context.Context, nodeID int64) ([]models.NodeChild, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, creation_time
		FROM node
		WHERE parent_node_id = $1
		ORDER BY creation_time ASC, id ASC`, nodeID)
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("node_children", err)
	}
	defer rows.Close()

	var out []models.NodeChild
	for rows.Next() {
		var c models.NodeChild
		if err := rows.Scan(&c.ID, &c.Created); err != nil {
			return nil, apperrors.NewQueryExecutionFailedError("node_children", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("node_children", err)
	}
	return out, nil
}

func (s *Store) LastChecked(ctx context.Context, userID, nodeID int64) (*time.Time, error) {
	var checked sql.NullTime
	err := s.db.QueryRowContext(ctx, `
		SELECT last_checked
		FROM node_user
		WHERE user_id = $1 AND node_id = $2`, userID, nodeID).Scan(&checked)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("last_checked", err)
	}
	if !checked.Valid {
		return nil, nil
	}
	return &checked.Time, nil
}
