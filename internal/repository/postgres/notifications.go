package postgres

import (
	"context"
	"database/sql"

	"acc-notifications/internal/common/database"
	apperrors "acc-notifications/internal/common/errors"
	"acc-notifications/internal/models"
	"acc-notifications/internal/repository"

	"github.com/lib/pq"
)

// InTx runs fn in one transaction; any error rolls back the chunk.
func (s *Store) InTx(ctx context.Context, fn func(tx repository.NotificationTx) error) error {
	return database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		return fn(&notificationTx{tx: tx})
	})
}

type notificationTx struct {
	tx *sql.Tx
}

func (t *notificationTx) UnreadUserIDs(ctx context.Context, userIDs []int64, referenceID int64, referenceTypeID int) ([]int64, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	return queryIDs(ctx, t.tx, "unread_notifications", `
		SELECT user_id
		FROM notification
		WHERE user_id = ANY($1)
			AND reference_id = $2
			AND reference_type_id = $3
			AND notified IS NULL`, pq.Array(userIDs), referenceID, referenceTypeID)
}

// UpsertNotifications writes one row per user. Conflicting rows are marked unread and get
// the new text; userIDs must not repeat.
func (t *notificationTx) UpsertNotifications(ctx context.Context, u repository.Upsert) (int64, error) {
	if len(u.UserIDs) == 0 {
		return 0, nil
	}
	child := sql.NullInt64{Int64: u.ChildReferenceID, Valid: u.ChildReferenceID != 0}

	res, err := t.tx.ExecContext(ctx, `
		INSERT INTO notification (user_id, reference_id, reference_type_id, description, child_reference_id)
		SELECT user_id, $2, $3, $4, $5
		FROM unnest($1::int[]) AS user_id
		ON CONFLICT (user_id, reference_id, reference_type_id) DO UPDATE
		SET notified = NULL,
			description = EXCLUDED.description,
			child_reference_id = EXCLUDED.child_reference_id,
			created = now()`,
		pq.Array(u.UserIDs), u.ReferenceID, u.ReferenceTypeID, u.Description, child)
	if err != nil {
		return 0, apperrors.NewDatabaseInsertFailedError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return int64(len(u.UserIDs)), nil
	}
	return n, nil
}

func (s *Store) InsertGlobalNotification(ctx context.Context, g models.GlobalNotification) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO global_notification (reference_id, reference_type_id, description)
		VALUES ($1, $2, $3)
		RETURNING id`, g.ReferenceID, g.ReferenceTypeID, g.Description).Scan(&id)
	if err != nil {
		return 0, apperrors.NewDatabaseInsertFailedError(err)
	}
	return id, nil
}

func (s *Store) Notification(ctx context.Context, id int64) (*models.Notification, error) {
	var (
		n        models.Notification
		child    sql.NullInt64
		notified sql.NullTime
	)
	err := s.one(ctx, "notification", `
		SELECT
			notification.id,
			notification.user_id,
			notification.reference_id,
			notification.reference_type_id,
			notification_type.identifier,
			notification.description,
			notification.child_reference_id,
			notification.created,
			notification.notified
		FROM notification
		JOIN notification_type ON (notification_type.id = notification.reference_type_id)
		WHERE notification.id = $1`, []interface{}{id},
		&n.ID, &n.UserID, &n.ReferenceID, &n.ReferenceTypeID, &n.Type, &n.Description, &child, &n.Created, &notified)
	if err != nil {
		return nil, err
	}
	n.ChildReferenceID = child.Int64
	if notified.Valid {
		n.Notified = &notified.Time
	}
	return &n, nil
}

func (s *Store) EmailRecipients(ctx context.Context, userIDs []int64) ([]models.EmailRecipient, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	return s.emailRecipients(ctx, `
		SELECT users.id, user_account_cache.username, user_account_cache.email
		FROM users
		JOIN user_account_cache ON (user_account_cache.id = users.id)
		WHERE users.id = ANY($1) AND users.email_notifications = true
		ORDER BY users.id ASC`, pq.Array(userIDs))
}

func (s *Store) EmailRecipientsAfter(ctx context.Context, afterUserID int64, limit int) ([]models.EmailRecipient, error) {
	return s.emailRecipients(ctx, `
		SELECT users.id, user_account_cache.username, user_account_cache.email
		FROM users
		JOIN user_account_cache ON (user_account_cache.id = users.id)
		WHERE users.id > $1 AND users.email_notifications = true
		ORDER BY users.id ASC
		LIMIT $2`, afterUserID, limit)
}

func (s *Store) emailRecipients(ctx context.Context, query string, args ...interface{}) ([]models.EmailRecipient, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("email_recipients", err)
	}
	defer rows.Close()

	var out []models.EmailRecipient
	for rows.Next() {
		var r models.EmailRecipient
		if err := rows.Scan(&r.UserID, &r.Username, &r.Email); err != nil {
			return nil, apperrors.NewQueryExecutionFailedError("email_recipients", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("email_recipients", err)
	}
	return out, nil
}
