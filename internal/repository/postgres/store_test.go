package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	apperrors "acc-notifications/internal/common/errors"
	"acc-notifications/internal/common/logger"
	"acc-notifications/internal/models"
	"acc-notifications/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db, logger.NewNoOpLogger()), mock
}

func TestStore_NotificationTypeID(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM notification_type")).
		WithArgs("followed_thread").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectQuery(regexp.QuoteMeta("FROM notification_type")).
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	id, err := s.NotificationTypeID(context.Background(), "followed_thread")
	require.NoError(t, err)
	assert.Equal(t, 7, id)

	_, err = s.NotificationTypeID(context.Background(), "nope")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Node(t *testing.T) {
	s, mock := newMockStore(t)
	created := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM node_revision")).
		WithArgs(int64(101)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "parent_node_id", "type", "user_id", "title", "content_text", "creation_time"}).
			AddRow(101, 100, "post", 3, "", "hi @Alice", created))

	n, err := s.Node(context.Background(), 101)
	require.NoError(t, err)
	assert.Equal(t, &models.Node{ID: 101, ParentID: 100, Type: "post", UserID: 3, Content: "hi @Alice", Created: created}, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_QueryFailuresAreRetryable(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM followed_node")).
		WillReturnError(errors.New("connection reset by peer"))

	_, err := s.NodeFollowers(context.Background(), 100, 1)

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeQueryExecutionFailed, apperrors.CodeOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_LastChecked(t *testing.T) {
	s, mock := newMockStore(t)
	checked := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM node_user")).
		WithArgs(int64(2), int64(100)).
		WillReturnRows(sqlmock.NewRows([]string{"last_checked"}).AddRow(checked))
	mock.ExpectQuery(regexp.QuoteMeta("FROM node_user")).
		WithArgs(int64(5), int64(100)).
		WillReturnError(sql.ErrNoRows)

	got, err := s.LastChecked(context.Background(), 2, 100)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, checked.Equal(*got))

	got, err = s.LastChecked(context.Background(), 5, 100)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Listing(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM listing WHERE id")).
		WithArgs(int64(500)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "creator_id", "status"}).AddRow(500, 10, "open"))
	mock.ExpectQuery(regexp.QuoteMeta("FROM listing_offer")).
		WithArgs(int64(500)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "listing_id", "user_id", "status"}).
			AddRow(1, 500, 11, models.OfferStatusAccepted).
			AddRow(2, 500, 12, models.OfferStatusPending))

	l, err := s.Listing(context.Background(), 500)
	require.NoError(t, err)
	assert.Equal(t, int64(10), l.CreatorID)
	assert.Equal(t, int64(11), l.AcceptedOfferUserID())
	assert.Equal(t, []int64{12}, l.OpenOfferUserIDs())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_InTxMergesAndUpserts(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("AND notified IS NULL")).
		WithArgs(sqlmock.AnyArg(), int64(100), 7).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(2))
	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (user_id, reference_id, reference_type_id) DO UPDATE")).
		WithArgs(sqlmock.AnyArg(), int64(100), 7, "There are multiple new posts on thread 'Tips'", sql.NullInt64{}).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := s.InTx(context.Background(), func(tx repository.NotificationTx) error {
		unread, err := tx.UnreadUserIDs(context.Background(), []int64{2, 4}, 100, 7)
		if err != nil {
			return err
		}
		assert.Equal(t, []int64{2}, unread)
		_, err = tx.UpsertNotifications(context.Background(), repository.Upsert{
			UserIDs:         unread,
			ReferenceID:     100,
			ReferenceTypeID: 7,
			Description:     "There are multiple new posts on thread 'Tips'",
		})
		return err
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_InTxRollsBackFailedUpsert(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO notification")).
		WillReturnError(errors.New("deadlock detected"))
	mock.ExpectRollback()

	err := s.InTx(context.Background(), func(tx repository.NotificationTx) error {
		_, err := tx.UpsertNotifications(context.Background(), repository.Upsert{
			UserIDs:          []int64{2},
			ReferenceID:      50,
			ReferenceTypeID:  3,
			Description:      "Carol has posted a new thread",
			ChildReferenceID: 60,
		})
		return err
	})

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeDatabaseInsertFailed, apperrors.CodeOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_EmailRecipientsAfter(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("users.id > $1 AND users.email_notifications = true")).
		WithArgs(int64(0), 2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email"}).
			AddRow(2, "Alice", "alice@example.com").
			AddRow(4, "Dave", "dave@example.com"))

	got, err := s.EmailRecipientsAfter(context.Background(), 0, 2)
	require.NoError(t, err)
	assert.Equal(t, []models.EmailRecipient{
		{UserID: 2, Username: "Alice", Email: "alice@example.com"},
		{UserID: 4, Username: "Dave", Email: "dave@example.com"},
	}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_HasPermission(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM user_group_permission")).
		WithArgs(int64(30), "process-user-tickets", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(true))

	ok, err := s.HasPermission(context.Background(), 30, "process-user-tickets", []int{4})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_ShopRoleAncestors(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("WITH RECURSIVE ancestors")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"parent_id"}).AddRow(4).AddRow(1))

	got, err := s.ShopRoleAncestors(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 1}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_EmptyInputsSkipQueries(t *testing.T) {
	s, mock := newMockStore(t)

	ids, err := s.UserIDsByUsernames(context.Background(), nil)
	assert.NoError(t, err)
	assert.Empty(t, ids)

	recipients, err := s.EmailRecipients(context.Background(), nil)
	assert.NoError(t, err)
	assert.Empty(t, recipients)
	assert.NoError(t, mock.ExpectationsWereMet())
}
