// Package repository holds the types shared by storage implementations.
package repository

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a single-row lookup matches nothing.
var ErrNotFound = errors.New("record not found")

// Upsert describes one bulk write of notification rows sharing a reference and text.
type Upsert struct {
	UserIDs          []int64
	ReferenceID      int64
	ReferenceTypeID  int
	Description      string
	ChildReferenceID int64
}

// NotificationTx is the write surface available inside a persistence transaction.
type NotificationTx interface {
	// UnreadUserIDs returns the subset of userIDs that already hold an unacknowledged
	// row for the reference.
	UnreadUserIDs(ctx context.Context, userIDs []int64, referenceID int64, referenceTypeID int) ([]int64, error)
	// UpsertNotifications inserts one row per user, or on conflict marks the existing
	// row unread and replaces its text and child reference.
	UpsertNotifications(ctx context.Context, u Upsert) (int64, error)
}
