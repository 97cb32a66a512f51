// internal/models/notification.go
package models

import "time"

// NotificationType is a catalog row. Identifiers are fixed strings such as "followed_thread".
type NotificationType struct {
	ID          int    `json:"id"`
	Identifier  string `json:"identifier"`
	Description string `json:"description"`
}

// Notification is one per-user row, unique on (UserID, ReferenceID, ReferenceTypeID).
type Notification struct {
	ID               int64      `json:"id"`
	UserID           int64      `json:"userId"`
	ReferenceID      int64      `json:"referenceId"`
	ReferenceTypeID  int        `json:"referenceTypeId"`
	Type             string     `json:"type"`
	Description      string     `json:"description"`
	ChildReferenceID int64      `json:"childReferenceId,omitempty"`
	Created          time.Time  `json:"created"`
	Notified         *time.Time `json:"notified,omitempty"`
}

// GlobalNotification is an announcement row shared by every user.
type GlobalNotification struct {
	ID              int64     `json:"id"`
	ReferenceID     int64     `json:"referenceId"`
	ReferenceTypeID int       `json:"referenceTypeId"`
	Type            string    `json:"type"`
	Description     string    `json:"description"`
	Created         time.Time `json:"created"`
}

// EmailRecipient is a user who has opted into email notifications.
type EmailRecipient struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
}
