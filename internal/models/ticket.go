package models

// UserTicket is a moderation ticket raised against a piece of content.
type UserTicket struct {
	ID              int64 `json:"id"`
	ReferenceID     int64 `json:"referenceId"`
	ReferenceTypeID int   `json:"referenceTypeId"`
	ViolatorID      int64 `json:"violatorId"`
	AssigneeID      int64 `json:"assigneeId,omitempty"`
}

type UserTicketMessage struct {
	ID        int64 `json:"id"`
	TicketID  int64 `json:"ticketId"`
	UserID    int64 `json:"userId"`
	StaffOnly bool  `json:"staffOnly"`
}

type SupportTicket struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"userId"`
	Title  string `json:"title"`
}

type SupportTicketMessage struct {
	ID              int64 `json:"id"`
	SupportTicketID int64 `json:"supportTicketId"`
	UserID          int64 `json:"userId"`
	StaffOnly       bool  `json:"staffOnly"`
}
