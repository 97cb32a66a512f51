package notification

import (
	"context"
	"fmt"

	apperrors "acc-notifications/internal/common/errors"
)

// classifySupportTicket notifies staff of user messages and the submitter of staff replies.
func (e *Engine) classifySupportTicket(ctx context.Context, in classifyInput) (*Event, error) {
	message, err := e.store.SupportTicketMessage(ctx, in.ReferenceID)
	if err != nil {
		return nil, notFound(err, apperrors.ErrCodeNoSuchSupportTicket, in.ReferenceID)
	}
	ticket, err := e.store.SupportTicket(ctx, message.SupportTicketID)
	if err != nil {
		return nil, notFound(err, apperrors.ErrCodeNoSuchSupportTicket, message.SupportTicketID)
	}

	ev := newEvent(in, ticket.ID)
	ev.Description = fmt.Sprintf("%s has posted on support ticket '%s'", in.Actor.Username, ticket.Title)
	ev.MergeDescription = fmt.Sprintf("There are multiple new posts on support ticket '%s'", ticket.Title)

	if in.Actor.IsStaff() && !message.StaffOnly {
		ev.Recipients = NewRecipientSet(ticket.UserID)
		return ev, nil
	}

	staff, err := e.groupMembers(ctx, modminGroups...)
	if err != nil {
		return nil, err
	}
	ev.Recipients = staff
	return ev, nil
}
