package notification

import (
	"context"
	"fmt"

	apperrors "acc-notifications/internal/common/errors"
	"acc-notifications/internal/models"

	"golang.org/x/sync/errgroup"
)

// manyReportsThreshold is the number of distinct reporters above which a new ticket goes to
// admins as well as mods.
const manyReportsThreshold = 10

var modminGroups = []string{models.GroupMod, models.GroupAdmin}

func (e *Engine) userTicket(ctx context.Context, id int64) (*models.UserTicket, error) {
	ticket, err := e.store.UserTicket(ctx, id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrCodeNoSuchUserTicket, id)
	}
	return ticket, nil
}

func (e *Engine) classifyUserTicket(ctx context.Context, in classifyInput) (*Event, error) {
	ticket, err := e.userTicket(ctx, in.ReferenceID)
	if err != nil {
		return nil, err
	}

	ev := newEvent(in, ticket.ID)
	switch in.Type {
	case TypeModminUT:
		var mods RecipientSet
		var reporters int
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			mods, err = e.groupMembers(gctx, models.GroupMod)
			return err
		})
		g.Go(func() (err error) {
			reporters, err = e.store.CountTicketSubmitters(gctx, ticket)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}

		ev.Description = fmt.Sprintf("%s has submitted user ticket #%d", in.Actor.Username, ticket.ID)
		ev.Recipients = mods
		if reporters > manyReportsThreshold {
			ev.Escalation = WidenToGroups(modminGroups...)
		}

	case TypeModminUTMany:
		ev.Description = fmt.Sprintf("%s has reported user ticket #%d, which now has many reports", in.Actor.Username, ticket.ID)
		ev.Escalation = WidenToGroups(modminGroups...)

	case TypeModminUTDiscussion:
		ev.Description = fmt.Sprintf("%s has moved user ticket #%d to discussion", in.Actor.Username, ticket.ID)
		ev.Escalation = WidenToGroups(modminGroups...)
		ev.Exclude = NewRecipientSet(ticket.AssigneeID)

	case TypeTicketProcessed:
		ev.Description = fmt.Sprintf("Ticket #%d has been processed", ticket.ID)
		ev.Recipients = NewRecipientSet(ticket.ViolatorID)
	}
	return ev, nil
}

func (e *Engine) classifyUserTicketPost(ctx context.Context, in classifyInput) (*Event, error) {
	message, err := e.store.UserTicketMessage(ctx, in.ReferenceID)
	if err != nil {
		return nil, notFound(err, apperrors.ErrCodeNoSuchUserTicket, in.ReferenceID)
	}
	ticket, err := e.userTicket(ctx, message.TicketID)
	if err != nil {
		return nil, err
	}

	staffSide := NewRecipientSet(ticket.AssigneeID)
	if ticket.AssigneeID == 0 {
		if staffSide, err = e.groupMembers(ctx, models.GroupMod); err != nil {
			return nil, err
		}
	}

	ev := newEvent(in, ticket.ID)
	ev.Description = fmt.Sprintf("%s has posted on user ticket #%d", in.Actor.Username, ticket.ID)
	ev.MergeDescription = fmt.Sprintf("There are multiple new posts on user ticket #%d", ticket.ID)

	switch {
	case in.Actor.ID == ticket.ViolatorID, message.StaffOnly:
		ev.Recipients = staffSide
	default:
		ev.Recipients = NewRecipientSet(ticket.ViolatorID, ticket.AssigneeID)
	}
	return ev, nil
}
