package postgres

import (
	"context"

	"acc-notifications/internal/models"
)

func (s *Store) UserTicket(ctx context.Context, id int64) (*models.UserTicket, error) {
	var t models.UserTicket
	err := s.one(ctx, "user_ticket", `
		SELECT id, COALESCE(reference_id, 0), COALESCE(reference_type_id, 0), violator_id, COALESCE(assignee_id, 0)
		FROM user_ticket
		WHERE id = $1`, []interface{}{id},
		&t.ID, &t.ReferenceID, &t.ReferenceTypeID, &t.ViolatorID, &t.AssigneeID)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Store) UserTicketMessage(ctx context.Context, id int64) (*models.UserTicketMessage, error) {
	var m models.UserTicketMessage
	err := s.one(ctx, "user_ticket_message", `
		SELECT id, user_ticket_id, user_id, staff_only
		FROM user_ticket_message
		WHERE id = $1`, []interface{}{id}, &m.ID, &m.TicketID, &m.UserID, &m.StaffOnly)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// CountTicketSubmitters counts distinct reporters of the ticket's content.
func (s *Store) CountTicketSubmitters(ctx context.Context, ticket *models.UserTicket) (int, error) {
	var n int
	err := s.one(ctx, "ticket_submitters", `
		SELECT count(DISTINCT submitter_id)
		FROM user_ticket
		WHERE reference_id = $1 AND reference_type_id = $2`,
		[]interface{}{ticket.ReferenceID, ticket.ReferenceTypeID}, &n)
	return n, err
}

func (s *Store) SupportTicket(ctx context.Context, id int64) (*models.SupportTicket, error) {
	var t models.SupportTicket
	err := s.one(ctx, "support_ticket", `
		SELECT id, user_id, title
		FROM support_ticket
		WHERE id = $1`, []interface{}{id}, &t.ID, &t.UserID, &t.Title)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Store) SupportTicketMessage(ctx context.Context, id int64) (*models.SupportTicketMessage, error) {
	var m models.SupportTicketMessage
	err := s.one(ctx, "support_ticket_message", `
		SELECT id, support_ticket_id, user_id, staff_only
		FROM support_ticket_message
		WHERE id = $1`, []interface{}{id}, &m.ID, &m.SupportTicketID, &m.UserID, &m.StaffOnly)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
