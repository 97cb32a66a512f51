package postgres

import (
	"context"

	apperrors "acc-notifications/internal/common/errors"
	"acc-notifications/internal/models"
)

// Listing returns the listing with its full offer list.
func (s *Store) Listing(ctx context.Context, id int64) (*models.Listing, error) {
	var l models.Listing
	err := s.one(ctx, "listing", `
		SELECT id, creator_id, status
		FROM listing
		WHERE id = $1`, []interface{}{id}, &l.ID, &l.CreatorID, &l.Status)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, listing_id, user_id, status
		FROM listing_offer
		WHERE listing_id = $1
		ORDER BY id ASC`, id)
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("listing_offers", err)
	}
	defer rows.Close()

	for rows.Next() {
		var o models.ListingOffer
		if err := rows.Scan(&o.ID, &o.ListingID, &o.UserID, &o.Status); err != nil {
			return nil, apperrors.NewQueryExecutionFailedError("listing_offers", err)
		}
		l.Offers = append(l.Offers, o)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("listing_offers", err)
	}
	return &l, nil
}

func (s *Store) ListingOffer(ctx context.Context, id int64) (*models.ListingOffer, error) {
	var o models.ListingOffer
	err := s.one(ctx, "listing_offer", `
		SELECT id, listing_id, user_id, status
		FROM listing_offer
		WHERE id = $1`, []interface{}{id}, &o.ID, &o.ListingID, &o.UserID, &o.Status)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *Store) ListingComment(ctx context.Context, id int64) (*models.ListingComment, error) {
	var c models.ListingComment
	err := s.one(ctx, "listing_comment", `
		SELECT id, listing_id, user_id
		FROM listing_comment
		WHERE id = $1`, []interface{}{id}, &c.ID, &c.ListingID, &c.UserID)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) Adoption(ctx context.Context, threadID int64) (*models.Adoption, error) {
	var a models.Adoption
	err := s.one(ctx, "adoption", `
		SELECT node_id, scout_id, adoptee_id
		FROM adoption
		WHERE node_id = $1`, []interface{}{threadID}, &a.ThreadID, &a.ScoutID, &a.AdopteeID)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) ScoutFeedback(ctx context.Context, id int64) (*models.ScoutFeedback, error) {
	var f models.ScoutFeedback
	err := s.one(ctx, "scout_feedback", `
		SELECT id, scout_id, user_id
		FROM scout_feedback
		WHERE id = $1`, []interface{}{id}, &f.ID, &f.ScoutID, &f.AdopteeID)
	if err != nil {
		return nil, err
	}
	return &f, nil
}
