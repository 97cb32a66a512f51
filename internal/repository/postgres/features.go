package postgres

import (
	"context"

	"acc-notifications/internal/models"
)

func (s *Store) Feature(ctx context.Context, id int64) (*models.Feature, error) {
	var f models.Feature
	err := s.one(ctx, "feature", `
		SELECT id, title, created_user_id
		FROM feature
		WHERE id = $1`, []interface{}{id}, &f.ID, &f.Title, &f.CreatedUserID)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (s *Store) FeatureMessage(ctx context.Context, id int64) (*models.FeatureMessage, error) {
	var m models.FeatureMessage
	err := s.one(ctx, "feature_message", `
		SELECT id, feature_id, user_id, staff_only
		FROM feature_message
		WHERE id = $1`, []interface{}{id}, &m.ID, &m.FeatureID, &m.UserID, &m.StaffOnly)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Store) FeatureFollowers(ctx context.Context, featureID int64) ([]int64, error) {
	return s.ids(ctx, "feature_followers", `
		SELECT user_id
		FROM followed_feature
		WHERE feature_id = $1`, featureID)
}

func (s *Store) BellShopGift(ctx context.Context, id int64) (*models.Gift, error) {
	var g models.Gift
	err := s.one(ctx, "bell_shop_gift", `
		SELECT user_bell_shop_redeemed.id, user_bell_shop_redeemed.redeemed_by, user_bell_shop_redeemed.user_id, bell_shop_item.name
		FROM user_bell_shop_redeemed
		JOIN bell_shop_item ON (bell_shop_item.id = user_bell_shop_redeemed.item_id)
		WHERE user_bell_shop_redeemed.id = $1`, []interface{}{id},
		&g.ID, &g.GifterID, &g.RecipientID, &g.ItemName)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *Store) Donation(ctx context.Context, id int64) (*models.Gift, error) {
	var g models.Gift
	err := s.one(ctx, "donation", `
		SELECT id, donated_by_user_id, user_id
		FROM user_donation
		WHERE id = $1`, []interface{}{id}, &g.ID, &g.GifterID, &g.RecipientID)
	if err != nil {
		return nil, err
	}
	return &g, nil
}
