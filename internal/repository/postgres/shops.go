package postgres

import (
	"context"

	"acc-notifications/internal/models"
)

func (s *Store) Shop(ctx context.Context, id int64) (*models.Shop, error) {
	var sh models.Shop
	err := s.one(ctx, "shop", `
		SELECT id, name
		FROM shop
		WHERE id = $1`, []interface{}{id}, &sh.ID, &sh.Name)
	if err != nil {
		return nil, err
	}
	return &sh, nil
}

func (s *Store) ShopEmployee(ctx context.Context, id int64) (*models.ShopEmployee, error) {
	var e models.ShopEmployee
	err := s.one(ctx, "shop_user", `
		SELECT id, shop_id, user_id
		FROM shop_user
		WHERE id = $1`, []interface{}{id}, &e.ID, &e.ShopID, &e.UserID)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Store) ShopOrder(ctx context.Context, id int64) (*models.ShopOrder, error) {
	var o models.ShopOrder
	err := s.one(ctx, "shop_order", `
		SELECT id, shop_id, customer_id
		FROM shop_order
		WHERE id = $1`, []interface{}{id}, &o.ID, &o.ShopID, &o.CustomerID)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *Store) ShopApplication(ctx context.Context, id int64) (*models.ShopApplication, error) {
	var a models.ShopApplication
	err := s.one(ctx, "shop_application", `
		SELECT id, shop_id, user_id, role_id
		FROM shop_application
		WHERE id = $1`, []interface{}{id}, &a.ID, &a.ShopID, &a.UserID, &a.RoleID)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) ShopOwners(ctx context.Context, shopID int64) ([]int64, error) {
	return s.ids(ctx, "shop_owners", `
		SELECT user_id
		FROM shop_owner
		WHERE shop_id = $1`, shopID)
}

func (s *Store) ShopOrderHandlers(ctx context.Context, shopID int64) ([]int64, error) {
	return s.ids(ctx, "shop_order_handlers", `
		SELECT DISTINCT shop_user.user_id
		FROM shop_user
		JOIN shop_user_role ON (shop_user_role.shop_user_id = shop_user.id)
		JOIN shop_role ON (shop_role.id = shop_user_role.shop_role_id)
		WHERE shop_user.shop_id = $1 AND shop_user.active = true AND shop_role.orders = true`, shopID)
}

// ShopRoleAncestors walks parent_id upwards, nearest first.
func (s *Store) ShopRoleAncestors(ctx context.Context, roleID int64) ([]int64, error) {
	return s.ids(ctx, "shop_role_ancestors", `
		WITH RECURSIVE ancestors AS (
			SELECT parent_id, 1 AS depth
			FROM shop_role
			WHERE id = $1
			UNION ALL
			SELECT shop_role.parent_id, ancestors.depth + 1
			FROM shop_role
			JOIN ancestors ON (shop_role.id = ancestors.parent_id)
		)
		SELECT parent_id
		FROM ancestors
		WHERE parent_id IS NOT NULL
		ORDER BY depth ASC`, roleID)
}

func (s *Store) ShopRoleHolders(ctx context.Context, roleID int64) ([]int64, error) {
	return s.ids(ctx, "shop_role_holders", `
		SELECT DISTINCT shop_user.user_id
		FROM shop_user_role
		JOIN shop_user ON (shop_user.id = shop_user_role.shop_user_id)
		WHERE shop_user_role.shop_role_id = $1 AND shop_user.active = true`, roleID)
}
