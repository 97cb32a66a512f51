package notification

import (
	"context"
	"fmt"

	apperrors "acc-notifications/internal/common/errors"
	"acc-notifications/internal/models"

	"golang.org/x/sync/errgroup"
)

func (e *Engine) shop(ctx context.Context, id int64) (*models.Shop, error) {
	shop, err := e.store.Shop(ctx, id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrCodeNoSuchShop, id)
	}
	return shop, nil
}

func (e *Engine) classifyShopThread(ctx context.Context, in classifyInput) (*Event, error) {
	var readers []int64
	_, thread, err := e.nodeWithParent(ctx, in.ReferenceID, func(ctx context.Context, post *models.Node) (err error) {
		readers, err = e.store.NodeReaders(ctx, post.ParentID)
		return err
	})
	if err != nil {
		return nil, err
	}

	ev := newEvent(in, thread.ID)
	ev.Description = fmt.Sprintf("%s has posted in '%s'", in.Actor.Username, thread.Title)
	ev.MergeDescription = fmt.Sprintf("There are multiple new posts in '%s'", thread.Title)
	ev.Recipients = NewRecipientSet(readers...)
	return ev, nil
}

func (e *Engine) classifyShopEmployee(ctx context.Context, in classifyInput) (*Event, error) {
	employee, err := e.store.ShopEmployee(ctx, in.ReferenceID)
	if err != nil {
		// Employee rows have no error of their own and surface as no-such-shop.
		return nil, notFound(err, apperrors.ErrCodeNoSuchShop, in.ReferenceID)
	}
	shop, err := e.shop(ctx, employee.ShopID)
	if err != nil {
		return nil, err
	}

	ev := newEvent(in, shop.ID)
	if in.Type == TypeShopEmployeeAdded {
		ev.Description = fmt.Sprintf("%s has added you to shop '%s'", in.Actor.Username, shop.Name)
	} else {
		ev.Description = fmt.Sprintf("%s has removed you from shop '%s'", in.Actor.Username, shop.Name)
	}
	ev.Recipients = NewRecipientSet(employee.UserID)
	return ev, nil
}

func (e *Engine) classifyShopOrder(ctx context.Context, in classifyInput) (*Event, error) {
	order, err := e.store.ShopOrder(ctx, in.ReferenceID)
	if err != nil {
		return nil, notFound(err, apperrors.ErrCodeNoSuchOrder, in.ReferenceID)
	}

	var (
		shop             *models.Shop
		owners, handlers []int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		shop, err = e.shop(gctx, order.ShopID)
		return err
	})
	g.Go(func() (err error) {
		owners, err = e.store.ShopOwners(gctx, order.ShopID)
		return err
	})
	g.Go(func() (err error) {
		handlers, err = e.store.ShopOrderHandlers(gctx, order.ShopID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ev := newEvent(in, order.ID)
	ev.Description = fmt.Sprintf("%s has placed an order with shop '%s'", in.Actor.Username, shop.Name)
	ev.Recipients = NewRecipientSet(append(owners, handlers...)...)
	return ev, nil
}

func (e *Engine) classifyShopApplication(ctx context.Context, in classifyInput) (*Event, error) {
	application, err := e.store.ShopApplication(ctx, in.ReferenceID)
	if err != nil {
		return nil, notFound(err, apperrors.ErrCodeNoSuchApplication, in.ReferenceID)
	}

	var (
		shop      *models.Shop
		owners    []int64
		ancestors []int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		shop, err = e.shop(gctx, application.ShopID)
		return err
	})
	g.Go(func() (err error) {
		owners, err = e.store.ShopOwners(gctx, application.ShopID)
		return err
	})
	g.Go(func() (err error) {
		ancestors, err = e.store.ShopRoleAncestors(gctx, application.RoleID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// The nearest ancestor role with anyone in it owns the applied-for role.
	var holders []int64
	for _, roleID := range ancestors {
		if holders, err = e.store.ShopRoleHolders(ctx, roleID); err != nil {
			return nil, err
		}
		if len(holders) > 0 {
			break
		}
	}

	ev := newEvent(in, application.ID)
	ev.Description = fmt.Sprintf("%s has applied to shop '%s'", in.Actor.Username, shop.Name)
	ev.Recipients = NewRecipientSet(append(owners, holders...)...)
	return ev, nil
}
