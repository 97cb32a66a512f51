package notification

import (
	"context"
	"fmt"

	apperrors "acc-notifications/internal/common/errors"
	"acc-notifications/internal/models"

	"golang.org/x/sync/errgroup"
)

func (e *Engine) adoption(ctx context.Context, threadID int64) (*models.Adoption, error) {
	adoption, err := e.store.Adoption(ctx, threadID)
	if err != nil {
		return nil, notFound(err, apperrors.ErrCodeNoSuchAdoption, threadID)
	}
	return adoption, nil
}

func (e *Engine) classifyScoutAdoption(ctx context.Context, in classifyInput) (*Event, error) {
	var (
		adoption *models.Adoption
		thread   *models.Node
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		adoption, err = e.adoption(gctx, in.ReferenceID)
		return err
	})
	g.Go(func() error {
		n, err := e.store.Node(gctx, in.ReferenceID)
		if err != nil {
			return notFound(err, apperrors.ErrCodeNoSuchNode, in.ReferenceID)
		}
		thread = n
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ev := newEvent(in, thread.ID)
	ev.Description = fmt.Sprintf("%s has opened adoption thread '%s'", in.Actor.Username, thread.Title)
	ev.Recipients = NewRecipientSet(adoption.ScoutID, adoption.AdopteeID)
	return ev, nil
}

func (e *Engine) classifyScoutThread(ctx context.Context, in classifyInput) (*Event, error) {
	var adoption *models.Adoption
	_, thread, err := e.nodeWithParent(ctx, in.ReferenceID, func(ctx context.Context, post *models.Node) (err error) {
		adoption, err = e.adoption(ctx, post.ParentID)
		return err
	})
	if err != nil {
		return nil, err
	}

	ev := newEvent(in, thread.ID)
	ev.Description = fmt.Sprintf("%s has posted in adoption thread '%s'", in.Actor.Username, thread.Title)
	ev.MergeDescription = fmt.Sprintf("There are multiple new posts in adoption thread '%s'", thread.Title)
	ev.Recipients = NewRecipientSet(adoption.ScoutID, adoption.AdopteeID)
	return ev, nil
}

func (e *Engine) classifyScoutFeedback(ctx context.Context, in classifyInput) (*Event, error) {
	feedback, err := e.store.ScoutFeedback(ctx, in.ReferenceID)
	if err != nil {
		// Feedback belongs to an adoption; the site reports it under that entity.
		return nil, notFound(err, apperrors.ErrCodeNoSuchAdoption, in.ReferenceID)
	}

	ev := newEvent(in, feedback.ID)
	ev.Description = fmt.Sprintf("%s has left you scout feedback", in.Actor.Username)
	ev.Recipients = NewRecipientSet(feedback.ScoutID)
	return ev, nil
}

// classifyScoutBT handles posts in the adoptee "big thread", which lives on the adoptee board.
func (e *Engine) classifyScoutBT(ctx context.Context, in classifyInput) (*Event, error) {
	_, thread, err := e.nodeWithParent(ctx, in.ReferenceID, nil)
	if err != nil {
		return nil, err
	}

	var readers []int64
	var scouts RecipientSet
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		readers, err = e.store.NodeReaders(gctx, thread.ParentID)
		return err
	})
	g.Go(func() (err error) {
		scouts, err = e.groupMembers(gctx, models.GroupScout)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ev := newEvent(in, thread.ID)
	ev.Description = fmt.Sprintf("%s has posted in '%s'", in.Actor.Username, thread.Title)
	ev.MergeDescription = fmt.Sprintf("There are multiple new posts in '%s'", thread.Title)
	ev.Recipients = NewRecipientSet(readers...).Union(scouts)
	return ev, nil
}
