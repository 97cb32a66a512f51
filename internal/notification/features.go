package notification

import (
	"context"
	"fmt"

	apperrors "acc-notifications/internal/common/errors"
	"acc-notifications/internal/models"

	"golang.org/x/sync/errgroup"
)

var featureRoster = []string{
	models.GroupAdmin,
	models.GroupResearcherTL,
	models.GroupResearcher,
	models.GroupDevTL,
	models.GroupDeveloper,
}

func (e *Engine) feature(ctx context.Context, id int64) (*models.Feature, error) {
	feature, err := e.store.Feature(ctx, id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrCodeNoSuchFeature, id)
	}
	return feature, nil
}

func (e *Engine) classifyFeature(ctx context.Context, in classifyInput) (*Event, error) {
	feature, err := e.feature(ctx, in.ReferenceID)
	if err != nil {
		return nil, err
	}
	roster, err := e.groupMembers(ctx, featureRoster...)
	if err != nil {
		return nil, err
	}

	ev := newEvent(in, feature.ID)
	ev.Description = fmt.Sprintf("%s has submitted feature '%s'", in.Actor.Username, feature.Title)
	ev.Recipients = roster
	ev.Exclude = NewRecipientSet(feature.CreatedUserID)
	return ev, nil
}

func (e *Engine) classifyFeaturePost(ctx context.Context, in classifyInput) (*Event, error) {
	message, err := e.store.FeatureMessage(ctx, in.ReferenceID)
	if err != nil {
		return nil, notFound(err, apperrors.ErrCodeNoSuchFeature, in.ReferenceID)
	}

	var (
		feature   *models.Feature
		followers []int64
		roster    RecipientSet
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		feature, err = e.feature(gctx, message.FeatureID)
		return err
	})
	g.Go(func() (err error) {
		followers, err = e.store.FeatureFollowers(gctx, message.FeatureID)
		return err
	})
	if message.StaffOnly {
		g.Go(func() (err error) {
			roster, err = e.groupMembers(gctx, featureRoster...)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ev := newEvent(in, feature.ID)
	ev.Description = fmt.Sprintf("%s has posted on feature '%s'", in.Actor.Username, feature.Title)
	ev.MergeDescription = fmt.Sprintf("There are multiple new posts on feature '%s'", feature.Title)
	ev.Recipients = NewRecipientSet(followers...)
	if message.StaffOnly {
		ev.Recipients = roster.Intersect(ev.Recipients)
	}
	ev.Exclude = NewRecipientSet(feature.CreatedUserID)
	return ev, nil
}
