package notification

import (
	"context"
	"errors"

	apperrors "acc-notifications/internal/common/errors"
	"acc-notifications/internal/models"
	"acc-notifications/internal/repository"

	"golang.org/x/sync/errgroup"
)

type classifyInput struct {
	Type        Type
	ReferenceID int64
	Actor       *models.User
}

// classifier loads the context for one event kind. A nil event with a nil error means the
// invocation is a deliberate no-op.
type classifier func(e *Engine, ctx context.Context, in classifyInput) (*Event, error)

func classifiers() map[Type]classifier {
	return map[Type]classifier{
		TypePrivateThread:  (*Engine).classifyPrivateThread,
		TypeFollowedThread: (*Engine).classifyFollowedThread,
		TypeFollowedBoard:  (*Engine).classifyFollowedBoard,
		TypeUsernameTag:    (*Engine).classifyUsernameTag,
		TypeAnnouncement:   (*Engine).classifyAnnouncement,

		TypeListingCancelled:      (*Engine).classifyListing,
		TypeListingContact:        (*Engine).classifyListing,
		TypeListingCompleted:      (*Engine).classifyListing,
		TypeListingFailed:         (*Engine).classifyListing,
		TypeListingFeedback:       (*Engine).classifyListing,
		TypeListingOffer:          (*Engine).classifyListingOffer,
		TypeListingOfferAccepted:  (*Engine).classifyListingOffer,
		TypeListingOfferRejected:  (*Engine).classifyListingOffer,
		TypeListingOfferCancelled: (*Engine).classifyListingOffer,
		TypeListingComment:        (*Engine).classifyListingComment,

		TypeScoutAdoption: (*Engine).classifyScoutAdoption,
		TypeScoutThread:   (*Engine).classifyScoutThread,
		TypeScoutFeedback: (*Engine).classifyScoutFeedback,
		TypeScoutBT:       (*Engine).classifyScoutBT,

		TypeModminUT:           (*Engine).classifyUserTicket,
		TypeModminUTMany:       (*Engine).classifyUserTicket,
		TypeModminUTDiscussion: (*Engine).classifyUserTicket,
		TypeTicketProcessed:    (*Engine).classifyUserTicket,
		TypeModminUTPost:       (*Engine).classifyUserTicketPost,

		TypeSupportTicket: (*Engine).classifySupportTicket,

		TypeFeature:     (*Engine).classifyFeature,
		TypeFeaturePost: (*Engine).classifyFeaturePost,

		TypeGiftBellShop: (*Engine).classifyGift,
		TypeGiftDonation: (*Engine).classifyGift,

		TypeShopThread:          (*Engine).classifyShopThread,
		TypeShopEmployeeAdded:   (*Engine).classifyShopEmployee,
		TypeShopEmployeeRemoved: (*Engine).classifyShopEmployee,
		TypeShopOrder:           (*Engine).classifyShopOrder,
		TypeShopApplication:     (*Engine).classifyShopApplication,
	}
}

func newEvent(in classifyInput, referenceID int64) *Event {
	return &Event{
		Type:        in.Type,
		ReferenceID: referenceID,
		ActorID:     in.Actor.ID,
	}
}

// notFound maps repository.ErrNotFound to the user error for the entity; other errors pass through.
func notFound(err error, code apperrors.ErrorCode, id int64) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFoundError(code, id)
	}
	return err
}

// nodeWithParent loads a node, then fetches its parent concurrently with any extra
// lookups that only need the child.
func (e *Engine) nodeWithParent(ctx context.Context, id int64, extra func(ctx context.Context, node *models.Node) error) (*models.Node, *models.Node, error) {
	node, err := e.store.Node(ctx, id)
	if err != nil {
		return nil, nil, notFound(err, apperrors.ErrCodeNoSuchNode, id)
	}
	if node.ParentID == 0 {
		return nil, nil, apperrors.NewNotFoundError(apperrors.ErrCodeNoSuchNode, id)
	}

	var parent *models.Node
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := e.store.Node(gctx, node.ParentID)
		if err != nil {
			return notFound(err, apperrors.ErrCodeNoSuchNode, node.ParentID)
		}
		parent = p
		return nil
	})
	if extra != nil {
		g.Go(func() error { return extra(gctx, node) })
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return node, parent, nil
}

func (e *Engine) groupMembers(ctx context.Context, groups ...string) (RecipientSet, error) {
	ids, err := e.store.GroupMembers(ctx, groups...)
	if err != nil {
		return RecipientSet{}, err
	}
	return NewRecipientSet(ids...), nil
}
