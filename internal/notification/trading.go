package notification

import (
	"context"
	"fmt"

	apperrors "acc-notifications/internal/common/errors"
	"acc-notifications/internal/models"
)

var listingDescriptions = map[Type]string{
	TypeListingCancelled:      "%s has cancelled listing #%d",
	TypeListingContact:        "%s has shared their contact details on listing #%d",
	TypeListingCompleted:      "%s has marked listing #%d as completed",
	TypeListingFailed:         "%s has marked listing #%d as failed",
	TypeListingFeedback:       "%s has left feedback on listing #%d",
	TypeListingOffer:          "%s has made an offer on listing #%d",
	TypeListingOfferAccepted:  "%s has accepted your offer on listing #%d",
	TypeListingOfferRejected:  "%s has rejected your offer on listing #%d",
	TypeListingOfferCancelled: "%s has cancelled their offer on listing #%d",
	TypeListingComment:        "%s has commented on listing #%d",
}

var listingMergeDescriptions = map[Type]string{
	TypeListingOffer:   "There are multiple new offers on listing #%d",
	TypeListingComment: "There are multiple new comments on listing #%d",
}

func (e *Engine) listing(ctx context.Context, id int64) (*models.Listing, error) {
	listing, err := e.store.Listing(ctx, id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrCodeNoSuchListing, id)
	}
	return listing, nil
}

func listingEvent(in classifyInput, listing *models.Listing) *Event {
	ev := newEvent(in, listing.ID)
	if format, ok := listingDescriptions[in.Type]; ok {
		ev.Description = fmt.Sprintf(format, in.Actor.Username, listing.ID)
	}
	if format, ok := listingMergeDescriptions[in.Type]; ok {
		ev.MergeDescription = fmt.Sprintf(format, listing.ID)
	}
	return ev
}

// classifyListing handles events raised directly against a listing.
func (e *Engine) classifyListing(ctx context.Context, in classifyInput) (*Event, error) {
	listing, err := e.listing(ctx, in.ReferenceID)
	if err != nil {
		return nil, err
	}

	ev := listingEvent(in, listing)
	accepted := listing.AcceptedOfferUserID()

	switch in.Type {
	case TypeListingCancelled:
		ev.Recipients = NewRecipientSet(append(listing.OpenOfferUserIDs(), accepted)...)
	default:
		// Contact, completion, failure and feedback go to the other trading party.
		ev.Recipients = NewRecipientSet(listing.CreatorID, accepted)
	}
	return ev, nil
}

func (e *Engine) classifyListingOffer(ctx context.Context, in classifyInput) (*Event, error) {
	offer, err := e.store.ListingOffer(ctx, in.ReferenceID)
	if err != nil {
		return nil, notFound(err, apperrors.ErrCodeNoSuchOffer, in.ReferenceID)
	}
	listing, err := e.listing(ctx, offer.ListingID)
	if err != nil {
		return nil, err
	}

	ev := listingEvent(in, listing)
	switch in.Type {
	case TypeListingOfferAccepted, TypeListingOfferRejected:
		ev.Recipients = NewRecipientSet(offer.UserID)
	default:
		ev.Recipients = NewRecipientSet(listing.CreatorID)
	}
	return ev, nil
}

func (e *Engine) classifyListingComment(ctx context.Context, in classifyInput) (*Event, error) {
	comment, err := e.store.ListingComment(ctx, in.ReferenceID)
	if err != nil {
		// The site has no comment-level error; a dangling comment reads as a missing listing.
		return nil, notFound(err, apperrors.ErrCodeNoSuchListing, in.ReferenceID)
	}
	listing, err := e.listing(ctx, comment.ListingID)
	if err != nil {
		return nil, err
	}

	ev := listingEvent(in, listing)
	ids := append(listing.OpenOfferUserIDs(), listing.CreatorID, listing.AcceptedOfferUserID())
	ev.Recipients = NewRecipientSet(ids...)
	return ev, nil
}
