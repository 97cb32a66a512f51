package notification

import (
	"context"
	"errors"
	"fmt"

	apperrors "acc-notifications/internal/common/errors"
	"acc-notifications/internal/models"
	"acc-notifications/internal/repository"
)

// classifyGift returns a nil event for self-gifts: they are allowed and produce no notification.
func (e *Engine) classifyGift(ctx context.Context, in classifyInput) (*Event, error) {
	var (
		gift *models.Gift
		err  error
	)
	if in.Type == TypeGiftBellShop {
		gift, err = e.store.BellShopGift(ctx, in.ReferenceID)
	} else {
		gift, err = e.store.Donation(ctx, in.ReferenceID)
	}
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewBadFormatError(fmt.Sprintf("no %s with id %d", in.Type, in.ReferenceID))
	}
	if err != nil {
		return nil, err
	}

	if gift.GifterID == gift.RecipientID {
		return nil, nil
	}

	ev := newEvent(in, gift.ID)
	if in.Type == TypeGiftBellShop {
		ev.Description = fmt.Sprintf("%s has gifted you %s", in.Actor.Username, gift.ItemName)
	} else {
		ev.Description = fmt.Sprintf("%s has made a donation to ACC in your name", in.Actor.Username)
	}
	ev.Recipients = NewRecipientSet(gift.RecipientID)
	return ev, nil
}
