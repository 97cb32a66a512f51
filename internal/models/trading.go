package models

const (
	OfferStatusPending   = "pending"
	OfferStatusOnHold    = "on_hold"
	OfferStatusAccepted  = "accepted"
	OfferStatusRejected  = "rejected"
	OfferStatusCancelled = "cancelled"
)

// Listing is a Trading Post listing with its full offer list.
type Listing struct {
	ID        int64          `json:"id"`
	CreatorID int64          `json:"creatorId"`
	Status    string         `json:"status"`
	Offers    []ListingOffer `json:"offers"`
}

type ListingOffer struct {
	ID        int64  `json:"id"`
	ListingID int64  `json:"listingId"`
	UserID    int64  `json:"userId"`
	Status    string `json:"status"`
}

type ListingComment struct {
	ID        int64 `json:"id"`
	ListingID int64 `json:"listingId"`
	UserID    int64 `json:"userId"`
}

// AcceptedOfferUserID returns the holder of the accepted offer, or 0.
func (l Listing) AcceptedOfferUserID() int64 {
	for _, o := range l.Offers {
		if o.Status == OfferStatusAccepted {
			return o.UserID
		}
	}
	return 0
}

// OpenOfferUserIDs returns holders of pending or on-hold offers.
func (l Listing) OpenOfferUserIDs() []int64 {
	var ids []int64
	for _, o := range l.Offers {
		if o.Status == OfferStatusPending || o.Status == OfferStatusOnHold {
			ids = append(ids, o.UserID)
		}
	}
	return ids
}
