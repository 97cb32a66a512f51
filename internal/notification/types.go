package notification

// Type is a notification-type identifier as stored in the notification_type catalog.
type Type string

const (
	TypePrivateThread  Type = "private_thread"
	TypeFollowedThread Type = "followed_thread"
	TypeFollowedBoard  Type = "followed_board"
	TypeUsernameTag    Type = "username_tag"
	TypeAnnouncement   Type = "announcement"

	TypeListingCancelled      Type = "listing_cancelled"
	TypeListingOffer          Type = "listing_offer"
	TypeListingOfferAccepted  Type = "listing_offer_accepted"
	TypeListingOfferRejected  Type = "listing_offer_rejected"
	TypeListingOfferCancelled Type = "listing_offer_cancelled"
	TypeListingComment        Type = "listing_comment"
	TypeListingContact        Type = "listing_contact"
	TypeListingCompleted      Type = "listing_completed"
	TypeListingFailed         Type = "listing_failed"
	TypeListingFeedback       Type = "listing_feedback"
	TypeListingExpired        Type = "listing_expired"

	TypeScoutAdoption Type = "scout_adoption"
	TypeScoutThread   Type = "scout_thread"
	TypeScoutFeedback Type = "scout_feedback"
	TypeScoutBT       Type = "scout_bt"
	TypeScoutClosed   Type = "scout_closed"

	TypeModminUT           Type = "modmin_ut"
	TypeModminUTMany       Type = "modmin_ut_many"
	TypeModminUTPost       Type = "modmin_ut_post"
	TypeModminUTDiscussion Type = "modmin_ut_discussion"
	TypeTicketProcessed    Type = "ticket_processed"

	TypeSupportTicket Type = "support_ticket"

	TypeFeature     Type = "feature"
	TypeFeaturePost Type = "feature_post"

	TypeGiftBellShop Type = "gift_bell_shop"
	TypeGiftDonation Type = "gift_donation"

	TypeShopThread          Type = "shop_thread"
	TypeShopEmployeeAdded   Type = "shop_employee_added"
	TypeShopEmployeeRemoved Type = "shop_employee_removed"
	TypeShopOrder           Type = "shop_order"
	TypeShopApplication     Type = "shop_application"
)

// Family groups types that share classification and link rules.
type Family string

const (
	FamilyThread  Family = "thread"
	FamilyTrading Family = "trading"
	FamilyScout   Family = "scout"
	FamilyTicket  Family = "ticket"
	FamilySupport Family = "support"
	FamilyFeature Family = "feature"
	FamilyGift    Family = "gift"
	FamilyShop    Family = "shop"
)

var families = map[Type]Family{
	TypePrivateThread:         FamilyThread,
	TypeFollowedThread:        FamilyThread,
	TypeFollowedBoard:         FamilyThread,
	TypeUsernameTag:           FamilyThread,
	TypeAnnouncement:          FamilyThread,
	TypeListingCancelled:      FamilyTrading,
	TypeListingOffer:          FamilyTrading,
	TypeListingOfferAccepted:  FamilyTrading,
	TypeListingOfferRejected:  FamilyTrading,
	TypeListingOfferCancelled: FamilyTrading,
	TypeListingComment:        FamilyTrading,
	TypeListingContact:        FamilyTrading,
	TypeListingCompleted:      FamilyTrading,
	TypeListingFailed:         FamilyTrading,
	TypeListingFeedback:       FamilyTrading,
	TypeListingExpired:        FamilyTrading,
	TypeScoutAdoption:         FamilyScout,
	TypeScoutThread:           FamilyScout,
	TypeScoutFeedback:         FamilyScout,
	TypeScoutBT:               FamilyScout,
	TypeScoutClosed:           FamilyScout,
	TypeModminUT:              FamilyTicket,
	TypeModminUTMany:          FamilyTicket,
	TypeModminUTPost:          FamilyTicket,
	TypeModminUTDiscussion:    FamilyTicket,
	TypeTicketProcessed:       FamilyTicket,
	TypeSupportTicket:         FamilySupport,
	TypeFeature:               FamilyFeature,
	TypeFeaturePost:           FamilyFeature,
	TypeGiftBellShop:          FamilyGift,
	TypeGiftDonation:          FamilyGift,
	TypeShopThread:            FamilyShop,
	TypeShopEmployeeAdded:     FamilyShop,
	TypeShopEmployeeRemoved:   FamilyShop,
	TypeShopOrder:             FamilyShop,
	TypeShopApplication:       FamilyShop,
}

// Family returns the type's family, or "" for unknown types.
func (t Type) Family() Family {
	return families[t]
}

// SchedulerOnly reports whether the type may only be raised by scheduled jobs.
func (t Type) SchedulerOnly() bool {
	return t == TypeScoutClosed || t == TypeListingExpired
}

// Types returns every known type identifier.
func Types() []Type {
	out := make([]Type, 0, len(families))
	for t := range families {
		out = append(out, t)
	}
	return out
}
