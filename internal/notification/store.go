package notification

import (
	"context"
	"time"

	"acc-notifications/internal/models"
	"acc-notifications/internal/repository"
)

// Store is the query capability the engine needs. Single-row lookups return
// repository.ErrNotFound when nothing matches.
type Store interface {
	CatalogStore
	UserStore
	ForumStore
	TradingStore
	ScoutStore
	TicketStore
	FeatureStore
	GiftStore
	ShopStore
	NotificationStore
}

type CatalogStore interface {
	NotificationTypeID(ctx context.Context, identifier string) (int, error)
}

type UserStore interface {
	User(ctx context.Context, id int64) (*models.User, error)
	// UserIDsByUsernames matches usernames case-insensitively and skips unknown names.
	UserIDsByUsernames(ctx context.Context, usernames []string) ([]int64, error)
	GroupMembers(ctx context.Context, groups ...string) ([]int64, error)
}

type ForumStore interface {
	Node(ctx context.Context, id int64) (*models.Node, error)
	// NodeReaders returns users holding a read grant on the node.
	NodeReaders(ctx context.Context, nodeID int64) ([]int64, error)
	NodeFollowers(ctx context.Context, nodeIDs ...int64) ([]int64, error)
	// NodeChildren returns the node's children in creation order.
	NodeChildren(ctx context.Context, nodeID int64) ([]models.NodeChild, error)
	// LastChecked returns when the user last viewed the node, or nil if never.
	LastChecked(ctx context.Context, userID, nodeID int64) (*time.Time, error)
}

type TradingStore interface {
	Listing(ctx context.Context, id int64) (*models.Listing, error)
	ListingOffer(ctx context.Context, id int64) (*models.ListingOffer, error)
	ListingComment(ctx context.Context, id int64) (*models.ListingComment, error)
}

type ScoutStore interface {
	Adoption(ctx context.Context, threadID int64) (*models.Adoption, error)
	ScoutFeedback(ctx context.Context, id int64) (*models.ScoutFeedback, error)
}

type TicketStore interface {
	UserTicket(ctx context.Context, id int64) (*models.UserTicket, error)
	UserTicketMessage(ctx context.Context, id int64) (*models.UserTicketMessage, error)
	// CountTicketSubmitters counts distinct users who reported the same content as the ticket.
	CountTicketSubmitters(ctx context.Context, ticket *models.UserTicket) (int, error)
	SupportTicket(ctx context.Context, id int64) (*models.SupportTicket, error)
	SupportTicketMessage(ctx context.Context, id int64) (*models.SupportTicketMessage, error)
}

type FeatureStore interface {
	Feature(ctx context.Context, id int64) (*models.Feature, error)
	FeatureMessage(ctx context.Context, id int64) (*models.FeatureMessage, error)
	FeatureFollowers(ctx context.Context, featureID int64) ([]int64, error)
}

type GiftStore interface {
	BellShopGift(ctx context.Context, id int64) (*models.Gift, error)
	Donation(ctx context.Context, id int64) (*models.Gift, error)
}

type ShopStore interface {
	Shop(ctx context.Context, id int64) (*models.Shop, error)
	ShopEmployee(ctx context.Context, id int64) (*models.ShopEmployee, error)
	ShopOrder(ctx context.Context, id int64) (*models.ShopOrder, error)
	ShopApplication(ctx context.Context, id int64) (*models.ShopApplication, error)
	ShopOwners(ctx context.Context, shopID int64) ([]int64, error)
	// ShopOrderHandlers returns active employees whose role handles orders.
	ShopOrderHandlers(ctx context.Context, shopID int64) ([]int64, error)
	// ShopRoleAncestors returns the role's ancestors, nearest first, excluding the role itself.
	ShopRoleAncestors(ctx context.Context, roleID int64) ([]int64, error)
	ShopRoleHolders(ctx context.Context, roleID int64) ([]int64, error)
}

type NotificationStore interface {
	// InTx runs fn in one transaction; an error from fn rolls back the whole chunk.
	InTx(ctx context.Context, fn func(tx repository.NotificationTx) error) error
	InsertGlobalNotification(ctx context.Context, g models.GlobalNotification) (int64, error)
	Notification(ctx context.Context, id int64) (*models.Notification, error)
	// EmailRecipients filters userIDs down to users with email notifications enabled.
	EmailRecipients(ctx context.Context, userIDs []int64) ([]models.EmailRecipient, error)
	// EmailRecipientsAfter pages through every opted-in user by ascending id.
	EmailRecipientsAfter(ctx context.Context, afterUserID int64, limit int) ([]models.EmailRecipient, error)
}

// PermissionChecker is the authorization collaborator.
type PermissionChecker interface {
	HasPermission(ctx context.Context, userID int64, permission string, groupIDs []int) (bool, error)
}
