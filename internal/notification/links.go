package notification

import (
	"context"
	"fmt"
	"sort"
	"time"

	"acc-notifications/internal/models"
)

// PermissionProcessUserTickets lets a viewer work the moderation queue.
const PermissionProcessUserTickets = "process-user-tickets"

// DefaultThreadPageSize is the number of children shown per forum page.
const DefaultThreadPageSize = 25

// LinkContext locates the relevant child on a paged node. A Page below 1 means no page
// is known and the link points at the node itself.
type LinkContext struct {
	NodeID   int64
	Page     int
	AnchorID int64
}

// LinkFunc resolves the deep link for one viewer of a notification.
type LinkFunc func(ctx context.Context, viewerID int64) (string, error)

// PageFor returns the 1-based page holding the child at the 0-based index.
func PageFor(index, pageSize int) int {
	if pageSize <= 0 {
		pageSize = DefaultThreadPageSize
	}
	if index < 0 {
		index = 0
	}
	return index/pageSize + 1
}

// pagedTypes link to a page within a node rather than to the node itself.
var pagedTypes = map[Type]bool{
	TypePrivateThread:  true,
	TypeFollowedThread: true,
	TypeFollowedBoard:  true,
	TypeUsernameTag:    true,
	TypeScoutThread:    true,
	TypeScoutBT:        true,
	TypeShopThread:     true,
}

// ResolveLink maps a notification to a site-relative path. Unknown types resolve to "".
func ResolveLink(n *models.Notification, viewerID int64, lc LinkContext, isStaff bool) string {
	t := Type(n.Type)
	if pagedTypes[t] {
		node := lc.NodeID
		if node == 0 {
			node = n.ReferenceID
		}
		if lc.Page < 1 {
			return fmt.Sprintf("/forums/%d", node)
		}
		return fmt.Sprintf("/forums/%d/%d#%d", node, lc.Page, lc.AnchorID)
	}

	switch t {
	case TypeAnnouncement, TypeScoutAdoption:
		return fmt.Sprintf("/forums/%d", n.ReferenceID)
	case TypeScoutFeedback:
		return fmt.Sprintf("/scout-hub/ratings/%d", viewerID)
	case TypeScoutClosed:
		return "/scout-hub"
	case TypeModminUT, TypeModminUTMany, TypeModminUTPost, TypeModminUTDiscussion, TypeTicketProcessed:
		if isStaff {
			return fmt.Sprintf("/user-tickets/%d", n.ReferenceID)
		}
		return fmt.Sprintf("/tickets/%d", n.ReferenceID)
	case TypeSupportTicket:
		return fmt.Sprintf("/support-tickets/%d", n.ReferenceID)
	case TypeFeature, TypeFeaturePost:
		return fmt.Sprintf("/features/%d", n.ReferenceID)
	case TypeGiftBellShop:
		return "/bell-shop/redeemed"
	case TypeGiftDonation:
		return fmt.Sprintf("/profile/%d", viewerID)
	case TypeShopEmployeeAdded, TypeShopEmployeeRemoved:
		return fmt.Sprintf("/shop/%d", n.ReferenceID)
	case TypeShopOrder:
		return fmt.Sprintf("/shop/order/%d", n.ReferenceID)
	case TypeShopApplication:
		return fmt.Sprintf("/shop/application/%d", n.ReferenceID)
	}
	if t.Family() == FamilyTrading {
		return fmt.Sprintf("/trading-post/%d", n.ReferenceID)
	}
	return ""
}

// unreadIndex returns the index of the first child created after lastChecked. A viewer who
// never opened the node starts at the first child; one who has seen everything lands on the last.
func unreadIndex(children []models.NodeChild, lastChecked *time.Time) int {
	if lastChecked == nil || len(children) == 0 {
		return 0
	}
	i := sort.Search(len(children), func(i int) bool {
		return children[i].Created.After(*lastChecked)
	})
	if i == len(children) {
		return len(children) - 1
	}
	return i
}

func indexOf(children []models.NodeChild, id int64) int {
	for i, c := range children {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// locatePost finds the page of a post within its thread.
func (e *Engine) locatePost(ctx context.Context, postID int64) (LinkContext, error) {
	post, err := e.store.Node(ctx, postID)
	if err != nil {
		return LinkContext{}, err
	}
	children, err := e.store.NodeChildren(ctx, post.ParentID)
	if err != nil {
		return LinkContext{}, err
	}
	lc := LinkContext{NodeID: post.ParentID, AnchorID: post.ID}
	if i := indexOf(children, post.ID); i >= 0 {
		lc.Page = PageFor(i, e.opts.ThreadPageSize)
	}
	return lc, nil
}

// locateUnread finds the first child of the node the viewer has not seen yet.
func (e *Engine) locateUnread(ctx context.Context, nodeID, viewerID int64) (LinkContext, error) {
	children, err := e.store.NodeChildren(ctx, nodeID)
	if err != nil {
		return LinkContext{}, err
	}
	lc := LinkContext{NodeID: nodeID}
	if len(children) == 0 {
		return lc, nil
	}
	lastChecked, err := e.store.LastChecked(ctx, viewerID, nodeID)
	if err != nil {
		return LinkContext{}, err
	}
	i := unreadIndex(children, lastChecked)
	lc.Page = PageFor(i, e.opts.ThreadPageSize)
	lc.AnchorID = children[i].ID
	return lc, nil
}

func (e *Engine) canProcessTickets(ctx context.Context, viewerID int64) (bool, error) {
	if e.perms == nil {
		return false, nil
	}
	viewer, err := e.store.User(ctx, viewerID)
	if err != nil {
		return false, err
	}
	return e.perms.HasPermission(ctx, viewerID, PermissionProcessUserTickets, []int{viewer.GroupID})
}

// linker prepares per-viewer link resolution for one notification. Context shared by every
// viewer is loaded once up front.
func (e *Engine) linker(ctx context.Context, n *models.Notification) (LinkFunc, error) {
	t := Type(n.Type)
	switch {
	case t == TypeUsernameTag:
		lc, err := e.locatePost(ctx, n.ReferenceID)
		if err != nil {
			return nil, err
		}
		return func(_ context.Context, viewerID int64) (string, error) {
			return ResolveLink(n, viewerID, lc, false), nil
		}, nil

	case pagedTypes[t]:
		return func(ctx context.Context, viewerID int64) (string, error) {
			lc, err := e.locateUnread(ctx, n.ReferenceID, viewerID)
			if err != nil {
				return "", err
			}
			return ResolveLink(n, viewerID, lc, false), nil
		}, nil

	case t.Family() == FamilyTicket:
		return func(ctx context.Context, viewerID int64) (string, error) {
			staff, err := e.canProcessTickets(ctx, viewerID)
			if err != nil {
				return "", err
			}
			return ResolveLink(n, viewerID, LinkContext{}, staff), nil
		}, nil
	}

	return func(_ context.Context, viewerID int64) (string, error) {
		return ResolveLink(n, viewerID, LinkContext{}, false), nil
	}, nil
}

// Link resolves the deep link a viewer sees for a stored notification.
func (e *Engine) Link(ctx context.Context, n *models.Notification, viewerID int64) (string, error) {
	link, err := e.linker(ctx, n)
	if err != nil {
		return "", err
	}
	return link(ctx, viewerID)
}
