package notification

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"acc-notifications/internal/common/email"
	"acc-notifications/internal/models"
	"acc-notifications/internal/repository"
)

type rowKey struct {
	userID, referenceID int64
	referenceTypeID     int
}

// fakeStore is an in-memory Store. Maps are filled directly by tests.
type fakeStore struct {
	mu sync.Mutex

	types       map[string]int
	users       map[int64]*models.User
	groups      map[string][]int64
	nodes       map[int64]*models.Node
	readers     map[int64][]int64
	followers   map[int64][]int64
	children    map[int64][]models.NodeChild
	lastChecked map[[2]int64]time.Time

	listings map[int64]*models.Listing
	offers   map[int64]*models.ListingOffer
	comments map[int64]*models.ListingComment

	adoptions map[int64]*models.Adoption
	feedback  map[int64]*models.ScoutFeedback

	userTickets     map[int64]*models.UserTicket
	ticketMessages  map[int64]*models.UserTicketMessage
	submitters      map[int64]int
	supportTickets  map[int64]*models.SupportTicket
	supportMessages map[int64]*models.SupportTicketMessage

	features         map[int64]*models.Feature
	featureMessages  map[int64]*models.FeatureMessage
	featureFollowers map[int64][]int64

	bellGifts map[int64]*models.Gift
	donations map[int64]*models.Gift

	shops         map[int64]*models.Shop
	employees     map[int64]*models.ShopEmployee
	orders        map[int64]*models.ShopOrder
	applications  map[int64]*models.ShopApplication
	owners        map[int64][]int64
	orderHandlers map[int64][]int64
	roleAncestors map[int64][]int64
	roleHolders   map[int64][]int64

	emails map[int64]models.EmailRecipient

	rows    map[rowKey]*models.Notification
	globals []models.GlobalNotification
	upserts []repository.Upsert
	nextID  int64

	upsertErr error
}

func newFakeStore() *fakeStore {
	s := &fakeStore{
		types:            map[string]int{},
		users:            map[int64]*models.User{},
		groups:           map[string][]int64{},
		nodes:            map[int64]*models.Node{},
		readers:          map[int64][]int64{},
		followers:        map[int64][]int64{},
		children:         map[int64][]models.NodeChild{},
		lastChecked:      map[[2]int64]time.Time{},
		listings:         map[int64]*models.Listing{},
		offers:           map[int64]*models.ListingOffer{},
		comments:         map[int64]*models.ListingComment{},
		adoptions:        map[int64]*models.Adoption{},
		feedback:         map[int64]*models.ScoutFeedback{},
		userTickets:      map[int64]*models.UserTicket{},
		ticketMessages:   map[int64]*models.UserTicketMessage{},
		submitters:       map[int64]int{},
		supportTickets:   map[int64]*models.SupportTicket{},
		supportMessages:  map[int64]*models.SupportTicketMessage{},
		features:         map[int64]*models.Feature{},
		featureMessages:  map[int64]*models.FeatureMessage{},
		featureFollowers: map[int64][]int64{},
		bellGifts:        map[int64]*models.Gift{},
		donations:        map[int64]*models.Gift{},
		shops:            map[int64]*models.Shop{},
		employees:        map[int64]*models.ShopEmployee{},
		orders:           map[int64]*models.ShopOrder{},
		applications:     map[int64]*models.ShopApplication{},
		owners:           map[int64][]int64{},
		orderHandlers:    map[int64][]int64{},
		roleAncestors:    map[int64][]int64{},
		roleHolders:      map[int64][]int64{},
		emails:           map[int64]models.EmailRecipient{},
		rows:             map[rowKey]*models.Notification{},
	}
	for i, t := range Types() {
		s.types[string(t)] = i + 1
	}
	return s
}

func lookup[T any](m map[int64]*T, id int64) (*T, error) {
	if v, ok := m[id]; ok {
		return v, nil
	}
	return nil, repository.ErrNotFound
}

func (s *fakeStore) addUser(id int64, username, group string) *models.User {
	u := &models.User{ID: id, Username: username, GroupID: len(group), GroupIdentifier: group}
	s.users[id] = u
	if group != "" {
		s.groups[group] = append(s.groups[group], id)
	}
	return u
}

func (s *fakeStore) optIn(ids ...int64) {
	for _, id := range ids {
		name := "user"
		if u, ok := s.users[id]; ok {
			name = u.Username
		}
		s.emails[id] = models.EmailRecipient{UserID: id, Username: name, Email: strings.ToLower(name) + "@example.com"}
	}
}

func (s *fakeStore) addThread(boardID, threadID int64, title string) {
	s.nodes[boardID] = &models.Node{ID: boardID, Type: models.NodeTypeBoard, Title: "Board"}
	s.nodes[threadID] = &models.Node{ID: threadID, ParentID: boardID, Type: models.NodeTypeThread, Title: title}
}

func (s *fakeStore) addPost(threadID, postID, userID int64, content string, created time.Time) {
	s.nodes[postID] = &models.Node{ID: postID, ParentID: threadID, Type: models.NodeTypePost, UserID: userID, Content: content, Created: created}
	s.children[threadID] = append(s.children[threadID], models.NodeChild{ID: postID, Created: created})
}

func (s *fakeStore) rowsFor(referenceID int64, t Type) []*models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Notification
	for k, n := range s.rows {
		if k.referenceID == referenceID && k.referenceTypeID == s.types[string(t)] {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}

func (s *fakeStore) userIDsFor(referenceID int64, t Type) []int64 {
	var ids []int64
	for _, n := range s.rowsFor(referenceID, t) {
		ids = append(ids, n.UserID)
	}
	return ids
}

func (s *fakeStore) NotificationTypeID(_ context.Context, identifier string) (int, error) {
	if id, ok := s.types[identifier]; ok {
		return id, nil
	}
	return 0, repository.ErrNotFound
}

func (s *fakeStore) User(_ context.Context, id int64) (*models.User, error) {
	return lookup(s.users, id)
}

func (s *fakeStore) UserIDsByUsernames(_ context.Context, usernames []string) ([]int64, error) {
	var ids []int64
	for _, name := range usernames {
		for _, u := range s.users {
			if strings.EqualFold(u.Username, name) {
				ids = append(ids, u.ID)
			}
		}
	}
	return ids, nil
}

func (s *fakeStore) GroupMembers(_ context.Context, groups ...string) ([]int64, error) {
	var ids []int64
	for _, g := range groups {
		ids = append(ids, s.groups[g]...)
	}
	return ids, nil
}

func (s *fakeStore) Node(_ context.Context, id int64) (*models.Node, error) {
	return lookup(s.nodes, id)
}

func (s *fakeStore) NodeReaders(_ context.Context, nodeID int64) ([]int64, error) {
	return s.readers[nodeID], nil
}

func (s *fakeStore) NodeFollowers(_ context.Context, nodeIDs ...int64) ([]int64, error) {
	var ids []int64
	for _, id := range nodeIDs {
		ids = append(ids, s.followers[id]...)
	}
	return ids, nil
}

func (s *fakeStore) NodeChildren(_ context.Context, nodeID int64) ([]models.NodeChild, error) {
	return s.children[nodeID], nil
}

func (s *fakeStore) LastChecked(_ context.Context, userID, nodeID int64) (*time.Time, error) {
	if t, ok := s.lastChecked[[2]int64{userID, nodeID}]; ok {
		return &t, nil
	}
	return nil, nil
}

func (s *fakeStore) Listing(_ context.Context, id int64) (*models.Listing, error) {
	return lookup(s.listings, id)
}

func (s *fakeStore) ListingOffer(_ context.Context, id int64) (*models.ListingOffer, error) {
	return lookup(s.offers, id)
}

func (s *fakeStore) ListingComment(_ context.Context, id int64) (*models.ListingComment, error) {
	return lookup(s.comments, id)
}

func (s *fakeStore) Adoption(_ context.Context, threadID int64) (*models.Adoption, error) {
	return lookup(s.adoptions, threadID)
}

func (s *fakeStore) ScoutFeedback(_ context.Context, id int64) (*models.ScoutFeedback, error) {
	return lookup(s.feedback, id)
}

func (s *fakeStore) UserTicket(_ context.Context, id int64) (*models.UserTicket, error) {
	return lookup(s.userTickets, id)
}

func (s *fakeStore) UserTicketMessage(_ context.Context, id int64) (*models.UserTicketMessage, error) {
	return lookup(s.ticketMessages, id)
}

func (s *fakeStore) CountTicketSubmitters(_ context.Context, ticket *models.UserTicket) (int, error) {
	return s.submitters[ticket.ID], nil
}

func (s *fakeStore) SupportTicket(_ context.Context, id int64) (*models.SupportTicket, error) {
	return lookup(s.supportTickets, id)
}

func (s *fakeStore) SupportTicketMessage(_ context.Context, id int64) (*models.SupportTicketMessage, error) {
	return lookup(s.supportMessages, id)
}

func (s *fakeStore) Feature(_ context.Context, id int64) (*models.Feature, error) {
	return lookup(s.features, id)
}

func (s *fakeStore) FeatureMessage(_ context.Context, id int64) (*models.FeatureMessage, error) {
	return lookup(s.featureMessages, id)
}

func (s *fakeStore) FeatureFollowers(_ context.Context, featureID int64) ([]int64, error) {
	return s.featureFollowers[featureID], nil
}

func (s *fakeStore) BellShopGift(_ context.Context, id int64) (*models.Gift, error) {
	return lookup(s.bellGifts, id)
}

func (s *fakeStore) Donation(_ context.Context, id int64) (*models.Gift, error) {
	return lookup(s.donations, id)
}

func (s *fakeStore) Shop(_ context.Context, id int64) (*models.Shop, error) {
	return lookup(s.shops, id)
}

func (s *fakeStore) ShopEmployee(_ context.Context, id int64) (*models.ShopEmployee, error) {
	return lookup(s.employees, id)
}

func (s *fakeStore) ShopOrder(_ context.Context, id int64) (*models.ShopOrder, error) {
	return lookup(s.orders, id)
}

func (s *fakeStore) ShopApplication(_ context.Context, id int64) (*models.ShopApplication, error) {
	return lookup(s.applications, id)
}

func (s *fakeStore) ShopOwners(_ context.Context, shopID int64) ([]int64, error) {
	return s.owners[shopID], nil
}

func (s *fakeStore) ShopOrderHandlers(_ context.Context, shopID int64) ([]int64, error) {
	return s.orderHandlers[shopID], nil
}

func (s *fakeStore) ShopRoleAncestors(_ context.Context, roleID int64) ([]int64, error) {
	return s.roleAncestors[roleID], nil
}

func (s *fakeStore) ShopRoleHolders(_ context.Context, roleID int64) ([]int64, error) {
	return s.roleHolders[roleID], nil
}

func (s *fakeStore) InTx(ctx context.Context, fn func(tx repository.NotificationTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(fakeTx{s})
}

func (s *fakeStore) InsertGlobalNotification(_ context.Context, g models.GlobalNotification) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	g.ID = s.nextID
	s.globals = append(s.globals, g)
	return g.ID, nil
}

func (s *fakeStore) Notification(_ context.Context, id int64) (*models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.rows {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *fakeStore) EmailRecipients(_ context.Context, userIDs []int64) ([]models.EmailRecipient, error) {
	var out []models.EmailRecipient
	for _, id := range userIDs {
		if r, ok := s.emails[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *fakeStore) EmailRecipientsAfter(_ context.Context, afterUserID int64, limit int) ([]models.EmailRecipient, error) {
	var ids []int64
	for id := range s.emails {
		if id > afterUserID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	if len(ids) > limit {
		ids = ids[:limit]
	}
	out := make([]models.EmailRecipient, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.emails[id])
	}
	return out, nil
}

// fakeTx runs with the store lock held.
type fakeTx struct {
	s *fakeStore
}

func (tx fakeTx) UnreadUserIDs(_ context.Context, userIDs []int64, referenceID int64, referenceTypeID int) ([]int64, error) {
	var out []int64
	for _, id := range userIDs {
		if n, ok := tx.s.rows[rowKey{id, referenceID, referenceTypeID}]; ok && n.Notified == nil {
			out = append(out, id)
		}
	}
	return out, nil
}

func (tx fakeTx) UpsertNotifications(_ context.Context, u repository.Upsert) (int64, error) {
	if tx.s.upsertErr != nil {
		return 0, tx.s.upsertErr
	}
	tx.s.upserts = append(tx.s.upserts, u)
	for _, id := range u.UserIDs {
		key := rowKey{id, u.ReferenceID, u.ReferenceTypeID}
		n, ok := tx.s.rows[key]
		if !ok {
			tx.s.nextID++
			n = &models.Notification{ID: tx.s.nextID, UserID: id, ReferenceID: u.ReferenceID, ReferenceTypeID: u.ReferenceTypeID, Created: time.Now()}
			tx.s.rows[key] = n
		}
		n.Description = u.Description
		n.ChildReferenceID = u.ChildReferenceID
		n.Notified = nil
	}
	return int64(len(u.UserIDs)), nil
}

// fakeSender records sends. Addresses in fail return an error; those in panics panic.
type fakeSender struct {
	mu     sync.Mutex
	sent   []email.Message
	fail   map[string]bool
	panics map[string]bool
}

func (f *fakeSender) Send(_ context.Context, msg email.Message) error {
	if f.panics[msg.To] {
		panic("transport exploded")
	}
	if f.fail[msg.To] {
		return errors.New("mailbox unavailable")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeSender) Provider() string { return "fake" }

func (f *fakeSender) recipients() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.sent))
	for _, m := range f.sent {
		out = append(out, m.To)
	}
	sort.Strings(out)
	return out
}

type fakePerms struct {
	granted map[int64]bool
}

func (p fakePerms) HasPermission(_ context.Context, userID int64, permission string, _ []int) (bool, error) {
	return permission == PermissionProcessUserTickets && p.granted[userID], nil
}
