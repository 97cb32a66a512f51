package notification

import (
	"testing"
	"time"

	"acc-notifications/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate_ScoutFamily(t *testing.T) {
	s := forumFixture()
	s.addUser(70, "Scout", models.GroupScout)
	s.addUser(71, "OtherScout", models.GroupScout)
	s.addUser(72, "Newbie", "")
	s.addThread(80, 81, "Adoption: Newbie")
	s.adoptions[81] = &models.Adoption{ThreadID: 81, ScoutID: 70, AdopteeID: 72}
	s.addPost(81, 82, 72, "hi scout", time.Now())
	s.feedback[5] = &models.ScoutFeedback{ID: 5, ScoutID: 70, AdopteeID: 72}
	s.addThread(90, 91, "Adoptee BT")
	s.addPost(91, 92, 72, "hello everyone", time.Now())
	s.readers[90] = []int64{72, 2}
	e := newTestEngine(t, s, nil)

	create(t, e, TypeScoutAdoption, 81, 70)
	rows := s.rowsFor(81, TypeScoutAdoption)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(72), rows[0].UserID)

	create(t, e, TypeScoutThread, 82, 72)
	assert.Equal(t, []int64{70}, s.userIDsFor(81, TypeScoutThread))

	create(t, e, TypeScoutFeedback, 5, 72)
	assert.Equal(t, []int64{70}, s.userIDsFor(5, TypeScoutFeedback))

	create(t, e, TypeScoutBT, 92, 72)
	assert.Equal(t, []int64{2, 70, 71}, s.userIDsFor(91, TypeScoutBT))
}

func TestCreate_SupportTicket(t *testing.T) {
	s := forumFixture()
	s.addUser(30, "ModA", models.GroupMod)
	s.addUser(32, "Admin", models.GroupAdmin)
	s.supportTickets[6] = &models.SupportTicket{ID: 6, UserID: 2, Title: "Lost my bells"}
	s.supportMessages[1] = &models.SupportTicketMessage{ID: 1, SupportTicketID: 6, UserID: 2}
	s.supportMessages[2] = &models.SupportTicketMessage{ID: 2, SupportTicketID: 6, UserID: 30}
	s.supportMessages[3] = &models.SupportTicketMessage{ID: 3, SupportTicketID: 6, UserID: 30, StaffOnly: true}
	e := newTestEngine(t, s, nil)

	create(t, e, TypeSupportTicket, 1, 2)
	assert.Equal(t, []int64{30, 32}, s.userIDsFor(6, TypeSupportTicket))

	for _, r := range s.rowsFor(6, TypeSupportTicket) {
		seen := time.Now()
		r.Notified = &seen
	}

	create(t, e, TypeSupportTicket, 2, 30)
	rows := s.rowsFor(6, TypeSupportTicket)
	require.Len(t, rows, 3)
	assert.Equal(t, int64(2), rows[0].UserID)
	assert.Equal(t, "ModA has posted on support ticket 'Lost my bells'", rows[0].Description)
	assert.Nil(t, rows[0].Notified)
	assert.NotNil(t, rows[1].Notified)

	create(t, e, TypeSupportTicket, 3, 30)
	rows = s.rowsFor(6, TypeSupportTicket)
	assert.NotNil(t, rows[1].Notified, "staff-only note does not notify its author")
	assert.Nil(t, rows[2].Notified)
}

func TestCreate_FeatureFamily(t *testing.T) {
	s := forumFixture()
	s.addUser(40, "Dev", models.GroupDeveloper)
	s.addUser(41, "Researcher", models.GroupResearcher)
	s.addUser(42, "Boss", models.GroupAdmin)
	s.features[8] = &models.Feature{ID: 8, Title: "Dark mode", CreatedUserID: 41}
	s.featureMessages[1] = &models.FeatureMessage{ID: 1, FeatureID: 8, UserID: 40}
	s.featureMessages[2] = &models.FeatureMessage{ID: 2, FeatureID: 8, UserID: 40, StaffOnly: true}
	s.featureFollowers[8] = []int64{2, 41, 42}
	e := newTestEngine(t, s, nil)

	create(t, e, TypeFeature, 8, 41)
	assert.Equal(t, []int64{40, 42}, s.userIDsFor(8, TypeFeature))

	create(t, e, TypeFeaturePost, 1, 40)
	assert.Equal(t, []int64{2, 42}, s.userIDsFor(8, TypeFeaturePost))

	for _, r := range s.rowsFor(8, TypeFeaturePost) {
		seen := time.Now()
		r.Notified = &seen
	}
	create(t, e, TypeFeaturePost, 2, 40)
	for _, r := range s.rowsFor(8, TypeFeaturePost) {
		if r.UserID == 2 {
			assert.NotNil(t, r.Notified, "staff-only posts skip non-staff followers")
		} else {
			assert.Nil(t, r.Notified)
		}
	}
}

func TestCreate_ShopFamily(t *testing.T) {
	s := forumFixture()
	s.shops[3] = &models.Shop{ID: 3, Name: "Nook's Cranny"}
	s.employees[10] = &models.ShopEmployee{ID: 10, ShopID: 3, UserID: 4}
	s.orders[11] = &models.ShopOrder{ID: 11, ShopID: 3, CustomerID: 2}
	s.applications[12] = &models.ShopApplication{ID: 12, ShopID: 3, UserID: 2, RoleID: 5}
	s.owners[3] = []int64{5}
	s.orderHandlers[3] = []int64{4}
	s.roleAncestors[5] = []int64{4, 1}
	s.roleHolders[1] = []int64{3}
	s.addThread(20, 21, "Shop chat")
	s.addPost(21, 22, 2, "open?", time.Now())
	s.readers[21] = []int64{2, 4, 5}
	e := newTestEngine(t, s, nil)

	create(t, e, TypeShopEmployeeAdded, 10, 5)
	rows := s.rowsFor(3, TypeShopEmployeeAdded)
	require.Len(t, rows, 1)
	assert.Equal(t, "Erin has added you to shop 'Nook's Cranny'", rows[0].Description)

	create(t, e, TypeShopOrder, 11, 2)
	assert.Equal(t, []int64{4, 5}, s.userIDsFor(11, TypeShopOrder))

	// Role 4 has nobody in it, so the application climbs to role 1.
	create(t, e, TypeShopApplication, 12, 2)
	assert.Equal(t, []int64{3, 5}, s.userIDsFor(12, TypeShopApplication))

	create(t, e, TypeShopThread, 22, 2)
	assert.Equal(t, []int64{4, 5}, s.userIDsFor(21, TypeShopThread))
}
