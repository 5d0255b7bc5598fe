package models

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func seedContacts(t *testing.T, count int, mutate func(i int, c *Contact)) {
	for i := 0; i < count; i++ {
		contact := &Contact{
			Name:    fmt.Sprintf("Contact %c", 'A'+i),
			School:  fmt.Sprintf("School %v", i),
			Email:   fmt.Sprintf("contact%v@example.com", i),
			Message: "A message long enough to pass validation.",
		}
		if mutate != nil {
			mutate(i, contact)
		}

		assert.Nil(t, CreateContact(contact))
	}
}

func TestListContactsPagination(t *testing.T) {
	InitializeTestDb()
	seedContacts(t, 12, nil)

	contacts, paging, err := ListContacts(&ContactQuery{Status: NEW_STATUS, Page: 2, Limit: 5})
	assert.Nil(t, err)

	assert.Len(t, contacts, 5)
	assert.Equal(t, 2, paging.CurrentPage)
	assert.Equal(t, 3, paging.TotalPages)
	assert.Equal(t, int64(12), paging.TotalItems)
	assert.Equal(t, 5, paging.ItemsPerPage)

	// last page holds the remainder
	contacts, paging, err = ListContacts(&ContactQuery{Status: NEW_STATUS, Page: 3, Limit: 5})
	assert.Nil(t, err)
	assert.Len(t, contacts, 2)
	assert.Equal(t, 3, paging.TotalPages)
}

func TestListContactsStatusAndPriorityFilters(t *testing.T) {
	InitializeTestDb()
	seedContacts(t, 6, func(i int, c *Contact) {
		if i%2 == 0 {
			c.Status = CONTACTED_STATUS
		}
		if i%3 == 0 {
			c.Priority = HIGH_PRIORITY
		}
	})

	contacts, paging, err := ListContacts(&ContactQuery{Status: CONTACTED_STATUS})
	assert.Nil(t, err)
	assert.Len(t, contacts, 3)
	assert.Equal(t, int64(3), paging.TotalItems)

	contacts, _, err = ListContacts(&ContactQuery{Status: CONTACTED_STATUS, Priority: HIGH_PRIORITY})
	assert.Nil(t, err)
	assert.Len(t, contacts, 1, "Filters should be ANDed together")
}

func TestListContactsBooleanFilters(t *testing.T) {
	InitializeTestDb()
	seedContacts(t, 4, nil)

	contacts, _, err := ListContacts(&ContactQuery{})
	assert.Nil(t, err)
	assert.Len(t, contacts, 4)

	_, err = MarkContactAsRead(contacts[0].ID)
	assert.Nil(t, err)
	_, err = ArchiveContact(contacts[1].ID)
	assert.Nil(t, err)

	isRead := true
	read, _, err := ListContacts(&ContactQuery{IsRead: &isRead})
	assert.Nil(t, err)
	assert.Len(t, read, 1)

	notArchived := false
	active, paging, err := ListContacts(&ContactQuery{IsArchived: &notArchived})
	assert.Nil(t, err)
	assert.Len(t, active, 3)
	assert.Equal(t, int64(3), paging.TotalItems)
}

func TestListContactsSearchMatchesAnyTextField(t *testing.T) {
	InitializeTestDb()

	needle := &Contact{
		Name:    "Amara Uwase",
		School:  "Lakeside Academy",
		Email:   "amara@lakeside.rw",
		Message: "We would like a robotics demo for our students.",
	}
	assert.Nil(t, CreateContact(needle))
	seedContacts(t, 3, nil)

	for _, term := range []string{"amara", "LAKESIDE", "robotics DEMO"} {
		contacts, _, err := ListContacts(&ContactQuery{Search: term})
		assert.Nil(t, err)
		assert.Len(t, contacts, 1, "Search %q should match a single contact", term)
		assert.Equal(t, needle.ID, contacts[0].ID)
	}

	contacts, _, err := ListContacts(&ContactQuery{Search: "no-such-term"})
	assert.Nil(t, err)
	assert.Empty(t, contacts)
}

func TestListContactsSearchIsAndedWithFilters(t *testing.T) {
	InitializeTestDb()

	match := &Contact{
		Name:    "Amara Uwase",
		School:  "Lakeside Academy",
		Email:   "amara@lakeside.rw",
		Message: "A message long enough to pass validation.",
		Status:  CLOSED_STATUS,
	}
	assert.Nil(t, CreateContact(match))

	contacts, _, err := ListContacts(&ContactQuery{Search: "lakeside", Status: NEW_STATUS})
	assert.Nil(t, err)
	assert.Empty(t, contacts, "Search matches outside the status filter should be excluded")
}

func TestOrderClause(t *testing.T) {
	assert.Equal(t, "created_at DESC", (&ContactQuery{}).orderClause())
	assert.Equal(t, "name ASC", (&ContactQuery{SortBy: "name"}).orderClause())
	assert.Equal(t, "updated_at DESC", (&ContactQuery{SortBy: "-updated_at"}).orderClause())
	assert.Equal(t, "created_at DESC", (&ContactQuery{SortBy: "ip_address"}).orderClause(),
		"Unknown sort keys should fall back to the default")
	assert.Equal(t, "created_at DESC", (&ContactQuery{SortBy: "name; DROP TABLE contacts"}).orderClause())
}

func TestNewPagingCeiling(t *testing.T) {
	paging := newPaging(1, 5, 12)
	assert.Equal(t, 3, paging.TotalPages)

	paging = newPaging(1, 5, 10)
	assert.Equal(t, 2, paging.TotalPages)

	paging = newPaging(1, 5, 0)
	assert.Equal(t, 0, paging.TotalPages)
	assert.Equal(t, int64(0), paging.TotalItems)
}
