package models

import (
	"strings"

	"gorm.io/gorm"
)

// searchableColumns are ORed together for the 'search' filter.
var searchableColumns = []string{"name", "school", "email", "message"}

// sortableColumns is the allow-list for caller-supplied sort keys.
var sortableColumns = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"status":     true,
	"priority":   true,
}

// ContactQuery holds the validated list-query parameters for filtering,
// sorting & paginating contacts. The zero value of each filter field
// means "not supplied".
type ContactQuery struct {
	Page       int
	Limit      int
	Status     string
	Priority   string
	IsRead     *bool
	IsArchived *bool
	Search     string
	SortBy     string
}

// filterScope shapes the query without touching the store, so the
// same filter backs both the fetch & the count.
func (query *ContactQuery) filterScope() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if query.Status != "" {
			db = db.Where("status = ?", query.Status)
		}

		if query.Priority != "" {
			db = db.Where("priority = ?", query.Priority)
		}

		if query.IsRead != nil {
			db = db.Where("is_read = ?", *query.IsRead)
		}

		if query.IsArchived != nil {
			db = db.Where("is_archived = ?", *query.IsArchived)
		}

		if query.Search != "" {
			term := "%" + strings.ToLower(query.Search) + "%"

			conditions := []string{}
			args := []interface{}{}
			for _, column := range searchableColumns {
				conditions = append(conditions, "lower("+column+") LIKE ?")
				args = append(args, term)
			}

			db = db.Where(strings.Join(conditions, " OR "), args...)
		}

		return db
	}
}

// orderClause translates a '-column'/'column' sort key into an ORDER BY
// clause, falling back to newest-first for unknown columns.
func (query *ContactQuery) orderClause() string {
	sortBy := query.SortBy
	if sortBy == "" {
		sortBy = "-created_at"
	}

	direction := "ASC"
	if strings.HasPrefix(sortBy, "-") {
		direction = "DESC"
		sortBy = strings.TrimPrefix(sortBy, "-")
	}

	if !sortableColumns[sortBy] {
		return "created_at DESC"
	}

	return sortBy + " " + direction
}

// ListContacts fetches a page of contacts matching 'query', along with
// the pagination metadata for the full result set.
func ListContacts(query *ContactQuery) ([]Contact, *Paging, error) {
	var total int64
	contacts := []Contact{}

	err := db.Model(&Contact{}).Scopes(query.filterScope()).Count(&total).Error
	if err != nil {
		return nil, nil, err
	}

	err = db.Scopes(query.filterScope(), paginate(query.Page, query.Limit)).
		Order(query.orderClause()).
		Find(&contacts).Error
	if err != nil {
		return nil, nil, err
	}

	limit := query.Limit
	if limit <= 0 {
		limit = DEFAULT_PAGE_SIZE
	}

	return contacts, newPaging(query.Page, limit, total), nil
}
