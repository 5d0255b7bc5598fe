package server

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/techedushop/contactus/models"
)

func fieldsWithErrors(fieldErrors []FieldError) []string {
	fields := []string{}
	for _, fieldError := range fieldErrors {
		fields = append(fields, fieldError.Field)
	}

	return fields
}

func TestValidateCreatePayloadCollectsAllViolations(t *testing.T) {
	contact := models.Contact{
		Name:    "J",
		School:  "",
		Email:   "not-an-email",
		Message: "short",
	}

	fieldErrors := validateCreatePayload(&contact)

	fields := fieldsWithErrors(fieldErrors)
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "school")
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "message")
}

func TestValidateCreatePayloadValid(t *testing.T) {
	contact := models.Contact{
		Name:    "Jo",
		School:  "Green Hill",
		Email:   "a@b.com",
		Phone:   "+250788000000",
		Message: "Interested in robotics kits.",
	}

	assert.Empty(t, validateCreatePayload(&contact))
}

func TestValidateCreatePayloadNameCharacters(t *testing.T) {
	contact := models.Contact{
		Name:    "R2-D2 <admin>",
		School:  "Green Hill",
		Email:   "a@b.com",
		Message: "Interested in robotics kits.",
	}

	fieldErrors := validateCreatePayload(&contact)
	assert.Equal(t, []string{"name"}, fieldsWithErrors(fieldErrors))
	assert.Equal(t, "Name can only contain letters, spaces, hyphens, and apostrophes", fieldErrors[0].Message)
}

func TestValidateCreatePayloadPhoneRules(t *testing.T) {
	contact := models.Contact{
		Name:    "Jo Doe",
		School:  "Green Hill",
		Email:   "a@b.com",
		Message: "Interested in robotics kits.",
	}

	// optional - empty phone is fine
	assert.Empty(t, validateCreatePayload(&contact))

	contact.Phone = "12345"
	fieldErrors := validateCreatePayload(&contact)
	assert.Equal(t, []string{"phone"}, fieldsWithErrors(fieldErrors))
	assert.Equal(t, "Phone number must be between 10 and 20 characters", fieldErrors[0].Message)

	contact.Phone = "+250-788-000-000x"
	fieldErrors = validateCreatePayload(&contact)
	assert.Equal(t, []string{"phone"}, fieldsWithErrors(fieldErrors))
	assert.Equal(t, "Please provide a valid phone number", fieldErrors[0].Message)
}

func TestValidateCreatePayloadMessageBounds(t *testing.T) {
	contact := models.Contact{
		Name:    "Jo Doe",
		School:  "Green Hill",
		Email:   "a@b.com",
		Message: "short",
	}

	fieldErrors := validateCreatePayload(&contact)
	assert.Equal(t, []string{"message"}, fieldsWithErrors(fieldErrors))
	assert.Equal(t, "Message must be between 10 and 2000 characters", fieldErrors[0].Message)
}

func TestValidateUpdatePayload(t *testing.T) {
	assert.Empty(t, validateUpdatePayload(map[string]interface{}{
		"status":   models.CONTACTED_STATUS,
		"priority": models.LOW_PRIORITY,
		"notes":    "call back Monday",
		"isRead":   true,
	}))

	fieldErrors := validateUpdatePayload(map[string]interface{}{"status": "bogus"})
	assert.Equal(t, []string{"status"}, fieldsWithErrors(fieldErrors))
	assert.Equal(t, "Invalid status value", fieldErrors[0].Message)

	fieldErrors = validateUpdatePayload(map[string]interface{}{"isRead": "yes"})
	assert.Equal(t, []string{"isRead"}, fieldsWithErrors(fieldErrors))

	fieldErrors = validateUpdatePayload(map[string]interface{}{"priority": 5})
	assert.Equal(t, []string{"priority"}, fieldsWithErrors(fieldErrors))
}

func TestRemoveUnknownFieldsDropsSilently(t *testing.T) {
	data := map[string]interface{}{
		"status": models.CLOSED_STATUS,
		"name":   "Hacker",
		"email":  "hacker@evil.com",
	}

	removeUnknownFields(data, contactUpdatableFields)

	assert.Equal(t, map[string]interface{}{"status": models.CLOSED_STATUS}, data)
}

func TestValidateListQueryDefaults(t *testing.T) {
	query, fieldErrors := validateListQuery(url.Values{})
	assert.Empty(t, fieldErrors)
	assert.Equal(t, 1, query.Page)
	assert.Equal(t, models.DEFAULT_PAGE_SIZE, query.Limit)
	assert.Nil(t, query.IsRead)
	assert.Nil(t, query.IsArchived)
}

func TestValidateListQueryParsesFilters(t *testing.T) {
	values := url.Values{}
	values.Set("page", "2")
	values.Set("limit", "5")
	values.Set("status", models.NEW_STATUS)
	values.Set("priority", models.HIGH_PRIORITY)
	values.Set("isRead", "false")
	values.Set("search", "robotics")
	values.Set("sortBy", "-created_at")

	query, fieldErrors := validateListQuery(values)
	assert.Empty(t, fieldErrors)
	assert.Equal(t, 2, query.Page)
	assert.Equal(t, 5, query.Limit)
	assert.Equal(t, models.NEW_STATUS, query.Status)
	assert.Equal(t, models.HIGH_PRIORITY, query.Priority)
	assert.NotNil(t, query.IsRead)
	assert.False(t, *query.IsRead)
	assert.Equal(t, "robotics", query.Search)
	assert.Equal(t, "-created_at", query.SortBy)
}

func TestValidateListQueryRejectsBadParams(t *testing.T) {
	values := url.Values{}
	values.Set("page", "0")
	values.Set("limit", "500")
	values.Set("status", "bogus")
	values.Set("isArchived", "maybe")
	values.Set("search", "x")

	_, fieldErrors := validateListQuery(values)

	fields := fieldsWithErrors(fieldErrors)
	assert.Contains(t, fields, "page")
	assert.Contains(t, fields, "limit")
	assert.Contains(t, fields, "status")
	assert.Contains(t, fields, "isArchived")
	assert.Contains(t, fields, "search")
}

func TestValidateContactID(t *testing.T) {
	assert.Empty(t, validateContactID("29f7dd5f-4b39-4f4f-9af8-8e4697e3bd07"))

	fieldErrors := validateContactID("not-a-uuid")
	assert.Equal(t, []string{"id"}, fieldsWithErrors(fieldErrors))
	assert.Equal(t, "Invalid contact ID", fieldErrors[0].Message)
}

func TestUpdateColumnsTranslation(t *testing.T) {
	columns := updateColumns(map[string]interface{}{
		"status":     models.CLOSED_STATUS,
		"isRead":     true,
		"isArchived": false,
		"notes":      "n",
	})

	assert.Equal(t, map[string]interface{}{
		"status":      models.CLOSED_STATUS,
		"is_read":     true,
		"is_archived": false,
		"notes":       "n",
	}, columns)
}
