package server

import (
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator"
	"github.com/google/uuid"

	"github.com/techedushop/contactus/models"
)

// FieldError is a single validation failure, keyed by the offending
// request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var validate *validator.Validate

var (
	nameRegexp  = regexp.MustCompile(`^[a-zA-Z\s'-]+$`)
	phoneRegexp = regexp.MustCompile(`^[\d\s+()-]+$`)
)

// contactUpdatableFields is the allow-list for admin partial updates.
var contactUpdatableFields = map[string]bool{
	"status":     true,
	"priority":   true,
	"notes":      true,
	"isRead":     true,
	"isArchived": true,
}

// createErrorMessages maps field+rule to the message surfaced to the
// caller for create-payload violations.
var createErrorMessages = map[string]map[string]string{
	"name": {
		"required":     "Contact person name is required",
		"min":          "Name must be between 2 and 100 characters",
		"max":          "Name must be between 2 and 100 characters",
		"contact_name": "Name can only contain letters, spaces, hyphens, and apostrophes",
	},
	"school": {
		"required": "School name is required",
		"min":      "School name must be between 2 and 200 characters",
		"max":      "School name must be between 2 and 200 characters",
	},
	"email": {
		"required": "Email address is required",
		"email":    "Please provide a valid email address",
	},
	"phone": {
		"min":          "Phone number must be between 10 and 20 characters",
		"max":          "Phone number must be between 10 and 20 characters",
		"phone_number": "Please provide a valid phone number",
	},
	"message": {
		"required": "Message is required",
		"min":      "Message must be between 10 and 2000 characters",
		"max":      "Message must be between 10 and 2000 characters",
	},
}

func init() {
	validate = validator.New()

	// Report fields by their json names, so error entries match the
	// request payload.
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := RegisterValidators(validate); err != nil {
		logg.Panic(err)
	}
}

func RegisterValidators(validate *validator.Validate) error {
	err := validate.RegisterValidation("contact_name", func(fl validator.FieldLevel) bool {
		return nameRegexp.MatchString(fl.Field().String())
	})
	if err != nil {
		return err
	}

	err = validate.RegisterValidation("phone_number", func(fl validator.FieldLevel) bool {
		return phoneRegexp.MatchString(fl.Field().String())
	})
	if err != nil {
		return err
	}

	return nil
}

// validateCreatePayload checks a submission against the field contract.
// All fields are checked - the caller gets the complete list of
// violations, not just the first.
func validateCreatePayload(contact *models.Contact) []FieldError {
	contact.Name = strings.TrimSpace(contact.Name)
	contact.School = strings.TrimSpace(contact.School)
	contact.Email = strings.TrimSpace(contact.Email)
	contact.Phone = strings.TrimSpace(contact.Phone)
	contact.Message = strings.TrimSpace(contact.Message)

	err := validate.Struct(contact)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "body", Message: "Invalid request body"}}
	}

	fieldErrors := []FieldError{}
	for _, fieldError := range validationErrors {
		fieldErrors = append(fieldErrors, FieldError{
			Field:   fieldError.Field(),
			Message: createErrorMessage(fieldError.Field(), fieldError.Tag()),
		})
	}

	return fieldErrors
}

// validateUpdatePayload checks an (already allow-listed) partial patch:
// enum fields against their allowed sets, booleans for type, notes for
// length.
func validateUpdatePayload(data map[string]interface{}) []FieldError {
	fieldErrors := []FieldError{}

	if value, ok := data["status"]; ok {
		status, isString := value.(string)
		if !isString || !models.IsValidStatus(status) {
			fieldErrors = append(fieldErrors, FieldError{Field: "status", Message: "Invalid status value"})
		}
	}

	if value, ok := data["priority"]; ok {
		priority, isString := value.(string)
		if !isString || !models.IsValidPriority(priority) {
			fieldErrors = append(fieldErrors, FieldError{Field: "priority", Message: "Invalid priority value"})
		}
	}

	if value, ok := data["notes"]; ok {
		notes, isString := value.(string)
		if !isString {
			fieldErrors = append(fieldErrors, FieldError{Field: "notes", Message: "Notes must be a string value"})
		} else if len([]rune(notes)) > 1000 {
			fieldErrors = append(fieldErrors, FieldError{Field: "notes", Message: "Notes cannot exceed 1000 characters"})
		}
	}

	for _, field := range []string{"isRead", "isArchived"} {
		if value, ok := data[field]; ok {
			if _, isBool := value.(bool); !isBool {
				fieldErrors = append(fieldErrors, FieldError{
					Field:   field,
					Message: fmt.Sprintf("%v must be a boolean value", field),
				})
			}
		}
	}

	return fieldErrors
}

// validateListQuery parses & checks the admin list-query parameters,
// returning the parsed query on success.
func validateListQuery(values url.Values) (*models.ContactQuery, []FieldError) {
	fieldErrors := []FieldError{}
	query := &models.ContactQuery{Page: 1, Limit: models.DEFAULT_PAGE_SIZE}

	if raw := values.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			fieldErrors = append(fieldErrors, FieldError{Field: "page", Message: "Page must be a positive integer"})
		} else {
			query.Page = page
		}
	}

	if raw := values.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > models.MAX_PAGE_SIZE {
			fieldErrors = append(fieldErrors, FieldError{Field: "limit", Message: "Limit must be between 1 and 100"})
		} else {
			query.Limit = limit
		}
	}

	if status := values.Get("status"); status != "" {
		if !models.IsValidStatus(status) {
			fieldErrors = append(fieldErrors, FieldError{Field: "status", Message: "Invalid status filter"})
		} else {
			query.Status = status
		}
	}

	if priority := values.Get("priority"); priority != "" {
		if !models.IsValidPriority(priority) {
			fieldErrors = append(fieldErrors, FieldError{Field: "priority", Message: "Invalid priority filter"})
		} else {
			query.Priority = priority
		}
	}

	if raw := values.Get("isRead"); raw != "" {
		isRead, err := parseBoolParam(raw)
		if err != nil {
			fieldErrors = append(fieldErrors, FieldError{Field: "isRead", Message: "isRead must be a boolean value"})
		} else {
			query.IsRead = &isRead
		}
	}

	if raw := values.Get("isArchived"); raw != "" {
		isArchived, err := parseBoolParam(raw)
		if err != nil {
			fieldErrors = append(fieldErrors, FieldError{Field: "isArchived", Message: "isArchived must be a boolean value"})
		} else {
			query.IsArchived = &isArchived
		}
	}

	if search := strings.TrimSpace(values.Get("search")); search != "" {
		if len([]rune(search)) < 2 || len([]rune(search)) > 100 {
			fieldErrors = append(fieldErrors, FieldError{Field: "search", Message: "Search term must be between 2 and 100 characters"})
		} else {
			query.Search = search
		}
	}

	query.SortBy = values.Get("sortBy")

	if len(fieldErrors) > 0 {
		return nil, fieldErrors
	}

	return query, nil
}

// validateContactID checks the identifier syntax before any lookup.
func validateContactID(id string) []FieldError {
	if _, err := uuid.Parse(id); err != nil {
		return []FieldError{{Field: "id", Message: "Invalid contact ID"}}
	}

	return nil
}

// ---------------------------------------------------------------------------------//
// Helper functions
// --------------------------------------------------------------------------------//

func createErrorMessage(field, rule string) string {
	if messages, ok := createErrorMessages[field]; ok {
		if message, ok := messages[rule]; ok {
			return message
		}
	}

	return fmt.Sprintf("%v is invalid", field)
}

func parseBoolParam(raw string) (bool, error) {
	switch raw {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}

	return false, fmt.Errorf("%q is not a boolean", raw)
}

// updateColumns translates the allow-listed json payload keys to their
// store column names.
func updateColumns(data map[string]interface{}) map[string]interface{} {
	columns := map[string]interface{}{}

	for field, column := range map[string]string{
		"status":     "status",
		"priority":   "priority",
		"notes":      "notes",
		"isRead":     "is_read",
		"isArchived": "is_archived",
	} {
		if value, ok := data[field]; ok {
			columns[column] = value
		}
	}

	return columns
}
