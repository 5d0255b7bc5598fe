package models

import (
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	NEW_STATUS         = "new"
	CONTACTED_STATUS   = "contacted"
	IN_PROGRESS_STATUS = "in-progress"
	COMPLETED_STATUS   = "completed"
	CLOSED_STATUS      = "closed"

	WEBSITE_SOURCE  = "website"
	PHONE_SOURCE    = "phone"
	EMAIL_SOURCE    = "email"
	REFERRAL_SOURCE = "referral"
	OTHER_SOURCE    = "other"

	LOW_PRIORITY    = "low"
	MEDIUM_PRIORITY = "medium"
	HIGH_PRIORITY   = "high"
)

var (
	ContactStatuses   = []string{NEW_STATUS, CONTACTED_STATUS, IN_PROGRESS_STATUS, COMPLETED_STATUS, CLOSED_STATUS}
	ContactSources    = []string{WEBSITE_SOURCE, PHONE_SOURCE, EMAIL_SOURCE, REFERRAL_SOURCE, OTHER_SOURCE}
	ContactPriorities = []string{LOW_PRIORITY, MEDIUM_PRIORITY, HIGH_PRIORITY}

	// Fields an admin is allowed to patch on an existing contact.
	// Everything else is write-once at creation.
	contactUpdatableColumns = []string{"status", "priority", "notes", "is_read", "is_archived"}

	markupRegexp = regexp.MustCompile(`<[^>]*>`)
)

type Contact struct {
	BaseModel
	Name       string `json:"name" validate:"required,min=2,max=100,contact_name" gorm:"not null"`
	School     string `json:"school" validate:"required,min=2,max=200" gorm:"not null"`
	Email      string `json:"email" validate:"required,email" gorm:"not null;index"`
	Phone      string `json:"phone,omitempty" validate:"omitempty,min=10,max=20,phone_number"`
	Message    string `json:"message" validate:"required,min=10,max=2000" gorm:"not null"`
	Status     string `json:"status" gorm:"default:new;index"`
	Source     string `json:"source" gorm:"default:website"`
	Priority   string `json:"priority" gorm:"default:medium"`
	Notes      string `json:"notes,omitempty" validate:"omitempty,max=1000"`
	IPAddress  string `json:"ipAddress,omitempty"`
	UserAgent  string `json:"userAgent,omitempty"`
	IsRead     bool   `json:"isRead"`
	IsArchived bool   `json:"isArchived"`
}

// PublicContact is the subset of a contact returned to the
// unauthenticated submitter. Internal fields(notes, ipAddress etc.)
// never leave the admin surface.
type PublicContact struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	School    string    `json:"school"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type ContactStats struct {
	Total          int64            `json:"total"`
	Unread         int64            `json:"unread"`
	ByStatus       map[string]int64 `json:"byStatus"`
	RecentContacts int64            `json:"recentContacts"`
}

func (contact *Contact) Public() PublicContact {
	return PublicContact{
		ID:        contact.ID,
		Name:      contact.Name,
		School:    contact.School,
		Email:     contact.Email,
		CreatedAt: contact.CreatedAt,
	}
}

// Sanitize strips embedded markup from the free-text fields & normalizes
// the email address. It runs before every persistence write, and is a
// no-op on already-sanitized values.
func (contact *Contact) Sanitize() {
	contact.Name = stripMarkup(contact.Name)
	contact.School = stripMarkup(contact.School)
	contact.Message = stripMarkup(contact.Message)
	contact.Notes = stripMarkup(contact.Notes)
	contact.Email = strings.ToLower(strings.TrimSpace(contact.Email))
}

func IsValidStatus(value string) bool {
	return containsString(ContactStatuses, value)
}

func IsValidSource(value string) bool {
	return containsString(ContactSources, value)
}

func IsValidPriority(value string) bool {
	return containsString(ContactPriorities, value)
}

// CreateContact assigns defaults, sanitizes & persists a new submission.
func CreateContact(contact *Contact) error {
	if contact.Status == "" {
		contact.Status = NEW_STATUS
	}

	if contact.Source == "" {
		contact.Source = WEBSITE_SOURCE
	}

	if contact.Priority == "" {
		contact.Priority = MEDIUM_PRIORITY
	}

	contact.Sanitize()

	return db.Create(contact).Error
}

func FindContact(id interface{}) (*Contact, error) {
	contact := Contact{}

	err := db.First(&contact, "id = ?", id).Error
	if err != nil {
		return nil, err
	}

	return &contact, nil
}

// UpdateContact applies an allow-listed partial patch to an existing
// contact & returns the updated record. Column names outside the
// allow-list are never written, even if present in 'data'.
func UpdateContact(id string, data map[string]interface{}) (*Contact, error) {
	contact, err := FindContact(id)
	if err != nil {
		return nil, err
	}

	if notes, ok := data["notes"].(string); ok {
		data["notes"] = stripMarkup(notes)
	}

	err = db.Model(contact).Select(contactUpdatableColumns).Updates(data).Error
	if err != nil {
		return nil, err
	}

	return FindContact(id)
}

func MarkContactAsRead(id string) (*Contact, error) {
	return UpdateContact(id, map[string]interface{}{"is_read": true})
}

func ArchiveContact(id string) (*Contact, error) {
	return UpdateContact(id, map[string]interface{}{"is_archived": true})
}

func DeleteContact(id string) error {
	result := db.Delete(&Contact{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// GetContactStats aggregates counts over the full collection:
// total, unread, per-status counts & submissions from the last 7 days.
func GetContactStats() (*ContactStats, error) {
	stats := ContactStats{ByStatus: map[string]int64{}}

	err := db.Model(&Contact{}).Count(&stats.Total).Error
	if err != nil {
		return nil, err
	}

	err = db.Model(&Contact{}).Where("is_read = ?", false).Count(&stats.Unread).Error
	if err != nil {
		return nil, err
	}

	statusCounts := []struct {
		Status string
		Count  int64
	}{}

	err = db.Model(&Contact{}).Select("status, count(*) as count").Group("status").Find(&statusCounts).Error
	if err != nil {
		return nil, err
	}

	for _, row := range statusCounts {
		stats.ByStatus[row.Status] = row.Count
	}

	sevenDaysAgo := time.Now().AddDate(0, 0, -7)
	err = db.Model(&Contact{}).Where("created_at >= ?", sevenDaysAgo).Count(&stats.RecentContacts).Error
	if err != nil {
		return nil, err
	}

	return &stats, nil
}

// ---------------------------------------------------------------------------------//
// Helper functions
// --------------------------------------------------------------------------------//

func stripMarkup(value string) string {
	return markupRegexp.ReplaceAllString(value, "")
}

func containsString(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}

	return false
}
