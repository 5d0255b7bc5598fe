package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/techedushop/contactus/models"
	"github.com/techedushop/contactus/server/work"
	"github.com/techedushop/contactus/version"
)

type createContactPayload struct {
	Name    string `json:"name"`
	School  string `json:"school"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// createContact handles the public submission endpoint. The response is
// written as soon as the record is persisted - the two notification
// emails are handed to the worker pool & never block or fail the
// request.
func (app *App) createContact(rw http.ResponseWriter, r *http.Request) {
	payload := createContactPayload{}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeResponse(rw, ResponsePayload{Status: "error", Message: "Invalid request body"}, http.StatusBadRequest)
		return
	}

	contact := models.Contact{
		Name:      payload.Name,
		School:    payload.School,
		Email:     payload.Email,
		Phone:     payload.Phone,
		Message:   payload.Message,
		Source:    models.WEBSITE_SOURCE,
		IPAddress: clientIP(r),
		UserAgent: r.UserAgent(),
	}

	if fieldErrors := validateCreatePayload(&contact); len(fieldErrors) > 0 {
		writeResponse(rw, ResponsePayload{Status: "error", Message: "Validation failed", Errors: fieldErrors}, http.StatusBadRequest)
		return
	}

	if err := models.CreateContact(&contact); err != nil {
		logg.Errorf("failed to create contact: %v", err)
		writeResponse(rw, ResponsePayload{Status: "error", Message: "Something went wrong, please try again later"}, http.StatusInternalServerError)
		return
	}

	logg.Infof("New contact created: %v from %v", contact.ID, contact.Email)

	app.enqueueNotificationEmails(&contact)

	writeResponse(rw, ResponsePayload{
		Status:  "success",
		Message: "Thank you for contacting us! We will get back to you soon.",
		Data:    map[string]interface{}{"contact": contact.Public()},
	}, http.StatusCreated)
}

func (app *App) getContacts(rw http.ResponseWriter, r *http.Request) {
	query, fieldErrors := validateListQuery(r.URL.Query())
	if len(fieldErrors) > 0 {
		writeResponse(rw, ResponsePayload{Status: "error", Message: "Validation failed", Errors: fieldErrors}, http.StatusBadRequest)
		return
	}

	contacts, paging, err := models.ListContacts(query)
	if err != nil {
		logg.Errorf("failed to list contacts: %v", err)
		writeResponse(rw, ResponsePayload{Status: "error", Message: "Something went wrong, please try again later"}, http.StatusInternalServerError)
		return
	}

	writeResponse(rw, ResponsePayload{
		Status:     "success",
		Results:    len(contacts),
		Pagination: paging,
		Data:       map[string]interface{}{"contacts": contacts},
	}, http.StatusOK)
}

func (app *App) getContact(rw http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if fieldErrors := validateContactID(id); len(fieldErrors) > 0 {
		writeResponse(rw, ResponsePayload{Status: "error", Message: "Validation failed", Errors: fieldErrors}, http.StatusBadRequest)
		return
	}

	contact, err := models.FindContact(id)
	if err != nil {
		writeContactLookupError(rw, err)
		return
	}

	writeResponse(rw, ResponsePayload{
		Status: "success",
		Data:   map[string]interface{}{"contact": contact},
	}, http.StatusOK)
}

func (app *App) updateContact(rw http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if fieldErrors := validateContactID(id); len(fieldErrors) > 0 {
		writeResponse(rw, ResponsePayload{Status: "error", Message: "Validation failed", Errors: fieldErrors}, http.StatusBadRequest)
		return
	}

	data := make(map[string]interface{})
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		writeResponse(rw, ResponsePayload{Status: "error", Message: "Invalid request body"}, http.StatusBadRequest)
		return
	}

	// Fields outside the allow-list are dropped, not rejected
	removeUnknownFields(data, contactUpdatableFields)

	if fieldErrors := validateUpdatePayload(data); len(fieldErrors) > 0 {
		writeResponse(rw, ResponsePayload{Status: "error", Message: "Validation failed", Errors: fieldErrors}, http.StatusBadRequest)
		return
	}

	contact, err := models.UpdateContact(id, updateColumns(data))
	if err != nil {
		writeContactLookupError(rw, err)
		return
	}

	logg.Infof("Contact updated: %v", contact.ID)

	writeResponse(rw, ResponsePayload{
		Status:  "success",
		Message: "Contact updated successfully",
		Data:    map[string]interface{}{"contact": contact},
	}, http.StatusOK)
}

func (app *App) deleteContact(rw http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if fieldErrors := validateContactID(id); len(fieldErrors) > 0 {
		writeResponse(rw, ResponsePayload{Status: "error", Message: "Validation failed", Errors: fieldErrors}, http.StatusBadRequest)
		return
	}

	if err := models.DeleteContact(id); err != nil {
		writeContactLookupError(rw, err)
		return
	}

	logg.Infof("Contact deleted: %v", id)

	writeResponse(rw, ResponsePayload{
		Status:  "success",
		Message: "Contact deleted successfully",
	}, http.StatusOK)
}

func (app *App) getContactStats(rw http.ResponseWriter, r *http.Request) {
	stats, err := models.GetContactStats()
	if err != nil {
		logg.Errorf("failed to fetch contact stats: %v", err)
		writeResponse(rw, ResponsePayload{Status: "error", Message: "Something went wrong, please try again later"}, http.StatusInternalServerError)
		return
	}

	writeResponse(rw, ResponsePayload{Status: "success", Data: stats}, http.StatusOK)
}

func (app *App) markContactAsRead(rw http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if fieldErrors := validateContactID(id); len(fieldErrors) > 0 {
		writeResponse(rw, ResponsePayload{Status: "error", Message: "Validation failed", Errors: fieldErrors}, http.StatusBadRequest)
		return
	}

	contact, err := models.MarkContactAsRead(id)
	if err != nil {
		writeContactLookupError(rw, err)
		return
	}

	writeResponse(rw, ResponsePayload{
		Status:  "success",
		Message: "Contact marked as read",
		Data:    map[string]interface{}{"contact": contact},
	}, http.StatusOK)
}

func (app *App) archiveContact(rw http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if fieldErrors := validateContactID(id); len(fieldErrors) > 0 {
		writeResponse(rw, ResponsePayload{Status: "error", Message: "Validation failed", Errors: fieldErrors}, http.StatusBadRequest)
		return
	}

	contact, err := models.ArchiveContact(id)
	if err != nil {
		writeContactLookupError(rw, err)
		return
	}

	writeResponse(rw, ResponsePayload{
		Status:  "success",
		Message: "Contact archived successfully",
		Data:    map[string]interface{}{"contact": contact},
	}, http.StatusOK)
}

func (app *App) healthCheck(rw http.ResponseWriter, r *http.Request) {
	writeResponse(rw, ResponsePayload{
		Status:  "success",
		Message: "Server is running",
		Data: map[string]interface{}{
			"environment": app.config.Env,
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
		},
	}, http.StatusOK)
}

func (app *App) apiIndex(rw http.ResponseWriter, r *http.Request) {
	writeResponse(rw, ResponsePayload{
		Status:  "success",
		Message: "Welcome to TechEduShop API",
		Data: map[string]interface{}{
			"version": version.Version,
			"endpoints": map[string]string{
				"health":   "/health",
				"contacts": "/api/v1/contacts",
			},
		},
	}, http.StatusOK)
}

func notFoundHandler(rw http.ResponseWriter, r *http.Request) {
	writeResponse(rw, ResponsePayload{
		Status:  "error",
		Message: "Cannot find " + r.URL.Path + " on this server",
	}, http.StatusNotFound)
}

// ---------------------------------------------------------------------------------//
// Handler helpers
// --------------------------------------------------------------------------------//

func (app *App) enqueueNotificationEmails(contact *models.Contact) {
	jobs := []work.JobParams{
		{
			Name:    "notify admin of " + contact.ID,
			Handler: CONTACT_NOTIFICATION_HANDLER,
			Args:    map[string]interface{}{"contact_id": contact.ID},
		},
		{
			Name:    "auto-reply to " + contact.ID,
			Handler: AUTO_REPLY_HANDLER,
			Args:    map[string]interface{}{"contact_id": contact.ID},
		},
	}

	for _, job := range jobs {
		if err := app.workerPool.Enqueue(job); err != nil {
			logg.Errorf("failed to enqueue %q: %v", job.Name, err)
		}
	}
}

func writeContactLookupError(rw http.ResponseWriter, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		writeResponse(rw, ResponsePayload{Status: "error", Message: "Contact not found"}, http.StatusNotFound)
		return
	}

	logg.Errorf("contact lookup failed: %v", err)
	writeResponse(rw, ResponsePayload{Status: "error", Message: "Something went wrong, please try again later"}, http.StatusInternalServerError)
}
