package server

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"github.com/techedushop/contactus/models"
)

// ResponsePayload is the JSON envelope for every endpoint.
type ResponsePayload struct {
	Status     string         `json:"status"`
	Message    string         `json:"message,omitempty"`
	Results    int            `json:"results,omitempty"`
	Pagination *models.Paging `json:"pagination,omitempty"`
	Data       interface{}    `json:"data,omitempty"`
	Errors     []FieldError   `json:"errors,omitempty"`
}

// ---------------------------------------------------------------------------------//
// Handler Helper functions
// --------------------------------------------------------------------------------//

func writeResponse(rw http.ResponseWriter, payLoad ResponsePayload, statusCode int) {
	if statusCode >= http.StatusInternalServerError {
		logg.Error(payLoad.Message)
	}

	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(statusCode)
	json.NewEncoder(rw).Encode(payLoad)
}

func removeUnknownFields(args map[string]interface{}, validFields map[string]bool) {
	for key := range args {
		if !validFields[key] {
			delete(args, key)
		}
	}
}

// clientIP resolves the originating address, preferring the first entry
// of X-Forwarded-For when the server sits behind a proxy.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}
