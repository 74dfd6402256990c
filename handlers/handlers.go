package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Dipxssi/synergysphere/logging"
	"github.com/Dipxssi/synergysphere/middleware"
	"github.com/Dipxssi/synergysphere/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// response is the envelope every endpoint answers with.
type response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, resp response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

// writeError maps the service failure taxonomy onto HTTP status codes.
// Unexpected errors are logged and reported without internals.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case services.IsValidation(err):
		writeJSON(w, http.StatusBadRequest, response{Success: false, Message: err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, response{Success: false, Message: err.Error()})
	case errors.Is(err, services.ErrAccessDenied):
		writeJSON(w, http.StatusForbidden, response{Success: false, Message: err.Error()})
	case errors.Is(err, services.ErrNotFound):
		writeJSON(w, http.StatusNotFound, response{Success: false, Message: err.Error()})
	case errors.Is(err, services.ErrConflict):
		writeJSON(w, http.StatusConflict, response{Success: false, Message: err.Error()})
	default:
		logging.Logger.Errorf("Event ID: INTERNAL_ERROR, Description: Unexpected error: %v", err)
		writeJSON(w, http.StatusInternalServerError, response{Success: false, Message: "Internal server error"})
	}
}

// actorID pulls the authenticated user id the middleware stored. A miss means
// the route was wired without the auth middleware.
func actorID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Authorization required", http.StatusUnauthorized)
		return primitive.NilObjectID, false
	}
	return id, true
}

func pathObjectID(w http.ResponseWriter, raw string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, response{Success: false, Message: "invalid id format"})
		return primitive.NilObjectID, false
	}
	return id, true
}
