// Package api exposes the backend over HTTP/JSON for the mobile companion
// and any remote desktop client, plus an SSE stream for live device-state
// pushes.
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/colinswan/sentinel/internal/coach"
	"github.com/colinswan/sentinel/internal/db"
	"github.com/colinswan/sentinel/internal/events"
)

// Server carries the handler dependencies.
type Server struct {
	Coach *coach.Generator
	Bus   *events.Bus
}

// NewServer wires a server against the default event bus.
func NewServer(gen *coach.Generator) *Server {
	return &Server{Coach: gen, Bus: events.Default}
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// writeJSON writes a JSON body with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("api: encoding response: %v", err)
	}
}

// writeError maps the service failure taxonomy onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, db.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error(), Code: "not_found"})
	case errors.Is(err, db.ErrCodeExpired):
		writeJSON(w, http.StatusGone, errorResponse{Error: err.Error(), Code: "code_expired"})
	case errors.Is(err, db.ErrInvalidState):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error(), Code: "invalid_state"})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
}

// decodeJSON parses a request body, rejecting unparseable input.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return false
	}
	return true
}
