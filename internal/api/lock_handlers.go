package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/colinswan/sentinel/internal/checkpoint"
	"github.com/colinswan/sentinel/internal/db"
)

type lockRequest struct {
	Message string `json:"message"`
	Force   bool   `json:"force"`
}

// LockHandler attempts the locked transition. A meeting-mode refusal comes
// back as 200 with locked=false, not as an error.
func (s *Server) LockHandler(w http.ResponseWriter, r *http.Request) {
	var req lockRequest
	if r.ContentLength > 0 && !decodeJSON(w, r, &req) {
		return
	}

	result, err := db.Lock(mux.Vars(r)["id"], req.Message, req.Force)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type unlockRequest struct {
	Note string `json:"note"`
	// When set, coaching feedback is generated from the note and stored
	// on the session. Generation failures degrade to a canned response
	// and never block the unlock.
	WithFeedback bool `json:"with_feedback"`
}

type unlockResponse struct {
	DeviceID   string `json:"device_id"`
	Status     string `json:"status"`
	AIFeedback string `json:"ai_feedback,omitempty"`
	Sentiment  string `json:"sentiment,omitempty"`
}

// UnlockHandler is the normal path, called by the secondary device after
// the accountability flow.
func (s *Server) UnlockHandler(w http.ResponseWriter, r *http.Request) {
	var req unlockRequest
	if r.ContentLength > 0 && !decodeJSON(w, r, &req) {
		return
	}
	deviceID := mux.Vars(r)["id"]

	feedbackText := ""
	sentiment := ""
	if req.WithFeedback && req.Note != "" {
		device, err := db.GetDevice(deviceID)
		if err != nil {
			writeError(w, err)
			return
		}
		profile, _ := db.GetProfile(device.AccountID)
		fb := s.Coach.Generate(r.Context(), profile, req.Note)
		feedbackText = fb.Text
		sentiment = fb.Sentiment
	}

	device, err := db.Unlock(deviceID, req.Note, feedbackText)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, unlockResponse{
		DeviceID:   device.ID,
		Status:     device.Status,
		AIFeedback: feedbackText,
		Sentiment:  sentiment,
	})
}

type emergencyUnlockRequest struct {
	Reason string `json:"reason"`
}

// EmergencyUnlockHandler bypasses the accountability flow and audits the
// bypass.
func (s *Server) EmergencyUnlockHandler(w http.ResponseWriter, r *http.Request) {
	var req emergencyUnlockRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Reason == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "reason is required"})
		return
	}

	device, err := db.EmergencyUnlock(mux.Vars(r)["id"], req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, unlockResponse{DeviceID: device.ID, Status: device.Status})
}

// ListEmergencyUnlocksHandler returns the audit log, newest first.
func (s *Server) ListEmergencyUnlocksHandler(w http.ResponseWriter, r *http.Request) {
	records, err := db.ListEmergencyUnlocks(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

type scanRequest struct {
	DeviceID string `json:"device_id"`
	Payload  string `json:"payload"`
}

type scanResponse struct {
	Valid    bool   `json:"valid"`
	Location string `json:"location,omitempty"`
}

// ScanHandler validates a QR payload scanned by the secondary device. An
// unrecognized payload is a valid=false result, not an error.
func (s *Server) ScanHandler(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if _, err := db.GetDevice(req.DeviceID); err != nil {
		writeError(w, err)
		return
	}

	location, err := checkpoint.Parse(req.Payload)
	if err != nil {
		writeJSON(w, http.StatusOK, scanResponse{Valid: false})
		return
	}
	writeJSON(w, http.StatusOK, scanResponse{Valid: true, Location: location})
}
