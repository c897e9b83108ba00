package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/colinswan/sentinel/internal/db"
)

type startSessionRequest struct {
	AccountID       string `json:"account_id"`
	DeviceID        string `json:"device_id"`
	TaskDescription string `json:"task_description"`
	ProjectID       *uint  `json:"project_id"`
	TaskID          *uint  `json:"task_id"`
}

// StartSessionHandler opens a focus interval on a device.
func (s *Server) StartSessionHandler(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.AccountID == "" || req.DeviceID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "account_id and device_id are required"})
		return
	}

	session, err := db.StartSession(req.AccountID, req.DeviceID, req.TaskDescription, req.ProjectID, req.TaskID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

type endSessionRequest struct {
	DidUnlockProperly bool   `json:"did_unlock_properly"`
	Note              string `json:"note"`
}

// EndSessionHandler closes a session outside the unlock path.
func (s *Server) EndSessionHandler(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := pathUint(w, r, "id")
	if !ok {
		return
	}
	var req endSessionRequest
	if r.ContentLength > 0 && !decodeJSON(w, r, &req) {
		return
	}

	session, err := db.EndSession(sessionID, req.DidUnlockProperly, req.Note)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// SessionStatsHandler returns compliance rate and total focused minutes.
func (s *Server) SessionStatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := db.GetSessionStats(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// DVTRiskHandler returns the current wellness heuristic.
func (s *Server) DVTRiskHandler(w http.ResponseWriter, r *http.Request) {
	risk, err := db.GetDVTRisk(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, risk)
}

// PastWinHandler samples one substantive past session for reinforcement.
func (s *Server) PastWinHandler(w http.ResponseWriter, r *http.Request) {
	win, err := db.RandomPastWin(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, win)
}

type coachFeedbackRequest struct {
	AccountID string `json:"account_id"`
	Note      string `json:"note"`
}

// CoachFeedbackHandler generates coaching feedback for a note without
// touching any session.
func (s *Server) CoachFeedbackHandler(w http.ResponseWriter, r *http.Request) {
	var req coachFeedbackRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	profile, err := db.GetProfile(req.AccountID)
	if err != nil {
		writeError(w, err)
		return
	}

	fb := s.Coach.Generate(r.Context(), profile, req.Note)
	writeJSON(w, http.StatusOK, fb)
}

func parseUint(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	return uint(id), err
}

// pathUint parses the {id} path segment as an unsigned integer.
func pathUint(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id '" + raw + "'"})
		return 0, false
	}
	return uint(id), true
}
