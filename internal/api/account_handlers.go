package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/colinswan/sentinel/internal/db"
)

type createAccountRequest struct {
	Name string `json:"name"`
}

// CreateAccountHandler creates an account with default preferences.
func (s *Server) CreateAccountHandler(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "name is required"})
		return
	}

	account, err := db.CreateAccount(req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, account)
}

// GetAccountHandler returns an account by id.
func (s *Server) GetAccountHandler(w http.ResponseWriter, r *http.Request) {
	account, err := db.GetAccount(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

// UpdateSettingsHandler patches the account's preference fields.
func (s *Server) UpdateSettingsHandler(w http.ResponseWriter, r *http.Request) {
	var settings db.AccountSettings
	if !decodeJSON(w, r, &settings) {
		return
	}

	account, err := db.UpdateAccountSettings(mux.Vars(r)["id"], settings)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

type meetingModeRequest struct {
	Minutes int `json:"minutes"`
}

// SetMeetingModeHandler suspends lock enforcement for the given minutes.
func (s *Server) SetMeetingModeHandler(w http.ResponseWriter, r *http.Request) {
	var req meetingModeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Minutes <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "minutes must be positive"})
		return
	}

	account, err := db.SetMeetingMode(mux.Vars(r)["id"], time.Duration(req.Minutes)*time.Minute)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

// ClearMeetingModeHandler resumes enforcement immediately.
func (s *Server) ClearMeetingModeHandler(w http.ResponseWriter, r *http.Request) {
	if err := db.ClearMeetingMode(mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type addLockMessageRequest struct {
	Text string `json:"text"`
}

// AddLockMessageHandler appends to the lock-screen message library.
func (s *Server) AddLockMessageHandler(w http.ResponseWriter, r *http.Request) {
	var req addLockMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Text == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "text is required"})
		return
	}

	msg, err := db.AddLockMessage(mux.Vars(r)["id"], req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

// ListLockMessagesHandler returns the full message library.
func (s *Server) ListLockMessagesHandler(w http.ResponseWriter, r *http.Request) {
	msgs, err := db.ListLockMessages(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}

// GetProfileHandler returns the coaching profile.
func (s *Server) GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	profile, err := db.GetProfile(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// UpdateProfileHandler applies profile changes.
func (s *Server) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	var update db.ProfileUpdate
	if !decodeJSON(w, r, &update) {
		return
	}

	profile, err := db.UpdateProfile(mux.Vars(r)["id"], update)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
