package api

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter builds the full API surface.
func NewRouter(s *Server) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "OK")
	}).Methods("GET")

	// Accounts, settings, meeting mode, lock-message library
	r.HandleFunc("/api/accounts", s.CreateAccountHandler).Methods("POST")
	r.HandleFunc("/api/accounts/{id}", s.GetAccountHandler).Methods("GET")
	r.HandleFunc("/api/accounts/{id}/settings", s.UpdateSettingsHandler).Methods("PATCH")
	r.HandleFunc("/api/accounts/{id}/meeting-mode", s.SetMeetingModeHandler).Methods("POST")
	r.HandleFunc("/api/accounts/{id}/meeting-mode", s.ClearMeetingModeHandler).Methods("DELETE")
	r.HandleFunc("/api/accounts/{id}/lock-messages", s.AddLockMessageHandler).Methods("POST")
	r.HandleFunc("/api/accounts/{id}/lock-messages", s.ListLockMessagesHandler).Methods("GET")

	// Coaching profile
	r.HandleFunc("/api/accounts/{id}/profile", s.GetProfileHandler).Methods("GET")
	r.HandleFunc("/api/accounts/{id}/profile", s.UpdateProfileHandler).Methods("PUT")

	// Devices and pairing
	r.HandleFunc("/api/devices", s.CreateDeviceHandler).Methods("POST")
	r.HandleFunc("/api/devices/{id}/status", s.DeviceStatusHandler).Methods("GET")
	r.HandleFunc("/api/devices/{id}/lock-info", s.LockInfoHandler).Methods("GET")
	r.HandleFunc("/api/devices/{id}/heartbeat", s.HeartbeatHandler).Methods("POST")
	r.HandleFunc("/api/devices/{id}/pairing-code", s.GeneratePairingCodeHandler).Methods("POST")
	r.HandleFunc("/api/devices/{id}/pairing-code", s.GetPairingCodeHandler).Methods("GET")
	r.HandleFunc("/api/accounts/{id}/devices", s.ListDevicesHandler).Methods("GET")
	r.HandleFunc("/api/accounts/{id}/setup-status", s.SetupStatusHandler).Methods("GET")
	r.HandleFunc("/api/pairing/validate", s.ValidatePairingCodeHandler).Methods("POST")
	r.HandleFunc("/api/pairing/claim", s.ClaimPairingCodeHandler).Methods("POST")

	// Lock coordinator
	r.HandleFunc("/api/devices/{id}/lock", s.LockHandler).Methods("POST")
	r.HandleFunc("/api/devices/{id}/unlock", s.UnlockHandler).Methods("POST")
	r.HandleFunc("/api/devices/{id}/emergency-unlock", s.EmergencyUnlockHandler).Methods("POST")
	r.HandleFunc("/api/scan", s.ScanHandler).Methods("POST")

	// Sessions and stats
	r.HandleFunc("/api/sessions", s.StartSessionHandler).Methods("POST")
	r.HandleFunc("/api/sessions/{id}/end", s.EndSessionHandler).Methods("POST")
	r.HandleFunc("/api/accounts/{id}/stats", s.SessionStatsHandler).Methods("GET")
	r.HandleFunc("/api/accounts/{id}/dvt-risk", s.DVTRiskHandler).Methods("GET")
	r.HandleFunc("/api/accounts/{id}/past-win", s.PastWinHandler).Methods("GET")
	r.HandleFunc("/api/accounts/{id}/emergency-unlocks", s.ListEmergencyUnlocksHandler).Methods("GET")

	// Coaching feedback
	r.HandleFunc("/api/coach/feedback", s.CoachFeedbackHandler).Methods("POST")

	// Projects and kanban
	r.HandleFunc("/api/projects", s.CreateProjectHandler).Methods("POST")
	r.HandleFunc("/api/projects/{id}", s.GetProjectHandler).Methods("GET")
	r.HandleFunc("/api/projects/{id}", s.DeleteProjectHandler).Methods("DELETE")
	r.HandleFunc("/api/projects/{id}/activate", s.ActivateProjectHandler).Methods("POST")
	r.HandleFunc("/api/projects/{id}/columns", s.AddColumnHandler).Methods("POST")
	r.HandleFunc("/api/projects/{id}/columns/reorder", s.ReorderColumnsHandler).Methods("POST")
	r.HandleFunc("/api/accounts/{id}/projects", s.ListProjectsHandler).Methods("GET")
	r.HandleFunc("/api/accounts/{id}/projects/active", s.ActiveProjectHandler).Methods("GET")
	r.HandleFunc("/api/columns/{id}", s.DeleteColumnHandler).Methods("DELETE")
	r.HandleFunc("/api/columns/{id}/tasks", s.CreateTaskHandler).Methods("POST")
	r.HandleFunc("/api/tasks/{id}", s.UpdateTaskHandler).Methods("PATCH")
	r.HandleFunc("/api/tasks/{id}", s.DeleteTaskHandler).Methods("DELETE")
	r.HandleFunc("/api/tasks/{id}/move", s.MoveTaskHandler).Methods("POST")

	// Live device-state stream
	r.HandleFunc("/api/events", s.EventsHandler).Methods("GET")

	return r
}
