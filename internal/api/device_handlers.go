package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/colinswan/sentinel/internal/db"
)

type createDeviceRequest struct {
	AccountID string `json:"account_id"`
	Name      string `json:"name"`
	Kind      string `json:"kind"`
}

// CreateDeviceHandler registers a device. Secondaries normally arrive via
// the pairing claim instead.
func (s *Server) CreateDeviceHandler(w http.ResponseWriter, r *http.Request) {
	var req createDeviceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.AccountID == "" || req.Name == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "account_id and name are required"})
		return
	}

	device, err := db.CreateDevice(req.AccountID, req.Name, req.Kind)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, device)
}

// DeviceStatusHandler returns the device status projection.
func (s *Server) DeviceStatusHandler(w http.ResponseWriter, r *http.Request) {
	status, err := db.GetDeviceStatus(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// LockInfoHandler returns the lock-screen projection.
func (s *Server) LockInfoHandler(w http.ResponseWriter, r *http.Request) {
	info, err := db.GetLockInfo(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// HeartbeatHandler records that the primary app is still running.
func (s *Server) HeartbeatHandler(w http.ResponseWriter, r *http.Request) {
	if err := db.Heartbeat(mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListDevicesHandler returns every device on the account.
func (s *Server) ListDevicesHandler(w http.ResponseWriter, r *http.Request) {
	devices, err := db.ListDevicesByAccount(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, devices)
}

// SetupStatusHandler reports pairing progress.
func (s *Server) SetupStatusHandler(w http.ResponseWriter, r *http.Request) {
	status, err := db.GetSetupStatus(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

type pairingCodeResponse struct {
	Code   string    `json:"code"`
	Expiry time.Time `json:"expiry"`
}

// GeneratePairingCodeHandler issues a fresh code for a primary device.
func (s *Server) GeneratePairingCodeHandler(w http.ResponseWriter, r *http.Request) {
	code, expiry, err := db.GeneratePairingCode(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, pairingCodeResponse{Code: code, Expiry: expiry})
}

// GetPairingCodeHandler returns the device's live code, if any.
func (s *Server) GetPairingCodeHandler(w http.ResponseWriter, r *http.Request) {
	code, expiry, err := db.GetPairingCode(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pairingCodeResponse{Code: code, Expiry: expiry})
}

type validateCodeRequest struct {
	Code string `json:"code"`
}

type validateCodeResponse struct {
	Valid bool `json:"valid"`
}

// ValidatePairingCodeHandler gives live feedback while the user types a
// code. The code is not consumed.
func (s *Server) ValidatePairingCodeHandler(w http.ResponseWriter, r *http.Request) {
	var req validateCodeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	valid, err := db.ValidatePairingCode(req.Code)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, validateCodeResponse{Valid: valid})
}

type claimCodeRequest struct {
	Code       string `json:"code"`
	DeviceName string `json:"device_name"`
}

// ClaimPairingCodeHandler consumes a code and creates the secondary
// device.
func (s *Server) ClaimPairingCodeHandler(w http.ResponseWriter, r *http.Request) {
	var req claimCodeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.DeviceName == "" {
		req.DeviceName = "Mobile"
	}

	result, err := db.ClaimPairingCode(req.Code, req.DeviceName)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}
