package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"parkdeck/internal/service"
)

// ParkingHandler exposes the check-in/check-out operations and the
// session queries.
type ParkingHandler struct {
	svc    *service.ParkingService
	logger *zap.Logger
}

// NewParkingHandler builds handler set.
func NewParkingHandler(svc *service.ParkingService, logger *zap.Logger) *ParkingHandler {
	return &ParkingHandler{svc: svc, logger: logger}
}

type checkInRequest struct {
	LicensePlate   string `json:"license_plate"`
	SpotIdentifier string `json:"spot_identifier"`
	Make           string `json:"make"`
	Model          string `json:"model"`
	Color          string `json:"color"`
	Notes          string `json:"notes"`
}

type checkOutRequest struct {
	SpotIdentifier string `json:"spot_identifier"`
	Notes          string `json:"notes"`
}

// CheckIn handles POST /api/parking/check-in.
func (h *ParkingHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req checkInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.LicensePlate == "" || req.SpotIdentifier == "" {
		writeError(w, http.StatusBadRequest, "license_plate and spot_identifier are required")
		return
	}

	session, err := h.svc.CheckIn(r.Context(), service.CheckInInput{
		SpotIdentifier: req.SpotIdentifier,
		LicensePlate:   req.LicensePlate,
		Make:           req.Make,
		Model:          req.Model,
		Color:          req.Color,
		Notes:          req.Notes,
	})
	if err != nil {
		h.logger.Warn("check-in rejected", zap.Error(err))
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

// CheckOut handles POST /api/parking/check-out.
func (h *ParkingHandler) CheckOut(w http.ResponseWriter, r *http.Request) {
	var req checkOutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.SpotIdentifier == "" {
		writeError(w, http.StatusBadRequest, "spot_identifier is required")
		return
	}

	session, err := h.svc.CheckOut(r.Context(), req.SpotIdentifier, req.Notes)
	if err != nil {
		h.logger.Warn("check-out rejected", zap.Error(err))
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// CheckOutByPlate handles POST /api/parking/check-out/license-plate/{plate}.
func (h *ParkingHandler) CheckOutByPlate(w http.ResponseWriter, r *http.Request) {
	plate := r.PathValue("plate")
	if plate == "" {
		writeError(w, http.StatusBadRequest, "license plate is required")
		return
	}

	session, err := h.svc.CheckOutByLicensePlate(r.Context(), plate)
	if err != nil {
		h.logger.Warn("check-out rejected", zap.Error(err))
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// Sessions handles GET /api/parking/sessions.
func (h *ParkingHandler) Sessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.svc.Sessions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch sessions")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"sessions": sessions})
}

// ActiveSessions handles GET /api/parking/sessions/active.
func (h *ParkingHandler) ActiveSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.svc.ActiveSessions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch active sessions")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"sessions": sessions})
}

// CompletedSessions handles GET /api/parking/sessions/completed.
func (h *ParkingHandler) CompletedSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.svc.CompletedSessions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch completed sessions")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"sessions": sessions})
}

// SessionByID handles GET /api/parking/sessions/{id}.
func (h *ParkingHandler) SessionByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	session, err := h.svc.SessionByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// SessionsByCar handles GET /api/parking/sessions/car/{carId}.
func (h *ParkingHandler) SessionsByCar(w http.ResponseWriter, r *http.Request) {
	carID, err := strconv.ParseInt(r.PathValue("carId"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid car id")
		return
	}

	sessions, err := h.svc.SessionsByCar(r.Context(), carID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch sessions")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"sessions": sessions})
}

// SpotOccupancy handles GET /api/parking/occupancy/spot/{spotIdentifier}.
func (h *ParkingHandler) SpotOccupancy(w http.ResponseWriter, r *http.Request) {
	spotIdentifier := r.PathValue("spotIdentifier")
	if spotIdentifier == "" {
		writeError(w, http.StatusBadRequest, "spot identifier is required")
		return
	}

	status, err := h.svc.SpotOccupancy(r.Context(), spotIdentifier)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// BillingConfig handles GET /api/billing/config.
func (h *ParkingHandler) BillingConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Rates())
}
