package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"parkdeck/internal/models"
	"parkdeck/internal/service"
)

// CatalogHandler exposes garage reference-data reads and spot
// registration.
type CatalogHandler struct {
	svc    *service.CatalogService
	logger *zap.Logger
}

// NewCatalogHandler builds handler set.
func NewCatalogHandler(svc *service.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{svc: svc, logger: logger}
}

// Floors handles GET /api/catalog/floors.
func (h *CatalogHandler) Floors(w http.ResponseWriter, r *http.Request) {
	floors, err := h.svc.Floors(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch floors")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"floors": floors})
}

// BaysByFloor handles GET /api/catalog/floors/{floorId}/bays.
func (h *CatalogHandler) BaysByFloor(w http.ResponseWriter, r *http.Request) {
	floorID, err := strconv.ParseInt(r.PathValue("floorId"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid floor id")
		return
	}

	bays, err := h.svc.BaysByFloor(r.Context(), floorID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch bays")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"bays": bays})
}

// Spots handles GET /api/catalog/spots.
func (h *CatalogHandler) Spots(w http.ResponseWriter, r *http.Request) {
	spots, err := h.svc.Spots(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch spots")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"spots": spots})
}

// SpotTypes handles GET /api/catalog/spot-types.
func (h *CatalogHandler) SpotTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.svc.SpotTypes(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch spot types")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"spot_types": types})
}

// Cars handles GET /api/catalog/cars.
func (h *CatalogHandler) Cars(w http.ResponseWriter, r *http.Request) {
	cars, err := h.svc.Cars(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch cars")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"cars": cars})
}

type registerSpotRequest struct {
	SpotIdentifier string `json:"spot_identifier"`
	SpotNumber     string `json:"spot_number"`
	BayID          int64  `json:"bay_id"`
	SpotTypeID     int64  `json:"spot_type_id"`
}

// RegisterSpot handles POST /api/catalog/spots.
func (h *CatalogHandler) RegisterSpot(w http.ResponseWriter, r *http.Request) {
	var req registerSpotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.SpotIdentifier == "" || req.BayID == 0 || req.SpotTypeID == 0 {
		writeError(w, http.StatusBadRequest, "spot_identifier, bay_id and spot_type_id are required")
		return
	}

	spot, err := h.svc.RegisterSpot(r.Context(), &models.Spot{
		SpotIdentifier: req.SpotIdentifier,
		SpotNumber:     req.SpotNumber,
		BayID:          req.BayID,
		SpotTypeID:     req.SpotTypeID,
		Active:         true,
	})
	if err != nil {
		h.logger.Warn("spot registration rejected", zap.Error(err))
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, spot)
}
