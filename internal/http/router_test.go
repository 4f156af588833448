package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"parkdeck/internal/http/handlers"
	"parkdeck/internal/models"
	"parkdeck/internal/repository"
	"parkdeck/internal/service"
)

type memTx struct{}

func (memTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memCatalog struct {
	spots map[string]*models.Spot
	cars  map[string]*models.Car
}

func (m *memCatalog) SpotByIdentifier(_ context.Context, identifier string) (*models.Spot, error) {
	spot, ok := m.spots[identifier]
	if !ok {
		return nil, repository.ErrSpotNotFound
	}
	return spot, nil
}

func (m *memCatalog) SpotByIdentifierForUpdate(ctx context.Context, identifier string) (*models.Spot, error) {
	return m.SpotByIdentifier(ctx, identifier)
}

func (m *memCatalog) CarByPlate(_ context.Context, plate string) (*models.Car, error) {
	car, ok := m.cars[plate]
	if !ok {
		return nil, repository.ErrCarNotFound
	}
	return car, nil
}

func (m *memCatalog) CarByPlateForUpdate(ctx context.Context, plate string) (*models.Car, error) {
	return m.CarByPlate(ctx, plate)
}

func (m *memCatalog) CreateCar(_ context.Context, car *models.Car) (*models.Car, error) {
	stored := *car
	stored.ID = int64(len(m.cars) + 1)
	m.cars[stored.LicensePlate] = &stored
	return &stored, nil
}

type memSessions struct {
	sessions map[int64]*models.ParkingSession
	nextID   int64
}

func (m *memSessions) Create(_ context.Context, session *models.ParkingSession) (*models.ParkingSession, error) {
	stored := *session
	stored.ID = m.nextID
	m.nextID++
	m.sessions[stored.ID] = &stored
	return &stored, nil
}

func (m *memSessions) Complete(_ context.Context, sessionID int64, checkOutTime time.Time, fee float64, notes string) error {
	stored, ok := m.sessions[sessionID]
	if !ok || stored.CheckOutTime != nil {
		return repository.ErrSessionNotFound
	}
	out := checkOutTime
	stored.CheckOutTime = &out
	stored.Fee = &fee
	stored.Notes = notes
	return nil
}

func (m *memSessions) ActiveBySpot(_ context.Context, spotID int64) (*models.ParkingSession, error) {
	for _, s := range m.sessions {
		if s.SpotID == spotID && s.CheckOutTime == nil {
			return s, nil
		}
	}
	return nil, repository.ErrSessionNotFound
}

func (m *memSessions) ActiveByCar(_ context.Context, carID int64) (*models.ParkingSession, error) {
	for _, s := range m.sessions {
		if s.CarID == carID && s.CheckOutTime == nil {
			return s, nil
		}
	}
	return nil, repository.ErrSessionNotFound
}

func (m *memSessions) ByID(_ context.Context, id int64) (*models.ParkingSession, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}
	return s, nil
}

func (m *memSessions) All(_ context.Context) ([]models.ParkingSession, error) {
	out := make([]models.ParkingSession, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, *s)
	}
	return out, nil
}

func (m *memSessions) Active(_ context.Context) ([]models.ParkingSession, error) {
	var out []models.ParkingSession
	for _, s := range m.sessions {
		if s.CheckOutTime == nil {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *memSessions) Completed(_ context.Context) ([]models.ParkingSession, error) {
	var out []models.ParkingSession
	for _, s := range m.sessions {
		if s.CheckOutTime != nil {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *memSessions) ByCar(_ context.Context, carID int64) ([]models.ParkingSession, error) {
	var out []models.ParkingSession
	for _, s := range m.sessions {
		if s.CarID == carID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	catalog := &memCatalog{
		spots: map[string]*models.Spot{
			"F1-A-01": {ID: 1, SpotIdentifier: "F1-A-01", Active: true},
			"F1-A-02": {ID: 2, SpotIdentifier: "F1-A-02", Active: true},
		},
		cars: make(map[string]*models.Car),
	}
	sessions := &memSessions{sessions: make(map[int64]*models.ParkingSession), nextID: 1}

	rates := service.RateConfig{HourlyRate: 5.00, MinimumCharge: 2.00, GracePeriodMinutes: 15}
	parking := service.NewParkingService(sessions, catalog, memTx{}, nil, nil, rates, zap.NewNop())

	logger := zap.NewNop()
	return NewRouter(Routes{
		Parking: handlers.NewParkingHandler(parking, logger),
		Health:  handlers.NewHealthHandler(),
	})
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCheckInAndCheckOutOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/parking/check-in",
		`{"license_plate":"abc-123","spot_identifier":"F1-A-01","make":"Toyota","notes":"dented door"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("check-in status = %d, body %s", rec.Code, rec.Body.String())
	}

	var session models.ParkingSession
	if err := json.Unmarshal(rec.Body.Bytes(), &session); err != nil {
		t.Fatalf("decode check-in response: %v", err)
	}
	if session.LicensePlate != "ABC-123" {
		t.Errorf("plate = %q, want ABC-123", session.LicensePlate)
	}
	if session.CheckOutTime != nil {
		t.Error("new session must be active")
	}

	rec = doJSON(t, router, http.MethodPost, "/api/parking/check-out",
		`{"spot_identifier":"F1-A-01","notes":"paid cash"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("check-out status = %d, body %s", rec.Code, rec.Body.String())
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &session); err != nil {
		t.Fatalf("decode check-out response: %v", err)
	}
	if session.Fee == nil {
		t.Error("completed session must carry a fee")
	}
	if session.Notes != "dented door | paid cash" {
		t.Errorf("notes = %q", session.Notes)
	}
}

func TestCheckInConflictOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	if rec := doJSON(t, router, http.MethodPost, "/api/parking/check-in",
		`{"license_plate":"ABC-123","spot_identifier":"F1-A-01"}`); rec.Code != http.StatusCreated {
		t.Fatalf("seed check-in status = %d", rec.Code)
	}

	// Occupied spot.
	rec := doJSON(t, router, http.MethodPost, "/api/parking/check-in",
		`{"license_plate":"XYZ-789","spot_identifier":"F1-A-01"}`)
	if rec.Code != http.StatusConflict {
		t.Errorf("occupied spot status = %d, want 409", rec.Code)
	}

	// Same car at a second spot; the error names where it is parked.
	rec = doJSON(t, router, http.MethodPost, "/api/parking/check-in",
		`{"license_plate":"ABC-123","spot_identifier":"F1-A-02"}`)
	if rec.Code != http.StatusConflict {
		t.Errorf("double park status = %d, want 409", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "F1-A-01") {
		t.Errorf("conflict body must name the occupied spot, got %s", rec.Body.String())
	}
}

func TestErrorStatusMapping(t *testing.T) {
	router := newTestRouter(t)

	// Unknown spot -> 404.
	rec := doJSON(t, router, http.MethodPost, "/api/parking/check-in",
		`{"license_plate":"ABC-123","spot_identifier":"F9-Z-99"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown spot status = %d, want 404", rec.Code)
	}

	// Empty spot check-out -> 422.
	rec = doJSON(t, router, http.MethodPost, "/api/parking/check-out",
		`{"spot_identifier":"F1-A-01"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("idle spot check-out status = %d, want 422", rec.Code)
	}

	// Unknown plate check-out -> 404.
	rec = doJSON(t, router, http.MethodPost, "/api/parking/check-out/license-plate/NOPE-000", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown plate status = %d, want 404", rec.Code)
	}

	// Missing fields -> 400.
	rec = doJSON(t, router, http.MethodPost, "/api/parking/check-in", `{"license_plate":"ABC-123"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing spot status = %d, want 400", rec.Code)
	}

	// Unknown session id -> 404.
	rec = doJSON(t, router, http.MethodGet, "/api/parking/sessions/999", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown session status = %d, want 404", rec.Code)
	}
}

func TestSessionQueriesOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	if rec := doJSON(t, router, http.MethodPost, "/api/parking/check-in",
		`{"license_plate":"ABC-123","spot_identifier":"F1-A-01"}`); rec.Code != http.StatusCreated {
		t.Fatalf("seed check-in status = %d", rec.Code)
	}

	rec := doJSON(t, router, http.MethodGet, "/api/parking/sessions/active", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("active sessions status = %d", rec.Code)
	}
	var payload struct {
		Sessions []models.ParkingSession `json:"sessions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Sessions) != 1 {
		t.Errorf("active sessions = %d, want 1", len(payload.Sessions))
	}

	rec = doJSON(t, router, http.MethodGet, "/api/parking/occupancy/spot/F1-A-01", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("occupancy status = %d", rec.Code)
	}
	var status service.OccupancyStatus
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !status.Occupied {
		t.Error("spot with active session reported free")
	}

	rec = doJSON(t, router, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Errorf("health status = %d", rec.Code)
	}
}

func TestBillingConfigOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/billing/config", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("billing config status = %d", rec.Code)
	}
	var rates service.RateConfig
	if err := json.Unmarshal(rec.Body.Bytes(), &rates); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rates.HourlyRate != 5.00 || rates.MinimumCharge != 2.00 || rates.GracePeriodMinutes != 15 {
		t.Errorf("rates = %+v", rates)
	}
}
