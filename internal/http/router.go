package httpserver

import (
	"net/http"

	"parkdeck/internal/http/handlers"
)

// Routes groups the handler sets wired by the app.
type Routes struct {
	Parking       *handlers.ParkingHandler
	Catalog       *handlers.CatalogHandler
	Signup        http.HandlerFunc
	Login         http.HandlerFunc
	OccupancyFeed http.HandlerFunc
	Health        http.HandlerFunc

	// Auth wraps the mutating parking endpoints.
	Auth func(http.Handler) http.Handler
}

// NewRouter registers endpoints.
func NewRouter(routes Routes) http.Handler {
	mux := http.NewServeMux()

	guard := routes.Auth
	if guard == nil {
		guard = func(next http.Handler) http.Handler { return next }
	}

	if p := routes.Parking; p != nil {
		mux.Handle("POST /api/parking/check-in", guard(http.HandlerFunc(p.CheckIn)))
		mux.Handle("POST /api/parking/check-out", guard(http.HandlerFunc(p.CheckOut)))
		mux.Handle("POST /api/parking/check-out/license-plate/{plate}", guard(http.HandlerFunc(p.CheckOutByPlate)))

		mux.HandleFunc("GET /api/parking/sessions", p.Sessions)
		mux.HandleFunc("GET /api/parking/sessions/active", p.ActiveSessions)
		mux.HandleFunc("GET /api/parking/sessions/completed", p.CompletedSessions)
		mux.HandleFunc("GET /api/parking/sessions/{id}", p.SessionByID)
		mux.HandleFunc("GET /api/parking/sessions/car/{carId}", p.SessionsByCar)
		mux.HandleFunc("GET /api/parking/occupancy/spot/{spotIdentifier}", p.SpotOccupancy)
		mux.HandleFunc("GET /api/billing/config", p.BillingConfig)
	}

	if c := routes.Catalog; c != nil {
		mux.HandleFunc("GET /api/catalog/floors", c.Floors)
		mux.HandleFunc("GET /api/catalog/floors/{floorId}/bays", c.BaysByFloor)
		mux.HandleFunc("GET /api/catalog/spots", c.Spots)
		mux.HandleFunc("GET /api/catalog/spot-types", c.SpotTypes)
		mux.HandleFunc("GET /api/catalog/cars", c.Cars)
		mux.Handle("POST /api/catalog/spots", guard(http.HandlerFunc(c.RegisterSpot)))
	}

	if routes.Signup != nil {
		mux.Handle("POST /api/auth/signup", routes.Signup)
	}
	if routes.Login != nil {
		mux.Handle("POST /api/auth/login", routes.Login)
	}
	if routes.OccupancyFeed != nil {
		mux.Handle("GET /ws/occupancy", routes.OccupancyFeed)
	}
	if routes.Health != nil {
		mux.Handle("GET /health", routes.Health)
	}

	return mux
}
