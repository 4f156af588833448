package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"parkdeck/internal/models"
	redisstore "parkdeck/internal/redis"
	"parkdeck/internal/repository"
	"parkdeck/internal/ws"
)

// SessionStore is the persistence contract for parking sessions.
type SessionStore interface {
	Create(ctx context.Context, session *models.ParkingSession) (*models.ParkingSession, error)
	Complete(ctx context.Context, sessionID int64, checkOutTime time.Time, fee float64, notes string) error
	ActiveBySpot(ctx context.Context, spotID int64) (*models.ParkingSession, error)
	ActiveByCar(ctx context.Context, carID int64) (*models.ParkingSession, error)
	ByID(ctx context.Context, id int64) (*models.ParkingSession, error)
	All(ctx context.Context) ([]models.ParkingSession, error)
	Active(ctx context.Context) ([]models.ParkingSession, error)
	Completed(ctx context.Context) ([]models.ParkingSession, error)
	ByCar(ctx context.Context, carID int64) ([]models.ParkingSession, error)
}

// CatalogStore resolves garage reference data for the ledger. The
// ForUpdate variants must be called inside a transaction and take row
// locks that serialize racing check-ins and check-outs.
type CatalogStore interface {
	SpotByIdentifier(ctx context.Context, identifier string) (*models.Spot, error)
	SpotByIdentifierForUpdate(ctx context.Context, identifier string) (*models.Spot, error)
	CarByPlate(ctx context.Context, plate string) (*models.Car, error)
	CarByPlateForUpdate(ctx context.Context, plate string) (*models.Car, error)
	CreateCar(ctx context.Context, car *models.Car) (*models.Car, error)
}

// TxManager runs a function as one atomic unit against storage.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// OccupancyCache is the redis-backed accelerator for occupancy reads.
type OccupancyCache interface {
	Save(ctx context.Context, occ redisstore.Occupancy) error
	Delete(ctx context.Context, spotIdentifier, plate string) error
	BySpot(ctx context.Context, spotIdentifier string) (*redisstore.Occupancy, error)
}

// CheckInInput carries a check-in request.
type CheckInInput struct {
	SpotIdentifier string
	LicensePlate   string
	Make           string
	Model          string
	Color          string
	Notes          string
}

// OccupancyStatus is the answer to "is this spot taken right now".
type OccupancyStatus struct {
	SpotIdentifier string                 `json:"spot_identifier"`
	Occupied       bool                   `json:"occupied"`
	Session        *models.ParkingSession `json:"session,omitempty"`
}

// ParkingService is the occupancy ledger: it owns the check-in/check-out
// state machine and guards the one-active-session-per-spot and
// one-active-session-per-car rules. Occupancy is always derived from the
// session history, never stored as a flag.
type ParkingService struct {
	sessions SessionStore
	catalog  CatalogStore
	tx       TxManager
	cache    OccupancyCache
	feed     *ws.Hub
	rates    RateConfig
	logger   *zap.Logger
	now      func() time.Time
}

// NewParkingService builds the ledger. cache and feed may be nil.
func NewParkingService(
	sessions SessionStore,
	catalog CatalogStore,
	tx TxManager,
	cache OccupancyCache,
	feed *ws.Hub,
	rates RateConfig,
	logger *zap.Logger,
) *ParkingService {
	return &ParkingService{
		sessions: sessions,
		catalog:  catalog,
		tx:       tx,
		cache:    cache,
		feed:     feed,
		rates:    rates,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Rates returns the immutable billing configuration.
func (s *ParkingService) Rates() RateConfig {
	return s.rates
}

// CheckIn opens a session for a car at a spot. Preconditions are checked
// in order, first failure wins: spot exists, spot active, spot free, car
// resolved or created, car not parked elsewhere. The whole sequence runs
// in one transaction with the spot and car rows locked, so concurrent
// check-ins for the same spot or car serialize and the loser fails with
// ErrConflict.
func (s *ParkingService) CheckIn(ctx context.Context, input CheckInInput) (*models.ParkingSession, error) {
	spotIdentifier := strings.TrimSpace(input.SpotIdentifier)
	plate := strings.ToUpper(strings.TrimSpace(input.LicensePlate))

	var session *models.ParkingSession
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		spot, err := s.catalog.SpotByIdentifierForUpdate(ctx, spotIdentifier)
		if err != nil {
			if errors.Is(err, repository.ErrSpotNotFound) {
				return fmt.Errorf("parking spot %s: %w", spotIdentifier, ErrNotFound)
			}
			return err
		}
		if !spot.Active {
			return fmt.Errorf("parking spot %s is not active: %w", spotIdentifier, ErrInvalidState)
		}

		if _, err := s.sessions.ActiveBySpot(ctx, spot.ID); err == nil {
			return fmt.Errorf("parking spot %s is already occupied: %w", spotIdentifier, ErrConflict)
		} else if !errors.Is(err, repository.ErrSessionNotFound) {
			return err
		}

		car, err := s.resolveCar(ctx, plate, input)
		if err != nil {
			return err
		}

		if active, err := s.sessions.ActiveByCar(ctx, car.ID); err == nil {
			return fmt.Errorf("car %s is already parked at spot %s: %w", plate, active.SpotIdentifier, ErrConflict)
		} else if !errors.Is(err, repository.ErrSessionNotFound) {
			return err
		}

		session = &models.ParkingSession{
			CarID:          car.ID,
			SpotID:         spot.ID,
			SpotIdentifier: spot.SpotIdentifier,
			LicensePlate:   car.LicensePlate,
			CheckInTime:    s.now(),
			Notes:          strings.TrimSpace(input.Notes),
		}
		session, err = s.sessions.Create(ctx, session)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.cacheOccupancy(ctx, session)
	s.broadcast(ws.EventCheckIn, session, session.CheckInTime)
	s.logger.Info("car checked in",
		zap.String("license_plate", session.LicensePlate),
		zap.String("spot_identifier", session.SpotIdentifier),
		zap.Int64("session_id", session.ID),
	)
	return session, nil
}

// resolveCar finds the car by plate or registers it with the supplied
// descriptive fields. Runs under the check-in transaction; the returned
// row is locked either way.
func (s *ParkingService) resolveCar(ctx context.Context, plate string, input CheckInInput) (*models.Car, error) {
	car, err := s.catalog.CarByPlateForUpdate(ctx, plate)
	if err == nil {
		return car, nil
	}
	if !errors.Is(err, repository.ErrCarNotFound) {
		return nil, err
	}

	car, err = s.catalog.CreateCar(ctx, &models.Car{
		LicensePlate: plate,
		Make:         strings.TrimSpace(input.Make),
		Model:        strings.TrimSpace(input.Model),
		Color:        strings.TrimSpace(input.Color),
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("registered new car", zap.String("license_plate", plate))
	return car, nil
}

// CheckOut closes the spot's active session, appending notes and pricing
// the stay. The fee is computed and stored exactly once.
func (s *ParkingService) CheckOut(ctx context.Context, spotIdentifier, notes string) (*models.ParkingSession, error) {
	spotIdentifier = strings.TrimSpace(spotIdentifier)

	var session *models.ParkingSession
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		spot, err := s.catalog.SpotByIdentifierForUpdate(ctx, spotIdentifier)
		if err != nil {
			if errors.Is(err, repository.ErrSpotNotFound) {
				return fmt.Errorf("parking spot %s: %w", spotIdentifier, ErrNotFound)
			}
			return err
		}

		active, err := s.sessions.ActiveBySpot(ctx, spot.ID)
		if err != nil {
			if errors.Is(err, repository.ErrSessionNotFound) {
				return fmt.Errorf("no active parking session for spot %s: %w", spotIdentifier, ErrInvalidState)
			}
			return err
		}

		session, err = s.complete(ctx, active, notes)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.dropOccupancy(ctx, session)
	s.broadcast(ws.EventCheckOut, session, *session.CheckOutTime)
	s.logger.Info("car checked out",
		zap.String("license_plate", session.LicensePlate),
		zap.String("spot_identifier", session.SpotIdentifier),
		zap.Int64("session_id", session.ID),
		zap.Float64("fee", *session.Fee),
	)
	return session, nil
}

// CheckOutByLicensePlate closes the car's active session. This path takes
// no notes; the source system's check-out-by-plate never did.
func (s *ParkingService) CheckOutByLicensePlate(ctx context.Context, plate string) (*models.ParkingSession, error) {
	plate = strings.ToUpper(strings.TrimSpace(plate))

	var session *models.ParkingSession
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		car, err := s.catalog.CarByPlateForUpdate(ctx, plate)
		if err != nil {
			if errors.Is(err, repository.ErrCarNotFound) {
				return fmt.Errorf("car %s: %w", plate, ErrNotFound)
			}
			return err
		}

		active, err := s.sessions.ActiveByCar(ctx, car.ID)
		if err != nil {
			if errors.Is(err, repository.ErrSessionNotFound) {
				return fmt.Errorf("car %s is not currently parked: %w", plate, ErrInvalidState)
			}
			return err
		}

		session, err = s.complete(ctx, active, "")
		return err
	})
	if err != nil {
		return nil, err
	}

	s.dropOccupancy(ctx, session)
	s.broadcast(ws.EventCheckOut, session, *session.CheckOutTime)
	s.logger.Info("car checked out",
		zap.String("license_plate", session.LicensePlate),
		zap.String("spot_identifier", session.SpotIdentifier),
		zap.Int64("session_id", session.ID),
		zap.Float64("fee", *session.Fee),
	)
	return session, nil
}

// complete sets the check-out time, merges notes and stores the fee. The
// UPDATE only touches rows still active, so a racer that lost the spot
// lock fails here instead of mutating history twice.
func (s *ParkingService) complete(ctx context.Context, active *models.ParkingSession, notes string) (*models.ParkingSession, error) {
	checkOutTime := s.now()

	merged := active.Notes
	if trimmed := strings.TrimSpace(notes); trimmed != "" {
		if merged != "" {
			merged = merged + " | " + trimmed
		} else {
			merged = trimmed
		}
	}

	fee := CalculateFee(active.CheckInTime, checkOutTime, s.rates)

	if err := s.sessions.Complete(ctx, active.ID, checkOutTime, fee, merged); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, fmt.Errorf("parking session %d is no longer active: %w", active.ID, ErrInvalidState)
		}
		return nil, err
	}

	active.CheckOutTime = &checkOutTime
	active.Fee = &fee
	active.Notes = merged
	return active, nil
}

// SpotOccupancy answers whether a spot is currently taken. The cache only
// narrows the lookup to a session id; the session history stays
// authoritative, so a stale entry left behind by a failed delete is
// detected, dropped and re-derived.
func (s *ParkingService) SpotOccupancy(ctx context.Context, spotIdentifier string) (*OccupancyStatus, error) {
	spotIdentifier = strings.TrimSpace(spotIdentifier)

	if s.cache != nil {
		if occ, err := s.cache.BySpot(ctx, spotIdentifier); err == nil {
			session, err := s.sessions.ByID(ctx, occ.SessionID)
			if err == nil && session.Active() {
				return &OccupancyStatus{
					SpotIdentifier: spotIdentifier,
					Occupied:       true,
					Session:        session,
				}, nil
			}
			if err := s.cache.Delete(ctx, occ.SpotIdentifier, occ.LicensePlate); err != nil {
				s.logger.Warn("failed to drop stale occupancy cache", zap.Error(err))
			}
		}
	}

	spot, err := s.catalog.SpotByIdentifier(ctx, spotIdentifier)
	if err != nil {
		if errors.Is(err, repository.ErrSpotNotFound) {
			return nil, fmt.Errorf("parking spot %s: %w", spotIdentifier, ErrNotFound)
		}
		return nil, err
	}

	session, err := s.sessions.ActiveBySpot(ctx, spot.ID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return &OccupancyStatus{SpotIdentifier: spotIdentifier, Occupied: false}, nil
		}
		return nil, err
	}
	return &OccupancyStatus{SpotIdentifier: spotIdentifier, Occupied: true, Session: session}, nil
}

// Sessions returns the full session history.
func (s *ParkingService) Sessions(ctx context.Context) ([]models.ParkingSession, error) {
	return s.sessions.All(ctx)
}

// ActiveSessions returns open sessions, newest check-in first.
func (s *ParkingService) ActiveSessions(ctx context.Context) ([]models.ParkingSession, error) {
	return s.sessions.Active(ctx)
}

// CompletedSessions returns closed sessions, newest check-out first.
func (s *ParkingService) CompletedSessions(ctx context.Context) ([]models.ParkingSession, error) {
	return s.sessions.Completed(ctx)
}

// SessionByID fetches one session.
func (s *ParkingService) SessionByID(ctx context.Context, id int64) (*models.ParkingSession, error) {
	session, err := s.sessions.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, fmt.Errorf("parking session %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return session, nil
}

// SessionsByCar returns a car's session history.
func (s *ParkingService) SessionsByCar(ctx context.Context, carID int64) ([]models.ParkingSession, error) {
	return s.sessions.ByCar(ctx, carID)
}

// cacheOccupancy and dropOccupancy keep the redis view in step with the
// committed ledger. Failures are logged and swallowed; the cache is
// never load-bearing.
func (s *ParkingService) cacheOccupancy(ctx context.Context, session *models.ParkingSession) {
	if s.cache == nil {
		return
	}
	err := s.cache.Save(ctx, redisstore.Occupancy{
		SessionID:      session.ID,
		SpotIdentifier: session.SpotIdentifier,
		LicensePlate:   session.LicensePlate,
		CheckInTime:    session.CheckInTime,
	})
	if err != nil {
		s.logger.Warn("failed to cache occupancy", zap.Error(err))
	}
}

func (s *ParkingService) dropOccupancy(ctx context.Context, session *models.ParkingSession) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, session.SpotIdentifier, session.LicensePlate); err != nil {
		s.logger.Warn("failed to drop occupancy cache", zap.Error(err))
	}
}

func (s *ParkingService) broadcast(eventType string, session *models.ParkingSession, at time.Time) {
	if s.feed == nil {
		return
	}
	s.feed.Broadcast(ws.Event{
		Type:           eventType,
		SessionID:      session.ID,
		SpotIdentifier: session.SpotIdentifier,
		LicensePlate:   session.LicensePlate,
		Timestamp:      at,
	})
}
