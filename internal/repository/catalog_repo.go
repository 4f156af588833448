package repository

import (
	"context"
	"database/sql"
	"errors"

	"parkdeck/internal/models"
)

// Sentinel errors for missing catalog rows.
var (
	ErrSpotNotFound = errors.New("parking spot not found")
	ErrCarNotFound  = errors.New("car not found")
)

// CatalogRepository owns the garage reference data: floors, bays, spots,
// spot types and cars.
type CatalogRepository struct {
	db *sql.DB
}

// NewCatalogRepository returns repository.
func NewCatalogRepository(db *sql.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

const spotColumns = `id, spot_identifier, spot_number, bay_id, spot_type_id, active`

// SpotByIdentifier resolves a spot by its garage-wide identifier.
func (r *CatalogRepository) SpotByIdentifier(ctx context.Context, identifier string) (*models.Spot, error) {
	const query = `SELECT ` + spotColumns + ` FROM parking_spots WHERE spot_identifier = $1`
	return r.scanSpot(querier(ctx, r.db).QueryRowContext(ctx, query, identifier))
}

// SpotByIdentifierForUpdate resolves a spot and takes a row lock. Must be
// called inside a transaction; the lock serializes concurrent check-ins
// and check-outs racing for the same spot.
func (r *CatalogRepository) SpotByIdentifierForUpdate(ctx context.Context, identifier string) (*models.Spot, error) {
	const query = `SELECT ` + spotColumns + ` FROM parking_spots WHERE spot_identifier = $1 FOR UPDATE`
	return r.scanSpot(querier(ctx, r.db).QueryRowContext(ctx, query, identifier))
}

func (r *CatalogRepository) scanSpot(row *sql.Row) (*models.Spot, error) {
	var s models.Spot
	err := row.Scan(&s.ID, &s.SpotIdentifier, &s.SpotNumber, &s.BayID, &s.SpotTypeID, &s.Active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSpotNotFound
		}
		return nil, err
	}
	return &s, nil
}

// CreateSpot registers a new spot.
func (r *CatalogRepository) CreateSpot(ctx context.Context, spot *models.Spot) (*models.Spot, error) {
	const query = `
		INSERT INTO parking_spots (spot_identifier, spot_number, bay_id, spot_type_id, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := querier(ctx, r.db).QueryRowContext(ctx, query,
		spot.SpotIdentifier,
		spot.SpotNumber,
		spot.BayID,
		spot.SpotTypeID,
		spot.Active,
	).Scan(&spot.ID)
	if err != nil {
		return nil, err
	}
	return spot, nil
}

// ListSpots returns every spot with its bay, floor and type context.
func (r *CatalogRepository) ListSpots(ctx context.Context) ([]models.SpotDetail, error) {
	const query = `
		SELECT sp.id, sp.spot_identifier, sp.spot_number, sp.bay_id, sp.spot_type_id, sp.active,
		       b.bay_identifier, f.floor_number, st.name
		FROM parking_spots sp
		JOIN bays b ON b.id = sp.bay_id
		JOIN floors f ON f.id = b.floor_id
		JOIN spot_types st ON st.id = sp.spot_type_id
		ORDER BY sp.spot_identifier
	`
	rows, err := querier(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var spots []models.SpotDetail
	for rows.Next() {
		var d models.SpotDetail
		if err := rows.Scan(
			&d.ID,
			&d.SpotIdentifier,
			&d.SpotNumber,
			&d.BayID,
			&d.SpotTypeID,
			&d.Active,
			&d.BayIdentifier,
			&d.FloorNumber,
			&d.SpotTypeName,
		); err != nil {
			return nil, err
		}
		spots = append(spots, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return spots, nil
}

// ListFloors returns all floors ordered by number.
func (r *CatalogRepository) ListFloors(ctx context.Context) ([]models.Floor, error) {
	const query = `SELECT id, floor_number, name, active FROM floors ORDER BY floor_number`
	rows, err := querier(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var floors []models.Floor
	for rows.Next() {
		var f models.Floor
		if err := rows.Scan(&f.ID, &f.FloorNumber, &f.Name, &f.Active); err != nil {
			return nil, err
		}
		floors = append(floors, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return floors, nil
}

// ListBaysByFloor returns a floor's bays.
func (r *CatalogRepository) ListBaysByFloor(ctx context.Context, floorID int64) ([]models.Bay, error) {
	const query = `SELECT id, floor_id, bay_identifier, name, active FROM bays WHERE floor_id = $1 ORDER BY bay_identifier`
	rows, err := querier(ctx, r.db).QueryContext(ctx, query, floorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bays []models.Bay
	for rows.Next() {
		var b models.Bay
		if err := rows.Scan(&b.ID, &b.FloorID, &b.BayIdentifier, &b.Name, &b.Active); err != nil {
			return nil, err
		}
		bays = append(bays, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bays, nil
}

// ListSpotTypes returns all spot types.
func (r *CatalogRepository) ListSpotTypes(ctx context.Context) ([]models.SpotType, error) {
	const query = `SELECT id, name, COALESCE(description, ''), active FROM spot_types ORDER BY name`
	rows, err := querier(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []models.SpotType
	for rows.Next() {
		var t models.SpotType
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.Active); err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return types, nil
}

const carColumns = `id, license_plate, COALESCE(make, ''), COALESCE(model, ''), COALESCE(color, ''), created_at`

// CarByPlate resolves a car by license plate.
func (r *CatalogRepository) CarByPlate(ctx context.Context, plate string) (*models.Car, error) {
	const query = `SELECT ` + carColumns + ` FROM cars WHERE license_plate = $1`
	return r.scanCar(querier(ctx, r.db).QueryRowContext(ctx, query, plate))
}

// CarByPlateForUpdate resolves a car and takes a row lock. Must be called
// inside a transaction; the lock serializes concurrent check-ins racing
// for the same car.
func (r *CatalogRepository) CarByPlateForUpdate(ctx context.Context, plate string) (*models.Car, error) {
	const query = `SELECT ` + carColumns + ` FROM cars WHERE license_plate = $1 FOR UPDATE`
	return r.scanCar(querier(ctx, r.db).QueryRowContext(ctx, query, plate))
}

func (r *CatalogRepository) scanCar(row *sql.Row) (*models.Car, error) {
	var c models.Car
	err := row.Scan(&c.ID, &c.LicensePlate, &c.Make, &c.Model, &c.Color, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCarNotFound
		}
		return nil, err
	}
	return &c, nil
}

// CreateCar inserts a car record. The no-op ON CONFLICT update keeps the
// existing descriptive fields while still returning and row-locking the
// row when two check-ins race to register the same plate.
func (r *CatalogRepository) CreateCar(ctx context.Context, car *models.Car) (*models.Car, error) {
	const query = `
		INSERT INTO cars (license_plate, make, model, color, created_at)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''), NOW())
		ON CONFLICT (license_plate) DO UPDATE SET license_plate = EXCLUDED.license_plate
		RETURNING ` + carColumns + `
	`
	row := querier(ctx, r.db).QueryRowContext(ctx, query, car.LicensePlate, car.Make, car.Model, car.Color)
	return r.scanCar(row)
}

// ListCars returns all known cars.
func (r *CatalogRepository) ListCars(ctx context.Context) ([]models.Car, error) {
	const query = `SELECT ` + carColumns + ` FROM cars ORDER BY license_plate`
	rows, err := querier(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cars []models.Car
	for rows.Next() {
		var c models.Car
		if err := rows.Scan(&c.ID, &c.LicensePlate, &c.Make, &c.Model, &c.Color, &c.CreatedAt); err != nil {
			return nil, err
		}
		cars = append(cars, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cars, nil
}
