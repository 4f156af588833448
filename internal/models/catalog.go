package models

import "time"

// Floor is one level of the garage.
type Floor struct {
	ID          int64  `db:"id" json:"id"`
	FloorNumber int    `db:"floor_number" json:"floor_number"`
	Name        string `db:"name" json:"name"`
	Active      bool   `db:"active" json:"active"`
}

// Bay groups spots within a floor.
type Bay struct {
	ID            int64  `db:"id" json:"id"`
	FloorID       int64  `db:"floor_id" json:"floor_id"`
	BayIdentifier string `db:"bay_identifier" json:"bay_identifier"`
	Name          string `db:"name" json:"name"`
	Active        bool   `db:"active" json:"active"`
}

// SpotType classifies spots (REGULAR, COMPACT, LARGE, HANDICAP).
type SpotType struct {
	ID          int64  `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description,omitempty"`
	Active      bool   `db:"active" json:"active"`
}

// Spot is a single parking space. SpotIdentifier is unique across the
// garage (e.g. "F1-A-01"). Occupancy is never stored here; it is derived
// from the session history.
type Spot struct {
	ID             int64  `db:"id" json:"id"`
	SpotIdentifier string `db:"spot_identifier" json:"spot_identifier"`
	SpotNumber     string `db:"spot_number" json:"spot_number"`
	BayID          int64  `db:"bay_id" json:"bay_id"`
	SpotTypeID     int64  `db:"spot_type_id" json:"spot_type_id"`
	Active         bool   `db:"active" json:"active"`
}

// SpotDetail is a spot joined with its bay, floor and type names for
// catalog listings.
type SpotDetail struct {
	Spot
	BayIdentifier string `db:"bay_identifier" json:"bay_identifier"`
	FloorNumber   int    `db:"floor_number" json:"floor_number"`
	SpotTypeName  string `db:"spot_type_name" json:"spot_type_name"`
}

// Car is reference data keyed by its unique license plate. Whether a car
// is currently parked is derived from its sessions, never flagged here.
type Car struct {
	ID           int64     `db:"id" json:"id"`
	LicensePlate string    `db:"license_plate" json:"license_plate"`
	Make         string    `db:"make" json:"make,omitempty"`
	Model        string    `db:"model" json:"model,omitempty"`
	Color        string    `db:"color" json:"color,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
