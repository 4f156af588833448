package models

import "time"

// ParkingSession is the historical record of one car occupying one spot.
// A nil CheckOutTime marks the session as active; Fee is set exactly once
// at check-out and never recomputed.
type ParkingSession struct {
	ID             int64      `db:"id" json:"id"`
	CarID          int64      `db:"car_id" json:"car_id"`
	SpotID         int64      `db:"parking_spot_id" json:"spot_id"`
	SpotIdentifier string     `db:"spot_identifier" json:"spot_identifier"`
	LicensePlate   string     `db:"license_plate" json:"license_plate"`
	CheckInTime    time.Time  `db:"check_in_time" json:"check_in_time"`
	CheckOutTime   *time.Time `db:"check_out_time" json:"check_out_time,omitempty"`
	Fee            *float64   `db:"fee" json:"fee,omitempty"`
	Notes          string     `db:"notes" json:"notes,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// Active reports whether the car is still parked.
func (s *ParkingSession) Active() bool {
	return s.CheckOutTime == nil
}
