package service

import (
	"math"
	"time"
)

// RateConfig is the process-wide billing configuration. It is loaded once
// at startup and never mutated.
type RateConfig struct {
	HourlyRate         float64 `json:"hourly_rate"`
	MinimumCharge      float64 `json:"minimum_charge"`
	GracePeriodMinutes int     `json:"grace_period_minutes"`
}

// CalculateFee prices a completed parking session. Pure function:
//
//   - a missing timestamp yields 0 rather than an error
//   - whole elapsed minutes within the grace period park free, with no
//     minimum charge applied
//   - beyond the grace period, partial hours round up to the next whole
//     hour, the hourly rate applies, and the minimum charge is a floor
//   - the result is rounded half-up at the cent boundary
func CalculateFee(checkInTime, checkOutTime time.Time, rates RateConfig) float64 {
	if checkInTime.IsZero() || checkOutTime.IsZero() {
		return 0
	}

	elapsedMinutes := int64(checkOutTime.Sub(checkInTime).Minutes())
	if elapsedMinutes <= int64(rates.GracePeriodMinutes) {
		return 0
	}

	billedHours := math.Ceil(float64(elapsedMinutes) / 60.0)
	fee := billedHours * rates.HourlyRate
	if fee < rates.MinimumCharge {
		fee = rates.MinimumCharge
	}

	return math.Floor(fee*100+0.5) / 100
}
