package service

import (
	"testing"
	"time"
)

var testRates = RateConfig{
	HourlyRate:         5.00,
	MinimumCharge:      2.00,
	GracePeriodMinutes: 15,
}

func TestCalculateFee(t *testing.T) {
	base := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		elapsed time.Duration
		want    float64
	}{
		{"within grace period", 10 * time.Minute, 0.00},
		{"exactly grace period", 15 * time.Minute, 0.00},
		{"just past grace period", 20 * time.Minute, 5.00},
		{"exactly one hour", 60 * time.Minute, 5.00},
		{"partial hour rounds up", 90 * time.Minute, 10.00},
		{"multiple hours", 5 * time.Hour, 25.00},
		{"long stay", 26 * time.Hour, 130.00},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateFee(base, base.Add(tt.elapsed), testRates)
			if got != tt.want {
				t.Errorf("CalculateFee(%v) = %.2f, want %.2f", tt.elapsed, got, tt.want)
			}
		})
	}
}

func TestCalculateFeeMissingTimestamps(t *testing.T) {
	base := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

	if got := CalculateFee(time.Time{}, base, testRates); got != 0 {
		t.Errorf("missing check-in: got %.2f, want 0", got)
	}
	if got := CalculateFee(base, time.Time{}, testRates); got != 0 {
		t.Errorf("missing check-out: got %.2f, want 0", got)
	}
}

func TestCalculateFeeMinimumCharge(t *testing.T) {
	base := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	rates := RateConfig{HourlyRate: 1.50, MinimumCharge: 2.00, GracePeriodMinutes: 15}

	// One billed hour at 1.50 sits below the 2.00 floor.
	if got := CalculateFee(base, base.Add(30*time.Minute), rates); got != 2.00 {
		t.Errorf("got %.2f, want minimum charge 2.00", got)
	}
}

func TestCalculateFeeRoundsToCents(t *testing.T) {
	base := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	rates := RateConfig{HourlyRate: 3.333, MinimumCharge: 0, GracePeriodMinutes: 0}

	// 3 billed hours at 3.333 = 9.999, rounds half-up to 10.00.
	if got := CalculateFee(base, base.Add(3*time.Hour), rates); got != 10.00 {
		t.Errorf("got %v, want 10.00", got)
	}
}

func TestCalculateFeeGracePeriodForAnyConfig(t *testing.T) {
	base := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

	configs := []RateConfig{
		{HourlyRate: 5.00, MinimumCharge: 2.00, GracePeriodMinutes: 15},
		{HourlyRate: 12.50, MinimumCharge: 20.00, GracePeriodMinutes: 30},
		{HourlyRate: 1.00, MinimumCharge: 0.50, GracePeriodMinutes: 5},
	}

	for _, cfg := range configs {
		for delta := 0; delta <= cfg.GracePeriodMinutes; delta++ {
			got := CalculateFee(base, base.Add(time.Duration(delta)*time.Minute), cfg)
			if got != 0 {
				t.Fatalf("grace %d min, elapsed %d min: got %.2f, want 0", cfg.GracePeriodMinutes, delta, got)
			}
		}
	}
}

func TestCalculateFeeMonotonicInDuration(t *testing.T) {
	base := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

	prev := 0.0
	for minutes := 0; minutes <= 10*60; minutes += 7 {
		fee := CalculateFee(base, base.Add(time.Duration(minutes)*time.Minute), testRates)
		if fee < prev {
			t.Fatalf("fee decreased: %d min -> %.2f (previous %.2f)", minutes, fee, prev)
		}
		prev = fee
	}
}
