package usecase

import (
	"math"
	"time"
)

// Totals is the price breakdown of a stay. All values carry fixed
// 2-decimal rounding.
type Totals struct {
	BaseAmount     float64 `json:"base_amount"`
	TaxAmount      float64 `json:"tax_amount"`
	ServiceCharge  float64 `json:"service_charge"`
	DiscountAmount float64 `json:"discount_amount"`
	TotalAmount    float64 `json:"total_amount"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// CalculateTotal derives tax, service charge and total from a base amount.
func CalculateTotal(baseAmount, taxRate, serviceRate float64) Totals {
	tax := round2(baseAmount * taxRate)
	service := round2(baseAmount * serviceRate)
	base := round2(baseAmount)

	return Totals{
		BaseAmount:    base,
		TaxAmount:     tax,
		ServiceCharge: service,
		TotalAmount:   round2(base + tax + service),
	}
}

// Nights returns the stay length of the half-open interval [checkIn, checkOut).
func Nights(checkIn, checkOut time.Time) int {
	return int(checkOut.Sub(checkIn).Hours() / 24)
}

// NormalizeDate truncates to UTC midnight so date comparisons are
// timezone independent.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// overlaps reports whether the half-open intervals [a, b) and [c, d)
// intersect. Back-to-back stays (b == c) do not overlap.
func overlaps(a, b, c, d time.Time) bool {
	return a.Before(d) && c.Before(b)
}
