package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateTotal(t *testing.T) {
	totals := CalculateTotal(100, 0.10, 0.05)

	assert.Equal(t, 100.00, totals.BaseAmount)
	assert.Equal(t, 10.00, totals.TaxAmount)
	assert.Equal(t, 5.00, totals.ServiceCharge)
	assert.Equal(t, 115.00, totals.TotalAmount)
}

func TestCalculateTotalRounding(t *testing.T) {
	// 3 nights at 33.33 = 99.99; component rounding must keep the total
	// equal to the sum of the rounded parts.
	totals := CalculateTotal(99.99, 0.10, 0.05)

	assert.Equal(t, 99.99, totals.BaseAmount)
	assert.Equal(t, 10.00, totals.TaxAmount)
	assert.Equal(t, 5.00, totals.ServiceCharge)
	assert.Equal(t, totals.BaseAmount+totals.TaxAmount+totals.ServiceCharge, totals.TotalAmount)
}

func TestNights(t *testing.T) {
	checkIn := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	checkOut := time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 3, Nights(checkIn, checkOut))
}

func TestNormalizeDate(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// Late evening in New York is already the next day in UTC.
	local := time.Date(2026, 9, 1, 23, 30, 0, 0, loc)
	got := NormalizeDate(local)

	assert.Equal(t, time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC), got)
}

func TestOverlaps(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2026, 9, d, 0, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name           string
		a, b, c, d     time.Time
		expectOverlap  bool
	}{
		{"identical", day(1), day(5), day(1), day(5), true},
		{"partial", day(1), day(5), day(3), day(8), true},
		{"contained", day(1), day(10), day(3), day(5), true},
		{"back to back", day(1), day(5), day(5), day(8), false},
		{"disjoint", day(1), day(3), day(10), day(12), false},
		{"one night inside", day(1), day(5), day(4), day(5), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expectOverlap, overlaps(tc.a, tc.b, tc.c, tc.d))
			// Overlap is symmetric.
			assert.Equal(t, tc.expectOverlap, overlaps(tc.c, tc.d, tc.a, tc.b))
		})
	}
}
