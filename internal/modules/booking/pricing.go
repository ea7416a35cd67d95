package booking

import (
	"math"
	"time"
)

// Nights counts whole 24-hour periods between check-in and check-out.
// A stay shorter than 24h counts as zero nights and prices to zero.
func Nights(checkIn, checkOut time.Time) int {
	if !checkOut.After(checkIn) {
		return 0
	}
	return int(checkOut.Sub(checkIn) / (24 * time.Hour))
}

// ComputeTotal prices a stay: nightly rate times whole nights, rounded to
// 2 decimals.
func ComputeTotal(pricePerNight float64, checkIn, checkOut time.Time) float64 {
	total := pricePerNight * float64(Nights(checkIn, checkOut))
	return math.Round(total*100) / 100
}
