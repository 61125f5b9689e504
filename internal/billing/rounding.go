// Package billing holds the pure money/hours arithmetic used for
// invoicing time entries.
package billing

import "math"

// RoundUpToHalfHour returns the smallest multiple of 0.5 that is greater
// than or equal to hours. Worked time is always invoiced in half-hour
// increments.
func RoundUpToHalfHour(hours float64) float64 {
	return math.Ceil(hours*2) / 2
}

// Amount returns billedHours * rate rounded to two decimal places, half
// away from zero.
func Amount(billedHours, rate float64) float64 {
	return Round2(billedHours * rate)
}

// Round2 rounds a currency amount to two decimal places, half away from
// zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
