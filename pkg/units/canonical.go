// Package units provides the fixed unit vocabulary accepted for price
// components, deductions and taxes.
package units

import (
	"sort"
	"strings"
)

// Unit represents a billing unit of a price component.
type Unit string

const (
	// One-off units
	UnitSinglePayment Unit = "single payment"
	UnitSinglePay     Unit = "single pay"

	// Subscription units
	UnitPerHour  Unit = "per hour"
	UnitPerDay   Unit = "per day"
	UnitPerWeek  Unit = "per week"
	UnitPerMonth Unit = "per month"
	UnitPerYear  Unit = "per year"

	// Usage units
	UnitPerCall       Unit = "per call"
	UnitPerInvocation Unit = "per invocation"
	UnitPerUnit       Unit = "per unit"
	UnitPerMegabyte   Unit = "per megabyte"
	UnitPerGigabyte   Unit = "per gigabyte"

	// Relative units, used by taxes and deductions
	UnitPercent Unit = "percent"
)

var allowed = map[Unit]struct{}{
	UnitSinglePayment: {},
	UnitSinglePay:     {},
	UnitPerHour:       {},
	UnitPerDay:        {},
	UnitPerWeek:       {},
	UnitPerMonth:      {},
	UnitPerYear:       {},
	UnitPerCall:       {},
	UnitPerInvocation: {},
	UnitPerUnit:       {},
	UnitPerMegabyte:   {},
	UnitPerGigabyte:   {},
	UnitPercent:       {},
}

// Normalize lower-cases a unit and collapses inner whitespace.
// Example: "  Per   Month " -> "per month"
func Normalize(unit string) Unit {
	return Unit(strings.Join(strings.Fields(strings.ToLower(unit)), " "))
}

// IsAllowed reports whether unit belongs to the vocabulary.
func IsAllowed(unit string) bool {
	_, ok := allowed[Normalize(unit)]
	return ok
}

// Allowed returns the vocabulary in lexical order.
func Allowed() []Unit {
	out := make([]Unit, 0, len(allowed))
	for u := range allowed {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
