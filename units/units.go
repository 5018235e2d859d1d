// Package units provides the length units a PeTrack file can be written in
// and the scale factors between them and meters.
package units

import (
	"errors"
	"fmt"
	"strings"
)

// Unit constants
const (
	CM = "cm"
	M  = "m"
)

// ErrUnknownUnit is returned by Factor for labels other than cm and m.
var ErrUnknownUnit = errors.New("unknown unit")

// ValidUnits contains all valid unit values
var ValidUnits = []string{CM, M}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return strings.Join(ValidUnits, ", ")
}

// Factor returns how many working units make up one meter.
func Factor(unit string) (float64, error) {
	switch unit {
	case CM:
		return 100, nil
	case M:
		return 1, nil
	default:
		return 0, fmt.Errorf("%w %q (valid: %s)", ErrUnknownUnit, unit, GetValidUnitsString())
	}
}

// FromMeters expresses a length given in meters in the working unit.
func FromMeters(meters, factor float64) float64 {
	return meters * factor
}

// ToMeters converts a length in the working unit to meters.
func ToMeters(v, factor float64) float64 {
	return v / factor
}
