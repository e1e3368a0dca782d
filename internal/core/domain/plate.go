package domain

import (
	"fmt"
	"strings"
)

// PlateInfo identifies one vehicle to look up: its plate and class.
type PlateInfo struct {
	// Plate is the plate string as configured. Separators ("-", ".",
	// spaces) are tolerated; providers receive the normalized form.
	Plate string

	// VehicleClass is the vehicle category the plate belongs to.
	VehicleClass VehicleClass

	// Owner is an optional label for reports ("Dad's car"). Never sent
	// to providers.
	Owner string
}

// NormalizedPlate returns the plate uppercased with "-", "." and spaces
// stripped. This is the form every provider is queried with and the form
// records carry.
func (p PlateInfo) NormalizedPlate() string {
	return NormalizePlate(p.Plate)
}

// Validate reports whether the plate info is usable for a lookup.
func (p PlateInfo) Validate() error {
	if NormalizePlate(p.Plate) == "" {
		return fmt.Errorf("%w: empty plate", ErrInvalidInput)
	}
	if !p.VehicleClass.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownVehicleClass, int(p.VehicleClass))
	}
	return nil
}

// String renders the plate info for logs: "59A12345 (car)".
func (p PlateInfo) String() string {
	return fmt.Sprintf("%s (%s)", p.NormalizedPlate(), p.VehicleClass)
}

// NormalizePlate strips separator characters from a raw plate string and
// uppercases it.
func NormalizePlate(plate string) string {
	replacer := strings.NewReplacer("-", "", ".", "", " ", "")
	return strings.ToUpper(replacer.Replace(strings.TrimSpace(plate)))
}
