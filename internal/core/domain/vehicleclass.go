package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// VehicleClass is the normalized vehicle category used to filter lookups.
// The numeric values mirror the codes the provider sites themselves use in
// their query parameters, so Code() can be sent on the wire unchanged.
type VehicleClass int

const (
	// VehicleCar is a car ("Ô tô", code 1).
	VehicleCar VehicleClass = 1

	// VehicleMotorbike is a motorbike ("Xe máy", code 2).
	VehicleMotorbike VehicleClass = 2

	// VehicleElectricMotorbike is an electric motorbike ("Xe máy điện", code 3).
	VehicleElectricMotorbike VehicleClass = 3
)

// vehicleClassNames maps each class to its short English tag.
var vehicleClassNames = map[VehicleClass]string{
	VehicleCar:               "car",
	VehicleMotorbike:         "motorbike",
	VehicleElectricMotorbike: "electric_motorbike",
}

// vehicleClassDisplayNames maps each class to the Vietnamese display string
// the provider sites render.
var vehicleClassDisplayNames = map[VehicleClass]string{
	VehicleCar:               "Ô tô",
	VehicleMotorbike:         "Xe máy",
	VehicleElectricMotorbike: "Xe máy điện",
}

// String returns the short English tag (car, motorbike, electric_motorbike).
func (c VehicleClass) String() string {
	if name, ok := vehicleClassNames[c]; ok {
		return name
	}
	return fmt.Sprintf("vehicle_class(%d)", int(c))
}

// DisplayName returns the localized display string used by the providers.
func (c VehicleClass) DisplayName() string {
	return vehicleClassDisplayNames[c]
}

// Code returns the numeric code the provider sites expect (1..3).
func (c VehicleClass) Code() int {
	return int(c)
}

// Valid reports whether c is one of the three known classes.
func (c VehicleClass) Valid() bool {
	_, ok := vehicleClassNames[c]
	return ok
}

// MarshalText implements encoding.TextMarshaler so the class serializes as
// its English tag in TOML and JSON.
func (c VehicleClass) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownVehicleClass, int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, accepting every
// representation ParseVehicleClass accepts.
func (c *VehicleClass) UnmarshalText(text []byte) error {
	parsed, err := ParseVehicleClass(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseVehicleClass normalizes any accepted representation of a vehicle
// class to its canonical variant. Accepted: the numeric codes 1..3 (as
// digit strings), the English tags, and the Vietnamese display strings,
// including the "Ô tô con" variant some sources return for cars.
// Unrecognized input is a hard error wrapping ErrUnknownVehicleClass.
func ParseVehicleClass(s string) (VehicleClass, error) {
	switch strings.TrimSpace(s) {
	case "1", "car", "Ô tô", "Ô tô con":
		return VehicleCar, nil
	case "2", "motorbike", "Xe máy":
		return VehicleMotorbike, nil
	case "3", "electric_motorbike", "Xe máy điện":
		return VehicleElectricMotorbike, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownVehicleClass, s)
	}
}

// VehicleClassFromCode converts a numeric provider code to a class.
func VehicleClassFromCode(code int) (VehicleClass, error) {
	return ParseVehicleClass(strconv.Itoa(code))
}
