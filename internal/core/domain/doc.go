// Package domain defines the core business entities for cpn-core.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - VehicleClass: The normalized vehicle category used to filter lookups
//   - ViolationRecord: One normalized traffic-violation entry for a plate
//   - PlateInfo: A lookup request (plate, owner, vehicle class)
//   - ProviderResult: The tagged outcome of asking one provider
//   - Failure: A classified provider failure reported per source
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
