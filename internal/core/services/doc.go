// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Services hold no transport code of their own; the provider registry
// is the one place that names concrete engines, so callers can build
// everything from settings.
package services
