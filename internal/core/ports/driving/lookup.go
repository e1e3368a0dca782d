package driving

import (
	"context"

	"github.com/check-phat-nguoi/cpn-core/internal/core/domain"
)

// LookupService runs violation lookups for external actors.
type LookupService interface {
	// Lookup queries every configured provider for one plate,
	// concurrently. The result carries one labeled entry per provider
	// in configured order; a slow or broken provider fails its own
	// slot and never drops the others.
	Lookup(ctx context.Context, plate domain.PlateInfo) domain.LookupResult

	// Check runs Lookup for each plate in turn.
	Check(ctx context.Context, plates []domain.PlateInfo) []domain.LookupResult

	// Providers returns the engines' sources in configured order.
	Providers() []domain.Provider
}
