package driven

import (
	"context"

	"github.com/check-phat-nguoi/cpn-core/internal/core/domain"
)

// ProviderEngine performs violation lookups against one data source.
// Each provider (csgt.vn, zm.io.vn, etc.) implements this interface.
type ProviderEngine interface {
	// Provider returns the source this engine queries.
	Provider() domain.Provider

	// Fetch looks up violations for one plate. It never returns an
	// error: every outcome, including transport failures and exhausted
	// captcha retries, arrives as a classified ProviderResult. The
	// context bounds the whole lookup including internal retries.
	Fetch(ctx context.Context, plate domain.PlateInfo) domain.ProviderResult

	// Close releases resources. Fetch must not be called after Close.
	Close() error
}
