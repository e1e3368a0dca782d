package driving

import (
	"context"

	"github.com/check-phat-nguoi/cpn-core/internal/core/domain"
)

// NotificationService fans lookup results out to delivery channels.
type NotificationService interface {
	// Dispatch renders each result and sends it to every configured
	// channel. Delivery failures are logged and aggregated, never
	// fatal: one broken channel must not block the others.
	Dispatch(ctx context.Context, results []domain.LookupResult) error
}
