package driven

import "context"

// Notifier delivers rendered lookup summaries to one channel.
// Implementations wrap a messaging API (Telegram, Discord).
type Notifier interface {
	// Name returns a short identifier for logs ("telegram", "discord").
	Name() string

	// Send delivers the messages in order. Failures wrap
	// domain.ErrDelivery; a partial delivery reports the first failure.
	Send(ctx context.Context, messages []string) error
}
