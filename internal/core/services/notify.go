package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/check-phat-nguoi/cpn-core/internal/core/domain"
	"github.com/check-phat-nguoi/cpn-core/internal/core/ports/driven"
	"github.com/check-phat-nguoi/cpn-core/internal/core/ports/driving"
)

// Ensure DispatchService implements the interface.
var _ driving.NotificationService = (*DispatchService)(nil)

// DispatchService renders lookup results and fans them out to every
// configured delivery channel.
type DispatchService struct {
	notifiers []driven.Notifier
	log       zerolog.Logger
}

// NewDispatchService creates a dispatch service over the given channels.
func NewDispatchService(notifiers []driven.Notifier, log zerolog.Logger) *DispatchService {
	return &DispatchService{
		notifiers: notifiers,
		log:       log,
	}
}

// Dispatch renders each result and sends the messages to every channel
// concurrently. Each channel owns one error slot, so a broken channel
// reports its own failure and never blocks the others. The aggregated
// error joins every channel failure.
func (s *DispatchService) Dispatch(ctx context.Context, results []domain.LookupResult) error {
	if len(s.notifiers) == 0 {
		s.log.Debug().Msg("no delivery channels configured")
		return nil
	}

	var messages []string
	for _, result := range results {
		messages = append(messages, FormatLookup(result)...)
	}
	if len(messages) == 0 {
		return nil
	}

	errs := make([]error, len(s.notifiers))
	var wg sync.WaitGroup
	for i, notifier := range s.notifiers {
		wg.Add(1)
		go func(slot int, notifier driven.Notifier) {
			defer wg.Done()
			if err := notifier.Send(ctx, messages); err != nil {
				s.log.Warn().Err(err).Str("channel", notifier.Name()).Msg("delivery failed")
				errs[slot] = fmt.Errorf("%s: %w", notifier.Name(), err)
				return
			}
			s.log.Info().
				Str("channel", notifier.Name()).
				Int("messages", len(messages)).
				Msg("dispatched")
		}(i, notifier)
	}
	wg.Wait()

	return errors.Join(errs...)
}
