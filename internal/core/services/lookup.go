package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/check-phat-nguoi/cpn-core/internal/core/domain"
	"github.com/check-phat-nguoi/cpn-core/internal/core/ports/driven"
	"github.com/check-phat-nguoi/cpn-core/internal/core/ports/driving"
)

// Ensure LookupService implements the interface.
var _ driving.LookupService = (*LookupService)(nil)

// LookupService queries every configured provider engine concurrently
// and aggregates their classified results per plate.
type LookupService struct {
	engines []driven.ProviderEngine
	timeout time.Duration
	log     zerolog.Logger

	closeOnce sync.Once
	closeErr  error
}

// NewLookupService creates a lookup service over the given engines.
// timeout bounds each provider's whole lookup, retries included; zero
// means domain.DefaultTimeoutSeconds. The service owns the engines and
// releases them in Close.
func NewLookupService(engines []driven.ProviderEngine, timeout time.Duration, log zerolog.Logger) *LookupService {
	if timeout <= 0 {
		timeout = domain.DefaultTimeoutSeconds * time.Second
	}
	return &LookupService{
		engines: engines,
		timeout: timeout,
		log:     log,
	}
}

// Lookup queries every engine for one plate, one goroutine each. Every
// engine owns exactly one result slot, so a slow or broken provider
// fails its own slot and never drops or delays the others' answers.
func (s *LookupService) Lookup(ctx context.Context, plate domain.PlateInfo) domain.LookupResult {
	runID := uuid.NewString()
	log := s.log.With().
		Str("run_id", runID).
		Str("plate", plate.NormalizedPlate()).
		Logger()
	log.Info().Int("providers", len(s.engines)).Msg("lookup started")

	results := make([]domain.ProviderResult, len(s.engines))
	var wg sync.WaitGroup
	for i, engine := range s.engines {
		wg.Add(1)
		go func(slot int, engine driven.ProviderEngine) {
			defer wg.Done()
			fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()
			results[slot] = engine.Fetch(fetchCtx, plate)
		}(i, engine)
	}
	wg.Wait()

	for _, res := range results {
		event := log.Info()
		if res.Status == domain.StatusFailed {
			event = log.Warn().Str("failure", string(res.Failure.Kind))
		}
		event.
			Str("provider", res.Provider.String()).
			Str("status", string(res.Status)).
			Int("records", len(res.Records)).
			Dur("elapsed", res.Elapsed).
			Msg("provider answered")
	}

	return domain.LookupResult{RunID: runID, Plate: plate, Results: results}
}

// Check runs Lookup for each plate in turn. Providers within one plate
// run concurrently; plates run sequentially so a long watch list does
// not hammer every provider at once.
func (s *LookupService) Check(ctx context.Context, plates []domain.PlateInfo) []domain.LookupResult {
	results := make([]domain.LookupResult, 0, len(plates))
	for _, plate := range plates {
		results = append(results, s.Lookup(ctx, plate))
	}
	return results
}

// Providers returns the engines' sources in configured order.
func (s *LookupService) Providers() []domain.Provider {
	out := make([]domain.Provider, len(s.engines))
	for i, engine := range s.engines {
		out[i] = engine.Provider()
	}
	return out
}

// Close releases every engine exactly once. Lookup must not be called
// after Close.
func (s *LookupService) Close() error {
	s.closeOnce.Do(func() {
		for _, engine := range s.engines {
			if err := engine.Close(); err != nil && s.closeErr == nil {
				s.closeErr = err
			}
		}
	})
	return s.closeErr
}
