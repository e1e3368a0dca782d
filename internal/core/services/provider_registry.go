package services

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/check-phat-nguoi/cpn-core/internal/core/domain"
	"github.com/check-phat-nguoi/cpn-core/internal/core/ports/driven"
	"github.com/check-phat-nguoi/cpn-core/internal/providers/checkphatnguoi"
	"github.com/check-phat-nguoi/cpn-core/internal/providers/csgt"
	"github.com/check-phat-nguoi/cpn-core/internal/providers/etraffic"
	"github.com/check-phat-nguoi/cpn-core/internal/providers/phatnguoi"
	"github.com/check-phat-nguoi/cpn-core/internal/providers/tracuuphatnguoi"
	"github.com/check-phat-nguoi/cpn-core/internal/providers/zmio"
)

// BuildEngines constructs one engine per enabled provider, in configured
// order. csgt.vn needs a captcha solver and etraffic.gtelict.vn needs
// account credentials; enabling either without its prerequisite is a
// configuration error. On error, engines already built are closed.
func BuildEngines(
	settings domain.ProviderSettings,
	solver driven.CaptchaSolver,
	log zerolog.Logger,
) ([]driven.ProviderEngine, error) {
	timeout := settings.Timeout()
	engines := make([]driven.ProviderEngine, 0, len(settings.Enabled))
	for _, provider := range settings.Enabled {
		engine, err := buildEngine(provider, settings, solver, timeout, log)
		if err != nil {
			closeEngines(engines, log)
			return nil, err
		}
		engines = append(engines, engine)
	}
	return engines, nil
}

func buildEngine(
	provider domain.Provider,
	settings domain.ProviderSettings,
	solver driven.CaptchaSolver,
	timeout time.Duration,
	log zerolog.Logger,
) (driven.ProviderEngine, error) {
	switch provider {
	case domain.ProviderCheckPhatNguoi:
		return checkphatnguoi.New(checkphatnguoi.Config{
			Timeout: timeout,
			Logger:  log,
		}), nil
	case domain.ProviderCSGT:
		if solver == nil {
			return nil, fmt.Errorf("%w: %s needs a captcha solver", domain.ErrInvalidConfig, provider)
		}
		return csgt.New(csgt.Config{
			Solver:         solver,
			CaptchaRetries: settings.Retries(),
			Timeout:        timeout,
			Logger:         log,
		}), nil
	case domain.ProviderPhatNguoi:
		return phatnguoi.New(phatnguoi.Config{
			Timeout: timeout,
			Logger:  log,
		}), nil
	case domain.ProviderTraCuuPhatNguoi:
		return tracuuphatnguoi.New(tracuuphatnguoi.Config{
			Timeout: timeout,
			Logger:  log,
		}), nil
	case domain.ProviderZMIO:
		return zmio.New(zmio.Config{
			Timeout: timeout,
			Logger:  log,
		}), nil
	case domain.ProviderETraffic:
		if !settings.ETraffic.IsConfigured() {
			return nil, fmt.Errorf("%w: %s enabled without credentials", domain.ErrInvalidConfig, provider)
		}
		return etraffic.New(etraffic.Config{
			CitizenID: settings.ETraffic.CitizenID,
			Password:  settings.ETraffic.Password,
			Timeout:   timeout,
			Logger:    log,
		}), nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownProvider, provider)
	}
}

func closeEngines(engines []driven.ProviderEngine, log zerolog.Logger) {
	for _, engine := range engines {
		if err := engine.Close(); err != nil {
			log.Warn().Err(err).Str("provider", engine.Provider().String()).Msg("engine close failed")
		}
	}
}
