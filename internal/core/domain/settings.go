package domain

import (
	"fmt"
	"time"
)

// DefaultTimeoutSeconds bounds one provider lookup, retries included.
const DefaultTimeoutSeconds = 20

// DefaultCaptchaRetries is how many captcha cycles csgt.vn gets before
// the lookup fails with ErrCaptchaExhausted.
const DefaultCaptchaRetries = 3

// CSGTSettings holds csgt.vn engine configuration.
type CSGTSettings struct {
	// CaptchaRetries is the captcha attempt budget per lookup.
	CaptchaRetries int
}

// ETrafficSettings holds the etraffic.gtelict.vn account.
type ETrafficSettings struct {
	// CitizenID is the citizen identity number used as login name.
	CitizenID string

	// Password is the account password.
	Password string
}

// IsConfigured returns true if the account is set up.
func (e ETrafficSettings) IsConfigured() bool {
	return e.CitizenID != "" && e.Password != ""
}

// ProviderSettings holds provider engine configuration.
type ProviderSettings struct {
	// Enabled lists the providers to query, in query and report order.
	Enabled []Provider

	// TimeoutSeconds bounds one provider lookup. Zero means
	// DefaultTimeoutSeconds.
	TimeoutSeconds int

	// CSGT holds csgt.vn specific settings.
	CSGT CSGTSettings

	// ETraffic holds the etraffic.gtelict.vn account.
	ETraffic ETrafficSettings
}

// Timeout returns the per-provider lookup budget as a duration.
func (p ProviderSettings) Timeout() time.Duration {
	seconds := p.TimeoutSeconds
	if seconds <= 0 {
		seconds = DefaultTimeoutSeconds
	}
	return time.Duration(seconds) * time.Second
}

// Retries returns the csgt.vn captcha attempt budget.
func (p ProviderSettings) Retries() int {
	if p.CSGT.CaptchaRetries <= 0 {
		return DefaultCaptchaRetries
	}
	return p.CSGT.CaptchaRetries
}

// NotifySettings holds the delivery channel configuration.
type NotifySettings struct {
	// Telegram lists Telegram delivery targets.
	Telegram []TelegramConfig

	// Discord lists Discord delivery targets.
	Discord []DiscordConfig
}

// EnabledCount returns how many channels are switched on.
func (n NotifySettings) EnabledCount() int {
	count := 0
	for _, c := range n.Telegram {
		if c.Enabled {
			count++
		}
	}
	for _, c := range n.Discord {
		if c.Enabled {
			count++
		}
	}
	return count
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Plates is the watch list to look up.
	Plates []PlateInfo

	// Providers holds provider engine settings.
	Providers ProviderSettings

	// Notify holds delivery channel settings.
	Notify NotifySettings
}

// DefaultAppSettings returns settings with sensible defaults.
// The plate list starts empty; credential-gated providers stay off until
// the user configures an account.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Providers: ProviderSettings{
			Enabled: []Provider{
				ProviderCheckPhatNguoi,
				ProviderPhatNguoi,
				ProviderZMIO,
			},
			TimeoutSeconds: DefaultTimeoutSeconds,
			CSGT: CSGTSettings{
				CaptchaRetries: DefaultCaptchaRetries,
			},
		},
	}
}

// Validate checks the whole settings tree. The first problem found is
// returned wrapped in ErrInvalidConfig context.
func (s AppSettings) Validate() error {
	for i, plate := range s.Plates {
		if err := plate.Validate(); err != nil {
			return fmt.Errorf("plates[%d]: %w", i, err)
		}
	}
	seen := make(map[Provider]struct{})
	for i, p := range s.Providers.Enabled {
		if !p.Valid() {
			return fmt.Errorf("providers[%d]: %w: %q", i, ErrUnknownProvider, p)
		}
		if _, dup := seen[p]; dup {
			return fmt.Errorf("providers[%d]: %w: %q listed twice", i, ErrInvalidConfig, p)
		}
		seen[p] = struct{}{}
		if p.RequiresCredentials() && !s.Providers.ETraffic.IsConfigured() {
			return fmt.Errorf("providers[%d]: %w: %q enabled without credentials", i, ErrInvalidConfig, p)
		}
	}
	if s.Providers.TimeoutSeconds < 0 {
		return fmt.Errorf("%w: timeout_seconds must not be negative", ErrInvalidConfig)
	}
	if s.Providers.CSGT.CaptchaRetries < 0 {
		return fmt.Errorf("%w: captcha_retries must not be negative", ErrInvalidConfig)
	}
	for i, c := range s.Notify.Telegram {
		if !c.Enabled {
			continue
		}
		if err := c.Validate(); err != nil {
			return fmt.Errorf("telegram[%d]: %w", i, err)
		}
	}
	for i, c := range s.Notify.Discord {
		if !c.Enabled {
			continue
		}
		if err := c.Validate(); err != nil {
			return fmt.Errorf("discord[%d]: %w", i, err)
		}
	}
	return nil
}

// FindPlate returns the configured entry matching a normalized plate.
func (s AppSettings) FindPlate(plate string) (PlateInfo, bool) {
	want := NormalizePlate(plate)
	for _, p := range s.Plates {
		if p.NormalizedPlate() == want {
			return p, true
		}
	}
	return PlateInfo{}, false
}
