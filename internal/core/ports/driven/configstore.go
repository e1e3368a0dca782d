package driven

import "github.com/check-phat-nguoi/cpn-core/internal/core/domain"

// ConfigStore provides access to application configuration.
// Implementations handle persistence (e.g., TOML files) and validation.
type ConfigStore interface {
	// Load reads configuration from storage. Unknown keys are an
	// error so typos surface instead of silently disabling features.
	Load() (domain.AppSettings, error)

	// Save persists the settings to storage, creating the file and
	// its parent directories when missing.
	Save(settings domain.AppSettings) error

	// Exists reports whether a configuration file is present.
	Exists() bool

	// Path returns the configuration file path.
	Path() string
}
