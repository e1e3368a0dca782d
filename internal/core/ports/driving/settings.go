package driving

import "github.com/check-phat-nguoi/cpn-core/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (domain.AppSettings, error)

	// Save validates and persists application settings.
	Save(settings domain.AppSettings) error

	// Init writes a default configuration file. Fails if one exists.
	Init() error

	// AddPlate appends a plate to the watch list.
	AddPlate(plate domain.PlateInfo) error

	// RemovePlate drops a plate from the watch list by its normalized
	// form.
	RemovePlate(plate string) error

	// SetETrafficCredentials stores the etraffic.gtelict.vn account.
	SetETrafficCredentials(citizenID, password string) error

	// Path returns the configuration file path.
	Path() string
}
