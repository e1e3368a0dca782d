package services

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/check-phat-nguoi/cpn-core/internal/core/domain"
	"github.com/check-phat-nguoi/cpn-core/internal/core/ports/driven"
	"github.com/check-phat-nguoi/cpn-core/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// SettingsService manages application settings on top of a ConfigStore.
// Every mutation validates the whole settings tree before persisting, so
// a bad edit never reaches disk.
type SettingsService struct {
	store driven.ConfigStore
	log   zerolog.Logger
}

// NewSettingsService creates a settings service over store.
func NewSettingsService(store driven.ConfigStore, log zerolog.Logger) *SettingsService {
	return &SettingsService{
		store: store,
		log:   log,
	}
}

// Get retrieves current settings. A missing configuration file yields
// the defaults so first runs work without `config init`.
func (s *SettingsService) Get() (domain.AppSettings, error) {
	if !s.store.Exists() {
		return domain.DefaultAppSettings(), nil
	}
	settings, err := s.store.Load()
	if err != nil {
		return domain.AppSettings{}, fmt.Errorf("load settings: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return domain.AppSettings{}, err
	}
	return settings, nil
}

// Save validates and persists application settings.
func (s *SettingsService) Save(settings domain.AppSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	if err := s.store.Save(settings); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	s.log.Info().Str("path", s.store.Path()).Msg("settings saved")
	return nil
}

// Init writes a default configuration file. An existing file is never
// clobbered.
func (s *SettingsService) Init() error {
	if s.store.Exists() {
		return fmt.Errorf("%w: %s already exists", domain.ErrInvalidConfig, s.store.Path())
	}
	return s.Save(domain.DefaultAppSettings())
}

// AddPlate appends a plate to the watch list. Plates already on the
// list, by normalized form, are rejected.
func (s *SettingsService) AddPlate(plate domain.PlateInfo) error {
	if err := plate.Validate(); err != nil {
		return err
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	if _, exists := settings.FindPlate(plate.Plate); exists {
		return fmt.Errorf("%w: plate %s already on the watch list", domain.ErrInvalidInput, plate.NormalizedPlate())
	}
	settings.Plates = append(settings.Plates, plate)
	return s.Save(settings)
}

// RemovePlate drops a plate from the watch list by its normalized form.
func (s *SettingsService) RemovePlate(plate string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	want := domain.NormalizePlate(plate)
	kept := make([]domain.PlateInfo, 0, len(settings.Plates))
	found := false
	for _, p := range settings.Plates {
		if p.NormalizedPlate() == want {
			found = true
			continue
		}
		kept = append(kept, p)
	}
	if !found {
		return fmt.Errorf("%w: plate %s is not on the watch list", domain.ErrInvalidInput, want)
	}
	settings.Plates = kept
	return s.Save(settings)
}

// SetETrafficCredentials stores the etraffic.gtelict.vn account.
func (s *SettingsService) SetETrafficCredentials(citizenID, password string) error {
	if citizenID == "" || password == "" {
		return fmt.Errorf("%w: citizen id and password must both be set", domain.ErrInvalidInput)
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Providers.ETraffic = domain.ETrafficSettings{
		CitizenID: citizenID,
		Password:  password,
	}
	return s.Save(settings)
}

// Path returns the configuration file path.
func (s *SettingsService) Path() string {
	return s.store.Path()
}
