package services

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/check-phat-nguoi/cpn-core/internal/adapters/driven/storage/memory"
	"github.com/check-phat-nguoi/cpn-core/internal/core/domain"
)

func newSettingsService() (*SettingsService, *memory.ConfigStore) {
	store := memory.NewConfigStore()
	return NewSettingsService(store, zerolog.Nop()), store
}

// TestGetDefaultsWhenMissing tests that a missing configuration file
// yields the defaults instead of an error.
func TestGetDefaultsWhenMissing(t *testing.T) {
	svc, store := newSettingsService()

	settings, err := svc.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAppSettings(), settings)
	assert.False(t, store.Exists())
}

// TestGetValidatesLoadedSettings tests that a stored configuration that
// fails validation is rejected on read.
func TestGetValidatesLoadedSettings(t *testing.T) {
	svc, store := newSettingsService()
	bad := domain.DefaultAppSettings()
	bad.Providers.Enabled = append(bad.Providers.Enabled, domain.ProviderETraffic)
	store.Seed(bad)

	_, err := svc.Get()

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

// TestSaveRejectsInvalid tests that invalid settings never reach the
// store.
func TestSaveRejectsInvalid(t *testing.T) {
	svc, store := newSettingsService()
	bad := domain.DefaultAppSettings()
	bad.Providers.Enabled = append(bad.Providers.Enabled, bad.Providers.Enabled[0])

	err := svc.Save(bad)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	assert.False(t, store.Exists())
}

// TestInit tests that Init writes defaults once and refuses to clobber
// an existing file.
func TestInit(t *testing.T) {
	svc, store := newSettingsService()

	require.NoError(t, svc.Init())
	assert.True(t, store.Exists())

	err := svc.Init()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

// TestAddPlate tests appending and duplicate rejection by normalized
// form.
func TestAddPlate(t *testing.T) {
	svc, _ := newSettingsService()
	plate := domain.PlateInfo{Plate: "98A-123.45", VehicleClass: domain.VehicleCar, Owner: "Xe nhà"}

	require.NoError(t, svc.AddPlate(plate))

	settings, err := svc.Get()
	require.NoError(t, err)
	require.Len(t, settings.Plates, 1)
	assert.Equal(t, plate, settings.Plates[0])

	err = svc.AddPlate(domain.PlateInfo{Plate: "98a12345", VehicleClass: domain.VehicleMotorbike})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// TestAddPlateRejectsInvalid tests that unusable plates are rejected
// before touching the store.
func TestAddPlateRejectsInvalid(t *testing.T) {
	svc, store := newSettingsService()

	err := svc.AddPlate(domain.PlateInfo{Plate: "  ", VehicleClass: domain.VehicleCar})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.False(t, store.Exists())
}

// TestRemovePlate tests removal by normalized form and the error for
// unknown plates.
func TestRemovePlate(t *testing.T) {
	svc, _ := newSettingsService()
	require.NoError(t, svc.AddPlate(domain.PlateInfo{Plate: "98A-123.45", VehicleClass: domain.VehicleCar}))
	require.NoError(t, svc.AddPlate(domain.PlateInfo{Plate: "59X1-012.34", VehicleClass: domain.VehicleMotorbike}))

	require.NoError(t, svc.RemovePlate("98a 123 45"))

	settings, err := svc.Get()
	require.NoError(t, err)
	require.Len(t, settings.Plates, 1)
	assert.Equal(t, "59X101234", settings.Plates[0].NormalizedPlate())

	err = svc.RemovePlate("11B22222")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// TestSetETrafficCredentials tests storing the account and the empty
// field rejection.
func TestSetETrafficCredentials(t *testing.T) {
	svc, _ := newSettingsService()

	require.NoError(t, svc.SetETrafficCredentials("012345678901", "s3cret"))

	settings, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, "012345678901", settings.Providers.ETraffic.CitizenID)
	assert.Equal(t, "s3cret", settings.Providers.ETraffic.Password)
	assert.True(t, settings.Providers.ETraffic.IsConfigured())

	err = svc.SetETrafficCredentials("", "s3cret")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// TestPath tests that the store path is passed through.
func TestPath(t *testing.T) {
	svc, _ := newSettingsService()
	assert.Equal(t, ":memory:", svc.Path())
}
