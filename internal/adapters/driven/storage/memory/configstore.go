// Package memory provides in-memory driven-port implementations for
// tests.
package memory

import (
	"errors"
	"sync"

	"github.com/check-phat-nguoi/cpn-core/internal/core/domain"
	"github.com/check-phat-nguoi/cpn-core/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore is an in-memory implementation of driven.ConfigStore for
// testing. It behaves like the file store: Exists is false and Load
// fails until the first Save.
type ConfigStore struct {
	mu       sync.RWMutex
	settings domain.AppSettings
	saved    bool

	// FailLoad and FailSave force errors for failure-path tests.
	FailLoad error
	FailSave error
}

// NewConfigStore creates a new in-memory config store.
func NewConfigStore() *ConfigStore {
	return &ConfigStore{}
}

// Seed stores settings directly, bypassing Save, for test setup.
func (s *ConfigStore) Seed(settings domain.AppSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	s.saved = true
}

// Load reads the stored settings.
func (s *ConfigStore) Load() (domain.AppSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.FailLoad != nil {
		return domain.AppSettings{}, s.FailLoad
	}
	if !s.saved {
		return domain.AppSettings{}, errors.New("no settings stored")
	}
	return s.settings, nil
}

// Save stores the settings.
func (s *ConfigStore) Save(settings domain.AppSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailSave != nil {
		return s.FailSave
	}
	s.settings = settings
	s.saved = true
	return nil
}

// Exists reports whether settings have been stored.
func (s *ConfigStore) Exists() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saved
}

// Path returns a placeholder path.
func (s *ConfigStore) Path() string {
	return ":memory:"
}
