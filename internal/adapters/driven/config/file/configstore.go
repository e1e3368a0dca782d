// Package file stores application settings in a TOML file. The schema
// is strict: unknown keys are an error, so a typo in the file surfaces
// instead of silently disabling a provider or a delivery channel.
package file

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/check-phat-nguoi/cpn-core/internal/core/domain"
	"github.com/check-phat-nguoi/cpn-core/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore is a file-based implementation of driven.ConfigStore
// using TOML.
type ConfigStore struct {
	path string
}

// NewConfigStore creates a TOML config store at path. An empty path
// means ~/.cpn/config.toml. Nothing is created until the first Save.
func NewConfigStore(path string) (*ConfigStore, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(home, ".cpn", "config.toml")
	}
	return &ConfigStore{path: path}, nil
}

// Load reads and validates the file's shape. Unknown keys and
// unparsable enum values are configuration errors naming the culprit.
func (s *ConfigStore) Load() (domain.AppSettings, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return domain.AppSettings{}, fmt.Errorf("read %s: %w", s.path, err)
	}

	var settings fileSettings
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&settings); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return domain.AppSettings{}, fmt.Errorf("%w: unknown keys in %s:\n%s", domain.ErrInvalidConfig, s.path, strict.String())
		}
		return domain.AppSettings{}, fmt.Errorf("%w: parse %s: %v", domain.ErrInvalidConfig, s.path, err)
	}

	return settings.toDomain()
}

// Save persists the settings, creating the parent directory when
// missing. The file is written with owner-only permissions because it
// can carry bot tokens and the etraffic password.
func (s *ConfigStore) Save(settings domain.AppSettings) error {
	data, err := toml.Marshal(fromDomain(settings))
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}

// Exists reports whether a configuration file is present.
func (s *ConfigStore) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.path
}
