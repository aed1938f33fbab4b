package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/adrg/xdg"
	"github.com/caarlos0/env/v6"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/kugarocks/markdown-finder/internal/core/domain"
	"github.com/kugarocks/markdown-finder/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

const (
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "MDF_"

	// HomeEnv names the variable that relocates the config directory.
	HomeEnv = "MDF_HOME"

	fileName = "config.toml"
)

// ConfigStore loads and saves domain.Settings in a single file.
type ConfigStore struct {
	mu       sync.Mutex
	filePath string
}

// NewConfigStore creates a store for path. If path is empty the
// default location is used; see DefaultPath.
func NewConfigStore(path string) (*ConfigStore, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return &ConfigStore{filePath: path}, nil
}

// DefaultPath returns $MDF_HOME/config.toml, or config.toml in the
// mdf directory below the XDG config home.
func DefaultPath() (string, error) {
	if home := os.Getenv(HomeEnv); home != "" {
		return filepath.Join(home, fileName), nil
	}
	if xdg.ConfigHome == "" {
		return "", errors.New("cannot determine config directory")
	}
	return filepath.Join(xdg.ConfigHome, "mdf", fileName), nil
}

// Path returns the config file location.
func (s *ConfigStore) Path() string {
	return s.filePath
}

// Exists reports whether the config file is present.
func (s *ConfigStore) Exists() bool {
	_, err := os.Stat(s.filePath)
	return err == nil
}

// Load reads the file over the defaults and applies environment
// overrides. A missing file is not an error.
func (s *ConfigStore) Load() (domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := domain.DefaultSettings()

	data, err := os.ReadFile(s.filePath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// No config file yet; defaults apply.
	case err != nil:
		return settings, fmt.Errorf("read config: %w", err)
	default:
		if err := s.unmarshal(data, &settings); err != nil {
			return domain.DefaultSettings(), fmt.Errorf("parse %s: %w", s.filePath, err)
		}
	}

	if err := env.Parse(&settings, env.Options{Prefix: EnvPrefix}); err != nil {
		return settings, fmt.Errorf("%w: environment: %v", domain.ErrInvalidInput, err)
	}

	if err := settings.Validate(); err != nil {
		return settings, err
	}
	return settings, nil
}

// Save writes settings, creating the directory if needed.
func (s *ConfigStore) Save(settings domain.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.marshal(settings)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.filePath), 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	// Write with restricted permissions
	if err := os.WriteFile(s.filePath, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (s *ConfigStore) isYAML() bool {
	ext := strings.ToLower(filepath.Ext(s.filePath))
	return ext == ".yaml" || ext == ".yml"
}

func (s *ConfigStore) unmarshal(data []byte, settings *domain.Settings) error {
	if s.isYAML() {
		return yaml.Unmarshal(data, settings)
	}
	return toml.Unmarshal(data, settings)
}

func (s *ConfigStore) marshal(settings domain.Settings) ([]byte, error) {
	if s.isYAML() {
		return yaml.Marshal(settings)
	}
	return toml.Marshal(settings)
}
