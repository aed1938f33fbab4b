package services

import (
	"fmt"

	"github.com/kugarocks/markdown-finder/internal/core/domain"
	"github.com/kugarocks/markdown-finder/internal/core/ports/driven"
	"github.com/kugarocks/markdown-finder/internal/core/ports/driving"
	"github.com/kugarocks/markdown-finder/internal/logger"
)

// Verify interface compliance.
var _ driving.SettingsService = (*SettingsService)(nil)

// SettingsService implements driving.SettingsService over a config store.
type SettingsService struct {
	store driven.ConfigStore
}

// NewSettingsService creates a settings service backed by store.
func NewSettingsService(store driven.ConfigStore) *SettingsService {
	return &SettingsService{store: store}
}

// Path returns the config file location.
func (s *SettingsService) Path() string {
	return s.store.Path()
}

// Get returns the effective settings.
func (s *SettingsService) Get() (domain.Settings, error) {
	return s.store.Load()
}

// Save normalises and validates settings before writing them.
func (s *SettingsService) Save(settings domain.Settings) error {
	settings.Normalise()
	if err := settings.Validate(); err != nil {
		return err
	}
	if err := s.store.Save(settings); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	logger.Debug("settings saved to %s", s.store.Path())
	return nil
}

// Init writes the default settings to a new config file.
func (s *SettingsService) Init(force bool) error {
	if s.store.Exists() && !force {
		return fmt.Errorf("%w: %s", domain.ErrAlreadyExists, s.store.Path())
	}
	return s.Save(domain.DefaultSettings())
}
