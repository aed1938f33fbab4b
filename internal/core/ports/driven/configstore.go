package driven

import "github.com/kugarocks/markdown-finder/internal/core/domain"

// ConfigStore provides persistent user settings.
type ConfigStore interface {
	// Path returns the config file location.
	Path() string

	// Exists reports whether the config file is present.
	Exists() bool

	// Load reads settings. A missing file yields the defaults.
	Load() (domain.Settings, error)

	// Save persists settings.
	Save(settings domain.Settings) error
}
