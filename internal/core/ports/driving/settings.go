package driving

import "github.com/kugarocks/markdown-finder/internal/core/domain"

// SettingsService reads and writes the user's config file.
type SettingsService interface {
	// Path returns the config file location.
	Path() string

	// Get returns the effective settings: defaults, then the config file,
	// then environment overrides.
	Get() (domain.Settings, error)

	// Save validates settings and writes them to the config file.
	Save(settings domain.Settings) error

	// Init writes a config file holding the defaults. An existing file
	// is left alone unless force is set.
	Init(force bool) error
}
