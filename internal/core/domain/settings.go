package domain

import (
	"fmt"
	"time"
)

// Defaults applied when a setting is unset.
const (
	DefaultMaxFileSize      int64 = 4 << 20
	DefaultLimit                  = 200
	DefaultWorkers                = 8
	DefaultDebounceMS             = 150
	DefaultUpdatesPerSecond       = 20
	DefaultPreviewLines           = 40
	DefaultAccentColour           = "#7D56F4"
	DefaultMutedColour            = "#626262"
	DefaultHighlightColour        = "#F25D94"
)

// MarkdownExtensions are the file extensions recognised as markdown.
// Matching is case-insensitive.
var MarkdownExtensions = []string{".md", ".markdown", ".mdown", ".mkd", ".mkdn"}

// Settings holds user configuration. Values come from the config file,
// then MDF_* environment variables, then command line flags.
type Settings struct {
	// Root is the directory to index.
	Root string `toml:"root" yaml:"root" env:"ROOT"`

	// Include and Exclude are glob patterns relative to Root.
	Include []string `toml:"include" yaml:"include" env:"INCLUDE" envSeparator:","`
	Exclude []string `toml:"exclude" yaml:"exclude" env:"EXCLUDE" envSeparator:","`

	// ShowHidden indexes dot files and dot directories.
	ShowHidden bool `toml:"show_hidden" yaml:"show_hidden" env:"SHOW_HIDDEN"`

	// FollowSymlinks follows symbolic links to files.
	FollowSymlinks bool `toml:"follow_symlinks" yaml:"follow_symlinks" env:"FOLLOW_SYMLINKS"`

	// MaxFileSize skips larger files. Zero means unlimited.
	MaxFileSize int64 `toml:"max_file_size" yaml:"max_file_size" env:"MAX_FILE_SIZE"`

	// Limit caps the result list. Zero or less means unlimited.
	Limit int `toml:"limit" yaml:"limit" env:"LIMIT"`

	// Workers bounds concurrent file reads during a full build.
	Workers int `toml:"workers" yaml:"workers" env:"WORKERS"`

	// Watch enables incremental updates from file system events.
	Watch bool `toml:"watch" yaml:"watch" env:"WATCH"`

	// DebounceMS coalesces bursts of events for the same path.
	DebounceMS int `toml:"debounce_ms" yaml:"debounce_ms" env:"DEBOUNCE_MS"`

	// UpdatesPerSecond throttles incremental updates.
	UpdatesPerSecond float64 `toml:"updates_per_second" yaml:"updates_per_second" env:"UPDATES_PER_SECOND"`

	// PreviewLines is the number of lines shown in the side preview.
	PreviewLines int `toml:"preview_lines" yaml:"preview_lines" env:"PREVIEW_LINES"`

	// Theme holds UI colours.
	Theme ThemeSettings `toml:"theme" yaml:"theme" envPrefix:"THEME_"`
}

// ThemeSettings holds UI colours as lipgloss colour strings.
type ThemeSettings struct {
	Accent    string `toml:"accent" yaml:"accent" env:"ACCENT"`
	Muted     string `toml:"muted" yaml:"muted" env:"MUTED"`
	Highlight string `toml:"highlight" yaml:"highlight" env:"HIGHLIGHT"`
}

// DefaultSettings returns settings with sensible defaults.
func DefaultSettings() Settings {
	return Settings{
		Root:             ".",
		MaxFileSize:      DefaultMaxFileSize,
		Limit:            DefaultLimit,
		Workers:          DefaultWorkers,
		Watch:            true,
		DebounceMS:       DefaultDebounceMS,
		UpdatesPerSecond: DefaultUpdatesPerSecond,
		PreviewLines:     DefaultPreviewLines,
		Theme: ThemeSettings{
			Accent:    DefaultAccentColour,
			Muted:     DefaultMutedColour,
			Highlight: DefaultHighlightColour,
		},
	}
}

// Debounce returns DebounceMS as a duration.
func (s Settings) Debounce() time.Duration {
	return time.Duration(s.DebounceMS) * time.Millisecond
}

// Normalise fills zero values that have no meaning with defaults.
func (s *Settings) Normalise() {
	d := DefaultSettings()
	if s.Root == "" {
		s.Root = d.Root
	}
	if s.Workers <= 0 {
		s.Workers = d.Workers
	}
	if s.DebounceMS < 0 {
		s.DebounceMS = 0
	}
	if s.UpdatesPerSecond <= 0 {
		s.UpdatesPerSecond = d.UpdatesPerSecond
	}
	if s.PreviewLines <= 0 {
		s.PreviewLines = d.PreviewLines
	}
	if s.Theme.Accent == "" {
		s.Theme.Accent = d.Theme.Accent
	}
	if s.Theme.Muted == "" {
		s.Theme.Muted = d.Theme.Muted
	}
	if s.Theme.Highlight == "" {
		s.Theme.Highlight = d.Theme.Highlight
	}
}

// Validate checks the settings for values that cannot be used.
func (s Settings) Validate() error {
	if s.MaxFileSize < 0 {
		return fmt.Errorf("%w: max_file_size must not be negative", ErrInvalidInput)
	}
	if s.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative", ErrInvalidInput)
	}
	if s.UpdatesPerSecond < 0 {
		return fmt.Errorf("%w: updates_per_second must not be negative", ErrInvalidInput)
	}
	return nil
}
