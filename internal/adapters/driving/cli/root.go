// Package cli provides the command line interface for mdf.
// It implements a driving adapter following hexagonal architecture principles.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/kugarocks/markdown-finder/internal/core/domain"
	"github.com/kugarocks/markdown-finder/internal/core/ports/driving"
	"github.com/kugarocks/markdown-finder/internal/logger"
)

// version is set at build time via SetVersion.
var version = "dev"

// Services bundles the core services built for one root directory.
type Services struct {
	Index     driving.IndexService
	Search    driving.SearchService
	Documents driving.DocumentService
	Actions   driving.ResultActionService
}

// ServiceFactory builds the services for the given settings.
type ServiceFactory func(settings domain.Settings) (*Services, error)

// SettingsFactory opens the settings service for a config file.
// An empty path selects the default location.
type SettingsFactory func(path string) (driving.SettingsService, error)

var (
	serviceFactory  ServiceFactory
	settingsFactory SettingsFactory

	// isTerminal reports whether stdin and stdout are attached to a terminal.
	isTerminal = func() bool {
		return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
	}
)

// Persistent flags.
var (
	configPath   string
	includeGlobs []string
	excludeGlobs []string
	showHidden   bool
	verbose      bool
	logFile      string
)

var rootCmd = &cobra.Command{
	Use:   "mdf [root]",
	Short: "Find markdown files from the terminal",
	Long: `mdf indexes every markdown file below a directory and lets you search
them interactively. The index is kept in memory and follows changes on
disk while mdf is running.

Query syntax:
  word           match a word in the title, headings, path or body
  "some phrase"  match the exact phrase
  -word          exclude documents containing word
  title:word     restrict a word to one field (title, heading, path, body)`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	Version:       version,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	RunE: runTUI,
}

func init() {
	rootCmd.SetVersionTemplate("mdf version {{.Version}}\n")

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "config file (default $MDF_HOME/config.toml)")
	pf.StringArrayVar(&includeGlobs, "include", nil, "only index paths matching this glob (repeatable)")
	pf.StringArrayVar(&excludeGlobs, "exclude", nil, "skip paths matching this glob (repeatable)")
	pf.BoolVar(&showHidden, "hidden", false, "include hidden files and directories")
	pf.BoolVar(&verbose, "verbose", false, "print debug logs")
	pf.StringVar(&logFile, "log-file", "", "write logs to this file while the TUI is running")
}

// SetVersion sets the version reported by --version and the version command.
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// SetServiceFactory sets how commands build the core services.
func SetServiceFactory(f ServiceFactory) {
	serviceFactory = f
}

// SetSettingsFactory sets how commands open the config file.
func SetSettingsFactory(f SettingsFactory) {
	settingsFactory = f
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// resolveSettings merges the config file, the environment and the
// command line. Flags win over both.
func resolveSettings(cmd *cobra.Command, root string) (domain.Settings, error) {
	settings := domain.DefaultSettings()
	if settingsFactory != nil {
		store, err := settingsFactory(configPath)
		if err != nil {
			return settings, fmt.Errorf("load config: %w", err)
		}
		loaded, err := store.Get()
		if err != nil {
			return settings, fmt.Errorf("load config: %w", err)
		}
		settings = loaded
	}

	if root != "" {
		settings.Root = root
	}
	flags := cmd.Flags()
	if flags.Changed("include") {
		settings.Include = includeGlobs
	}
	if flags.Changed("exclude") {
		settings.Exclude = append(settings.Exclude, excludeGlobs...)
	}
	if flags.Changed("hidden") {
		settings.ShowHidden = showHidden
	}

	settings.Normalise()
	if err := settings.Validate(); err != nil {
		return settings, err
	}
	logger.Debug("settings: root=%s include=%v exclude=%v hidden=%v",
		settings.Root, settings.Include, settings.Exclude, settings.ShowHidden)
	return settings, nil
}

// newServices builds the services and the initial index.
func newServices(ctx context.Context, settings domain.Settings) (*Services, domain.BuildReport, error) {
	svc, err := createServices(settings)
	if err != nil {
		return nil, domain.BuildReport{}, err
	}
	report, err := buildIndex(ctx, svc)
	if err != nil {
		return nil, report, err
	}
	return svc, report, nil
}

// createServices builds the services without touching the disk.
func createServices(settings domain.Settings) (*Services, error) {
	if serviceFactory == nil {
		return nil, errors.New("services not configured")
	}
	return serviceFactory(settings)
}

// buildIndex runs the initial scan and index build.
func buildIndex(ctx context.Context, svc *Services) (domain.BuildReport, error) {
	logger.Section("Indexing")
	report, err := svc.Index.Rebuild(ctx)
	if err != nil {
		return report, err
	}
	for _, skipped := range report.Skipped {
		logger.Warn("skipped %s", skipped)
	}
	logger.Info("Indexed %d documents in %s", report.Indexed, report.Duration)
	return report, nil
}
