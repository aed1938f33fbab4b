// Command mdf is a terminal markdown finder.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kugarocks/markdown-finder/internal/adapters/driven/config/file"
	"github.com/kugarocks/markdown-finder/internal/adapters/driven/system"
	"github.com/kugarocks/markdown-finder/internal/adapters/driving/cli"
	"github.com/kugarocks/markdown-finder/internal/connectors/filesystem"
	"github.com/kugarocks/markdown-finder/internal/core/domain"
	"github.com/kugarocks/markdown-finder/internal/core/index"
	"github.com/kugarocks/markdown-finder/internal/core/ports/driving"
	"github.com/kugarocks/markdown-finder/internal/core/services"
	"github.com/kugarocks/markdown-finder/internal/normalisers/markdown"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	cli.SetVersion(version)
	cli.SetSettingsFactory(openSettings)
	cli.SetServiceFactory(newServices)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// openSettings opens the config file at path, or the default one.
func openSettings(path string) (driving.SettingsService, error) {
	store, err := file.NewConfigStore(path)
	if err != nil {
		return nil, err
	}
	return services.NewSettingsService(store), nil
}

// newServices wires the adapters for one root directory.
func newServices(settings domain.Settings) (*cli.Services, error) {
	scanner, err := filesystem.NewScanner(settings.Root, filesystem.OptionsFromSettings(settings))
	if err != nil {
		return nil, err
	}

	idx := index.New()
	loader := filesystem.NewLoader(scanner.Root(), settings.MaxFileSize)

	indexer := services.NewIndexService(idx, scanner, loader, markdown.New())
	indexer.SetWorkers(settings.Workers)
	indexer.SetUpdateRate(settings.UpdatesPerSecond)
	indexer.SetWatcher(filesystem.NewWatcher(scanner, settings.Debounce()))

	documents := services.NewDocumentService(idx)
	actions := services.NewResultActionService(documents, system.NewClipboard(), system.NewOpener())

	return &cli.Services{
		Index:     indexer,
		Search:    services.NewSearchService(idx),
		Documents: documents,
		Actions:   actions,
	}, nil
}
