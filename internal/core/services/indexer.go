package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/kugarocks/markdown-finder/internal/core/domain"
	"github.com/kugarocks/markdown-finder/internal/core/index"
	"github.com/kugarocks/markdown-finder/internal/core/ports/driven"
	"github.com/kugarocks/markdown-finder/internal/core/ports/driving"
	"github.com/kugarocks/markdown-finder/internal/logger"
)

// Ensure IndexService implements the interface.
var _ driving.IndexService = (*IndexService)(nil)

// IndexService builds the index from disk and keeps it current.
// Full builds publish a new snapshot in one step; single-file updates
// go through the index writer lock. Queries are never blocked.
//
// Updates wait for a running build, so a change seen by the watcher
// while the build reads the disk is applied on top of its result.
type IndexService struct {
	building sync.Mutex

	index   *index.Index
	scanner driven.FileScanner
	loader  driven.DocumentLoader
	parser  driven.Parser
	watcher driven.ChangeWatcher
	workers int
	limiter *rate.Limiter
}

// NewIndexService creates a new index service.
func NewIndexService(
	idx *index.Index,
	scanner driven.FileScanner,
	loader driven.DocumentLoader,
	parser driven.Parser,
) *IndexService {
	return &IndexService{
		index:   idx,
		scanner: scanner,
		loader:  loader,
		parser:  parser,
		workers: domain.DefaultWorkers,
		limiter: rate.NewLimiter(rate.Limit(domain.DefaultUpdatesPerSecond), domain.DefaultUpdatesPerSecond),
	}
}

// SetWatcher enables Watch. A nil watcher disables it.
func (s *IndexService) SetWatcher(w driven.ChangeWatcher) {
	s.watcher = w
}

// SetWorkers sets how many files BuildFull reads at once.
func (s *IndexService) SetWorkers(n int) {
	if n > 0 {
		s.workers = n
	}
}

// SetUpdateRate throttles updates applied by Watch.
func (s *IndexService) SetUpdateRate(perSecond float64) {
	if perSecond <= 0 {
		s.limiter = rate.NewLimiter(rate.Inf, 1)
		return
	}
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	s.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
}

// BuildFull reads and parses paths with a bounded worker pool, then
// replaces the index. Files that vanished are left out silently; files
// that cannot be read or parsed are logged and reported as skipped.
// If ctx is cancelled the current index is kept.
func (s *IndexService) BuildFull(ctx context.Context, paths []string) (domain.BuildReport, error) {
	s.building.Lock()
	defer s.building.Unlock()
	return s.buildFull(ctx, paths)
}

func (s *IndexService) buildFull(ctx context.Context, paths []string) (domain.BuildReport, error) {
	logger.Section("Index Build")
	start := time.Now()

	docs := make([]*domain.Document, len(paths))
	var (
		mu      sync.Mutex
		skipped []*domain.FileReadError
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			doc, err := s.load(gctx, path)
			switch {
			case err == nil:
				docs[i] = doc
			case errors.Is(err, fs.ErrNotExist):
				logger.Debug("Gone before read: %s", path)
			case gctx.Err() != nil:
				return gctx.Err()
			default:
				logger.Warn("Skipping %s: %v", path, err)
				mu.Lock()
				skipped = append(skipped, asFileReadError(path, err))
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.BuildReport{}, fmt.Errorf("build index: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return domain.BuildReport{}, fmt.Errorf("build index: %w", err)
	}

	indexed := docs[:0]
	for _, d := range docs {
		if d != nil {
			indexed = append(indexed, d)
		}
	}
	snap := s.index.Replace(indexed)

	report := domain.BuildReport{
		Indexed:  snap.Len(),
		Skipped:  skipped,
		Duration: time.Since(start),
	}
	logger.Info("Indexed %d documents (%d terms, %d skipped) in %s",
		report.Indexed, snap.TermCount(), len(skipped), report.Duration)
	return report, nil
}

// Rebuild scans the root and indexes every file found.
// A *domain.ScanError from the scanner is returned as is.
func (s *IndexService) Rebuild(ctx context.Context) (domain.BuildReport, error) {
	if err := s.scanner.Validate(ctx); err != nil {
		return domain.BuildReport{}, err
	}

	s.building.Lock()
	defer s.building.Unlock()

	logger.Section("Scan")
	filesCh, errsCh := s.scanner.Scan(ctx)
	var (
		paths   []string
		skipped []*domain.FileReadError
	)
	for filesCh != nil || errsCh != nil {
		select {
		case <-ctx.Done():
			return domain.BuildReport{}, ctx.Err()

		case err, ok := <-errsCh:
			if !ok {
				errsCh = nil
				continue
			}
			var fre *domain.FileReadError
			if errors.As(err, &fre) {
				logger.Warn("Skipping %s: %v", fre.Path, fre.Err)
				skipped = append(skipped, fre)
				continue
			}
			return domain.BuildReport{}, err

		case fi, ok := <-filesCh:
			if !ok {
				filesCh = nil
				continue
			}
			paths = append(paths, fi.Path)
		}
	}
	logger.Info("Found %d markdown files below %s", len(paths), s.scanner.Root())

	report, err := s.buildFull(ctx, paths)
	if err != nil {
		return report, err
	}
	report.Skipped = append(skipped, report.Skipped...)
	return report, nil
}

// UpdateOne re-reads path and updates its document. A vanished file is
// removed; a vanished directory takes every document below it along.
// Paths the scanner would not produce are ignored.
func (s *IndexService) UpdateOne(ctx context.Context, path string) error {
	_, _, err := s.apply(ctx, path)
	return err
}

// apply performs UpdateOne and reports what changed. applied is false
// when the path did not affect the index.
func (s *IndexService) apply(ctx context.Context, path string) (domain.ChangeType, bool, error) {
	s.building.Lock()
	defer s.building.Unlock()

	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	_, existed := s.index.Snapshot().Get(path)

	if !s.scanner.Accepts(path) {
		if !s.loader.Exists(path) {
			if n := s.index.RemoveTree(path); n > 0 {
				logger.Debug("Removed %d documents below %s", n, path)
				return domain.ChangeDeleted, true, nil
			}
		}
		if existed && s.index.Remove(path) {
			return domain.ChangeDeleted, true, nil
		}
		return domain.ChangeUpdated, false, nil
	}

	doc, err := s.load(ctx, path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if s.index.Remove(path) {
			logger.Debug("Removed %s", path)
			return domain.ChangeDeleted, true, nil
		}
		return domain.ChangeDeleted, false, nil
	case err != nil:
		// Keep the index equal to what a full build would produce.
		s.index.Remove(path)
		logger.Warn("Skipping %s: %v", path, err)
		return domain.ChangeUpdated, true, asFileReadError(path, err)
	}

	s.index.Upsert(doc)
	if existed {
		logger.Debug("Updated %s", path)
		return domain.ChangeUpdated, true, nil
	}
	logger.Debug("Added %s", path)
	return domain.ChangeCreated, true, nil
}

// Watch applies changes from the watcher, throttled by the update rate,
// and reports each change that affected the index.
func (s *IndexService) Watch(ctx context.Context) (<-chan domain.IndexEvent, error) {
	if s.watcher == nil {
		return nil, fmt.Errorf("%w: no watcher configured", domain.ErrInvalidInput)
	}
	changes, err := s.watcher.Watch(ctx)
	if err != nil {
		return nil, fmt.Errorf("start watcher: %w", err)
	}

	events := make(chan domain.IndexEvent, 16)
	go func() {
		defer close(events)
		for {
			select {
			case <-ctx.Done():
				return
			case change, ok := <-changes:
				if !ok {
					return
				}
				if err := s.limiter.Wait(ctx); err != nil {
					return
				}
				typ, applied, err := s.apply(ctx, change.Path)
				if !applied && err == nil {
					continue
				}
				select {
				case events <- domain.IndexEvent{Path: change.Path, Type: typ, Err: err}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return events, nil
}

// Stats describes the current index.
func (s *IndexService) Stats() domain.IndexStats {
	snap := s.index.Snapshot()
	return domain.IndexStats{
		Documents: snap.Len(),
		Terms:     snap.TermCount(),
		BuiltAt:   snap.BuiltAt(),
	}
}

func (s *IndexService) load(ctx context.Context, path string) (*domain.Document, error) {
	raw, err := s.loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	doc, err := s.parser.Parse(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	return doc, nil
}

func asFileReadError(path string, err error) *domain.FileReadError {
	var fre *domain.FileReadError
	if errors.As(err, &fre) {
		return fre
	}
	return &domain.FileReadError{Path: path, Err: err}
}
