package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"bundle-configurator/catalog"
	"bundle-configurator/metrics"
	"bundle-configurator/models"
	"bundle-configurator/repository"
)

// CatalogService owns the current catalog snapshot. Reload swaps in a new
// snapshot for widgets mounted afterwards; mounted widgets keep theirs.
type CatalogService struct {
	repository repository.CatalogRepositoryInterface
	logger     *zap.Logger
	metrics    *metrics.Metrics

	mu          sync.RWMutex
	snapshot    *catalog.Snapshot
	parseErrs   []error
	unavailable bool
}

// NewCatalogService creates a CatalogService with an empty snapshot
func NewCatalogService(repo repository.CatalogRepositoryInterface, logger *zap.Logger, m *metrics.Metrics) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{
		repository:  repo,
		logger:      logger,
		metrics:     m,
		snapshot:    catalog.Empty(),
		unavailable: true,
	}
}

// Load reads and parses the catalog. A source failure leaves an empty
// snapshot in place and is returned; parse errors of individual kinds are
// logged and kept for Overview but do not fail the load.
func (s *CatalogService) Load(ctx context.Context) error {
	raw, err := s.repository.LoadRaw(ctx)
	if err != nil {
		s.logger.Error("LoadCatalog: catalog source failed, no catalog available", zap.Error(err))
		s.metrics.ObserveCatalogLoad("error")
		s.swap(catalog.Empty(), nil)
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	snap, err := catalog.Load(raw)
	var parseErrs []error
	if err != nil {
		parseErrs = unjoin(err)
		for _, perr := range parseErrs {
			s.logger.Warn("LoadCatalog: catalog kind treated as empty", zap.Error(perr))
		}
		s.metrics.ObserveCatalogLoad("parse_error")
	} else {
		s.metrics.ObserveCatalogLoad("ok")
	}
	s.swap(snap, parseErrs)

	s.logger.Info("LoadCatalog: loaded catalog",
		zap.Int("models", len(snap.Models())),
		zap.Int("groups", len(snap.Groups())),
		zap.Int("entries", snap.Len()))
	return nil
}

func (s *CatalogService) swap(snap *catalog.Snapshot, parseErrs []error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snap
	s.parseErrs = parseErrs
	s.unavailable = snap.IsEmpty()
}

// Snapshot returns the current snapshot, never nil
func (s *CatalogService) Snapshot() *catalog.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Unavailable reports whether there is no usable catalog
func (s *CatalogService) Unavailable() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unavailable
}

// Overview returns the current snapshot and its parse errors
func (s *CatalogService) Overview() models.CatalogOverview {
	s.mu.RLock()
	snap, parseErrs := s.snapshot, s.parseErrs
	s.mu.RUnlock()

	overview := snap.Overview()
	for _, err := range parseErrs {
		overview.Errors = append(overview.Errors, err.Error())
	}
	return overview
}

func unjoin(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}
