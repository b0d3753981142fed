package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"bundle-configurator/catalog"
	"bundle-configurator/metrics"
	"bundle-configurator/models"
	"bundle-configurator/pricing"
	"bundle-configurator/selection"
	"bundle-configurator/utils"
)

// ErrWidgetNotFound is returned for an unknown or unmounted widget id
var ErrWidgetNotFound = errors.New("widget not found")

// SnapshotProvider hands out the catalog snapshot new widgets bind to
type SnapshotProvider interface {
	Snapshot() *catalog.Snapshot
	Unavailable() bool
}

// WidgetOptions configures every widget a WidgetService mounts
type WidgetOptions struct {
	Pipeline  PipelineOptions
	Formatter utils.MoneyFormatter

	// IdleTTL is how long a widget may go untouched before Sweep evicts it.
	// Zero disables idle eviction.
	IdleTTL time.Duration
	// MaxWidgets caps mounted widgets; mounting past it evicts the least
	// recently used one. Zero means no cap.
	MaxWidgets int
	// Now defaults to time.Now
	Now func() time.Time
}

// WidgetService mounts and tracks widget sessions
type WidgetService struct {
	catalog  SnapshotProvider
	cart     CartClientInterface
	notifier CartNotifier
	opts     WidgetOptions
	logger   *zap.Logger
	metrics  *metrics.Metrics

	mu      sync.RWMutex
	widgets map[string]*Widget
}

// NewWidgetService creates a WidgetService
func NewWidgetService(provider SnapshotProvider, cart CartClientInterface, notifier CartNotifier, opts WidgetOptions, logger *zap.Logger, m *metrics.Metrics) *WidgetService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &WidgetService{
		catalog:  provider,
		cart:     cart,
		notifier: notifier,
		opts:     opts,
		logger:   logger,
		metrics:  m,
		widgets:  map[string]*Widget{},
	}
}

// Mount creates a widget with an empty selection bound to the current snapshot
func (s *WidgetService) Mount() *Widget {
	id := uuid.NewString()
	snap := s.catalog.Snapshot()
	w := &Widget{
		ID:                 id,
		store:              selection.NewStore(snap),
		formatter:          s.opts.Formatter,
		catalogUnavailable: s.catalog.Unavailable(),
		logger:             s.logger.With(zap.String("widget_id", id)),
		metrics:            s.metrics,
	}
	w.touch(s.opts.Now())
	w.pipeline = NewSubmissionPipeline(id, s.cart, s.notifier, s.opts.Pipeline, s.logger, s.metrics)

	s.mu.Lock()
	var evicted string
	if s.opts.MaxWidgets > 0 && len(s.widgets) >= s.opts.MaxWidgets {
		evicted = s.leastRecentLocked()
		delete(s.widgets, evicted)
	}
	s.widgets[id] = w
	s.mu.Unlock()

	if evicted != "" {
		s.metrics.WidgetUnmounted()
		s.logger.Info("widget evicted: mount limit reached", zap.String("widget_id", evicted), zap.Int("max_widgets", s.opts.MaxWidgets))
	}

	s.metrics.WidgetMounted()
	w.logger.Info("widget mounted", zap.Int("catalog_entries", snap.Len()))
	return w
}

// Get returns a mounted widget and marks it as used
func (s *WidgetService) Get(id string) (*Widget, error) {
	s.mu.RLock()
	w, ok := s.widgets[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrWidgetNotFound
	}
	w.touch(s.opts.Now())
	return w, nil
}

// Unmount discards a widget. A submission in flight finishes on its own.
func (s *WidgetService) Unmount(id string) error {
	s.mu.Lock()
	_, ok := s.widgets[id]
	delete(s.widgets, id)
	s.mu.Unlock()
	if !ok {
		return ErrWidgetNotFound
	}
	s.metrics.WidgetUnmounted()
	s.logger.Info("widget unmounted", zap.String("widget_id", id))
	return nil
}

// Sweep evicts widgets idle for longer than IdleTTL and returns how many
// were evicted. A submission in flight on an evicted widget finishes on its own.
func (s *WidgetService) Sweep() int {
	if s.opts.IdleTTL <= 0 {
		return 0
	}
	cutoff := s.opts.Now().Add(-s.opts.IdleTTL).UnixNano()

	s.mu.Lock()
	var evicted []string
	for id, w := range s.widgets {
		if w.lastSeen.Load() < cutoff {
			delete(s.widgets, id)
			evicted = append(evicted, id)
		}
	}
	s.mu.Unlock()

	for _, id := range evicted {
		s.metrics.WidgetUnmounted()
		s.logger.Debug("widget evicted: idle", zap.String("widget_id", id))
	}
	if len(evicted) > 0 {
		s.logger.Info("SweepWidgets: evicted idle widgets", zap.Int("evicted", len(evicted)), zap.Duration("idle_ttl", s.opts.IdleTTL))
	}
	return len(evicted)
}

// RunSweeper calls Sweep every interval until ctx is done
func (s *WidgetService) RunSweeper(ctx context.Context, interval time.Duration) {
	if s.opts.IdleTTL <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// leastRecentLocked must be called with s.mu held
func (s *WidgetService) leastRecentLocked() string {
	var oldestID string
	var oldest int64
	for id, w := range s.widgets {
		if seen := w.lastSeen.Load(); oldestID == "" || seen < oldest {
			oldestID, oldest = id, seen
		}
	}
	return oldestID
}

// Count returns the number of mounted widgets
func (s *WidgetService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.widgets)
}

// Widget is one mounted configurator. Its store is only touched under mu.
type Widget struct {
	ID string

	mu                 sync.Mutex
	store              *selection.Store
	pipeline           *SubmissionPipeline
	formatter          utils.MoneyFormatter
	catalogUnavailable bool
	logger             *zap.Logger
	metrics            *metrics.Metrics
	lastSeen           atomic.Int64 // unix nanos of the last Mount or Get
}

func (w *Widget) touch(now time.Time) {
	w.lastSeen.Store(now.UnixNano())
}

// Ensure Widget implements SelectionSource
var _ SelectionSource = (*Widget)(nil)

func (w *Widget) SelectModel(modelID string) models.WidgetState {
	return w.apply("select_model", func(s *selection.Store) bool { return s.SelectModel(modelID) })
}

func (w *Widget) ToggleAccessoryGroup(groupID string) models.WidgetState {
	return w.apply("toggle_group", func(s *selection.Store) bool { return s.ToggleAccessoryGroup(groupID) })
}

func (w *Widget) ToggleEntry(entryID string) models.WidgetState {
	return w.apply("toggle_entry", func(s *selection.Store) bool { return s.ToggleEntry(entryID) })
}

func (w *Widget) ChangeQuantity(entryID string, delta int) models.WidgetState {
	return w.apply("change_quantity", func(s *selection.Store) bool { return s.ChangeQuantity(entryID, delta) })
}

func (w *Widget) Clear() models.WidgetState {
	return w.apply("clear", func(s *selection.Store) bool { return s.Clear() })
}

// State returns the widget as the storefront should render it
func (w *Widget) State() models.WidgetState {
	w.mu.Lock()
	state := w.stateLocked()
	w.mu.Unlock()

	state.Submission = w.pipeline.Status()
	return state
}

// Submit sends the selection to the cart; see SubmissionPipeline.Submit
func (w *Widget) Submit(ctx context.Context, sections []string) (*models.Cart, models.WidgetState, error) {
	cart, err := w.pipeline.Submit(ctx, w, sections)
	return cart, w.State(), err
}

// Summary projects the current selection
func (w *Widget) Summary() models.SummaryView {
	w.mu.Lock()
	defer w.mu.Unlock()
	return pricing.Project(w.store.Entries())
}

// RemoveSubmitted drops what a successful submission sent to the cart
func (w *Widget) RemoveSubmitted(lines []models.CartLineRequest) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.store.RemoveSubmitted(lines)
}

func (w *Widget) apply(operation string, fn func(*selection.Store) bool) models.WidgetState {
	w.mu.Lock()
	changed := fn(w.store)
	state := w.stateLocked()
	w.mu.Unlock()

	w.metrics.ObserveOperation(operation, changed)
	if !changed {
		w.logger.Debug("operation ignored", zap.String("operation", operation))
	}
	state.Changed = &changed
	state.Submission = w.pipeline.Status()
	return state
}

// stateLocked must be called with w.mu held
func (w *Widget) stateLocked() models.WidgetState {
	view := pricing.Project(w.store.Entries())
	return models.WidgetState{
		ID:                 w.ID,
		ActiveModel:        w.store.ActiveModel(),
		VisibleGroups:      w.store.VisibleGroups(),
		ActiveGroups:       w.store.ActiveGroups(),
		Summary:            pricing.Format(view, w.formatter),
		CatalogUnavailable: w.catalogUnavailable,
	}
}
