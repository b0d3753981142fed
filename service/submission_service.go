package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"bundle-configurator/metrics"
	"bundle-configurator/models"
	"bundle-configurator/pricing"
)

// Control labels
const (
	DefaultIdleLabel  = "Add to cart"
	SubmittingLabel   = "Adding..."
	RejectedLabel     = "Select products first"
	StockErrorLabel   = "Some items are out of stock"
	GenericErrorLabel = "Error — Try Again"

	// maxErrorLabel is the longest raw cart error shown on the control
	maxErrorLabel = 30
)

// Display delays, in time units
const (
	rejectedDelayUnits = 2.0
	failedDelayUnits   = 2.5
)

var stockMarkers = []string{"out of stock", "not available", "inventory"}

var (
	// ErrEmptySelection is returned when a submission is attempted with nothing selected
	ErrEmptySelection = errors.New("nothing selected")
	// ErrSubmissionInFlight is returned when a submission is already running
	ErrSubmissionInFlight = errors.New("submission already in flight")
)

// SubmissionErrorKind classifies a failed submission
type SubmissionErrorKind string

const (
	StockError   SubmissionErrorKind = "stock"
	GenericError SubmissionErrorKind = "generic"
)

// SubmissionError is a failed add-to-cart with the label shown for it
type SubmissionError struct {
	Kind  SubmissionErrorKind
	Label string
	Err   error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submission failed (%s): %v", e.Kind, e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// SelectionSource is the widget state a submission reads and clears
type SelectionSource interface {
	Summary() models.SummaryView
	// RemoveSubmitted drops the submitted lines, keeping edits made while
	// the submission was in flight
	RemoveSubmitted(lines []models.CartLineRequest)
}

// PipelineOptions configures a SubmissionPipeline
type PipelineOptions struct {
	IdleLabel string
	TimeUnit  time.Duration
	Scheduler Scheduler
}

// SubmissionPipeline sends a widget's selection to the cart and tracks the
// add-to-cart control through idle, submitting, succeeded, failed and
// rejected. One pipeline belongs to one widget.
type SubmissionPipeline struct {
	widgetID  string
	cart      CartClientInterface
	notifier  CartNotifier
	scheduler Scheduler
	timeUnit  time.Duration
	idleLabel string
	logger    *zap.Logger
	metrics   *metrics.Metrics

	mu     sync.Mutex
	busy   bool
	status models.SubmissionStatus
	gen    uint64 // bumped on every state change so stale resets are ignored
}

// NewSubmissionPipeline creates an idle pipeline for widgetID
func NewSubmissionPipeline(widgetID string, cart CartClientInterface, notifier CartNotifier, opts PipelineOptions, logger *zap.Logger, m *metrics.Metrics) *SubmissionPipeline {
	if opts.IdleLabel == "" {
		opts.IdleLabel = DefaultIdleLabel
	}
	if opts.TimeUnit <= 0 {
		opts.TimeUnit = time.Second
	}
	if opts.Scheduler == nil {
		opts.Scheduler = TimeScheduler()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &SubmissionPipeline{
		widgetID:  widgetID,
		cart:      cart,
		notifier:  notifier,
		scheduler: opts.Scheduler,
		timeUnit:  opts.TimeUnit,
		idleLabel: opts.IdleLabel,
		logger:    logger.With(zap.String("widget_id", widgetID)),
		metrics:   m,
	}
	p.status = p.idleStatus()
	return p
}

// Status returns the current control state
func (p *SubmissionPipeline) Status() models.SubmissionStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// Submit sends every selected line to the cart in one request, then reads
// the cart back, publishes a CartChanged and clears the selection.
//
// It returns ErrEmptySelection when nothing is selected (no network call),
// ErrSubmissionInFlight when a submission is already running, and a
// *SubmissionError when either cart call fails. Failures leave the selection
// untouched and reset the control after a delay.
func (p *SubmissionPipeline) Submit(ctx context.Context, src SelectionSource, sections []string) (*models.Cart, error) {
	view := src.Summary()

	p.mu.Lock()
	if p.busy {
		p.mu.Unlock()
		p.metrics.ObserveSubmission("ignored")
		return nil, ErrSubmissionInFlight
	}
	if !view.HasItems {
		p.setLocked(models.SubmissionStatus{State: models.SubmissionRejected, Label: RejectedLabel})
		p.resetAfterLocked(rejectedDelayUnits)
		p.mu.Unlock()
		p.logger.Info("submission rejected: nothing selected")
		p.metrics.ObserveSubmission("rejected")
		return nil, ErrEmptySelection
	}
	p.busy = true
	p.setLocked(models.SubmissionStatus{State: models.SubmissionSubmitting, Label: SubmittingLabel, Disabled: true})
	p.mu.Unlock()

	// The calls run to completion even if the caller goes away.
	ctx = context.WithoutCancel(ctx)

	req := models.CartAddRequest{Items: pricing.Lines(view), Sections: sections}
	p.logger.Info("submitting selection", zap.Int("lines", len(req.Items)), zap.Int("items", view.ItemCount))

	result, err := p.cart.Add(ctx, req)
	if err != nil {
		return nil, p.fail(&SubmissionError{Kind: GenericError, Label: GenericErrorLabel, Err: err})
	}
	if !result.Success {
		text := result.Error.Text()
		kind, label := classify(text)
		return nil, p.fail(&SubmissionError{Kind: kind, Label: label, Err: fmt.Errorf("cart rejected lines: %q", text)})
	}

	cart, err := p.cart.Read(ctx)
	if err != nil {
		return nil, p.fail(&SubmissionError{Kind: GenericError, Label: GenericErrorLabel, Err: err})
	}

	if p.notifier != nil {
		evt := models.CartChanged{WidgetID: p.widgetID, Cart: cart, At: time.Now().UTC()}
		if err := p.notifier.Publish(ctx, evt); err != nil {
			p.logger.Warn("failed to publish cart change", zap.Error(err))
		}
	}
	src.RemoveSubmitted(req.Items)

	p.mu.Lock()
	p.busy = false
	p.setLocked(models.SubmissionStatus{State: models.SubmissionSucceeded, Label: p.idleLabel})
	p.setLocked(p.idleStatus())
	p.mu.Unlock()

	p.logger.Info("submission succeeded", zap.Int("cart_items", cart.ItemCount))
	p.metrics.ObserveSubmission("succeeded")
	return &cart, nil
}

func (p *SubmissionPipeline) fail(serr *SubmissionError) error {
	p.mu.Lock()
	p.busy = false
	p.setLocked(models.SubmissionStatus{State: models.SubmissionFailed, Label: serr.Label})
	p.resetAfterLocked(failedDelayUnits)
	p.mu.Unlock()

	p.logger.Warn("submission failed", zap.String("kind", string(serr.Kind)), zap.Error(serr.Err))
	p.metrics.ObserveSubmission("failed_" + string(serr.Kind))
	return serr
}

func (p *SubmissionPipeline) idleStatus() models.SubmissionStatus {
	return models.SubmissionStatus{State: models.SubmissionIdle, Label: p.idleLabel}
}

// setLocked must be called with p.mu held
func (p *SubmissionPipeline) setLocked(status models.SubmissionStatus) {
	p.gen++
	p.status = status
}

// resetAfterLocked schedules a return to idle unless the state changes first.
// Must be called with p.mu held.
func (p *SubmissionPipeline) resetAfterLocked(units float64) {
	gen := p.gen
	p.scheduler.AfterFunc(time.Duration(units*float64(p.timeUnit)), func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.gen == gen {
			p.setLocked(p.idleStatus())
		}
	})
}

// classify maps the cart's free-text error to an error kind and control label
func classify(text string) (SubmissionErrorKind, string) {
	lower := strings.ToLower(text)
	for _, marker := range stockMarkers {
		if strings.Contains(lower, marker) {
			return StockError, StockErrorLabel
		}
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || utf8.RuneCountInString(trimmed) > maxErrorLabel {
		return GenericError, GenericErrorLabel
	}
	return GenericError, trimmed
}
