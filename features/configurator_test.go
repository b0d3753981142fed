package features

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cucumber/godog"

	"bundle-configurator/catalog"
	"bundle-configurator/models"
	"bundle-configurator/service"
	"bundle-configurator/testutil"
)

type fixedCatalog struct{ snap *catalog.Snapshot }

func (c fixedCatalog) Snapshot() *catalog.Snapshot { return c.snap }
func (c fixedCatalog) Unavailable() bool           { return c.snap.IsEmpty() }

type recordingCart struct {
	mu       sync.Mutex
	requests []models.CartAddRequest
	failWith string
}

func (c *recordingCart) Add(ctx context.Context, req models.CartAddRequest) (models.CartAddResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests = append(c.requests, req)
	if c.failWith != "" {
		return models.CartAddResult{Error: models.CartErrorResponse{Status: 422, Message: "Cart Error", Description: c.failWith}}, nil
	}
	return models.CartAddResult{Success: true}, nil
}

func (c *recordingCart) Read(ctx context.Context) (models.Cart, error) {
	return models.Cart{ItemCount: 1}, nil
}

type queuedScheduler struct {
	mu      sync.Mutex
	pending []func()
}

func (s *queuedScheduler) AfterFunc(d time.Duration, f func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, f)
}

func (s *queuedScheduler) fireAll() {
	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()
	for _, f := range pending {
		f()
	}
}

type configuratorTestContext struct {
	snap      *catalog.Snapshot
	cart      *recordingCart
	scheduler *queuedScheduler
	widget    *service.Widget
	state     models.WidgetState
	submitErr error
}

func (c *configuratorTestContext) reset() {
	c.snap = nil
	c.cart = &recordingCart{}
	c.scheduler = &queuedScheduler{}
	c.widget = nil
	c.state = models.WidgetState{}
	c.submitErr = nil
}

func (c *configuratorTestContext) theFixtureCatalog() error {
	snap, err := catalog.Load(testutil.Raw())
	if err != nil {
		return err
	}
	c.snap = snap
	return nil
}

func (c *configuratorTestContext) aMountedWidget() error {
	widgets := service.NewWidgetService(fixedCatalog{snap: c.snap}, c.cart, service.NewCartBus(nil), service.WidgetOptions{
		Pipeline: service.PipelineOptions{Scheduler: c.scheduler},
	}, nil, nil)
	c.widget = widgets.Mount()
	c.state = c.widget.State()
	return nil
}

func (c *configuratorTestContext) theCartFailsWithDescription(description string) error {
	c.cart.failWith = description
	return nil
}

func (c *configuratorTestContext) iSelectModel(id string) error {
	c.state = c.widget.SelectModel(id)
	return nil
}

func (c *configuratorTestContext) iToggleEntry(id string) error {
	c.state = c.widget.ToggleEntry(id)
	return nil
}

func (c *configuratorTestContext) iToggleAccessoryGroup(id string) error {
	c.state = c.widget.ToggleAccessoryGroup(id)
	return nil
}

func (c *configuratorTestContext) iChangeTheQuantityOfBy(id string, delta int) error {
	c.state = c.widget.ChangeQuantity(id, delta)
	return nil
}

func (c *configuratorTestContext) iSubmitTheSelection() error {
	_, c.state, c.submitErr = c.widget.Submit(context.Background(), nil)
	return nil
}

func (c *configuratorTestContext) theDisplayDelayElapses() error {
	c.scheduler.fireAll()
	c.state = c.widget.State()
	return nil
}

func (c *configuratorTestContext) accessoryGroupIsVisible(id string) error {
	if !slices.Contains(c.state.VisibleGroups, id) {
		return fmt.Errorf("expected group %s to be visible, visible groups are %v", id, c.state.VisibleGroups)
	}
	return nil
}

func (c *configuratorTestContext) accessoryGroupIsHidden(id string) error {
	if slices.Contains(c.state.VisibleGroups, id) {
		return fmt.Errorf("expected group %s to be hidden, visible groups are %v", id, c.state.VisibleGroups)
	}
	return nil
}

func (c *configuratorTestContext) theSelectionHasEntries(n int) error {
	count := 0
	for _, g := range c.state.Summary.Groups {
		count += len(g.Lines)
	}
	if count != n {
		return fmt.Errorf("expected %d entries, got %d", n, count)
	}
	return nil
}

func (c *configuratorTestContext) theSelectionContains(id string) error {
	for _, g := range c.state.Summary.Groups {
		for _, line := range g.Lines {
			if line.ID == id {
				return nil
			}
		}
	}
	return fmt.Errorf("expected the selection to contain %s", id)
}

func (c *configuratorTestContext) theGrandTotalIs(total int) error {
	if c.state.Summary.GrandTotal != int64(total) {
		return fmt.Errorf("expected grand total %d, got %d", total, c.state.Summary.GrandTotal)
	}
	return nil
}

func (c *configuratorTestContext) theItemCountIs(n int) error {
	if c.state.Summary.ItemCount != n {
		return fmt.Errorf("expected item count %d, got %d", n, c.state.Summary.ItemCount)
	}
	return nil
}

func (c *configuratorTestContext) theOperationReportsNoChange() error {
	if c.state.Changed == nil || *c.state.Changed {
		return errors.New("expected the operation to report no change")
	}
	return nil
}

func (c *configuratorTestContext) theSubmissionIsRejected() error {
	if !errors.Is(c.submitErr, service.ErrEmptySelection) {
		return fmt.Errorf("expected ErrEmptySelection, got %v", c.submitErr)
	}
	if c.state.Submission.State != models.SubmissionRejected {
		return fmt.Errorf("expected rejected state, got %s", c.state.Submission.State)
	}
	return nil
}

func (c *configuratorTestContext) theSubmissionFails() error {
	var serr *service.SubmissionError
	if !errors.As(c.submitErr, &serr) {
		return fmt.Errorf("expected a SubmissionError, got %v", c.submitErr)
	}
	if c.state.Submission.State != models.SubmissionFailed {
		return fmt.Errorf("expected failed state, got %s", c.state.Submission.State)
	}
	return nil
}

func (c *configuratorTestContext) theSubmissionSucceeds() error {
	if c.submitErr != nil {
		return fmt.Errorf("expected success, got %v", c.submitErr)
	}
	return nil
}

func (c *configuratorTestContext) theControlShows(label string) error {
	if c.state.Submission.Label != label {
		return fmt.Errorf("expected control label %q, got %q", label, c.state.Submission.Label)
	}
	return nil
}

func (c *configuratorTestContext) theControlIsIdle() error {
	if c.state.Submission.State != models.SubmissionIdle || c.state.Submission.Disabled {
		return fmt.Errorf("expected an enabled idle control, got %+v", c.state.Submission)
	}
	return nil
}

func (c *configuratorTestContext) theCartReceivedRequests(n int) error {
	c.cart.mu.Lock()
	defer c.cart.mu.Unlock()
	if len(c.cart.requests) != n {
		return fmt.Errorf("expected %d cart requests, got %d", n, len(c.cart.requests))
	}
	return nil
}

func (c *configuratorTestContext) theCartReceivedLines(lines string) error {
	c.cart.mu.Lock()
	defer c.cart.mu.Unlock()
	if len(c.cart.requests) != 1 {
		return fmt.Errorf("expected exactly one cart request, got %d", len(c.cart.requests))
	}
	var got []string
	for _, line := range c.cart.requests[0].Items {
		got = append(got, line.ID+":"+strconv.Itoa(line.Quantity))
	}
	if want := strings.Split(lines, ","); !slices.Equal(got, want) {
		return fmt.Errorf("expected lines %v, got %v", want, got)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &configuratorTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^the fixture catalog$`, tc.theFixtureCatalog)
	ctx.Step(`^a mounted widget$`, tc.aMountedWidget)
	ctx.Step(`^the cart fails with description "([^"]*)"$`, tc.theCartFailsWithDescription)

	// When steps
	ctx.Step(`^I select model "([^"]*)"$`, tc.iSelectModel)
	ctx.Step(`^I toggle entry "([^"]*)"$`, tc.iToggleEntry)
	ctx.Step(`^I toggle accessory group "([^"]*)"$`, tc.iToggleAccessoryGroup)
	ctx.Step(`^I change the quantity of "([^"]*)" by (-?\d+)$`, tc.iChangeTheQuantityOfBy)
	ctx.Step(`^I submit the selection$`, tc.iSubmitTheSelection)
	ctx.Step(`^the display delay elapses$`, tc.theDisplayDelayElapses)

	// Then steps
	ctx.Step(`^accessory group "([^"]*)" is visible$`, tc.accessoryGroupIsVisible)
	ctx.Step(`^accessory group "([^"]*)" is hidden$`, tc.accessoryGroupIsHidden)
	ctx.Step(`^the selection has (\d+) entr(?:y|ies)$`, tc.theSelectionHasEntries)
	ctx.Step(`^the selection contains "([^"]*)"$`, tc.theSelectionContains)
	ctx.Step(`^the grand total is (\d+)$`, tc.theGrandTotalIs)
	ctx.Step(`^the item count is (\d+)$`, tc.theItemCountIs)
	ctx.Step(`^the operation reports no change$`, tc.theOperationReportsNoChange)
	ctx.Step(`^the submission is rejected$`, tc.theSubmissionIsRejected)
	ctx.Step(`^the submission fails$`, tc.theSubmissionFails)
	ctx.Step(`^the submission succeeds$`, tc.theSubmissionSucceeds)
	ctx.Step(`^the control shows "([^"]*)"$`, tc.theControlShows)
	ctx.Step(`^the control is idle$`, tc.theControlIsIdle)
	ctx.Step(`^the cart received (\d+) requests?$`, tc.theCartReceivedRequests)
	ctx.Step(`^the cart received lines "([^"]*)"$`, tc.theCartReceivedLines)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"configurator.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
