package service

import (
	"context"
	"errors"
	"testing"

	"bundle-configurator/catalog"
	"bundle-configurator/metrics"
	"bundle-configurator/testutil"
)

type fakeRepo struct {
	raw catalog.Raw
	err error
}

func (r fakeRepo) LoadRaw(ctx context.Context) (catalog.Raw, error) {
	return r.raw, r.err
}

func emptySnapshot() *catalog.Snapshot {
	return catalog.Empty()
}

func TestCatalogServiceLoad(t *testing.T) {
	svc := NewCatalogService(fakeRepo{raw: testutil.Raw()}, nil, metrics.New())
	if !svc.Unavailable() {
		t.Error("catalog should be unavailable before Load")
	}
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if svc.Unavailable() {
		t.Error("catalog should be available after Load")
	}
	if _, ok := svc.Snapshot().Lookup("A1"); !ok {
		t.Error("A1 missing from loaded snapshot")
	}
	if errs := svc.Overview().Errors; len(errs) != 0 {
		t.Errorf("Overview().Errors = %v, want none", errs)
	}
}

func TestCatalogServicePartialParseFailure(t *testing.T) {
	raw := testutil.Raw()
	raw[catalog.KindDependentAccessories] = []byte(`not json`)
	svc := NewCatalogService(fakeRepo{raw: raw}, nil, nil)

	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v, parse errors must not fail the load", err)
	}
	overview := svc.Overview()
	if len(overview.Errors) != 1 {
		t.Fatalf("Overview().Errors = %v, want one", overview.Errors)
	}
	if len(overview.AccessoryGroups) != 0 {
		t.Error("dependent accessories should be empty")
	}
	if len(overview.Models) != 2 {
		t.Errorf("models = %d, want 2", len(overview.Models))
	}
}

func TestCatalogServiceSourceFailure(t *testing.T) {
	svc := NewCatalogService(fakeRepo{raw: testutil.Raw()}, nil, nil)
	if err := svc.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	svc.repository = fakeRepo{err: errors.New("connection refused")}
	if err := svc.Load(context.Background()); err == nil {
		t.Fatal("Load() should report a source failure")
	}
	if !svc.Unavailable() || !svc.Snapshot().IsEmpty() {
		t.Error("a failed source should leave no catalog available")
	}
}

func TestReloadKeepsMountedWidgetSnapshot(t *testing.T) {
	svc := NewCatalogService(fakeRepo{raw: testutil.Raw()}, nil, nil)
	if err := svc.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	widgets := NewWidgetService(svc, &fakeCart{}, nil, WidgetOptions{}, nil, nil)
	before := widgets.Mount()

	svc.repository = fakeRepo{raw: catalog.Raw{
		catalog.KindIndependentAccessories: []byte(`[{"id": "N1", "title": "New", "price": 10}]`),
	}}
	if err := svc.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	after := widgets.Mount()

	if state := before.ToggleEntry("I1"); !*state.Changed {
		t.Error("widget mounted before reload should keep its snapshot")
	}
	if state := after.ToggleEntry("I1"); *state.Changed {
		t.Error("widget mounted after reload should not see I1")
	}
	if state := after.ToggleEntry("N1"); !*state.Changed {
		t.Error("widget mounted after reload should see N1")
	}
}
