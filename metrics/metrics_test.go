package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounters(t *testing.T) {
	m := New()
	m.ObserveOperation("toggle_entry", true)
	m.ObserveOperation("toggle_entry", true)
	m.ObserveOperation("toggle_entry", false)
	m.ObserveSubmission("succeeded")
	m.WidgetMounted()
	m.WidgetMounted()
	m.WidgetUnmounted()

	if got := testutil.ToFloat64(m.operations.WithLabelValues("toggle_entry", "true")); got != 2 {
		t.Errorf("toggle_entry changed=true = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.submissions.WithLabelValues("succeeded")); got != 1 {
		t.Errorf("submissions succeeded = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.activeWidgets); got != 1 {
		t.Errorf("active widgets = %v, want 1", got)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "configurator_submissions_total") {
		t.Errorf("exposition missing submissions counter:\n%s", rec.Body.String())
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveOperation("clear", true)
	m.ObserveSubmission("failed")
	m.ObserveCatalogLoad("ok")
	m.WidgetMounted()
	m.WidgetUnmounted()
	if m.Registry() != nil {
		t.Error("nil metrics should have no registry")
	}
}
