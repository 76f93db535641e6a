package metrics_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/goliatone/go-formstate/internal/metrics"
	"github.com/goliatone/go-formstate/pkg/customer"
	"github.com/goliatone/go-formstate/pkg/debounce"
	"github.com/goliatone/go-formstate/pkg/pricing"
)

func TestHooksRecordSessionActivity(t *testing.T) {
	m, err := metrics.New(nil)
	if err != nil {
		t.Fatalf("new metrics: %v", err)
	}
	clock := debounce.NewManualClock(time.Time{})
	session := customer.New(customer.WithClock(clock), customer.WithHooks(m.Hooks()))
	defer session.Close()

	if err := session.SetValue("notification", "text"); err != nil {
		t.Fatalf("set notification: %v", err)
	}
	if err := session.SetValue(customer.PathEmail, "jack@"); err != nil {
		t.Fatalf("set email: %v", err)
	}
	clock.Advance(time.Second)
	if err := session.SetPhase(pricing.Phase4, true); err != nil {
		t.Fatalf("set phase: %v", err)
	}
	if _, err := session.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	if got := testutil.ToFloat64(m.Mutations.WithLabelValues("phase4")); got != 1 {
		t.Fatalf("phase4 mutations = %v", got)
	}
	if got := testutil.ToFloat64(m.Messages.WithLabelValues("shown")); got != 1 {
		t.Fatalf("shown messages = %v", got)
	}
	if got := testutil.ToFloat64(m.Bindings.WithLabelValues("phone", "true")); got != 1 {
		t.Fatalf("required bindings = %v", got)
	}
	if got := testutil.ToFloat64(m.Bindings.WithLabelValues("phone", "false")); got != 1 {
		t.Fatalf("initial binding = %v", got)
	}
	if got := testutil.ToFloat64(m.Saves); got != 1 {
		t.Fatalf("saves = %v", got)
	}
	if got := testutil.ToFloat64(m.LastTotal); got != 76582 {
		t.Fatalf("last total = %v", got)
	}

	totals, err := m.Totals()
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if totals["formstate_mutations_total"] != 3 {
		t.Fatalf("mutation total = %v", totals["formstate_mutations_total"])
	}
}

func TestMutationsCollapseArrayIndexes(t *testing.T) {
	m, err := metrics.New(nil)
	if err != nil {
		t.Fatalf("new metrics: %v", err)
	}
	session := customer.New(customer.WithHooks(m.Hooks()))
	defer session.Close()

	for i := 0; i < 3; i++ {
		index, err := session.AddAddress()
		if err != nil {
			t.Fatalf("add address: %v", err)
		}
		if err := session.SetValue(fmt.Sprintf("addresses.%d.street1", index), "Mermaid Quay"); err != nil {
			t.Fatalf("set street1: %v", err)
		}
	}

	if got := testutil.ToFloat64(m.Mutations.WithLabelValues("addresses.*.street1")); got != 3 {
		t.Fatalf("collapsed street1 mutations = %v", got)
	}
	if got := testutil.CollectAndCount(m.Mutations); got != 1 {
		t.Fatalf("expected a single series, got %d", got)
	}
}

func TestNewRejectsDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := metrics.New(reg); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	if _, err := metrics.New(reg); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
}

func TestListenServesMetrics(t *testing.T) {
	m, err := metrics.New(nil)
	if err != nil {
		t.Fatalf("new metrics: %v", err)
	}
	m.LastTotal.Set(122630)

	srv, err := m.Listen("127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	resp, err := http.Get("http://" + srv.Addr() + "/metrics")
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !strings.Contains(string(body), "formstate_last_save_total 122630") {
		t.Fatalf("missing last total in:\n%s", body)
	}

	if err := srv.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if _, err := http.Get("http://" + srv.Addr() + "/metrics"); err == nil {
		t.Fatalf("expected scrapes to fail after shutdown")
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	m, err := metrics.New(nil)
	if err != nil {
		t.Fatalf("new metrics: %v", err)
	}
	m.Saves.Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, "formstate_saves_total 1") {
		t.Fatalf("missing saves counter in:\n%s", body)
	}
}
