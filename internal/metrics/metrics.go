// Package metrics records customer session activity as Prometheus metrics.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/goliatone/go-formstate/pkg/customer"
)

const namespace = "formstate"

// Metrics holds the collectors fed by session hooks.
type Metrics struct {
	registry *prometheus.Registry

	Mutations *prometheus.CounterVec
	Messages  *prometheus.CounterVec
	Bindings  *prometheus.CounterVec
	Saves     prometheus.Counter
	LastTotal prometheus.Gauge
}

// New registers the collectors on reg. A nil reg gets a fresh registry.
func New(reg *prometheus.Registry) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		registry: reg,
		Mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "mutations_total",
				Help:      "Values written through the session, by control path with array indexes collapsed",
			},
			[]string{"path"},
		),
		Messages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "email_messages_total",
				Help:      "Debounced email message refreshes",
			},
			[]string{"state"},
		),
		Bindings: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "binder_applications_total",
				Help:      "Dynamic validator rule applications",
			},
			[]string{"binder", "required"},
		),
		Saves: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "saves_total",
			Help:      "Completed save calls",
		}),
		LastTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_save_total",
			Help:      "Price total of the most recent save",
		}),
	}
	for _, c := range []prometheus.Collector{m.Mutations, m.Messages, m.Bindings, m.Saves, m.LastTotal} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns session hooks that record into m.
func (m *Metrics) Hooks() customer.Hooks {
	return customer.Hooks{
		OnChange: func(path string, _ any) {
			m.Mutations.WithLabelValues(pathLabel(path)).Inc()
		},
		OnMessage: func(message string) {
			state := "shown"
			if message == "" {
				state = "cleared"
			}
			m.Messages.WithLabelValues(state).Inc()
		},
		OnBind: func(name string, attached int) {
			m.Bindings.WithLabelValues(name, strconv.FormatBool(attached > 0)).Inc()
		},
		OnSave: func(sub customer.Submission) {
			m.Saves.Inc()
			m.LastTotal.Set(float64(sub.Total))
		},
	}
}

// pathLabel collapses array indexes so every entry shares one series:
// addresses.3.street1 becomes addresses.*.street1.
func pathLabel(path string) string {
	segments := strings.Split(path, ".")
	for i, segment := range segments {
		if _, err := strconv.Atoi(segment); err == nil {
			segments[i] = "*"
		}
	}
	return strings.Join(segments, ".")
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Server exposes Handler at /metrics on a listener of its own.
type Server struct {
	listener net.Listener
	http     *http.Server
	done     chan error
}

// Listen starts serving the registry on addr. Use port 0 to pick a free one.
func (m *Metrics) Listen(addr string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics: listen %s: %w", addr, err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	s := &Server{
		listener: listener,
		http:     &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second},
		done:     make(chan error, 1),
	}
	go func() {
		s.done <- s.http.Serve(listener)
	}()
	return s, nil
}

// Addr is the address the server listens on.
func (s *Server) Addr() string { return s.listener.Addr().String() }

// Shutdown stops accepting scrapes and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.http.Shutdown(ctx); err != nil {
		return err
	}
	if err := <-s.done; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Totals sums every counter and gauge family by name, across labels.
func (m *Metrics) Totals() (map[string]float64, error) {
	families, err := m.registry.Gather()
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(families))
	for _, family := range families {
		var sum float64
		for _, metric := range family.GetMetric() {
			switch {
			case metric.GetCounter() != nil:
				sum += metric.GetCounter().GetValue()
			case metric.GetGauge() != nil:
				sum += metric.GetGauge().GetValue()
			}
		}
		out[family.GetName()] = sum
	}
	return out, nil
}
