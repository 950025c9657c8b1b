// Package metrics exposes Prometheus collectors for the HTTP layer and
// content lifecycle events.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tendant/simple-cms/pkg/simplecms"
)

const Namespace = "simplecms"

const (
	LabelMethod = "method"
	LabelRoute  = "route"
	LabelStatus = "status"
	LabelEvent  = "event"
	LabelType   = "type"
)

// Collector owns a private registry so several instances can coexist in
// tests.
type Collector struct {
	registry *prometheus.Registry

	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPResponseSize    *prometheus.HistogramVec
	ContentEvents       *prometheus.CounterVec
}

// New creates a collector with Go runtime and process collectors
// registered alongside the service metrics.
func New() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
				Namespace: Namespace,
			},
			[]string{LabelMethod, LabelRoute, LabelStatus},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Namespace: Namespace,
				Buckets:   prometheus.DefBuckets,
			},
			[]string{LabelMethod, LabelRoute},
		),
		HTTPResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:      "http_response_size_bytes",
				Help:      "HTTP response size in bytes",
				Namespace: Namespace,
				Buckets:   prometheus.ExponentialBuckets(64, 4, 8),
			},
			[]string{LabelMethod, LabelRoute},
		),
		ContentEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name:      "content_events_total",
				Help:      "Content lifecycle events by kind",
				Namespace: Namespace,
			},
			[]string{LabelEvent, LabelType},
		),
	}
}

// RecordRequest records one served HTTP request. route is the matched
// route pattern, not the raw path, to keep label cardinality bounded.
func (c *Collector) RecordRequest(method, route string, statusCode int, duration time.Duration, size int64) {
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	c.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
	c.HTTPResponseSize.WithLabelValues(method, route).Observe(float64(size))
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// Registry returns the underlying registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// EventSink returns a simplecms.EventSink counting content events.
func (c *Collector) EventSink() simplecms.EventSink {
	return &eventSink{events: c.ContentEvents}
}

type eventSink struct {
	events *prometheus.CounterVec
}

func (s *eventSink) ItemCreated(ctx context.Context, item *simplecms.Item) error {
	s.events.WithLabelValues("created", string(item.Type)).Inc()
	return nil
}

func (s *eventSink) ItemUpdated(ctx context.Context, item *simplecms.Item) error {
	s.events.WithLabelValues("updated", string(item.Type)).Inc()
	return nil
}

// Deletions carry only the id, so the type label is empty.
func (s *eventSink) ItemDeleted(ctx context.Context, id string) error {
	s.events.WithLabelValues("deleted", "").Inc()
	return nil
}
