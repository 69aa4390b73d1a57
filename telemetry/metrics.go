// Package telemetry holds the Prometheus metrics of a registry node or agent, the echo
// instrumentation middleware and the tracing setup.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "myregistry"

// Metrics is the set of collectors of one process. Every method is safe on a nil receiver so
// components can be built without metrics in tests.
type Metrics struct {
	Registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	inFlight        *prometheus.GaugeVec

	registryOps      *prometheus.CounterVec
	registrySize     prometheus.Gauge
	evictions        prometheus.Counter
	renewsLastMin    prometheus.Gauge
	renewThreshold   prometheus.Gauge
	selfPreservation prometheus.Gauge

	replicationBatches *prometheus.CounterVec
	replicationDropped *prometheus.CounterVec

	transportRequests *prometheus.CounterVec
	transportDuration *prometheus.HistogramVec
	quarantineSize    prometheus.Gauge

	cacheFetches      *prometheus.CounterVec
	cacheHashMismatch prometheus.Counter
	subscribers       prometheus.Gauge
	selfRegistrations *prometheus.CounterVec
}

// NewMetrics creates and registers all collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"op", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latency of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 13),
		}, []string{"op"}),
		inFlight: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_in_flight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}, []string{"op"}),
		registryOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registry_operations_total",
			Help:      "Successful registry state changes by kind and origin.",
		}, []string{"kind", "origin"}),
		registrySize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "registry_instances",
			Help:      "Number of leases held by this node.",
		}),
		evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registry_evictions_total",
			Help:      "Expired leases removed by the eviction task.",
		}),
		renewsLastMin: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "registry_renews_last_minute",
			Help:      "Renewals measured over the previous minute.",
		}),
		renewThreshold: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "registry_renews_threshold",
			Help:      "Renewals per minute required to keep eviction enabled.",
		}),
		selfPreservation: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "registry_self_preservation",
			Help:      "1 while eviction is suspended by self-preservation.",
		}),
		replicationBatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "replication_batches_total",
			Help:      "Replication batches sent to peers by outcome.",
		}, []string{"peer", "outcome"}),
		replicationDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "replication_tasks_dropped_total",
			Help:      "Replication tasks dropped before delivery by reason.",
		}, []string{"peer", "reason"}),
		transportRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transport_requests_total",
			Help:      "Outbound registry requests by kind and outcome.",
		}, []string{"kind", "outcome"}),
		transportDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transport_request_duration_seconds",
			Help:      "Latency of outbound registry requests including retries.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
		}, []string{"kind"}),
		quarantineSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "transport_quarantined_endpoints",
			Help:      "Registry endpoints currently excluded from retries.",
		}),
		cacheFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "client_registry_fetches_total",
			Help:      "Client registry fetches by type and outcome.",
		}, []string{"type", "outcome"}),
		cacheHashMismatch: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "client_registry_hash_mismatches_total",
			Help:      "Delta fetches whose reconcile hash did not match the server.",
		}),
		subscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "interest_subscribers",
			Help:      "Open interest stream subscriptions.",
		}),
		selfRegistrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "self_registration_updates_total",
			Help:      "On-demand self-registration updates by outcome.",
		}, []string{"outcome"}),
	}
	m.Registry.MustRegister(
		m.requestsTotal, m.requestDuration, m.inFlight,
		m.registryOps, m.registrySize, m.evictions, m.renewsLastMin, m.renewThreshold, m.selfPreservation,
		m.replicationBatches, m.replicationDropped,
		m.transportRequests, m.transportDuration, m.quarantineSize,
		m.cacheFetches, m.cacheHashMismatch, m.subscribers, m.selfRegistrations,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler exposes the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

func (m *Metrics) RegistryOp(kind, origin string) {
	if m == nil {
		return
	}
	m.registryOps.WithLabelValues(kind, origin).Inc()
}

func (m *Metrics) RegistrySize(n int) {
	if m == nil {
		return
	}
	m.registrySize.Set(float64(n))
}

func (m *Metrics) Evicted(n int) {
	if m == nil {
		return
	}
	m.evictions.Add(float64(n))
}

// SelfPreservation records the renewal rate against the threshold and whether eviction is
// currently suspended.
func (m *Metrics) SelfPreservation(renewsLastMin, threshold int, suspended bool) {
	if m == nil {
		return
	}
	m.renewsLastMin.Set(float64(renewsLastMin))
	m.renewThreshold.Set(float64(threshold))
	if suspended {
		m.selfPreservation.Set(1)
	} else {
		m.selfPreservation.Set(0)
	}
}

func (m *Metrics) ReplicationBatch(peer, outcome string) {
	if m == nil {
		return
	}
	m.replicationBatches.WithLabelValues(peer, outcome).Inc()
}

func (m *Metrics) ReplicationDropped(peer, reason string) {
	if m == nil {
		return
	}
	m.replicationDropped.WithLabelValues(peer, reason).Inc()
}

// TransportRequest records one outbound call as seen by the outermost middleware.
func (m *Metrics) TransportRequest(kind, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.transportRequests.WithLabelValues(kind, outcome).Inc()
	m.transportDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

func (m *Metrics) QuarantineSize(n int) {
	if m == nil {
		return
	}
	m.quarantineSize.Set(float64(n))
}

func (m *Metrics) CacheFetch(fetchType, outcome string) {
	if m == nil {
		return
	}
	m.cacheFetches.WithLabelValues(fetchType, outcome).Inc()
}

func (m *Metrics) CacheHashMismatch() {
	if m == nil {
		return
	}
	m.cacheHashMismatch.Inc()
}

func (m *Metrics) SubscriberAdded() {
	if m == nil {
		return
	}
	m.subscribers.Inc()
}

func (m *Metrics) SubscriberRemoved() {
	if m == nil {
		return
	}
	m.subscribers.Dec()
}

func (m *Metrics) SelfRegistration(outcome string) {
	if m == nil {
		return
	}
	m.selfRegistrations.WithLabelValues(outcome).Inc()
}
