package api

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"campus_router/pkg/routing"
)

// Metrics holds the Prometheus collectors for the API. A nil *Metrics
// records nothing.
type Metrics struct {
	requests    *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	routeLength prometheus.Histogram
	reloads     *prometheus.CounterVec
	nodes       prometheus.Gauge
	edges       prometheus.Gauge
	locations   prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "campus_router",
			Name:      "http_requests_total",
			Help:      "HTTP requests by handler and status code.",
		}, []string{"handler", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "campus_router",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by handler.",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"handler"}),
		routeLength: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "campus_router",
			Name:      "route_distance_meters",
			Help:      "Length of returned routes.",
			Buckets:   prometheus.ExponentialBuckets(25, 2, 10),
		}),
		reloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "campus_router",
			Name:      "data_reloads_total",
			Help:      "Campus data loads by result.",
		}, []string{"result"}),
		nodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "campus_router",
			Name:      "graph_nodes",
			Help:      "Nodes in the serving path graph.",
		}),
		edges: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "campus_router",
			Name:      "graph_edges",
			Help:      "Undirected edges in the serving path graph.",
		}),
		locations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "campus_router",
			Name:      "locations",
			Help:      "Selectable locations in the serving data.",
		}),
	}

	reg.MustRegister(m.requests, m.latency, m.routeLength, m.reloads, m.nodes, m.edges, m.locations)
	return m
}

// ObserveReload records a data load. On success the graph gauges are set
// from stats.
func (m *Metrics) ObserveReload(stats routing.Stats, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.reloads.WithLabelValues("error").Inc()
		return
	}
	m.reloads.WithLabelValues("ok").Inc()
	m.nodes.Set(float64(stats.Nodes))
	m.edges.Set(float64(stats.Edges))
	m.locations.Set(float64(stats.Locations))
}

func (m *Metrics) observeRequest(handler string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(handler, strconv.Itoa(status)).Inc()
	m.latency.WithLabelValues(handler).Observe(d.Seconds())
}

func (m *Metrics) observeRoute(meters float64) {
	if m == nil {
		return
	}
	m.routeLength.Observe(meters)
}
