// Package metrics holds the broker's Prometheus registry. It avoids global
// state: every component records through the one Registry wired in by the
// runtime, and the admin HTTP server exposes it via Handler.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry encapsulates all broker metrics.
type Registry struct {
	registry *prometheus.Registry

	publishTotal      *prometheus.CounterVec
	messagesPublished *prometheus.CounterVec

	pullTotal         *prometheus.CounterVec
	messagesDelivered *prometheus.CounterVec
	ackTotal          *prometheus.CounterVec
	redeliveries      *prometheus.CounterVec
	pullRejected      *prometheus.CounterVec

	pushDeliveries *prometheus.CounterVec

	storageReadBytes  prometheus.Counter
	storageCommits    prometheus.Histogram
	storageCommitSize prometheus.Histogram
}

// NewRegistry creates a Registry with all collectors registered.
func NewRegistry() *Registry {
	registry := prometheus.NewRegistry()

	r := &Registry{
		registry: registry,

		publishTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "courier_publish_total",
				Help: "Publish calls by topic and status.",
			},
			[]string{"topic", "status"},
		),
		messagesPublished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "courier_messages_published_total",
				Help: "Messages appended to topic logs.",
			},
			[]string{"topic"},
		),
		pullTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "courier_pull_total",
				Help: "Pull calls by subscription and status.",
			},
			[]string{"subscription", "status"},
		),
		messagesDelivered: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "courier_messages_delivered_total",
				Help: "Messages handed to consumers under a lease.",
			},
			[]string{"subscription", "mode"}, // mode: pull, push
		),
		ackTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "courier_acks_total",
				Help: "Acknowledged leases by subscription.",
			},
			[]string{"subscription"},
		),
		redeliveries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "courier_redeliveries_total",
				Help: "Expired leases returned to the backlog.",
			},
			[]string{"subscription"},
		),
		pullRejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "courier_pull_rejected_total",
				Help: "Pull calls rejected by the admission cap.",
			},
			[]string{"subscription"},
		),
		pushDeliveries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "courier_push_deliveries_total",
				Help: "Push endpoint delivery attempts by outcome.",
			},
			[]string{"subscription", "outcome"}, // outcome: ok, error
		),
		storageReadBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courier_storage_read_bytes_total",
			Help: "Bytes read from the storage layer.",
		}),
		storageCommits: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "courier_storage_commit_duration_seconds",
			Help:    "Batch commit latency.",
			Buckets: prometheus.DefBuckets,
		}),
		storageCommitSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "courier_storage_commit_bytes",
			Help:    "Batch commit sizes in bytes.",
			Buckets: prometheus.ExponentialBuckets(64, 4, 8),
		}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.publishTotal,
		r.messagesPublished,
		r.pullTotal,
		r.messagesDelivered,
		r.ackTotal,
		r.redeliveries,
		r.pullRejected,
		r.pushDeliveries,
		r.storageReadBytes,
		r.storageCommits,
		r.storageCommitSize,
	)
	return r
}

// Handler returns the HTTP handler serving this registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func (r *Registry) RecordPublish(topic, status string, messages int) {
	r.publishTotal.WithLabelValues(topic, status).Inc()
	if messages > 0 {
		r.messagesPublished.WithLabelValues(topic).Add(float64(messages))
	}
}

func (r *Registry) RecordPull(subscription, status string) {
	r.pullTotal.WithLabelValues(subscription, status).Inc()
}

func (r *Registry) RecordDelivered(subscription, mode string, n int) {
	if n > 0 {
		r.messagesDelivered.WithLabelValues(subscription, mode).Add(float64(n))
	}
}

func (r *Registry) RecordAcks(subscription string, n int) {
	if n > 0 {
		r.ackTotal.WithLabelValues(subscription).Add(float64(n))
	}
}

func (r *Registry) RecordRedeliveries(subscription string, n int) {
	if n > 0 {
		r.redeliveries.WithLabelValues(subscription).Add(float64(n))
	}
}

func (r *Registry) RecordPullRejected(subscription string) {
	r.pullRejected.WithLabelValues(subscription).Inc()
}

func (r *Registry) RecordPushDelivery(subscription, outcome string) {
	r.pushDeliveries.WithLabelValues(subscription, outcome).Inc()
}

// ObserveRead implements the storage metrics hook.
func (r *Registry) ObserveRead(elapsed time.Duration, bytes int) {
	r.storageReadBytes.Add(float64(bytes))
}

// ObserveBatchCommit implements the storage metrics hook.
func (r *Registry) ObserveBatchCommit(elapsed time.Duration, bytes int) {
	r.storageCommits.Observe(elapsed.Seconds())
	r.storageCommitSize.Observe(float64(bytes))
}
