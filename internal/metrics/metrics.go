package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus counters for a decode or events run.
type Metrics struct {
	linesRead      prometheus.Counter
	actionsDecoded *prometheus.CounterVec
	actionsFailed  *prometheus.CounterVec
	blobsSkipped   prometheus.Counter
	events         *prometheus.CounterVec
	batchesFlushed prometheus.Counter
	sinkRetries    prometheus.Counter
	checkpoint     prometheus.Gauge
}

var (
	once    sync.Once
	metrics *Metrics
)

// Init initializes global metrics on the default registry (idempotent).
func Init() *Metrics {
	once.Do(func() {
		metrics = New(prometheus.DefaultRegisterer)
	})
	return metrics
}

// New builds metrics registered on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		linesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "explorer_input_lines_total",
			Help: "Total number of input lines read",
		}),
		actionsDecoded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "explorer_actions_decoded_total",
			Help: "Total number of contract actions decoded",
		}, []string{"domain", "action"}),
		actionsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "explorer_actions_failed_total",
			Help: "Total number of blobs that failed to decode",
		}, []string{"contract"}),
		blobsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "explorer_blobs_skipped_total",
			Help: "Total number of blobs for unmapped contracts",
		}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "explorer_events_normalized_total",
			Help: "Total number of events normalized",
		}, []string{"severity"}),
		batchesFlushed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "explorer_batches_flushed_total",
			Help: "Total number of batches written to sinks",
		}),
		sinkRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "explorer_sink_retries_total",
			Help: "Total number of retried sink writes",
		}),
		checkpoint: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "explorer_checkpoint_block_height",
			Help: "Last fully processed block height",
		}),
	}
	reg.MustRegister(
		m.linesRead,
		m.actionsDecoded,
		m.actionsFailed,
		m.blobsSkipped,
		m.events,
		m.batchesFlushed,
		m.sinkRetries,
		m.checkpoint,
	)
	return m
}

// LineRead increments the input lines counter.
func (m *Metrics) LineRead() {
	if m != nil {
		m.linesRead.Inc()
	}
}

// ActionDecoded counts one decoded action.
func (m *Metrics) ActionDecoded(domain, action string) {
	if m != nil {
		m.actionsDecoded.WithLabelValues(domain, action).Inc()
	}
}

// ActionFailed counts one blob that failed to decode.
func (m *Metrics) ActionFailed(contract string) {
	if m != nil {
		m.actionsFailed.WithLabelValues(contract).Inc()
	}
}

// BlobSkipped counts one blob whose contract has no route.
func (m *Metrics) BlobSkipped() {
	if m != nil {
		m.blobsSkipped.Inc()
	}
}

// EventNormalized counts one event by severity.
func (m *Metrics) EventNormalized(severity string) {
	if m != nil {
		m.events.WithLabelValues(severity).Inc()
	}
}

// BatchFlushed increments the flushed batches counter.
func (m *Metrics) BatchFlushed() {
	if m != nil {
		m.batchesFlushed.Inc()
	}
}

// SinkRetried increments the sink retry counter.
func (m *Metrics) SinkRetried() {
	if m != nil {
		m.sinkRetries.Inc()
	}
}

// Checkpoint records the last fully processed block height.
func (m *Metrics) Checkpoint(height uint64) {
	if m != nil {
		m.checkpoint.Set(float64(height))
	}
}

// Handler returns an HTTP handler for /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
