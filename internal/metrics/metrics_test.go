package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ActionDecoded("wallet", "RegisterIdentity")
	m.ActionDecoded("wallet", "RegisterIdentity")
	m.ActionDecoded("orderbook", "Cancel")
	m.ActionFailed("orderbook")
	m.EventNormalized("warning")
	m.LineRead()
	m.Checkpoint(42)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.actionsDecoded.WithLabelValues("wallet", "RegisterIdentity")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.actionsDecoded))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.actionsFailed.WithLabelValues("orderbook")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.events.WithLabelValues("warning")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.linesRead))
	assert.Equal(t, 42.0, testutil.ToFloat64(m.checkpoint))
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.LineRead()
		m.ActionDecoded("wallet", "x")
		m.ActionFailed("wallet")
		m.BlobSkipped()
		m.EventNormalized("info")
		m.BatchFlushed()
		m.SinkRetried()
		m.Checkpoint(1)
	})
}

func TestInitIsIdempotent(t *testing.T) {
	assert.Same(t, Init(), Init())
	assert.NotNil(t, Handler())
}
