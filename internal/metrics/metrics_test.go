package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveOutcome("notes.load", "ok")
	m.ObserveDuration("notes.load", 20*time.Millisecond)
	m.SetCollectionSize(3)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.ElementsMatch(t, []string{
		"notesync_requests_total",
		"notesync_request_duration_seconds",
		"notesync_collection_size",
	}, names)
}

func TestObserveOutcome(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveOutcome("notes.create", "rejected")
	m.ObserveOutcome("notes.create", "rejected")
	m.ObserveOutcome("notes.create", "ok")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("notes.create", "rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("notes.create", "ok")))
}

func TestCollectionSize(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.SetCollectionSize(5)

	expected := `
# HELP notesync_collection_size Number of notes in the local collection
# TYPE notesync_collection_size gauge
notesync_collection_size 5
`
	assert.NoError(t, testutil.CollectAndCompare(m.CollectionSize, strings.NewReader(expected)))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveOutcome("notes.delete", "ok")
		m.ObserveDuration("notes.delete", time.Second)
		m.SetCollectionSize(1)
	})
}
