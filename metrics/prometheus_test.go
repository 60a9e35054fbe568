package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	rec, err := NewPrometheusRecorder(reg)
	require.NoError(t, err)

	labels := map[string]string{"variant": "whitelist"}
	rec.IncCounter(EventDispatchStarted, labels)
	rec.IncCounter(EventDispatchStarted, labels)
	rec.IncCounter(EventDispatchFailed, map[string]string{"variant": "whitelist", "code": "USER_REJECTED"})
	rec.ObserveLatency(OpConfirm, 3*time.Second, labels)

	require.Equal(t, 2.0, testutil.ToFloat64(rec.counters.WithLabelValues(EventDispatchStarted, "whitelist", "")))
	require.Equal(t, 1.0, testutil.ToFloat64(rec.counters.WithLabelValues(EventDispatchFailed, "whitelist", "USER_REJECTED")))
	require.Equal(t, 1, testutil.CollectAndCount(rec.histogram))

	_, err = NewPrometheusRecorder(reg)
	require.Error(t, err)
}

func TestNoopRecorder(t *testing.T) {
	t.Parallel()

	var r Recorder = NoopRecorder{}
	r.IncCounter(EventConfirmed, nil)
	r.ObserveLatency(OpDispatch, time.Second, nil)
}
