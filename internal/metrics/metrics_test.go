package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(WithRegistry(reg), WithNamespace("test"))

	m.ObserveRender(time.Millisecond, nil)
	m.ObserveRender(time.Millisecond, nil)
	m.ObserveRender(time.Millisecond, errors.New("x"))
	m.ObserveSubmit("web")
	m.SetTodos(4)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.renders.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.renders.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.submits.WithLabelValues("web")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.todos))

	n, err := testutil.GatherAndCount(reg, "test_render_duration_seconds")
	assert.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRender(time.Second, nil)
		m.ObserveSubmit("tui")
		m.SetTodos(1)
	})
}
