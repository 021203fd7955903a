package prometheus

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/stretchr/testify/assert"
)

func gatherText(t *testing.T, registry *prometheus.Registry) string {
	t.Helper()

	metrics, err := registry.Gather()
	assert.NoError(t, err)

	var buffer strings.Builder
	for _, metric := range metrics {
		_, err = expfmt.MetricFamilyToText(&buffer, metric)
		assert.NoError(t, err)
	}

	return buffer.String()
}

func TestCounters(t *testing.T) {
	t.Parallel()

	t.Run("nil", func(t *testing.T) {
		t.Parallel()

		got, err := Counters(nil, "test", "counters", Counter{Name: "item"})

		assert.NoError(t, err)
		assert.Nil(t, got)

		got.Inc("item")
	})

	t.Run("simple", func(t *testing.T) {
		t.Parallel()

		registry := prometheus.NewRegistry()

		got, err := Counters(registry, "test", "counters", Counter{Name: "item", Help: "Items seen."})
		assert.NoError(t, err)

		got.Inc("item")
		got.Add("item", 2)
		got.Inc("unknown")

		assert.Equal(t, "# HELP test_counters_item Items seen.\n# TYPE test_counters_item counter\ntest_counters_item 3\n", gatherText(t, registry))
	})

	t.Run("labelled", func(t *testing.T) {
		t.Parallel()

		registry := prometheus.NewRegistry()

		got, err := Counters(registry, "test", "counters", Counter{Name: "item", Help: "Items seen.", Labels: []string{"state"}})
		assert.NoError(t, err)

		got.Inc("item", "ok")
		got.Add("item", 4, "ko")

		assert.Equal(t, "# HELP test_counters_item Items seen.\n# TYPE test_counters_item counter\ntest_counters_item{state=\"ko\"} 4\ntest_counters_item{state=\"ok\"} 1\n", gatherText(t, registry))
	})

	t.Run("duplicate", func(t *testing.T) {
		t.Parallel()

		registry := prometheus.NewRegistry()

		_, err := Counters(registry, "test", "counters", Counter{Name: "item"}, Counter{Name: "item"})

		assert.Error(t, err)
	})

	t.Run("already registered", func(t *testing.T) {
		t.Parallel()

		registry := prometheus.NewRegistry()

		_, err := Counters(registry, "test", "counters", Counter{Name: "item"})
		assert.NoError(t, err)

		_, err = Counters(registry, "test", "counters", Counter{Name: "item"})
		assert.ErrorContains(t, err, "test_counters_item")
	})
}
