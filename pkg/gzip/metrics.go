package gzip

import (
	"github.com/ViBiOh/httpgzip/pkg/prometheus"
	prom "github.com/prometheus/client_golang/prometheus"
)

const (
	metricResponses = "responses_total"
	metricBytes     = "bytes_total"
)

var _ Recorder = metrics{}

type noopRecorder struct{}

func (noopRecorder) Skip(string)       {}
func (noopRecorder) Compress(int, int) {}
func (noopRecorder) Stream()           {}

type metrics struct {
	counters prometheus.CounterSet
}

// NewMetrics creates a Recorder backed by prometheus counters
func NewMetrics(registerer prom.Registerer, namespace string) (Recorder, error) {
	counters, err := prometheus.Counters(registerer, namespace, "gzip",
		prometheus.Counter{Name: metricResponses, Help: "Responses seen by the compressor, by outcome.", Labels: []string{"outcome", "reason"}},
		prometheus.Counter{Name: metricBytes, Help: "Bytes of buffered responses before and after compression.", Labels: []string{"state"}},
	)
	if err != nil {
		return nil, err
	}

	if counters == nil {
		return noopRecorder{}, nil
	}

	return metrics{counters: counters}, nil
}

func (m metrics) Skip(reason string) {
	m.counters.Inc(metricResponses, "skipped", reason)
}

func (m metrics) Compress(original, compressed int) {
	m.counters.Inc(metricResponses, "compressed", "")
	m.counters.Add(metricBytes, float64(original), "original")
	m.counters.Add(metricBytes, float64(compressed), "compressed")
}

func (m metrics) Stream() {
	m.counters.Inc(metricResponses, "streamed", "")
}
