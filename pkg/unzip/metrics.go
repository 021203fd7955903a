package unzip

import (
	"github.com/ViBiOh/httpgzip/pkg/prometheus"
	prom "github.com/prometheus/client_golang/prometheus"
)

const (
	metricRequests = "requests_total"
	metricBytes    = "decompressed_bytes_total"
)

type noopRecorder struct{}

func (noopRecorder) Decompressed(int, int) {}
func (noopRecorder) Oversized()            {}
func (noopRecorder) Malformed()            {}

type metrics struct {
	counters prometheus.CounterSet
}

// NewMetrics creates a Recorder backed by prometheus counters
func NewMetrics(registerer prom.Registerer, namespace string) (Recorder, error) {
	counters, err := prometheus.Counters(registerer, namespace, "unzip",
		prometheus.Counter{Name: metricRequests, Help: "Gzip encoded requests, by outcome.", Labels: []string{"outcome"}},
		prometheus.Counter{Name: metricBytes, Help: "Bytes of request bodies after decompression."},
	)
	if err != nil {
		return nil, err
	}

	if counters == nil {
		return noopRecorder{}, nil
	}

	return metrics{counters: counters}, nil
}

func (m metrics) Decompressed(_, decompressed int) {
	m.counters.Inc(metricRequests, Decompressed.String())
	m.counters.Add(metricBytes, float64(decompressed))
}

func (m metrics) Oversized() {
	m.counters.Inc(metricRequests, Oversized.String())
}

func (m metrics) Malformed() {
	m.counters.Inc(metricRequests, Malformed.String())
}
