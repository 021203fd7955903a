package prometheus

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Counter describes a counter of a subsystem, labelled when Labels are given
type Counter struct {
	Name   string
	Help   string
	Labels []string
}

// CounterSet holds registered counters by name
type CounterSet map[string]*prometheus.CounterVec

// Counters creates and registers counters of a subsystem, nil without registerer
func Counters(registerer prometheus.Registerer, namespace, subsystem string, counters ...Counter) (CounterSet, error) {
	if registerer == nil {
		return nil, nil
	}

	output := make(CounterSet, len(counters))

	for _, counter := range counters {
		if _, ok := output[counter.Name]; ok {
			return nil, fmt.Errorf("duplicate `%s` metric", counter.Name)
		}

		vec := prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      counter.Name,
			Help:      counter.Help,
		}, counter.Labels)

		if err := registerer.Register(vec); err != nil {
			return nil, fmt.Errorf("register `%s` metric: %w", prometheus.BuildFQName(namespace, subsystem, counter.Name), err)
		}

		output[counter.Name] = vec
	}

	return output, nil
}

func (c CounterSet) Inc(name string, labels ...string) {
	c.Add(name, 1, labels...)
}

func (c CounterSet) Add(name string, value float64, labels ...string) {
	if vec, ok := c[name]; ok {
		vec.WithLabelValues(labels...).Add(value)
	}
}
