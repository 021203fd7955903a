package prometheus

import (
	"flag"
	"net/http"
	"strings"

	"github.com/ViBiOh/flags"
	"github.com/ViBiOh/httpgzip/pkg/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ model.Middleware = Service{}.Middleware

type Service struct {
	registry *prometheus.Registry
	ignore   []string
	gzip     bool
}

type Config struct {
	ignore *string
	gzip   *bool
}

func Flags(fs *flag.FlagSet, prefix string, overrides ...flags.Override) Config {
	return Config{
		ignore: flags.New("Ignore", "Ignored path prefixes for metrics, comma separated").Prefix(prefix).DocPrefix("prometheus").String(fs, "", overrides),
		gzip:   flags.New("Gzip", "Enable gzip compression of metrics output").Prefix(prefix).DocPrefix("prometheus").Bool(fs, true, overrides),
	}
}

func New(config Config) Service {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	var ignore []string
	for _, prefix := range strings.Split(*config.ignore, ",") {
		if prefix = strings.TrimSpace(prefix); len(prefix) != 0 {
			ignore = append(ignore, prefix)
		}
	}

	return Service{
		registry: registry,
		ignore:   ignore,
		gzip:     *config.gzip,
	}
}

func (s Service) Registerer() prometheus.Registerer {
	return s.registry
}

// Handler exposes gathered metrics
func (s Service) Handler() http.Handler {
	return promhttp.InstrumentMetricHandler(s.registry, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{
		DisableCompression: !s.gzip,
	}))
}

// Middleware instruments the given handler with request counter and duration
func (s Service) Middleware(next http.Handler) http.Handler {
	if next == nil {
		return next
	}

	durationVec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "http",
		Name:      "request_duration_seconds",
		Help:      "A histogram of latencies for requests.",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"code", "method"})

	counterVec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "http",
		Name:      "requests_total",
		Help:      "A counter for requests to the wrapped handler.",
	}, []string{"code", "method"})

	s.registry.MustRegister(durationVec, counterVec)

	instrumented := promhttp.InstrumentHandlerDuration(durationVec, promhttp.InstrumentHandlerCounter(counterVec, next))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.isIgnored(r.URL.Path) {
			next.ServeHTTP(w, r)
		} else {
			instrumented.ServeHTTP(w, r)
		}
	})
}

func (s Service) isIgnored(path string) bool {
	for _, prefix := range s.ignore {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}

	return false
}
