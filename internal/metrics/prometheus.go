package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const promNamespace = "gold_spread_tracker"

type promCounter struct {
	counter prometheus.Counter
}

func (p promCounter) Inc() {
	p.counter.Inc()
}

func (p promCounter) Add(delta float64) {
	p.counter.Add(delta)
}

type Prometheus struct {
	Metrics *Metrics

	registry *prometheus.Registry
}

func NewPrometheus() *Prometheus {
	registry := prometheus.NewRegistry()
	retryAttempts := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: promNamespace,
		Name:      "retry_attempts_total",
		Help:      "Total number of failed attempts that were retried.",
	})
	retriesExhausted := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: promNamespace,
		Name:      "retries_exhausted_total",
		Help:      "Total number of operations that failed every attempt.",
	})
	candlesFetched := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: promNamespace,
		Name:      "candles_fetched_total",
		Help:      "Total number of OHLCV candles fetched.",
	})
	rowsAligned := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: promNamespace,
		Name:      "rows_aligned_total",
		Help:      "Total number of timestamp-aligned rows produced.",
	})

	registry.MustRegister(retryAttempts, retriesExhausted, candlesFetched, rowsAligned)

	return &Prometheus{
		Metrics: &Metrics{
			RetryAttempts:    promCounter{retryAttempts},
			RetriesExhausted: promCounter{retriesExhausted},
			CandlesFetched:   promCounter{candlesFetched},
			RowsAligned:      promCounter{rowsAligned},
		},
		registry: registry,
	}
}

func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}
