// Package health exposes processing metrics and operational readiness
// checks.
package health

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics counts pipeline activity. One instance per process; register it
// on the default registry via NewMetrics.
type Metrics struct {
	DocumentsProcessed    *prometheus.CounterVec
	TransactionsExtracted prometheus.Counter
	ChunksProcessed       *prometheus.CounterVec
	ProcessingDuration    prometheus.Histogram
	JobRetries            prometheus.Counter
}

func NewMetrics() *Metrics {
	return &Metrics{
		DocumentsProcessed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "statement_analyzer",
			Name:      "documents_processed_total",
			Help:      "Statement documents processed, by outcome.",
		}, []string{"outcome"}),
		TransactionsExtracted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "statement_analyzer",
			Name:      "transactions_extracted_total",
			Help:      "Transactions extracted across all documents.",
		}),
		ChunksProcessed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "statement_analyzer",
			Name:      "chunks_processed_total",
			Help:      "Document chunks processed, by outcome.",
		}, []string{"outcome"}),
		ProcessingDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: "statement_analyzer",
			Name:      "processing_duration_seconds",
			Help:      "Wall time to fully process one document.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
		JobRetries: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "statement_analyzer",
			Name:      "job_retries_total",
			Help:      "Statement jobs re-enqueued after a failed attempt.",
		}),
	}
}

// ObserveDocument records one finished document run.
func (m *Metrics) ObserveDocument(outcome string, transactions int, elapsed time.Duration) {
	m.DocumentsProcessed.WithLabelValues(outcome).Inc()
	m.TransactionsExtracted.Add(float64(transactions))
	m.ProcessingDuration.Observe(elapsed.Seconds())
}

// Handler serves the default registry in Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}
