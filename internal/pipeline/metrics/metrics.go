package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	DocumentsTotal *prometheus.CounterVec
	FetchRetries   prometheus.Counter
	QueueDepth     prometheus.Gauge
	StageDuration  *prometheus.HistogramVec
}

func New() *Metrics {
	return &Metrics{
		DocumentsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "lobbyreg_ingest_documents_total",
			Help: "Documents processed by the ingestion pipeline, by result",
		}, []string{"result"}),
		FetchRetries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lobbyreg_ingest_fetch_retries_total",
			Help: "Fetch attempts repeated after a transient source error",
		}),
		QueueDepth: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "lobbyreg_ingest_queue_depth",
			Help: "Normalized documents waiting for a persist worker",
		}),
		StageDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lobbyreg_ingest_stage_duration_seconds",
			Help:    "Time spent per document in each pipeline stage",
			Buckets: prometheus.DefBuckets,
		}, []string{"stage"}),
	}
}

func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (m *Metrics) DocumentDone(failed bool) {
	if m == nil {
		return
	}
	if failed {
		m.DocumentsTotal.WithLabelValues("failed").Inc()
		return
	}
	m.DocumentsTotal.WithLabelValues("succeeded").Inc()
}

func (m *Metrics) FetchRetried() {
	if m == nil {
		return
	}
	m.FetchRetries.Inc()
}

func (m *Metrics) SetQueueDepth(n int) {
	if m == nil {
		return
	}
	m.QueueDepth.Set(float64(n))
}
