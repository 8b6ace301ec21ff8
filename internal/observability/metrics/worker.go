package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type WorkerMetrics struct {
	registry *prometheus.Registry

	processTotal    *prometheus.CounterVec
	processDuration *prometheus.HistogramVec
	processInFlight prometheus.Gauge

	splitRunsTotal       *prometheus.CounterVec
	splitCacheHitsTotal  *prometheus.CounterVec
	batchesClassified    *prometheus.CounterVec
	subdocumentsPerSplit *prometheus.HistogramVec
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	processTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mydocs",
			Subsystem: "worker",
			Name:      "document_process_total",
			Help:      "Total processed documents by status.",
		},
		[]string{"service", "status"},
	)
	processDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mydocs",
			Subsystem: "worker",
			Name:      "document_process_duration_seconds",
			Help:      "Document processing duration in seconds by status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "status"},
	)
	processInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "mydocs",
			Subsystem: "worker",
			Name:      "document_process_in_flight",
			Help:      "Number of in-flight document processing tasks.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	splitRunsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mydocs",
			Subsystem: "split",
			Name:      "runs_total",
			Help:      "Total split-and-classify runs by status.",
		},
		[]string{"service", "status"},
	)
	splitCacheHitsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mydocs",
			Subsystem: "split",
			Name:      "cache_hits_total",
			Help:      "Split runs answered from the previous result without classification.",
		},
		[]string{"service"},
	)
	batchesClassified := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mydocs",
			Subsystem: "split",
			Name:      "batches_classified_total",
			Help:      "Total page batches sent to the classifier.",
		},
		[]string{"service"},
	)
	subdocumentsPerSplit := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mydocs",
			Subsystem: "split",
			Name:      "subdocuments_per_run",
			Help:      "Distribution of sub-documents produced per split run.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21, 34},
		},
		[]string{"service"},
	)

	registry.MustRegister(
		processTotal,
		processDuration,
		processInFlight,
		splitRunsTotal,
		splitCacheHitsTotal,
		batchesClassified,
		subdocumentsPerSplit,
	)

	return &WorkerMetrics{
		registry:             registry,
		processTotal:         processTotal,
		processDuration:      processDuration,
		processInFlight:      processInFlight,
		splitRunsTotal:       splitRunsTotal,
		splitCacheHitsTotal:  splitCacheHitsTotal,
		batchesClassified:    batchesClassified,
		subdocumentsPerSplit: subdocumentsPerSplit,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartDocument() {
	m.processInFlight.Inc()
}

func (m *WorkerMetrics) FinishDocument(service string, duration time.Duration, err error) {
	m.processInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}

	m.processTotal.WithLabelValues(service, status).Inc()
	m.processDuration.WithLabelValues(service, status).Observe(duration.Seconds())
}

func (m *WorkerMetrics) RecordSplitRun(service string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.splitRunsTotal.WithLabelValues(service, status).Inc()
}

func (m *WorkerMetrics) RecordSplitCacheHit(service string) {
	m.splitCacheHitsTotal.WithLabelValues(service).Inc()
}

func (m *WorkerMetrics) RecordBatchesClassified(service string, count int) {
	if count <= 0 {
		return
	}
	m.batchesClassified.WithLabelValues(service).Add(float64(count))
}

func (m *WorkerMetrics) RecordSubdocuments(service string, count int) {
	m.subdocumentsPerSplit.WithLabelValues(service).Observe(float64(count))
}
