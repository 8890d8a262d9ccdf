package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "Total number of requests labelled by path and status",
}, []string{"path", "status"})

var recordsHarvested = promauto.NewCounter(prometheus.CounterOpts{
	Name: "records_harvested_total",
	Help: "Normalized records yielded by the harvest cursor",
})

var chunksIngested = promauto.NewCounter(prometheus.CounterOpts{
	Name: "chunks_ingested_total",
	Help: "Text chunks queued for embedding across all runs",
})

var batchFlushes = promauto.NewCounter(prometheus.CounterOpts{
	Name: "batch_flushes_total",
	Help: "Embed+upsert batch flushes performed",
})

var dependencyLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "dependency_latency_seconds",
	Help:    "Latency of external service calls.",
	Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10, 30},
}, []string{"service"})

type HttpStatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *HttpStatusRecorder) WriteHeader(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}

func IncrementRecordsHarvested() {
	recordsHarvested.Inc()
}

func IncrementChunksIngested() {
	chunksIngested.Inc()
}

func IncrementBatchFlushes() {
	batchFlushes.Inc()
}

func CaptureExecutionMetrics(label string, timeElapsed time.Duration) {
	dependencyLatency.WithLabelValues(label).Observe(timeElapsed.Seconds())
}
