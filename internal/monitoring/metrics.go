package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors exported on /metrics.
type Metrics struct {
	gatherer prometheus.Gatherer

	RequestCounter      *prometheus.CounterVec
	RequestDuration     *prometheus.HistogramVec
	Submissions         prometheus.Counter
	SubmittedAnswers    prometheus.Histogram
	CorrectAnswers      prometheus.Histogram
	PersistedBatches    *prometheus.CounterVec
	PersistedSubmission *prometheus.CounterVec
}

// New registers every collector on reg. Pass prometheus.NewRegistry() in
// tests to keep runs independent.
func New(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		gatherer: reg,
		RequestCounter: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		RequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: []float64{0.005, 0.025, 0.1, 0.5, 1, 2, 5},
			},
			[]string{"method", "endpoint"},
		),
		Submissions: f.NewCounter(prometheus.CounterOpts{
			Name: "quiz_submissions_total",
			Help: "Total number of scored submissions",
		}),
		SubmittedAnswers: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "quiz_submission_answers",
			Help:    "Distinct answer ids per submission",
			Buckets: prometheus.LinearBuckets(0, 5, 10),
		}),
		CorrectAnswers: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "quiz_submission_correct_answers",
			Help:    "Correct answers per submission",
			Buckets: prometheus.LinearBuckets(0, 5, 10),
		}),
		PersistedBatches: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "submission_worker_batches_total",
				Help: "Submission batches flushed by the worker, by outcome",
			},
			[]string{"outcome"},
		),
		PersistedSubmission: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "submission_worker_items_total",
				Help: "Submissions handled by the worker, by outcome",
			},
			[]string{"outcome"},
		),
	}
}

// ObserveSubmission records one scored submission.
func (m *Metrics) ObserveSubmission(submitted, correct int) {
	m.Submissions.Inc()
	m.SubmittedAnswers.Observe(float64(submitted))
	m.CorrectAnswers.Observe(float64(correct))
}

// ObserveBatch records the outcome of one worker flush.
func (m *Metrics) ObserveBatch(outcome string, items int) {
	m.PersistedBatches.WithLabelValues(outcome).Inc()
	m.PersistedSubmission.WithLabelValues(outcome).Add(float64(items))
}

// Middleware counts and times every request by route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		m.RequestCounter.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(c.Writer.Status()),
		).Inc()

		m.RequestDuration.WithLabelValues(
			c.Request.Method,
			endpoint,
		).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
