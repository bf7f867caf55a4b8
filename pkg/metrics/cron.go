package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const jobLabel = "job"

// CronJobMetrics tracks per-job outcomes and runtimes for the cron worker.
// A zero-value or nil receiver is a no-op, so callers never nil-check.
type CronJobMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

// NewCronJobMetrics registers the cron collectors on reg. Passing a nil
// registerer returns a disabled instance.
func NewCronJobMetrics(reg prometheus.Registerer) *CronJobMetrics {
	if reg == nil {
		return &CronJobMetrics{}
	}
	m := &CronJobMetrics{
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lockshop_cron_job_duration_seconds",
			Help:    "Duration of cron job runs in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{jobLabel}),
		success: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lockshop_cron_job_success_total",
			Help: "Cron job runs that completed without error.",
		}, []string{jobLabel}),
		failure: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lockshop_cron_job_failure_total",
			Help: "Cron job runs that returned an error.",
		}, []string{jobLabel}),
	}
	reg.MustRegister(m.duration, m.success, m.failure)
	return m
}

// ObserveDuration records how long the named job ran.
func (c *CronJobMetrics) ObserveDuration(job string, elapsed time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(labelFor(job)).Observe(elapsed.Seconds())
}

// IncSuccess counts a clean run of the named job.
func (c *CronJobMetrics) IncSuccess(job string) {
	if c == nil || c.success == nil {
		return
	}
	c.success.WithLabelValues(labelFor(job)).Inc()
}

// IncFailure counts a failed run of the named job.
func (c *CronJobMetrics) IncFailure(job string) {
	if c == nil || c.failure == nil {
		return
	}
	c.failure.WithLabelValues(labelFor(job)).Inc()
}

func labelFor(job string) string {
	if job == "" {
		return "unknown"
	}
	return job
}
