// Package metrics collects and exposes Prometheus metrics for the HTTP
// layer and the reminder job.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

// Collector holds the application's Prometheus metrics.
type Collector struct {
	httpRequests  *prometheus.CounterVec
	httpLatency   *prometheus.HistogramVec
	remindersSent prometheus.Counter
	reminderFails prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics with the
// given registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sss_http_requests_total",
			Help: "HTTP requests by method, route and status code",
		}, []string{"method", "route", "status_code"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sss_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		remindersSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sss_meeting_reminders_sent_total",
			Help: "Meeting reminders marked as sent",
		}),
		reminderFails: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sss_meeting_reminder_failures_total",
			Help: "Meeting reminder runs that hit an error",
		}),
	}

	reg.MustRegister(c.httpRequests, c.httpLatency, c.remindersSent, c.reminderFails)
	return c
}

// RecordRequest counts one handled HTTP request.
func (c *Collector) RecordRequest(method, route string, statusCode int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	c.httpLatency.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordReminderSent counts one reminder marked as sent.
func (c *Collector) RecordReminderSent() {
	c.remindersSent.Inc()
}

// RecordReminderFailure counts one failed reminder run.
func (c *Collector) RecordReminderFailure() {
	c.reminderFails.Inc()
}

// Middleware records request counts and latency for every route.
func (c *Collector) Middleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		err := ctx.Next()

		status := ctx.Response().StatusCode()
		if err != nil {
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			}
		}

		route := ctx.Route().Path
		if route == "" {
			route = ctx.Path()
		}
		c.RecordRequest(ctx.Method(), route, status, time.Since(start))
		return err
	}
}

// Handler serves the /metrics endpoint for the given gatherer.
func Handler(g prometheus.Gatherer) fiber.Handler {
	h := fasthttpadaptor.NewFastHTTPHandler(promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	return func(c *fiber.Ctx) error {
		h(c.Context())
		return nil
	}
}
