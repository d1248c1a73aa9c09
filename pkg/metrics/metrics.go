package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CardMetrics records request outcomes and render latency for the card
// pipeline and the lifecycle endpoints.
type CardMetrics struct {
	requests       *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	avatarFallback prometheus.Counter
}

// NewCardMetrics registers the service metrics on the provided registerer.
func NewCardMetrics(reg prometheus.Registerer) *CardMetrics {
	if reg == nil {
		return &CardMetrics{}
	}
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "membercard_requests_total",
		Help: "Lifecycle and card requests by operation and outcome.",
	}, []string{"operation", "outcome"})
	renderDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "membercard_render_duration_seconds",
		Help:    "Card render duration in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"template"})
	avatarFallback := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "membercard_avatar_fallback_total",
		Help: "Renders that fell back to the placeholder avatar.",
	})
	reg.MustRegister(requests, renderDuration, avatarFallback)
	return &CardMetrics{
		requests:       requests,
		renderDuration: renderDuration,
		avatarFallback: avatarFallback,
	}
}

// IncRequest increments the counter for the named operation and outcome.
func (c *CardMetrics) IncRequest(operation, outcome string) {
	if c == nil || c.requests == nil {
		return
	}
	c.requests.WithLabelValues(normalizeLabel(operation), normalizeLabel(outcome)).Inc()
}

// ObserveRender records how long a card render took.
func (c *CardMetrics) ObserveRender(template string, duration time.Duration) {
	if c == nil || c.renderDuration == nil {
		return
	}
	c.renderDuration.WithLabelValues(normalizeLabel(template)).Observe(duration.Seconds())
}

// IncAvatarFallback counts a render that used the placeholder avatar.
func (c *CardMetrics) IncAvatarFallback() {
	if c == nil || c.avatarFallback == nil {
		return
	}
	c.avatarFallback.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
