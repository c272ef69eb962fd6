package workflow

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records pipeline outcomes. A nil *Metrics records nothing.
type Metrics struct {
	tickets     *prometheus.CounterVec
	categories  *prometheus.CounterVec
	reviews     *prometheus.CounterVec
	escalations prometheus.Counter
	stages      *prometheus.HistogramVec
}

// NewMetrics registers the pipeline collectors with reg under namespace.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	m := &Metrics{
		tickets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tickets_total",
			Help:      "Tickets processed by final status.",
		}, []string{"status"}),
		categories: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticket_categories_total",
			Help:      "Tickets classified per category.",
		}, []string{"category"}),
		reviews: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "review_decisions_total",
			Help:      "Reviewer decisions on drafted replies.",
		}, []string{"decision"}),
		escalations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "escalations_total",
			Help:      "Tickets handed off to a human after exhausting retries.",
		}),
		stages: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage"}),
	}

	reg.MustRegister(m.tickets, m.categories, m.reviews, m.escalations, m.stages)
	return m
}

func (m *Metrics) observeStage(p Phase, d time.Duration) {
	if m == nil {
		return
	}
	m.stages.WithLabelValues(string(p)).Observe(d.Seconds())
}

func (m *Metrics) classified(c Category) {
	if m == nil {
		return
	}
	m.categories.WithLabelValues(string(c)).Inc()
}

func (m *Metrics) reviewed(d Decision) {
	if m == nil {
		return
	}
	m.reviews.WithLabelValues(string(d)).Inc()
}

func (m *Metrics) escalated() {
	if m == nil {
		return
	}
	m.escalations.Inc()
}

func (m *Metrics) finished(s Status) {
	if m == nil {
		return
	}
	m.tickets.WithLabelValues(string(s)).Inc()
}
