// Package metrics defines the server's Prometheus instruments and the HTTP
// endpoint that exposes them.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the application instruments. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	RPCDuration    *prometheus.HistogramVec
	AuthEvents     *prometheus.CounterVec
	MailMessages   *prometheus.CounterVec
	MailQueueDepth prometheus.Gauge
}

// New creates the instruments and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RPCDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "contactbook_rpc_duration_seconds",
			Help:    "Latency of gRPC calls by method and status code",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "code"}),
		AuthEvents: f.NewCounterVec(prometheus.CounterOpts{
			Name: "contactbook_auth_events_total",
			Help: "Authentication flow events by kind and outcome",
		}, []string{"event", "outcome"}),
		MailMessages: f.NewCounterVec(prometheus.CounterOpts{
			Name: "contactbook_mail_messages_total",
			Help: "Outgoing mail by result (sent, failed, dropped)",
		}, []string{"result"}),
		MailQueueDepth: f.NewGauge(prometheus.GaugeOpts{
			Name: "contactbook_mail_queue_depth",
			Help: "Messages waiting in the mail queue",
		}),
	}
}

// NewRegistry returns a registry preloaded with Go runtime and process
// collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return reg
}

func (m *Metrics) ObserveRPC(method, code string, d time.Duration) {
	if m == nil {
		return
	}
	m.RPCDuration.WithLabelValues(method, code).Observe(d.Seconds())
}

func (m *Metrics) AuthEvent(event string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.AuthEvents.WithLabelValues(event, outcome).Inc()
}

func (m *Metrics) Mail(result string) {
	if m == nil {
		return
	}
	m.MailMessages.WithLabelValues(result).Inc()
}

func (m *Metrics) SetMailQueueDepth(n int) {
	if m == nil {
		return
	}
	m.MailQueueDepth.Set(float64(n))
}
