package driver

import (
	"time"

	"github.com/brickingsoft/errors"
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	registerer prometheus.Registerer
	submits    *prometheus.CounterVec
	rejects    *prometheus.CounterVec
	completes  *prometheus.CounterVec
	cancels    *prometheus.CounterVec
	retries    *prometheus.CounterVec
	inflight   prometheus.Gauge
	latency    *prometheus.SummaryVec
}

// noopMetrics is used when no registerer is configured, every method is a no-op on it.
var noopMetrics = &metrics{}

func newMetrics(reg prometheus.Registerer, id string, kind Kind) (m *metrics, err error) {
	labels := prometheus.Labels{"driver": id, "backend": kind.String()}
	m = &metrics{
		registerer: reg,
		submits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "fio",
			Subsystem:   "driver",
			Name:        "submitted_total",
			Help:        "Operations accepted by the backend.",
			ConstLabels: labels,
		}, []string{"op"}),
		rejects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "fio",
			Subsystem:   "driver",
			Name:        "rejected_total",
			Help:        "Operations refused at submission.",
			ConstLabels: labels,
		}, []string{"op", "reason"}),
		completes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "fio",
			Subsystem:   "driver",
			Name:        "completed_total",
			Help:        "Operations that reached a terminal result.",
			ConstLabels: labels,
		}, []string{"op", "result"}),
		cancels: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "fio",
			Subsystem:   "driver",
			Name:        "canceled_total",
			Help:        "Operations abandoned by their caller.",
			ConstLabels: labels,
		}, []string{"op"}),
		retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "fio",
			Subsystem:   "driver",
			Name:        "retries_total",
			Help:        "Attempts repeated after an interrupted or would-block result.",
			ConstLabels: labels,
		}, []string{"op"}),
		inflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "fio",
			Subsystem:   "driver",
			Name:        "inflight",
			Help:        "Operations submitted and not yet completed.",
			ConstLabels: labels,
		}),
		latency: prometheus.NewSummaryVec(prometheus.SummaryOpts{
			Namespace:   "fio",
			Subsystem:   "driver",
			Name:        "latency_seconds",
			Help:        "Time from submission to terminal result.",
			ConstLabels: labels,
			Objectives:  map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		}, []string{"op"}),
	}
	collectors := m.collectors()
	for i, c := range collectors {
		if regErr := reg.Register(c); regErr != nil {
			for _, registered := range collectors[:i] {
				reg.Unregister(registered)
			}
			m = nil
			err = regErr
			return
		}
	}
	return
}

func (m *metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{m.submits, m.rejects, m.completes, m.cancels, m.retries, m.inflight, m.latency}
}

func (m *metrics) enabled() bool {
	return m.registerer != nil
}

func (m *metrics) unregister() {
	if !m.enabled() {
		return
	}
	for _, c := range m.collectors() {
		m.registerer.Unregister(c)
	}
}

// submitted is called before the backend sees op, accepted or rejected follows.
func (m *metrics) submitted(string) {
	if !m.enabled() {
		return
	}
	m.inflight.Inc()
}

func (m *metrics) accepted(op string) {
	if !m.enabled() {
		return
	}
	m.submits.WithLabelValues(op).Inc()
}

func (m *metrics) rejected(op string, err error) {
	if !m.enabled() {
		return
	}
	reason := "error"
	if errors.Is(err, ErrBusy) {
		reason = "busy"
	} else if errors.Is(err, ErrClosed) {
		reason = "closed"
	}
	m.inflight.Dec()
	m.rejects.WithLabelValues(op, reason).Inc()
}

func (m *metrics) completed(op string, elapsed time.Duration, err error) {
	if !m.enabled() {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
		if errors.Is(err, ErrCanceled) {
			result = "canceled"
		}
	}
	m.completes.WithLabelValues(op, result).Inc()
	m.inflight.Dec()
	m.latency.WithLabelValues(op).Observe(elapsed.Seconds())
}

func (m *metrics) canceled(op string) {
	if !m.enabled() {
		return
	}
	m.cancels.WithLabelValues(op).Inc()
}

func (m *metrics) retried(op string) {
	if !m.enabled() {
		return
	}
	m.retries.WithLabelValues(op).Inc()
}
