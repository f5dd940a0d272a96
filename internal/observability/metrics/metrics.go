package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters for the scheduling core.
type BookingMetrics struct {
	bookingsTotal    *prometheus.CounterVec
	transitionsTotal *prometheus.CounterVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medilink",
			Subsystem: "scheduling",
			Name:      "bookings_total",
			Help:      "Booking attempts by outcome",
		}, []string{"outcome"}),
		transitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medilink",
			Subsystem: "scheduling",
			Name:      "transitions_total",
			Help:      "Appointment status transitions by target status and outcome",
		}, []string{"to", "outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookingsTotal, m.transitionsTotal)
	return m
}

func (m *BookingMetrics) ObserveBooking(outcome string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(outcome).Inc()
}

func (m *BookingMetrics) ObserveTransition(to, outcome string) {
	if m == nil {
		return
	}
	m.transitionsTotal.WithLabelValues(to, outcome).Inc()
}

// NotificationMetrics counts dispatcher activity.
type NotificationMetrics struct {
	sendsTotal *prometheus.CounterVec
}

func NewNotificationMetrics(reg prometheus.Registerer) *NotificationMetrics {
	m := &NotificationMetrics{
		sendsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medilink",
			Subsystem: "notify",
			Name:      "sends_total",
			Help:      "Notification sends by template and status",
		}, []string{"template", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.sendsTotal)
	return m
}

func (m *NotificationMetrics) ObserveSend(template, status string) {
	if m == nil {
		return
	}
	m.sendsTotal.WithLabelValues(template, status).Inc()
}

// HTTPMetrics records request latency per method and route.
type HTTPMetrics struct {
	latency *prometheus.HistogramVec
}

func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	m := &HTTPMetrics{
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "medilink",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.latency)
	return m
}

func (m *HTTPMetrics) ObserveRequest(method, path, status string, seconds float64) {
	if m == nil {
		return
	}
	m.latency.WithLabelValues(method, path, status).Observe(seconds)
}
