package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for the booking flow. Synthetic
// fallbacks are surfaced here so upstream outages are visible to monitoring
// even though the caller always receives a confirmation.
type BookingMetrics struct {
	bookingsTotal   *prometheus.CounterVec
	upstreamLatency *prometheus.HistogramVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "concierge",
			Subsystem: "booking",
			Name:      "bookings_total",
			Help:      "Booking outcomes by status and identifier source",
		}, []string{"status", "customer_source", "appointment_source"}),
		upstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "concierge",
			Subsystem: "booking",
			Name:      "upstream_call_seconds",
			Help:      "Latency of clinic directory calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookingsTotal, m.upstreamLatency)
	return m
}

func idSource(synthetic bool) string {
	if synthetic {
		return "synthesized"
	}
	return "upstream"
}

func (m *BookingMetrics) ObserveBooking(status string, customerSynthetic, appointmentSynthetic bool) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(status, idSource(customerSynthetic), idSource(appointmentSynthetic)).Inc()
}

func (m *BookingMetrics) ObserveUpstreamCall(operation, status string, seconds float64) {
	if m == nil {
		return
	}
	m.upstreamLatency.WithLabelValues(operation, status).Observe(seconds)
}

// LocationMetrics counts location-match requests by query kind and outcome.
type LocationMetrics struct {
	matchesTotal *prometheus.CounterVec
}

func NewLocationMetrics(reg prometheus.Registerer) *LocationMetrics {
	m := &LocationMetrics{
		matchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "concierge",
			Subsystem: "locations",
			Name:      "matches_total",
			Help:      "Location match requests by query kind and exactness",
		}, []string{"kind", "exact"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.matchesTotal)
	return m
}

func (m *LocationMetrics) ObserveMatch(kind string, exact bool) {
	if m == nil {
		return
	}
	label := "false"
	if exact {
		label = "true"
	}
	m.matchesTotal.WithLabelValues(kind, label).Inc()
}
