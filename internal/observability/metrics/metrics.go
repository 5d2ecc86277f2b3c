package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "barber"

// ConversationMetrics counts conversation events and their outcomes.
type ConversationMetrics struct {
	eventsTotal    *prometheus.CounterVec
	bookingsTotal  *prometheus.CounterVec
	vacationsTotal prometheus.Counter
	handleLatency  *prometheus.HistogramVec
}

func NewConversationMetrics(reg prometheus.Registerer) *ConversationMetrics {
	m := &ConversationMetrics{
		eventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "conversation",
			Name:      "events_total",
			Help:      "Conversation events by flow, kind and result",
		}, []string{"flow", "kind", "result"}),
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "conversation",
			Name:      "booking_commits_total",
			Help:      "Booking commit attempts by result",
		}, []string{"result"}),
		vacationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "conversation",
			Name:      "vacations_created_total",
			Help:      "Vacation intervals written by operators",
		}),
		handleLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "conversation",
			Name:      "handle_seconds",
			Help:      "Latency of handling one conversation event",
			Buckets:   prometheus.DefBuckets,
		}, []string{"flow"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.eventsTotal, m.bookingsTotal, m.vacationsTotal, m.handleLatency)
	return m
}

func (m *ConversationMetrics) ObserveEvent(flow, kind, result string) {
	if m == nil {
		return
	}
	m.eventsTotal.WithLabelValues(flow, kind, result).Inc()
}

func (m *ConversationMetrics) ObserveCommit(result string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(result).Inc()
}

func (m *ConversationMetrics) ObserveVacation() {
	if m == nil {
		return
	}
	m.vacationsTotal.Inc()
}

func (m *ConversationMetrics) ObserveLatency(flow string, seconds float64) {
	if m == nil {
		return
	}
	m.handleLatency.WithLabelValues(flow).Observe(seconds)
}

// ReminderMetrics counts daily reminder deliveries.
type ReminderMetrics struct {
	sentTotal *prometheus.CounterVec
	runsTotal *prometheus.CounterVec
}

func NewReminderMetrics(reg prometheus.Registerer) *ReminderMetrics {
	m := &ReminderMetrics{
		sentTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reminder",
			Name:      "sent_total",
			Help:      "Reminders handed to the notifier by status",
		}, []string{"status"}),
		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reminder",
			Name:      "runs_total",
			Help:      "Reminder job runs by status",
		}, []string{"status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.sentTotal, m.runsTotal)
	return m
}

func (m *ReminderMetrics) ObserveSent(status string) {
	if m == nil {
		return
	}
	m.sentTotal.WithLabelValues(status).Inc()
}

func (m *ReminderMetrics) ObserveRun(status string) {
	if m == nil {
		return
	}
	m.runsTotal.WithLabelValues(status).Inc()
}

// TransportMetrics counts chat updates received by the bot.
type TransportMetrics struct {
	updatesTotal *prometheus.CounterVec
}

func NewTransportMetrics(reg prometheus.Registerer) *TransportMetrics {
	m := &TransportMetrics{
		updatesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "telegram",
			Name:      "updates_total",
			Help:      "Telegram updates by type and status",
		}, []string{"type", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.updatesTotal)
	return m
}

func (m *TransportMetrics) ObserveUpdate(updateType, status string) {
	if m == nil {
		return
	}
	m.updatesTotal.WithLabelValues(updateType, status).Inc()
}

// HTTPMetrics counts API requests per route.
type HTTPMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	m := &HTTPMetrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status code",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.requestsTotal, m.requestDuration)
	return m
}

func (m *HTTPMetrics) ObserveRequest(method, route string, status int, seconds float64) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(seconds)
}
