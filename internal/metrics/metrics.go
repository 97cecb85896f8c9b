package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_http_requests_total",
			Help: "HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "booking_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	AppointmentTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_appointment_transitions_total",
			Help: "Appointment status transitions",
		},
		[]string{"action", "result"},
	)

	SlotQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_slot_queries_total",
			Help: "Availability lookups",
		},
		[]string{"result"},
	)

	OTPIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_otp_issued_total",
			Help: "OTP codes issued by purpose",
		},
		[]string{"purpose"},
	)

	OTPVerifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_otp_verifications_total",
			Help: "OTP verification attempts",
		},
		[]string{"purpose", "result"},
	)

	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_notifications_total",
			Help: "Confirmation deliveries by channel",
		},
		[]string{"channel", "status"},
	)

	ChangeRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_change_requests_total",
			Help: "Change requests by outcome",
		},
		[]string{"outcome"},
	)

	AuditDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "booking_audit_events_dropped_total",
			Help: "Audit events dropped because the queue was full",
		},
	)
)

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func RecordTransition(action string, err error) {
	AppointmentTransitions.WithLabelValues(action, result(err)).Inc()
}

func RecordSlotQuery(err error) {
	SlotQueries.WithLabelValues(result(err)).Inc()
}

func RecordOTPIssued(purpose string) {
	OTPIssued.WithLabelValues(purpose).Inc()
}

func RecordOTPVerification(purpose string, err error) {
	OTPVerifications.WithLabelValues(purpose, result(err)).Inc()
}

func RecordNotification(channel string, sent bool) {
	status := "failed"
	if sent {
		status = "sent"
	}
	NotificationsSent.WithLabelValues(channel, status).Inc()
}

func RecordChangeRequest(outcome string) {
	ChangeRequests.WithLabelValues(outcome).Inc()
}
