package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	bookingCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cartbook",
			Name:      "booking_created_total",
			Help:      "Count of reservations created by device.",
		},
		[]string{"device"},
	)

	bookingDeleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "cartbook",
			Name:      "booking_deleted_total",
			Help:      "Count of reservations deleted.",
		},
	)

	returnToggled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "cartbook",
			Name:      "booking_return_toggled_total",
			Help:      "Count of return flag toggles.",
		},
	)

	logins = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cartbook",
			Name:      "login_total",
			Help:      "Count of login attempts by result.",
		},
		[]string{"result"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cartbook",
			Name:      "http_requests_total",
			Help:      "Count of HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingCreated, bookingDeleted, returnToggled, logins, httpRequests)
	})
}

func IncBookingCreated(device string) {
	bookingCreated.WithLabelValues(device).Inc()
}

func IncBookingDeleted() {
	bookingDeleted.Inc()
}

func IncReturnToggled() {
	returnToggled.Inc()
}

func IncLogin(result string) {
	logins.WithLabelValues(result).Inc()
}

func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}
