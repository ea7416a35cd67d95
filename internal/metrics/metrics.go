package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	bookingCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "femida",
			Name:      "booking_created_total",
			Help:      "Count of bookings created.",
		},
	)

	bookingConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "femida",
			Name:      "booking_conflict_total",
			Help:      "Count of booking attempts rejected due to date overlap.",
		},
	)

	bookingCancelled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "femida",
			Name:      "booking_cancelled_total",
			Help:      "Count of bookings cancelled.",
		},
	)

	roomStatusChanged = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "femida",
			Name:      "room_status_changed_total",
			Help:      "Count of resolver-driven room status transitions.",
		},
		[]string{"status"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingCreated, bookingConflicts, bookingCancelled, roomStatusChanged)
	})
}

func IncBookingCreated() { bookingCreated.Inc() }

func IncBookingConflict() { bookingConflicts.Inc() }

func IncBookingCancelled() { bookingCancelled.Inc() }

func IncRoomStatusChanged(status string) { roomStatusChanged.WithLabelValues(status).Inc() }
