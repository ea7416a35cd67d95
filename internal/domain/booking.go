package domain

import "time"

type BookingStatus string

const (
	BookingActive    BookingStatus = "active"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch BookingStatus(s) {
	case BookingActive, BookingCompleted, BookingCancelled:
		return BookingStatus(s), true
	}
	return "", false
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentUnpaid  PaymentStatus = "unpaid"
)

func ParsePaymentStatus(s string) (PaymentStatus, bool) {
	switch PaymentStatus(s) {
	case PaymentPending, PaymentPaid, PaymentUnpaid:
		return PaymentStatus(s), true
	}
	return "", false
}

type PaymentMethod string

const (
	PayCash     PaymentMethod = "cash"
	PayCard     PaymentMethod = "card"
	PayTransfer PaymentMethod = "transfer"
	PayOnline   PaymentMethod = "online"
	PayOther    PaymentMethod = "other"
)

func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch PaymentMethod(s) {
	case PayCash, PayCard, PayTransfer, PayOnline, PayOther:
		return PaymentMethod(s), true
	}
	return "", false
}

// Booking intervals are half-open: [CheckIn, CheckOut). Two active,
// non-deleted bookings on one room must never overlap; back-to-back stays
// where one checkout equals the next check-in are allowed.
type Booking struct {
	ID            int64         `json:"id"`
	GuestID       int64         `json:"guest_id" validate:"required"`
	RoomID        int64         `json:"room_id" validate:"required"`
	CheckIn       time.Time     `json:"check_in" validate:"required"`
	CheckOut      time.Time     `json:"check_out" validate:"required"`
	PeopleCount   int           `json:"people_count" validate:"required,gte=1"`
	Status        BookingStatus `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	PaymentAmount float64       `json:"payment_amount"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Comments      string        `json:"comments,omitempty"`
	TotalAmount   float64       `json:"total_amount"`
	CreatedBy     *int64        `json:"created_by,omitempty"`
	IsDeleted     bool          `json:"is_deleted"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`

	Guest *Guest `json:"guest,omitempty"`
	Room  *Room  `json:"room,omitempty"`
}

// IsActive reports whether the booking counts toward room occupancy and
// overlap checks.
func (b *Booking) IsActive() bool {
	return b.Status == BookingActive && !b.IsDeleted
}
