package booking

import "time"

type CreateBookingRequest struct {
	GuestID       int64     `json:"guest_id" binding:"required"`
	RoomID        int64     `json:"room_id" binding:"required"`
	CheckIn       time.Time `json:"check_in" binding:"required"`
	CheckOut      time.Time `json:"check_out" binding:"required"`
	PeopleCount   int       `json:"people_count" binding:"required"`
	PaymentStatus string    `json:"payment_status"`
	PaymentAmount float64   `json:"payment_amount"`
	PaymentMethod string    `json:"payment_method"`
	Comments      string    `json:"comments"`
}

// UpdateBookingRequest carries partial updates; nil means "leave unchanged".
type UpdateBookingRequest struct {
	GuestID       *int64     `json:"guest_id"`
	RoomID        *int64     `json:"room_id"`
	CheckIn       *time.Time `json:"check_in"`
	CheckOut      *time.Time `json:"check_out"`
	PeopleCount   *int       `json:"people_count"`
	Status        *string    `json:"status"`
	PaymentStatus *string    `json:"payment_status"`
	PaymentAmount *float64   `json:"payment_amount"`
	PaymentMethod *string    `json:"payment_method"`
	Comments      *string    `json:"comments"`
}
