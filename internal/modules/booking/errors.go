package booking

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("booking not found")
	ErrRoomNotFound  = errors.New("room not found")
	ErrGuestNotFound = errors.New("guest not found")
)

// ConflictError reports that the requested interval overlaps an existing
// active booking. The conflicting booking's id is part of the contract.
type ConflictError struct {
	BookingID int64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("room is already booked for these dates (booking #%d)", e.BookingID)
}
