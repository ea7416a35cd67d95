package booking

import (
	"context"
	"time"

	"femida-backend/internal/domain"
	"femida-backend/internal/repository"
)

// Store is the persistence surface the lifecycle manager needs. InTx hands
// the callback a Store bound to one transaction; the booking write and the
// room status write of a single operation always go through that handle so a
// reader can never observe one without the other.
type Store interface {
	InTx(ctx context.Context, fn func(tx Store) error) error

	GetBooking(ctx context.Context, id int64) (*domain.Booking, error)
	FindConflict(ctx context.Context, roomID int64, checkIn, checkOut time.Time, excludeID int64) (*domain.Booking, error)
	CountActiveForRoom(ctx context.Context, roomID int64) (int64, error)
	ListBookings(ctx context.Context, f repository.BookingFilter) ([]domain.Booking, error)
	ListExpiredBookings(ctx context.Context, now time.Time) ([]domain.Booking, error)
	CreateBooking(ctx context.Context, b *domain.Booking) error
	SaveBooking(ctx context.Context, b *domain.Booking) error
	SetBookingDeleted(ctx context.Context, id int64, deleted bool) error

	GetRoom(ctx context.Context, id int64) (*domain.Room, error)
	ListRooms(ctx context.Context) ([]domain.Room, error)
	SetRoomStatus(ctx context.Context, id int64, status domain.RoomStatus) error

	GetGuest(ctx context.Context, id int64) (*domain.Guest, error)
}

// AuditRecorder appends trail entries. Implementations are best-effort: a
// failed append is logged by the recorder, never surfaced here.
type AuditRecorder interface {
	Record(ctx context.Context, userID *int64, action domain.AuditAction, objectType string, objectID int64, details string)
}
