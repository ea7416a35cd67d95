package booking

import (
	"context"
	"time"

	"femida-backend/internal/domain"
	"femida-backend/internal/repository"
)

// GormStore adapts repository.Store to the module's Store interface.
type GormStore struct {
	store *repository.Store
}

func NewGormStore(store *repository.Store) *GormStore {
	return &GormStore{store: store}
}

func (g *GormStore) InTx(ctx context.Context, fn func(tx Store) error) error {
	return g.store.InTx(ctx, func(tx *repository.Store) error {
		return fn(&GormStore{store: tx})
	})
}

func (g *GormStore) GetBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	return g.store.Bookings().GetByID(ctx, id)
}

func (g *GormStore) FindConflict(ctx context.Context, roomID int64, checkIn, checkOut time.Time, excludeID int64) (*domain.Booking, error) {
	return g.store.Bookings().FindConflict(ctx, roomID, checkIn, checkOut, excludeID)
}

func (g *GormStore) CountActiveForRoom(ctx context.Context, roomID int64) (int64, error) {
	return g.store.Bookings().CountActiveForRoom(ctx, roomID)
}

func (g *GormStore) ListBookings(ctx context.Context, f repository.BookingFilter) ([]domain.Booking, error) {
	return g.store.Bookings().List(ctx, f)
}

func (g *GormStore) ListExpiredBookings(ctx context.Context, now time.Time) ([]domain.Booking, error) {
	return g.store.Bookings().ListExpired(ctx, now)
}

func (g *GormStore) CreateBooking(ctx context.Context, b *domain.Booking) error {
	return g.store.Bookings().Create(ctx, b)
}

func (g *GormStore) SaveBooking(ctx context.Context, b *domain.Booking) error {
	return g.store.Bookings().Save(ctx, b)
}

func (g *GormStore) SetBookingDeleted(ctx context.Context, id int64, deleted bool) error {
	return g.store.Bookings().SetDeleted(ctx, id, deleted)
}

func (g *GormStore) GetRoom(ctx context.Context, id int64) (*domain.Room, error) {
	return g.store.Rooms().GetByID(ctx, id)
}

func (g *GormStore) ListRooms(ctx context.Context) ([]domain.Room, error) {
	return g.store.Rooms().List(ctx, 0)
}

func (g *GormStore) SetRoomStatus(ctx context.Context, id int64, status domain.RoomStatus) error {
	return g.store.Rooms().SetStatus(ctx, id, status)
}

func (g *GormStore) GetGuest(ctx context.Context, id int64) (*domain.Guest, error) {
	return g.store.Guests().GetByID(ctx, id)
}
