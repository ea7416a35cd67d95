package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store bundles the repositories over one gorm handle so that callers can run
// several writes in a single transaction. InTx hands the callback a Store
// bound to the transaction; every repository obtained from it shares the same
// commit-or-rollback fate.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) DB() *gorm.DB { return s.db }

func (s *Store) InTx(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func (s *Store) Users() *UserRepository         { return NewUserRepository(s.db) }
func (s *Store) Buildings() *BuildingRepository { return NewBuildingRepository(s.db) }
func (s *Store) Rooms() *RoomRepository         { return NewRoomRepository(s.db) }
func (s *Store) Guests() *GuestRepository       { return NewGuestRepository(s.db) }
func (s *Store) Bookings() *BookingRepository   { return NewBookingRepository(s.db) }
func (s *Store) Audit() *AuditRepository        { return NewAuditRepository(s.db) }
