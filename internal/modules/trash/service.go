package trash

import (
	"context"
	"errors"
	"fmt"

	"femida-backend/internal/domain"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

var (
	ErrUnknownType = errors.New("unknown trash type")
	ErrNotFound    = errors.New("not found in trash")
)

type BookingBin interface {
	ListDeleted(ctx context.Context) ([]domain.Booking, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	Purge(ctx context.Context, id int64) error
}

type RoomBin interface {
	ListDeleted(ctx context.Context) ([]domain.Room, error)
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
	SetDeleted(ctx context.Context, id int64, deleted bool) error
	Purge(ctx context.Context, id int64) error
}

type GuestBin interface {
	ListDeleted(ctx context.Context) ([]domain.Guest, error)
	GetByID(ctx context.Context, id int64) (*domain.Guest, error)
	SetDeleted(ctx context.Context, id int64, deleted bool) error
	Purge(ctx context.Context, id int64) error
}

// BookingRestorer routes booking restores through the booking service, which
// re-checks the room for overlaps and resyncs its status.
type BookingRestorer interface {
	Restore(ctx context.Context, id int64, actorID int64) error
}

type AuditRecorder interface {
	Record(ctx context.Context, userID *int64, action domain.AuditAction, objectType string, objectID int64, details string)
}

// Service is the recycle bin over soft-deleted bookings, rooms, and guests.
// Restore undoes a soft delete; purge removes the row for good.
type Service struct {
	bookings BookingBin
	rooms    RoomBin
	guests   GuestBin
	restorer BookingRestorer
	audit    AuditRecorder
	log      zerolog.Logger
}

func NewService(bookings BookingBin, rooms RoomBin, guests GuestBin, restorer BookingRestorer, audit AuditRecorder, log zerolog.Logger) *Service {
	return &Service{
		bookings: bookings,
		rooms:    rooms,
		guests:   guests,
		restorer: restorer,
		audit:    audit,
		log:      log.With().Str("component", "trash").Logger(),
	}
}

func (s *Service) List(ctx context.Context, kind string) (any, error) {
	switch kind {
	case "bookings":
		return s.bookings.ListDeleted(ctx)
	case "rooms":
		return s.rooms.ListDeleted(ctx)
	case "guests":
		return s.guests.ListDeleted(ctx)
	default:
		return nil, ErrUnknownType
	}
}

func (s *Service) Restore(ctx context.Context, kind string, id int64, actorID int64) error {
	switch kind {
	case "bookings":
		return s.restorer.Restore(ctx, id, actorID)
	case "rooms":
		room, err := s.rooms.GetByID(ctx, id)
		if err != nil {
			return mapNotFound(err)
		}
		// Restoring a room that is not in the trash is a no-op.
		if !room.IsDeleted {
			return nil
		}
		if err := s.rooms.SetDeleted(ctx, id, false); err != nil {
			return err
		}
		s.audit.Record(ctx, &actorID, domain.AuditRestore, "Room", id,
			fmt.Sprintf("room %s restored from trash", room.Number))
		return nil
	case "guests":
		guest, err := s.guests.GetByID(ctx, id)
		if err != nil {
			return mapNotFound(err)
		}
		if !guest.IsDeleted {
			return nil
		}
		if err := s.guests.SetDeleted(ctx, id, false); err != nil {
			return err
		}
		s.audit.Record(ctx, &actorID, domain.AuditRestore, "Guest", id,
			fmt.Sprintf("guest %s restored from trash", guest.FullName))
		return nil
	default:
		return ErrUnknownType
	}
}

// Purge permanently removes a trashed row. Only soft-deleted rows can be
// purged; live data never leaves through this path.
func (s *Service) Purge(ctx context.Context, kind string, id int64, actorID int64) error {
	switch kind {
	case "bookings":
		b, err := s.bookings.GetByID(ctx, id)
		if err != nil {
			return mapNotFound(err)
		}
		if !b.IsDeleted {
			return ErrNotFound
		}
		if err := s.bookings.Purge(ctx, id); err != nil {
			return err
		}
		s.audit.Record(ctx, &actorID, domain.AuditPurge, "Booking", id,
			fmt.Sprintf("booking for room %d purged from trash", b.RoomID))
		return nil
	case "rooms":
		room, err := s.deletedRoom(ctx, id)
		if err != nil {
			return err
		}
		if err := s.rooms.Purge(ctx, id); err != nil {
			return err
		}
		s.audit.Record(ctx, &actorID, domain.AuditPurge, "Room", id,
			fmt.Sprintf("room %s purged from trash", room.Number))
		return nil
	case "guests":
		guest, err := s.deletedGuest(ctx, id)
		if err != nil {
			return err
		}
		if err := s.guests.Purge(ctx, id); err != nil {
			return err
		}
		s.audit.Record(ctx, &actorID, domain.AuditPurge, "Guest", id,
			fmt.Sprintf("guest %s purged from trash", guest.FullName))
		return nil
	default:
		return ErrUnknownType
	}
}

func (s *Service) deletedRoom(ctx context.Context, id int64) (*domain.Room, error) {
	room, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if !room.IsDeleted {
		return nil, ErrNotFound
	}
	return room, nil
}

func (s *Service) deletedGuest(ctx context.Context, id int64) (*domain.Guest, error) {
	guest, err := s.guests.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if !guest.IsDeleted {
		return nil, ErrNotFound
	}
	return guest, nil
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
