package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"femida-backend/internal/domain"
	"femida-backend/internal/metrics"
	"femida-backend/internal/pkg/keylock"
	"femida-backend/internal/repository"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Service orchestrates the booking lifecycle: it validates input, performs
// the availability check, prices the stay, persists the booking together with
// the derived room status in one transaction, and records the audit trail.
//
// Every mutation holds the room's lock from the availability check through
// commit, so two concurrent requests for the same room are serialized and
// cannot both pass the check.
type Service struct {
	store Store
	audit AuditRecorder
	locks *keylock.KeyedMutex
	log   zerolog.Logger
}

func NewService(store Store, audit AuditRecorder, locks *keylock.KeyedMutex, log zerolog.Logger) *Service {
	return &Service{
		store: store,
		audit: audit,
		locks: locks,
		log:   log.With().Str("component", "booking").Logger(),
	}
}

func (s *Service) Create(ctx context.Context, req CreateBookingRequest, createdBy int64) (*domain.Booking, error) {
	s.locks.Lock(req.RoomID)
	defer s.locks.Unlock(req.RoomID)

	room, err := s.activeRoom(ctx, s.store, req.RoomID)
	if err != nil {
		return nil, err
	}
	guest, err := s.activeGuest(ctx, req.GuestID)
	if err != nil {
		return nil, err
	}

	if err := validateStay(req.CheckIn, req.CheckOut, req.PeopleCount, room, true); err != nil {
		return nil, err
	}

	paymentStatus := domain.PaymentPending
	if req.PaymentStatus != "" {
		ps, ok := domain.ParsePaymentStatus(req.PaymentStatus)
		if !ok {
			return nil, domain.Invalid("payment_status", "unknown payment status")
		}
		paymentStatus = ps
	}
	paymentMethod := domain.PayCash
	if req.PaymentMethod != "" {
		pm, ok := domain.ParsePaymentMethod(req.PaymentMethod)
		if !ok {
			return nil, domain.Invalid("payment_method", "unknown payment method")
		}
		paymentMethod = pm
	}
	if req.PaymentAmount < 0 {
		return nil, domain.Invalid("payment_amount", "must not be negative")
	}

	if conflict, err := s.store.FindConflict(ctx, room.ID, req.CheckIn, req.CheckOut, 0); err != nil {
		return nil, err
	} else if conflict != nil {
		metrics.IncBookingConflict()
		return nil, &ConflictError{BookingID: conflict.ID}
	}

	b := &domain.Booking{
		GuestID:       guest.ID,
		RoomID:        room.ID,
		CheckIn:       req.CheckIn,
		CheckOut:      req.CheckOut,
		PeopleCount:   req.PeopleCount,
		Status:        domain.BookingActive,
		PaymentStatus: paymentStatus,
		PaymentAmount: req.PaymentAmount,
		PaymentMethod: paymentMethod,
		Comments:      req.Comments,
		TotalAmount:   ComputeTotal(room.PricePerNight, req.CheckIn, req.CheckOut),
		CreatedBy:     &createdBy,
	}

	err = s.store.InTx(ctx, func(tx Store) error {
		if err := tx.CreateBooking(ctx, b); err != nil {
			return err
		}
		_, err := s.resyncRoomStatus(ctx, tx, room.ID)
		return err
	})
	if err != nil {
		if errors.Is(err, repository.ErrOverlap) {
			metrics.IncBookingConflict()
			return nil, s.conflictFor(ctx, room.ID, req.CheckIn, req.CheckOut, 0)
		}
		return nil, err
	}

	metrics.IncBookingCreated()
	s.audit.Record(ctx, b.CreatedBy, domain.AuditCreate, "Booking", b.ID,
		fmt.Sprintf("booking: %s in room %s, %s to %s, people: %d",
			guest.FullName, room.Number, b.CheckIn.Format(time.RFC3339), b.CheckOut.Format(time.RFC3339), b.PeopleCount))
	return b, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := s.store.GetBooking(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrNotFound)
	}
	if b.IsDeleted {
		return nil, ErrNotFound
	}
	return b, nil
}

func (s *Service) List(ctx context.Context, f repository.BookingFilter) ([]domain.Booking, error) {
	return s.store.ListBookings(ctx, f)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateBookingRequest, actorID int64) (*domain.Booking, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	next := *current
	if req.GuestID != nil {
		next.GuestID = *req.GuestID
	}
	if req.RoomID != nil {
		next.RoomID = *req.RoomID
	}
	if req.CheckIn != nil {
		next.CheckIn = *req.CheckIn
	}
	if req.CheckOut != nil {
		next.CheckOut = *req.CheckOut
	}
	if req.PeopleCount != nil {
		next.PeopleCount = *req.PeopleCount
	}
	if req.Status != nil {
		st, ok := domain.ParseBookingStatus(*req.Status)
		if !ok {
			return nil, domain.Invalid("status", "unknown booking status")
		}
		next.Status = st
	}
	if req.PaymentStatus != nil {
		ps, ok := domain.ParsePaymentStatus(*req.PaymentStatus)
		if !ok {
			return nil, domain.Invalid("payment_status", "unknown payment status")
		}
		next.PaymentStatus = ps
	}
	if req.PaymentAmount != nil {
		if *req.PaymentAmount < 0 {
			return nil, domain.Invalid("payment_amount", "must not be negative")
		}
		next.PaymentAmount = *req.PaymentAmount
	}
	if req.PaymentMethod != nil {
		pm, ok := domain.ParsePaymentMethod(*req.PaymentMethod)
		if !ok {
			return nil, domain.Invalid("payment_method", "unknown payment method")
		}
		next.PaymentMethod = pm
	}
	if req.Comments != nil {
		next.Comments = *req.Comments
	}

	unlock := s.locks.LockAll(current.RoomID, next.RoomID)
	defer unlock()

	room, err := s.activeRoom(ctx, s.store, next.RoomID)
	if err != nil {
		return nil, err
	}
	guest, err := s.activeGuest(ctx, next.GuestID)
	if err != nil {
		return nil, err
	}

	// The past-check-in rule applies only when the date actually moves,
	// otherwise an in-progress stay could never be edited.
	checkInChanged := !next.CheckIn.Equal(current.CheckIn)
	if err := validateStay(next.CheckIn, next.CheckOut, next.PeopleCount, room, checkInChanged); err != nil {
		return nil, err
	}

	if next.Status == domain.BookingActive {
		if conflict, err := s.store.FindConflict(ctx, room.ID, next.CheckIn, next.CheckOut, next.ID); err != nil {
			return nil, err
		} else if conflict != nil {
			metrics.IncBookingConflict()
			return nil, &ConflictError{BookingID: conflict.ID}
		}
	}

	// Every save reprices the stay from the current room rate and dates.
	next.TotalAmount = ComputeTotal(room.PricePerNight, next.CheckIn, next.CheckOut)

	err = s.store.InTx(ctx, func(tx Store) error {
		if err := tx.SaveBooking(ctx, &next); err != nil {
			return err
		}
		if current.RoomID != next.RoomID {
			if _, err := s.resyncRoomStatus(ctx, tx, current.RoomID); err != nil {
				return err
			}
		}
		_, err := s.resyncRoomStatus(ctx, tx, next.RoomID)
		return err
	})
	if err != nil {
		if errors.Is(err, repository.ErrOverlap) {
			metrics.IncBookingConflict()
			return nil, s.conflictFor(ctx, room.ID, next.CheckIn, next.CheckOut, next.ID)
		}
		return nil, err
	}

	if current.Status != domain.BookingCancelled && next.Status == domain.BookingCancelled {
		metrics.IncBookingCancelled()
	}

	s.audit.Record(ctx, &actorID, domain.AuditUpdate, "Booking", next.ID,
		fmt.Sprintf("booking: %s in room %s, %s to %s, people: %d",
			guest.FullName, room.Number, next.CheckIn.Format(time.RFC3339), next.CheckOut.Format(time.RFC3339), next.PeopleCount))
	return &next, nil
}

// Cancel marks the booking cancelled and frees the room if no other active
// booking holds it.
func (s *Service) Cancel(ctx context.Context, id int64, actorID int64) (*domain.Booking, error) {
	b, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status == domain.BookingCancelled {
		return b, nil
	}

	s.locks.Lock(b.RoomID)
	defer s.locks.Unlock(b.RoomID)

	b.Status = domain.BookingCancelled
	err = s.store.InTx(ctx, func(tx Store) error {
		if err := tx.SaveBooking(ctx, b); err != nil {
			return err
		}
		_, err := s.resyncRoomStatus(ctx, tx, b.RoomID)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.IncBookingCancelled()
	s.audit.Record(ctx, &actorID, domain.AuditStatusChange, "Booking", b.ID, "booking cancelled")
	return b, nil
}

// SoftDelete hides the booking without destroying it. Idempotent: a second
// delete is a no-op. The room status is resynced because a trashed booking no
// longer counts toward occupancy.
func (s *Service) SoftDelete(ctx context.Context, id int64, actorID int64) error {
	b, err := s.store.GetBooking(ctx, id)
	if err != nil {
		return mapNotFound(err, ErrNotFound)
	}
	if b.IsDeleted {
		return nil
	}

	s.locks.Lock(b.RoomID)
	defer s.locks.Unlock(b.RoomID)

	err = s.store.InTx(ctx, func(tx Store) error {
		if err := tx.SetBookingDeleted(ctx, id, true); err != nil {
			return err
		}
		_, err := s.resyncRoomStatus(ctx, tx, b.RoomID)
		return err
	})
	if err != nil {
		return err
	}

	s.audit.Record(ctx, &actorID, domain.AuditDelete, "Booking", id,
		fmt.Sprintf("deleted booking for room %d, %s to %s", b.RoomID, b.CheckIn.Format(time.RFC3339), b.CheckOut.Format(time.RFC3339)))
	return nil
}

// Restore brings a trashed booking back. An active booking re-enters overlap
// checks, so restoring may fail with a conflict if the slot was taken in the
// meantime.
func (s *Service) Restore(ctx context.Context, id int64, actorID int64) error {
	b, err := s.store.GetBooking(ctx, id)
	if err != nil {
		return mapNotFound(err, ErrNotFound)
	}
	if !b.IsDeleted {
		return nil
	}

	s.locks.Lock(b.RoomID)
	defer s.locks.Unlock(b.RoomID)

	if b.Status == domain.BookingActive {
		conflict, err := s.store.FindConflict(ctx, b.RoomID, b.CheckIn, b.CheckOut, b.ID)
		if err != nil {
			return err
		}
		if conflict != nil {
			metrics.IncBookingConflict()
			return &ConflictError{BookingID: conflict.ID}
		}
	}

	err = s.store.InTx(ctx, func(tx Store) error {
		if err := tx.SetBookingDeleted(ctx, id, false); err != nil {
			return err
		}
		_, err := s.resyncRoomStatus(ctx, tx, b.RoomID)
		return err
	})
	if err != nil {
		return err
	}

	s.audit.Record(ctx, &actorID, domain.AuditRestore, "Booking", id, "booking restored from trash")
	return nil
}

// CompleteExpired marks active bookings with a past checkout as completed and
// frees their rooms. Run nightly by the maintenance job.
func (s *Service) CompleteExpired(ctx context.Context, now time.Time) (int, error) {
	expired, err := s.store.ListExpiredBookings(ctx, now)
	if err != nil {
		return 0, err
	}

	completed := 0
	for i := range expired {
		roomID := expired[i].RoomID
		bookingID := expired[i].ID
		s.locks.Lock(roomID)
		skipped := false
		err := s.store.InTx(ctx, func(tx Store) error {
			// Re-read under the lock: a staff edit may have changed the
			// booking since the list was taken.
			b, err := tx.GetBooking(ctx, bookingID)
			if err != nil {
				return err
			}
			if b.Status != domain.BookingActive || b.IsDeleted || b.CheckOut.After(now) {
				skipped = true
				return nil
			}
			b.Status = domain.BookingCompleted
			if err := tx.SaveBooking(ctx, b); err != nil {
				return err
			}
			_, err = s.resyncRoomStatus(ctx, tx, roomID)
			return err
		})
		s.locks.Unlock(roomID)
		if err != nil {
			s.log.Error().Err(err).Int64("booking_id", bookingID).Msg("failed to complete expired booking")
			continue
		}
		if skipped {
			continue
		}
		completed++
		s.audit.Record(ctx, nil, domain.AuditStatusChange, "Booking", bookingID, "booking completed (checkout passed)")
	}
	return completed, nil
}

// ResyncRoomStatuses recomputes every room's status from its active bookings.
func (s *Service) ResyncRoomStatuses(ctx context.Context) (int, error) {
	rooms, err := s.store.ListRooms(ctx)
	if err != nil {
		return 0, err
	}

	changed := 0
	for _, room := range rooms {
		s.locks.Lock(room.ID)
		var didChange bool
		err := s.store.InTx(ctx, func(tx Store) error {
			var err error
			didChange, err = s.resyncRoomStatus(ctx, tx, room.ID)
			return err
		})
		s.locks.Unlock(room.ID)
		if err != nil {
			s.log.Error().Err(err).Int64("room_id", room.ID).Msg("failed to resync room status")
			continue
		}
		if didChange {
			changed++
		}
	}
	return changed, nil
}

// resyncRoomStatus derives the room's status from its active booking set.
// Repair is a manual override and is never touched here. Idempotent.
func (s *Service) resyncRoomStatus(ctx context.Context, tx Store, roomID int64) (bool, error) {
	room, err := tx.GetRoom(ctx, roomID)
	if err != nil {
		return false, err
	}
	if room.Status == domain.RoomRepair {
		return false, nil
	}

	cnt, err := tx.CountActiveForRoom(ctx, roomID)
	if err != nil {
		return false, err
	}
	next := domain.RoomFree
	if cnt > 0 {
		next = domain.RoomBusy
	}
	if next == room.Status {
		return false, nil
	}
	if err := tx.SetRoomStatus(ctx, roomID, next); err != nil {
		return false, err
	}
	metrics.IncRoomStatusChanged(string(next))
	return true, nil
}

func (s *Service) activeRoom(ctx context.Context, store Store, id int64) (*domain.Room, error) {
	room, err := store.GetRoom(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrRoomNotFound)
	}
	if room.IsDeleted {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

func (s *Service) activeGuest(ctx context.Context, id int64) (*domain.Guest, error) {
	guest, err := s.store.GetGuest(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrGuestNotFound)
	}
	if guest.IsDeleted {
		return nil, ErrGuestNotFound
	}
	return guest, nil
}

// conflictFor resolves the id of the booking that tripped the database
// overlap constraint so the caller still gets a specific conflict.
func (s *Service) conflictFor(ctx context.Context, roomID int64, checkIn, checkOut time.Time, excludeID int64) error {
	conflict, err := s.store.FindConflict(ctx, roomID, checkIn, checkOut, excludeID)
	if err == nil && conflict != nil {
		return &ConflictError{BookingID: conflict.ID}
	}
	return &ConflictError{}
}

func validateStay(checkIn, checkOut time.Time, peopleCount int, room *domain.Room, checkPast bool) error {
	if !checkOut.After(checkIn) {
		return domain.Invalid("check_out", "checkout must be after check-in")
	}
	if checkPast && checkIn.Before(time.Now()) {
		return domain.Invalid("check_in", "check-in must not be in the past")
	}
	if peopleCount < 1 {
		return domain.Invalid("people_count", "must be at least 1")
	}
	if peopleCount > room.Capacity {
		return domain.Invalid("people_count", fmt.Sprintf("room holds at most %d guests", room.Capacity))
	}
	return nil
}

func mapNotFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
