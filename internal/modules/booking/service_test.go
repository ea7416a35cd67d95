package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"femida-backend/internal/domain"
	"femida-backend/internal/pkg/keylock"
	"femida-backend/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// memStore is an in-memory Store. Methods take the mutex individually; the
// service's per-room locks provide the cross-call exclusion, same as with the
// real database.
type memStore struct {
	mu       sync.Mutex
	bookings map[int64]*domain.Booking
	rooms    map[int64]*domain.Room
	guests   map[int64]*domain.Guest
	nextID   int64
}

func newMemStore() *memStore {
	return &memStore{
		bookings: map[int64]*domain.Booking{},
		rooms:    map[int64]*domain.Room{},
		guests:   map[int64]*domain.Guest{},
		nextID:   1,
	}
}

func (m *memStore) InTx(_ context.Context, fn func(tx Store) error) error {
	return fn(m)
}

func (m *memStore) GetBooking(_ context.Context, id int64) (*domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *memStore) FindConflict(_ context.Context, roomID int64, checkIn, checkOut time.Time, excludeID int64) (*domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bookings {
		if b.RoomID != roomID || !b.IsActive() || b.ID == excludeID {
			continue
		}
		if b.CheckIn.Before(checkOut) && checkIn.Before(b.CheckOut) {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) CountActiveForRoom(_ context.Context, roomID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var cnt int64
	for _, b := range m.bookings {
		if b.RoomID == roomID && b.IsActive() {
			cnt++
		}
	}
	return cnt, nil
}

func (m *memStore) ListBookings(_ context.Context, f repository.BookingFilter) ([]domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Booking
	for _, b := range m.bookings {
		if b.IsDeleted {
			continue
		}
		if f.GuestID != 0 && b.GuestID != f.GuestID {
			continue
		}
		if f.RoomID != 0 && b.RoomID != f.RoomID {
			continue
		}
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		out = append(out, *b)
	}
	return out, nil
}

func (m *memStore) ListExpiredBookings(_ context.Context, now time.Time) ([]domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Booking
	for _, b := range m.bookings {
		if b.IsActive() && !b.CheckOut.After(now) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *memStore) CreateBooking(_ context.Context, b *domain.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b.ID = m.nextID
	m.nextID++
	cp := *b
	m.bookings[b.ID] = &cp
	return nil
}

func (m *memStore) SaveBooking(_ context.Context, b *domain.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *b
	m.bookings[b.ID] = &cp
	return nil
}

func (m *memStore) SetBookingDeleted(_ context.Context, id int64, deleted bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.bookings[id]; ok {
		b.IsDeleted = deleted
	}
	return nil
}

func (m *memStore) GetRoom(_ context.Context, id int64) (*domain.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memStore) ListRooms(_ context.Context) ([]domain.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Room
	for _, r := range m.rooms {
		if !r.IsDeleted {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *memStore) SetRoomStatus(_ context.Context, id int64, status domain.RoomStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.rooms[id]; ok {
		r.Status = status
	}
	return nil
}

func (m *memStore) GetGuest(_ context.Context, id int64) (*domain.Guest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.guests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *g
	return &cp, nil
}

func (m *memStore) roomStatus(id int64) domain.RoomStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rooms[id].Status
}

type recordedAudit struct {
	mu      sync.Mutex
	actions []domain.AuditAction
}

func (r *recordedAudit) Record(_ context.Context, _ *int64, action domain.AuditAction, _ string, _ int64, _ string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append(r.actions, action)
}

func (r *recordedAudit) has(action domain.AuditAction) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.actions {
		if a == action {
			return true
		}
	}
	return false
}

func newTestService() (*Service, *memStore, *recordedAudit) {
	store := newMemStore()
	audit := &recordedAudit{}
	svc := NewService(store, audit, keylock.New(), zerolog.Nop())

	store.rooms[1] = &domain.Room{ID: 1, BuildingID: 1, Number: "101", Capacity: 2, PricePerNight: 1000, Status: domain.RoomFree}
	store.rooms[2] = &domain.Room{ID: 2, BuildingID: 1, Number: "102", Capacity: 4, PricePerNight: 1500, Status: domain.RoomFree}
	store.guests[1] = &domain.Guest{ID: 1, FullName: "Aida Omurova", Phone: "+996555123456", Status: domain.GuestActive}
	return svc, store, audit
}

// stay returns a future interval so the past-check-in rule never interferes.
func stay(daysFromNow, nights int) (time.Time, time.Time) {
	checkIn := time.Now().Add(time.Duration(daysFromNow) * 24 * time.Hour).Truncate(time.Hour)
	return checkIn, checkIn.Add(time.Duration(nights) * 24 * time.Hour)
}

func TestCreateBooking(t *testing.T) {
	svc, store, audit := newTestService()
	checkIn, checkOut := stay(2, 2)

	b, err := svc.Create(context.Background(), CreateBookingRequest{
		GuestID: 1, RoomID: 1, CheckIn: checkIn, CheckOut: checkOut, PeopleCount: 2,
	}, 7)
	require.NoError(t, err)

	assert.Equal(t, 2000.0, b.TotalAmount)
	assert.Equal(t, domain.BookingActive, b.Status)
	assert.Equal(t, domain.PaymentPending, b.PaymentStatus)
	assert.Equal(t, domain.PayCash, b.PaymentMethod)
	require.NotNil(t, b.CreatedBy)
	assert.Equal(t, int64(7), *b.CreatedBy)
	assert.Equal(t, domain.RoomBusy, store.roomStatus(1))
	assert.True(t, audit.has(domain.AuditCreate))
}

func TestCreateValidation(t *testing.T) {
	svc, _, _ := newTestService()
	checkIn, checkOut := stay(2, 2)

	cases := []struct {
		name  string
		req   CreateBookingRequest
		field string
	}{
		{"checkout before checkin", CreateBookingRequest{GuestID: 1, RoomID: 1, CheckIn: checkOut, CheckOut: checkIn, PeopleCount: 1}, "check_out"},
		{"past checkin", CreateBookingRequest{GuestID: 1, RoomID: 1, CheckIn: time.Now().Add(-48 * time.Hour), CheckOut: checkOut, PeopleCount: 1}, "check_in"},
		{"zero people", CreateBookingRequest{GuestID: 1, RoomID: 1, CheckIn: checkIn, CheckOut: checkOut, PeopleCount: 0}, "people_count"},
		{"over capacity", CreateBookingRequest{GuestID: 1, RoomID: 1, CheckIn: checkIn, CheckOut: checkOut, PeopleCount: 3}, "people_count"},
		{"bad payment status", CreateBookingRequest{GuestID: 1, RoomID: 1, CheckIn: checkIn, CheckOut: checkOut, PeopleCount: 1, PaymentStatus: "maybe"}, "payment_status"},
		{"bad payment method", CreateBookingRequest{GuestID: 1, RoomID: 1, CheckIn: checkIn, CheckOut: checkOut, PeopleCount: 1, PaymentMethod: "barter"}, "payment_method"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.req, 1)
			var invalid *domain.ValidationError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tc.field, invalid.Field)
		})
	}
}

func TestCreateUnknownReferences(t *testing.T) {
	svc, store, _ := newTestService()
	checkIn, checkOut := stay(2, 2)

	_, err := svc.Create(context.Background(), CreateBookingRequest{
		GuestID: 1, RoomID: 99, CheckIn: checkIn, CheckOut: checkOut, PeopleCount: 1,
	}, 1)
	assert.ErrorIs(t, err, ErrRoomNotFound)

	_, err = svc.Create(context.Background(), CreateBookingRequest{
		GuestID: 99, RoomID: 1, CheckIn: checkIn, CheckOut: checkOut, PeopleCount: 1,
	}, 1)
	assert.ErrorIs(t, err, ErrGuestNotFound)

	// A trashed room behaves like a missing one.
	store.rooms[1].IsDeleted = true
	_, err = svc.Create(context.Background(), CreateBookingRequest{
		GuestID: 1, RoomID: 1, CheckIn: checkIn, CheckOut: checkOut, PeopleCount: 1,
	}, 1)
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestCreateConflictReportsExistingID(t *testing.T) {
	svc, _, _ := newTestService()
	checkIn, checkOut := stay(2, 2)

	a, err := svc.Create(context.Background(), CreateBookingRequest{
		GuestID: 1, RoomID: 1, CheckIn: checkIn, CheckOut: checkOut, PeopleCount: 1,
	}, 1)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateBookingRequest{
		GuestID: 1, RoomID: 1, CheckIn: checkIn.Add(12 * time.Hour), CheckOut: checkOut.Add(12 * time.Hour), PeopleCount: 1,
	}, 1)
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, a.ID, conflict.BookingID)
}

func TestBackToBackStaysAllowed(t *testing.T) {
	svc, _, _ := newTestService()
	checkIn, checkOut := stay(2, 2)

	_, err := svc.Create(context.Background(), CreateBookingRequest{
		GuestID: 1, RoomID: 1, CheckIn: checkIn, CheckOut: checkOut, PeopleCount: 1,
	}, 1)
	require.NoError(t, err)

	// Next guest checks in the moment the first checks out.
	_, err = svc.Create(context.Background(), CreateBookingRequest{
		GuestID: 1, RoomID: 1, CheckIn: checkOut, CheckOut: checkOut.Add(24 * time.Hour), PeopleCount: 1,
	}, 1)
	assert.NoError(t, err)
}

func TestRepairStatusIsSticky(t *testing.T) {
	svc, store, _ := newTestService()
	store.rooms[1].Status = domain.RoomRepair
	checkIn, checkOut := stay(2, 2)

	_, err := svc.Create(context.Background(), CreateBookingRequest{
		GuestID: 1, RoomID: 1, CheckIn: checkIn, CheckOut: checkOut, PeopleCount: 1,
	}, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.RoomRepair, store.roomStatus(1), "resolver must never overwrite repair")

	changed, err := svc.ResyncRoomStatuses(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.RoomRepair, store.roomStatus(1))
	assert.Equal(t, 0, changed)
}

func TestSoftDeleteFreesRoomAndRestoreReoccupies(t *testing.T) {
	svc, store, audit := newTestService()
	checkIn, checkOut := stay(2, 2)

	b, err := svc.Create(context.Background(), CreateBookingRequest{
		GuestID: 1, RoomID: 1, CheckIn: checkIn, CheckOut: checkOut, PeopleCount: 1,
	}, 1)
	require.NoError(t, err)
	require.Equal(t, domain.RoomBusy, store.roomStatus(1))

	require.NoError(t, svc.SoftDelete(context.Background(), b.ID, 1))
	assert.Equal(t, domain.RoomFree, store.roomStatus(1))
	assert.True(t, audit.has(domain.AuditDelete))

	// Second delete is a no-op.
	require.NoError(t, svc.SoftDelete(context.Background(), b.ID, 1))

	_, err = svc.Get(context.Background(), b.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.Restore(context.Background(), b.ID, 1))
	assert.Equal(t, domain.RoomBusy, store.roomStatus(1))
	assert.True(t, audit.has(domain.AuditRestore))

	// Restoring a live booking is a no-op too.
	require.NoError(t, svc.Restore(context.Background(), b.ID, 1))
}

func TestRestoreConflictsWithBookingMadeMeanwhile(t *testing.T) {
	svc, _, _ := newTestService()
	checkIn, checkOut := stay(2, 2)

	a, err := svc.Create(context.Background(), CreateBookingRequest{
		GuestID: 1, RoomID: 1, CheckIn: checkIn, CheckOut: checkOut, PeopleCount: 1,
	}, 1)
	require.NoError(t, err)
	require.NoError(t, svc.SoftDelete(context.Background(), a.ID, 1))

	b, err := svc.Create(context.Background(), CreateBookingRequest{
		GuestID: 1, RoomID: 1, CheckIn: checkIn, CheckOut: checkOut, PeopleCount: 1,
	}, 1)
	require.NoError(t, err)

	err = svc.Restore(context.Background(), a.ID, 1)
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, b.ID, conflict.BookingID)
}

func TestCancelFreesRoom(t *testing.T) {
	svc, store, _ := newTestService()
	checkIn, checkOut := stay(2, 2)

	b, err := svc.Create(context.Background(), CreateBookingRequest{
		GuestID: 1, RoomID: 1, CheckIn: checkIn, CheckOut: checkOut, PeopleCount: 1,
	}, 1)
	require.NoError(t, err)

	cancelled, err := svc.Cancel(context.Background(), b.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, cancelled.Status)
	assert.Equal(t, domain.RoomFree, store.roomStatus(1))

	// Cancelling again changes nothing.
	_, err = svc.Cancel(context.Background(), b.ID, 1)
	assert.NoError(t, err)

	// The slot is open again.
	_, err = svc.Create(context.Background(), CreateBookingRequest{
		GuestID: 1, RoomID: 1, CheckIn: checkIn, CheckOut: checkOut, PeopleCount: 1,
	}, 1)
	assert.NoError(t, err)
}

func TestUpdateMoveToAnotherRoom(t *testing.T) {
	svc, store, _ := newTestService()
	checkIn, checkOut := stay(2, 2)

	b, err := svc.Create(context.Background(), CreateBookingRequest{
		GuestID: 1, RoomID: 1, CheckIn: checkIn, CheckOut: checkOut, PeopleCount: 1,
	}, 1)
	require.NoError(t, err)
	require.Equal(t, domain.RoomBusy, store.roomStatus(1))

	newRoom := int64(2)
	updated, err := svc.Update(context.Background(), b.ID, UpdateBookingRequest{RoomID: &newRoom}, 1)
	require.NoError(t, err)

	assert.Equal(t, int64(2), updated.RoomID)
	assert.Equal(t, domain.RoomFree, store.roomStatus(1), "old room must be released")
	assert.Equal(t, domain.RoomBusy, store.roomStatus(2))
	// Repriced against the new room's rate.
	assert.Equal(t, 3000.0, updated.TotalAmount)
}

func TestUpdateConflictExcludesSelf(t *testing.T) {
	svc, _, _ := newTestService()
	checkIn, checkOut := stay(2, 2)

	b, err := svc.Create(context.Background(), CreateBookingRequest{
		GuestID: 1, RoomID: 1, CheckIn: checkIn, CheckOut: checkOut, PeopleCount: 1,
	}, 1)
	require.NoError(t, err)

	// Shifting its own dates within itself is not a conflict.
	newOut := checkOut.Add(24 * time.Hour)
	_, err = svc.Update(context.Background(), b.ID, UpdateBookingRequest{CheckOut: &newOut}, 1)
	assert.NoError(t, err)
}

func TestCompleteExpired(t *testing.T) {
	svc, store, _ := newTestService()
	checkIn, checkOut := stay(2, 2)

	b, err := svc.Create(context.Background(), CreateBookingRequest{
		GuestID: 1, RoomID: 1, CheckIn: checkIn, CheckOut: checkOut, PeopleCount: 1,
	}, 1)
	require.NoError(t, err)

	completed, err := svc.CompleteExpired(context.Background(), checkOut.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, completed)

	got, err := svc.Get(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCompleted, got.Status)
	assert.Equal(t, domain.RoomFree, store.roomStatus(1))

	// Nothing left to sweep.
	completed, err = svc.CompleteExpired(context.Background(), checkOut.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0, completed)
}

// staleExpiryStore serves a snapshot taken before a concurrent edit, the way
// the sweep sees bookings listed outside the room lock.
type staleExpiryStore struct {
	*memStore
	stale []domain.Booking
}

func (s *staleExpiryStore) ListExpiredBookings(_ context.Context, _ time.Time) ([]domain.Booking, error) {
	return s.stale, nil
}

func TestCompleteExpiredSkipsExtendedBooking(t *testing.T) {
	svc, store, _ := newTestService()
	checkIn, checkOut := stay(2, 2)

	b, err := svc.Create(context.Background(), CreateBookingRequest{
		GuestID: 1, RoomID: 1, CheckIn: checkIn, CheckOut: checkOut, PeopleCount: 1,
	}, 1)
	require.NoError(t, err)

	snapshot := *store.bookings[b.ID]
	sweep := NewService(&staleExpiryStore{memStore: store, stale: []domain.Booking{snapshot}},
		&recordedAudit{}, keylock.New(), zerolog.Nop())

	// The stay is extended after the sweep took its list.
	newCheckOut := checkOut.Add(48 * time.Hour)
	store.bookings[b.ID].CheckOut = newCheckOut

	completed, err := sweep.CompleteExpired(context.Background(), checkOut.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0, completed)

	got, err := svc.Get(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingActive, got.Status)
	assert.True(t, got.CheckOut.Equal(newCheckOut))
}

func TestConcurrentCreateExactlyOneWins(t *testing.T) {
	svc, _, _ := newTestService()
	checkIn, checkOut := stay(2, 2)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Create(context.Background(), CreateBookingRequest{
				GuestID: 1, RoomID: 1, CheckIn: checkIn, CheckOut: checkOut, PeopleCount: 1,
			}, 1)
		}(i)
	}
	wg.Wait()

	var conflicts, successes int
	for _, err := range errs {
		var conflict *ConflictError
		switch {
		case err == nil:
			successes++
		case assert.ErrorAs(t, err, &conflict):
			conflicts++
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, conflicts)
}

// Full lifecycle: book, collide, trash, rebook.
func TestBookCollideTrashRebook(t *testing.T) {
	svc, store, _ := newTestService()
	checkIn, checkOut := stay(10, 2)

	a, err := svc.Create(context.Background(), CreateBookingRequest{
		GuestID: 1, RoomID: 1, CheckIn: checkIn, CheckOut: checkOut, PeopleCount: 2,
	}, 1)
	require.NoError(t, err)
	assert.Equal(t, 2000.0, a.TotalAmount)
	assert.Equal(t, domain.RoomBusy, store.roomStatus(1))

	_, err = svc.Create(context.Background(), CreateBookingRequest{
		GuestID: 1, RoomID: 1, CheckIn: checkIn.Add(10 * time.Hour), CheckOut: checkOut.Add(24 * time.Hour), PeopleCount: 1,
	}, 1)
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, a.ID, conflict.BookingID)

	require.NoError(t, svc.SoftDelete(context.Background(), a.ID, 1))
	assert.Equal(t, domain.RoomFree, store.roomStatus(1))

	b, err := svc.Create(context.Background(), CreateBookingRequest{
		GuestID: 1, RoomID: 1, CheckIn: checkIn.Add(10 * time.Hour), CheckOut: checkIn.Add(58 * time.Hour), PeopleCount: 1,
	}, 1)
	require.NoError(t, err)
	assert.Equal(t, 2000.0, b.TotalAmount)
	assert.Equal(t, domain.RoomBusy, store.roomStatus(1))
}
