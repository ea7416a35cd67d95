package trash

import (
	"context"
	"testing"

	"femida-backend/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeBookingBin struct {
	byID map[int64]*domain.Booking
}

func (f *fakeBookingBin) ListDeleted(_ context.Context) ([]domain.Booking, error) {
	var out []domain.Booking
	for _, b := range f.byID {
		if b.IsDeleted {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookingBin) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookingBin) Purge(_ context.Context, id int64) error {
	delete(f.byID, id)
	return nil
}

type fakeRoomBin struct {
	byID map[int64]*domain.Room
}

func (f *fakeRoomBin) ListDeleted(_ context.Context) ([]domain.Room, error) {
	var out []domain.Room
	for _, r := range f.byID {
		if r.IsDeleted {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRoomBin) GetByID(_ context.Context, id int64) (*domain.Room, error) {
	r, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRoomBin) SetDeleted(_ context.Context, id int64, deleted bool) error {
	if r, ok := f.byID[id]; ok {
		r.IsDeleted = deleted
	}
	return nil
}

func (f *fakeRoomBin) Purge(_ context.Context, id int64) error {
	delete(f.byID, id)
	return nil
}

type fakeGuestBin struct {
	byID map[int64]*domain.Guest
}

func (f *fakeGuestBin) ListDeleted(_ context.Context) ([]domain.Guest, error) {
	var out []domain.Guest
	for _, g := range f.byID {
		if g.IsDeleted {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (f *fakeGuestBin) GetByID(_ context.Context, id int64) (*domain.Guest, error) {
	g, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *g
	return &cp, nil
}

func (f *fakeGuestBin) SetDeleted(_ context.Context, id int64, deleted bool) error {
	if g, ok := f.byID[id]; ok {
		g.IsDeleted = deleted
	}
	return nil
}

func (f *fakeGuestBin) Purge(_ context.Context, id int64) error {
	delete(f.byID, id)
	return nil
}

type fakeRestorer struct {
	restored []int64
}

func (f *fakeRestorer) Restore(_ context.Context, id int64, _ int64) error {
	f.restored = append(f.restored, id)
	return nil
}

type recordedAudit struct {
	actions []domain.AuditAction
}

func (r *recordedAudit) Record(_ context.Context, _ *int64, action domain.AuditAction, _ string, _ int64, _ string) {
	r.actions = append(r.actions, action)
}

func newTestService() (*Service, *fakeBookingBin, *fakeRoomBin, *fakeGuestBin, *fakeRestorer, *recordedAudit) {
	bookings := &fakeBookingBin{byID: map[int64]*domain.Booking{}}
	rooms := &fakeRoomBin{byID: map[int64]*domain.Room{}}
	guests := &fakeGuestBin{byID: map[int64]*domain.Guest{}}
	restorer := &fakeRestorer{}
	audit := &recordedAudit{}
	svc := NewService(bookings, rooms, guests, restorer, audit, zerolog.Nop())
	return svc, bookings, rooms, guests, restorer, audit
}

func TestListRejectsUnknownType(t *testing.T) {
	svc, _, _, _, _, _ := newTestService()
	_, err := svc.List(context.Background(), "invoices")
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestListShowsOnlyDeleted(t *testing.T) {
	svc, _, rooms, _, _, _ := newTestService()
	rooms.byID[1] = &domain.Room{ID: 1, Number: "101"}
	rooms.byID[2] = &domain.Room{ID: 2, Number: "102", IsDeleted: true}

	items, err := svc.List(context.Background(), "rooms")
	require.NoError(t, err)
	list, ok := items.([]domain.Room)
	require.True(t, ok)
	require.Len(t, list, 1)
	assert.Equal(t, int64(2), list[0].ID)
}

func TestBookingRestoreGoesThroughRestorer(t *testing.T) {
	svc, _, _, _, restorer, _ := newTestService()
	require.NoError(t, svc.Restore(context.Background(), "bookings", 7, 1))
	assert.Equal(t, []int64{7}, restorer.restored)
}

func TestRoomRestore(t *testing.T) {
	svc, _, rooms, _, _, audit := newTestService()
	rooms.byID[1] = &domain.Room{ID: 1, Number: "101", IsDeleted: true}

	require.NoError(t, svc.Restore(context.Background(), "rooms", 1, 1))
	assert.False(t, rooms.byID[1].IsDeleted)
	assert.Contains(t, audit.actions, domain.AuditRestore)

	// Restoring again is a no-op and records nothing.
	require.NoError(t, svc.Restore(context.Background(), "rooms", 1, 1))
	assert.False(t, rooms.byID[1].IsDeleted)
	assert.Len(t, audit.actions, 1)

	err := svc.Restore(context.Background(), "rooms", 99, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGuestRestoreIsIdempotent(t *testing.T) {
	svc, _, _, guests, _, audit := newTestService()
	guests.byID[5] = &domain.Guest{ID: 5, FullName: "A", IsDeleted: true}

	require.NoError(t, svc.Restore(context.Background(), "guests", 5, 1))
	assert.False(t, guests.byID[5].IsDeleted)

	require.NoError(t, svc.Restore(context.Background(), "guests", 5, 1))
	assert.Len(t, audit.actions, 1)
}

func TestPurgeOnlyTakesDeletedRows(t *testing.T) {
	svc, _, _, guests, _, audit := newTestService()
	guests.byID[1] = &domain.Guest{ID: 1, FullName: "A"}
	guests.byID[2] = &domain.Guest{ID: 2, FullName: "B", IsDeleted: true}

	err := svc.Purge(context.Background(), "guests", 1, 1)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, guests.byID, int64(1))

	require.NoError(t, svc.Purge(context.Background(), "guests", 2, 1))
	assert.NotContains(t, guests.byID, int64(2))
	assert.Contains(t, audit.actions, domain.AuditPurge)
}

func TestPurgeBooking(t *testing.T) {
	svc, bookings, _, _, _, _ := newTestService()
	bookings.byID[3] = &domain.Booking{ID: 3, RoomID: 9, IsDeleted: true}

	require.NoError(t, svc.Purge(context.Background(), "bookings", 3, 1))
	assert.NotContains(t, bookings.byID, int64(3))
}
