package guest

import (
	"context"
	"strings"
	"testing"

	"femida-backend/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeRepo struct {
	byID   map[int64]*domain.Guest
	spent  map[int64]float64
	nextID int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: map[int64]*domain.Guest{}, spent: map[int64]float64{}, nextID: 1}
}

func (f *fakeRepo) Create(_ context.Context, g *domain.Guest) error {
	g.ID = f.nextID
	f.nextID++
	cp := *g
	f.byID[g.ID] = &cp
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*domain.Guest, error) {
	g, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *g
	return &cp, nil
}

func (f *fakeRepo) Update(_ context.Context, g *domain.Guest) error {
	cp := *g
	f.byID[g.ID] = &cp
	return nil
}

func (f *fakeRepo) List(_ context.Context, search string) ([]domain.Guest, error) {
	var out []domain.Guest
	for _, g := range f.byID {
		if g.IsDeleted {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(g.FullName), strings.ToLower(search)) {
			continue
		}
		out = append(out, *g)
	}
	return out, nil
}

func (f *fakeRepo) TotalSpent(_ context.Context, guestID int64) (float64, error) {
	return f.spent[guestID], nil
}

func (f *fakeRepo) SetDeleted(_ context.Context, id int64, deleted bool) error {
	if g, ok := f.byID[id]; ok {
		g.IsDeleted = deleted
	}
	return nil
}

type fakeSender struct {
	sms   []string
	email []string
}

func (f *fakeSender) SendSMS(to, body string) error {
	f.sms = append(f.sms, to+": "+body)
	return nil
}

func (f *fakeSender) SendEmail(to, body string) error {
	f.email = append(f.email, to+": "+body)
	return nil
}

type recordedAudit struct {
	actions []domain.AuditAction
}

func (r *recordedAudit) Record(_ context.Context, _ *int64, action domain.AuditAction, _ string, _ int64, _ string) {
	r.actions = append(r.actions, action)
}

func newTestService() (*Service, *fakeRepo, *fakeSender, *recordedAudit) {
	repo := newFakeRepo()
	sender := &fakeSender{}
	audit := &recordedAudit{}
	return NewService(repo, audit, sender, zerolog.Nop()), repo, sender, audit
}

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"+996 (555) 123-456", "+996555123456", true},
		{"+1234567", "+1234567", true},
		{"996555123456", "", false},
		{"+12345", "", false},
		{"+12a4567", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := NormalizePhone(tc.in)
		if tc.ok {
			require.NoError(t, err, tc.in)
			assert.Equal(t, tc.want, got)
		} else {
			assert.Error(t, err, tc.in)
		}
	}
}

func TestNormalizeINN(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"", "", true},
		{"12345678901234", "12345678901234", true},
		{"123 456 789 012 34", "12345678901234", true},
		{"   ", "", true},
		{"1234567890123", "", false},
		{"123456789012345", "", false},
		{"1234567890123x", "", false},
	}
	for _, tc := range cases {
		got, err := NormalizeINN(tc.in)
		if tc.ok {
			require.NoError(t, err, tc.in)
			assert.Equal(t, tc.want, got)
		} else {
			assert.Error(t, err, tc.in)
		}
	}
}

func TestCreateNormalizesAndDefaults(t *testing.T) {
	svc, _, _, audit := newTestService()

	g, err := svc.Create(context.Background(), CreateGuestRequest{
		FullName: "Aida Omurova",
		Phone:    "+996 (555) 123-456",
		INN:      "123 456 789 012 34",
	}, 1)
	require.NoError(t, err)
	assert.Equal(t, "+996555123456", g.Phone)
	assert.Equal(t, "12345678901234", g.INN)
	assert.Equal(t, 1, g.PeopleCount)
	assert.Equal(t, domain.GuestActive, g.Status)
	assert.False(t, g.RegistrationDate.IsZero())
	assert.Contains(t, audit.actions, domain.AuditCreate)
}

func TestCreateRejectsBadPeopleCount(t *testing.T) {
	svc, _, _, _ := newTestService()
	_, err := svc.Create(context.Background(), CreateGuestRequest{
		FullName: "A", Phone: "+1234567", PeopleCount: 11,
	}, 1)
	var invalid *domain.ValidationError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "people_count", invalid.Field)
}

func TestGetAttachesTotalSpent(t *testing.T) {
	svc, repo, _, _ := newTestService()
	g, err := svc.Create(context.Background(), CreateGuestRequest{FullName: "A", Phone: "+1234567"}, 1)
	require.NoError(t, err)
	repo.spent[g.ID] = 4500

	got, err := svc.Get(context.Background(), g.ID)
	require.NoError(t, err)
	assert.Equal(t, 4500.0, got.TotalSpent)
}

func TestSoftDeleteHidesGuest(t *testing.T) {
	svc, _, _, audit := newTestService()
	g, err := svc.Create(context.Background(), CreateGuestRequest{FullName: "A", Phone: "+1234567"}, 1)
	require.NoError(t, err)

	require.NoError(t, svc.SoftDelete(context.Background(), g.ID, 1))
	// Second delete is a no-op.
	require.NoError(t, svc.SoftDelete(context.Background(), g.ID, 1))

	_, err = svc.Get(context.Background(), g.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, audit.actions, domain.AuditDelete)
}

func TestSendMessage(t *testing.T) {
	svc, _, sender, audit := newTestService()
	g, err := svc.Create(context.Background(), CreateGuestRequest{FullName: "A", Phone: "+1234567"}, 1)
	require.NoError(t, err)

	require.NoError(t, svc.SendMessage(context.Background(), g.ID, SendMessageRequest{Channel: "sms", Text: "hello"}, 1))
	require.Len(t, sender.sms, 1)
	assert.Contains(t, audit.actions, domain.AuditMessage)

	// Email without a stored address is rejected.
	err = svc.SendMessage(context.Background(), g.ID, SendMessageRequest{Channel: "email", Text: "hello"}, 1)
	var invalid *domain.ValidationError
	require.ErrorAs(t, err, &invalid)

	err = svc.SendMessage(context.Background(), g.ID, SendMessageRequest{Channel: "pigeon", Text: "hello"}, 1)
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "channel", invalid.Field)
}
