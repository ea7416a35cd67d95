package guest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"femida-backend/internal/domain"
	"femida-backend/internal/notify"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type Service struct {
	repo   Repository
	audit  AuditRecorder
	sender notify.Sender
	log    zerolog.Logger
}

func NewService(repo Repository, audit AuditRecorder, sender notify.Sender, log zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		audit:  audit,
		sender: sender,
		log:    log.With().Str("component", "guest").Logger(),
	}
}

func (s *Service) Create(ctx context.Context, req CreateGuestRequest, actorID int64) (*domain.Guest, error) {
	phone, err := NormalizePhone(req.Phone)
	if err != nil {
		return nil, err
	}
	inn, err := NormalizeINN(req.INN)
	if err != nil {
		return nil, err
	}
	if err := validateEmail(req.Email); err != nil {
		return nil, err
	}
	peopleCount := req.PeopleCount
	if peopleCount == 0 {
		peopleCount = 1
	}
	if err := validatePeopleCount(peopleCount); err != nil {
		return nil, err
	}
	status := domain.GuestActive
	if req.Status != "" {
		st, ok := domain.ParseGuestStatus(req.Status)
		if !ok {
			return nil, domain.Invalid("status", "unknown guest status")
		}
		status = st
	}

	g := &domain.Guest{
		FullName:         req.FullName,
		Phone:            phone,
		Email:            req.Email,
		Address:          req.Address,
		PeopleCount:      peopleCount,
		Notes:            req.Notes,
		INN:              inn,
		RegistrationDate: time.Now(),
		Status:           status,
	}
	if err := s.repo.Create(ctx, g); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, &actorID, domain.AuditCreate, "Guest", g.ID, fmt.Sprintf("guest: %s, phone: %s", g.FullName, g.Phone))
	return g, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Guest, error) {
	g, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if g.IsDeleted {
		return nil, ErrNotFound
	}
	if err := s.attachTotalSpent(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *Service) List(ctx context.Context, search string) ([]domain.Guest, error) {
	guests, err := s.repo.List(ctx, search)
	if err != nil {
		return nil, err
	}
	for i := range guests {
		if err := s.attachTotalSpent(ctx, &guests[i]); err != nil {
			return nil, err
		}
	}
	return guests, nil
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateGuestRequest, actorID int64) (*domain.Guest, error) {
	g, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		if *req.FullName == "" {
			return nil, domain.Invalid("full_name", "must not be empty")
		}
		g.FullName = *req.FullName
	}
	if req.Phone != nil {
		phone, err := NormalizePhone(*req.Phone)
		if err != nil {
			return nil, err
		}
		g.Phone = phone
	}
	if req.Email != nil {
		if err := validateEmail(*req.Email); err != nil {
			return nil, err
		}
		g.Email = *req.Email
	}
	if req.Address != nil {
		g.Address = *req.Address
	}
	if req.PeopleCount != nil {
		if err := validatePeopleCount(*req.PeopleCount); err != nil {
			return nil, err
		}
		g.PeopleCount = *req.PeopleCount
	}
	if req.Notes != nil {
		g.Notes = *req.Notes
	}
	if req.INN != nil {
		inn, err := NormalizeINN(*req.INN)
		if err != nil {
			return nil, err
		}
		g.INN = inn
	}
	if req.Status != nil {
		st, ok := domain.ParseGuestStatus(*req.Status)
		if !ok {
			return nil, domain.Invalid("status", "unknown guest status")
		}
		g.Status = st
	}

	if err := s.repo.Update(ctx, g); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, &actorID, domain.AuditUpdate, "Guest", g.ID, fmt.Sprintf("guest: %s, phone: %s", g.FullName, g.Phone))
	if err := s.attachTotalSpent(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// SoftDelete trashes the guest. Idempotent. Bookings keep their guest_id and
// stay visible; only the guest record is hidden.
func (s *Service) SoftDelete(ctx context.Context, id int64, actorID int64) error {
	g, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return mapNotFound(err)
	}
	if g.IsDeleted {
		return nil
	}
	if err := s.repo.SetDeleted(ctx, id, true); err != nil {
		return err
	}
	s.audit.Record(ctx, &actorID, domain.AuditDelete, "Guest", id, fmt.Sprintf("guest: %s", g.FullName))
	return nil
}

// SendMessage delivers a note via the configured sender. Email requires a
// stored address; sms goes to the normalized phone.
func (s *Service) SendMessage(ctx context.Context, id int64, req SendMessageRequest, actorID int64) error {
	g, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	switch req.Channel {
	case "sms":
		if err := s.sender.SendSMS(g.Phone, req.Text); err != nil {
			s.log.Error().Err(err).Int64("guest_id", id).Msg("sms delivery failed")
			return fmt.Errorf("send sms: %w", err)
		}
	case "email":
		if g.Email == "" {
			return domain.Invalid("channel", "guest has no email address")
		}
		if err := s.sender.SendEmail(g.Email, req.Text); err != nil {
			s.log.Error().Err(err).Int64("guest_id", id).Msg("email delivery failed")
			return fmt.Errorf("send email: %w", err)
		}
	default:
		return domain.Invalid("channel", "must be sms or email")
	}

	s.audit.Record(ctx, &actorID, domain.AuditMessage, "Guest", id,
		fmt.Sprintf("%s to %s: %s", req.Channel, g.FullName, truncate(req.Text, 100)))
	return nil
}

func (s *Service) attachTotalSpent(ctx context.Context, g *domain.Guest) error {
	total, err := s.repo.TotalSpent(ctx, g.ID)
	if err != nil {
		return err
	}
	g.TotalSpent = total
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
