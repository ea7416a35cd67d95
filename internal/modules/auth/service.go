package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"femida-backend/internal/domain"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	maxFailedLoginAttempts = 5
	lockoutDuration        = 15 * time.Minute
)

type jwtService interface {
	GenerateToken(userID int64, role string) (string, error)
}

// Service handles staff authentication and account management. Repeated
// password failures lock the account for a cooldown period.
type Service struct {
	users UserRepository
	jwt   jwtService
	audit AuditRecorder
	log   zerolog.Logger
}

type LoginResult struct {
	User  *domain.User
	Token string
}

func NewService(users UserRepository, jwt jwtService, audit AuditRecorder, log zerolog.Logger) *Service {
	return &Service{
		users: users,
		jwt:   jwt,
		audit: audit,
		log:   log.With().Str("component", "auth").Logger(),
	}
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	now := time.Now()
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}
	if user.LockedUntil != nil && user.LockedUntil.After(now) {
		return nil, ErrAccountLocked
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		failedAttempts := user.FailedLoginAttempts + 1
		var lockedUntil *time.Time
		if failedAttempts >= maxFailedLoginAttempts {
			t := now.Add(lockoutDuration)
			lockedUntil = &t
		}
		if updateErr := s.users.RecordFailedLogin(ctx, user.ID, failedAttempts, lockedUntil); updateErr != nil {
			return nil, updateErr
		}
		if lockedUntil != nil {
			s.log.Warn().Str("username", user.Username).Msg("account locked after repeated failed logins")
			return nil, ErrAccountLocked
		}
		return nil, ErrInvalidCredentials
	}

	if user.FailedLoginAttempts > 0 || user.LockedUntil != nil {
		if err := s.users.ResetFailedLogins(ctx, user.ID); err != nil {
			return nil, err
		}
	}
	if err := s.users.TouchLastSeen(ctx, user.ID); err != nil {
		return nil, err
	}

	token, err := s.jwt.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: user, Token: token}, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *Service) List(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

func (s *Service) CreateUser(ctx context.Context, req CreateUserRequest, actorID int64) (*domain.User, error) {
	role, err := parseRole(req.Role)
	if err != nil {
		return nil, err
	}

	username := strings.TrimSpace(req.Username)
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		Role:         role,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, &actorID, domain.AuditCreate, "User", user.ID,
		fmt.Sprintf("staff account %s (%s)", user.Username, user.Role))
	return user, nil
}

func (s *Service) UpdateUser(ctx context.Context, id int64, req UpdateUserRequest, actorID int64) (*domain.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Password != nil {
		if len(*req.Password) < 8 {
			return nil, domain.Invalid("password", "must be at least 8 characters")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Role != nil {
		role, err := parseRole(*req.Role)
		if err != nil {
			return nil, err
		}
		user.Role = role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, &actorID, domain.AuditUpdate, "User", user.ID,
		fmt.Sprintf("staff account %s (%s)", user.Username, user.Role))
	return user, nil
}

// DeleteUser removes a staff account. Self-deletion is rejected so the last
// superadmin cannot lock everyone out by accident.
func (s *Service) DeleteUser(ctx context.Context, id int64, actorID int64) error {
	if id == actorID {
		return domain.Invalid("id", "cannot delete your own account")
	}
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, &actorID, domain.AuditDelete, "User", id,
		fmt.Sprintf("staff account %s", user.Username))
	return nil
}

func parseRole(s string) (domain.UserRole, error) {
	switch domain.UserRole(s) {
	case domain.RoleAdmin, domain.RoleSuperadmin:
		return domain.UserRole(s), nil
	}
	return "", domain.Invalid("role", "must be admin or superadmin")
}
