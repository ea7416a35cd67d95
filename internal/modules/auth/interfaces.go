package auth

import (
	"context"
	"time"

	"femida-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	List(ctx context.Context) ([]domain.User, error)
	Delete(ctx context.Context, id int64) error
	TouchLastSeen(ctx context.Context, id int64) error
	RecordFailedLogin(ctx context.Context, id int64, attempts int, lockedUntil *time.Time) error
	ResetFailedLogins(ctx context.Context, id int64) error
}

type AuditRecorder interface {
	Record(ctx context.Context, userID *int64, action domain.AuditAction, objectType string, objectID int64, details string)
}
