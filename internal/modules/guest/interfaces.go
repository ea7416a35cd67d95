package guest

import (
	"context"

	"femida-backend/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, g *domain.Guest) error
	GetByID(ctx context.Context, id int64) (*domain.Guest, error)
	Update(ctx context.Context, g *domain.Guest) error
	List(ctx context.Context, search string) ([]domain.Guest, error)
	TotalSpent(ctx context.Context, guestID int64) (float64, error)
	SetDeleted(ctx context.Context, id int64, deleted bool) error
}

type AuditRecorder interface {
	Record(ctx context.Context, userID *int64, action domain.AuditAction, objectType string, objectID int64, details string)
}
