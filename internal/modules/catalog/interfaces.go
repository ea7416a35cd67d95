package catalog

import (
	"context"

	"femida-backend/internal/domain"
)

type BuildingRepository interface {
	Create(ctx context.Context, b *domain.Building) error
	GetByID(ctx context.Context, id int64) (*domain.Building, error)
	Update(ctx context.Context, b *domain.Building) error
	List(ctx context.Context) ([]domain.Building, error)
	Delete(ctx context.Context, id int64) error
}

type RoomRepository interface {
	Create(ctx context.Context, r *domain.Room) error
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
	Update(ctx context.Context, r *domain.Room) error
	List(ctx context.Context, buildingID int64) ([]domain.Room, error)
	SetDeleted(ctx context.Context, id int64, deleted bool) error
}

// BookingCounter is the slice of the booking store the catalog needs to guard
// manual status edits against live occupancy.
type BookingCounter interface {
	CountActiveForRoom(ctx context.Context, roomID int64) (int64, error)
}

type AuditRecorder interface {
	Record(ctx context.Context, userID *int64, action domain.AuditAction, objectType string, objectID int64, details string)
}
