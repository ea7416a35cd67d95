package repository

import (
	"context"
	"time"

	"femida-backend/internal/domain"

	"gorm.io/gorm"
)

type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

type roomModel struct {
	ID            int64     `gorm:"column:id;primaryKey"`
	BuildingID    int64     `gorm:"column:building_id"`
	Number        string    `gorm:"column:number"`
	Capacity      int       `gorm:"column:capacity"`
	RoomType      string    `gorm:"column:room_type"`
	RoomClass     string    `gorm:"column:room_class"`
	Status        string    `gorm:"column:status"`
	Description   string    `gorm:"column:description"`
	PricePerNight float64   `gorm:"column:price_per_night"`
	RoomsCount    int       `gorm:"column:rooms_count"`
	Amenities     string    `gorm:"column:amenities"`
	IsDeleted     bool      `gorm:"column:is_deleted"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (roomModel) TableName() string { return "rooms" }

func toDomainRoom(m roomModel) *domain.Room {
	return &domain.Room{
		ID:            m.ID,
		BuildingID:    m.BuildingID,
		Number:        m.Number,
		Capacity:      m.Capacity,
		RoomType:      m.RoomType,
		Class:         domain.RoomClass(m.RoomClass),
		Status:        domain.RoomStatus(m.Status),
		Description:   m.Description,
		PricePerNight: m.PricePerNight,
		RoomsCount:    m.RoomsCount,
		Amenities:     m.Amenities,
		IsDeleted:     m.IsDeleted,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func toRoomModel(r *domain.Room) roomModel {
	return roomModel{
		ID:            r.ID,
		BuildingID:    r.BuildingID,
		Number:        r.Number,
		Capacity:      r.Capacity,
		RoomType:      r.RoomType,
		RoomClass:     string(r.Class),
		Status:        string(r.Status),
		Description:   r.Description,
		PricePerNight: r.PricePerNight,
		RoomsCount:    r.RoomsCount,
		Amenities:     r.Amenities,
		IsDeleted:     r.IsDeleted,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func (r *RoomRepository) Create(ctx context.Context, room *domain.Room) error {
	m := toRoomModel(room)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*room = *toDomainRoom(m)
	return nil
}

func (r *RoomRepository) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	var m roomModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainRoom(m), nil
}

func (r *RoomRepository) Update(ctx context.Context, room *domain.Room) error {
	m := toRoomModel(room)
	tx := r.db.WithContext(ctx).Save(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*room = *toDomainRoom(m)
	return nil
}

// SetStatus writes only the status column. The resolver calls this inside the
// same transaction as the booking write that triggered it.
func (r *RoomRepository) SetStatus(ctx context.Context, id int64, status domain.RoomStatus) error {
	return r.db.WithContext(ctx).
		Model(&roomModel{}).
		Where("id = ?", id).
		Update("status", string(status)).Error
}

// List returns non-deleted rooms, optionally narrowed to one building.
func (r *RoomRepository) List(ctx context.Context, buildingID int64) ([]domain.Room, error) {
	q := r.db.WithContext(ctx).
		Where("is_deleted = ?", false).
		Order("building_id, number")
	if buildingID != 0 {
		q = q.Where("building_id = ?", buildingID)
	}

	var rows []roomModel
	if tx := q.Find(&rows); tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.Room, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainRoom(m))
	}
	return out, nil
}

func (r *RoomRepository) ListDeleted(ctx context.Context) ([]domain.Room, error) {
	var rows []roomModel
	tx := r.db.WithContext(ctx).
		Where("is_deleted = ?", true).
		Order("updated_at DESC").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.Room, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainRoom(m))
	}
	return out, nil
}

func (r *RoomRepository) SetDeleted(ctx context.Context, id int64, deleted bool) error {
	return r.db.WithContext(ctx).
		Model(&roomModel{}).
		Where("id = ?", id).
		Update("is_deleted", deleted).Error
}

func (r *RoomRepository) Purge(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&roomModel{}, id).Error
}
