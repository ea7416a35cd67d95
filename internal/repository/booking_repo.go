package repository

import (
	"context"
	"errors"
	"time"

	"femida-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrOverlap is returned when the database-level no-overlap constraint trips.
// Under the per-room lock this should not happen; it exists as a second line
// of defense for Postgres deployments.
var ErrOverlap = errors.New("booking overlap constraint violation")

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID            int64     `gorm:"column:id;primaryKey"`
	GuestID       int64     `gorm:"column:guest_id"`
	RoomID        int64     `gorm:"column:room_id"`
	CheckIn       time.Time `gorm:"column:check_in"`
	CheckOut      time.Time `gorm:"column:check_out"`
	PeopleCount   int       `gorm:"column:people_count"`
	Status        string    `gorm:"column:status"`
	PaymentStatus string    `gorm:"column:payment_status"`
	PaymentAmount float64   `gorm:"column:payment_amount"`
	PaymentMethod string    `gorm:"column:payment_method"`
	Comments      string    `gorm:"column:comments"`
	TotalAmount   float64   `gorm:"column:total_amount"`
	CreatedBy     *int64    `gorm:"column:created_by"`
	IsDeleted     bool      `gorm:"column:is_deleted"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (bookingModel) TableName() string { return "bookings" }

func toDomainBooking(m bookingModel) *domain.Booking {
	return &domain.Booking{
		ID:            m.ID,
		GuestID:       m.GuestID,
		RoomID:        m.RoomID,
		CheckIn:       m.CheckIn,
		CheckOut:      m.CheckOut,
		PeopleCount:   m.PeopleCount,
		Status:        domain.BookingStatus(m.Status),
		PaymentStatus: domain.PaymentStatus(m.PaymentStatus),
		PaymentAmount: m.PaymentAmount,
		PaymentMethod: domain.PaymentMethod(m.PaymentMethod),
		Comments:      m.Comments,
		TotalAmount:   m.TotalAmount,
		CreatedBy:     m.CreatedBy,
		IsDeleted:     m.IsDeleted,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func toBookingModel(b *domain.Booking) bookingModel {
	return bookingModel{
		ID:            b.ID,
		GuestID:       b.GuestID,
		RoomID:        b.RoomID,
		CheckIn:       b.CheckIn,
		CheckOut:      b.CheckOut,
		PeopleCount:   b.PeopleCount,
		Status:        string(b.Status),
		PaymentStatus: string(b.PaymentStatus),
		PaymentAmount: b.PaymentAmount,
		PaymentMethod: string(b.PaymentMethod),
		Comments:      b.Comments,
		TotalAmount:   b.TotalAmount,
		CreatedBy:     b.CreatedBy,
		IsDeleted:     b.IsDeleted,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	m := toBookingModel(b)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return mapOverlapError(tx.Error)
	}
	*b = *toDomainBooking(m)
	return nil
}

func (r *BookingRepository) Save(ctx context.Context, b *domain.Booking) error {
	m := toBookingModel(b)
	tx := r.db.WithContext(ctx).Save(&m)
	if tx.Error != nil {
		return mapOverlapError(tx.Error)
	}
	*b = *toDomainBooking(m)
	return nil
}

// GetByID fetches a booking regardless of its deletion flag; callers decide
// whether a trashed record is acceptable.
func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var m bookingModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBooking(m), nil
}

// FindConflict returns the first active, non-deleted booking for the room
// whose half-open [check_in, check_out) interval overlaps the given one.
// excludeID skips the booking being edited. Returns (nil, nil) when the room
// is available.
func (r *BookingRepository) FindConflict(ctx context.Context, roomID int64, checkIn, checkOut time.Time, excludeID int64) (*domain.Booking, error) {
	var m bookingModel
	q := r.db.WithContext(ctx).
		Where("room_id = ? AND status = ? AND is_deleted = ?", roomID, string(domain.BookingActive), false).
		Where("check_in < ? AND check_out > ?", checkOut, checkIn)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	tx := q.First(&m)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, tx.Error
	}
	return toDomainBooking(m), nil
}

func (r *BookingRepository) CountActiveForRoom(ctx context.Context, roomID int64) (int64, error) {
	var cnt int64
	tx := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("room_id = ? AND status = ? AND is_deleted = ?", roomID, string(domain.BookingActive), false).
		Count(&cnt)
	if tx.Error != nil {
		return 0, tx.Error
	}
	return cnt, nil
}

type BookingFilter struct {
	GuestID int64
	RoomID  int64
	Status  domain.BookingStatus
	Limit   int
	Offset  int
}

// List returns non-deleted bookings, newest first.
func (r *BookingRepository) List(ctx context.Context, f BookingFilter) ([]domain.Booking, error) {
	q := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("is_deleted = ?", false).
		Order("created_at DESC")
	if f.GuestID != 0 {
		q = q.Where("guest_id = ?", f.GuestID)
	}
	if f.RoomID != 0 {
		q = q.Where("room_id = ?", f.RoomID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}

	var rows []bookingModel
	if tx := q.Find(&rows); tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}

func (r *BookingRepository) ListDeleted(ctx context.Context) ([]domain.Booking, error) {
	var rows []bookingModel
	tx := r.db.WithContext(ctx).
		Where("is_deleted = ?", true).
		Order("updated_at DESC").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}

// ListExpired returns active, non-deleted bookings whose checkout has passed.
// The maintenance job completes them.
func (r *BookingRepository) ListExpired(ctx context.Context, now time.Time) ([]domain.Booking, error) {
	var rows []bookingModel
	tx := r.db.WithContext(ctx).
		Where("status = ? AND is_deleted = ? AND check_out <= ?", string(domain.BookingActive), false, now).
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}

func (r *BookingRepository) SetDeleted(ctx context.Context, id int64, deleted bool) error {
	return r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("id = ?", id).
		Update("is_deleted", deleted).Error
}

// Purge physically removes a booking. Only trashed records reach this path.
func (r *BookingRepository) Purge(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&bookingModel{}, id).Error
}

func mapOverlapError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23P01 = exclusion_violation, raised by the no-overlap constraint.
		if pgErr.Code == "23P01" && pgErr.ConstraintName == "idx_no_overbooking" {
			return ErrOverlap
		}
	}
	return err
}
