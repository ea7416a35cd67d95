package repository

import (
	"context"
	"time"

	"femida-backend/internal/domain"

	"gorm.io/gorm"
)

type GuestRepository struct {
	db *gorm.DB
}

func NewGuestRepository(db *gorm.DB) *GuestRepository {
	return &GuestRepository{db: db}
}

type guestModel struct {
	ID               int64     `gorm:"column:id;primaryKey"`
	FullName         string    `gorm:"column:full_name"`
	Phone            string    `gorm:"column:phone"`
	Email            string    `gorm:"column:email"`
	Address          string    `gorm:"column:address"`
	PeopleCount      int       `gorm:"column:people_count"`
	Notes            string    `gorm:"column:notes"`
	INN              string    `gorm:"column:inn"`
	RegistrationDate time.Time `gorm:"column:registration_date"`
	VisitsCount      int       `gorm:"column:visits_count"`
	Status           string    `gorm:"column:status"`
	IsDeleted        bool      `gorm:"column:is_deleted"`
	CreatedAt        time.Time `gorm:"column:created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at"`
}

func (guestModel) TableName() string { return "guests" }

func toDomainGuest(m guestModel) *domain.Guest {
	return &domain.Guest{
		ID:               m.ID,
		FullName:         m.FullName,
		Phone:            m.Phone,
		Email:            m.Email,
		Address:          m.Address,
		PeopleCount:      m.PeopleCount,
		Notes:            m.Notes,
		INN:              m.INN,
		RegistrationDate: m.RegistrationDate,
		VisitsCount:      m.VisitsCount,
		Status:           domain.GuestStatus(m.Status),
		IsDeleted:        m.IsDeleted,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func toGuestModel(g *domain.Guest) guestModel {
	return guestModel{
		ID:               g.ID,
		FullName:         g.FullName,
		Phone:            g.Phone,
		Email:            g.Email,
		Address:          g.Address,
		PeopleCount:      g.PeopleCount,
		Notes:            g.Notes,
		INN:              g.INN,
		RegistrationDate: g.RegistrationDate,
		VisitsCount:      g.VisitsCount,
		Status:           string(g.Status),
		IsDeleted:        g.IsDeleted,
		CreatedAt:        g.CreatedAt,
		UpdatedAt:        g.UpdatedAt,
	}
}

func (r *GuestRepository) Create(ctx context.Context, g *domain.Guest) error {
	m := toGuestModel(g)
	if m.RegistrationDate.IsZero() {
		m.RegistrationDate = time.Now()
	}
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*g = *toDomainGuest(m)
	return nil
}

func (r *GuestRepository) GetByID(ctx context.Context, id int64) (*domain.Guest, error) {
	var m guestModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainGuest(m), nil
}

func (r *GuestRepository) Update(ctx context.Context, g *domain.Guest) error {
	m := toGuestModel(g)
	tx := r.db.WithContext(ctx).Save(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*g = *toDomainGuest(m)
	return nil
}

// List returns non-deleted guests with an optional case-insensitive name
// search.
func (r *GuestRepository) List(ctx context.Context, search string) ([]domain.Guest, error) {
	q := r.db.WithContext(ctx).
		Where("is_deleted = ?", false).
		Order("full_name")
	if search != "" {
		q = q.Where("LOWER(full_name) LIKE LOWER(?)", "%"+search+"%")
	}

	var rows []guestModel
	if tx := q.Find(&rows); tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.Guest, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainGuest(m))
	}
	return out, nil
}

func (r *GuestRepository) ListDeleted(ctx context.Context) ([]domain.Guest, error) {
	var rows []guestModel
	tx := r.db.WithContext(ctx).
		Where("is_deleted = ?", true).
		Order("updated_at DESC").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.Guest, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainGuest(m))
	}
	return out, nil
}

// TotalSpent sums total_amount over the guest's paid, non-deleted bookings.
func (r *GuestRepository) TotalSpent(ctx context.Context, guestID int64) (float64, error) {
	var total float64
	tx := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Where("guest_id = ? AND payment_status = ? AND is_deleted = ?", guestID, string(domain.PaymentPaid), false).
		Scan(&total)
	if tx.Error != nil {
		return 0, tx.Error
	}
	return total, nil
}

func (r *GuestRepository) SetDeleted(ctx context.Context, id int64, deleted bool) error {
	return r.db.WithContext(ctx).
		Model(&guestModel{}).
		Where("id = ?", id).
		Update("is_deleted", deleted).Error
}

func (r *GuestRepository) Purge(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&guestModel{}, id).Error
}
