package repository

import (
	"context"
	"time"

	"femida-backend/internal/domain"

	"gorm.io/gorm"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

type auditModel struct {
	ID         int64     `gorm:"column:id;primaryKey"`
	EventID    string    `gorm:"column:event_id"`
	UserID     *int64    `gorm:"column:user_id"`
	Action     string    `gorm:"column:action"`
	ObjectType string    `gorm:"column:object_type"`
	ObjectID   int64     `gorm:"column:object_id"`
	Details    string    `gorm:"column:details"`
	Timestamp  time.Time `gorm:"column:timestamp"`
}

func (auditModel) TableName() string { return "audit_logs" }

func toDomainAudit(m auditModel) domain.AuditEntry {
	return domain.AuditEntry{
		ID:         m.ID,
		EventID:    m.EventID,
		UserID:     m.UserID,
		Action:     domain.AuditAction(m.Action),
		ObjectType: m.ObjectType,
		ObjectID:   m.ObjectID,
		Details:    m.Details,
		Timestamp:  m.Timestamp,
	}
}

// Append inserts one entry. There is no update or delete path on this table.
func (r *AuditRepository) Append(ctx context.Context, e *domain.AuditEntry) error {
	m := auditModel{
		EventID:    e.EventID,
		UserID:     e.UserID,
		Action:     string(e.Action),
		ObjectType: e.ObjectType,
		ObjectID:   e.ObjectID,
		Details:    e.Details,
		Timestamp:  e.Timestamp,
	}
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	e.ID = m.ID
	return nil
}

// List returns entries newest first.
func (r *AuditRepository) List(ctx context.Context, limit, offset int) ([]domain.AuditEntry, error) {
	q := r.db.WithContext(ctx).Order("timestamp DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}

	var rows []auditModel
	if tx := q.Find(&rows); tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.AuditEntry, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainAudit(m))
	}
	return out, nil
}

func (r *AuditRepository) Count(ctx context.Context) (int64, error) {
	var cnt int64
	tx := r.db.WithContext(ctx).Model(&auditModel{}).Count(&cnt)
	if tx.Error != nil {
		return 0, tx.Error
	}
	return cnt, nil
}
