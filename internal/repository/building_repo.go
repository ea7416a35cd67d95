package repository

import (
	"context"
	"time"

	"femida-backend/internal/domain"

	"gorm.io/gorm"
)

type BuildingRepository struct {
	db *gorm.DB
}

func NewBuildingRepository(db *gorm.DB) *BuildingRepository {
	return &BuildingRepository{db: db}
}

type buildingModel struct {
	ID          int64     `gorm:"column:id;primaryKey"`
	Name        string    `gorm:"column:name"`
	Address     string    `gorm:"column:address"`
	Description string    `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (buildingModel) TableName() string { return "buildings" }

func toDomainBuilding(m buildingModel) *domain.Building {
	return &domain.Building{
		ID:          m.ID,
		Name:        m.Name,
		Address:     m.Address,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func (r *BuildingRepository) Create(ctx context.Context, b *domain.Building) error {
	m := buildingModel{Name: b.Name, Address: b.Address, Description: b.Description}
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*b = *toDomainBuilding(m)
	return nil
}

func (r *BuildingRepository) GetByID(ctx context.Context, id int64) (*domain.Building, error) {
	var m buildingModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBuilding(m), nil
}

func (r *BuildingRepository) Update(ctx context.Context, b *domain.Building) error {
	m := buildingModel{
		ID:          b.ID,
		Name:        b.Name,
		Address:     b.Address,
		Description: b.Description,
		CreatedAt:   b.CreatedAt,
	}
	tx := r.db.WithContext(ctx).Save(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*b = *toDomainBuilding(m)
	return nil
}

func (r *BuildingRepository) List(ctx context.Context) ([]domain.Building, error) {
	var rows []buildingModel
	tx := r.db.WithContext(ctx).Order("name").Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.Building, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainBuilding(m))
	}
	return out, nil
}

func (r *BuildingRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&buildingModel{}, id).Error
}
