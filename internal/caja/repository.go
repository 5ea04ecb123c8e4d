package caja

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type CajaRepository interface {
	Create(ctx context.Context, caja *Caja) error
	FindByID(ctx context.Context, id uint64) (*Caja, error)
	ListByArmario(ctx context.Context, armarioID uint64) ([]Caja, error)
	Save(ctx context.Context, caja *Caja) error
	Delete(ctx context.Context, id uint64) error
}

type CajaRepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new caja repository
func NewRepository(db *gorm.DB) CajaRepository {
	return &CajaRepositoryImpl{db: db}
}

func (r *CajaRepositoryImpl) Create(ctx context.Context, caja *Caja) error {
	now := time.Now().UTC()
	caja.CreatedAt = now
	caja.UpdatedAt = now
	return r.db.WithContext(ctx).Create(caja).Error
}

func (r *CajaRepositoryImpl) FindByID(ctx context.Context, id uint64) (*Caja, error) {
	var caja Caja
	err := r.db.WithContext(ctx).First(&caja, id).Error
	if err != nil {
		return nil, err
	}
	return &caja, nil
}

func (r *CajaRepositoryImpl) ListByArmario(ctx context.Context, armarioID uint64) ([]Caja, error) {
	var cajas []Caja
	err := r.db.WithContext(ctx).
		Where("armario_id = ?", armarioID).
		Order("created_at ASC").
		Find(&cajas).Error
	return cajas, err
}

func (r *CajaRepositoryImpl) Save(ctx context.Context, caja *Caja) error {
	caja.UpdatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).Save(caja).Error
}

func (r *CajaRepositoryImpl) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&Caja{}, id).Error
}
