package cajita

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type CajitaRepository interface {
	Create(ctx context.Context, cajita *Cajita) error
	FindByID(ctx context.Context, id uint64) (*Cajita, error)
	ListByCaja(ctx context.Context, cajaID uint64) ([]Cajita, error)
	Save(ctx context.Context, cajita *Cajita) error
	Delete(ctx context.Context, id uint64) error
	DeleteByCaja(ctx context.Context, cajaID uint64) error
}

type CajitaRepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new cajita repository
func NewRepository(db *gorm.DB) CajitaRepository {
	return &CajitaRepositoryImpl{db: db}
}

func (r *CajitaRepositoryImpl) Create(ctx context.Context, cajita *Cajita) error {
	now := time.Now().UTC()
	cajita.CreatedAt = now
	cajita.UpdatedAt = now
	return r.db.WithContext(ctx).Create(cajita).Error
}

func (r *CajitaRepositoryImpl) FindByID(ctx context.Context, id uint64) (*Cajita, error) {
	var cajita Cajita
	err := r.db.WithContext(ctx).First(&cajita, id).Error
	if err != nil {
		return nil, err
	}
	return &cajita, nil
}

func (r *CajitaRepositoryImpl) ListByCaja(ctx context.Context, cajaID uint64) ([]Cajita, error) {
	var cajitas []Cajita
	err := r.db.WithContext(ctx).
		Where("caja_id = ?", cajaID).
		Order("created_at ASC").
		Find(&cajitas).Error
	return cajitas, err
}

func (r *CajitaRepositoryImpl) Save(ctx context.Context, cajita *Cajita) error {
	cajita.UpdatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).Save(cajita).Error
}

func (r *CajitaRepositoryImpl) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&Cajita{}, id).Error
}

func (r *CajitaRepositoryImpl) DeleteByCaja(ctx context.Context, cajaID uint64) error {
	return r.db.WithContext(ctx).Where("caja_id = ?", cajaID).Delete(&Cajita{}).Error
}
