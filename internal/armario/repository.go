package armario

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type ArmarioRepository interface {
	Create(ctx context.Context, armario *Armario) error
	FindByID(ctx context.Context, id uint64) (*Armario, error)
	ListByUser(ctx context.Context, userID uint64) ([]Armario, error)
	// OwnerOf resolves an armario to its owner without loading the row.
	OwnerOf(ctx context.Context, armarioID uint64) (uint64, error)
	Save(ctx context.Context, armario *Armario) error
	Delete(ctx context.Context, id uint64) error
}

type ArmarioRepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new armario repository
func NewRepository(db *gorm.DB) ArmarioRepository {
	return &ArmarioRepositoryImpl{db: db}
}

func (r *ArmarioRepositoryImpl) Create(ctx context.Context, armario *Armario) error {
	now := time.Now().UTC()
	armario.CreatedAt = now
	armario.UpdatedAt = now
	return r.db.WithContext(ctx).Create(armario).Error
}

func (r *ArmarioRepositoryImpl) FindByID(ctx context.Context, id uint64) (*Armario, error) {
	var armario Armario
	err := r.db.WithContext(ctx).First(&armario, id).Error
	if err != nil {
		return nil, err
	}
	return &armario, nil
}

func (r *ArmarioRepositoryImpl) ListByUser(ctx context.Context, userID uint64) ([]Armario, error) {
	var armarios []Armario
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&armarios).Error
	return armarios, err
}

func (r *ArmarioRepositoryImpl) OwnerOf(ctx context.Context, armarioID uint64) (uint64, error) {
	var armario Armario
	err := r.db.WithContext(ctx).Select("user_id").First(&armario, armarioID).Error
	if err != nil {
		return 0, err
	}
	return armario.UserID, nil
}

func (r *ArmarioRepositoryImpl) Save(ctx context.Context, armario *Armario) error {
	armario.UpdatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).Save(armario).Error
}

func (r *ArmarioRepositoryImpl) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&Armario{}, id).Error
}
