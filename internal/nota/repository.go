package nota

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type NotaRepository interface {
	Create(ctx context.Context, nota *Nota) error
	FindByID(ctx context.Context, id uint64) (*Nota, error)
	ListByParent(ctx context.Context, parent ParentRef) ([]Nota, error)
	CountByParent(ctx context.Context, parent ParentRef) (int64, error)
	Save(ctx context.Context, nota *Nota) error
	SaveAttachments(ctx context.Context, notaID uint64, attachments datatypes.JSONSlice[Attachment]) error
	Delete(ctx context.Context, id uint64) error
	DeleteByParent(ctx context.Context, parent ParentRef) error
	Search(ctx context.Context, userID uint64, query string, page, pageSize int) ([]Nota, NotasMeta, error)
	DistinctEtiquetas(ctx context.Context, userID uint64) ([]string, error)
}

type NotasMeta struct {
	Total       int64 `json:"total"`
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	TotalPage   int   `json:"total_page"`
}

type NotaRepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new nota repository
func NewRepository(db *gorm.DB) NotaRepository {
	return &NotaRepositoryImpl{db: db}
}

func (r *NotaRepositoryImpl) Create(ctx context.Context, nota *Nota) error {
	now := time.Now().UTC()
	nota.CreatedAt = now
	nota.UpdatedAt = now
	return r.db.WithContext(ctx).Create(nota).Error
}

func (r *NotaRepositoryImpl) FindByID(ctx context.Context, id uint64) (*Nota, error) {
	var nota Nota
	err := r.db.WithContext(ctx).First(&nota, id).Error
	if err != nil {
		return nil, err
	}
	return &nota, nil
}

func (r *NotaRepositoryImpl) ListByParent(ctx context.Context, parent ParentRef) ([]Nota, error) {
	var notas []Nota
	err := r.db.WithContext(ctx).
		Where("parent_type = ? AND parent_id = ?", parent.Type, parent.ID).
		Order("created_at ASC").
		Find(&notas).Error
	return notas, err
}

func (r *NotaRepositoryImpl) CountByParent(ctx context.Context, parent ParentRef) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Nota{}).
		Where("parent_type = ? AND parent_id = ?", parent.Type, parent.ID).
		Count(&count).Error
	return count, err
}

func (r *NotaRepositoryImpl) Save(ctx context.Context, nota *Nota) error {
	nota.UpdatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).Save(nota).Error
}

func (r *NotaRepositoryImpl) SaveAttachments(ctx context.Context, notaID uint64, attachments datatypes.JSONSlice[Attachment]) error {
	return r.db.WithContext(ctx).Model(&Nota{}).
		Where("id = ?", notaID).
		Updates(map[string]any{
			"attachments": attachments,
			"updated_at":  time.Now().UTC(),
		}).Error
}

func (r *NotaRepositoryImpl) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&Nota{}, id).Error
}

func (r *NotaRepositoryImpl) DeleteByParent(ctx context.Context, parent ParentRef) error {
	return r.db.WithContext(ctx).
		Where("parent_type = ? AND parent_id = ?", parent.Type, parent.ID).
		Delete(&Nota{}).Error
}

// Search matches the query case-insensitively against titulo, contenido
// and the etiquetas JSONB array.
func (r *NotaRepositoryImpl) Search(ctx context.Context, userID uint64, query string, page, pageSize int) ([]Nota, NotasMeta, error) {
	var notas []Nota
	var totalRecords int64

	pattern := "%" + query + "%"
	base := r.db.WithContext(ctx).Model(&Nota{}).
		Where("user_id = ?", userID).
		Where("titulo ILIKE ? OR contenido ILIKE ? OR etiquetas::text ILIKE ?", pattern, pattern, pattern)

	if err := base.Count(&totalRecords).Error; err != nil {
		return notas, NotasMeta{}, err
	}

	offset := (page - 1) * pageSize
	err := base.
		Offset(offset).
		Limit(pageSize).
		Order("updated_at DESC").
		Find(&notas).Error

	totalPages := int((totalRecords + int64(pageSize) - 1) / int64(pageSize))

	return notas, NotasMeta{
		Total:       totalRecords,
		PerPage:     pageSize,
		TotalPage:   totalPages,
		CurrentPage: page,
	}, err
}

// DistinctEtiquetas returns the user's distinct tags sorted ascending.
func (r *NotaRepositoryImpl) DistinctEtiquetas(ctx context.Context, userID uint64) ([]string, error) {
	var etiquetas []string
	err := r.db.WithContext(ctx).Raw(`
		SELECT DISTINCT jsonb_array_elements_text(etiquetas) AS etiqueta
		FROM notas
		WHERE user_id = ?
		ORDER BY etiqueta ASC
	`, userID).Scan(&etiquetas).Error
	if err != nil {
		return nil, err
	}

	// drop empty tags
	result := make([]string, 0, len(etiquetas))
	for _, e := range etiquetas {
		if e != "" {
			result = append(result, e)
		}
	}
	return result, nil
}
