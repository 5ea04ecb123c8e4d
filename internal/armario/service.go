package armario

import (
	"context"
	defError "errors"
	"fmt"
	"time"

	"mnemosine-api/internal/caja"
	"mnemosine-api/internal/errors"
	"mnemosine-api/redis"

	"gorm.io/gorm"
)

type Service interface {
	CreateArmario(ctx context.Context, userID uint64, req CreateRequest) (*TreeResponse, error)
	CreateDefault(ctx context.Context, userID uint64) error
	GetArmarioTree(ctx context.Context, id, userID uint64) (*TreeResponse, error)
	ListArmarioTrees(ctx context.Context, userID uint64) ([]TreeResponse, error)
	UpdateArmario(ctx context.Context, id, userID uint64, req UpdateRequest) (*TreeResponse, error)
	DeleteArmario(ctx context.Context, id, userID uint64) error
}

type CreateRequest struct {
	Nombre      string `json:"nombre" binding:"required,min=1,max=255"`
	Descripcion string `json:"descripcion"`
}

type UpdateRequest struct {
	Nombre      *string `json:"nombre" binding:"omitempty,min=1,max=255"`
	Descripcion *string `json:"descripcion"`
}

type DefaultService struct {
	repository ArmarioRepository
	cajas      caja.Service
	cache      *redis.Cache
}

func NewService(repository ArmarioRepository, cajas caja.Service, cache *redis.Cache) Service {
	return &DefaultService{
		repository: repository,
		cajas:      cajas,
		cache:      cache,
	}
}

// getOwned fetches an armario and checks the owner. The armario is the
// chain root, so absence is NotFound and a foreign owner is Forbidden.
func (s *DefaultService) getOwned(ctx context.Context, id, userID uint64) (*Armario, error) {
	a, err := s.repository.FindByID(ctx, id)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Armario not found", err)
		}
		return nil, err
	}
	if a.UserID != userID {
		return nil, errors.Forbidden("You don't have access to this armario", nil)
	}
	return a, nil
}

func (s *DefaultService) CreateArmario(ctx context.Context, userID uint64, req CreateRequest) (*TreeResponse, error) {
	a := &Armario{
		Nombre:      req.Nombre,
		Descripcion: req.Descripcion,
		UserID:      userID,
	}

	if err := s.repository.Create(ctx, a); err != nil {
		return nil, err
	}
	s.bumpTreeVersion(ctx, userID)

	return s.withContent(ctx, a)
}

// CreateDefault creates the armario every new user starts with.
func (s *DefaultService) CreateDefault(ctx context.Context, userID uint64) error {
	a := &Armario{
		Nombre:      DefaultNombre,
		Descripcion: DefaultDescripcion,
		IsDefault:   true,
		UserID:      userID,
	}
	return s.repository.Create(ctx, a)
}

func (s *DefaultService) GetArmarioTree(ctx context.Context, id, userID uint64) (*TreeResponse, error) {
	a, err := s.getOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	return s.withContent(ctx, a)
}

func (s *DefaultService) ListArmarioTrees(ctx context.Context, userID uint64) ([]TreeResponse, error) {
	// Get the current data version for this user's tree
	versionKey := fmt.Sprintf("user:%d:tree:version", userID)
	v := s.cache.GetVersion(ctx, versionKey)

	cacheKey := fmt.Sprintf("armarios:u:%d:v:%d", userID, v)

	var cached []TreeResponse
	found, _ := s.cache.Get(ctx, cacheKey, &cached)
	if found {
		return cached, nil
	}

	armarios, err := s.repository.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	trees := make([]TreeResponse, 0, len(armarios))
	for i := range armarios {
		tree, err := s.withContent(ctx, &armarios[i])
		if err != nil {
			return nil, err
		}
		trees = append(trees, *tree)
	}

	// set value to cache
	go s.cache.Set(context.Background(), cacheKey, trees, 24*time.Hour)

	return trees, nil
}

func (s *DefaultService) UpdateArmario(ctx context.Context, id, userID uint64, req UpdateRequest) (*TreeResponse, error) {
	a, err := s.getOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if req.Nombre != nil {
		a.Nombre = *req.Nombre
	}
	if req.Descripcion != nil {
		a.Descripcion = *req.Descripcion
	}

	if err := s.repository.Save(ctx, a); err != nil {
		return nil, err
	}
	s.bumpTreeVersion(ctx, userID)

	return s.withContent(ctx, a)
}

// DeleteArmario removes the armario and its whole subtree. Post-order,
// best-effort sequential: descendants first, the armario last. A
// mid-way failure leaves a partial deletion; there is no transaction
// to roll back.
func (s *DefaultService) DeleteArmario(ctx context.Context, id, userID uint64) error {
	a, err := s.getOwned(ctx, id, userID)
	if err != nil {
		return err
	}

	if err := s.cajas.DeleteByArmario(ctx, a.ID); err != nil {
		return err
	}

	if err := s.repository.Delete(ctx, a.ID); err != nil {
		return err
	}
	s.bumpTreeVersion(ctx, userID)
	return nil
}

func (s *DefaultService) withContent(ctx context.Context, a *Armario) (*TreeResponse, error) {
	cajas, err := s.cajas.SubtreeByArmario(ctx, a.ID)
	if err != nil {
		return nil, err
	}

	return &TreeResponse{
		ID:          a.ID,
		Nombre:      a.Nombre,
		Descripcion: a.Descripcion,
		IsDefault:   a.IsDefault,
		Cajas:       cajas,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}, nil
}

func (s *DefaultService) bumpTreeVersion(ctx context.Context, userID uint64) {
	versionKey := fmt.Sprintf("user:%d:tree:version", userID)
	s.cache.IncrementVersion(ctx, versionKey)
}
