package caja

import (
	"context"
	defError "errors"
	"fmt"

	"mnemosine-api/internal/cajita"
	"mnemosine-api/internal/errors"
	"mnemosine-api/internal/nota"
	"mnemosine-api/redis"

	"gorm.io/gorm"
)

type Service interface {
	CreateCaja(ctx context.Context, userID uint64, req CreateRequest) (*TreeResponse, error)
	GetCajaTree(ctx context.Context, id, userID uint64) (*TreeResponse, error)
	ListByArmario(ctx context.Context, armarioID, userID uint64) ([]TreeResponse, error)
	UpdateCaja(ctx context.Context, id, userID uint64, req UpdateRequest) (*TreeResponse, error)
	DeleteCaja(ctx context.Context, id, userID uint64) error

	// ChainOwner resolves a caja to the owner of its armario; used by
	// the cajita and nota services for upward validation.
	ChainOwner(ctx context.Context, cajaID uint64) (uint64, error)

	// used by the armario service for subtree reads and cascades
	SubtreeByArmario(ctx context.Context, armarioID uint64) ([]TreeResponse, error)
	DeleteByArmario(ctx context.Context, armarioID uint64) error
}

// ArmarioOwners resolves an armario to its owner. Implemented by the
// armario repository, wired in cmd/server.
type ArmarioOwners interface {
	OwnerOf(ctx context.Context, armarioID uint64) (uint64, error)
}

type CreateRequest struct {
	Nombre      string `json:"nombre" binding:"required,min=1,max=255"`
	Descripcion string `json:"descripcion"`
	Color       string `json:"color" binding:"omitempty,hexcolor"`
	ArmarioID   uint64 `json:"armario_id" binding:"required"`
}

type UpdateRequest struct {
	Nombre      *string `json:"nombre" binding:"omitempty,min=1,max=255"`
	Descripcion *string `json:"descripcion"`
	Color       *string `json:"color" binding:"omitempty,hexcolor"`
}

type DefaultService struct {
	repository CajaRepository
	armarios   ArmarioOwners
	cajitas    cajita.Service
	notas      nota.Service
	cache      *redis.Cache
}

func NewService(
	repository CajaRepository,
	armarios ArmarioOwners,
	cajitas cajita.Service,
	notas nota.Service,
	cache *redis.Cache,
) Service {
	return &DefaultService{
		repository: repository,
		armarios:   armarios,
		cajitas:    cajitas,
		notas:      notas,
		cache:      cache,
	}
}

func (s *DefaultService) ChainOwner(ctx context.Context, cajaID uint64) (uint64, error) {
	return chainOwner(ctx, s.repository, s.armarios, cajaID)
}

func (s *DefaultService) getOwned(ctx context.Context, id, userID uint64) (*Caja, error) {
	c, err := s.repository.FindByID(ctx, id)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Caja not found", err)
		}
		return nil, err
	}

	owner, err := s.armarios.OwnerOf(ctx, c.ArmarioID)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Parent armario not found", err)
		}
		return nil, err
	}
	if owner != userID {
		return nil, errors.Forbidden("You don't have access to this caja", nil)
	}
	return c, nil
}

func (s *DefaultService) authorizeArmario(ctx context.Context, armarioID, userID uint64) error {
	owner, err := s.armarios.OwnerOf(ctx, armarioID)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return errors.NotFound("Armario not found", err)
		}
		return err
	}
	if owner != userID {
		return errors.Forbidden("You don't have access to this armario", nil)
	}
	return nil
}

func (s *DefaultService) CreateCaja(ctx context.Context, userID uint64, req CreateRequest) (*TreeResponse, error) {
	if err := s.authorizeArmario(ctx, req.ArmarioID, userID); err != nil {
		return nil, err
	}

	color := req.Color
	if color == "" {
		color = DefaultColor
	}

	c := &Caja{
		Nombre:      req.Nombre,
		Descripcion: req.Descripcion,
		Color:       color,
		UserID:      userID,
		ArmarioID:   req.ArmarioID,
	}

	if err := s.repository.Create(ctx, c); err != nil {
		return nil, err
	}
	s.bumpTreeVersion(ctx, userID)

	return s.withContent(ctx, c)
}

func (s *DefaultService) GetCajaTree(ctx context.Context, id, userID uint64) (*TreeResponse, error) {
	c, err := s.getOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	return s.withContent(ctx, c)
}

func (s *DefaultService) ListByArmario(ctx context.Context, armarioID, userID uint64) ([]TreeResponse, error) {
	if err := s.authorizeArmario(ctx, armarioID, userID); err != nil {
		return nil, err
	}
	return s.SubtreeByArmario(ctx, armarioID)
}

func (s *DefaultService) UpdateCaja(ctx context.Context, id, userID uint64, req UpdateRequest) (*TreeResponse, error) {
	c, err := s.getOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if req.Nombre != nil {
		c.Nombre = *req.Nombre
	}
	if req.Descripcion != nil {
		c.Descripcion = *req.Descripcion
	}
	if req.Color != nil {
		c.Color = *req.Color
	}

	if err := s.repository.Save(ctx, c); err != nil {
		return nil, err
	}
	s.bumpTreeVersion(ctx, userID)

	return s.withContent(ctx, c)
}

// DeleteCaja cascades: direct notas, then each cajita's notas and the
// cajitas, then the caja. Post-order, best-effort sequential, no
// transaction; a mid-way failure leaves a partial deletion.
func (s *DefaultService) DeleteCaja(ctx context.Context, id, userID uint64) error {
	c, err := s.getOwned(ctx, id, userID)
	if err != nil {
		return err
	}

	if err := s.deleteContent(ctx, c.ID); err != nil {
		return err
	}

	if err := s.repository.Delete(ctx, c.ID); err != nil {
		return err
	}
	s.bumpTreeVersion(ctx, userID)
	return nil
}

func (s *DefaultService) SubtreeByArmario(ctx context.Context, armarioID uint64) ([]TreeResponse, error) {
	cajas, err := s.repository.ListByArmario(ctx, armarioID)
	if err != nil {
		return nil, err
	}

	trees := make([]TreeResponse, 0, len(cajas))
	for i := range cajas {
		tree, err := s.withContent(ctx, &cajas[i])
		if err != nil {
			return nil, err
		}
		trees = append(trees, *tree)
	}
	return trees, nil
}

// DeleteByArmario runs the caja-level cascade for every caja under an
// armario.
func (s *DefaultService) DeleteByArmario(ctx context.Context, armarioID uint64) error {
	cajas, err := s.repository.ListByArmario(ctx, armarioID)
	if err != nil {
		return err
	}

	for i := range cajas {
		if err := s.deleteContent(ctx, cajas[i].ID); err != nil {
			return err
		}
		if err := s.repository.Delete(ctx, cajas[i].ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *DefaultService) deleteContent(ctx context.Context, cajaID uint64) error {
	// notas attached directly to the caja
	if err := s.notas.DeleteByParent(ctx, nota.InCaja(cajaID)); err != nil {
		return err
	}
	// cajitas and their notas
	return s.cajitas.DeleteByCaja(ctx, cajaID)
}

// withContent materializes the caja subtree: cajitas with their notas,
// plus notas attached directly to the caja.
func (s *DefaultService) withContent(ctx context.Context, c *Caja) (*TreeResponse, error) {
	cajitas, err := s.cajitas.SubtreeByCaja(ctx, c.ID)
	if err != nil {
		return nil, err
	}

	notas, err := s.notas.ResponsesByParent(ctx, nota.InCaja(c.ID))
	if err != nil {
		return nil, err
	}

	return &TreeResponse{
		ID:          c.ID,
		Nombre:      c.Nombre,
		Descripcion: c.Descripcion,
		Color:       c.Color,
		ArmarioID:   c.ArmarioID,
		Cajitas:     cajitas,
		Notas:       notas,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}, nil
}

func (s *DefaultService) bumpTreeVersion(ctx context.Context, userID uint64) {
	versionKey := fmt.Sprintf("user:%d:tree:version", userID)
	s.cache.IncrementVersion(ctx, versionKey)
}
