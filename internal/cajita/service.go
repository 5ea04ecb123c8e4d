package cajita

import (
	"context"
	defError "errors"
	"fmt"

	"mnemosine-api/internal/errors"
	"mnemosine-api/internal/nota"
	"mnemosine-api/redis"

	"gorm.io/gorm"
)

type Service interface {
	CreateCajita(ctx context.Context, userID uint64, req CreateRequest) (*TreeResponse, error)
	GetCajitaTree(ctx context.Context, id, userID uint64) (*TreeResponse, error)
	ListByCaja(ctx context.Context, cajaID, userID uint64) ([]TreeResponse, error)
	UpdateCajita(ctx context.Context, id, userID uint64, req UpdateRequest) (*TreeResponse, error)
	DeleteCajita(ctx context.Context, id, userID uint64) error

	// ChainOwner resolves a cajita to the owner of its chain-root
	// armario; used by the nota service for upward validation.
	ChainOwner(ctx context.Context, cajitaID uint64) (uint64, error)

	// used by the caja service for subtree reads and cascades
	SubtreeByCaja(ctx context.Context, cajaID uint64) ([]TreeResponse, error)
	DeleteByCaja(ctx context.Context, cajaID uint64) error
}

// CajaChain resolves a caja to its chain-root owner. Implemented by the
// caja service, wired in cmd/server.
type CajaChain interface {
	ChainOwner(ctx context.Context, cajaID uint64) (uint64, error)
}

type CreateRequest struct {
	Nombre      string `json:"nombre" binding:"required,min=1,max=255"`
	Descripcion string `json:"descripcion"`
	CajaID      uint64 `json:"caja_id" binding:"required"`
}

type UpdateRequest struct {
	Nombre      *string `json:"nombre" binding:"omitempty,min=1,max=255"`
	Descripcion *string `json:"descripcion"`
}

type DefaultService struct {
	repository CajitaRepository
	cajas      CajaChain
	notas      nota.Service
	cache      *redis.Cache
}

func NewService(
	repository CajitaRepository,
	cajas CajaChain,
	notas nota.Service,
	cache *redis.Cache,
) Service {
	return &DefaultService{
		repository: repository,
		cajas:      cajas,
		notas:      notas,
		cache:      cache,
	}
}

func (s *DefaultService) ChainOwner(ctx context.Context, cajitaID uint64) (uint64, error) {
	return chainOwner(ctx, s.repository, s.cajas, cajitaID)
}

// getOwned fetches a cajita and validates the requester against the
// chain-root owner, keeping NotFound and Forbidden distinct.
func (s *DefaultService) getOwned(ctx context.Context, id, userID uint64) (*Cajita, error) {
	c, err := s.repository.FindByID(ctx, id)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Cajita not found", err)
		}
		return nil, err
	}

	owner, err := s.cajas.ChainOwner(ctx, c.CajaID)
	if err != nil {
		return nil, err
	}
	if owner != userID {
		return nil, errors.Forbidden("You don't have access to this cajita", nil)
	}
	return c, nil
}

func (s *DefaultService) CreateCajita(ctx context.Context, userID uint64, req CreateRequest) (*TreeResponse, error) {
	owner, err := s.cajas.ChainOwner(ctx, req.CajaID)
	if err != nil {
		return nil, err
	}
	if owner != userID {
		return nil, errors.Forbidden("You don't have access to this caja", nil)
	}

	c := &Cajita{
		Nombre:      req.Nombre,
		Descripcion: req.Descripcion,
		UserID:      userID,
		CajaID:      req.CajaID,
	}

	if err := s.repository.Create(ctx, c); err != nil {
		return nil, err
	}
	s.bumpTreeVersion(ctx, userID)

	return s.withContent(ctx, c)
}

func (s *DefaultService) GetCajitaTree(ctx context.Context, id, userID uint64) (*TreeResponse, error) {
	c, err := s.getOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	return s.withContent(ctx, c)
}

func (s *DefaultService) ListByCaja(ctx context.Context, cajaID, userID uint64) ([]TreeResponse, error) {
	owner, err := s.cajas.ChainOwner(ctx, cajaID)
	if err != nil {
		return nil, err
	}
	if owner != userID {
		return nil, errors.Forbidden("You don't have access to this caja", nil)
	}

	return s.SubtreeByCaja(ctx, cajaID)
}

func (s *DefaultService) UpdateCajita(ctx context.Context, id, userID uint64, req UpdateRequest) (*TreeResponse, error) {
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

	if err := s.repository.Save(ctx, c); err != nil {
		return nil, err
	}
	s.bumpTreeVersion(ctx, userID)

	return s.withContent(ctx, c)
}

// DeleteCajita refuses to remove a cajita that still holds notas.
func (s *DefaultService) DeleteCajita(ctx context.Context, id, userID uint64) error {
	c, err := s.getOwned(ctx, id, userID)
	if err != nil {
		return err
	}

	count, err := s.notas.CountByParent(ctx, nota.InCajita(c.ID))
	if err != nil {
		return err
	}
	if count > 0 {
		return errors.Conflict("Cajita still contains notas. Delete them first.", nil)
	}

	if err := s.repository.Delete(ctx, c.ID); err != nil {
		return err
	}
	s.bumpTreeVersion(ctx, userID)
	return nil
}

func (s *DefaultService) SubtreeByCaja(ctx context.Context, cajaID uint64) ([]TreeResponse, error) {
	cajitas, err := s.repository.ListByCaja(ctx, cajaID)
	if err != nil {
		return nil, err
	}

	trees := make([]TreeResponse, 0, len(cajitas))
	for i := range cajitas {
		tree, err := s.withContent(ctx, &cajitas[i])
		if err != nil {
			return nil, err
		}
		trees = append(trees, *tree)
	}
	return trees, nil
}

// DeleteByCaja is one cascade step: all notas of every cajita under the
// caja go first, then the cajitas themselves. Best-effort sequential,
// no transaction.
func (s *DefaultService) DeleteByCaja(ctx context.Context, cajaID uint64) error {
	cajitas, err := s.repository.ListByCaja(ctx, cajaID)
	if err != nil {
		return err
	}

	for i := range cajitas {
		if err := s.notas.DeleteByParent(ctx, nota.InCajita(cajitas[i].ID)); err != nil {
			return err
		}
	}

	return s.repository.DeleteByCaja(ctx, cajaID)
}

func (s *DefaultService) withContent(ctx context.Context, c *Cajita) (*TreeResponse, error) {
	notas, err := s.notas.ResponsesByParent(ctx, nota.InCajita(c.ID))
	if err != nil {
		return nil, err
	}

	return &TreeResponse{
		ID:          c.ID,
		Nombre:      c.Nombre,
		Descripcion: c.Descripcion,
		CajaID:      c.CajaID,
		Notas:       notas,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}, nil
}

func (s *DefaultService) bumpTreeVersion(ctx context.Context, userID uint64) {
	versionKey := fmt.Sprintf("user:%d:tree:version", userID)
	s.cache.IncrementVersion(ctx, versionKey)
}
