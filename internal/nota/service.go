package nota

import (
	"context"
	defError "errors"
	"fmt"
	"time"

	"mnemosine-api/internal/errors"
	"mnemosine-api/redis"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service interface {
	CreateNota(ctx context.Context, userID uint64, req CreateRequest) (*Response, error)
	GetNota(ctx context.Context, id, userID uint64) (*Response, error)
	ListByContainer(ctx context.Context, parent ParentRef, userID uint64) ([]Response, error)
	UpdateNota(ctx context.Context, id, userID uint64, req UpdateRequest) (*Response, error)
	MoveNota(ctx context.Context, id, userID uint64, newParent ParentRef) (*Response, error)
	DeleteNota(ctx context.Context, id, userID uint64) error
	SearchNotas(ctx context.Context, userID uint64, query string, page, pageSize int) (*PaginatedNotas, error)
	Etiquetas(ctx context.Context, userID uint64) ([]string, error)

	// used by the container packages for subtree reads and cascades
	ResponsesByParent(ctx context.Context, parent ParentRef) ([]Response, error)
	CountByParent(ctx context.Context, parent ParentRef) (int64, error)
	DeleteByParent(ctx context.Context, parent ParentRef) error

	// used by the attachment manager
	GetOwnedNota(ctx context.Context, id, userID uint64) (*Nota, error)
	SaveAttachments(ctx context.Context, nota *Nota, attachments []Attachment) error
}

// CajaChain resolves a caja to its chain-root owner. Implemented by
// the caja service, wired in cmd/server.
type CajaChain interface {
	ChainOwner(ctx context.Context, cajaID uint64) (uint64, error)
}

// CajitaChain resolves a cajita to its chain-root owner.
type CajitaChain interface {
	ChainOwner(ctx context.Context, cajitaID uint64) (uint64, error)
}

// AttachmentCleaner removes stored objects of deleted notas,
// best-effort and off the request path.
type AttachmentCleaner interface {
	Cleanup(attachments []Attachment)
}

type CreateRequest struct {
	Titulo     string     `json:"titulo" binding:"required,min=1,max=255"`
	Contenido  string     `json:"contenido"`
	Etiquetas  []string   `json:"etiquetas"`
	ParentID   uint64     `json:"parent_id" binding:"required"`
	ParentType ParentType `json:"parent_type" binding:"required,oneof=caja cajita"`
}

type UpdateRequest struct {
	Titulo    *string   `json:"titulo" binding:"omitempty,min=1,max=255"`
	Contenido *string   `json:"contenido"`
	Etiquetas *[]string `json:"etiquetas"`
}

type PaginatedNotas struct {
	Data []Response `json:"data"`
	Meta NotasMeta  `json:"meta"`
}

type DefaultService struct {
	repository NotaRepository
	cajas      CajaChain
	cajitas    CajitaChain
	cleaner    AttachmentCleaner
	cache      *redis.Cache
}

func NewService(
	repository NotaRepository,
	cajas CajaChain,
	cajitas CajitaChain,
	cleaner AttachmentCleaner,
	cache *redis.Cache,
) Service {
	return &DefaultService{
		repository: repository,
		cajas:      cajas,
		cajitas:    cajitas,
		cleaner:    cleaner,
		cache:      cache,
	}
}

// chainOwner walks up from a container to its armario's owner. A missing
// link at any level surfaces as NotFound, never as Forbidden.
func (s *DefaultService) chainOwner(ctx context.Context, parent ParentRef) (uint64, error) {
	switch parent.Type {
	case ParentCaja:
		return s.cajas.ChainOwner(ctx, parent.ID)
	case ParentCajita:
		return s.cajitas.ChainOwner(ctx, parent.ID)
	}
	return 0, errors.BadRequest("Invalid container type. Must be 'caja' or 'cajita'", nil)
}

// authorizeParent confirms the requester owns the chain root above the
// given container.
func (s *DefaultService) authorizeParent(ctx context.Context, parent ParentRef, userID uint64) error {
	owner, err := s.chainOwner(ctx, parent)
	if err != nil {
		return err
	}
	if owner != userID {
		return errors.Forbidden("You don't have access to this container", nil)
	}
	return nil
}

// GetOwnedNota fetches a nota and validates the requester against the
// chain-root owner. Absent nota and foreign owner are distinct outcomes.
func (s *DefaultService) GetOwnedNota(ctx context.Context, id, userID uint64) (*Nota, error) {
	n, err := s.repository.FindByID(ctx, id)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Nota not found", err)
		}
		return nil, err
	}

	if err := s.authorizeParent(ctx, n.Parent, userID); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *DefaultService) CreateNota(ctx context.Context, userID uint64, req CreateRequest) (*Response, error) {
	parent := ParentRef{Type: req.ParentType, ID: req.ParentID}
	if !parent.Valid() {
		return nil, errors.BadRequest("Invalid container type. Must be 'caja' or 'cajita'", nil)
	}

	if err := s.authorizeParent(ctx, parent, userID); err != nil {
		return nil, err
	}

	n := &Nota{
		Titulo:      req.Titulo,
		Contenido:   req.Contenido,
		Etiquetas:   datatypes.NewJSONSlice(req.Etiquetas),
		Attachments: datatypes.NewJSONSlice([]Attachment{}),
		UserID:      userID,
		Parent:      parent,
	}

	if err := s.repository.Create(ctx, n); err != nil {
		return nil, err
	}
	s.bumpTreeVersion(ctx, userID)

	resp := n.ToResponse()
	return &resp, nil
}

func (s *DefaultService) GetNota(ctx context.Context, id, userID uint64) (*Response, error) {
	n, err := s.GetOwnedNota(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	resp := n.ToResponse()
	return &resp, nil
}

func (s *DefaultService) ListByContainer(ctx context.Context, parent ParentRef, userID uint64) ([]Response, error) {
	if !parent.Valid() {
		return nil, errors.BadRequest("Invalid container type. Must be 'caja' or 'cajita'", nil)
	}

	if err := s.authorizeParent(ctx, parent, userID); err != nil {
		return nil, err
	}
	return s.ResponsesByParent(ctx, parent)
}

func (s *DefaultService) UpdateNota(ctx context.Context, id, userID uint64, req UpdateRequest) (*Response, error) {
	n, err := s.GetOwnedNota(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if req.Titulo != nil {
		n.Titulo = *req.Titulo
	}
	if req.Contenido != nil {
		n.Contenido = *req.Contenido
	}
	if req.Etiquetas != nil {
		n.Etiquetas = datatypes.NewJSONSlice(*req.Etiquetas)
	}

	if err := s.repository.Save(ctx, n); err != nil {
		return nil, err
	}
	s.bumpTreeVersion(ctx, userID)

	resp := n.ToResponse()
	return &resp, nil
}

// MoveNota re-parents a nota after validating ownership of the new
// container's chain. The nota's own owner never changes.
func (s *DefaultService) MoveNota(ctx context.Context, id, userID uint64, newParent ParentRef) (*Response, error) {
	n, err := s.GetOwnedNota(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if !newParent.Valid() {
		return nil, errors.BadRequest("Invalid container type. Must be 'caja' or 'cajita'", nil)
	}

	owner, err := s.chainOwner(ctx, newParent)
	if err != nil {
		return nil, err
	}
	if owner != userID {
		return nil, errors.Forbidden("You don't have access to the destination container", nil)
	}

	n.Parent = newParent
	if err := s.repository.Save(ctx, n); err != nil {
		return nil, err
	}
	s.bumpTreeVersion(ctx, userID)

	resp := n.ToResponse()
	return &resp, nil
}

func (s *DefaultService) DeleteNota(ctx context.Context, id, userID uint64) error {
	n, err := s.GetOwnedNota(ctx, id, userID)
	if err != nil {
		return err
	}

	if err := s.repository.Delete(ctx, n.ID); err != nil {
		return err
	}
	s.bumpTreeVersion(ctx, userID)

	if s.cleaner != nil {
		s.cleaner.Cleanup(n.Attachments)
	}
	return nil
}

func (s *DefaultService) SearchNotas(ctx context.Context, userID uint64, query string, page, pageSize int) (*PaginatedNotas, error) {
	notas, meta, err := s.repository.Search(ctx, userID, query, page, pageSize)
	if err != nil {
		return nil, err
	}

	return &PaginatedNotas{
		Data: toResponses(notas),
		Meta: meta,
	}, nil
}

func (s *DefaultService) Etiquetas(ctx context.Context, userID uint64) ([]string, error) {
	versionKey := fmt.Sprintf("user:%d:tree:version", userID)
	v := s.cache.GetVersion(ctx, versionKey)

	cacheKey := fmt.Sprintf("etiquetas:u:%d:v:%d", userID, v)

	var cached []string
	found, _ := s.cache.Get(ctx, cacheKey, &cached)
	if found {
		return cached, nil
	}

	etiquetas, err := s.repository.DistinctEtiquetas(ctx, userID)
	if err != nil {
		return nil, err
	}

	go s.cache.Set(context.Background(), cacheKey, etiquetas, 24*time.Hour)

	return etiquetas, nil
}

func (s *DefaultService) ResponsesByParent(ctx context.Context, parent ParentRef) ([]Response, error) {
	notas, err := s.repository.ListByParent(ctx, parent)
	if err != nil {
		return nil, err
	}
	return toResponses(notas), nil
}

func (s *DefaultService) CountByParent(ctx context.Context, parent ParentRef) (int64, error) {
	return s.repository.CountByParent(ctx, parent)
}

// DeleteByParent removes every nota under a container as one cascade
// step; stored attachments are cleaned up off the request path.
func (s *DefaultService) DeleteByParent(ctx context.Context, parent ParentRef) error {
	notas, err := s.repository.ListByParent(ctx, parent)
	if err != nil {
		return err
	}

	if err := s.repository.DeleteByParent(ctx, parent); err != nil {
		return err
	}

	if s.cleaner != nil {
		for _, n := range notas {
			s.cleaner.Cleanup(n.Attachments)
		}
	}
	return nil
}

func (s *DefaultService) SaveAttachments(ctx context.Context, n *Nota, attachments []Attachment) error {
	n.Attachments = datatypes.NewJSONSlice(attachments)
	if err := s.repository.SaveAttachments(ctx, n.ID, n.Attachments); err != nil {
		return err
	}
	s.bumpTreeVersion(ctx, n.UserID)
	return nil
}

// bumpTreeVersion invalidates every cached tree and etiquetas entry of
// the user.
func (s *DefaultService) bumpTreeVersion(ctx context.Context, userID uint64) {
	versionKey := fmt.Sprintf("user:%d:tree:version", userID)
	s.cache.IncrementVersion(ctx, versionKey)
}

func toResponses(notas []Nota) []Response {
	responses := make([]Response, 0, len(notas))
	for i := range notas {
		responses = append(responses, notas[i].ToResponse())
	}
	return responses
}
