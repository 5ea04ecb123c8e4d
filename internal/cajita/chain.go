package cajita

import (
	"context"
	defError "errors"

	"mnemosine-api/internal/errors"

	"gorm.io/gorm"
)

// ChainResolver resolves a cajita to its chain-root owner from the
// repository plus the caja resolver, without the full service.
type ChainResolver struct {
	repository CajitaRepository
	cajas      CajaChain
}

func NewChainResolver(repository CajitaRepository, cajas CajaChain) *ChainResolver {
	return &ChainResolver{repository: repository, cajas: cajas}
}

func (r *ChainResolver) ChainOwner(ctx context.Context, cajitaID uint64) (uint64, error) {
	return chainOwner(ctx, r.repository, r.cajas, cajitaID)
}

func chainOwner(ctx context.Context, repository CajitaRepository, cajas CajaChain, cajitaID uint64) (uint64, error) {
	c, err := repository.FindByID(ctx, cajitaID)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return 0, errors.NotFound("Cajita not found", err)
		}
		return 0, err
	}
	return cajas.ChainOwner(ctx, c.CajaID)
}
