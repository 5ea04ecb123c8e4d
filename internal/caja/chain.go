package caja

import (
	"context"
	defError "errors"

	"mnemosine-api/internal/errors"

	"gorm.io/gorm"
)

// ChainResolver resolves a caja to its chain-root owner from the
// repositories alone. Downstream packages consume it instead of the
// full service, which keeps the service graph acyclic.
type ChainResolver struct {
	repository CajaRepository
	armarios   ArmarioOwners
}

func NewChainResolver(repository CajaRepository, armarios ArmarioOwners) *ChainResolver {
	return &ChainResolver{repository: repository, armarios: armarios}
}

func (r *ChainResolver) ChainOwner(ctx context.Context, cajaID uint64) (uint64, error) {
	return chainOwner(ctx, r.repository, r.armarios, cajaID)
}

// chainOwner walks caja -> armario -> owner. A missing link at either
// level is NotFound; the ownership verdict is left to the caller.
func chainOwner(ctx context.Context, repository CajaRepository, armarios ArmarioOwners, cajaID uint64) (uint64, error) {
	c, err := repository.FindByID(ctx, cajaID)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return 0, errors.NotFound("Caja not found", err)
		}
		return 0, err
	}

	owner, err := armarios.OwnerOf(ctx, c.ArmarioID)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return 0, errors.NotFound("Parent armario not found", err)
		}
		return 0, err
	}
	return owner, nil
}
