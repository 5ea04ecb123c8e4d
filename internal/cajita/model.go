package cajita

import (
	"time"

	"mnemosine-api/internal/nota"
)

// Cajita is the third-level container; its parent caja is referenced by
// raw id, the chain is validated in the service layer.
type Cajita struct {
	ID          uint64
	Nombre      string
	Descripcion string
	UserID      uint64
	CajaID      uint64 `gorm:"index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TreeResponse is a cajita with its notas materialized.
type TreeResponse struct {
	ID          uint64          `json:"id"`
	Nombre      string          `json:"nombre"`
	Descripcion string          `json:"descripcion"`
	CajaID      uint64          `json:"caja_id"`
	Notas       []nota.Response `json:"notas"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
