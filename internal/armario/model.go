package armario

import (
	"time"

	"mnemosine-api/internal/caja"
)

// Default armario created for every new user at registration.
const (
	DefaultNombre      = "Mi Armario"
	DefaultDescripcion = "Armario principal para mis notas"
)

// Armario is the root of a user's container tree; it has no parent.
type Armario struct {
	ID          uint64
	Nombre      string
	Descripcion string
	IsDefault   bool
	UserID      uint64 `gorm:"index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TreeResponse is an armario with its full descendant subtree
// materialized at read time.
type TreeResponse struct {
	ID          uint64              `json:"id"`
	Nombre      string              `json:"nombre"`
	Descripcion string              `json:"descripcion"`
	IsDefault   bool                `json:"is_default"`
	Cajas       []caja.TreeResponse `json:"cajas"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}
