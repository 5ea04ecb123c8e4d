package caja

import (
	"time"

	"mnemosine-api/internal/cajita"
	"mnemosine-api/internal/nota"
)

// DefaultColor is applied when a caja is created without one.
const DefaultColor = "#6366f1"

// Caja is the second-level container inside an armario.
type Caja struct {
	ID          uint64
	Nombre      string
	Descripcion string
	Color       string
	UserID      uint64
	ArmarioID   uint64 `gorm:"index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TreeResponse is a caja with its cajitas and directly attached notas
// materialized.
type TreeResponse struct {
	ID          uint64                `json:"id"`
	Nombre      string                `json:"nombre"`
	Descripcion string                `json:"descripcion"`
	Color       string                `json:"color"`
	ArmarioID   uint64                `json:"armario_id"`
	Cajitas     []cajita.TreeResponse `json:"cajitas"`
	Notas       []nota.Response       `json:"notas"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}
