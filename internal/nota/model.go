package nota

import (
	"time"

	"gorm.io/datatypes"
)

// ParentType discriminates the two containers a nota can live in.
type ParentType string

const (
	ParentCaja   ParentType = "caja"
	ParentCajita ParentType = "cajita"
)

// ParentRef is a tagged union over the two legal parents of a nota:
// InCaja(id) or InCajita(id). A nota attaches to exactly one of them.
type ParentRef struct {
	Type ParentType `gorm:"column:parent_type;index:idx_notas_parent" json:"parent_type"`
	ID   uint64     `gorm:"column:parent_id;index:idx_notas_parent" json:"parent_id"`
}

func InCaja(id uint64) ParentRef {
	return ParentRef{Type: ParentCaja, ID: id}
}

func InCajita(id uint64) ParentRef {
	return ParentRef{Type: ParentCajita, ID: id}
}

func (p ParentRef) Valid() bool {
	return p.ID != 0 && (p.Type == ParentCaja || p.Type == ParentCajita)
}

// AttachmentKind classifies an attachment.
type AttachmentKind string

const (
	KindImage    AttachmentKind = "image"
	KindVideo    AttachmentKind = "video"
	KindDocument AttachmentKind = "document"
	KindLink     AttachmentKind = "link"
	KindYoutube  AttachmentKind = "youtube"
)

// Attachment is embedded in the nota row; StorageID and Size are empty
// for plain links.
type Attachment struct {
	ID         string         `json:"id"`
	FileName   string         `json:"filename"`
	Kind       AttachmentKind `json:"file_type"`
	URL        string         `json:"url"`
	StorageID  string         `json:"storage_id,omitempty"`
	Size       int64          `json:"size,omitempty"`
	UploadedAt time.Time      `json:"uploaded_at"`
}

// Nota is the leaf content unit of the hierarchy. Etiquetas and
// Attachments are stored as JSONB columns; parent references are raw
// ids with no FK constraint, integrity is enforced in the services.
type Nota struct {
	ID          uint64
	Titulo      string
	Contenido   string
	Etiquetas   datatypes.JSONSlice[string]
	Attachments datatypes.JSONSlice[Attachment]
	UserID      uint64 `gorm:"index"`
	Parent      ParentRef `gorm:"embedded"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Response is the JSON shape of a nota.
type Response struct {
	ID          uint64       `json:"id"`
	Titulo      string       `json:"titulo"`
	Contenido   string       `json:"contenido"`
	Etiquetas   []string     `json:"etiquetas"`
	Attachments []Attachment `json:"attachments"`
	ParentID    uint64       `json:"parent_id"`
	ParentType  ParentType   `json:"parent_type"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func (n *Nota) ToResponse() Response {
	etiquetas := []string(n.Etiquetas)
	if etiquetas == nil {
		etiquetas = []string{}
	}
	attachments := []Attachment(n.Attachments)
	if attachments == nil {
		attachments = []Attachment{}
	}

	return Response{
		ID:          n.ID,
		Titulo:      n.Titulo,
		Contenido:   n.Contenido,
		Etiquetas:   etiquetas,
		Attachments: attachments,
		ParentID:    n.Parent.ID,
		ParentType:  n.Parent.Type,
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   n.UpdatedAt,
	}
}
