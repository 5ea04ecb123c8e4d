package attachment

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"mnemosine-api/internal/errors"
	"mnemosine-api/internal/nota"
	"mnemosine-api/internal/storage"

	"github.com/google/uuid"
)

const (
	MaxFileSizeMB  = 20
	MaxAttachments = 3
)

var extensionKinds = map[string]nota.AttachmentKind{
	"jpg": nota.KindImage, "jpeg": nota.KindImage, "png": nota.KindImage,
	"gif": nota.KindImage, "webp": nota.KindImage, "heic": nota.KindImage,
	"heif": nota.KindImage, "bmp": nota.KindImage, "svg": nota.KindImage,

	"mp4": nota.KindVideo, "mov": nota.KindVideo, "avi": nota.KindVideo,
	"wmv": nota.KindVideo, "flv": nota.KindVideo, "webm": nota.KindVideo,

	"pdf": nota.KindDocument, "doc": nota.KindDocument, "docx": nota.KindDocument,
	"txt": nota.KindDocument, "xls": nota.KindDocument, "xlsx": nota.KindDocument,
	"ppt": nota.KindDocument, "pptx": nota.KindDocument,
}

// NotaAccess is the slice of the nota service this package needs.
type NotaAccess interface {
	GetOwnedNota(ctx context.Context, id, userID uint64) (*nota.Nota, error)
	SaveAttachments(ctx context.Context, n *nota.Nota, attachments []nota.Attachment) error
}

type Service interface {
	AddFile(ctx context.Context, notaID, userID uint64, file *multipart.FileHeader) (*nota.Attachment, error)
	AddLink(ctx context.Context, notaID, userID uint64, linkURL, linkType string) (*nota.Attachment, error)
	Remove(ctx context.Context, notaID, userID uint64, attachmentID string) error
	List(ctx context.Context, notaID, userID uint64) ([]nota.Attachment, error)
}

type DefaultService struct {
	notas NotaAccess
	store storage.ObjectStore
}

func NewService(notas NotaAccess, store storage.ObjectStore) *DefaultService {
	return &DefaultService{notas: notas, store: store}
}

// AddFile validates and uploads a file, then appends its descriptor to
// the nota.
func (s *DefaultService) AddFile(ctx context.Context, notaID, userID uint64, file *multipart.FileHeader) (*nota.Attachment, error) {
	n, err := s.notas.GetOwnedNota(ctx, notaID, userID)
	if err != nil {
		return nil, err
	}
	if len(n.Attachments) >= MaxAttachments {
		return nil, errors.BadRequest(fmt.Sprintf("A nota can hold at most %d attachments", MaxAttachments), nil)
	}

	kind, ok := kindForFilename(file.Filename)
	if !ok {
		return nil, errors.BadRequest("File format is not allowed", nil)
	}
	if file.Size > MaxFileSizeMB*1024*1024 {
		return nil, errors.BadRequest(fmt.Sprintf("File exceeds the %dMB limit", MaxFileSizeMB), nil)
	}

	src, err := file.Open()
	if err != nil {
		return nil, errors.Internal(err)
	}
	defer src.Close()

	key := fmt.Sprintf("mnemosine/notas/%d/%s_%s", notaID, uuid.NewString(), file.Filename)
	contentType := file.Header.Get("Content-Type")
	result, err := s.store.Upload(ctx, src, file.Size, contentType, key)
	if err != nil {
		return nil, errors.BadGateway("Failed to upload the file", err)
	}

	attachment := nota.Attachment{
		ID:         uuid.NewString(),
		FileName:   file.Filename,
		Kind:       kind,
		URL:        result.URL,
		StorageID:  result.StorageID,
		Size:       file.Size,
		UploadedAt: time.Now().UTC(),
	}

	if err := s.notas.SaveAttachments(ctx, n, append(n.Attachments, attachment)); err != nil {
		return nil, err
	}
	return &attachment, nil
}

// AddLink appends a link attachment. An empty or unknown linkType is
// inferred from the URL.
func (s *DefaultService) AddLink(ctx context.Context, notaID, userID uint64, linkURL, linkType string) (*nota.Attachment, error) {
	n, err := s.notas.GetOwnedNota(ctx, notaID, userID)
	if err != nil {
		return nil, err
	}
	if len(n.Attachments) >= MaxAttachments {
		return nil, errors.BadRequest(fmt.Sprintf("A nota can hold at most %d attachments", MaxAttachments), nil)
	}

	kind := nota.AttachmentKind(linkType)
	if kind != nota.KindLink && kind != nota.KindYoutube {
		kind = inferLinkKind(linkURL)
	}

	attachment := nota.Attachment{
		ID:         uuid.NewString(),
		FileName:   linkURL,
		Kind:       kind,
		URL:        linkURL,
		UploadedAt: time.Now().UTC(),
	}

	if err := s.notas.SaveAttachments(ctx, n, append(n.Attachments, attachment)); err != nil {
		return nil, err
	}
	return &attachment, nil
}

// Remove deletes an attachment descriptor and its stored object. A
// storage failure is logged but does not keep the descriptor alive.
func (s *DefaultService) Remove(ctx context.Context, notaID, userID uint64, attachmentID string) error {
	n, err := s.notas.GetOwnedNota(ctx, notaID, userID)
	if err != nil {
		return err
	}

	index := -1
	for i, a := range n.Attachments {
		if a.ID == attachmentID {
			index = i
			break
		}
	}
	if index == -1 {
		return errors.NotFound("Attachment not found", nil)
	}

	target := n.Attachments[index]
	if target.StorageID != "" {
		if err := s.store.Delete(ctx, target.StorageID, ResourceKind(target.Kind)); err != nil {
			log.Printf("[ERROR] failed to delete stored object %s: %v", target.StorageID, err)
		}
	}

	remaining := make([]nota.Attachment, 0, len(n.Attachments)-1)
	remaining = append(remaining, n.Attachments[:index]...)
	remaining = append(remaining, n.Attachments[index+1:]...)

	return s.notas.SaveAttachments(ctx, n, remaining)
}

func (s *DefaultService) List(ctx context.Context, notaID, userID uint64) ([]nota.Attachment, error) {
	n, err := s.notas.GetOwnedNota(ctx, notaID, userID)
	if err != nil {
		return nil, err
	}
	return n.Attachments, nil
}

// ResourceKind maps an attachment kind to the storage resource class.
func ResourceKind(kind nota.AttachmentKind) string {
	switch kind {
	case nota.KindImage:
		return "image"
	case nota.KindVideo:
		return "video"
	default:
		return "raw"
	}
}

func kindForFilename(filename string) (nota.AttachmentKind, bool) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	kind, ok := extensionKinds[ext]
	return kind, ok
}

func inferLinkKind(linkURL string) nota.AttachmentKind {
	if strings.Contains(linkURL, "youtube.com") || strings.Contains(linkURL, "youtu.be") {
		return nota.KindYoutube
	}
	return nota.KindLink
}
