package attachment

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"testing"

	"mnemosine-api/internal/errors"
	"mnemosine-api/internal/nota"
	"mnemosine-api/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockNotaAccess struct {
	mock.Mock
}

func (m *MockNotaAccess) GetOwnedNota(ctx context.Context, id, userID uint64) (*nota.Nota, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*nota.Nota), args.Error(1)
}

func (m *MockNotaAccess) SaveAttachments(ctx context.Context, n *nota.Nota, attachments []nota.Attachment) error {
	args := m.Called(ctx, n, attachments)
	return args.Error(0)
}

type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) Upload(ctx context.Context, r io.Reader, size int64, contentType, key string) (*storage.UploadResult, error) {
	args := m.Called(ctx, r, size, contentType, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.UploadResult), args.Error(1)
}

func (m *MockObjectStore) Delete(ctx context.Context, storageID, resourceKind string) error {
	args := m.Called(ctx, storageID, resourceKind)
	return args.Error(0)
}

func notaWithAttachments(attachments ...nota.Attachment) *nota.Nota {
	n := &nota.Nota{ID: 10, UserID: 1}
	n.Attachments = attachments
	return n
}

func TestAddFile_RejectsWhenCapReached(t *testing.T) {
	notas := new(MockNotaAccess)
	store := new(MockObjectStore)
	service := NewService(notas, store)

	full := notaWithAttachments(
		nota.Attachment{ID: "a1"},
		nota.Attachment{ID: "a2"},
		nota.Attachment{ID: "a3"},
	)
	notas.On("GetOwnedNota", mock.Anything, uint64(10), uint64(1)).Return(full, nil)

	file := &multipart.FileHeader{Filename: "foto.jpg", Size: 1024}
	_, err := service.AddFile(context.Background(), 10, 1, file)

	var apiErr *errors.APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	store.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAddFile_RejectsUnknownExtension(t *testing.T) {
	notas := new(MockNotaAccess)
	store := new(MockObjectStore)
	service := NewService(notas, store)

	notas.On("GetOwnedNota", mock.Anything, uint64(10), uint64(1)).Return(notaWithAttachments(), nil)

	file := &multipart.FileHeader{Filename: "malware.exe", Size: 1024}
	_, err := service.AddFile(context.Background(), 10, 1, file)

	var apiErr *errors.APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
}

func TestAddFile_RejectsOversizedFile(t *testing.T) {
	notas := new(MockNotaAccess)
	store := new(MockObjectStore)
	service := NewService(notas, store)

	notas.On("GetOwnedNota", mock.Anything, uint64(10), uint64(1)).Return(notaWithAttachments(), nil)

	file := &multipart.FileHeader{Filename: "video.mp4", Size: (MaxFileSizeMB + 1) * 1024 * 1024}
	_, err := service.AddFile(context.Background(), 10, 1, file)

	var apiErr *errors.APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	store.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAddLink_InfersYoutubeKind(t *testing.T) {
	notas := new(MockNotaAccess)
	store := new(MockObjectStore)
	service := NewService(notas, store)

	notas.On("GetOwnedNota", mock.Anything, uint64(10), uint64(1)).Return(notaWithAttachments(), nil)
	notas.On("SaveAttachments", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	attachment, err := service.AddLink(context.Background(), 10, 1, "https://youtu.be/dQw4w9WgXcQ", "")

	assert.NoError(t, err)
	assert.Equal(t, nota.KindYoutube, attachment.Kind)
	assert.Empty(t, attachment.StorageID)
}

func TestAddLink_PlainLinkKind(t *testing.T) {
	notas := new(MockNotaAccess)
	store := new(MockObjectStore)
	service := NewService(notas, store)

	notas.On("GetOwnedNota", mock.Anything, uint64(10), uint64(1)).Return(notaWithAttachments(), nil)
	notas.On("SaveAttachments", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	attachment, err := service.AddLink(context.Background(), 10, 1, "https://example.com/articulo", "bogus")

	assert.NoError(t, err)
	assert.Equal(t, nota.KindLink, attachment.Kind)
}

func TestRemove_UnknownAttachmentIsNotFound(t *testing.T) {
	notas := new(MockNotaAccess)
	store := new(MockObjectStore)
	service := NewService(notas, store)

	notas.On("GetOwnedNota", mock.Anything, uint64(10), uint64(1)).Return(
		notaWithAttachments(nota.Attachment{ID: "a1"}), nil)

	err := service.Remove(context.Background(), 10, 1, "missing")

	var apiErr *errors.APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}

func TestRemove_DeletesStoredObjectFirst(t *testing.T) {
	notas := new(MockNotaAccess)
	store := new(MockObjectStore)
	service := NewService(notas, store)

	notas.On("GetOwnedNota", mock.Anything, uint64(10), uint64(1)).Return(
		notaWithAttachments(nota.Attachment{
			ID:        "a1",
			Kind:      nota.KindVideo,
			StorageID: "mnemosine/notas/10/a1_clip.mp4",
		}), nil)
	store.On("Delete", mock.Anything, "mnemosine/notas/10/a1_clip.mp4", "video").Return(nil)
	notas.On("SaveAttachments", mock.Anything, mock.Anything, mock.MatchedBy(func(remaining []nota.Attachment) bool {
		return len(remaining) == 0
	})).Return(nil)

	err := service.Remove(context.Background(), 10, 1, "a1")

	assert.NoError(t, err)
	store.AssertExpectations(t)
	notas.AssertExpectations(t)
}

func TestRemove_StorageFailureStillRemovesDescriptor(t *testing.T) {
	notas := new(MockNotaAccess)
	store := new(MockObjectStore)
	service := NewService(notas, store)

	notas.On("GetOwnedNota", mock.Anything, uint64(10), uint64(1)).Return(
		notaWithAttachments(nota.Attachment{
			ID:        "a1",
			Kind:      nota.KindImage,
			StorageID: "mnemosine/notas/10/a1_foto.jpg",
		}), nil)
	store.On("Delete", mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)
	notas.On("SaveAttachments", mock.Anything, mock.Anything, mock.MatchedBy(func(remaining []nota.Attachment) bool {
		return len(remaining) == 0
	})).Return(nil)

	err := service.Remove(context.Background(), 10, 1, "a1")

	assert.NoError(t, err)
	notas.AssertExpectations(t)
}

func TestResourceKind(t *testing.T) {
	assert.Equal(t, "image", ResourceKind(nota.KindImage))
	assert.Equal(t, "video", ResourceKind(nota.KindVideo))
	assert.Equal(t, "raw", ResourceKind(nota.KindDocument))
	assert.Equal(t, "raw", ResourceKind(nota.KindLink))
}
