package armario

import (
	"context"
	"net/http"
	"testing"

	"mnemosine-api/internal/caja"
	"mnemosine-api/internal/errors"
	"mnemosine-api/redis"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type MockArmarioRepository struct {
	mock.Mock
}

func (m *MockArmarioRepository) Create(ctx context.Context, armario *Armario) error {
	args := m.Called(ctx, armario)
	return args.Error(0)
}

func (m *MockArmarioRepository) FindByID(ctx context.Context, id uint64) (*Armario, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Armario), args.Error(1)
}

func (m *MockArmarioRepository) ListByUser(ctx context.Context, userID uint64) ([]Armario, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]Armario), args.Error(1)
}

func (m *MockArmarioRepository) OwnerOf(ctx context.Context, armarioID uint64) (uint64, error) {
	args := m.Called(ctx, armarioID)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockArmarioRepository) Save(ctx context.Context, armario *Armario) error {
	args := m.Called(ctx, armario)
	return args.Error(0)
}

func (m *MockArmarioRepository) Delete(ctx context.Context, id uint64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCajaService implements the caja.Service interface
type MockCajaService struct {
	mock.Mock
}

func (m *MockCajaService) CreateCaja(ctx context.Context, userID uint64, req caja.CreateRequest) (*caja.TreeResponse, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*caja.TreeResponse), args.Error(1)
}

func (m *MockCajaService) GetCajaTree(ctx context.Context, id, userID uint64) (*caja.TreeResponse, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*caja.TreeResponse), args.Error(1)
}

func (m *MockCajaService) ListByArmario(ctx context.Context, armarioID, userID uint64) ([]caja.TreeResponse, error) {
	args := m.Called(ctx, armarioID, userID)
	return args.Get(0).([]caja.TreeResponse), args.Error(1)
}

func (m *MockCajaService) UpdateCaja(ctx context.Context, id, userID uint64, req caja.UpdateRequest) (*caja.TreeResponse, error) {
	args := m.Called(ctx, id, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*caja.TreeResponse), args.Error(1)
}

func (m *MockCajaService) DeleteCaja(ctx context.Context, id, userID uint64) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockCajaService) ChainOwner(ctx context.Context, cajaID uint64) (uint64, error) {
	args := m.Called(ctx, cajaID)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockCajaService) SubtreeByArmario(ctx context.Context, armarioID uint64) ([]caja.TreeResponse, error) {
	args := m.Called(ctx, armarioID)
	return args.Get(0).([]caja.TreeResponse), args.Error(1)
}

func (m *MockCajaService) DeleteByArmario(ctx context.Context, armarioID uint64) error {
	args := m.Called(ctx, armarioID)
	return args.Error(0)
}

func newTestService(repo *MockArmarioRepository, cajas *MockCajaService) Service {
	return NewService(repo, cajas, redis.NewCache(nil))
}

func TestCreateDefault_UsesDefaultNames(t *testing.T) {
	repo := new(MockArmarioRepository)
	cajas := new(MockCajaService)
	service := newTestService(repo, cajas)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(a *Armario) bool {
		return a.Nombre == DefaultNombre && a.IsDefault && a.UserID == uint64(1)
	})).Return(nil)

	err := service.CreateDefault(context.Background(), 1)

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestGetArmarioTree_MissingIsNotFound(t *testing.T) {
	repo := new(MockArmarioRepository)
	cajas := new(MockCajaService)
	service := newTestService(repo, cajas)

	repo.On("FindByID", mock.Anything, uint64(2)).Return(nil, gorm.ErrRecordNotFound)

	_, err := service.GetArmarioTree(context.Background(), 2, 1)

	var apiErr *errors.APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}

func TestGetArmarioTree_ForeignOwnerIsForbidden(t *testing.T) {
	repo := new(MockArmarioRepository)
	cajas := new(MockCajaService)
	service := newTestService(repo, cajas)

	repo.On("FindByID", mock.Anything, uint64(2)).Return(&Armario{ID: 2, UserID: 99}, nil)

	_, err := service.GetArmarioTree(context.Background(), 2, 1)

	var apiErr *errors.APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
}

func TestDeleteArmario_CascadesBeforeDeletingRoot(t *testing.T) {
	repo := new(MockArmarioRepository)
	cajas := new(MockCajaService)
	service := newTestService(repo, cajas)

	repo.On("FindByID", mock.Anything, uint64(2)).Return(&Armario{ID: 2, UserID: 1}, nil)

	cascaded := false
	cajas.On("DeleteByArmario", mock.Anything, uint64(2)).Run(func(args mock.Arguments) {
		cascaded = true
	}).Return(nil)
	repo.On("Delete", mock.Anything, uint64(2)).Run(func(args mock.Arguments) {
		assert.True(t, cascaded, "content must be removed before the armario itself")
	}).Return(nil)

	err := service.DeleteArmario(context.Background(), 2, 1)

	assert.NoError(t, err)
	cajas.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestDeleteArmario_CascadeFailureKeepsRoot(t *testing.T) {
	repo := new(MockArmarioRepository)
	cajas := new(MockCajaService)
	service := newTestService(repo, cajas)

	repo.On("FindByID", mock.Anything, uint64(2)).Return(&Armario{ID: 2, UserID: 1}, nil)
	cajas.On("DeleteByArmario", mock.Anything, uint64(2)).Return(assert.AnError)

	err := service.DeleteArmario(context.Background(), 2, 1)

	assert.Error(t, err)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
