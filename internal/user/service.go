package user

import (
	"context"
	defError "errors"
	"log"
	"strings"

	"mnemosine-api/internal/errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Service defines the interface for user business logic
type Service interface {
	Register(ctx context.Context, user *User) error
	Login(identifier, password string) (*User, error)
	GetUserByID(id uint64) (*User, error)
	UserExists(id uint64) bool
}

// DefaultArmarioCreator creates the default armario every new user gets.
// Implemented by the armario service, wired in cmd/server.
type DefaultArmarioCreator interface {
	CreateDefault(ctx context.Context, userID uint64) error
}

// DefaultService implements Service
type DefaultService struct {
	repository     UserRepository
	armarioCreator DefaultArmarioCreator
}

// NewService creates a new user service
func NewService(repository UserRepository, armarioCreator DefaultArmarioCreator) Service {
	return &DefaultService{
		repository:     repository,
		armarioCreator: armarioCreator,
	}
}

// Register registers a new user and creates their default armario.
func (s *DefaultService) Register(ctx context.Context, user *User) error {
	// Check if user with email already exists
	_, err := s.repository.FindByEmail(user.Email)
	if err != nil && !defError.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if err == nil {
		return errors.Conflict("Email is already registered", nil)
	}

	// Check if username already exists
	_, err = s.repository.FindByUsername(user.Username)
	if err != nil && !defError.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if err == nil {
		return errors.Conflict("Username is already taken", nil)
	}

	// Hash the password before saving
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return errors.UnprocessableEntity("Can't hash password", err)
	}
	user.PasswordHash = string(hashedPassword)

	if err := s.repository.Create(user); err != nil {
		return err
	}

	// every user gets exactly one default armario
	if err := s.armarioCreator.CreateDefault(ctx, user.ID); err != nil {
		log.Printf("[ERROR] Failed to create default armario for user %d: %v", user.ID, err)
	}

	return nil
}

// Login authenticates a user by email or username.
func (s *DefaultService) Login(identifier, password string) (*User, error) {
	var u *User
	var err error

	if strings.Contains(identifier, "@") {
		u, err = s.repository.FindByEmail(identifier)
	} else {
		u, err = s.repository.FindByUsername(identifier)
	}
	if err != nil {
		return nil, errors.Unauthorized("Wrong user or password", err)
	}

	// Check password
	err = bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	if err != nil {
		return nil, errors.Unauthorized("Wrong user or password", err)
	}

	return u, nil
}

// GetUserByID gets a user by ID
func (s *DefaultService) GetUserByID(id uint64) (*User, error) {
	u, err := s.repository.FindByID(id)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("User not found", err)
		}
		return nil, err
	}
	return u, nil
}

// UserExists reports whether the user id resolves to a stored user.
func (s *DefaultService) UserExists(id uint64) bool {
	_, err := s.repository.FindByID(id)
	return err == nil
}
