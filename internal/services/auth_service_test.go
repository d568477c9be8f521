package services_test

import (
	"fmt"
	"testing"
	"time"

	"blogpost/internal/apperror"
	"blogpost/internal/models"
	"blogpost/internal/repositories"
	"blogpost/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func notFoundErr(what string) error {
	return fmt.Errorf("%s: %w", what, repositories.ErrNotFound)
}

func TestAuthService_Register(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, "test_jwt_secret")

	// New email: the stored password must be a bcrypt hash of the original,
	// never the plaintext.
	var stored *models.User
	mockRepo.On("GetByEmail", "a@x.com").Return(nil, notFoundErr("user with email a@x.com")).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Run(func(args mock.Arguments) {
		stored = args.Get(0).(*models.User)
	}).Return(nil).Once()

	err := authService.Register("A", "a@x.com", "pw1")
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)

	assert.NotNil(t, stored)
	assert.Equal(t, "A", stored.Name)
	assert.NotEqual(t, "pw1", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("pw1")))

	// Email already on file yields a conflict.
	mockRepo.On("GetByEmail", "a@x.com").Return(&models.User{ID: "1", Email: "a@x.com"}, nil).Once()
	err = authService.Register("A", "a@x.com", "pw1")
	assert.Error(t, err)
	ae, ok := apperror.FromError(err)
	assert.True(t, ok)
	assert.Equal(t, apperror.ConflictError, ae.Type)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_Login(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, "test_jwt_secret")

	hash, _ := bcrypt.GenerateFromPassword([]byte("pw1"), bcrypt.DefaultCost)
	user := &models.User{ID: "user-1", Name: "A", Email: "a@x.com", Password: string(hash)}

	// Successful login returns a verifiable token and the user.
	mockRepo.On("GetByEmail", "a@x.com").Return(user, nil).Once()
	token, loggedIn, err := authService.Login("a@x.com", "pw1")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "A", loggedIn.Name)
	mockRepo.AssertExpectations(t)

	claims, err := authService.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", claims["user_id"])

	// Expiry sits one hour out.
	exp, ok := claims["exp"].(float64)
	assert.True(t, ok)
	assert.InDelta(t, time.Now().Add(time.Hour).Unix(), int64(exp), 5)
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, "test_jwt_secret")

	hash, _ := bcrypt.GenerateFromPassword([]byte("pw1"), bcrypt.DefaultCost)
	user := &models.User{ID: "user-1", Name: "A", Email: "a@x.com", Password: string(hash)}

	// Unknown email and wrong password must be indistinguishable.
	mockRepo.On("GetByEmail", "nobody@x.com").Return(nil, notFoundErr("user with email nobody@x.com")).Once()
	_, _, errUnknown := authService.Login("nobody@x.com", "pw1")

	mockRepo.On("GetByEmail", "a@x.com").Return(user, nil).Once()
	_, _, errWrongPw := authService.Login("a@x.com", "wrong")

	assert.Error(t, errUnknown)
	assert.Error(t, errWrongPw)
	assert.Equal(t, errUnknown.Error(), errWrongPw.Error())

	ae, ok := apperror.FromError(errUnknown)
	assert.True(t, ok)
	assert.Equal(t, apperror.InvalidCredentialsError, ae.Type)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ValidateToken_Rejects(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, "test_jwt_secret")

	_, err := authService.ValidateToken("not-a-token")
	assert.Error(t, err)

	// A token signed with a different secret is rejected.
	other := services.NewAuthService(mockRepo, "other_secret")
	hash, _ := bcrypt.GenerateFromPassword([]byte("pw1"), bcrypt.DefaultCost)
	mockRepo.On("GetByEmail", "a@x.com").Return(&models.User{ID: "u", Email: "a@x.com", Password: string(hash)}, nil).Once()
	token, _, err := other.Login("a@x.com", "pw1")
	assert.NoError(t, err)

	_, err = authService.ValidateToken(token)
	assert.Error(t, err)
	mockRepo.AssertExpectations(t)
}
