package services

import (
	"errors"
	"time"

	"blogpost/internal/apperror"
	"blogpost/internal/models"
	"blogpost/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration, login and bearer token verification.
type AuthService struct {
	userRepo   repositories.UserRepository
	jwtSecret  []byte
	tokenDurat time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: time.Hour,
	}
}

// Register stores a new user with a bcrypt-hashed password. The duplicate
// email check is a lookup before the write, not a storage constraint, so two
// concurrent signups with the same email can both succeed.
func (s *AuthService) Register(name, email, password string) error {
	if _, err := s.userRepo.GetByEmail(email); err == nil {
		return apperror.NewConflictError("User already exists")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return apperror.NewInternalError("failed to check existing user", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return apperror.NewInternalError("failed to hash password", err)
	}

	user := &models.User{
		Name:     name,
		Email:    email,
		Password: string(hashedPassword),
	}
	if err := s.userRepo.Create(user); err != nil {
		return apperror.NewInternalError("failed to register user", err)
	}
	return nil
}

// Login verifies the credentials and issues a signed token embedding the
// user's ID. An unknown email and a wrong password return the identical
// error so callers learn nothing about which check failed.
func (s *AuthService) Login(email, password string) (string, *models.User, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", nil, apperror.NewInvalidCredentialsError("Invalid credentials")
		}
		return "", nil, apperror.NewInternalError("failed to look up user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, apperror.NewInvalidCredentialsError("Invalid credentials")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"exp":     time.Now().Add(s.tokenDurat).Unix(),
		"iat":     time.Now().Unix(),
	})
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, apperror.NewInternalError("failed to sign token", err)
	}

	return tokenString, user, nil
}

// ValidateToken parses and verifies a bearer token, returning its claims.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, apperror.NewInvalidCredentialsError("Invalid or expired token")
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, apperror.NewInvalidCredentialsError("Invalid or expired token")
}

// UserFromClaims resolves the user referenced by validated token claims.
func (s *AuthService) UserFromClaims(claims jwt.MapClaims) (*models.User, error) {
	id, ok := claims["user_id"].(string)
	if !ok || id == "" {
		return nil, apperror.NewInvalidCredentialsError("Invalid or expired token")
	}
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperror.NewInvalidCredentialsError("Invalid or expired token")
		}
		return nil, apperror.NewInternalError("failed to look up user", err)
	}
	return user, nil
}
