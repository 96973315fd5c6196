package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Ram-SrinivasChandran/cos-spring-project/entity"
	"github.com/Ram-SrinivasChandran/cos-spring-project/repository"
	"github.com/Ram-SrinivasChandran/cos-spring-project/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var errBadCredentials = fmt.Errorf("invalid credentials: %w", ErrUnauthorized)

// AuthService handles registration and login.
type AuthService struct {
	userRepo  *repository.UserRepository
	jwtSecret string
	jwtTTL    time.Duration
}

func NewAuthService(repo *repository.UserRepository, secret string, ttl time.Duration) *AuthService {
	return &AuthService{
		userRepo:  repo,
		jwtSecret: secret,
		jwtTTL:    ttl,
	}
}

// Register creates a customer account; staff accounts are only seeded.
func (s *AuthService) Register(email, password, firstName, lastName string) (*entity.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	count, err := s.userRepo.CountByEmail(email)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, invalid("email", "unique", "email already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &entity.User{
		Email:     email,
		Password:  string(hashed),
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		Role:      entity.RoleCustomer,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login checks the password and issues a JWT.
func (s *AuthService) Login(email, password string) (string, *entity.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.userRepo.FindByEmail(email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, errBadCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, errBadCredentials
	}

	token, err := utils.GenerateToken(user.ID, user.Role, s.jwtSecret, s.jwtTTL)
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}
	return token, user, nil
}

func (s *AuthService) GetProfile(userID uint) (*entity.User, error) {
	u, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, notFound(err, "user", userID)
	}
	return u, nil
}
