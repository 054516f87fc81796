package services

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/igRoy3/SmartWasteManagement/entity"
	"github.com/igRoy3/SmartWasteManagement/pkg/apperr"
	"github.com/igRoy3/SmartWasteManagement/repository"
	"github.com/igRoy3/SmartWasteManagement/utils"
)

// AuthService owns registration, login and profile management.
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

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
	Address   string
	Role      string
}

// Register creates a citizen or collector account. Admin accounts only
// come from seeding.
func (s *AuthService) Register(in RegisterInput) (*entity.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		return nil, apperr.Validation("email", "email is required")
	}
	if len(in.Password) < 8 {
		return nil, apperr.Validation("password", "password must be at least 8 characters")
	}

	role := in.Role
	if role == "" {
		role = entity.RoleCitizen
	}
	if role != entity.RoleCitizen && role != entity.RoleCollector {
		return nil, apperr.Validation("role", "role must be citizen or collector")
	}

	count, err := s.userRepo.CountByEmail(email)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, apperr.Validation("email", "email already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("hash password failed")
	}

	user := &entity.User{
		Email:       email,
		Password:    string(hashed),
		FirstName:   strings.TrimSpace(in.FirstName),
		LastName:    strings.TrimSpace(in.LastName),
		PhoneNumber: strings.TrimSpace(in.Phone),
		Address:     strings.TrimSpace(in.Address),
		Role:        role,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login checks credentials and mints a JWT.
func (s *AuthService) Login(email, password string) (string, *entity.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return "", nil, errors.New("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, errors.New("invalid credentials")
	}

	token, err := utils.GenerateToken(user.ID, user.Role, s.jwtSecret, s.jwtTTL)
	if err != nil {
		return "", nil, errors.New("cannot generate token")
	}

	return token, user, nil
}

func (s *AuthService) GetProfile(userID uint) (*entity.User, error) {
	return s.userRepo.FindByID(userID)
}

func (s *AuthService) UpdateProfile(userID uint, updates map[string]any) (*entity.User, error) {
	if err := s.userRepo.Update(userID, updates); err != nil {
		return nil, err
	}
	return s.userRepo.FindByID(userID)
}

func (s *AuthService) ChangePassword(userID uint, oldPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return apperr.Validation("oldPassword", "wrong password")
	}
	if len(newPassword) < 8 {
		return apperr.Validation("newPassword", "password must be at least 8 characters")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return errors.New("hash password failed")
	}
	return s.userRepo.Update(userID, map[string]any{"password": string(hashed)})
}

// RegisterDevice stores the caller's push token; an empty token clears it.
func (s *AuthService) RegisterDevice(userID uint, token string) error {
	return s.userRepo.SetFCMToken(userID, strings.TrimSpace(token))
}

func (s *AuthService) ListCollectors() ([]entity.User, error) {
	var collectors []entity.User
	if err := s.userRepo.ListByRole(entity.RoleCollector, &collectors); err != nil {
		return nil, err
	}
	return collectors, nil
}
