package service

import (
	"errors"
	"strings"

	"carty/config"
	"carty/internal/auth"
	"carty/internal/models"
	"carty/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrPhoneExists  = errors.New("phone number already registered")
	ErrInvalidCreds = errors.New("invalid credentials")
)

type AuthService struct {
	cfg      *config.Config
	userRepo *repository.UserRepository
	stores   *repository.StoreRepository
}

func NewAuthService(cfg *config.Config, userRepo *repository.UserRepository, stores *repository.StoreRepository) *AuthService {
	return &AuthService{cfg: cfg, userRepo: userRepo, stores: stores}
}

func (s *AuthService) Register(phone, password, country, state string) (*models.User, string, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" || len(password) < 6 {
		return nil, "", ErrInvalidInput
	}
	_, err := s.userRepo.GetByPhone(phone)
	if err == nil {
		return nil, "", ErrPhoneExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}
	if country == "" {
		country = "NG"
	}
	u := &models.User{
		Phone:        phone,
		PasswordHash: string(hash),
		Country:      strings.ToUpper(country),
		State:        state,
	}
	if err := s.userRepo.Create(u); err != nil {
		return nil, "", err
	}
	token, err := auth.GenerateAccessToken(&s.cfg.JWT, u.ID, u.Phone)
	if err != nil {
		return u, "", err
	}
	return u, token, nil
}

func (s *AuthService) Login(phone, password string) (*models.User, string, error) {
	u, err := s.userRepo.GetByPhone(strings.TrimSpace(phone))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCreds
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCreds
	}
	token, err := auth.GenerateAccessToken(&s.cfg.JWT, u.ID, u.Phone)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Me returns the user and their store, if any.
func (s *AuthService) Me(userID uint) (*models.User, *models.Store, error) {
	u, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, nil, notFound(err, "user")
	}
	st, err := s.stores.GetByUserID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return u, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return u, st, nil
}

func (s *AuthService) RegisterFCMToken(userID uint, token string) error {
	return s.userRepo.UpdateFCMToken(userID, token)
}
