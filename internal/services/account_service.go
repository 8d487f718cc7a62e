package services

import (
	"context"
	"errors"
	"strings"

	"github.com/senyabanana/freelance-market/internal/errs"
	"github.com/senyabanana/freelance-market/internal/models"
	"github.com/senyabanana/freelance-market/internal/repository"

	"github.com/rs/zerolog"
)

const errBadCredentials = "invalid username or password"

type AccountService struct {
	store  repository.Store
	logger zerolog.Logger
}

// NewAccountService создает новый экземпляр AccountService.
func NewAccountService(deps Deps) *AccountService {
	return &AccountService{store: deps.Store, logger: deps.Logger}
}

// Register создает пользователя. Занятое имя дает ErrConflict.
func (s *AccountService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	user := &models.User{Username: req.Username, Password: req.Password, Role: req.Role}
	if err := s.store.Users().Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("user_id", user.ID).Str("role", string(user.Role)).Msg("user registered")
	return user, nil
}

// Login проверяет имя и пароль и возвращает данные пользователя для сессии.
func (s *AccountService) Login(ctx context.Context, req models.LoginRequest) (*models.Identity, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	user, err := s.store.Users().GetByUsername(ctx, strings.TrimSpace(req.Username))
	if errors.Is(err, errs.ErrNotFound) {
		return nil, errs.Validation(errBadCredentials)
	}
	if err != nil {
		return nil, err
	}
	if user.Password != req.Password {
		return nil, errs.Validation(errBadCredentials)
	}

	identity := user.Identity()
	return &identity, nil
}

// GetUser возвращает пользователя по id.
func (s *AccountService) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	return s.store.Users().GetByID(ctx, userID)
}
