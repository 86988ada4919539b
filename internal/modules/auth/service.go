package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"russify/internal/domain"
	"russify/internal/pkg/validator"
	"russify/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

// Service contains all business logic for authentication
type Service struct {
	users UserRepository
	jwt   TokenIssuer
	log   *zap.Logger
}

func NewService(users UserRepository, jwt TokenIssuer, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{users: users, jwt: jwt, log: log}
}

// Register creates a partner account and signs it in.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*Result, error) {
	if errs := validator.Validate(req); errs != nil {
		return nil, validator.Wrap(ErrValidation, errs)
	}
	if err := checkPassword(req.Password, req.PasswordConfirm); err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:        strings.TrimSpace(req.Name),
		CompanyName: trimmedOrNil(req.CompanyName),
		Phone:       strings.TrimSpace(req.Phone),
		Email:       trimmedOrNil(req.Email),
		Role:        domain.RolePartner,
	}
	if err := s.create(ctx, user, req.Password); err != nil {
		return nil, err
	}

	s.log.Info("partner registered", zap.Int64("user_id", user.ID))
	return s.issue(user)
}

// CreateAdmin creates a staff account. It is never exposed over HTTP.
func (s *Service) CreateAdmin(ctx context.Context, req CreateAdminRequest) (*domain.User, error) {
	if errs := validator.Validate(req); errs != nil {
		return nil, validator.Wrap(ErrValidation, errs)
	}
	if err := checkPassword(req.Password, req.Password); err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:  strings.TrimSpace(req.Name),
		Phone: strings.TrimSpace(req.Phone),
		Email: trimmedOrNil(req.Email),
		Role:  domain.RoleAdmin,
	}
	if err := s.create(ctx, user, req.Password); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*Result, error) {
	login := strings.TrimSpace(req.identifier())
	if login == "" || req.Password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issue(user)
}

// ResetPassword sets a new password when phone and email both belong to the
// same account.
func (s *Service) ResetPassword(ctx context.Context, req ResetPasswordRequest) (*Result, error) {
	if err := checkPassword(req.NewPassword, req.PasswordConfirm); err != nil {
		return nil, err
	}

	user, err := s.users.GetByPhone(ctx, strings.TrimSpace(req.Phone))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrResetMismatch
		}
		return nil, err
	}
	if user.Email == nil || !strings.EqualFold(strings.TrimSpace(*user.Email), strings.TrimSpace(req.Email)) {
		return nil, ErrResetMismatch
	}

	hash, err := hashPassword(req.NewPassword)
	if err != nil {
		return nil, err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return nil, err
	}

	s.log.Info("password reset", zap.Int64("user_id", user.ID))
	return s.issue(user)
}

// Me reloads the account so balances are current.
func (s *Service) Me(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *Service) create(ctx context.Context, user *domain.User, password string) error {
	if _, err := s.users.GetByPhone(ctx, user.Phone); err == nil {
		return ErrAccountExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	user.PasswordHash = hash

	if err := s.users.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return ErrAccountExists
		}
		return err
	}
	return nil
}

func (s *Service) issue(user *domain.User) (*Result, error) {
	token, err := s.jwt.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &Result{User: user, Token: token}, nil
}

func checkPassword(password, confirm string) error {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return ErrPasswordTooShort
	}
	if password != confirm {
		return ErrPasswordMismatch
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
