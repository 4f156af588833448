package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"parkdeck/internal/models"
	"parkdeck/internal/password"
	"parkdeck/internal/repository"
)

var (
	// ErrEmailInUse is returned when registering a duplicate email.
	ErrEmailInUse = errors.New("auth: email already registered")
	// ErrInvalidCredentials represents a login failure.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
)

// AttendantStore defines the storage contract used by the auth service.
type AttendantStore interface {
	Create(ctx context.Context, attendant *models.Attendant) error
	GetByEmail(ctx context.Context, email string) (*models.Attendant, error)
}

// AuthService contains attendant registration and login logic.
type AuthService struct {
	repo      AttendantStore
	hasher    password.Hasher
	tokenizer *TokenService
	logger    *zap.Logger
}

// NewAuthService builds AuthService.
func NewAuthService(repo AttendantStore, hasher password.Hasher, tokenizer *TokenService, logger *zap.Logger) *AuthService {
	return &AuthService{
		repo:      repo,
		hasher:    hasher,
		tokenizer: tokenizer,
		logger:    logger,
	}
}

// Signup registers a new attendant.
func (s *AuthService) Signup(ctx context.Context, email, plain, role string) (*models.Attendant, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, errors.New("auth: email required")
	}
	if plain == "" {
		return nil, errors.New("auth: password required")
	}
	if role == "" {
		role = "attendant"
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailInUse
	} else if !errors.Is(err, repository.ErrAttendantNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(plain)
	if err != nil {
		return nil, err
	}

	attendant := &models.Attendant{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}

	if err := s.repo.Create(ctx, attendant); err != nil {
		return nil, err
	}

	s.logger.Info("attendant signed up", zap.Int64("attendant_id", attendant.ID), zap.String("email", attendant.Email))
	return attendant, nil
}

// Login authenticates an attendant and produces a JWT.
func (s *AuthService) Login(ctx context.Context, email, plain string) (string, *models.Attendant, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || plain == "" {
		return "", nil, ErrInvalidCredentials
	}

	attendant, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrAttendantNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := s.hasher.Compare(attendant.PasswordHash, plain); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokenizer.GenerateToken(attendant.ID, attendant.Role)
	if err != nil {
		return "", nil, err
	}

	return token, attendant, nil
}
