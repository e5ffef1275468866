package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/GTDGit/resell_api/internal/models"
	"github.com/GTDGit/resell_api/internal/utils"
)

// ProfileStore is the profile persistence auth needs.
type ProfileStore interface {
	GetByEmail(ctx context.Context, email string) (*models.Profile, error)
	Create(ctx context.Context, p *models.Profile) error
}

// AuthService logs profiles in and issues JWTs.
type AuthService struct {
	profiles ProfileStore
}

// NewAuthService creates an AuthService.
func NewAuthService(profiles ProfileStore) *AuthService {
	return &AuthService{profiles: profiles}
}

// Login checks the password and returns a signed token with the profile.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.Profile, error) {
	email = strings.TrimSpace(email)
	log.Debug().Str("email", email).Msg("Login attempt")

	profile, err := s.profiles.GetByEmail(ctx, email)
	if err != nil {
		log.Error().Err(err).Str("email", email).Msg("Failed to get profile by email")
		return "", nil, utils.ErrInvalidCredentials
	}
	if profile == nil || profile.PasswordHash == "" {
		return "", nil, utils.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)); err != nil {
		log.Warn().Str("email", email).Msg("Password verification failed")
		return "", nil, utils.ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(profile.ID, profile.Email, string(profile.Role))
	if err != nil {
		return "", nil, err
	}

	log.Info().Str("email", email).Str("role", string(profile.Role)).Msg("Login successful")
	return token, profile, nil
}

// EnsureProfile creates a profile with a bcrypt password unless one with the
// same email exists. Used to bootstrap the first admin.
func (s *AuthService) EnsureProfile(ctx context.Context, email, password, fullName string, role models.Role) (*models.Profile, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("invalid role %q", role)
	}
	existing, err := s.profiles.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	p := &models.Profile{
		Email:        email,
		FullName:     fullName,
		Role:         role,
		PasswordHash: string(hash),
	}
	if err := s.profiles.Create(ctx, p); err != nil {
		return nil, err
	}
	log.Info().Str("email", email).Str("role", string(role)).Msg("Profile created")
	return p, nil
}
