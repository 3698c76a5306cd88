package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/wasteops-portal/internal/auth"
	"github.com/nurpe/wasteops-portal/internal/model"
)

type ProfileStore interface {
	Create(ctx context.Context, profile model.Profile) (*model.Profile, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Profile, error)
	FindByEmail(ctx context.Context, email string) (*model.Profile, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

type CitizenStore interface {
	UpsertByEmail(ctx context.Context, fullName, email string) (*model.Citizen, error)
}

type TokenIssuer interface {
	Issue(profile model.Profile) (string, error)
}

type AuthService struct {
	profiles ProfileStore
	citizens CitizenStore
	tokens   TokenIssuer
}

func NewAuthService(profiles ProfileStore, citizens CitizenStore, tokens TokenIssuer) *AuthService {
	return &AuthService{profiles: profiles, citizens: citizens, tokens: tokens}
}

type SignUpInput struct {
	Email    string
	Password string
	FullName string
	Role     string
}

func (s *AuthService) SignUp(ctx context.Context, input SignUpInput) (*model.Profile, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if email == "" || input.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	role := model.RoleCitizen
	if input.Role != "" {
		parsed, ok := model.ParseRole(input.Role)
		if !ok {
			return nil, fmt.Errorf("%w: invalid role", ErrInvalidInput)
		}
		// Admin accounts are provisioned out of band, never self-registered.
		if parsed == model.RoleAdmin {
			return nil, ErrPermissionDenied
		}
		role = parsed
	}

	exists, err := s.profiles.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	profile, err := s.profiles.Create(ctx, model.Profile{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(input.FullName),
		Email:        email,
		Role:         role,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	if role == model.RoleCitizen {
		if _, err := s.citizens.UpsertByEmail(ctx, profile.Name, profile.Email); err != nil {
			return nil, fmt.Errorf("signup succeeded but citizen record failed: %w", err)
		}
	}
	return profile, nil
}

type SignInResult struct {
	Token   string
	Profile model.Profile
}

func (s *AuthService) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	profile, err := s.profiles.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(profile.PasswordHash, password) {
		return nil, ErrBadCredentials
	}

	token, err := s.tokens.Issue(*profile)
	if err != nil {
		return nil, err
	}
	return &SignInResult{Token: token, Profile: *profile}, nil
}

func (s *AuthService) SaveCitizen(ctx context.Context, fullName, email string) (*model.Citizen, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	return s.citizens.UpsertByEmail(ctx, strings.TrimSpace(fullName), email)
}

func (s *AuthService) Me(ctx context.Context, principal model.Principal) (*model.Profile, error) {
	profile, err := s.profiles.GetByID(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return profile, nil
}
