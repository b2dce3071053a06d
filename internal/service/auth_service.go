package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jengzang/fleet-tracker-go/internal/auth"
	"github.com/jengzang/fleet-tracker-go/internal/models"
	"github.com/jengzang/fleet-tracker-go/internal/repository"
)

// AuthService handles accounts, logins and token refresh
type AuthService struct {
	users  *repository.UserRepository
	tokens *auth.TokenIssuer
	cost   int
	clock  Clock
	log    zerolog.Logger
}

// NewAuthService creates a new auth service. cost is the bcrypt work factor.
func NewAuthService(users *repository.UserRepository, tokens *auth.TokenIssuer, cost int, clock Clock, log zerolog.Logger) *AuthService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &AuthService{users: users, tokens: tokens, cost: cost, clock: clock, log: log}
}

// Register creates a USER account.
func (s *AuthService) Register(ctx context.Context, in models.RegisterInput) (*models.User, error) {
	return s.CreateUser(ctx, in, models.RoleUser)
}

// CreateUser creates an account with the given role.
func (s *AuthService) CreateUser(ctx context.Context, in models.RegisterInput, role string) (*models.User, error) {
	email := strings.TrimSpace(in.Email)
	name := strings.TrimSpace(in.Name)
	switch {
	case email == "":
		return nil, invalidArgument("email is required")
	case name == "":
		return nil, invalidArgument("name is required")
	case len(in.Password) < 6:
		return nil, invalidArgument("password must be at least 6 characters")
	case role != models.RoleAdmin && role != models.RoleUser:
		return nil, invalidArgument("unknown role %q", role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		// only fails for passwords over 72 bytes
		return nil, invalidArgument("password: %v", err)
	}

	now := s.clock.Now()
	u := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflict("email is already registered")
		}
		return nil, storeUnavailable("create user", err)
	}

	s.log.Info().Str("user_id", u.ID).Str("role", role).Msg("user created")
	return u, nil
}

// Login checks credentials and issues an access/refresh token pair.
func (s *AuthService) Login(ctx context.Context, in models.LoginInput) (*models.LoginResult, error) {
	u, err := s.users.GetByEmail(ctx, strings.TrimSpace(in.Email))
	if err != nil {
		return nil, storeUnavailable("find user", err)
	}
	if u == nil || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)) != nil {
		return nil, unauthorized("invalid credentials")
	}

	access, err := s.tokens.IssueAccess(u)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.IssueRefresh(u.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", u.ID).Msg("user logged in")
	return &models.LoginResult{User: u, AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh exchanges a valid refresh token for a new access token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.RefreshResult, error) {
	invalid := unauthorized("invalid refresh token")

	claims, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return nil, invalid
	}
	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, storeUnavailable("find user", err)
	}
	if u == nil {
		return nil, invalid
	}

	access, err := s.tokens.IssueAccess(u)
	if err != nil {
		return nil, err
	}
	return &models.RefreshResult{AccessToken: access}, nil
}

// GetUser returns the account with the given ID.
func (s *AuthService) GetUser(ctx context.Context, id string) (*models.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, storeUnavailable("get user", err)
	}
	if u == nil {
		return nil, notFound("user")
	}
	return u, nil
}

// ListUsers returns every account.
func (s *AuthService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, storeUnavailable("list users", err)
	}
	return users, nil
}
