package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/jengzang/fleet-tracker-go/internal/config"
	"github.com/jengzang/fleet-tracker-go/internal/models"
)

const issuer = "fleet-tracker"

// ErrInvalidToken is returned for any token that fails verification.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the JWT payload. Access tokens carry all three identity fields,
// refresh tokens only UserID.
type Claims struct {
	UserID string `json:"id"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the claims carry the admin role.
func (c *Claims) IsAdmin() bool {
	return c.Role == models.RoleAdmin
}

// TokenIssuer signs and verifies HS256 access and refresh tokens with
// separate secrets.
type TokenIssuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

// NewTokenIssuer creates an issuer from the auth configuration.
func NewTokenIssuer(cfg config.AuthConfig) *TokenIssuer {
	return &TokenIssuer{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		now:           time.Now,
	}
}

// WithClock returns a copy of the issuer that reads time from now.
func (i *TokenIssuer) WithClock(now func() time.Time) *TokenIssuer {
	cp := *i
	cp.now = now
	return &cp
}

func (i *TokenIssuer) sign(claims Claims, secret []byte, ttl time.Duration) (string, error) {
	now := i.now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    issuer,
		Subject:   claims.UserID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return s, nil
}

// IssueAccess creates a short-lived token identifying u.
func (i *TokenIssuer) IssueAccess(u *models.User) (string, error) {
	return i.sign(Claims{UserID: u.ID, Email: u.Email, Role: u.Role}, i.accessSecret, i.accessTTL)
}

// IssueRefresh creates a long-lived token that can only mint access tokens.
func (i *TokenIssuer) IssueRefresh(userID string) (string, error) {
	return i.sign(Claims{UserID: userID}, i.refreshSecret, i.refreshTTL)
}

func (i *TokenIssuer) parse(tokenStr string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ParseAccess verifies an access token and its identity fields.
func (i *TokenIssuer) ParseAccess(tokenStr string) (*Claims, error) {
	claims, err := i.parse(tokenStr, i.accessSecret)
	if err != nil {
		return nil, err
	}
	if claims.Email == "" || claims.Role == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ParseRefresh verifies a refresh token.
func (i *TokenIssuer) ParseRefresh(tokenStr string) (*Claims, error) {
	return i.parse(tokenStr, i.refreshSecret)
}
