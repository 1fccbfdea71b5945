package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/el-ostaa/ostaa-api/config"
	"github.com/el-ostaa/ostaa-api/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionClaims is the payload of every session token
type SessionClaims struct {
	Role      string `json:"role"`
	AdminRole string `json:"admin_role,omitempty"`
	Name      string `json:"name"`
	jwt.RegisteredClaims
}

// IssuedToken is a signed session token and its expiry
type IssuedToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	ID        string    `json:"-"`
}

// TokenService signs HS256 session tokens
type TokenService struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
}

// NewTokenService builds a TokenService from the loaded configuration
func NewTokenService(cfg *config.Config) *TokenService {
	return &TokenService{
		secret:   []byte(cfg.JWTSecret),
		issuer:   cfg.JWTIssuer,
		audience: cfg.JWTAudience,
		ttl:      cfg.TokenTTL,
	}
}

// AdminSubject is the token subject used for an admin tier
func AdminSubject(adminRole string) string {
	return "admin:" + adminRole
}

// IssueForUser issues a token for a customer or technician
func (s *TokenService) IssueForUser(user *models.User) (*IssuedToken, error) {
	return s.issue(user.ID, user.Role, "", user.Name)
}

// IssueForAdmin issues a token for an admin tier, carrying the display name
func (s *TokenService) IssueForAdmin(adminRole, name string) (*IssuedToken, error) {
	return s.issue(AdminSubject(adminRole), models.RoleAdmin, adminRole, name)
}

func (s *TokenService) issue(subject, role, adminRole, name string) (*IssuedToken, error) {
	now := time.Now()
	expiresAt := now.Add(s.ttl)
	id := uuid.NewString()

	claims := &SessionClaims{
		Role:      role,
		AdminRole: adminRole,
		Name:      name,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			Subject:   subject,
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &IssuedToken{Token: signed, ExpiresAt: expiresAt, ID: id}, nil
}

// Parse validates a token signed by this service and returns its claims
func (s *TokenService) Parse(token string) (*SessionClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	},
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*SessionClaims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
