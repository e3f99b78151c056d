package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"confighub-core/internal/application/dto"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrInvalidCredentials is returned when the login pair does not match
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken is returned when a bearer token fails verification
	ErrInvalidToken = errors.New("invalid token")
)

// AuthConfig holds the single shared credential and token settings
type AuthConfig struct {
	Username  string
	Password  string
	Secret    []byte
	Issuer    string
	ExpiresIn time.Duration
}

// Claims is the JWT payload issued at login
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// AuthService validates the configured credentials and issues signed tokens
type AuthService struct {
	cfg AuthConfig
	now func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(cfg AuthConfig) *AuthService {
	if cfg.ExpiresIn <= 0 {
		cfg.ExpiresIn = time.Hour
	}
	return &AuthService{cfg: cfg, now: time.Now}
}

// Login compares the credentials and returns an access token
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.cfg.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(s.cfg.Password)) == 1
	if !userOK || !passOK {
		return nil, ErrInvalidCredentials
	}

	token, err := s.issue(req.Username)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{AccessToken: token}, nil
}

func (s *AuthService) issue(username string) (string, error) {
	now := s.now()
	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   "1",
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.ExpiresIn)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken parses and validates a bearer token
func (s *AuthService) VerifyToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.cfg.Issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.cfg.Secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
