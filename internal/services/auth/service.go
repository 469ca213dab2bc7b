package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	// ErrInvalidToken covers bad signatures, expiry and malformed claims alike
	ErrInvalidToken = errors.New("invalid token")
)

var errMissingClaims = errors.New("token is missing the sub or company claim")

// Claims identify the caller of a completion request. Subject and Company must be
// present in the token but may be empty strings.
type Claims struct {
	Subject *string `json:"sub"`
	Company *string `json:"company"`
	jwt.RegisteredClaims
}

// GetSubject shadows the registered claim so the jwt validator sees the same value
func (c Claims) GetSubject() (string, error) {
	return c.SubjectValue(), nil
}

// Validate is run by the jwt parser after the registered claims are checked
func (c Claims) Validate() error {
	if c.Subject == nil || c.Company == nil {
		return errMissingClaims
	}
	return nil
}

func (c Claims) SubjectValue() string {
	if c.Subject == nil {
		return ""
	}
	return *c.Subject
}

func (c Claims) CompanyValue() string {
	if c.Company == nil {
		return ""
	}
	return *c.Company
}

type Service struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
}

type Option func(*Service)

// WithClock overrides the time source used for issuing and validating tokens
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(secret []byte, lifetime time.Duration, opts ...Option) *Service {
	s := &Service{
		secret:   secret,
		lifetime: lifetime,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Lifetime returns how long issued tokens remain valid
func (s *Service) Lifetime() time.Duration {
	return s.lifetime
}

// IssueToken signs a HS256 token for the given subject and company
func (s *Service) IssueToken(subject, company string) (string, error) {
	now := s.now()
	claims := Claims{
		Subject: &subject,
		Company: &company,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.lifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	log.Debug().
		Str("subject", subject).
		Str("company", company).
		Time("expires_at", claims.ExpiresAt.Time).
		Msg("Issued token")

	return signed, nil
}

// ValidateToken verifies the signature and expiry of tokenString and returns its claims.
// Every failure is reported as ErrInvalidToken.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		log.Debug().Err(err).Msg("Failed to parse token")
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// ExtractToken returns the bearer token from the Authorization header
func ExtractToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", ErrMissingToken
	}

	scheme, token, found := strings.Cut(authHeader, " ")
	token = strings.TrimSpace(token)
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		log.Debug().Msg("Malformed Authorization header")
		return "", ErrInvalidToken
	}

	return token, nil
}
