package ws

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned when token validation fails
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when token is expired
	ErrExpiredToken = errors.New("token expired")
	// ErrInvalidClaims is returned when claims are invalid
	ErrInvalidClaims = errors.New("invalid claims")
)

// FeedClaims scope a live feed token to one section. Browsers cannot set an
// Authorization header on a websocket upgrade, so clients first trade their
// API key for a short-lived token and pass it as a query parameter.
type FeedClaims struct {
	Section string `json:"section"`
	jwt.RegisteredClaims
}

// TokenService mints and validates live feed tokens
type TokenService struct {
	secretKey []byte
	issuer    string
	expiresIn time.Duration
}

// NewTokenService creates a new token service
func NewTokenService(secretKey, issuer string, expiresIn time.Duration) *TokenService {
	if expiresIn == 0 {
		expiresIn = 5 * time.Minute
	}
	return &TokenService{
		secretKey: []byte(secretKey),
		issuer:    issuer,
		expiresIn: expiresIn,
	}
}

// ExpiresIn returns the token lifetime
func (s *TokenService) ExpiresIn() time.Duration {
	return s.expiresIn
}

// GenerateToken generates a feed token scoped to a section
func (s *TokenService) GenerateToken(section string) (string, error) {
	now := time.Now()
	claims := FeedClaims{
		Section: section,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   section,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiresIn)),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

// ValidateToken validates and parses a feed token
func (s *TokenService) ValidateToken(tokenString string) (*FeedClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &FeedClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secretKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*FeedClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}

	if claims.Section == "" {
		return nil, ErrInvalidClaims
	}

	return claims, nil
}
