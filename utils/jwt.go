package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
)

// ErrInvalidToken is returned for any token that fails validation.
var ErrInvalidToken = errors.New("invalid token")

// TokenManager signs and validates HS256 tokens with a shared secret.
// Tokens are issued by the account service; this API only validates them.
type TokenManager struct {
	secret []byte
}

// NewTokenManager returns a manager for the given secret.
func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secret: []byte(secret)}
}

// GenerateToken creates a signed JWT token with the given subject (the userID) and email.
// The token expires after the specified duration.
func (m *TokenManager) GenerateToken(subject, email string, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":   subject,
		"email": email,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ValidateToken parses and validates a token string and returns the token if valid.
func (m *TokenManager) ValidateToken(tokenString string) (*jwt.Token, error) {
	if len(m.secret) == 0 {
		return nil, errors.New("token secret not configured")
	}
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
}

// ExtractIDFromToken extracts the ID (subject) from a valid JWT token string.
func (m *TokenManager) ExtractIDFromToken(tokenString string) (string, error) {
	sub, _, err := m.ExtractClaims(tokenString)
	return sub, err
}

// ExtractClaims returns the subject and the optional email claim of a valid token.
func (m *TokenManager) ExtractClaims(tokenString string) (subject, email string, err error) {
	token, err := m.ValidateToken(tokenString)
	if err != nil {
		return "", "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", "", ErrInvalidToken
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", "", errors.New("token does not contain a valid 'sub' claim")
	}
	email, _ = claims["email"].(string)
	return sub, email, nil
}
