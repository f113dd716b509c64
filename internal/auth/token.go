package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned for malformed, expired, or forged tokens.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokensDisabled is returned by Sign when no secret is configured.
	ErrTokensDisabled = errors.New("token signing disabled: no secret configured")
)

// Identity is the authenticated caller resolved from a request.
type Identity struct {
	UserID   int
	Username string
}

// TokenService signs and verifies user tokens.
type TokenService struct {
	Secret   []byte
	Issuer   string
	Duration time.Duration
}

// Claims are the JWT claims carried by user tokens.
type Claims struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func NewTokenService(secret string, ttl time.Duration) TokenService {
	return TokenService{
		Secret:   []byte(secret),
		Issuer:   "anime-catalog-service",
		Duration: ttl,
	}
}

// Enabled reports whether a signing secret is configured.
func (ts TokenService) Enabled() bool {
	return len(ts.Secret) > 0
}

// Sign issues a token for the identity and returns its expiry.
func (ts TokenService) Sign(id Identity) (string, time.Time, error) {
	if !ts.Enabled() {
		return "", time.Time{}, ErrTokensDisabled
	}
	now := time.Now()
	exp := now.Add(ts.Duration)

	claims := Claims{
		UserID:   id.UserID,
		Username: id.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.Issuer,
			Subject:   strconv.Itoa(id.UserID),
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString(ts.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return s, exp, nil
}

// Parse verifies a token and returns the identity it carries.
func (ts TokenService) Parse(tokenString string) (*Identity, error) {
	if !ts.Enabled() {
		return nil, ErrInvalidToken
	}
	tok, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		// enforce HS256
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return ts.Secret, nil
	}, jwt.WithIssuer(ts.Issuer))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid || claims.UserID <= 0 {
		return nil, ErrInvalidToken
	}
	return &Identity{UserID: claims.UserID, Username: claims.Username}, nil
}
