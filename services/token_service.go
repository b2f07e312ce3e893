package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verification failure kinds. The auth middleware maps each to its own
// user-facing message, so they must stay distinguishable.
var (
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenInvalid   = errors.New("token signature invalid")
	ErrTokenMalformed = errors.New("token malformed")
)

// Claims carries the token subject alongside the registered claims.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
}

// TokenService issues and verifies signed bearer tokens. Tokens are
// stateless: there is no revocation list, expiry is the only bound on
// their lifetime. Logout is a client-side discard.
type TokenService struct {
	secret []byte
	expiry time.Duration
}

// NewTokenService initializes a TokenService with the signing secret
// and token validity duration.
func NewTokenService(secret string, expiry time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), expiry: expiry}
}

// Issue signs a token for the given user id.
func (s *TokenService) Issue(userID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
		UserID: userID,
	})
	return token.SignedString(s.secret)
}

// Verify parses tokenString and returns the user id it was issued for.
// Failures are reported as ErrTokenExpired, ErrTokenInvalid or
// ErrTokenMalformed.
func (s *TokenService) Verify(tokenString string) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return "", ErrTokenMalformed
		default:
			return "", ErrTokenInvalid
		}
	}

	if !token.Valid || claims.UserID == "" {
		return "", ErrTokenInvalid
	}
	return claims.UserID, nil
}
