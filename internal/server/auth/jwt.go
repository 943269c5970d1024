// Package auth implements credential hashing and identity token issuance
// and verification.
package auth

import (
	"time"

	"github.com/dmitrijs2005/usermanagement/internal/common"
	"github.com/dmitrijs2005/usermanagement/internal/server/identity"
	"github.com/golang-jwt/jwt/v5"
)

// TokenValidity is the fixed lifetime of an identity token.
const TokenValidity = 7 * 24 * time.Hour

// Claims is the signed payload: the account identity plus registered
// iat/exp claims.
type Claims struct {
	UserID   int64  `json:"userId"`
	Email    string `json:"email"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies HS256 identity tokens. Tokens are not
// stored anywhere, so an issued token stays valid until it expires.
type TokenService struct {
	secretKey []byte
	validity  time.Duration
	now       func() time.Time
}

// TokenOption customizes a TokenService.
type TokenOption func(*TokenService)

// WithClock replaces time.Now for issuance and expiry checks.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

// WithValidity overrides TokenValidity.
func WithValidity(d time.Duration) TokenOption {
	return func(s *TokenService) { s.validity = d }
}

// NewTokenService returns common.ErrMissingSigningKey when secretKey is empty.
func NewTokenService(secretKey string, opts ...TokenOption) (*TokenService, error) {
	if secretKey == "" {
		return nil, common.ErrMissingSigningKey
	}
	s := &TokenService{
		secretKey: []byte(secretKey),
		validity:  TokenValidity,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue signs a token for id that expires validity after now.
func (s *TokenService) Issue(id identity.Identity) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:   id.AccountID,
		Email:    id.Email,
		Username: id.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.validity)),
		},
	})

	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Verify checks the signature and expiry of tokenString and returns the
// identity it carries. Every failure is reported as common.ErrInvalidToken.
func (s *TokenService) Verify(tokenString string) (identity.Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return identity.Identity{}, common.ErrInvalidToken
	}

	return identity.Identity{
		AccountID: claims.UserID,
		Email:     claims.Email,
		Username:  claims.Username,
	}, nil
}
