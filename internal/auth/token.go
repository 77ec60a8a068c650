package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// Sentinel errors the codec can surface beyond the jwt library's own.
var (
	ErrTokenEmpty              = errors.New("token is empty")
	ErrUnexpectedSigningMethod = errors.New("unexpected signing method")
)

// Claims describes the signed token payload. The user identifier travels in
// the JWT ID field rather than the subject field.
type Claims struct {
	jwt.RegisteredClaims
}

// UserID returns the identifier the token was minted for.
func (c *Claims) UserID() string {
	return c.ID
}

// Codec mints and verifies HS256-signed tokens.
type Codec struct {
	key        SigningKey
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewCodec builds a codec bound to the process signing key.
func NewCodec(key SigningKey, accessTTL, refreshTTL time.Duration) *Codec {
	if accessTTL <= 0 {
		accessTTL = time.Hour
	}
	if refreshTTL <= 0 {
		refreshTTL = 24 * time.Hour
	}
	return &Codec{key: key, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// Generate signs a token for the user with the given validity window.
func (c *Codec) Generate(userID string, validity time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(validity)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.key.Bytes())
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// GenerateAccessToken mints a short-lived access token.
func (c *Codec) GenerateAccessToken(userID string) (string, time.Time, error) {
	return c.Generate(userID, c.accessTTL)
}

// GenerateRefreshToken mints a long-lived refresh token.
func (c *Codec) GenerateRefreshToken(userID string) (string, time.Time, error) {
	return c.Generate(userID, c.refreshTTL)
}

// ParseAndVerify parses, checks the signature, and enforces expiry in a
// single pass. Callers hold the returned claims for the rest of the request
// instead of re-verifying per claim read. Failure causes stay
// distinguishable through errors.Is (jwt.ErrTokenExpired,
// jwt.ErrTokenSignatureInvalid, jwt.ErrTokenMalformed, ErrTokenEmpty,
// ErrUnexpectedSigningMethod).
func (c *Codec) ParseAndVerify(tokenStr string) (*Claims, error) {
	if tokenStr == "" {
		return nil, ErrTokenEmpty
	}

	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, ErrUnexpectedSigningMethod
		}
		return c.key.Bytes(), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
