package auth

import (
	"errors"

	jwt "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// Validator wraps the codec's decode path and absorbs every failure into a
// boolean outcome, recording a per-category diagnostic on the way.
type Validator struct {
	codec  *Codec
	logger *zap.Logger
}

// NewValidator builds a validator over the codec.
func NewValidator(codec *Codec, logger *zap.Logger) *Validator {
	return &Validator{codec: codec, logger: logger}
}

// Verify runs the single parse+verify pass, logging the failure category
// when the token is rejected.
func (v *Validator) Verify(tokenStr string) (*Claims, error) {
	claims, err := v.codec.ParseAndVerify(tokenStr)
	if err != nil {
		v.logger.Warn("token rejected",
			zap.String("category", failureCategory(err)),
			zap.Error(err))
		return nil, err
	}
	return claims, nil
}

// IsValid reports whether the token verifies and is unexpired. It never
// raises past this boundary.
func (v *Validator) IsValid(tokenStr string) bool {
	_, err := v.Verify(tokenStr)
	return err == nil
}

// UserID projects the user identifier out of a verified token. The second
// return is false when the token is invalid, meaning the caller is
// unauthenticated rather than hitting a systemic error.
func (v *Validator) UserID(tokenStr string) (string, bool) {
	claims, err := v.Verify(tokenStr)
	if err != nil {
		return "", false
	}
	return claims.UserID(), true
}

func failureCategory(err error) string {
	switch {
	case errors.Is(err, ErrTokenEmpty):
		return "empty_argument"
	case errors.Is(err, jwt.ErrTokenExpired):
		return "expired"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "signature"
	case errors.Is(err, jwt.ErrTokenMalformed):
		return "malformed"
	case errors.Is(err, ErrUnexpectedSigningMethod), errors.Is(err, jwt.ErrTokenUnverifiable):
		return "unsupported"
	default:
		return "invalid"
	}
}
