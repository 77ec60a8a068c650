package validation

import (
	"fmt"
	"net/mail"
	"strings"

	apperrors "github.com/spec-kit/auth-service/pkg/util"
)

// Collector accumulates field violations in the order they are checked, so
// the error payload lists them in a stable, reported order.
type Collector struct {
	violations []apperrors.FieldViolation
}

// New returns an empty collector.
func New() *Collector {
	return &Collector{}
}

// Add records a violation for the field.
func (c *Collector) Add(field, message string) {
	c.violations = append(c.violations, apperrors.FieldViolation{Field: field, Message: message})
}

// RequireNonEmpty flags blank values.
func (c *Collector) RequireNonEmpty(field, value string) {
	if strings.TrimSpace(value) == "" {
		c.Add(field, fmt.Sprintf("%s must not be blank", field))
	}
}

// RequireEmail flags values that do not parse as an address.
func (c *Collector) RequireEmail(field, value string) {
	if strings.TrimSpace(value) == "" {
		c.Add(field, fmt.Sprintf("%s must not be blank", field))
		return
	}
	if _, err := mail.ParseAddress(value); err != nil {
		c.Add(field, fmt.Sprintf("%s must be a valid email address", field))
	}
}

// RequireMinLength flags values shorter than min characters.
func (c *Collector) RequireMinLength(field, value string, min int) {
	if len(value) < min {
		c.Add(field, fmt.Sprintf("%s must be at least %d characters", field, min))
	}
}

// Err returns a validation failure carrying the ordered violations, or nil
// when every check passed.
func (c *Collector) Err() error {
	if len(c.violations) == 0 {
		return nil
	}
	return apperrors.NewValidationError(c.violations)
}
