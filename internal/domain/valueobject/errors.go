package valueobject

import (
	"errors"
	"fmt"
)

// ConfigurationError reports loan terms that cannot produce a schedule,
// such as an unsupported enum value or a balloon with no size. It is
// raised at construction or generation time, never mid-run.
type ConfigurationError struct {
	Field  string
	Reason string
}

// NewConfigurationError creates a ConfigurationError for the given field.
func NewConfigurationError(field, reason string) *ConfigurationError {
	return &ConfigurationError{Field: field, Reason: reason}
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid loan configuration: %s: %s", e.Field, e.Reason)
}

var (
	ErrInvalidStatusTransition = errors.New("invalid status transition")
)
