package access

import (
	"errors"
	"fmt"
)

// ErrInvalidPrincipal marks a principal that is missing its user ID or carries
// a role outside the enumeration. Resolution recovers locally: the safe
// default is no permissions and no visible records, never a granted request.
var ErrInvalidPrincipal = errors.New("access: invalid principal")

// ConfigurationError reports a malformed permission catalog or role table.
// It is detected once at boot and must stop the process before any
// authorization decision is served.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("access: configuration error: %s", e.Reason)
}

func configErrorf(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}
