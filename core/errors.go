package core

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrNotFound is a sentinel error for "not found" cases
var ErrNotFound = errors.New("not found")

// ErrPersistenceConflict is returned when an insert-if-absent write loses to a concurrent writer
var ErrPersistenceConflict = errors.New("persistence conflict")

var notFoundRegex = regexp.MustCompile(`(?i)not found`)

// IsNotFoundError checks if an error is a "not found" error
// This handles both the ErrNotFound sentinel and string-based errors from drivers
func IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNotFound) {
		return true
	}
	return notFoundRegex.MatchString(err.Error())
}

// ConfigError describes an invalid team configuration (bad time format or unknown timezone).
// It is fatal for the team's scheduling pass only.
type ConfigError struct {
	TeamID string
	Field  string
	Value  string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.TeamID == "" {
		return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("team %s has invalid %s %q: %v", e.TeamID, e.Field, e.Value, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IsConfigError reports whether err is (or wraps) a ConfigError
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}
