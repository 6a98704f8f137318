package searchscope

import "fmt"

// ConfigError reports a malformed field configuration. It is returned at
// setup time, never from ToSQL.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "searchscope: " + e.Reason
}

func configErrorf(format string, args ...any) *ConfigError {
	return &ConfigError{Reason: fmt.Sprintf(format, args...)}
}

// BadValueError reports a runtime term that cannot be coerced to its field's
// value type.
type BadValueError struct {
	Field string
	Value any

	cause error
}

func (e *BadValueError) Error() string {
	return fmt.Sprintf("searchscope: bad search value %v for field %q: %v", e.Value, e.Field, e.cause)
}

func (e *BadValueError) Unwrap() error {
	return e.cause
}
