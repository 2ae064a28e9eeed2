package elasticsearch

import "errors"

// ConfigurationError reports a connection setting that is missing or unusable.
type ConfigurationError struct {
	Field string
}

func (e *ConfigurationError) Error() string {
	return "elasticsearch: " + e.Field + " needs a value"
}

// Is makes every ConfigurationError for the same field match, so
// errors.Is(err, ErrIndexRequired) works for any returned instance.
func (e *ConfigurationError) Is(target error) bool {
	t, ok := target.(*ConfigurationError)
	return ok && t.Field == e.Field
}

// ErrIndexRequired is returned by every operation of a client without an index name.
var ErrIndexRequired = &ConfigurationError{Field: "index"}

// IsConfigurationError reports whether err is, or wraps, a ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
