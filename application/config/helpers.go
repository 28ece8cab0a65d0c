package config

import (
	"fmt"

	"github.com/meshfx-dev/meshfx-sdk/domain/errors"
)

// Values is raw, unvalidated configuration as decoded from YAML, JSON or
// the environment.
type Values = map[string]any

// GetString extracts a string, returning (value, found).
func GetString(values Values, key string) (string, bool) {
	v, ok := values[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// GetFloat extracts a float64, handling float64, int and int64.
func GetFloat(values Values, key string) (float64, bool) {
	v, ok := values[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// GetBool extracts a bool, returning (value, found).
func GetBool(values Values, key string) (bool, bool) {
	v, ok := values[key]
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// MustGetString extracts a required string or returns a ConfigError.
func MustGetString(values Values, key string) (string, error) {
	s, ok := GetString(values, key)
	if !ok {
		return "", &errors.ConfigError{
			Field: key,
			Err:   fmt.Errorf("required string field '%s' is missing or not a string", key),
		}
	}
	return s, nil
}

// MustGetBool extracts a required bool or returns a ConfigError.
func MustGetBool(values Values, key string) (bool, error) {
	b, ok := GetBool(values, key)
	if !ok {
		return false, &errors.ConfigError{
			Field: key,
			Err:   fmt.Errorf("required bool field '%s' is missing or not a boolean", key),
		}
	}
	return b, nil
}

// MustGetFloat extracts a required float64 or returns a ConfigError.
func MustGetFloat(values Values, key string) (float64, error) {
	f, ok := GetFloat(values, key)
	if !ok {
		return 0, &errors.ConfigError{
			Field: key,
			Err:   fmt.Errorf("required float field '%s' is missing or not a number", key),
		}
	}
	return f, nil
}
