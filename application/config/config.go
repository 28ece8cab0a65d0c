// Package config loads and validates the runtime configuration of a plugin
// bundle.
package config

import (
	stdErrors "errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/meshfx-dev/meshfx-sdk/domain/errors"
	"github.com/meshfx-dev/meshfx-sdk/domain/ports"
)

// Configuration keys.
const (
	KeyLogLevel        = "log_level"
	KeyStrictOrdering  = "strict_ordering"
	KeyTraceSuiteCalls = "trace_suite_calls"
	KeyDefaultTime     = "default_time"
)

// Environment variables read by FromEnv, by configuration key.
var envVars = map[string]string{
	KeyLogLevel:        "MFX_LOG_LEVEL",
	KeyStrictOrdering:  "MFX_STRICT_ORDERING",
	KeyTraceSuiteCalls: "MFX_TRACE_SUITES",
	KeyDefaultTime:     "MFX_DEFAULT_TIME",
}

// Config is the runtime configuration shared by every plugin of a bundle.
type Config struct {
	// LogLevel is the minimum level of emitted log records.
	LogLevel string `json:"log_level" yaml:"log_level" validate:"oneof=debug info warn error" jsonschema:"enum=debug,enum=info,enum=warn,enum=error,default=info"`
	// StrictOrdering rejects actions received out of lifecycle order.
	StrictOrdering bool `json:"strict_ordering" yaml:"strict_ordering" jsonschema:"default=false"`
	// TraceSuiteCalls logs the status of every host suite call.
	TraceSuiteCalls bool `json:"trace_suite_calls" yaml:"trace_suite_calls" jsonschema:"default=false"`
	// DefaultTime is the sample cooked when the host passes no time.
	DefaultTime float64 `json:"default_time" yaml:"default_time" validate:"gte=0" jsonschema:"minimum=0,default=0"`
}

// validate is a package-level singleton; building a validator is expensive.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{LogLevel: "info"}
}

// Validate checks cfg against its validation tags. The first failing field
// is reported as a ConfigError.
func Validate(cfg Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if stdErrors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &errors.ConfigError{
			Field: fe.Field(),
			Err:   fmt.Errorf("failed on '%s' rule (value %v)", fe.Tag(), fe.Value()),
		}
	}
	return &errors.ConfigError{Err: err}
}

// FromMap overlays values onto Default and validates the result.
// Unknown keys and values of the wrong type are rejected.
func FromMap(values Values) (Config, error) {
	cfg := Default()

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		var err error
		switch key {
		case KeyLogLevel:
			cfg.LogLevel, err = MustGetString(values, key)
			cfg.LogLevel = strings.ToLower(cfg.LogLevel)
		case KeyStrictOrdering:
			cfg.StrictOrdering, err = MustGetBool(values, key)
		case KeyTraceSuiteCalls:
			cfg.TraceSuiteCalls, err = MustGetBool(values, key)
		case KeyDefaultTime:
			cfg.DefaultTime, err = MustGetFloat(values, key)
		default:
			err = &errors.ConfigError{Field: key, Err: fmt.Errorf("unknown configuration key")}
		}
		if err != nil {
			return Config{}, err
		}
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FromEnv reads the MFX_* variables through lookup (typically os.LookupEnv)
// and validates the result. Unset variables keep their defaults.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	keys := make([]string, 0, len(envVars))
	for k := range envVars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := make(Values)
	for _, key := range keys {
		env := envVars[key]
		raw, ok := lookup(env)
		if !ok || raw == "" {
			continue
		}
		switch key {
		case KeyStrictOrdering, KeyTraceSuiteCalls:
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return Config{}, &errors.ConfigError{Field: key, Err: fmt.Errorf("%s: %w", env, err)}
			}
			values[key] = b
		case KeyDefaultTime:
			f, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return Config{}, &errors.ConfigError{Field: key, Err: fmt.Errorf("%s: %w", env, err)}
			}
			values[key] = f
		default:
			values[key] = raw
		}
	}
	return FromMap(values)
}

// Load parses data with p and validates the result.
func Load(p ports.ConfigParser, data []byte) (Config, error) {
	values, err := p.Parse(data)
	if err != nil {
		return Config{}, &errors.ConfigError{Err: fmt.Errorf("failed to parse configuration: %w", err)}
	}
	return FromMap(values)
}
