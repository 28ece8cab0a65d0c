// Package errors provides the domain error types of the plugin runtime.
// All error types support unwrapping via errors.As() and errors.Is(), and
// each one knows the status code it maps to at the entry point.
package errors

import (
	stdErrors "errors"
	"fmt"

	"github.com/meshfx-dev/meshfx-sdk/domain/entities"
)

// StatusError is implemented by errors that map onto a specific status code.
// New error types only need to implement this interface to be reported
// correctly by ToStatus.
type StatusError interface {
	error
	Status() entities.Status
}

// ToStatus converts a Go error into the status returned to the host.
// A nil error is StatusOK; unclassified errors are StatusErrUnknown.
func ToStatus(err error) entities.Status {
	if err == nil {
		return entities.StatusOK
	}

	var se StatusError
	if stdErrors.As(err, &se) {
		return se.Status()
	}

	return entities.StatusErrUnknown
}

// MissingHostFeatureError reports a suite the host did not provide.
// It is permanent: retrying the action cannot succeed.
type MissingHostFeatureError struct {
	Suite   string
	Version int
}

func (e *MissingHostFeatureError) Error() string {
	return fmt.Sprintf("host does not provide suite %s v%d", e.Suite, e.Version)
}

// Status implements StatusError.
func (e *MissingHostFeatureError) Status() entities.Status {
	return entities.StatusErrMissingHostFeature
}

// SuiteError reports a non-success status returned by a host suite call.
// The host's status is propagated unchanged.
type SuiteError struct {
	Suite  string
	Method string
	Code   entities.Status
}

func (e *SuiteError) Error() string {
	return fmt.Sprintf("suite method %s.%s returned %s", e.Suite, e.Method, e.Code)
}

// Status implements StatusError.
func (e *SuiteError) Status() entities.Status {
	if !e.Code.IsError() {
		return entities.StatusErrUnknown
	}
	return e.Code
}

// UnknownInputError reports an input or output slot that could not be resolved.
type UnknownInputError struct {
	Err  error
	Name string
}

func (e *UnknownInputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unknown mesh input %q: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("unknown mesh input %q", e.Name)
}

func (e *UnknownInputError) Unwrap() error {
	return e.Err
}

// Status implements StatusError.
func (e *UnknownInputError) Status() entities.Status {
	return entities.StatusErrUnknown
}

// InvalidStateError reports an action received out of lifecycle order.
type InvalidStateError struct {
	Action entities.Action
	State  string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("action %s is not valid in state %s", e.Action, e.State)
}

// Status implements StatusError.
func (e *InvalidStateError) Status() entities.Status {
	return entities.StatusFailed
}

// BadIndexError reports a plugin index outside the registry.
type BadIndexError struct {
	Index int
	Count int
}

func (e *BadIndexError) Error() string {
	return fmt.Sprintf("plugin index %d out of range [0,%d)", e.Index, e.Count)
}

// Status implements StatusError.
func (e *BadIndexError) Status() entities.Status {
	return entities.StatusErrBadIndex
}

// GeometryError reports incoherent mesh data, either produced by a transform
// or found in host buffers that do not match the allocated counts.
type GeometryError struct {
	Err   error
	Field string
}

func (e *GeometryError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid geometry (%s): %v", e.Field, e.Err)
	}
	return fmt.Sprintf("invalid geometry: %v", e.Err)
}

func (e *GeometryError) Unwrap() error {
	return e.Err
}

// Status implements StatusError.
func (e *GeometryError) Status() entities.Status {
	return entities.StatusErrValue
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Err   error
	Field string
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config validation failed for field '%s': %v", e.Field, e.Err)
	}
	return fmt.Sprintf("config validation failed: %v", e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Status implements StatusError.
func (e *ConfigError) Status() entities.Status {
	return entities.StatusErrValue
}

// PanicError reports a panic recovered inside an action handler.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	if err, ok := e.Value.(error); ok {
		return "panic: " + err.Error()
	}
	if s, ok := e.Value.(string); ok {
		return "panic: " + s
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// Status implements StatusError.
func (e *PanicError) Status() entities.Status {
	return entities.StatusErrFatal
}
