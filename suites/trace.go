package suites

import (
	"context"
	"log/slog"

	"github.com/meshfx-dev/meshfx-sdk/domain/entities"
	"github.com/meshfx-dev/meshfx-sdk/domain/ports"
)

// Call describes one completed suite call.
type Call struct {
	Suite  string
	Method string
	Status entities.Status
}

// Observer is notified after every suite call made through traced suites.
// Observers run in registration order.
type Observer func(Call)

// Trace returns suites whose every call is reported to the observers.
// With no observers, s is returned unchanged.
func Trace(s *Suites, observers ...Observer) *Suites {
	if len(observers) == 0 {
		return s
	}
	notify := func(suite string) func(method string, status entities.Status) {
		return func(method string, status entities.Status) {
			call := Call{Suite: suite, Method: method, Status: status}
			for _, obs := range observers {
				obs(call)
			}
		}
	}
	return &Suites{
		Property:   &tracedPropertySuite{next: s.Property, observe: notify(entities.PropertySuiteName)},
		MeshEffect: &tracedMeshEffectSuite{next: s.MeshEffect, observe: notify(entities.MeshEffectSuiteName)},
	}
}

// LoggingObserver logs every suite call at debug level, and failed calls at
// warn level.
func LoggingObserver(logger *slog.Logger) Observer {
	return func(c Call) {
		level := slog.LevelDebug
		if c.Status.IsError() {
			level = slog.LevelWarn
		}
		logger.Log(context.Background(), level, "suite method returned",
			"suite", c.Suite,
			"method", c.Method,
			"status", int(c.Status),
			"status_name", c.Status.String(),
		)
	}
}

// RecorderObserver forwards every suite call to a metrics recorder.
func RecorderObserver(rec ports.Recorder) Observer {
	return func(c Call) {
		rec.ObserveSuiteCall(c.Suite, c.Method, c.Status)
	}
}

type tracedPropertySuite struct {
	next    ports.PropertySuite
	observe func(method string, status entities.Status)
}

func (t *tracedPropertySuite) PropSetString(h entities.PropertySetHandle, name string, index int, value string) entities.Status {
	st := t.next.PropSetString(h, name, index, value)
	t.observe("propSetString", st)
	return st
}

func (t *tracedPropertySuite) PropSetInt(h entities.PropertySetHandle, name string, index int, value int) entities.Status {
	st := t.next.PropSetInt(h, name, index, value)
	t.observe("propSetInt", st)
	return st
}

func (t *tracedPropertySuite) PropSetDouble(h entities.PropertySetHandle, name string, index int, value float64) entities.Status {
	st := t.next.PropSetDouble(h, name, index, value)
	t.observe("propSetDouble", st)
	return st
}

func (t *tracedPropertySuite) PropSetPointer(h entities.PropertySetHandle, name string, index int, value any) entities.Status {
	st := t.next.PropSetPointer(h, name, index, value)
	t.observe("propSetPointer", st)
	return st
}

func (t *tracedPropertySuite) PropGetString(h entities.PropertySetHandle, name string, index int) (string, entities.Status) {
	v, st := t.next.PropGetString(h, name, index)
	t.observe("propGetString", st)
	return v, st
}

func (t *tracedPropertySuite) PropGetInt(h entities.PropertySetHandle, name string, index int) (int, entities.Status) {
	v, st := t.next.PropGetInt(h, name, index)
	t.observe("propGetInt", st)
	return v, st
}

func (t *tracedPropertySuite) PropGetDouble(h entities.PropertySetHandle, name string, index int) (float64, entities.Status) {
	v, st := t.next.PropGetDouble(h, name, index)
	t.observe("propGetDouble", st)
	return v, st
}

func (t *tracedPropertySuite) PropGetPointer(h entities.PropertySetHandle, name string, index int) (any, entities.Status) {
	v, st := t.next.PropGetPointer(h, name, index)
	t.observe("propGetPointer", st)
	return v, st
}

type tracedMeshEffectSuite struct {
	next    ports.MeshEffectSuite
	observe func(method string, status entities.Status)
}

func (t *tracedMeshEffectSuite) GetPropertySet(effect entities.MeshEffectHandle) (entities.PropertySetHandle, entities.Status) {
	h, st := t.next.GetPropertySet(effect)
	t.observe("getPropertySet", st)
	return h, st
}

func (t *tracedMeshEffectSuite) InputDefine(effect entities.MeshEffectHandle, name string) (entities.PropertySetHandle, entities.Status) {
	h, st := t.next.InputDefine(effect, name)
	t.observe("inputDefine", st)
	return h, st
}

func (t *tracedMeshEffectSuite) InputGetHandle(effect entities.MeshEffectHandle, name string) (entities.MeshInputHandle, entities.PropertySetHandle, entities.Status) {
	in, props, st := t.next.InputGetHandle(effect, name)
	t.observe("inputGetHandle", st)
	return in, props, st
}

func (t *tracedMeshEffectSuite) InputGetPropertySet(input entities.MeshInputHandle) (entities.PropertySetHandle, entities.Status) {
	h, st := t.next.InputGetPropertySet(input)
	t.observe("inputGetPropertySet", st)
	return h, st
}

func (t *tracedMeshEffectSuite) InputGetMesh(input entities.MeshInputHandle, time entities.Time) (entities.PropertySetHandle, entities.Status) {
	h, st := t.next.InputGetMesh(input, time)
	t.observe("inputGetMesh", st)
	return h, st
}

func (t *tracedMeshEffectSuite) InputReleaseMesh(mesh entities.PropertySetHandle) entities.Status {
	st := t.next.InputReleaseMesh(mesh)
	t.observe("inputReleaseMesh", st)
	return st
}

func (t *tracedMeshEffectSuite) MeshAlloc(mesh entities.PropertySetHandle, pointCount, vertexCount, faceCount int) entities.Status {
	st := t.next.MeshAlloc(mesh, pointCount, vertexCount, faceCount)
	t.observe("meshAlloc", st)
	return st
}
