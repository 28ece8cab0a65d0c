package suites

import (
	"bytes"
	stdErrors "errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshfx-dev/meshfx-sdk/domain/entities"
	"github.com/meshfx-dev/meshfx-sdk/domain/errors"
	"github.com/meshfx-dev/meshfx-sdk/log"
	"github.com/meshfx-dev/meshfx-sdk/testing/mfxtest"
)

func TestResolve(t *testing.T) {
	s, err := Resolve(mfxtest.NewHost())
	require.NoError(t, err)
	assert.NotNil(t, s.Property)
	assert.NotNil(t, s.MeshEffect)
}

func TestResolve_Missing(t *testing.T) {
	tests := []struct {
		name  string
		host  *mfxtest.Host
		suite string
	}{
		{"no property suite", mfxtest.NewHost(mfxtest.WithoutSuite(entities.PropertySuiteName)), entities.PropertySuiteName},
		{"no mesh effect suite", mfxtest.NewHost(mfxtest.WithoutSuite(entities.MeshEffectSuiteName)), entities.MeshEffectSuiteName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Resolve(tt.host)
			assert.Nil(t, s)

			var missing *errors.MissingHostFeatureError
			require.True(t, stdErrors.As(err, &missing))
			assert.Equal(t, tt.suite, missing.Suite)
			assert.Equal(t, entities.SuiteVersion, missing.Version)
		})
	}
}

func TestResolve_NilHost(t *testing.T) {
	_, err := Resolve(nil)
	assert.Equal(t, entities.StatusErrMissingHostFeature, errors.ToStatus(err))
}

func TestCheck(t *testing.T) {
	require.NoError(t, Check("S", "m", entities.StatusOK))

	err := CheckMeshEffect("meshAlloc", entities.StatusErrMemory)
	var se *errors.SuiteError
	require.True(t, stdErrors.As(err, &se))
	assert.Equal(t, entities.MeshEffectSuiteName, se.Suite)
	assert.Equal(t, "meshAlloc", se.Method)
	assert.Equal(t, entities.StatusErrMemory, errors.ToStatus(err))

	err = CheckProperty("propGetInt", entities.StatusReplyDefault)
	require.Error(t, err)
	assert.Equal(t, entities.StatusErrUnknown, errors.ToStatus(err), "non-error replies are not success")
}

func TestTrace_ReportsEveryCall(t *testing.T) {
	host := mfxtest.NewHost()
	s, err := Resolve(host)
	require.NoError(t, err)

	var calls []Call
	traced := Trace(s, func(c Call) { calls = append(calls, c) })

	effect := host.NewEffect()
	props, st := traced.MeshEffect.GetPropertySet(effect)
	require.Equal(t, entities.StatusOK, st)
	st = traced.Property.PropSetString(props, entities.MeshEffectPropContext, 0, entities.MeshEffectContextFilter)
	require.Equal(t, entities.StatusOK, st)
	_, _, st = traced.MeshEffect.InputGetHandle(effect, "Missing")
	require.Equal(t, entities.StatusErrUnknown, st)

	assert.Equal(t, []Call{
		{Suite: entities.MeshEffectSuiteName, Method: "getPropertySet", Status: entities.StatusOK},
		{Suite: entities.PropertySuiteName, Method: "propSetString", Status: entities.StatusOK},
		{Suite: entities.MeshEffectSuiteName, Method: "inputGetHandle", Status: entities.StatusErrUnknown},
	}, calls)

	// Method names match the host's own names.
	assert.Equal(t, []string{"getPropertySet", "propSetString", "inputGetHandle"}, host.Methods())
}

func TestTrace_NoObservers(t *testing.T) {
	s, err := Resolve(mfxtest.NewHost())
	require.NoError(t, err)
	assert.Same(t, s, Trace(s))
}

func TestLoggingObserver(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(log.WithWriter(&buf), log.WithLevel(slog.LevelWarn))
	obs := LoggingObserver(logger)

	obs(Call{Suite: entities.PropertySuiteName, Method: "propGetInt", Status: entities.StatusOK})
	assert.Empty(t, buf.String(), "successful calls log at debug")

	obs(Call{Suite: entities.MeshEffectSuiteName, Method: "meshAlloc", Status: entities.StatusErrMemory})
	assert.Contains(t, buf.String(), "suite method returned")
	assert.Contains(t, buf.String(), "kOfxStatErrMemory")
	assert.Contains(t, buf.String(), "WARN")
}

type countingRecorder struct {
	calls map[string]entities.Status
}

func (r *countingRecorder) ObserveAction(string, entities.Action, entities.Status, time.Duration) {}
func (r *countingRecorder) ObserveSuiteCall(suite, method string, status entities.Status) {
	r.calls[suite+"."+method] = status
}
func (r *countingRecorder) MeshAcquired(string) {}
func (r *countingRecorder) MeshReleased(string) {}

func TestRecorderObserver(t *testing.T) {
	rec := &countingRecorder{calls: make(map[string]entities.Status)}
	RecorderObserver(rec)(Call{Suite: "S", Method: "m", Status: entities.StatusErrValue})
	assert.Equal(t, entities.StatusErrValue, rec.calls["S.m"])
}
