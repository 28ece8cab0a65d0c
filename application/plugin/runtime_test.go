package plugin

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshfx-dev/meshfx-sdk/domain/entities"
	"github.com/meshfx-dev/meshfx-sdk/domain/ports"
	"github.com/meshfx-dev/meshfx-sdk/log"
	"github.com/meshfx-dev/meshfx-sdk/testing/mfxtest"
)

const (
	load    = entities.ActionNameLoad
	desc    = entities.ActionNameDescribe
	create  = entities.ActionNameCreateInstance
	destroy = entities.ActionNameDestroyInstance
	cookAct = entities.ActionNameCook
)

var passThrough = ports.TransformFunc(func(_ context.Context, in *entities.Mesh) (*entities.Mesh, error) {
	return in.Clone(), nil
})

func quad() *entities.Mesh {
	return &entities.Mesh{
		Points:   []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0},
		Vertices: []int32{0, 1, 2, 3},
		Faces:    []int32{4},
	}
}

// fixture is a filter plugin attached to an in-memory host with one effect
// whose input serves a quad.
type fixture struct {
	rt     *Runtime
	host   *mfxtest.Host
	effect entities.MeshEffectHandle
}

func newFixture(t *testing.T, transform ports.MeshTransform, opts ...RuntimeOption) *fixture {
	t.Helper()
	host := mfxtest.NewHost()
	rt := NewRuntime(entities.NewMeshEffectInfo("TestFilter", 1, 0), FilterEffect(transform), opts...)
	rt.SetHost(host)
	effect := host.NewEffect()
	host.SetInputMesh(effect, MainInputName, quad())
	return &fixture{rt: rt, host: host, effect: effect}
}

func (f *fixture) run(actions ...string) []entities.Status {
	return f.host.RunActions(f.rt.MainEntry, f.effect, actions...)
}

func (f *fixture) setUp(t *testing.T) {
	t.Helper()
	mfxtest.AssertStatuses(t,
		[]entities.Status{entities.StatusOK, entities.StatusOK, entities.StatusOK},
		f.run(load, desc, create))
}

// assertReleasedEveryAcquisition checks one release call per successful
// acquisition, whatever the release returned.
func assertReleasedEveryAcquisition(t *testing.T, h *mfxtest.Host) {
	t.Helper()
	acquired, released := 0, 0
	for _, c := range h.Calls() {
		switch {
		case c.Method == "inputGetMesh" && c.Status == entities.StatusOK:
			acquired++
		case c.Method == "inputReleaseMesh":
			released++
		}
	}
	assert.Equal(t, acquired, released, "every acquired mesh must be released once")
}

func TestRuntime_Lifecycle(t *testing.T) {
	f := newFixture(t, passThrough)

	statuses := f.run(load, desc, create, cookAct, destroy)
	mfxtest.AssertStatuses(t, []entities.Status{
		entities.StatusOK, entities.StatusOK, entities.StatusOK, entities.StatusOK, entities.StatusOK,
	}, statuses)

	assert.Equal(t, quad(), f.host.OutputMesh(f.effect, MainOutputName))
	mfxtest.AssertBalanced(t, f.host)
	assert.Equal(t, StateDestroyed, f.rt.State())
	assert.Zero(t, f.rt.InstanceCount())
}

func TestRuntime_DescribeDeclaresSlots(t *testing.T) {
	f := newFixture(t, passThrough)
	mfxtest.AssertStatuses(t, []entities.Status{entities.StatusOK, entities.StatusOK}, f.run(load, desc))

	assert.Equal(t, []mfxtest.InputInfo{
		{Name: "MainInput", Label: "Main Input"},
		{Name: "MainOutput", Label: "Main Output"},
	}, f.host.Inputs(f.effect))

	ctxName, ok := f.host.EffectString(f.effect, entities.MeshEffectPropContext)
	require.True(t, ok)
	assert.Equal(t, entities.MeshEffectContextFilter, ctxName)
}

func TestRuntime_DescribeBeforeLoad(t *testing.T) {
	f := newFixture(t, passThrough)

	mfxtest.AssertStatuses(t, []entities.Status{entities.StatusErrMissingHostFeature}, f.run(desc))
	assert.Empty(t, f.host.Inputs(f.effect))
	assert.Empty(t, f.host.Calls())
}

func TestRuntime_DescribeFailurePropagates(t *testing.T) {
	for _, method := range []string{"getPropertySet", "propSetString", "inputDefine"} {
		t.Run(method, func(t *testing.T) {
			f := newFixture(t, passThrough)
			f.host.FailOn(method, entities.StatusErrMemory)

			mfxtest.AssertStatuses(t,
				[]entities.Status{entities.StatusOK, entities.StatusErrMemory},
				f.run(load, desc))
		})
	}
}

func TestRuntime_LoadMissingSuite(t *testing.T) {
	for _, suite := range []string{entities.PropertySuiteName, entities.MeshEffectSuiteName} {
		t.Run(suite, func(t *testing.T) {
			host := mfxtest.NewHost(mfxtest.WithoutSuite(suite))
			rt := NewRuntime(entities.NewMeshEffectInfo("TestFilter", 1, 0), FilterEffect(passThrough))
			rt.SetHost(host)

			mfxtest.AssertStatuses(t,
				[]entities.Status{entities.StatusErrMissingHostFeature, entities.StatusErrMissingHostFeature},
				host.RunActions(rt.MainEntry, host.NewEffect(), load, desc))
			assert.Equal(t, StateUnloaded, rt.State())
		})
	}
}

func TestRuntime_LoadWithoutHost(t *testing.T) {
	rt := NewRuntime(entities.NewMeshEffectInfo("TestFilter", 1, 0), FilterEffect(passThrough))
	assert.Equal(t, entities.StatusErrMissingHostFeature, rt.MainEntry(load, 0, 0, 0))
}

func TestRuntime_RepeatedLoad(t *testing.T) {
	f := newFixture(t, passThrough)
	mfxtest.AssertStatuses(t,
		[]entities.Status{entities.StatusOK, entities.StatusOK, entities.StatusOK},
		f.run(load, load, desc))
	assert.Equal(t, StateDescribed, f.rt.State())
}

func TestRuntime_UnknownAction(t *testing.T) {
	f := newFixture(t, passThrough)

	for _, action := range []string{"OfxActionPurgeCaches", "OfxActionUnload", "", "bogus"} {
		assert.Equal(t, entities.StatusReplyDefault, f.rt.MainEntry(action, f.effect, 0, 0), action)
	}
	assert.Empty(t, f.host.Calls())
	assert.Equal(t, StateUnloaded, f.rt.State())
}

func TestRuntime_ShortActionNames(t *testing.T) {
	f := newFixture(t, passThrough)
	mfxtest.AssertStatuses(t, []entities.Status{
		entities.StatusOK, entities.StatusOK, entities.StatusOK, entities.StatusOK, entities.StatusOK,
	}, f.run("load", "describe", "createInstance", "cook", "destroyInstance"))
}

func TestRuntime_WithoutEffect(t *testing.T) {
	host := mfxtest.NewHost()
	rt := NewRuntime(entities.NewMeshEffectInfo("Inert", 1, 0), nil)
	rt.SetHost(host)

	statuses := host.RunActions(rt.MainEntry, host.NewEffect(), load, desc, create, cookAct, destroy, "bogus")
	for i, st := range statuses {
		assert.Equal(t, entities.StatusReplyDefault, st, "action %d", i)
	}
	assert.Empty(t, host.Calls())
}

func TestRuntime_CookFailures(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		nth     int
		inject  entities.Status
		want    entities.Status
	}{
		{"input handle", "inputGetHandle", 1, entities.StatusErrUnknown, entities.StatusErrUnknown},
		{"output handle", "inputGetHandle", 2, entities.StatusErrBadHandle, entities.StatusErrUnknown},
		{"input mesh", "inputGetMesh", 1, entities.StatusErrMemory, entities.StatusErrMemory},
		{"output mesh", "inputGetMesh", 2, entities.StatusErrMemory, entities.StatusErrMemory},
		{"input counts", "propGetInt", 2, entities.StatusErrBadHandle, entities.StatusErrBadHandle},
		{"input points", "propGetPointer", 1, entities.StatusErrValue, entities.StatusErrValue},
		{"input faces", "propGetPointer", 3, entities.StatusErrBadIndex, entities.StatusErrBadIndex},
		{"allocation", "meshAlloc", 1, entities.StatusErrMemory, entities.StatusErrMemory},
		{"output points", "propGetPointer", 4, entities.StatusErrBadHandle, entities.StatusErrBadHandle},
		{"output faces", "propGetPointer", 6, entities.StatusErrBadHandle, entities.StatusErrBadHandle},
		{"input release", "inputReleaseMesh", 1, entities.StatusErrBadHandle, entities.StatusErrBadHandle},
		{"output release", "inputReleaseMesh", 2, entities.StatusErrBadHandle, entities.StatusErrBadHandle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, passThrough)
			f.setUp(t)
			f.host.FailOnCall(tt.method, tt.nth, tt.inject)

			mfxtest.AssertStatuses(t, []entities.Status{tt.want}, f.run(cookAct))
			assertReleasedEveryAcquisition(t, f.host)
			if tt.method != "inputReleaseMesh" {
				mfxtest.AssertBalanced(t, f.host)
			}

			inst, ok := f.rt.Instance(f.effect)
			require.True(t, ok)
			assert.Zero(t, inst.Cooks())
		})
	}
}

func TestRuntime_CookAllocatesBeforeWriting(t *testing.T) {
	f := newFixture(t, passThrough)
	f.setUp(t)
	require.Equal(t, []entities.Status{entities.StatusOK}, f.run(cookAct))

	calls := f.host.Calls()
	allocAt := -1
	for i, c := range calls {
		if c.Method == "meshAlloc" {
			require.Equal(t, -1, allocAt, "meshAlloc must be called once")
			allocAt = i
		}
	}
	require.GreaterOrEqual(t, allocAt, 0)

	output := calls[allocAt].Handle
	buffers := 0
	for i, c := range calls {
		if c.Handle == output && c.Method == "propGetPointer" {
			assert.Greater(t, i, allocAt, "output buffer fetched before meshAlloc")
			buffers++
		}
	}
	assert.Equal(t, 3, buffers)
}

func TestRuntime_CookTransformErrors(t *testing.T) {
	tests := []struct {
		name      string
		transform ports.TransformFunc
		want      entities.Status
	}{
		{
			name: "error",
			transform: func(context.Context, *entities.Mesh) (*entities.Mesh, error) {
				return nil, fmt.Errorf("cannot subdivide")
			},
			want: entities.StatusErrValue,
		},
		{
			name: "nil mesh",
			transform: func(context.Context, *entities.Mesh) (*entities.Mesh, error) {
				return nil, nil
			},
			want: entities.StatusErrValue,
		},
		{
			name: "incoherent mesh",
			transform: func(_ context.Context, in *entities.Mesh) (*entities.Mesh, error) {
				out := in.Clone()
				out.Vertices[0] = 99
				return out, nil
			},
			want: entities.StatusErrValue,
		},
		{
			name: "panic",
			transform: func(context.Context, *entities.Mesh) (*entities.Mesh, error) {
				panic("boom")
			},
			want: entities.StatusErrFatal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.transform)
			f.setUp(t)

			mfxtest.AssertStatuses(t, []entities.Status{tt.want}, f.run(cookAct))
			mfxtest.AssertBalanced(t, f.host)
			assert.Zero(t, mfxtest.CountMethod(f.host, "meshAlloc"))
		})
	}
}

func TestRuntime_CookEmptyInput(t *testing.T) {
	f := newFixture(t, passThrough)
	f.host.SetInputMesh(f.effect, MainInputName, &entities.Mesh{})
	f.setUp(t)

	mfxtest.AssertStatuses(t, []entities.Status{entities.StatusOK}, f.run(cookAct))
	assert.Equal(t, entities.MeshCounts{}, f.host.OutputMesh(f.effect, MainOutputName).Counts())
	assert.Zero(t, mfxtest.CountMethod(f.host, "propGetPointer"))
	mfxtest.AssertBalanced(t, f.host)
}

func TestRuntime_CookTime(t *testing.T) {
	f := newFixture(t, passThrough, WithDefaultTime(4))
	f.setUp(t)

	require.Equal(t, entities.StatusOK, f.rt.MainEntry(cookAct, f.effect, f.host.NewArgs(2.5), 0))
	assert.Equal(t, entities.Time(2.5), f.host.LastTime(f.effect, MainInputName))
	assert.Equal(t, entities.Time(2.5), f.host.LastTime(f.effect, MainOutputName))

	require.Equal(t, entities.StatusOK, f.rt.MainEntry(cookAct, f.effect, 0, 0))
	assert.Equal(t, entities.Time(4), f.host.LastTime(f.effect, MainInputName))

	inst, ok := f.rt.Instance(f.effect)
	require.True(t, ok)
	assert.Equal(t, 2, inst.Cooks())
	assert.Equal(t, entities.Time(4), inst.LastTime())
}

func TestRuntime_NilTransformCopiesInput(t *testing.T) {
	f := newFixture(t, nil)
	f.setUp(t)

	mfxtest.AssertStatuses(t, []entities.Status{entities.StatusOK}, f.run(cookAct))
	assert.Equal(t, quad(), f.host.OutputMesh(f.effect, MainOutputName))
}

func TestRuntime_StrictOrdering(t *testing.T) {
	tests := []struct {
		name    string
		actions []string
		want    []entities.Status
	}{
		{
			name:    "describe before load",
			actions: []string{desc},
			want:    []entities.Status{entities.StatusFailed},
		},
		{
			name:    "cook before create",
			actions: []string{load, desc, cookAct},
			want:    []entities.Status{entities.StatusOK, entities.StatusOK, entities.StatusFailed},
		},
		{
			name:    "create before describe",
			actions: []string{load, create},
			want:    []entities.Status{entities.StatusOK, entities.StatusFailed},
		},
		{
			name:    "cook after destroy",
			actions: []string{load, desc, create, destroy, cookAct},
			want:    []entities.Status{entities.StatusOK, entities.StatusOK, entities.StatusOK, entities.StatusOK, entities.StatusFailed},
		},
		{
			name:    "recreate after destroy",
			actions: []string{load, desc, create, destroy, create, cookAct},
			want:    []entities.Status{entities.StatusOK, entities.StatusOK, entities.StatusOK, entities.StatusOK, entities.StatusOK, entities.StatusOK},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, passThrough, WithStrictOrdering(true))
			mfxtest.AssertStatuses(t, tt.want, f.run(tt.actions...))
		})
	}
}

func TestRuntime_LenientOrdering(t *testing.T) {
	f := newFixture(t, passThrough)

	// Cook without createInstance is served when ordering is not enforced.
	mfxtest.AssertStatuses(t,
		[]entities.Status{entities.StatusOK, entities.StatusOK, entities.StatusOK},
		f.run(load, desc, cookAct))
	_, ok := f.rt.Instance(f.effect)
	assert.False(t, ok)
}

func TestRuntime_States(t *testing.T) {
	f := newFixture(t, passThrough)
	other := f.host.NewEffect()
	f.host.SetInputMesh(other, MainInputName, quad())

	assert.Equal(t, StateUnloaded, f.rt.State())
	f.run(load)
	assert.Equal(t, StateLoaded, f.rt.State())
	f.run(desc)
	assert.Equal(t, StateDescribed, f.rt.State())
	f.run(create)
	f.host.RunActions(f.rt.MainEntry, other, desc, create)
	assert.Equal(t, StateInstantiated, f.rt.State())
	assert.Equal(t, 2, f.rt.InstanceCount())

	f.run(destroy)
	assert.Equal(t, StateInstantiated, f.rt.State(), "another instance is alive")
	f.host.RunActions(f.rt.MainEntry, other, destroy)
	assert.Equal(t, StateDestroyed, f.rt.State())

	// Destroying an unknown instance still succeeds.
	assert.Equal(t, entities.StatusOK, f.rt.MainEntry(destroy, 999, 0, 0))
}

func TestRuntime_CookingState(t *testing.T) {
	var observed State
	var rt *Runtime
	f := newFixture(t, ports.TransformFunc(func(_ context.Context, in *entities.Mesh) (*entities.Mesh, error) {
		observed = rt.State()
		return in.Clone(), nil
	}))
	rt = f.rt
	f.setUp(t)

	f.run(cookAct)
	assert.Equal(t, StateCooking, observed)
	assert.Equal(t, StateInstantiated, f.rt.State())
}

func TestRuntime_ConcurrentCooks(t *testing.T) {
	f := newFixture(t, passThrough)
	f.setUp(t)

	effects := make([]entities.MeshEffectHandle, 8)
	for i := range effects {
		effects[i] = f.host.NewEffect()
		f.host.SetInputMesh(effects[i], MainInputName, quad())
		f.host.RunActions(f.rt.MainEntry, effects[i], desc, create)
	}

	var wg sync.WaitGroup
	for _, e := range effects {
		wg.Add(1)
		go func(e entities.MeshEffectHandle) {
			defer wg.Done()
			for i := 0; i < 5; i++ {
				assert.Equal(t, entities.StatusOK, f.rt.Dispatch(context.Background(), cookAct, e, 0, 0))
			}
		}(e)
	}
	wg.Wait()

	mfxtest.AssertBalanced(t, f.host)
	for _, e := range effects {
		inst, ok := f.rt.Instance(e)
		require.True(t, ok)
		assert.Equal(t, 5, inst.Cooks())
	}
}

func TestRuntime_InstanceCreatedAt(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	f := newFixture(t, passThrough, WithClock(func() time.Time { return now }))
	f.setUp(t)

	inst, ok := f.rt.Instance(f.effect)
	require.True(t, ok)
	assert.Equal(t, now, inst.Created)
}

type fakeRecorder struct {
	mu      sync.Mutex
	actions []string
	suite   map[string]int
	open    int
}

func (r *fakeRecorder) ObserveAction(plugin string, action entities.Action, status entities.Status, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append(r.actions, plugin+" "+action.String()+" "+status.String())
}

func (r *fakeRecorder) ObserveSuiteCall(_ string, method string, _ entities.Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.suite == nil {
		r.suite = make(map[string]int)
	}
	r.suite[method]++
}

func (r *fakeRecorder) MeshAcquired(string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.open++
}

func (r *fakeRecorder) MeshReleased(string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.open--
}

func TestRuntime_Recorder(t *testing.T) {
	rec := &fakeRecorder{}
	f := newFixture(t, passThrough, WithRecorder(rec))

	f.run(load, desc, create, cookAct, "bogus")

	assert.Equal(t, []string{
		"TestFilter OfxActionLoad kOfxStatOK",
		"TestFilter OfxActionDescribe kOfxStatOK",
		"TestFilter OfxActionCreateInstance kOfxStatOK",
		"TestFilter OfxMeshEffectActionCook kOfxStatOK",
	}, rec.actions)
	assert.Equal(t, 1, rec.suite["meshAlloc"])
	assert.Equal(t, 2, rec.suite["inputReleaseMesh"])
	assert.Zero(t, rec.open)
}

func TestRuntime_TraceSuites(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(log.WithWriter(&buf), log.WithLevel(slog.LevelDebug))
	f := newFixture(t, passThrough, WithLogger(logger), WithTraceSuites(true))
	f.setUp(t)
	f.host.FailOn("meshAlloc", entities.StatusErrMemory)

	mfxtest.AssertStatuses(t, []entities.Status{entities.StatusErrMemory}, f.run(cookAct))

	out := buf.String()
	assert.Contains(t, out, "suite method returned")
	assert.Contains(t, out, "meshAlloc")
	assert.Contains(t, out, "kOfxStatErrMemory")
	assert.Contains(t, out, "action failed")
}

func TestRuntime_Middleware(t *testing.T) {
	var seen []entities.Action
	mw := func(next ActionHandler) ActionHandler {
		return func(ctx context.Context, call *ActionCall) error {
			seen = append(seen, call.Action)
			return next(ctx, call)
		}
	}
	f := newFixture(t, passThrough, WithMiddleware(mw))
	f.run(load, "bogus", desc)

	assert.Equal(t, []entities.Action{entities.ActionLoad, entities.ActionDescribe}, seen)
}

func TestRuntime_DescriptorPublishesRuntime(t *testing.T) {
	host := mfxtest.NewHost()
	rt := NewRuntime(entities.NewMeshEffectInfo("TestFilter", 1, 0), FilterEffect(passThrough))

	d := rt.Descriptor()
	assert.Same(t, d, rt.Descriptor())
	assert.Equal(t, rt.Info(), d.Info)

	d.SetHost(host)
	assert.Equal(t, entities.StatusOK, d.MainEntry(load, 0, 0, 0))
	assert.Equal(t, StateLoaded, rt.State())
}

func TestRuntime_SetHostResets(t *testing.T) {
	f := newFixture(t, passThrough, WithStrictOrdering(true))
	f.setUp(t)

	next := mfxtest.NewHost()
	f.rt.SetHost(next)
	assert.Equal(t, StateUnloaded, f.rt.State())

	effect := next.NewEffect()
	next.SetInputMesh(effect, MainInputName, quad())
	statuses := next.RunActions(f.rt.MainEntry, effect, load, desc, create, cookAct)
	mfxtest.AssertStatuses(t, []entities.Status{
		entities.StatusOK, entities.StatusOK, entities.StatusOK, entities.StatusOK,
	}, statuses)
	assert.Equal(t, quad(), next.OutputMesh(effect, MainOutputName))
}
