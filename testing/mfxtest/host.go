// Package mfxtest provides an in-memory host for testing mesh effect plugins.
//
// Host implements the property suite and the mesh effect suite over plain Go
// maps, records every suite call, counts mesh acquisitions and releases, and
// can be told to fail chosen suite methods.
package mfxtest

import (
	"sync"

	"github.com/meshfx-dev/meshfx-sdk/domain/entities"
)

// Call is one suite call received by the host.
type Call struct {
	Method string
	Handle uint64
	Status entities.Status
}

// InputInfo describes an input or output slot defined on an effect.
type InputInfo struct {
	Name  string
	Label string
}

// Option configures a Host.
type Option func(*Host)

// WithoutSuite makes FetchSuite return nil for the named suite.
func WithoutSuite(name string) Option {
	return func(h *Host) {
		h.omitted[name] = true
	}
}

type failure struct {
	status entities.Status
	nth    int // 0 fails every call
}

type propertySet struct {
	values map[string][]any
}

type effect struct {
	props   entities.PropertySetHandle
	inputs  map[string]entities.MeshInputHandle
	order   []string
	sources map[string]*entities.Mesh
	outputs map[string]*entities.Mesh
}

type input struct {
	effect   entities.MeshEffectHandle
	name     string
	props    entities.PropertySetHandle
	lastTime entities.Time
}

type mesh struct {
	input     entities.MeshInputHandle
	allocated bool
}

// Host is an in-memory mesh effect host. It is safe for concurrent use.
type Host struct {
	mu       sync.Mutex
	next     uint64
	omitted  map[string]bool
	props    map[entities.PropertySetHandle]*propertySet
	effects  map[entities.MeshEffectHandle]*effect
	inputs   map[entities.MeshInputHandle]*input
	meshes   map[entities.PropertySetHandle]*mesh
	failures map[string]failure
	counts   map[string]int
	calls    []Call
	acquired int
	released int
}

// NewHost creates an empty host.
func NewHost(opts ...Option) *Host {
	h := &Host{
		omitted:  make(map[string]bool),
		props:    make(map[entities.PropertySetHandle]*propertySet),
		effects:  make(map[entities.MeshEffectHandle]*effect),
		inputs:   make(map[entities.MeshInputHandle]*input),
		meshes:   make(map[entities.PropertySetHandle]*mesh),
		failures: make(map[string]failure),
		counts:   make(map[string]int),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// FetchSuite implements ports.Host.
func (h *Host) FetchSuite(name string, version int) any {
	if version != entities.SuiteVersion || h.omitted[name] {
		return nil
	}
	switch name {
	case entities.PropertySuiteName:
		return &propertySuite{h: h}
	case entities.MeshEffectSuiteName:
		return &meshEffectSuite{h: h}
	default:
		return nil
	}
}

// NewEffect creates an effect and its property set.
func (h *Host) NewEffect() entities.MeshEffectHandle {
	h.mu.Lock()
	defer h.mu.Unlock()

	handle := entities.MeshEffectHandle(h.nextID())
	h.effects[handle] = &effect{
		props:   h.newPropertySetLocked(),
		inputs:  make(map[string]entities.MeshInputHandle),
		sources: make(map[string]*entities.Mesh),
		outputs: make(map[string]*entities.Mesh),
	}
	return handle
}

// NewArgs creates a property set holding the cook time, suitable as the
// inArgs of a cook action.
func (h *Host) NewArgs(t entities.Time) entities.PropertySetHandle {
	h.mu.Lock()
	defer h.mu.Unlock()

	handle := h.newPropertySetLocked()
	h.props[handle].values[entities.PropTime] = []any{float64(t)}
	return handle
}

// SetInputMesh sets the geometry the host serves for the named slot.
// Slots without geometry are treated as outputs.
func (h *Host) SetInputMesh(e entities.MeshEffectHandle, name string, m *entities.Mesh) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if eff, ok := h.effects[e]; ok {
		eff.sources[name] = m.Clone()
	}
}

// OutputMesh returns the geometry written to the named slot by the last
// released output mesh, or nil.
func (h *Host) OutputMesh(e entities.MeshEffectHandle, name string) *entities.Mesh {
	h.mu.Lock()
	defer h.mu.Unlock()

	eff, ok := h.effects[e]
	if !ok || eff.outputs[name] == nil {
		return nil
	}
	return eff.outputs[name].Clone()
}

// Inputs returns the slots defined on an effect, in definition order.
func (h *Host) Inputs(e entities.MeshEffectHandle) []InputInfo {
	h.mu.Lock()
	defer h.mu.Unlock()

	eff, ok := h.effects[e]
	if !ok {
		return nil
	}
	infos := make([]InputInfo, 0, len(eff.order))
	for _, name := range eff.order {
		in := h.inputs[eff.inputs[name]]
		label, _ := h.stringLocked(in.props, entities.PropLabel)
		infos = append(infos, InputInfo{Name: name, Label: label})
	}
	return infos
}

// EffectString returns a string property of an effect's property set.
func (h *Host) EffectString(e entities.MeshEffectHandle, name string) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	eff, ok := h.effects[e]
	if !ok {
		return "", false
	}
	return h.stringLocked(eff.props, name)
}

// LastTime returns the time of the last mesh acquired on the named slot.
func (h *Host) LastTime(e entities.MeshEffectHandle, name string) entities.Time {
	h.mu.Lock()
	defer h.mu.Unlock()

	eff, ok := h.effects[e]
	if !ok {
		return 0
	}
	in, ok := h.inputs[eff.inputs[name]]
	if !ok {
		return 0
	}
	return in.lastTime
}

// FailOn makes every call to method return status.
func (h *Host) FailOn(method string, status entities.Status) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.failures[method] = failure{status: status}
}

// FailOnCall makes only the nth call (1-based) to method return status.
func (h *Host) FailOnCall(method string, nth int, status entities.Status) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.failures[method] = failure{status: status, nth: nth}
}

// Calls returns every suite call received so far, in order.
func (h *Host) Calls() []Call {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Call(nil), h.calls...)
}

// Methods returns the method names of every suite call received so far.
func (h *Host) Methods() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	names := make([]string, len(h.calls))
	for i, c := range h.calls {
		names[i] = c.Method
	}
	return names
}

// OpenMeshes returns the number of acquired meshes not yet released.
func (h *Host) OpenMeshes() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.acquired - h.released
}

// Acquisitions returns the number of successful InputGetMesh calls.
func (h *Host) Acquisitions() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.acquired
}

// Releases returns the number of successful InputReleaseMesh calls.
func (h *Host) Releases() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.released
}

func (h *Host) nextID() uint64 {
	h.next++
	return h.next
}

func (h *Host) newPropertySetLocked() entities.PropertySetHandle {
	handle := entities.PropertySetHandle(h.nextID())
	h.props[handle] = &propertySet{values: make(map[string][]any)}
	return handle
}

func (h *Host) stringLocked(ps entities.PropertySetHandle, name string) (string, bool) {
	set, ok := h.props[ps]
	if !ok || len(set.values[name]) == 0 {
		return "", false
	}
	s, ok := set.values[name][0].(string)
	return s, ok
}

// begin counts a call and reports whether an injected failure applies.
func (h *Host) begin(method string) (entities.Status, bool) {
	h.counts[method]++
	f, ok := h.failures[method]
	if !ok {
		return entities.StatusOK, false
	}
	if f.nth == 0 || f.nth == h.counts[method] {
		return f.status, true
	}
	return entities.StatusOK, false
}

func (h *Host) record(method string, handle uint64, status entities.Status) entities.Status {
	h.calls = append(h.calls, Call{Method: method, Handle: handle, Status: status})
	return status
}
