package mfxtest

import (
	"github.com/meshfx-dev/meshfx-sdk/domain/entities"
)

type propertySuite struct {
	h *Host
}

func (s *propertySuite) set(method string, ps entities.PropertySetHandle, name string, index int, value any) entities.Status {
	h := s.h
	h.mu.Lock()
	defer h.mu.Unlock()

	if st, fail := h.begin(method); fail {
		return h.record(method, uint64(ps), st)
	}
	set, ok := h.props[ps]
	if !ok {
		return h.record(method, uint64(ps), entities.StatusErrBadHandle)
	}
	values := set.values[name]
	switch {
	case index < 0 || index > len(values):
		return h.record(method, uint64(ps), entities.StatusErrBadIndex)
	case index == len(values):
		set.values[name] = append(values, value)
	default:
		values[index] = value
	}
	return h.record(method, uint64(ps), entities.StatusOK)
}

func (s *propertySuite) get(method string, ps entities.PropertySetHandle, name string, index int) (any, entities.Status) {
	h := s.h
	h.mu.Lock()
	defer h.mu.Unlock()

	if st, fail := h.begin(method); fail {
		return nil, h.record(method, uint64(ps), st)
	}
	set, ok := h.props[ps]
	if !ok {
		return nil, h.record(method, uint64(ps), entities.StatusErrBadHandle)
	}
	values, ok := set.values[name]
	if !ok {
		return nil, h.record(method, uint64(ps), entities.StatusErrUnknown)
	}
	if index < 0 || index >= len(values) {
		return nil, h.record(method, uint64(ps), entities.StatusErrBadIndex)
	}
	return values[index], h.record(method, uint64(ps), entities.StatusOK)
}

func (s *propertySuite) PropSetString(ps entities.PropertySetHandle, name string, index int, value string) entities.Status {
	return s.set("propSetString", ps, name, index, value)
}

func (s *propertySuite) PropSetInt(ps entities.PropertySetHandle, name string, index int, value int) entities.Status {
	return s.set("propSetInt", ps, name, index, value)
}

func (s *propertySuite) PropSetDouble(ps entities.PropertySetHandle, name string, index int, value float64) entities.Status {
	return s.set("propSetDouble", ps, name, index, value)
}

func (s *propertySuite) PropSetPointer(ps entities.PropertySetHandle, name string, index int, value any) entities.Status {
	return s.set("propSetPointer", ps, name, index, value)
}

func (s *propertySuite) PropGetString(ps entities.PropertySetHandle, name string, index int) (string, entities.Status) {
	v, st := s.get("propGetString", ps, name, index)
	if st != entities.StatusOK {
		return "", st
	}
	str, ok := v.(string)
	if !ok {
		return "", entities.StatusErrValue
	}
	return str, st
}

func (s *propertySuite) PropGetInt(ps entities.PropertySetHandle, name string, index int) (int, entities.Status) {
	v, st := s.get("propGetInt", ps, name, index)
	if st != entities.StatusOK {
		return 0, st
	}
	n, ok := v.(int)
	if !ok {
		return 0, entities.StatusErrValue
	}
	return n, st
}

func (s *propertySuite) PropGetDouble(ps entities.PropertySetHandle, name string, index int) (float64, entities.Status) {
	v, st := s.get("propGetDouble", ps, name, index)
	if st != entities.StatusOK {
		return 0, st
	}
	f, ok := v.(float64)
	if !ok {
		return 0, entities.StatusErrValue
	}
	return f, st
}

func (s *propertySuite) PropGetPointer(ps entities.PropertySetHandle, name string, index int) (any, entities.Status) {
	return s.get("propGetPointer", ps, name, index)
}

type meshEffectSuite struct {
	h *Host
}

func (s *meshEffectSuite) GetPropertySet(e entities.MeshEffectHandle) (entities.PropertySetHandle, entities.Status) {
	h := s.h
	h.mu.Lock()
	defer h.mu.Unlock()

	const method = "getPropertySet"
	if st, fail := h.begin(method); fail {
		return 0, h.record(method, uint64(e), st)
	}
	eff, ok := h.effects[e]
	if !ok {
		return 0, h.record(method, uint64(e), entities.StatusErrBadHandle)
	}
	return eff.props, h.record(method, uint64(e), entities.StatusOK)
}

func (s *meshEffectSuite) InputDefine(e entities.MeshEffectHandle, name string) (entities.PropertySetHandle, entities.Status) {
	h := s.h
	h.mu.Lock()
	defer h.mu.Unlock()

	const method = "inputDefine"
	if st, fail := h.begin(method); fail {
		return 0, h.record(method, uint64(e), st)
	}
	eff, ok := h.effects[e]
	if !ok {
		return 0, h.record(method, uint64(e), entities.StatusErrBadHandle)
	}
	if _, exists := eff.inputs[name]; exists {
		return 0, h.record(method, uint64(e), entities.StatusErrExists)
	}
	handle := entities.MeshInputHandle(h.nextID())
	props := h.newPropertySetLocked()
	h.inputs[handle] = &input{effect: e, name: name, props: props}
	eff.inputs[name] = handle
	eff.order = append(eff.order, name)
	return props, h.record(method, uint64(e), entities.StatusOK)
}

func (s *meshEffectSuite) InputGetHandle(e entities.MeshEffectHandle, name string) (entities.MeshInputHandle, entities.PropertySetHandle, entities.Status) {
	h := s.h
	h.mu.Lock()
	defer h.mu.Unlock()

	const method = "inputGetHandle"
	if st, fail := h.begin(method); fail {
		return 0, 0, h.record(method, uint64(e), st)
	}
	eff, ok := h.effects[e]
	if !ok {
		return 0, 0, h.record(method, uint64(e), entities.StatusErrBadHandle)
	}
	handle, ok := eff.inputs[name]
	if !ok {
		return 0, 0, h.record(method, uint64(e), entities.StatusErrUnknown)
	}
	return handle, h.inputs[handle].props, h.record(method, uint64(e), entities.StatusOK)
}

func (s *meshEffectSuite) InputGetPropertySet(in entities.MeshInputHandle) (entities.PropertySetHandle, entities.Status) {
	h := s.h
	h.mu.Lock()
	defer h.mu.Unlock()

	const method = "inputGetPropertySet"
	if st, fail := h.begin(method); fail {
		return 0, h.record(method, uint64(in), st)
	}
	slot, ok := h.inputs[in]
	if !ok {
		return 0, h.record(method, uint64(in), entities.StatusErrBadHandle)
	}
	return slot.props, h.record(method, uint64(in), entities.StatusOK)
}

func (s *meshEffectSuite) InputGetMesh(in entities.MeshInputHandle, t entities.Time) (entities.PropertySetHandle, entities.Status) {
	h := s.h
	h.mu.Lock()
	defer h.mu.Unlock()

	const method = "inputGetMesh"
	if st, fail := h.begin(method); fail {
		return 0, h.record(method, uint64(in), st)
	}
	slot, ok := h.inputs[in]
	if !ok {
		return 0, h.record(method, uint64(in), entities.StatusErrBadHandle)
	}
	slot.lastTime = t

	handle := h.newPropertySetLocked()
	values := h.props[handle].values
	if src := h.effects[slot.effect].sources[slot.name]; src != nil {
		c := src.Counts()
		values[entities.MeshPropPointCount] = []any{c.Points}
		values[entities.MeshPropVertexCount] = []any{c.Vertices}
		values[entities.MeshPropFaceCount] = []any{c.Faces}
		cp := src.Clone()
		values[entities.MeshPropPointData] = []any{cp.Points}
		values[entities.MeshPropVertexData] = []any{cp.Vertices}
		values[entities.MeshPropFaceData] = []any{cp.Faces}
	} else {
		values[entities.MeshPropPointCount] = []any{0}
		values[entities.MeshPropVertexCount] = []any{0}
		values[entities.MeshPropFaceCount] = []any{0}
	}
	h.meshes[handle] = &mesh{input: in}
	h.acquired++
	return handle, h.record(method, uint64(in), entities.StatusOK)
}

func (s *meshEffectSuite) InputReleaseMesh(m entities.PropertySetHandle) entities.Status {
	h := s.h
	h.mu.Lock()
	defer h.mu.Unlock()

	const method = "inputReleaseMesh"
	if st, fail := h.begin(method); fail {
		return h.record(method, uint64(m), st)
	}
	held, ok := h.meshes[m]
	if !ok {
		return h.record(method, uint64(m), entities.StatusErrBadHandle)
	}
	if held.allocated {
		slot := h.inputs[held.input]
		values := h.props[m].values
		out := &entities.Mesh{}
		out.Points, _ = values[entities.MeshPropPointData][0].([]float32)
		out.Vertices, _ = values[entities.MeshPropVertexData][0].([]int32)
		out.Faces, _ = values[entities.MeshPropFaceData][0].([]int32)
		h.effects[slot.effect].outputs[slot.name] = out.Clone()
	}
	delete(h.meshes, m)
	delete(h.props, m)
	h.released++
	return h.record(method, uint64(m), entities.StatusOK)
}

func (s *meshEffectSuite) MeshAlloc(m entities.PropertySetHandle, pointCount, vertexCount, faceCount int) entities.Status {
	h := s.h
	h.mu.Lock()
	defer h.mu.Unlock()

	const method = "meshAlloc"
	if st, fail := h.begin(method); fail {
		return h.record(method, uint64(m), st)
	}
	held, ok := h.meshes[m]
	if !ok {
		return h.record(method, uint64(m), entities.StatusErrBadHandle)
	}
	if pointCount < 0 || vertexCount < 0 || faceCount < 0 {
		return h.record(method, uint64(m), entities.StatusErrValue)
	}
	values := h.props[m].values
	values[entities.MeshPropPointCount] = []any{pointCount}
	values[entities.MeshPropVertexCount] = []any{vertexCount}
	values[entities.MeshPropFaceCount] = []any{faceCount}
	values[entities.MeshPropPointData] = []any{make([]float32, 3*pointCount)}
	values[entities.MeshPropVertexData] = []any{make([]int32, vertexCount)}
	values[entities.MeshPropFaceData] = []any{make([]int32, faceCount)}
	held.allocated = true
	return h.record(method, uint64(m), entities.StatusOK)
}
