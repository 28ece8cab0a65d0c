package plugin

import (
	"context"
	stdErrors "errors"
	"fmt"

	"github.com/meshfx-dev/meshfx-sdk/domain/entities"
	"github.com/meshfx-dev/meshfx-sdk/domain/errors"
	"github.com/meshfx-dev/meshfx-sdk/domain/ports"
	"github.com/meshfx-dev/meshfx-sdk/suites"
)

// cook reads the input mesh, applies the effect transform and writes the
// result to the output mesh. Every mesh acquired from the host is released
// exactly once, whatever the outcome.
func (r *Runtime) cook(ctx context.Context, call *ActionCall) error {
	s, err := r.currentSuites()
	if err != nil {
		return err
	}

	r.beginCook()
	defer r.endCook()

	input, err := resolveSlot(s, call.Effect, r.effect.Input.Name)
	if err != nil {
		return err
	}
	output, err := resolveSlot(s, call.Effect, r.effect.Output.Name)
	if err != nil {
		return err
	}

	t := r.cookTime(s, call.InArgs)

	src, err := r.readMesh(s, call.Plugin, input, t)
	if err != nil {
		return err
	}

	result := src
	if r.effect.Transform != nil {
		result, err = r.effect.Transform.Apply(ctx, src)
	}
	if err != nil {
		var se errors.StatusError
		if stdErrors.As(err, &se) {
			return err
		}
		return &errors.GeometryError{Field: "transform", Err: err}
	}
	if result == nil {
		return &errors.GeometryError{Field: "transform", Err: fmt.Errorf("transform returned no mesh")}
	}
	if err := result.Validate(); err != nil {
		return &errors.GeometryError{Field: "output", Err: err}
	}

	if err := r.writeMesh(s, call.Plugin, output, t, result); err != nil {
		return err
	}

	if inst, ok := r.instances.get(call.Effect); ok {
		inst.cooked(t)
	}
	r.cfg.logger.DebugContext(ctx, "mesh cooked",
		"plugin", call.Plugin,
		"effect", call.Effect.String(),
		"time", float64(t),
		"input", src.Counts().String(),
		"output", result.Counts().String())
	return nil
}

func (r *Runtime) beginCook() {
	r.mu.Lock()
	r.cooking++
	r.mu.Unlock()
}

func (r *Runtime) endCook() {
	r.mu.Lock()
	r.cooking--
	r.mu.Unlock()
}

func resolveSlot(s *suites.Suites, effect entities.MeshEffectHandle, name string) (entities.MeshInputHandle, error) {
	handle, _, st := s.MeshEffect.InputGetHandle(effect, name)
	if err := suites.CheckMeshEffect("inputGetHandle", st); err != nil {
		return 0, &errors.UnknownInputError{Name: name, Err: err}
	}
	return handle, nil
}

// cookTime returns the time carried by inArgs, or the configured default.
func (r *Runtime) cookTime(s *suites.Suites, inArgs entities.PropertySetHandle) entities.Time {
	if inArgs.IsNil() {
		return r.cfg.defaultTime
	}
	t, st := s.Property.PropGetDouble(inArgs, entities.PropTime, 0)
	if st != entities.StatusOK {
		return r.cfg.defaultTime
	}
	return entities.Time(t)
}

// readMesh acquires the mesh of input, copies its geometry and releases it.
func (r *Runtime) readMesh(s *suites.Suites, plugin string, input entities.MeshInputHandle, t entities.Time) (mesh *entities.Mesh, err error) {
	handle, st := s.MeshEffect.InputGetMesh(input, t)
	if err := suites.CheckMeshEffect("inputGetMesh", st); err != nil {
		return nil, err
	}
	r.cfg.recorder.MeshAcquired(plugin)
	defer func() {
		err = r.releaseMesh(s, plugin, handle, err)
	}()

	counts, err := readCounts(s.Property, handle)
	if err != nil {
		return nil, err
	}

	points, err := buffer[float32](s.Property, handle, entities.MeshPropPointData, 3*counts.Points)
	if err != nil {
		return nil, err
	}
	vertices, err := buffer[int32](s.Property, handle, entities.MeshPropVertexData, counts.Vertices)
	if err != nil {
		return nil, err
	}
	faces, err := buffer[int32](s.Property, handle, entities.MeshPropFaceData, counts.Faces)
	if err != nil {
		return nil, err
	}

	mesh = &entities.Mesh{
		Points:   append([]float32(nil), points[:3*counts.Points]...),
		Vertices: append([]int32(nil), vertices[:counts.Vertices]...),
		Faces:    append([]int32(nil), faces[:counts.Faces]...),
	}
	if err := mesh.Validate(); err != nil {
		return nil, &errors.GeometryError{Field: "input", Err: err}
	}
	return mesh, nil
}

// writeMesh acquires the mesh of output, allocates it for m and fills the
// allocated buffers.
func (r *Runtime) writeMesh(s *suites.Suites, plugin string, output entities.MeshInputHandle, t entities.Time, m *entities.Mesh) (err error) {
	handle, st := s.MeshEffect.InputGetMesh(output, t)
	if err := suites.CheckMeshEffect("inputGetMesh", st); err != nil {
		return err
	}
	r.cfg.recorder.MeshAcquired(plugin)
	defer func() {
		err = r.releaseMesh(s, plugin, handle, err)
	}()

	counts := m.Counts()
	st = s.MeshEffect.MeshAlloc(handle, counts.Points, counts.Vertices, counts.Faces)
	if err := suites.CheckMeshEffect("meshAlloc", st); err != nil {
		return err
	}

	points, err := buffer[float32](s.Property, handle, entities.MeshPropPointData, 3*counts.Points)
	if err != nil {
		return err
	}
	vertices, err := buffer[int32](s.Property, handle, entities.MeshPropVertexData, counts.Vertices)
	if err != nil {
		return err
	}
	faces, err := buffer[int32](s.Property, handle, entities.MeshPropFaceData, counts.Faces)
	if err != nil {
		return err
	}

	copy(points, m.Points)
	copy(vertices, m.Vertices)
	copy(faces, m.Faces)
	return nil
}

// releaseMesh releases handle. A release failure is reported only when
// nothing failed before it, otherwise it is joined after the first error.
func (r *Runtime) releaseMesh(s *suites.Suites, plugin string, handle entities.PropertySetHandle, err error) error {
	st := s.MeshEffect.InputReleaseMesh(handle)
	r.cfg.recorder.MeshReleased(plugin)
	rerr := suites.CheckMeshEffect("inputReleaseMesh", st)
	switch {
	case rerr == nil:
		return err
	case err == nil:
		return rerr
	default:
		return stdErrors.Join(err, rerr)
	}
}

func readCounts(p ports.PropertySuite, mesh entities.PropertySetHandle) (entities.MeshCounts, error) {
	var counts entities.MeshCounts
	for _, c := range []struct {
		name string
		dst  *int
	}{
		{entities.MeshPropPointCount, &counts.Points},
		{entities.MeshPropVertexCount, &counts.Vertices},
		{entities.MeshPropFaceCount, &counts.Faces},
	} {
		v, st := p.PropGetInt(mesh, c.name, 0)
		if err := suites.CheckProperty("propGetInt", st); err != nil {
			return counts, err
		}
		*c.dst = v
	}
	if !counts.Valid() {
		return counts, &errors.GeometryError{Field: "counts", Err: fmt.Errorf("negative count in %s", counts)}
	}
	return counts, nil
}

// buffer fetches a pointer property holding at least n elements of T.
// Zero-length buffers are not fetched.
func buffer[T any](p ports.PropertySuite, mesh entities.PropertySetHandle, name string, n int) ([]T, error) {
	if n == 0 {
		return nil, nil
	}
	v, st := p.PropGetPointer(mesh, name, 0)
	if err := suites.CheckProperty("propGetPointer", st); err != nil {
		return nil, err
	}
	data, ok := v.([]T)
	if !ok {
		return nil, &errors.GeometryError{Field: name, Err: fmt.Errorf("unexpected buffer type %T", v)}
	}
	if len(data) < n {
		return nil, &errors.GeometryError{Field: name, Err: fmt.Errorf("buffer holds %d elements, %d required", len(data), n)}
	}
	return data, nil
}
