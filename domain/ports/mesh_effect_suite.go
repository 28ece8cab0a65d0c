package ports

import "github.com/meshfx-dev/meshfx-sdk/domain/entities"

// MeshEffectSuite exposes effect, input and mesh operations of the host.
type MeshEffectSuite interface {
	// GetPropertySet returns the property set of an effect.
	GetPropertySet(effect entities.MeshEffectHandle) (entities.PropertySetHandle, entities.Status)

	// InputDefine declares an input (or output) slot during describe.
	InputDefine(effect entities.MeshEffectHandle, name string) (entities.PropertySetHandle, entities.Status)

	// InputGetHandle resolves a declared slot by name on an effect instance.
	InputGetHandle(effect entities.MeshEffectHandle, name string) (entities.MeshInputHandle, entities.PropertySetHandle, entities.Status)

	// InputGetPropertySet returns the property set of a slot.
	InputGetPropertySet(input entities.MeshInputHandle) (entities.PropertySetHandle, entities.Status)

	// InputGetMesh acquires the mesh of a slot at the given time. Every
	// successful call must be paired with exactly one InputReleaseMesh.
	InputGetMesh(input entities.MeshInputHandle, time entities.Time) (entities.PropertySetHandle, entities.Status)

	// InputReleaseMesh releases a mesh acquired with InputGetMesh.
	InputReleaseMesh(mesh entities.PropertySetHandle) entities.Status

	// MeshAlloc allocates the data buffers of an output mesh.
	MeshAlloc(mesh entities.PropertySetHandle, pointCount, vertexCount, faceCount int) entities.Status
}
