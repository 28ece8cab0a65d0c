package ports

import (
	"context"

	"github.com/meshfx-dev/meshfx-sdk/domain/entities"
)

// MeshTransform computes the output geometry of a cook from a snapshot of
// the input geometry. Implementations must not retain or mutate in.
type MeshTransform interface {
	Apply(ctx context.Context, in *entities.Mesh) (*entities.Mesh, error)
}

// TransformFunc adapts a function to MeshTransform.
type TransformFunc func(ctx context.Context, in *entities.Mesh) (*entities.Mesh, error)

// Apply calls f(ctx, in).
func (f TransformFunc) Apply(ctx context.Context, in *entities.Mesh) (*entities.Mesh, error) {
	return f(ctx, in)
}
