// Package geometry provides mesh transforms.
package geometry

import (
	"context"

	"github.com/meshfx-dev/meshfx-sdk/domain/entities"
	"github.com/meshfx-dev/meshfx-sdk/domain/ports"
)

// Identity returns a deep copy of its input.
type Identity struct{}

var _ ports.MeshTransform = Identity{}

// Apply implements ports.MeshTransform.
func (Identity) Apply(ctx context.Context, in *entities.Mesh) (*entities.Mesh, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return in.Clone(), nil
}
