package geometry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshfx-dev/meshfx-sdk/domain/entities"
)

func triangle() *entities.Mesh {
	return &entities.Mesh{
		Points:   []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		Vertices: []int32{0, 1, 2},
		Faces:    []int32{3},
	}
}

func TestIdentity_Apply(t *testing.T) {
	in := triangle()

	out, err := Identity{}.Apply(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	out.Points[0] = 42
	assert.Equal(t, float32(0), in.Points[0], "output must not alias input")
}

func TestIdentity_Empty(t *testing.T) {
	out, err := Identity{}.Apply(context.Background(), &entities.Mesh{})
	require.NoError(t, err)
	assert.Equal(t, entities.MeshCounts{}, out.Counts())
}

func TestIdentity_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Identity{}.Apply(ctx, triangle())
	require.ErrorIs(t, err, context.Canceled)
}
