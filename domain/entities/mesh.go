package entities

import "fmt"

// MeshCounts holds the element counts used to allocate a mesh.
type MeshCounts struct {
	Points   int `json:"points"`
	Vertices int `json:"vertices"`
	Faces    int `json:"faces"`
}

// Valid reports whether every count is non-negative.
func (c MeshCounts) Valid() bool {
	return c.Points >= 0 && c.Vertices >= 0 && c.Faces >= 0
}

func (c MeshCounts) String() string {
	return fmt.Sprintf("%d points, %d vertices, %d faces", c.Points, c.Vertices, c.Faces)
}

// Mesh is a plugin-owned snapshot of mesh geometry.
// Points holds xyz triples, Vertices holds one point index per face corner
// and Faces holds the number of corners of each face.
type Mesh struct {
	Points   []float32 `json:"points"`
	Vertices []int32   `json:"vertices"`
	Faces    []int32   `json:"faces"`
}

// Counts returns the allocation counts matching the geometry.
func (m *Mesh) Counts() MeshCounts {
	return MeshCounts{
		Points:   len(m.Points) / 3,
		Vertices: len(m.Vertices),
		Faces:    len(m.Faces),
	}
}

// Validate checks the geometry is self-consistent.
func (m *Mesh) Validate() error {
	if len(m.Points)%3 != 0 {
		return fmt.Errorf("point data length %d is not a multiple of 3", len(m.Points))
	}
	pointCount := int32(len(m.Points) / 3)
	for i, p := range m.Vertices {
		if p < 0 || p >= pointCount {
			return fmt.Errorf("vertex %d references point %d out of range [0,%d)", i, p, pointCount)
		}
	}
	corners := 0
	for i, size := range m.Faces {
		if size <= 0 {
			return fmt.Errorf("face %d has size %d", i, size)
		}
		corners += int(size)
	}
	if corners != len(m.Vertices) {
		return fmt.Errorf("faces reference %d corners but mesh has %d vertices", corners, len(m.Vertices))
	}
	return nil
}

// Clone returns a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	return &Mesh{
		Points:   append([]float32(nil), m.Points...),
		Vertices: append([]int32(nil), m.Vertices...),
		Faces:    append([]int32(nil), m.Faces...),
	}
}
