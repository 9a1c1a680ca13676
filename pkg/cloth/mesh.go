package cloth

import (
	"fmt"

	"github.com/Faultbox/clothsim/pkg/math"
)

// Mesh holds the vertex and topology data a cloth simulates over. Positions
// are in mesh local space. UVs and Colors are optional; when present they
// must carry one entry per vertex.
type Mesh struct {
	Positions []math.Vec3
	UVs       [][2]float32
	Colors    [][4]float32
	Indices   []uint32

	// GridWidth and GridHeight describe the vertex grid of generated
	// rectangle meshes and enable grid-aware stick generation with both
	// diagonals. When zero, stick topology is derived from Indices.
	GridWidth  int
	GridHeight int
}

// Validate checks attribute counts and index ranges.
func (m *Mesh) Validate() error {
	n := len(m.Positions)
	if n == 0 {
		return fmt.Errorf("%w: mesh has no vertices", ErrInvalidMesh)
	}
	if m.UVs != nil && len(m.UVs) != n {
		return fmt.Errorf("%w: expected %d uvs, got %d", ErrInvalidMesh, n, len(m.UVs))
	}
	if m.Colors != nil && len(m.Colors) != n {
		return fmt.Errorf("%w: expected %d colors, got %d", ErrInvalidMesh, n, len(m.Colors))
	}
	for _, idx := range m.Indices {
		if int(idx) >= n {
			return fmt.Errorf("%w: index %d out of range [0,%d)", ErrInvalidMesh, idx, n)
		}
	}
	if m.GridWidth > 0 || m.GridHeight > 0 {
		if m.GridWidth*m.GridHeight != n {
			return fmt.Errorf("%w: grid %dx%d does not match %d vertices", ErrInvalidMesh, m.GridWidth, m.GridHeight, n)
		}
	} else if len(m.Indices) == 0 {
		return fmt.Errorf("%w: mesh has no topology", ErrInvalidMesh)
	}
	return nil
}

// Duplicated returns a copy of the mesh with one vertex per index, so no
// vertex is shared between triangles. UVs and colors are carried through.
// The given positions replace the mesh positions and must match the vertex
// count; pass m.Positions to keep the originals.
func (m *Mesh) Duplicated(positions []math.Vec3) *Mesh {
	out := &Mesh{
		Positions: make([]math.Vec3, len(m.Indices)),
		Indices:   make([]uint32, len(m.Indices)),
	}
	if m.UVs != nil {
		out.UVs = make([][2]float32, len(m.Indices))
	}
	if m.Colors != nil {
		out.Colors = make([][4]float32, len(m.Indices))
	}
	for i, idx := range m.Indices {
		out.Positions[i] = positions[idx]
		out.Indices[i] = uint32(i)
		if m.UVs != nil {
			out.UVs[i] = m.UVs[idx]
		}
		if m.Colors != nil {
			out.Colors[i] = m.Colors[idx]
		}
	}
	return out
}

// Rectangle generates an nx by ny vertex grid mesh starting at origin, with
// stepX and stepY advancing one vertex along each grid axis. Vertices are
// laid out row-major, two triangles per cell, with UVs spanning [0,1].
// Fewer than 2 vertices along either axis cannot form a cell and fail
// construction.
func Rectangle(nx, ny int, origin, stepX, stepY math.Vec3) (*Mesh, error) {
	if nx < 2 || ny < 2 {
		return nil, fmt.Errorf("%w: rectangle needs at least 2x2 vertices, got %dx%d", ErrInvalidMesh, nx, ny)
	}
	positions := make([]math.Vec3, 0, nx*ny)
	uvs := make([][2]float32, 0, nx*ny)
	for y := 0; y < ny; y++ {
		for x := 0; x < nx; x++ {
			p := origin.Add(stepX.Scale(float32(x))).Add(stepY.Scale(float32(y)))
			positions = append(positions, p)
			uvs = append(uvs, [2]float32{float32(x) / float32(nx-1), float32(y) / float32(ny-1)})
		}
	}
	indices := make([]uint32, 0, (nx-1)*(ny-1)*6)
	for y := 0; y < ny-1; y++ {
		for x := 0; x < nx-1; x++ {
			i := uint32(y*nx + x)
			w := uint32(nx)
			indices = append(indices,
				i, i+w+1, i+1,
				i, i+w, i+w+1,
			)
		}
	}
	return &Mesh{
		Positions:  positions,
		UVs:        uvs,
		Indices:    indices,
		GridWidth:  nx,
		GridHeight: ny,
	}, nil
}
