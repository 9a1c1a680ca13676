package cloth

import (
	"github.com/Faultbox/clothsim/pkg/math"
)

// Generation selects how sticks are generated from mesh topology.
type Generation int

const (
	// GenerationQuads connects each grid cell's horizontal, vertical and
	// both diagonal neighbor pairs. The diagonals give the surface shear
	// resistance. For triangle topologies it adds the closing edge of each
	// triangle.
	GenerationQuads Generation = iota
	// GenerationOrtho connects only orthogonal neighbor pairs. Cheaper, but
	// the surface can collapse under shear.
	GenerationOrtho
)

// Stick is a distance constraint between two points, identified by their
// indices in the cloth point array. Sticks are stored in a slice so every
// relaxation pass visits them in the same order.
type Stick struct {
	A, B       int
	RestLength float32
}

// gridSticks generates sticks for an nx by ny vertex grid laid out row-major.
// fixedLen overrides the measured rest length when positive.
func gridSticks(positions []math.Vec3, nx, ny int, gen Generation, fixedLen float32) []Stick {
	count := nx*(ny-1) + ny*(nx-1)
	if gen == GenerationQuads {
		count += 2 * (nx - 1) * (ny - 1)
	}
	sticks := make([]Stick, 0, count)
	add := func(a, b int) {
		sticks = append(sticks, Stick{A: a, B: b, RestLength: restLength(positions, a, b, fixedLen)})
	}
	for y := 0; y < ny; y++ {
		for x := 0; x < nx; x++ {
			i := y*nx + x
			if x+1 < nx {
				add(i, i+1)
			}
			if y+1 < ny {
				add(i, i+nx)
			}
			if gen == GenerationQuads && x+1 < nx && y+1 < ny {
				add(i, i+nx+1)
				add(i+1, i+nx)
			}
		}
	}
	return sticks
}

// triangleSticks generates sticks from indexed triangles, one per unique
// edge. Trailing indices that do not form a full triangle are ignored.
func triangleSticks(positions []math.Vec3, indices []uint32, gen Generation, fixedLen float32) []Stick {
	type edge struct{ a, b int }
	seen := make(map[edge]struct{}, len(indices))
	sticks := make([]Stick, 0, len(indices))
	add := func(a, b int) {
		if _, ok := seen[edge{a, b}]; ok {
			return
		}
		if _, ok := seen[edge{b, a}]; ok {
			return
		}
		seen[edge{a, b}] = struct{}{}
		sticks = append(sticks, Stick{A: a, B: b, RestLength: restLength(positions, a, b, fixedLen)})
	}
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := int(indices[i]), int(indices[i+1]), int(indices[i+2])
		add(a, b)
		add(b, c)
		if gen == GenerationQuads {
			add(c, a)
		}
	}
	return sticks
}

func restLength(positions []math.Vec3, a, b int, fixedLen float32) float32 {
	if fixedLen > 0 {
		return fixedLen
	}
	return positions[a].Distance(positions[b])
}
