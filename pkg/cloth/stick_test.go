package cloth

import (
	"testing"

	"github.com/Faultbox/clothsim/pkg/math"
)

func buildGrid(t *testing.T, nx, ny int, gen Generation) *Cloth {
	t.Helper()
	mesh := mustRectangle(nx, ny, math.Vec3{}, math.Vec3{X: 1}, math.Vec3{Z: 1})
	c, err := New(mesh, math.Identity(), DefaultConfig(), BuildOptions{Generation: gen})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return c
}

func TestGridStickCounts(t *testing.T) {
	tests := []struct {
		nx, ny int
		gen    Generation
	}{
		{4, 4, GenerationQuads},
		{4, 4, GenerationOrtho},
		{7, 3, GenerationQuads},
		{7, 3, GenerationOrtho},
		{2, 2, GenerationQuads},
		{66, 42, GenerationQuads},
		{66, 42, GenerationOrtho},
	}
	for _, tt := range tests {
		c := buildGrid(t, tt.nx, tt.ny, tt.gen)
		want := tt.nx*(tt.ny-1) + tt.ny*(tt.nx-1)
		if tt.gen == GenerationQuads {
			want += 2 * (tt.nx - 1) * (tt.ny - 1)
		}
		if got := len(c.Sticks()); got != want {
			t.Errorf("grid %dx%d gen %d: %d sticks, want %d", tt.nx, tt.ny, tt.gen, got, want)
		}
	}
}

func TestGridStickRestLengths(t *testing.T) {
	c := buildGrid(t, 3, 3, GenerationOrtho)
	for _, s := range c.Sticks() {
		if s.RestLength != 1 {
			t.Errorf("stick (%d,%d) rest length %v, want 1", s.A, s.B, s.RestLength)
		}
	}
}

func TestStickOrderStable(t *testing.T) {
	a := buildGrid(t, 5, 4, GenerationQuads)
	b := buildGrid(t, 5, 4, GenerationQuads)
	if len(a.Sticks()) != len(b.Sticks()) {
		t.Fatalf("stick counts differ: %d vs %d", len(a.Sticks()), len(b.Sticks()))
	}
	for i := range a.Sticks() {
		if a.Sticks()[i] != b.Sticks()[i] {
			t.Fatalf("stick %d differs between identical builds: %v vs %v", i, a.Sticks()[i], b.Sticks()[i])
		}
	}
}

func TestTriangleSticks(t *testing.T) {
	// Two triangles sharing edge 1-2.
	mesh := &Mesh{
		Positions: []math.Vec3{{}, {X: 1}, {Z: 1}, {X: 1, Z: 1}},
		Indices:   []uint32{0, 1, 2, 2, 1, 3},
	}

	c, err := New(mesh, math.Identity(), DefaultConfig(), BuildOptions{Generation: GenerationOrtho})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	// Edges 0-1, 1-2 from the first triangle, 2-1 deduplicated, 1-3 from
	// the second.
	if got := len(c.Sticks()); got != 3 {
		t.Errorf("ortho triangle sticks = %d, want 3", got)
	}

	c, err = New(mesh, math.Identity(), DefaultConfig(), BuildOptions{Generation: GenerationQuads})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	// Quads adds the closing edges 2-0 and 3-2.
	if got := len(c.Sticks()); got != 5 {
		t.Errorf("quads triangle sticks = %d, want 5", got)
	}
}

func TestFixedStickLength(t *testing.T) {
	mesh := mustRectangle(3, 3, math.Vec3{}, math.Vec3{X: 2}, math.Vec3{Z: 2})
	c, err := New(mesh, math.Identity(), DefaultConfig(), BuildOptions{StickLength: 0.5})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	for _, s := range c.Sticks() {
		if s.RestLength != 0.5 {
			t.Errorf("stick (%d,%d) rest length %v, want fixed 0.5", s.A, s.B, s.RestLength)
		}
	}
}
