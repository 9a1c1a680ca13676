package cloth

import (
	"testing"

	"github.com/Faultbox/clothsim/pkg/math"
)

func TestAABB(t *testing.T) {
	mesh := mustRectangle(3, 3, math.Vec3{}, math.Vec3{X: 2}, math.Vec3{Z: 1})
	c, err := New(mesh, math.Identity(), DefaultConfig(), BuildOptions{})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	box := c.AABB(0)
	if box.Min != (math.Vec3{}) {
		t.Errorf("AABB min = %v, want origin", box.Min)
	}
	if want := (math.Vec3{X: 4, Z: 2}); box.Max != want {
		t.Errorf("AABB max = %v, want %v", box.Max, want)
	}
	if want := (math.Vec3{X: 2, Z: 1}); box.Center() != want {
		t.Errorf("AABB center = %v, want %v", box.Center(), want)
	}
	if want := (math.Vec3{X: 2, Z: 1}); box.HalfExtents() != want {
		t.Errorf("AABB half extents = %v, want %v", box.HalfExtents(), want)
	}
}

func TestAABBPadding(t *testing.T) {
	mesh := mustRectangle(2, 2, math.Vec3{}, math.Vec3{X: 1}, math.Vec3{Z: 1})
	c, err := New(mesh, math.Identity(), DefaultConfig(), BuildOptions{})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	box := c.AABB(0.25)
	if want := (math.Vec3{X: -0.25, Y: -0.25, Z: -0.25}); box.Min != want {
		t.Errorf("padded AABB min = %v, want %v", box.Min, want)
	}
	if want := (math.Vec3{X: 1.25, Y: 0.25, Z: 1.25}); box.Max != want {
		t.Errorf("padded AABB max = %v, want %v", box.Max, want)
	}
}

func TestAABBEmpty(t *testing.T) {
	box := computeAABB(nil, 1)
	if box != (AABB{}) {
		t.Errorf("empty AABB = %v, want zero value", box)
	}
}
