// Package cloth implements a Verlet cloth simulation: points advanced by
// position-based integration, distance constraints relaxed iteratively, and
// selected vertices anchored to externally controlled transforms.
//
// The package is a pure library: it owns no scheduling and performs no
// logging. The caller invokes Step once per frame and supplies every
// external input (delta time, winds, transforms) explicitly.
package cloth

import (
	"github.com/Faultbox/clothsim/pkg/math"
)

// Point is a single simulated cloth vertex in world space.
type Point struct {
	Current  math.Vec3
	Previous math.Vec3
	// Pinned points are skipped by integration and treated as immovable by
	// the constraint solver. Their position is written by anchor resolution.
	Pinned bool
}

// Velocity returns the implicit velocity, current minus previous position.
func (p Point) Velocity() math.Vec3 {
	return p.Current.Sub(p.Previous)
}
