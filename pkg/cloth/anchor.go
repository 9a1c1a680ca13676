package cloth

import (
	"github.com/Faultbox/clothsim/pkg/math"
)

// TargetID identifies an externally owned transform an anchor follows. The
// zero value refers to the cloth's own transform. The cloth never owns the
// target; positions are resolved through a TransformLookup each tick.
type TargetID uint64

// TransformLookup resolves a TargetID to its current world position. It is
// supplied by the caller on every tick and never retained.
type TransformLookup func(TargetID) (math.Vec3, bool)

// Anchor places cloth points at an externally controlled position each tick.
type Anchor struct {
	// Target selects the transform to follow. Zero follows the cloth's own
	// transform.
	Target TargetID
	// Offset is added to the resolved target position.
	Offset math.Vec3
	// Override, when set, bypasses target resolution entirely.
	Override *math.Vec3
}

// position resolves the anchor's world position for this tick. A failed
// lookup falls back to the cloth's own position.
func (a Anchor) position(self math.Vec3, lookup TransformLookup) math.Vec3 {
	if a.Override != nil {
		return *a.Override
	}
	target := self
	if a.Target != 0 && lookup != nil {
		if pos, ok := lookup(a.Target); ok {
			target = pos
		}
	}
	return target.Add(a.Offset)
}

// AnchorSet selects the vertices an Anchor controls. Selectors are evaluated
// once at build time and produce a fixed id set; IDs, Color and Position may
// be combined and their matches are unioned.
type AnchorSet struct {
	Anchor Anchor
	// IDs lists explicit vertex ids. Ids outside the mesh vertex range fail
	// construction.
	IDs []int
	// Color selects every vertex whose color matches the predicate.
	// Requires the mesh to carry vertex colors.
	Color func(rgba [4]float32) bool
	// Position selects every vertex whose initial local position matches
	// the predicate.
	Position func(pos math.Vec3) bool
}

// binding is an anchor with its resolved vertex id set.
type binding struct {
	anchor Anchor
	ids    []int
}
