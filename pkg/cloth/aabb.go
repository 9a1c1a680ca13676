package cloth

import (
	"github.com/Faultbox/clothsim/pkg/math"
)

// AABB is an axis-aligned bounding box in world space.
type AABB struct {
	Min, Max math.Vec3
}

// Center returns the box center.
func (b AABB) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// HalfExtents returns the half size of the box along each axis.
func (b AABB) HalfExtents() math.Vec3 {
	return b.Max.Sub(b.Min).Scale(0.5)
}

// AABBConsumer receives the cloth bounds after every tick. External
// collision engines subscribe through this interface; the cloth never
// references an engine directly.
type AABBConsumer interface {
	UpdateAABB(AABB)
}

func computeAABB(points []Point, padding float32) AABB {
	if len(points) == 0 {
		return AABB{}
	}
	box := AABB{Min: points[0].Current, Max: points[0].Current}
	for _, p := range points[1:] {
		box.Min = box.Min.Min(p.Current)
		box.Max = box.Max.Max(p.Current)
	}
	pad := math.Vec3{X: padding, Y: padding, Z: padding}
	box.Min = box.Min.Sub(pad)
	box.Max = box.Max.Add(pad)
	return box
}
