package cloth

import (
	gomath "math"

	"github.com/Faultbox/clothsim/pkg/math"
)

// Wind contributes an acceleration to the cloth each tick.
type Wind interface {
	// VelocityAt returns the wind contribution for the given elapsed time
	// in seconds since simulation start.
	VelocityAt(elapsed float32) math.Vec3
}

// ConstantWind is a fixed wind force.
type ConstantWind struct {
	Velocity math.Vec3
}

// VelocityAt returns the constant velocity regardless of elapsed time.
func (w ConstantWind) VelocityAt(float32) math.Vec3 {
	return w.Velocity
}

// SinWaveWind is a wind force following a sin wave.
type SinWaveWind struct {
	// MaxVelocity is the wind velocity at the top of the wave.
	MaxVelocity math.Vec3
	// Frequency is the wave frequency in radians per second.
	Frequency float32
	// Abs mirrors negative wave values, making the wind act as a bouncing
	// signal instead of reversing direction.
	Abs bool
	// Normalize rescales each non-zero contribution to the magnitude of
	// MaxVelocity, holding the direction: a constant-strength gust whose
	// sign (or, with Abs, presence) still follows the wave.
	Normalize bool
}

// VelocityAt returns the wave contribution for the given elapsed time.
func (w SinWaveWind) VelocityAt(elapsed float32) math.Vec3 {
	sin := float32(gomath.Sin(float64(elapsed * w.Frequency)))
	if w.Abs {
		sin = float32(gomath.Abs(float64(sin)))
	}
	v := w.MaxVelocity.Scale(sin)
	if w.Normalize {
		l := v.Length()
		if l == 0 {
			return math.Vec3{}
		}
		v = v.Scale(w.MaxVelocity.Length() / l)
	}
	return v
}

// Winds is an ordered list of wind forces summed each tick.
type Winds []Wind

// VelocityAt returns the sum of all wind contributions.
func (ws Winds) VelocityAt(elapsed float32) math.Vec3 {
	var sum math.Vec3
	for _, w := range ws {
		sum = sum.Add(w.VelocityAt(elapsed))
	}
	return sum
}
