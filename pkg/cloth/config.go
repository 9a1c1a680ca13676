package cloth

import (
	"errors"
	"fmt"

	"github.com/Faultbox/clothsim/pkg/math"
)

// Default config values.
const (
	// DefaultGravityY is classic earth gravity along -Y.
	DefaultGravityY = -9.81
	// DefaultFriction keeps a slight velocity damping to reduce elasticity.
	DefaultFriction = 0.02
	// DefaultIterations is the default number of relaxation passes per tick.
	DefaultIterations = 5
)

// Errors reported at construction or configuration time.
var (
	ErrInvalidConfig = errors.New("invalid cloth config")
	ErrInvalidMesh   = errors.New("invalid cloth mesh")
	ErrInvalidAnchor = errors.New("invalid cloth anchor")
)

// Smoothing selects how the integration time step reacts to frame time
// variance. The zero value uses each tick's instantaneous delta time, which
// makes a frame rate spike produce a quadratically larger displacement.
type Smoothing struct {
	// Averaged substitutes an exponential moving average of recent delta
	// times for the instantaneous value wherever it feeds integration.
	Averaged bool
	// Alpha is the moving average coefficient in [0,1]. Higher values track
	// the instantaneous delta time faster.
	Alpha float32
}

// SmoothedAverage returns a Smoothing that averages delta times with the
// given coefficient.
func SmoothedAverage(alpha float32) Smoothing {
	return Smoothing{Averaged: true, Alpha: alpha}
}

// Config holds the physics tuning for a cloth. It may be shared as a global
// default or set per cloth instance.
type Config struct {
	// Gravity is the constant acceleration applied to every unpinned point.
	Gravity math.Vec3
	// Friction dampens inherited velocity, in [0,1]. 0 conserves all
	// velocity between ticks, 1 removes it entirely.
	Friction float32
	// Iterations is the number of constraint relaxation passes per tick
	// (>= 1). More passes converge the cloth closer to rest lengths at
	// proportional cost.
	Iterations int
	// Smoothing controls the effective integration time step.
	Smoothing Smoothing
}

// DefaultConfig returns the standard cloth tuning.
func DefaultConfig() Config {
	return Config{
		Gravity:    math.Vec3{Y: DefaultGravityY},
		Friction:   DefaultFriction,
		Iterations: DefaultIterations,
	}
}

// Validate rejects out-of-range values. Values are never clamped silently,
// so behavior stays predictable.
func (c Config) Validate() error {
	if c.Friction < 0 || c.Friction > 1 {
		return fmt.Errorf("%w: friction %g outside [0,1]", ErrInvalidConfig, c.Friction)
	}
	if c.Iterations < 1 {
		return fmt.Errorf("%w: iterations %d, need at least 1", ErrInvalidConfig, c.Iterations)
	}
	if c.Smoothing.Averaged && (c.Smoothing.Alpha < 0 || c.Smoothing.Alpha > 1) {
		return fmt.Errorf("%w: smoothing alpha %g outside [0,1]", ErrInvalidConfig, c.Smoothing.Alpha)
	}
	return nil
}
