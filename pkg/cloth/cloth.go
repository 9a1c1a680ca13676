package cloth

import (
	"fmt"

	"github.com/Faultbox/clothsim/pkg/math"
)

// lengthEpsilon guards the constraint solver against near-zero stick
// lengths: the correction for such a stick is skipped for the pass rather
// than dividing by an unstable magnitude.
const lengthEpsilon = 1e-5

// BuildOptions configures cloth construction.
type BuildOptions struct {
	// Generation selects the stick topology mode.
	Generation Generation
	// StickLength overrides measured rest lengths when positive. Zero
	// measures each stick from the initial mesh edge length.
	StickLength float32
	// Anchors pin selected vertices to external transforms.
	Anchors []AnchorSet
}

// Cloth simulates a deformable surface. Points live in world space; the
// whole per-tick pipeline is synchronous and the caller invokes it exactly
// once per simulation step.
type Cloth struct {
	points  []Point
	sticks  []Stick
	anchors []binding
	cfg     Config
	avgDT   float32
}

// New builds a cloth over the given mesh. The transform places the mesh in
// world space. Point, stick and anchor data are created once here and keep
// their size for the cloth's lifetime.
func New(mesh *Mesh, transform math.Mat4, cfg Config, opts BuildOptions) (*Cloth, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if mesh == nil {
		return nil, fmt.Errorf("%w: nil mesh", ErrInvalidMesh)
	}
	if err := mesh.Validate(); err != nil {
		return nil, err
	}
	if opts.StickLength < 0 {
		return nil, fmt.Errorf("%w: stick length %g is negative", ErrInvalidConfig, opts.StickLength)
	}

	anchors, err := resolveAnchors(mesh, opts.Anchors)
	if err != nil {
		return nil, err
	}

	points := make([]Point, len(mesh.Positions))
	positions := make([]math.Vec3, len(mesh.Positions))
	for i, p := range mesh.Positions {
		world := transform.TransformVec3(p)
		positions[i] = world
		points[i] = Point{Current: world, Previous: world}
	}
	for _, bind := range anchors {
		for _, id := range bind.ids {
			points[id].Pinned = true
		}
	}

	var sticks []Stick
	if mesh.GridWidth > 0 && mesh.GridHeight > 0 {
		sticks = gridSticks(positions, mesh.GridWidth, mesh.GridHeight, opts.Generation, opts.StickLength)
	} else {
		sticks = triangleSticks(positions, mesh.Indices, opts.Generation, opts.StickLength)
	}

	return &Cloth{
		points:  points,
		sticks:  sticks,
		anchors: anchors,
		cfg:     cfg,
	}, nil
}

// resolveAnchors evaluates every selector against the mesh, producing fixed
// id sets. Out-of-range ids and color selectors without vertex colors fail
// construction.
func resolveAnchors(mesh *Mesh, sets []AnchorSet) ([]binding, error) {
	n := len(mesh.Positions)
	var anchors []binding
	for _, set := range sets {
		seen := make(map[int]struct{})
		var ids []int
		pick := func(id int) {
			if _, ok := seen[id]; ok {
				return
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
		for _, id := range set.IDs {
			if id < 0 || id >= n {
				return nil, fmt.Errorf("%w: vertex id %d outside [0,%d)", ErrInvalidAnchor, id, n)
			}
			pick(id)
		}
		if set.Color != nil {
			if mesh.Colors == nil {
				return nil, fmt.Errorf("%w: color selector requires mesh vertex colors", ErrInvalidAnchor)
			}
			for i, c := range mesh.Colors {
				if set.Color(c) {
					pick(i)
				}
			}
		}
		if set.Position != nil {
			for i, p := range mesh.Positions {
				if set.Position(p) {
					pick(i)
				}
			}
		}
		if len(ids) == 0 {
			continue
		}
		anchors = append(anchors, binding{anchor: set.Anchor, ids: ids})
	}
	return anchors, nil
}

// StepInput carries the per-tick external inputs. Config and winds are
// read-only for the duration of the tick.
type StepInput struct {
	// DT is the elapsed time since the previous tick, in seconds.
	DT float32
	// Elapsed is the time since simulation start, in seconds. Winds sample it.
	Elapsed float32
	// Transform is the owning entity's current world transform.
	Transform math.Mat4
	// Winds is the ordered wind force list, summed into the acceleration.
	Winds Winds
	// Lookup resolves custom anchor targets. May be nil when no anchor
	// names one.
	Lookup TransformLookup
}

// Step advances the simulation one tick: force accumulation, Verlet
// integration, constraint relaxation, anchor resolution. Data flows strictly
// forward through those stages.
func (c *Cloth) Step(in StepInput) {
	accel := c.cfg.Gravity.Add(in.Winds.VelocityAt(in.Elapsed))
	dt := c.effectiveDT(in.DT)
	c.integrate(accel, dt)
	c.relax()
	c.resolvePinned(in.Transform.Translation(), in.Lookup)
}

// effectiveDT returns the integration time step, applying the configured
// smoothing. The moving average seeds from the first observed delta time.
func (c *Cloth) effectiveDT(dt float32) float32 {
	if !c.cfg.Smoothing.Averaged {
		return dt
	}
	if c.avgDT <= 0 {
		c.avgDT = dt
	} else {
		a := c.cfg.Smoothing.Alpha
		c.avgDT = a*dt + (1-a)*c.avgDT
	}
	return c.avgDT
}

// integrate advances every unpinned point by its inherited velocity and the
// accumulated acceleration.
func (c *Cloth) integrate(accel math.Vec3, dt float32) {
	keep := 1 - c.cfg.Friction
	step := accel.Scale(dt * dt)
	for i := range c.points {
		p := &c.points[i]
		if p.Pinned {
			continue
		}
		next := p.Current.Add(p.Velocity().Scale(keep)).Add(step)
		p.Previous = p.Current
		p.Current = next
	}
}

// relax runs the configured number of Gauss-Seidel passes over the sticks,
// in stick order. The correction is split by endpoint mobility: both free
// endpoints share it, a single free endpoint absorbs it fully, two pinned
// endpoints are left alone.
func (c *Cloth) relax() {
	for iter := 0; iter < c.cfg.Iterations; iter++ {
		for _, s := range c.sticks {
			a, b := &c.points[s.A], &c.points[s.B]
			if a.Pinned && b.Pinned {
				continue
			}
			delta := b.Current.Sub(a.Current)
			dist := delta.Length()
			if dist < lengthEpsilon {
				continue
			}
			diff := (dist - s.RestLength) / dist
			switch {
			case a.Pinned:
				b.Current = b.Current.Sub(delta.Scale(diff))
			case b.Pinned:
				a.Current = a.Current.Add(delta.Scale(diff))
			default:
				half := delta.Scale(0.5 * diff)
				a.Current = a.Current.Add(half)
				b.Current = b.Current.Sub(half)
			}
		}
	}
}

// resolvePinned overwrites every anchored point with its resolved anchor
// position. Both current and previous positions are written so anchored
// points carry no residual velocity into the next tick.
func (c *Cloth) resolvePinned(self math.Vec3, lookup TransformLookup) {
	for _, bind := range c.anchors {
		pos := bind.anchor.position(self, lookup)
		for _, id := range bind.ids {
			p := &c.points[id]
			p.Current = pos
			p.Previous = pos
		}
	}
}

// SolveCollisions applies an external projection to every unpinned point.
// The solve function returns the corrected position and true when the point
// had to move. Pinned points are never moved.
func (c *Cloth) SolveCollisions(solve func(math.Vec3) (math.Vec3, bool)) {
	for i := range c.points {
		p := &c.points[i]
		if p.Pinned {
			continue
		}
		if next, moved := solve(p.Current); moved {
			p.Current = next
		}
	}
}

// Points exposes the simulated points. The slice is owned by the cloth;
// treat it as read-only.
func (c *Cloth) Points() []Point {
	return c.points
}

// Sticks exposes the distance constraints. The slice is owned by the cloth;
// treat it as read-only.
func (c *Cloth) Sticks() []Stick {
	return c.sticks
}

// Positions returns a copy of the current world space point positions.
func (c *Cloth) Positions() []math.Vec3 {
	out := make([]math.Vec3, len(c.points))
	for i, p := range c.points {
		out[i] = p.Current
	}
	return out
}

// VertexPositions returns the current positions converted to the mesh local
// space of the given world transform, ready to write back into a mesh.
func (c *Cloth) VertexPositions(transform math.Mat4) []math.Vec3 {
	inv := transform.Inverse()
	out := make([]math.Vec3, len(c.points))
	for i, p := range c.points {
		out[i] = inv.TransformVec3(p.Current)
	}
	return out
}

// AABB returns the axis-aligned bounding box of all current point
// positions, expanded by padding on every side.
func (c *Cloth) AABB(padding float32) AABB {
	return computeAABB(c.points, padding)
}

// Config returns the cloth's current physics tuning.
func (c *Cloth) Config() Config {
	return c.cfg
}

// SetConfig replaces the physics tuning between ticks. Invalid values are
// rejected and leave the current config untouched.
func (c *Cloth) SetConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}
