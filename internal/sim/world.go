// Package sim hosts cloth instances: it owns the registry of external
// transforms, steps every active cloth once per frame, and publishes the
// resulting bounds to registered consumers.
package sim

import (
	"go.uber.org/zap"

	"github.com/Faultbox/clothsim/internal/logger"
	"github.com/Faultbox/clothsim/pkg/cloth"
	"github.com/Faultbox/clothsim/pkg/math"
)

// World drives a set of cloth instances. It is single-threaded: the host
// loop invokes Tick exactly once per frame, and configuration mutations are
// only safe between ticks. Independent worlds share no state.
type World struct {
	defaults   cloth.Config
	winds      cloth.Winds
	targets    map[cloth.TargetID]math.Mat4
	nextTarget cloth.TargetID
	instances  []*Instance
	elapsed    float32
}

// New creates an empty world with the given default cloth config.
func New(defaults cloth.Config) (*World, error) {
	if err := defaults.Validate(); err != nil {
		return nil, err
	}
	return &World{
		defaults:   defaults,
		targets:    make(map[cloth.TargetID]math.Mat4),
		nextTarget: 1,
	}, nil
}

// SetWinds replaces the wind force list for subsequent ticks.
func (w *World) SetWinds(winds cloth.Winds) {
	w.winds = winds
}

// RegisterTarget adds an external transform anchors can follow and returns
// its id.
func (w *World) RegisterTarget(transform math.Mat4) cloth.TargetID {
	id := w.nextTarget
	w.nextTarget++
	w.targets[id] = transform
	return id
}

// MoveTarget updates a registered transform.
func (w *World) MoveTarget(id cloth.TargetID, transform math.Mat4) {
	w.targets[id] = transform
}

// Instance is one cloth attached to the world. The mesh may arrive after
// attachment; the instance stays inactive (its tick is skipped) until the
// mesh is set.
type Instance struct {
	name      string
	transform math.Mat4
	opts      cloth.BuildOptions
	override  *cloth.Config
	mesh      *cloth.Mesh
	c         *cloth.Cloth
	failed    bool
	padding   float32
	consumers []cloth.AABBConsumer
}

// Attach adds a cloth instance to the world. The returned Instance is owned
// by the world; use it to supply the mesh and adjust settings between ticks.
func (w *World) Attach(name string, transform math.Mat4, opts cloth.BuildOptions) *Instance {
	inst := &Instance{name: name, transform: transform, opts: opts}
	w.instances = append(w.instances, inst)
	logger.Debug("cloth attached", zap.String("cloth", name))
	return inst
}

// Name returns the instance name.
func (i *Instance) Name() string {
	return i.name
}

// Cloth returns the simulated cloth, or nil while the instance is inactive.
func (i *Instance) Cloth() *cloth.Cloth {
	return i.c
}

// SetMesh supplies the mesh data. The cloth is built on the next tick;
// supplying a new mesh to an active instance rebuilds it from rest.
func (i *Instance) SetMesh(mesh *cloth.Mesh) {
	i.mesh = mesh
	i.c = nil
	i.failed = false
}

// SetTransform updates the owning entity's world transform.
func (i *Instance) SetTransform(transform math.Mat4) {
	i.transform = transform
}

// SetConfig overrides the world default config for this instance.
func (i *Instance) SetConfig(cfg cloth.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	i.override = &cfg
	if i.c != nil {
		return i.c.SetConfig(cfg)
	}
	return nil
}

// SetPadding sets the bounds padding reported to consumers.
func (i *Instance) SetPadding(padding float32) {
	i.padding = padding
}

// AddConsumer subscribes a consumer to this instance's bounds after every
// tick.
func (i *Instance) AddConsumer(c cloth.AABBConsumer) {
	i.consumers = append(i.consumers, c)
}

// Tick advances the world by dt seconds: pending instances with mesh data
// are built, every active cloth is stepped once, and bounds are pushed to
// consumers.
func (w *World) Tick(dt float32) {
	w.elapsed += dt
	lookup := func(id cloth.TargetID) (math.Vec3, bool) {
		m, ok := w.targets[id]
		if !ok {
			return math.Vec3{}, false
		}
		return m.Translation(), true
	}
	for _, inst := range w.instances {
		if inst.c == nil {
			if inst.mesh == nil || inst.failed {
				continue
			}
			cfg := w.defaults
			if inst.override != nil {
				cfg = *inst.override
			}
			c, err := cloth.New(inst.mesh, inst.transform, cfg, inst.opts)
			if err != nil {
				logger.Error("failed to build cloth",
					zap.String("cloth", inst.name),
					zap.Error(err),
				)
				inst.failed = true
				continue
			}
			logger.Debug("cloth initialized",
				zap.String("cloth", inst.name),
				zap.Int("points", len(c.Points())),
				zap.Int("sticks", len(c.Sticks())),
			)
			inst.c = c
		}
		inst.c.Step(cloth.StepInput{
			DT:        dt,
			Elapsed:   w.elapsed,
			Transform: inst.transform,
			Winds:     w.winds,
			Lookup:    lookup,
		})
		if len(inst.consumers) > 0 {
			box := inst.c.AABB(inst.padding)
			for _, consumer := range inst.consumers {
				consumer.UpdateAABB(box)
			}
		}
	}
}
