package scene

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"

	"github.com/san-kum/physics2d/internal/engine"
	"github.com/san-kum/physics2d/internal/geometry"
)

var ErrUnknownScene = errors.New("scene: unknown scene")

// Options are shared by every builder. Gravity is ignored by scenes that
// bring their own field.
type Options struct {
	Gravity geometry.Vector2D
	Rand    *rand.Rand
}

// Builder populates an empty engine.
type Builder func(e *engine.PhysicsEngine, opts Options) error

type Registry struct {
	scenes map[string]Builder
}

func NewRegistry() *Registry {
	r := &Registry{scenes: make(map[string]Builder)}

	r.scenes["drop"] = buildDrop
	r.scenes["tower"] = buildTower
	r.scenes["slope"] = buildSlope
	r.scenes["pyramid"] = buildPyramid
	r.scenes["towers"] = buildTowers
	r.scenes["chain"] = buildChain
	r.scenes["well"] = buildWell
	r.scenes["bridge"] = buildBridge
	r.scenes["ramps"] = buildRamps
	r.scenes["particles"] = buildParticles
	r.scenes["bomb"] = buildBomb

	return r
}

// Register adds or replaces a scene.
func (r *Registry) Register(name string, b Builder) { r.scenes[name] = b }

// Build populates e with the named scene. A nil opts.Rand is replaced by
// one seeded with 0.
func (r *Registry) Build(name string, e *engine.PhysicsEngine, opts Options) error {
	fn, ok := r.scenes[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownScene, name)
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(0))
	}
	if err := fn(e, opts); err != nil {
		return fmt.Errorf("scene %s: %w", name, err)
	}
	return nil
}

func (r *Registry) List() []string {
	names := make([]string, 0, len(r.scenes))
	for name := range r.scenes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
