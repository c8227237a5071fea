package scene

import (
	"math"

	"github.com/san-kum/physics2d/internal/body"
	"github.com/san-kum/physics2d/internal/engine"
	"github.com/san-kum/physics2d/internal/geometry"
	"github.com/san-kum/physics2d/internal/lifecycle"
	"github.com/san-kum/physics2d/internal/logic"
	"github.com/san-kum/physics2d/internal/shapes"
)

// standard is a gravity field and the default floor.
func standard(e *engine.PhysicsEngine, opts Options) error {
	if err := addGravity(e, opts.Gravity); err != nil {
		return err
	}
	_, err := addFloor(e, at(0, 700, 750))
	return err
}

func buildDrop(e *engine.PhysicsEngine, opts Options) error {
	if err := standard(e, opts); err != nil {
		return err
	}
	if _, err := addRectangle(e, opts.Rand, 40, 40, 20, at(0, 600, 300)); err != nil {
		return err
	}
	if _, err := addCircle(e, 20, 20, 120, at(0, 800, 200)); err != nil {
		return err
	}
	return addAvatar(e, geometry.Vector2D{X: 200, Y: 650})
}

// addAvatar adds a subdivided hull that cannot rotate.
func addAvatar(e *engine.PhysicsEngine, position geometry.Vector2D) error {
	const ld2, wd2 = 15.0, 5.0
	vertices := shapes.Subdivide([]geometry.Vector2D{
		{X: wd2 * 2.5, Y: ld2 * 1.2},
		{X: wd2, Y: ld2 * 1.5},
		{X: -wd2, Y: ld2 * 1.5},
		{X: -wd2 * 2.5, Y: ld2 * 1.2},
		{X: -wd2, Y: -ld2},
		{X: wd2, Y: -ld2},
	}, 2)
	p, err := shapes.NewPolygon(vertices)
	if err != nil {
		return err
	}
	mass, err := body.NewMassInfo(5, math.Inf(1))
	if err != nil {
		return err
	}
	avatar, err := body.New(body.NewPhysicsState(geometry.NewALVector2D(0, position)), p, mass, surface, nil)
	if err != nil {
		return err
	}
	avatar.Tag = "avatar"
	return e.AddBody(avatar)
}

func buildTower(e *engine.PhysicsEngine, opts Options) error {
	if err := standard(e, opts); err != nil {
		return err
	}
	return addTower(e, opts.Rand, 500, 400, FloorTop-15)
}

// buildSlope is the tower on a slightly tilted floor.
func buildSlope(e *engine.PhysicsEngine, opts Options) error {
	if err := addGravity(e, opts.Gravity); err != nil {
		return err
	}
	if _, err := addFloor(e, at(0.1, 600, 760)); err != nil {
		return err
	}
	return addTower(e, opts.Rand, 500, 400, FloorTop-15)
}

func buildPyramid(e *engine.PhysicsEngine, opts Options) error {
	if err := standard(e, opts); err != nil {
		return err
	}
	return addPyramid(e, opts.Rand)
}

func buildTowers(e *engine.PhysicsEngine, opts Options) error {
	if err := standard(e, opts); err != nil {
		return err
	}
	return addTowers(e, opts.Rand)
}

// buildChain hangs a chain of heavy planks from a fixed block.
func buildChain(e *engine.PhysicsEngine, opts Options) error {
	if err := addGravity(e, opts.Gravity); err != nil {
		return err
	}
	chain, err := addChain(e, opts.Rand, geometry.Vector2D{X: 400, Y: 50}, 100, 30, 200, 10, 800)
	if err != nil {
		return err
	}
	point := geometry.Vector2D{X: 300, Y: 50}
	anchor, err := addRectangle(e, opts.Rand, 60, 60, math.Inf(1), geometry.NewALVector2D(0, point))
	if err != nil {
		return err
	}
	return addHinge(e, chain[0], anchor, point)
}

// buildWell drops the box grid into a point gravity well instead of a
// uniform field.
func buildWell(e *engine.PhysicsEngine, opts Options) error {
	if err := e.AddLogic(logic.NewGravityPointField(geometry.Vector2D{X: 500, Y: 500}, 200, nil)); err != nil {
		return err
	}
	return addTowers(e, opts.Rand)
}

// buildBridge pins a plank chain between two fixed blocks that are pulled
// inwards so the bridge sags, then drops a tower onto it.
func buildBridge(e *engine.PhysicsEngine, opts Options) error {
	if err := addGravity(e, opts.Gravity); err != nil {
		return err
	}
	const (
		boxLength    = 50.0
		spacing      = 4.0
		anchorLength = 30.0
		anchorGap    = boxLength/2 + spacing + anchorLength/2
	)
	chain, err := addChain(e, opts.Rand, geometry.Vector2D{X: 200, Y: 500}, boxLength, 20, 200, spacing, 600)
	if err != nil {
		return err
	}

	ends := []struct {
		link  *body.Body
		x     float64
		shift float64
	}{
		{chain[len(chain)-1], chain[len(chain)-1].State.Position.Linear.X + anchorGap, -10},
		{chain[0], chain[0].State.Position.Linear.X - anchorGap, 10},
	}
	for _, end := range ends {
		point := geometry.Vector2D{X: end.x, Y: 500}
		block, err := addRectangle(e, opts.Rand, anchorLength, anchorLength, math.Inf(1), geometry.NewALVector2D(0, point))
		if err != nil {
			return err
		}
		if err := addHinge(e, end.link, block, point); err != nil {
			return err
		}
		block.State.Position.Linear.X += end.shift
		block.ApplyMatrix()
	}
	return addTower(e, opts.Rand, 500, 200, 400-15)
}

// buildRamps drops shapes onto a run of thick static segments.
func buildRamps(e *engine.PhysicsEngine, opts Options) error {
	if err := addGravity(e, opts.Gravity); err != nil {
		return err
	}
	segments := [][2]geometry.Vector2D{
		{{X: 0, Y: 700}, {X: 300, Y: 700}},
		{{X: 300, Y: 700}, {X: 400, Y: 650}},
		{{X: 400, Y: 650}, {X: 500, Y: 650}},
		{{X: 500, Y: 650}, {X: 500, Y: 500}},
		{{X: 500, Y: 500}, {X: 900, Y: 550}},
		{{X: 400, Y: 400}, {X: 600, Y: 300}},
	}
	for _, s := range segments {
		if _, err := addLine(e, s[0], s[1], 30); err != nil {
			return err
		}
	}
	for i := 0; i < 8; i++ {
		x := 450 + opts.Rand.Float64()*400
		y := 100 + float64(i)*30
		var err error
		if i%2 == 0 {
			_, err = addCircle(e, 8+opts.Rand.Float64()*8, 16, 10, at(0, x, y))
		} else {
			_, err = addRectangle(e, opts.Rand, 20, 20, 20, at(opts.Rand.Float64(), x, y))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func buildParticles(e *engine.PhysicsEngine, opts Options) error {
	if err := standard(e, opts); err != nil {
		return err
	}
	if err := addTower(e, opts.Rand, 500, 400, FloorTop-15); err != nil {
		return err
	}
	return addParticles(e, opts.Rand, geometry.Vector2D{X: 500, Y: 300}, 50)
}

// buildBomb throws a heavy ball at a tower. The ball explodes when its
// lifespan runs out and is thrown again from a random spot on the top
// edge, re-added from its own removed notification.
func buildBomb(e *engine.PhysicsEngine, opts Options) error {
	if err := standard(e, opts); err != nil {
		return err
	}
	if err := addTower(e, opts.Rand, 500, 400, FloorTop-15); err != nil {
		return err
	}

	const fuse = 1.5
	target := geometry.Vector2D{X: 500, Y: 600}
	rng := opts.Rand

	c, err := shapes.NewCircle(20, 20)
	if err != nil {
		return err
	}
	bomb, err := body.NewWithMass(body.NewPhysicsState(at(0, 500, 0)), c, 120, surface, lifecycle.NewTimedLifespan(fuse))
	if err != nil {
		return err
	}
	bomb.Tag = "bomb"

	throw := func() {
		position := geometry.Vector2D{X: float64(rng.Intn(1400)), Y: 0}
		dir, _ := target.Sub(position).Normalize()
		bomb.State.Position = geometry.NewALVector2D(0, position)
		bomb.State.Velocity = geometry.NewALVector2D(0, dir.Scale(float64(rng.Intn(1000)+1000)))
		bomb.ApplyMatrix()
	}
	bomb.OnRemoved(func(lifecycle.Handle) {
		if !bomb.Lifetime().IsExpired() {
			return
		}
		_ = e.AddLogic(logic.NewExplosionField(bomb.State.Position.Linear, 150, 600))
		bomb.SetLifetime(lifecycle.NewTimedLifespan(fuse))
		throw()
		_ = e.AddBody(bomb)
	})
	throw()
	return e.AddBody(bomb)
}
