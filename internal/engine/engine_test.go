package engine_test

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/physics2d/internal/body"
	"github.com/san-kum/physics2d/internal/broadphase"
	"github.com/san-kum/physics2d/internal/engine"
	"github.com/san-kum/physics2d/internal/geometry"
	"github.com/san-kum/physics2d/internal/lifecycle"
	"github.com/san-kum/physics2d/internal/shapes"
	"github.com/san-kum/physics2d/internal/solver"
)

var _ = Describe("PhysicsEngine", func() {
	var e *engine.PhysicsEngine

	BeforeEach(func() {
		e = newEngine()
	})

	Describe("construction", func() {
		It("rejects invalid solver settings", func() {
			cfg := engine.DefaultConfig()
			cfg.Solver.Iterations = 0
			_, err := engine.New(cfg)
			Expect(err).To(MatchError(solver.ErrInvalidConfig))
		})

		It("rejects a negative contact margin", func() {
			cfg := engine.DefaultConfig()
			cfg.ContactMargin = -1
			_, err := engine.New(cfg)
			Expect(err).To(MatchError(solver.ErrInvalidConfig))
		})
	})

	Describe("ownership", func() {
		It("fails to attach a body twice and leaves the set unchanged", func() {
			b := newBall(0, 0, 5, 1)
			Expect(e.AddBody(b)).To(Succeed())

			err := e.AddBody(b)
			Expect(err).To(MatchError(lifecycle.ErrAlreadyAttached))
			var oe *lifecycle.OwnershipError
			Expect(err).To(BeAssignableToTypeOf(oe))
			Expect(e.Bodies()).To(HaveLen(1))

			other := newEngine()
			Expect(other.AddBody(b)).To(MatchError(lifecycle.ErrAlreadyAttached))
			Expect(other.Bodies()).To(BeEmpty())
		})

		It("attaches a range all or nothing", func() {
			taken := newBall(0, 0, 5, 1)
			Expect(newEngine().AddBody(taken)).To(Succeed())

			fresh := newBall(20, 0, 5, 1)
			Expect(e.AddBodyRange([]*body.Body{fresh, taken})).To(MatchError(lifecycle.ErrAlreadyAttached))
			Expect(e.Bodies()).To(BeEmpty())
			Expect(fresh.IsAttached()).To(BeFalse())

			Expect(e.AddBodyRange([]*body.Body{fresh, fresh})).To(MatchError(engine.ErrDuplicateEntity))
			Expect(e.AddBodyRange([]*body.Body{fresh})).To(Succeed())
			Expect(e.Bodies()).To(ConsistOf(fresh))
		})

		It("requires joint bodies to be attached first", func() {
			a, b := newBall(0, 0, 5, 1), newBall(20, 0, 5, 1)
			j, err := solver.NewHingeJoint(a, b, geometry.Vector2D{X: 10}, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(e.AddJoint(j)).To(MatchError(engine.ErrJointBodiesDetached))

			Expect(e.AddBodyRange([]*body.Body{a, b})).To(Succeed())
			Expect(e.AddJoint(j)).To(Succeed())
			Expect(e.AddJoint(j)).To(MatchError(lifecycle.ErrAlreadyAttached))
			Expect(e.Joints()).To(HaveLen(1))
		})

		It("fires one added notification per attach", func() {
			b := newBall(0, 0, 5, 1)
			added := 0
			b.OnAdded(func(lifecycle.Handle) { added++ })
			Expect(e.AddBody(b)).To(Succeed())
			_ = e.AddBody(b)
			Expect(added).To(Equal(1))
		})
	})

	Describe("Update", func() {
		It("rejects a negative time step", func() {
			Expect(e.Update(-dt)).To(MatchError(engine.ErrNegativeTimeStep))
			Expect(e.Update(math.NaN())).To(MatchError(engine.ErrNegativeTimeStep))
		})

		It("rejects re-entrant calls from notifications", func() {
			b := newBall(0, 0, 5, 1)
			b.State.Velocity.Linear = geometry.Vector2D{X: 10}
			var inner error
			b.OnUpdated(func(float64) { inner = e.Update(dt) })
			Expect(e.AddBody(b)).To(Succeed())
			Expect(e.Update(dt)).To(Succeed())
			Expect(inner).To(MatchError(engine.ErrReentrantUpdate))
		})

		It("runs logic and lifecycle but does not move anything for a zero step", func() {
			addGravity(e)
			counter := newCountingLogic(lifecycle.NewTimedLifespan(1))
			Expect(e.AddLogic(counter)).To(Succeed())
			b := newBall(10, 20, 5, 1)
			b.State.Velocity.Linear = geometry.Vector2D{X: 100}
			Expect(e.AddBody(b)).To(Succeed())

			expire := lifecycle.NewLifespan()
			doomed := newBall(200, 20, 5, 1)
			doomed.SetLifetime(expire)
			Expect(e.AddBody(doomed)).To(Succeed())
			expire.Expire()

			Expect(e.Update(0)).To(Succeed())
			Expect(counter.runs).To(Equal(1))
			Expect(b.State.Position.Linear).To(Equal(geometry.Vector2D{X: 10, Y: 20}))
			Expect(b.State.ForceAccumulator.IsZero()).To(BeTrue())
			Expect(e.Bodies()).To(ConsistOf(b))
			Expect(counter.Lifetime().Age()).To(BeZero())
		})

		It("keeps infinite mass bodies still", func() {
			addGravity(e)
			floor := newFloor()
			wall := newBox(300, 600, 40, 200, math.Inf(1))
			Expect(e.AddBodyRange([]*body.Body{floor, wall})).To(Succeed())
			for i := 0; i < 10; i++ {
				Expect(e.AddBody(newBox(250+float64(i)*12, 400-float64(i)*45, 30, 30, 5))).To(Succeed())
			}

			for i := 0; i < 300; i++ {
				floor.ApplyForce(geometry.Vector2D{X: 1e6, Y: -1e6})
				floor.ApplyTorque(1e6)
				wall.ApplyForceAt(geometry.Vector2D{X: -1e5}, geometry.Vector2D{X: 300, Y: 550})
				Expect(e.Update(dt)).To(Succeed())
			}

			Expect(floor.State.Velocity).To(Equal(geometry.ALVector2D{}))
			Expect(floor.State.Position).To(Equal(geometry.NewALVector2D(0, geometry.Vector2D{X: 700, Y: 750})))
			Expect(wall.State.Velocity).To(Equal(geometry.ALVector2D{}))
			Expect(wall.State.Position).To(Equal(geometry.NewALVector2D(0, geometry.Vector2D{X: 300, Y: 600})))
		})

		It("notifies only bodies that moved", func() {
			addGravity(e)
			floor := newFloor()
			ball := newBall(700, 600, 10, 1)
			Expect(e.AddBodyRange([]*body.Body{floor, ball})).To(Succeed())
			floorUpdates, ballUpdates := 0, 0
			floor.OnUpdated(func(float64) { floorUpdates++ })
			ball.OnUpdated(func(float64) { ballUpdates++ })

			step(e, 5)
			Expect(floorUpdates).To(BeZero())
			Expect(ballUpdates).To(Equal(5))
		})

		It("keeps stacked boxes within the allowed penetration", func() {
			addGravity(e)
			floor := newFloor()
			lower := newBox(700, 699, 40, 40, 10)
			upper := newBox(700, 658, 40, 40, 10)
			Expect(e.AddBodyRange([]*body.Body{floor, lower, upper})).To(Succeed())

			slop := e.Config().Solver.AllowedPenetration
			for i := 0; i < 400; i++ {
				Expect(e.Update(dt)).To(Succeed())
				Expect(penetration(e.Bodies())).To(BeNumerically("<=", slop), "step %d", i)
			}
			Expect(lower.State.Position.Linear.Y).To(BeNumerically("~", 700, 0.05))
			Expect(upper.State.Position.Linear.Y).To(BeNumerically("~", 660, 0.05))
		})

		It("bounces a ball on a floor line without exceeding the allowed penetration", func() {
			addGravity(e)
			line, err := shapes.NewLine([]geometry.Vector2D{{X: -1000}, {X: 1000}}, 2)
			Expect(err).NotTo(HaveOccurred())
			floor, err := body.NewWithMass(state(700, 600), line, math.Inf(1), body.NewCoefficients(0.2, 0.3), nil)
			Expect(err).NotTo(HaveOccurred())
			ball := newBall(700, 400, 20, 120)
			Expect(ball.Coefficients).To(Equal(body.NewCoefficients(0.2, 0.3)))
			Expect(e.AddBodyRange([]*body.Body{floor, ball})).To(Succeed())

			hits := 0
			ball.OnCollided(func(other *body.Body) {
				Expect(other).To(Equal(floor))
				hits++
			})

			falling, bounced := false, false
			for i := 0; i < 500; i++ {
				Expect(e.Update(dt)).To(Succeed())
				vy := ball.State.Velocity.Linear.Y
				if vy > 0 {
					falling = true
				}
				if falling && vy < 0 {
					bounced = true
				}
				Expect(penetration(e.Bodies())).To(BeNumerically("<=", 0.01), "step %d", i)
			}
			Expect(bounced).To(BeTrue())
			Expect(hits).To(BeNumerically(">", 0))
			Expect(ball.State.Position.Linear.Y).To(BeNumerically("~", 579, 0.05))
		})

		It("produces the same simulation with sweep and prune and brute force", func() {
			build := func(detector broadphase.Detector) *engine.PhysicsEngine {
				cfg := engine.DefaultConfig()
				cfg.BroadPhase = detector
				en, err := engine.New(cfg)
				Expect(err).NotTo(HaveOccurred())
				addGravity(en)
				Expect(en.AddBody(newFloor())).To(Succeed())
				rng := rand.New(rand.NewSource(11))
				for i := 0; i < 40; i++ {
					x, y := 300+rng.Float64()*800, 100+rng.Float64()*500
					if rng.Intn(2) == 0 {
						Expect(en.AddBody(newBall(x, y, 5+rng.Float64()*15, 1+rng.Float64()*5))).To(Succeed())
					} else {
						Expect(en.AddBody(newBox(x, y, 10+rng.Float64()*30, 10+rng.Float64()*30, 1+rng.Float64()*5))).To(Succeed())
					}
				}
				return en
			}

			sweep := build(broadphase.NewSweepAndPrune())
			brute := build(broadphase.BruteForce{})
			for i := 0; i < 120; i++ {
				Expect(sweep.Update(dt)).To(Succeed())
				Expect(brute.Update(dt)).To(Succeed())
				Expect(sweep.Stats().CandidatePairs).To(Equal(brute.Stats().CandidatePairs))
			}
			for i, b := range sweep.Bodies() {
				Expect(b.State.Position).To(Equal(brute.Bodies()[i].State.Position))
			}
		})
	})

	Describe("hinge joints", func() {
		It("keeps a hanging chain connected without gaining energy", func() {
			addGravity(e)
			anchorShape, err := shapes.NewCircle(4, 12)
			Expect(err).NotTo(HaveOccurred())
			anchor, err := body.New(state(400, 100), anchorShape, body.Infinite(), body.Coefficients{}, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(e.AddBody(anchor)).To(Succeed())

			const links, length = 5, 30.0
			var joints []*solver.HingeJoint
			prev := anchor
			for i := 0; i < links; i++ {
				link := newBox(400+length*float64(i)+length/2, 100, length, 6, 1)
				Expect(e.AddBody(link)).To(Succeed())
				j, err := solver.NewHingeJoint(prev, link, geometry.Vector2D{X: 400 + length*float64(i), Y: 100}, nil)
				Expect(err).NotTo(HaveOccurred())
				Expect(e.AddJoint(j)).To(Succeed())
				joints = append(joints, j)
				prev = link
			}

			energy := func() float64 {
				total := 0.0
				for _, b := range e.Bodies() {
					if b.HasInfiniteMass() {
						continue
					}
					total += b.KineticEnergy() - b.Mass().Mass()*gravity.Y*b.State.Position.Linear.Y
				}
				return total
			}
			scale := links * gravity.Y * length * links
			start := energy()

			for i := 0; i < 500; i++ {
				Expect(e.Update(dt)).To(Succeed())
				for k, j := range joints {
					pa, pb := j.Anchors()
					Expect(pa.Distance(pb)).To(BeNumerically("<", 0.2), "joint %d step %d", k, i)
				}
				Expect(energy()).To(BeNumerically("<=", start+0.05*scale), "step %d", i)
			}
			Expect(anchor.State.Position.Linear).To(Equal(geometry.Vector2D{X: 400, Y: 100}))
		})

		It("stops adjacent linked bodies from colliding", func() {
			a, b := newBall(0, 0, 10, 1), newBall(15, 0, 10, 1)
			Expect(e.AddBodyRange([]*body.Body{a, b})).To(Succeed())
			j, _ := solver.NewHingeJoint(a, b, geometry.Vector2D{X: 7.5}, nil)
			Expect(e.AddJoint(j)).To(Succeed())
			step(e, 1)
			Expect(e.Stats().CandidatePairs).To(BeZero())
		})
	})

	Describe("lifespans", func() {
		It("removes an expired body exactly once", func() {
			b := newBall(0, 0, 5, 1)
			b.SetLifetime(lifecycle.NewTimedLifespan(0.05))
			removed := 0
			b.OnRemoved(func(lifecycle.Handle) { removed++ })
			Expect(e.AddBody(b)).To(Succeed())

			step(e, 50)
			Expect(removed).To(Equal(1))
			Expect(e.Bodies()).To(BeEmpty())
			Expect(b.IsAttached()).To(BeFalse())
		})

		It("advances a shared lifespan once per step", func() {
			shared := lifecycle.NewTimedLifespan(1)
			a, b := newBall(0, 0, 5, 1), newBall(100, 0, 5, 1)
			a.SetLifetime(shared)
			b.SetLifetime(shared)
			Expect(e.AddBodyRange([]*body.Body{a, b})).To(Succeed())
			step(e, 10)
			Expect(shared.Age()).To(BeNumerically("~", 0.1, 1e-12))
		})

		It("removes joints whose bodies expire and logics that expire", func() {
			a, b := newBall(0, 0, 5, 1), newBall(30, 0, 5, 1)
			Expect(e.AddBodyRange([]*body.Body{a, b})).To(Succeed())
			j, _ := solver.NewHingeJoint(a, b, geometry.Vector2D{X: 15}, nil)
			Expect(e.AddJoint(j)).To(Succeed())
			jointRemoved := 0
			j.OnRemoved(func(lifecycle.Handle) { jointRemoved++ })

			counter := newCountingLogic(lifecycle.NewTimedLifespan(0.025))
			Expect(e.AddLogic(counter)).To(Succeed())

			b.Lifetime().Expire()
			step(e, 10)

			Expect(jointRemoved).To(Equal(1))
			Expect(e.Joints()).To(BeEmpty())
			Expect(e.Bodies()).To(ConsistOf(a))
			Expect(e.Logics()).To(BeEmpty())
			Expect(counter.runs).To(Equal(3))
			Expect(counter.Engine()).To(BeNil())
		})

		It("lets a removed body be added again from its removed notification", func() {
			b := newBall(0, 0, 5, 1)
			life := lifecycle.NewTimedLifespan(0.02)
			b.SetLifetime(life)
			removed := 0
			b.OnRemoved(func(lifecycle.Handle) {
				removed++
				if removed == 1 {
					life.Renew()
					Expect(e.AddBody(b)).To(Succeed())
				}
			})
			Expect(e.AddBody(b)).To(Succeed())

			step(e, 3)
			Expect(removed).To(Equal(1))
			Expect(e.Bodies()).To(ConsistOf(b))
			step(e, 3)
			Expect(removed).To(Equal(2))
			Expect(e.Bodies()).To(BeEmpty())
		})
	})

	Describe("particles", func() {
		It("report collisions but pass through", func() {
			target := newBox(0, 50, 100, 20, math.Inf(1))
			p, err := body.NewWithMass(state(0, 0), shapes.NewParticle(), 1, body.Coefficients{}, nil)
			Expect(err).NotTo(HaveOccurred())
			p.State.Velocity.Linear = geometry.Vector2D{Y: 1000}
			Expect(e.AddBodyRange([]*body.Body{target, p})).To(Succeed())

			hits := 0
			p.OnCollided(func(*body.Body) { hits++ })
			step(e, 10)

			Expect(hits).To(BeNumerically(">", 0))
			Expect(p.State.Velocity.Linear).To(Equal(geometry.Vector2D{Y: 1000}))
			Expect(p.State.Position.Linear.Y).To(BeNumerically("~", 100, 1e-9))
		})
	})

	Describe("Clear", func() {
		It("detaches everything and allows re-adding", func() {
			b := newBall(0, 0, 5, 1)
			removed := 0
			b.OnRemoved(func(lifecycle.Handle) { removed++ })
			addGravity(e)
			Expect(e.AddBody(b)).To(Succeed())
			step(e, 2)

			e.Clear()
			Expect(removed).To(Equal(1))
			Expect(e.Bodies()).To(BeEmpty())
			Expect(e.Logics()).To(BeEmpty())
			Expect(e.Stats().Steps).To(BeZero())
			Expect(e.AddBody(b)).To(Succeed())
		})

		It("is deferred until Update returns when called from a notification", func() {
			b := newBall(0, 0, 5, 1)
			b.State.Velocity.Linear = geometry.Vector2D{X: 10}
			b.OnUpdated(func(float64) { e.Clear() })
			Expect(e.AddBody(b)).To(Succeed())
			Expect(e.Update(dt)).To(Succeed())
			Expect(e.Bodies()).To(BeEmpty())
			Expect(b.IsAttached()).To(BeFalse())
		})
	})
})
