package physics

import (
	"math"
	"testing"

	"github.com/metalgearsloth/tickphys/common"
)

// fixedTiles answers every query with one tile.
type fixedTiles struct {
	friction float64
	gravity  bool
	present  bool
}

func (ft fixedTiles) TileUnder(place Placement, pos common.Vec2) (float64, bool, bool) {
	return ft.friction, ft.gravity, ft.present
}

func TestFrictionDeceleratesWithoutReversing(t *testing.T) {
	cases := []struct {
		name     string
		tiles    fixedTiles
		vel      common.Vec2
		dt       float64
		wantStop bool
		wantSame bool
	}{
		{"gentle_slowdown", fixedTiles{friction: 0.4, gravity: true, present: true}, common.Vec2{X: 3}, 1.0 / 60, false, false},
		// A huge friction impulse clamps to a dead stop instead of flipping
		// the velocity sign.
		{"clamped_to_stop", fixedTiles{friction: 50, gravity: true, present: true}, common.Vec2{X: 0.2}, 1.0 / 60, true, false},
		{"no_tile_under", fixedTiles{present: false}, common.Vec2{X: 3}, 1.0 / 60, false, true},
		{"gravity_off_grid", fixedTiles{friction: 0.4, gravity: false, present: true}, common.Vec2{X: 3}, 1.0 / 60, false, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w, bt := newTestWorld(t, Options{Tiles: c.tiles})
			b := addBox(t, w, bt, Dynamic, 0, 0, 1, 1, 1, 1)
			b.SetVelocity(c.vel)

			w.frictionPass(c.dt)

			got := b.Velocity()
			if c.wantStop {
				if got.Length() != 0 {
					t.Fatalf("expected dead stop, got %v", got)
				}
				return
			}
			if c.wantSame {
				if got != c.vel {
					t.Fatalf("expected velocity untouched, got %v", got)
				}
				return
			}
			if got.X <= 0 || got.X >= c.vel.X {
				t.Fatalf("expected slowdown in the same direction, got %v", got)
			}
		})
	}
}

func TestFrictionScalesWithBodyCoefficient(t *testing.T) {
	w, bt := newTestWorld(t, Options{Tiles: fixedTiles{friction: 0.5, gravity: true, present: true}})
	slick := addBox(t, w, bt, Dynamic, 0, 0, 1, 1, 1, 1)
	grippy := addBox(t, w, bt, Dynamic, 5, 0, 1, 1, 1, 1)
	slick.SetFriction(0.1)
	grippy.SetFriction(1)
	slick.SetVelocity(common.Vec2{X: 3})
	grippy.SetVelocity(common.Vec2{X: 3})

	w.frictionPass(1.0 / 60)

	if slick.Velocity().X <= grippy.Velocity().X {
		t.Fatalf("higher body friction should shed more speed: slick=%v grippy=%v",
			slick.Velocity(), grippy.Velocity())
	}
}

func TestFrictionSkipsAirborneAndNonDynamic(t *testing.T) {
	w, bt := newTestWorld(t, Options{Tiles: fixedTiles{friction: 1, gravity: true, present: true}})

	airborne := addBox(t, w, bt, Dynamic, 0, 0, 1, 1, 1, 1)
	airborne.SetOnGround(false)
	airborne.SetVelocity(common.Vec2{X: 2})

	mover := addBox(t, w, bt, Kinematic, 5, 0, 1, 1, 1, 1)
	mover.SetVelocity(common.Vec2{X: 2})

	w.frictionPass(1.0 / 60)

	if airborne.Velocity().X != 2 {
		t.Fatalf("airborne body should keep its speed, got %v", airborne.Velocity())
	}
	if mover.Velocity().X != 2 {
		t.Fatalf("kinematic body should ignore tile friction, got %v", mover.Velocity())
	}
}

func TestFrictionDiagonalKeepsDirection(t *testing.T) {
	w, bt := newTestWorld(t, Options{Tiles: fixedTiles{friction: 0.6, gravity: true, present: true}})
	b := addBox(t, w, bt, Dynamic, 0, 0, 1, 1, 1, 1)
	b.SetVelocity(common.Vec2{X: 3, Y: 4})

	w.frictionPass(1.0 / 60)

	got := b.Velocity()
	// The decelerated vector stays parallel to the original.
	cross := 3*got.Y - 4*got.X
	if math.Abs(cross) > 1e-9 {
		t.Fatalf("direction changed: %v", got)
	}
	if got.Length() >= 5 {
		t.Fatalf("expected slowdown, got %v", got)
	}
}
