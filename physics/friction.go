package physics

// frictionPass decelerates every awake grounded body by the friction of the
// tile under it. The friction speed is clamped so it never reverses the
// body's direction of travel.
func (w *World) frictionPass(dt float64) {
	if w.tiles == nil {
		return
	}
	for _, b := range w.awake {
		if b.typ != Dynamic || !b.onGround {
			continue
		}
		speed := b.vel.Length()
		if speed == 0 {
			continue
		}
		pos, _ := w.readTransform(b)
		tileFriction, gravityEnabled, ok := w.tiles.TileUnder(b.place, pos)
		if !ok {
			continue
		}
		gravity := 0.0
		if gravityEnabled {
			gravity = w.tuning.Gravity
		}
		decel := tileFriction * b.friction * gravity * dt
		if decel <= 0 {
			continue
		}
		if decel > speed {
			decel = speed
		}
		b.vel = b.vel.Sub(b.vel.Normalize().Mult(decel))
	}
}
