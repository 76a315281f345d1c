package physics

import "log"

// Controller contributes velocity or force to one body each tick. BeforeSolve
// runs ahead of collision processing; AfterSolve runs once the solved
// velocity is known.
type Controller interface {
	BeforeSolve(b *Body, dt float64)
	AfterSolve(b *Body, dt float64)
}

// AttachController binds a controller to a registered body. Controllers run
// in attach order.
func (w *World) AttachController(b *Body, c Controller) {
	if b == nil || c == nil {
		return
	}
	for _, existing := range w.controllers[b] {
		if existing == c {
			log.Printf("physics: controller already attached to body %d", b.id)
			return
		}
	}
	w.controllers[b] = append(w.controllers[b], c)
	w.requestWake(b)
}

// DetachController unbinds a controller. Detaching an unbound controller is a
// no-op.
func (w *World) DetachController(b *Body, c Controller) {
	list := w.controllers[b]
	for i, existing := range list {
		if existing == c {
			w.controllers[b] = append(list[:i], list[i+1:]...)
			if len(w.controllers[b]) == 0 {
				delete(w.controllers, b)
			}
			return
		}
	}
}
