package system

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/metalgearsloth/tickphys/common"
	"github.com/metalgearsloth/tickphys/ecs"
	"github.com/metalgearsloth/tickphys/ecs/component"
	"github.com/metalgearsloth/tickphys/physics"
)

const debugCircleSegments = 24

var (
	debugStaticColor    = color.NRGBA{R: 128, G: 128, B: 128, A: 230}
	debugKinematicColor = color.NRGBA{R: 64, G: 128, B: 255, A: 230}
	debugDynamicColor   = color.NRGBA{R: 51, G: 255, B: 51, A: 230}
	debugAsleepColor    = color.NRGBA{R: 255, G: 204, B: 51, A: 230}
	debugRayColor       = color.NRGBA{R: 255, G: 51, B: 51, A: 230}
	debugContactColor   = color.NRGBA{R: 255, G: 255, B: 255, A: 230}
)

// DrawPhysicsDebug outlines every live body on screen, colored by body type
// and sleep state.
func DrawPhysicsDebug(ps *PhysicsSystem, w *ecs.World, screen *ebiten.Image) {
	if ps == nil || w == nil || screen == nil {
		return
	}
	camX, camY, zoom := debugCameraTransform(w)
	d := &physicsDebugDrawer{screen: screen, camX: camX, camY: camY, zoom: zoom}
	for e, b := range ps.bodies {
		if !w.IsAlive(e) {
			continue
		}
		pos, rot := ps.BodyPosition(b)
		c := debugBodyColor(b)
		for _, s := range b.Shapes() {
			d.drawShape(s, pos, rot, c)
		}
	}
}

// DrawRayDebug draws a cast ray and its first hit.
func DrawRayDebug(w *ecs.World, screen *ebiten.Image, origin, end common.Vec2, hit bool, point common.Vec2) {
	if w == nil || screen == nil {
		return
	}
	camX, camY, zoom := debugCameraTransform(w)
	d := &physicsDebugDrawer{screen: screen, camX: camX, camY: camY, zoom: zoom}
	d.drawLine(origin, end, debugRayColor)
	if hit {
		d.drawCircle(point, 3/zoom, debugRayColor)
	}
}

// DrawContactDebug marks this tick's resolved contacts with their normals.
// Contact position is approximated at the midpoint between the two bodies.
func DrawContactDebug(ps *PhysicsSystem, w *ecs.World, screen *ebiten.Image, contacts []physics.CollisionEvent) {
	if ps == nil || w == nil || screen == nil {
		return
	}
	camX, camY, zoom := debugCameraTransform(w)
	d := &physicsDebugDrawer{screen: screen, camX: camX, camY: camY, zoom: zoom}
	for _, evt := range contacts {
		posA, _ := ps.BodyPosition(evt.A)
		posB, _ := ps.BodyPosition(evt.B)
		mid := posA.Add(posB).Mult(0.5)
		d.drawCircle(mid, 2/zoom, debugContactColor)
		d.drawLine(mid, mid.Add(evt.Normal.Mult(0.5)), debugContactColor)
	}
}

// DrawMeasureDebug draws the measured separation between two body centers
// with the distance printed at the midpoint.
func DrawMeasureDebug(w *ecs.World, screen *ebiten.Image, posA, posB common.Vec2, sep physics.DistanceResult) {
	if w == nil || screen == nil {
		return
	}
	camX, camY, zoom := debugCameraTransform(w)
	d := &physicsDebugDrawer{screen: screen, camX: camX, camY: camY, zoom: zoom}
	d.drawLine(posA, posB, debugContactColor)
	mid := posA.Add(posB).Mult(0.5)
	label := fmt.Sprintf("%.3f", sep.Distance)
	if sep.Overlapping {
		label = "overlap"
	}
	x, y := d.toScreen(mid)
	ebitenutil.DebugPrintAt(screen, label, int(x)+4, int(y)+4)
}

// DrawPhysicsCounters prints body and sleep counts in the corner.
func DrawPhysicsCounters(ps *PhysicsSystem, screen *ebiten.Image) {
	if ps == nil || screen == nil {
		return
	}
	pw := ps.Physics()
	text := fmt.Sprintf("Bodies: %d\nAwake: %d", pw.Bodies(), pw.AwakeCount())
	ebitenutil.DebugPrintAt(screen, text, 10, 10)
}

func debugBodyColor(b *physics.Body) color.NRGBA {
	if b.Asleep() {
		return debugAsleepColor
	}
	switch b.Type() {
	case physics.Static:
		return debugStaticColor
	case physics.Kinematic:
		return debugKinematicColor
	default:
		return debugDynamicColor
	}
}

type physicsDebugDrawer struct {
	screen *ebiten.Image
	camX   float64
	camY   float64
	zoom   float64
}

func (d *physicsDebugDrawer) drawShape(s *physics.Shape, pos common.Vec2, rot float64, c color.NRGBA) {
	switch s.Kind() {
	case physics.ShapeCircle:
		center := pos.Add(s.Center().Rotate(rot))
		d.drawCircle(center, s.Radius(), c)
		edge := center.Add(common.Vec2{X: math.Cos(rot), Y: math.Sin(rot)}.Mult(s.Radius()))
		d.drawLine(center, edge, c)
	case physics.ShapePolygon:
		verts := s.Vertices()
		world := make([]common.Vec2, 0, len(verts))
		for _, v := range verts {
			world = append(world, pos.Add(v.Rotate(rot)))
		}
		d.drawPolygon(world, c)
	}
}

func (d *physicsDebugDrawer) drawLine(a, b common.Vec2, c color.NRGBA) {
	x1, y1 := d.toScreen(a)
	x2, y2 := d.toScreen(b)
	ebitenutil.DrawLine(d.screen, x1, y1, x2, y2, c)
}

func (d *physicsDebugDrawer) drawPolygon(verts []common.Vec2, c color.NRGBA) {
	for i := 0; i < len(verts); i++ {
		d.drawLine(verts[i], verts[(i+1)%len(verts)], c)
	}
}

func (d *physicsDebugDrawer) drawCircle(center common.Vec2, radius float64, c color.NRGBA) {
	if radius <= 0 {
		return
	}
	prev := common.Vec2{X: center.X + radius, Y: center.Y}
	for i := 1; i <= debugCircleSegments; i++ {
		t := (2 * math.Pi) * (float64(i) / float64(debugCircleSegments))
		next := common.Vec2{X: center.X + math.Cos(t)*radius, Y: center.Y + math.Sin(t)*radius}
		d.drawLine(prev, next, c)
		prev = next
	}
}

func (d *physicsDebugDrawer) toScreen(v common.Vec2) (float64, float64) {
	return (v.X - d.camX) * d.zoom, (v.Y - d.camY) * d.zoom
}

func debugCameraTransform(w *ecs.World) (float64, float64, float64) {
	camX, camY := 0.0, 0.0
	zoom := 1.0
	camEntity, ok := w.First(component.CameraComponent.ID())
	if !ok {
		return camX, camY, zoom
	}
	if cam, ok := ecs.Get(w, camEntity, component.CameraComponent); ok && cam.Zoom > 0 {
		zoom = cam.Zoom
	}
	if t, ok := ecs.Get(w, camEntity, component.TransformComponent); ok {
		camX = t.X
		camY = t.Y
	}
	return camX, camY, zoom
}
