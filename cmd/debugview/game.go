package main

import (
	"log"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/metalgearsloth/tickphys/common"
	"github.com/metalgearsloth/tickphys/ecs"
	"github.com/metalgearsloth/tickphys/ecs/component"
	"github.com/metalgearsloth/tickphys/ecs/system"
	"github.com/metalgearsloth/tickphys/physics"
	"github.com/metalgearsloth/tickphys/prefabs"
)

const rayLength = 100.0

type Game struct {
	world   *ecs.World
	phys    *system.PhysicsSystem
	watcher *prefabs.Watcher

	sceneName  string
	tuningFile string
	predicting bool
	place      physics.Placement

	paused bool

	rayActive bool
	rayOrigin common.Vec2
	rayEnd    common.Vec2
	rayHit    bool
	rayPoint  common.Vec2

	contacts []physics.CollisionEvent

	measureA   *physics.Body
	measureB   *physics.Body
	measureSep physics.DistanceResult
}

func NewGame(sceneName, tuningFile string, predicting bool) (*Game, error) {
	if !strings.HasSuffix(sceneName, ".yaml") && !strings.HasSuffix(sceneName, ".yml") {
		sceneName += ".yaml"
	}
	g := &Game{
		sceneName:  sceneName,
		tuningFile: tuningFile,
		predicting: predicting,
	}
	if err := g.loadScene(); err != nil {
		return nil, err
	}
	if watcher, err := prefabs.NewWatcher(0, "prefabs", "prefabs/scripts"); err == nil {
		g.watcher = watcher
	} else {
		log.Printf("debugview: spec watcher disabled: %v", err)
	}
	return g, nil
}

func (g *Game) loadScene() error {
	scene, err := prefabs.LoadSceneSpec(g.sceneName)
	if err != nil {
		return err
	}

	tuning := physics.DefaultTuning()
	if scene.Tuning != nil {
		tuning = *scene.Tuning
	}
	if g.tuningFile != "" {
		tuning, err = prefabs.LoadTuning(g.tuningFile)
		if err != nil {
			return err
		}
	}

	g.world = ecs.NewWorld()
	g.phys = system.NewPhysicsSystem(tuning, scene.Seed)
	g.phys.SetPredicting(g.predicting)
	if _, err := prefabs.Instantiate(scene, g.world); err != nil {
		return err
	}

	g.place = physics.Placement{Map: 1}
	for _, b := range scene.Bodies {
		g.place.Map = physics.MapID(b.Map)
		break
	}
	g.rayActive = false
	g.measureA = nil
	g.measureB = nil
	return nil
}

func (g *Game) Update() error {
	g.drainWatcher()

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := g.loadScene(); err != nil {
			log.Printf("debugview: reload %s: %v", g.sceneName, err)
		}
	}
	step := inpututil.IsKeyJustPressed(ebiten.KeyN)

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.castRayAtCursor()
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		g.pickMeasureBody()
	}

	if !g.paused || step {
		g.phys.Update(g.world)
		g.drainEvents()
	}
	return nil
}

func (g *Game) drainWatcher() {
	if g.watcher == nil {
		return
	}
	reloadScene := false
	reloadTuning := false
	for {
		select {
		case change, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			log.Printf("debugview: %s changed (%s)", change.Path, change.Kind)
			if change.Kind == prefabs.ChangeTuning {
				reloadTuning = true
			} else {
				reloadScene = true
			}
		case err := <-g.watcher.Errors:
			log.Printf("debugview: watcher: %v", err)
		default:
			if reloadScene {
				if err := g.loadScene(); err != nil {
					log.Printf("debugview: reload %s: %v", g.sceneName, err)
				}
			} else if reloadTuning && g.tuningFile != "" {
				if tuning, err := prefabs.LoadTuning(g.tuningFile); err != nil {
					log.Printf("debugview: reload %s: %v", g.tuningFile, err)
				} else {
					g.phys.Physics().SetTuning(tuning)
				}
			}
			return
		}
	}
}

func (g *Game) drainEvents() {
	g.contacts = g.contacts[:0]
	for _, evt := range g.world.Events().Drain() {
		switch evt.Type {
		case ecs.EventSleep:
			if se, ok := evt.Data.(physics.SleepEvent); ok {
				log.Printf("debugview: body %d asleep=%v", se.Body.ID(), se.Asleep)
			}
		case ecs.EventCollision:
			if ce, ok := evt.Data.(physics.CollisionEvent); ok {
				g.contacts = append(g.contacts, ce)
			}
		}
	}
}

func (g *Game) castRayAtCursor() {
	mx, my := ebiten.CursorPosition()
	camX, camY, zoom := cameraTransform(g.world)
	origin := common.Vec2{
		X: float64(mx)/zoom + camX,
		Y: float64(my)/zoom + camY,
	}
	ray := common.Ray{Origin: origin, Direction: common.Vec2{X: 0, Y: 1}, Length: rayLength}
	hits := g.phys.Physics().RayCast(g.place, ray)

	g.rayActive = true
	g.rayOrigin = origin
	g.rayEnd = ray.PointAt(ray.Length)
	g.rayHit = len(hits) > 0
	if g.rayHit {
		g.rayPoint = hits[0].Point
		g.rayEnd = hits[0].Point
	}
}

// pickMeasureBody selects bodies under the cursor two at a time and measures
// their precise separation. A third pick starts a new measurement.
func (g *Game) pickMeasureBody() {
	b := g.bodyAtCursor()
	if b == nil {
		return
	}
	switch {
	case g.measureA == nil:
		g.measureA = b
	case g.measureB == nil && b != g.measureA:
		g.measureB = b
		if sep, ok := g.phys.Physics().Distance(g.measureA, g.measureB); ok {
			g.measureSep = sep
			log.Printf("debugview: distance %d-%d = %.4f overlapping=%v",
				g.measureA.ID(), g.measureB.ID(), sep.Distance, sep.Overlapping)
		}
	default:
		g.measureA = b
		g.measureB = nil
	}
}

func (g *Game) bodyAtCursor() *physics.Body {
	mx, my := ebiten.CursorPosition()
	camX, camY, zoom := cameraTransform(g.world)
	pt := common.Vec2{
		X: float64(mx)/zoom + camX,
		Y: float64(my)/zoom + camY,
	}
	box := common.AABB{Min: pt, Max: pt}
	for _, b := range g.phys.Physics().Index().QueryAABB(g.place, box) {
		pos, rot := g.phys.BodyPosition(b)
		for _, s := range b.Shapes() {
			if s.ContainsPoint(pos, rot, pt) {
				return b
			}
		}
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	system.DrawPhysicsDebug(g.phys, g.world, screen)
	system.DrawContactDebug(g.phys, g.world, screen, g.contacts)
	if g.rayActive {
		system.DrawRayDebug(g.world, screen, g.rayOrigin, g.rayEnd, g.rayHit, g.rayPoint)
	}
	if g.measureA != nil && g.measureB != nil {
		posA, _ := g.phys.BodyPosition(g.measureA)
		posB, _ := g.phys.BodyPosition(g.measureB)
		system.DrawMeasureDebug(g.world, screen, posA, posB, g.measureSep)
	}
	system.DrawPhysicsCounters(g.phys, screen)
	if g.paused {
		h := screen.Bounds().Dy()
		ebitenutil.DebugPrintAt(screen, "PAUSED (space resumes, n steps, r reloads)", 10, h-20)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

func cameraTransform(w *ecs.World) (float64, float64, float64) {
	camX, camY, zoom := 0.0, 0.0, 1.0
	cam, ok := w.First(component.CameraComponent.ID())
	if !ok {
		return camX, camY, zoom
	}
	if c, ok := ecs.Get(w, cam, component.CameraComponent); ok && c.Zoom > 0 {
		zoom = c.Zoom
	}
	if t, ok := ecs.Get(w, cam, component.TransformComponent); ok {
		camX = t.X
		camY = t.Y
	}
	return camX, camY, zoom
}
