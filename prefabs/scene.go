package prefabs

import (
	"fmt"

	"github.com/metalgearsloth/tickphys/ecs"
	"github.com/metalgearsloth/tickphys/ecs/component"
)

// Instantiate spawns a scene into an ECS world and returns the body
// entities in spec order. Live solver bodies come into existence on the
// physics system's next update.
func Instantiate(spec *SceneSpec, w *ecs.World) ([]ecs.Entity, error) {
	if spec == nil || w == nil {
		return nil, fmt.Errorf("prefabs: nil scene or world")
	}

	if spec.Camera != nil {
		cam := w.CreateEntity()
		if err := ecs.Add(w, cam, component.TransformComponent, &component.Transform{X: spec.Camera.X, Y: spec.Camera.Y}); err != nil {
			return nil, err
		}
		zoom := spec.Camera.Zoom
		if zoom <= 0 {
			zoom = 1
		}
		if err := ecs.Add(w, cam, component.CameraComponent, &component.Camera{Zoom: zoom}); err != nil {
			return nil, err
		}
	}

	for _, g := range spec.TileGrids {
		e := w.CreateEntity()
		if err := ecs.Add(w, e, component.TileGridComponent, buildTileGrid(g)); err != nil {
			return nil, err
		}
	}

	for _, b := range spec.Bounds {
		e := w.CreateEntity()
		gb := &component.GridBounds{
			Map:  b.Map,
			MinX: b.MinX, MinY: b.MinY,
			MaxX: b.MaxX, MaxY: b.MaxY,
		}
		if b.Grid != nil {
			gb.Grid = *b.Grid
			gb.HasGrid = true
		}
		if err := ecs.Add(w, e, component.GridBoundsComponent, gb); err != nil {
			return nil, err
		}
	}

	byName := make(map[string]ecs.Entity, len(spec.Bodies))
	entities := make([]ecs.Entity, 0, len(spec.Bodies))
	for _, b := range spec.Bodies {
		e, err := instantiateBody(b, w)
		if err != nil {
			return nil, err
		}
		if b.Name != "" {
			byName[b.Name] = e
		}
		entities = append(entities, e)
	}

	// Containment references resolve after every body exists.
	for i, b := range spec.Bodies {
		if b.ContainedBy == "" {
			continue
		}
		parent, ok := byName[b.ContainedBy]
		if !ok {
			return nil, fmt.Errorf("prefabs: body %q contained by unknown body %q", b.Name, b.ContainedBy)
		}
		if err := ecs.Add(w, entities[i], component.ContainedByComponent, &component.ContainedBy{Parent: uint64(parent)}); err != nil {
			return nil, err
		}
	}

	return entities, nil
}

func instantiateBody(b BodySpec, w *ecs.World) (ecs.Entity, error) {
	e := w.CreateEntity()
	if err := ecs.Add(w, e, component.TransformComponent, &component.Transform{X: b.X, Y: b.Y, Rotation: b.Rotation}); err != nil {
		return 0, err
	}

	hard := true
	if b.Hard != nil {
		hard = *b.Hard
	}
	col := &component.Collider{
		BodyType: b.Type,
		Hard:     hard,
		Friction: b.Friction,
		Map:      b.Map,
	}
	if b.Grid != nil {
		col.Grid = *b.Grid
		col.HasGrid = true
	}
	for _, s := range b.Shapes {
		col.Shapes = append(col.Shapes, component.ShapeSpec{
			Circle:  s.Circle,
			Radius:  s.Radius,
			Width:   s.Width,
			Height:  s.Height,
			OffsetX: s.OffsetX,
			OffsetY: s.OffsetY,
			Density: s.Density,
			Layer:   s.Layer,
			Mask:    s.Mask,
		})
	}
	if err := ecs.Add(w, e, component.ColliderComponent, col); err != nil {
		return 0, err
	}

	if b.Script != "" {
		src, err := LoadScript(b.Script)
		if err != nil {
			return 0, fmt.Errorf("prefabs: body %q script: %w", b.Name, err)
		}
		if err := ecs.Add(w, e, component.ScriptComponent, &component.Script{Name: b.Script, Source: src}); err != nil {
			return 0, err
		}
	}
	return e, nil
}

func buildTileGrid(g TileGridSpec) *component.TileGrid {
	cols := 0
	for _, row := range g.Rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	tg := &component.TileGrid{
		Map:      g.Map,
		TileSize: g.TileSize,
		OriginX:  g.OriginX,
		OriginY:  g.OriginY,
		Columns:  cols,
		Rows:     len(g.Rows),
		Friction: make([]float64, cols*len(g.Rows)),
		Gravity:  g.Gravity,
	}
	if g.Grid != nil {
		tg.Grid = *g.Grid
		tg.HasGrid = true
	}
	for r, row := range g.Rows {
		copy(tg.Friction[r*cols:], row)
	}
	return tg
}
