package prefabs

import (
	"testing"

	"github.com/metalgearsloth/tickphys/ecs"
	"github.com/metalgearsloth/tickphys/ecs/component"
)

func TestLoadSceneSpecSandbox(t *testing.T) {
	scene, err := LoadSceneSpec("sandbox.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if scene.Name != "sandbox" {
		t.Fatalf("name = %q", scene.Name)
	}
	if len(scene.Bodies) != 6 {
		t.Fatalf("expected 6 bodies, got %d", len(scene.Bodies))
	}
	if scene.Camera == nil || scene.Camera.Zoom != 24 {
		t.Fatalf("camera not parsed: %+v", scene.Camera)
	}
	if len(scene.TileGrids) != 1 || !scene.TileGrids[0].Gravity {
		t.Fatalf("tile grid not parsed: %+v", scene.TileGrids)
	}
	if len(scene.Bounds) != 1 || scene.Bounds[0].Grid == nil || *scene.Bounds[0].Grid != 7 {
		t.Fatalf("bounds not parsed: %+v", scene.Bounds)
	}

	var stowaway *BodySpec
	for i := range scene.Bodies {
		if scene.Bodies[i].Name == "stowaway" {
			stowaway = &scene.Bodies[i]
		}
	}
	if stowaway == nil || stowaway.ContainedBy != "locker" {
		t.Fatalf("containment reference not parsed")
	}
}

func TestLoadSpecMissingFile(t *testing.T) {
	if _, err := LoadSceneSpec("no_such_scene.yaml"); err == nil {
		t.Fatalf("expected error for missing spec")
	}
}

func TestLoadTuningOverridesDefaults(t *testing.T) {
	tuning, err := LoadTuning("tuning.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if tuning.SolverBudgetFactor != 4 {
		t.Fatalf("solver budget = %d", tuning.SolverBudgetFactor)
	}
	if tuning.PenetrationAllowance != 1.0/128 {
		t.Fatalf("penetration allowance = %v", tuning.PenetrationAllowance)
	}
}

func TestInstantiateSandbox(t *testing.T) {
	scene, err := LoadSceneSpec("sandbox.yaml")
	if err != nil {
		t.Fatal(err)
	}
	w := ecs.NewWorld()
	entities, err := Instantiate(scene, w)
	if err != nil {
		t.Fatal(err)
	}
	if len(entities) != len(scene.Bodies) {
		t.Fatalf("expected %d entities, got %d", len(scene.Bodies), len(entities))
	}

	for i, e := range entities {
		if !ecs.Has(w, e, component.ColliderComponent) {
			t.Fatalf("body %d missing collider", i)
		}
		tr, ok := ecs.Get(w, e, component.TransformComponent)
		if !ok {
			t.Fatalf("body %d missing transform", i)
		}
		if tr.X != scene.Bodies[i].X || tr.Y != scene.Bodies[i].Y {
			t.Fatalf("body %d transform mismatch", i)
		}
	}

	// stowaway is contained by locker.
	var stowIdx, lockerIdx int
	for i, b := range scene.Bodies {
		switch b.Name {
		case "stowaway":
			stowIdx = i
		case "locker":
			lockerIdx = i
		}
	}
	cb, ok := ecs.Get(w, entities[stowIdx], component.ContainedByComponent)
	if !ok {
		t.Fatalf("stowaway missing containment")
	}
	if cb.Parent != uint64(entities[lockerIdx]) {
		t.Fatalf("containment points at wrong parent")
	}

	// scripted bodies carry their source
	foundScript := false
	for _, e := range entities {
		if ecs.Has(w, e, component.ScriptComponent) {
			foundScript = true
		}
	}
	if !foundScript {
		t.Fatalf("expected at least one scripted body")
	}
}

func TestInstantiateUnknownContainerFails(t *testing.T) {
	scene := &SceneSpec{
		Bodies: []BodySpec{
			{Name: "orphan", Type: "dynamic", ContainedBy: "nobody",
				Shapes: []ShapeSpec{{Width: 1, Height: 1}}},
		},
	}
	if _, err := Instantiate(scene, ecs.NewWorld()); err == nil {
		t.Fatalf("expected error for unknown container reference")
	}
}

func TestBuildTileGridRowMajor(t *testing.T) {
	grid := uint32(3)
	tg := buildTileGrid(TileGridSpec{
		Map:      2,
		Grid:     &grid,
		TileSize: 1,
		Rows: [][]float64{
			{0.1, 0.2},
			{0.3}, // short row pads with empty cells
		},
	})

	if tg.Columns != 2 || tg.Rows != 2 {
		t.Fatalf("dims = %dx%d", tg.Columns, tg.Rows)
	}
	if !tg.HasGrid || tg.Grid != 3 {
		t.Fatalf("grid id not carried")
	}
	if f, ok := tg.FrictionAt(1.5, 0.5); !ok || f != 0.2 {
		t.Fatalf("FrictionAt(1.5,0.5) = %v %v", f, ok)
	}
	if f, ok := tg.FrictionAt(0.5, 1.5); !ok || f != 0.3 {
		t.Fatalf("FrictionAt(0.5,1.5) = %v %v", f, ok)
	}
	if _, ok := tg.FrictionAt(1.5, 1.5); ok {
		t.Fatalf("padded cell should be empty")
	}
	if _, ok := tg.FrictionAt(-0.5, 0.5); ok {
		t.Fatalf("outside grid should miss")
	}
}
