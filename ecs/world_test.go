package ecs

import (
	"testing"

	"github.com/metalgearsloth/tickphys/ecs/component"
)

func TestEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_destroy_middle", 3, 1},
		{"none_destroyed", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, w.CreateEntity())
			}
			for _, e := range ents {
				if !w.IsAlive(e) {
					t.Fatalf("created entity %s not alive", e)
				}
			}
			if c.destroyIndex >= 0 {
				victim := ents[c.destroyIndex]
				if !w.DestroyEntity(victim) {
					t.Fatalf("DestroyEntity should return true for alive entity")
				}
				if w.IsAlive(victim) {
					t.Fatalf("entity should not be alive after destruction")
				}
				if w.DestroyEntity(victim) {
					t.Fatalf("double destroy should report false")
				}
			}
		})
	}
}

func TestStaleHandleAfterRecycle(t *testing.T) {
	w := NewWorld()
	first := w.CreateEntity()
	w.DestroyEntity(first)
	second := w.CreateEntity()

	if first == second {
		t.Fatalf("recycled id must carry a new generation")
	}
	if w.IsAlive(first) {
		t.Fatalf("stale handle should be dead")
	}
	if !w.IsAlive(second) {
		t.Fatalf("fresh handle should be alive")
	}
}

func TestComponentsAddGetRemove(t *testing.T) {
	w := NewWorld()
	hInt := component.NewComponent[int]()
	hStr := component.NewComponent[string]()

	e := w.CreateEntity()
	if err := Add(w, e, hInt, 42); err != nil {
		t.Fatal(err)
	}
	if err := Add(w, e, hStr, "crate"); err != nil {
		t.Fatal(err)
	}

	if v, ok := Get(w, e, hInt); !ok || v != 42 {
		t.Fatalf("Get int = %v %v", v, ok)
	}
	if v, ok := Get(w, e, hStr); !ok || v != "crate" {
		t.Fatalf("Get string = %v %v", v, ok)
	}

	// Overwrite in place.
	if err := Add(w, e, hInt, 7); err != nil {
		t.Fatal(err)
	}
	if v, _ := Get(w, e, hInt); v != 7 {
		t.Fatalf("expected overwrite to 7, got %v", v)
	}

	if !Remove(w, e, hInt) {
		t.Fatalf("Remove should report true")
	}
	if Has(w, e, hInt) {
		t.Fatalf("component should be gone")
	}
	if Has(w, e, hStr) {
		// unrelated component untouched
	} else {
		t.Fatalf("other component lost on remove")
	}
}

func TestComponentsOnDeadEntity(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()
	e := w.CreateEntity()
	w.DestroyEntity(e)

	if err := Add(w, e, h, 1); err != component.ErrEntityNotAlive {
		t.Fatalf("expected ErrEntityNotAlive, got %v", err)
	}
	if _, ok := Get(w, e, h); ok {
		t.Fatalf("Get on dead entity should miss")
	}
}

func TestDestroyStripsComponents(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()

	e := w.CreateEntity()
	if err := Add(w, e, h, 9); err != nil {
		t.Fatal(err)
	}
	w.DestroyEntity(e)

	// The recycled id must not see the old value.
	reborn := w.CreateEntity()
	if Has(w, reborn, h) {
		t.Fatalf("recycled entity inherited a component")
	}
}

func TestQueryIntersection(t *testing.T) {
	w := NewWorld()
	hA := component.NewComponent[int]()
	hB := component.NewComponent[string]()

	both := w.CreateEntity()
	onlyA := w.CreateEntity()
	onlyB := w.CreateEntity()

	if err := Add(w, both, hA, 1); err != nil {
		t.Fatal(err)
	}
	if err := Add(w, both, hB, "x"); err != nil {
		t.Fatal(err)
	}
	if err := Add(w, onlyA, hA, 2); err != nil {
		t.Fatal(err)
	}
	if err := Add(w, onlyB, hB, "y"); err != nil {
		t.Fatal(err)
	}

	got := w.Query(hA.ID(), hB.ID())
	if len(got) != 1 || got[0] != both {
		t.Fatalf("Query = %v, want just %s", got, both)
	}

	if got := w.Query(hA.ID()); len(got) != 2 {
		t.Fatalf("single-component query = %v", got)
	}

	unused := component.NewComponent[float64]()
	if got := w.Query(hA.ID(), unused.ID()); got != nil {
		t.Fatalf("query with absent component should be empty, got %v", got)
	}
}

func TestEventQueueFIFO(t *testing.T) {
	var q EventQueue
	q.Push(Event{Type: "a"})
	q.Push(Event{Type: "b"})

	got := q.Drain()
	if len(got) != 2 || got[0].Type != "a" || got[1].Type != "b" {
		t.Fatalf("Drain = %v", got)
	}
	if q.Drain() != nil {
		t.Fatalf("second drain should be empty")
	}
}
