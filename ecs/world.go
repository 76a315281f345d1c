package ecs

import "github.com/metalgearsloth/tickphys/ecs/component"

// System updates a world each tick.
type System interface {
	Update(w *World)
}

// World owns entities, component stores, and the event queue.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]*store
	events   EventQueue
}

func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]*store)}
}

// CreateEntity allocates a new entity.
func (w *World) CreateEntity() Entity {
	return w.entities.create()
}

// DestroyEntity kills an entity and strips its components. Returns false for
// stale handles.
func (w *World) DestroyEntity(e Entity) bool {
	if !w.entities.destroy(e) {
		return false
	}
	for _, s := range w.stores {
		s.remove(e.slot())
	}
	return true
}

// IsAlive reports whether an entity handle is current.
func (w *World) IsAlive(e Entity) bool {
	return w.entities.isAlive(e)
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	return &w.events
}

// Query returns every live entity holding all the named components. Entities
// come back in the dense order of the rarest component.
func (w *World) Query(ids ...component.ComponentID) []Entity {
	if len(ids) == 0 {
		return nil
	}
	var smallest *store
	for _, id := range ids {
		s := w.stores[id]
		if s == nil {
			return nil
		}
		if smallest == nil || len(s.dense) < len(smallest.dense) {
			smallest = s
		}
	}
	var out []Entity
outer:
	for _, id := range smallest.dense {
		for _, cid := range ids {
			if !w.stores[cid].has(id) {
				continue outer
			}
		}
		out = append(out, packEntity(id, w.entities.gens[id-1]))
	}
	return out
}

// First returns some live entity holding a component, if any exists.
func (w *World) First(id component.ComponentID) (Entity, bool) {
	s := w.stores[id]
	if s == nil || len(s.dense) == 0 {
		return 0, false
	}
	eid := s.dense[0]
	return packEntity(eid, w.entities.gens[eid-1]), true
}

func (w *World) storeFor(id component.ComponentID) *store {
	s := w.stores[id]
	if s == nil {
		s = &store{}
		w.stores[id] = s
	}
	return s
}

func (w *World) AddComponent(e Entity, id component.ComponentID, v any) error {
	if !w.entities.isAlive(e) {
		return component.ErrEntityNotAlive
	}
	if id == 0 {
		return component.ErrInvalidComponentKind
	}
	w.storeFor(id).set(e.slot(), v)
	return nil
}

func (w *World) GetComponent(e Entity, id component.ComponentID) (any, bool) {
	if !w.entities.isAlive(e) {
		return nil, false
	}
	s := w.stores[id]
	if s == nil {
		return nil, false
	}
	return s.get(e.slot())
}

func (w *World) HasComponent(e Entity, id component.ComponentID) bool {
	if !w.entities.isAlive(e) {
		return false
	}
	s := w.stores[id]
	return s != nil && s.has(e.slot())
}

func (w *World) RemoveComponent(e Entity, id component.ComponentID) bool {
	if !w.entities.isAlive(e) {
		return false
	}
	s := w.stores[id]
	return s != nil && s.remove(e.slot())
}
