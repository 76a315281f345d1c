package ecs

// entityStore tracks generations and recycles freed ids.
type entityStore struct {
	gens []slotGen
	free []slotIndex
}

func (s *entityStore) create() Entity {
	var id slotIndex
	if n := len(s.free); n > 0 {
		id = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		s.gens = append(s.gens, 0)
		id = slotIndex(len(s.gens))
	}
	return packEntity(id, s.gens[id-1])
}

func (s *entityStore) destroy(e Entity) bool {
	id := e.slot()
	if id == 0 || int(id) > len(s.gens) || s.gens[id-1] != e.gen() {
		return false
	}
	s.gens[id-1]++
	s.free = append(s.free, id)
	return true
}

func (s *entityStore) isAlive(e Entity) bool {
	id := e.slot()
	return id != 0 && int(id) <= len(s.gens) && s.gens[id-1] == e.gen()
}

// store is a sparse set holding one component type for all entities.
type store struct {
	dense  []slotIndex
	values []any
	sparse []int32
}

func (s *store) index(id slotIndex) (int, bool) {
	if id == 0 || int(id) > len(s.sparse) {
		return 0, false
	}
	idx := s.sparse[id-1]
	if idx < 0 || int(idx) >= len(s.dense) || s.dense[idx] != id {
		return 0, false
	}
	return int(idx), true
}

func (s *store) has(id slotIndex) bool {
	_, ok := s.index(id)
	return ok
}

func (s *store) get(id slotIndex) (any, bool) {
	idx, ok := s.index(id)
	if !ok {
		return nil, false
	}
	return s.values[idx], true
}

func (s *store) set(id slotIndex, v any) {
	for int(id) > len(s.sparse) {
		s.sparse = append(s.sparse, -1)
	}
	if idx, ok := s.index(id); ok {
		s.values[idx] = v
		return
	}
	s.dense = append(s.dense, id)
	s.values = append(s.values, v)
	s.sparse[id-1] = int32(len(s.dense) - 1)
}

// remove swap-deletes to keep the dense arrays packed.
func (s *store) remove(id slotIndex) bool {
	idx, ok := s.index(id)
	if !ok {
		return false
	}
	last := len(s.dense) - 1
	s.dense[idx] = s.dense[last]
	s.values[idx] = s.values[last]
	s.sparse[s.dense[idx]-1] = int32(idx)
	s.dense = s.dense[:last]
	s.values = s.values[:last]
	s.sparse[id-1] = -1
	return true
}
