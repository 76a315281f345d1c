package ecs

import "fmt"

// Entity is an opaque handle packing a 32-bit store slot in the low half and
// that slot's generation in the high half. When a slot is recycled the
// generation bumps, so handles to the dead entity miss instead of aliasing
// its replacement. The zero Entity never names a live entity.
type Entity uint64

const entitySlotBits = 32

type slotIndex uint32

type slotGen uint32

func packEntity(slot slotIndex, gen slotGen) Entity {
	return Entity(uint64(gen)<<entitySlotBits | uint64(slot))
}

func (e Entity) slot() slotIndex {
	return slotIndex(uint32(e))
}

func (e Entity) gen() slotGen {
	return slotGen(uint64(e) >> entitySlotBits)
}

// Valid reports whether the handle could ever name an entity; it does not
// check liveness. Use World.IsAlive for that.
func (e Entity) Valid() bool {
	return e != 0
}

func (e Entity) String() string {
	return fmt.Sprintf("%d:g%d", uint32(e.slot()), uint32(e.gen()))
}
