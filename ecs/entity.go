package ecs

import "strconv"

// Entity is a generational handle: the high 32 bits carry the generation and
// the low 32 bits the slot id. Components refer to owners by the raw uint64.
type Entity uint64

type entityID uint32
type generation uint32

const entityIDBits = 32

func makeEntity(id entityID, gen generation) Entity {
	return Entity(uint64(gen)<<entityIDBits | uint64(id))
}

func (e Entity) id() entityID {
	return entityID(uint32(e))
}

func (e Entity) generation() generation {
	return generation(uint32(uint64(e) >> entityIDBits))
}

func (e Entity) String() string {
	return strconv.FormatUint(uint64(e), 10)
}

func (e Entity) Valid() bool {
	return e.id() > 0
}

// Owner returns the handle in the form used by combat components.
func (e Entity) Owner() uint64 {
	return uint64(e)
}
