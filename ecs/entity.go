package ecs

import "fmt"

// EntityId addresses a committed row: the archetype ID sits in the upper 32
// bits and the row index in the lower 32 bits. Ids are derived from storage
// position only; nothing here allocates or recycles them.
type EntityId uint64

// NewEntityId creates an EntityId from an archetype ID and row index
func NewEntityId(archetypeId uint32, index uint32) EntityId {
	return EntityId(uint64(archetypeId)<<32 | uint64(index))
}

// ArchetypeId extracts the archetype ID from the entity ID
func (e EntityId) ArchetypeId() uint32 {
	return uint32(e >> 32)
}

// Index extracts the row index from the entity ID
func (e EntityId) Index() uint32 {
	return uint32(e & 0xFFFFFFFF)
}

func (e EntityId) String() string {
	return fmt.Sprintf("%d:%d", e.ArchetypeId(), e.Index())
}
