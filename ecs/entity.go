package ecs

// EntityId encodes both the generation (upper 32 bits) and the entity index (lower 32 bits).
// Indices are recycled after deletion with a bumped generation, so stale ids never
// resolve to a newer entity.
type EntityId uint64

// NewEntityId creates an EntityId from an index and a generation
func NewEntityId(index uint32, generation uint32) EntityId {
	return EntityId(uint64(generation)<<32 | uint64(index))
}

// Index extracts the entity index from the entity ID
func (e EntityId) Index() uint32 {
	return uint32(e & 0xFFFFFFFF)
}

// Generation extracts the generation from the entity ID
func (e EntityId) Generation() uint32 {
	return uint32(e >> 32)
}
