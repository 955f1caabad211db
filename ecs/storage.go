package ecs

import (
	"iter"
	"unsafe"

	"github.com/kamstrup/intmap"
	"github.com/rotisserie/eris"
)

// entityRecord locates a live entity. A nil archetype marks a free index.
type entityRecord struct {
	generation uint32
	archetype  *Archetype
	page       *Page
	id         SparseId
}

type storageConfig struct {
	pageSize int
}

// StorageOption configures a Storage.
type StorageOption func(*storageConfig)

// WithPageSize sets the buffer size of every page. Records larger than a page
// cannot be stored.
func WithPageSize(n int) StorageOption {
	return func(c *storageConfig) {
		c.pageSize = n
	}
}

// Storage is the main ECS storage: it assigns entity ids, groups entities into
// archetypes by component set and migrates them between archetypes as their
// components change. It is not safe for concurrent use.
type Storage struct {
	registry   *ComponentRegistry
	pool       *PagePool
	archetypes *intmap.Map[uint64, []*Archetype]
	ordered    []*Archetype
	entities   []entityRecord
	free       []uint32
	alive      int
}

// NewStorage creates a new ECS storage system with the given component registry
func NewStorage(registry *ComponentRegistry, opts ...StorageOption) *Storage {
	cfg := storageConfig{pageSize: DefaultPageSize}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Storage{
		registry:   registry,
		pool:       NewPagePool(cfg.pageSize),
		archetypes: intmap.New[uint64, []*Archetype](64),
	}
}

// Registry returns the component registry.
func (s *Storage) Registry() *ComponentRegistry {
	return s.registry
}

// Pool returns the page pool backing every archetype.
func (s *Storage) Pool() *PagePool {
	return s.pool
}

// Len returns the number of live entities.
func (s *Storage) Len() int {
	return s.alive
}

// Spawn creates a new entity from the components in b, draining it.
func (s *Storage) Spawn(b *Bundle) (EntityId, error) {
	if b.Len() == 0 {
		return 0, eris.Wrap(ErrEmptyBundle, "spawn")
	}

	archetype := s.archetypeFor(b.Types())
	entity := s.newEntity()
	page, id := archetype.insert(s.pool, func(p *Page) (SparseId, bool) {
		return p.Push(entity, b)
	})
	s.place(entity, archetype, page, id)
	return entity, nil
}

// Delete removes the entity and destroys its components.
func (s *Storage) Delete(entity EntityId) error {
	rec, err := s.lookup(entity)
	if err != nil {
		return eris.Wrap(err, "delete")
	}

	rec.page.Remove(rec.id)
	rec.archetype.releaseIfEmpty(rec.page, s.pool)
	s.freeEntity(entity)
	return nil
}

// Alive reports whether entity refers to a live entity.
func (s *Storage) Alive(entity EntityId) bool {
	_, err := s.lookup(entity)
	return err == nil
}

// AddComponents moves the components in b onto the entity, draining b.
// Components the entity already has are overwritten in place; new ones move
// the entity to the archetype of its enlarged component set.
func (s *Storage) AddComponents(entity EntityId, b *Bundle) error {
	rec, err := s.lookup(entity)
	if err != nil {
		return eris.Wrap(err, "add components")
	}
	if b.Len() == 0 {
		return nil
	}

	src := rec.archetype
	types := src.Types().Union(b.Types())
	if types.Equal(src.Types()) {
		view := rec.page.Get(rec.id)
		for _, id := range b.Types().Ids() {
			value, _ := b.Remove(id)
			dst := view.Get(id)
			info := s.registry.Info(id)
			info.Destroy(dst)
			info.Move(dst, value)
		}
		return nil
	}

	dst := s.archetypeFor(types)
	courier := rec.page.Take(rec.id, nil)
	defer courier.Close()
	src.releaseIfEmpty(rec.page, s.pool)

	view := courier.View(0)
	page, id := dst.insert(s.pool, func(p *Page) (SparseId, bool) {
		return p.PushMerged(view, b)
	})
	s.place(entity, dst, page, id)
	return nil
}

// RemoveComponents drops the given components from the entity, destroying
// them, and moves it to the archetype of its reduced component set. Removing
// every component deletes the entity.
func (s *Storage) RemoveComponents(entity EntityId, ids ...ComponentId) error {
	rec, err := s.lookup(entity)
	if err != nil {
		return eris.Wrap(err, "remove components")
	}

	src := rec.archetype
	removed := NewTypeSet(ids...)
	if removed.Len() == 0 {
		return nil
	}
	if !src.Types().With(removed) {
		return eris.Wrapf(ErrComponentMissing, "entity %d has %s, removing %s", entity, src.Types(), removed)
	}

	types := src.Types().Difference(removed)
	if types.Len() == 0 {
		return s.Delete(entity)
	}

	dst := s.archetypeFor(types)
	courier := rec.page.Take(rec.id, dst.desc)
	defer courier.Close()
	src.releaseIfEmpty(rec.page, s.pool)

	view := courier.View(0)
	page, id := dst.insert(s.pool, func(p *Page) (SparseId, bool) {
		return p.PushView(view)
	})
	s.place(entity, dst, page, id)
	return nil
}

// View returns a view of the entity's record.
func (s *Storage) View(entity EntityId) (View, bool) {
	rec, err := s.lookup(entity)
	if err != nil {
		return View{}, false
	}
	return rec.page.Get(rec.id), true
}

// GetComponent returns the address of the entity's component id, or nil if the
// entity does not exist or lacks the component.
func (s *Storage) GetComponent(entity EntityId, id ComponentId) unsafe.Pointer {
	view, ok := s.View(entity)
	if !ok {
		return nil
	}
	return view.Get(id)
}

// HasComponent checks if an entity has a specific component type
func (s *Storage) HasComponent(entity EntityId, id ComponentId) bool {
	rec, err := s.lookup(entity)
	if err != nil {
		return false
	}
	return rec.archetype.HasComponent(id)
}

// Archetype returns the archetype currently holding entity.
func (s *Storage) Archetype(entity EntityId) *Archetype {
	rec, err := s.lookup(entity)
	if err != nil {
		return nil
	}
	return rec.archetype
}

// GetArchetypeByTypes returns the archetype for exactly types, if one exists.
func (s *Storage) GetArchetypeByTypes(types TypeSet) *Archetype {
	candidates, _ := s.archetypes.Get(types.Hash())
	for _, a := range candidates {
		if a.Types().Equal(types) {
			return a
		}
	}
	return nil
}

// Archetypes returns every archetype in creation order. Archetypes are never
// removed, so an archetype's ID is its index in the slice.
func (s *Storage) Archetypes() []*Archetype {
	return s.ordered
}

// Matching iterates the archetypes holding every component of with and none
// of without.
func (s *Storage) Matching(with, without TypeSet) iter.Seq[*Archetype] {
	return func(yield func(*Archetype) bool) {
		for _, a := range s.ordered {
			if !a.desc.With(with) || !a.desc.Without(without) {
				continue
			}
			if !yield(a) {
				return
			}
		}
	}
}

// Compact merges sparsely filled pages of every archetype, returning freed
// pages to the pool. Entity ids stay valid.
func (s *Storage) Compact() {
	for _, a := range s.ordered {
		a.compact(s.pool, func(entity EntityId, page *Page, id SparseId) {
			rec := &s.entities[entity.Index()]
			rec.page = page
			rec.id = id
		})
	}
}

// archetypeFor returns the archetype for types, creating it on first use.
func (s *Storage) archetypeFor(types TypeSet) *Archetype {
	if a := s.GetArchetypeByTypes(types); a != nil {
		return a
	}

	a := newArchetype(uint32(len(s.ordered)), NewDescriptor(s.registry, types.Ids()...))
	h := types.Hash()
	candidates, _ := s.archetypes.Get(h)
	s.archetypes.Put(h, append(candidates, a))
	s.ordered = append(s.ordered, a)
	return a
}

func (s *Storage) lookup(entity EntityId) (*entityRecord, error) {
	idx := entity.Index()
	if int(idx) >= len(s.entities) {
		return nil, eris.Wrapf(ErrEntityNotFound, "entity %d", entity)
	}
	rec := &s.entities[idx]
	if rec.archetype == nil || rec.generation != entity.Generation() {
		return nil, eris.Wrapf(ErrEntityNotFound, "entity %d", entity)
	}
	return rec, nil
}

// newEntity reserves an entity id, reusing freed indices first.
func (s *Storage) newEntity() EntityId {
	s.alive++
	if n := len(s.free); n > 0 {
		idx := s.free[n-1]
		s.free = s.free[:n-1]
		return NewEntityId(idx, s.entities[idx].generation)
	}
	// Generations start at 1 so no live entity has id 0.
	s.entities = append(s.entities, entityRecord{generation: 1})
	return NewEntityId(uint32(len(s.entities)-1), 1)
}

func (s *Storage) place(entity EntityId, a *Archetype, page *Page, id SparseId) {
	rec := &s.entities[entity.Index()]
	rec.archetype = a
	rec.page = page
	rec.id = id
}

func (s *Storage) freeEntity(entity EntityId) {
	rec := &s.entities[entity.Index()]
	rec.archetype = nil
	rec.page = nil
	rec.generation++
	if rec.generation == 0 {
		rec.generation = 1
	}
	s.free = append(s.free, entity.Index())
	s.alive--
}

// ComponentReader is implemented by anything that resolves entity components.
type ComponentReader interface {
	Registry() *ComponentRegistry
	GetComponent(EntityId, ComponentId) unsafe.Pointer
}

// ReadComponent returns a typed pointer to the entity's T, or nil if the
// entity does not exist, lacks T or T is not registered.
func ReadComponent[T any](reader ComponentReader, entity EntityId) *T {
	id, ok := ComponentIdFor[T](reader.Registry())
	if !ok {
		return nil
	}
	return (*T)(reader.GetComponent(entity, id))
}
