package ecs

import (
	"github.com/kamstrup/intmap"
	"github.com/rs/zerolog"
)

// Storage owns the archetypes of one ECS instance and hands them out by their
// canonical type sequence.
type Storage struct {
	archetypes *intmap.Map[uint32, *Archetype]
	order      []*Archetype
	logger     zerolog.Logger
}

// Option configures a Storage.
type Option func(*Storage)

// WithLogger sets the logger used for archetype lifecycle events.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Storage) {
		s.logger = logger
	}
}

// NewStorage creates an empty storage.
func NewStorage(opts ...Option) *Storage {
	s := &Storage{
		archetypes: intmap.New[uint32, *Archetype](64),
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ArchetypeFor returns the archetype whose types equal seq, creating it on
// first use. Repeated calls with an equal sequence return the same archetype.
func (s *Storage) ArchetypeFor(seq TypeSequence) *Archetype {
	id := seq.Hash()
	for {
		archetype, ok := s.archetypes.Get(id)
		if !ok {
			break
		}
		if archetype.types.Equal(seq) {
			return archetype
		}
		// Hash collision with a different type set, probe the next id
		id++
	}

	archetype := newArchetype(id, seq, s.logger)
	s.archetypes.Put(id, archetype)
	s.order = append(s.order, archetype)

	s.logger.Debug().
		Uint32("archetype_id", id).
		Strs("types", seq.names()).
		Msg("archetype created")

	return archetype
}

// GetArchetype returns an archetype by ID, or nil if none exists
func (s *Storage) GetArchetype(id uint32) *Archetype {
	archetype, _ := s.archetypes.Get(id)
	return archetype
}

// Archetypes returns all archetypes in creation order.
func (s *Storage) Archetypes() []*Archetype {
	return s.order
}

// Entity resolves a committed row. ok is false for unknown archetypes and
// rows past the archetype's length.
func (s *Storage) Entity(id EntityId) (*Archetype, int, bool) {
	archetype := s.GetArchetype(id.ArchetypeId())
	if archetype == nil || int(id.Index()) >= archetype.Len() {
		return nil, 0, false
	}
	return archetype, int(id.Index()), true
}

// ReadComponent returns the T value of a committed entity, or nil.
func ReadComponent[T any](s *Storage, id EntityId) *T {
	archetype, row, ok := s.Entity(id)
	if !ok {
		return nil
	}
	value, _ := Get[T](archetype, row)
	return value
}
