package ecs_test

import (
	"bytes"
	"fmt"
	"reflect"
	"testing"

	"github.com/plus3/colbatch/ecs"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequenceOf(infos ...ecs.TypeInfo) ecs.TypeSequence {
	builder := ecs.NewTypeSet()
	for _, info := range infos {
		builder.Add(info)
	}
	return builder.Finalize()
}

// Test EntityId encoding/decoding
func TestEntityIdEncoding(t *testing.T) {
	archetypeId := uint32(12345)
	index := uint32(67890)

	entityId := ecs.NewEntityId(archetypeId, index)

	assert.Equal(t, archetypeId, entityId.ArchetypeId())
	assert.Equal(t, index, entityId.Index())
	assert.Equal(t, "12345:67890", entityId.String())
}

func TestEntityIdEdgeCases(t *testing.T) {
	tests := []struct {
		archetypeId uint32
		index       uint32
	}{
		{0, 0},
		{0xFFFFFFFF, 0xFFFFFFFF},
		{1, 0},
		{0, 1},
		{0x12345678, 0x9ABCDEF0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("archetype=%d,index=%d", tt.archetypeId, tt.index), func(t *testing.T) {
			entityId := ecs.NewEntityId(tt.archetypeId, tt.index)
			assert.Equal(t, tt.archetypeId, entityId.ArchetypeId())
			assert.Equal(t, tt.index, entityId.Index())
		})
	}
}

func TestArchetypeForIsIdempotent(t *testing.T) {
	storage := ecs.NewStorage()

	first := storage.ArchetypeFor(sequenceOf(ecs.TypeInfoOf[Position](), ecs.TypeInfoOf[Velocity]()))
	second := storage.ArchetypeFor(sequenceOf(ecs.TypeInfoOf[Velocity](), ecs.TypeInfoOf[Position]()))

	assert.Same(t, first, second)
	assert.Len(t, storage.Archetypes(), 1)
	assert.Same(t, first, storage.GetArchetype(first.ID()))
}

func TestDifferentTypeSetsGetDifferentArchetypes(t *testing.T) {
	storage := ecs.NewStorage()

	a := storage.ArchetypeFor(sequenceOf(ecs.TypeInfoOf[Position]()))
	b := storage.ArchetypeFor(sequenceOf(ecs.TypeInfoOf[Position](), ecs.TypeInfoOf[Velocity]()))
	c := storage.ArchetypeFor(sequenceOf(ecs.TypeInfoOf[Health]()))

	assert.NotEqual(t, a.ID(), b.ID())
	assert.NotEqual(t, a.ID(), c.ID())
	assert.NotEqual(t, b.ID(), c.ID())
	assert.Equal(t, []*ecs.Archetype{a, b, c}, storage.Archetypes())
}

func TestHasComponent(t *testing.T) {
	storage := ecs.NewStorage()
	archetype := storage.ArchetypeFor(sequenceOf(ecs.TypeInfoOf[Position](), ecs.TypeInfoOf[Velocity]()))

	assert.True(t, archetype.HasComponent(reflect.TypeOf(Position{})))
	assert.True(t, archetype.HasComponent(reflect.TypeOf(Velocity{})))
	assert.False(t, archetype.HasComponent(reflect.TypeOf(Name{})))
	assert.False(t, archetype.HasComponent(reflect.TypeOf(Health{})))
}

func TestGetArchetypeUnknown(t *testing.T) {
	storage := ecs.NewStorage()
	assert.Nil(t, storage.GetArchetype(42))

	_, _, ok := storage.Entity(ecs.NewEntityId(42, 0))
	assert.False(t, ok)
	assert.Nil(t, ecs.ReadComponent[Position](storage, ecs.NewEntityId(42, 0)))
}

func TestReadComponentBounds(t *testing.T) {
	storage := ecs.NewStorage()
	batch := newPosVelBatch(storage)
	require.NoError(t, batch.Reserve(2))
	ecs.WriteColumn(batch, 0, []Position{{X: 1}, {X: 2}})
	ecs.WriteColumn(batch, 0, []Velocity{{}, {}})
	batch.SetLen(2)

	id := ecs.NewEntityId(batch.Archetype().ID(), 1)
	pos := ecs.ReadComponent[Position](storage, id)
	require.NotNil(t, pos)
	assert.Equal(t, float32(2), pos.X)

	// Reserved but uncommitted rows are not entities.
	assert.Nil(t, ecs.ReadComponent[Position](storage, ecs.NewEntityId(batch.Archetype().ID(), 2)))
	assert.Nil(t, ecs.ReadComponent[Health](storage, id))
}

func TestComponentMutationThroughColumn(t *testing.T) {
	storage := ecs.NewStorage()
	batch := newPosVelBatch(storage)
	require.NoError(t, batch.Reserve(1))
	ecs.WriteColumn(batch, 0, []Position{{X: 1, Y: 1}})
	ecs.WriteColumn(batch, 0, []Velocity{{}})
	batch.SetLen(1)

	pos, ok := ecs.Get[Position](batch.Archetype(), 0)
	require.True(t, ok)
	pos.X = 10
	pos.Y = 20

	positions, ok := ecs.Column[Position](batch.Archetype())
	require.True(t, ok)
	assert.Equal(t, Position{X: 10, Y: 20}, positions[0])
}

func TestArchetypeClearDropsRows(t *testing.T) {
	storage := ecs.NewStorage()
	builder := ecs.NewTypeSet()
	ecs.AddType[Name](builder)
	ecs.AddType[Position](builder)
	batch := builder.IntoBatch(storage)

	require.NoError(t, batch.Reserve(3))
	ecs.WriteColumn(batch, 0, []Name{{"a"}, {"b"}, {"c"}})
	ecs.WriteColumn(batch, 0, []Position{{X: 1}, {X: 2}, {X: 3}})
	batch.SetLen(3)

	archetype := batch.Archetype()
	capacity := archetype.Capacity()
	archetype.Clear()

	assert.Equal(t, 0, archetype.Len())
	assert.Equal(t, capacity, archetype.Capacity())

	// Pointer-holding columns are zeroed, plain data is left in place.
	names, ok := ecs.StorageFor[Name](batch)
	require.True(t, ok)
	assert.Equal(t, []Name{{}, {}, {}}, names[:3])
	positions, ok := ecs.StorageFor[Position](batch)
	require.True(t, ok)
	assert.Equal(t, float32(3), positions[2].X)
}

func TestArchetypeIterStopsEarly(t *testing.T) {
	storage := ecs.NewStorage()
	batch := ecs.NewTypeSet().IntoBatch(storage)
	require.NoError(t, batch.Reserve(10))
	batch.SetLen(10)

	var seen []uint32
	for id := range batch.Archetype().Iter() {
		seen = append(seen, id.Index())
		if len(seen) == 3 {
			break
		}
	}
	assert.Equal(t, []uint32{0, 1, 2}, seen)
}

func TestStorageStats(t *testing.T) {
	storage := ecs.NewStorage()

	stats := storage.CollectStats()
	assert.Equal(t, 0, stats.ArchetypeCount)
	assert.Equal(t, 0, stats.TotalEntityCount)

	batch := newPosVelBatch(storage)
	require.NoError(t, batch.Reserve(5))
	ecs.WriteColumn(batch, 0, make([]Position, 5))
	ecs.WriteColumn(batch, 0, make([]Velocity, 5))
	batch.SetLen(5)

	builder := ecs.NewTypeSet()
	ecs.AddType[Health](builder)
	builder.IntoBatch(storage)

	stats = storage.CollectStats()
	assert.Equal(t, 2, stats.ArchetypeCount)
	assert.Equal(t, 5, stats.TotalEntityCount)
	assert.Equal(t, batch.Capacity(), stats.TotalCapacity)
	require.Len(t, stats.ArchetypeBreakdown, 2)

	first := stats.ArchetypeBreakdown[0]
	assert.Equal(t, batch.Archetype().ID(), first.ID)
	assert.Equal(t, []string{"ecs_test.Position", "ecs_test.Velocity"}, first.Types)
	assert.Equal(t, 5, first.EntityCount)
	assert.Equal(t, uintptr(16), first.SlotBytes)

	second := stats.ArchetypeBreakdown[1]
	assert.Equal(t, 0, second.EntityCount)
	assert.Equal(t, 0, second.Capacity)
}

func TestStorageLogsArchetypeLifecycle(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	storage := ecs.NewStorage(ecs.WithLogger(logger))

	batch := newPosVelBatch(storage)
	require.NoError(t, batch.Reserve(10))

	out := buf.String()
	assert.Contains(t, out, `"message":"archetype created"`)
	assert.Contains(t, out, `"types":["ecs_test.Position","ecs_test.Velocity"]`)
	assert.Contains(t, out, `"message":"archetype grown"`)
	assert.Contains(t, out, `"capacity":64`)
}
