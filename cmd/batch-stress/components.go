package main

import (
	"strconv"

	"github.com/plus3/colbatch/ecs"
)

type Position struct{ X, Y, Z float32 }
type Velocity struct{ DX, DY, DZ float32 }
type Health struct{ Current, Max int32 }
type Faction uint8
type Label struct{ Text string }
type Transform struct{ M [16]float32 }
type Inventory struct{ Slots []uint16 }
type Lifetime struct{ Ticks uint64 }

// componentKind knows how to fill one component column of a batch.
type componentKind struct {
	info ecs.TypeInfo
	fill func(batch *ecs.ColumnBatch, start, n int) bool
}

func kindOf[T any](gen func(row int) T) componentKind {
	return componentKind{
		info: ecs.TypeInfoOf[T](),
		fill: func(batch *ecs.ColumnBatch, start, n int) bool {
			values, ok := ecs.StorageFor[T](batch)
			if !ok {
				return false
			}
			for row := start; row < start+n; row++ {
				values[row] = gen(row)
			}
			return true
		},
	}
}

var kinds = []componentKind{
	kindOf(func(row int) Position { return Position{X: float32(row), Y: 1, Z: -1} }),
	kindOf(func(row int) Velocity { return Velocity{DX: 0.5, DY: float32(row % 7)} }),
	kindOf(func(row int) Health { return Health{Current: int32(row % 100), Max: 100} }),
	kindOf(func(row int) Faction { return Faction(row % 4) }),
	kindOf(func(row int) Label { return Label{Text: "unit-" + strconv.Itoa(row)} }),
	kindOf(func(row int) Transform { return Transform{M: [16]float32{0: 1, 5: 1, 10: 1, 15: 1}} }),
	kindOf(func(row int) Inventory { return Inventory{Slots: make([]uint16, row%3)} }),
	kindOf(func(row int) Lifetime { return Lifetime{Ticks: uint64(row)} }),
}

// maxArchetypes is the number of non-empty subsets of kinds.
func maxArchetypes() int {
	return 1<<len(kinds) - 1
}

// archetypeKinds returns the component kinds of the i-th archetype. The
// subsets are spread over the mask space so that nearby indexes differ.
func archetypeKinds(i int) []componentKind {
	mask := (i*37)%maxArchetypes() + 1
	var out []componentKind
	for bit, kind := range kinds {
		if mask&(1<<bit) != 0 {
			out = append(out, kind)
		}
	}
	return out
}
