package ecs

// StorageStats summarizes archetype occupancy.
type StorageStats struct {
	ArchetypeCount     int
	TotalEntityCount   int
	TotalCapacity      int
	ArchetypeBreakdown []ArchetypeStats
}

// ArchetypeStats describes a single archetype.
type ArchetypeStats struct {
	ID          uint32
	Types       []string
	EntityCount int
	Capacity    int
	// SlotBytes is the size of one row across all columns.
	SlotBytes uintptr
}

// CollectStats walks every archetype in creation order.
func (s *Storage) CollectStats() StorageStats {
	stats := StorageStats{
		ArchetypeCount:     len(s.order),
		ArchetypeBreakdown: make([]ArchetypeStats, 0, len(s.order)),
	}

	for _, archetype := range s.order {
		var slotBytes uintptr
		for _, info := range archetype.types.types {
			slotBytes += info.Size()
		}

		stats.TotalEntityCount += archetype.Len()
		stats.TotalCapacity += archetype.Capacity()
		stats.ArchetypeBreakdown = append(stats.ArchetypeBreakdown, ArchetypeStats{
			ID:          archetype.id,
			Types:       archetype.types.names(),
			EntityCount: archetype.Len(),
			Capacity:    archetype.Capacity(),
			SlotBytes:   slotBytes,
		})
	}

	return stats
}
