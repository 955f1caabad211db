package ecs

// StorageStats summarizes the contents of a Storage.
type StorageStats struct {
	ArchetypeCount     int
	TotalEntityCount   int
	PageCount          int
	Pool               PoolStats
	ArchetypeBreakdown []ArchetypeStats
}

// ArchetypeStats summarizes one archetype.
type ArchetypeStats struct {
	ID             uint32
	ComponentCount int
	EntityCount    int
	PageCount      int
	RecordSize     uintptr
	Capacity       int
}

// Fill returns the fraction of the archetype's page capacity in use.
func (a ArchetypeStats) Fill() float64 {
	if a.Capacity == 0 {
		return 0
	}
	return float64(a.EntityCount) / float64(a.Capacity)
}

// CollectStats walks every archetype and page.
func (s *Storage) CollectStats() StorageStats {
	stats := StorageStats{
		ArchetypeCount:     len(s.ordered),
		TotalEntityCount:   s.alive,
		Pool:               s.pool.Stats(),
		ArchetypeBreakdown: make([]ArchetypeStats, 0, len(s.ordered)),
	}

	for _, a := range s.ordered {
		as := ArchetypeStats{
			ID:             a.id,
			ComponentCount: a.desc.Len(),
			PageCount:      len(a.pages),
			RecordSize:     a.desc.Size(),
		}
		for _, page := range a.pages {
			as.EntityCount += page.Size()
			as.Capacity += page.Capacity()
		}
		stats.PageCount += as.PageCount
		stats.ArchetypeBreakdown = append(stats.ArchetypeBreakdown, as)
	}
	return stats
}
