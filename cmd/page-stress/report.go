package main

import (
	"fmt"
	"io"
	"runtime"
	"slices"
	"text/template"
	"time"

	"github.com/plus3/archstore/ecs"
)

type Report struct {
	// Configuration
	Duration   time.Duration
	Entities   int
	Components int
	PageSize   int
	Churn      int

	// Results
	TotalUpdates   int64
	TotalTime      time.Duration
	UpdateTime     Stats
	CompactTime    Stats
	Operations     Operations
	Storage        ecs.StorageStats
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		if sample < s.Min {
			s.Min = sample
		}
		if sample > s.Max {
			s.Max = sample
		}
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# Page Storage Stress Test Report

## Test Configuration
- **Run Duration:** {{.Duration}}
- **Initial Entities:** {{.Entities}}
- **Generated Components:** {{.Components}}
- **Page Size:** {{.PageSize}} bytes
- **Churn per Frame:** {{.Churn}}

## Performance Results
- **Total Updates:** {{.TotalUpdates}}
- **Total Test Time:** {{.TotalTime}}
- **Update Time (Frame):**
  - **Avg:** {{.UpdateTime.Avg}}
  - **Min:** {{.UpdateTime.Min}}
  - **Max:** {{.UpdateTime.Max}}
{{- if .CompactTime.Samples}}
- **Compaction ({{len .CompactTime.Samples}} runs):**
  - **Avg:** {{.CompactTime.Avg}}
  - **Max:** {{.CompactTime.Max}}
{{- end}}

## Operations
- Spawned: {{.Operations.Spawned}}, Deleted: {{.Operations.Deleted}}
- Added: {{.Operations.Added}}, Removed: {{.Operations.Removed}}
- Records visited: {{.Operations.Visited}}

## Storage
- Live Entities:  {{.Storage.TotalEntityCount}}
- Archetypes:     {{.Storage.ArchetypeCount}}
- Pages:          {{.Storage.PageCount}} ({{mb (mul .Storage.PageCount .PageSize)}} MiB)
- Page Pool:      {{.Storage.Pool.Pooled}} pooled, {{.Storage.Pool.Hits}} hits, {{.Storage.Pool.Misses}} misses, {{.Storage.Pool.Released}} released
{{- with busiest .Storage.ArchetypeBreakdown}}
- Busiest Archetypes:
{{- range .}}
  - #{{.ID}}: {{.EntityCount}} entities, {{.ComponentCount}} components, {{.RecordSize}} byte records, {{.PageCount}} pages, {{percent .Fill}} full
{{- end}}
{{- end}}

## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Sys Memory:     {{.MemStatsStart.Sys}} (start) -> {{.MemStatsEnd.Sys}} (end) -> delta: {{bsub .MemStatsEnd.Sys .MemStatsStart.Sys}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}

{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
- **Num GC Cycles:** {{ usub .MemStatsEnd.NumGC .MemStatsStart.NumGC }}
{{end}}
`

	fm := template.FuncMap{
		"mb": func(v any) string {
			switch val := v.(type) {
			case int:
				return fmt.Sprintf("%.2f", float64(val)/1024/1024)
			case uint64:
				return fmt.Sprintf("%.2f", float64(val)/1024/1024)
			case int64:
				return fmt.Sprintf("%.2f", float64(val)/1024/1024)
			default:
				return "N/A"
			}
		},
		"mul": func(a, b int) int {
			return a * b
		},
		"percent": func(f float64) string {
			return fmt.Sprintf("%.1f%%", f*100)
		},
		"busiest": busiest,
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}

// busiest returns up to five archetypes holding the most entities.
func busiest(archetypes []ecs.ArchetypeStats) []ecs.ArchetypeStats {
	sorted := slices.Clone(archetypes)
	slices.SortFunc(sorted, func(a, b ecs.ArchetypeStats) int {
		return b.EntityCount - a.EntityCount
	})
	return sorted[:min(len(sorted), 5)]
}
