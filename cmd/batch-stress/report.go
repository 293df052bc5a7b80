package main

import (
	"fmt"
	"io"
	"runtime"
	"text/template"
	"time"

	"github.com/plus3/colbatch/ecs"
)

type Report struct {
	// Configuration
	Duration   time.Duration
	BatchSize  int
	Archetypes int
	Parallel   bool

	// Results
	TotalBatches  int64
	TotalEntities int64
	TotalTime     time.Duration
	BatchTime     Stats
	Storage       ecs.StorageStats
	MemStatsStart runtime.MemStats
	MemStatsEnd   runtime.MemStats
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

// EntitiesPerSecond is the committed spawn rate over the whole run.
func (r *Report) EntitiesPerSecond() float64 {
	if r.TotalTime <= 0 {
		return 0
	}
	return float64(r.TotalEntities) / r.TotalTime.Seconds()
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# Column Batch Stress Report

## Test Configuration
- **Run Duration:** {{.Duration}}
- **Batch Size:** {{.BatchSize}}
- **Archetypes:** {{.Archetypes}}
- **Parallel Fill:** {{.Parallel}}

## Performance Results
- **Total Batches:** {{.TotalBatches}}
- **Total Entities:** {{.TotalEntities}}
- **Total Test Time:** {{.TotalTime}}
- **Entities/sec:** {{printf "%.0f" .EntitiesPerSecond}}
- **Batch Time:**
  - **Avg:** {{.BatchTime.Avg}}
  - **Min:** {{.BatchTime.Min}}
  - **Max:** {{.BatchTime.Max}}

## Storage
- **Archetypes:** {{.Storage.ArchetypeCount}}
- **Live Rows:** {{.Storage.TotalEntityCount}}
- **Allocated Rows:** {{.Storage.TotalCapacity}}
{{range .Storage.ArchetypeBreakdown}}- {{.ID}} {{.Types}}: {{.EntityCount}}/{{.Capacity}} rows, {{.SlotBytes}} B/row ({{mb (rowbytes .Capacity .SlotBytes)}} MiB)
{{end}}
## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
- Total GC Pause: {{usub64 .MemStatsEnd.PauseTotalNs .MemStatsStart.PauseTotalNs | ns}}
`

	fm := template.FuncMap{
		"mb": func(v uint64) string {
			return fmt.Sprintf("%.2f", float64(v)/1024/1024)
		},
		"rowbytes": func(rows int, slot uintptr) uint64 {
			return uint64(rows) * uint64(slot)
		},
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"usub64": func(a, b uint64) uint64 {
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
