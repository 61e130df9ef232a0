package cli

import (
	"fmt"
	"io"
	"runtime"
	"text/template"
	"time"

	"github.com/google/uuid"

	"github.com/plus3/blockfall/leaderboard"
	"github.com/plus3/blockfall/loop"
)

// Report summarizes a stress run.
type Report struct {
	// Configuration
	Duration       time.Duration
	Seed           uint64
	Rows, Cols     int
	CommandsPerSec int

	// Results
	Sessions       []Session
	TotalFrames    int64
	TotalTime      time.Duration
	FrameTime      Stats
	Commands       []loop.CommandStats
	Top            []leaderboard.Record
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

// Session is one game played to the end (or cut off by the deadline).
type Session struct {
	ID       uuid.UUID
	Seed     uint64
	Frames   int64
	Score    int
	Lines    int
	Finished bool
}

// Stats aggregates durations as they arrive, so long runs use constant
// memory.
type Stats struct {
	Min   time.Duration
	Max   time.Duration
	Avg   time.Duration
	Count int64
	total time.Duration
}

// Add records one sample.
func (s *Stats) Add(d time.Duration) {
	if s.Count == 0 || d < s.Min {
		s.Min = d
	}
	if d > s.Max {
		s.Max = d
	}
	s.Count++
	s.total += d
}

func (s *Stats) Finalize() {
	if s.Count == 0 {
		return
	}
	s.Avg = s.total / time.Duration(s.Count)
}

// Finished returns how many sessions reached game over.
func (r *Report) Finished() int {
	n := 0
	for _, s := range r.Sessions {
		if s.Finished {
			n++
		}
	}
	return n
}

// Best returns the highest scoring session.
func (r *Report) Best() Session {
	var best Session
	for _, s := range r.Sessions {
		if s.Score > best.Score {
			best = s
		}
	}
	return best
}

const reportTemplate = `
# Blockfall Stress Report

## Configuration
- **Run Duration:** {{.Duration}}
- **Board:** {{.Rows}} x {{.Cols}}
- **Seed:** {{.Seed}}
- **Random Commands:** {{.CommandsPerSec}}/s

## Games
- **Sessions:** {{len .Sessions}} ({{.Finished}} finished)
{{- if .Sessions}}{{$best := .Best}}
- **Best:** {{$best.Score}} points, {{$best.Lines}} lines (session {{short $best.ID}}, seed {{$best.Seed}})
{{- end}}

| Session | Seed | Frames | Score | Lines | Over |
|---|---|---|---|---|---|
{{- range .Sessions}}
| {{short .ID}} | {{.Seed}} | {{.Frames}} | {{.Score}} | {{.Lines}} | {{.Finished}} |
{{- end}}

## Performance Results
- **Total Frames:** {{.TotalFrames}}
- **Total Test Time:** {{.TotalTime}}
- **Frame Time ({{.FrameTime.Count}} samples):**
  - **Avg:** {{.FrameTime.Avg}}
  - **Min:** {{.FrameTime.Min}}
  - **Max:** {{.FrameTime.Max}}

## Commands Applied
{{- range .Commands}}
- {{.Command}}: {{.Count}}
{{- end}}
{{if .Top}}
## Leaderboard
{{- range $i, $r := .Top}}
{{inc $i}}. {{$r.Nickname}} {{$r.Score}}
{{- end}}
{{end}}
## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{ns .MemStatsEnd.PauseTotalNs}}
- **Num GC Cycles:** {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
{{end}}`

var reportFuncs = template.FuncMap{
	"bsub": func(a, b uint64) int64 {
		return int64(a) - int64(b)
	},
	"usub": func(a, b uint32) uint32 {
		return a - b
	},
	"ns": func(ns uint64) string {
		return time.Duration(ns).String()
	},
	"short": func(id uuid.UUID) string {
		return id.String()[:8]
	},
	"inc": func(i int) int {
		return i + 1
	},
}

var reportTmpl = template.Must(template.New("report").Funcs(reportFuncs).Parse(reportTemplate))

// Generate writes the report as markdown.
func (r *Report) Generate(w io.Writer) error {
	if err := reportTmpl.Execute(w, r); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}
