// Package artifacts turns collected timings into JSON report files.
package artifacts

import (
	"time"

	"github.com/yeongki/spyglass/pkg/spyglass"
)

// Report is the on-disk form of one run's timings.
type Report struct {
	RunID     string    `json:"run_id"`
	CreatedAt time.Time `json:"created_at"`
	Timings   []Record  `json:"timings"`
}

// Record is a flattened spyglass.Timing.
type Record struct {
	Name            string  `json:"name"`
	Function        string  `json:"function"`
	File            string  `json:"file"`
	Line            int     `json:"line"`
	BeginUnixNano   int64   `json:"begin_unix_nano"`
	DurationNanos   int64   `json:"duration_nanos"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// NewReport builds a report from ts, keeping their order.
func NewReport(runID string, ts []spyglass.Timing) Report {
	r := Report{
		RunID:     runID,
		CreatedAt: time.Now().UTC(),
		Timings:   make([]Record, 0, len(ts)),
	}
	for _, t := range ts {
		r.Timings = append(r.Timings, Record{
			Name:            t.Name,
			Function:        t.Location.Function,
			File:            t.Location.File,
			Line:            t.Location.Line,
			BeginUnixNano:   t.Begin.UnixNano(),
			DurationNanos:   t.Duration.Nanoseconds(),
			DurationSeconds: t.Duration.Seconds(),
		})
	}
	return r
}
