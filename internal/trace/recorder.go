// Package trace writes simulation snapshots as CSV rows.
package trace

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/lao-tseu-is-alive/go-boids-steering/pkg/simulation"
)

// Row is one boid at one tick.
type Row struct {
	Tick  uint64  `csv:"tick"`
	ID    string  `csv:"id"`
	Flock string  `csv:"flock"`
	X     float64 `csv:"x"`
	Y     float64 `csv:"y"`
	Z     float64 `csv:"z"`
	VX    float64 `csv:"vx"`
	VY    float64 `csv:"vy"`
	VZ    float64 `csv:"vz"`
	Speed float64 `csv:"speed"`
}

// Recorder appends snapshots to a CSV stream. A nil *Recorder records
// nothing, so callers can leave tracing disabled without branching.
type Recorder struct {
	w             io.Writer
	closer        io.Closer
	every         uint64
	headerWritten bool
	rows          int
}

// NewRecorder writes to w, keeping one snapshot out of every `every` ticks.
// every <= 1 keeps them all.
func NewRecorder(w io.Writer, every int) *Recorder {
	r := &Recorder{w: w, every: 1}
	if every > 1 {
		r.every = uint64(every)
	}
	return r
}

// Create opens path for writing, creating its directory if needed.
// An empty path disables recording and returns nil.
func Create(path string, every int) (*Recorder, error) {
	if path == "" {
		return nil, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating trace directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating trace file: %w", err)
	}
	r := NewRecorder(f, every)
	r.closer = f
	return r, nil
}

// Record writes the rows of snap when its tick is due.
func (r *Recorder) Record(snap *simulation.Snapshot) error {
	if r == nil || snap == nil || len(snap.Boids) == 0 {
		return nil
	}
	if snap.Tick%r.every != 0 {
		return nil
	}

	rows := make([]Row, len(snap.Boids))
	for i, b := range snap.Boids {
		rows[i] = Row{
			Tick:  snap.Tick,
			ID:    b.ID,
			Flock: b.Flock,
			X:     b.Position.X,
			Y:     b.Position.Y,
			Z:     b.Position.Z,
			VX:    b.Velocity.X,
			VY:    b.Velocity.Y,
			VZ:    b.Velocity.Z,
			Speed: r3.Norm(b.Velocity),
		}
	}

	if !r.headerWritten {
		// First write includes headers
		if err := gocsv.Marshal(rows, r.w); err != nil {
			return fmt.Errorf("writing trace: %w", err)
		}
		r.headerWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(rows, r.w); err != nil {
			return fmt.Errorf("writing trace: %w", err)
		}
	}
	r.rows += len(rows)
	return nil
}

// Rows is the number of rows written so far.
func (r *Recorder) Rows() int {
	if r == nil {
		return 0
	}
	return r.rows
}

// Close closes the underlying file when the recorder opened it.
func (r *Recorder) Close() error {
	if r == nil || r.closer == nil {
		return nil
	}
	return r.closer.Close()
}
