// Package stats keeps host-side frame timing for a running loop.
package stats

import (
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"
)

// Stats is a snapshot of a Recorder.
type Stats struct {
	Frames  int
	Resizes int
	Elapsed time.Duration

	// Frame time bounds and mean, zero until two frames were presented.
	Min  time.Duration
	Max  time.Duration
	Mean time.Duration
}

// FPS returns the mean frame rate over the recorded interval.
func (s Stats) FPS() float64 {
	if s.Mean <= 0 {
		return 0
	}
	return float64(time.Second) / float64(s.Mean)
}

// Recorder measures the interval between presented frames. Tick is meant
// to be the frame loop's after-present callback.
type Recorder struct {
	// Now is the clock, time.Now when nil.
	Now func() time.Time

	start   time.Time
	last    time.Time
	frames  int
	resizes int
	min     time.Duration
	max     time.Duration
}

func (r *Recorder) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// Tick records one presented frame.
func (r *Recorder) Tick() {
	now := r.now()
	if r.frames == 0 {
		r.start = now
	} else {
		delta := now.Sub(r.last)
		if r.frames == 1 || delta < r.min {
			r.min = delta
		}
		if delta > r.max {
			r.max = delta
		}
	}
	r.last = now
	r.frames++
}

// Resized counts one swapchain rebuild.
func (r *Recorder) Resized() {
	r.resizes++
}

func (r *Recorder) Snapshot() Stats {
	s := Stats{
		Frames:  r.frames,
		Resizes: r.resizes,
		Min:     r.min,
		Max:     r.max,
	}
	if r.frames > 1 {
		s.Elapsed = r.last.Sub(r.start)
		s.Mean = s.Elapsed / time.Duration(r.frames-1)
	}
	return s
}

// Write renders s as a two-column table.
func Write(w io.Writer, s Stats) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Metric", "Value"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.AppendBulk([][]string{
		{"frames", fmt.Sprint(s.Frames)},
		{"resizes", fmt.Sprint(s.Resizes)},
		{"elapsed", s.Elapsed.Round(time.Millisecond).String()},
		{"min frame", s.Min.String()},
		{"max frame", s.Max.String()},
		{"mean frame", s.Mean.String()},
		{"fps", fmt.Sprintf("%.1f", s.FPS())},
	})
	table.Render()
}
