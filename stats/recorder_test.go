package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

type clock struct {
	t time.Time
}

func (c *clock) now() time.Time { return c.t }

func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestRecorder(t *testing.T) {
	c := &clock{t: time.Unix(0, 0)}
	r := &Recorder{Now: c.now}

	if s := r.Snapshot(); s.Frames != 0 || s.Mean != 0 || s.FPS() != 0 {
		t.Fatalf("expected an empty snapshot, got %+v", s)
	}

	r.Tick()
	for _, d := range []time.Duration{10, 20, 30} {
		c.advance(d * time.Millisecond)
		r.Tick()
	}
	r.Resized()

	s := r.Snapshot()
	if s.Frames != 4 {
		t.Errorf("expected 4 frames, got %d", s.Frames)
	}
	if s.Resizes != 1 {
		t.Errorf("expected 1 resize, got %d", s.Resizes)
	}
	if s.Elapsed != 60*time.Millisecond {
		t.Errorf("expected 60ms elapsed, got %v", s.Elapsed)
	}
	if s.Min != 10*time.Millisecond || s.Max != 30*time.Millisecond {
		t.Errorf("expected frame times in [10ms, 30ms], got [%v, %v]", s.Min, s.Max)
	}
	if s.Mean != 20*time.Millisecond {
		t.Errorf("expected a 20ms mean, got %v", s.Mean)
	}
	if fps := s.FPS(); fps != 50 {
		t.Errorf("expected 50 fps, got %v", fps)
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	Write(&buf, Stats{Frames: 3, Resizes: 2, Mean: 10 * time.Millisecond})

	out := buf.String()
	for _, want := range []string{"FRAMES", "3", "RESIZES", "100.0"} {
		if !strings.Contains(strings.ToUpper(out), want) {
			t.Errorf("expected %q in table:\n%s", want, out)
		}
	}
}
