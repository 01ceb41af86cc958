package gfx

import "github.com/pkg/errors"

// ErrInvalidSlotCount is returned when a synchronization set is requested for
// fewer than one frame slot.
var ErrInvalidSlotCount = errors.New("gfx: frame slot count must be at least 1")

// Synchronization holds the per-slot primitives of an N-buffered frame loop.
// Processing[i] signals when the GPU finished the frame submitted from slot i,
// Available[i] when the acquired image may be rendered to and Finished[i]
// when rendering completed and the image may be presented.
type Synchronization struct {
	Processing []Handle
	Available  []Handle
	Finished   []Handle
}

// NewSynchronization creates n pre-signaled fences and 2n semaphores.
// On failure every object created so far is destroyed.
func NewSynchronization(dev SyncDevice, n int) (*Synchronization, error) {
	if n < 1 {
		return nil, ErrInvalidSlotCount
	}

	s := &Synchronization{
		Processing: make([]Handle, 0, n),
		Available:  make([]Handle, 0, n),
		Finished:   make([]Handle, 0, n),
	}

	for i := 0; i < n; i++ {
		fence, err := dev.CreateFence(true)
		if err != nil {
			s.Destroy(dev)
			return nil, errors.Wrapf(err, "creating processing fence %d", i)
		}
		s.Processing = append(s.Processing, fence)

		available, err := dev.CreateSemaphore()
		if err != nil {
			s.Destroy(dev)
			return nil, errors.Wrapf(err, "creating available semaphore %d", i)
		}
		s.Available = append(s.Available, available)

		finished, err := dev.CreateSemaphore()
		if err != nil {
			s.Destroy(dev)
			return nil, errors.Wrapf(err, "creating finished semaphore %d", i)
		}
		s.Finished = append(s.Finished, finished)
	}

	return s, nil
}

// Len returns the number of frame slots.
func (s *Synchronization) Len() int {
	return len(s.Processing)
}

// Destroy releases every primitive immediately. Only call it when no
// submission can still reference them; otherwise hand the set to a collector.
func (s *Synchronization) Destroy(dev SyncDevice) {
	for _, fence := range s.Processing {
		dev.DestroyFence(fence)
	}
	for _, sem := range s.Available {
		dev.DestroySemaphore(sem)
	}
	for _, sem := range s.Finished {
		dev.DestroySemaphore(sem)
	}
	s.Processing, s.Available, s.Finished = nil, nil, nil
}
