package gfx

import (
	"errors"
	"testing"
)

type fakeSyncDevice struct {
	next       Handle
	signaled   map[Handle]bool
	semaphores map[Handle]bool
	destroyed  []Handle
	failAfter  int
}

func newFakeSyncDevice() *fakeSyncDevice {
	return &fakeSyncDevice{
		signaled:   make(map[Handle]bool),
		semaphores: make(map[Handle]bool),
		failAfter:  -1,
	}
}

var errOutOfMemory = errors.New("out of device memory")

func (d *fakeSyncDevice) alloc() (Handle, error) {
	if d.failAfter == 0 {
		return Null, errOutOfMemory
	}
	if d.failAfter > 0 {
		d.failAfter--
	}
	d.next++
	return d.next, nil
}

func (d *fakeSyncDevice) CreateFence(signaled bool) (Handle, error) {
	h, err := d.alloc()
	if err == nil {
		d.signaled[h] = signaled
	}
	return h, err
}

func (d *fakeSyncDevice) CreateSemaphore() (Handle, error) {
	h, err := d.alloc()
	if err == nil {
		d.semaphores[h] = true
	}
	return h, err
}

func (d *fakeSyncDevice) DestroyFence(fence Handle)   { d.destroyed = append(d.destroyed, fence) }
func (d *fakeSyncDevice) DestroySemaphore(sem Handle) { d.destroyed = append(d.destroyed, sem) }

func TestNewSynchronization(t *testing.T) {
	for _, n := range []int{1, 2, 3} {
		dev := newFakeSyncDevice()

		s, err := NewSynchronization(dev, n)
		if err != nil {
			t.Fatalf("n=%d: unexpected error: %v", n, err)
		}

		if s.Len() != n || len(s.Available) != n || len(s.Finished) != n {
			t.Errorf("n=%d: got %d fences, %d available, %d finished", n, s.Len(), len(s.Available), len(s.Finished))
		}

		for i, fence := range s.Processing {
			if !dev.signaled[fence] {
				t.Errorf("n=%d: fence %d was not created signaled", n, i)
			}
		}

		seen := make(map[Handle]bool)
		for _, list := range [][]Handle{s.Processing, s.Available, s.Finished} {
			for _, h := range list {
				if seen[h] {
					t.Errorf("n=%d: handle %v shared between slots", n, h)
				}
				seen[h] = true
			}
		}
		if len(seen) != 3*n {
			t.Errorf("n=%d: expected %d distinct objects, got %d", n, 3*n, len(seen))
		}
	}
}

func TestNewSynchronizationRejectsEmpty(t *testing.T) {
	if _, err := NewSynchronization(newFakeSyncDevice(), 0); err != ErrInvalidSlotCount {
		t.Errorf("expected ErrInvalidSlotCount, got %v", err)
	}
}

func TestNewSynchronizationCleansUpOnFailure(t *testing.T) {
	dev := newFakeSyncDevice()
	dev.failAfter = 4

	s, err := NewSynchronization(dev, 3)
	if err == nil {
		t.Fatal("expected an allocation error")
	}
	if s != nil {
		t.Error("expected no synchronization set on failure")
	}
	if !errors.Is(err, errOutOfMemory) {
		t.Errorf("expected wrapped allocation error, got %v", err)
	}
	if len(dev.destroyed) != 4 {
		t.Errorf("expected the 4 created objects to be destroyed, got %d", len(dev.destroyed))
	}
}

func TestObjectKindString(t *testing.T) {
	if KindCommandPool.String() != "command pool" {
		t.Errorf("unexpected name %q", KindCommandPool.String())
	}
	if ObjectKind(99).String() != "ObjectKind(99)" {
		t.Errorf("unexpected name %q", ObjectKind(99).String())
	}
}
