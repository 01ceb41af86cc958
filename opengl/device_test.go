package opengl

import (
	"testing"

	"frameloop/dealloc"
	"frameloop/gfx"
	"frameloop/swapchain"
)

type window struct {
	width, height int
}

func (w *window) FramebufferSize() (int, int) { return w.width, w.height }
func (w *window) WaitEvents()                 {}
func (w *window) SwapBuffers()                {}

func glConfig() swapchain.Config {
	return swapchain.Config{Usage: SupportedUsage, PresentMode: gfx.PresentFIFO}
}

func TestSwapchainFollowsFramebuffer(t *testing.T) {
	w := &window{width: 800, height: 600}
	d := newDevice(w)

	sc, err := swapchain.New(d, w, gfx.Null, glConfig())
	if err != nil {
		t.Fatalf("creating swapchain: %v", err)
	}
	if sc.ImageCount() != ImageCount {
		t.Fatalf("expected %d images, got %d", ImageCount, sc.ImageCount())
	}

	for i := uint32(0); i < 4; i++ {
		status, index := d.AcquireNextImage(sc.Handle, gfx.Null)
		if status != gfx.Ready || index != i%ImageCount {
			t.Errorf("acquire %d: got %v/%d", i, status, index)
		}
	}

	w.width = 1024
	if status, _ := d.AcquireNextImage(sc.Handle, gfx.Null); status != gfx.OutOfDate {
		t.Errorf("expected out of date after a resize, got %v", status)
	}

	retired, err := sc.Resize(d, w)
	if err != nil {
		t.Fatalf("resizing: %v", err)
	}
	if retired == nil || retired.Handle == sc.Handle {
		t.Fatal("expected a retired swapchain distinct from the new one")
	}
	if status, _ := d.AcquireNextImage(sc.Handle, gfx.Null); status != gfx.Ready {
		t.Errorf("expected ready after the rebuild, got %v", status)
	}
	if status, _ := d.AcquireNextImage(retired.Handle, gfx.Null); status != gfx.OutOfDate {
		t.Errorf("expected the retired swapchain to stay out of date, got %v", status)
	}
}

func TestDefaultUsageIsRejected(t *testing.T) {
	w := &window{width: 64, height: 64}
	d := newDevice(w)

	if _, err := swapchain.New(d, w, gfx.Null, swapchain.DefaultConfig()); err == nil {
		t.Error("expected storage usage to be rejected by the default framebuffer")
	}
}

func TestCollectorReleasesEverything(t *testing.T) {
	w := &window{width: 320, height: 200}
	d := newDevice(w)
	resources := NewDeviceResources(d)
	collector := dealloc.New(d)

	sc, err := swapchain.New(d, w, gfx.Null, glConfig())
	if err != nil {
		t.Fatal(err)
	}

	sync, err := gfx.NewSynchronization(d, sc.ImageCount())
	if err != nil {
		t.Fatal(err)
	}

	cmds, err := d.AllocateCommandBuffers(resources.CommandPool, sc.ImageCount())
	if err != nil {
		t.Fatal(err)
	}

	if err := d.WaitAndReset(sync.Processing[0]); err != nil {
		t.Errorf("unexpected error waiting on a fresh fence: %v", err)
	}

	collector.CollectResources(resources, "gl")
	for _, cmd := range cmds {
		collector.CollectCommandBuffer(cmd, resources.CommandPool, "cmd")
	}
	collector.CollectSynchronization(sync, "sync")
	collector.CollectSwapchain(sc, "window")
	collector.Drain()

	if d.Live() != 0 {
		t.Errorf("expected every object released, %d left", d.Live())
	}
}

func TestWaitOnUnknownFence(t *testing.T) {
	d := newDevice(&window{width: 1, height: 1})
	if err := d.WaitAndReset(gfx.Handle(42)); err == nil {
		t.Error("expected an error for an unknown fence")
	}
}
