package dealloc

import (
	"testing"

	"frameloop/gfx"
	"frameloop/internal/gfxtest"
	"frameloop/swapchain"
)

func kinds(destroyed []gfxtest.Destroyed) []gfx.ObjectKind {
	out := make([]gfx.ObjectKind, len(destroyed))
	for i, d := range destroyed {
		out[i] = d.Kind
	}
	return out
}

func TestDrainDefersCommandPool(t *testing.T) {
	dev := gfxtest.NewDevice()
	pool := dev.New(gfx.KindCommandPool)
	buffer := dev.New(gfx.KindBuffer)
	fence := dev.New(gfx.KindFence)

	c := New(dev)
	c.Collect(gfx.KindCommandPool, pool, "pool").
		Collect(gfx.KindBuffer, buffer, "A").
		Collect(gfx.KindFence, fence, "F")

	c.Drain()

	expected := []gfx.Handle{buffer, fence, pool}
	if len(dev.Destroyed) != len(expected) {
		t.Fatalf("expected %d destructions, got %v", len(expected), dev.Destroyed)
	}
	for i, h := range expected {
		if dev.Destroyed[i].Handle != h {
			t.Errorf("destruction %d: expected %v, got %v", i, h, dev.Destroyed[i].Handle)
		}
	}
	if c.Len() != 0 {
		t.Errorf("expected an empty queue, got %d units", c.Len())
	}
}

func TestDrainFreesCommandBuffersBeforeTheirPool(t *testing.T) {
	for _, poolFirst := range []bool{false, true} {
		dev := gfxtest.NewDevice()
		pool := dev.New(gfx.KindCommandPool)
		cmds, _ := dev.AllocateCommandBuffers(pool, 4)

		c := New(dev)
		if poolFirst {
			c.Collect(gfx.KindCommandPool, pool, "pool")
		}
		for _, cmd := range cmds {
			c.CollectCommandBuffer(cmd, pool, "cmd")
		}
		if !poolFirst {
			c.Collect(gfx.KindCommandPool, pool, "pool")
		}

		c.Drain()

		if len(dev.Destroyed) != 5 {
			t.Fatalf("poolFirst=%v: expected 5 destructions, got %d", poolFirst, len(dev.Destroyed))
		}
		for i, d := range dev.Destroyed[:4] {
			if d.Kind != gfx.KindCommandBuffer || d.Pool != pool {
				t.Errorf("poolFirst=%v: destruction %d: expected command buffer of %v, got %+v", poolFirst, i, pool, d)
			}
		}
		if last := dev.Destroyed[4]; last.Kind != gfx.KindCommandPool || last.Handle != pool {
			t.Errorf("poolFirst=%v: expected the pool last, got %+v", poolFirst, last)
		}
	}
}

func TestCompositeCollect(t *testing.T) {
	dev := gfxtest.NewDevice()
	c := New(dev)

	image := gfx.Image{
		Handle: dev.New(gfx.KindImage),
		View:   dev.New(gfx.KindImageView),
		Memory: dev.New(gfx.KindDeviceMemory),
	}
	buffer := gfx.Buffer{Handle: dev.New(gfx.KindBuffer), Memory: dev.New(gfx.KindDeviceMemory)}
	sync, err := gfx.NewSynchronization(dev, 2)
	if err != nil {
		t.Fatal(err)
	}
	sc := &swapchain.Swapchain{
		Handle: dev.New(gfx.KindSwapchain),
		Views:  []gfx.Handle{dev.New(gfx.KindImageView), dev.New(gfx.KindImageView)},
	}
	resources := gfx.DeviceResources{
		CommandPool:    dev.New(gfx.KindCommandPool),
		DescriptorPool: dev.New(gfx.KindDescriptorPool),
	}

	c.CollectImage(image, "depth").
		CollectBuffer(buffer, "vertices").
		CollectSynchronization(sync, "sync").
		CollectSwapchain(sc, "window").
		CollectResources(resources, "resources")

	if c.Len() != 3+2+6+3+2 {
		t.Fatalf("unexpected unit count %d", c.Len())
	}

	names := map[gfx.Handle]string{
		image.View:            "depth.view",
		buffer.Memory:         "vertices.memory",
		sync.Available[1]:     "sync.available[1]",
		sc.Views[1]:           "window.view[1]",
		sc.Handle:             "window.swapchain",
		resources.CommandPool: "resources.command pool",
	}
	for h, name := range names {
		if dev.Names[h] != name {
			t.Errorf("handle %v: expected name %q, got %q", h, name, dev.Names[h])
		}
	}

	c.Drain()

	got := kinds(dev.Destroyed)
	expected := []gfx.ObjectKind{
		gfx.KindImage, gfx.KindImageView, gfx.KindDeviceMemory,
		gfx.KindBuffer, gfx.KindDeviceMemory,
		gfx.KindFence, gfx.KindFence,
		gfx.KindSemaphore, gfx.KindSemaphore, gfx.KindSemaphore, gfx.KindSemaphore,
		gfx.KindImageView, gfx.KindImageView, gfx.KindSwapchain,
		gfx.KindDescriptorPool, gfx.KindCommandPool,
	}
	if len(got) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, got)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("destruction %d: expected %v, got %v", i, expected[i], got[i])
		}
	}
}

func TestCollectSkipsNullHandles(t *testing.T) {
	c := New(gfxtest.NewDevice())
	c.CollectImage(gfx.Image{Handle: 1}, "partial")

	if c.Len() != 1 {
		t.Errorf("expected only the non-null handle to be queued, got %d", c.Len())
	}
}

func TestDrainPanicsOnUnknownKind(t *testing.T) {
	c := New(gfxtest.NewDevice())
	c.Collect(gfx.KindUnknown, 42, "mystery")

	defer func() {
		if recover() == nil {
			t.Error("expected drain to panic on an unknown handle kind")
		}
	}()
	c.Drain()
}

func TestCollectCommandBufferWithoutPoolPanics(t *testing.T) {
	c := New(gfxtest.NewDevice())

	defer func() {
		if recover() == nil {
			t.Error("expected a panic")
		}
	}()
	c.Collect(gfx.KindCommandBuffer, 3, "orphan")
}
