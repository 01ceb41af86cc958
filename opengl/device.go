// Package opengl implements the frame loop's device, queue and swapchain
// contracts over an OpenGL 4.1 core context. The window's default
// framebuffer plays the swapchain, GL sync objects play fences and
// semaphores are plain ordering tokens since GL executes commands in order.
package opengl

import (
	"time"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/pkg/errors"

	"frameloop/dealloc"
	"frameloop/gfx"
	"frameloop/log"
	"frameloop/swapchain"
)

var logger = log.New("opengl")

const (
	// Format and ColorSpace describe the default framebuffer in Vulkan
	// numbering: B8G8R8A8 unorm, sRGB nonlinear.
	Format     = gfx.Format(44)
	ColorSpace = gfx.ColorSpace(0)

	// ImageCount is the number of images of the default framebuffer.
	ImageCount = 2

	// SupportedUsage is what the default framebuffer can be used for.
	SupportedUsage = gfx.UsageColorAttachment | gfx.UsageTransferSrc | gfx.UsageTransferDst

	waitTimeout = uint64(time.Second)
)

// Surface is the window owning the GL context.
type Surface interface {
	FramebufferSize() (width, height int)
	SwapBuffers()
}

type chain struct {
	extent gfx.Extent2D
	images []gfx.Handle
	next   uint32
}

// Device tracks every object handed out so leaks show up on Destroy. It
// must only be used from the thread owning the GL context.
type Device struct {
	Version string

	surface Surface
	next    gfx.Handle
	live    map[gfx.Handle]gfx.ObjectKind

	// syncs holds the pending sync object of each fence, 0 when none is
	// pending and the fence counts as signaled.
	syncs  map[gfx.Handle]uintptr
	chains map[gfx.Handle]*chain
}

// NewDevice loads the GL entry points of the current context.
func NewDevice(surface Surface) (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize OpenGL")
	}

	d := newDevice(surface)
	d.Version = gl.GoStr(gl.GetString(gl.VERSION))
	logger.Infof("OpenGL version: %s", d.Version)

	return d, nil
}

func newDevice(surface Surface) *Device {
	return &Device{
		surface: surface,
		live:    make(map[gfx.Handle]gfx.ObjectKind),
		syncs:   make(map[gfx.Handle]uintptr),
		chains:  make(map[gfx.Handle]*chain),
	}
}

func (d *Device) create(kind gfx.ObjectKind) gfx.Handle {
	d.next++
	d.live[d.next] = kind
	return d.next
}

func (d *Device) release(kind gfx.ObjectKind, h gfx.Handle) {
	if got, ok := d.live[h]; !ok || got != kind {
		logger.Warningf("destroying unknown %s handle %v", kind, h)
		return
	}
	delete(d.live, h)
}

// Live returns the number of objects not destroyed yet.
func (d *Device) Live() int {
	return len(d.live)
}

// Destroy reports leaked objects. The GL context itself belongs to the
// window.
func (d *Device) Destroy() {
	for h, kind := range d.live {
		logger.Warningf("leaked %s handle %v", kind, h)
	}
}

func (d *Device) Queue() *Queue {
	return &Queue{dev: d}
}

// NewDeviceResources returns the queue and a command pool handle. GL has no
// descriptor pools.
func NewDeviceResources(d *Device) gfx.DeviceResources {
	return gfx.DeviceResources{
		Queue:       d.Queue(),
		CommandPool: d.create(gfx.KindCommandPool),
	}
}

func (d *Device) CreateFence(signaled bool) (gfx.Handle, error) {
	h := d.create(gfx.KindFence)
	d.syncs[h] = 0
	return h, nil
}

func (d *Device) DestroyFence(h gfx.Handle) {
	if sync := d.syncs[h]; sync != 0 {
		gl.DeleteSync(sync)
	}
	delete(d.syncs, h)
	d.release(gfx.KindFence, h)
}

func (d *Device) CreateSemaphore() (gfx.Handle, error) {
	return d.create(gfx.KindSemaphore), nil
}

func (d *Device) DestroySemaphore(h gfx.Handle) {
	d.release(gfx.KindSemaphore, h)
}

// WaitAndReset waits for the work fenced by the last submission and clears
// the fence.
func (d *Device) WaitAndReset(fence gfx.Handle) error {
	sync, ok := d.syncs[fence]
	if !ok {
		return errors.Errorf("waiting on unknown fence %v", fence)
	}
	if sync == 0 {
		return nil
	}

	defer func() {
		gl.DeleteSync(sync)
		d.syncs[fence] = 0
	}()

	for {
		switch gl.ClientWaitSync(sync, gl.SYNC_FLUSH_COMMANDS_BIT, waitTimeout) {
		case gl.ALREADY_SIGNALED, gl.CONDITION_SATISFIED:
			return nil
		case gl.WAIT_FAILED:
			return errors.Errorf("failed to wait for fence %v", fence)
		}
	}
}

func (d *Device) WaitIdle() error {
	gl.Finish()
	return nil
}

func (d *Device) AllocateCommandBuffers(pool gfx.Handle, count int) ([]gfx.Handle, error) {
	if _, ok := d.live[pool]; !ok {
		return nil, errors.Errorf("allocating from unknown command pool %v", pool)
	}

	cmds := make([]gfx.Handle, count)
	for i := range cmds {
		cmds[i] = d.create(gfx.KindCommandBuffer)
	}
	return cmds, nil
}

// Commands are issued to the context as they are recorded, so command
// buffers only delimit a frame.

func (d *Device) BeginCommandBuffer(cmd gfx.Handle) error { return nil }

func (d *Device) EndCommandBuffer(cmd gfx.Handle) error { return nil }

func (d *Device) FreeCommandBuffers(pool gfx.Handle, cmds []gfx.Handle) {
	for _, cmd := range cmds {
		d.release(gfx.KindCommandBuffer, cmd)
	}
}

func (d *Device) DestroyCommandPool(h gfx.Handle)    { d.release(gfx.KindCommandPool, h) }
func (d *Device) DestroyDescriptorPool(h gfx.Handle) { d.release(gfx.KindDescriptorPool, h) }
func (d *Device) DestroyImage(h gfx.Handle)          { d.release(gfx.KindImage, h) }
func (d *Device) DestroyImageView(h gfx.Handle)      { d.release(gfx.KindImageView, h) }
func (d *Device) FreeMemory(h gfx.Handle)            { d.release(gfx.KindDeviceMemory, h) }
func (d *Device) DestroyBuffer(h gfx.Handle)         { d.release(gfx.KindBuffer, h) }
func (d *Device) DestroyFramebuffer(h gfx.Handle)    { d.release(gfx.KindFramebuffer, h) }
func (d *Device) DestroyRenderPass(h gfx.Handle)     { d.release(gfx.KindRenderPass, h) }

var (
	_ gfx.Device        = (*Device)(nil)
	_ swapchain.Device  = (*Device)(nil)
	_ dealloc.Destroyer = (*Device)(nil)
	_ gfx.Queue         = (*Queue)(nil)
)
