// Package gfxtest provides a scripted, recording backend for tests of the
// frame loop, swapchain lifecycle and resource collector.
package gfxtest

import (
	"fmt"

	"frameloop/gfx"
	"frameloop/swapchain"
)

// Acquire is one scripted AcquireNextImage outcome.
type Acquire struct {
	Status gfx.SwapchainStatus
	Index  uint32
}

// Destroyed records one destruction call.
type Destroyed struct {
	Kind   gfx.ObjectKind
	Handle gfx.Handle
	Pool   gfx.Handle
}

// Device records every call in Events and answers from its scripts.
// It implements gfx.Device, gfx.Queue, swapchain.Device and the collector's
// destroyer and namer contracts.
type Device struct {
	Events    []string
	Destroyed []Destroyed
	Names     map[gfx.Handle]string

	// Acquires is consumed front to back; once empty every acquire returns
	// Ready with a rotating image index.
	Acquires []Acquire
	// Presents is consumed front to back; once empty presents return Ready.
	Presents []gfx.SwapchainStatus

	Formats   []swapchain.SurfaceFormat
	Supported map[gfx.Format]bool
	Caps      swapchain.Capabilities
	// SwapchainImageCount is the number of images of every created
	// swapchain. Zero uses Caps.MinImageCount.
	SwapchainImageCount int

	Kinds    map[gfx.Handle]gfx.ObjectKind
	Signaled map[gfx.Handle]bool
	Created  []swapchain.CreateInfo

	AcquireCalls int
	PresentCalls int
	IdleCalls    int
	ResizeCalls  int

	FailSubmit error

	// FailImages makes SwapchainImages fail. FailImageViewAt makes the
	// CreateImageView call with that ordinal (see ImageViewCalls) fail.
	FailImages      error
	FailImageViewAt int
	ImageViewCalls  int

	next      gfx.Handle
	rotate    uint32
	swapchain gfx.Handle
}

func NewDevice() *Device {
	return &Device{
		Names:    make(map[gfx.Handle]string),
		Kinds:    make(map[gfx.Handle]gfx.ObjectKind),
		Signaled: make(map[gfx.Handle]bool),
		Formats: []swapchain.SurfaceFormat{
			{Format: 50, ColorSpace: 0},
			{Format: 44, ColorSpace: 0},
		},
		Caps: swapchain.Capabilities{
			MinImageCount: 2,
			MaxImageCount: 8,
			Current:       gfx.Extent2D{Width: swapchain.UndefinedExtent, Height: swapchain.UndefinedExtent},
			MinExtent:     gfx.Extent2D{Width: 1, Height: 1},
			MaxExtent:     gfx.Extent2D{Width: 16384, Height: 16384},
		},
	}
}

func (d *Device) record(format string, args ...interface{}) {
	d.Events = append(d.Events, fmt.Sprintf(format, args...))
}

// New allocates a fresh handle of kind.
func (d *Device) New(kind gfx.ObjectKind) gfx.Handle {
	d.next++
	d.Kinds[d.next] = kind
	return d.next
}

func (d *Device) CreateFence(signaled bool) (gfx.Handle, error) {
	h := d.New(gfx.KindFence)
	d.Signaled[h] = signaled
	return h, nil
}

func (d *Device) CreateSemaphore() (gfx.Handle, error) {
	return d.New(gfx.KindSemaphore), nil
}

func (d *Device) WaitAndReset(fence gfx.Handle) error {
	if !d.Signaled[fence] {
		return fmt.Errorf("gfxtest: waiting on fence %v that can never signal", fence)
	}
	d.Signaled[fence] = false
	d.record("wait %v", fence)
	return nil
}

func (d *Device) WaitIdle() error {
	d.IdleCalls++
	d.record("idle")
	return nil
}

func (d *Device) AllocateCommandBuffers(pool gfx.Handle, count int) ([]gfx.Handle, error) {
	cmds := make([]gfx.Handle, count)
	for i := range cmds {
		cmds[i] = d.New(gfx.KindCommandBuffer)
	}
	return cmds, nil
}

func (d *Device) BeginCommandBuffer(cmd gfx.Handle) error {
	d.record("begin %v", cmd)
	return nil
}

func (d *Device) EndCommandBuffer(cmd gfx.Handle) error {
	d.record("end %v", cmd)
	return nil
}

func (d *Device) Submit(cmds, wait, signal []gfx.Handle, fence gfx.Handle, stage gfx.PipelineStage) error {
	if d.FailSubmit != nil {
		return d.FailSubmit
	}
	if d.Signaled[fence] {
		return fmt.Errorf("gfxtest: submitting with fence %v that is still signaled", fence)
	}
	d.Signaled[fence] = true
	d.record("submit %v wait=%v signal=%v fence=%v stage=0x%x", cmds, wait, signal, fence, uint32(stage))
	return nil
}

func (d *Device) Present(sc gfx.Handle, wait []gfx.Handle, index uint32) gfx.SwapchainStatus {
	d.PresentCalls++
	status := gfx.Ready
	if len(d.Presents) > 0 {
		status = d.Presents[0]
		d.Presents = d.Presents[1:]
	}
	d.record("present %d wait=%v -> %v", index, wait, status)
	return status
}

func (d *Device) AcquireNextImage(sc, semaphore gfx.Handle) (gfx.SwapchainStatus, uint32) {
	d.AcquireCalls++
	next := Acquire{Status: gfx.Ready, Index: d.rotate}
	if len(d.Acquires) > 0 {
		next = d.Acquires[0]
		d.Acquires = d.Acquires[1:]
	} else {
		d.rotate = (d.rotate + 1) % uint32(d.imageCount())
	}
	d.record("acquire %v -> %v %d", semaphore, next.Status, next.Index)
	return next.Status, next.Index
}

func (d *Device) SurfaceCapabilities(surface gfx.Handle) (swapchain.Capabilities, error) {
	return d.Caps, nil
}

func (d *Device) SurfaceFormats(surface gfx.Handle) ([]swapchain.SurfaceFormat, error) {
	return d.Formats, nil
}

func (d *Device) FormatSupported(format gfx.Format, usage gfx.ImageUsage) bool {
	if d.Supported == nil {
		return true
	}
	return d.Supported[format]
}

func (d *Device) CreateSwapchain(info swapchain.CreateInfo) (gfx.Handle, error) {
	d.ResizeCalls++
	d.Created = append(d.Created, info)
	d.swapchain = d.New(gfx.KindSwapchain)
	d.record("create swapchain %dx%d", info.Extent.Width, info.Extent.Height)
	return d.swapchain, nil
}

func (d *Device) SwapchainImages(sc gfx.Handle) ([]gfx.Handle, error) {
	if d.FailImages != nil {
		return nil, d.FailImages
	}
	images := make([]gfx.Handle, d.imageCount())
	for i := range images {
		images[i] = d.New(gfx.KindImage)
	}
	return images, nil
}

func (d *Device) CreateImageView(image gfx.Handle, format gfx.Format) (gfx.Handle, error) {
	d.ImageViewCalls++
	if d.ImageViewCalls == d.FailImageViewAt {
		return gfx.Null, fmt.Errorf("gfxtest: image view %d failed", d.ImageViewCalls)
	}
	return d.New(gfx.KindImageView), nil
}

func (d *Device) imageCount() int {
	if d.SwapchainImageCount > 0 {
		return d.SwapchainImageCount
	}
	return int(d.Caps.MinImageCount)
}

func (d *Device) destroy(kind gfx.ObjectKind, h gfx.Handle) {
	d.Destroyed = append(d.Destroyed, Destroyed{Kind: kind, Handle: h})
}

func (d *Device) DestroyFence(h gfx.Handle)          { d.destroy(gfx.KindFence, h) }
func (d *Device) DestroySemaphore(h gfx.Handle)      { d.destroy(gfx.KindSemaphore, h) }
func (d *Device) DestroyImage(h gfx.Handle)          { d.destroy(gfx.KindImage, h) }
func (d *Device) DestroyImageView(h gfx.Handle)      { d.destroy(gfx.KindImageView, h) }
func (d *Device) FreeMemory(h gfx.Handle)            { d.destroy(gfx.KindDeviceMemory, h) }
func (d *Device) DestroyBuffer(h gfx.Handle)         { d.destroy(gfx.KindBuffer, h) }
func (d *Device) DestroyFramebuffer(h gfx.Handle)    { d.destroy(gfx.KindFramebuffer, h) }
func (d *Device) DestroyRenderPass(h gfx.Handle)     { d.destroy(gfx.KindRenderPass, h) }
func (d *Device) DestroySwapchain(h gfx.Handle)      { d.destroy(gfx.KindSwapchain, h) }
func (d *Device) DestroyDescriptorPool(h gfx.Handle) { d.destroy(gfx.KindDescriptorPool, h) }
func (d *Device) DestroyCommandPool(h gfx.Handle)    { d.destroy(gfx.KindCommandPool, h) }

func (d *Device) FreeCommandBuffers(pool gfx.Handle, cmds []gfx.Handle) {
	for _, cmd := range cmds {
		d.Destroyed = append(d.Destroyed, Destroyed{Kind: gfx.KindCommandBuffer, Handle: cmd, Pool: pool})
	}
}

func (d *Device) SetObjectName(kind gfx.ObjectKind, h gfx.Handle, name string) {
	d.Names[h] = name
}
