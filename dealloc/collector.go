// Package dealloc implements deferred destruction of device objects.
//
// Objects that may still be referenced by in-flight GPU work are handed to a
// Collector instead of being destroyed on the spot. Drain destroys everything
// in the order it was collected, except that pools are pushed to the back of
// the queue once so that every allocation collected before them is released
// first.
package dealloc

import (
	"frameloop/gfx"
	"frameloop/log"
)

var logger = log.New("dealloc")

// Destroyer releases device objects of every collectable kind.
type Destroyer interface {
	DestroyFence(fence gfx.Handle)
	DestroySemaphore(semaphore gfx.Handle)
	DestroyImage(image gfx.Handle)
	DestroyImageView(view gfx.Handle)
	FreeMemory(memory gfx.Handle)
	DestroyBuffer(buffer gfx.Handle)
	DestroyFramebuffer(framebuffer gfx.Handle)
	DestroyRenderPass(renderPass gfx.Handle)
	DestroySwapchain(swapchain gfx.Handle)
	DestroyDescriptorPool(pool gfx.Handle)
	DestroyCommandPool(pool gfx.Handle)
	FreeCommandBuffers(pool gfx.Handle, cmds []gfx.Handle)
}

// Namer is implemented by destroyers that can attach debug names to objects.
type Namer interface {
	SetObjectName(kind gfx.ObjectKind, handle gfx.Handle, name string)
}

type unit struct {
	kind     gfx.ObjectKind
	handle   gfx.Handle
	extra    gfx.Handle
	name     string
	loopback bool
}

// Collector queues objects for destruction. It is not safe for concurrent
// use and must only be drained once nothing else enqueues into it.
type Collector struct {
	dev    Destroyer
	namer  Namer
	queued []unit
}

func New(dev Destroyer) *Collector {
	c := &Collector{dev: dev}
	if namer, ok := dev.(Namer); ok {
		c.namer = namer
	}
	return c
}

// Len returns the number of queued units.
func (c *Collector) Len() int {
	return len(c.queued)
}

// Collect queues a primitive object. Command pools are deferred one extra
// pass by Drain. Command buffers must go through CollectCommandBuffer.
func (c *Collector) Collect(kind gfx.ObjectKind, handle gfx.Handle, name string) *Collector {
	if kind == gfx.KindCommandBuffer {
		logger.Panicf("command buffer %q collected without its pool", name)
	}
	return c.push(unit{
		kind:     kind,
		handle:   handle,
		name:     name,
		loopback: kind == gfx.KindCommandPool,
	})
}

// CollectCommandBuffer queues a command buffer allocated from pool.
func (c *Collector) CollectCommandBuffer(cmd, pool gfx.Handle, name string) *Collector {
	return c.push(unit{
		kind:   gfx.KindCommandBuffer,
		handle: cmd,
		extra:  pool,
		name:   name,
	})
}

func (c *Collector) push(u unit) *Collector {
	if u.handle.IsNull() {
		return c
	}
	if c.namer != nil && u.name != "" {
		c.namer.SetObjectName(u.kind, u.handle, u.name)
	}
	c.queued = append(c.queued, u)
	return c
}

func (c *Collector) pop() unit {
	u := c.queued[0]
	c.queued[0] = unit{}
	c.queued = c.queued[1:]
	return u
}

// Drain destroys every queued object. The queue is empty afterwards.
func (c *Collector) Drain() {
	for len(c.queued) > 0 {
		u := c.pop()

		if u.loopback {
			u.loopback = false
			c.queued = append(c.queued, u)
			continue
		}

		logger.Debugf("destroying %s %v %q", u.kind, u.handle, u.name)
		c.destroy(u)
	}
	c.queued = nil
}

func (c *Collector) destroy(u unit) {
	switch u.kind {
	case gfx.KindCommandBuffer:
		c.dev.FreeCommandBuffers(u.extra, []gfx.Handle{u.handle})
	case gfx.KindFence:
		c.dev.DestroyFence(u.handle)
	case gfx.KindSemaphore:
		c.dev.DestroySemaphore(u.handle)
	case gfx.KindImage:
		c.dev.DestroyImage(u.handle)
	case gfx.KindImageView:
		c.dev.DestroyImageView(u.handle)
	case gfx.KindDeviceMemory:
		c.dev.FreeMemory(u.handle)
	case gfx.KindBuffer:
		c.dev.DestroyBuffer(u.handle)
	case gfx.KindFramebuffer:
		c.dev.DestroyFramebuffer(u.handle)
	case gfx.KindRenderPass:
		c.dev.DestroyRenderPass(u.handle)
	case gfx.KindSwapchain:
		c.dev.DestroySwapchain(u.handle)
	case gfx.KindDescriptorPool:
		c.dev.DestroyDescriptorPool(u.handle)
	case gfx.KindCommandPool:
		c.dev.DestroyCommandPool(u.handle)
	default:
		logger.Panicf("drop not implemented for %s handle %v (%q)", u.kind, u.handle, u.name)
	}
}
