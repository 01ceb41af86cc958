package dealloc

import (
	"fmt"

	"frameloop/gfx"
	"frameloop/swapchain"
)

func derive(name, suffix string) string {
	if name == "" {
		return ""
	}
	return name + suffix
}

// CollectImage queues an image, its view and its memory.
func (c *Collector) CollectImage(image gfx.Image, name string) *Collector {
	return c.Collect(gfx.KindImage, image.Handle, derive(name, ".handle")).
		Collect(gfx.KindImageView, image.View, derive(name, ".view")).
		Collect(gfx.KindDeviceMemory, image.Memory, derive(name, ".memory"))
}

// CollectBuffer queues a buffer and its memory.
func (c *Collector) CollectBuffer(buffer gfx.Buffer, name string) *Collector {
	return c.Collect(gfx.KindBuffer, buffer.Handle, derive(name, ".handle")).
		Collect(gfx.KindDeviceMemory, buffer.Memory, derive(name, ".memory"))
}

// CollectSynchronization queues every fence and semaphore of a frame loop.
func (c *Collector) CollectSynchronization(sync *gfx.Synchronization, name string) *Collector {
	for i, fence := range sync.Processing {
		c.Collect(gfx.KindFence, fence, derive(name, fmt.Sprintf(".processing[%d]", i)))
	}
	for i, sem := range sync.Available {
		c.Collect(gfx.KindSemaphore, sem, derive(name, fmt.Sprintf(".available[%d]", i)))
	}
	for i, sem := range sync.Finished {
		c.Collect(gfx.KindSemaphore, sem, derive(name, fmt.Sprintf(".finished[%d]", i)))
	}
	return c
}

// CollectSwapchain queues the image views of a swapchain followed by the
// swapchain itself. The images belong to the swapchain.
func (c *Collector) CollectSwapchain(sc *swapchain.Swapchain, name string) *Collector {
	for i, view := range sc.Views {
		c.Collect(gfx.KindImageView, view, derive(name, fmt.Sprintf(".view[%d]", i)))
	}
	return c.Collect(gfx.KindSwapchain, sc.Handle, derive(name, ".swapchain"))
}

// CollectResources queues the command and descriptor pools of a device.
func (c *Collector) CollectResources(resources gfx.DeviceResources, name string) *Collector {
	return c.Collect(gfx.KindCommandPool, resources.CommandPool, derive(name, ".command pool")).
		Collect(gfx.KindDescriptorPool, resources.DescriptorPool, derive(name, ".descriptor pool"))
}
