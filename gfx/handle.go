// Package gfx holds the backend-neutral object model shared by the frame
// loop, the swapchain lifecycle and the deferred resource collector.
//
// Native objects are carried as opaque 64-bit handles tagged with their kind.
// Backends (see the vulkan and opengl packages) convert between Handle and
// their own object types at the boundary.
package gfx

import "fmt"

// Handle is an opaque native object handle. The zero value is the null handle.
type Handle uint64

// Null is the null handle.
const Null Handle = 0

func (h Handle) IsNull() bool { return h == Null }

func (h Handle) String() string {
	return fmt.Sprintf("0x%x", uint64(h))
}

// ObjectKind identifies the type of object behind a Handle.
type ObjectKind int

const (
	KindUnknown ObjectKind = iota
	KindFence
	KindSemaphore
	KindImage
	KindImageView
	KindDeviceMemory
	KindBuffer
	KindFramebuffer
	KindRenderPass
	KindSwapchain
	KindDescriptorPool
	KindCommandPool
	KindCommandBuffer
)

var kindNames = [...]string{
	KindUnknown:        "unknown",
	KindFence:          "fence",
	KindSemaphore:      "semaphore",
	KindImage:          "image",
	KindImageView:      "image view",
	KindDeviceMemory:   "device memory",
	KindBuffer:         "buffer",
	KindFramebuffer:    "framebuffer",
	KindRenderPass:     "render pass",
	KindSwapchain:      "swapchain",
	KindDescriptorPool: "descriptor pool",
	KindCommandPool:    "command pool",
	KindCommandBuffer:  "command buffer",
}

func (k ObjectKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("ObjectKind(%d)", int(k))
	}
	return kindNames[k]
}
