package swapchain

import "frameloop/gfx"

// UndefinedExtent marks a surface whose current extent is decided by the swapchain.
const UndefinedExtent = 0xFFFFFFFF

// SurfaceFormat is a format/color space pair supported by a surface.
type SurfaceFormat struct {
	Format     gfx.Format
	ColorSpace gfx.ColorSpace
}

// Capabilities are the surface limits relevant to swapchain creation.
type Capabilities struct {
	MinImageCount uint32
	// MaxImageCount is zero when the surface imposes no maximum.
	MaxImageCount uint32
	// Current has UndefinedExtent dimensions when the surface size follows
	// the swapchain.
	Current   gfx.Extent2D
	MinExtent gfx.Extent2D
	MaxExtent gfx.Extent2D
}

// CreateInfo describes a swapchain to create.
type CreateInfo struct {
	Surface gfx.Handle
	// Old is the swapchain being replaced, or gfx.Null. The backend may reuse
	// its resources.
	Old           gfx.Handle
	MinImageCount uint32
	Format        gfx.Format
	ColorSpace    gfx.ColorSpace
	Extent        gfx.Extent2D
	Usage         gfx.ImageUsage
	PresentMode   gfx.PresentMode
}

// Device is the set of surface and swapchain capabilities a backend provides.
type Device interface {
	SurfaceCapabilities(surface gfx.Handle) (Capabilities, error)
	SurfaceFormats(surface gfx.Handle) ([]SurfaceFormat, error)
	// FormatSupported reports whether 2D optimally tiled images of format
	// can be created with usage.
	FormatSupported(format gfx.Format, usage gfx.ImageUsage) bool

	CreateSwapchain(info CreateInfo) (gfx.Handle, error)
	SwapchainImages(swapchain gfx.Handle) ([]gfx.Handle, error)
	CreateImageView(image gfx.Handle, format gfx.Format) (gfx.Handle, error)
	DestroySwapchain(swapchain gfx.Handle)
	DestroyImageView(view gfx.Handle)

	// AcquireNextImage waits without timeout for the next presentable image.
	// semaphore is signaled once the image is ready; the index is only
	// meaningful when the status is gfx.Ready.
	AcquireNextImage(swapchain, semaphore gfx.Handle) (gfx.SwapchainStatus, uint32)
}

// Platform is the windowing side of a surface.
type Platform interface {
	// FramebufferSize returns the current framebuffer size in pixels.
	FramebufferSize() (width, height int)
	// WaitEvents blocks until at least one platform event was processed.
	WaitEvents()
}
