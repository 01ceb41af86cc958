package swapchain

import "frameloop/gfx"

// WaitStableSize blocks until the framebuffer reports the same nonzero size
// on two consecutive reads. While the framebuffer has no area (for example a
// minimized window) it sleeps on the platform event queue.
func WaitStableSize(platform Platform) (width, height int) {
	for {
		width, height = platform.FramebufferSize()
		for width == 0 || height == 0 {
			platform.WaitEvents()
			width, height = platform.FramebufferSize()
		}

		w, h := platform.FramebufferSize()
		if w == width && h == height {
			return width, height
		}
	}
}

// chooseFormat returns the first surface format usable with usage.
func chooseFormat(dev Device, formats []SurfaceFormat, usage gfx.ImageUsage) (SurfaceFormat, error) {
	for _, f := range formats {
		if dev.FormatSupported(f.Format, usage) {
			return f, nil
		}
	}
	return SurfaceFormat{}, ErrNoSurfaceFormat
}

func chooseExtent(caps Capabilities, width, height int) gfx.Extent2D {
	extent := gfx.Extent2D{Width: uint32(width), Height: uint32(height)}

	if caps.MaxExtent.Width == 0 || caps.MaxExtent.Height == 0 {
		return extent
	}

	extent.Width = clamp(extent.Width, caps.MinExtent.Width, caps.MaxExtent.Width)
	extent.Height = clamp(extent.Height, caps.MinExtent.Height, caps.MaxExtent.Height)
	return extent
}

func chooseImageCount(caps Capabilities, requested uint32) uint32 {
	count := caps.MinImageCount
	if requested > count {
		count = requested
	}
	if caps.MaxImageCount > 0 && count > caps.MaxImageCount {
		count = caps.MaxImageCount
	}
	return count
}

func clamp(v, lo, hi uint32) uint32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
