package opengl

import (
	"github.com/pkg/errors"

	"frameloop/gfx"
	"frameloop/swapchain"
)

func (d *Device) framebufferExtent() gfx.Extent2D {
	w, h := d.surface.FramebufferSize()
	return gfx.Extent2D{Width: uint32(w), Height: uint32(h)}
}

// SurfaceCapabilities leaves the extent to the swapchain, which always
// follows the framebuffer size.
func (d *Device) SurfaceCapabilities(surface gfx.Handle) (swapchain.Capabilities, error) {
	return swapchain.Capabilities{
		MinImageCount: ImageCount,
		MaxImageCount: ImageCount,
		Current:       gfx.Extent2D{Width: swapchain.UndefinedExtent, Height: swapchain.UndefinedExtent},
	}, nil
}

func (d *Device) SurfaceFormats(surface gfx.Handle) ([]swapchain.SurfaceFormat, error) {
	return []swapchain.SurfaceFormat{{Format: Format, ColorSpace: ColorSpace}}, nil
}

func (d *Device) FormatSupported(format gfx.Format, usage gfx.ImageUsage) bool {
	return format == Format && SupportedUsage.Has(usage)
}

func (d *Device) CreateSwapchain(info swapchain.CreateInfo) (gfx.Handle, error) {
	if info.Format != Format {
		return gfx.Null, errors.Errorf("unsupported swapchain format %d", info.Format)
	}

	sc := d.create(gfx.KindSwapchain)
	c := &chain{extent: info.Extent}
	for i := 0; i < ImageCount; i++ {
		c.images = append(c.images, d.create(gfx.KindImage))
	}
	d.chains[sc] = c

	return sc, nil
}

// DestroySwapchain releases the swapchain and the images it owns.
func (d *Device) DestroySwapchain(h gfx.Handle) {
	if c, ok := d.chains[h]; ok {
		for _, img := range c.images {
			d.release(gfx.KindImage, img)
		}
		delete(d.chains, h)
	}
	d.release(gfx.KindSwapchain, h)
}

func (d *Device) SwapchainImages(sc gfx.Handle) ([]gfx.Handle, error) {
	c, ok := d.chains[sc]
	if !ok {
		return nil, errors.Errorf("unknown swapchain %v", sc)
	}
	return append([]gfx.Handle(nil), c.images...), nil
}

func (d *Device) CreateImageView(image gfx.Handle, format gfx.Format) (gfx.Handle, error) {
	return d.create(gfx.KindImageView), nil
}

// AcquireNextImage hands out the default framebuffer images in turn. The
// swapchain is out of date as soon as the framebuffer size changed.
func (d *Device) AcquireNextImage(sc, semaphore gfx.Handle) (gfx.SwapchainStatus, uint32) {
	c, ok := d.chains[sc]
	if !ok {
		logger.Errorf("acquiring from unknown swapchain %v", sc)
		return gfx.Faulty, 0
	}

	if d.framebufferExtent() != c.extent {
		return gfx.OutOfDate, 0
	}

	index := c.next
	c.next = (c.next + 1) % uint32(len(c.images))
	return gfx.Ready, index
}
