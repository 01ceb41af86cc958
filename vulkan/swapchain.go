package vulkan

import (
	"unsafe"

	vk "github.com/vulkan-go/vulkan"

	"frameloop/gfx"
	"frameloop/swapchain"
)

func surface(h gfx.Handle) vk.Surface {
	return vk.SurfaceFromPointer(uintptr(h))
}

func swapchainHandle(h gfx.Handle) vk.Swapchain {
	return vk.Swapchain(toPointer(h))
}

func image(h gfx.Handle) vk.Image {
	return vk.Image(toPointer(h))
}

func imageView(h gfx.Handle) vk.ImageView {
	return vk.ImageView(toPointer(h))
}

func extent(e vk.Extent2D) gfx.Extent2D {
	e.Deref()
	return gfx.Extent2D{Width: e.Width, Height: e.Height}
}

func (d *Device) surfaceCapabilities(s gfx.Handle) (vk.SurfaceCapabilities, error) {
	var caps vk.SurfaceCapabilities
	err := check(vk.GetPhysicalDeviceSurfaceCapabilities(d.Physical, surface(s), &caps), "query surface capabilities")
	caps.Deref()
	return caps, err
}

func (d *Device) SurfaceCapabilities(s gfx.Handle) (swapchain.Capabilities, error) {
	caps, err := d.surfaceCapabilities(s)
	if err != nil {
		return swapchain.Capabilities{}, err
	}

	return swapchain.Capabilities{
		MinImageCount: caps.MinImageCount,
		MaxImageCount: caps.MaxImageCount,
		Current:       extent(caps.CurrentExtent),
		MinExtent:     extent(caps.MinImageExtent),
		MaxExtent:     extent(caps.MaxImageExtent),
	}, nil
}

func (d *Device) SurfaceFormats(s gfx.Handle) ([]swapchain.SurfaceFormat, error) {
	var count uint32
	if err := check(vk.GetPhysicalDeviceSurfaceFormats(d.Physical, surface(s), &count, nil), "count surface formats"); err != nil {
		return nil, err
	}

	formats := make([]vk.SurfaceFormat, count)
	if err := check(vk.GetPhysicalDeviceSurfaceFormats(d.Physical, surface(s), &count, formats), "query surface formats"); err != nil {
		return nil, err
	}

	result := make([]swapchain.SurfaceFormat, len(formats))
	for i, format := range formats {
		format.Deref()
		result[i] = swapchain.SurfaceFormat{
			Format:     gfx.Format(format.Format),
			ColorSpace: gfx.ColorSpace(format.ColorSpace),
		}
	}
	return result, nil
}

func (d *Device) FormatSupported(format gfx.Format, usage gfx.ImageUsage) bool {
	var properties vk.ImageFormatProperties
	res := vk.GetPhysicalDeviceImageFormatProperties(d.Physical,
		vk.Format(format),
		vk.ImageType2d,
		vk.ImageTilingOptimal,
		vk.ImageUsageFlags(usage),
		0,
		&properties)
	return res == vk.Success
}

func (d *Device) CreateSwapchain(info swapchain.CreateInfo) (gfx.Handle, error) {
	caps, err := d.surfaceCapabilities(info.Surface)
	if err != nil {
		return gfx.Null, err
	}

	createInfo := vk.SwapchainCreateInfo{
		SType:            vk.StructureTypeSwapchainCreateInfo,
		Surface:          surface(info.Surface),
		MinImageCount:    info.MinImageCount,
		ImageFormat:      vk.Format(info.Format),
		ImageColorSpace:  vk.ColorSpace(info.ColorSpace),
		ImageExtent:      vk.Extent2D{Width: info.Extent.Width, Height: info.Extent.Height},
		ImageArrayLayers: 1,
		ImageUsage:       vk.ImageUsageFlags(info.Usage),
		ImageSharingMode: vk.SharingModeExclusive,
		PreTransform:     caps.CurrentTransform,
		CompositeAlpha:   vk.CompositeAlphaOpaqueBit,
		PresentMode:      vk.PresentMode(info.PresentMode),
		Clipped:          vk.True,
		OldSwapchain:     swapchainHandle(info.Old),
	}

	var sc vk.Swapchain
	if err := check(vk.CreateSwapchain(d.Handle, &createInfo, nil, &sc), "create swapchain"); err != nil {
		return gfx.Null, err
	}

	return toHandle(unsafe.Pointer(sc)), nil
}

func (d *Device) DestroySwapchain(h gfx.Handle) {
	vk.DestroySwapchain(d.Handle, swapchainHandle(h), nil)
}

func (d *Device) SwapchainImages(h gfx.Handle) ([]gfx.Handle, error) {
	var count uint32
	if err := check(vk.GetSwapchainImages(d.Handle, swapchainHandle(h), &count, nil), "count swapchain images"); err != nil {
		return nil, err
	}

	images := make([]vk.Image, count)
	if err := check(vk.GetSwapchainImages(d.Handle, swapchainHandle(h), &count, images), "get swapchain images"); err != nil {
		return nil, err
	}

	handles := make([]gfx.Handle, len(images))
	for i, img := range images {
		handles[i] = toHandle(unsafe.Pointer(img))
	}
	return handles, nil
}

// CreateImageView creates a single-level 2D view of a color image.
func (d *Device) CreateImageView(img gfx.Handle, format gfx.Format) (gfx.Handle, error) {
	return d.createImageView(image(img), vk.Format(format), vk.ImageAspectColorBit)
}

func (d *Device) createImageView(img vk.Image, format vk.Format, aspect vk.ImageAspectFlagBits) (gfx.Handle, error) {
	createInfo := vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    img,
		ViewType: vk.ImageViewType2d,
		Format:   format,
		Components: vk.ComponentMapping{
			R: vk.ComponentSwizzleIdentity,
			G: vk.ComponentSwizzleIdentity,
			B: vk.ComponentSwizzleIdentity,
			A: vk.ComponentSwizzleIdentity,
		},
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask:     vk.ImageAspectFlags(aspect),
			BaseMipLevel:   0,
			LevelCount:     1,
			BaseArrayLayer: 0,
			LayerCount:     1,
		},
	}

	var view vk.ImageView
	if err := check(vk.CreateImageView(d.Handle, &createInfo, nil, &view), "create image view"); err != nil {
		return gfx.Null, err
	}

	return toHandle(unsafe.Pointer(view)), nil
}

func (d *Device) DestroyImageView(h gfx.Handle) {
	vk.DestroyImageView(d.Handle, imageView(h), nil)
}

func (d *Device) AcquireNextImage(sc, s gfx.Handle) (gfx.SwapchainStatus, uint32) {
	var index uint32
	res := vk.AcquireNextImage(d.Handle, swapchainHandle(sc), vk.MaxUint64, semaphore(s), vk.NullFence, &index)

	status := acquireStatus(res)
	if status == gfx.Faulty {
		logger.Errorf("failed to acquire next image: %v", vk.Error(res))
	}
	return status, index
}
