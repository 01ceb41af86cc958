package vulkan

import (
	"unsafe"

	vk "github.com/vulkan-go/vulkan"

	"frameloop/gfx"
)

// DepthFormat is the format of images created by CreateDepthImage.
const DepthFormat = gfx.Format(vk.FormatD32Sfloat)

// CreateDepthImage creates a device local depth attachment with a view.
func (d *Device) CreateDepthImage(size gfx.Extent2D) (gfx.Image, error) {
	return d.CreateImage(size, DepthFormat, gfx.UsageDepthAttachment, vk.ImageAspectDepthBit)
}

// CreateImage creates a single-level 2D device local image with bound
// memory and a view covering it. On failure nothing is leaked.
func (d *Device) CreateImage(size gfx.Extent2D, format gfx.Format, usage gfx.ImageUsage, aspect vk.ImageAspectFlagBits) (gfx.Image, error) {
	imageInfo := vk.ImageCreateInfo{
		SType:     vk.StructureTypeImageCreateInfo,
		ImageType: vk.ImageType2d,
		Extent: vk.Extent3D{
			Width:  size.Width,
			Height: size.Height,
			Depth:  1,
		},
		MipLevels:     1,
		ArrayLayers:   1,
		Format:        vk.Format(format),
		Tiling:        vk.ImageTilingOptimal,
		InitialLayout: vk.ImageLayoutUndefined,
		Usage:         vk.ImageUsageFlags(usage),
		SharingMode:   vk.SharingModeExclusive,
		Samples:       vk.SampleCount1Bit,
	}

	var img vk.Image
	if err := check(vk.CreateImage(d.Handle, &imageInfo, nil, &img), "create image"); err != nil {
		return gfx.Image{}, err
	}

	memory, err := d.allocateImageMemory(img)
	if err != nil {
		vk.DestroyImage(d.Handle, img, nil)
		return gfx.Image{}, err
	}

	view, err := d.createImageView(img, vk.Format(format), aspect)
	if err != nil {
		vk.DestroyImage(d.Handle, img, nil)
		vk.FreeMemory(d.Handle, memory, nil)
		return gfx.Image{}, err
	}

	return gfx.Image{
		Handle: toHandle(unsafe.Pointer(img)),
		View:   view,
		Memory: toHandle(unsafe.Pointer(memory)),
		Format: format,
		Extent: size,
	}, nil
}

func (d *Device) allocateImageMemory(img vk.Image) (vk.DeviceMemory, error) {
	var requirements vk.MemoryRequirements
	vk.GetImageMemoryRequirements(d.Handle, img, &requirements)
	requirements.Deref()

	typeIndex, err := d.findMemoryType(requirements.MemoryTypeBits,
		vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit))
	if err != nil {
		return vk.NullDeviceMemory, err
	}

	allocInfo := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  requirements.Size,
		MemoryTypeIndex: typeIndex,
	}

	var memory vk.DeviceMemory
	if err := check(vk.AllocateMemory(d.Handle, &allocInfo, nil, &memory), "allocate image memory"); err != nil {
		return vk.NullDeviceMemory, err
	}

	if err := check(vk.BindImageMemory(d.Handle, img, memory, 0), "bind image memory"); err != nil {
		vk.FreeMemory(d.Handle, memory, nil)
		return vk.NullDeviceMemory, err
	}

	return memory, nil
}

func (d *Device) DestroyImage(h gfx.Handle) {
	vk.DestroyImage(d.Handle, image(h), nil)
}

func (d *Device) FreeMemory(h gfx.Handle) {
	vk.FreeMemory(d.Handle, vk.DeviceMemory(toPointer(h)), nil)
}

func (d *Device) DestroyBuffer(h gfx.Handle) {
	vk.DestroyBuffer(d.Handle, vk.Buffer(toPointer(h)), nil)
}
