package vulkan

import (
	"unsafe"

	vk "github.com/vulkan-go/vulkan"

	"frameloop/gfx"
)

// NewDeviceResources creates the objects shared by every frame: the first
// queue of the device family, a resettable command pool and a descriptor
// pool for storage buffers.
func NewDeviceResources(d *Device) (gfx.DeviceResources, error) {
	pool, err := d.CreateCommandPool()
	if err != nil {
		return gfx.DeviceResources{}, err
	}

	descriptorPool, err := d.createDescriptorPool()
	if err != nil {
		d.DestroyCommandPool(pool)
		return gfx.DeviceResources{}, err
	}

	return gfx.DeviceResources{
		Queue:          d.Queue(0),
		CommandPool:    pool,
		DescriptorPool: descriptorPool,
	}, nil
}

func (d *Device) createDescriptorPool() (gfx.Handle, error) {
	poolInfo := vk.DescriptorPoolCreateInfo{
		SType:         vk.StructureTypeDescriptorPoolCreateInfo,
		Flags:         vk.DescriptorPoolCreateFlags(vk.DescriptorPoolCreateFreeDescriptorSetBit),
		MaxSets:       1 << 10,
		PoolSizeCount: 1,
		PPoolSizes: []vk.DescriptorPoolSize{{
			Type:            vk.DescriptorTypeStorageBuffer,
			DescriptorCount: 1,
		}},
	}

	var pool vk.DescriptorPool
	if err := check(vk.CreateDescriptorPool(d.Handle, &poolInfo, nil, &pool), "create descriptor pool"); err != nil {
		return gfx.Null, err
	}

	return toHandle(unsafe.Pointer(pool)), nil
}

func (d *Device) DestroyDescriptorPool(h gfx.Handle) {
	vk.DestroyDescriptorPool(d.Handle, vk.DescriptorPool(toPointer(h)), nil)
}
