package vulkan

import (
	"unsafe"

	vk "github.com/vulkan-go/vulkan"

	"frameloop/gfx"
)

func commandBuffer(h gfx.Handle) vk.CommandBuffer {
	return vk.CommandBuffer(toPointer(h))
}

func commandBuffers(handles []gfx.Handle) []vk.CommandBuffer {
	result := make([]vk.CommandBuffer, len(handles))
	for i, h := range handles {
		result[i] = commandBuffer(h)
	}
	return result
}

func commandPool(h gfx.Handle) vk.CommandPool {
	return vk.CommandPool(toPointer(h))
}

// CreateCommandPool creates a pool for the device's queue family whose
// buffers can be reset individually.
func (d *Device) CreateCommandPool() (gfx.Handle, error) {
	poolInfo := vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: d.Family,
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
	}

	var pool vk.CommandPool
	if err := check(vk.CreateCommandPool(d.Handle, &poolInfo, nil, &pool), "create command pool"); err != nil {
		return gfx.Null, err
	}

	return toHandle(unsafe.Pointer(pool)), nil
}

func (d *Device) DestroyCommandPool(h gfx.Handle) {
	vk.DestroyCommandPool(d.Handle, commandPool(h), nil)
}

func (d *Device) AllocateCommandBuffers(pool gfx.Handle, count int) ([]gfx.Handle, error) {
	allocInfo := vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        commandPool(pool),
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: uint32(count),
	}

	buffers := make([]vk.CommandBuffer, count)
	if err := check(vk.AllocateCommandBuffers(d.Handle, &allocInfo, buffers), "allocate command buffers"); err != nil {
		return nil, err
	}

	handles := make([]gfx.Handle, count)
	for i, buffer := range buffers {
		handles[i] = toHandle(unsafe.Pointer(buffer))
	}
	return handles, nil
}

func (d *Device) FreeCommandBuffers(pool gfx.Handle, cmds []gfx.Handle) {
	vk.FreeCommandBuffers(d.Handle, commandPool(pool), uint32(len(cmds)), commandBuffers(cmds))
}

// BeginCommandBuffer starts recording; the previous contents are reset
// implicitly.
func (d *Device) BeginCommandBuffer(cmd gfx.Handle) error {
	beginInfo := vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit),
	}

	return check(vk.BeginCommandBuffer(commandBuffer(cmd), &beginInfo), "begin command buffer")
}

func (d *Device) EndCommandBuffer(cmd gfx.Handle) error {
	return check(vk.EndCommandBuffer(commandBuffer(cmd)), "end command buffer")
}
