package vulkan

import (
	"unsafe"

	vk "github.com/vulkan-go/vulkan"

	"frameloop/gfx"
)

func fence(h gfx.Handle) vk.Fence {
	return vk.Fence(toPointer(h))
}

func semaphore(h gfx.Handle) vk.Semaphore {
	return vk.Semaphore(toPointer(h))
}

func semaphores(handles []gfx.Handle) []vk.Semaphore {
	result := make([]vk.Semaphore, len(handles))
	for i, h := range handles {
		result[i] = semaphore(h)
	}
	return result
}

func (d *Device) CreateSemaphore() (gfx.Handle, error) {
	semaphoreInfo := vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
	}

	var s vk.Semaphore
	if err := check(vk.CreateSemaphore(d.Handle, &semaphoreInfo, nil, &s), "create semaphore"); err != nil {
		return gfx.Null, err
	}

	return toHandle(unsafe.Pointer(s)), nil
}

func (d *Device) DestroySemaphore(h gfx.Handle) {
	vk.DestroySemaphore(d.Handle, semaphore(h), nil)
}

func (d *Device) CreateFence(signaled bool) (gfx.Handle, error) {
	var flags vk.FenceCreateFlags
	if signaled {
		flags = vk.FenceCreateFlags(vk.FenceCreateSignaledBit)
	}

	fenceInfo := vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
		Flags: flags,
	}

	var f vk.Fence
	if err := check(vk.CreateFence(d.Handle, &fenceInfo, nil, &f), "create fence"); err != nil {
		return gfx.Null, err
	}

	return toHandle(unsafe.Pointer(f)), nil
}

func (d *Device) DestroyFence(h gfx.Handle) {
	vk.DestroyFence(d.Handle, fence(h), nil)
}

// WaitAndReset blocks until the fence signals and resets it.
func (d *Device) WaitAndReset(h gfx.Handle) error {
	fences := []vk.Fence{fence(h)}

	if err := check(vk.WaitForFences(d.Handle, 1, fences, vk.True, vk.MaxUint64), "wait for fence"); err != nil {
		return err
	}

	return check(vk.ResetFences(d.Handle, 1, fences), "reset fence")
}
