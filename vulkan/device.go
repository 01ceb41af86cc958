package vulkan

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"

	"frameloop/dealloc"
	"frameloop/gfx"
	"frameloop/swapchain"
)

var deviceExtensions = []string{vk.KhrSwapchainExtensionName}

// Device is a logical device with a single graphics and present capable
// queue family. It implements gfx.Device, swapchain.Device and the
// collector's destroyer contract.
type Device struct {
	Physical    vk.PhysicalDevice
	Handle      vk.Device
	Family      uint32
	Properties  vk.PhysicalDeviceProperties
	MemoryProps vk.PhysicalDeviceMemoryProperties
}

type candidate struct {
	device vk.PhysicalDevice
	family uint32
	score  uint32
}

// NewDevice picks the best physical device able to present to surface and
// creates the logical device on it.
func NewDevice(instance *Instance, surface gfx.Handle) (*Device, error) {
	var count uint32
	if err := check(vk.EnumeratePhysicalDevices(instance.Handle, &count, nil), "count physical devices"); err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, errors.New("failed to find GPUs with Vulkan support")
	}

	devices := make([]vk.PhysicalDevice, count)
	if err := check(vk.EnumeratePhysicalDevices(instance.Handle, &count, devices), "enumerate physical devices"); err != nil {
		return nil, err
	}

	var best candidate
	for _, device := range devices {
		c, ok := rate(device, vk.SurfaceFromPointer(uintptr(surface)))
		if ok && c.score > best.score {
			best = c
		}
	}
	if best.score == 0 {
		return nil, errors.New("failed to find a suitable GPU")
	}

	d := &Device{
		Physical: best.device,
		Family:   best.family,
	}
	vk.GetPhysicalDeviceProperties(d.Physical, &d.Properties)
	d.Properties.Deref()
	vk.GetPhysicalDeviceMemoryProperties(d.Physical, &d.MemoryProps)
	d.MemoryProps.Deref()

	if err := d.createLogicalDevice(); err != nil {
		return nil, err
	}

	logger.Infof("using %s (%s), queue family %d", d.Name(), d.Type(), d.Family)
	return d, nil
}

func rate(device vk.PhysicalDevice, surface vk.Surface) (candidate, bool) {
	if !extensionsSupported(device) {
		return candidate{}, false
	}

	family, ok := findQueueFamily(device, surface)
	if !ok {
		return candidate{}, false
	}

	var properties vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(device, &properties)
	properties.Deref()
	properties.Limits.Deref()

	var score uint32
	if properties.DeviceType == vk.PhysicalDeviceTypeDiscreteGpu {
		score += 1000
	}
	// Maximum possible size of textures affects graphics quality
	score += properties.Limits.MaxImageDimension2D

	logger.Debugf("available device: %s (score: %d)", vk.ToString(properties.DeviceName[:]), score)
	return candidate{device: device, family: family, score: score}, true
}

func findQueueFamily(device vk.PhysicalDevice, surface vk.Surface) (uint32, bool) {
	var count uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(device, &count, nil)

	families := make([]vk.QueueFamilyProperties, count)
	vk.GetPhysicalDeviceQueueFamilyProperties(device, &count, families)

	for i, family := range families {
		family.Deref()
		if family.QueueFlags&vk.QueueFlags(vk.QueueGraphicsBit) == 0 {
			continue
		}

		var present vk.Bool32
		if vk.GetPhysicalDeviceSurfaceSupport(device, uint32(i), surface, &present) != vk.Success {
			continue
		}
		if present.B() {
			return uint32(i), true
		}
	}

	return 0, false
}

func extensionsSupported(device vk.PhysicalDevice) bool {
	var count uint32
	if vk.EnumerateDeviceExtensionProperties(device, "", &count, nil) != vk.Success {
		return false
	}

	available := make([]vk.ExtensionProperties, count)
	if vk.EnumerateDeviceExtensionProperties(device, "", &count, available) != vk.Success {
		return false
	}

	required := make(map[string]bool)
	for _, name := range deviceExtensions {
		required[name] = true
	}
	for _, extension := range available {
		extension.Deref()
		delete(required, vk.ToString(extension.ExtensionName[:]))
	}

	return len(required) == 0
}

func (d *Device) createLogicalDevice() error {
	extensions := safeStrings(deviceExtensions)

	createInfo := vk.DeviceCreateInfo{
		SType:                vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount: 1,
		PQueueCreateInfos: []vk.DeviceQueueCreateInfo{{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: d.Family,
			QueueCount:       1,
			PQueuePriorities: []float32{1.0},
		}},
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: extensions,
	}

	var device vk.Device
	if err := check(vk.CreateDevice(d.Physical, &createInfo, nil, &device), "create logical device"); err != nil {
		return err
	}
	d.Handle = device

	return nil
}

// Queue returns queue index of the device's queue family.
func (d *Device) Queue(index uint32) *Queue {
	var queue vk.Queue
	vk.GetDeviceQueue(d.Handle, d.Family, index, &queue)
	return &Queue{Handle: queue, Family: d.Family, Index: index}
}

func (d *Device) WaitIdle() error {
	return check(vk.DeviceWaitIdle(d.Handle), "wait for device idle")
}

func (d *Device) Destroy() {
	vk.DestroyDevice(d.Handle, nil)
}

func (d *Device) Name() string {
	return vk.ToString(d.Properties.DeviceName[:])
}

func (d *Device) Type() string {
	switch d.Properties.DeviceType {
	case vk.PhysicalDeviceTypeIntegratedGpu:
		return "Integrated GPU"
	case vk.PhysicalDeviceTypeDiscreteGpu:
		return "Discrete GPU"
	case vk.PhysicalDeviceTypeVirtualGpu:
		return "Virtual GPU"
	case vk.PhysicalDeviceTypeCpu:
		return "CPU"
	default:
		return "Unknown"
	}
}

func (d *Device) findMemoryType(filter uint32, properties vk.MemoryPropertyFlags) (uint32, error) {
	for i := uint32(0); i < d.MemoryProps.MemoryTypeCount; i++ {
		memType := d.MemoryProps.MemoryTypes[i]
		memType.Deref()
		if filter&(1<<i) != 0 && memType.PropertyFlags&properties == properties {
			return i, nil
		}
	}
	return 0, errors.New("failed to find suitable memory type")
}

var (
	_ gfx.Device        = (*Device)(nil)
	_ swapchain.Device  = (*Device)(nil)
	_ dealloc.Destroyer = (*Device)(nil)
	_ gfx.Queue         = (*Queue)(nil)
)
